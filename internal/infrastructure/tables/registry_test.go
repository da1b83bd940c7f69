package tables

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wcsaga/forge/internal/domain/entities"
)

func writeTable(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParser_ParseTable_Dispatch(t *testing.T) {
	dir := t.TempDir()
	parser := NewParser()

	tests := []struct {
		file    string
		content string
		kind    entities.TableKind
	}{
		{"ships.tbl", "$Name: GTC Fenris\n$POF file: fenris.pof\n", entities.TableShips},
		{"weapons.tbl", "$Name: Javelin HS\n$Model File: javelin.pof\n", entities.TableWeapons},
		{"ai.tbl", "$Name: Captain\n", entities.TableAI},
		{"ai_profiles.tbl", "$Profile Name: SAGA RETAIL\n", entities.TableAIProfiles},
		{"species_defs.tbl", "$Species_Name: Terran\n", entities.TableSpecies},
		{"iff_defs.tbl", "$IFF Name: Friendly\n", entities.TableIFF},
		{"fireball.tbl", "$Name: exp20\n$Texture: exp20\n", entities.TableFireball},
		{"asteroid.tbl", "$Name: Small Asteroid\n$POF file1: ast01.pof\n", entities.TableAsteroid},
		{"m01.fs2", "+Background Bitmap: nebula01\n", entities.TableMission},
		{"saga.fc2", "+Mission File: m01.fs2\n", entities.TableCampaign},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := writeTable(t, dir, tt.file, tt.content)
			result, err := parser.ParseTable(path, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, result.Kind)
			assert.Len(t, result.Entries, 1)
		})
	}
}

func TestParser_ParseTable_Errors(t *testing.T) {
	dir := t.TempDir()
	parser := NewParser()

	t.Run("sounds table rejected", func(t *testing.T) {
		path := writeTable(t, dir, "sounds.tbl", "$Name: 76 snd.wav\n")
		_, err := parser.ParseTable(path, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "use ParseSounds")
	})

	t.Run("unrecognized file", func(t *testing.T) {
		path := writeTable(t, dir, "readme.txt", "not a table\n")
		_, err := parser.ParseTable(path, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unrecognized table file")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := parser.ParseTable(filepath.Join(dir, "ships_missing.tbl"), nil)
		assert.Error(t, err)
	})
}

func TestParser_ParseSoundTable(t *testing.T) {
	dir := t.TempDir()
	parser := NewParser()

	path := writeTable(t, dir, "sounds.tbl", "$Name: 76 snd_missile_launch.wav, 0, 0.9\n")
	sounds, err := parser.ParseSoundTable(path)
	require.NoError(t, err)
	assert.Equal(t, "snd_missile_launch.wav", sounds[76])
}
