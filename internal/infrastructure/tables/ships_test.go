package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wcsaga/forge/internal/domain/entities"
)

const shipsTable = `#Ship Classes

$Name: GTC Fenris
$POF file: fenris.pof
$Texture Replace:
+old: fenris_hull
+new: fenris_hull_mk2
+old: fenris_glow
+new: fenris_glow_mk2

$Name: @Scimitar ; player-flyable variant
$POF file: scimitar.pof

$Name: 42
$POF file: ghost.pof

$Name: GTF Myrmidon
$POF file: none

#End
`

func TestParseShips(t *testing.T) {
	result := ParseShipsContent("ships.tbl", []byte(shipsTable))

	assert.Equal(t, entities.TableShips, result.Kind)
	assert.Equal(t, "ships.tbl", result.Source)
	require.Len(t, result.Entries, 3)

	fenris := result.Entries[0]
	assert.Equal(t, "GTC Fenris", fenris.Name)
	assert.Equal(t, "fenris.pof", fenris.Properties["pof_file"])
	reps, ok := fenris.Properties["texture_replace"].([]entities.TextureReplacement)
	require.True(t, ok)
	assert.Equal(t, []entities.TextureReplacement{
		{Old: "fenris_hull", New: "fenris_hull_mk2"},
		{Old: "fenris_glow", New: "fenris_glow_mk2"},
	}, reps)
	assert.Empty(t, fenris.Errors)

	// the @ marker is stripped from ship names
	scimitar := result.Entries[1]
	assert.Equal(t, "Scimitar", scimitar.Name)
	assert.Equal(t, "scimitar.pof", scimitar.Properties["pof_file"])

	// "$Name: 42" is dropped with a warning; its $POF file line has no entry
	// to attach to
	myrmidon := result.Entries[2]
	assert.Equal(t, "GTF Myrmidon", myrmidon.Name)
	assert.NotContains(t, myrmidon.Properties, "pof_file")
	require.Len(t, myrmidon.Errors, 1)
	assert.Contains(t, myrmidon.Errors[0], "missing $POF file")

	require.Len(t, result.Diagnostics, 1)
	assert.Contains(t, result.Diagnostics[0].Message, `invalid ship name "42"`)
}

func TestParseShips_Empty(t *testing.T) {
	result := ParseShipsContent("empty.tbl", nil)
	assert.Empty(t, result.Entries)
	assert.Empty(t, result.Diagnostics)
}
