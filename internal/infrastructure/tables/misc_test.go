package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wcsaga/forge/internal/domain/entities"
)

func TestParseFireball(t *testing.T) {
	content := `#Start

$Name: exp20
$Texture: exp20
$LOD: 1

$Name: WarpMap01
$Texture: warpmap01

#End
`
	result := ParseFireballContent("fireball.tbl", []byte(content))

	assert.Equal(t, entities.TableFireball, result.Kind)
	require.Len(t, result.Entries, 2)
	assert.Equal(t, "exp20", result.Entries[0].Name)
	assert.Equal(t, "exp20", result.Entries[0].Properties["texture"])
	assert.Equal(t, "warpmap01", result.Entries[1].Properties["texture"])
}

func TestParseAsteroid(t *testing.T) {
	content := `#Asteroid Types

$Name: Small Asteroid
$POF file1: ast01.pof
$POF file2: asta01.pof

$Name: Debris Chunk
$POF file1: debris01.pof
$POF file2: none

#End
`
	result := ParseAsteroidContent("asteroid.tbl", []byte(content))

	assert.Equal(t, entities.TableAsteroid, result.Kind)
	require.Len(t, result.Entries, 2)

	small := result.Entries[0]
	assert.Equal(t, "Small Asteroid", small.Name)
	assert.Equal(t, []string{"ast01.pof", "asta01.pof"}, small.Properties["models"])
	// the first declared model doubles as the primary reference
	assert.Equal(t, "ast01.pof", small.Properties["model_file"])

	chunk := result.Entries[1]
	assert.Equal(t, []string{"debris01.pof"}, chunk.Properties["models"])
}
