package pof

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeModelFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.pof")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestAnalyzer_ValidFile(t *testing.T) {
	analyzer := NewAnalyzer()

	data := newPOFFile(2117).
		chunk("HDR2", minimalHeader()).
		chunk("TXTR", (&payload{}).i32(1).str("hull").bytes()).
		chunk("OBJ2", minimalSubObject("detail0", nil)).
		bytes()
	path := writeModelFile(t, data)

	analysis, err := analyzer.Analyze(path)
	require.NoError(t, err)

	assert.True(t, analysis.Valid)
	assert.Empty(t, analysis.Issues)
	assert.Equal(t, int32(2117), analysis.Version)
	assert.Equal(t, int64(len(data)), analysis.FileSize)

	require.Len(t, analysis.Chunks, 3)
	assert.Equal(t, "HDR2", analysis.Chunks[0].ID)
	assert.Equal(t, "TXTR", analysis.Chunks[1].ID)
	assert.Equal(t, "OBJ2", analysis.Chunks[2].ID)
	for _, c := range analysis.Chunks {
		assert.True(t, c.Success, "chunk %s", c.ID)
	}
	// first chunk header starts right after magic and version
	assert.Equal(t, int64(8), analysis.Chunks[0].Offset)
}

func TestAnalyzer_StructuralIssues(t *testing.T) {
	analyzer := NewAnalyzer()

	t.Run("missing header chunk", func(t *testing.T) {
		data := newPOFFile(2117).
			chunk("OBJ2", minimalSubObject("detail0", nil)).
			bytes()
		analysis, err := analyzer.Analyze(writeModelFile(t, data))
		require.NoError(t, err)
		assert.False(t, analysis.Valid)
		assert.Contains(t, analysis.Issues, "expected exactly one HDR2 chunk, found 0")
	})

	t.Run("duplicate header chunk", func(t *testing.T) {
		data := newPOFFile(2117).
			chunk("HDR2", minimalHeader()).
			chunk("HDR2", minimalHeader()).
			chunk("OBJ2", minimalSubObject("detail0", nil)).
			bytes()
		analysis, err := analyzer.Analyze(writeModelFile(t, data))
		require.NoError(t, err)
		assert.False(t, analysis.Valid)
		assert.Contains(t, analysis.Issues, "expected exactly one HDR2 chunk, found 2")
	})

	t.Run("no subobjects", func(t *testing.T) {
		data := newPOFFile(2117).
			chunk("HDR2", minimalHeader()).
			bytes()
		analysis, err := analyzer.Analyze(writeModelFile(t, data))
		require.NoError(t, err)
		assert.False(t, analysis.Valid)
		assert.Contains(t, analysis.Issues, "no OBJ2 subobject chunks")
	})

	t.Run("version below minimum", func(t *testing.T) {
		data := newPOFFile(1800).
			chunk("HDR2", minimalHeader()).
			chunk("OBJ2", minimalSubObject("detail0", nil)).
			bytes()
		analysis, err := analyzer.Analyze(writeModelFile(t, data))
		require.NoError(t, err)
		assert.False(t, analysis.Valid)
		assert.Contains(t, analysis.Issues, "version 1800 below minimum 1900")
	})

	t.Run("future version warns but stays valid", func(t *testing.T) {
		data := newPOFFile(3100).
			chunk("HDR2", minimalHeader()).
			chunk("OBJ2", minimalSubObject("detail0", nil)).
			bytes()
		analysis, err := analyzer.Analyze(writeModelFile(t, data))
		require.NoError(t, err)
		assert.True(t, analysis.Valid)
		assert.Contains(t, analysis.Warnings, "version 3100 above verified major 30")
	})
}

func TestAnalyzer_MalformedStreams(t *testing.T) {
	analyzer := NewAnalyzer()

	t.Run("bad magic", func(t *testing.T) {
		analysis, err := analyzer.Analyze(writeModelFile(t, []byte("not a model at all")))
		require.NoError(t, err)
		assert.False(t, analysis.Valid)
		require.NotEmpty(t, analysis.Issues)
		assert.Contains(t, analysis.Issues[0], "bad magic")
	})

	t.Run("negative chunk length", func(t *testing.T) {
		data := newPOFFile(2117).
			chunk("HDR2", minimalHeader()).
			rawChunk("OBJ2", -64, nil).
			bytes()
		analysis, err := analyzer.Analyze(writeModelFile(t, data))
		require.NoError(t, err)
		assert.False(t, analysis.Valid)
		assert.Contains(t, analysis.Issues, "negative chunk length -64")
		require.Len(t, analysis.Chunks, 2)
		assert.False(t, analysis.Chunks[1].Success)
	})

	t.Run("payload past EOF", func(t *testing.T) {
		data := newPOFFile(2117).
			chunk("HDR2", minimalHeader()).
			rawChunk("OBJ2", 4096, []byte{1, 2, 3}).
			bytes()
		analysis, err := analyzer.Analyze(writeModelFile(t, data))
		require.NoError(t, err)
		assert.False(t, analysis.Valid)
		require.Len(t, analysis.Chunks, 2)
		assert.Equal(t, "payload extends past EOF", analysis.Chunks[1].Error)
	})

	t.Run("truncated chunk header", func(t *testing.T) {
		data := append(newPOFFile(2117).chunk("HDR2", minimalHeader()).bytes(), 'O', 'B')
		analysis, err := analyzer.Analyze(writeModelFile(t, data))
		require.NoError(t, err)
		assert.False(t, analysis.Valid)
		found := false
		for _, issue := range analysis.Issues {
			if len(issue) > 0 && issue[:9] == "premature" {
				found = true
			}
		}
		assert.True(t, found, "expected a premature EOF issue, got %v", analysis.Issues)
	})
}
