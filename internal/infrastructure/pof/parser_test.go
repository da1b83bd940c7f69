package pof

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wcsaga/forge/internal/domain/entities"
)

// payload builds little-endian chunk payloads for test POF streams.
type payload struct {
	buf bytes.Buffer
}

func (p *payload) u32(v uint32) *payload {
	binary.Write(&p.buf, binary.LittleEndian, v)
	return p
}

func (p *payload) i32(v int32) *payload {
	binary.Write(&p.buf, binary.LittleEndian, v)
	return p
}

func (p *payload) f32(v float32) *payload {
	binary.Write(&p.buf, binary.LittleEndian, v)
	return p
}

func (p *payload) vec(x, y, z float32) *payload {
	return p.f32(x).f32(y).f32(z)
}

// str writes a length-prefixed string the way POF stores names.
func (p *payload) str(s string) *payload {
	p.i32(int32(len(s)))
	p.buf.WriteString(s)
	return p
}

func (p *payload) raw(b []byte) *payload {
	p.buf.Write(b)
	return p
}

func (p *payload) bytes() []byte {
	return p.buf.Bytes()
}

// pofFile assembles a complete POF stream: magic, version, chunks.
type pofFile struct {
	buf bytes.Buffer
}

func newPOFFile(version int32) *pofFile {
	f := &pofFile{}
	binary.Write(&f.buf, binary.LittleEndian, Magic)
	binary.Write(&f.buf, binary.LittleEndian, version)
	return f
}

func (f *pofFile) chunk(tag string, body []byte) *pofFile {
	f.buf.WriteString(tag)
	binary.Write(&f.buf, binary.LittleEndian, int32(len(body)))
	f.buf.Write(body)
	return f
}

// rawChunk writes a chunk header with an explicit length, for malformed
// stream tests.
func (f *pofFile) rawChunk(tag string, declaredLen int32, body []byte) *pofFile {
	f.buf.WriteString(tag)
	binary.Write(&f.buf, binary.LittleEndian, declaredLen)
	f.buf.Write(body)
	return f
}

func (f *pofFile) bytes() []byte {
	return f.buf.Bytes()
}

func minimalHeader() []byte {
	p := &payload{}
	p.f32(120.5)  // max radius
	p.u32(0)      // flags
	p.i32(1)      // subobject count
	p.vec(-10, -20, -30)
	p.vec(10, 20, 30)
	for i := 0; i < 8; i++ {
		p.i32(-1)
	}
	for i := 0; i < 32; i++ {
		p.i32(-1)
	}
	return p.bytes()
}

func minimalSubObject(name string, bsp []byte) []byte {
	p := &payload{}
	p.i32(0)     // index
	p.f32(50.0)  // radius
	p.i32(-1)    // parent
	p.vec(0, 0, 0)
	p.vec(0, 0, 0)
	p.vec(-5, -5, -5)
	p.vec(5, 5, 5)
	p.str(name)
	p.str("$special=subsystem")
	p.i32(-1) // movement type
	p.i32(-1) // movement axis
	p.raw(bsp)
	return p.bytes()
}

func TestParser_ParseBytes(t *testing.T) {
	parser := NewParser()

	bsp := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	textures := (&payload{}).i32(2).str("fighter01").str("fighter01-glow").bytes()
	data := newPOFFile(2117).
		chunk("HDR2", minimalHeader()).
		chunk("TXTR", textures).
		chunk("OBJ2", minimalSubObject("detail0", bsp)).
		bytes()

	model, err := parser.ParseBytes(data, "fighter.pof")
	require.NoError(t, err)
	require.NotNil(t, model)

	assert.Equal(t, "fighter.pof", model.Filename)
	assert.Equal(t, int64(len(data)), model.FileSize)
	assert.Equal(t, int32(2117), model.Version)
	assert.Equal(t, 3, model.ChunkCount)

	assert.InDelta(t, 120.5, model.Header.MaxRadius, 1e-6)
	assert.Equal(t, int32(1), model.Header.NumSubobjects)
	assert.Equal(t, entities.Vector3{X: -10, Y: -20, Z: -30}, model.Header.MinBounding)

	assert.Equal(t, []string{"fighter01", "fighter01-glow"}, model.Textures)

	require.Len(t, model.SubObjects, 1)
	so := model.SubObjects[0]
	assert.Equal(t, "detail0", so.Name)
	assert.Equal(t, "$special=subsystem", so.Properties)
	assert.Equal(t, int32(-1), so.Parent)
	assert.Equal(t, bsp, so.BSPData)
	assert.Equal(t, len(bsp), so.BSPSize)

	assert.Empty(t, model.Warnings)
}

func TestParser_ParseFile(t *testing.T) {
	parser := NewParser()

	data := newPOFFile(2117).
		chunk("HDR2", minimalHeader()).
		chunk("OBJ2", minimalSubObject("detail0", nil)).
		bytes()
	path := filepath.Join(t.TempDir(), "corvette.pof")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	model, err := parser.Parse(path)
	require.NoError(t, err)
	assert.Equal(t, path, model.Filename)
	assert.Equal(t, int64(len(data)), model.FileSize)
	assert.Equal(t, 2, model.ChunkCount)
}

func TestParser_RejectsBadStreams(t *testing.T) {
	parser := NewParser()

	t.Run("bad magic", func(t *testing.T) {
		data := append([]byte("OPSP"), newPOFFile(2117).bytes()[4:]...)
		model, err := parser.ParseBytes(data, "bad.pof")
		require.Error(t, err)
		assert.Nil(t, model)
		assert.Contains(t, err.Error(), "bad magic")
	})

	t.Run("version below minimum", func(t *testing.T) {
		data := newPOFFile(1800).chunk("HDR2", minimalHeader()).bytes()
		model, err := parser.ParseBytes(data, "old.pof")
		require.Error(t, err)
		assert.Nil(t, model)
		assert.Contains(t, err.Error(), "unsupported POF version 1800")
	})

	t.Run("truncated header", func(t *testing.T) {
		model, err := parser.ParseBytes([]byte{0x50, 0x53}, "short.pof")
		require.Error(t, err)
		assert.Nil(t, model)
	})
}

func TestParser_NewMajorVersionWarns(t *testing.T) {
	parser := NewParser()

	data := newPOFFile(3100).
		chunk("HDR2", minimalHeader()).
		chunk("OBJ2", minimalSubObject("detail0", nil)).
		bytes()

	model, err := parser.ParseBytes(data, "future.pof")
	require.NoError(t, err)
	require.NotEmpty(t, model.Warnings)
	assert.Contains(t, model.Warnings[0], "newer than verified major")
}

func TestParser_UnknownChunkSkipped(t *testing.T) {
	parser := NewParser()

	data := newPOFFile(2117).
		chunk("HDR2", minimalHeader()).
		chunk("ZZZZ", []byte{1, 2, 3, 4, 5, 6, 7, 8}).
		chunk("TXTR", (&payload{}).i32(1).str("hull").bytes()).
		bytes()

	model, err := parser.ParseBytes(data, "odd.pof")
	require.NoError(t, err)

	// the unknown chunk is skipped by length, so the texture table after it
	// still decodes
	assert.Equal(t, []string{"hull"}, model.Textures)
	assert.Equal(t, 3, model.ChunkCount)

	found := false
	for _, w := range model.Warnings {
		if strings.Contains(w, `unknown chunk "ZZZZ"`) {
			found = true
		}
	}
	assert.True(t, found, "expected an unknown-chunk warning, got %v", model.Warnings)
}

func TestParser_NegativeChunkLengthStopsScan(t *testing.T) {
	parser := NewParser()

	data := newPOFFile(2117).
		chunk("HDR2", minimalHeader()).
		rawChunk("OBJ2", -16, nil).
		bytes()

	model, err := parser.ParseBytes(data, "broken.pof")
	require.NoError(t, err)
	assert.Equal(t, 1, model.ChunkCount)

	found := false
	for _, w := range model.Warnings {
		if strings.Contains(w, "negative length") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestParser_DockPoints(t *testing.T) {
	parser := NewParser()

	dockBody := func(nslots int32) []byte {
		p := &payload{}
		p.i32(1)                 // dock count
		p.str("$name=cargo")     // properties
		p.i32(1).i32(7)          // spline paths
		p.i32(nslots)            // declared slot count
		p.vec(0, 0, 1).vec(0, 1, 0) // slot pair 0
		p.vec(0, 0, 2).vec(0, 1, 0) // slot pair 1
		return p.bytes()
	}

	t.Run("two slots", func(t *testing.T) {
		data := newPOFFile(2117).
			chunk("HDR2", minimalHeader()).
			chunk("OBJ2", minimalSubObject("detail0", nil)).
			chunk("DOCK", dockBody(2)).
			bytes()
		model, err := parser.ParseBytes(data, "dock.pof")
		require.NoError(t, err)
		require.Len(t, model.DockPoints, 1)
		dock := model.DockPoints[0]
		assert.Equal(t, "$name=cargo", dock.Properties)
		assert.Equal(t, []int32{7}, dock.SplinePath)
		assert.Len(t, dock.Slots, 2)
		assert.Empty(t, model.Warnings)
	})

	t.Run("bogus slot count keeps stored pairs", func(t *testing.T) {
		data := newPOFFile(2117).
			chunk("HDR2", minimalHeader()).
			chunk("OBJ2", minimalSubObject("detail0", nil)).
			chunk("DOCK", dockBody(5)).
			bytes()
		model, err := parser.ParseBytes(data, "dock.pof")
		require.NoError(t, err)
		require.Len(t, model.DockPoints, 1)
		assert.Len(t, model.DockPoints[0].Slots, 2)
		require.NotEmpty(t, model.Warnings)
		assert.Contains(t, model.Warnings[0], "declares 5 slots")
	})
}

func TestParser_ShieldDropsBadFaces(t *testing.T) {
	parser := NewParser()

	shield := &payload{}
	shield.i32(3) // vertices
	shield.vec(0, 0, 0).vec(1, 0, 0).vec(0, 1, 0)
	shield.i32(2) // faces
	// good face
	shield.vec(0, 0, 1)
	shield.i32(0).i32(1).i32(2)
	shield.i32(-1).i32(-1).i32(-1)
	// face referencing vertex 9, which does not exist
	shield.vec(0, 0, 1)
	shield.i32(0).i32(1).i32(9)
	shield.i32(-1).i32(-1).i32(-1)

	data := newPOFFile(2117).
		chunk("HDR2", minimalHeader()).
		chunk("OBJ2", minimalSubObject("detail0", nil)).
		chunk("SHLD", shield.bytes()).
		bytes()

	model, err := parser.ParseBytes(data, "shield.pof")
	require.NoError(t, err)
	require.NotNil(t, model.Shield)
	assert.Len(t, model.Shield.Vertices, 3)
	assert.Len(t, model.Shield.Faces, 1)
	assert.Equal(t, [3]int32{0, 1, 2}, model.Shield.Faces[0].Vertices)

	require.NotEmpty(t, model.Warnings)
	assert.Contains(t, model.Warnings[0], "out-of-range index")
}

func TestParser_WeaponBanksAndThrusters(t *testing.T) {
	parser := NewParser()

	guns := &payload{}
	guns.i32(2)                            // banks
	guns.i32(1).vec(1, 0, 5).vec(0, 0, 1)  // bank 0, one slot
	guns.i32(2)                            // bank 1, two slots
	guns.vec(-1, 0, 5).vec(0, 0, 1)
	guns.vec(1, 0, 5).vec(0, 0, 1)

	fuel := &payload{}
	fuel.i32(1) // thrusters
	fuel.i32(1) // points
	fuel.str("$engine_subsystem=engine01")
	fuel.vec(0, 0, -10).vec(0, 0, -1).f32(1.5)

	data := newPOFFile(2117).
		chunk("HDR2", minimalHeader()).
		chunk("OBJ2", minimalSubObject("detail0", nil)).
		chunk("GPNT", guns.bytes()).
		chunk("FUEL", fuel.bytes()).
		bytes()

	model, err := parser.ParseBytes(data, "armed.pof")
	require.NoError(t, err)

	require.Len(t, model.GunBanks, 2)
	assert.Len(t, model.GunBanks[0].Slots, 1)
	assert.Len(t, model.GunBanks[1].Slots, 2)
	assert.Equal(t, entities.Vector3{X: 1, Y: 0, Z: 5}, model.GunBanks[0].Slots[0].Position)

	require.Len(t, model.Thrusters, 1)
	thr := model.Thrusters[0]
	assert.Equal(t, "$engine_subsystem=engine01", thr.Properties)
	require.Len(t, thr.Points, 1)
	assert.InDelta(t, 1.5, thr.Points[0].Radius, 1e-6)
}

func TestParser_MalformedChunkDoesNotBreakAlignment(t *testing.T) {
	parser := NewParser()

	// TXTR declaring more strings than its payload holds: the decoder fails
	// partway through its in-memory copy, but the next chunk still decodes.
	badTextures := (&payload{}).i32(5).str("only-one").bytes()
	data := newPOFFile(2117).
		chunk("HDR2", minimalHeader()).
		chunk("TXTR", badTextures).
		chunk("OBJ2", minimalSubObject("detail0", nil)).
		bytes()

	model, err := parser.ParseBytes(data, "hostile.pof")
	require.NoError(t, err)
	require.Len(t, model.SubObjects, 1)
	assert.Equal(t, "detail0", model.SubObjects[0].Name)
	assert.NotEmpty(t, model.Warnings)
}
