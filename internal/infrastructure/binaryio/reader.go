// Package binaryio provides a guarded little-endian reader for the game's
// binary formats.
package binaryio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/wcsaga/forge/internal/domain/diag"
	"github.com/wcsaga/forge/internal/domain/entities"
)

// ChunkHeader is the (id, length) pair prefixing every POF chunk.
type ChunkHeader struct {
	ID     uint32
	Length int32
}

// Tag returns the chunk id as its 4-byte ASCII tag.
func (h ChunkHeader) Tag() string {
	return string([]byte{
		byte(h.ID), byte(h.ID >> 8), byte(h.ID >> 16), byte(h.ID >> 24),
	})
}

// Reader is a stateful little-endian reader bound to a seekable stream.
// Recoverable failures are recorded on the attached diag.Collector and a safe
// default is returned; short reads at a point where the caller cannot
// continue surface as errors.
type Reader struct {
	r    io.ReadSeeker
	diag *diag.Collector
	buf  [8]byte
}

// NewReader wraps a seekable stream.
func NewReader(r io.ReadSeeker, c *diag.Collector) *Reader {
	if c == nil {
		c = diag.NewCollector("")
	}
	return &Reader{r: r, diag: c}
}

// NewBytesReader wraps an in-memory buffer.
func NewBytesReader(data []byte, c *diag.Collector) *Reader {
	return NewReader(bytes.NewReader(data), c)
}

// Diagnostics returns the attached collector.
func (r *Reader) Diagnostics() *diag.Collector {
	return r.diag
}

// Tell returns the current stream position.
func (r *Reader) Tell() int64 {
	pos, err := r.r.Seek(0, io.SeekCurrent)
	if err != nil {
		return -1
	}
	return pos
}

// Seek repositions the stream.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	pos, err := r.r.Seek(offset, whence)
	if err != nil {
		return pos, fmt.Errorf("seeking to %d: %w", offset, err)
	}
	return pos, nil
}

// Skip advances the stream by n bytes.
func (r *Reader) Skip(n int64) error {
	_, err := r.Seek(n, io.SeekCurrent)
	return err
}

func (r *Reader) fill(n int) ([]byte, error) {
	b := r.buf[:n]
	if _, err := io.ReadFull(r.r, b); err != nil {
		return nil, r.diag.Criticalf(diag.CategoryIO, "short read of %d bytes at offset %d: %v", n, r.Tell(), err)
	}
	return b, nil
}

// ReadU8 reads an unsigned byte.
func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.fill(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadI8 reads a signed byte.
func (r *Reader) ReadI8() (int8, error) {
	v, err := r.ReadU8()
	return int8(v), err
}

// ReadU16 reads a little-endian unsigned 16-bit integer.
func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.fill(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadI16 reads a little-endian signed 16-bit integer.
func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

// ReadU32 reads a little-endian unsigned 32-bit integer.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.fill(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadI32 reads a little-endian signed 32-bit integer.
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadF32 reads a little-endian 32-bit float.
func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadF64 reads a little-endian 64-bit float.
func (r *Reader) ReadF64() (float64, error) {
	b, err := r.fill(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// ReadBytes reads exactly n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, r.diag.Criticalf(diag.CategoryValidation, "negative byte count %d", n)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r.r, b); err != nil {
		return nil, r.diag.Criticalf(diag.CategoryIO, "short read of %d bytes at offset %d: %v", n, r.Tell(), err)
	}
	return b, nil
}

// ReadCString scans to a null terminator, consuming at most max bytes. A
// missing terminator within max bytes records a warning and returns the
// bytes read so far.
func (r *Reader) ReadCString(max int) (string, error) {
	var out []byte
	for i := 0; i < max; i++ {
		b, err := r.ReadU8()
		if err != nil {
			return "", err
		}
		if b == 0 {
			return string(out), nil
		}
		out = append(out, b)
	}
	r.diag.Warnf(diag.CategoryParsing, "unterminated string after %d bytes", max)
	return string(out), nil
}

// ReadString reads a length-prefixed string, clamping the declared length to
// max with a warning; the clamped remainder is skipped to keep alignment.
func (r *Reader) ReadString(max int) (string, error) {
	n, err := r.ReadI32()
	if err != nil {
		return "", err
	}
	if n < 0 {
		r.diag.Warnf(diag.CategoryParsing, "negative string length %d, treated as empty", n)
		return "", nil
	}
	length := int(n)
	skip := 0
	if length > max {
		r.diag.Warnf(diag.CategoryParsing, "string length %d exceeds maximum %d, truncated", length, max)
		skip = length - max
		length = max
	}
	b, err := r.ReadBytes(length)
	if err != nil {
		return "", err
	}
	if skip > 0 {
		if err := r.Skip(int64(skip)); err != nil {
			return "", err
		}
	}
	// Some writers null-pad the declared length.
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b), nil
}

// ReadVector3 reads three consecutive floats. A short read records a warning
// and yields the zero vector.
func (r *Reader) ReadVector3() (entities.Vector3, error) {
	var v entities.Vector3
	var err error
	if v.X, err = r.ReadF32(); err != nil {
		return entities.Vector3{}, err
	}
	if v.Y, err = r.ReadF32(); err != nil {
		return entities.Vector3{}, err
	}
	if v.Z, err = r.ReadF32(); err != nil {
		return entities.Vector3{}, err
	}
	return v, nil
}

// ReadMatrix3x3 reads nine consecutive floats row-major.
func (r *Reader) ReadMatrix3x3() (entities.Matrix3x3, error) {
	m := entities.IdentityMatrix()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v, err := r.ReadF32()
			if err != nil {
				return entities.IdentityMatrix(), err
			}
			m[i][j] = v
		}
	}
	return m, nil
}

// ReadChunkHeader reads the (id, length) pair prefixing a POF chunk. io.EOF
// is returned untouched so callers can detect a clean end of stream.
func (r *Reader) ReadChunkHeader() (ChunkHeader, error) {
	b := r.buf[:4]
	if _, err := io.ReadFull(r.r, b); err != nil {
		if err == io.EOF {
			return ChunkHeader{}, io.EOF
		}
		return ChunkHeader{}, r.diag.Criticalf(diag.CategoryIO, "truncated chunk header at offset %d: %v", r.Tell(), err)
	}
	id := binary.LittleEndian.Uint32(b)
	length, err := r.ReadI32()
	if err != nil {
		return ChunkHeader{}, err
	}
	return ChunkHeader{ID: id, Length: length}, nil
}
