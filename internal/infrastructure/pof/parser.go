// Package pof parses the FreeSpace 2 "Parallax Object Format" model files.
//
// A POF file is a small header (magic + version) followed by a stream of
// typed chunks. Unknown chunks are skipped by length so the parser never
// loses alignment; malformed chunk payloads are decoded from an in-memory
// copy so a bad decoder cannot corrupt the outer stream position either.
package pof

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/wcsaga/forge/internal/domain/diag"
	"github.com/wcsaga/forge/internal/domain/entities"
	"github.com/wcsaga/forge/internal/infrastructure/binaryio"
)

// Magic is 'PSPO' stored little-endian.
const Magic uint32 = 0x4F505350

// MinVersion is the oldest POF version the pipeline accepts.
const MinVersion = 1900

// MaxKnownMajor is the newest major version the parser has been verified
// against; newer files are parsed with a warning.
const MaxKnownMajor = 30

func tag(s string) uint32 {
	return uint32(s[0]) | uint32(s[1])<<8 | uint32(s[2])<<16 | uint32(s[3])<<24
}

var (
	chunkHDR2 = tag("HDR2")
	chunkOBJ2 = tag("OBJ2")
	chunkTXTR = tag("TXTR")
	chunkSPCL = tag("SPCL")
	chunkPATH = tag("PATH")
	chunkGPNT = tag("GPNT")
	chunkMPNT = tag("MPNT")
	chunkDOCK = tag("DOCK")
	chunkFUEL = tag("FUEL")
	chunkSHLD = tag("SHLD")
	chunkSLDC = tag("SLDC")
	chunkEYE  = tag("EYE ")
	chunkINSG = tag("INSG")
	chunkACEN = tag("ACEN")
	chunkGLOW = tag("GLOW")
)

const (
	maxNameLen = 256
	maxPropLen = 1024
)

// Parser decodes POF model files into entities.ModelData.
type Parser struct{}

// NewParser creates a parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads and decodes the POF file at path. A nil ModelData with an error
// means the file was rejected outright; a non-nil ModelData may still carry
// accumulated warnings.
func (p *Parser) Parse(path string) (*entities.ModelData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening model file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stating model file: %w", err)
	}

	collector := diag.NewCollector(path)
	model, err := p.parseStream(f, collector)
	if err != nil {
		return nil, err
	}
	model.Filename = path
	model.FileSize = info.Size()
	model.Warnings = collector.Messages()
	return model, nil
}

// ParseBytes decodes a POF stream held in memory.
func (p *Parser) ParseBytes(data []byte, source string) (*entities.ModelData, error) {
	collector := diag.NewCollector(source)
	model, err := p.parseStream(bytes.NewReader(data), collector)
	if err != nil {
		return nil, err
	}
	model.Filename = source
	model.FileSize = int64(len(data))
	model.Warnings = collector.Messages()
	return model, nil
}

func (p *Parser) parseStream(rs io.ReadSeeker, collector *diag.Collector) (*entities.ModelData, error) {
	r := binaryio.NewReader(rs, collector)

	magic, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if magic != Magic {
		return nil, collector.Criticalf(diag.CategoryParsing, "bad magic 0x%08X, want 0x%08X ('PSPO')", magic, Magic)
	}

	version, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	if version < MinVersion {
		return nil, collector.Criticalf(diag.CategoryValidation, "unsupported POF version %d (minimum %d)", version, MinVersion)
	}
	if version/100 > MaxKnownMajor {
		collector.Warnf(diag.CategoryValidation, "POF version %d is newer than verified major %d", version, MaxKnownMajor)
	}

	model := &entities.ModelData{Version: version}

	for {
		header, err := r.ReadChunkHeader()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if header.Length < 0 {
			collector.Errorf(diag.CategoryParsing, "chunk %q has negative length %d, stopping chunk scan", header.Tag(), header.Length)
			break
		}

		payload, err := r.ReadBytes(int(header.Length))
		if err != nil {
			return nil, err
		}
		model.ChunkCount++
		p.decodeChunk(model, header, payload, collector)
	}

	return model, nil
}

// decodeChunk dispatches a chunk payload to its decoder. Decoders operate on
// an in-memory copy, so a failure here never affects stream alignment.
func (p *Parser) decodeChunk(model *entities.ModelData, header binaryio.ChunkHeader, payload []byte, collector *diag.Collector) {
	cr := binaryio.NewBytesReader(payload, collector)

	var err error
	switch header.ID {
	case chunkHDR2:
		err = decodeHeader(model, cr, len(payload))
	case chunkOBJ2:
		err = decodeSubObject(model, cr, len(payload))
	case chunkTXTR:
		err = decodeTextures(model, cr)
	case chunkSPCL:
		err = decodeSpecialPoints(model, cr)
	case chunkPATH:
		err = decodePaths(model, cr)
	case chunkGPNT:
		model.GunBanks, err = decodeWeaponBanks(cr)
	case chunkMPNT:
		model.MissileBanks, err = decodeWeaponBanks(cr)
	case chunkDOCK:
		err = decodeDockPoints(model, cr)
	case chunkFUEL:
		err = decodeThrusters(model, cr)
	case chunkSHLD:
		err = decodeShield(model, cr)
	case chunkSLDC:
		model.ShieldTree = payload
	case chunkEYE:
		err = decodeEyePoints(model, cr)
	case chunkINSG:
		err = decodeInsignia(model, cr)
	case chunkACEN:
		err = decodeAutoCenter(model, cr)
	case chunkGLOW:
		err = decodeGlowBanks(model, cr)
	default:
		collector.Warnf(diag.CategoryParsing, "unknown chunk %q (%d bytes), skipped", header.Tag(), header.Length)
	}

	if err != nil {
		collector.Errorf(diag.CategoryParsing, "chunk %q: %v", header.Tag(), err)
	}
}
