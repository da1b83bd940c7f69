package pof

import (
	"fmt"
	"io"
	"os"

	"github.com/wcsaga/forge/internal/domain/diag"
	"github.com/wcsaga/forge/internal/domain/entities"
	"github.com/wcsaga/forge/internal/infrastructure/binaryio"
)

// Analysis is the result of a structural scan of a POF file. Chunks are
// recorded but not decoded.
type Analysis struct {
	Filename string               `json:"filename"`
	FileSize int64                `json:"file_size"`
	Version  int32                `json:"version"`
	Chunks   []entities.ChunkInfo `json:"chunks"`
	Issues   []string             `json:"issues,omitempty"`
	Warnings []string             `json:"warnings,omitempty"`
	Valid    bool                 `json:"valid"`
}

// Analyzer walks the chunk stream of a POF file without decoding payloads,
// checking format compliance: exactly one HDR2, at least one OBJ2, version in
// range, no negative chunk lengths, no premature EOF.
type Analyzer struct{}

// NewAnalyzer creates an analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze scans the file at path.
func (a *Analyzer) Analyze(path string) (*Analysis, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening model file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stating model file: %w", err)
	}

	analysis := &Analysis{Filename: path, FileSize: info.Size()}
	a.scan(f, analysis)
	a.validate(analysis)
	return analysis, nil
}

func (a *Analyzer) scan(f io.ReadSeeker, analysis *Analysis) {
	collector := diag.NewCollector(analysis.Filename)
	r := binaryio.NewReader(f, collector)

	magic, err := r.ReadU32()
	if err != nil || magic != Magic {
		analysis.Issues = append(analysis.Issues, fmt.Sprintf("bad magic 0x%08X", magic))
		return
	}
	analysis.Version, err = r.ReadI32()
	if err != nil {
		analysis.Issues = append(analysis.Issues, "truncated version field")
		return
	}

	for {
		offset := r.Tell()
		header, err := r.ReadChunkHeader()
		if err == io.EOF {
			return
		}
		if err != nil {
			analysis.Issues = append(analysis.Issues, fmt.Sprintf("premature EOF in chunk header at offset %d", offset))
			return
		}

		info := entities.ChunkInfo{
			ID:     header.Tag(),
			Offset: offset,
			Length: header.Length,
		}
		if header.Length < 0 {
			info.Error = fmt.Sprintf("negative chunk length %d", header.Length)
			analysis.Chunks = append(analysis.Chunks, info)
			analysis.Issues = append(analysis.Issues, info.Error)
			return
		}
		if err := r.Skip(int64(header.Length)); err != nil {
			info.Error = "payload extends past EOF"
			analysis.Chunks = append(analysis.Chunks, info)
			analysis.Issues = append(analysis.Issues, fmt.Sprintf("chunk %q payload extends past EOF", info.ID))
			return
		}
		// The payload may end exactly at EOF; a skip that lands past the end
		// only shows up on the next header read.
		if r.Tell() > analysis.FileSize {
			info.Error = "payload extends past EOF"
			analysis.Chunks = append(analysis.Chunks, info)
			analysis.Issues = append(analysis.Issues, fmt.Sprintf("chunk %q payload extends past EOF", info.ID))
			return
		}
		info.Success = true
		analysis.Chunks = append(analysis.Chunks, info)
	}
}

func (a *Analyzer) validate(analysis *Analysis) {
	if analysis.Version != 0 {
		if analysis.Version < MinVersion {
			analysis.Issues = append(analysis.Issues, fmt.Sprintf("version %d below minimum %d", analysis.Version, MinVersion))
		}
		if analysis.Version/100 > MaxKnownMajor {
			analysis.Warnings = append(analysis.Warnings, fmt.Sprintf("version %d above verified major %d", analysis.Version, MaxKnownMajor))
		}
	}

	headers, objects := 0, 0
	for i := range analysis.Chunks {
		switch analysis.Chunks[i].ID {
		case "HDR2":
			headers++
		case "OBJ2":
			objects++
		}
	}
	if headers != 1 {
		analysis.Issues = append(analysis.Issues, fmt.Sprintf("expected exactly one HDR2 chunk, found %d", headers))
	}
	if objects == 0 {
		analysis.Issues = append(analysis.Issues, "no OBJ2 subobject chunks")
	}

	analysis.Valid = len(analysis.Issues) == 0
}
