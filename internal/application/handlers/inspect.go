package handlers

import (
	"context"

	"github.com/wcsaga/forge/internal/domain/entities"
	"github.com/wcsaga/forge/internal/domain/ports"
	"github.com/wcsaga/forge/internal/infrastructure/pof"
)

// InspectHandler exposes the model parser and analyzer for direct
// inspection of POF files.
type InspectHandler struct {
	parser   ports.ModelParser
	analyzer *pof.Analyzer
}

// NewInspectHandler creates an InspectHandler.
func NewInspectHandler(parser ports.ModelParser, analyzer *pof.Analyzer) *InspectHandler {
	return &InspectHandler{
		parser:   parser,
		analyzer: analyzer,
	}
}

// ModelInfo is the summary printed by `forge pof info`.
type ModelInfo struct {
	Filename      string   `json:"filename"`
	Version       int32    `json:"version"`
	FileSize      int64    `json:"file_size"`
	ChunkCount    int      `json:"chunk_count"`
	SubObjects    int      `json:"subobjects"`
	Textures      []string `json:"textures,omitempty"`
	MaxRadius     float32  `json:"max_radius"`
	DockPoints    int      `json:"dock_points"`
	Thrusters     int      `json:"thrusters"`
	WeaponBanks   int      `json:"weapon_banks"`
	ShieldFaces   int      `json:"shield_faces"`
	SpecialPoints int      `json:"special_points"`
	Warnings      []string `json:"warnings,omitempty"`
}

// HandleInfo parses a model and returns its structural summary.
func (h *InspectHandler) HandleInfo(ctx context.Context, path string) (*ModelInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	model, err := h.parser.Parse(path)
	if err != nil {
		return nil, err
	}

	info := &ModelInfo{
		Filename:      model.Filename,
		Version:       model.Version,
		FileSize:      model.FileSize,
		ChunkCount:    model.ChunkCount,
		SubObjects:    len(model.SubObjects),
		Textures:      model.Textures,
		DockPoints:    len(model.DockPoints),
		Thrusters:     len(model.Thrusters),
		WeaponBanks:   len(model.GunBanks) + len(model.MissileBanks),
		SpecialPoints: len(model.SpecialPoints),
		MaxRadius:     model.Header.MaxRadius,
		Warnings:      model.Warnings,
	}
	if model.Shield != nil {
		info.ShieldFaces = len(model.Shield.Faces)
	}
	return info, nil
}

// HandleAnalyze scans a model's chunk structure without decoding payloads.
func (h *InspectHandler) HandleAnalyze(ctx context.Context, path string) (*pof.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return h.analyzer.Analyze(path)
}

// ChunkSummary flattens the analysis chunk list for display.
func ChunkSummary(analysis *pof.Analysis) []entities.ChunkInfo {
	return analysis.Chunks
}
