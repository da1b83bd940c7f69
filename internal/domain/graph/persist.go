package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wcsaga/forge/internal/domain/entities"
)

// The persisted JSON shape is a contract with downstream tooling:
// nodes carry their attributes in a properties map, edges are from/to pairs
// with typed properties, and timestamps are unix seconds as floats.
type graphFile struct {
	Nodes    []nodeRecord `json:"nodes"`
	Edges    []edgeRecord `json:"edges"`
	Metadata fileMetadata `json:"metadata"`
}

type nodeRecord struct {
	ID         string         `json:"id"`
	Properties map[string]any `json:"properties"`
}

type edgeRecord struct {
	From       string         `json:"from"`
	To         string         `json:"to"`
	Properties map[string]any `json:"properties"`
}

type fileMetadata struct {
	LastUpdated float64 `json:"last_updated"`
	NodeCount   int     `json:"node_count"`
	EdgeCount   int     `json:"edge_count"`
}

// Save writes the graph to path as JSON, creating parent directories as
// needed. The write goes through a temp file and rename so a crash never
// leaves a truncated graph behind.
func (g *Graph) Save(path string) error {
	g.mu.RLock()
	file := graphFile{
		Nodes: make([]nodeRecord, 0, len(g.nodes)),
		Edges: make([]edgeRecord, 0, len(g.edges)),
		Metadata: fileMetadata{
			LastUpdated: float64(time.Now().UnixNano()) / float64(time.Second),
			NodeCount:   len(g.nodes),
			EdgeCount:   len(g.edges),
		},
	}
	for _, id := range g.order {
		n := g.nodes[id]
		props := map[string]any{
			"path":          n.Path,
			"type":          n.AssetType,
			"created_at":    float64(n.AddedAt.UnixNano()) / float64(time.Second),
			"last_modified": float64(n.UpdatedAt.UnixNano()) / float64(time.Second),
		}
		for k, v := range n.Metadata {
			props[k] = v
		}
		file.Nodes = append(file.Nodes, nodeRecord{ID: n.AssetID, Properties: props})
	}
	for _, e := range g.edges {
		file.Edges = append(file.Edges, edgeRecord{
			From: e.Source,
			To:   e.Target,
			Properties: map[string]any{
				"type":     string(e.Type),
				"strength": e.Strength,
				"required": e.Required,
			},
		})
	}
	g.mu.RUnlock()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating graph directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding graph: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing graph: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing graph file: %w", err)
	}

	g.mu.Lock()
	g.dirty = false
	g.mu.Unlock()
	return nil
}

// Load replaces the graph contents with the file at path.
func (g *Graph) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading graph file: %w", err)
	}
	var file graphFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("decoding graph file: %w", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.nodes = make(map[string]*Node, len(file.Nodes))
	g.edges = nil
	g.out = make(map[string][]int)
	g.in = make(map[string][]int)
	g.order = nil
	for _, rec := range file.Nodes {
		node := &Node{AssetID: rec.ID, Metadata: make(map[string]any)}
		for k, v := range rec.Properties {
			switch k {
			case "path":
				node.Path, _ = v.(string)
			case "type":
				node.AssetType, _ = v.(string)
			case "created_at":
				if sec, ok := v.(float64); ok {
					node.AddedAt = time.Unix(0, int64(sec*float64(time.Second))).UTC()
				}
			case "last_modified":
				if sec, ok := v.(float64); ok {
					node.UpdatedAt = time.Unix(0, int64(sec*float64(time.Second))).UTC()
				}
			default:
				node.Metadata[k] = v
			}
		}
		if len(node.Metadata) == 0 {
			node.Metadata = nil
		}
		g.nodes[rec.ID] = node
		g.order = append(g.order, rec.ID)
	}
	for _, rec := range file.Edges {
		edge := Edge{Source: rec.From, Target: rec.To}
		if t, ok := rec.Properties["type"].(string); ok {
			edge.Type = entities.RelationshipType(t)
		}
		if s, ok := rec.Properties["strength"].(float64); ok {
			edge.Strength = s
		}
		if req, ok := rec.Properties["required"].(bool); ok {
			edge.Required = req
		}
		g.addEdgeLocked(edge)
	}
	g.dirty = false
	return nil
}
