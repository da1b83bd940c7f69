// Package graph maintains the asset dependency graph: typed nodes, directed
// edges, transactional batch updates and ordering queries used to schedule
// conversion.
package graph

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/wcsaga/forge/internal/domain/entities"
)

// Node is a single asset in the dependency graph.
type Node struct {
	AssetID   string         `json:"asset_id"`
	Path      string         `json:"path"`
	AssetType string         `json:"asset_type"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	AddedAt   time.Time      `json:"added_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Edge is a directed dependency: Source depends on Target.
type Edge struct {
	Source   string                    `json:"source"`
	Target   string                    `json:"target"`
	Type     entities.RelationshipType `json:"type"`
	Strength float64                   `json:"strength"`
	Required bool                      `json:"required,omitempty"`
}

// Statistics summarises the graph for reporting.
type Statistics struct {
	NodeCount     int            `json:"node_count"`
	EdgeCount     int            `json:"edge_count"`
	NodesByType   map[string]int `json:"nodes_by_type"`
	EdgesByType   map[string]int `json:"edges_by_type"`
	RootCount     int            `json:"root_count"`
	LeafCount     int            `json:"leaf_count"`
	CycleCount    int            `json:"cycle_count"`
	MaxDepth      int            `json:"max_depth"`
	OrphanedCount int            `json:"orphaned_count"`
}

// Graph is a mutable dependency graph. All operations are safe for
// concurrent use. A separate transaction mutex serialises batch updates so
// readers are only blocked while a batch commits.
type Graph struct {
	mu    sync.RWMutex
	nodes map[string]*Node
	edges []Edge
	// out and in index edge positions by endpoint.
	out map[string][]int
	in  map[string][]int
	// order preserves node insertion order for the cycle fallback.
	order []string

	txMu sync.Mutex

	persistPath string
	autoSave    bool
	dirty       bool
}

// New creates an empty graph. If persistPath is non-empty the graph is saved
// there after every committed transaction.
func New(persistPath string, autoSave bool) *Graph {
	return &Graph{
		nodes:       make(map[string]*Node),
		out:         make(map[string][]int),
		in:          make(map[string][]int),
		persistPath: persistPath,
		autoSave:    autoSave,
	}
}

// AddNode inserts or replaces a node. Existing edges are untouched.
func (g *Graph) AddNode(assetID, path, assetType string, metadata map[string]any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addNodeLocked(assetID, path, assetType, metadata)
	g.dirty = true
}

func (g *Graph) addNodeLocked(assetID, path, assetType string, metadata map[string]any) {
	now := time.Now().UTC()
	added := now
	if prev, exists := g.nodes[assetID]; exists {
		added = prev.AddedAt
	} else {
		g.order = append(g.order, assetID)
	}
	g.nodes[assetID] = &Node{
		AssetID:   assetID,
		Path:      path,
		AssetType: assetType,
		Metadata:  metadata,
		AddedAt:   added,
		UpdatedAt: now,
	}
}

// AddEdge inserts a directed dependency. Unknown endpoints are auto-created
// as placeholder nodes so table references can arrive before their files are
// discovered.
func (g *Graph) AddEdge(edge Edge) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addEdgeLocked(edge)
	g.dirty = true
}

func (g *Graph) addEdgeLocked(edge Edge) {
	if _, ok := g.nodes[edge.Source]; !ok {
		g.addNodeLocked(edge.Source, "", "unknown", nil)
	}
	if _, ok := g.nodes[edge.Target]; !ok {
		g.addNodeLocked(edge.Target, "", "unknown", nil)
	}
	idx := len(g.edges)
	g.edges = append(g.edges, edge)
	g.out[edge.Source] = append(g.out[edge.Source], idx)
	g.in[edge.Target] = append(g.in[edge.Target], idx)
}

// Node returns the node for an asset id.
func (g *Graph) Node(assetID string) (*Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[assetID]
	if !ok {
		return nil, false
	}
	copied := *n
	return &copied, true
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// Dependencies returns the asset ids the given asset depends on.
func (g *Graph) Dependencies(assetID string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []string
	for _, idx := range g.out[assetID] {
		out = append(out, g.edges[idx].Target)
	}
	return out
}

// Dependents returns the asset ids that depend on the given asset.
func (g *Graph) Dependents(assetID string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []string
	for _, idx := range g.in[assetID] {
		out = append(out, g.edges[idx].Source)
	}
	return out
}

// Edges returns a copy of every edge.
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Transaction applies a batch of mutations atomically with respect to other
// transactions, then auto-saves if configured. The returned id identifies
// the batch in logs.
func (g *Graph) Transaction(fn func(tx *Tx) error) (string, error) {
	g.txMu.Lock()
	defer g.txMu.Unlock()

	id := ksuid.New().String()
	tx := &Tx{}
	if err := fn(tx); err != nil {
		return id, fmt.Errorf("building graph transaction %s: %w", id, err)
	}

	g.mu.Lock()
	for _, n := range tx.nodes {
		g.addNodeLocked(n.AssetID, n.Path, n.AssetType, n.Metadata)
	}
	for _, e := range tx.edges {
		g.addEdgeLocked(e)
	}
	g.dirty = true
	g.mu.Unlock()

	if g.autoSave && g.persistPath != "" {
		if err := g.Save(g.persistPath); err != nil {
			return id, fmt.Errorf("saving graph after transaction %s: %w", id, err)
		}
	}
	return id, nil
}

// Tx accumulates mutations for a transaction. It is not safe for concurrent
// use.
type Tx struct {
	nodes []Node
	edges []Edge
}

// AddNode stages a node insert.
func (tx *Tx) AddNode(assetID, path, assetType string, metadata map[string]any) {
	tx.nodes = append(tx.nodes, Node{AssetID: assetID, Path: path, AssetType: assetType, Metadata: metadata})
}

// AddEdge stages an edge insert.
func (tx *Tx) AddEdge(edge Edge) {
	tx.edges = append(tx.edges, edge)
}

// TopologicalOrder returns assets ordered so every edge source precedes its
// target. If the graph contains cycles the remaining nodes are appended in
// insertion order and ok is false.
func (g *Graph) TopologicalOrder() (order []string, ok bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	// Kahn's algorithm: a node is ready once every node pointing at it has
	// been emitted.
	pending := make(map[string]int, len(g.nodes))
	for id := range g.nodes {
		pending[id] = len(g.in[id])
	}

	var ready []string
	for _, id := range g.order {
		if pending[id] == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	emitted := make(map[string]bool, len(g.nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)
		emitted[id] = true
		for _, idx := range g.out[id] {
			tgt := g.edges[idx].Target
			pending[tgt]--
			if pending[tgt] == 0 {
				ready = append(ready, tgt)
			}
		}
	}

	if len(order) == len(g.nodes) {
		return order, true
	}
	for _, id := range g.order {
		if !emitted[id] {
			order = append(order, id)
		}
	}
	return order, false
}

// FindCycles returns every simple cycle, each reported once starting from
// its lexicographically smallest node.
func (g *Graph) FindCycles() [][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var cycles [][]string
	seen := make(map[string]bool)

	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var stack []string
	onStack := make(map[string]int)

	var visit func(id string)
	visit = func(id string) {
		if pos, ok := onStack[id]; ok {
			cycle := append([]string(nil), stack[pos:]...)
			cycle = rotateToSmallest(cycle)
			key := fmt.Sprint(cycle)
			if !seen[key] {
				seen[key] = true
				cycles = append(cycles, cycle)
			}
			return
		}
		onStack[id] = len(stack)
		stack = append(stack, id)
		targets := make([]string, 0, len(g.out[id]))
		for _, idx := range g.out[id] {
			targets = append(targets, g.edges[idx].Target)
		}
		sort.Strings(targets)
		for _, t := range targets {
			visit(t)
		}
		stack = stack[:len(stack)-1]
		delete(onStack, id)
	}

	for _, id := range ids {
		visit(id)
	}
	return cycles
}

func rotateToSmallest(cycle []string) []string {
	smallest := 0
	for i, id := range cycle {
		if id < cycle[smallest] {
			smallest = i
		}
	}
	out := make([]string, 0, len(cycle))
	out = append(out, cycle[smallest:]...)
	out = append(out, cycle[:smallest]...)
	return out
}

// Depth returns the length of the longest dependency chain below the asset.
// Leaves have depth 0. Cycles are cut at the revisited node.
func (g *Graph) Depth(assetID string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.depthLocked(assetID, make(map[string]bool), make(map[string]int))
}

func (g *Graph) depthLocked(id string, visiting map[string]bool, memo map[string]int) int {
	if d, ok := memo[id]; ok {
		return d
	}
	if visiting[id] {
		return 0
	}
	visiting[id] = true
	depth := 0
	for _, idx := range g.out[id] {
		if d := g.depthLocked(g.edges[idx].Target, visiting, memo) + 1; d > depth {
			depth = d
		}
	}
	delete(visiting, id)
	memo[id] = depth
	return depth
}

// CriticalPaths returns the longest dependency chains in the graph, deepest
// first, at most limit paths.
func (g *Graph) CriticalPaths(limit int) [][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	memo := make(map[string]int)
	type scored struct {
		id    string
		depth int
	}
	var roots []scored
	for id := range g.nodes {
		if len(g.in[id]) == 0 {
			roots = append(roots, scored{id, g.depthLocked(id, make(map[string]bool), memo)})
		}
	}
	sort.Slice(roots, func(i, j int) bool {
		if roots[i].depth != roots[j].depth {
			return roots[i].depth > roots[j].depth
		}
		return roots[i].id < roots[j].id
	})

	var paths [][]string
	for _, r := range roots {
		if limit > 0 && len(paths) >= limit {
			break
		}
		paths = append(paths, g.longestChainLocked(r.id, memo))
	}
	return paths
}

func (g *Graph) longestChainLocked(id string, memo map[string]int) []string {
	chain := []string{id}
	current := id
	for {
		best := ""
		bestDepth := -1
		for _, idx := range g.out[current] {
			t := g.edges[idx].Target
			d := g.depthLocked(t, make(map[string]bool), memo)
			if d > bestDepth || (d == bestDepth && t < best) {
				best, bestDepth = t, d
			}
		}
		if best == "" {
			return chain
		}
		chain = append(chain, best)
		current = best
	}
}

// Statistics computes summary counts for the whole graph.
func (g *Graph) Statistics() Statistics {
	g.mu.RLock()
	nodesByType := make(map[string]int)
	edgesByType := make(map[string]int)
	roots, leaves, orphans := 0, 0, 0
	for id, n := range g.nodes {
		nodesByType[n.AssetType]++
		hasIn, hasOut := len(g.in[id]) > 0, len(g.out[id]) > 0
		if !hasIn {
			roots++
		}
		if !hasOut {
			leaves++
		}
		if !hasIn && !hasOut {
			orphans++
		}
	}
	for _, e := range g.edges {
		edgesByType[string(e.Type)]++
	}
	nodeCount, edgeCount := len(g.nodes), len(g.edges)
	g.mu.RUnlock()

	maxDepth := 0
	g.mu.RLock()
	memo := make(map[string]int)
	for id := range g.nodes {
		if d := g.depthLocked(id, make(map[string]bool), memo); d > maxDepth {
			maxDepth = d
		}
	}
	g.mu.RUnlock()

	return Statistics{
		NodeCount:     nodeCount,
		EdgeCount:     edgeCount,
		NodesByType:   nodesByType,
		EdgesByType:   edgesByType,
		RootCount:     roots,
		LeafCount:     leaves,
		CycleCount:    len(g.FindCycles()),
		MaxDepth:      maxDepth,
		OrphanedCount: orphans,
	}
}
