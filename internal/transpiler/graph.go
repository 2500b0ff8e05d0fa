// SPDX-License-Identifier: MIT

// Package transpiler converts serialized quantum programs between formats
// by routing through a weighted conversion graph. Formats are nodes,
// registered converter functions are edges, and a conversion executes the
// cheapest edge chain between source and target. Discovered paths are
// cached in an LRU so repeated conversions skip the search.
package transpiler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/qbraid/qbraid-go/internal/programs"
)

// Sentinel errors for errors.Is checks.
var (
	ErrNoConversionPath = errors.New("transpiler: no conversion path")
	ErrDuplicateEdge    = errors.New("transpiler: edge already registered")
)

// ConvertFunc transforms a serialized program from the edge's source format
// into its target format.
type ConvertFunc func(ctx context.Context, data []byte) ([]byte, error)

// Conversion is a directed edge in the graph.
type Conversion struct {
	Source string
	Target string
	Weight float64 // cost of taking this edge; <=0 is treated as 1
	Func   ConvertFunc
}

// ConversionError wraps the failure of a single edge during a chain.
type ConversionError struct {
	Source string
	Target string
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("transpiler: %s -> %s: %v", e.Source, e.Target, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

const pathCacheSize = 64

// Graph is a thread-safe conversion graph.
type Graph struct {
	mu    sync.RWMutex
	edges map[string]map[string]Conversion // source -> target -> edge
	paths *lru.Cache[string, []Conversion]
}

// NewGraph returns an empty conversion graph.
func NewGraph() *Graph {
	paths, _ := lru.New[string, []Conversion](pathCacheSize)
	return &Graph{
		edges: make(map[string]map[string]Conversion),
		paths: paths,
	}
}

// Register adds an edge. Registering an existing source/target pair is an
// error; use RemoveEdge first to replace one.
func (g *Graph) Register(c Conversion) error {
	if c.Source == "" || c.Target == "" || c.Source == c.Target {
		return fmt.Errorf("transpiler: invalid edge %q -> %q", c.Source, c.Target)
	}
	if c.Func == nil {
		return fmt.Errorf("transpiler: edge %s -> %s has no converter", c.Source, c.Target)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.edges[c.Source][c.Target]; ok {
		return fmt.Errorf("%w: %s -> %s", ErrDuplicateEdge, c.Source, c.Target)
	}
	if g.edges[c.Source] == nil {
		g.edges[c.Source] = make(map[string]Conversion)
	}
	if c.Weight <= 0 {
		c.Weight = 1
	}
	g.edges[c.Source][c.Target] = c
	g.paths.Purge()
	return nil
}

// RemoveEdge deletes the edge if present.
func (g *Graph) RemoveEdge(source, target string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.edges[source], target)
	g.paths.Purge()
}

// Formats returns all known format nodes, sorted.
func (g *Graph) Formats() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	seen := make(map[string]bool)
	for src, targets := range g.edges {
		seen[src] = true
		for dst := range targets {
			seen[dst] = true
		}
	}
	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func (g *Graph) hasNode(format string) bool {
	if _, ok := g.edges[format]; ok {
		return true
	}
	for _, targets := range g.edges {
		if _, ok := targets[format]; ok {
			return true
		}
	}
	return false
}

// Path returns the cheapest edge chain from source to target. Ties are
// broken by lexicographic node order, so the result is deterministic.
func (g *Graph) Path(source, target string) ([]Conversion, error) {
	key := source + "->" + target
	if cached, ok := g.paths.Get(key); ok {
		return cached, nil
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.hasNode(source) {
		return nil, fmt.Errorf("%w: %q (supported: %v)", programs.ErrUnsupportedFormat, source, g.formatsLocked())
	}
	if !g.hasNode(target) {
		return nil, fmt.Errorf("%w: %q (supported: %v)", programs.ErrUnsupportedFormat, target, g.formatsLocked())
	}

	path, err := g.dijkstra(source, target)
	if err != nil {
		return nil, err
	}
	g.paths.Add(key, path)
	return path, nil
}

func (g *Graph) formatsLocked() []string {
	seen := make(map[string]bool)
	for src, targets := range g.edges {
		seen[src] = true
		for dst := range targets {
			seen[dst] = true
		}
	}
	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func (g *Graph) dijkstra(source, target string) ([]Conversion, error) {
	dist := map[string]float64{source: 0}
	prev := map[string]Conversion{}
	visited := map[string]bool{}

	for {
		// Select the unvisited node with the smallest distance;
		// lexicographic order breaks ties.
		current := ""
		best := math.Inf(1)
		for node, d := range dist {
			if visited[node] {
				continue
			}
			if d < best || (d == best && (current == "" || node < current)) {
				best = d
				current = node
			}
		}
		if current == "" {
			return nil, fmt.Errorf("%w: %s -> %s", ErrNoConversionPath, source, target)
		}
		if current == target {
			break
		}
		visited[current] = true
		for _, edge := range g.edges[current] {
			alt := dist[current] + edge.Weight
			if d, ok := dist[edge.Target]; !ok || alt < d {
				dist[edge.Target] = alt
				prev[edge.Target] = edge
			}
		}
	}

	var path []Conversion
	for at := target; at != source; {
		edge, ok := prev[at]
		if !ok {
			return nil, fmt.Errorf("%w: %s -> %s", ErrNoConversionPath, source, target)
		}
		path = append(path, edge)
		at = edge.Source
	}
	// Reverse into source -> target order.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// PathString renders a chain as "qasm2 -> ir -> qasm3" for logging.
func PathString(path []Conversion) string {
	if len(path) == 0 {
		return ""
	}
	parts := []string{path[0].Source}
	for _, edge := range path {
		parts = append(parts, edge.Target)
	}
	return strings.Join(parts, " -> ")
}
