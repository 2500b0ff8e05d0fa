// SPDX-License-Identifier: MIT

package transpiler

import (
	"context"
	"sync"
	"time"

	"github.com/qbraid/qbraid-go/internal/log"
	"github.com/qbraid/qbraid-go/internal/metrics"
	"github.com/qbraid/qbraid-go/internal/programs"
	_ "github.com/qbraid/qbraid-go/internal/qasm" // register qasm2/qasm3 codecs
)

// Convert transforms serialized program data from the source format into
// the target format, executing the cheapest registered edge chain. The
// input is returned unchanged when source equals target.
func (g *Graph) Convert(ctx context.Context, data []byte, source, target string) ([]byte, error) {
	if source == target {
		return data, nil
	}
	path, err := g.Path(source, target)
	if err != nil {
		return nil, err
	}

	logger := log.WithComponentFromContext(ctx, "transpiler")
	start := time.Now()
	out := data
	for _, edge := range path {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err = edge.Func(ctx, out)
		if err != nil {
			metrics.IncConversionFailure(edge.Source, edge.Target)
			return nil, &ConversionError{Source: edge.Source, Target: edge.Target, Err: err}
		}
	}
	metrics.RecordConversion(source, target, time.Since(start))
	logger.Debug().
		Str("path", PathString(path)).
		Dur("elapsed", time.Since(start)).
		Msg("converted program")
	return out, nil
}

// ConvertProgram encodes an in-memory program into the target format.
func (g *Graph) ConvertProgram(ctx context.Context, p *programs.Program, target string) ([]byte, error) {
	source := p.Format
	if source == "" {
		source = programs.FormatIR
	}
	data, err := programs.Encode(source, p)
	if err != nil {
		return nil, err
	}
	return g.Convert(ctx, data, source, target)
}

// codecEdge builds an edge that decodes with the source codec and encodes
// with the target codec.
func codecEdge(source, target string, weight float64) Conversion {
	return Conversion{
		Source: source,
		Target: target,
		Weight: weight,
		Func: func(ctx context.Context, data []byte) ([]byte, error) {
			p, err := programs.Decode(source, data)
			if err != nil {
				return nil, err
			}
			return programs.Encode(target, p)
		},
	}
}

var (
	defaultOnce  sync.Once
	defaultGraph *Graph
)

// Default returns the process-wide graph with the built-in codec edges:
// every serialized format connects to the IR hub in both directions, plus
// a direct qasm2 -> qasm3 edge that is cheaper than the two-hop route.
func Default() *Graph {
	defaultOnce.Do(func() {
		defaultGraph = NewGraph()
		for _, format := range []string{"qasm2", "qasm3", programs.FormatJaqcd} {
			mustRegister(defaultGraph, codecEdge(format, programs.FormatIR, 1))
			mustRegister(defaultGraph, codecEdge(programs.FormatIR, format, 1))
		}
		mustRegister(defaultGraph, codecEdge("qasm2", "qasm3", 1.5))
	})
	return defaultGraph
}

func mustRegister(g *Graph, c Conversion) {
	if err := g.Register(c); err != nil {
		panic(err)
	}
}
