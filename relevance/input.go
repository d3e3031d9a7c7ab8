// SPDX-License-Identifier: MIT

package relevance

import (
	"context"
	"fmt"

	"github.com/katalvlaran/gnnwalk/autograd"
	"github.com/katalvlaran/gnnwalk/graph"
	"github.com/katalvlaran/gnnwalk/nn"
	"github.com/katalvlaran/gnnwalk/tensor"
	"github.com/katalvlaran/gnnwalk/tracer"
	"github.com/katalvlaran/gnnwalk/walk"
	"golang.org/x/sync/errgroup"
)

// ---------- Defaults ----------

const (
	// DefaultEpsilon keeps the gamma ratio finite when the reweighted output is zero.
	DefaultEpsilon = 1e-30

	// DefaultParallelism processes labels one at a time.
	DefaultParallelism = 1

	// GraphTask is the Node value selecting a graph-level explanation.
	GraphTask = -1
)

// DefaultGamma returns the per-layer gamma schedule: 2 for the first graph
// layer, 1 afterwards.
func DefaultGamma() []float64 { return []float64{2, 1, 1} }

// Input describes one explanation request.
type Input struct {
	Model *nn.Model
	// X is the N×D feature matrix. It is read, never written.
	X *tensor.Dense
	// Graph is the raw edge index; self-loop slots are added internally.
	Graph graph.EdgeIndex
	// Labels to explain; nil means every score column.
	Labels []int
	// Node is the explained node, or GraphTask.
	Node int
	// Walks restricts LRP to the given walks over the augmented slots. nil
	// enumerates every walk of model depth (ending at Node for node tasks).
	Walks []walk.Walk
	// Epsilon stabilizes LRP ratios; 0 means DefaultEpsilon.
	Epsilon float64
	// Gamma is the LRP schedule for graph layers; layers past its end use 1.
	// nil means DefaultGamma().
	Gamma []float64
	// Parallelism bounds the number of labels processed concurrently.
	Parallelism int
}

// Table holds one relevance per (walk, label).
type Table struct {
	// Walks are slot sequences over the self-loop augmented edge list, in
	// forward (first layer first) order.
	Walks []walk.Walk
	// Labels are the explained classes; column j of Scores belongs to Labels[j].
	Labels []int
	// Scores[w][j] is the relevance of Walks[w] for Labels[j].
	Scores [][]float64
}

// Column returns the scores of label column j as a fresh slice.
func (t *Table) Column(j int) []float64 {
	out := make([]float64, len(t.Scores))
	for w := range t.Scores {
		out[w] = t.Scores[w][j]
	}

	return out
}

// Total returns the sum of label column j.
func (t *Table) Total(j int) float64 {
	var s float64
	for w := range t.Scores {
		s += t.Scores[w][j]
	}

	return s
}

// prepared carries the validated, defaulted request shared by GI and LRP.
type prepared struct {
	in     Input
	depth  int
	msg    graph.EdgeIndex // augmented slots oriented along the message flow
	trace  *tracer.Trace
	labels []int
}

func prepare(in Input, split bool, opts ...tracer.Option) (*prepared, error) {
	if in.Model == nil {
		return nil, ErrNilModel
	}
	if in.X == nil {
		return nil, ErrNilFeatures
	}
	if in.Epsilon == 0 {
		in.Epsilon = DefaultEpsilon
	}
	if in.Gamma == nil {
		in.Gamma = DefaultGamma()
	}
	if in.Parallelism <= 0 {
		in.Parallelism = DefaultParallelism
	}

	opts = append(opts, tracer.WithSplitReadout(split))
	tr, err := tracer.Capture(in.Model, autograd.Const(in.X), in.Graph, opts...)
	if err != nil {
		return nil, err
	}
	depth := in.Model.NumGraphLayers()
	if len(tr.WalkSteps) != depth {
		return nil, fmt.Errorf("%d walk steps for %d graph layers: %w", len(tr.WalkSteps), depth, ErrDepthMismatch)
	}

	rows, cols := tr.Scores.Shape()
	if in.Node != GraphTask && (in.Node < 0 || in.Node >= rows) {
		return nil, fmt.Errorf("node %d with %d score rows: %w", in.Node, rows, ErrInvalidNode)
	}
	labels := in.Labels
	if labels == nil {
		labels = make([]int, cols)
		for i := range labels {
			labels[i] = i
		}
	}
	for _, l := range labels {
		if l < 0 || l >= cols {
			return nil, fmt.Errorf("label %d with %d classes: %w", l, cols, ErrInvalidLabel)
		}
	}

	aug := in.Graph.WithSelfLoops()
	from, to := aug.Messages(in.Model.Flow())

	return &prepared{
		in:     in,
		depth:  depth,
		msg:    graph.EdgeIndex{NumNodes: aug.NumNodes, Src: from, Dst: to},
		trace:  tr,
		labels: labels,
	}, nil
}

// scoreRow is the score row holding the explained prediction.
func (p *prepared) scoreRow() int {
	if p.in.Node == GraphTask {
		return 0
	}

	return p.in.Node
}

// gammaAt returns the gamma for graph layer i.
func (p *prepared) gammaAt(i int) float64 {
	if i < len(p.in.Gamma) {
		return p.in.Gamma[i]
	}

	return 1
}

// fanOut runs fn once per label column with at most Parallelism in flight.
// Context cancellation is observed only before a label starts.
func (p *prepared) fanOut(ctx context.Context, fn func(j, label int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.in.Parallelism)
	for j, label := range p.labels {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			return fn(j, label)
		})
	}

	return g.Wait()
}
