// SPDX-License-Identifier: MIT
// Package: gnnwalk/explain
//
// explainer.go - single node and single graph explanations.
//
// Contract:
//   - Inputs are never modified; every Explanation owns its slices.
//   - Masks and walks are expressed in the full graph's augmented slot space,
//     also when the node was explained on a cropped subgraph.
//   - Errors from subgraph (invalid node, invalid flow) and relevance (depth
//     mismatch) are returned wrapped, with no partial result.

package explain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/katalvlaran/gnnwalk/edgemask"
	"github.com/katalvlaran/gnnwalk/graph"
	"github.com/katalvlaran/gnnwalk/nn"
	"github.com/katalvlaran/gnnwalk/relevance"
	"github.com/katalvlaran/gnnwalk/subgraph"
	"github.com/katalvlaran/gnnwalk/tensor"
	"github.com/katalvlaran/gnnwalk/walk"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Task label values used in logs, spans and metrics.
const (
	TaskNode  = "node"
	TaskGraph = "graph"
)

// Explainer explains predictions of one model.
type Explainer struct {
	model *nn.Model
	opts  Options
}

// Explanation is the result of one ExplainNode or ExplainGraph call.
type Explanation struct {
	ID     uuid.UUID
	Method Method
	// Node is the explained node, or relevance.GraphTask.
	Node int
	// Walks holds every scored walk, slots in the augmented space of the input graph.
	Walks *relevance.Table
	// Masks[j] is the sparsified edge mask of label Walks.Labels[j], length E+N.
	Masks [][]float64
	// HardEdgeMask marks the augmented slots inside the explained receptive
	// field: the k-hop subgraph for nodes, the hop -1 closure for graphs.
	HardEdgeMask []bool
	Duration     time.Duration
}

// Mask returns the mask of label, or ErrInvalidLabel when it was not explained.
func (e *Explanation) Mask(label int) ([]float64, error) {
	for j, l := range e.Walks.Labels {
		if l == label {
			return e.Masks[j], nil
		}
	}

	return nil, fmt.Errorf("Mask: label %d: %w", label, ErrInvalidLabel)
}

// New creates an Explainer for m.
func New(m *nn.Model, opts ...Option) (*Explainer, error) {
	if m == nil {
		return nil, fmt.Errorf("New: %w", ErrNilModel)
	}
	o := gatherOptions(opts...)
	if !o.Method.Valid() {
		return nil, fmt.Errorf("New: method %q: %w", o.Method, ErrInvalidMethod)
	}
	if err := m.Flow().Check(); err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}

	return &Explainer{model: m, opts: o}, nil
}

// Options returns a copy of the resolved configuration.
func (e *Explainer) Options() Options {
	o := e.opts
	o.Labels = append([]int(nil), e.opts.Labels...)
	o.Gamma = append([]float64(nil), e.opts.Gamma...)

	return o
}

// ExplainNode explains the prediction for node.
func (e *Explainer) ExplainNode(ctx context.Context, x *tensor.Dense, ei graph.EdgeIndex, node int) (*Explanation, error) {
	exp, err := e.run(ctx, x, ei, TaskNode, node)
	if err != nil {
		return nil, fmt.Errorf("ExplainNode: %w", err)
	}

	return exp, nil
}

// ExplainGraph explains the graph-level prediction (score row 0).
func (e *Explainer) ExplainGraph(ctx context.Context, x *tensor.Dense, ei graph.EdgeIndex) (*Explanation, error) {
	exp, err := e.run(ctx, x, ei, TaskGraph, relevance.GraphTask)
	if err != nil {
		return nil, fmt.Errorf("ExplainGraph: %w", err)
	}

	return exp, nil
}

// run performs one explanation.
//
// Implementation:
//   - Stage 1: validate the inputs (node tasks require node in [0, N)) and
//     derive the hard edge mask on the augmented graph.
//   - Stage 2: score walks, on the k-hop crop when enabled, and lift the walks
//     back into the full slot space.
//   - Stage 3: per label, aggregate onto slots and sparsify.
func (e *Explainer) run(ctx context.Context, x *tensor.Dense, ei graph.EdgeIndex, task string, node int) (exp *Explanation, err error) {
	id := uuid.New()
	start := time.Now()

	ctx, span := e.opts.Tracer.Start(ctx, "gnnwalk.explain", trace.WithAttributes(
		attribute.String("explain.id", id.String()),
		attribute.String("explain.method", string(e.opts.Method)),
		attribute.String("explain.task", task),
		attribute.Int("explain.node", node),
		attribute.Int("graph.nodes", ei.NumNodes),
		attribute.Int("graph.edges", ei.NumEdges()),
	))
	defer span.End()

	defer func() {
		d := time.Since(start)
		walks := 0
		if exp != nil {
			walks = len(exp.Walks.Walks)
		}
		if e.opts.Metrics != nil {
			e.opts.Metrics.RecordExplanation(string(e.opts.Method), task, walks, d, err)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			e.opts.Logger.Error("explanation failed", "id", id, "task", task, "node", node, "err", err)

			return
		}
		span.SetAttributes(attribute.Int("explain.walks", walks))
		span.SetStatus(codes.Ok, "")
		e.opts.Logger.Debug("explained", "id", id, "method", e.opts.Method, "task", task,
			"node", node, "walks", walks, "duration", d)
	}()

	if x == nil {
		return nil, ErrNilFeatures
	}
	if err = ei.Validate(); err != nil {
		return nil, err
	}
	if x.Rows() != ei.NumNodes {
		return nil, fmt.Errorf("%d rows for %d nodes: %w", x.Rows(), ei.NumNodes, ErrFeatureRows)
	}
	if task == TaskNode && (node < 0 || node >= ei.NumNodes) {
		return nil, fmt.Errorf("node %d with %d nodes: %w", node, ei.NumNodes, subgraph.ErrInvalidNodeIndex)
	}

	flow := e.model.Flow()
	center, hops := node, e.model.NumGraphLayers()
	if task == TaskGraph {
		// the closure of a graph explanation grows from node 0
		center, hops = 0, subgraph.WholeGraph
	}
	hard, err := subgraph.Extract(center, hops, ei.WithSelfLoops(),
		subgraph.WithFlow(flow), subgraph.WithNumNodes(ei.NumNodes), subgraph.WithWholeGraph(e.opts.WholeGraph))
	if err != nil {
		return nil, err
	}

	var table *relevance.Table
	if e.opts.Crop && task == TaskNode {
		table, err = e.scoreCropped(ctx, x, ei, node, hops)
	} else {
		table, err = e.score(ctx, x, ei, node)
	}
	if err != nil {
		return nil, err
	}

	masks, err := e.masks(table, ei.NumEdges()+ei.NumNodes)
	if err != nil {
		return nil, err
	}

	return &Explanation{
		ID:           id,
		Method:       e.opts.Method,
		Node:         node,
		Walks:        table,
		Masks:        masks,
		HardEdgeMask: hard.EdgeMask,
		Duration:     time.Since(start),
	}, nil
}

// score runs the configured method on the given graph.
func (e *Explainer) score(ctx context.Context, x *tensor.Dense, ei graph.EdgeIndex, node int) (*relevance.Table, error) {
	in := relevance.Input{
		Model:       e.model,
		X:           x,
		Graph:       ei,
		Labels:      e.opts.Labels,
		Node:        node,
		Epsilon:     e.opts.Epsilon,
		Gamma:       e.opts.Gamma,
		Parallelism: e.opts.Parallelism,
	}
	if e.opts.Method == MethodGNNGI {
		return relevance.GI(ctx, in)
	}

	return relevance.LRP(ctx, in)
}

// scoreCropped explains node on its relabeled k-hop subgraph and maps the
// walks back: kept edge k becomes its original id, loop E'+i becomes E+Subset[i].
func (e *Explainer) scoreCropped(ctx context.Context, x *tensor.Dense, ei graph.EdgeIndex, node, hops int) (*relevance.Table, error) {
	sub, err := subgraph.Extract(node, hops, ei,
		subgraph.WithRelabel(true), subgraph.WithFlow(e.model.Flow()), subgraph.WithNumNodes(ei.NumNodes))
	if err != nil {
		return nil, err
	}
	rows := make([][]float64, len(sub.Subset))
	for i, v := range sub.Subset {
		if rows[i], err = x.Row(v); err != nil {
			return nil, err
		}
	}
	xs, err := tensor.FromRows(rows)
	if err != nil {
		return nil, err
	}

	t, err := e.score(ctx, xs, sub.EdgeIndex, sub.Inverse)
	if err != nil {
		return nil, err
	}

	kept := sub.KeptEdges()
	slot := make([]int, 0, len(kept)+len(sub.Subset))
	slot = append(slot, kept...)
	for _, v := range sub.Subset {
		slot = append(slot, ei.NumEdges()+v)
	}
	lifted := make([]walk.Walk, len(t.Walks))
	for k, w := range t.Walks {
		lw := make(walk.Walk, len(w))
		for i, s := range w {
			lw[i] = slot[s]
		}
		lifted[k] = lw
	}
	t.Walks = lifted

	return t, nil
}

// masks aggregates and sparsifies one mask per label column.
func (e *Explainer) masks(t *relevance.Table, numSlots int) ([][]float64, error) {
	out := make([][]float64, len(t.Labels))
	for j := range t.Labels {
		m, err := edgemask.Aggregate(t.Walks, t.Column(j), numSlots,
			edgemask.WithDepthNormalization(e.opts.DepthNormalization))
		if err != nil {
			return nil, err
		}
		if m, err = edgemask.ControlSparsity(m, e.opts.Sparsity); err != nil {
			return nil, err
		}
		out[j] = m.Values
	}

	return out, nil
}
