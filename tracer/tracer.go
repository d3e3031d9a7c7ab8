// SPDX-License-Identifier: MIT
// Package: gnnwalk/tracer
//
// tracer.go - one instrumented forward pass, partitioned into steps.
//
// Contract:
//   - Capture runs exactly one Model.Forward with a Recorder attached.
//   - The Recorder is sealed on every exit path (return, error or panic);
//     observations arriving after the seal are counted and dropped.
//   - Partitioning is a pure function of the record list.

package tracer

import (
	"fmt"
	"sync"

	"github.com/katalvlaran/gnnwalk/autograd"
	"github.com/katalvlaran/gnnwalk/graph"
	"github.com/katalvlaran/gnnwalk/nn"
)

// Step is a contiguous group of layer applications.
type Step struct {
	Layers []*nn.Layer
	Input  *autograd.Var
	Output *autograd.Var
}

// Head returns the first layer of the step, or nil for an empty step.
func (s Step) Head() *nn.Layer {
	if len(s.Layers) == 0 {
		return nil
	}

	return s.Layers[0]
}

// Trace is the partitioned record of one forward pass.
type Trace struct {
	// Prelude holds layers applied before the first graph layer (usually empty).
	Prelude []*nn.Layer
	// WalkSteps holds one step per graph layer that precedes the pool.
	WalkSteps []Step
	// ReadoutSteps holds the post-message-passing steps.
	ReadoutSteps []Step
	// Scores is the model output of the traced pass.
	Scores *autograd.Var
	// Records is the raw observation list in pre-order.
	Records []nn.Record
}

// Recorder is an nn.Observer that can be sealed.
type Recorder struct {
	mu      sync.Mutex
	detach  bool
	sealed  bool
	records []nn.Record
	dropped int
}

// NewRecorder returns an open recorder. With detach, inputs and outputs are
// stored as constant snapshots.
func NewRecorder(detach bool) *Recorder { return &Recorder{detach: detach} }

// Observe appends r unless the recorder is sealed.
func (rec *Recorder) Observe(r nn.Record) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.sealed {
		rec.dropped++
		return
	}
	if rec.detach {
		r.Input = autograd.Detach(r.Input)
		r.Output = autograd.Detach(r.Output)
	}
	rec.records = append(rec.records, r)
}

// Seal stops recording. It is idempotent.
func (rec *Recorder) Seal() {
	rec.mu.Lock()
	rec.sealed = true
	rec.mu.Unlock()
}

// Sealed reports whether Seal was called.
func (rec *Recorder) Sealed() bool {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	return rec.sealed
}

// Records returns a copy of the observations so far.
func (rec *Recorder) Records() []nn.Record {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	return append([]nn.Record(nil), rec.records...)
}

// Dropped returns the number of observations rejected after sealing.
func (rec *Recorder) Dropped() int {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	return rec.dropped
}

// Capture runs m on (x, ei) once and partitions the observed layers.
func Capture(m *nn.Model, x *autograd.Var, ei graph.EdgeIndex, opts ...Option) (*Trace, error) {
	if m == nil {
		return nil, fmt.Errorf("Capture: %w", ErrNilModel)
	}
	if x == nil {
		return nil, fmt.Errorf("Capture: %w", ErrNilInput)
	}
	o := gatherOptions(opts...)

	rec := NewRecorder(o.Detach)
	defer rec.Seal()

	fwd := []nn.ForwardOption{nn.WithObserver(rec)}
	if o.EdgeWeights != nil {
		fwd = append(fwd, nn.WithEdgeWeights(o.EdgeWeights...))
	}
	out, err := m.Forward(x, ei, fwd...)
	if err != nil {
		return nil, fmt.Errorf("Capture: %w", err)
	}
	rec.Seal()

	tr := Partition(rec.Records(), o.SplitReadout)
	tr.Scores = out.Scores
	if o.Detach {
		tr.Scores = autograd.Detach(out.Scores)
	}

	return tr, nil
}

// Partition groups records into walk and readout steps.
//
// Rules:
//   - a top-level graph layer or Pool layer closes the current step and opens a
//     new one; Pool also raises the pool flag;
//   - with split, a top-level Dense layer after the pool flag does the same;
//   - closed steps go to WalkSteps until the pool flag is raised, to
//     ReadoutSteps after; the trailing step is always a readout step;
//   - layers seen before the first graph layer form the Prelude;
//   - a walk step headed by a GIN layer keeps only that layer.
//
// Without split, every post-pool step is merged into one readout step.
func Partition(records []nn.Record, split bool) *Trace {
	tr := &Trace{Records: records}
	var (
		pooled  bool
		opened  bool // a graph or pool layer has opened a step
		current Step
	)
	closeStep := func() {
		if len(current.Layers) == 0 {
			return
		}
		if !opened {
			tr.Prelude = append(tr.Prelude, current.Layers...)
			return
		}
		if pooled {
			tr.ReadoutSteps = append(tr.ReadoutSteps, current)
		} else {
			tr.WalkSteps = append(tr.WalkSteps, current)
		}
	}

	for _, r := range records {
		kind := r.Layer.Kind()
		if !r.Nested && (r.Layer.IsGraph() || kind == nn.KindPool) {
			closeStep()
			opened = true
			if kind == nn.KindPool {
				pooled = true
			}
			current = Step{Input: r.Input}
		} else if !r.Nested && split && pooled && kind == nn.KindDense {
			closeStep()
			current = Step{Input: r.Input}
		}
		current.Layers = append(current.Layers, r.Layer)
		current.Output = r.Output
	}
	pooled = pooled || opened
	closeStep()

	if !split {
		tr.ReadoutSteps = mergeSteps(tr.ReadoutSteps)
	}
	for i := range tr.WalkSteps {
		if head := tr.WalkSteps[i].Head(); head.Kind() == nn.KindGIN {
			tr.WalkSteps[i].Layers = tr.WalkSteps[i].Layers[:1]
		}
	}

	return tr
}

// mergeSteps concatenates steps into one, or returns nil for none.
func mergeSteps(steps []Step) []Step {
	if len(steps) <= 1 {
		return steps
	}
	merged := Step{Input: steps[0].Input, Output: steps[len(steps)-1].Output}
	for _, s := range steps {
		merged.Layers = append(merged.Layers, s.Layers...)
	}

	return []Step{merged}
}
