// SPDX-License-Identifier: MIT

package tracer

import "github.com/katalvlaran/gnnwalk/autograd"

const (
	// DefaultDetach stores constant snapshots of layer inputs and outputs.
	DefaultDetach = true

	// DefaultSplitReadout merges every post-pool layer into one readout step.
	DefaultSplitReadout = false
)

// Option configures Capture.
type Option func(*Options)

// Options holds the resolved Capture configuration.
type Options struct {
	Detach       bool
	SplitReadout bool
	EdgeWeights  []*autograd.Var
}

func gatherOptions(opts ...Option) Options {
	o := Options{Detach: DefaultDetach, SplitReadout: DefaultSplitReadout}
	for _, fn := range opts {
		fn(&o)
	}

	return o
}

// WithDetach selects snapshots (true) or live Vars that keep their history (false).
func WithDetach(on bool) Option {
	return func(o *Options) { o.Detach = on }
}

// WithSplitReadout starts a new readout step at every Dense layer after the pool.
func WithSplitReadout(on bool) Option {
	return func(o *Options) { o.SplitReadout = on }
}

// WithEdgeWeights forwards per-layer edge-weight overrides to the model.
func WithEdgeWeights(ws ...*autograd.Var) Option {
	return func(o *Options) { o.EdgeWeights = ws }
}
