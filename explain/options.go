// SPDX-License-Identifier: MIT

package explain

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/katalvlaran/gnnwalk/metrics"
	"github.com/katalvlaran/gnnwalk/relevance"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Method selects the walk scoring algorithm.
type Method string

const (
	// MethodGNNLRP scores walks with gamma-rule LRP.
	MethodGNNLRP Method = "gnn_lrp"

	// MethodGNNGI scores walks by nested edge-weight gradients.
	MethodGNNGI Method = "gnn_gi"
)

// Valid reports whether m names a supported method.
func (m Method) Valid() bool { return m == MethodGNNLRP || m == MethodGNNGI }

// ---------- Defaults ----------

const (
	DefaultMethod             = MethodGNNLRP
	DefaultSparsity           = 0.0
	DefaultCrop               = false
	DefaultWholeGraph         = false
	DefaultDepthNormalization = false
	DefaultTimeLimit          = time.Duration(0) // no budget

	// TracerName names the OpenTelemetry tracer used for spans.
	TracerName = "github.com/katalvlaran/gnnwalk/explain"
)

// Option configures an Explainer.
type Option func(*Options)

// Options holds the resolved Explainer configuration.
type Options struct {
	Method             Method
	Labels             []int // nil: every score column
	Sparsity           float64
	Epsilon            float64
	Gamma              []float64
	Parallelism        int
	WholeGraph         bool
	Crop               bool
	DepthNormalization bool
	TimeLimit          time.Duration

	Logger  *log.Logger
	Metrics *metrics.Registry // nil disables recording
	Tracer  trace.Tracer
}

// DefaultOptions returns the baseline configuration.
func DefaultOptions() Options {
	return Options{
		Method:             DefaultMethod,
		Sparsity:           DefaultSparsity,
		Epsilon:            relevance.DefaultEpsilon,
		Gamma:              relevance.DefaultGamma(),
		Parallelism:        relevance.DefaultParallelism,
		WholeGraph:         DefaultWholeGraph,
		Crop:               DefaultCrop,
		DepthNormalization: DefaultDepthNormalization,
		TimeLimit:          DefaultTimeLimit,
		Logger:             log.New(io.Discard),
		Tracer:             noop.NewTracerProvider().Tracer(TracerName),
	}
}

func gatherOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	return o
}

// WithMethod selects GNN-LRP or GNN-GI. Unknown methods are rejected by New.
func WithMethod(m Method) Option {
	return func(o *Options) { o.Method = m }
}

// WithNumClasses explains labels 0..k-1. It panics if k < 1.
func WithNumClasses(k int) Option {
	if k < 1 {
		panic(fmt.Sprintf("explain: WithNumClasses(%d): need at least one class", k))
	}

	return func(o *Options) {
		o.Labels = make([]int, k)
		for i := range o.Labels {
			o.Labels[i] = i
		}
	}
}

// WithLabels explains only the given score columns, in the given order.
func WithLabels(labels ...int) Option {
	return func(o *Options) { o.Labels = append([]int(nil), labels...) }
}

// WithSparsity sets the fraction of slots zeroed in every mask.
// It panics if s is outside [0, 1].
func WithSparsity(s float64) Option {
	if math.IsNaN(s) || s < 0 || s > 1 {
		panic(fmt.Sprintf("explain: WithSparsity(%v): must be in [0, 1]", s))
	}

	return func(o *Options) { o.Sparsity = s }
}

// WithEpsilon sets the LRP stabilizer. It panics if eps is negative, NaN or Inf.
func WithEpsilon(eps float64) Option {
	if eps < 0 || math.IsNaN(eps) || math.IsInf(eps, 0) {
		panic(fmt.Sprintf("explain: WithEpsilon(%v): must be finite and >= 0", eps))
	}

	return func(o *Options) { o.Epsilon = eps }
}

// WithGamma sets the LRP gamma schedule for graph layers.
func WithGamma(gamma ...float64) Option {
	return func(o *Options) { o.Gamma = append([]float64(nil), gamma...) }
}

// WithParallelism bounds the labels processed concurrently.
func WithParallelism(n int) Option {
	return func(o *Options) { o.Parallelism = n }
}

// WithWholeGraph makes graph explanations report every node in the hard edge
// mask, connected to node 0 or not.
func WithWholeGraph(on bool) Option {
	return func(o *Options) { o.WholeGraph = on }
}

// WithCrop explains nodes on their k-hop subgraph.
func WithCrop(on bool) Option {
	return func(o *Options) { o.Crop = on }
}

// WithDepthNormalization divides each walk occurrence by the walk length.
func WithDepthNormalization(on bool) Option {
	return func(o *Options) { o.DepthNormalization = on }
}

// WithTimeLimit sets the default wall-clock budget of batch drivers.
func WithTimeLimit(d time.Duration) Option {
	return func(o *Options) { o.TimeLimit = d }
}

// WithLogger injects a logger. nil keeps the discarding default.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithMetrics records every explanation into r.
func WithMetrics(r *metrics.Registry) Option {
	return func(o *Options) { o.Metrics = r }
}

// WithTracer sets the span tracer. nil keeps the no-op default.
func WithTracer(t trace.Tracer) Option {
	return func(o *Options) {
		if t != nil {
			o.Tracer = t
		}
	}
}
