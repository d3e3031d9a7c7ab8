// SPDX-License-Identifier: MIT

package edgemask

// DefaultDepthNormalization counts every occurrence with the full walk score,
// so the mask sums to L times the total walk relevance.
const DefaultDepthNormalization = false

// Option configures Aggregate.
type Option func(*Options)

// Options holds the resolved Aggregate configuration.
type Options struct {
	DepthNormalization bool
}

func gatherOptions(opts ...Option) Options {
	o := Options{DepthNormalization: DefaultDepthNormalization}
	for _, fn := range opts {
		fn(&o)
	}

	return o
}

// WithDepthNormalization divides each occurrence by the walk length, making the
// mask sum equal the total walk relevance.
func WithDepthNormalization(on bool) Option {
	return func(o *Options) { o.DepthNormalization = on }
}
