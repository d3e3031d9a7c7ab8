// SPDX-License-Identifier: MIT

// Package tracer records one forward pass of an nn.Model and groups the
// observed layers into walk steps (one per message-passing layer) and readout
// steps (everything after the pool).
//
// Instrumentation is explicit: Capture hands a Recorder to Model.Forward as an
// nn.Observer for the duration of that single call and seals it before
// returning, whatever the outcome. Nothing is registered on the model, so
// nothing can leak past the call.
//
// Detach policy
//
//	WithDetach(true) (default) stores constant snapshots, suitable for
//	inspection. WithDetach(false) keeps the live autograd Vars, which gradient
//	methods need.
//
// A model without a Pool layer yields one walk step fewer than it has graph
// layers; explainers report that as a depth mismatch.
package tracer
