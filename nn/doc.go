// SPDX-License-Identifier: MIT

// Package nn provides the trained-model side of an explanation: a closed set
// of layer kinds, a sequential Model over them, and the two hooks an explainer
// needs from a model.
//
// What
//
//   - Layer: a tagged variant over {Dense, MessagePassing, GIN, Activation, Pool}.
//     Every kind knows how to apply itself, clone itself and produce a
//     gamma-reweighted copy (w' = w + γ·max(w, 0)) that never aliases the
//     original weights.
//   - Model: layers applied in order. Forward returns class scores and the last
//     node embedding (the input of the Pool layer).
//   - Observer: an explicit instrumentation interface. The model reports every
//     layer it applies, in pre-order; a GIN layer reports itself before its
//     internal layers, which are flagged Nested.
//   - Edge-weight overrides: one (E+N)×1 weight Var per message-passing layer can
//     be passed to Forward. Gradients with respect to those Vars are edge
//     relevances; nothing on the model is toggled to get them.
//
// Slot space
//
//	Message passing always runs over the self-loop augmented slot space of size
//	E+N (see graph.EdgeIndex.WithSelfLoops). A MessagePassing layer built
//	without self-loops multiplies the loop slots by a constant zero, so
//	overrides keep one shape for every layer and loop slots simply receive zero
//	gradient. GIN carries its (1+eps)·h self term on the loop slots and has no
//	separate loop message unless WithSelfLoops(true) is given.
//
// Readout
//
//	Pool(PoolIdentity) marks the end of message passing for node-level models;
//	PoolSum / PoolMean reduce all nodes to one row for graph-level models. Only
//	Dense and Activation layers may follow the Pool layer.
//
// Errors
//
//   - ErrNoLayers, ErrLayerOrder, ErrShape      model construction.
//   - ErrEdgeWeights, ErrFeatureShape           Forward input validation.
//   - ErrNilWeight, ErrInvalidMLP               layer construction.
//
// Shape errors raised while applying layers are converted from
// *autograd.ShapeError and wrapped with the layer position.
package nn
