// SPDX-License-Identifier: MIT

// Package relevance turns one prediction of an nn.Model into a relevance score
// per walk and class label.
//
// Two propagators share one Input and one Table:
//
//   - GI (gradient decomposition): edge weights of every graph layer are
//     differentiable leaves. Peeling one layer at a time, the relevance of a
//     walk prefix is split over the edges of the next layer down by
//     g[i]·w[i], with g the gradient of the prefix relevance. Each level
//     differentiates the previous level's gradient, so this relies on
//     autograd.GradGraph. For a bias-free ReLU network the scores of all walks
//     sum to the explained score.
//   - LRP (gamma rule): every walk is replayed through gamma-reweighted copies
//     of the layers with all rows off the walk frozen; the relevance is the
//     input gradient at the walk's first node dotted with its features.
//
// Walks are slot sequences over the self-loop augmented edge list, oriented
// along the model's message flow, listed first layer first.
//
// Concurrency
//
//	Labels are independent. Both propagators fan out across labels with an
//	errgroup bounded by Input.Parallelism; every label owns its gamma copies
//	and writes to its own result column, so output is identical for any
//	parallelism. The model is never modified. The context is checked before a
//	label starts, never in the middle of one.
//
// Errors
//
//   - ErrDepthMismatch   traced walk steps != graph layers, or a walk of the wrong length.
//   - ErrInvalidLabel, ErrInvalidNode, ErrInvalidWalk   request validation.
//   - ErrNilModel, ErrNilFeatures                       missing inputs.
package relevance
