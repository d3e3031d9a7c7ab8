// SPDX-License-Identifier: MIT

package nn

import "errors"

var (
	// ErrNoLayers indicates a Model with no layers.
	ErrNoLayers = errors.New("nn: model has no layers")

	// ErrLayerOrder indicates a message-passing layer after the Pool layer,
	// or more than one Pool layer.
	ErrLayerOrder = errors.New("nn: invalid layer order")

	// ErrShape indicates incompatible weight or bias dimensions between layers.
	ErrShape = errors.New("nn: incompatible shapes")

	// ErrNilWeight indicates a weighted layer built without a weight matrix.
	ErrNilWeight = errors.New("nn: nil weight")

	// ErrInvalidMLP indicates a GIN sub-network that is empty, does not start
	// with a Dense layer, or contains graph layers.
	ErrInvalidMLP = errors.New("nn: invalid GIN sub-network")

	// ErrEdgeWeights indicates a wrong number or shape of edge-weight overrides.
	ErrEdgeWeights = errors.New("nn: invalid edge weights")

	// ErrFeatureShape indicates a feature matrix whose row count differs from N.
	ErrFeatureShape = errors.New("nn: feature rows do not match node count")
)
