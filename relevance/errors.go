// SPDX-License-Identifier: MIT

package relevance

import "errors"

var (
	// ErrDepthMismatch indicates that the traced walk steps, the model's graph
	// layers and the walk lengths disagree.
	ErrDepthMismatch = errors.New("relevance: depth mismatch")

	// ErrNilModel indicates an Input without a model.
	ErrNilModel = errors.New("relevance: nil model")

	// ErrNilFeatures indicates an Input without a feature matrix.
	ErrNilFeatures = errors.New("relevance: nil features")

	// ErrInvalidLabel indicates a class label outside the model's score columns.
	ErrInvalidLabel = errors.New("relevance: invalid label")

	// ErrInvalidNode indicates a target node outside the score rows.
	ErrInvalidNode = errors.New("relevance: invalid node")

	// ErrInvalidWalk indicates a walk slot outside the self-loop augmented edge list.
	ErrInvalidWalk = errors.New("relevance: invalid walk")
)
