// SPDX-License-Identifier: MIT

package graph

import "errors"

// Sentinel errors for edge-index validation and construction.
// Callers branch with errors.Is; context is attached with %w at the detection site.
var (
	// ErrNodeOutOfRange indicates an edge endpoint outside [0, NumNodes).
	ErrNodeOutOfRange = errors.New("graph: node index out of range")

	// ErrLengthMismatch indicates that Src and Dst have different lengths.
	ErrLengthMismatch = errors.New("graph: source/target length mismatch")

	// ErrNegativeNodes indicates a negative node count.
	ErrNegativeNodes = errors.New("graph: negative node count")

	// ErrTooFewNodes indicates that a constructor parameter is below its minimum.
	ErrTooFewNodes = errors.New("graph: too few nodes")

	// ErrNilConstructor indicates that Build was given a nil Constructor.
	ErrNilConstructor = errors.New("graph: nil constructor")

	// ErrInvalidFlow indicates a message direction other than the two Flow constants.
	ErrInvalidFlow = errors.New("graph: invalid flow")
)
