// SPDX-License-Identifier: MIT

package edgemask

import "errors"

var (
	// ErrInvalidSparsity indicates a sparsity fraction outside [0, 1] or NaN.
	ErrInvalidSparsity = errors.New("edgemask: sparsity must be in [0, 1]")

	// ErrLengthMismatch indicates different numbers of walks and scores.
	ErrLengthMismatch = errors.New("edgemask: walks and scores differ in length")

	// ErrSlotOutOfRange indicates a walk slot outside [0, numSlots).
	ErrSlotOutOfRange = errors.New("edgemask: slot out of range")

	// ErrNilMask indicates a nil *Mask argument.
	ErrNilMask = errors.New("edgemask: nil mask")
)
