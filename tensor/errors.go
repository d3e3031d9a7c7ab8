// SPDX-License-Identifier: MIT
// Package tensor: sentinel error set.
// Every message is prefixed with "tensor: ..." for easy grepping. Wrap with
// fmt.Errorf("ctx: %w", ErrX) at the outer boundary; callers use errors.Is.

package tensor

import "errors"

var (
	// ErrInvalidDimensions indicates negative dimensions or a data length that
	// does not match rows*cols.
	ErrInvalidDimensions = errors.New("tensor: invalid dimensions")

	// ErrOutOfRange indicates a row or column index outside valid bounds.
	ErrOutOfRange = errors.New("tensor: index out of range")

	// ErrDimensionMismatch indicates incompatible operand shapes.
	ErrDimensionMismatch = errors.New("tensor: dimension mismatch")

	// ErrNilMatrix indicates a nil *Dense operand.
	ErrNilMatrix = errors.New("tensor: nil matrix")

	// ErrRagged indicates rows of different lengths passed to FromRows.
	ErrRagged = errors.New("tensor: ragged rows")
)
