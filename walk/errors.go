// SPDX-License-Identifier: MIT

package walk

import "errors"

var (
	// ErrInvalidDepth indicates a requested walk length below 1.
	ErrInvalidDepth = errors.New("walk: invalid depth")

	// ErrInvalidEdge indicates a start edge outside [0, E).
	ErrInvalidEdge = errors.New("walk: invalid edge index")
)
