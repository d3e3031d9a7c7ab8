// SPDX-License-Identifier: MIT

package tracer

import "errors"

var (
	// ErrNilModel indicates Capture was called without a model.
	ErrNilModel = errors.New("tracer: nil model")

	// ErrNilInput indicates Capture was called without features.
	ErrNilInput = errors.New("tracer: nil input")
)
