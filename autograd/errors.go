// SPDX-License-Identifier: MIT

package autograd

import (
	"errors"
	"fmt"
)

var (
	// ErrNotScalar indicates that Grad was asked to differentiate a non-1×1 Var.
	ErrNotScalar = errors.New("autograd: output is not a scalar")

	// ErrNilVar indicates a nil *Var argument.
	ErrNilVar = errors.New("autograd: nil var")
)

// ShapeError reports an operand mismatch detected while building the graph.
// Ops panic with it; Try recovers it into an ordinary error.
type ShapeError struct {
	Op  string
	Err error
}

func (e *ShapeError) Error() string { return fmt.Sprintf("autograd: %s: %v", e.Op, e.Err) }

// Unwrap exposes the underlying tensor sentinel to errors.Is.
func (e *ShapeError) Unwrap() error { return e.Err }

// Try runs fn and converts a *ShapeError panic into a returned error.
// Other panics are re-raised unchanged.
func Try(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			se, ok := r.(*ShapeError)
			if !ok {
				panic(r)
			}
			err = se
		}
	}()

	return fn()
}

// check panics with a *ShapeError when err is non-nil.
func check(op string, err error) {
	if err != nil {
		panic(&ShapeError{Op: op, Err: err})
	}
}
