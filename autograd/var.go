// SPDX-License-Identifier: MIT

package autograd

import "github.com/katalvlaran/gnnwalk/tensor"

// backwardFn maps the gradient flowing into a Var onto one gradient per parent.
// A nil entry means "no contribution" (the parent does not require gradients).
type backwardFn func(g *Var) []*Var

// Var is a node of the computation graph. Its value is never mutated after
// construction; treat Value() as read-only.
type Var struct {
	value    *tensor.Dense
	requires bool
	op       string
	parents  []*Var
	backward backwardFn
}

// Leaf wraps value as a graph input. With requiresGrad set, Grad can
// differentiate with respect to it.
func Leaf(value *tensor.Dense, requiresGrad bool) *Var {
	return &Var{value: value, requires: requiresGrad, op: "leaf"}
}

// Const wraps value as a constant (no gradient tracking).
func Const(value *tensor.Dense) *Var { return &Var{value: value, op: "const"} }

// Scalar is Const of a 1×1 matrix holding v.
func Scalar(v float64) *Var { return Const(tensor.Full(1, 1, v)) }

// Detach returns a constant snapshot of v: same numbers, no history.
// The snapshot owns a copy of the value.
func Detach(v *Var) *Var { return Const(v.value.Clone()) }

// Value returns the underlying matrix. Callers must not mutate it.
func (v *Var) Value() *tensor.Dense { return v.value }

// RequiresGrad reports whether gradients can flow into v.
func (v *Var) RequiresGrad() bool { return v.requires }

// Op names the operation that produced v ("leaf", "const", "matmul", ...).
func (v *Var) Op() string { return v.op }

// Shape returns the value's dimensions.
func (v *Var) Shape() (rows, cols int) { return v.value.Shape() }

// Item returns the single entry of a 1×1 Var, or 0 for any other shape.
func (v *Var) Item() float64 {
	if r, c := v.value.Shape(); r != 1 || c != 1 {
		return 0
	}

	return v.value.Raw()[0]
}

// newOp assembles a result Var. The backward rule is only kept when some
// parent requires gradients; otherwise the result is a plain constant.
func newOp(op string, value *tensor.Dense, back backwardFn, parents ...*Var) *Var {
	out := &Var{value: value, op: op}
	for _, p := range parents {
		if p.requires {
			out.requires = true
			break
		}
	}
	if out.requires {
		out.parents = parents
		out.backward = back
	}

	return out
}
