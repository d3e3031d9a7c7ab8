// SPDX-License-Identifier: MIT

package autograd

import (
	"fmt"

	"github.com/katalvlaran/gnnwalk/tensor"
)

// Grad returns ∂y/∂x for every x in xs as plain matrices.
// y must be 1×1. Inputs that y does not depend on get zero gradients
// of their own shape.
//
// Complexity: O(|graph|) backward ops.
func Grad(y *Var, xs ...*Var) ([]*tensor.Dense, error) {
	gs, err := GradGraph(y, xs...)
	if err != nil {
		return nil, err
	}
	out := make([]*tensor.Dense, len(gs))
	for i, g := range gs {
		out[i] = g.value
	}

	return out, nil
}

// GradGraph is Grad, but the returned gradients are themselves Vars that
// stay connected to every requiring leaf they depend on. Passing one of them
// (reduced to a scalar) back into GradGraph yields second derivatives.
//
// Implementation:
//   - Stage 1: iterative post-order over requiring Vars reachable from y.
//   - Stage 2: sweep in reverse post-order, summing parent contributions.
//   - Stage 3: look up each x; unreached inputs get Const zeros.
func GradGraph(y *Var, xs ...*Var) (out []*Var, err error) {
	if y == nil {
		return nil, fmt.Errorf("GradGraph: %w", ErrNilVar)
	}
	for i, x := range xs {
		if x == nil {
			return nil, fmt.Errorf("GradGraph: input %d: %w", i, ErrNilVar)
		}
	}
	if r, c := y.Shape(); r != 1 || c != 1 {
		return nil, fmt.Errorf("GradGraph: output is %dx%d: %w", r, c, ErrNotScalar)
	}

	err = Try(func() error {
		acc := make(map[*Var]*Var)
		if y.requires {
			acc[y] = Scalar(1)
			order := postOrder(y)
			for i := len(order) - 1; i >= 0; i-- {
				v := order[i]
				g, ok := acc[v]
				if !ok || v.backward == nil {
					continue
				}
				for j, pg := range v.backward(g) {
					if pg == nil {
						continue
					}
					p := v.parents[j]
					if prev, seen := acc[p]; seen {
						acc[p] = Add(prev, pg)
					} else {
						acc[p] = pg
					}
				}
			}
		}

		out = make([]*Var, len(xs))
		for i, x := range xs {
			if g, ok := acc[x]; ok {
				out[i] = g
				continue
			}
			r, c := x.Shape()
			out[i] = Const(tensor.Zeros(r, c))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// postOrder lists every requiring Var reachable from root, parents first.
func postOrder(root *Var) []*Var {
	type frame struct {
		v    *Var
		next int
	}
	var (
		order   []*Var
		visited = map[*Var]bool{root: true}
		stack   = []frame{{v: root}}
	)
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.v.parents) {
			p := top.v.parents[top.next]
			top.next++
			if p.requires && !visited[p] {
				visited[p] = true
				stack = append(stack, frame{v: p})
			}
			continue
		}
		order = append(order, top.v)
		stack = stack[:len(stack)-1]
	}

	return order
}
