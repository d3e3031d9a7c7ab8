// SPDX-License-Identifier: MIT

// Package autograd - differentiable operations.
//
// Each op computes its value with the tensor package and records a backward
// rule expressed with other ops from this file, which keeps the op set closed
// under differentiation:
//
//	MatMul    ↔ MatMul, Transpose
//	ScatterAdd ↔ ScatterAdd (reversed slots), RowDot
//	RowDot    ↔ ScatterAdd
//	Index     ↔ Embed
//	SumRows   ↔ BroadcastRows

package autograd

import (
	"github.com/katalvlaran/gnnwalk/tensor"
)

// ---------- operation tags ----------

const (
	opMatMul       = "matmul"
	opTranspose    = "transpose"
	opAdd          = "add"
	opSub          = "sub"
	opMul          = "mul"
	opScale        = "scale"
	opAddScalar    = "add_scalar"
	opAddRowVector = "add_row_vector"
	opSumRows      = "sum_rows"
	opBroadcast    = "broadcast_rows"
	opReLU         = "relu"
	opScatterAdd   = "scatter_add"
	opRowDot       = "row_dot"
	opIndex        = "index"
	opEmbed        = "embed"
	opSum          = "sum"
)

// grads builds a backward result, evaluating fn[i] only for parents that require gradients.
func grads(parents []*Var, fns ...func() *Var) []*Var {
	out := make([]*Var, len(parents))
	for i, p := range parents {
		if p.requires {
			out[i] = fns[i]()
		}
	}

	return out
}

// MatMul returns a·b.
func MatMul(a, b *Var) *Var {
	val, err := tensor.MatMul(a.value, b.value)
	check(opMatMul, err)
	parents := []*Var{a, b}

	return newOp(opMatMul, val, func(g *Var) []*Var {
		return grads(parents,
			func() *Var { return MatMul(g, Transpose(b)) },
			func() *Var { return MatMul(Transpose(a), g) },
		)
	}, parents...)
}

// Transpose returns aᵀ.
func Transpose(a *Var) *Var {
	val, err := tensor.Transpose(a.value)
	check(opTranspose, err)

	return newOp(opTranspose, val, func(g *Var) []*Var {
		return []*Var{Transpose(g)}
	}, a)
}

// Add returns a + b (same shape).
func Add(a, b *Var) *Var {
	val, err := tensor.Add(a.value, b.value)
	check(opAdd, err)
	parents := []*Var{a, b}

	return newOp(opAdd, val, func(g *Var) []*Var {
		return grads(parents, func() *Var { return g }, func() *Var { return g })
	}, parents...)
}

// Sub returns a - b (same shape).
func Sub(a, b *Var) *Var {
	val, err := tensor.Sub(a.value, b.value)
	check(opSub, err)
	parents := []*Var{a, b}

	return newOp(opSub, val, func(g *Var) []*Var {
		return grads(parents, func() *Var { return g }, func() *Var { return Scale(g, -1) })
	}, parents...)
}

// Mul returns the element-wise product a ⊙ b.
func Mul(a, b *Var) *Var {
	val, err := tensor.Hadamard(a.value, b.value)
	check(opMul, err)
	parents := []*Var{a, b}

	return newOp(opMul, val, func(g *Var) []*Var {
		return grads(parents,
			func() *Var { return Mul(g, b) },
			func() *Var { return Mul(g, a) },
		)
	}, parents...)
}

// Scale returns c·a for a constant c.
func Scale(a *Var, c float64) *Var {
	val, err := tensor.Scale(a.value, c)
	check(opScale, err)

	return newOp(opScale, val, func(g *Var) []*Var {
		return []*Var{Scale(g, c)}
	}, a)
}

// AddScalar returns a + s element-wise for a constant s.
func AddScalar(a *Var, s float64) *Var {
	val, err := tensor.AddScalar(a.value, s)
	check(opAddScalar, err)

	return newOp(opAddScalar, val, func(g *Var) []*Var {
		return []*Var{g}
	}, a)
}

// AddRowVector adds the 1×c row v to every row of m.
func AddRowVector(m, v *Var) *Var {
	val, err := tensor.AddRowVector(m.value, v.value)
	check(opAddRowVector, err)
	parents := []*Var{m, v}

	return newOp(opAddRowVector, val, func(g *Var) []*Var {
		return grads(parents, func() *Var { return g }, func() *Var { return SumRows(g) })
	}, parents...)
}

// SumRows collapses an r×c Var into its 1×c column sums.
func SumRows(m *Var) *Var {
	rows := m.value.Rows()

	return newOp(opSumRows, tensor.SumRows(m.value), func(g *Var) []*Var {
		return []*Var{BroadcastRows(g, rows)}
	}, m)
}

// BroadcastRows stacks the 1×c row v into n rows.
func BroadcastRows(v *Var, n int) *Var {
	val, err := tensor.BroadcastRows(v.value, n)
	check(opBroadcast, err)

	return newOp(opBroadcast, val, func(g *Var) []*Var {
		return []*Var{SumRows(g)}
	}, v)
}

// ReLU returns max(a, 0). The derivative mask is a constant, so second and
// higher derivatives through ReLU vanish (almost everywhere exact).
func ReLU(a *Var) *Var {
	val, err := tensor.Apply(a.value, relu)
	check(opReLU, err)

	return newOp(opReLU, val, func(g *Var) []*Var {
		mask, err := tensor.Apply(a.value, step)
		check(opReLU, err)

		return []*Var{Mul(g, Const(mask))}
	}, a)
}

func relu(v float64) float64 {
	if v > 0 {
		return v
	}

	return 0
}

func step(v float64) float64 {
	if v > 0 {
		return 1
	}

	return 0
}

// ScatterAdd is differentiable message passing over slots:
//
//	out[to[e]] += w[e] · m[from[e]]
//
// with w a len(from)×1 column. Gradients flow into both m and w.
// The index slices are captured by reference and must not be mutated.
func ScatterAdd(m, w *Var, from, to []int, outRows int) *Var {
	val, err := tensor.ScatterAdd(m.value, w.value, from, to, outRows)
	check(opScatterAdd, err)
	parents := []*Var{m, w}
	inRows := m.value.Rows()

	return newOp(opScatterAdd, val, func(g *Var) []*Var {
		return grads(parents,
			func() *Var { return ScatterAdd(g, w, to, from, inRows) },
			func() *Var { return RowDot(g, to, m, from) },
		)
	}, parents...)
}

// RowDot returns the column g[e] = a[aIdx[e]] · b[bIdx[e]].
func RowDot(a *Var, aIdx []int, b *Var, bIdx []int) *Var {
	val, err := tensor.RowDot(a.value, aIdx, b.value, bIdx)
	check(opRowDot, err)
	parents := []*Var{a, b}
	aRows, bRows := a.value.Rows(), b.value.Rows()

	return newOp(opRowDot, val, func(g *Var) []*Var {
		return grads(parents,
			func() *Var { return ScatterAdd(b, g, bIdx, aIdx, aRows) },
			func() *Var { return ScatterAdd(a, g, aIdx, bIdx, bRows) },
		)
	}, parents...)
}

// Index selects entry (i, j) of a as a 1×1 Var.
func Index(a *Var, i, j int) *Var {
	v, err := a.value.At(i, j)
	check(opIndex, err)
	rows, cols := a.value.Shape()

	return newOp(opIndex, tensor.Full(1, 1, v), func(g *Var) []*Var {
		return []*Var{Embed(g, rows, cols, i, j)}
	}, a)
}

// Embed places the 1×1 Var s at (i, j) of an otherwise zero rows×cols matrix.
func Embed(s *Var, rows, cols, i, j int) *Var {
	if r, c := s.value.Shape(); r != 1 || c != 1 {
		check(opEmbed, tensor.ErrDimensionMismatch)
	}
	val, err := tensor.Unit(rows, cols, i, j, s.value.Raw()[0])
	check(opEmbed, err)

	return newOp(opEmbed, val, func(g *Var) []*Var {
		return []*Var{Index(g, i, j)}
	}, s)
}

// Sum reduces a to the 1×1 sum of its entries.
func Sum(a *Var) *Var {
	rows, cols := a.value.Shape()

	return newOp(opSum, tensor.Full(1, 1, tensor.Sum(a.value)), func(g *Var) []*Var {
		// ones(r,1) · g · ones(1,c) spreads the scalar over a's shape.
		left := Const(tensor.Full(rows, 1, 1))
		right := Const(tensor.Full(1, cols, 1))

		return []*Var{MatMul(MatMul(left, g), right)}
	}, a)
}

// MeanRows averages the rows of m into a 1×c Var. An empty m yields zeros.
func MeanRows(m *Var) *Var {
	n := m.value.Rows()
	if n == 0 {
		return SumRows(m)
	}

	return Scale(SumRows(m), 1/float64(n))
}
