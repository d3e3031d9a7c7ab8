// SPDX-License-Identifier: MIT

// Package tensor - value-semantics operations.
//
// Every function validates its operands, allocates a new result and leaves the
// inputs untouched. Errors are wrapped with an operation tag ("MatMul: ...")
// around one of the package sentinels.

package tensor

import (
	"fmt"
	"math"
)

// ---------- operation tags ----------

const (
	opMatMul       = "MatMul"
	opTranspose    = "Transpose"
	opAdd          = "Add"
	opSub          = "Sub"
	opHadamard     = "Hadamard"
	opDiv          = "Div"
	opScale        = "Scale"
	opAddRowVector = "AddRowVector"
	opBroadcast    = "BroadcastRows"
	opScatterAdd   = "ScatterAdd"
	opRowDot       = "RowDot"
	opUnit         = "Unit"
	opApply        = "Apply"
)

func opErrorf(tag string, err error) error { return fmt.Errorf("%s: %w", tag, err) }

func notNil(tag string, ms ...*Dense) error {
	for _, m := range ms {
		if m == nil {
			return opErrorf(tag, ErrNilMatrix)
		}
	}

	return nil
}

func sameShape(tag string, a, b *Dense) error {
	if err := notNil(tag, a, b); err != nil {
		return err
	}
	if a.r != b.r || a.c != b.c {
		return opErrorf(tag, fmt.Errorf("%dx%d vs %dx%d: %w", a.r, a.c, b.r, b.c, ErrDimensionMismatch))
	}

	return nil
}

// MatMul returns a·b.
// Implementation:
//   - Stage 1: validate a.Cols() == b.Rows().
//   - Stage 2: i→k→j loop over the flat buffers, skipping zero a[i,k].
//
// Complexity: O(r*n*c) time, O(r*c) space.
func MatMul(a, b *Dense) (*Dense, error) {
	if err := notNil(opMatMul, a, b); err != nil {
		return nil, err
	}
	if a.c != b.r {
		return nil, opErrorf(opMatMul, fmt.Errorf("%dx%d · %dx%d: %w", a.r, a.c, b.r, b.c, ErrDimensionMismatch))
	}
	res := Zeros(a.r, b.c)
	var av float64
	for i := 0; i < a.r; i++ {
		rowA, rowR := i*a.c, i*b.c
		for k := 0; k < a.c; k++ {
			av = a.data[rowA+k]
			if av == 0 {
				continue
			}
			rowB := k * b.c
			for j := 0; j < b.c; j++ {
				res.data[rowR+j] += av * b.data[rowB+j]
			}
		}
	}

	return res, nil
}

// Transpose returns mᵀ.
func Transpose(m *Dense) (*Dense, error) {
	if err := notNil(opTranspose, m); err != nil {
		return nil, err
	}
	res := Zeros(m.c, m.r)
	for i := 0; i < m.r; i++ {
		for j := 0; j < m.c; j++ {
			res.data[j*m.r+i] = m.data[i*m.c+j]
		}
	}

	return res, nil
}

func zipWith(tag string, a, b *Dense, fn func(x, y float64) float64) (*Dense, error) {
	if err := sameShape(tag, a, b); err != nil {
		return nil, err
	}
	res := Zeros(a.r, a.c)
	for i := range a.data {
		res.data[i] = fn(a.data[i], b.data[i])
	}

	return res, nil
}

// Add returns a + b.
func Add(a, b *Dense) (*Dense, error) {
	return zipWith(opAdd, a, b, func(x, y float64) float64 { return x + y })
}

// Sub returns a - b.
func Sub(a, b *Dense) (*Dense, error) {
	return zipWith(opSub, a, b, func(x, y float64) float64 { return x - y })
}

// Hadamard returns the element-wise product a ⊙ b.
func Hadamard(a, b *Dense) (*Dense, error) {
	return zipWith(opHadamard, a, b, func(x, y float64) float64 { return x * y })
}

// Div returns the element-wise quotient a / b. Division by zero follows IEEE-754.
func Div(a, b *Dense) (*Dense, error) {
	return zipWith(opDiv, a, b, func(x, y float64) float64 { return x / y })
}

// Apply returns fn applied to every element of m.
func Apply(m *Dense, fn func(float64) float64) (*Dense, error) {
	if err := notNil(opApply, m); err != nil {
		return nil, err
	}
	res := Zeros(m.r, m.c)
	for i, v := range m.data {
		res.data[i] = fn(v)
	}

	return res, nil
}

// Scale returns alpha·m.
func Scale(m *Dense, alpha float64) (*Dense, error) {
	if err := notNil(opScale, m); err != nil {
		return nil, err
	}

	return Apply(m, func(v float64) float64 { return alpha * v })
}

// AddScalar returns m + s element-wise.
func AddScalar(m *Dense, s float64) (*Dense, error) {
	return Apply(m, func(v float64) float64 { return v + s })
}

// AddRowVector adds the 1×c row vector v to every row of m (bias broadcast).
func AddRowVector(m, v *Dense) (*Dense, error) {
	if err := notNil(opAddRowVector, m, v); err != nil {
		return nil, err
	}
	if v.r != 1 || v.c != m.c {
		return nil, opErrorf(opAddRowVector, fmt.Errorf("%dx%d + %dx%d: %w", m.r, m.c, v.r, v.c, ErrDimensionMismatch))
	}
	res := m.Clone()
	for i := 0; i < m.r; i++ {
		for j := 0; j < m.c; j++ {
			res.data[i*m.c+j] += v.data[j]
		}
	}

	return res, nil
}

// SumRows collapses m (r×c) into the 1×c row of column sums.
func SumRows(m *Dense) *Dense {
	res := Zeros(1, m.c)
	for i := 0; i < m.r; i++ {
		for j := 0; j < m.c; j++ {
			res.data[j] += m.data[i*m.c+j]
		}
	}

	return res
}

// BroadcastRows stacks the 1×c row vector v n times into an n×c matrix.
func BroadcastRows(v *Dense, n int) (*Dense, error) {
	if err := notNil(opBroadcast, v); err != nil {
		return nil, err
	}
	if v.r != 1 || n < 0 {
		return nil, opErrorf(opBroadcast, fmt.Errorf("%dx%d to %d rows: %w", v.r, v.c, n, ErrDimensionMismatch))
	}
	res := Zeros(n, v.c)
	for i := 0; i < n; i++ {
		copy(res.data[i*v.c:(i+1)*v.c], v.data)
	}

	return res, nil
}

// Sum returns the sum of all entries.
func Sum(m *Dense) float64 {
	var s float64
	for _, v := range m.data {
		s += v
	}

	return s
}

// ScatterAdd is the message-passing kernel: for every slot e,
//
//	out[to[e], :] += w[e] · m[from[e], :]
//
// where w is a len(from)×1 column and out has outRows rows.
// Slots are applied in ascending order, so results are reproducible.
// Complexity: O(len(from)·c).
func ScatterAdd(m, w *Dense, from, to []int, outRows int) (*Dense, error) {
	if err := notNil(opScatterAdd, m, w); err != nil {
		return nil, err
	}
	if len(from) != len(to) || w.r != len(from) || w.c != 1 || outRows < 0 {
		return nil, opErrorf(opScatterAdd, fmt.Errorf("|from|=%d |to|=%d w=%dx%d: %w",
			len(from), len(to), w.r, w.c, ErrDimensionMismatch))
	}
	res := Zeros(outRows, m.c)
	for e := range from {
		s, d := from[e], to[e]
		if s < 0 || s >= m.r || d < 0 || d >= outRows {
			return nil, opErrorf(opScatterAdd, fmt.Errorf("slot %d (%d->%d): %w", e, s, d, ErrOutOfRange))
		}
		we := w.data[e]
		if we == 0 {
			continue
		}
		for j := 0; j < m.c; j++ {
			res.data[d*m.c+j] += we * m.data[s*m.c+j]
		}
	}

	return res, nil
}

// RowDot returns the len(aIdx)×1 column g with g[e] = a[aIdx[e], :] · b[bIdx[e], :].
// It is the adjoint of ScatterAdd with respect to the slot weights.
func RowDot(a *Dense, aIdx []int, b *Dense, bIdx []int) (*Dense, error) {
	if err := notNil(opRowDot, a, b); err != nil {
		return nil, err
	}
	if len(aIdx) != len(bIdx) || a.c != b.c {
		return nil, opErrorf(opRowDot, fmt.Errorf("|aIdx|=%d |bIdx|=%d cols %d vs %d: %w",
			len(aIdx), len(bIdx), a.c, b.c, ErrDimensionMismatch))
	}
	res := Zeros(len(aIdx), 1)
	for e := range aIdx {
		i, k := aIdx[e], bIdx[e]
		if i < 0 || i >= a.r || k < 0 || k >= b.r {
			return nil, opErrorf(opRowDot, fmt.Errorf("slot %d (%d,%d): %w", e, i, k, ErrOutOfRange))
		}
		var s float64
		for j := 0; j < a.c; j++ {
			s += a.data[i*a.c+j] * b.data[k*b.c+j]
		}
		res.data[e] = s
	}

	return res, nil
}

// Unit returns an r×c zero matrix with v stored at (i, j).
func Unit(rows, cols, i, j int, v float64) (*Dense, error) {
	m, err := NewDense(rows, cols)
	if err != nil {
		return nil, opErrorf(opUnit, err)
	}
	if err = m.Set(i, j, v); err != nil {
		return nil, opErrorf(opUnit, err)
	}

	return m, nil
}

// AllClose reports whether a and b have equal shapes and |a-b| <= atol element-wise.
// NaNs never compare close.
func AllClose(a, b *Dense, atol float64) bool {
	if a == nil || b == nil || a.r != b.r || a.c != b.c {
		return false
	}
	for i := range a.data {
		if math.IsNaN(a.data[i]) || math.IsNaN(b.data[i]) || math.Abs(a.data[i]-b.data[i]) > atol {
			return false
		}
	}

	return true
}

// Equal reports bit-for-bit equality of shape and contents.
func Equal(a, b *Dense) bool {
	if a == nil || b == nil || a.r != b.r || a.c != b.c {
		return false
	}
	for i := range a.data {
		if math.Float64bits(a.data[i]) != math.Float64bits(b.data[i]) {
			return false
		}
	}

	return true
}
