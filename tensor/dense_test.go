// Package tensor_test contains unit tests for Dense and its operations.
package tensor_test

import (
	"testing"

	"github.com/katalvlaran/gnnwalk/tensor"
	"github.com/stretchr/testify/require"
)

// mustRows builds a matrix from rows or fails the test.
func mustRows(t *testing.T, rows [][]float64) *tensor.Dense {
	t.Helper()
	m, err := tensor.FromRows(rows)
	require.NoError(t, err)

	return m
}

// TestNewDenseInvalidDimensions ensures negative shapes are rejected and zero shapes allowed.
func TestNewDenseInvalidDimensions(t *testing.T) {
	_, err := tensor.NewDense(-1, 2)
	require.ErrorIs(t, err, tensor.ErrInvalidDimensions)

	m, err := tensor.NewDense(0, 3)
	require.NoError(t, err)
	require.Equal(t, 0, m.Len())

	_, err = tensor.FromData(2, 2, []float64{1})
	require.ErrorIs(t, err, tensor.ErrInvalidDimensions)

	_, err = tensor.FromRows([][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, tensor.ErrRagged)
}

// TestAtSetOutOfRange ensures accessors return ErrOutOfRange instead of panicking.
func TestAtSetOutOfRange(t *testing.T) {
	m := tensor.Zeros(2, 2)

	_, err := m.At(-1, 0)
	require.ErrorIs(t, err, tensor.ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, 2, 1), tensor.ErrOutOfRange)
	_, err = m.Row(5)
	require.ErrorIs(t, err, tensor.ErrOutOfRange)

	require.NoError(t, m.Set(1, 0, 7.5))
	v, err := m.At(1, 0)
	require.NoError(t, err)
	require.Equal(t, 7.5, v)
}

// TestCloneIndependence ensures Clone() never shares storage.
func TestCloneIndependence(t *testing.T) {
	m := mustRows(t, [][]float64{{1, 2}})
	c := m.Clone()
	require.NoError(t, c.Set(0, 0, 9))

	v, _ := m.At(0, 0)
	require.Equal(t, 1.0, v)
	require.Equal(t, "[1, 2]\n", m.String())
}

// TestMatMulTranspose checks a small product and its transpose identity.
func TestMatMulTranspose(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 2}, {3, 4}})
	b := mustRows(t, [][]float64{{5}, {6}})

	ab, err := tensor.MatMul(a, b)
	require.NoError(t, err)
	require.Equal(t, []float64{17, 39}, ab.Values())

	_, err = tensor.MatMul(b, b)
	require.ErrorIs(t, err, tensor.ErrDimensionMismatch)

	at, err := tensor.Transpose(a)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 3, 2, 4}, at.Values())
}

// TestElementwise covers Add, Sub, Hadamard, Scale, AddScalar and shape checks.
func TestElementwise(t *testing.T) {
	a := mustRows(t, [][]float64{{1, -2}})
	b := mustRows(t, [][]float64{{3, 4}})

	sum, err := tensor.Add(a, b)
	require.NoError(t, err)
	require.Equal(t, []float64{4, 2}, sum.Values())

	diff, err := tensor.Sub(a, b)
	require.NoError(t, err)
	require.Equal(t, []float64{-2, -6}, diff.Values())

	prod, err := tensor.Hadamard(a, b)
	require.NoError(t, err)
	require.Equal(t, []float64{3, -8}, prod.Values())

	quo, err := tensor.Div(b, a)
	require.NoError(t, err)
	require.Equal(t, []float64{3, -2}, quo.Values())

	sc, err := tensor.Scale(a, 2)
	require.NoError(t, err)
	require.Equal(t, []float64{2, -4}, sc.Values())

	sh, err := tensor.AddScalar(a, 1)
	require.NoError(t, err)
	require.Equal(t, []float64{2, -1}, sh.Values())

	_, err = tensor.Add(a, tensor.Zeros(2, 2))
	require.ErrorIs(t, err, tensor.ErrDimensionMismatch)

	_, err = tensor.Add(nil, a)
	require.ErrorIs(t, err, tensor.ErrNilMatrix)
}

// TestRowBroadcasts covers bias broadcast and its adjoint.
func TestRowBroadcasts(t *testing.T) {
	m := mustRows(t, [][]float64{{1, 2}, {3, 4}})
	bias := mustRows(t, [][]float64{{10, 20}})

	out, err := tensor.AddRowVector(m, bias)
	require.NoError(t, err)
	require.Equal(t, []float64{11, 22, 13, 24}, out.Values())

	require.Equal(t, []float64{4, 6}, tensor.SumRows(m).Values())

	br, err := tensor.BroadcastRows(bias, 3)
	require.NoError(t, err)
	require.Equal(t, 3, br.Rows())
	require.Equal(t, 60.0+30.0, tensor.Sum(br))

	_, err = tensor.AddRowVector(m, m)
	require.ErrorIs(t, err, tensor.ErrDimensionMismatch)
}

// TestScatterAddRowDot checks the message-passing kernel against its adjoint:
// <ScatterAdd(m, w), g> == <w, RowDot(g, to, m, from)>.
func TestScatterAddRowDot(t *testing.T) {
	m := mustRows(t, [][]float64{{1, 2}, {3, 4}, {5, 6}})
	from := []int{0, 1, 2, 2}
	to := []int{1, 2, 0, 2}
	w := tensor.Column([]float64{1, 0.5, 2, -1})

	out, err := tensor.ScatterAdd(m, w, from, to, 3)
	require.NoError(t, err)
	require.Equal(t, []float64{10, 12, 1, 2, -3.5, -4}, out.Values())

	g := mustRows(t, [][]float64{{1, 0}, {0, 1}, {1, 1}})
	lhs := tensor.Sum(mustHadamard(t, out, g))

	gw, err := tensor.RowDot(g, to, m, from)
	require.NoError(t, err)
	rhs := tensor.Sum(mustHadamard(t, gw, w))
	require.InDelta(t, lhs, rhs, 1e-12)

	_, err = tensor.ScatterAdd(m, w, from, []int{1, 2, 0, 9}, 3)
	require.ErrorIs(t, err, tensor.ErrOutOfRange)
	_, err = tensor.ScatterAdd(m, w, from[:2], to[:2], 3)
	require.ErrorIs(t, err, tensor.ErrDimensionMismatch)
}

func mustHadamard(t *testing.T, a, b *tensor.Dense) *tensor.Dense {
	t.Helper()
	h, err := tensor.Hadamard(a, b)
	require.NoError(t, err)

	return h
}

// TestUnitEqualAllClose covers the remaining helpers.
func TestUnitEqualAllClose(t *testing.T) {
	u, err := tensor.Unit(2, 2, 1, 1, 3)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0, 0, 3}, u.Values())

	_, err = tensor.Unit(2, 2, 2, 0, 1)
	require.ErrorIs(t, err, tensor.ErrOutOfRange)

	v := u.Clone()
	require.True(t, tensor.Equal(u, v))
	require.NoError(t, v.Set(0, 0, 1e-12))
	require.False(t, tensor.Equal(u, v))
	require.True(t, tensor.AllClose(u, v, 1e-9))
	require.False(t, tensor.AllClose(u, tensor.Zeros(1, 4), 1))
}
