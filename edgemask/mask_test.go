package edgemask_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/gnnwalk/edgemask"
	"github.com/katalvlaran/gnnwalk/walk"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

// TestAggregateOccurrences: repeated slots count once per occurrence.
func TestAggregateOccurrences(t *testing.T) {
	walks := []walk.Walk{{0, 1}, {1, 1}, {2, 0}}
	scores := []float64{1, 2, -0.5}

	m, err := edgemask.Aggregate(walks, scores, 5)
	require.NoError(t, err)
	require.Equal(t, []float64{0.5, 5, -0.5, 0, 0}, m.Values)
	require.Equal(t, []bool{true, true, true, false, false}, m.Visited)
	require.InDelta(t, 2*(1+2-0.5), m.Sum(), 1e-12)

	norm, err := edgemask.Aggregate(walks, scores, 5, edgemask.WithDepthNormalization(true))
	require.NoError(t, err)
	require.Equal(t, []float64{0.25, 2.5, -0.25, 0, 0}, norm.Values)
	require.InDelta(t, 2.5, norm.Sum(), 1e-12)
	for _, v := range norm.Values {
		require.False(t, math.IsInf(v, 0))
	}

	_, err = edgemask.Aggregate(walks, scores[:2], 5)
	require.ErrorIs(t, err, edgemask.ErrLengthMismatch)
	_, err = edgemask.Aggregate(walks, scores, 2)
	require.ErrorIs(t, err, edgemask.ErrSlotOutOfRange)
}

// TestControlSparsity covers ordering, ties, unvisited slots and bounds.
func TestControlSparsity(t *testing.T) {
	m := &edgemask.Mask{
		Values:  []float64{0.5, -3, 0.5, 0, 2},
		Visited: []bool{true, true, true, false, true},
	}

	cases := []struct {
		s    float64
		want []float64
	}{
		{0, []float64{0.5, -3, 0.5, 0, 2}},
		{0.4, []float64{0.5, -3, 0, 0, 2}}, // keep 3, tie at 0.5 keeps slot 0
		{0.8, []float64{0, -3, 0, 0, 0}},
		{1, []float64{0, 0, 0, 0, 0}},
	}
	for _, tc := range cases {
		out, err := edgemask.ControlSparsity(m, tc.s)
		require.NoError(t, err)
		require.Equal(t, tc.want, out.Values, "s=%v", tc.s)
	}
	require.Equal(t, []float64{0.5, -3, 0.5, 0, 2}, m.Values)

	_, err := edgemask.ControlSparsity(m, 1.5)
	require.ErrorIs(t, err, edgemask.ErrInvalidSparsity)
	_, err = edgemask.ControlSparsity(m, math.NaN())
	require.ErrorIs(t, err, edgemask.ErrInvalidSparsity)
	_, err = edgemask.ControlSparsity(nil, 0.5)
	require.ErrorIs(t, err, edgemask.ErrNilMask)
}

// TestProperties checks the sum and sparsity-count properties on random tables.
func TestProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	const (
		slots = 6
		depth = 3
	)
	walkGen := gen.SliceOfN(depth, gen.IntRange(0, slots-1))
	scoreGen := gen.Float64Range(0.1, 10)

	properties.Property("normalized mask sums to the walk total", prop.ForAll(
		func(ws [][]int, scale float64) bool {
			walks := make([]walk.Walk, len(ws))
			scores := make([]float64, len(ws))
			var total float64
			for i, w := range ws {
				walks[i] = w
				scores[i] = scale * float64(i+1)
				total += scores[i]
			}
			m, err := edgemask.Aggregate(walks, scores, slots, edgemask.WithDepthNormalization(true))
			if err != nil {
				return false
			}
			raw, err := edgemask.Aggregate(walks, scores, slots)
			if err != nil {
				return false
			}

			return math.Abs(m.Sum()-total) < 1e-6 && math.Abs(raw.Sum()-depth*total) < 1e-6
		},
		gen.SliceOf(walkGen), scoreGen,
	))

	properties.Property("sparsity keeps round((1-s)·n) non-zero slots", prop.ForAll(
		func(vals []float64, s float64) bool {
			m := &edgemask.Mask{Values: vals, Visited: make([]bool, len(vals))}
			for i := range m.Visited {
				m.Visited[i] = true
			}
			out, err := edgemask.ControlSparsity(m, s)
			if err != nil {
				return false
			}

			return out.NonZero() == edgemask.Keep(len(vals), s)
		},
		gen.SliceOfN(12, scoreGen), gen.Float64Range(0, 1),
	))

	properties.TestingRun(t)
}
