package graph_test

import (
	"testing"

	"github.com/katalvlaran/gnnwalk/graph"
	"github.com/stretchr/testify/require"
)

// TestNewValidates rejects endpoints outside [0, n).
func TestNewValidates(t *testing.T) {
	_, err := graph.New(2, [][2]int{{0, 2}})
	require.ErrorIs(t, err, graph.ErrNodeOutOfRange)

	_, err = graph.New(2, [][2]int{{-1, 0}})
	require.ErrorIs(t, err, graph.ErrNodeOutOfRange)

	ei, err := graph.New(3, [][2]int{{0, 1}, {1, 2}})
	require.NoError(t, err)
	require.Equal(t, 2, ei.NumEdges())
}

// TestValidateLengthMismatch catches hand-built indices with ragged slices.
func TestValidateLengthMismatch(t *testing.T) {
	ei := graph.EdgeIndex{NumNodes: 2, Src: []int{0}, Dst: nil}
	require.ErrorIs(t, ei.Validate(), graph.ErrLengthMismatch)
}

// TestWithSelfLoops appends loop i->i at slot E+i and leaves the input untouched.
func TestWithSelfLoops(t *testing.T) {
	ei, err := graph.New(3, [][2]int{{0, 1}, {1, 2}})
	require.NoError(t, err)

	loops := ei.WithSelfLoops()
	require.Equal(t, 5, loops.NumEdges())
	require.Equal(t, []int{0, 1, 0, 1, 2}, loops.Src)
	require.Equal(t, []int{1, 2, 0, 1, 2}, loops.Dst)
	require.Equal(t, 2, ei.NumEdges()) // original unchanged
}

// TestBySourceByTarget groups slots in ascending order.
func TestBySourceByTarget(t *testing.T) {
	ei, err := graph.New(3, [][2]int{{0, 1}, {0, 2}, {2, 0}, {0, 1}})
	require.NoError(t, err)

	require.Equal(t, [][]int{{0, 1, 3}, nil, {2}}, ei.BySource())
	require.Equal(t, [][]int{{2}, {0, 3}, {1}}, ei.ByTarget())
	require.Equal(t, []int{1, 2, 1}, ei.InDegree())
	require.Equal(t, 2, ei.MaxNode())
}

// TestReverseAndClone produce independent copies.
func TestReverseAndClone(t *testing.T) {
	ei, err := graph.New(2, [][2]int{{0, 1}})
	require.NoError(t, err)

	rev := ei.Reverse()
	require.Equal(t, []int{1}, rev.Src)
	require.Equal(t, []int{0}, rev.Dst)

	c := ei.Clone()
	c.Src[0] = 1
	require.Equal(t, 0, ei.Src[0])
}

// TestBuildConstructors checks edge emission order for every constructor.
func TestBuildConstructors(t *testing.T) {
	cases := []struct {
		name string
		n    int
		opts []graph.BuildOption
		con  graph.Constructor
		src  []int
		dst  []int
	}{
		{"path", 3, nil, graph.Path(3), []int{0, 1}, []int{1, 2}},
		{"star", 4, nil, graph.Star(4), []int{0, 0, 0}, []int{1, 2, 3}},
		{"cycle", 3, nil, graph.Cycle(3), []int{0, 1, 2}, []int{1, 2, 0}},
		{"complete", 3, nil, graph.Complete(3), []int{0, 0, 1}, []int{1, 2, 2}},
		{"undirected path", 3, []graph.BuildOption{graph.WithUndirected()}, graph.Path(3), []int{0, 1, 1, 2}, []int{1, 0, 2, 1}},
		{"edges", 2, nil, graph.Edges([2]int{1, 0}), []int{1}, []int{0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ei, err := graph.Build(tc.n, tc.opts, tc.con)
			require.NoError(t, err)
			require.Equal(t, tc.src, ei.Src)
			require.Equal(t, tc.dst, ei.Dst)
		})
	}
}

// TestBuildErrors covers sentinel propagation through Build.
func TestBuildErrors(t *testing.T) {
	_, err := graph.Build(2, nil, graph.Cycle(2))
	require.ErrorIs(t, err, graph.ErrTooFewNodes)

	_, err = graph.Build(2, nil, graph.Star(5))
	require.ErrorIs(t, err, graph.ErrTooFewNodes)

	_, err = graph.Build(2, nil, nil)
	require.ErrorIs(t, err, graph.ErrNilConstructor)

	_, err = graph.Build(2, nil, graph.Edges([2]int{0, 3}))
	require.ErrorIs(t, err, graph.ErrNodeOutOfRange)

	_, err = graph.Build(-1, nil)
	require.ErrorIs(t, err, graph.ErrNegativeNodes)
}
