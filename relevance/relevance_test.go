package relevance_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/gnnwalk/autograd"
	"github.com/katalvlaran/gnnwalk/graph"
	"github.com/katalvlaran/gnnwalk/nn"
	"github.com/katalvlaran/gnnwalk/relevance"
	"github.com/katalvlaran/gnnwalk/tensor"
	"github.com/katalvlaran/gnnwalk/walk"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

func mat(t *testing.T, rows ...[]float64) *tensor.Dense {
	t.Helper()
	m, err := tensor.FromRows(rows)
	require.NoError(t, err)

	return m
}

// chainModel is two scalar graph layers without self-loops: W1 = 2, W2 = 3.
func chainModel(t *testing.T) (*nn.Model, graph.EdgeIndex, *tensor.Dense) {
	t.Helper()
	ei, err := graph.Build(3, nil, graph.Path(3))
	require.NoError(t, err)
	l1, err := nn.MessagePassing(mat(t, []float64{2}), nn.WithSelfLoops(false))
	require.NoError(t, err)
	l2, err := nn.MessagePassing(mat(t, []float64{3}), nn.WithSelfLoops(false))
	require.NoError(t, err)
	m, err := nn.NewModel(l1, nn.ReLU(), l2, nn.ReLU(), nn.Pool(nn.PoolIdentity))
	require.NoError(t, err)

	return m, ei, tensor.Full(3, 1, 1)
}

func scoreOf(t *testing.T, tbl *relevance.Table, w walk.Walk) float64 {
	t.Helper()
	for k := range tbl.Walks {
		if tbl.Walks[k].Equal(w) {
			return tbl.Scores[k][0]
		}
	}
	t.Fatalf("walk %v not in table", w)

	return 0
}

// TestChainClosedForm: the only live walk 0->1->2 scores W1·W2·x0 under both methods.
func TestChainClosedForm(t *testing.T) {
	m, ei, x := chainModel(t)
	in := relevance.Input{Model: m, X: x, Graph: ei, Node: 2, Labels: []int{0}}

	chain, err := walk.Enumerate(ei, walk.AllEdges(ei), 2)
	require.NoError(t, err)
	require.Len(t, chain, 1)

	single := in
	single.Walks = chain
	lrp, err := relevance.LRP(context.Background(), single)
	require.NoError(t, err)
	require.InDelta(t, 6.0, lrp.Scores[0][0], tol)

	lrpAll, err := relevance.LRP(context.Background(), in)
	require.NoError(t, err)
	require.InDelta(t, 6.0, scoreOf(t, lrpAll, walk.Walk{0, 1}), tol)
	require.InDelta(t, 6.0, lrpAll.Total(0), tol)
	for _, w := range lrpAll.Walks {
		require.Len(t, w, 2)
	}

	gi, err := relevance.GI(context.Background(), in)
	require.NoError(t, err)
	require.InDelta(t, 6.0, scoreOf(t, gi, walk.Walk{0, 1}), tol)
	require.InDelta(t, 6.0, gi.Total(0), tol)
}

// conservationModel is a bias-free ReLU network with self-loops and two classes.
func conservationModel(t *testing.T, pool nn.PoolMode) *nn.Model {
	t.Helper()
	l1, err := nn.MessagePassing(mat(t, []float64{0.5, -1}, []float64{1, 0.25}))
	require.NoError(t, err)
	l2, err := nn.MessagePassing(mat(t, []float64{0.75, 0.5}, []float64{-0.5, 1}))
	require.NoError(t, err)
	head, err := nn.Dense(mat(t, []float64{1, -0.5}, []float64{0.3, 0.8}), nil)
	require.NoError(t, err)
	m, err := nn.NewModel(l1, nn.ReLU(), l2, nn.ReLU(), nn.Pool(pool), head)
	require.NoError(t, err)

	return m
}

func conservationGraph(t *testing.T) (graph.EdgeIndex, *tensor.Dense) {
	t.Helper()
	ei, err := graph.Build(4, []graph.BuildOption{graph.WithUndirected()}, graph.Path(4), graph.Edges([2]int{0, 2}))
	require.NoError(t, err)

	return ei, mat(t, []float64{1, 0.5}, []float64{0.2, 1}, []float64{0.7, 0.1}, []float64{0.4, 0.9})
}

// TestGIConservation: walk relevances sum to the explained score.
func TestGIConservation(t *testing.T) {
	ei, x := conservationGraph(t)

	for _, tc := range []struct {
		name string
		pool nn.PoolMode
		node int
		row  int
	}{
		{"Node", nn.PoolIdentity, 1, 1},
		{"Graph", nn.PoolSum, relevance.GraphTask, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			m := conservationModel(t, tc.pool)
			out, err := m.Forward(autograd.Const(x), ei)
			require.NoError(t, err)

			tbl, err := relevance.GI(context.Background(), relevance.Input{Model: m, X: x, Graph: ei, Node: tc.node})
			require.NoError(t, err)
			require.Equal(t, []int{0, 1}, tbl.Labels)
			for j, label := range tbl.Labels {
				want, err := out.Scores.Value().At(tc.row, label)
				require.NoError(t, err)
				require.InDelta(t, want, tbl.Total(j), 1e-9)
			}
		})
	}
}

// TestGammaSplit: a mixed-sign layer moves relevance toward the positive
// contribution. Node 1 hears x0 = [1 0] over edge 0->1 and x1 = [0 1] over
// its loop, W = [2 -1]ᵀ, score 1. With W_γ = [2+2γ -1]ᵀ the walks get
// (2+2γ)/(1+2γ) and -1/(1+2γ); gradients alone give 2 and -1.
func TestGammaSplit(t *testing.T) {
	ei, err := graph.New(2, [][2]int{{0, 1}})
	require.NoError(t, err)
	mp, err := nn.MessagePassing(mat(t, []float64{2}, []float64{-1}))
	require.NoError(t, err)
	m, err := nn.NewModel(mp, nn.Pool(nn.PoolIdentity))
	require.NoError(t, err)
	x := mat(t, []float64{1, 0}, []float64{0, 1})

	edge, loop := walk.Walk{0}, walk.Walk{2}
	for _, tc := range []struct {
		name       string
		gamma      []float64
		edge, loop float64
	}{
		{"Gamma1", []float64{1}, 4.0 / 3, -1.0 / 3},
		{"Default", nil, 6.0 / 5, -1.0 / 5},
		{"Gamma0", []float64{0}, 2, -1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			tbl, err := relevance.LRP(context.Background(), relevance.Input{
				Model: m, X: x, Graph: ei, Node: 1, Labels: []int{0}, Gamma: tc.gamma,
			})
			require.NoError(t, err)
			require.Len(t, tbl.Walks, 2)
			require.InDelta(t, tc.edge, scoreOf(t, tbl, edge), tol)
			require.InDelta(t, tc.loop, scoreOf(t, tbl, loop), tol)
			require.InDelta(t, 1.0, tbl.Total(0), tol)
		})
	}

	gi, err := relevance.GI(context.Background(), relevance.Input{Model: m, X: x, Graph: ei, Node: 1, Labels: []int{0}})
	require.NoError(t, err)
	require.InDelta(t, 2.0, scoreOf(t, gi, edge), tol)
	require.InDelta(t, -1.0, scoreOf(t, gi, loop), tol)
}

// ginModel stacks two GIN layers with positive, bias-free sub-networks.
func ginModel(t *testing.T) *nn.Model {
	t.Helper()
	d1, err := nn.Dense(mat(t, []float64{0.5, 0.25}, []float64{0.75, 1}), nil)
	require.NoError(t, err)
	d2, err := nn.Dense(mat(t, []float64{1, 0.5}, []float64{0.25, 0.5}), nil)
	require.NoError(t, err)
	g1, err := nn.GIN([]nn.Layer{d1, nn.ReLU(), d2}, nn.WithGINEps(0.25))
	require.NoError(t, err)
	d3, err := nn.Dense(mat(t, []float64{0.5}, []float64{1.5}), nil)
	require.NoError(t, err)
	g2, err := nn.GIN([]nn.Layer{d3})
	require.NoError(t, err)
	m, err := nn.NewModel(g1, nn.ReLU(), g2, nn.ReLU(), nn.Pool(nn.PoolIdentity))
	require.NoError(t, err)

	return m
}

// TestGINConservation: in the linear regime both methods distribute the full
// score of a GIN model over its walks, self terms included.
func TestGINConservation(t *testing.T) {
	ei, x := conservationGraph(t)
	m := ginModel(t)
	out, err := m.Forward(autograd.Const(x), ei)
	require.NoError(t, err)

	for _, node := range []int{0, 2} {
		want, err := out.Scores.Value().At(node, 0)
		require.NoError(t, err)
		require.Greater(t, want, 0.0)
		in := relevance.Input{Model: m, X: x, Graph: ei, Node: node}

		lrp, err := relevance.LRP(context.Background(), in)
		require.NoError(t, err)
		require.InDelta(t, want, lrp.Total(0), 1e-9)

		gi, err := relevance.GI(context.Background(), in)
		require.NoError(t, err)
		require.InDelta(t, want, gi.Total(0), 1e-9)
	}
}

// TestDeterminism: identical inputs give bit-identical tables for any parallelism.
func TestDeterminism(t *testing.T) {
	ei, x := conservationGraph(t)
	m := conservationModel(t, nn.PoolIdentity)
	in := relevance.Input{Model: m, X: x, Graph: ei, Node: 2}

	for _, method := range []func(context.Context, relevance.Input) (*relevance.Table, error){relevance.GI, relevance.LRP} {
		a, err := method(context.Background(), in)
		require.NoError(t, err)
		par := in
		par.Parallelism = 2
		b, err := method(context.Background(), par)
		require.NoError(t, err)
		require.Equal(t, a, b)
	}
}

// TestLRPMatchesEnumeration: LRP walks are the augmented walks ending at the node.
func TestLRPMatchesEnumeration(t *testing.T) {
	ei, x := conservationGraph(t)
	m := conservationModel(t, nn.PoolIdentity)

	tbl, err := relevance.LRP(context.Background(), relevance.Input{Model: m, X: x, Graph: ei, Node: 0, Labels: []int{1}})
	require.NoError(t, err)

	aug := ei.WithSelfLoops()
	all, err := walk.Enumerate(aug, walk.AllEdges(aug), 2)
	require.NoError(t, err)
	require.Equal(t, walk.EndingAt(aug, all, 0), tbl.Walks)
	require.Len(t, tbl.Column(0), len(tbl.Walks))
}

// TestErrors covers validation failures.
func TestErrors(t *testing.T) {
	m, ei, x := chainModel(t)
	ctx := context.Background()

	_, err := relevance.LRP(ctx, relevance.Input{Model: m, X: x, Graph: ei, Node: 2, Labels: []int{3}})
	require.ErrorIs(t, err, relevance.ErrInvalidLabel)
	_, err = relevance.GI(ctx, relevance.Input{Model: m, X: x, Graph: ei, Node: 9})
	require.ErrorIs(t, err, relevance.ErrInvalidNode)
	_, err = relevance.LRP(ctx, relevance.Input{Model: m, X: x, Graph: ei, Node: 2, Walks: []walk.Walk{{0}}})
	require.ErrorIs(t, err, relevance.ErrDepthMismatch)
	_, err = relevance.LRP(ctx, relevance.Input{Model: m, X: x, Graph: ei, Node: 2, Walks: []walk.Walk{{0, 9}}})
	require.ErrorIs(t, err, relevance.ErrInvalidWalk)
	_, err = relevance.GI(ctx, relevance.Input{X: x, Graph: ei})
	require.ErrorIs(t, err, relevance.ErrNilModel)
	_, err = relevance.LRP(ctx, relevance.Input{Model: m, Graph: ei})
	require.ErrorIs(t, err, relevance.ErrNilFeatures)

	l1, err := nn.MessagePassing(mat(t, []float64{1}))
	require.NoError(t, err)
	noPool, err := nn.NewModel(l1, nn.ReLU(), l1)
	require.NoError(t, err)
	_, err = relevance.GI(ctx, relevance.Input{Model: noPool, X: x, Graph: ei, Node: 2})
	require.ErrorIs(t, err, relevance.ErrDepthMismatch)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = relevance.LRP(canceled, relevance.Input{Model: m, X: x, Graph: ei, Node: 2})
	require.ErrorIs(t, err, context.Canceled)
}
