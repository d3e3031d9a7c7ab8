package explain_test

import (
	"context"
	"testing"
	"time"

	"github.com/katalvlaran/gnnwalk/explain"
	"github.com/katalvlaran/gnnwalk/graph"
	"github.com/katalvlaran/gnnwalk/metrics"
	"github.com/katalvlaran/gnnwalk/tensor"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))

	return m.GetCounter().GetValue()
}

func TestExplainNodesNoBudget(t *testing.T) {
	ex, err := explain.New(unitModel(t, true), explain.WithMethod(explain.MethodGNNGI))
	require.NoError(t, err)

	b, err := ex.ExplainNodes(context.Background(), tensor.Full(5, 1, 1), star(t), []int{0, 1, 2}, 0)
	require.NoError(t, err)
	require.Len(t, b.Explanations, 3)
	require.Len(t, b.Durations, 3)
	require.Empty(t, b.Skipped)
	for i, node := range []int{0, 1, 2} {
		require.Equal(t, node, b.Explanations[i].Node)
	}
	require.NotEqual(t, b.Explanations[0].ID, b.Explanations[1].ID)
}

// TestExplainNodesBudget: the node in progress finishes, the rest are skipped whole.
func TestExplainNodesBudget(t *testing.T) {
	reg := metrics.NewRegistry()
	ex, err := explain.New(unitModel(t, true), explain.WithMetrics(reg))
	require.NoError(t, err)

	b, err := ex.ExplainNodes(context.Background(), tensor.Full(5, 1, 1), star(t), []int{3, 1, 4}, time.Nanosecond)
	require.NoError(t, err)
	require.Len(t, b.Explanations, 1)
	require.Equal(t, 3, b.Explanations[0].Node)
	require.Equal(t, []int{1, 4}, b.Skipped)
	require.Equal(t, 2.0, counterValue(t, reg.BatchSkippedTotal))

	// The configured limit applies when no budget is passed.
	limited, err := explain.New(unitModel(t, true), explain.WithTimeLimit(time.Nanosecond))
	require.NoError(t, err)
	b, err = limited.ExplainNodes(context.Background(), tensor.Full(5, 1, 1), star(t), []int{0, 2}, 0)
	require.NoError(t, err)
	require.Len(t, b.Explanations, 1)
	require.Equal(t, []int{2}, b.Skipped)
}

func TestExplainNodesErrors(t *testing.T) {
	ex, err := explain.New(unitModel(t, true))
	require.NoError(t, err)

	_, err = ex.ExplainNodes(context.Background(), tensor.Full(5, 1, 1), star(t), []int{0, 7}, 0)
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ex.ExplainNodes(ctx, tensor.Full(5, 1, 1), star(t), []int{0}, 0)
	require.ErrorIs(t, err, context.Canceled)
}

func TestExplainGraphs(t *testing.T) {
	p3, err := graph.Build(3, nil, graph.Path(3))
	require.NoError(t, err)
	c3, err := graph.Build(3, nil, graph.Cycle(3))
	require.NoError(t, err)

	ex, err := explain.New(graphModel(t), explain.WithMethod(explain.MethodGNNGI))
	require.NoError(t, err)
	b, err := ex.ExplainGraphs(context.Background(), []explain.GraphInput{
		{X: tensor.Full(3, 1, 1), EdgeIndex: p3},
		{X: tensor.Full(3, 1, 1), EdgeIndex: c3},
	})
	require.NoError(t, err)
	require.Len(t, b.Explanations, 2)
	require.Len(t, b.Explanations[0].Masks[0], 5)
	require.Len(t, b.Explanations[1].Masks[0], 6)
}
