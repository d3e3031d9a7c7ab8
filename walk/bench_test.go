package walk_test

import (
	"testing"

	"github.com/katalvlaran/gnnwalk/graph"
	"github.com/katalvlaran/gnnwalk/walk"
)

// BenchmarkEnumerate_Cycle enumerates depth-3 walks on a self-loop augmented
// undirected ring; every node has three outgoing slots, so 3^3 walks per start.
func BenchmarkEnumerate_Cycle(b *testing.B) {
	const N = 1000
	ei, err := graph.Build(N, []graph.BuildOption{graph.WithUndirected()}, graph.Cycle(N))
	if err != nil {
		b.Fatal(err)
	}
	aug := ei.WithSelfLoops()
	start := walk.AllEdges(aug)

	b.ReportAllocs()
	b.SetBytes(int64(aug.NumNodes + aug.NumEdges()))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = walk.Enumerate(aug, start, 3)
	}
}

// BenchmarkEnumerate_Complete stresses branching: K8 with loops, depth 3.
func BenchmarkEnumerate_Complete(b *testing.B) {
	ei, err := graph.Build(8, []graph.BuildOption{graph.WithUndirected()}, graph.Complete(8))
	if err != nil {
		b.Fatal(err)
	}
	aug := ei.WithSelfLoops()
	start := walk.AllEdges(aug)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = walk.Enumerate(aug, start, 3)
	}
}
