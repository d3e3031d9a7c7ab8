package walk_test

import (
	"fmt"

	"github.com/katalvlaran/gnnwalk/graph"
	"github.com/katalvlaran/gnnwalk/walk"
)

// ExampleEnumerate lists every two-edge walk ending at node 2 of the chain
// 0 -> 1 -> 2 once self-loops are added. Slots 0 and 1 are the chain edges,
// slots 2, 3 and 4 the loops of nodes 0, 1 and 2.
func ExampleEnumerate() {
	ei, _ := graph.Build(3, nil, graph.Path(3))
	aug := ei.WithSelfLoops()

	all, err := walk.Enumerate(aug, walk.AllEdges(aug), 2)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	into2 := walk.EndingAt(aug, all, 2)
	fmt.Println(into2)
	fmt.Println(walk.Trail(aug, into2[0]))

	// Output:
	// [[0 1] [1 4] [3 1] [4 4]]
	// [0 1 2]
}
