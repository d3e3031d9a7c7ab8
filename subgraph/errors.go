// SPDX-License-Identifier: MIT

package subgraph

import (
	"errors"

	"github.com/katalvlaran/gnnwalk/graph"
)

var (
	// ErrInvalidNodeIndex indicates a target node outside [0, N).
	ErrInvalidNodeIndex = errors.New("subgraph: invalid node index")

	// ErrInvalidHops indicates a hop budget below -1.
	ErrInvalidHops = errors.New("subgraph: invalid hop count")

	// ErrInvalidFlow is graph.ErrInvalidFlow, re-exported so callers of this
	// package can match it without importing graph.
	ErrInvalidFlow = graph.ErrInvalidFlow
)
