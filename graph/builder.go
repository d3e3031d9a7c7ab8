// SPDX-License-Identifier: MIT
// Package: gnnwalk/graph
//
// builder.go - deterministic topology constructors.
//
// Contract:
//   - One orchestrator: Build(n, opts, cons...). Allocates an empty EdgeIndex over
//     n nodes and runs the constructors in order; each appends edges.
//   - Constructors validate their parameters early and return sentinel errors.
//   - WithUndirected mirrors every emitted edge (u->v followed by v->u), the way
//     undirected datasets are stored as two directed edges.
//   - Determinism: same inputs and constructor order give identical edge lists.

package graph

import "fmt"

// Constructor appends edges to ei using the resolved build configuration.
type Constructor func(ei *EdgeIndex, cfg buildConfig) error

// BuildOption tunes Build.
type BuildOption func(*buildConfig)

type buildConfig struct {
	undirected bool
}

// WithUndirected makes constructors emit both directions of every edge.
func WithUndirected() BuildOption {
	return func(c *buildConfig) { c.undirected = true }
}

// addEdge appends u->v and, for undirected builds, v->u.
func (c buildConfig) addEdge(ei *EdgeIndex, u, v int) {
	ei.Src = append(ei.Src, u)
	ei.Dst = append(ei.Dst, v)
	if c.undirected && u != v {
		ei.Src = append(ei.Src, v)
		ei.Dst = append(ei.Dst, u)
	}
}

// Build creates an EdgeIndex over n nodes and applies cons in order.
// Any constructor error is wrapped with "Build: %w" and returned immediately.
func Build(n int, opts []BuildOption, cons ...Constructor) (EdgeIndex, error) {
	if n < 0 {
		return EdgeIndex{}, fmt.Errorf("Build: n=%d: %w", n, ErrNegativeNodes)
	}
	var cfg buildConfig
	for _, o := range opts {
		o(&cfg)
	}

	ei := EdgeIndex{NumNodes: n}
	for i, fn := range cons {
		if fn == nil {
			return EdgeIndex{}, fmt.Errorf("Build: constructor %d: %w", i, ErrNilConstructor)
		}
		if err := fn(&ei, cfg); err != nil {
			return EdgeIndex{}, fmt.Errorf("Build: %w", err)
		}
	}
	if err := ei.Validate(); err != nil {
		return EdgeIndex{}, fmt.Errorf("Build: %w", err)
	}

	return ei, nil
}

// Path emits 0->1->...->(k-1) over the first k nodes.
func Path(k int) Constructor {
	return func(ei *EdgeIndex, cfg buildConfig) error {
		if k < 2 || k > ei.NumNodes {
			return fmt.Errorf("Path: k=%d, n=%d: %w", k, ei.NumNodes, ErrTooFewNodes)
		}
		for i := 1; i < k; i++ {
			cfg.addEdge(ei, i-1, i)
		}

		return nil
	}
}

// Star emits hub 0 -> leaf i for i = 1..k-1.
func Star(k int) Constructor {
	return func(ei *EdgeIndex, cfg buildConfig) error {
		if k < 2 || k > ei.NumNodes {
			return fmt.Errorf("Star: k=%d, n=%d: %w", k, ei.NumNodes, ErrTooFewNodes)
		}
		for i := 1; i < k; i++ {
			cfg.addEdge(ei, 0, i)
		}

		return nil
	}
}

// Cycle emits the ring 0->1->...->(k-1)->0.
func Cycle(k int) Constructor {
	return func(ei *EdgeIndex, cfg buildConfig) error {
		if k < 3 || k > ei.NumNodes {
			return fmt.Errorf("Cycle: k=%d, n=%d: %w", k, ei.NumNodes, ErrTooFewNodes)
		}
		for i := 0; i < k; i++ {
			cfg.addEdge(ei, i, (i+1)%k)
		}

		return nil
	}
}

// Complete emits u->v for every ordered pair u<v over the first k nodes
// (both directions when undirected).
func Complete(k int) Constructor {
	return func(ei *EdgeIndex, cfg buildConfig) error {
		if k < 2 || k > ei.NumNodes {
			return fmt.Errorf("Complete: k=%d, n=%d: %w", k, ei.NumNodes, ErrTooFewNodes)
		}
		for u := 0; u < k; u++ {
			for v := u + 1; v < k; v++ {
				cfg.addEdge(ei, u, v)
			}
		}

		return nil
	}
}

// Edges appends explicit (source, target) pairs; endpoints are checked by Build.
func Edges(pairs ...[2]int) Constructor {
	return func(ei *EdgeIndex, cfg buildConfig) error {
		for _, p := range pairs {
			cfg.addEdge(ei, p[0], p[1])
		}

		return nil
	}
}
