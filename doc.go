// Package gnnwalk explains graph neural network predictions as relevance
// over walks: ordered edge sequences, one edge per message-passing layer,
// through the self-loop augmented graph.
//
// What is in the box?
//
//	Two walk-level attribution methods over a small differentiable GNN runtime:
//		• GNN-GI: nested edge-weight gradients (higher-order autograd)
//		• GNN-LRP: gamma-rule layer-wise relevance propagation
//	and the plumbing around them:
//		• k-hop subgraph extraction (with the whole-graph mode)
//		• an explicit layer tracer (no hooks, sealed on every exit path)
//		• explicit-stack walk enumeration
//		• edge-mask aggregation and sparsification
//
// Under the hood, packages are layered leaves first:
//
//	graph/     — EdgeIndex, self-loop slots, flow, test topologies
//	tensor/    — row-major float64 matrices
//	autograd/  — reverse mode with create-graph backward
//	nn/        — MessagePassing, GIN, Dense, ReLU, Pool; Model; gamma clones
//	subgraph/  — k-hop extraction
//	tracer/    — walk and readout step capture
//	walk/      — walk enumeration
//	relevance/ — GI and LRP walk tables
//	edgemask/  — walk scores onto edges, sparsity control
//	metrics/   — Prometheus instruments
//	explain/   — Explainer: config, logging, spans, batch drivers
//
// Quick ASCII example:
//
//	0 ──► 1 ──► 2      two layers, weights 2 and 3, x = 1
//
//	the one walk (0→1, 1→2) carries the whole score 2·3·1 = 6 of node 2.
//
//	go get github.com/katalvlaran/gnnwalk
package gnnwalk
