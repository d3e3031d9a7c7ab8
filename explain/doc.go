// SPDX-License-Identifier: MIT

// Package explain ties the walk engine together: it traces a model, scores
// walks with GNN-LRP or GNN-GI, projects the scores onto edges and sparsifies
// the result.
//
//	ex, _ := explain.New(model, explain.WithMethod(explain.MethodGNNGI), explain.WithSparsity(0.5))
//	res, err := ex.ExplainNode(ctx, x, ei, 3)
//
// Masks live in the self-loop augmented slot space: entries 0..E-1 belong to
// the input edges and entry E+i to the loop of node i. With WithCrop the node
// is explained on its k-hop subgraph and the result is scattered back, so
// masks always have length E+N.
//
// An Explainer is safe for concurrent use; it holds only immutable
// configuration and a read-only model.
package explain
