// SPDX-License-Identifier: MIT

// Package walk enumerates the walks along which a message-passing network of
// depth L moves information: sequences of L edge slots where each edge starts
// at the node the previous one ended at.
//
// Enumerate runs over whatever edge index it is given. Explainers pass the
// self-loop augmented index (graph.EdgeIndex.WithSelfLoops), so a loop slot in a
// walk means "the message stayed put for one layer".
//
// Node-level explanations keep only walks ending at the explained node
// (EndingAt). Filtering after a full enumeration and pruning during it yield the
// same set; this package filters.
//
// Errors:
//   - ErrInvalidDepth  depth < 1.
//   - ErrInvalidEdge   a start slot outside [0, E).
package walk
