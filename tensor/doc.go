// SPDX-License-Identifier: MIT

// Package tensor provides the row-major float64 matrix used for node features,
// layer weights, hidden states and edge-weight vectors.
//
// Purpose:
//   - Cache-friendly row-major buffer with the explicit offset formula i*cols + j.
//   - Safe public surface: At/Set and every operation return sentinel errors
//     instead of panicking on bad shapes or indices.
//   - Value semantics: operations never mutate their operands; each returns a
//     freshly allocated *Dense. Clone is a deep copy, so derived weights
//     (for example gamma-rescaled copies) never alias their source.
//   - Determinism: fixed loop orders, no map iteration, no hidden parallelism.
//
// Shapes:
//
//	Zero-sized shapes (0×c, r×0) are legal; negative ones are not. A column
//	vector is r×1, a row vector 1×c. Edge-weight vectors are stored as (E+N)×1.
//
// Complexity quicksheet:
//   - NewDense/Zeros: O(r*c); At/Set: O(1); Clone: O(r*c).
//   - MatMul: O(r*n*c); Transpose/Add/Hadamard/Scale: O(r*c).
package tensor
