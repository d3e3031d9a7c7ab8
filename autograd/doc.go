// SPDX-License-Identifier: MIT

// Package autograd is a small reverse-mode differentiation engine over
// tensor.Dense values, sized for explaining message-passing networks.
//
// What
//
//   - Var: an immutable value plus the operation that produced it.
//   - Leaf / Const / Detach: entry points into, and exits out of, the graph.
//   - Ops: MatMul, Transpose, Add, Sub, Mul, Scale, AddScalar, AddRowVector,
//     SumRows, BroadcastRows, ReLU, ScatterAdd, RowDot, Index, Embed, Sum.
//   - Grad / GradGraph: gradients of a 1×1 output with respect to chosen inputs.
//
// Higher order
//
//	Every backward rule is written with the same differentiable ops, so the
//	gradients returned by GradGraph are themselves Vars that remember how they
//	depend on other leaves. Differentiating them again yields mixed higher
//	derivatives; walk-level gradient decomposition needs one order per layer.
//
// Tracking
//
//	A Var requires gradients when it is a requiring leaf or any parent requires
//	them. Constants carry no backward rule and are skipped by Grad, so detached
//	sub-expressions cost nothing during the reverse sweep.
//
// Errors
//
//	Shape errors inside ops are programmer errors and panic with *ShapeError.
//	Try converts such a panic back into an error at an API boundary. Grad
//	returns ErrNotScalar / ErrNilVar for invalid requests.
//
// Determinism
//
//	The reverse sweep visits Vars in a fixed post-order derived from parent
//	order, and gradient contributions are summed in that order.
package autograd
