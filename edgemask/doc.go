// SPDX-License-Identifier: MIT

// Package edgemask projects walk relevances onto edges and thresholds the
// result.
//
// A slot's value is the sum of the scores of the walks that traverse it, once
// per traversal. With walks of length L the mask therefore sums to L times the
// total walk relevance; WithDepthNormalization(true) splits each walk score
// evenly over its L edges so both sums agree.
//
// Slots no walk visits carry no information. They read 0 in Values and false
// in Visited, and ControlSparsity ranks them behind every visited slot.
package edgemask
