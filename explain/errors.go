// SPDX-License-Identifier: MIT

package explain

import "errors"

var (
	// ErrNilModel indicates New was called without a model.
	ErrNilModel = errors.New("explain: nil model")

	// ErrNilFeatures indicates a nil feature matrix.
	ErrNilFeatures = errors.New("explain: nil feature matrix")

	// ErrFeatureRows indicates a feature matrix whose row count differs from the node count.
	ErrFeatureRows = errors.New("explain: feature rows do not match node count")

	// ErrInvalidMethod indicates an unknown explanation method.
	ErrInvalidMethod = errors.New("explain: invalid method")

	// ErrInvalidConfig indicates a configuration that failed validation.
	ErrInvalidConfig = errors.New("explain: invalid config")

	// ErrInvalidLabel indicates a label index outside the score columns.
	ErrInvalidLabel = errors.New("explain: label not explained")
)
