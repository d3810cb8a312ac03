package mmr

import "github.com/pkg/errors"

// ErrLeafOutOfRange signals a leaf index at or beyond the accumulator's
// leaf count.
var ErrLeafOutOfRange = errors.New("leaf index is out of range")

// ErrLeafPruned signals an operation on a leaf whose content was pruned.
var ErrLeafPruned = errors.New("leaf is pruned")

// ErrLeafAlreadyPruned signals an attempt to prune a leaf twice.
var ErrLeafAlreadyPruned = errors.New("leaf is already pruned")

// ErrMalformedAccumulatorState signals a serialized accumulator state
// that is internally inconsistent and cannot be restored.
var ErrMalformedAccumulatorState = errors.New("malformed accumulator state")

// IsNotFoundError returns whether err signals a leaf that cannot be
// served, either because it lies outside the accumulator or because it
// was pruned away.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrLeafOutOfRange) || errors.Is(err, ErrLeafPruned)
}
