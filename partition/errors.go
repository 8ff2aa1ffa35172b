package partition

import "errors"

var (
	// ErrInvalidConfig is returned when the OS would not fit in memory.
	ErrInvalidConfig = errors.New("total memory must not be smaller than the os size")

	// ErrInvalidAlgorithm is returned for an unknown placement algorithm.
	ErrInvalidAlgorithm = errors.New("invalid allocation algorithm")
)
