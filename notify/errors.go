package notify

import "errors"

var (
	// ErrRegistryNil indicates that a nil Registry was provided.
	ErrRegistryNil = errors.New("registry is nil")

	// ErrInvalidEdge indicates an edge other than RisingEdge, FallingEdge or BothEdges.
	ErrInvalidEdge = errors.New("invalid edge, should be rising, falling or both")

	// ErrInvalidLine indicates a chip or line number outside [0, 255].
	ErrInvalidLine = errors.New("chip and line should be in range of [0, 255]")
)
