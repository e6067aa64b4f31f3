package graphdoc

import "errors"

// Sentinel errors returned when a document fails validation. A document that
// fails validation is never partially applied.
var (
	// ErrMissingNodes is returned when the "nodes" array is absent or null.
	ErrMissingNodes = errors.New("document is missing the nodes array")

	// ErrMissingEdges is returned when the "edges" array is absent or null.
	ErrMissingEdges = errors.New("document is missing the edges array")

	// ErrDuplicateNode is returned when two nodes share an id.
	ErrDuplicateNode = errors.New("duplicate node id")

	// ErrMalformed wraps JSON syntax and type errors.
	ErrMalformed = errors.New("malformed document")
)
