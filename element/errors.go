package element

import "errors"

var (
	// ErrTopologyNotImplemented is returned for cell types or (dimension,
	// vertex count) pairs without reference tables.
	ErrTopologyNotImplemented = errors.New("element: topology not implemented")

	// ErrVertexCount indicates a vertex list whose length does not match the cell type.
	ErrVertexCount = errors.New("element: wrong number of vertices")

	// ErrNilVertex indicates a nil vertex in a cell definition.
	ErrNilVertex = errors.New("element: nil vertex")
)
