package utils

import "errors"

var (
	ErrEmptyMesh = errors.New("utils: no elements")

	// ErrMixedDimensions is returned when the elements of a connector do not
	// all have the same dimension.
	ErrMixedDimensions = errors.New("utils: elements of different dimensions")

	// ErrNonManifold is returned when more than two elements share a facet
	ErrNonManifold = errors.New("utils: facet shared by more than two elements")

	ErrPartitionMap = errors.New("utils: invalid element to partition map")
)
