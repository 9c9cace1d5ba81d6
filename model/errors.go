package model

import "errors"

var (
	ErrEntityExists    = errors.New("model: entity already exists")
	ErrUnknownEntity   = errors.New("model: unknown entity")
	ErrBadDimension    = errors.New("model: dimension out of range")
	ErrUnsupportedMesh = errors.New("model: unsupported mesh")
	ErrDuplicateVertex = errors.New("model: duplicate vertex number")
)
