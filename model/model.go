package model

import (
	"github.com/ConchFeng/gmsh-fork/element"
)

// Entity is a geometric entity owning mesh elements of a single dimension
type Entity interface {
	Dim() int
	Tag() int
	NumMeshElements() int
	MeshElement(i int) element.MeshElement
}

// Model is the geometric model collaborator used by the chain algebra.
// Physical groups are numbered per dimension; a group number may exist in
// several dimensions at once.
type Model interface {
	// PhysicalGroups maps, for each dimension 0..3, a physical group number
	// to the entities it contains.
	PhysicalGroups() [4]map[int][]Entity
	PhysicalName(dim, num int) string
	SetPhysicalName(name string, dim, num int)

	MaxElementaryNumber(dim int) int
	MaxPhysicalNumber(dim int) int
	// MaxElementNumber is the largest mesh element number in use
	MaxElementNumber() int

	// StoreChain registers elements under new or existing elementary
	// entities of dimension dim. physicalMap assigns, per entity, physical
	// group numbers and their names.
	StoreChain(dim int, entityMap map[int][]element.MeshElement,
		physicalMap map[int]map[int]string) error
}
