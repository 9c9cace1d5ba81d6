package model

import (
	"fmt"

	"github.com/ConchFeng/gmsh-fork/element"
	"github.com/notargets/gocfd/DG3D/mesh"
	"github.com/notargets/gocfd/DG3D/mesh/readers"
)

const (
	// DomainGroup is the physical group holding every imported volume entity
	DomainGroup = 1
	DomainName  = "domain"
)

// ReadMeshFile loads a volume mesh (Gambit neutral, Gmsh or SU2, as
// supported by the gocfd readers) into a new GModel.
func ReadMeshFile(meshfile string) (*GModel, error) {
	msh, err := readers.ReadMeshFile(meshfile)
	if err != nil {
		return nil, fmt.Errorf("read mesh %s: %w", meshfile, err)
	}
	return FromMesh(meshfile, msh)
}

// FromMesh converts a gocfd mesh into a GModel. Vertex i of the mesh becomes
// vertex number i+1. Elements are grouped into one elementary volume entity
// per partition (tag = partition+1) when the mesh carries an element to
// partition map, a single entity with tag 1 otherwise. All volume entities
// belong to physical group DomainGroup.
func FromMesh(name string, msh *mesh.Mesh) (m *GModel, err error) {
	m = NewGModel(name)
	for i, v := range msh.Vertices {
		if _, err = m.AddVertex(i+1, v[0], v[1], v[2]); err != nil {
			return nil, err
		}
	}

	for k, ev := range msh.EtoV {
		var geom element.ElementGeometry
		if geom, err = element.GeometryOf(3, len(ev)); err != nil {
			return nil, fmt.Errorf("element %d: %v: %w", k, err, ErrUnsupportedMesh)
		}
		tag := 1
		if k < len(msh.EToP) {
			tag = msh.EToP[k] + 1
		}
		if _, ok := m.Entity(3, tag); !ok {
			if _, err = m.AddEntity(3, tag); err != nil {
				return nil, err
			}
			if err = m.AddPhysical(3, tag, DomainGroup); err != nil {
				return nil, err
			}
		}
		nums := make([]int, len(ev))
		for j, vi := range ev {
			nums[j] = vi + 1
		}
		if _, err = m.AddCell(3, tag, geom, nums...); err != nil {
			return nil, fmt.Errorf("element %d: %w", k, err)
		}
	}
	m.SetPhysicalName(DomainName, 3, DomainGroup)
	return
}
