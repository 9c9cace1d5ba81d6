package element

import (
	"fmt"
)

// Dimensionality represents the topological dimension of a cell
type Dimensionality uint8

const (
	D0 Dimensionality = iota // points
	D1                       // lines, edges
	D2                       // triangles, quadrilaterals
	D3                       // tetrahedra, hexahedra, prisms, pyramids
)

type ElementGeometry uint8

const (
	Tet ElementGeometry = iota
	Hex
	Prism
	Pyramid
	Tri
	Rectangle
	Line
	Point
)

// topology holds the first-order reference connectivity of one cell type.
// Edge and face vertex lists index into the cell's vertex list; faces are
// listed with outward orientation so that every interior edge is traversed
// in opposite directions by its two faces.
type topology struct {
	name   string
	dim    Dimensionality
	nv     int
	edges  [][2]int
	faces  [][]int
	revert []int // vertex permutation that flips orientation
}

var topologies = map[ElementGeometry]topology{
	Point: {
		name:   "Point",
		dim:    D0,
		nv:     1,
		revert: []int{0},
	},
	Line: {
		name:   "Line",
		dim:    D1,
		nv:     2,
		edges:  [][2]int{{0, 1}},
		revert: []int{1, 0},
	},
	Tri: {
		name:   "Triangle",
		dim:    D2,
		nv:     3,
		edges:  [][2]int{{0, 1}, {1, 2}, {2, 0}},
		faces:  [][]int{{0, 1, 2}},
		revert: []int{0, 2, 1},
	},
	Rectangle: {
		name:   "Quadrangle",
		dim:    D2,
		nv:     4,
		edges:  [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}},
		faces:  [][]int{{0, 1, 2, 3}},
		revert: []int{0, 3, 2, 1},
	},
	Tet: {
		name:  "Tetrahedron",
		dim:   D3,
		nv:    4,
		edges: [][2]int{{0, 1}, {1, 2}, {2, 0}, {3, 0}, {3, 2}, {3, 1}},
		faces: [][]int{
			{0, 2, 1},
			{0, 1, 3},
			{0, 3, 2},
			{3, 1, 2},
		},
		revert: []int{1, 0, 2, 3},
	},
	Hex: {
		name: "Hexahedron",
		dim:  D3,
		nv:   8,
		edges: [][2]int{
			{0, 1}, {0, 3}, {0, 4}, {1, 2}, {1, 5}, {2, 3},
			{2, 6}, {3, 7}, {4, 5}, {4, 7}, {5, 6}, {6, 7},
		},
		faces: [][]int{
			{0, 3, 2, 1},
			{0, 1, 5, 4},
			{0, 4, 7, 3},
			{1, 2, 6, 5},
			{2, 3, 7, 6},
			{4, 5, 6, 7},
		},
		revert: []int{0, 3, 2, 1, 4, 7, 6, 5},
	},
	Prism: {
		name: "Prism",
		dim:  D3,
		nv:   6,
		edges: [][2]int{
			{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 4},
			{2, 5}, {3, 4}, {3, 5}, {4, 5},
		},
		faces: [][]int{
			{0, 2, 1},
			{3, 4, 5},
			{0, 1, 4, 3},
			{0, 3, 5, 2},
			{1, 2, 5, 4},
		},
		revert: []int{0, 2, 1, 3, 5, 4},
	},
	Pyramid: {
		name: "Pyramid",
		dim:  D3,
		nv:   5,
		edges: [][2]int{
			{0, 1}, {0, 3}, {0, 4}, {1, 2},
			{1, 4}, {2, 3}, {2, 4}, {3, 4},
		},
		faces: [][]int{
			{0, 1, 4},
			{3, 0, 4},
			{1, 2, 4},
			{2, 3, 4},
			{0, 3, 2, 1},
		},
		revert: []int{0, 3, 2, 1, 4},
	},
}

func (g ElementGeometry) topo() (tp topology, err error) {
	var ok bool
	if tp, ok = topologies[g]; !ok {
		err = fmt.Errorf("geometry %d: %w", g, ErrTopologyNotImplemented)
	}
	return
}

func (g ElementGeometry) String() string {
	if tp, ok := topologies[g]; ok {
		return tp.name
	}
	return fmt.Sprintf("ElementGeometry(%d)", uint8(g))
}

// Valid reports whether topology tables exist for g
func (g ElementGeometry) Valid() bool {
	_, ok := topologies[g]
	return ok
}

func (g ElementGeometry) Dimensions() Dimensionality { return topologies[g].dim }
func (g ElementGeometry) NumVertices() int          { return topologies[g].nv }
func (g ElementGeometry) NumEdges() int             { return len(topologies[g].edges) }
func (g ElementGeometry) NumFaces() int             { return len(topologies[g].faces) }

// IsSimplex reports whether the cell has dim+1 vertices
func (g ElementGeometry) IsSimplex() bool {
	tp := topologies[g]
	return tp.nv == int(tp.dim)+1
}

// EdgeVertices returns local vertex indices of edge i, nil when out of range
func (g ElementGeometry) EdgeVertices(i int) []int {
	tp := topologies[g]
	if i < 0 || i >= len(tp.edges) {
		return nil
	}
	return []int{tp.edges[i][0], tp.edges[i][1]}
}

// FaceVertices returns local vertex indices of face i, nil when out of range
func (g ElementGeometry) FaceVertices(i int) []int {
	tp := topologies[g]
	if i < 0 || i >= len(tp.faces) {
		return nil
	}
	return append([]int(nil), tp.faces[i]...)
}

// NumFacets returns the number of codimension-one cells bounding g
func (g ElementGeometry) NumFacets() int {
	tp := topologies[g]
	switch tp.dim {
	case D1:
		return tp.nv
	case D2:
		return len(tp.edges)
	case D3:
		return len(tp.faces)
	}
	return 0
}

// FacetVertices returns the local vertex indices of facet i of g, oriented
// as it appears in the boundary of a positively oriented cell. Line facets
// are the two end points, tail first.
func (g ElementGeometry) FacetVertices(i int) []int {
	tp := topologies[g]
	switch tp.dim {
	case D1:
		if i < 0 || i >= tp.nv {
			return nil
		}
		return []int{i}
	case D2:
		return g.EdgeVertices(i)
	case D3:
		return g.FaceVertices(i)
	}
	return nil
}

// RevertPermutation returns p such that reverted[i] = original[p[i]]
func (g ElementGeometry) RevertPermutation() []int {
	return append([]int(nil), topologies[g].revert...)
}

// GeometryOf resolves the first-order cell type with the given dimension and
// vertex count.
func GeometryOf(dim, numVertices int) (ElementGeometry, error) {
	switch dim {
	case 0:
		if numVertices == 1 {
			return Point, nil
		}
	case 1:
		if numVertices == 2 {
			return Line, nil
		}
	case 2:
		switch numVertices {
		case 3:
			return Tri, nil
		case 4:
			return Rectangle, nil
		}
	case 3:
		switch numVertices {
		case 4:
			return Tet, nil
		case 5:
			return Pyramid, nil
		case 6:
			return Prism, nil
		case 8:
			return Hex, nil
		}
	}
	return 0, fmt.Errorf("%d-cell with %d vertices: %w", dim, numVertices, ErrTopologyNotImplemented)
}
