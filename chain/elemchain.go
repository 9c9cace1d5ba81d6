package chain

import (
	"fmt"
	"strings"

	"github.com/ConchFeng/gmsh-fork/algebra"
	"github.com/ConchFeng/gmsh-fork/element"
	"github.com/ConchFeng/gmsh-fork/model"
)

// MaxCellVertices is the vertex count of the largest supported cell (Hex)
const MaxCellVertices = 8

// Key is the orientation-independent identity of a generator: its vertex
// numbers in increasing order.
type Key struct {
	N    int
	Nums [MaxCellVertices]int
}

// ElemChain is one oriented mesh cell, a generator of the chain groups.
// The vertex order carries the orientation; identity and ordering only use
// the sorted vertex numbers. ElemChain is immutable and copied by value.
type ElemChain struct {
	geom element.ElementGeometry
	n    int
	v    [MaxCellVertices]*element.Vertex
	si   [MaxCellVertices]int // si[k] is the position in v of the k-th smallest vertex
}

var _ algebra.Poset[ElemChain] = ElemChain{}

// NewElemChain builds a generator of dimension dim from an ordered vertex list
func NewElemChain(dim int, verts []*element.Vertex) (ElemChain, error) {
	geom, err := element.GeometryOf(dim, len(verts))
	if err != nil {
		return ElemChain{}, err
	}
	for i, v := range verts {
		if v == nil {
			return ElemChain{}, fmt.Errorf("vertex %d: %w", i, element.ErrNilVertex)
		}
	}
	return newElemChain(geom, verts), nil
}

// NewElemChainFromElement wraps a mesh element at its own dimension. Only the
// primary (corner) vertices are used.
func NewElemChainFromElement(e element.MeshElement) (ElemChain, error) {
	geom := e.Type()
	if !geom.Valid() {
		return ElemChain{}, fmt.Errorf("element %d: geometry %d: %w",
			e.Num(), geom, element.ErrTopologyNotImplemented)
	}
	if int(geom.Dimensions()) != e.Dim() || e.NumVertices() < geom.NumVertices() {
		return ElemChain{}, fmt.Errorf("element %d: %d-dimensional %s with %d vertices: %w",
			e.Num(), e.Dim(), geom, e.NumVertices(), element.ErrTopologyNotImplemented)
	}
	verts := make([]*element.Vertex, geom.NumVertices())
	for i := range verts {
		verts[i] = e.Vertex(i)
	}
	return NewElemChain(e.Dim(), verts)
}

func newElemChain(geom element.ElementGeometry, verts []*element.Vertex) (ec ElemChain) {
	ec.geom = geom
	ec.n = len(verts)
	copy(ec.v[:], verts)
	for i := 0; i < ec.n; i++ {
		ec.si[i] = i
	}
	// insertion sort, at most 8 entries
	for i := 1; i < ec.n; i++ {
		for j := i; j > 0 && ec.v[ec.si[j]].Num < ec.v[ec.si[j-1]].Num; j-- {
			ec.si[j], ec.si[j-1] = ec.si[j-1], ec.si[j]
		}
	}
	return
}

func (ec ElemChain) Dim() int                          { return int(ec.geom.Dimensions()) }
func (ec ElemChain) NumVertices() int                  { return ec.n }
func (ec ElemChain) Vertex(i int) *element.Vertex      { return ec.v[i] }
func (ec ElemChain) CellType() element.ElementGeometry { return ec.geom }

func (ec ElemChain) Vertices() []*element.Vertex {
	return append([]*element.Vertex(nil), ec.v[:ec.n]...)
}

// SortedVertex returns the position in the vertex list of the i-th smallest
// vertex number.
func (ec ElemChain) SortedVertex(i int) int { return ec.si[i] }

func (ec ElemChain) sortedNum(i int) int { return ec.v[ec.si[i]].Num }

func (ec ElemChain) Key() (k Key) {
	k.N = ec.n
	for i := 0; i < ec.n; i++ {
		k.Nums[i] = ec.sortedNum(i)
	}
	return
}

// LessThan orders generators by vertex count, then lexicographically by
// sorted vertex numbers. Orientation is ignored.
func (ec ElemChain) LessThan(other ElemChain) bool {
	if ec.n != other.n {
		return ec.n < other.n
	}
	for i := 0; i < ec.n; i++ {
		a, b := ec.sortedNum(i), other.sortedNum(i)
		if a != b {
			return a < b
		}
	}
	return false
}

// CompareOrientation returns +1 when other orders the same vertex set with
// the same orientation, -1 for the opposite orientation and 0 when the two
// are different cells or other is not a valid vertex ordering of the cell.
func (ec ElemChain) CompareOrientation(other ElemChain) int {
	if !algebra.Equal(ec, other) {
		return 0
	}
	switch {
	case ec.Dim() == 0:
		return 1
	case ec.Dim() == 1:
		if ec.v[0].Num == other.v[0].Num {
			return 1
		}
		return -1
	case ec.geom.IsSimplex() && other.geom.IsSimplex():
		return ec.permutationSign(other)
	}
	// Non-simplicial cells: compare the orientation they induce on one
	// shared facet.
	f := ec.BoundaryElemChain(0)
	for i := 0; i < other.NumBoundaryElemChains(); i++ {
		g := other.BoundaryElemChain(i)
		if algebra.Equal(f, g) {
			return f.CompareOrientation(g)
		}
	}
	return 0
}

// permutationSign is the parity of the permutation taking ec's vertex order
// to other's.
func (ec ElemChain) permutationSign(other ElemChain) int {
	var perm, pos [MaxCellVertices]int
	// rank of each vertex in sorted order, per ordering
	for k := 0; k < ec.n; k++ {
		pos[ec.si[k]] = k
	}
	for k := 0; k < other.n; k++ {
		perm[other.si[k]] = k
	}
	// perm[i] = rank of other.v[i]; map it to ec's position of that rank
	var rankToPos [MaxCellVertices]int
	for i := 0; i < ec.n; i++ {
		rankToPos[pos[i]] = i
	}
	var visited [MaxCellVertices]bool
	sign := 1
	for i := 0; i < other.n; i++ {
		if visited[i] {
			continue
		}
		length := 0
		for j := i; !visited[j]; j = rankToPos[perm[j]] {
			visited[j] = true
			length++
		}
		if length%2 == 0 {
			sign = -sign
		}
	}
	return sign
}

func (ec ElemChain) NumBoundaryElemChains() int { return ec.geom.NumFacets() }

// BoundaryElemChain returns facet i with the orientation it has in the
// boundary of ec. For edges the tail (i = 0) carries coefficient -1 in the
// boundary operator; the facet itself is the bare vertex.
func (ec ElemChain) BoundaryElemChain(i int) ElemChain {
	local := ec.geom.FacetVertices(i)
	if local == nil {
		panic(fmt.Sprintf("facet %d of %s out of range", i, ec.geom))
	}
	verts := make([]*element.Vertex, len(local))
	for j, l := range local {
		verts[j] = ec.v[l]
	}
	geom, err := element.GeometryOf(ec.Dim()-1, len(verts))
	if err != nil {
		panic(err)
	}
	return newElemChain(geom, verts)
}

// CreateMeshElement instantiates a new mesh cell with this orientation.
// Every call returns an independent element.
func (ec ElemChain) CreateMeshElement(num int) *element.Cell {
	c, err := element.NewCell(ec.geom, num, ec.v[:ec.n]...)
	if err != nil {
		panic(err)
	}
	return c
}

// InEntity reports whether every vertex of ec is a vertex of a mesh element
// of e. A nil cache computes the vertex set of e for this call only.
func (ec ElemChain) InEntity(cache *VertexCache, e model.Entity) bool {
	var set map[int]struct{}
	if cache == nil {
		set = entityVertices(e)
	} else {
		set = cache.vertices(e)
	}
	for i := 0; i < ec.n; i++ {
		if _, ok := set[ec.v[i].Num]; !ok {
			return false
		}
	}
	return true
}

func (ec ElemChain) String() string {
	var sb strings.Builder
	sb.WriteString(ec.geom.String())
	sb.WriteString("(")
	for i := 0; i < ec.n; i++ {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(fmt.Sprintf("%d", ec.v[i].Num))
	}
	sb.WriteString(")")
	return sb.String()
}
