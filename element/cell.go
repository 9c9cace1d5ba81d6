package element

import (
	"fmt"
	"strings"
)

// Vertex is a mesh node. Identity is carried by Num; coordinates are not
// used by any topological operation.
type Vertex struct {
	Num     int
	X, Y, Z float64
}

func NewVertex(num int, x, y, z float64) *Vertex {
	return &Vertex{Num: num, X: x, Y: y, Z: z}
}

// MeshElement is a first-order mesh cell as seen by the chain algebra
type MeshElement interface {
	Num() int
	Dim() int
	Type() ElementGeometry
	NumVertices() int
	Vertex(i int) *Vertex
	NumEdges() int
	NumFaces() int
	EdgeVertices(i int) []*Vertex
	FaceVertices(i int) []*Vertex
	// Revert flips the orientation in place
	Revert()
}

// Cell is the concrete MeshElement used by the model and produced when
// chains are materialized.
type Cell struct {
	num  int
	geom ElementGeometry
	v    []*Vertex
}

// NewCell builds a cell of type geom. The vertex order defines orientation.
func NewCell(geom ElementGeometry, num int, verts ...*Vertex) (c *Cell, err error) {
	var tp topology
	if tp, err = geom.topo(); err != nil {
		return nil, err
	}
	if len(verts) != tp.nv {
		return nil, fmt.Errorf("%s needs %d vertices, got %d: %w",
			tp.name, tp.nv, len(verts), ErrVertexCount)
	}
	for i, v := range verts {
		if v == nil {
			return nil, fmt.Errorf("%s vertex %d: %w", tp.name, i, ErrNilVertex)
		}
	}
	c = &Cell{
		num:  num,
		geom: geom,
		v:    append([]*Vertex(nil), verts...),
	}
	return
}

func (c *Cell) Num() int              { return c.num }
func (c *Cell) Dim() int              { return int(c.geom.Dimensions()) }
func (c *Cell) Type() ElementGeometry { return c.geom }
func (c *Cell) NumVertices() int      { return len(c.v) }
func (c *Cell) Vertex(i int) *Vertex  { return c.v[i] }
func (c *Cell) NumEdges() int         { return c.geom.NumEdges() }
func (c *Cell) NumFaces() int         { return c.geom.NumFaces() }

func (c *Cell) EdgeVertices(i int) []*Vertex {
	return c.pick(c.geom.EdgeVertices(i))
}

func (c *Cell) FaceVertices(i int) []*Vertex {
	return c.pick(c.geom.FaceVertices(i))
}

func (c *Cell) pick(local []int) []*Vertex {
	if local == nil {
		return nil
	}
	out := make([]*Vertex, len(local))
	for i, l := range local {
		out[i] = c.v[l]
	}
	return out
}

func (c *Cell) Revert() {
	perm := c.geom.RevertPermutation()
	old := append([]*Vertex(nil), c.v...)
	for i, p := range perm {
		c.v[i] = old[p]
	}
}

func (c *Cell) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %d (", c.geom, c.num))
	for i, v := range c.v {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(fmt.Sprintf("%d", v.Num))
	}
	sb.WriteString(")")
	return sb.String()
}
