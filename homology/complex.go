package homology

import (
	"fmt"

	"github.com/ConchFeng/gmsh-fork/algebra"
	"github.com/ConchFeng/gmsh-fork/chain"
	"github.com/ConchFeng/gmsh-fork/model"
	"gonum.org/v1/gonum/mat"
)

// Complex is the closure of a set of generators: every cell added brings its
// facets, their facets, down to vertices. Cells are numbered per dimension in
// insertion order and keep the orientation they were first seen with.
type Complex struct {
	cells [4][]chain.ElemChain
	index [4]map[chain.Key]int
}

func NewComplex() *Complex {
	cx := &Complex{}
	for d := range cx.index {
		cx.index[d] = make(map[chain.Key]int)
	}
	return cx
}

// FromChain builds the closure of the generators of c
func FromChain[C algebra.Ring](c *chain.Chain[C]) *Complex {
	cx := NewComplex()
	for _, t := range c.Terms() {
		cx.Add(t.Elem)
	}
	return cx
}

// FromModel builds the closure of every mesh element in the given physical
// groups, all dimensions included.
func FromModel(m model.Model, physicalGroups ...int) (*Complex, error) {
	cx := NewComplex()
	groups := m.PhysicalGroups()
	for _, pg := range physicalGroups {
		found := false
		for dim := 0; dim < 4; dim++ {
			for _, e := range groups[dim][pg] {
				found = true
				for i := 0; i < e.NumMeshElements(); i++ {
					ec, err := chain.NewElemChainFromElement(e.MeshElement(i))
					if err != nil {
						return nil, fmt.Errorf("physical group %d: %w", pg, err)
					}
					cx.Add(ec)
				}
			}
		}
		if !found {
			return nil, fmt.Errorf("physical group %d: %w", pg, chain.ErrPhysicalGroupNotFound)
		}
	}
	return cx, nil
}

// Add inserts ec and its closure. Cells already present are left untouched.
func (cx *Complex) Add(ec chain.ElemChain) {
	d := ec.Dim()
	key := ec.Key()
	if _, ok := cx.index[d][key]; ok {
		return
	}
	cx.index[d][key] = len(cx.cells[d])
	cx.cells[d] = append(cx.cells[d], ec)
	for i := 0; i < ec.NumBoundaryElemChains(); i++ {
		cx.Add(ec.BoundaryElemChain(i))
	}
}

// Dim is the highest dimension holding a cell, -1 for the empty complex
func (cx *Complex) Dim() int {
	for d := 3; d >= 0; d-- {
		if len(cx.cells[d]) > 0 {
			return d
		}
	}
	return -1
}

func (cx *Complex) NumCells(dim int) int {
	if dim < 0 || dim > 3 {
		return 0
	}
	return len(cx.cells[dim])
}

func (cx *Complex) Cell(dim, i int) chain.ElemChain { return cx.cells[dim][i] }

// Index returns the number of ec among the cells of its dimension
func (cx *Complex) Index(ec chain.ElemChain) (int, bool) {
	i, ok := cx.index[ec.Dim()][ec.Key()]
	return i, ok
}

// BoundaryMatrix returns the matrix of the boundary operator from dim-cells
// (columns) to (dim-1)-cells (rows), in the orientation of the stored cells.
// It is nil when either side is empty.
func (cx *Complex) BoundaryMatrix(dim int) *mat.Dense {
	if dim < 1 || dim > 3 {
		return nil
	}
	rows, cols := len(cx.cells[dim-1]), len(cx.cells[dim])
	if rows == 0 || cols == 0 {
		return nil
	}
	b := mat.NewDense(rows, cols, nil)
	for j, ec := range cx.cells[dim] {
		bd := chain.BoundaryOf[float64](ec)
		for _, t := range bd.Terms() {
			i := cx.index[dim-1][t.Elem.Key()]
			b.Set(i, j, bd.Coefficient(cx.cells[dim-1][i]))
		}
	}
	return b
}

// Vector returns the coordinates of c in the cell basis of its dimension.
// Generators outside the complex are ignored.
func Vector[C algebra.Ring](cx *Complex, c *chain.Chain[C]) *mat.VecDense {
	d := c.Dim()
	if d < 0 || d > 3 || len(cx.cells[d]) == 0 {
		return nil
	}
	v := mat.NewVecDense(len(cx.cells[d]), nil)
	for i, ec := range cx.cells[d] {
		v.SetVec(i, float64(c.Coefficient(ec)))
	}
	return v
}

// rank computes the numerical rank of a from its singular values
func rank(a mat.Matrix) int {
	if a == nil {
		return 0
	}
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDNone); !ok {
		log.Warn("SVD factorization failed, rank taken as zero")
		return 0
	}
	vals := svd.Values(nil)
	if len(vals) == 0 {
		return 0
	}
	r, c := a.Dims()
	tol := float64(max(r, c)) * vals[0] * 1e-12
	n := 0
	for _, s := range vals {
		if s > tol {
			n++
		}
	}
	return n
}

// Rank returns the rank of the boundary operator leaving dim-cells
func (cx *Complex) Rank(dim int) int {
	m := cx.BoundaryMatrix(dim)
	if m == nil {
		return 0
	}
	return rank(m)
}

// Betti returns the real Betti numbers b0..b3
func (cx *Complex) Betti() [4]int {
	var ranks [5]int
	for d := 1; d <= 3; d++ {
		ranks[d] = cx.Rank(d)
	}
	var b [4]int
	for d := 0; d < 4; d++ {
		b[d] = len(cx.cells[d]) - ranks[d] - ranks[d+1]
	}
	return b
}

func (cx *Complex) EulerCharacteristic() int {
	chi := 0
	for d := 0; d < 4; d++ {
		if d%2 == 0 {
			chi += len(cx.cells[d])
		} else {
			chi -= len(cx.cells[d])
		}
	}
	return chi
}

// IsCycle reports whether c has zero boundary
func IsCycle[C algebra.Ring](c *chain.Chain[C]) bool {
	return c.Boundary().IsZero()
}

// IsBoundary reports whether c is, over the reals, the boundary of some
// (d+1)-chain of the complex: appending its coordinates to the boundary
// matrix leaves the rank unchanged. The zero chain is always a boundary.
func IsBoundary[C algebra.Ring](cx *Complex, c *chain.Chain[C]) bool {
	if c.IsZero() {
		return true
	}
	d := c.Dim()
	for _, t := range c.Terms() {
		if _, ok := cx.Index(t.Elem); !ok {
			return false
		}
	}
	v := Vector(cx, c)
	b := cx.BoundaryMatrix(d + 1)
	if b == nil {
		return false
	}
	rows, cols := b.Dims()
	aug := mat.NewDense(rows, cols+1, nil)
	aug.Slice(0, rows, 0, cols).(*mat.Dense).Copy(b)
	aug.SetCol(cols, v.RawVector().Data)
	return rank(aug) == rank(b)
}
