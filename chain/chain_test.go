package chain

import (
	"testing"

	"github.com/ConchFeng/gmsh-fork/algebra"
	"github.com/ConchFeng/gmsh-fork/element"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fchain = *Chain[float64]

func chainOf(t *testing.T, dim int, terms map[float64][][]int, vs []*element.Vertex) *Chain[float64] {
	t.Helper()
	c := NewChain[float64]()
	for coeff, cells := range terms {
		for _, nums := range cells {
			require.NoError(t, c.AddElemChain(ec(t, vs, dim, nums...), coeff))
		}
	}
	return c
}

func TestAddCombinesOrientations(t *testing.T) {
	vs := makeVerts(3)
	c := NewChain[float64]()
	assert.Equal(t, -1, c.Dim())
	assert.True(t, c.IsZero())

	require.NoError(t, c.AddElemChain(ec(t, vs, 1, 1, 2), 2))
	assert.Equal(t, 1, c.Dim())
	require.NoError(t, c.AddElemChain(ec(t, vs, 1, 2, 1), 0.5))
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 1.5, c.Coefficient(ec(t, vs, 1, 1, 2)))
	assert.Equal(t, -1.5, c.Coefficient(ec(t, vs, 1, 2, 1)))
	assert.Equal(t, 0.0, c.Coefficient(ec(t, vs, 1, 2, 3)))

	// opposite orientations cancel and leave no entry behind
	require.NoError(t, c.AddElemChain(ec(t, vs, 1, 2, 1), 1.5))
	assert.True(t, c.IsZero())
	assert.Equal(t, 1, c.Dim())
}

func TestAddDimensionMismatch(t *testing.T) {
	vs := makeVerts(3)
	c := NewChain[int]()
	require.NoError(t, c.AddElemChain(ec(t, vs, 2, 1, 2, 3), 1))

	err := c.AddElemChain(ec(t, vs, 1, 1, 2), 1)
	require.ErrorIs(t, err, ErrDimensionMismatch)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 2, c.Dim())

	// in-place addition skips the offending terms
	edges := NewChain[int]()
	require.NoError(t, edges.AddElemChain(ec(t, vs, 1, 1, 2), 4))
	c.AddInPlace(edges)
	assert.Equal(t, 1, c.Len())
}

func TestAddMeshElementUsesElementOrientation(t *testing.T) {
	vs := makeVerts(3)
	cell, err := element.NewCell(element.Tri, 1, vs[1], vs[2], vs[3])
	require.NoError(t, err)
	c := NewChain[int]()
	require.NoError(t, c.AddMeshElement(cell, 3))
	cell.Revert()
	require.NoError(t, c.AddMeshElement(cell, 1))
	assert.Equal(t, 2, c.Coefficient(ec(t, vs, 2, 1, 2, 3)))
	assert.Equal(t, -2, c.ElementCoefficient(cell, -1))
}

func TestChainGroupLaws(t *testing.T) {
	vs := makeVerts(4)
	a := chainOf(t, 1, map[float64][][]int{1: {{1, 2}, {2, 3}}, -2: {{3, 4}}}, vs)
	b := chainOf(t, 1, map[float64][][]int{3: {{2, 1}}, 0.5: {{4, 1}}}, vs)
	c := chainOf(t, 1, map[float64][][]int{-1: {{3, 2}, {1, 3}}}, vs)

	add := algebra.Add[fchain, float64]
	assert.True(t, add(a, b).Equal(add(b, a)), "commutativity")
	assert.True(t, add(add(a, b), c).Equal(add(a, add(b, c))), "associativity")
	assert.True(t, add(a, algebra.Neg[fchain, float64](a)).IsZero(), "inverse")
	assert.True(t, algebra.Mul[fchain, float64](1, a).Equal(a), "identity")
	assert.True(t, algebra.Sub[fchain, float64](a, a).IsZero())

	zero := algebra.Mul[fchain, float64](0, a)
	assert.True(t, zero.IsZero())
	assert.Equal(t, 1, zero.Dim())

	// scalar distributivity over chain sums
	lhs := algebra.Mul[fchain, float64](2.5, add(a, b))
	rhs := add(algebra.Mul[fchain, float64](2.5, a), algebra.MulRight[fchain, float64](b, 2.5))
	assert.True(t, lhs.Equal(rhs))

	half := algebra.Div[fchain, float64](a, 2)
	assert.Equal(t, 0.5, half.Coefficient(ec(t, vs, 1, 1, 2)))
	assert.Equal(t, 1.0, half.Coefficient(ec(t, vs, 1, 4, 3)))

	// operands are not mutated
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, 1.0, a.Coefficient(ec(t, vs, 1, 1, 2)))
}

func TestIntegerChainNegation(t *testing.T) {
	vs := makeVerts(3)
	a := NewChain[int]()
	require.NoError(t, a.AddElemChain(ec(t, vs, 2, 1, 2, 3), 5))
	neg := algebra.Neg[*Chain[int], int](a)
	assert.Equal(t, -5, neg.Coefficient(ec(t, vs, 2, 1, 2, 3)))
	assert.Equal(t, 5, neg.Coefficient(ec(t, vs, 2, 1, 3, 2)))
}

func TestCloneIsIndependent(t *testing.T) {
	vs := makeVerts(2)
	a := NewChain[int]()
	a.SetName("a")
	require.NoError(t, a.AddElemChain(ec(t, vs, 1, 1, 2), 1))
	b := a.Clone()
	require.NoError(t, b.AddElemChain(ec(t, vs, 1, 1, 2), 1))
	assert.Equal(t, 1, a.Coefficient(ec(t, vs, 1, 1, 2)))
	assert.Equal(t, 2, b.Coefficient(ec(t, vs, 1, 1, 2)))
	assert.Equal(t, "a", b.Name())
}

func TestBoundaryOfTwoTriangles(t *testing.T) {
	m := twoTriangleModel(t)
	surface, err := NewChainFromPhysicalGroup[int](m, 10)
	require.NoError(t, err)
	require.Equal(t, 2, surface.Len())

	bd := surface.Boundary()
	assert.Equal(t, 1, bd.Dim())
	assert.Equal(t, 4, bd.Len())

	vert := func(n int) *element.Vertex { v, _ := m.Vertex(n); return v }
	edge := func(a, b int) ElemChain {
		g, err := NewElemChain(1, []*element.Vertex{vert(a), vert(b)})
		require.NoError(t, err)
		return g
	}
	for _, e := range [][2]int{{1, 2}, {2, 3}, {3, 4}, {4, 1}} {
		assert.Equal(t, 1, bd.Coefficient(edge(e[0], e[1])), "%v", e)
		assert.Equal(t, -1, bd.Coefficient(edge(e[1], e[0])), "%v", e)
	}
	// the shared diagonal cancels
	assert.Equal(t, 0, bd.Coefficient(edge(1, 3)))

	// the boundary of the outline loop vanishes but keeps its dimension
	bdbd := bd.Boundary()
	assert.True(t, bdbd.IsZero())
	assert.Equal(t, 0, bdbd.Dim())
}

func TestBoundaryOfBoundaryVanishes(t *testing.T) {
	cells := map[element.ElementGeometry][][]int{
		element.Line:      {{1, 2}, {2, 3}},
		element.Tri:       {{1, 2, 3}, {3, 2, 4}},
		element.Rectangle: {{1, 2, 3, 4}, {2, 5, 6, 3}},
		element.Tet:       {{1, 2, 3, 4}, {2, 3, 4, 5}},
		element.Hex:       {{1, 2, 3, 4, 5, 6, 7, 8}, {2, 9, 10, 3, 6, 11, 12, 7}},
		element.Prism:     {{1, 2, 3, 4, 5, 6}, {4, 5, 6, 7, 8, 9}},
		element.Pyramid:   {{1, 2, 3, 4, 5}, {4, 3, 2, 1, 6}},
	}
	vs := makeVerts(12)
	for geom, list := range cells {
		t.Run(geom.String(), func(t *testing.T) {
			dim := int(geom.Dimensions())
			c := NewChain[int]()
			for i, nums := range list {
				require.NoError(t, c.AddElemChain(ec(t, vs, dim, nums...), i+2))
			}
			bd := c.Boundary()
			assert.False(t, bd.IsZero())
			assert.Equal(t, dim-1, bd.Dim())
			bdbd := bd.Boundary()
			assert.True(t, bdbd.IsZero(), "%s", bdbd)
			if dim > 1 {
				assert.Equal(t, dim-2, bdbd.Dim())
			}
		})
	}
}

func TestBoundaryIsLinear(t *testing.T) {
	vs := makeVerts(5)
	a := chainOf(t, 3, map[float64][][]int{1: {{1, 2, 3, 4}}}, vs)
	b := chainOf(t, 3, map[float64][][]int{-3: {{2, 3, 4, 5}}}, vs)
	sum := algebra.Add[fchain, float64](a, b)
	assert.True(t, sum.Boundary().Equal(algebra.Add[fchain, float64](a.Boundary(), b.Boundary())))
	scaled := algebra.Mul[fchain, float64](4, a)
	assert.True(t, scaled.Boundary().Equal(algebra.Mul[fchain, float64](4, a.Boundary())))
}

func TestBoundaryOfSingleGenerator(t *testing.T) {
	vs := makeVerts(3)
	bd := BoundaryOf[int](ec(t, vs, 1, 1, 2))
	assert.Equal(t, -1, bd.Coefficient(ec(t, vs, 0, 1)))
	assert.Equal(t, 1, bd.Coefficient(ec(t, vs, 0, 2)))

	bd = BoundaryOf[int](ec(t, vs, 0, 3))
	assert.True(t, bd.IsZero())
}

func TestIncidence(t *testing.T) {
	vs := makeVerts(4)
	a := chainOf(t, 1, map[float64][][]int{2: {{1, 2}}, 1: {{2, 3}}}, vs)
	b := chainOf(t, 1, map[float64][][]int{3: {{2, 1}}, 4: {{3, 4}}}, vs)
	c := chainOf(t, 1, map[float64][][]int{-1: {{2, 3}}}, vs)

	assert.Equal(t, -6.0, Incidence(a, b))
	assert.Equal(t, Incidence(a, b), Incidence(b, a))
	// bilinearity
	ab := algebra.Add[fchain, float64](a, b)
	assert.Equal(t, Incidence(a, c)+Incidence(b, c), Incidence(ab, c))
	assert.Equal(t, 3*Incidence(a, c), Incidence(algebra.Mul[fchain, float64](3, a), c))

	tri := chainOf(t, 2, map[float64][][]int{1: {{1, 2, 3}}}, vs)
	assert.Equal(t, 0.0, Incidence(a, tri))
}

func TestElementCoefficient(t *testing.T) {
	vs := makeVerts(4)
	tet, err := element.NewCell(element.Tet, 1, vs[1], vs[2], vs[3], vs[4])
	require.NoError(t, err)

	faces := NewChain[int]()
	require.NoError(t, faces.AddElemChain(ec(t, vs, 2, 1, 3, 2), 7))
	assert.Equal(t, 7, faces.ElementCoefficient(tet, 0))
	assert.Equal(t, 0, faces.ElementCoefficient(tet, 1))
	assert.Equal(t, 0, faces.ElementCoefficient(tet, 4))
	assert.Equal(t, 0, faces.ElementCoefficient(tet, -1))

	edges := NewChain[int]()
	require.NoError(t, edges.AddElemChain(ec(t, vs, 1, 2, 1), 5))
	// edge 0 of a Tet runs from local vertex 0 to 1
	assert.Equal(t, -5, edges.ElementCoefficient(tet, 0))

	points := NewChain[int]()
	require.NoError(t, points.AddElemChain(ec(t, vs, 0, 4), -2))
	assert.Equal(t, -2, points.ElementCoefficient(tet, 3))
	assert.Equal(t, 0, points.ElementCoefficient(tet, 9))

	vols := NewChain[int]()
	require.NoError(t, vols.AddMeshElement(tet, 1))
	assert.Equal(t, 1, vols.ElementCoefficient(tet, -1))
}

func TestTermsAreOrdered(t *testing.T) {
	vs := makeVerts(4)
	c := chainOf(t, 1, map[float64][][]int{1: {{3, 4}, {2, 1}, {1, 3}}}, vs)
	terms := c.Terms()
	require.Len(t, terms, 3)
	for i := 1; i < len(terms); i++ {
		assert.True(t, algebra.Less(terms[i-1].Elem, terms[i].Elem))
	}
	assert.Equal(t, `1-chain "": (1)*Line(2 1) + (1)*Line(1 3) + (1)*Line(3 4)`, c.String())
	assert.Equal(t, `-1-chain "": 0`, NewChain[int]().String())
}
