package chain

import (
	"testing"

	"github.com/ConchFeng/gmsh-fork/element"
	"github.com/ConchFeng/gmsh-fork/model"
	"github.com/stretchr/testify/require"
)

// makeVerts returns vertices numbered 1..n
func makeVerts(n int) []*element.Vertex {
	vs := make([]*element.Vertex, n+1)
	for i := 1; i <= n; i++ {
		vs[i] = element.NewVertex(i, float64(i), 0, 0)
	}
	return vs
}

func ec(t *testing.T, vs []*element.Vertex, dim int, nums ...int) ElemChain {
	t.Helper()
	verts := make([]*element.Vertex, len(nums))
	for i, n := range nums {
		verts[i] = vs[n]
	}
	g, err := NewElemChain(dim, verts)
	require.NoError(t, err)
	return g
}

func permutations(n int) [][]int {
	if n == 0 {
		return [][]int{{}}
	}
	var out [][]int
	for _, p := range permutations(n - 1) {
		for pos := 0; pos <= len(p); pos++ {
			q := make([]int, 0, n)
			q = append(q, p[:pos]...)
			q = append(q, n-1)
			q = append(q, p[pos:]...)
			out = append(out, q)
		}
	}
	return out
}

func inversionSign(p []int) int {
	sign := 1
	for i := range p {
		for j := i + 1; j < len(p); j++ {
			if p[i] > p[j] {
				sign = -sign
			}
		}
	}
	return sign
}

// twoTriangleModel holds a unit square split along the diagonal 1-3 into
// two consistently oriented triangles, its four boundary edges as 1D
// entities and physical groups:
//
//	4---3
//	| B/|
//	| / |
//	|/A |
//	1---2
//
// group 10: surface (dim 2), group 20: bottom edge 1-2, group 30: all edges
func twoTriangleModel(t *testing.T) *model.GModel {
	t.Helper()
	m := model.NewGModel("square")
	coords := [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	for i, c := range coords {
		_, err := m.AddVertex(i+1, c[0], c[1], 0)
		require.NoError(t, err)
	}
	_, err := m.AddEntity(2, 1)
	require.NoError(t, err)
	_, err = m.AddCell(2, 1, element.Tri, 1, 2, 3)
	require.NoError(t, err)
	_, err = m.AddCell(2, 1, element.Tri, 1, 3, 4)
	require.NoError(t, err)
	require.NoError(t, m.AddPhysical(2, 1, 10))
	m.SetPhysicalName("surface", 2, 10)

	edges := [][2]int{{1, 2}, {2, 3}, {3, 4}, {4, 1}}
	for i, e := range edges {
		_, err = m.AddEntity(1, i+1)
		require.NoError(t, err)
		_, err = m.AddCell(1, i+1, element.Line, e[0], e[1])
		require.NoError(t, err)
		require.NoError(t, m.AddPhysical(1, i+1, 30))
	}
	require.NoError(t, m.AddPhysical(1, 1, 20))
	m.SetPhysicalName("bottom", 1, 20)
	m.SetPhysicalName("outline", 1, 30)
	return m
}
