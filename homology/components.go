package homology

import (
	"sort"

	"github.com/ConchFeng/gmsh-fork/chain"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

var log = logrus.New()

// SetLogger replaces the package logger. A nil logger restores a default one.
func SetLogger(l *logrus.Logger) {
	if l == nil {
		l = logrus.New()
	}
	log = l
}

// Skeleton returns the 1-skeleton of the complex as an undirected graph whose
// node IDs are vertex numbers.
func (cx *Complex) Skeleton() *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for _, v := range cx.cells[0] {
		id := int64(v.Vertex(0).Num)
		if g.Node(id) == nil {
			g.AddNode(simple.Node(id))
		}
	}
	for _, e := range cx.cells[1] {
		a, b := int64(e.Vertex(0).Num), int64(e.Vertex(1).Num)
		if a == b {
			log.WithFields(logrus.Fields{"edge": e.String()}).Warn("degenerate edge skipped")
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(a), simple.Node(b)))
	}
	return g
}

// Components returns the vertex numbers of each connected component of the
// complex, each sorted, components ordered by their smallest vertex.
func (cx *Complex) Components() [][]int {
	cc := topo.ConnectedComponents(cx.Skeleton())
	out := make([][]int, 0, len(cc))
	for _, nodes := range cc {
		nums := make([]int, len(nodes))
		for i, n := range nodes {
			nums[i] = int(n.ID())
		}
		sort.Ints(nums)
		out = append(out, nums)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// ComponentOf returns the cells of dimension dim whose vertices lie in the
// given component.
func (cx *Complex) ComponentOf(dim int, component []int) []chain.ElemChain {
	if dim < 0 || dim > 3 {
		return nil
	}
	in := make(map[int]struct{}, len(component))
	for _, n := range component {
		in[n] = struct{}{}
	}
	var out []chain.ElemChain
	for _, ec := range cx.cells[dim] {
		if _, ok := in[ec.Vertex(0).Num]; ok {
			out = append(out, ec)
		}
	}
	return out
}
