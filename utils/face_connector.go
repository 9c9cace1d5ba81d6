package utils

import (
	"fmt"

	"github.com/ConchFeng/gmsh-fork/algebra"
	"github.com/ConchFeng/gmsh-fork/chain"
	"github.com/ConchFeng/gmsh-fork/element"
	"gonum.org/v1/gonum/graph/simple"
)

// FaceConnector links the elements of a mesh through their shared facets and,
// once partitioned, sorts the facets crossing partitions by partition pair.
type FaceConnector struct {
	// Mesh dimensions
	NumPartitions int
	K             int // Total elements
	Dim           int // Dimension of every element

	Cells        []chain.ElemChain
	ElementTypes []element.ElementGeometry

	// Facet connectivity. A boundary facet connects to its own element:
	// EToE[k][f] == k and EToF[k][f] == f.
	EToE [][]int
	EToF [][]int

	EToP []int // Element → partition mapping, nil until SetPartitions

	// Partition mappings
	ElemsPerPartition []int         // Elements per partition
	GlobalToLocalElem []map[int]int // [partition][globalElem] → localElem
	LocalToGlobalElem [][]int       // [partition][localElem] → globalElem

	// SharedFacets[p][q] lists the facets of partition p elements whose
	// neighbor lies in partition q (p != q)
	SharedFacets [][][]FacetRef
}

// FacetRef designates facet Facet of element Elem
type FacetRef struct {
	Elem  int
	Facet int
}

// NewFaceConnector builds the facet connectivity of cells. Elements must share
// one dimension; a facet may bound at most two elements.
func NewFaceConnector(cells []chain.ElemChain) (*FaceConnector, error) {
	if len(cells) == 0 {
		return nil, ErrEmptyMesh
	}
	fc := &FaceConnector{
		K:            len(cells),
		Dim:          cells[0].Dim(),
		Cells:        cells,
		ElementTypes: make([]element.ElementGeometry, len(cells)),
	}
	for k, c := range cells {
		if c.Dim() != fc.Dim {
			return nil, fmt.Errorf("element %d is %d-dimensional, element 0 is %d-dimensional: %w",
				k, c.Dim(), fc.Dim, ErrMixedDimensions)
		}
		fc.ElementTypes[k] = c.CellType()
	}
	if err := fc.buildConnectivity(); err != nil {
		return nil, err
	}
	return fc, nil
}

// NewFaceConnectorFromChain connects the generators of c in generator order
func NewFaceConnectorFromChain[C algebra.Ring](c *chain.Chain[C]) (*FaceConnector, error) {
	terms := c.Terms()
	cells := make([]chain.ElemChain, len(terms))
	for i, t := range terms {
		cells[i] = t.Elem
	}
	return NewFaceConnector(cells)
}

func (fc *FaceConnector) buildConnectivity() error {
	fc.EToE = make([][]int, fc.K)
	fc.EToF = make([][]int, fc.K)
	for k, c := range fc.Cells {
		nf := c.NumBoundaryElemChains()
		fc.EToE[k] = make([]int, nf)
		fc.EToF[k] = make([]int, nf)
		for f := 0; f < nf; f++ {
			fc.EToE[k][f] = k // Self-connection by default
			fc.EToF[k][f] = f
		}
	}

	seen := make(map[chain.Key]FacetRef)
	for k, c := range fc.Cells {
		for f := 0; f < c.NumBoundaryElemChains(); f++ {
			key := c.BoundaryElemChain(f).Key()
			existing, found := seen[key]
			if !found {
				seen[key] = FacetRef{Elem: k, Facet: f}
				continue
			}
			if fc.EToE[existing.Elem][existing.Facet] != existing.Elem {
				return fmt.Errorf("facet %s of element %d: %w",
					c.BoundaryElemChain(f), k, ErrNonManifold)
			}
			fc.EToE[k][f] = existing.Elem
			fc.EToF[k][f] = existing.Facet
			fc.EToE[existing.Elem][existing.Facet] = k
			fc.EToF[existing.Elem][existing.Facet] = f
		}
	}
	return nil
}

// IsBoundary reports whether facet f of element k bounds a single element
func (fc *FaceConnector) IsBoundary(k, f int) bool {
	return fc.EToE[k][f] == k && fc.EToF[k][f] == f
}

// BoundaryFacets returns the facets bounding a single element, element order
func (fc *FaceConnector) BoundaryFacets() []FacetRef {
	var out []FacetRef
	for k := range fc.EToE {
		for f := range fc.EToE[k] {
			if fc.IsBoundary(k, f) {
				out = append(out, FacetRef{Elem: k, Facet: f})
			}
		}
	}
	return out
}

// Facet returns the facet generator with the orientation induced by its
// element, and the sign it carries in the element's boundary.
func (fc *FaceConnector) Facet(r FacetRef) (chain.ElemChain, int) {
	sign := 1
	if fc.Dim == 1 && r.Facet == 0 {
		sign = -1
	}
	return fc.Cells[r.Elem].BoundaryElemChain(r.Facet), sign
}

// Consistent reports whether every interior facet receives opposite induced
// orientations from its two elements, i.e. the elements are coherently
// oriented.
func (fc *FaceConnector) Consistent() bool {
	for k := range fc.EToE {
		for f, nb := range fc.EToE[k] {
			if fc.IsBoundary(k, f) || nb < k {
				continue
			}
			g1, s1 := fc.Facet(FacetRef{Elem: k, Facet: f})
			g2, s2 := fc.Facet(FacetRef{Elem: nb, Facet: fc.EToF[k][f]})
			if s1*s2*g1.CompareOrientation(g2) != -1 {
				return false
			}
		}
	}
	return true
}

// Graph returns the dual graph: one node per element (ID = element index),
// one edge per interior facet.
func (fc *FaceConnector) Graph() *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for k := 0; k < fc.K; k++ {
		g.AddNode(simple.Node(k))
	}
	for k := range fc.EToE {
		for _, nb := range fc.EToE[k] {
			if nb > k {
				g.SetEdge(g.NewEdge(simple.Node(k), simple.Node(nb)))
			}
		}
	}
	return g
}

// SetPartitions assigns elements to partitions and builds the partition
// mappings and shared facet lists.
func (fc *FaceConnector) SetPartitions(EToP []int) error {
	if len(EToP) != fc.K {
		return fmt.Errorf("EToP length %d does not match K=%d: %w", len(EToP), fc.K, ErrPartitionMap)
	}
	numPartitions := 0
	for k, p := range EToP {
		if p < 0 {
			return fmt.Errorf("element %d in partition %d: %w", k, p, ErrPartitionMap)
		}
		if p+1 > numPartitions {
			numPartitions = p + 1
		}
	}
	fc.EToP = EToP
	fc.NumPartitions = numPartitions
	fc.buildPartitionMappings()
	fc.buildSharedFacets()
	return nil
}

// buildPartitionMappings creates bidirectional mappings between global and local element numbering
func (fc *FaceConnector) buildPartitionMappings() {
	fc.ElemsPerPartition = make([]int, fc.NumPartitions)
	for _, p := range fc.EToP {
		fc.ElemsPerPartition[p]++
	}

	fc.GlobalToLocalElem = make([]map[int]int, fc.NumPartitions)
	fc.LocalToGlobalElem = make([][]int, fc.NumPartitions)
	for p := 0; p < fc.NumPartitions; p++ {
		fc.GlobalToLocalElem[p] = make(map[int]int)
		fc.LocalToGlobalElem[p] = make([]int, 0, fc.ElemsPerPartition[p])
	}

	for globalElem := 0; globalElem < fc.K; globalElem++ {
		partition := fc.EToP[globalElem]
		localElem := len(fc.LocalToGlobalElem[partition])

		fc.GlobalToLocalElem[partition][globalElem] = localElem
		fc.LocalToGlobalElem[partition] = append(fc.LocalToGlobalElem[partition], globalElem)
	}
}

func (fc *FaceConnector) buildSharedFacets() {
	fc.SharedFacets = make([][][]FacetRef, fc.NumPartitions)
	for p := range fc.SharedFacets {
		fc.SharedFacets[p] = make([][]FacetRef, fc.NumPartitions)
	}
	for p := 0; p < fc.NumPartitions; p++ {
		for _, k := range fc.LocalToGlobalElem[p] {
			for f, nb := range fc.EToE[k] {
				q := fc.EToP[nb]
				if q == p {
					continue
				}
				fc.SharedFacets[p][q] = append(fc.SharedFacets[p][q], FacetRef{Elem: k, Facet: f})
			}
		}
	}
}

// GetSharedFacets returns the facets partition source shares with target
func (fc *FaceConnector) GetSharedFacets(source, target int) []FacetRef {
	if source < 0 || source >= fc.NumPartitions ||
		target < 0 || target >= fc.NumPartitions {
		return nil
	}
	return fc.SharedFacets[source][target]
}

// Verify checks connectivity symmetry and, when partitioned, that shared
// facet lists pair up and account for every facet.
func (fc *FaceConnector) Verify() error {
	// Verify 1: Symmetry - the neighbor across a facet points back
	totalFacets := 0
	for k := range fc.EToE {
		totalFacets += len(fc.EToE[k])
		for f, nb := range fc.EToE[k] {
			nf := fc.EToF[k][f]
			if fc.EToE[nb][nf] != k || fc.EToF[nb][nf] != f {
				return fmt.Errorf("element %d facet %d: neighbor %d facet %d does not point back",
					k, f, nb, nf)
			}
		}
	}
	if fc.EToP == nil {
		return nil
	}

	// Verify 2: Correspondence - p shares with q as many facets as q with p
	for p := 0; p < fc.NumPartitions; p++ {
		for q := 0; q < fc.NumPartitions; q++ {
			pq, qp := len(fc.SharedFacets[p][q]), len(fc.SharedFacets[q][p])
			if pq != qp {
				return fmt.Errorf("length mismatch: shared[%d][%d]=%d, shared[%d][%d]=%d",
					p, q, pq, q, p, qp)
			}
		}
	}

	// Verify 3: Conservation - every facet is boundary, internal or shared
	counted := 0
	for k := range fc.EToE {
		for f, nb := range fc.EToE[k] {
			if fc.IsBoundary(k, f) || fc.EToP[nb] == fc.EToP[k] {
				counted++
			}
		}
	}
	for p := 0; p < fc.NumPartitions; p++ {
		for q := 0; q < fc.NumPartitions; q++ {
			counted += len(fc.SharedFacets[p][q])
		}
	}
	if counted != totalFacets {
		return fmt.Errorf("conservation error: counted facets %d != total facets %d",
			counted, totalFacets)
	}
	return nil
}
