package partitions

import (
	"errors"
	"fmt"

	"github.com/ConchFeng/gmsh-fork/algebra"
	"github.com/ConchFeng/gmsh-fork/chain"
	"github.com/ConchFeng/gmsh-fork/utils"
)

// ErrUnknownGenerator is returned when a chain holds a generator that is not
// an element of the partitioned mesh.
var ErrUnknownGenerator = errors.New("partitions: generator is not a mesh element")

// Split decomposes c into one chain per partition of the layout. Part p holds
// the terms whose generator is an element assigned to p, so the parts sum to
// c and, by linearity, their boundaries sum to the boundary of c.
func Split[C algebra.Ring](c *chain.Chain[C], fc *utils.FaceConnector, layout *PartitionLayout) ([]*chain.Chain[C], error) {
	index := make(map[chain.Key]int, fc.K)
	for k, cell := range fc.Cells {
		index[cell.Key()] = k
	}

	parts := make([]*chain.Chain[C], layout.NumPartitions)
	for p := range parts {
		parts[p] = chain.NewChain[C]()
		parts[p].SetName(fmt.Sprintf("%s/%d", c.Name(), p))
	}
	for _, t := range c.Terms() {
		k, ok := index[t.Elem.Key()]
		if !ok {
			return nil, fmt.Errorf("%s: %w", t.Elem, ErrUnknownGenerator)
		}
		p := layout.GetPartition(k)
		if err := parts[p].AddElemChain(t.Elem, t.Coeff); err != nil {
			return nil, err
		}
	}
	return parts, nil
}

// Interfaces returns, for every ordered pair (p, q) of partitions sharing
// facets, the part of the boundary of c's partition p lying on facets shared
// with q: each shared facet weighted by the coefficient of its element in c
// and the sign it carries in that element's boundary. For a coherently
// oriented mesh and a constant coefficient, interface (q, p) is the
// negative of interface (p, q).
func Interfaces[C algebra.Ring](c *chain.Chain[C], fc *utils.FaceConnector) map[[2]int]*chain.Chain[C] {
	out := make(map[[2]int]*chain.Chain[C])
	for p := 0; p < fc.NumPartitions; p++ {
		for q := 0; q < fc.NumPartitions; q++ {
			shared := fc.GetSharedFacets(p, q)
			if len(shared) == 0 {
				continue
			}
			iface := chain.NewChain[C]()
			iface.SetName(fmt.Sprintf("%s/%d|%d", c.Name(), p, q))
			for _, r := range shared {
				coeff := c.Coefficient(fc.Cells[r.Elem])
				facet, sign := fc.Facet(r)
				_ = iface.AddElemChain(facet, coeff*C(sign))
			}
			out[[2]int{p, q}] = iface
		}
	}
	return out
}
