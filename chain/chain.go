package chain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ConchFeng/gmsh-fork/algebra"
	"github.com/ConchFeng/gmsh-fork/element"
	"github.com/sirupsen/logrus"
)

// Term is one generator of a chain with its coefficient, relative to the
// stored orientation of the generator.
type Term[C algebra.Ring] struct {
	Elem  ElemChain
	Coeff C
}

// Chain is a finite formal sum of generators of one dimension with nonzero
// coefficients in C. The zero value is not usable; create chains with
// NewChain or NewChainFromPhysicalGroup.
type Chain[C algebra.Ring] struct {
	dim   int // -1 until the first generator fixes it
	name  string
	terms map[Key]Term[C]
}

var _ algebra.VectorSpace[*Chain[float64], float64] = (*Chain[float64])(nil)

// NewChain returns the zero chain with unset dimension
func NewChain[C algebra.Ring]() *Chain[C] {
	return &Chain[C]{
		dim:   -1,
		terms: make(map[Key]Term[C]),
	}
}

func (c *Chain[C]) Name() string        { return c.name }
func (c *Chain[C]) SetName(name string) { c.name = name }
func (c *Chain[C]) Dim() int            { return c.dim }
func (c *Chain[C]) IsZero() bool        { return len(c.terms) == 0 }
func (c *Chain[C]) Len() int            { return len(c.terms) }

// Terms returns the terms in generator order
func (c *Chain[C]) Terms() []Term[C] {
	out := make([]Term[C], 0, len(c.terms))
	for _, t := range c.terms {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Elem.LessThan(out[j].Elem)
	})
	return out
}

func (c *Chain[C]) Clone() *Chain[C] {
	cp := &Chain[C]{
		dim:   c.dim,
		name:  c.name,
		terms: make(map[Key]Term[C], len(c.terms)),
	}
	for k, t := range c.terms {
		cp.terms[k] = t
	}
	return cp
}

// AddMeshElement adds the generator of mesh element e with coefficient coeff
func (c *Chain[C]) AddMeshElement(e element.MeshElement, coeff C) error {
	ec, err := NewElemChainFromElement(e)
	if err != nil {
		return err
	}
	return c.AddElemChain(ec, coeff)
}

// AddElemChain adds coeff*ec. The first insertion of a generator fixes its
// reference orientation; later additions are converted to it. Entries whose
// coefficient becomes exactly zero are removed. A generator of the wrong
// dimension leaves the chain unchanged and returns ErrDimensionMismatch.
func (c *Chain[C]) AddElemChain(ec ElemChain, coeff C) error {
	if coeff == 0 {
		return nil
	}
	if c.dim != -1 && c.dim != ec.Dim() {
		return fmt.Errorf("cannot add elementary %d-chain %s to %d-chain: %w",
			ec.Dim(), ec, c.dim, ErrDimensionMismatch)
	}
	if c.dim == -1 {
		c.dim = ec.Dim()
	}
	key := ec.Key()
	t, ok := c.terms[key]
	if !ok {
		c.terms[key] = Term[C]{Elem: ec, Coeff: coeff}
		return nil
	}
	t.Coeff += coeff * C(ec.CompareOrientation(t.Elem))
	if t.Coeff == 0 {
		delete(c.terms, key)
		return nil
	}
	c.terms[key] = t
	return nil
}

// AddInPlace adds every term of other to c. Terms of a mismatching dimension
// are reported and skipped.
func (c *Chain[C]) AddInPlace(other *Chain[C]) {
	for _, t := range other.Terms() {
		if err := c.AddElemChain(t.Elem, t.Coeff); err != nil {
			log.WithFields(logrus.Fields{
				"chain": c.name,
				"other": other.name,
			}).Error(err)
		}
	}
}

// ScaleInPlace multiplies every coefficient by s. Scaling by zero clears
// the chain but keeps its dimension.
func (c *Chain[C]) ScaleInPlace(s C) {
	if s == 0 {
		c.terms = make(map[Key]Term[C])
		return
	}
	for k, t := range c.terms {
		t.Coeff *= s
		if t.Coeff == 0 {
			delete(c.terms, k)
			continue
		}
		c.terms[k] = t
	}
}

// Coefficient returns the coefficient of ec in c, expressed in ec's
// orientation. Absent generators have coefficient zero.
func (c *Chain[C]) Coefficient(ec ElemChain) C {
	t, ok := c.terms[ec.Key()]
	if !ok {
		return 0
	}
	return t.Coeff * C(ec.CompareOrientation(t.Elem))
}

// ElementCoefficient returns the coefficient of mesh element e, or, when the
// chain has a lower dimension than e, of its sub-element: vertex, edge or
// face number sub. A negative sub or an out of range sub-element gives zero.
func (c *Chain[C]) ElementCoefficient(e element.MeshElement, sub int) C {
	if c.dim == e.Dim() {
		ec, err := NewElemChainFromElement(e)
		if err != nil {
			return 0
		}
		return c.Coefficient(ec)
	}
	if sub < 0 {
		return 0
	}
	var verts []*element.Vertex
	switch c.dim {
	case 0:
		if sub >= e.NumVertices() {
			return 0
		}
		verts = []*element.Vertex{e.Vertex(sub)}
	case 1:
		if sub >= e.NumEdges() {
			return 0
		}
		verts = e.EdgeVertices(sub)
	case 2:
		if sub >= e.NumFaces() {
			return 0
		}
		verts = e.FaceVertices(sub)
	default:
		return 0
	}
	ec, err := NewElemChain(c.dim, verts)
	if err != nil {
		return 0
	}
	return c.Coefficient(ec)
}

// BoundaryOf returns the boundary of a single generator. The facets carry
// coefficient +1 except the tail of an edge, which carries -1.
func BoundaryOf[C algebra.Ring](ec ElemChain) *Chain[C] {
	result := NewChain[C]()
	if ec.Dim() > 0 {
		result.dim = ec.Dim() - 1
	}
	for i := 0; i < ec.NumBoundaryElemChains(); i++ {
		coeff := C(1)
		if ec.Dim() == 1 && i == 0 {
			coeff = -1
		}
		_ = result.AddElemChain(ec.BoundaryElemChain(i), coeff)
	}
	return result
}

// Boundary returns the (d-1)-chain bounding c
func (c *Chain[C]) Boundary() *Chain[C] {
	result := NewChain[C]()
	if c.dim > 0 {
		result.dim = c.dim - 1
	}
	for _, t := range c.Terms() {
		for i := 0; i < t.Elem.NumBoundaryElemChains(); i++ {
			coeff := t.Coeff
			if t.Elem.Dim() == 1 && i == 0 {
				coeff = -coeff
			}
			// facets all have dimension c.dim-1, the add cannot fail
			_ = result.AddElemChain(t.Elem.BoundaryElemChain(i), coeff)
		}
	}
	if result.IsZero() {
		log.Infof("The boundary chain is zero element in C%d", result.dim)
	}
	return result
}

// Incidence returns the sum over the generators of c1 of the product of
// their coefficients in c1 and c2. Chains of different dimension have
// incidence zero.
func Incidence[C algebra.Ring](c1, c2 *Chain[C]) C {
	var incidence C
	if c1.dim != c2.dim {
		return incidence
	}
	for _, t := range c1.Terms() {
		incidence += t.Coeff * c2.Coefficient(t.Elem)
	}
	if incidence != 0 {
		log.Debugf("%d-chains '%s' and '%s' have incidence %v",
			c1.dim, c1.name, c2.name, incidence)
	}
	return incidence
}

// Equal reports whether c and other have the same generators with the same
// coefficients. Dimension bookkeeping of zero chains is ignored.
func (c *Chain[C]) Equal(other *Chain[C]) bool {
	if len(c.terms) != len(other.terms) {
		return false
	}
	if len(c.terms) > 0 && c.dim != other.dim {
		return false
	}
	for _, t := range c.terms {
		if other.Coefficient(t.Elem) != t.Coeff {
			return false
		}
	}
	return true
}

func (c *Chain[C]) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d-chain %q:", c.dim, c.name))
	if c.IsZero() {
		sb.WriteString(" 0")
		return sb.String()
	}
	for i, t := range c.Terms() {
		if i > 0 {
			sb.WriteString(" +")
		}
		sb.WriteString(fmt.Sprintf(" (%v)*%s", t.Coeff, t.Elem))
	}
	return sb.String()
}
