package chain

import (
	"errors"
	"fmt"
	"math"

	"github.com/ConchFeng/gmsh-fork/algebra"
	"github.com/ConchFeng/gmsh-fork/element"
	"github.com/ConchFeng/gmsh-fork/model"
	"github.com/ConchFeng/gmsh-fork/post"
	"github.com/sirupsen/logrus"
)

// orientationAnnotationSize is the tangent/normal display size set on
// materialized chain views that have no customized value.
const orientationAnnotationSize = 30

// NewChainFromPhysicalGroup builds the chain of all mesh elements of the
// physical group, each with coefficient 1, named after the group. An unknown
// group is reported and yields the zero chain with ErrPhysicalGroupNotFound.
// Elements without topology tables abort the construction.
func NewChainFromPhysicalGroup[C algebra.Ring](m model.Model, physicalGroup int) (*Chain[C], error) {
	c := NewChain[C]()
	groups := m.PhysicalGroups()
	var entities []model.Entity
	for dim := 0; dim < 4; dim++ {
		if ents, ok := groups[dim][physicalGroup]; ok {
			c.dim = dim
			entities = append(entities, ents...)
		}
	}
	if len(entities) == 0 {
		err := fmt.Errorf("physical group %d: %w", physicalGroup, ErrPhysicalGroupNotFound)
		log.WithFields(logrus.Fields{"group": physicalGroup}).Error(err)
		return c, err
	}
	for _, e := range entities {
		for i := 0; i < e.NumMeshElements(); i++ {
			err := c.AddMeshElement(e.MeshElement(i), 1)
			switch {
			case err == nil:
			case errors.Is(err, ErrDimensionMismatch):
				log.WithFields(logrus.Fields{
					"group":  physicalGroup,
					"entity": e.Tag(),
				}).Error(err)
			default:
				return nil, fmt.Errorf("physical group %d: %w", physicalGroup, err)
			}
		}
	}
	c.SetName(m.PhysicalName(c.dim, physicalGroup))
	return c, nil
}

// TraceEntities returns the terms of c whose generator lies entirely in at
// least one of the entities. A nil cache recomputes entity vertex sets.
func (c *Chain[C]) TraceEntities(entities []model.Entity, cache *VertexCache) *Chain[C] {
	result := NewChain[C]()
	for _, t := range c.Terms() {
		for _, e := range entities {
			if t.Elem.InEntity(cache, e) {
				_ = result.AddElemChain(t.Elem, t.Coeff)
				break
			}
		}
	}
	return result
}

// TraceGroup restricts c to the entities of one physical group
func (c *Chain[C]) TraceGroup(m model.Model, physicalGroup int, cache *VertexCache) *Chain[C] {
	return c.TraceGroups(m, []int{physicalGroup}, cache)
}

// TraceGroups restricts c to the entities of the given physical groups,
// searched in every dimension. Unknown groups are reported and skipped.
func (c *Chain[C]) TraceGroups(m model.Model, physicalGroups []int, cache *VertexCache) *Chain[C] {
	groups := m.PhysicalGroups()
	var entities []model.Entity
	for _, pg := range physicalGroups {
		found := false
		for dim := 0; dim < 4; dim++ {
			if ents, ok := groups[dim][pg]; ok {
				found = true
				entities = append(entities, ents...)
			}
		}
		if !found {
			log.WithFields(logrus.Fields{"group": pg}).
				Error(fmt.Errorf("physical group %d: %w", pg, ErrPhysicalGroupNotFound))
		}
	}
	if len(entities) == 0 {
		return NewChain[C]()
	}
	return c.TraceEntities(entities, cache)
}

// AddToModel materializes c as mesh elements of a new elementary entity and
// physical group of m, named after the chain. Each generator becomes |coeff|
// copies of a mesh element, reverted when coeff is negative (positive
// dimensions only). When views is not nil an element data view carrying
// |coeff| (signed coeff for 0-chains) is added. The new physical group number
// is returned; the zero chain is reported and not stored (returns -1).
func (c *Chain[C]) AddToModel(m model.Model, views post.Sink) (int, error) {
	if c.IsZero() {
		log.Infof("A chain is zero element of C%d, not added to the model", c.dim)
		return -1, nil
	}
	dim := c.dim
	num := m.MaxElementNumber()
	var elements []element.MeshElement
	data := make(map[int][]float64)

	for _, t := range c.Terms() {
		abs := math.Abs(float64(t.Coeff))
		value := abs
		if dim == 0 {
			value = float64(t.Coeff)
		}
		// at least one element per term, one more per extra unit of |coeff|
		for i := 0; i == 0 || float64(i) < abs; i++ {
			num++
			e := t.Elem.CreateMeshElement(num)
			if dim > 0 && t.Coeff < 0 {
				e.Revert()
			}
			elements = append(elements, e)
			data[num] = []float64{value}
		}
	}

	entityNum := m.MaxElementaryNumber(dim) + 1
	physicalNum := 0
	for d := 0; d < 4; d++ {
		if p := m.MaxPhysicalNumber(d); p > physicalNum {
			physicalNum = p
		}
	}
	physicalNum++

	entityMap := map[int][]element.MeshElement{entityNum: elements}
	physicalMap := map[int]map[int]string{entityNum: {physicalNum: c.name}}
	if err := m.StoreChain(dim, entityMap, physicalMap); err != nil {
		return -1, fmt.Errorf("add %d-chain %q to model: %w", dim, c.name, err)
	}
	m.SetPhysicalName(c.name, dim, physicalNum)

	if views != nil {
		view := views.AddElementData(fmt.Sprintf("%d: %s", physicalNum, c.name), data, 0, 1)
		opt := view.GetOptions()
		if opt.Tangents == 0 {
			opt.Tangents = orientationAnnotationSize
		}
		if opt.Normals == 0 {
			opt.Normals = orientationAnnotationSize
		}
		view.SetOptions(opt)
	}
	return physicalNum, nil
}
