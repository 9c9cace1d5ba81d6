package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ConchFeng/gmsh-fork/element"
)

// DiscreteEntity is an elementary entity defined only by its mesh
type DiscreteEntity struct {
	dim       int
	tag       int
	elements  []element.MeshElement
	physicals []int
}

func (e *DiscreteEntity) Dim() int             { return e.dim }
func (e *DiscreteEntity) Tag() int             { return e.tag }
func (e *DiscreteEntity) NumMeshElements() int { return len(e.elements) }
func (e *DiscreteEntity) Physicals() []int     { return append([]int(nil), e.physicals...) }

func (e *DiscreteEntity) MeshElement(i int) element.MeshElement {
	return e.elements[i]
}

type physicalKey struct {
	dim, num int
}

// GModel is an in-memory geometric model holding mesh vertices, elementary
// entities of dimension 0..3 and their physical group assignments.
type GModel struct {
	Name string

	vertices      map[int]*element.Vertex
	entities      [4]map[int]*DiscreteEntity
	names         map[physicalKey]string
	maxElementNum int
}

func NewGModel(name string) *GModel {
	m := &GModel{
		Name:     name,
		vertices: make(map[int]*element.Vertex),
		names:    make(map[physicalKey]string),
	}
	for d := range m.entities {
		m.entities[d] = make(map[int]*DiscreteEntity)
	}
	return m
}

func checkDim(dim int) error {
	if dim < 0 || dim > 3 {
		return fmt.Errorf("dimension %d: %w", dim, ErrBadDimension)
	}
	return nil
}

// AddVertex registers a mesh vertex under its number
func (m *GModel) AddVertex(num int, x, y, z float64) (*element.Vertex, error) {
	if _, ok := m.vertices[num]; ok {
		return nil, fmt.Errorf("vertex %d: %w", num, ErrDuplicateVertex)
	}
	v := element.NewVertex(num, x, y, z)
	m.vertices[num] = v
	return v, nil
}

func (m *GModel) Vertex(num int) (v *element.Vertex, ok bool) {
	v, ok = m.vertices[num]
	return
}

func (m *GModel) NumVertices() int { return len(m.vertices) }

// AddEntity creates an empty elementary entity
func (m *GModel) AddEntity(dim, tag int) (*DiscreteEntity, error) {
	if err := checkDim(dim); err != nil {
		return nil, err
	}
	if _, ok := m.entities[dim][tag]; ok {
		return nil, fmt.Errorf("entity (%d,%d): %w", dim, tag, ErrEntityExists)
	}
	e := &DiscreteEntity{dim: dim, tag: tag}
	m.entities[dim][tag] = e
	return e, nil
}

func (m *GModel) Entity(dim, tag int) (e *DiscreteEntity, ok bool) {
	if checkDim(dim) != nil {
		return nil, false
	}
	e, ok = m.entities[dim][tag]
	return
}

// Entities returns the entities of one dimension ordered by tag
func (m *GModel) Entities(dim int) []*DiscreteEntity {
	if checkDim(dim) != nil {
		return nil
	}
	tags := make([]int, 0, len(m.entities[dim]))
	for tag := range m.entities[dim] {
		tags = append(tags, tag)
	}
	sort.Ints(tags)
	out := make([]*DiscreteEntity, len(tags))
	for i, tag := range tags {
		out[i] = m.entities[dim][tag]
	}
	return out
}

// AddElements appends mesh elements to an existing entity. Elements must
// match the entity dimension.
func (m *GModel) AddElements(dim, tag int, elems ...element.MeshElement) error {
	e, ok := m.Entity(dim, tag)
	if !ok {
		return fmt.Errorf("entity (%d,%d): %w", dim, tag, ErrUnknownEntity)
	}
	for _, el := range elems {
		if el.Dim() != dim {
			return fmt.Errorf("element %d of dimension %d in entity (%d,%d): %w",
				el.Num(), el.Dim(), dim, tag, ErrBadDimension)
		}
	}
	for _, el := range elems {
		e.elements = append(e.elements, el)
		if el.Num() > m.maxElementNum {
			m.maxElementNum = el.Num()
		}
	}
	return nil
}

// AddCell creates a cell from registered vertex numbers, numbers it after
// the current maximum element number and appends it to entity (dim, tag).
func (m *GModel) AddCell(dim, tag int, geom element.ElementGeometry, vertexNums ...int) (*element.Cell, error) {
	verts := make([]*element.Vertex, len(vertexNums))
	for i, num := range vertexNums {
		v, ok := m.vertices[num]
		if !ok {
			return nil, fmt.Errorf("vertex %d is not part of model %q", num, m.Name)
		}
		verts[i] = v
	}
	c, err := element.NewCell(geom, m.maxElementNum+1, verts...)
	if err != nil {
		return nil, err
	}
	if err = m.AddElements(dim, tag, c); err != nil {
		return nil, err
	}
	return c, nil
}

// AddPhysical tags entity (dim, tag) with physical group num
func (m *GModel) AddPhysical(dim, tag, num int) error {
	e, ok := m.Entity(dim, tag)
	if !ok {
		return fmt.Errorf("entity (%d,%d): %w", dim, tag, ErrUnknownEntity)
	}
	for _, p := range e.physicals {
		if p == num {
			return nil
		}
	}
	e.physicals = append(e.physicals, num)
	return nil
}

func (m *GModel) PhysicalGroups() (groups [4]map[int][]Entity) {
	for dim := range groups {
		groups[dim] = make(map[int][]Entity)
		for _, e := range m.Entities(dim) {
			for _, p := range e.physicals {
				groups[dim][p] = append(groups[dim][p], e)
			}
		}
	}
	return
}

func (m *GModel) PhysicalName(dim, num int) string {
	return m.names[physicalKey{dim, num}]
}

func (m *GModel) SetPhysicalName(name string, dim, num int) {
	m.names[physicalKey{dim, num}] = name
}

func (m *GModel) MaxElementaryNumber(dim int) (max int) {
	if checkDim(dim) != nil {
		return 0
	}
	for tag := range m.entities[dim] {
		if tag > max {
			max = tag
		}
	}
	return
}

func (m *GModel) MaxPhysicalNumber(dim int) (max int) {
	if checkDim(dim) != nil {
		return 0
	}
	for _, e := range m.entities[dim] {
		for _, p := range e.physicals {
			if p > max {
				max = p
			}
		}
	}
	return
}

func (m *GModel) MaxElementNumber() int { return m.maxElementNum }

func (m *GModel) StoreChain(dim int, entityMap map[int][]element.MeshElement,
	physicalMap map[int]map[int]string) error {
	if err := checkDim(dim); err != nil {
		return err
	}
	tags := make([]int, 0, len(entityMap))
	for tag := range entityMap {
		tags = append(tags, tag)
	}
	sort.Ints(tags)
	for _, tag := range tags {
		if _, ok := m.entities[dim][tag]; !ok {
			if _, err := m.AddEntity(dim, tag); err != nil {
				return err
			}
		}
		if err := m.AddElements(dim, tag, entityMap[tag]...); err != nil {
			return fmt.Errorf("store chain: %w", err)
		}
		for num, name := range physicalMap[tag] {
			if err := m.AddPhysical(dim, tag, num); err != nil {
				return err
			}
			if name != "" {
				m.SetPhysicalName(name, dim, num)
			}
		}
	}
	return nil
}

// String returns a summary of the model contents
func (m *GModel) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("=== GModel %q ===\n", m.Name))
	sb.WriteString(fmt.Sprintf("  Vertices: %d\n", len(m.vertices)))
	groups := m.PhysicalGroups()
	for dim := 0; dim < 4; dim++ {
		nel := 0
		for _, e := range m.entities[dim] {
			nel += len(e.elements)
		}
		sb.WriteString(fmt.Sprintf("  Dim %d: %d entities, %d elements, %d physical groups\n",
			dim, len(m.entities[dim]), nel, len(groups[dim])))
	}
	return sb.String()
}
