package chain

import (
	"sync"

	"github.com/ConchFeng/gmsh-fork/model"
)

type entityKey struct {
	dim, tag int
}

// VertexCache memoizes the vertex number set of geometric entities for
// containment tests. It is a performance cache, not a source of truth: it
// is never refreshed automatically, so callers must Invalidate an entity
// (or Clear the cache) after changing its mesh.
type VertexCache struct {
	mu   sync.RWMutex
	sets map[entityKey]map[int]struct{}
}

func NewVertexCache() *VertexCache {
	return &VertexCache{sets: make(map[entityKey]map[int]struct{})}
}

func (vc *VertexCache) vertices(e model.Entity) map[int]struct{} {
	key := entityKey{e.Dim(), e.Tag()}
	vc.mu.RLock()
	set, ok := vc.sets[key]
	vc.mu.RUnlock()
	if ok {
		return set
	}
	set = entityVertices(e)
	vc.mu.Lock()
	vc.sets[key] = set
	vc.mu.Unlock()
	return set
}

// Contains reports whether vertex number num belongs to e
func (vc *VertexCache) Contains(e model.Entity, num int) bool {
	_, ok := vc.vertices(e)[num]
	return ok
}

func (vc *VertexCache) Invalidate(e model.Entity) {
	vc.mu.Lock()
	delete(vc.sets, entityKey{e.Dim(), e.Tag()})
	vc.mu.Unlock()
}

func (vc *VertexCache) Clear() {
	vc.mu.Lock()
	vc.sets = make(map[entityKey]map[int]struct{})
	vc.mu.Unlock()
}

// Len returns the number of cached entities
func (vc *VertexCache) Len() int {
	vc.mu.RLock()
	defer vc.mu.RUnlock()
	return len(vc.sets)
}

func entityVertices(e model.Entity) map[int]struct{} {
	set := make(map[int]struct{})
	for i := 0; i < e.NumMeshElements(); i++ {
		el := e.MeshElement(i)
		for j := 0; j < el.NumVertices(); j++ {
			set[el.Vertex(j).Num] = struct{}{}
		}
	}
	return set
}
