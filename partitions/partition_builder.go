package partitions

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/ConchFeng/gmsh-fork/element"
	"github.com/ConchFeng/gmsh-fork/utils"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// PartitionBuilder constructs partitions from mesh connectivity
type PartitionBuilder struct {
	// Mesh connectivity
	Mesh *utils.FaceConnector

	// Partitioning parameters
	TargetPartitionSize int // Desired elements per partition
	NumPartitions       int // When positive, overrides TargetPartitionSize
	Strategy            PartitionStrategy
}

// PartitionStrategy defines how elements are grouped
type PartitionStrategy int

const (
	// Simple strategies
	BlockPartition PartitionStrategy = iota // Consecutive elements
	RoundRobin                              // Distribute cyclically

	// Connectivity-aware strategies
	GraphPartition    // Breadth-first growth over the facet graph
	SpaceFillingCurve // Morton ordering of element centroids
)

var strategyNames = map[PartitionStrategy]string{
	BlockPartition:    "block",
	RoundRobin:        "roundrobin",
	GraphPartition:    "graph",
	SpaceFillingCurve: "morton",
}

func (s PartitionStrategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("PartitionStrategy(%d)", int(s))
}

// ParseStrategy resolves a strategy from its name
func ParseStrategy(name string) (PartitionStrategy, error) {
	for s, n := range strategyNames {
		if n == name {
			return s, nil
		}
	}
	return BlockPartition, fmt.Errorf("unknown partition strategy %q", name)
}

// BuildPartitions creates a partition layout from mesh connectivity and
// records it on the connector.
func (pb *PartitionBuilder) BuildPartitions() (*PartitionLayout, error) {
	if pb.Mesh == nil {
		return nil, errors.New("partition builder has no mesh")
	}
	if pb.NumPartitions <= 0 && pb.TargetPartitionSize <= 0 {
		return nil, fmt.Errorf("invalid target partition size %d", pb.TargetPartitionSize)
	}

	// Determine number of partitions needed
	numPartitions := pb.calculateNumPartitions()

	// Partition the elements
	eToP := pb.partitionElements(numPartitions)

	// Create partition structures
	partitions := pb.createPartitions(eToP, numPartitions)

	kpartMax := pb.calculateKpartMax(partitions)
	for i := range partitions {
		partitions[i].MaxElements = kpartMax
	}

	layout := &PartitionLayout{
		Partitions:    partitions,
		KpartMax:      kpartMax,
		TotalElements: pb.Mesh.K,
		NumPartitions: numPartitions,
		EToP:          eToP,
	}

	if err := layout.ValidateLayout(); err != nil {
		return nil, fmt.Errorf("invalid partition layout: %w", err)
	}
	if err := pb.Mesh.SetPartitions(eToP); err != nil {
		return nil, err
	}
	return layout, nil
}

// calculateNumPartitions determines the partition count, never more than
// the number of elements
func (pb *PartitionBuilder) calculateNumPartitions() int {
	numPartitions := pb.NumPartitions
	if numPartitions <= 0 {
		numPartitions = int(math.Ceil(float64(pb.Mesh.K) / float64(pb.TargetPartitionSize)))
	}
	if numPartitions > pb.Mesh.K {
		numPartitions = pb.Mesh.K
	}
	if numPartitions < 1 {
		numPartitions = 1
	}
	return numPartitions
}

// partitionElements assigns elements to partitions
func (pb *PartitionBuilder) partitionElements(numPartitions int) []int {
	switch pb.Strategy {
	case RoundRobin:
		eToP := make([]int, pb.Mesh.K)
		for i := range eToP {
			eToP[i] = i % numPartitions
		}
		return eToP

	case GraphPartition:
		return pb.growPartitions(numPartitions)

	case SpaceFillingCurve:
		return blockAssign(mortonOrder(pb.Mesh), numPartitions)

	default:
		order := make([]int, pb.Mesh.K)
		for i := range order {
			order[i] = i
		}
		return blockAssign(order, numPartitions)
	}
}

// blockAssign cuts an element ordering into consecutive blocks whose sizes
// differ by at most one
func blockAssign(order []int, numPartitions int) []int {
	eToP := make([]int, len(order))
	for i, k := range order {
		eToP[k] = i * numPartitions / len(order)
	}
	return eToP
}

// partitionSize is the size of block p when K elements are cut into n blocks
func partitionSize(p, K, n int) int {
	return (p+1)*K/n - p*K/n
}

// growPartitions fills partitions one at a time by breadth-first search over
// the facet graph, restarting from the lowest unassigned element whenever a
// search runs out of neighbors.
func (pb *PartitionBuilder) growPartitions(numPartitions int) []int {
	K := pb.Mesh.K
	g := pb.Mesh.Graph()

	eToP := make([]int, K)
	for i := range eToP {
		eToP[i] = -1
	}
	part, count := 0, 0
	for seed := 0; seed < K; seed++ {
		if eToP[seed] >= 0 {
			continue
		}
		bf := traverse.BreadthFirst{
			Traverse: func(e graph.Edge) bool {
				return eToP[e.From().ID()] < 0 || eToP[e.To().ID()] < 0
			},
		}
		bf.Walk(g, simple.Node(seed), func(n graph.Node, _ int) bool {
			eToP[n.ID()] = part
			count++
			if count == partitionSize(part, K, numPartitions) && part < numPartitions-1 {
				part++
				count = 0
				return true
			}
			return false
		})
	}
	return eToP
}

// mortonOrder sorts elements along a Z-order curve through their vertex
// centroids
func mortonOrder(fc *utils.FaceConnector) []int {
	const bits = 10
	centroids := make([][3]float64, fc.K)
	lo := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for k, c := range fc.Cells {
		var ctr [3]float64
		for i := 0; i < c.NumVertices(); i++ {
			v := c.Vertex(i)
			ctr[0] += v.X
			ctr[1] += v.Y
			ctr[2] += v.Z
		}
		for d := range ctr {
			ctr[d] /= float64(c.NumVertices())
			lo[d] = math.Min(lo[d], ctr[d])
			hi[d] = math.Max(hi[d], ctr[d])
		}
		centroids[k] = ctr
	}

	codes := make([]uint64, fc.K)
	for k, ctr := range centroids {
		var q [3]uint64
		for d := range ctr {
			if span := hi[d] - lo[d]; span > 0 {
				q[d] = uint64((ctr[d] - lo[d]) / span * float64(1<<bits-1))
			}
		}
		for b := 0; b < bits; b++ {
			for d := 0; d < 3; d++ {
				codes[k] |= ((q[d] >> b) & 1) << (3*b + d)
			}
		}
	}

	order := make([]int, fc.K)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return codes[order[i]] < codes[order[j]] })
	return order
}

// createPartitions builds partition structures from element assignments
func (pb *PartitionBuilder) createPartitions(eToP []int, numPartitions int) []Partition {
	partitions := make([]Partition, numPartitions)
	for i := range partitions {
		partitions[i] = Partition{
			ID:           i,
			Elements:     make([]int, 0),
			ElementTypes: make([]element.ElementGeometry, 0),
		}
	}

	for elem, part := range eToP {
		partitions[part].Elements = append(partitions[part].Elements, elem)
		partitions[part].ElementTypes = append(partitions[part].ElementTypes,
			pb.Mesh.ElementTypes[elem])
		partitions[part].NumElements++
	}

	for i := range partitions {
		partitions[i].TypeGroups = createElementGroups(&partitions[i])
	}
	return partitions
}

// createElementGroups organizes elements by type within a partition
func createElementGroups(p *Partition) []ElementGroup {
	if len(p.ElementTypes) == 0 {
		return nil
	}

	byType := make(map[element.ElementGeometry][]int)
	for i, elemType := range p.ElementTypes {
		byType[elemType] = append(byType[elemType], i)
	}
	types := make([]element.ElementGeometry, 0, len(byType))
	for elemType := range byType {
		types = append(types, elemType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	groups := make([]ElementGroup, 0, len(types))
	currentIndex := 0
	for _, elemType := range types {
		indices := byType[elemType]
		groups = append(groups, ElementGroup{
			ElementType: elemType,
			StartIndex:  currentIndex,
			Count:       len(indices),
			NumVertices: elemType.NumVertices(),
			LocalIDs:    indices,
		})
		currentIndex += len(indices)
	}
	return groups
}

// calculateKpartMax finds maximum elements across all partitions
func (pb *PartitionBuilder) calculateKpartMax(partitions []Partition) int {
	kpartMax := 0
	for _, p := range partitions {
		if p.NumElements > kpartMax {
			kpartMax = p.NumElements
		}
	}
	return kpartMax
}
