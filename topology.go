package bnets

// topology.go provides reporting on the instantaneous contact topology
// of the mesh: which buoys could currently hear which, and whether the
// mesh is in one piece.  The approach is to convert the in-range
// relation into the data structures of a graph package with built-in
// connectivity algorithms, weighting each contact edge equally

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// buildContactGraph converts the pairwise in-range relation over the
// buoy arena into an undirected graph whose nodes are buoy ids
func buildContactGraph(buoys []*Buoy, rangeMax float64) graph.Undirected {
	cg := simple.NewUndirectedGraph()

	for _, b := range buoys {
		cg.AddNode(simple.Node(b.ID))
	}

	for i, b1 := range buoys {
		for _, b2 := range buoys[i+1:] {
			if distance(b1.Position, b2.Position) <= rangeMax {
				cg.SetEdge(simple.Edge{F: simple.Node(b1.ID), T: simple.Node(b2.ID)})
			}
		}
	}
	return cg
}

// PartitionCount reports the number of connected components in the
// contact graph at the buoys' current positions.  A fully meshed
// deployment reports 1; higher values mean groups of buoys that cannot
// currently hear each other at all
func PartitionCount(buoys []*Buoy, rangeMax float64) int {
	if len(buoys) == 0 {
		return 0
	}
	cg := buildContactGraph(buoys, rangeMax)
	return len(topo.ConnectedComponents(cg))
}

// FullyConnected reports whether every buoy can currently reach every
// other through some chain of contacts
func FullyConnected(buoys []*Buoy, rangeMax float64) bool {
	return PartitionCount(buoys, rangeMax) <= 1
}
