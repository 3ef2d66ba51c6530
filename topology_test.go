package bnets

import (
	"testing"
)

func arena(positions []Position) []*Buoy {
	buoys := make([]*Buoy, 0, len(positions))
	for idx, pos := range positions {
		buoys = append(buoys, createBuoy(idx, nameFor(idx), pos, Velocity{}))
	}
	return buoys
}

func nameFor(idx int) string {
	return string(rune('a' + idx))
}

func TestPartitionCountSingleCluster(t *testing.T) {
	buoys := arena([]Position{{0, 0}, {50, 0}, {0, 50}})
	if got := PartitionCount(buoys, 100.0); got != 1 {
		t.Errorf("clustered mesh partitions: got %d, want 1", got)
	}
	if !FullyConnected(buoys, 100.0) {
		t.Errorf("clustered mesh not reported fully connected")
	}
}

// two groups separated beyond range form two partitions even though
// each group is internally connected
func TestPartitionCountSplitMesh(t *testing.T) {
	buoys := arena([]Position{
		{0, 0}, {50, 0}, // west group
		{5000, 0}, {5050, 0}, // east group
	})

	if got := PartitionCount(buoys, 100.0); got != 2 {
		t.Errorf("split mesh partitions: got %d, want 2", got)
	}
	if FullyConnected(buoys, 100.0) {
		t.Errorf("split mesh reported fully connected")
	}
}

// chains count: connectivity is transitive through intermediate buoys
func TestPartitionCountChain(t *testing.T) {
	buoys := arena([]Position{{0, 0}, {90, 0}, {180, 0}})
	// adjacent pairs are in range of each other, the ends are not
	if got := PartitionCount(buoys, 100.0); got != 1 {
		t.Errorf("chain mesh partitions: got %d, want 1", got)
	}
}

func TestPartitionCountDegenerate(t *testing.T) {
	if got := PartitionCount([]*Buoy{}, 100.0); got != 0 {
		t.Errorf("empty arena partitions: got %d, want 0", got)
	}

	solo := arena([]Position{{0, 0}})
	if got := PartitionCount(solo, 100.0); got != 1 {
		t.Errorf("single buoy partitions: got %d, want 1", got)
	}
}
