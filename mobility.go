package bnets

// mobility.go holds the collaborator interfaces the simulation core
// depends on (mobility, range discovery, link loss) along with the
// built-in implementations used when no external collaborator is
// supplied: straight-line drift, planar range discovery, and a
// distance-banded delivery probability

import (
	"golang.org/x/exp/slices"
)

// Mobility supplies a buoy's position and speed at a simulation time
type Mobility interface {
	PositionAndSpeed(b *Buoy, now float64) (Position, float64)
}

// NeighborDiscovery reports which buoys are within communication range
// of a given buoy at a simulation time
type NeighborDiscovery interface {
	NeighborsInRange(b *Buoy, now float64) []int
}

// DriftMobility moves each buoy in a straight line from its starting
// position at its constant drift velocity
type DriftMobility struct{}

// PositionAndSpeed for drift motion is closed-form in now, so the
// mobility model keeps no per-buoy state of its own
func (dm *DriftMobility) PositionAndSpeed(b *Buoy, now float64) (Position, float64) {
	pos := Position{
		X: b.Start.X + b.Velocity.X*now,
		Y: b.Start.Y + b.Velocity.Y*now,
	}
	return pos, b.Velocity.speed()
}

// PlanarDiscovery finds in-range buoys by Euclidean distance over the
// simulation's buoy arena
type PlanarDiscovery struct {
	buoys    []*Buoy
	rangeMax float64
}

// CreatePlanarDiscovery is a constructor
func CreatePlanarDiscovery(buoys []*Buoy, rangeMax float64) *PlanarDiscovery {
	pd := new(PlanarDiscovery)
	pd.buoys = buoys
	pd.rangeMax = rangeMax
	return pd
}

// NeighborsInRange returns the ids of all other buoys within range of
// b's current position, in ascending id order for determinism
func (pd *PlanarDiscovery) NeighborsInRange(b *Buoy, now float64) []int {
	inRange := []int{}
	for _, other := range pd.buoys {
		if other.ID == b.ID {
			continue
		}
		if distance(b.Position, other.Position) <= pd.rangeMax {
			inRange = append(inRange, other.ID)
		}
	}
	slices.Sort(inRange)
	return inRange
}

// BandedLossModel abstracts link quality as two delivery probability
// bands: links shorter than the high-probability range deliver with
// probability probHigh, links out to the maximum range with probLow,
// and anything farther is lost outright
type BandedLossModel struct {
	buoys         []*Buoy
	rangeHighProb float64
	rangeMax      float64
	probHigh      float64
	probLow       float64
}

// CreateBandedLossModel is a constructor.  The delivery probabilities
// are validated at configuration time, before any draw happens
func CreateBandedLossModel(buoys []*Buoy, rangeHighProb, rangeMax, probHigh, probLow float64) *BandedLossModel {
	blm := new(BandedLossModel)
	blm.buoys = buoys
	blm.rangeHighProb = rangeHighProb
	blm.rangeMax = rangeMax
	blm.probHigh = probHigh
	blm.probLow = probLow
	return blm
}

// LossProbability reports the probability that the link from sender to
// receiver loses a beacon, as a function of their current separation
func (blm *BandedLossModel) LossProbability(sender, receiver int, now float64) float64 {
	dist := distance(blm.buoys[sender].Position, blm.buoys[receiver].Position)

	switch {
	case dist <= blm.rangeHighProb:
		return 1.0 - blm.probHigh
	case dist <= blm.rangeMax:
		return 1.0 - blm.probLow
	}
	return 1.0
}
