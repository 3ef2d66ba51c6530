package bnets

// buoy.go holds the run-time representation of a buoy, the mobile
// node of the beacon mesh.  Buoys live in an arena slice owned by the
// simulation and are referenced by integer id (their index), never by
// floating pointers

import (
	"math"

	"github.com/iti/rngstream"
)

// Position locates a buoy on the (planar) operating area, in meters
type Position struct {
	X float64
	Y float64
}

// Velocity gives the drift vector of a mobile buoy, in meters/second
type Velocity struct {
	X float64
	Y float64
}

// distance returns the Euclidean distance between two positions
func distance(p1, p2 Position) float64 {
	return math.Hypot(p1.X-p2.X, p1.Y-p2.Y)
}

// speed returns the magnitude of the velocity vector
func (v Velocity) speed() float64 {
	return math.Hypot(v.X, v.Y)
}

// A Buoy carries the per-node state the simulation reads and updates.
// Position and Speed are written by the mobility collaborator, the
// scheduling fields by the interval scheduler, and the neighbor table
// by beacon receptions
type Buoy struct {
	ID       int    // index in the simulation's buoy arena
	Name     string // human-readable identifier, unique in a model
	Start    Position
	Position Position
	Velocity Velocity
	Speed    float64

	// LastContact is the simulation time this buoy most recently heard
	// any beacon.  Zero until the first reception
	LastContact float64

	// CollisionRate is the buoy's local estimate of the collided
	// fraction of its own transmissions' potential receptions
	CollisionRate float64

	// NextDue is the absolute simulation time of the buoy's next
	// beacon transmission.  Written only by the interval scheduler
	NextDue float64

	// neighbors maps the id of a heard sender to the time its beacon
	// was last received
	neighbors map[int]float64

	rngstrm *rngstream.RngStream
}

// createBuoy is a constructor.  Every buoy gets its own named random
// number stream so that runs are reproducible and independent
func createBuoy(id int, name string, pos Position, vel Velocity) *Buoy {
	b := new(Buoy)
	b.ID = id
	b.Name = name
	b.Start = pos
	b.Position = pos
	b.Velocity = vel
	b.Speed = vel.speed()
	b.neighbors = make(map[int]float64)
	b.rngstrm = rngstream.New(name)
	return b
}

// hearBeacon records the reception of a beacon from the named sender,
// refreshing the neighbor table and the last-contact timestamp
func (b *Buoy) hearBeacon(senderID int, now float64) {
	b.neighbors[senderID] = now
	b.LastContact = now
}

// pruneNeighbors drops neighbor entries that have not been refreshed
// within the timeout window
func (b *Buoy) pruneNeighbors(now, timeout float64) {
	for id, heard := range b.neighbors {
		if now-heard > timeout {
			delete(b.neighbors, id)
		}
	}
}

// neighborCount reports the size of the heard-neighbor table, the raw
// observation behind the density score
func (b *Buoy) neighborCount() int {
	return len(b.neighbors)
}
