package bnets

// metrics.go holds the delivery tracker, the run-level accounting of
// how many receptions were possible and how many actually happened.
// The delivery ratio received/potential is the simulator's primary
// accuracy metric

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// DeliveryTracker accumulates the global counters for one simulation
// run.  All counters increase monotonically for the run's lifetime.
// The tracker is owned exclusively by the run's event loop and is not
// safe for concurrent mutation
type DeliveryTracker struct {
	potential int64 // receptions that were possible (receivers in range at send)
	received  int64 // receptions that actually happened
	sent      int64 // beacon transmissions
	collided  int64 // receptions destroyed by simultaneous arrival
	dropped   int64 // receptions lost to the per-link probability draw
}

// CreateDeliveryTracker is a constructor
func CreateDeliveryTracker() *DeliveryTracker {
	return new(DeliveryTracker)
}

// RecordEvent notes one beacon transmission with the given number of
// in-range receivers.  A transmission with no one in range still counts
// as sent but contributes nothing to potential
func (dt *DeliveryTracker) RecordEvent(numPotential int) {
	dt.sent += 1
	dt.potential += int64(numPotential)
}

// RecordSuccess adds successful receptions
func (dt *DeliveryTracker) RecordSuccess(count int) {
	dt.received += int64(count)
}

// RecordCollision adds receptions destroyed by collision
func (dt *DeliveryTracker) RecordCollision(count int) {
	dt.collided += int64(count)
}

// RecordDrop adds receptions lost to the probability draw
func (dt *DeliveryTracker) RecordDrop(count int) {
	dt.dropped += int64(count)
}

// Ratio reports the delivery ratio received/potential.  When no beacon
// ever had a receiver in range the ratio is undefined, reported through
// the false flag rather than as zero or NaN
func (dt *DeliveryTracker) Ratio() (float64, bool) {
	if dt.potential == 0 {
		return 0.0, false
	}
	return float64(dt.received) / float64(dt.potential), true
}

// PotentialCount reports the number of receptions that were possible
func (dt *DeliveryTracker) PotentialCount() int64 {
	return dt.potential
}

// ReceivedCount reports the number of receptions that happened
func (dt *DeliveryTracker) ReceivedCount() int64 {
	return dt.received
}

// SentCount reports the number of beacon transmissions
func (dt *DeliveryTracker) SentCount() int64 {
	return dt.sent
}

// CollidedCount reports the number of collision-destroyed receptions
func (dt *DeliveryTracker) CollidedCount() int64 {
	return dt.collided
}

// DroppedCount reports the number of probability-lost receptions
func (dt *DeliveryTracker) DroppedCount() int64 {
	return dt.dropped
}

// MetricsSummary is the pointer-free report of a finished run, shaped
// for serialization and for the sweep aggregator
type MetricsSummary struct {
	Sent          int64   `json:"sent" yaml:"sent"`
	Potential     int64   `json:"potential" yaml:"potential"`
	Received      int64   `json:"received" yaml:"received"`
	Collided      int64   `json:"collided" yaml:"collided"`
	Dropped       int64   `json:"dropped" yaml:"dropped"`
	DeliveryRatio float64 `json:"deliveryratio" yaml:"deliveryratio"`
	RatioDefined  bool    `json:"ratiodefined" yaml:"ratiodefined"`
	CollisionRate float64 `json:"collisionrate" yaml:"collisionrate"`
	Throughput    float64 `json:"throughput" yaml:"throughput"`
	SimTime       float64 `json:"simtime" yaml:"simtime"`
}

// Summary rolls the counters up into a MetricsSummary for the run that
// ended at simTime
func (dt *DeliveryTracker) Summary(simTime float64) MetricsSummary {
	ms := MetricsSummary{
		Sent:      dt.sent,
		Potential: dt.potential,
		Received:  dt.received,
		Collided:  dt.collided,
		Dropped:   dt.dropped,
		SimTime:   simTime,
	}
	ms.DeliveryRatio, ms.RatioDefined = dt.Ratio()
	if dt.sent > 0 {
		ms.CollisionRate = float64(dt.collided) / float64(dt.sent)
	}
	if simTime > 0.0 {
		ms.Throughput = float64(dt.received) / simTime
	}
	return ms
}

// WriteCSV stores the summary as a two-column metric,value table for
// consumption by plotting scripts outside the core
func (ms *MetricsSummary) WriteCSV(filename string) error {
	f, cerr := os.Create(filename)
	if cerr != nil {
		return cerr
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	ratio := "undefined"
	if ms.RatioDefined {
		ratio = strconv.FormatFloat(ms.DeliveryRatio, 'f', -1, 64)
	}

	rows := [][]string{
		{"Metric", "Value"},
		{"Sent", strconv.FormatInt(ms.Sent, 10)},
		{"Potential", strconv.FormatInt(ms.Potential, 10)},
		{"Received", strconv.FormatInt(ms.Received, 10)},
		{"Collided", strconv.FormatInt(ms.Collided, 10)},
		{"Dropped", strconv.FormatInt(ms.Dropped, 10)},
		{"Delivery Ratio", ratio},
		{"Collision Rate", strconv.FormatFloat(ms.CollisionRate, 'f', -1, 64)},
		{"Throughput (beacons/sec)", strconv.FormatFloat(ms.Throughput, 'f', -1, 64)},
		{"Sim Time", strconv.FormatFloat(ms.SimTime, 'f', -1, 64)},
	}

	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing metrics row: %w", err)
		}
	}
	return nil
}
