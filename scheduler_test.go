package bnets

import (
	"math"
	"testing"
)

func testScheduler(weights ScoreWeights) *BeaconScheduler {
	density := ScoreCurve{Midpoint: 10.0, Alpha: 0.5}
	contact := ScoreCurve{Midpoint: 20.0, Alpha: 0.25}
	bounds := IntervalBounds{Min: 1.0, Max: 10.0}
	return CreateBeaconScheduler(weights, density, contact, bounds, 1.5, Sigmoid)
}

func TestRecomputeWithinBounds(t *testing.T) {
	// deliberately unnormalized weights so that k can leave [0,1];
	// the clamp has to hold the interval inside the bounds anyway
	bs := testScheduler(ScoreWeights{Motion: 2.0, Density: 2.0, Contact: 2.0, Congestion: 2.0})

	b := createBuoy(0, "bounds-test", Position{}, Velocity{X: 3.0})
	b.CollisionRate = 0.1
	b.hearBeacon(1, 4.0)
	b.hearBeacon(2, 5.0)

	for _, now := range []float64{5.0, 50.0, 500.0} {
		interval, nextDue := bs.Recompute(b, now)
		if interval < 1.0 || interval > 10.0 {
			t.Fatalf("interval %f outside [1,10] at now=%f", interval, now)
		}
		if nextDue != now+interval {
			t.Fatalf("next due %f is not now+interval %f", nextDue, now+interval)
		}
		if b.NextDue != nextDue {
			t.Fatalf("buoy next due %f not updated to %f", b.NextDue, nextDue)
		}
	}
}

// higher composite urgency must never lengthen the interval
func TestIntervalMonotoneInUrgency(t *testing.T) {
	bs := testScheduler(ScoreWeights{Motion: 1.0})

	slow := createBuoy(0, "slow", Position{}, Velocity{})
	fast := createBuoy(1, "fast", Position{}, Velocity{X: 1.5})

	slowInterval, _ := bs.Recompute(slow, 10.0)
	fastInterval, _ := bs.Recompute(fast, 10.0)

	if fastInterval > slowInterval {
		t.Errorf("faster buoy got longer interval: %f > %f", fastInterval, slowInterval)
	}
	if slowInterval != 10.0 {
		t.Errorf("motionless buoy with motion-only weights: interval %f, want max 10.0", slowInterval)
	}
	if math.Abs(fastInterval-1.0) > 1e-12 {
		t.Errorf("reference-speed buoy with motion weight 1: interval %f, want min 1.0", fastInterval)
	}
}

func TestRecomputeIdempotent(t *testing.T) {
	bs := testScheduler(ScoreWeights{Motion: 0.3, Density: 0.4, Contact: 0.3, Congestion: 0.2})

	b := createBuoy(0, "idem", Position{}, Velocity{X: 0.5, Y: 0.5})
	b.CollisionRate = 0.25
	b.hearBeacon(3, 7.0)

	i1, d1 := bs.Recompute(b, 12.0)
	i2, d2 := bs.Recompute(b, 12.0)

	if i1 != i2 || d1 != d2 {
		t.Errorf("recompute not idempotent: (%f,%f) then (%f,%f)", i1, d1, i2, d2)
	}
}

// all-zero weights force k=0, so every recompute yields the maximum
// interval regardless of node state
func TestZeroWeightsYieldMaxInterval(t *testing.T) {
	bs := testScheduler(ScoreWeights{})

	buoys := []*Buoy{
		createBuoy(0, "still", Position{}, Velocity{}),
		createBuoy(1, "mover", Position{X: 50.0}, Velocity{X: 10.0, Y: -4.0}),
	}
	buoys[1].CollisionRate = 0.9
	buoys[1].hearBeacon(0, 1.0)

	for _, b := range buoys {
		interval, _ := bs.Recompute(b, 30.0)
		if interval != 10.0 {
			t.Errorf("buoy %s: interval %f with zero weights, want max 10.0", b.Name, interval)
		}
	}
}
