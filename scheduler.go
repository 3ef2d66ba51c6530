package bnets

// scheduler.go holds structs and methods that implement the adaptive
// beacon-interval scheduler.  Each buoy decides, independently of any
// global coordination, when it next transmits: four locally observed
// signals are blended into a composite urgency value k, and k shrinks
// the beacon interval from its maximum toward its minimum

// ScoreWeights holds the relative influence of each score on the
// composite urgency.  The weights need not sum to one; the interval
// formula normalizes through its (1-k) term, and the clamp in
// Recompute covers weight choices that push k outside [0,1]
type ScoreWeights struct {
	Motion     float64
	Density    float64
	Contact    float64
	Congestion float64
}

// ScoreCurve holds the per-score-kind parameters of the response curve
type ScoreCurve struct {
	Midpoint float64
	Alpha    float64
}

// IntervalBounds limits the computed beacon interval
type IntervalBounds struct {
	Min float64
	Max float64
}

// schedulerState tracks where a buoy's scheduler is in its two-state
// cycle.  Firing is an instantaneous transition inside Recompute; a
// scheduler is observable only in the Idle state
type schedulerState int

const (
	schedIdle schedulerState = iota
	schedFiring
)

// BeaconScheduler computes beacon intervals for one buoy.  The
// computation cannot fail: every input is already-validated numeric
// state, so Recompute returns values, not errors
type BeaconScheduler struct {
	weights     ScoreWeights
	density     ScoreCurve
	contact     ScoreCurve
	bounds      IntervalBounds
	refVelocity float64
	shape       ScoreShape
	state       schedulerState
}

// CreateBeaconScheduler is a constructor
func CreateBeaconScheduler(weights ScoreWeights, density, contact ScoreCurve,
	bounds IntervalBounds, refVelocity float64, shape ScoreShape) *BeaconScheduler {

	bs := new(BeaconScheduler)
	bs.weights = weights
	bs.density = density
	bs.contact = contact
	bs.bounds = bounds
	bs.refVelocity = refVelocity
	bs.shape = shape
	bs.state = schedIdle
	return bs
}

// Recompute blends the buoy's current observations into the composite
// urgency k, converts k into a concrete beacon interval, and writes the
// buoy's next due time.  Identical inputs at an unchanged now yield an
// identical next due time
func (bs *BeaconScheduler) Recompute(b *Buoy, now float64) (float64, float64) {
	bs.state = schedFiring

	sMotion := MotionScore(b.Speed, bs.refVelocity)
	sDensity := Score(float64(b.neighborCount()), bs.density.Midpoint, bs.density.Alpha, bs.shape)
	sContact := Score(now-b.LastContact, bs.contact.Midpoint, bs.contact.Alpha, bs.shape)
	sCongestion := CongestionScore(b.CollisionRate)

	k := bs.weights.Motion*sMotion + bs.weights.Density*sDensity +
		bs.weights.Contact*sContact + bs.weights.Congestion*(1.0-sCongestion)

	// k is only bounded to [0,1] when the configured weights are, so
	// the clamp is mandatory rather than decorative
	interval := bs.bounds.Min + (1.0-k)*(bs.bounds.Max-bs.bounds.Min)
	interval = clampFloat(interval, bs.bounds.Min, bs.bounds.Max)

	nextDue := now + interval
	b.NextDue = nextDue

	bs.state = schedIdle
	return interval, nextDue
}
