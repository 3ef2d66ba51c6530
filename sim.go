package bnets

// sim.go holds the discrete-event driver of a simulation run.  Pending
// beacon transmissions live in a min-heap keyed by (due tick, buoy id);
// all entries that share the earliest due tick form one transmission
// batch, which is exactly the set of beacons that can collide with each
// other at a common receiver.  Event dispatch, the virtual clock, and
// the horizon ride on the evtm event manager

import (
	"container/heap"
	"math"

	"github.com/iti/evt/evtm"
	"github.com/iti/evt/vrtime"
	"github.com/iti/rngstream"
)

// beaconEntry is one buoy's position in the pending-transmission heap
type beaconEntry struct {
	dueTicks int64 // due time quantized to collision windows
	buoyID   int
}

// beaconHeap and its methods implement a min-priority heap on due
// ticks, with ties broken by buoy id so that processing order is
// deterministic
type beaconHeap []beaconEntry

func (h beaconHeap) Len() int { return len(h) }
func (h beaconHeap) Less(i, j int) bool {
	if h[i].dueTicks != h[j].dueTicks {
		return h[i].dueTicks < h[j].dueTicks
	}
	return h[i].buoyID < h[j].buoyID
}
func (h beaconHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *beaconHeap) Push(x any) {
	*h = append(*h, x.(beaconEntry))
}

func (h *beaconHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// BuoyNet drives one simulation run.  The heap, the buoy arena, and
// the counters are exclusively owned by the run; independent runs (as
// in a parameter sweep) share no mutable state
type BuoyNet struct {
	evtMgr     *evtm.EventManager
	buoys      []*Buoy
	buoyByName map[string]*Buoy
	scheds     []*BeaconScheduler
	chnl       *Channel
	mobility   Mobility
	discovery  NeighborDiscovery
	tracker    *DeliveryTracker
	traceMgr   *TraceManager

	window    float64 // collision window width, seconds
	horizon   float64
	timeout   float64 // neighbor table timeout
	smoothing float64 // collision-rate estimate smoothing

	now     float64
	pending beaconHeap
}

// CreateBuoyNet assembles a run from a validated configuration and
// buoy layout.  The built-in drift mobility, planar discovery, and
// banded loss collaborators are installed; external collaborators can
// replace them before Run through the Set methods
func CreateBuoyNet(cfg *SimCfg, layout *BuoyCfg, traceMgr *TraceManager) (*BuoyNet, error) {
	errList := []error{cfg.Validate(), layout.Validate()}
	if err := ReportErrs(errList); err != nil {
		return nil, err
	}

	shape, _ := ScoreShapeFromStr(cfg.ScoreShape)
	mode, _ := ChannelModeFromStr(cfg.ChannelMode)

	bn := new(BuoyNet)
	bn.evtMgr = evtm.New()
	bn.tracker = CreateDeliveryTracker()
	bn.traceMgr = traceMgr
	bn.window = cfg.CollisionWindow
	bn.horizon = cfg.Horizon
	bn.timeout = cfg.NeighborTimeout
	bn.smoothing = cfg.CongestionSmoothing
	bn.pending = make(beaconHeap, 0)
	heap.Init(&bn.pending)

	weights := ScoreWeights{Motion: cfg.MotionWeight, Density: cfg.DensityWeight,
		Contact: cfg.ContactWeight, Congestion: cfg.CongestionWeight}
	density := ScoreCurve{Midpoint: cfg.DensityMidpoint, Alpha: cfg.DensityAlpha}
	contact := ScoreCurve{Midpoint: cfg.ContactMidpoint, Alpha: cfg.ContactAlpha}
	bounds := IntervalBounds{Min: cfg.MinInterval, Max: cfg.MaxInterval}

	bn.buoys = make([]*Buoy, 0, len(layout.Buoys))
	bn.buoyByName = make(map[string]*Buoy)
	bn.scheds = make([]*BeaconScheduler, 0, len(layout.Buoys))

	for idx, bd := range layout.Buoys {
		b := createBuoy(idx, bd.Name, Position{X: bd.X, Y: bd.Y}, Velocity{X: bd.VX, Y: bd.VY})
		bn.buoys = append(bn.buoys, b)
		bn.buoyByName[bd.Name] = b
		bn.scheds = append(bn.scheds, CreateBeaconScheduler(weights, density, contact,
			bounds, cfg.ReferenceVelocity, shape))
		traceMgr.AddName(idx, bd.Name, "buoy")
	}

	bn.mobility = &DriftMobility{}
	bn.discovery = CreatePlanarDiscovery(bn.buoys, cfg.RangeMax)

	var loss LossModel
	if mode == Realistic {
		loss = CreateBandedLossModel(bn.buoys, cfg.RangeHighProb, cfg.RangeMax,
			cfg.DeliveryProbHigh, cfg.DeliveryProbLow)
	}
	bn.chnl = CreateChannel(mode, loss)

	// desynchronize first transmissions: each buoy's initial due time
	// is drawn from its own stream, uniform over one minimum interval
	for _, b := range bn.buoys {
		b.NextDue = b.rngstrm.RandU01() * cfg.MinInterval
		heap.Push(&bn.pending, beaconEntry{dueTicks: bn.ticksFor(b.NextDue), buoyID: b.ID})
	}

	return bn, nil
}

// SetMobility replaces the built-in mobility collaborator.  Call
// before Run
func (bn *BuoyNet) SetMobility(m Mobility) {
	bn.mobility = m
}

// SetNeighborDiscovery replaces the built-in range discovery
// collaborator.  Call before Run
func (bn *BuoyNet) SetNeighborDiscovery(nd NeighborDiscovery) {
	bn.discovery = nd
}

// SetLossModel replaces the loss model consulted in realistic mode.
// Call before Run
func (bn *BuoyNet) SetLossModel(lm LossModel) {
	bn.chnl = CreateChannel(bn.chnl.Mode(), lm)
}

// Tracker exposes the run's delivery counters for reporting
func (bn *BuoyNet) Tracker() *DeliveryTracker {
	return bn.tracker
}

// Buoys exposes the buoy arena, indexed by buoy id
func (bn *BuoyNet) Buoys() []*Buoy {
	return bn.buoys
}

// BuoyByName looks a buoy up by its layout name
func (bn *BuoyNet) BuoyByName(name string) (*Buoy, bool) {
	b, present := bn.buoyByName[name]
	return b, present
}

// ticksFor quantizes an absolute due time to collision windows.  Two
// transmissions that land in the same window are simultaneous for
// collision purposes
func (bn *BuoyNet) ticksFor(t float64) int64 {
	return int64(math.Round(t / bn.window))
}

// Run drives the event loop to the simulation horizon and returns the
// run's metrics summary
func (bn *BuoyNet) Run() MetricsSummary {
	bn.scheduleNextBatch()
	bn.evtMgr.Run(bn.horizon)
	return bn.tracker.Summary(bn.horizon)
}

// scheduleNextBatch places the dispatch of the earliest pending due
// tick on the event manager, unless the heap is exhausted or the next
// transmission falls past the horizon
func (bn *BuoyNet) scheduleNextBatch() {
	if len(bn.pending) == 0 {
		return
	}
	ticks := bn.pending[0].dueTicks
	due := float64(ticks) * bn.window
	if due > bn.horizon {
		return
	}
	bn.evtMgr.Schedule(bn, ticks, beaconBatch, vrtime.SecondsToTime(due-bn.now))
}

// beaconBatch is the event handler for one collision window's worth of
// transmissions.  It pops every pending entry sharing the due tick (in
// buoy id order), refreshes positions and neighbor state, resolves the
// batch through the channel, books the results, reschedules each
// sender, and schedules the next batch
func beaconBatch(evtMgr *evtm.EventManager, context any, data any) any {
	bn := context.(*BuoyNet)
	ticks := data.(int64)
	bn.now = float64(ticks) * bn.window

	// bring every buoy's position current; receivers may not have
	// transmitted (and so moved) for a while
	for _, b := range bn.buoys {
		pos, speed := bn.mobility.PositionAndSpeed(b, bn.now)
		b.Position = pos
		b.Speed = speed
	}

	// collect the batch of simultaneous transmissions
	batch := []*BeaconEvent{}
	senders := []*Buoy{}
	for len(bn.pending) > 0 && bn.pending[0].dueTicks == ticks {
		entry := heap.Pop(&bn.pending).(beaconEntry)
		b := bn.buoys[entry.buoyID]
		b.pruneNeighbors(bn.now, bn.timeout)

		ev := new(BeaconEvent)
		ev.Sender = b.ID
		ev.Time = bn.now
		ev.Receivers = bn.discovery.NeighborsInRange(b, bn.now)

		batch = append(batch, ev)
		senders = append(senders, b)
		AddBeaconTrace(bn.traceMgr, evtMgr.CurrentTime(), b.ID, -1, "send", bn.chnl.Mode())
	}

	outcomes := bn.chnl.Resolve(batch, func(id int) *rngstream.RngStream {
		return bn.buoys[id].rngstrm
	})

	for idx, ev := range batch {
		out := outcomes[idx]
		sender := senders[idx]

		bn.tracker.RecordEvent(len(ev.Receivers))
		bn.tracker.RecordSuccess(len(out.Delivered))
		bn.tracker.RecordCollision(len(out.Collided))
		bn.tracker.RecordDrop(len(out.Dropped))

		for _, rcvr := range out.Delivered {
			bn.buoys[rcvr].hearBeacon(ev.Sender, bn.now)
			AddBeaconTrace(bn.traceMgr, evtMgr.CurrentTime(), ev.Sender, rcvr, "deliver", bn.chnl.Mode())
		}
		for _, rcvr := range out.Collided {
			AddBeaconTrace(bn.traceMgr, evtMgr.CurrentTime(), ev.Sender, rcvr, "collide", bn.chnl.Mode())
		}
		for _, rcvr := range out.Dropped {
			AddBeaconTrace(bn.traceMgr, evtMgr.CurrentTime(), ev.Sender, rcvr, "drop", bn.chnl.Mode())
		}

		// fold this transmission's collided fraction into the sender's
		// local congestion estimate
		if len(ev.Receivers) > 0 {
			frac := float64(len(out.Collided)) / float64(len(ev.Receivers))
			sender.CollisionRate = bn.smoothing*frac + (1.0-bn.smoothing)*sender.CollisionRate
		}

		_, nextDue := bn.scheds[sender.ID].Recompute(sender, bn.now)
		nextTicks := bn.ticksFor(nextDue)
		if nextTicks <= ticks {
			nextTicks = ticks + 1
		}
		heap.Push(&bn.pending, beaconEntry{dueTicks: nextTicks, buoyID: sender.ID})
	}

	bn.scheduleNextBatch()
	return nil
}
