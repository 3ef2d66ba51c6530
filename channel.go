package bnets

// channel.go holds the channel/delivery model.  Given the batch of
// beacon transmissions that share one collision window, it resolves
// which in-range receivers actually get each beacon, under either an
// idealized lossless channel or a realistic channel with probabilistic
// per-link loss and receiver-scoped collision semantics

import (
	"fmt"

	"github.com/iti/rngstream"
)

// ChannelMode selects between the best-case baseline channel and the
// lossy one.  Fixed for the lifetime of a simulation run
type ChannelMode int

const (
	Ideal ChannelMode = iota
	Realistic
)

var cmToStr map[ChannelMode]string = map[ChannelMode]string{Ideal: "ideal", Realistic: "realistic"}

func (cm ChannelMode) String() string {
	return cmToStr[cm]
}

// ChannelModeFromStr maps the string form used in configuration files
// to the ChannelMode code, flagging unrecognized names as an error
func ChannelModeFromStr(name string) (ChannelMode, error) {
	switch name {
	case "ideal", "Ideal":
		return Ideal, nil
	case "realistic", "Realistic":
		return Realistic, nil
	}
	return Ideal, fmt.Errorf("unrecognized channel mode %s", name)
}

// LossModel is the collaborator interface the realistic channel draws
// per-link loss probabilities from.  Implementations must return a
// value in [0,1]; anything else is a configuration error
type LossModel interface {
	LossProbability(sender, receiver int, now float64) float64
}

// A BeaconEvent describes one beacon transmission: who sent it, when,
// and which buoys were in communication range at send time.  It is
// immutable once created and discarded after resolution; only its
// aggregate effect on the delivery counters persists
type BeaconEvent struct {
	Sender    int
	Time      float64
	Receivers []int
}

// Outcome reports the per-receiver fate of one resolved BeaconEvent
type Outcome struct {
	Delivered []int // receivers that got the beacon
	Collided  []int // receivers where simultaneous arrivals destroyed it
	Dropped   []int // receivers that lost it to the per-link probability draw
}

// Channel resolves beacon deliveries for one simulation run
type Channel struct {
	mode ChannelMode
	loss LossModel
}

// CreateChannel is a constructor.  The loss model may be nil in ideal
// mode, where it is never consulted
func CreateChannel(mode ChannelMode, loss LossModel) *Channel {
	ch := new(Channel)
	ch.mode = mode
	ch.loss = loss
	return ch
}

// Mode reports the channel mode the run was configured with
func (ch *Channel) Mode() ChannelMode {
	return ch.mode
}

// Resolve decides the fate of every reception in a batch of beacons
// transmitted within the same collision window.  The returned slice of
// outcomes parallels the batch.
//
// In ideal mode every in-range receiver succeeds; contention is defined
// away, so no collision logic applies.  In realistic mode a reception
// at a receiver where two or more of the batch's beacons arrive is
// destroyed outright (collision overrides the per-link draw), and a
// sole arrival survives a Bernoulli draw against the loss model.
// Collisions are scoped per receiver: the same beacon can succeed at
// one receiver and collide at another.
//
// The rngFor argument supplies the random stream charged for a given
// sender's transmissions, keeping draws reproducible per buoy
func (ch *Channel) Resolve(batch []*BeaconEvent, rngFor func(int) *rngstream.RngStream) []Outcome {
	outcomes := make([]Outcome, len(batch))

	// count the beacons arriving at each receiver inside this window
	arrivals := make(map[int]int)
	if ch.mode == Realistic {
		for _, ev := range batch {
			for _, rcvr := range ev.Receivers {
				arrivals[rcvr] += 1
			}
		}
	}

	for idx, ev := range batch {
		out := Outcome{Delivered: []int{}, Collided: []int{}, Dropped: []int{}}

		for _, rcvr := range ev.Receivers {
			if ch.mode == Ideal {
				out.Delivered = append(out.Delivered, rcvr)
				continue
			}

			if arrivals[rcvr] > 1 {
				out.Collided = append(out.Collided, rcvr)
				continue
			}

			prLoss := ch.loss.LossProbability(ev.Sender, rcvr, ev.Time)
			if prLoss < 0.0 || prLoss > 1.0 {
				panic(fmt.Errorf("loss model returned probability %f outside [0,1]", prLoss))
			}

			if rngFor(ev.Sender).RandU01() < prLoss {
				out.Dropped = append(out.Dropped, rcvr)
				continue
			}
			out.Delivered = append(out.Delivered, rcvr)
		}
		outcomes[idx] = out
	}
	return outcomes
}
