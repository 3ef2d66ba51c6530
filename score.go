package bnets

// score.go holds the pure response-curve functions that map raw
// observations (speed, neighbor count, elapsed contact time, collision
// rate) into normalized scores in [0,1].  These are stateless; all the
// state they read is passed in as arguments

import (
	"fmt"
	"math"
)

// ScoreShape selects the response curve applied to a raw observation
type ScoreShape int

const (
	Sigmoid ScoreShape = iota
	Tanh
	Linear
)

var ssToStr map[ScoreShape]string = map[ScoreShape]string{Sigmoid: "sigmoid", Tanh: "tanh", Linear: "linear"}

func (ss ScoreShape) String() string {
	return ssToStr[ss]
}

// ScoreShapeFromStr maps the string form used in configuration files to
// the ScoreShape code, flagging unrecognized names as an error
func ScoreShapeFromStr(name string) (ScoreShape, error) {
	switch name {
	case "sigmoid", "Sigmoid":
		return Sigmoid, nil
	case "tanh", "Tanh":
		return Tanh, nil
	case "linear", "Linear":
		return Linear, nil
	}
	return Sigmoid, fmt.Errorf("unrecognized score shape %s", name)
}

// maxExpArg bounds the argument given to math.Exp and math.Tanh.
// Both curves are saturated flat at this magnitude, so clamping
// changes no observable value while keeping the exponential finite
const maxExpArg float64 = 60.0

// clampFloat returns v limited to the interval [lo, hi]
func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// Score maps observation x through the selected response curve.
// The sigmoid and tanh shapes center at midpoint with steepness alpha.
// The linear shape uses midpoint as a scale divisor only and ignores
// alpha; that asymmetry is carried over from the reference scheduler
// and is intentional
func Score(x, midpoint, alpha float64, shape ScoreShape) float64 {
	switch shape {
	case Sigmoid:
		arg := clampFloat(alpha*(x-midpoint), -maxExpArg, maxExpArg)
		return 1.0 / (1.0 + math.Exp(-arg))
	case Tanh:
		arg := clampFloat(alpha*(x-midpoint), -maxExpArg, maxExpArg)
		return 0.5 * (1.0 + math.Tanh(arg))
	case Linear:
		return clampFloat(x/midpoint, 0.0, 1.0)
	}
	panic(fmt.Errorf("surprise score shape %d", shape))
}

// MotionScore normalizes a buoy's speed against the reference velocity,
// saturating at 1.0
func MotionScore(speed, refVelocity float64) float64 {
	return math.Min(speed/refVelocity, 1.0)
}

// CongestionScore normalizes the locally estimated collision rate,
// saturating at 1.0
func CongestionScore(collisionRate float64) float64 {
	return math.Min(collisionRate, 1.0)
}
