package bnets

import (
	"math"
	"testing"
)

// scores from the sigmoid and tanh curves must stay in [0,1] even for
// observations far outside the curve's active region, with no overflow
// from the exponential
func TestScoreBounded(t *testing.T) {
	inputs := []float64{-1e12, -1e6, -100.0, 0.0, 5.0, 100.0, 1e6, 1e12}
	alphas := []float64{0.01, 0.5, 1.0, 50.0}

	for _, shape := range []ScoreShape{Sigmoid, Tanh} {
		for _, alpha := range alphas {
			for _, x := range inputs {
				s := Score(x, 5.0, alpha, shape)
				if math.IsNaN(s) || math.IsInf(s, 0) {
					t.Fatalf("shape %s alpha %f x %g: score %f not finite", shape, alpha, x, s)
				}
				if s < 0.0 || s > 1.0 {
					t.Fatalf("shape %s alpha %f x %g: score %f outside [0,1]", shape, alpha, x, s)
				}
			}
		}
	}
}

func TestScoreSigmoidMidpoint(t *testing.T) {
	s := Score(5.0, 5.0, 2.0, Sigmoid)
	if math.Abs(s-0.5) > 1e-12 {
		t.Errorf("sigmoid at midpoint: got %f, want 0.5", s)
	}

	s = Score(5.0, 5.0, 2.0, Tanh)
	if math.Abs(s-0.5) > 1e-12 {
		t.Errorf("tanh at midpoint: got %f, want 0.5", s)
	}
}

// the linear shape is clamp(x/m, 0, 1) exactly, and unlike the other
// shapes it ignores alpha entirely.  That asymmetry is carried over
// from the reference scheduler on purpose; this test pins it down so
// nobody "fixes" it casually
func TestScoreLinearIgnoresAlpha(t *testing.T) {
	cases := []struct {
		x, m float64
		want float64
	}{
		{0.0, 10.0, 0.0},
		{5.0, 10.0, 0.5},
		{10.0, 10.0, 1.0},
		{25.0, 10.0, 1.0},
		{-3.0, 10.0, 0.0},
	}

	for _, c := range cases {
		for _, alpha := range []float64{0.0, 0.1, 1.0, 100.0} {
			got := Score(c.x, c.m, alpha, Linear)
			if got != c.want {
				t.Errorf("linear score(%f, m=%f, alpha=%f): got %f, want %f",
					c.x, c.m, alpha, got, c.want)
			}
		}
	}
}

func TestMotionScoreMonotoneAndSaturating(t *testing.T) {
	refVel := 1.5
	prev := -1.0
	for _, speed := range []float64{0.0, 0.3, 0.75, 1.5, 3.0, 100.0} {
		s := MotionScore(speed, refVel)
		if s < prev {
			t.Fatalf("motion score decreased at speed %f: %f < %f", speed, s, prev)
		}
		prev = s
	}
	if MotionScore(1.5, refVel) != 1.0 || MotionScore(50.0, refVel) != 1.0 {
		t.Errorf("motion score does not saturate at 1.0 beyond reference velocity")
	}
}

func TestCongestionScoreMonotoneAndSaturating(t *testing.T) {
	prev := -1.0
	for _, rate := range []float64{0.0, 0.2, 0.5, 1.0, 2.5} {
		s := CongestionScore(rate)
		if s < prev {
			t.Fatalf("congestion score decreased at rate %f: %f < %f", rate, s, prev)
		}
		prev = s
	}
	if CongestionScore(2.5) != 1.0 {
		t.Errorf("congestion score does not saturate at 1.0")
	}
}

func TestScoreShapeFromStr(t *testing.T) {
	for name, want := range map[string]ScoreShape{"sigmoid": Sigmoid, "tanh": Tanh, "linear": Linear} {
		got, err := ScoreShapeFromStr(name)
		if err != nil || got != want {
			t.Errorf("ScoreShapeFromStr(%s): got (%v, %v), want (%v, nil)", name, got, err, want)
		}
	}

	if _, err := ScoreShapeFromStr("quadratic"); err == nil {
		t.Errorf("unknown score shape accepted")
	}
}
