package bnets

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestSimCfgDefaultsValidate(t *testing.T) {
	cfg := CreateSimCfg("defaults")
	if err := cfg.Validate(); err != nil {
		t.Errorf("default configuration rejected: %v", err)
	}
}

func TestSimCfgValidationCatchesFatalErrors(t *testing.T) {
	cases := []struct {
		name    string
		mangle  func(*SimCfg)
		keyword string
	}{
		{"inverted bounds", func(c *SimCfg) { c.MinInterval = 5.0; c.MaxInterval = 2.0 }, "exceeds"},
		{"nonpositive bound", func(c *SimCfg) { c.MinInterval = 0.0 }, "positive"},
		{"negative weight", func(c *SimCfg) { c.DensityWeight = -0.1 }, "negative"},
		{"unknown shape", func(c *SimCfg) { c.ScoreShape = "cubic" }, "score shape"},
		{"unknown mode", func(c *SimCfg) { c.ChannelMode = "heroic" }, "channel mode"},
		{"bad probability", func(c *SimCfg) { c.DeliveryProbHigh = 1.2 }, "outside [0,1]"},
		{"zero window", func(c *SimCfg) { c.CollisionWindow = 0.0 }, "collision window"},
		{"wide window", func(c *SimCfg) { c.CollisionWindow = 2.0 }, "smaller than min interval"},
		{"zero reference velocity", func(c *SimCfg) { c.ReferenceVelocity = 0.0 }, "reference velocity"},
	}

	for _, tc := range cases {
		cfg := CreateSimCfg("broken")
		tc.mangle(cfg)
		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: validation passed", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.keyword) {
			t.Errorf("%s: error %q does not mention %q", tc.name, err.Error(), tc.keyword)
		}
	}
}

// one broken configuration with several problems reports all of them
// in a single aggregated error
func TestValidationAggregatesErrors(t *testing.T) {
	cfg := CreateSimCfg("multi")
	cfg.MotionWeight = -1.0
	cfg.ScoreShape = "cubic"

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("validation passed")
	}
	if !strings.Contains(err.Error(), "negative") || !strings.Contains(err.Error(), "score shape") {
		t.Errorf("aggregated error %q missing a constituent", err.Error())
	}
}

func TestSimCfgRoundTrip(t *testing.T) {
	cfg := CreateSimCfg("roundtrip")
	cfg.MaxInterval = 17.0
	cfg.ScoreShape = "tanh"

	for _, ext := range []string{".yaml", ".json"} {
		filename := filepath.Join(t.TempDir(), "sim"+ext)
		if err := cfg.WriteToFile(filename); err != nil {
			t.Fatalf("%s: WriteToFile: %v", ext, err)
		}

		useYAML := ext == ".yaml"
		back, err := ReadSimCfg(filename, useYAML, []byte{})
		if err != nil {
			t.Fatalf("%s: ReadSimCfg: %v", ext, err)
		}
		if back.MaxInterval != 17.0 || back.ScoreShape != "tanh" || back.Name != "roundtrip" {
			t.Errorf("%s: round trip mangled configuration: %+v", ext, back)
		}
	}
}

func TestBuoyCfgValidate(t *testing.T) {
	layout := CreateBuoyCfg("dup")
	layout.AddBuoy("alpha", 0.0, 0.0, 0.0, 0.0)
	layout.AddBuoy("alpha", 1.0, 1.0, 0.0, 0.0)

	if err := layout.Validate(); err == nil || !strings.Contains(err.Error(), "over-used") {
		t.Errorf("duplicate buoy name not flagged: %v", err)
	}

	layout = CreateBuoyCfg("anon")
	layout.AddBuoy("", 0.0, 0.0, 0.0, 0.0)
	if err := layout.Validate(); err == nil {
		t.Errorf("empty buoy name not flagged")
	}
}

func TestBuoyCfgRoundTrip(t *testing.T) {
	layout := CreateBuoyCfg("layout")
	layout.AddBuoy("alpha", 1.0, 2.0, 0.1, -0.2)
	layout.AddBuoy("bravo", 3.0, 4.0, 0.0, 0.0)

	filename := filepath.Join(t.TempDir(), "buoys.yml")
	if err := layout.WriteToFile(filename); err != nil {
		t.Fatalf("WriteToFile: %v", err)
	}

	back, err := ReadBuoyCfg(filename, true, []byte{})
	if err != nil {
		t.Fatalf("ReadBuoyCfg: %v", err)
	}
	if len(back.Buoys) != 2 || back.Buoys[1].Name != "bravo" || back.Buoys[0].VY != -0.2 {
		t.Errorf("round trip mangled layout: %+v", back)
	}
}

func TestSerializeByExtRejectsUnknown(t *testing.T) {
	cfg := CreateSimCfg("ext")
	if err := cfg.WriteToFile(filepath.Join(t.TempDir(), "sim.toml")); err == nil {
		t.Errorf("unknown extension accepted")
	}
}
