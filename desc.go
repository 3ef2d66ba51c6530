package bnets

// desc.go holds the serializable descriptions of a simulation
// experiment: the scheduler/channel parameterization (SimCfg) and the
// buoy layout (BuoyCfg).  The structs are pointer-free so that they
// serialize completely; run-time structures are built from them at
// experiment assembly.  Serialization to json or yaml is selected by
// the extension of the file name involved

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// SimCfg carries every tunable of a simulation run.  Weights and curve
// parameters drive the interval scheduler, the range and probability
// bands drive the built-in channel collaborators
type SimCfg struct {
	Name string `json:"name" yaml:"name"`

	// composite-urgency weights, each required to be non-negative
	MotionWeight     float64 `json:"motionweight" yaml:"motionweight"`
	DensityWeight    float64 `json:"densityweight" yaml:"densityweight"`
	ContactWeight    float64 `json:"contactweight" yaml:"contactweight"`
	CongestionWeight float64 `json:"congestionweight" yaml:"congestionweight"`

	// response-curve parameters for the density and contact scores
	DensityMidpoint float64 `json:"densitymidpoint" yaml:"densitymidpoint"`
	DensityAlpha    float64 `json:"densityalpha" yaml:"densityalpha"`
	ContactMidpoint float64 `json:"contactmidpoint" yaml:"contactmidpoint"`
	ContactAlpha    float64 `json:"contactalpha" yaml:"contactalpha"`

	// speed that saturates the motion score
	ReferenceVelocity float64 `json:"referencevelocity" yaml:"referencevelocity"`

	// beacon interval bounds, in seconds
	MinInterval float64 `json:"mininterval" yaml:"mininterval"`
	MaxInterval float64 `json:"maxinterval" yaml:"maxinterval"`

	// response curve shape: "sigmoid", "tanh", or "linear"
	ScoreShape string `json:"scoreshape" yaml:"scoreshape"`

	// channel mode: "ideal" or "realistic"
	ChannelMode string `json:"channelmode" yaml:"channelmode"`

	// width in seconds of the window within which beacon arrivals at a
	// common receiver destroy each other
	CollisionWindow float64 `json:"collisionwindow" yaml:"collisionwindow"`

	// seconds after which an unheard neighbor is forgotten
	NeighborTimeout float64 `json:"neighbortimeout" yaml:"neighbortimeout"`

	// communication range bands and their delivery probabilities
	RangeMax         float64 `json:"rangemax" yaml:"rangemax"`
	RangeHighProb    float64 `json:"rangehighprob" yaml:"rangehighprob"`
	DeliveryProbHigh float64 `json:"deliveryprobhigh" yaml:"deliveryprobhigh"`
	DeliveryProbLow  float64 `json:"deliveryproblow" yaml:"deliveryproblow"`

	// simulation horizon in seconds
	Horizon float64 `json:"horizon" yaml:"horizon"`

	// smoothing factor of the per-buoy collision-rate estimate
	CongestionSmoothing float64 `json:"congestionsmoothing" yaml:"congestionsmoothing"`

	// operating area used when buoy layouts are generated
	AreaWidth  float64 `json:"areawidth" yaml:"areawidth"`
	AreaHeight float64 `json:"areaheight" yaml:"areaheight"`
}

// CreateSimCfg returns a SimCfg populated with workable defaults,
// mirroring the reference parameterization of the buoy network study
func CreateSimCfg(name string) *SimCfg {
	cfg := new(SimCfg)
	cfg.Name = name
	cfg.MotionWeight = 0.3
	cfg.DensityWeight = 0.4
	cfg.ContactWeight = 0.3
	cfg.CongestionWeight = 0.2
	cfg.DensityMidpoint = 10.0
	cfg.DensityAlpha = 0.5
	cfg.ContactMidpoint = 20.0
	cfg.ContactAlpha = 0.25
	cfg.ReferenceVelocity = 1.5
	cfg.MinInterval = 1.0
	cfg.MaxInterval = 10.0
	cfg.ScoreShape = "sigmoid"
	cfg.ChannelMode = "realistic"
	cfg.CollisionWindow = 0.001
	cfg.NeighborTimeout = 10.0
	cfg.RangeMax = 100.0
	cfg.RangeHighProb = 60.0
	cfg.DeliveryProbHigh = 0.95
	cfg.DeliveryProbLow = 0.6
	cfg.Horizon = 300.0
	cfg.CongestionSmoothing = 0.3
	cfg.AreaWidth = 500.0
	cfg.AreaHeight = 500.0
	return cfg
}

// Validate checks the configuration invariants that are fatal at
// startup, gathering every violation into one aggregated error
func (cfg *SimCfg) Validate() error {
	errList := []error{}

	if cfg.MinInterval <= 0.0 || cfg.MaxInterval <= 0.0 {
		errList = append(errList, fmt.Errorf("interval bounds must be positive, got [%f,%f]",
			cfg.MinInterval, cfg.MaxInterval))
	}
	if cfg.MinInterval > cfg.MaxInterval {
		errList = append(errList, fmt.Errorf("min interval %f exceeds max interval %f",
			cfg.MinInterval, cfg.MaxInterval))
	}

	weights := map[string]float64{
		"motion": cfg.MotionWeight, "density": cfg.DensityWeight,
		"contact": cfg.ContactWeight, "congestion": cfg.CongestionWeight,
	}
	for name, w := range weights {
		if w < 0.0 {
			errList = append(errList, fmt.Errorf("negative %s weight %f", name, w))
		}
	}

	if _, err := ScoreShapeFromStr(cfg.ScoreShape); err != nil {
		errList = append(errList, err)
	}
	if _, err := ChannelModeFromStr(cfg.ChannelMode); err != nil {
		errList = append(errList, err)
	}

	if cfg.CollisionWindow <= 0.0 {
		errList = append(errList, fmt.Errorf("collision window must be positive, got %f", cfg.CollisionWindow))
	} else if cfg.CollisionWindow >= cfg.MinInterval && cfg.MinInterval > 0.0 {
		errList = append(errList, fmt.Errorf("collision window %f must be smaller than min interval %f",
			cfg.CollisionWindow, cfg.MinInterval))
	}

	for name, pr := range map[string]float64{"high-band": cfg.DeliveryProbHigh, "low-band": cfg.DeliveryProbLow} {
		if pr < 0.0 || pr > 1.0 {
			errList = append(errList, fmt.Errorf("%s delivery probability %f outside [0,1]", name, pr))
		}
	}

	if cfg.ReferenceVelocity <= 0.0 {
		errList = append(errList, fmt.Errorf("reference velocity must be positive, got %f", cfg.ReferenceVelocity))
	}
	if cfg.Horizon <= 0.0 {
		errList = append(errList, fmt.Errorf("horizon must be positive, got %f", cfg.Horizon))
	}
	if cfg.CongestionSmoothing < 0.0 || cfg.CongestionSmoothing > 1.0 {
		errList = append(errList, fmt.Errorf("congestion smoothing %f outside [0,1]", cfg.CongestionSmoothing))
	}

	return ReportErrs(errList)
}

// WriteToFile stores the SimCfg struct to the file whose name is given.
// Serialization to json or to yaml is selected based on the extension
// of this name
func (cfg *SimCfg) WriteToFile(filename string) error {
	bytes, merr := serializeByExt(filename, *cfg)
	if merr != nil {
		return merr
	}
	return os.WriteFile(filename, bytes, 0644)
}

// ReadSimCfg deserializes a byte slice holding a representation of a
// SimCfg struct.  If the input dict is empty the named file is read to
// acquire the bytes
func ReadSimCfg(filename string, useYAML bool, dict []byte) (*SimCfg, error) {
	var err error

	if len(dict) == 0 {
		dict, err = os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
	}

	example := SimCfg{}

	if useYAML {
		err = yaml.Unmarshal(dict, &example)
	} else {
		err = json.Unmarshal(dict, &example)
	}

	if err != nil {
		return nil, err
	}

	return &example, nil
}

// BuoyDesc is the serializable description of one buoy: where it
// starts and how it drifts
type BuoyDesc struct {
	Name string  `json:"name" yaml:"name"`
	X    float64 `json:"x" yaml:"x"`
	Y    float64 `json:"y" yaml:"y"`
	VX   float64 `json:"vx" yaml:"vx"`
	VY   float64 `json:"vy" yaml:"vy"`
}

// BuoyCfg is the serializable layout of the whole mesh
type BuoyCfg struct {
	Name  string     `json:"name" yaml:"name"`
	Buoys []BuoyDesc `json:"buoys" yaml:"buoys"`
}

// CreateBuoyCfg is an initialization constructor
func CreateBuoyCfg(name string) *BuoyCfg {
	bc := new(BuoyCfg)
	bc.Name = name
	bc.Buoys = make([]BuoyDesc, 0)
	return bc
}

// AddBuoy appends the description of one buoy to the layout
func (bc *BuoyCfg) AddBuoy(name string, x, y, vx, vy float64) {
	bc.Buoys = append(bc.Buoys, BuoyDesc{Name: name, X: x, Y: y, VX: vx, VY: vy})
}

// Validate checks that the layout names are usable and unique
func (bc *BuoyCfg) Validate() error {
	errList := []error{}
	seen := make(map[string]bool)

	for _, bd := range bc.Buoys {
		if len(bd.Name) == 0 {
			errList = append(errList, errors.New("buoy with empty name"))
			continue
		}
		if seen[bd.Name] {
			errList = append(errList, fmt.Errorf("buoy name %s over-used in layout", bd.Name))
		}
		seen[bd.Name] = true
	}
	return ReportErrs(errList)
}

// WriteToFile stores the BuoyCfg struct to the file whose name is
// given, with the codec selected by the file extension
func (bc *BuoyCfg) WriteToFile(filename string) error {
	bytes, merr := serializeByExt(filename, *bc)
	if merr != nil {
		return merr
	}
	return os.WriteFile(filename, bytes, 0644)
}

// ReadBuoyCfg deserializes a byte slice holding a representation of a
// BuoyCfg struct, reading the named file if the slice is empty
func ReadBuoyCfg(filename string, useYAML bool, dict []byte) (*BuoyCfg, error) {
	var err error

	if len(dict) == 0 {
		dict, err = os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
	}

	example := BuoyCfg{}

	if useYAML {
		err = yaml.Unmarshal(dict, &example)
	} else {
		err = json.Unmarshal(dict, &example)
	}

	if err != nil {
		return nil, err
	}

	return &example, nil
}

// serializeByExt marshals v as yaml or as indented json depending on
// the extension of filename
func serializeByExt(filename string, v any) ([]byte, error) {
	pathExt := path.Ext(filename)

	if pathExt == ".yaml" || pathExt == ".YAML" || pathExt == ".yml" {
		return yaml.Marshal(v)
	} else if pathExt == ".json" || pathExt == ".JSON" {
		return json.MarshalIndent(v, "", "\t")
	}
	return nil, fmt.Errorf("unrecognized serialization extension %s", pathExt)
}

// ReportErrs transforms a list of errors into a single error with a
// comma-separated report of all the constituent errors, and returns it
func ReportErrs(errs []error) error {
	errMsg := make([]string, 0)
	for _, err := range errs {
		if err != nil {
			errMsg = append(errMsg, err.Error())
		}
	}
	if len(errMsg) == 0 {
		return nil
	}
	return errors.New(strings.Join(errMsg, ","))
}
