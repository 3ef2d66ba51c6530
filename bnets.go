// Package bnets implements a discrete-event simulator for an ad-hoc
// mesh of mobile surface buoys that maintain connectivity through
// periodic beacon broadcasts.  Each buoy adapts its beacon interval to
// locally observed motion, neighbor density, contact staleness, and
// channel congestion; a channel model resolves which in-range buoys
// actually receive each beacon, under an idealized lossless channel or
// a realistic one with probabilistic loss and collision semantics.
// The delivery ratio over a run is the simulator's primary metric
package bnets

// bnets.go has code that assembles a simulation run from input files

import (
	"path"
)

// BuildExperiment is called from the module that creates and runs a
// simulation.  Its input binds pre-defined keys ("sim", "buoys") to
// the names of the configuration files, which it reads to assemble an
// initialized run.  An unusable configuration is fatal here, before
// any event executes
func BuildExperiment(syn map[string]string, traceMgr *TraceManager) *BuoyNet {
	cfg, layout := GetExperimentCfgs(syn)

	if (cfg == nil) || (layout == nil) {
		panic("empty configuration")
	}

	bn, err := CreateBuoyNet(cfg, layout, traceMgr)
	if err != nil {
		panic(err)
	}
	return bn
}

// GetExperimentCfgs accepts a map that holds the names of the input
// files used for an experiment, creates internal representations of
// the information they hold, and returns those structs
func GetExperimentCfgs(syn map[string]string) (*SimCfg, *BuoyCfg) {
	var cfg *SimCfg
	var layout *BuoyCfg

	var empty []byte = make([]byte, 0)

	var errs []error
	var err error

	var useYAML bool

	ext := path.Ext(syn["sim"])
	useYAML = (ext == ".yaml") || (ext == ".yml")

	cfg, err = ReadSimCfg(syn["sim"], useYAML, empty)
	errs = append(errs, err)

	ext = path.Ext(syn["buoys"])
	useYAML = (ext == ".yaml") || (ext == ".yml")

	layout, err = ReadBuoyCfg(syn["buoys"], useYAML, empty)
	errs = append(errs, err)

	err = ReportErrs(errs)
	if err != nil {
		panic(err)
	}

	return cfg, layout
}
