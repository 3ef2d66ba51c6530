package bnets

// sweep.go holds the parameter sweep runner behind the delivery-ratio
// versus buoy-count study.  Every (count, replication) pair is an
// independent simulation run with its own event loop, heap, counters,
// and random streams, so replications execute concurrently with no
// shared mutable state and no locking

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/iti/rngstream"
	"gonum.org/v1/gonum/stat"
)

// SweepResult aggregates the replications of one sweep point
type SweepResult struct {
	NumBuoys          int     `json:"numbuoys" yaml:"numbuoys"`
	Replications      int     `json:"replications" yaml:"replications"`
	Defined           int     `json:"defined" yaml:"defined"`
	MeanRatio         float64 `json:"meanratio" yaml:"meanratio"`
	StdDevRatio       float64 `json:"stddevratio" yaml:"stddevratio"`
	MeanCollisionRate float64 `json:"meancollisionrate" yaml:"meancollisionrate"`
}

// randomLayout scatters numBuoys buoys uniformly over the configured
// operating area, each drifting in a random direction at up to the
// reference velocity
func randomLayout(name string, numBuoys int, cfg *SimCfg, rng *rngstream.RngStream) *BuoyCfg {
	layout := CreateBuoyCfg(name)
	for idx := 0; idx < numBuoys; idx++ {
		x := rng.RandU01() * cfg.AreaWidth
		y := rng.RandU01() * cfg.AreaHeight
		vx := (2.0*rng.RandU01() - 1.0) * cfg.ReferenceVelocity
		vy := (2.0*rng.RandU01() - 1.0) * cfg.ReferenceVelocity
		layout.AddBuoy(fmt.Sprintf("%s-buoy-%d", name, idx), x, y, vx, vy)
	}
	return layout
}

// RunSweep executes the study: for every buoy count, 'reps'
// independent replications are run concurrently and their delivery
// ratios aggregated.  Replications whose ratio is undefined (no beacon
// ever had a receiver in range) are excluded from the mean rather than
// counted as zero
func RunSweep(cfg *SimCfg, counts []int, reps int) ([]SweepResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if reps < 1 {
		return nil, fmt.Errorf("sweep needs at least one replication, got %d", reps)
	}

	results := make([]SweepResult, 0, len(counts))

	for _, numBuoys := range counts {
		summaries := make([]MetricsSummary, reps)

		// random stream creation draws on package-level seed state, so
		// every run is assembled sequentially here; only the runs
		// themselves execute concurrently
		nets := make([]*BuoyNet, reps)
		for rep := 0; rep < reps; rep++ {
			name := fmt.Sprintf("%s-n%d-r%d", cfg.Name, numBuoys, rep)
			rng := rngstream.New(name)
			layout := randomLayout(name, numBuoys, cfg, rng)

			bn, err := CreateBuoyNet(cfg, layout, CreateTraceManager(name, false))
			if err != nil {
				return nil, err
			}
			nets[rep] = bn
		}

		var wg sync.WaitGroup
		for rep := 0; rep < reps; rep++ {
			wg.Add(1)
			go func(rep int) {
				defer wg.Done()
				summaries[rep] = nets[rep].Run()
			}(rep)
		}
		wg.Wait()

		ratios := []float64{}
		collisionRates := []float64{}
		for _, ms := range summaries {
			if ms.RatioDefined {
				ratios = append(ratios, ms.DeliveryRatio)
			}
			collisionRates = append(collisionRates, ms.CollisionRate)
		}

		sr := SweepResult{NumBuoys: numBuoys, Replications: reps, Defined: len(ratios)}
		if len(ratios) > 0 {
			sr.MeanRatio = stat.Mean(ratios, nil)
		}
		if len(ratios) > 1 {
			sr.StdDevRatio = stat.StdDev(ratios, nil)
		}
		if len(collisionRates) > 0 {
			sr.MeanCollisionRate = stat.Mean(collisionRates, nil)
		}
		results = append(results, sr)
	}
	return results, nil
}

// WriteSweepCSV stores sweep results as a table for the plotting
// scripts that live outside this module
func WriteSweepCSV(results []SweepResult, filename string) error {
	f, cerr := os.Create(filename)
	if cerr != nil {
		return cerr
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"NumBuoys", "Replications", "Defined", "MeanRatio", "StdDevRatio", "MeanCollisionRate"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, sr := range results {
		row := []string{
			strconv.Itoa(sr.NumBuoys),
			strconv.Itoa(sr.Replications),
			strconv.Itoa(sr.Defined),
			strconv.FormatFloat(sr.MeanRatio, 'f', -1, 64),
			strconv.FormatFloat(sr.StdDevRatio, 'f', -1, 64),
			strconv.FormatFloat(sr.MeanCollisionRate, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
