// Package sweep drives the perturbation grid: every mode, amplitude, and rate
// against every model, one integration per combination.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/san-kum/primal/internal/config"
	"github.com/san-kum/primal/internal/dynamo"
	"github.com/san-kum/primal/internal/experiment"
	"github.com/san-kum/primal/internal/primal"
	"github.com/san-kum/primal/internal/sim"
)

// MassErrSuffix marks the extra diagnostic row a conserved model emits: the
// worst absolute deviation of its invariant seen during the run.
const MassErrSuffix = "_mass_err"

// Row is one line of the result sink: the terminal state of one run. Rows
// appear in sweep iteration order (mode, then alpha, then lambda, with the
// model innermost).
type Row struct {
	Model     string
	Mode      primal.Mode
	Alpha     float64
	Lambda    float64
	Values    dynamo.State
	NonFinite bool
}

type Driver struct {
	reg     *experiment.Registry
	log     *slog.Logger
	workers int
}

func NewDriver(reg *experiment.Registry, log *slog.Logger, workers int) *Driver {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Driver{reg: reg, log: log, workers: workers}
}

type job struct {
	idx    int
	mode   primal.Mode
	alpha  float64
	lambda float64
	model  config.ModelConfig
}

// Run executes the full grid. Runs are independent and dispatched to workers;
// each worker writes into its own slot of a preallocated slice, so the
// returned rows follow grid order no matter how the scheduler interleaves.
func (d *Driver) Run(ctx context.Context, cfg *config.Config) ([]Row, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	modes, err := cfg.ParsedModes()
	if err != nil {
		return nil, err
	}

	jobs := make([]job, 0, len(modes)*len(cfg.Alphas)*len(cfg.Lambdas)*len(cfg.Models))
	for _, mode := range modes {
		for _, alpha := range cfg.Alphas {
			for _, lambda := range cfg.Lambdas {
				for _, model := range cfg.Models {
					jobs = append(jobs, job{
						idx:    len(jobs),
						mode:   mode,
						alpha:  alpha,
						lambda: lambda,
						model:  model,
					})
				}
			}
		}
	}

	d.log.Info("starting sweep",
		"runs", len(jobs),
		"modes", len(modes),
		"workers", d.workers)

	results := make([][]Row, len(jobs))
	errs := make([]error, len(jobs))

	ch := make(chan job)
	var wg sync.WaitGroup
	for w := 0; w < d.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range ch {
				results[j.idx], errs[j.idx] = d.runOne(ctx, j)
			}
		}()
	}
	for _, j := range jobs {
		ch <- j
	}
	close(ch)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	rows := make([]Row, 0, len(jobs))
	for _, rs := range results {
		rows = append(rows, rs...)
	}

	d.log.Info("sweep complete", "runs", len(jobs), "rows", len(rows))
	return rows, nil
}

func (d *Driver) runOne(ctx context.Context, j job) ([]Row, error) {
	pert := primal.Config{Mode: j.mode, Alpha: j.alpha, Lambda: j.lambda}

	sys, err := d.reg.Model(j.model.Name, pert)
	if err != nil {
		return nil, err
	}
	if err := d.reg.ApplyParams(sys, j.model.Params); err != nil {
		return nil, fmt.Errorf("model %s: %w", j.model.Name, err)
	}

	runner := sim.New(sys, d.reg.StepperForMode(pert))

	conserved, hasInvariant := sys.(dynamo.Conserved)
	massErr := 0.0
	track := func(x dynamo.State, t float64) bool {
		if hasInvariant && x.IsValid() {
			if e := math.Abs(conserved.Invariant(x) - conserved.InvariantTarget()); e > massErr {
				massErr = e
			}
		}
		return true
	}

	simCfg := dynamo.Config{Dt: j.model.Dt, Steps: j.model.Steps, ValidateState: true}
	final, err := runner.RunWithCallback(ctx, dynamo.State(j.model.Init), simCfg, track)

	nonFinite := false
	if err != nil {
		if !errors.Is(err, dynamo.ErrInvalidState) {
			return nil, fmt.Errorf("%s/%s alpha=%g lambda=%g: %w",
				j.model.Name, j.mode, j.alpha, j.lambda, err)
		}
		// Numerical blow-up is an observable result, not a sweep failure.
		nonFinite = true
		d.log.Warn("run went non-finite",
			"model", j.model.Name,
			"mode", string(j.mode),
			"alpha", j.alpha,
			"lambda", j.lambda)
	}

	rows := []Row{{
		Model:     j.model.Name,
		Mode:      j.mode,
		Alpha:     j.alpha,
		Lambda:    j.lambda,
		Values:    final.Clone(),
		NonFinite: nonFinite,
	}}

	if hasInvariant {
		rows = append(rows, Row{
			Model:  j.model.Name + MassErrSuffix,
			Mode:   j.mode,
			Alpha:  j.alpha,
			Lambda: j.lambda,
			Values: dynamo.State{massErr},
		})
	}

	return rows, nil
}
