package sim

import (
	"context"
	"math"

	"github.com/san-kum/primal/internal/dynamo"
)

// Simulator advances one system with one stepper. Each run owns a private
// copy of its initial state; nothing is shared between runs.
type Simulator struct {
	sys     dynamo.System
	stepper dynamo.Stepper
}

func New(sys dynamo.System, stepper dynamo.Stepper) *Simulator {
	return &Simulator{sys: sys, stepper: stepper}
}

// Run integrates cfg.Steps fixed steps from x0 and captures the full
// trajectory. Steps == 0 returns x0 unchanged. When the stepper warps time,
// the clock advances by the warped increment so Times reflects simulated
// time actually elapsed.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, cfg dynamo.Config) (*dynamo.Result, error) {
	if cfg.Steps < 0 {
		return nil, dynamo.ErrStepsNegative
	}
	if len(x0) != s.sys.StateDim() {
		return nil, dynamo.ErrDimensionMismatch
	}

	result := &dynamo.Result{
		States: make([]dynamo.State, 0, cfg.Steps+1),
		Times:  make([]float64, 0, cfg.Steps+1),
	}

	x := x0.Clone()
	t := 0.0

	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)

	tw, warped := s.stepper.(dynamo.TimeWarper)

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		dtEff := cfg.Dt
		if warped {
			dtEff *= tw.WarpFactor(t)
		}

		x = s.stepper.Step(s.sys, x, t, cfg.Dt)
		t += dtEff
		result.StepsTaken++

		result.States = append(result.States, x.Clone())
		result.Times = append(result.Times, t)

		if cfg.ValidateState && !x.IsValid() {
			result.NonFinite = true
			break
		}
	}

	result.Final = x.Clone()
	if c, ok := s.sys.(dynamo.Conserved); ok {
		result.InvariantErr = math.Abs(c.Invariant(x) - c.InvariantTarget())
	}

	return result, nil
}

// RunWithCallback integrates without retaining the trajectory; fn is invoked
// with every visited state (including x0 and the final state) and may return
// false to stop early. A non-finite state aborts with a RunError wrapping
// ErrInvalidState; the state reached so far is still returned.
func (s *Simulator) RunWithCallback(ctx context.Context, x0 dynamo.State, cfg dynamo.Config, fn func(x dynamo.State, t float64) bool) (dynamo.State, error) {
	if cfg.Steps < 0 {
		return nil, dynamo.ErrStepsNegative
	}
	if len(x0) != s.sys.StateDim() {
		return nil, dynamo.ErrDimensionMismatch
	}

	x := x0.Clone()
	t := 0.0

	tw, warped := s.stepper.(dynamo.TimeWarper)

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return x, ctx.Err()
		default:
		}

		if !fn(x, t) {
			return x, nil
		}

		dtEff := cfg.Dt
		if warped {
			dtEff *= tw.WarpFactor(t)
		}

		x = s.stepper.Step(s.sys, x, t, cfg.Dt)
		t += dtEff

		if cfg.ValidateState && !x.IsValid() {
			return x, &dynamo.RunError{Step: i, Time: t, Wrapped: dynamo.ErrInvalidState}
		}
	}

	fn(x, t)
	return x, nil
}
