package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/primal/internal/dynamo"
	"github.com/san-kum/primal/internal/integrators"
	"github.com/san-kum/primal/internal/models"
	"github.com/san-kum/primal/internal/primal"
)

func TestRunZeroStepsReturnsInitial(t *testing.T) {
	sys := models.NewSIR(primal.Config{})
	runner := New(sys, integrators.NewRK4())

	x0 := sys.DefaultState()
	result, err := runner.Run(context.Background(), x0, dynamo.Config{Dt: 0.01, Steps: 0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for i := range x0 {
		if result.Final[i] != x0[i] {
			t.Errorf("component %d changed with zero steps: %g vs %g", i, result.Final[i], x0[i])
		}
	}
	if len(result.States) != 1 {
		t.Errorf("expected only the initial state, got %d", len(result.States))
	}
}

func TestRunCapturesTrajectory(t *testing.T) {
	sys := models.NewMichaelisMenten(primal.Config{})
	runner := New(sys, integrators.NewRK4())

	result, err := runner.Run(context.Background(), sys.DefaultState(), dynamo.Config{Dt: 0.01, Steps: 50})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) != 51 || len(result.Times) != 51 {
		t.Errorf("expected 51 samples, got %d states / %d times", len(result.States), len(result.Times))
	}
	if result.StepsTaken != 50 {
		t.Errorf("expected 50 steps taken, got %d", result.StepsTaken)
	}
	if math.Abs(result.Times[50]-0.5) > 1e-12 {
		t.Errorf("final time should be 0.5, got %g", result.Times[50])
	}
}

func TestRunWarpedClock(t *testing.T) {
	// With a warped stepper the elapsed time is the sum of dt·G(t_i), which
	// differs from steps·dt whenever alpha > 0.
	pert := primal.Config{Mode: primal.TimeWarp, Alpha: 0.5, Lambda: 1.0}
	sys := models.NewSIR(pert)
	runner := New(sys, integrators.NewWarpedRK4(pert))

	result, err := runner.Run(context.Background(), sys.DefaultState(), dynamo.Config{Dt: 0.01, Steps: 100})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	nominal := 100 * 0.01
	if math.Abs(result.Times[100]-nominal) < 1e-6 {
		t.Errorf("warped elapsed time %.6f should differ from nominal %.2f", result.Times[100], nominal)
	}

	// Replay the warp sum independently.
	want := 0.0
	for i := 0; i < 100; i++ {
		want += 0.01 * pert.WarpFactor(want)
	}
	if math.Abs(result.Times[100]-want) > 1e-12 {
		t.Errorf("elapsed time %.12f does not match warp sum %.12f", result.Times[100], want)
	}
}

func TestRunStateDimMismatch(t *testing.T) {
	sys := models.NewSIR(primal.Config{})
	runner := New(sys, integrators.NewRK4())

	_, err := runner.Run(context.Background(), dynamo.State{1, 2}, dynamo.Config{Dt: 0.01, Steps: 10})
	if !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestRunContextCancel(t *testing.T) {
	sys := models.NewSIR(primal.Config{})
	runner := New(sys, integrators.NewRK4())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx, sys.DefaultState(), dynamo.Config{Dt: 0.01, Steps: 1000})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

type explosive struct{}

func (e *explosive) Derive(x dynamo.State, t float64) dynamo.State {
	if t > 0.05 {
		return dynamo.State{math.NaN()}
	}
	return dynamo.State{1.0}
}

func (e *explosive) StateDim() int { return 1 }

func TestRunFlagsNonFinite(t *testing.T) {
	runner := New(&explosive{}, integrators.NewRK4())

	result, err := runner.Run(context.Background(), dynamo.State{0}, dynamo.Config{Dt: 0.01, Steps: 100, ValidateState: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !result.NonFinite {
		t.Error("expected the non-finite flag to be set")
	}
	if result.StepsTaken == 100 {
		t.Error("run should stop at the first non-finite state")
	}
}

func TestRunWithCallbackNonFiniteError(t *testing.T) {
	runner := New(&explosive{}, integrators.NewRK4())

	_, err := runner.RunWithCallback(context.Background(), dynamo.State{0},
		dynamo.Config{Dt: 0.01, Steps: 100, ValidateState: true},
		func(x dynamo.State, t float64) bool { return true })

	if !errors.Is(err, dynamo.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	var runErr *dynamo.RunError
	if !errors.As(err, &runErr) {
		t.Fatal("error should carry step/time context")
	}
}

func TestRunWithCallbackEarlyStop(t *testing.T) {
	sys := models.NewSIR(primal.Config{})
	runner := New(sys, integrators.NewRK4())

	calls := 0
	final, err := runner.RunWithCallback(context.Background(), sys.DefaultState(),
		dynamo.Config{Dt: 0.01, Steps: 1000},
		func(x dynamo.State, t float64) bool {
			calls++
			return calls < 10
		})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if calls != 10 {
		t.Errorf("expected 10 callback invocations, got %d", calls)
	}
	if len(final) != sys.StateDim() {
		t.Errorf("final state has wrong dimension %d", len(final))
	}
}

func TestRunWithCallbackVisitsEndpoints(t *testing.T) {
	sys := models.NewMichaelisMenten(primal.Config{})
	runner := New(sys, integrators.NewRK4())

	var times []float64
	_, err := runner.RunWithCallback(context.Background(), sys.DefaultState(),
		dynamo.Config{Dt: 0.01, Steps: 5},
		func(x dynamo.State, t float64) bool {
			times = append(times, t)
			return true
		})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(times) != 6 {
		t.Fatalf("expected 6 visits (x0 plus 5 steps), got %d", len(times))
	}
	if times[0] != 0 {
		t.Errorf("first visit should be t=0, got %g", times[0])
	}
	if math.Abs(times[5]-0.05) > 1e-12 {
		t.Errorf("last visit should be t=0.05, got %g", times[5])
	}
}
