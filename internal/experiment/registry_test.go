package experiment

import (
	"testing"

	"github.com/san-kum/primal/internal/dynamo"
	"github.com/san-kum/primal/internal/primal"
)

func TestRegistryUnknownNames(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Model("teapot", primal.Config{}); err == nil {
		t.Error("expected error for unknown model")
	}
	if _, err := r.Stepper("rk5", primal.Config{}); err == nil {
		t.Error("expected error for unknown integrator")
	}
}

// Every registered model must handle every perturbation mode: a few steps of
// each combination must stay finite and keep the state dimension. Adding a
// mode without teaching the models about it fails here.
func TestEveryModelHandlesEveryMode(t *testing.T) {
	r := NewRegistry()

	for _, name := range r.ListModels() {
		for _, mode := range primal.Modes {
			pert := primal.Config{Mode: mode, Alpha: 0.1, Lambda: 1.0}

			sys, err := r.Model(name, pert)
			if err != nil {
				t.Fatalf("%s: %v", name, err)
			}
			step := r.StepperForMode(pert)

			x := sys.(interface{ DefaultState() dynamo.State }).DefaultState()
			tm := 0.0
			for i := 0; i < 50; i++ {
				x = step.Step(sys, x, tm, 1e-3)
				tm += 1e-3
			}

			if !x.IsValid() {
				t.Errorf("%s/%s: state went non-finite", name, mode)
			}
			if len(x) != sys.StateDim() {
				t.Errorf("%s/%s: dimension drifted to %d", name, mode, len(x))
			}
		}
	}
}

func TestStepperForMode(t *testing.T) {
	r := NewRegistry()

	warp := primal.Config{Mode: primal.TimeWarp, Alpha: 0.1, Lambda: 1.0}
	if _, ok := r.StepperForMode(warp).(dynamo.TimeWarper); !ok {
		t.Error("TimeWarp mode should get a time-warping stepper")
	}

	plain := primal.Config{Mode: primal.Residual, Alpha: 0.1, Lambda: 1.0}
	if _, ok := r.StepperForMode(plain).(dynamo.TimeWarper); ok {
		t.Error("non-warp modes should get the plain stepper")
	}
}

func TestApplyParams(t *testing.T) {
	r := NewRegistry()

	sys, err := r.Model("sir", primal.Config{})
	if err != nil {
		t.Fatal(err)
	}

	if err := r.ApplyParams(sys, map[string]float64{"beta": 0.5}); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if got := sys.(dynamo.Configurable).GetParams()["beta"]; got != 0.5 {
		t.Errorf("expected beta 0.5, got %f", got)
	}

	if err := r.ApplyParams(sys, map[string]float64{"bogus": 1}); err == nil {
		t.Error("expected error for unknown parameter")
	}
}
