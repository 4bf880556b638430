package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/primal/internal/dynamo"
	"github.com/san-kum/primal/internal/integrators"
	"github.com/san-kum/primal/internal/models"
	"github.com/san-kum/primal/internal/primal"
)

// Registry maps names to model and stepper constructors. Every constructor
// takes the run's perturbation configuration so a fresh, unshared instance
// exists per run.
type Registry struct {
	models   map[string]func(primal.Config) dynamo.System
	steppers map[string]func(primal.Config) dynamo.Stepper
}

func NewRegistry() *Registry {
	r := &Registry{
		models:   make(map[string]func(primal.Config) dynamo.System),
		steppers: make(map[string]func(primal.Config) dynamo.Stepper),
	}

	r.models["mm"] = func(p primal.Config) dynamo.System { return models.NewMichaelisMenten(p) }
	r.models["sir"] = func(p primal.Config) dynamo.System { return models.NewSIR(p) }
	r.models["fhn"] = func(p primal.Config) dynamo.System { return models.NewFitzHughNagumo(p) }
	r.models["nernst"] = func(p primal.Config) dynamo.System { return models.NewNernst(p) }
	r.models["poiseuille"] = func(p primal.Config) dynamo.System { return models.NewPoiseuille(p) }

	r.steppers["euler"] = func(primal.Config) dynamo.Stepper { return integrators.NewEuler() }
	r.steppers["rk4"] = func(primal.Config) dynamo.Stepper { return integrators.NewRK4() }
	r.steppers["rk4warp"] = func(p primal.Config) dynamo.Stepper { return integrators.NewWarpedRK4(p) }

	return r
}

func (r *Registry) Model(name string, pert primal.Config) (dynamo.System, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn(pert), nil
}

func (r *Registry) Stepper(name string, pert primal.Config) (dynamo.Stepper, error) {
	fn, ok := r.steppers[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(pert), nil
}

// StepperForMode picks the reference integrator for a perturbation mode:
// warped RK4 under TimeWarp, plain RK4 otherwise.
func (r *Registry) StepperForMode(pert primal.Config) dynamo.Stepper {
	if pert.Mode == primal.TimeWarp {
		return integrators.NewWarpedRK4(pert)
	}
	return integrators.NewRK4()
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyParams overrides model parameters by name via the Configurable
// capability.
func (r *Registry) ApplyParams(sys dynamo.System, params map[string]float64) error {
	if len(params) == 0 {
		return nil
	}
	cfg, ok := sys.(dynamo.Configurable)
	if !ok {
		return fmt.Errorf("model does not accept parameter overrides")
	}
	for name, value := range params {
		if err := cfg.SetParam(name, value); err != nil {
			return err
		}
	}
	return nil
}
