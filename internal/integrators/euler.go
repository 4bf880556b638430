package integrators

import "github.com/san-kum/primal/internal/dynamo"

// Euler is a first-order stepper kept for integrator comparisons.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	dx := sys.Derive(x, t)
	if len(dx) != len(x) {
		panic(dynamo.ErrDimensionMismatch)
	}
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
