package integrators

import (
	"github.com/san-kum/primal/internal/dynamo"
	"github.com/san-kum/primal/internal/primal"
)

// WarpedRK4 runs the same four-stage update as RK4 but with an effective step
// dt·G(t), where G is the perturbation's warp multiplier evaluated at the
// current simulation time. All four stages of one step share the same warped
// step size. The warp lives entirely here: the system's derivative is never
// touched, which is why models treat TimeWarp as a no-op.
//
// Elapsed simulated time over N steps is the path-dependent sum of the warped
// increments, not N·dt. Callers advance their clock via WarpFactor.
type WarpedRK4 struct {
	RK4
	pert primal.Config
}

func NewWarpedRK4(pert primal.Config) *WarpedRK4 {
	return &WarpedRK4{pert: pert}
}

// WarpFactor implements dynamo.TimeWarper.
func (w *WarpedRK4) WarpFactor(t float64) float64 {
	return w.pert.WarpFactor(t)
}

func (w *WarpedRK4) Step(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	return w.RK4.Step(sys, x, t, dt*w.pert.WarpFactor(t))
}
