// Package primal implements the four perturbation modes that can be injected
// into any model's dynamics: an additive oscillating residual, a bounded
// multiplicative parameter modulation, an exogenous control forcing, and a
// time warp applied at the stepper level.
package primal

import (
	"fmt"
	"math"
)

// Mode selects which perturbation a run injects. The set is closed: every
// model dispatches exhaustively over these four values, and the registry
// tests fail if a model ignores one.
type Mode string

const (
	Residual Mode = "residual"
	ParamMod Mode = "parammod"
	Control  Mode = "control"
	TimeWarp Mode = "timewarp"
)

// Modes lists all perturbation modes in sweep order.
var Modes = []Mode{Residual, ParamMod, Control, TimeWarp}

func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown perturbation mode: %q", s)
}

// MinWarp floors the warp multiplier. A zero or negative factor would stall
// or reverse the integration clock.
const MinWarp = 1e-6

// Config is an immutable perturbation configuration, one per run. Alpha is
// the perturbation amplitude and Lambda its rate. At Alpha == 0 every term is
// an exact no-op: ResidualTerm and ControlTerm vanish, ModFactor and
// WarpFactor are exactly 1.
type Config struct {
	Mode   Mode
	Alpha  float64
	Lambda float64
}

// ResidualTerm is the additive residual α·sin(λt)·x, proportional to the
// quantity it perturbs and oscillating in time.
func (c Config) ResidualTerm(x, t float64) float64 {
	return c.Alpha * math.Sin(c.Lambda*t) * x
}

// ModFactor is the multiplicative modulation 1 + α·tanh(λx). Since tanh is
// bounded in (-1, 1) the factor stays in (1-α, 1+α) and saturates for large
// |x| instead of blowing a parameter up.
func (c Config) ModFactor(x, t float64) float64 {
	return 1 + c.Alpha*math.Tanh(c.Lambda*x)
}

// ControlTerm is the state-independent forcing α·cos(λt).
func (c Config) ControlTerm(t float64) float64 {
	return c.Alpha * math.Cos(c.Lambda*t)
}

// WarpFactor is the strictly positive step-size multiplier
// max(MinWarp, 1 + α·sin(λt)).
func (c Config) WarpFactor(t float64) float64 {
	return math.Max(MinWarp, 1+c.Alpha*math.Sin(c.Lambda*t))
}
