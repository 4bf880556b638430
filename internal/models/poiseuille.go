package models

import (
	"fmt"
	"math"

	"github.com/san-kum/primal/internal/dynamo"
	"github.com/san-kum/primal/internal/primal"
)

// relaxation rate toward steady laminar flow
const poiseuilleRate = 5.0

// Poiseuille models volumetric flow relaxing toward the steady-state
// Hagen-Poiseuille value Q_ss = π·ΔP·r⁴/(8·μ·L). State: [Q]. The r⁴ term
// makes the radius the designated ParamMod target: small modulations move the
// steady state strongly.
type Poiseuille struct {
	DeltaP float64 // pressure difference, Pa
	Mu     float64 // dynamic viscosity, Pa·s
	L      float64 // vessel length, m
	R      float64 // vessel radius, m
	Pert   primal.Config
}

func NewPoiseuille(pert primal.Config) *Poiseuille {
	return &Poiseuille{
		DeltaP: 100,
		Mu:     0.0035,
		L:      0.1,
		R:      2e-3,
		Pert:   pert,
	}
}

func (p *Poiseuille) StateDim() int { return 1 }

func (p *Poiseuille) DefaultState() dynamo.State { return dynamo.State{0.0} }

func (p *Poiseuille) Derive(x dynamo.State, t float64) dynamo.State {
	q := x[0]

	r := p.R
	force := 0.0
	switch p.Pert.Mode {
	case primal.ParamMod:
		r *= p.Pert.ModFactor(q, t)
	case primal.Control:
		force = p.Pert.ControlTerm(t)
	case primal.Residual:
		// applied to the flow derivative below
	case primal.TimeWarp:
		// handled by the warped stepper
	}

	qss := math.Pi * p.DeltaP * r * r * r * r / (8 * p.Mu * p.L)
	dQ := -poiseuilleRate * (q - qss)

	if p.Pert.Mode == primal.Residual {
		dQ += p.Pert.ResidualTerm(q, t)
	}

	return dynamo.State{dQ + force}
}

// SteadyFlow returns the unperturbed steady-state flow.
func (p *Poiseuille) SteadyFlow() float64 {
	return math.Pi * p.DeltaP * p.R * p.R * p.R * p.R / (8 * p.Mu * p.L)
}

func (p *Poiseuille) GetParams() map[string]float64 {
	return map[string]float64{
		"dp": p.DeltaP,
		"mu": p.Mu,
		"l":  p.L,
		"r":  p.R,
	}
}

func (p *Poiseuille) SetParam(name string, value float64) error {
	switch name {
	case "dp":
		p.DeltaP = value
	case "mu":
		p.Mu = value
	case "l":
		p.L = value
	case "r":
		p.R = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
