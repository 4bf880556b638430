package models

import (
	"fmt"

	"github.com/san-kum/primal/internal/dynamo"
	"github.com/san-kum/primal/internal/primal"
)

// SIR is the standard mass-action epidemic model.
// State: [S, I, R]. The unperturbed dynamics conserve S+I+R = N; Residual and
// Control inject terms into the derivatives and break that conservation by a
// bounded amount, ParamMod only rescales beta so conservation survives it.
type SIR struct {
	Beta  float64
	Gamma float64
	N     float64
	Pert  primal.Config
}

func NewSIR(pert primal.Config) *SIR {
	return &SIR{
		Beta:  0.3,
		Gamma: 0.1,
		N:     1000,
		Pert:  pert,
	}
}

func (s *SIR) StateDim() int { return 3 }

func (s *SIR) DefaultState() dynamo.State { return dynamo.State{999, 1, 0} }

func (s *SIR) Derive(x dynamo.State, t float64) dynamo.State {
	sus, inf, rec := x[0], x[1], x[2]

	beta := s.Beta
	force := 0.0
	switch s.Pert.Mode {
	case primal.ParamMod:
		beta *= s.Pert.ModFactor(inf, t)
	case primal.Control:
		force = s.Pert.ControlTerm(t)
	case primal.Residual:
		// applied to all three derivatives below
	case primal.TimeWarp:
		// handled by the warped stepper
	}

	incidence := beta * sus * inf / s.N
	dS := -incidence
	dI := incidence - s.Gamma*inf
	dR := s.Gamma * inf

	if s.Pert.Mode == primal.Residual {
		dS += s.Pert.ResidualTerm(sus, t)
		dI += s.Pert.ResidualTerm(inf, t)
		dR += s.Pert.ResidualTerm(rec, t)
	}

	return dynamo.State{dS, dI + force, dR}
}

// Invariant implements dynamo.Conserved: total population.
func (s *SIR) Invariant(x dynamo.State) float64 { return x[0] + x[1] + x[2] }

func (s *SIR) InvariantTarget() float64 { return s.N }

func (s *SIR) GetParams() map[string]float64 {
	return map[string]float64{
		"beta":  s.Beta,
		"gamma": s.Gamma,
		"n":     s.N,
	}
}

func (s *SIR) SetParam(name string, value float64) error {
	switch name {
	case "beta":
		s.Beta = value
	case "gamma":
		s.Gamma = value
	case "n":
		s.N = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
