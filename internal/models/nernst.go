package models

import (
	"fmt"
	"math"

	"github.com/san-kum/primal/internal/dynamo"
	"github.com/san-kum/primal/internal/primal"
)

const (
	gasConstant = 8.314   // J/(mol·K)
	faraday     = 96485.0 // C/mol

	// relaxation rate toward the equilibrium potential
	nernstRate = 10.0
)

// Nernst models a membrane potential relaxing toward the Nernst equilibrium
// E_eq = (R·T/(z·F))·ln(Co/Ci). State: [E]. A concentration ratio driven
// non-positive by ParamMod propagates NaN through the log; the run loop
// records that as a non-finite row rather than guarding it here.
type Nernst struct {
	T    float64 // temperature, K
	Z    float64 // ion valence
	Co   float64 // outside concentration, mM
	Ci   float64 // inside concentration, mM
	Pert primal.Config
}

func NewNernst(pert primal.Config) *Nernst {
	return &Nernst{
		T:    310,
		Z:    1,
		Co:   145,
		Ci:   15,
		Pert: pert,
	}
}

func (n *Nernst) StateDim() int { return 1 }

func (n *Nernst) DefaultState() dynamo.State { return dynamo.State{0.0} }

func (n *Nernst) Derive(x dynamo.State, t float64) dynamo.State {
	e := x[0]

	co := n.Co
	force := 0.0
	switch n.Pert.Mode {
	case primal.ParamMod:
		co *= n.Pert.ModFactor(e, t)
	case primal.Control:
		force = n.Pert.ControlTerm(t)
	case primal.Residual:
		// applied to the potential derivative below
	case primal.TimeWarp:
		// handled by the warped stepper
	}

	eq := gasConstant * n.T / (n.Z * faraday) * math.Log(co/n.Ci)
	dE := -nernstRate * (e - eq)

	if n.Pert.Mode == primal.Residual {
		dE += n.Pert.ResidualTerm(e, t)
	}

	return dynamo.State{dE + force}
}

// Equilibrium returns the unperturbed Nernst potential.
func (n *Nernst) Equilibrium() float64 {
	return gasConstant * n.T / (n.Z * faraday) * math.Log(n.Co/n.Ci)
}

func (n *Nernst) GetParams() map[string]float64 {
	return map[string]float64{
		"t":  n.T,
		"z":  n.Z,
		"co": n.Co,
		"ci": n.Ci,
	}
}

func (n *Nernst) SetParam(name string, value float64) error {
	switch name {
	case "t":
		n.T = value
	case "z":
		n.Z = value
	case "co":
		n.Co = value
	case "ci":
		n.Ci = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
