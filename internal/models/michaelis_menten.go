package models

import (
	"fmt"

	"github.com/san-kum/primal/internal/dynamo"
	"github.com/san-kum/primal/internal/primal"
)

// MichaelisMenten models substrate -> product enzyme kinetics.
// State: [S, P]. Rate law: v = Vmax·S/(Km+S), dS = -v, dP = +v.
type MichaelisMenten struct {
	Vmax float64
	Km   float64
	Pert primal.Config
}

func NewMichaelisMenten(pert primal.Config) *MichaelisMenten {
	return &MichaelisMenten{
		Vmax: 1.0,
		Km:   0.5,
		Pert: pert,
	}
}

func (m *MichaelisMenten) StateDim() int { return 2 }

func (m *MichaelisMenten) DefaultState() dynamo.State { return dynamo.State{1.0, 0.0} }

func (m *MichaelisMenten) Derive(x dynamo.State, t float64) dynamo.State {
	s := x[0]

	vmax := m.Vmax
	force := 0.0
	switch m.Pert.Mode {
	case primal.ParamMod:
		vmax *= m.Pert.ModFactor(s, t)
	case primal.Control:
		force = m.Pert.ControlTerm(t)
	case primal.Residual:
		// applied to the reaction rate below, before sign distribution
	case primal.TimeWarp:
		// handled by the warped stepper
	}

	v := vmax * s / (m.Km + s)
	if m.Pert.Mode == primal.Residual {
		v += m.Pert.ResidualTerm(v, t)
	}

	return dynamo.State{-v + force, v}
}

func (m *MichaelisMenten) GetParams() map[string]float64 {
	return map[string]float64{
		"vmax": m.Vmax,
		"km":   m.Km,
	}
}

func (m *MichaelisMenten) SetParam(name string, value float64) error {
	switch name {
	case "vmax":
		m.Vmax = value
	case "km":
		m.Km = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
