package models

import (
	"fmt"

	"github.com/san-kum/primal/internal/dynamo"
	"github.com/san-kum/primal/internal/primal"
)

// FitzHughNagumo is the cubic-nullcline neuron model.
// State: [v, w] where v is the membrane voltage and w the recovery variable.
// Equations:
//
//	dv/dt = v - v³/3 - w
//	dw/dt = (v + a - b·w)/c
type FitzHughNagumo struct {
	A    float64
	B    float64
	C    float64
	Pert primal.Config
}

func NewFitzHughNagumo(pert primal.Config) *FitzHughNagumo {
	return &FitzHughNagumo{
		A:    0.7,
		B:    0.8,
		C:    12.5,
		Pert: pert,
	}
}

func (f *FitzHughNagumo) StateDim() int { return 2 }

func (f *FitzHughNagumo) DefaultState() dynamo.State { return dynamo.State{-1.0, 1.0} }

func (f *FitzHughNagumo) Derive(x dynamo.State, t float64) dynamo.State {
	v, w := x[0], x[1]

	c := f.C
	force := 0.0
	switch f.Pert.Mode {
	case primal.ParamMod:
		c *= f.Pert.ModFactor(v, t)
	case primal.Control:
		force = f.Pert.ControlTerm(t)
	case primal.Residual:
		// applied to the voltage derivative below
	case primal.TimeWarp:
		// handled by the warped stepper
	}

	dv := v - v*v*v/3 - w
	dw := (v + f.A - f.B*w) / c

	if f.Pert.Mode == primal.Residual {
		dv += f.Pert.ResidualTerm(v, t)
	}

	return dynamo.State{dv + force, dw}
}

func (f *FitzHughNagumo) GetParams() map[string]float64 {
	return map[string]float64{
		"a": f.A,
		"b": f.B,
		"c": f.C,
	}
}

func (f *FitzHughNagumo) SetParam(name string, value float64) error {
	switch name {
	case "a":
		f.A = value
	case "b":
		f.B = value
	case "c":
		f.C = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
