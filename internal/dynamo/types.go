package dynamo

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// System is an ODE right-hand side. Derive must return a vector of exactly
// StateDim components; anything else is a contract violation.
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// Conserved is implemented by systems with a quantity that the unperturbed
// dynamics keep constant (e.g. total population in SIR).
type Conserved interface {
	Invariant(x State) float64
	InvariantTarget() float64
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Stepper interface {
	Step(sys System, x State, t, dt float64) State
}

// TimeWarper is implemented by steppers that rescale their effective step
// size. The run loop must advance its clock by dt*WarpFactor(t) so that
// simulated time tracks the warped steps actually taken.
type TimeWarper interface {
	WarpFactor(t float64) float64
}

// Config holds per-run integration settings. Dt <= 0 is not validated: a
// negative step integrates backward and a zero step stalls, both of which are
// the caller's responsibility.
type Config struct {
	Dt            float64
	Steps         int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Steps:         1000,
		ValidateState: true,
	}
}

type Result struct {
	States       []State
	Times        []float64
	Final        State
	StepsTaken   int
	InvariantErr float64
	NonFinite    bool
}
