// Package dynamo provides the core primitives for numerical integration of
// small ODE systems.
//
// The package defines the fundamental interfaces and types shared by the rest
// of the lab:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE right-hand sides (dX/dt = f(X, t))
//   - [Stepper]: fixed-step numerical integrator interface
//   - [TimeWarper]: capability for steppers that rescale their own step size
//   - [Conserved]: capability for systems carrying a conserved quantity
//
// # Example
//
//	sys := models.NewSIR(primal.Config{})
//	step := integrators.NewRK4()
//	runner := sim.New(sys, step)
//	result, _ := runner.Run(ctx, sys.DefaultState(), cfg)
//
// # Thread Safety
//
// Steppers carry scratch buffers and are NOT safe for concurrent use. Systems
// are immutable after construction and may be shared; parallel sweeps give
// each worker its own stepper and state copy.
package dynamo
