// Package models contains the ODE right-hand sides the sweep runs over. Each
// model is a small immutable value: its physical parameters plus the
// perturbation configuration it was built with. Derive dispatches
// exhaustively over the four perturbation modes; ParamMod scales a local copy
// of one designated parameter and recomputes the whole law from it, never
// writing the struct. TimeWarp is a no-op here because the warp lives in the
// stepper.
package models
