package machine

import "github.com/caarlos0/env/v6"

// Limits bounds a Thread's resource usage, read from MATIRIA_* environment
// variables: exceeding any of these is treated the same as other fatal
// runtime failures (stack overflow), rather than left to panic or run
// unbounded.
type Limits struct {
	MaxStackDepth int   `env:"MATIRIA_MAX_STACK_DEPTH" envDefault:"4096"`
	MaxCallDepth  int   `env:"MATIRIA_MAX_CALL_DEPTH" envDefault:"256"`
	MaxSteps      int64 `env:"MATIRIA_MAX_STEPS" envDefault:"100000000"`
}

// LoadLimits reads Limits from the environment, falling back to the
// struct-tag defaults for any unset variable.
func LoadLimits() (Limits, error) {
	var l Limits
	if err := env.Parse(&l); err != nil {
		return Limits{}, err
	}
	return l, nil
}
