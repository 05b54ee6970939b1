package sim

import "time"

// Config bounds one invocation.
type Config struct {
	MaxSteps int
	// Timeout is the wall-clock budget of one Run. Zero disables it.
	Timeout time.Duration
	// NegativeTolerance is ε relative to the largest initial concentration.
	// Zero disables the check.
	NegativeTolerance float64
	// DriftTolerance is the relative band for conserved pools. Zero disables the check.
	DriftTolerance float64
}

func DefaultConfig() Config {
	return Config{
		MaxSteps:          100000,
		NegativeTolerance: 1e-6,
		DriftTolerance:    1e-9,
	}
}

type Option func(*Config)

func WithMaxSteps(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxSteps = n
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

func WithNegativeTolerance(eps float64) Option {
	return func(c *Config) { c.NegativeTolerance = eps }
}

func WithDriftTolerance(tol float64) Option {
	return func(c *Config) { c.DriftTolerance = tol }
}
