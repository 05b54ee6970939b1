package sim

import (
	"testing"
	"time"
)

func TestConfigOptions(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		check func(Config) bool
	}{
		{"defaults", nil, func(c Config) bool {
			return c.MaxSteps == 100000 && c.NegativeTolerance == 1e-6 && c.DriftTolerance == 1e-9 && c.Timeout == 0
		}},
		{"max steps", []Option{WithMaxSteps(10)}, func(c Config) bool { return c.MaxSteps == 10 }},
		{"non-positive max steps ignored", []Option{WithMaxSteps(0)}, func(c Config) bool { return c.MaxSteps == 100000 }},
		{"timeout", []Option{WithTimeout(time.Second)}, func(c Config) bool { return c.Timeout == time.Second }},
		{"tolerances", []Option{WithNegativeTolerance(1e-3), WithDriftTolerance(0)}, func(c Config) bool {
			return c.NegativeTolerance == 1e-3 && c.DriftTolerance == 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(&testDynamics{}, nil, tt.opts...)
			if !tt.check(s.cfg) {
				t.Errorf("unexpected config %+v", s.cfg)
			}
		})
	}
}
