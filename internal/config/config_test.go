package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/covkin/internal/dynamo"
	"github.com/san-kum/covkin/internal/kinetics"
)

const scenarioYAML = `
name: slow-binder
variant: basic-reordered
integrator: rosenbrock
time:
  end: 3600
  samples: 400
params:
  kinact: "0.002"
  koff: 0.5
initial:
  E: 0.1
solver:
  rel_tol: 1e-8
  max_steps: 5000
sweep:
  mode: parameter
  parameter: ksub
  values: [0.01, 0.02]
workers: 2
timeout: 30s
`

func TestParseScenario(t *testing.T) {
	s, err := Parse([]byte(scenarioYAML))
	require.NoError(t, err)

	assert.Equal(t, "slow-binder", s.Name)
	assert.Equal(t, 2, s.Workers)
	assert.Equal(t, 1e-8, s.Solver.RelTol)
	require.NotNil(t, s.Sweep)
	assert.Equal(t, []float64{0.01, 0.02}, s.Sweep.Values)

	cfg, err := s.Experiment()
	require.NoError(t, err)
	assert.Equal(t, "basic-reordered", cfg.Variant)
	assert.Equal(t, "rosenbrock", cfg.Integrator)
	assert.Equal(t, 0.002, cfg.Params["kinact"])
	assert.Equal(t, 0.5, cfg.Params["koff"])
	assert.Equal(t, 100.0, cfg.Params["kon"], "unset constants come from the baseline")
	assert.Equal(t, 0.1, cfg.Initial[kinetics.E])
	assert.Equal(t, 0.5, cfg.Initial[kinetics.I])
	assert.Equal(t, dynamo.TimeDomain{Start: 0, End: 3600, Samples: 400}, cfg.Domain)
	assert.Equal(t, 30*time.Second, cfg.Timeout)

	cases, err := s.Cases(cfg)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, "ksub=0.02", cases[1].Label)
	assert.Equal(t, 0.02, cases[1].Params["ksub"])
	assert.Equal(t, 0.002, cases[1].Params["kinact"])
}

func TestParseRejectsBadInput(t *testing.T) {
	tests := map[string]string{
		"unknown key":      "variant: basic\nvarient: basic\n",
		"unknown variant":  "variant: full\n",
		"unknown mode":     "sweep:\n  mode: grid\n",
		"missing values":   "sweep:\n  mode: parameter\n  parameter: kinact\n",
		"bad timeout":      "timeout: soon\n",
		"unknown compound": "inhibitor: aspirin\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestExperimentRejectsNonNumericParam(t *testing.T) {
	s, err := Parse([]byte("params:\n  kon: fast\n"))
	require.NoError(t, err)

	_, err = s.Experiment()
	assert.True(t, errors.Is(err, dynamo.ErrInvalidParameter), "got %v", err)
}

func TestEmptyScenarioUsesDefaults(t *testing.T) {
	s, err := Parse(nil)
	require.NoError(t, err)

	cfg, err := s.Experiment()
	require.NoError(t, err)
	assert.Equal(t, DefaultVariant, cfg.Variant)
	assert.Equal(t, DefaultIntegrator, cfg.Integrator)
	assert.Equal(t, 600, cfg.Domain.Samples)
	assert.Equal(t, kinetics.NeratinibParams(), cfg.Params)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYAML), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "basic-reordered", s.Variant)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPresets(t *testing.T) {
	assert.Equal(t, []string{"inhibitors", "kinact", "ksulfen", "neratinib", "redox", "turnover"}, ListPresets())
	assert.Nil(t, GetPreset("nonexistent"))

	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			s := GetPreset(name)
			require.NoError(t, s.Validate())
			cfg, err := s.Experiment()
			require.NoError(t, err)
			require.NoError(t, cfg.Params.Validate(mustVariant(t, cfg.Variant).RequiredParams()))
			if s.Sweep != nil {
				cases, err := s.Cases(cfg)
				require.NoError(t, err)
				assert.NotEmpty(t, cases)
			}
		})
	}
}

func TestPresetCasesMatchReferenceExperiments(t *testing.T) {
	s := GetPreset("inhibitors")
	cfg, err := s.Experiment()
	require.NoError(t, err)
	cases, err := s.Cases(cfg)
	require.NoError(t, err)
	require.Len(t, cases, 6)
	assert.Equal(t, "Dacomitinib", cases[1].Label)
	assert.Equal(t, 0.0018, cases[1].Params["kinact"])

	turn := GetPreset("turnover")
	cfg, err = turn.Experiment()
	require.NoError(t, err)
	cases, err = turn.Cases(cfg)
	require.NoError(t, err)
	assert.Equal(t, 1.2e-5, cases[2].Params["k_deg_EI_cov"])
	assert.Equal(t, 800, cfg.Domain.Samples)
}

func TestGetPresetReturnsCopy(t *testing.T) {
	s := GetPreset("kinact")
	s.Sweep.Values[0] = 42
	s.Initial["E"] = 42

	fresh := GetPreset("kinact")
	assert.Equal(t, 0.0005, fresh.Sweep.Values[0])
	assert.Equal(t, 0.2, fresh.Initial["E"])
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, GetPreset("ksulfen").WriteYAML(&buf))

	s, err := Parse(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "k_sulfen", s.Sweep.Parameter)
	assert.Equal(t, 800, s.Time.Samples)
}

func mustVariant(t *testing.T, name string) kinetics.Variant {
	t.Helper()
	v, err := kinetics.LookupVariant(name)
	require.NoError(t, err)
	return v
}

func TestParamsOverrideInhibitorProfile(t *testing.T) {
	s, err := Parse([]byte("inhibitor: Afatinib\nparams:\n  kinact: 0.01\n"))
	require.NoError(t, err)

	cfg, err := s.Experiment()
	require.NoError(t, err)
	assert.Equal(t, 0.01, cfg.Params["kinact"])
	assert.Equal(t, 0.3, cfg.Params["koff"])
	assert.Equal(t, 0.017, cfg.Params["ksub"])
}
