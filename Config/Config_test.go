package Config

import (
	"os"
	"path/filepath"
	"testing"

	"VeraoNet/Consensus"
	"VeraoNet/Metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadTOML(t *testing.T) {
	path := write(t, "run.toml", `
[generator]
users = 1200
steps = 0
out = "/tmp/results"

[thresholds]
low_load = 100
medium_load = 1000
high_load = 5000
latency_threshold = 400
energy_threshold = 0.7
`)

	f, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, f.Generator.Users)
	assert.Equal(t, 1200, *f.Generator.Users)
	require.NotNil(t, f.Generator.Steps)
	assert.Equal(t, 0, *f.Generator.Steps)
	assert.Equal(t, "/tmp/results", *f.Generator.Out)
	assert.Nil(t, f.Generator.Seed)
	assert.Equal(t, &Consensus.Thresholds{
		LowLoad: 100, MediumLoad: 1000, HighLoad: 5000, LatencyThreshold: 400, EnergyThreshold: 0.7,
	}, f.Thresholds)
}

func TestLoadPartialThresholdsKeepsDefaults(t *testing.T) {
	path := write(t, "run.toml", `
[thresholds]
low_load = 100
medium_load = 1000
high_load = 5000
`)

	f, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, f.Thresholds)

	want := Consensus.DefaultThresholds()
	want.LowLoad, want.MediumLoad, want.HighLoad = 100, 1000, 5000
	assert.Equal(t, want, *f.Thresholds)

	label, _ := Consensus.Decide(Metrics.NodeMetrics{ActiveUsers: 10, LatencyMS: 100, EnergyNormalized: 0.1}, *f.Thresholds)
	assert.Equal(t, Consensus.PoW, label)
}

func TestLoadPartialThresholdsYAMLAndJSON(t *testing.T) {
	for name, body := range map[string]string{
		"run.yaml": "thresholds:\n  latency_threshold: 300\n",
		"run.json": `{"thresholds": {"latency_threshold": 300}}`,
	} {
		f, err := Load(write(t, name, body))
		require.NoError(t, err, name)
		require.NotNil(t, f.Thresholds, name)

		want := Consensus.DefaultThresholds()
		want.LatencyThreshold = 300
		assert.Equal(t, want, *f.Thresholds, name)
	}
}

func TestLoadRejectsZeroLatencyThreshold(t *testing.T) {
	_, err := Load(write(t, "run.toml", "[thresholds]\nlatency_threshold = 0\n"))
	assert.Error(t, err)
}

func TestLoadYAML(t *testing.T) {
	path := write(t, "run.yaml", "generator:\n  steps: 12\n  seed: 9\n")

	f, err := Load(path)
	require.NoError(t, err)
	assert.Nil(t, f.Generator.Users)
	assert.Equal(t, 12, *f.Generator.Steps)
	assert.Equal(t, int64(9), *f.Generator.Seed)
	assert.Nil(t, f.Thresholds)
}

func TestLoadRejectsBadThresholds(t *testing.T) {
	path := write(t, "run.json", `{"thresholds": {"low_load": 0, "medium_load": 10, "high_load": 20}}`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadThresholdsKeepsDefaults(t *testing.T) {
	path := write(t, "thr.json", `{"latency_threshold": 300}`)

	thr, err := LoadThresholds(path)
	require.NoError(t, err)
	want := Consensus.DefaultThresholds()
	want.LatencyThreshold = 300
	assert.Equal(t, want, thr)
}

func TestLoadThresholdsYML(t *testing.T) {
	path := write(t, "thr.yml", "low_load: 10\nmedium_load: 20\nhigh_load: 30\n")

	thr, err := LoadThresholds(path)
	require.NoError(t, err)
	assert.Equal(t, 30, thr.HighLoad)
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := Load(write(t, "run.ini", "users=1"))
	assert.Error(t, err)
}

func TestMissingFile(t *testing.T) {
	_, err := LoadThresholds(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
