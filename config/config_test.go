package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/YuminosukeSato/trendline/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("data:\n  path: anomaly.csv\n"))
	require.NoError(t, err)

	assert.Equal(t, "anomaly.csv", cfg.Data.Path)
	assert.Equal(t, ",", cfg.Data.Separator)
	assert.True(t, cfg.Data.HasHeader)
	assert.Equal(t, 1, cfg.Data.ValueColumn)
	assert.Equal(t, 0, cfg.Data.TimeColumn)
	assert.Equal(t, 95.0, cfg.Detection.Confidence)
	assert.Equal(t, 4, cfg.Detection.HistoryDivisor)
	assert.Equal(t, 1e-9, cfg.Detection.Epsilon)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParseOverrides(t *testing.T) {
	raw := `
data:
  path: in.tsv
  separator: "\t"
  has_header: false
  value_column: 0
  time_column: -1
  round: true
detection:
  confidence: 99
  history_divisor: 2
output:
  chart: out.png
  archive: out.mebo
log_level: DEBUG
`
	cfg, err := Parse([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "\t", cfg.Data.Separator)
	assert.False(t, cfg.Data.HasHeader)
	assert.True(t, cfg.Data.Round)
	assert.Equal(t, 99.0, cfg.Detection.Confidence)
	assert.Equal(t, "out.png", cfg.Output.ChartPath)
	assert.Equal(t, "out.mebo", cfg.Output.ArchivePath)

	opts := cfg.DatasetOptions()
	assert.Equal(t, '\t', opts.Separator)
	assert.Equal(t, -1, opts.TimeColumn)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("data:\n  path: a.csv\n  colour: red\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		param  string
	}{
		{"empty path", func(c *Config) { c.Data.Path = "" }, "data.path"},
		{"long separator", func(c *Config) { c.Data.Separator = ",," }, "data.separator"},
		{"negative value column", func(c *Config) { c.Data.ValueColumn = -1 }, "data.value_column"},
		{"same columns", func(c *Config) { c.Data.TimeColumn = 1 }, "data.time_column"},
		{"time column below -1", func(c *Config) { c.Data.TimeColumn = -2 }, "data.time_column"},
		{"confidence too high", func(c *Config) { c.Detection.Confidence = 100 }, "detection.confidence"},
		{"zero divisor", func(c *Config) { c.Detection.HistoryDivisor = 0 }, "detection.history_divisor"},
		{"negative epsilon", func(c *Config) { c.Detection.Epsilon = -1 }, "detection.epsilon"},
		{"martingale epsilon", func(c *Config) { c.Detection.MartingaleEpsilon = 1 }, "detection.martingale_epsilon"},
		{"log level", func(c *Config) { c.LogLevel = "verbose" }, "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Data.Path = "a.csv"
			tt.mutate(cfg)

			err := cfg.Validate()
			var valErr *errors.ValidationError
			require.True(t, errors.As(err, &valErr))
			assert.Equal(t, tt.param, valErr.ParamName)
		})
	}
}

func TestValidateAcceptsNoTimeColumn(t *testing.T) {
	cfg := Default()
	cfg.Data.Path = "a.csv"
	cfg.Data.TimeColumn = -1
	assert.NoError(t, cfg.Validate())
}

func TestHistoryLength(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 53, cfg.HistoryLength(213))
	// 短い系列でも2点以上の履歴を使う
	assert.Equal(t, 2, cfg.HistoryLength(7))
	assert.Equal(t, 2, cfg.HistoryLength(3))
	assert.Equal(t, 2, cfg.HistoryLength(1))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trendline.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data:\n  path: x.csv\nlog_level: warn\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)

	_, err = Load(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}

func TestReadSkipsValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("detection:\n  confidence: 90\n"), 0o600))

	cfg, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, 90.0, cfg.Detection.Confidence)
	assert.Empty(t, cfg.Data.Path)

	_, err = Load(path)
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))
}
