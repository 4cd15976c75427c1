// Package config loads the YAML configuration for a trendline run.
//
// A minimal file only needs the data path; everything else falls back to Default:
//
//	data:
//	  path: testdata/anomaly.csv
//	detection:
//	  confidence: 99
//	output:
//	  chart: trend.png
package config

import (
	"math"
	"os"
	"unicode/utf8"

	"github.com/YuminosukeSato/trendline/anomaly"
	"github.com/YuminosukeSato/trendline/dataset"
	"github.com/YuminosukeSato/trendline/pkg/errors"
	"github.com/YuminosukeSato/trendline/pkg/log"
	"gopkg.in/yaml.v2"
)

// Data は入力ファイルの設定
type Data struct {
	Path        string `yaml:"path"`
	Separator   string `yaml:"separator"`
	HasHeader   bool   `yaml:"has_header"`
	ValueColumn int    `yaml:"value_column"`
	// TimeColumn が -1 の場合は時刻列なし
	TimeColumn  int    `yaml:"time_column"`
	Round       bool   `yaml:"round"`
}

// Detection は異常検知の設定
type Detection struct {
	// Confidence は (0, 100) のパーセント値
	Confidence float64 `yaml:"confidence"`
	// HistoryDivisor で系列長を割った値を履歴長とする
	HistoryDivisor int `yaml:"history_divisor"`
	// Epsilon は傾きを横ばいとみなす幅
	Epsilon float64 `yaml:"epsilon"`
	// MartingaleEpsilon はパワーマーチンゲールの指数
	MartingaleEpsilon float64 `yaml:"martingale_epsilon"`
}

// Output は出力先の設定。空なら出力しない
type Output struct {
	ChartPath   string `yaml:"chart"`
	ArchivePath string `yaml:"archive"`
}

// Config is the full run configuration.
type Config struct {
	Data      Data      `yaml:"data"`
	Detection Detection `yaml:"detection"`
	Output    Output    `yaml:"output"`
	LogLevel  string    `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Data: Data{
			Separator:   ",",
			HasHeader:   true,
			ValueColumn: 1,
			TimeColumn:  0,
		},
		Detection: Detection{
			Confidence:        95,
			HistoryDivisor:    4,
			Epsilon:           1e-9,
			MartingaleEpsilon: 0.1,
		},
		LogLevel: "info",
	}
}

// Load reads a YAML file on top of Default and validates the result.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config: %s", path)
	}
	return cfg, nil
}

// Read reads a YAML file on top of Default without validating it, so callers
// can apply overrides first.
func Read(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: read %s", path)
	}
	cfg, err := decode(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "config: %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default and validates the result.
// Unknown keys are rejected.
func Parse(raw []byte) (*Config, error) {
	cfg, err := decode(raw)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(raw []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalStrict(raw, cfg); err != nil {
		return nil, errors.Wrap(err, "config: parse")
	}
	return cfg, nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	if c.Data.Path == "" {
		return errors.NewValidationError("data.path", "must not be empty", c.Data.Path)
	}
	if utf8.RuneCountInString(c.Data.Separator) != 1 {
		return errors.NewValidationError("data.separator", "must be exactly one character", c.Data.Separator)
	}
	if c.Data.ValueColumn < 0 {
		return errors.NewValidationError("data.value_column", "must be non-negative", c.Data.ValueColumn)
	}
	if c.Data.TimeColumn < dataset.NoTimeColumn {
		return errors.NewValidationError("data.time_column", "must be non-negative, or -1 for no time column", c.Data.TimeColumn)
	}
	if c.Data.TimeColumn == c.Data.ValueColumn {
		return errors.NewValidationError("data.time_column", "must differ from value_column", c.Data.TimeColumn)
	}

	d := c.Detection
	if math.IsNaN(d.Confidence) || d.Confidence <= 0 || d.Confidence >= 100 {
		return errors.NewValidationError("detection.confidence", "must be in (0, 100)", d.Confidence)
	}
	if d.HistoryDivisor < 1 {
		return errors.NewValidationError("detection.history_divisor", "must be at least 1", d.HistoryDivisor)
	}
	if math.IsNaN(d.Epsilon) || d.Epsilon < 0 {
		return errors.NewValidationError("detection.epsilon", "must be non-negative", d.Epsilon)
	}
	if math.IsNaN(d.MartingaleEpsilon) || d.MartingaleEpsilon <= 0 || d.MartingaleEpsilon >= 1 {
		return errors.NewValidationError("detection.martingale_epsilon", "must be in (0, 1)", d.MartingaleEpsilon)
	}

	if _, err := log.ToLogLevel(c.LogLevel); err != nil {
		return errors.NewValidationError("log_level", "unknown level", c.LogLevel)
	}
	return nil
}

// DatasetOptions converts the data section into reader options.
func (c *Config) DatasetOptions() dataset.Options {
	sep, _ := utf8.DecodeRuneInString(c.Data.Separator)
	return dataset.Options{
		Separator:   sep,
		HasHeader:   c.Data.HasHeader,
		ValueColumn: c.Data.ValueColumn,
		TimeColumn:  c.Data.TimeColumn,
	}
}

// HistoryLength returns the detector history length for a series of n points,
// never less than anomaly.MinHistoryLength.
func (c *Config) HistoryLength(n int) int {
	return max(n/c.Detection.HistoryDivisor, anomaly.MinHistoryLength)
}
