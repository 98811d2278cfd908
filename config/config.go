// Package config loads the YAML (or JSON) file describing a dataset build:
// logging, the engine options, the series sources and the journal.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/collate/bucket"
	"github.com/rustyeddy/collate/collate"
	"github.com/rustyeddy/collate/dataset"
	"github.com/rustyeddy/collate/internal/logger"
)

// Config is the complete build configuration.
type Config struct {
	Log     logger.Config `json:"log" yaml:"log"`
	Dataset DatasetConfig `json:"dataset" yaml:"dataset"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
}

// DatasetConfig holds the engine options and the series to build.
type DatasetConfig struct {
	Name             string         `json:"name" yaml:"name"`
	Granularity      string         `json:"granularity" yaml:"granularity"` // e.g. "1m", "15s", "1d"
	InputGranularity string         `json:"input_granularity,omitempty" yaml:"input_granularity,omitempty"`
	Policy           string         `json:"policy" yaml:"policy"`
	IgnoreSameValue  bool           `json:"ignore_same_value" yaml:"ignore_same_value"`
	AutoTimeSharing  bool           `json:"auto_time_sharing" yaml:"auto_time_sharing"`
	BucketTimestamp  string         `json:"bucket_timestamp,omitempty" yaml:"bucket_timestamp,omitempty"` // "start" or "end"
	Series           []SeriesConfig `json:"series" yaml:"series"`
}

// JournalConfig selects where built runs are recorded.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "sqlite", "csv" or "none"
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	PointsFile string `json:"points_file,omitempty" yaml:"points_file,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
// and validates it.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile writes YAML for .yaml/.yml paths and indented JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate reports the first problem as a *collate.ConfigError.
func (c *Config) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return &collate.ConfigError{Field: "log.level", Reason: err.Error()}
	}
	if c.Dataset.Name == "" {
		return &collate.ConfigError{Field: "dataset.name", Reason: "required"}
	}
	if _, err := c.Dataset.Options(); err != nil {
		return err
	}
	if len(c.Dataset.Series) == 0 {
		return &collate.ConfigError{Field: "dataset.series", Reason: "at least one series required"}
	}

	seen := make(map[string]bool, len(c.Dataset.Series))
	for i, s := range c.Dataset.Series {
		if err := s.validate(fmt.Sprintf("dataset.series[%d]", i)); err != nil {
			return err
		}
		if seen[s.Name] {
			return &collate.ConfigError{Field: fmt.Sprintf("dataset.series[%d].name", i), Reason: fmt.Sprintf("duplicate series %q", s.Name)}
		}
		seen[s.Name] = true
	}

	return c.Journal.validate()
}

// Options parses the engine options.
func (d DatasetConfig) Options() (collate.Options, error) {
	var opts collate.Options

	policy, err := collate.ParsePolicy(d.Policy)
	if err != nil {
		return opts, err
	}
	stamp, err := collate.ParseBucketTimestamp(d.BucketTimestamp)
	if err != nil {
		return opts, err
	}
	opts = collate.Options{
		Policy:          policy,
		IgnoreSameValue: d.IgnoreSameValue,
		AutoTimeSharing: d.AutoTimeSharing,
		BucketTimestamp: stamp,
	}

	if d.Granularity != "" {
		if opts.Granularity, err = bucket.ParseGranularity(d.Granularity); err != nil {
			return opts, &collate.ConfigError{Field: "dataset.granularity", Reason: err.Error()}
		}
	}
	if d.InputGranularity != "" {
		if opts.InputGranularity, err = bucket.ParseGranularity(d.InputGranularity); err != nil {
			return opts, &collate.ConfigError{Field: "dataset.input_granularity", Reason: err.Error()}
		}
	}

	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// Spec turns the dataset section into a buildable spec.
func (c *Config) Spec() (dataset.Spec, error) {
	opts, err := c.Dataset.Options()
	if err != nil {
		return dataset.Spec{}, err
	}

	spec := dataset.Spec{
		Name:    c.Dataset.Name,
		Options: opts,
		Series:  make([]dataset.SeriesSpec, 0, len(c.Dataset.Series)),
	}
	for _, s := range c.Dataset.Series {
		open, err := s.Opener()
		if err != nil {
			return dataset.Spec{}, err
		}
		spec.Series = append(spec.Series, dataset.SeriesSpec{Name: s.Name, Open: open})
	}
	return spec, nil
}

func (j JournalConfig) validate() error {
	switch j.Type {
	case "", "none":
	case "sqlite":
		if j.DBPath == "" {
			return &collate.ConfigError{Field: "journal.db_path", Reason: "required for sqlite journal"}
		}
	case "csv":
		if j.PointsFile == "" {
			return &collate.ConfigError{Field: "journal.points_file", Reason: "required for csv journal"}
		}
	default:
		return &collate.ConfigError{Field: "journal.type", Reason: fmt.Sprintf("want sqlite, csv or none, got %q", j.Type)}
	}
	return nil
}

// Default returns a configuration that averages one CSV file per minute
// and journals to SQLite.
func Default() *Config {
	return &Config{
		Log: logger.Config{Level: "info"},
		Dataset: DatasetConfig{
			Name:             "example",
			Granularity:      "1m",
			InputGranularity: "1s",
			Policy:           "average",
			AutoTimeSharing:  true,
			BucketTimestamp:  "start",
			Series: []SeriesConfig{
				{
					Name:        "value",
					Source:      SourceCSV,
					Path:        "./samples.csv",
					TimeColumn:  "time",
					ValueColumn: "value",
					TimeFormat:  "rfc3339",
				},
			},
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./collate.sqlite",
		},
	}
}
