package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape of the config file. Empty fields leave the
// current value alone.
type fileConfig struct {
	StorageDSN  string `json:"storage_dsn" yaml:"storage_dsn"`
	HistoryKey  string `json:"history_key" yaml:"history_key"`
	LogLevel    string `json:"log_level" yaml:"log_level"`
	LogFormat   string `json:"log_format" yaml:"log_format"`
	MetricsFile string `json:"metrics_file" yaml:"metrics_file"`
}

// parseFile overlays cfg with the file at path. Files ending in .yaml or
// .yml are read as YAML, anything else as JSON. An empty path is a no-op.
func parseFile(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc fileConfig) apply(cfg *Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.StorageDSN, fc.StorageDSN)
	set(&cfg.HistoryKey, fc.HistoryKey)
	set(&cfg.LogLevel, fc.LogLevel)
	set(&cfg.LogFormat, fc.LogFormat)
	set(&cfg.MetricsFile, fc.MetricsFile)
}
