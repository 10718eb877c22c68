package config

import (
	"encoding/json"
	"fmt"
	"io"
)

// legacyConfig mirrors the flat config.json layout used before the TOML format.
type legacyConfig struct {
	SourcePaths       json.RawMessage `json:"source_paths"`
	TargetPath        string          `json:"target_path"`
	SearchKeyword     string          `json:"search_keyword"`
	AllowedExtensions []string        `json:"allowed_extensions"`
	LogFilenamePrefix string          `json:"log_filename_prefix"`
}

func decodeLegacyJSON(r io.Reader, cfg *Config) error {
	var legacy legacyConfig
	if err := json.NewDecoder(r).Decode(&legacy); err != nil {
		return err
	}
	sources, err := decodeSourcePaths(legacy.SourcePaths)
	if err != nil {
		return err
	}
	cfg.Paths.SourceDirs = sources
	cfg.Paths.TargetDir = legacy.TargetPath
	cfg.Organize.SearchKeyword = legacy.SearchKeyword
	cfg.Organize.AllowedExtensions = legacy.AllowedExtensions
	if legacy.LogFilenamePrefix != "" {
		cfg.Export.LogPrefix = legacy.LogFilenamePrefix
	}
	return nil
}

// decodeSourcePaths accepts either a single path string or a list of paths.
func decodeSourcePaths(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("source_paths must be a string or a list of strings: %w", err)
	}
	return list, nil
}
