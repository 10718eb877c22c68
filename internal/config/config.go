package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"orgsort/internal/failure"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the source, target, and bookkeeping directories.
type Paths struct {
	SourceDir  string   `toml:"source_dir,omitempty"`
	SourceDirs []string `toml:"source_dirs"`
	TargetDir  string   `toml:"target_dir"`
	LogDir     string   `toml:"log_dir"`
	StateDir   string   `toml:"state_dir"`
}

// Organize contains the classification and placement rules.
type Organize struct {
	SearchKeyword      string   `toml:"search_keyword"`
	AllowedExtensions  []string `toml:"allowed_extensions"`
	OnMissingSubfolder string   `toml:"on_missing_subfolder"`
	AliasCollision     string   `toml:"alias_collision"`
	CaseInsensitive    bool     `toml:"case_insensitive"`
	RecordFiltered     bool     `toml:"record_filtered"`
	SkipHidden         bool     `toml:"skip_hidden"`
}

// Export contains audit export settings.
type Export struct {
	LogPrefix string   `toml:"log_prefix"`
	Formats   []string `toml:"formats"`
	Locale    string   `toml:"locale"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// History controls the run history database.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Watch contains settings for watch mode.
type Watch struct {
	DebounceSeconds int `toml:"debounce_seconds"`
}

// Config encapsulates all configuration values for orgsort.
//
// Configuration sections by subsystem:
//   - Paths: source roots, target root, log and state directories
//   - Organize: search keyword, extensions, fallback and collision policies
//   - Export: audit export prefix, formats, and header locale
//   - Logging: log format, level, and retention
//   - History: run history persistence
//   - Watch: watch mode debounce
type Config struct {
	Paths    Paths    `toml:"paths"`
	Organize Organize `toml:"organize"`
	Export   Export   `toml:"export"`
	Logging  Logging  `toml:"logging"`
	History  History  `toml:"history"`
	Watch    Watch    `toml:"watch"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/orgsort/config.toml")
}

// DefaultLogDir returns the expanded default log directory. It is used when
// no configuration could be loaded.
func DefaultLogDir() (string, error) {
	return expandPath(defaultLogDir)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized. Paths ending in .json are read using the
// legacy key layout.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, failure.Wrap(failure.ErrConfiguration, "config", "open", resolvedPath, err)
		}
		defer file.Close()

		if strings.EqualFold(filepath.Ext(resolvedPath), ".json") {
			if err := decodeLegacyJSON(file, &cfg); err != nil {
				return nil, "", false, failure.Wrap(failure.ErrConfiguration, "config", "parse legacy json", resolvedPath, err)
			}
		} else {
			decoder := toml.NewDecoder(file)
			if err := decoder.Decode(&cfg); err != nil {
				return nil, "", false, failure.Wrap(failure.ErrConfiguration, "config", "parse", resolvedPath, err)
			}
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, failure.Wrap(failure.ErrConfiguration, "config", "normalize", "", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, failure.Wrap(failure.ErrConfiguration, "config", "resolve path", path, err)
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, failure.Wrap(failure.ErrConfiguration, "config", "resolve path", "config file not found: "+expanded, nil)
			}
			return "", false, failure.Wrap(failure.ErrConfiguration, "config", "stat", expanded, err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("orgsort.toml")
	if err != nil {
		return "", false, err
	}

	legacyPath, err := filepath.Abs("config.json")
	if err != nil {
		return "", false, err
	}

	for _, candidate := range []string{defaultPath, projectPath, legacyPath} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true, nil
		}
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log and state directories. Source and target
// roots are never created: a missing target root is a run failure.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.StateDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return failure.Wrap(failure.ErrConfiguration, "config", "create directory", dir, err)
		}
	}
	return nil
}

// SourceRoots returns the configured source directories in order.
func (c *Config) SourceRoots() []string {
	out := make([]string, len(c.Paths.SourceDirs))
	copy(out, c.Paths.SourceDirs)
	return out
}

// AllowsExtension reports whether ext (with or without leading dot, any case) is allowed.
func (c *Config) AllowsExtension(ext string) bool {
	normalized := normalizeExtension(ext)
	if normalized == "" {
		return false
	}
	for _, allowed := range c.Organize.AllowedExtensions {
		if allowed == normalized {
			return true
		}
	}
	return false
}

// LockPath returns the run lock location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "orgsort.lock")
}

// HistoryPath returns the run history database location.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
