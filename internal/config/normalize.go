package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeOrganize()
	c.normalizeExport()
	c.normalizeLogging()
	if c.Watch.DebounceSeconds == 0 {
		c.Watch.DebounceSeconds = defaultWatchDebounce
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error

	if strings.TrimSpace(c.Paths.TargetDir) == "" {
		if value, ok := os.LookupEnv("ORGSORT_TARGET_DIR"); ok {
			c.Paths.TargetDir = strings.TrimSpace(value)
		}
	}
	if c.Paths.TargetDir, err = expandPath(strings.TrimSpace(c.Paths.TargetDir)); err != nil {
		return fmt.Errorf("paths.target_dir: %w", err)
	}

	raw := make([]string, 0, len(c.Paths.SourceDirs)+1)
	if single := strings.TrimSpace(c.Paths.SourceDir); single != "" {
		raw = append(raw, single)
	}
	raw = append(raw, c.Paths.SourceDirs...)
	if len(raw) == 0 {
		if value, ok := os.LookupEnv("ORGSORT_SOURCE_DIRS"); ok {
			raw = append(raw, filepath.SplitList(value)...)
		}
	}
	sources := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, dir := range raw {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		expanded, err := expandPath(dir)
		if err != nil {
			return fmt.Errorf("paths.source_dirs: %w", err)
		}
		if _, dup := seen[expanded]; dup {
			continue
		}
		seen[expanded] = struct{}{}
		sources = append(sources, expanded)
	}
	c.Paths.SourceDir = ""
	c.Paths.SourceDirs = sources

	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeOrganize() {
	c.Organize.SearchKeyword = strings.TrimSpace(c.Organize.SearchKeyword)

	exts := make([]string, 0, len(c.Organize.AllowedExtensions))
	seen := make(map[string]struct{}, len(c.Organize.AllowedExtensions))
	for _, ext := range c.Organize.AllowedExtensions {
		normalized := normalizeExtension(ext)
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		exts = append(exts, normalized)
	}
	c.Organize.AllowedExtensions = exts

	c.Organize.OnMissingSubfolder = strings.ToLower(strings.TrimSpace(c.Organize.OnMissingSubfolder))
	if c.Organize.OnMissingSubfolder == "" {
		c.Organize.OnMissingSubfolder = defaultOnMissingSubfolder
	}
	c.Organize.AliasCollision = strings.ToLower(strings.TrimSpace(c.Organize.AliasCollision))
	if c.Organize.AliasCollision == "" {
		c.Organize.AliasCollision = defaultAliasCollision
	}
}

func (c *Config) normalizeExport() {
	c.Export.LogPrefix = strings.TrimSpace(c.Export.LogPrefix)
	if c.Export.LogPrefix == "" {
		c.Export.LogPrefix = defaultLogPrefix
	}
	formats := make([]string, 0, len(c.Export.Formats))
	seen := make(map[string]struct{}, len(c.Export.Formats))
	for _, format := range c.Export.Formats {
		normalized := strings.ToLower(strings.TrimSpace(format))
		switch normalized {
		case "excel", "xls":
			normalized = FormatXLSX
		case "log", "txt":
			normalized = FormatText
		}
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		formats = append(formats, normalized)
	}
	c.Export.Formats = formats
	c.Export.Locale = strings.ToLower(strings.TrimSpace(c.Export.Locale))
	if c.Export.Locale == "" {
		c.Export.Locale = LocaleEnglish
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

// normalizeExtension lowercases ext and ensures a single leading dot.
func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	ext = strings.TrimLeft(ext, ".")
	if ext == "" {
		return ""
	}
	return "." + ext
}
