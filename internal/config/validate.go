package config

import (
	"fmt"
	"strings"

	"orgsort/internal/failure"
)

// Validate ensures the configuration is usable. Every returned error carries
// failure.ErrConfiguration.
func (c *Config) Validate() error {
	for _, check := range []func() error{
		c.validatePaths,
		c.validateOrganize,
		c.validateExport,
		c.validateWatch,
	} {
		if err := check(); err != nil {
			return failure.Wrap(failure.ErrConfiguration, "config", "validate", err.Error(), nil)
		}
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.TargetDir) == "" {
		return fmt.Errorf("paths.target_dir is required. Set ORGSORT_TARGET_DIR or edit %s (create with 'orgsort config init')", defaultPathHint())
	}
	if len(c.Paths.SourceDirs) == 0 {
		return fmt.Errorf("paths.source_dirs must include at least one directory. Set ORGSORT_SOURCE_DIRS or edit %s", defaultPathHint())
	}
	for _, src := range c.Paths.SourceDirs {
		if src == c.Paths.TargetDir {
			return fmt.Errorf("paths.source_dirs entry %q must differ from paths.target_dir", src)
		}
	}
	return nil
}

func (c *Config) validateOrganize() error {
	if len(c.Organize.AllowedExtensions) == 0 {
		return fmt.Errorf("organize.allowed_extensions must include at least one extension")
	}
	switch c.Organize.OnMissingSubfolder {
	case SubfolderUseRoot, SubfolderCreate:
	default:
		return fmt.Errorf("organize.on_missing_subfolder must be %q or %q, got %q", SubfolderUseRoot, SubfolderCreate, c.Organize.OnMissingSubfolder)
	}
	if c.Organize.OnMissingSubfolder == SubfolderCreate && c.Organize.SearchKeyword == "" {
		return fmt.Errorf("organize.search_keyword must be set when organize.on_missing_subfolder is %q", SubfolderCreate)
	}
	if strings.ContainsAny(c.Organize.SearchKeyword, `/\`) {
		return fmt.Errorf("organize.search_keyword must not contain path separators")
	}
	switch c.Organize.AliasCollision {
	case CollisionFirstWins, CollisionError:
	default:
		return fmt.Errorf("organize.alias_collision must be %q or %q, got %q", CollisionFirstWins, CollisionError, c.Organize.AliasCollision)
	}
	return nil
}

func (c *Config) validateExport() error {
	if strings.ContainsAny(c.Export.LogPrefix, `/\`) {
		return fmt.Errorf("export.log_prefix must not contain path separators")
	}
	for _, format := range c.Export.Formats {
		switch format {
		case FormatXLSX, FormatCSV, FormatText:
		default:
			return fmt.Errorf("export.formats: unsupported format %q", format)
		}
	}
	switch c.Export.Locale {
	case LocaleEnglish, LocaleChinese:
	default:
		return fmt.Errorf("export.locale must be %q or %q, got %q", LocaleEnglish, LocaleChinese, c.Export.Locale)
	}
	return nil
}

func (c *Config) validateWatch() error {
	if c.Watch.DebounceSeconds <= 0 {
		return fmt.Errorf("watch.debounce_seconds must be positive")
	}
	return nil
}

func defaultPathHint() string {
	path, err := DefaultConfigPath()
	if err != nil {
		return "~/.config/orgsort/config.toml"
	}
	return path
}
