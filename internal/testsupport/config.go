package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"orgsort/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The source and target roots exist; log and state directories do not.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.SourceDirs = []string{filepath.Join(base, "inbox")}
	cfgVal.Paths.TargetDir = filepath.Join(base, "companies")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Organize.AllowedExtensions = []string{".pdf", ".xlsx", ".docx"}
	cfgVal.Organize.SearchKeyword = "Reports"
	cfgVal.Export.Formats = []string{config.FormatCSV}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	for _, dir := range append(builder.cfg.SourceRoots(), builder.cfg.Paths.TargetDir) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	return builder.cfg
}

// WithKeyword overrides the subfolder search keyword.
func WithKeyword(keyword string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.SearchKeyword = keyword
	}
}

// WithSubfolderPolicy sets organize.on_missing_subfolder.
func WithSubfolderPolicy(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.OnMissingSubfolder = policy
	}
}

// WithExtensions replaces the allowed extensions.
func WithExtensions(exts ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.AllowedExtensions = exts
	}
}

// WithRecordFiltered enables records for filtered files.
func WithRecordFiltered() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.RecordFiltered = true
	}
}

// WithSkipHidden ignores dot-files and dot-directories.
func WithSkipHidden() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.SkipHidden = true
	}
}

// WithExtraSource appends another source root named name under the base dir.
func WithExtraSource(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.SourceDirs = append(b.cfg.Paths.SourceDirs, filepath.Join(b.baseDir, name))
	}
}

// WithFormats sets the export formats.
func WithFormats(formats ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Export.Formats = formats
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.TargetDir)
}

// SourceDir returns the first source root.
func SourceDir(cfg *config.Config) string {
	return cfg.Paths.SourceDirs[0]
}
