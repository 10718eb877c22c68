package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"orgsort/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckDirectoryAccess_Empty(t *testing.T) {
	if result := CheckDirectoryAccess("test", ""); result.Passed || result.Detail != "not configured" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestRunAll(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.TargetDir = filepath.Join(base, "target")
	cfg.Paths.SourceDirs = []string{filepath.Join(base, "inbox"), filepath.Join(base, "missing")}
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	for _, dir := range []string{cfg.Paths.TargetDir, cfg.Paths.SourceDirs[0], cfg.Paths.LogDir, cfg.Paths.StateDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	results := RunAll(&cfg)
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	if results[2].Passed || !results[2].Optional {
		t.Fatalf("missing source root should fail as optional: %+v", results[2])
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("expected no required failures, got %+v", failed)
	}

	if err := os.RemoveAll(cfg.Paths.TargetDir); err != nil {
		t.Fatal(err)
	}
	failed := Failed(RunAll(&cfg))
	if len(failed) != 1 || failed[0].Name != "Target root" {
		t.Fatalf("expected target failure, got %+v", failed)
	}
}

func TestRunAllNilConfig(t *testing.T) {
	if RunAll(nil) != nil {
		t.Fatal("expected nil results for nil config")
	}
}
