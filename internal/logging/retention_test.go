package logging_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"orgsort/internal/logging"
)

func TestCleanupOldLogsRemovesExpiredRunArtifacts(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().AddDate(0, 0, -10)

	files := map[string]bool{
		"orgsort_log_20200101_000000.log": true,
		"orgsort_20200101_000000.xlsx":    true,
		"orgsort_20200101_000000.csv":     true,
		"error_log_20200101_000000.log":   true,
		"other_20200101_000000.xlsx":      false,
		"orgsort_log_current.log":         false,
	}
	for name := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(path, old, old); err != nil {
			t.Fatal(err)
		}
	}
	fresh := filepath.Join(dir, "orgsort_20990101_000000.txt")
	if err := os.WriteFile(fresh, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	current := filepath.Join(dir, "orgsort_log_current.log")
	removed := logging.CleanupOldLogs(nil, 5, logging.RunArtifactTargets(dir, "orgsort", current)...)
	if removed != 4 {
		t.Fatalf("expected 4 removals, got %d", removed)
	}
	for name, shouldRemove := range files {
		_, err := os.Stat(filepath.Join(dir, name))
		if shouldRemove && !os.IsNotExist(err) {
			t.Fatalf("expected %s removed", name)
		}
		if !shouldRemove && err != nil {
			t.Fatalf("expected %s kept: %v", name, err)
		}
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatalf("fresh file removed: %v", err)
	}
}

func TestCleanupOldLogsDisabled(t *testing.T) {
	if removed := logging.CleanupOldLogs(nil, 0, logging.RetentionTarget{Dir: t.TempDir()}); removed != 0 {
		t.Fatalf("expected no removals, got %d", removed)
	}
}
