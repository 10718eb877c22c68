package mover

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"orgsort/internal/failure"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestMoveRelocatesFile(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src", "ACME_Report.pdf")
	dest := filepath.Join(root, "2.ACME")
	writeFile(t, src, "report")
	if err := os.MkdirAll(dest, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := New(false, nil).Move(src, dest, "")
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if got != filepath.Join(dest, "ACME_Report.pdf") {
		t.Fatalf("unexpected destination %q", got)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatal("source should be gone after move")
	}
	data, err := os.ReadFile(got)
	if err != nil || string(data) != "report" {
		t.Fatalf("moved content = %q, %v", data, err)
	}
}

func TestMoveNeverOverwrites(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src", "ACME_Report.pdf")
	dest := filepath.Join(root, "2.ACME")
	writeFile(t, src, "new")
	writeFile(t, filepath.Join(dest, "ACME_Report.pdf"), "old")

	_, err := New(false, nil).Move(src, dest, "")
	if !errors.Is(err, failure.ErrMove) {
		t.Fatalf("expected move error, got %v", err)
	}
	if !errors.Is(err, ErrDestinationExists) || !errors.Is(err, os.ErrExist) {
		t.Fatalf("expected exists cause, got %v", err)
	}
	data, _ := os.ReadFile(filepath.Join(dest, "ACME_Report.pdf"))
	if string(data) != "old" {
		t.Fatalf("existing file modified: %q", data)
	}
	data, _ = os.ReadFile(src)
	if string(data) != "new" {
		t.Fatalf("source modified: %q", data)
	}
}

func TestMoveDryRunLeavesFilesystem(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src", "ACME_Report.pdf")
	dest := filepath.Join(root, "2.ACME")
	writeFile(t, src, "report")
	if err := os.MkdirAll(dest, 0o755); err != nil {
		t.Fatal(err)
	}

	m := New(true, nil)
	if !m.DryRun() {
		t.Fatal("expected dry-run mover")
	}
	got, err := m.Move(src, dest, "")
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if got != filepath.Join(dest, "ACME_Report.pdf") {
		t.Fatalf("unexpected destination %q", got)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatal("dry run must keep the source")
	}
	if _, err := os.Stat(got); !os.IsNotExist(err) {
		t.Fatal("dry run must not create the destination")
	}
}

func TestMoveDryRunReportsCollision(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src", "a.pdf")
	dest := filepath.Join(root, "org")
	writeFile(t, src, "x")
	writeFile(t, filepath.Join(dest, "a.pdf"), "y")

	if _, err := New(true, nil).Move(src, dest, ""); !errors.Is(err, os.ErrExist) {
		t.Fatalf("expected collision in dry run, got %v", err)
	}
}

func TestMoveMissingDestinationDir(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "a.pdf")
	writeFile(t, src, "x")

	_, err := New(false, nil).Move(src, filepath.Join(root, "missing"), "")
	if !errors.Is(err, failure.ErrMove) {
		t.Fatalf("expected move error, got %v", err)
	}
	if _, statErr := os.Stat(src); statErr != nil {
		t.Fatal("source should remain after failed move")
	}
}

func TestRenameCheckedRefusesExisting(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "a")
	dst := filepath.Join(root, "b")
	writeFile(t, src, "a")
	writeFile(t, dst, "b")
	if err := renameChecked(src, dst); !errors.Is(err, os.ErrExist) {
		t.Fatalf("expected exists error, got %v", err)
	}
}

func TestMoveWithExplicitName(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "a.pdf")
	dest := filepath.Join(root, "org")
	writeFile(t, src, "x")
	if err := os.MkdirAll(dest, 0o755); err != nil {
		t.Fatal(err)
	}
	got, err := New(false, nil).Move(src, dest, "b.pdf")
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if got != filepath.Join(dest, "b.pdf") {
		t.Fatalf("unexpected destination %q", got)
	}
}

func simulateCrossDevice(t *testing.T, before func(src, dst string)) {
	t.Helper()
	original := renameFile
	renameFile = func(src, dst string) error {
		if before != nil {
			before(src, dst)
		}
		return &os.LinkError{Op: "renameat2", Old: src, New: dst, Err: syscall.EXDEV}
	}
	t.Cleanup(func() { renameFile = original })
}

func TestMoveCopiesAcrossDevices(t *testing.T) {
	simulateCrossDevice(t, nil)
	root := t.TempDir()
	src := filepath.Join(root, "src", "ACME_Report.pdf")
	dest := filepath.Join(root, "2.ACME")
	writeFile(t, src, "quarterly numbers")
	if err := os.MkdirAll(dest, 0o755); err != nil {
		t.Fatal(err)
	}
	mtime := time.Date(2023, 6, 1, 8, 30, 0, 0, time.UTC)
	if err := os.Chtimes(src, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	got, err := New(false, nil).Move(src, dest, "")
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	data, err := os.ReadFile(got)
	if err != nil || string(data) != "quarterly numbers" {
		t.Fatalf("unexpected destination content %q (%v)", data, err)
	}
	info, err := os.Stat(got)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(mtime) {
		t.Fatalf("mtime not preserved: %v", info.ModTime())
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatal("source should be removed after cross-device copy")
	}
}

func TestMoveAcrossDevicesNeverOverwrites(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src", "ACME_Report.pdf")
	dest := filepath.Join(root, "2.ACME")
	writeFile(t, src, "new")
	if err := os.MkdirAll(dest, 0o755); err != nil {
		t.Fatal(err)
	}
	// The destination appears after the existence check, before the copy.
	simulateCrossDevice(t, func(_, dst string) {
		if err := os.WriteFile(dst, []byte("old"), 0o644); err != nil {
			t.Errorf("write racing destination: %v", err)
		}
	})

	_, err := New(false, nil).Move(src, dest, "")
	if !errors.Is(err, ErrDestinationExists) || !errors.Is(err, failure.ErrMove) {
		t.Fatalf("expected destination-exists move error, got %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dest, "ACME_Report.pdf"))
	if err != nil || string(data) != "old" {
		t.Fatalf("existing destination changed: %q (%v)", data, err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("source should be untouched: %v", err)
	}
}

func TestMoveDryRunReportsPlannedCollision(t *testing.T) {
	root := t.TempDir()
	first := filepath.Join(root, "inbox", "ACME_Report.pdf")
	second := filepath.Join(root, "scans", "ACME_Report.pdf")
	dest := filepath.Join(root, "2.ACME")
	writeFile(t, first, "a")
	writeFile(t, second, "b")
	if err := os.MkdirAll(dest, 0o755); err != nil {
		t.Fatal(err)
	}

	m := New(true, nil)
	if _, err := m.Move(first, dest, ""); err != nil {
		t.Fatalf("first planned move: %v", err)
	}
	if _, err := m.Move(second, dest, ""); !errors.Is(err, ErrDestinationExists) {
		t.Fatalf("expected planned collision, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "ACME_Report.pdf")); !os.IsNotExist(err) {
		t.Fatal("dry run must not create the destination")
	}
}
