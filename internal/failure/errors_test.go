package failure_test

import (
	"errors"
	"strings"
	"testing"

	"orgsort/internal/failure"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := failure.Wrap(failure.ErrMove, "mover", "rename", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, failure.ErrMove) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"mover", "rename", "failed", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := failure.Wrap(failure.ErrConfiguration, "", "", "", nil)
	if !errors.Is(err, failure.ErrConfiguration) {
		t.Fatalf("expected configuration marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "orgsort failure") {
		t.Fatalf("expected default detail, got %q", err.Error())
	}
}

func TestKind(t *testing.T) {
	cases := []struct {
		err  error
		kind string
	}{
		{failure.Wrap(failure.ErrConfiguration, "config", "validate", "bad", nil), "configuration"},
		{failure.Wrap(failure.ErrDirectoryAccess, "alias", "list", "missing", nil), "directory_access"},
		{failure.Wrap(failure.ErrMove, "mover", "rename", "collision", nil), "move"},
		{failure.Wrap(failure.ErrExport, "export", "xlsx", "save", nil), "export"},
		{errors.New("plain"), "unknown"},
		{nil, ""},
	}
	for _, tc := range cases {
		if got := failure.Kind(tc.err); got != tc.kind {
			t.Fatalf("Kind(%v) = %q, want %q", tc.err, got, tc.kind)
		}
	}
}
