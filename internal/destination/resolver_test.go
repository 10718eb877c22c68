package destination_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"orgsort/internal/destination"
	"orgsort/internal/failure"
)

func mkdirs(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.MkdirAll(filepath.Join(root, name), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", name, err)
		}
	}
}

func TestResolveFindsFirstMatchingSubfolder(t *testing.T) {
	org := t.TempDir()
	mkdirs(t, org, "01 Contracts", "02 Reports 2023", "03 Reports 2024")
	if err := os.WriteFile(filepath.Join(org, "00 Reports.pdf"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := destination.NewResolver(destination.UseRoot, false, nil)
	res, err := r.Resolve(org, "Reports")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Dir != filepath.Join(org, "02 Reports 2023") || res.Subfolder != "02 Reports 2023" || res.Created {
		t.Fatalf("unexpected resolution: %+v", res)
	}
}

func TestResolveUseRootFallback(t *testing.T) {
	org := t.TempDir()
	mkdirs(t, org, "Contracts")
	r := destination.NewResolver(destination.UseRoot, false, nil)
	res, err := r.Resolve(org, "Reports")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Dir != org || res.Subfolder != "" || res.Created {
		t.Fatalf("expected organization root, got %+v", res)
	}
	if _, err := os.Stat(filepath.Join(org, "Reports")); !os.IsNotExist(err) {
		t.Fatal("use_root must not create directories")
	}
}

func TestResolveCreateIsIdempotent(t *testing.T) {
	org := t.TempDir()
	r := destination.NewResolver(destination.Create, false, nil)

	first, err := r.Resolve(org, "Reports")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !first.Created || first.Dir != filepath.Join(org, "Reports") {
		t.Fatalf("expected created subfolder, got %+v", first)
	}

	second, err := r.Resolve(org, "Reports")
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if second.Created || second.Dir != first.Dir {
		t.Fatalf("expected existing subfolder reused, got %+v", second)
	}

	entries, err := os.ReadDir(org)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one directory, got %d", len(entries))
	}
}

func TestResolveDryRunDoesNotCreate(t *testing.T) {
	org := t.TempDir()
	r := destination.NewResolver(destination.Create, true, nil)
	res, err := r.Resolve(org, "Reports")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.Planned || res.Created || res.Dir != filepath.Join(org, "Reports") {
		t.Fatalf("unexpected dry-run resolution: %+v", res)
	}
	if _, err := os.Stat(res.Dir); !os.IsNotExist(err) {
		t.Fatal("dry run must not create directories")
	}
}

func TestResolveEmptyKeywordUsesRoot(t *testing.T) {
	org := t.TempDir()
	r := destination.NewResolver(destination.Create, false, nil)
	res, err := r.Resolve(org, "  ")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Dir != org || res.Created {
		t.Fatalf("unexpected resolution: %+v", res)
	}
}

func TestResolveMissingOrganizationDir(t *testing.T) {
	r := destination.NewResolver(destination.UseRoot, false, nil)
	_, err := r.Resolve(filepath.Join(t.TempDir(), "gone"), "Reports")
	if !errors.Is(err, failure.ErrDirectoryAccess) {
		t.Fatalf("expected directory access error, got %v", err)
	}
}

func TestResolveCreateBlockedByFile(t *testing.T) {
	org := t.TempDir()
	if err := os.WriteFile(filepath.Join(org, "Report"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := destination.NewResolver(destination.Create, false, nil)
	_, err := r.Resolve(org, "Report")
	if !errors.Is(err, failure.ErrDirectoryAccess) {
		t.Fatalf("expected directory access error, got %v", err)
	}
}

func TestParsePolicy(t *testing.T) {
	cases := map[string]destination.Policy{"": destination.UseRoot, "use_root": destination.UseRoot, "CREATE": destination.Create}
	for in, want := range cases {
		got, err := destination.ParsePolicy(in)
		if err != nil || got != want {
			t.Fatalf("ParsePolicy(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := destination.ParsePolicy("maybe"); err == nil {
		t.Fatal("expected error")
	}
	if destination.Create.String() != "create" || destination.UseRoot.String() != "use_root" {
		t.Fatal("unexpected policy names")
	}
}
