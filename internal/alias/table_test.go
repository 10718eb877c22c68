package alias_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"orgsort/internal/alias"
	"orgsort/internal/failure"
)

func makeTree(t *testing.T, dirs []string, files []string) string {
	t.Helper()
	root := t.TempDir()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(root, f), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", f, err)
		}
	}
	return root
}

func TestBuildNormalizesAndOrdersLongestFirst(t *testing.T) {
	root := makeTree(t,
		[]string{"2.ACME原：FooCo", "3.BetaCorp", "4.Alpha", "5.AlphaBeta", ".hidden", "123"},
		[]string{"6.NotADir.pdf"},
	)

	table, err := alias.Build(root, alias.BuildOptions{SkipHidden: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []string{"AlphaBeta", "BetaCorp", "Alpha", "ACME"}
	if got := table.Order(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected order: got %v want %v", got, want)
	}
	entry, ok := table.Lookup("ACME")
	if !ok || entry.DirName != "2.ACME原：FooCo" || entry.Dir != filepath.Join(root, "2.ACME原：FooCo") {
		t.Fatalf("unexpected ACME entry: %+v", entry)
	}
	if table.Len() != 4 {
		t.Fatalf("unexpected len %d", table.Len())
	}
}

func TestBuildKeepsHiddenDirectoriesByDefault(t *testing.T) {
	root := makeTree(t, []string{".ACME", "3.BetaCorp"}, nil)

	table, err := alias.Build(root, alias.BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := table.Lookup(".ACME"); !ok {
		t.Fatalf("expected .ACME alias, got %v", table.Order())
	}

	table, err = alias.Build(root, alias.BuildOptions{SkipHidden: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !reflect.DeepEqual(table.Order(), []string{"BetaCorp"}) {
		t.Fatalf("unexpected order with SkipHidden: %v", table.Order())
	}
}

func TestMatchCaseFoldedOrderUsesFoldedLength(t *testing.T) {
	// "Aßßß" folds to eight runes, longer than "Asssss".
	root := makeTree(t, []string{"1.Aßßß", "2.Asssss"}, nil)
	table, err := alias.Build(root, alias.BuildOptions{CaseInsensitive: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	entry, ok := table.Match("asssssss_invoice.pdf")
	if !ok || entry.DirName != "1.Aßßß" {
		t.Fatalf("expected folded longest alias, got %+v (%v)", entry, ok)
	}
}

func TestMatchPrefersLongestAlias(t *testing.T) {
	root := makeTree(t, []string{"1.Alpha", "2.AlphaBeta"}, nil)
	table, err := alias.Build(root, alias.BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	entry, ok := table.Match("AlphaBeta_invoice.pdf")
	if !ok || entry.Alias != "AlphaBeta" {
		t.Fatalf("expected AlphaBeta, got %+v (ok=%v)", entry, ok)
	}
	entry, ok = table.Match("Alpha_notes.pdf")
	if !ok || entry.Alias != "Alpha" {
		t.Fatalf("expected Alpha, got %+v", entry)
	}
	if _, ok := table.Match("Unknown_File.pdf"); ok {
		t.Fatal("expected no match")
	}
}

func TestMatchTieKeepsEnumerationOrder(t *testing.T) {
	table, err := alias.NewTable([]alias.Entry{
		{Alias: "Zeta", DirName: "Zeta"},
		{Alias: "Beta", DirName: "Beta"},
	}, alias.BuildOptions{})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	entry, ok := table.Match("Beta_Zeta.pdf")
	if !ok || entry.Alias != "Zeta" {
		t.Fatalf("expected first enumerated alias, got %+v", entry)
	}
}

func TestMatchCountsRunesNotBytes(t *testing.T) {
	table, err := alias.NewTable([]alias.Entry{
		{Alias: "华为", DirName: "1.华为"},
		{Alias: "Acme", DirName: "2.Acme"},
		{Alias: "华为技术", DirName: "3.华为技术"},
	}, alias.BuildOptions{})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	want := []string{"Acme", "华为技术", "华为"}
	if got := table.Order(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected order: %v", got)
	}
	entry, ok := table.Match("2024年华为技术审计报告.pdf")
	if !ok || entry.Alias != "华为技术" {
		t.Fatalf("unexpected match: %+v", entry)
	}
}

func TestMatchIsCaseSensitiveByDefault(t *testing.T) {
	table, err := alias.NewTable([]alias.Entry{{Alias: "ACME", DirName: "ACME"}}, alias.BuildOptions{})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	if _, ok := table.Match("acme_report.pdf"); ok {
		t.Fatal("expected case-sensitive miss")
	}

	folded, err := alias.NewTable([]alias.Entry{{Alias: "ACME", DirName: "ACME"}}, alias.BuildOptions{CaseInsensitive: true})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	entry, ok := folded.Match("acme_report.pdf")
	if !ok || entry.Alias != "ACME" {
		t.Fatalf("expected case-insensitive match, got %+v", entry)
	}
}

func TestCollisionFirstWins(t *testing.T) {
	root := makeTree(t, []string{"1.ACME", "2.ACME", "3.ACME原：Old"}, nil)
	table, err := alias.Build(root, alias.BuildOptions{Collision: alias.FirstWins})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	entry, ok := table.Lookup("ACME")
	if !ok || entry.DirName != "1.ACME" {
		t.Fatalf("expected first directory kept, got %+v", entry)
	}
	collisions := table.Collisions()
	if len(collisions) != 2 {
		t.Fatalf("expected 2 collisions, got %+v", collisions)
	}
	if collisions[0].Kept != "1.ACME" || collisions[0].Dropped != "2.ACME" {
		t.Fatalf("unexpected collision: %+v", collisions[0])
	}
}

func TestCollisionErrorPolicy(t *testing.T) {
	root := makeTree(t, []string{"1.ACME", "2.ACME"}, nil)
	_, err := alias.Build(root, alias.BuildOptions{Collision: alias.FailOnCollision})
	if !errors.Is(err, failure.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestBuildFailsForMissingRoot(t *testing.T) {
	_, err := alias.Build(filepath.Join(t.TempDir(), "missing"), alias.BuildOptions{})
	if !errors.Is(err, failure.ErrDirectoryAccess) {
		t.Fatalf("expected directory access error, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
}

func TestBuildFailsForFileRoot(t *testing.T) {
	root := makeTree(t, nil, []string{"plain"})
	_, err := alias.Build(filepath.Join(root, "plain"), alias.BuildOptions{})
	if !errors.Is(err, failure.ErrDirectoryAccess) {
		t.Fatalf("expected directory access error, got %v", err)
	}
}

func TestBuildFollowsDirectorySymlinks(t *testing.T) {
	outside := t.TempDir()
	root := t.TempDir()
	if err := os.Symlink(outside, filepath.Join(root, "9.Linked Co")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	table, err := alias.Build(root, alias.BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := table.Lookup("Linked Co"); !ok {
		t.Fatalf("expected symlinked directory alias, got %v", table.Order())
	}
}

func TestParseCollisionPolicy(t *testing.T) {
	if p, err := alias.ParseCollisionPolicy("error"); err != nil || p != alias.FailOnCollision {
		t.Fatalf("unexpected: %v %v", p, err)
	}
	if p, err := alias.ParseCollisionPolicy(""); err != nil || p != alias.FirstWins {
		t.Fatalf("unexpected: %v %v", p, err)
	}
	if _, err := alias.ParseCollisionPolicy("last_wins"); err == nil {
		t.Fatal("expected error")
	}
}

func TestNilTableIsEmpty(t *testing.T) {
	var table *alias.Table
	if _, ok := table.Match("anything"); ok {
		t.Fatal("nil table should never match")
	}
	if table.Len() != 0 || table.Order() != nil {
		t.Fatal("nil table should be empty")
	}
}
