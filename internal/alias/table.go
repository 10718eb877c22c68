package alias

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"orgsort/internal/failure"
	"orgsort/internal/logging"
)

// CollisionPolicy decides what happens when two directories normalize to the
// same alias.
type CollisionPolicy int

const (
	// FirstWins keeps the first directory in enumeration order and logs a warning.
	FirstWins CollisionPolicy = iota
	// FailOnCollision rejects the table with a configuration error.
	FailOnCollision
)

// ParseCollisionPolicy maps a configuration value to a CollisionPolicy.
func ParseCollisionPolicy(value string) (CollisionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "first_wins":
		return FirstWins, nil
	case "error":
		return FailOnCollision, nil
	default:
		return FirstWins, fmt.Errorf("unknown alias collision policy %q", value)
	}
}

// Entry maps one alias to the organization directory it came from.
type Entry struct {
	Alias   string
	Dir     string
	DirName string
	// Order is the enumeration index of the directory within the target root.
	Order int
}

// Collision records a directory whose alias was already taken.
type Collision struct {
	Alias   string
	Kept    string
	Dropped string
}

// BuildOptions tunes table construction.
type BuildOptions struct {
	Collision       CollisionPolicy
	CaseInsensitive bool
	// SkipHidden ignores directories whose names start with a dot.
	SkipHidden bool
	Logger          *slog.Logger
}

// Table is the alias lookup for a run. It is read-only after construction.
type Table struct {
	entries    map[string]Entry
	order      []string
	keys       []string
	collisions []Collision
	fold       bool
}

// Build lists the immediate subdirectories of root and builds the alias table.
// Symlinks to directories are followed.
func Build(root string, opts BuildOptions) (*Table, error) {
	logger := logging.NewComponentLogger(opts.Logger, "alias")

	info, err := os.Stat(root)
	if err != nil {
		return nil, failure.Wrap(failure.ErrDirectoryAccess, "alias", "stat target root", root, err)
	}
	if !info.IsDir() {
		return nil, failure.Wrap(failure.ErrDirectoryAccess, "alias", "stat target root", root+" is not a directory", nil)
	}
	dirEntries, err := os.ReadDir(root)
	if err != nil {
		return nil, failure.Wrap(failure.ErrDirectoryAccess, "alias", "list target root", root, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, dirEntry := range dirEntries {
		name := dirEntry.Name()
		if opts.SkipHidden && strings.HasPrefix(name, ".") {
			continue
		}
		full := filepath.Join(root, name)
		if !isDir(full, dirEntry) {
			continue
		}
		alias := Normalize(name)
		if alias == "" {
			logger.Debug("directory yields empty alias; ignored", logging.String("dir", name))
			continue
		}
		entries = append(entries, Entry{Alias: alias, Dir: full, DirName: name, Order: len(entries)})
	}

	table, err := NewTable(entries, opts)
	if err != nil {
		return nil, err
	}
	logger.Info("alias table built",
		logging.String("target_root", root),
		logging.Int("aliases", table.Len()),
		logging.Int("collisions", len(table.collisions)),
	)
	for _, entry := range table.Entries() {
		logger.Debug("alias", logging.String("alias", entry.Alias), logging.String("dir", entry.DirName))
	}
	return table, nil
}

// NewTable builds a table from entries given in enumeration order.
func NewTable(entries []Entry, opts BuildOptions) (*Table, error) {
	logger := logging.NewComponentLogger(opts.Logger, "alias")
	t := &Table{
		entries: make(map[string]Entry, len(entries)),
		fold:    opts.CaseInsensitive,
	}
	for i, entry := range entries {
		entry.Alias = strings.TrimSpace(entry.Alias)
		if entry.Alias == "" {
			continue
		}
		entry.Order = i
		key := t.key(entry.Alias)
		if existing, taken := t.entries[key]; taken {
			collision := Collision{Alias: entry.Alias, Kept: existing.DirName, Dropped: entry.DirName}
			if opts.Collision == FailOnCollision {
				return nil, failure.Wrap(failure.ErrConfiguration, "alias", "build table",
					fmt.Sprintf("directories %q and %q both map to alias %q; rename one of them", existing.DirName, entry.DirName, entry.Alias), nil)
			}
			t.collisions = append(t.collisions, collision)
			logging.WarnWithContext(logger, "alias collision; keeping first directory", "alias_collision",
				logging.String("alias", entry.Alias),
				logging.String("kept", existing.DirName),
				logging.String("dropped", entry.DirName),
				logging.String(logging.FieldErrorHint, "rename one of the directories so their aliases differ"),
				logging.String(logging.FieldImpact, "files matching this alias go to the kept directory"),
			)
			continue
		}
		t.entries[key] = entry
		t.keys = append(t.keys, key)
	}

	// Keys are what Match compares, and case folding can change their length.
	sort.SliceStable(t.keys, func(i, j int) bool {
		return utf8.RuneCountInString(t.keys[i]) > utf8.RuneCountInString(t.keys[j])
	})
	t.order = make([]string, len(t.keys))
	for i, key := range t.keys {
		t.order[i] = t.entries[key].Alias
	}
	return t, nil
}

// Match returns the longest alias contained in fileName.
func (t *Table) Match(fileName string) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	subject := t.key(fileName)
	for _, key := range t.keys {
		if strings.Contains(subject, key) {
			return t.entries[key], true
		}
	}
	return Entry{}, false
}

// Lookup returns the entry registered for alias.
func (t *Table) Lookup(alias string) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	entry, ok := t.entries[t.key(alias)]
	return entry, ok
}

// Order returns the aliases in match order.
func (t *Table) Order() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Entries returns the entries in match order.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, 0, len(t.keys))
	for _, key := range t.keys {
		out = append(out, t.entries[key])
	}
	return out
}

// Len returns the number of usable aliases.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Collisions returns the directories dropped because their alias was taken.
func (t *Table) Collisions() []Collision {
	if t == nil {
		return nil
	}
	out := make([]Collision, len(t.collisions))
	copy(out, t.collisions)
	return out
}

func (t *Table) key(value string) string {
	value = norm.NFC.String(value)
	if t.fold {
		return cases.Fold().String(value)
	}
	return value
}

func isDir(path string, entry os.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
