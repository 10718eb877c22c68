// Package destination picks the directory inside an organization folder that
// receives a classified file.
package destination

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"orgsort/internal/failure"
	"orgsort/internal/logging"
)

// Policy decides what happens when no subfolder contains the search keyword.
type Policy int

const (
	// UseRoot places files directly in the organization directory.
	UseRoot Policy = iota
	// Create makes a subfolder named exactly as the keyword.
	Create
)

func (p Policy) String() string {
	if p == Create {
		return "create"
	}
	return "use_root"
}

// ParsePolicy maps a configuration value to a Policy.
func ParsePolicy(value string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "use_root":
		return UseRoot, nil
	case "create":
		return Create, nil
	default:
		return UseRoot, fmt.Errorf("unknown subfolder policy %q", value)
	}
}

// Resolution describes where a file should go.
type Resolution struct {
	Dir string
	// Subfolder is the name of the matched or created subfolder; empty when
	// the organization root is used.
	Subfolder string
	Created   bool
	// Planned is set in dry-run mode when Dir would have been created.
	Planned bool
}

// Resolver locates keyword subfolders.
type Resolver struct {
	policy Policy
	dryRun bool
	logger *slog.Logger
}

// NewResolver constructs a resolver. In dry-run mode directories are never created.
func NewResolver(policy Policy, dryRun bool, logger *slog.Logger) *Resolver {
	return &Resolver{policy: policy, dryRun: dryRun, logger: logging.NewComponentLogger(logger, "destination")}
}

// Policy returns the configured fallback policy.
func (r *Resolver) Policy() Policy {
	return r.policy
}

// Resolve returns the first immediate subdirectory of orgDir (lexical order)
// whose name contains keyword, or applies the fallback policy. An empty
// keyword resolves to orgDir.
func (r *Resolver) Resolve(orgDir, keyword string) (Resolution, error) {
	keyword = norm.NFC.String(strings.TrimSpace(keyword))
	if keyword == "" {
		return Resolution{Dir: orgDir}, nil
	}

	entries, err := os.ReadDir(orgDir)
	if err != nil {
		return Resolution{}, failure.Wrap(failure.ErrDirectoryAccess, "destination", "list organization dir", orgDir, err)
	}
	for _, entry := range entries {
		full := filepath.Join(orgDir, entry.Name())
		if !isDir(full, entry) {
			continue
		}
		if strings.Contains(norm.NFC.String(entry.Name()), keyword) {
			r.logger.Debug("keyword subfolder found",
				logging.String("org_dir", filepath.Base(orgDir)),
				logging.String("subfolder", entry.Name()),
			)
			return Resolution{Dir: full, Subfolder: entry.Name()}, nil
		}
	}

	if r.policy == UseRoot {
		r.logger.Debug("no keyword subfolder; using organization root",
			logging.Args(logging.DecisionAttrs("subfolder_fallback", "use_root", "no subfolder contains "+keyword)...)...,
		)
		return Resolution{Dir: orgDir}, nil
	}

	target := filepath.Join(orgDir, keyword)
	if r.dryRun {
		return Resolution{Dir: target, Subfolder: keyword, Planned: true}, nil
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return Resolution{}, failure.Wrap(failure.ErrDirectoryAccess, "destination", "create keyword subfolder", target, err)
	}
	r.logger.Info("keyword subfolder created",
		logging.String("org_dir", filepath.Base(orgDir)),
		logging.String("subfolder", keyword),
	)
	return Resolution{Dir: target, Subfolder: keyword, Created: true}, nil
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
