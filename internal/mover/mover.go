// Package mover relocates files into organization directories without ever
// replacing an existing file.
package mover

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"orgsort/internal/failure"
	"orgsort/internal/fileutil"
	"orgsort/internal/logging"
)

// ErrDestinationExists marks a move refused because the target is occupied.
var ErrDestinationExists = fmt.Errorf("destination already exists: %w", os.ErrExist)

// renameFile is the no-replace rename primitive; tests swap it to simulate
// cross-device moves.
var renameFile = renameNoReplace

// Mover moves files, or only validates the move in dry-run mode.
type Mover struct {
	dryRun bool
	logger *slog.Logger

	// planned holds dry-run targets so a plan reports the collisions a real
	// run would hit.
	mu      sync.Mutex
	planned map[string]struct{}
}

// New constructs a mover.
func New(dryRun bool, logger *slog.Logger) *Mover {
	return &Mover{dryRun: dryRun, logger: logging.NewComponentLogger(logger, "mover")}
}

// DryRun reports whether the mover leaves the filesystem untouched.
func (m *Mover) DryRun() bool {
	return m.dryRun
}

// Move places src inside destDir as name (the source base name when empty)
// and returns the final path. An existing entry at the destination is never
// replaced; the attempt fails with a move error wrapping ErrDestinationExists.
func (m *Mover) Move(src, destDir, name string) (string, error) {
	if name == "" {
		name = filepath.Base(src)
	}
	target := filepath.Join(destDir, name)

	exists, err := fileutil.Exists(target)
	if err != nil {
		return "", failure.Wrap(failure.ErrMove, "mover", "check destination", target, err)
	}
	if exists {
		return "", destinationExists(target)
	}
	if m.dryRun {
		return m.plan(src, target)
	}

	renameErr := renameFile(src, target)
	if renameErr == nil {
		return target, nil
	}
	if errors.Is(renameErr, os.ErrExist) {
		return "", destinationExists(target)
	}
	var linkErr *os.LinkError
	if !errors.As(renameErr, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
		return "", failure.Wrap(failure.ErrMove, "mover", "rename file", target, renameErr)
	}

	if err := fileutil.CopyFileExclusive(src, target); err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", destinationExists(target)
		}
		return "", failure.Wrap(failure.ErrMove, "mover", "copy across filesystems", target, err)
	}
	if err := os.Remove(src); err != nil {
		logging.WarnWithContext(m.logger, "failed to remove source after copy; duplicate file remains", "move_source_cleanup_failed",
			logging.String("source", src),
			logging.String("destination", target),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete the source file manually"),
			logging.String(logging.FieldImpact, "file exists in both locations"),
		)
	}
	m.logger.Debug("moved across filesystems", logging.String("destination", target))
	return target, nil
}

func (m *Mover) plan(src, target string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.planned[target]; taken {
		return "", destinationExists(target)
	}
	if _, err := os.Stat(src); err != nil {
		return "", failure.Wrap(failure.ErrMove, "mover", "check source", src, err)
	}
	if m.planned == nil {
		m.planned = make(map[string]struct{})
	}
	m.planned[target] = struct{}{}
	return target, nil
}

func destinationExists(target string) error {
	return failure.Wrap(failure.ErrMove, "mover", "check destination", target, ErrDestinationExists)
}
