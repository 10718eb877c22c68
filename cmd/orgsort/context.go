package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"orgsort/internal/config"
	"orgsort/internal/history"
	"orgsort/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(c.flagPath())
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
		c.configSeen = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) flagPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

// consoleLogger logs to w using the configured format and level.
func (c *commandContext) consoleLogger(w io.Writer) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFromConfig(cfg, w)
}

// runLogger logs to w and to a fresh run log file.
func (c *commandContext) runLogger(w io.Writer, started time.Time) (*logging.RunLogger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	return logging.NewRunLogger(cfg, started, w)
}

// openHistory returns nil when history is disabled. Open failures are logged
// and treated as disabled so a broken database never blocks a run.
func (c *commandContext) openHistory(logger *slog.Logger) *history.Store {
	cfg, err := c.ensureConfig()
	if err != nil || !cfg.History.Enabled {
		return nil
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		logging.WarnWithContext(logger, "run history unavailable", "history_open_failed",
			logging.String("path", cfg.HistoryPath()),
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run will not appear in 'orgsort history'"),
		)
		return nil
	}
	return store
}

// requireHistory opens the history store for read commands.
func (c *commandContext) requireHistory() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, fmt.Errorf("run history is disabled (history.enabled = false)")
	}
	return history.Open(cfg.HistoryPath())
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// writesErrorLog reports whether cmd leaves an error log when it cannot start.
func writesErrorLog(cmd *cobra.Command) bool {
	return cmd.Annotations != nil && cmd.Annotations["errorLog"] == "true"
}

// recordStartupFailure writes err to an error log in the default log
// directory, since no configured log directory is known.
func (c *commandContext) recordStartupFailure(cmd *cobra.Command, err error) {
	dir, dirErr := config.DefaultLogDir()
	if dirErr != nil {
		return
	}
	path, writeErr := logging.WriteErrorLog(dir, time.Now(), err)
	if writeErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not write error log: %v\n", writeErr)
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error details written to %s\n", path)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
