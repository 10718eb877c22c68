package organizer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"orgsort/internal/alias"
	"orgsort/internal/audit"
	"orgsort/internal/config"
	"orgsort/internal/destination"
	"orgsort/internal/export"
	"orgsort/internal/failure"
	"orgsort/internal/history"
	"orgsort/internal/logging"
	"orgsort/internal/mover"
)

// FileMover relocates a file into a directory without overwriting.
type FileMover interface {
	Move(src, destDir, name string) (string, error)
}

// RunStore persists completed runs.
type RunStore interface {
	SaveRun(ctx context.Context, run history.Run, records []audit.Record) error
}

// Options configure a run. Zero values select the defaults derived from the
// configuration.
type Options struct {
	// DryRun classifies and resolves without touching the filesystem. Dry
	// runs are neither exported nor persisted.
	DryRun    bool
	Mover     FileMover
	Exporters []export.Exporter
	// History is optional; nil disables persistence.
	History RunStore
	Clock   func() time.Time
}

// Result is the outcome of a run.
type Result struct {
	RunID        string         `json:"run_id"`
	StartedAt    time.Time      `json:"started_at"`
	FinishedAt   time.Time      `json:"finished_at"`
	DryRun       bool           `json:"dry_run"`
	Summary      audit.Summary  `json:"summary"`
	Records      []audit.Record `json:"records"`
	Exports      []string       `json:"exports,omitempty"`
	ExportErrors []error        `json:"-"`
	Interrupted  bool           `json:"interrupted"`
}

// Organizer moves files from the source roots into organization directories.
type Organizer struct {
	cfg       *config.Config
	logger    *slog.Logger
	dryRun    bool
	mover     FileMover
	resolver  *destination.Resolver
	exporters []export.Exporter
	history   RunStore
	clock     func() time.Time
}

// New constructs an organizer for cfg. The configuration is validated here so
// a bad config fails before any run starts.
func New(cfg *config.Config, logger *slog.Logger, opts Options) (*Organizer, error) {
	if cfg == nil {
		return nil, failure.Wrap(failure.ErrConfiguration, "organizer", "init", "config is nil", nil)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, err := destination.ParsePolicy(cfg.Organize.OnMissingSubfolder)
	if err != nil {
		return nil, failure.Wrap(failure.ErrConfiguration, "organizer", "init", "", err)
	}

	componentLogger := logging.NewComponentLogger(logger, "organizer")
	o := &Organizer{
		cfg:       cfg,
		logger:    componentLogger,
		dryRun:    opts.DryRun,
		mover:     opts.Mover,
		resolver:  destination.NewResolver(policy, opts.DryRun, logger),
		exporters: opts.Exporters,
		history:   opts.History,
		clock:     opts.Clock,
	}
	if o.mover == nil {
		o.mover = mover.New(opts.DryRun, logger)
	}
	if o.exporters == nil && !opts.DryRun {
		exporters, err := export.FromConfig(cfg)
		if err != nil {
			return nil, err
		}
		o.exporters = exporters
	}
	if o.clock == nil {
		o.clock = time.Now
	}
	return o, nil
}

// BuildTable builds the alias table for the configured target root.
func BuildTable(cfg *config.Config, logger *slog.Logger) (*alias.Table, error) {
	policy, err := alias.ParseCollisionPolicy(cfg.Organize.AliasCollision)
	if err != nil {
		return nil, failure.Wrap(failure.ErrConfiguration, "organizer", "parse collision policy", "", err)
	}
	return alias.Build(cfg.Paths.TargetDir, alias.BuildOptions{
		Collision:       policy,
		CaseInsensitive: cfg.Organize.CaseInsensitive,
		SkipHidden:      cfg.Organize.SkipHidden,
		Logger:          logger,
	})
}

// Run executes one pass. Fatal errors are returned before any file is
// touched; per-file problems are recorded and the run continues. Cancelling
// ctx stops the walk between files and returns the partial result.
func (o *Organizer) Run(ctx context.Context) (*Result, error) {
	started := o.clock()
	runID := uuid.NewString()
	logger := o.logger.With(logging.String(logging.FieldRunID, runID))

	if err := o.cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	lock := flock.New(o.cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return nil, failure.Wrap(failure.ErrConfiguration, "organizer", "acquire run lock", o.cfg.LockPath(), err)
	}
	if !locked {
		return nil, failure.Wrap(failure.ErrConfiguration, "organizer", "acquire run lock",
			fmt.Sprintf("another run holds %s", o.cfg.LockPath()), nil)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	table, err := BuildTable(o.cfg, logger)
	if err != nil {
		return nil, err
	}
	if table.Len() == 0 {
		logging.WarnWithContext(logger, "target root has no organization folders", "alias_table_empty",
			logging.String("target_root", o.cfg.Paths.TargetDir),
			logging.String(logging.FieldErrorHint, "create one directory per organization under target_dir"),
			logging.String(logging.FieldImpact, "every file will be skipped"),
		)
	}

	logger.Info("run started",
		logging.Bool("dry_run", o.dryRun),
		logging.Strings("source_roots", o.cfg.SourceRoots()),
		logging.String("target_root", o.cfg.Paths.TargetDir),
		logging.String("keyword", o.cfg.Organize.SearchKeyword),
		logging.Int("aliases", table.Len()),
	)

	var trail audit.Trail
	interrupted := false
walk:
	for _, root := range o.cfg.SourceRoots() {
		entries, err := os.ReadDir(root)
		if err != nil {
			wrapped := failure.Wrap(failure.ErrDirectoryAccess, "organizer", "list source root", root, err)
			logging.ErrorWithContext(logger, "source root unavailable; skipped", "source_root_unavailable",
				logging.String("source_root", root),
				logging.Error(wrapped),
				logging.String(logging.FieldErrorHint, "check that the source directory exists and is readable"),
			)
			continue
		}
		for _, entry := range entries {
			if ctx.Err() != nil {
				interrupted = true
				break walk
			}
			if rec, ok := o.processEntry(logger, table, root, entry); ok {
				trail.Append(rec)
			}
		}
	}
	if interrupted {
		logger.Warn("run interrupted; remaining files left in place", logging.Error(ctx.Err()))
	}

	result := &Result{
		RunID:       runID,
		StartedAt:   started,
		FinishedAt:  o.clock(),
		DryRun:      o.dryRun,
		Records:     trail.Records(),
		Interrupted: interrupted,
	}
	result.Summary = audit.Summarize(result.Records)

	if !o.dryRun {
		o.publish(logger, result)
	}

	logger.Info("run finished",
		logging.Int("total", result.Summary.Total),
		logging.Int("succeeded", result.Summary.Succeeded),
		logging.Int("not_succeeded", result.Summary.NotSucceeded()),
		logging.Int("filtered", result.Summary.Filtered),
		logging.Duration("elapsed", result.FinishedAt.Sub(started)),
	)
	return result, nil
}

func (o *Organizer) processEntry(logger *slog.Logger, table *alias.Table, root string, entry os.DirEntry) (audit.Record, bool) {
	path := filepath.Join(root, entry.Name())
	name := entry.Name()
	if entry.IsDir() {
		return audit.Record{}, false
	}

	// Filters look only at the name so unreadable entries of the wrong type
	// stay out of the trail.
	rec := audit.NewRecord(path, o.clock())
	if o.cfg.Organize.SkipHidden && strings.HasPrefix(name, ".") {
		return o.filtered(logger, rec, audit.RemarkHidden)
	}
	if !o.cfg.AllowsExtension(rec.Extension) {
		return o.filtered(logger, rec, audit.RemarkFiltered)
	}

	info, err := os.Stat(path)
	if err != nil {
		rec.Status = audit.StatusFailed
		rec.Remark = audit.UnreadableRemark(err)
		logger.Error("cannot stat source file", logging.String("file", name), logging.Error(err))
		return rec, true
	}
	if info.IsDir() || !info.Mode().IsRegular() {
		return audit.Record{}, false
	}

	match, ok := table.Match(name)
	if !ok {
		rec.Status = audit.StatusSkipped
		rec.Remark = audit.RemarkNoMatch
		logger.Info("no organization matched", logging.String("file", name))
		return rec, true
	}
	rec.MatchedAlias = match.Alias

	resolved, err := o.resolver.Resolve(match.Dir, o.cfg.Organize.SearchKeyword)
	if err != nil {
		return o.failed(logger, rec, err), true
	}
	dest, err := o.mover.Move(path, resolved.Dir, name)
	if err != nil {
		rec.DestinationPath = resolved.Dir
		return o.failed(logger, rec, err), true
	}

	rec.Status = audit.StatusSuccess
	rec.DestinationPath = dest
	if o.dryRun {
		rec.Remark = audit.PlannedRemark(match.DirName)
	} else {
		rec.Remark = audit.MovedRemark(match.DirName)
	}
	logger.Info("file organized",
		logging.String("file", name),
		logging.String("alias", match.Alias),
		logging.String("destination", dest),
		logging.Bool("subfolder_created", resolved.Created),
	)
	return rec, true
}

func (o *Organizer) filtered(logger *slog.Logger, rec audit.Record, remark string) (audit.Record, bool) {
	logger.Debug("file filtered", logging.String("file", rec.FileName), logging.String("reason", remark))
	if !o.cfg.Organize.RecordFiltered {
		return audit.Record{}, false
	}
	rec.Status = audit.StatusFiltered
	rec.Remark = remark
	return rec, true
}

func (o *Organizer) failed(logger *slog.Logger, rec audit.Record, err error) audit.Record {
	rec.Status = audit.StatusFailed
	rec.Remark = audit.MoveFailedRemark(err)
	logger.Error("file move failed",
		logging.String("file", rec.FileName),
		logging.String("alias", rec.MatchedAlias),
		logging.String("error_kind", failure.Kind(err)),
		logging.Error(err),
	)
	return rec
}

// publish exports and persists a finished run. Failures are logged and kept
// on the result; they never change per-file outcomes.
func (o *Organizer) publish(logger *slog.Logger, result *Result) {
	info := export.RunInfo{
		ID:       result.RunID,
		Started:  result.StartedAt,
		Finished: result.FinishedAt,
		Summary:  result.Summary,
	}
	if len(result.Records) > 0 {
		for _, exp := range o.exporters {
			path, err := exp.Export(info, result.Records)
			if err != nil {
				logging.WarnWithContext(logger, "audit export failed", "export_failed",
					logging.String("format", exp.Format()),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check log_dir permissions and free space"),
					logging.String(logging.FieldImpact, "audit trail for this run is missing in this format"),
				)
				result.ExportErrors = append(result.ExportErrors, err)
				continue
			}
			logger.Info("audit exported", logging.String("format", exp.Format()), logging.String("path", path))
			result.Exports = append(result.Exports, path)
		}
	}

	if o.history != nil {
		run := history.Run{
			ID:          result.RunID,
			StartedAt:   result.StartedAt,
			FinishedAt:  result.FinishedAt,
			TargetDir:   o.cfg.Paths.TargetDir,
			Keyword:     o.cfg.Organize.SearchKeyword,
			Summary:     result.Summary,
			Interrupted: result.Interrupted,
		}
		// The run is over; persist it even when the caller's context was cancelled.
		if err := o.history.SaveRun(context.Background(), run, result.Records); err != nil {
			wrapped := failure.Wrap(failure.ErrExport, "organizer", "save history", "", err)
			logging.WarnWithContext(logger, "run history not saved", "history_save_failed",
				logging.Error(wrapped),
				logging.String(logging.FieldImpact, "run missing from history"),
			)
			result.ExportErrors = append(result.ExportErrors, wrapped)
		}
	}

	exclude := append([]string(nil), result.Exports...)
	logging.CleanupOldLogs(logger, o.cfg.Logging.RetentionDays,
		logging.RunArtifactTargets(o.cfg.Paths.LogDir, o.cfg.Export.LogPrefix, exclude...)...)
}
