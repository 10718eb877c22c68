package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"orgsort/internal/failure"
	"orgsort/internal/logging"
	"orgsort/internal/organizer"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "run",
		Short:       "Move matching files into their organization folders",
		Annotations: map[string]string{"errorLog": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeRun(cmd, ctx, dryRun, jsonOutput)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Classify and resolve without moving or creating anything")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the run result as JSON")
	return cmd
}

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "plan",
		Short:       "Show what a run would do without changing anything",
		Annotations: map[string]string{"errorLog": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeRun(cmd, ctx, true, jsonOutput)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the planned result as JSON")
	return cmd
}

func executeRun(cmd *cobra.Command, ctx *commandContext, dryRun, jsonOutput bool) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	opts := organizer.Options{DryRun: dryRun}
	logger, closeLogger, err := commandRunLogger(cmd, ctx, dryRun)
	if err != nil {
		return err
	}
	defer closeLogger()

	if !dryRun {
		if store := ctx.openHistory(logger); store != nil {
			defer store.Close()
			opts.History = store
		}
	}

	org, err := organizer.New(cfg, logger, opts)
	if err != nil {
		return err
	}
	result, err := org.Run(cmd.Context())
	if err != nil {
		logging.ErrorWithContext(logger, "run aborted", "run_failed",
			logging.String("error_kind", failure.Kind(err)),
			logging.Error(err),
		)
		return err
	}

	if jsonOutput {
		if err := writeJSON(cmd, newRunView(result)); err != nil {
			return err
		}
	} else {
		printRunResult(cmd.OutOrStdout(), result, shouldColorize(cmd.OutOrStdout()))
	}
	if result.Interrupted {
		return context.Canceled
	}
	return nil
}

// commandRunLogger returns the logger for a run command. Real runs also log
// to a run log file; dry runs log to the console only.
func commandRunLogger(cmd *cobra.Command, ctx *commandContext, dryRun bool) (*slog.Logger, func(), error) {
	if dryRun {
		logger, err := ctx.consoleLogger(cmd.ErrOrStderr())
		return logger, func() {}, err
	}
	runLog, err := ctx.runLogger(cmd.ErrOrStderr(), time.Now())
	if err != nil {
		return nil, nil, err
	}
	return runLog.Logger, func() { _ = runLog.Close() }, nil
}

type runView struct {
	*organizer.Result
	NotSucceeded int      `json:"not_succeeded"`
	ExportErrors []string `json:"export_errors,omitempty"`
}

func newRunView(result *organizer.Result) runView {
	view := runView{Result: result, NotSucceeded: result.Summary.NotSucceeded()}
	for _, err := range result.ExportErrors {
		view.ExportErrors = append(view.ExportErrors, err.Error())
	}
	return view
}

func printRunResult(out io.Writer, result *organizer.Result, colorize bool) {
	if len(result.Records) == 0 {
		fmt.Fprintln(out, "No files to organize")
	} else {
		rows := make([][]string, 0, len(result.Records))
		for _, rec := range result.Records {
			rows = append(rows, []string{
				rec.FileName,
				renderStatus(rec.Status, colorize),
				valueOr(rec.MatchedAlias, "-"),
				valueOr(rec.DestinationPath, "-"),
				rec.Remark,
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"File", "Status", "Alias", "Destination", "Remark"},
			rows,
			nil,
		))
	}

	s := result.Summary
	fmt.Fprintln(out, renderTable(
		[]string{"Total", "Succeeded", "Not succeeded", "Filtered"},
		[][]string{{strconv.Itoa(s.Total), strconv.Itoa(s.Succeeded), strconv.Itoa(s.NotSucceeded()), strconv.Itoa(s.Filtered)}},
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight},
	))

	if result.DryRun {
		fmt.Fprintln(out, "Dry run: no files were moved")
	}
	for _, path := range result.Exports {
		fmt.Fprintf(out, "Audit written to %s\n", path)
	}
	for _, err := range result.ExportErrors {
		fmt.Fprintf(out, "Warning: %v\n", err)
	}
	if result.Interrupted {
		fmt.Fprintln(out, "Run interrupted; remaining files were left in place")
	}
	fmt.Fprintf(out, "Run %s finished in %s\n", result.RunID, result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond))
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
