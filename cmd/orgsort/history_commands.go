package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"orgsort/internal/audit"
	"orgsort/internal/export"
	"orgsort/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past runs",
	}
	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.requireHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				if runs == nil {
					runs = []history.Run{}
				}
				return writeJSON(cmd, runs)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					run.StartedAt.Local().Format(export.TimeLayout),
					strconv.Itoa(run.Summary.Total),
					strconv.Itoa(run.Summary.Succeeded),
					strconv.Itoa(run.Summary.NotSucceeded()),
					strconv.Itoa(run.Summary.Filtered),
					yesNo(run.Interrupted),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Started", "Total", "Succeeded", "Not succeeded", "Filtered", "Interrupted"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output runs as JSON")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the records of one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.requireHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			records, err := store.RunRecords(cmd.Context(), run.ID)
			if err != nil {
				return err
			}
			if jsonOutput {
				if records == nil {
					records = []audit.Record{}
				}
				return writeJSON(cmd, struct {
					*history.Run
					Records []audit.Record `json:"records"`
				}{run, records})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run:         %s\n", run.ID)
			fmt.Fprintf(out, "Started:     %s\n", run.StartedAt.Local().Format(export.TimeLayout))
			fmt.Fprintf(out, "Finished:    %s\n", run.FinishedAt.Local().Format(export.TimeLayout))
			fmt.Fprintf(out, "Target:      %s\n", run.TargetDir)
			fmt.Fprintf(out, "Keyword:     %s\n", valueOr(run.Keyword, "-"))
			fmt.Fprintf(out, "Interrupted: %s\n", yesNo(run.Interrupted))
			fmt.Fprintf(out, "Summary:     %s\n", export.SummaryLine(run.Summary, ""))
			if len(records) == 0 {
				return nil
			}
			colorize := shouldColorize(out)
			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{
					rec.FileName,
					renderStatus(rec.Status, colorize),
					valueOr(rec.MatchedAlias, "-"),
					valueOr(rec.DestinationPath, "-"),
					rec.Remark,
				})
			}
			fmt.Fprintln(out, renderTable([]string{"File", "Status", "Alias", "Destination", "Remark"}, rows, nil))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the run as JSON")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
