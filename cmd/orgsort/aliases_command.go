package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"orgsort/internal/alias"
	"orgsort/internal/organizer"
)

type aliasView struct {
	Alias     string `json:"alias"`
	Directory string `json:"directory"`
	Path      string `json:"path"`
}

type collisionView struct {
	Alias   string `json:"alias"`
	Kept    string `json:"kept"`
	Dropped string `json:"dropped"`
}

type aliasTableView struct {
	TargetDir  string          `json:"target_dir"`
	Aliases    []aliasView     `json:"aliases"`
	Collisions []collisionView `json:"collisions,omitempty"`
}

func newAliasTableView(targetDir string, table *alias.Table) aliasTableView {
	view := aliasTableView{TargetDir: targetDir, Aliases: []aliasView{}}
	for _, entry := range table.Entries() {
		view.Aliases = append(view.Aliases, aliasView{Alias: entry.Alias, Directory: entry.DirName, Path: entry.Dir})
	}
	for _, c := range table.Collisions() {
		view.Collisions = append(view.Collisions, collisionView{Alias: c.Alias, Kept: c.Kept, Dropped: c.Dropped})
	}
	return view
}

func newAliasesCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "aliases",
		Short: "Show the alias table in match order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.consoleLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			table, err := organizer.BuildTable(cfg, logger)
			if err != nil {
				return err
			}
			view := newAliasTableView(cfg.Paths.TargetDir, table)
			if jsonOutput {
				return writeJSON(cmd, view)
			}

			out := cmd.OutOrStdout()
			if len(view.Aliases) == 0 {
				fmt.Fprintf(out, "No organization folders found in %s\n", cfg.Paths.TargetDir)
				return nil
			}
			rows := make([][]string, 0, len(view.Aliases))
			for i, a := range view.Aliases {
				rows = append(rows, []string{strconv.Itoa(i + 1), a.Alias, a.Directory})
			}
			fmt.Fprintln(out, renderTable([]string{"#", "Alias", "Directory"}, rows, []columnAlignment{alignRight}))
			if len(view.Collisions) > 0 {
				rows = rows[:0]
				for _, c := range view.Collisions {
					rows = append(rows, []string{c.Alias, c.Kept, c.Dropped})
				}
				fmt.Fprintln(out, "Alias collisions (first directory wins):")
				fmt.Fprintln(out, renderTable([]string{"Alias", "Kept", "Ignored"}, rows, nil))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the alias table as JSON")
	return cmd
}
