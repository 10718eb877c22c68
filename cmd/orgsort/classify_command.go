package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"orgsort/internal/destination"
	"orgsort/internal/organizer"
)

type classification struct {
	FileName    string `json:"file_name"`
	Alias       string `json:"alias,omitempty"`
	Directory   string `json:"directory,omitempty"`
	Destination string `json:"destination,omitempty"`
	Allowed     bool   `json:"extension_allowed"`
	Error       string `json:"error,omitempty"`
}

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "classify <file-name>...",
		Short: "Show which organization folder file names would go to",
		Args:  cobra.MinimumNArgs(1),
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
			policy, err := destination.ParsePolicy(cfg.Organize.OnMissingSubfolder)
			if err != nil {
				return err
			}
			resolver := destination.NewResolver(policy, true, logger)

			results := make([]classification, 0, len(args))
			for _, arg := range args {
				name := filepath.Base(arg)
				result := classification{FileName: name, Allowed: cfg.AllowsExtension(filepath.Ext(name))}
				if entry, ok := table.Match(name); ok {
					result.Alias = entry.Alias
					result.Directory = entry.DirName
					res, err := resolver.Resolve(entry.Dir, cfg.Organize.SearchKeyword)
					if err != nil {
						result.Error = err.Error()
					} else {
						result.Destination = filepath.Join(res.Dir, name)
					}
				}
				results = append(results, result)
			}

			if jsonOutput {
				return writeJSON(cmd, results)
			}
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				dest := valueOr(r.Destination, "-")
				if r.Error != "" {
					dest = r.Error
				}
				rows = append(rows, []string{r.FileName, valueOr(r.Alias, "-"), valueOr(r.Directory, "-"), dest, yesNo(r.Allowed)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"File", "Alias", "Directory", "Destination", "Allowed"},
				rows,
				nil,
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output classifications as JSON")
	return cmd
}
