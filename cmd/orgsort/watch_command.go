package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"orgsort/internal/organizer"
	"orgsort/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "watch",
		Short:       "Watch the source directories and organize new files until interrupted",
		Annotations: map[string]string{"errorLog": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.consoleLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			store := ctx.openHistory(logger)
			if store != nil {
				defer store.Close()
			}

			out := cmd.OutOrStdout()
			runOnce := func(runCtx context.Context) error {
				runLog, err := ctx.runLogger(cmd.ErrOrStderr(), time.Now())
				if err != nil {
					return err
				}
				defer runLog.Close()

				opts := organizer.Options{}
				if store != nil {
					opts.History = store
				}
				org, err := organizer.New(cfg, runLog.Logger, opts)
				if err != nil {
					return err
				}
				result, err := org.Run(runCtx)
				if err != nil {
					return err
				}
				if result.Summary.Total > 0 {
					s := result.Summary
					fmt.Fprintf(out, "%s run %s: %d succeeded, %d not succeeded, %d filtered\n",
						time.Now().Format(time.TimeOnly), shortID(result.RunID), s.Succeeded, s.NotSucceeded(), s.Filtered)
				}
				return nil
			}

			debounce := time.Duration(cfg.Watch.DebounceSeconds) * time.Second
			w, err := watch.New(cfg.SourceRoots(), debounce, runOnce, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Watching %d source director(ies); press Ctrl+C to stop\n", len(w.Roots()))
			return w.Run(cmd.Context())
		},
	}
}
