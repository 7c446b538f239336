package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatlog-export/internal/export"
)

func exportCmd(gf *globalFlags) *cobra.Command {
	var root, report string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every finished log file that is not in the database yet",
		Long: `Walks the log root, parses every {channel}-{yyyy}-{mm}-{dd}.log file that has
no done marker and is not dated today, and stores its messages together with
the done marker in one transaction. Running it again is safe.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(gf)
			if err != nil {
				return err
			}
			defer a.close()

			if root != "" {
				a.cfg.LogRoot = root
			}

			runID := uuid.NewString()
			logger := a.logger.With("run_id", runID)
			started := time.Now()

			db, err := a.openStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			exp := export.New(db, export.Options{
				Root:     a.cfg.LogRoot,
				Include:  a.cfg.Include,
				Location: a.loc,
				DryRun:   dryRun,
			}, logger)

			stats, err := exp.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}

			logger.Info("export finished",
				"took", stats.Duration.Round(time.Millisecond).String(),
				"exported", stats.Exported,
				"messages", stats.Messages,
				"skipped", stats.Skipped,
				"errors", stats.Errors,
				"dry_run", dryRun,
			)

			if report != "" {
				err := export.WriteReport(report, export.Report{
					RunID:     runID,
					StartedAt: started.UTC(),
					Root:      a.cfg.LogRoot,
					Duration:  stats.Duration.String(),
					Stats:     stats,
				})
				if err != nil {
					logger.Warn("failed to write report", "path", report, "error", err)
				}
			}

			fmt.Fprintf(os.Stderr, "Done. %s\n", stats)
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "Log root to scan (overrides log_root)")
	cmd.Flags().StringVar(&report, "report", "", "Write a JSON run report to this file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse files without writing to the database")

	return cmd
}
