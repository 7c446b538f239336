package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func forgetCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "forget <file>...",
		Short: "Delete the messages and done marker of files so the next export re-reads them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(gf)
			if err != nil {
				return err
			}
			defer a.close()

			db, err := a.openStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			for _, arg := range args {
				name := filepath.Base(arg)
				removed, err := db.Forget(cmd.Context(), name)
				if err != nil {
					return fmt.Errorf("forget %s: %w", name, err)
				}
				a.logger.Info("file forgotten", "file", name, "messages", removed)
				fmt.Printf("%s\t%d messages removed\n", name, removed)
			}
			return nil
		},
	}
}
