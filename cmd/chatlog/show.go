package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

func showCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>",
		Short: "Print the stored messages of an exported file in log format",
		Args:  cobra.ExactArgs(1),
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

			name := filepath.Base(args[0])
			msgs, err := db.MessagesForFile(cmd.Context(), name)
			if err != nil {
				return fmt.Errorf("load messages: %w", err)
			}
			if len(msgs) == 0 {
				fmt.Fprintf(os.Stderr, "No messages stored for %s.\n", name)
				return nil
			}

			for _, m := range msgs {
				fmt.Printf("%s %s: %s\n",
					paint(styleDim, "["+m.Timestamp.In(a.loc).Format(time.TimeOnly)+"]"),
					paint(styleAuthor, m.Author),
					m.Text,
				)
			}
			return nil
		},
	}
}
