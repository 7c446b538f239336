package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func doneCmd(gf *globalFlags) *cobra.Command {
	var channel string

	cmd := &cobra.Command{
		Use:   "done",
		Short: "List files that are already exported",
		Long:  `Prints one line per done marker, newest first: exported_at, channel, file (tab separated).`,
		Args:  cobra.NoArgs,
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

			files, err := db.DoneFiles(cmd.Context(), channel)
			if err != nil {
				return fmt.Errorf("list done files: %w", err)
			}
			if len(files) == 0 {
				fmt.Fprintln(os.Stderr, "No exported files.")
				return nil
			}

			for _, f := range files {
				fmt.Printf("%s\t%s\t%s\n",
					paint(styleDim, f.ExportedAt.In(a.loc).Format(time.DateTime)),
					f.Channel,
					f.File,
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&channel, "channel", "", "Only list files of this channel")

	return cmd
}
