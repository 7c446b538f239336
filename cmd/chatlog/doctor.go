package main

import (
	"fmt"
	"os"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatlog-export/internal/parse"
	"github.com/Zuo-Peng/chatlog-export/internal/scan"
	"github.com/Zuo-Peng/chatlog-export/internal/store"
)

func doctorCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify config, log root and database, and show stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(gf)
			if err != nil {
				return err
			}
			defer a.close()
			cfg := a.cfg

			fmt.Println(paint(styleSection, "Config"))
			fmt.Printf("  Timezone: %s\n", a.loc)
			fmt.Printf("  Include:  %s\n", cfg.Include)
			if cfg.LogFile != "" {
				fmt.Printf("  Log file: %s\n", cfg.LogFile)
			}

			fmt.Println("\n" + paint(styleSection, "Log root"))
			checkDir(cfg.LogRoot)

			files, err := scan.ScanRoot(cfg.LogRoot, cfg.Include)
			if err != nil {
				fmt.Printf("  %s %v\n", paint(styleFail, "scan error:"), err)
			} else {
				today := time.Now().In(a.loc)
				logFiles := lo.FilterMap(files, func(fi scan.FileInfo, _ int) (parse.LogFile, bool) {
					return parse.ParseFileName(fi.Path, a.loc)
				})
				open := lo.CountBy(logFiles, func(lf parse.LogFile) bool { return lf.SameDay(today) })
				channels := lo.Uniq(lo.Map(logFiles, func(lf parse.LogFile, _ int) string { return lf.Channel }))

				fmt.Printf("  Files:     %d\n", len(files))
				fmt.Printf("  Log files: %d (%d channels, %d still open today)\n", len(logFiles), len(channels), open)
				if newest, ok := scan.Newest(files); ok {
					fmt.Printf("  Newest:    %s (%s)\n", newest.Rel, time.Unix(newest.Mtime, 0).In(a.loc).Format("2006-01-02 15:04"))
				}
				if ignored := len(files) - len(logFiles); ignored > 0 {
					fmt.Printf("  %s %d files do not match {channel}-{yyyy}-{mm}-{dd}.{ext}\n", paint(styleWarn, "WARN"), ignored)
				}
			}

			fmt.Println("\n" + paint(styleSection, "Database"))
			opts := cfg.StoreOptions(a.loc)
			fmt.Printf("  Driver: %s\n", opts.Driver)
			fmt.Printf("  DSN:    %s\n", paint(styleDim, opts.Redacted()))

			db, err := a.openStore(cmd.Context())
			if err != nil {
				fmt.Printf("  Status: %s\n", paint(styleFail, "UNREACHABLE"))
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()
			fmt.Printf("  Status: %s\n", paint(styleOK, "OK"))

			messages, err := db.MessageCount(cmd.Context())
			if err != nil {
				return fmt.Errorf("count messages: %w", err)
			}
			done, err := db.DoneCount(cmd.Context())
			if err != nil {
				return fmt.Errorf("count done files: %w", err)
			}
			fmt.Printf("  Messages:   %d\n", messages)
			fmt.Printf("  Done files: %d\n", done)

			if cfg.Database.Path != "" && opts.Driver == store.DriverSQLite {
				if info, err := os.Stat(cfg.Database.Path); err == nil {
					sizeMB := float64(info.Size()) / 1024 / 1024
					fmt.Printf("  Size:       %.1f MB\n", sizeMB)
				}
			}

			return nil
		},
	}
}

func checkDir(path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Printf("  %s (%s)\n", path, paint(styleFail, "NOT FOUND"))
	} else if !info.IsDir() {
		fmt.Printf("  %s (%s)\n", path, paint(styleFail, "NOT A DIRECTORY"))
	} else {
		fmt.Printf("  %s (%s)\n", path, paint(styleOK, "OK"))
	}
}
