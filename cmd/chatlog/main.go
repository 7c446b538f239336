package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	var gf globalFlags

	rootCmd := &cobra.Command{
		Use:     "chatlog",
		Short:   "Export Chatterino chat logs into a SQL database, once per file",
		Version: version,
	}
	rootCmd.PersistentFlags().StringVarP(&gf.configPath, "config", "c", "", "config file (default ~/.config/chatlog/config.toml)")
	rootCmd.PersistentFlags().StringVar(&gf.logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(exportCmd(&gf))
	rootCmd.AddCommand(doctorCmd(&gf))
	rootCmd.AddCommand(doneCmd(&gf))
	rootCmd.AddCommand(forgetCmd(&gf))
	rootCmd.AddCommand(showCmd(&gf))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
