// Package cmd provides the hirevox CLI commands.
//
// Commands:
//   - interview: interactive mock-interview loop on stdin/stdout
//   - cache: inspect or clear the persisted response cache
//   - version: print build version
//
// All commands handle SIGINT/SIGTERM via context cancellation.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hirevox/hirevox/internal/log"
)

var debugFlag bool

var rootCmd = &cobra.Command{
	Use:   "hirevox",
	Short: "hirevox - a mock technical-interview agent",
	Long: `hirevox conducts a simulated technical job interview: you answer,
it asks a contextual follow-up question generated by a local language model,
with a persistent response cache to short-circuit repeated answers.

Running hirevox with no arguments starts an interview.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInterview(cmd, args)
	},
}

// Execute is the main entry point for the hirevox CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
}

// newLogger builds the process logger from the --debug flag.
func newLogger() log.Logger {
	level := slog.LevelInfo
	if debugFlag || os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	return log.New(log.Config{Level: level})
}
