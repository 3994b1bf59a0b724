// ctf hosts the capture-the-flag game mode on a terminal arena.
//
// Usage:
//
//	ctf play                 - Play a local match (hot-seat or vs bot)
//	ctf serve                - Start SSH server, one arena per session
//	ctf maps                 - List configured maps and settings
//	ctf history              - Show recent matches
//	ctf resource [path]      - Write the flag event resource file
//	ctf init [path]          - Write the default configuration file
//
// Global flags:
//
//	--config <path>     - Configuration file (default search: ~/.ctf/config.yaml, ./configs/ctf.yaml)
//	--log-level <level> - debug, info, warn or error (overrides log_level)
//	--log-file <path>   - Write logs to a file instead of stderr
//	--db <path>         - Match history database (overrides storage.path)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig   string
	flagLogLevel string
	flagLogFile  string
	flagDBPath   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ctf",
	Short: "Capture the Flag - two teams, two flags, in your terminal",
	Long: `Capture the Flag runs the capture-the-flag game mode on a terminal arena.

Each team has a flag on a pedestal at its home position. Touch the enemy
flag to take it, carry it to your own flag while that one is home to
capture. A carrier who dies or uses the drop command leaves the flag where
they stand; the owning team returns it by touching it.

Available commands:
  play      - Local match, hot-seat or against the bot
  serve     - SSH server for remote play
  maps      - Configured maps, flag homes and settings
  history   - Recent matches from the history database
  resource  - Write the flag event resource file
  init      - Write the default configuration file

Examples:
  ctf play --bot
  ctf play --lang de
  ctf serve --ssh :2222
  ctf history --limit 5
  CTF_WIN_COUNT=5 ctf play`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to configuration YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to match history database")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mapsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resourceCmd)
	rootCmd.AddCommand(initCmd)
}
