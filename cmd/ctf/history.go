package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/ctf-arena/internal/platform/tui"
	"github.com/vovakirdan/ctf-arena/internal/storage"
)

var (
	flagLimit       int
	flagInteractive bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent matches",
	Long: `Display the most recent matches from the history database, with
per-team totals. Use --interactive to browse matches and their flag events.

Examples:
  ctf history
  ctf history --limit 5
  ctf history -i`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of matches to show")
	historyCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse the history in a table")
}

func runHistory(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening history database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagInteractive {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunHistory(store, width, height); err != nil {
			store.Close()
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	matches, err := store.RecentMatches(flagLimit)
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error retrieving matches: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Recent Matches")
	fmt.Println()

	if len(matches) == 0 {
		fmt.Println("No matches recorded yet.")
		fmt.Println()
		fmt.Println("Play 'ctf play' to record the first match!")
		return
	}

	// Print header
	fmt.Printf("  %-16s  %-10s  %-5s  %-6s  %-6s  %-9s  %s\n", "Date", "Map", "Red", "Blue", "Winner", "Result", "Time")
	fmt.Printf("  %-16s  %-10s  %-5s  %-6s  %-6s  %-9s  %s\n", "----", "---", "---", "----", "------", "------", "----")

	for _, m := range matches {
		winner := m.Winner
		if winner == "" {
			winner = "-"
		}
		fmt.Printf("  %-16s  %-10s  %-5d  %-6d  %-6s  %-9s  %d:%02d\n",
			m.CreatedAt.Format("2006-01-02 15:04"), m.MapName, m.RedScore, m.BlueScore,
			winner, m.EndReason, m.Duration/60, m.Duration%60)
	}

	stats, err := store.AllTeamStats()
	if err == nil {
		fmt.Println()
		for _, team := range []string{"red", "blue"} {
			st := stats[team]
			fmt.Printf("%-5s wins: %d  captures: %d\n", st.Team, st.Wins, st.Captures)
		}
	}
}
