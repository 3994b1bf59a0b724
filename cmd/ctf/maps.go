package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ctf-arena/internal/lang"
	_ "github.com/vovakirdan/ctf-arena/internal/plugin" // registers the ctf mode
	"github.com/vovakirdan/ctf-arena/internal/registry"
)

var mapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "List configured maps and settings",
	Long: `Shows every map with flag home positions and the mode's settings.

Home positions are "x y z" per team name (red/t, blue/ct).`,
	Args: cobra.NoArgs,
	Run:  runMaps,
}

func runMaps(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	p := lang.MustLoad().Printer(cfg.Locale)

	names := cfg.MapNames()
	if len(names) == 0 {
		fmt.Println("No maps configured.")
	} else {
		fmt.Println("Maps:")
		fmt.Println()

		// Calculate column widths
		maxMapLen := 3 // "Map" header
		for _, name := range names {
			maxMapLen = max(maxMapLen, len(name))
		}

		fmt.Printf("  %-*s  %-6s  %s\n", maxMapLen, "Map", "Team", "Home")
		fmt.Printf("  %-*s  %-6s  %s\n", maxMapLen, "---", "----", "----")

		for _, name := range names {
			coords, _ := cfg.Coordinates(name)
			teams := make([]string, 0, len(coords))
			for team := range coords {
				teams = append(teams, team)
			}
			sort.Strings(teams)
			for _, team := range teams {
				fmt.Printf("  %-*s  %-6s  %s\n", maxMapLen, name, team, coords[team])
			}
		}
	}

	fmt.Println()
	fmt.Println("Modes:")
	for _, m := range registry.List() {
		fmt.Printf("  %-6s %s\n", m.ID, m.Title)
	}

	fmt.Println()
	fmt.Println("Settings:")
	fmt.Println()
	for _, s := range cfg.Describe(p) {
		fmt.Printf("  %s = %s\n", s.Name, s.Value)
		fmt.Printf("      %s\n", s.Description)
	}

	fmt.Println()
	fmt.Println("Run 'ctf play --map <name>' to play a map.")
}
