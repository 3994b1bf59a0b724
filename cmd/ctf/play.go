package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/ctf-arena/internal/lang"
	"github.com/vovakirdan/ctf-arena/internal/platform/tui"
)

var (
	flagMap  string
	flagBot  bool
	flagLang string
	flagSeed int64
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a local match",
	Long: `Start a capture-the-flag match in this terminal.

Controls:
  W/A/S/D    - Move red      Arrows  - Move blue
  F          - Red attack    M       - Blue attack
  G          - Red drop      N       - Blue drop
  R          - New round (after the match is won)
  ?          - Toggle help
  Q/Ctrl+C   - Quit

With --bot the bot plays blue and the arrow keys also move red.

Examples:
  ctf play
  ctf play --bot
  ctf play --map arena --lang ru`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagMap, "map", "arena", "Map to play (see 'ctf maps')")
	playCmd.Flags().BoolVar(&flagBot, "bot", false, "Let the bot play blue")
	playCmd.Flags().StringVar(&flagLang, "lang", "", "Locale for chat and HUD (overrides locale)")
	playCmd.Flags().Int64Var(&flagSeed, "seed", 0, "Bot RNG seed (0 = random based on time)")
}

func runPlay(_ *cobra.Command, _ []string) {
	rt, err := setup(true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer rt.Close()

	if flagLang != "" {
		rt.cfg.Locale = flagLang
	}

	// The arena plus its border, score line, HUD and help must fit.
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}
	if width < rt.cfg.Arena.Width+2 || height < rt.cfg.Arena.Height+6 {
		rt.logger.Warn("terminal smaller than the arena", "width", width, "height", height)
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	session, err := tui.NewSession(rt.cfg, tui.SessionOptions{
		MapName:   flagMap,
		Bot:       flagBot,
		Seed:      seed,
		Logger:    rt.logger,
		Printer:   lang.MustLoad().Printer(rt.cfg.Locale),
		Recorders: rt.recorders,
	})
	if err != nil {
		rt.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'ctf maps' to see configured maps.")
		os.Exit(1)
	}

	runErr := tui.Run(session, rt.cfg.Arena.TickRate)
	session.Close()

	if runErr != nil {
		rt.Close()
		fmt.Fprintf(os.Stderr, "Error running match: %v\n", runErr)
		os.Exit(1)
	}
}
