package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ctf-arena/internal/event"
)

// resourceName is the block name hosts look up the events under.
const resourceName = "capture_the_flag"

var resourceCmd = &cobra.Command{
	Use:   "resource [path]",
	Short: "Write the flag event resource file",
	Long: `Writes the declarations of the four custom flag events (taken, dropped,
returned, captured) in KeyValues resource format, so a host can register them.
Without a path the file is written to stdout.

Examples:
  ctf resource
  ctf resource ./resource/events/capture_the_flag.res`,
	Args: cobra.MaximumNArgs(1),
	Run:  runResource,
}

func runResource(_ *cobra.Command, args []string) {
	var w io.Writer = os.Stdout
	if len(args) == 1 {
		f, err := os.Create(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	if err := event.WriteResource(w, resourceName, event.FlagSchemas); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing resource: %v\n", err)
		os.Exit(1)
	}
}
