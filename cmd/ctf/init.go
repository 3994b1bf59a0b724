package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ctf-arena/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration file",
	Long: `Writes the default configuration, including example flag homes for the
arena and de_dust maps, to ~/.ctf/config.yaml or the given path.
An existing file is never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runInit,
}

func runInit(_ *cobra.Command, args []string) {
	path := config.UserConfigPath()
	if len(args) == 1 {
		path = args[0]
	}

	if err := config.WriteDefault(path); err != nil {
		if errors.Is(err, os.ErrExist) {
			fmt.Fprintf(os.Stderr, "Error: %s already exists\n", path)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", path)
}
