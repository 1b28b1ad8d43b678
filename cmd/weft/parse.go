package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"weft/internal/diagfmt"
	"weft/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file.weft>",
	Short: "Parse a template file and dump its syntax tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	fs, doc, bag, err := driver.Parse(args[0], maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	if bag.HasErrors() || bag.HasWarnings() {
		bag.Sort()
		diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{Color: useColor(cmd, os.Stderr), ShowNotes: true})
	}

	return diagfmt.FormatASTTree(os.Stdout, doc)
}
