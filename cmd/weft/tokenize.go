package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"weft/internal/diagfmt"
	"weft/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <file.weft>",
	Short: "Tokenize a template file and dump its tokens",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func runTokenize(cmd *cobra.Command, args []string) error {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	fs, tokens, bag, err := driver.Tokenize(args[0], maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	if bag.HasErrors() || bag.HasWarnings() {
		bag.Sort()
		diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{Color: useColor(cmd, os.Stderr)})
	}

	return diagfmt.FormatTokensPretty(os.Stdout, tokens, fs)
}
