package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"weft/internal/diagfmt"
	"weft/internal/driver"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] <file.weft|directory>",
	Short: "Compile templates and dump the optimized IR",
	Long:  `Compile runs the full pipeline (parse, lower, optimize) on one template or every *.weft file in a directory`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

func init() {
	compileCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	compileCmd.Flags().Bool("no-cache", false, "bypass the compile cache")
	compileCmd.Flags().BoolP("optimize", "O", true, "run the optimization pass pipeline")
}

func runCompile(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	optimize, err := cmd.Flags().GetBool("optimize")
	if err != nil {
		return fmt.Errorf("failed to get optimize flag: %w", err)
	}

	st, err := os.Stat(inputPath)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	opts := driver.Options{
		MaxDiagnostics: maxDiagnostics,
		Optimize:       optimize,
	}

	// Tag helpers come from the nearest weft.toml above the input.
	manifestStart := inputPath
	if !st.IsDir() {
		manifestStart = filepath.Dir(inputPath)
	}
	manifest, found, err := loadProjectManifest(manifestStart)
	if err != nil {
		return err
	}
	if found {
		registry, err := manifest.Registry()
		if err != nil {
			return err
		}
		opts.Helpers = registry
	}

	if !noCache {
		cache, err := driver.OpenDiskCache("weft")
		if err == nil {
			opts.Cache = cache
		}
		// A cache that fails to open just means compiling from scratch.
	}

	prettyOpts := diagfmt.PrettyOpts{Color: useColor(cmd, os.Stderr), ShowNotes: true}

	if !st.IsDir() {
		result, err := driver.Compile(inputPath, opts)
		if err != nil {
			return fmt.Errorf("compilation failed: %w", err)
		}
		return emitResult(cmd, result, prettyOpts, quiet, timings)
	}

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}

	_, results, err := driver.CompileDir(cmd.Context(), inputPath, opts, jobs)
	if err != nil {
		return fmt.Errorf("compilation failed: %w", err)
	}

	failed := false
	for _, r := range results {
		if err := emitResult(cmd, r, prettyOpts, quiet, timings); err != nil {
			failed = true
		}
	}
	if failed {
		return fmt.Errorf("compilation produced errors")
	}
	return nil
}

func emitResult(cmd *cobra.Command, r *driver.Result, prettyOpts diagfmt.PrettyOpts, quiet, timings bool) error {
	if r.Bag != nil && (r.Bag.HasErrors() || r.Bag.HasWarnings()) {
		r.Bag.Sort()
		r.Bag.Dedup()
		diagfmt.Pretty(os.Stderr, r.Bag, r.FileSet, prettyOpts)
	}

	if !quiet {
		if r.Cached {
			fmt.Fprintf(cmd.OutOrStdout(), "// %s (cached)\n", r.Path)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "// %s\n", r.Path)
		}
		fmt.Fprint(cmd.OutOrStdout(), r.Dump)
	}

	if timings && r.Timer != nil {
		fmt.Fprint(os.Stderr, r.Timer.Summary())
	}

	if r.Bag != nil && r.Bag.HasErrors() {
		return fmt.Errorf("%s: compilation produced errors", r.Path)
	}
	return nil
}
