package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"llnode/internal/diag"
	"llnode/internal/diagfmt"
	"llnode/internal/driver"
	"llnode/internal/nodes"
	"llnode/internal/observ"
)

type resolveOptions struct {
	only        []string
	noConstants bool
	summary     bool
	diagFormat  string
	progress    bool
}

var headerColor = color.New(color.FgCyan, color.Bold)

func newResolveCmd() *cobra.Command {
	opts := &resolveOptions{}
	cmd := &cobra.Command{
		Use:   "resolve <module.toml>",
		Short: "Build operation trees for a module and print them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			path := args[0]
			format, err := diagfmt.ParseFormat(opts.diagFormat)
			if err != nil {
				return err
			}
			s, err := loadSettings(cmd, path)
			if err != nil {
				return err
			}
			cleanup, err := setupTracing(cmd, s.traceConfig())
			if err != nil {
				return err
			}
			defer func() { cleanup(err != nil) }()
			stopProfiling, err := setupProfiling(cmd)
			if err != nil {
				return err
			}
			defer stopProfiling()

			var timer *observ.Timer
			if s.timings {
				timer = observ.NewTimer()
			}
			loaded, err := driver.LoadModule(cmd.Context(), path, s.cache, timer)
			if err != nil {
				return err
			}
			buildOpts := driver.Options{
				Jobs:           s.jobs,
				MaxDiagnostics: s.maxDiagnostics,
				DataLayout:     s.dataLayout,
				Timer:          timer,
			}
			var res *driver.Result
			var buildErr error
			if opts.progress && isTerminal(os.Stderr) {
				res, buildErr = runBuildWithUI(cmd.Context(), cmd.ErrOrStderr(), loaded.Module, buildOpts)
			} else {
				res, buildErr = driver.Build(cmd.Context(), loaded.Module, buildOpts)
			}
			if res == nil {
				return buildErr
			}

			out := cmd.OutOrStdout()
			if opts.summary {
				printSummary(out, res, loaded.CacheHit)
			} else {
				printTrees(out, res, opts)
			}
			if err := writeDiagnostics(cmd.ErrOrStderr(), res.Bag, format, s.timings); err != nil {
				return err
			}
			if timer != nil {
				fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
			}
			if buildErr != nil {
				return fmt.Errorf("%s: %s", path, failureSummary(res))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&opts.only, "only", nil, "print only these functions")
	cmd.Flags().BoolVar(&opts.noConstants, "no-constants", false, "skip module constants and global initializers")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "print counts instead of trees")
	cmd.Flags().BoolVar(&opts.progress, "progress", false, "show build progress when stderr is a terminal")
	cmd.Flags().StringVar(&opts.diagFormat, "diagnostics-format", "short", "diagnostics output format (short|pretty|json)")
	return cmd
}

func printTrees(out io.Writer, res *driver.Result, opts *resolveOptions) {
	if !opts.noConstants && len(opts.only) == 0 {
		for _, c := range res.Constants {
			fmt.Fprintf(out, "%s\n%s\n", headerColor.Sprintf("$%s =", c.Name), nodes.String(c.Node))
		}
		for _, g := range res.Globals {
			fmt.Fprintf(out, "%s\n%s\n", headerColor.Sprintf("@%s =", g.Name), nodes.String(g.Node))
		}
	}
	for _, b := range res.Bodies {
		if b == nil || (len(opts.only) > 0 && !slices.Contains(opts.only, b.Name)) {
			continue
		}
		fmt.Fprint(out, b.String())
	}
}

func printSummary(out io.Writer, res *driver.Result, cacheHit bool) {
	source := "parsed"
	if cacheHit {
		source = "cached"
	}
	total := 0
	for _, b := range res.Bodies {
		if b == nil {
			continue
		}
		for _, blk := range b.Blocks {
			total += nodes.Count(blk)
		}
	}
	fmt.Fprintf(out, "module %s (%s)\n", res.Module.Name, source)
	fmt.Fprintf(out, "  constants  %d\n", len(res.Constants))
	fmt.Fprintf(out, "  globals    %d\n", len(res.Globals))
	fmt.Fprintf(out, "  functions  %d built, %d failed, %d descriptors\n", len(res.Bodies)-res.FailedFunctions(), res.FailedFunctions(), res.Functions.Len())
	fmt.Fprintf(out, "  nodes      %d\n", total)
}

func writeDiagnostics(w io.Writer, bag *diag.Bag, format diagfmt.Format, notes bool) error {
	switch format {
	case diagfmt.FormatJSON:
		return diagfmt.JSON(w, bag, diagfmt.JSONOpts{IncludeNotes: notes})
	case diagfmt.FormatPretty:
		return diagfmt.Pretty(w, bag, diagfmt.PrettyOpts{Color: !color.NoColor, ShowNotes: notes})
	}
	if bag.Len() == 0 {
		return nil
	}
	_, err := fmt.Fprintln(w, diag.FormatShort(bag.Items(), notes))
	return err
}

// failureSummary counts what failed in a build that returned an error.
func failureSummary(res *driver.Result) string {
	var parts []string
	if n := res.FailedFunctions(); n > 0 || len(res.Unresolved) == 0 {
		parts = append(parts, fmt.Sprintf("%d function(s) failed", n))
	}
	if len(res.Unresolved) > 0 {
		parts = append(parts, fmt.Sprintf("%d module-level value(s) failed (%s)", len(res.Unresolved), strings.Join(res.Unresolved, ", ")))
	}
	return strings.Join(parts, ", ")
}
