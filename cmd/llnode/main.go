package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"llnode/internal/version"
)

// newRootCmd builds the command tree with its persistent flags.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "llnode",
		Short: "Resolve LLVM IR symbols into operation trees",
		Long:  `llnode loads a textual IR module and turns its constants, globals and function bodies into evaluable operation trees`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return applyColorMode(cmd)
		},
		SilenceUsage: true,
		Version:      version.Version,
	}

	root.AddCommand(newResolveCmd())
	root.AddCommand(newLayoutCmd())
	root.AddCommand(newVersionCmd())

	flags := root.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Int("jobs", 0, "max parallel function builds (0=auto)")
	flags.Bool("timings", false, "show timing information")
	flags.Bool("no-cache", false, "do not read or write the module cache")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	flags.String("trace-format", "auto", "trace event format (auto|text|ndjson)")
	flags.Int("trace-ring-size", 4096, "ring buffer capacity for trace events")
	flags.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0=off)")

	flags.String("cpu-profile", "", "write CPU profile to file")
	flags.String("mem-profile", "", "write heap profile to file on exit")
	flags.String("runtime-trace", "", "write Go runtime trace to file")
	return root
}

// main executes the root command. Any error exits with status 1.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func applyColorMode(cmd *cobra.Command) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	default:
		return errInvalidColor(mode)
	}
	return nil
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
