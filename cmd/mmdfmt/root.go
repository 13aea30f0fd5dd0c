package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mmdfmt/internal/diagfmt"
	"mmdfmt/internal/observ"
	"mmdfmt/internal/prof"
	"mmdfmt/internal/version"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	color          string
	quiet          bool
	verbose        bool
	timings        bool
	trace          string
	traceLevel     string
	maxDiagnostics int
	pathMode       string
	profile        prof.Config

	timer        *observ.Timer
	profiler     *prof.Session
	traceCleanup func()
}

// run builds the command tree, executes it with args and releases
// tracing and timing state even when the command fails.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	root, g := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	defer g.teardown(stderr)
	return root.ExecuteContext(ctx)
}

func newRootCmd() (*cobra.Command, *globalOptions) {
	g := &globalOptions{}
	fo := &formatFlags{}

	root := &cobra.Command{
		Use:   "mmdfmt [flags] [path...]",
		Short: "Format Mermaid diagram sources",
		Long: `mmdfmt normalizes the layout of Mermaid diagram files: block indentation,
blank lines around blocks, and spacing inside brackets and pipe labels.
With no path it formats standard input to standard output.`,
		Version:       version.Number,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args, g, fo)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.color, "color", "auto", "colorize output (auto|on|off)")
	pf.BoolVarP(&g.quiet, "quiet", "q", false, "suppress non-essential output")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVar(&g.timings, "timings", false, "show timing information")
	pf.StringVar(&g.trace, "trace", "", "write trace events to PATH (- for stderr)")
	pf.StringVar(&g.traceLevel, "trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.IntVar(&g.maxDiagnostics, "max-diagnostics", 100, "maximum number of diagnostics per file (0 = unlimited)")
	pf.StringVar(&g.pathMode, "path-mode", "auto", "paths in diagnostics (auto|absolute|relative|basename)")
	pf.StringVar(&g.profile.CPU, "cpu-profile", "", "write a CPU profile to PATH")
	pf.StringVar(&g.profile.Mem, "mem-profile", "", "write a heap profile to PATH on exit")
	pf.StringVar(&g.profile.Trace, "runtime-trace", "", "write a Go runtime trace to PATH")

	fo.register(root)
	root.AddCommand(newParseCmd(g))
	root.AddCommand(newVersionCmd())
	return root, g
}

func (g *globalOptions) setup(cmd *cobra.Command) error {
	switch strings.ToLower(g.color) {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto", "":
		// fatih/color сам проверяет stdout
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", g.color)
	}

	if _, ok := diagfmt.ParsePathMode(g.pathMode); !ok {
		return fmt.Errorf("invalid --path-mode value %q (expected auto|absolute|relative|basename)", g.pathMode)
	}

	level := charmlog.InfoLevel
	switch {
	case g.verbose:
		level = charmlog.DebugLevel
	case g.quiet:
		level = charmlog.WarnLevel
	}
	cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))

	if g.timings {
		g.timer = observ.NewTimer()
	}

	if g.profile.Enabled() {
		session, err := prof.Start(g.profile)
		if err != nil {
			return err
		}
		g.profiler = session
	}

	cleanup, err := setupTracing(cmd, g)
	if err != nil {
		return err
	}
	g.traceCleanup = cleanup
	return nil
}

func (g *globalOptions) teardown(stderr io.Writer) {
	if g.timer != nil {
		fmt.Fprint(stderr, g.timer.Summary())
		g.timer = nil
	}
	if g.traceCleanup != nil {
		g.traceCleanup()
		g.traceCleanup = nil
	}
	if err := g.profiler.Stop(); err != nil {
		fmt.Fprintf(stderr, "profile: %v\n", err)
	}
}

// prettyOpts returns the diagnostic rendering options for stderr.
func (g *globalOptions) prettyOpts() diagfmt.PrettyOpts {
	mode, _ := diagfmt.ParsePathMode(g.pathMode)
	return diagfmt.PrettyOpts{Color: g.diagColor(), Context: 1, PathMode: mode, ShowNotes: true, ShowFixes: true}
}

// diagColor reports whether diagnostics written to stderr get colors.
func (g *globalOptions) diagColor() bool {
	switch strings.ToLower(g.color) {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(os.Stderr)
	}
}
