package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"mmdfmt/internal/diag"
	"mmdfmt/internal/diagfmt"
	"mmdfmt/internal/driver"
)

type formatFlags struct {
	write     bool
	check     bool
	output    string
	jobs      int
	indent    int
	tabs      bool
	config    string
	noCache   bool
	verify    bool
	ui        string
	stdinName string
}

func (fo *formatFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVarP(&fo.write, "write", "w", false, "rewrite files in place")
	f.BoolVar(&fo.check, "check", false, "list files that need formatting and fail if any")
	f.StringVar(&fo.output, "format", "text", "report format (text|json)")
	f.IntVarP(&fo.jobs, "jobs", "j", 0, "parallel workers (0 = GOMAXPROCS)")
	f.IntVar(&fo.indent, "indent", 4, "spaces per indentation level")
	f.BoolVar(&fo.tabs, "tabs", false, "indent with tabs")
	f.StringVar(&fo.config, "config", "", "path to a .mmdfmt.toml (default: search upwards)")
	f.BoolVar(&fo.noCache, "no-cache", false, "do not read or write the result cache")
	f.BoolVar(&fo.verify, "verify", false, "re-parse output and fail on shape or idempotence drift")
	f.StringVar(&fo.ui, "ui", "auto", "progress UI for --write/--check (auto|on|off)")
	f.StringVar(&fo.stdinName, "stdin-filename", driver.StdinName, "name used for standard input in messages")
}

func (fo *formatFlags) mode() driver.Mode {
	switch {
	case fo.write:
		return driver.ModeWrite
	case fo.check:
		return driver.ModeCheck
	default:
		return driver.ModeStdout
	}
}

func runFormat(cmd *cobra.Command, args []string, g *globalOptions, fo *formatFlags) error {
	if fo.write && fo.check {
		return errors.New("--write cannot be used with --check")
	}
	if fo.write && len(args) == 0 {
		return errors.New("--write needs at least one path")
	}
	outputFormat := strings.ToLower(fo.output)
	if outputFormat != "text" && outputFormat != "json" {
		return fmt.Errorf("unsupported output format %q (expected text|json)", fo.output)
	}
	uiMode, err := readUIMode(fo.ui)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	log := loggerFromContext(ctx)

	manifest, opt, err := loadConfig(cmd, fo)
	if err != nil {
		return err
	}

	opts := driver.FormatOptions{
		Mode:           fo.mode(),
		Options:        opt,
		Manifest:       manifest,
		Jobs:           fo.jobs,
		MaxDiagnostics: g.maxDiagnostics,
		Verify:         fo.verify,
		Timer:          g.timer,
	}
	if !fo.noCache {
		cache, cacheErr := driver.OpenCache("mmdfmt")
		if cacheErr != nil {
			log.Warn("result cache disabled", "err", cacheErr)
		} else {
			opts.Cache = cache
			log.Debug("result cache", "dir", cache.Dir())
		}
	}
	log.Debug("formatting", "mode", opts.Mode, "indent", opt.IndentWidth, "tabs", opt.UseTabs, "paths", len(args))

	var report *driver.FormatReport
	switch {
	case len(args) == 0:
		report, err = driver.FormatReader(ctx, fo.stdinName, cmd.InOrStdin(), opts)
	case opts.Mode != driver.ModeStdout && outputFormat == "text" && !g.quiet && shouldUseTUI(uiMode):
		report, err = runFormatWithUI(ctx, args, opts, cmd.OutOrStdout())
	default:
		report, err = driver.FormatPaths(ctx, args, opts)
	}
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		if err := renderFormatJSON(cmd.OutOrStdout(), report, opts.Mode, g.prettyOpts().PathMode); err != nil {
			return err
		}
	} else {
		renderFormatText(cmd.OutOrStdout(), cmd.ErrOrStderr(), report, opts.Mode, g)
	}

	failed := 0
	for _, res := range report.Results {
		if res.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("failed to format %d file(s)", failed)
	}
	if changed := report.ChangedPaths(); opts.Mode == driver.ModeCheck && len(changed) > 0 {
		return fmt.Errorf("%d file(s) need formatting", len(changed))
	}
	return nil
}

func renderFormatText(out, errOut io.Writer, report *driver.FormatReport, mode driver.Mode, g *globalOptions) {
	pretty := g.prettyOpts()
	for _, res := range report.Results {
		if res.Err != nil {
			if res.Bag != nil && res.Bag.HasErrors() {
				errBag := diag.NewBag(0)
				for _, d := range res.Bag.Items() {
					if d.Severity == diag.SevError {
						errBag.Add(d)
					}
				}
				errBag.Sort()
				diagfmt.Pretty(errOut, errBag, report.FileSet, pretty)
			} else {
				fmt.Fprintf(errOut, "%s: %v\n", res.Path, res.Err)
			}
			continue
		}

		switch mode {
		case driver.ModeStdout:
			_, _ = out.Write(res.Formatted)
		case driver.ModeCheck:
			if res.Changed && !g.quiet {
				fmt.Fprintln(out, res.Path)
			}
		case driver.ModeWrite:
			if res.Changed && !g.quiet {
				fmt.Fprintf(out, "reformatted %s\n", res.Path)
			}
		}
	}
}

type formatJSONResult struct {
	Path        string                   `json:"path"`
	Changed     bool                     `json:"changed"`
	Cached      bool                     `json:"cached,omitempty"`
	Formatted   *string                  `json:"formatted,omitempty"`
	Error       string                   `json:"error,omitempty"`
	Diagnostics []diagfmt.DiagnosticJSON `json:"diagnostics,omitempty"`
}

type formatJSONPayload struct {
	Mode    string             `json:"mode"`
	Results []formatJSONResult `json:"results"`
}

func renderFormatJSON(out io.Writer, report *driver.FormatReport, mode driver.Mode, pathMode diagfmt.PathMode) error {
	payload := formatJSONPayload{Mode: mode.String(), Results: make([]formatJSONResult, 0, len(report.Results))}
	jsonOpts := diagfmt.JSONOpts{IncludePositions: true, PathMode: pathMode, IncludeNotes: true, IncludeFixes: true}
	for _, res := range report.Results {
		jr := formatJSONResult{Path: res.Path, Changed: res.Changed, Cached: res.Cached}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		} else if mode == driver.ModeStdout {
			text := string(res.Formatted)
			jr.Formatted = &text
		}
		if res.Bag != nil && res.Bag.Len() > 0 {
			jr.Diagnostics = diagfmt.BuildDiagnosticsOutput(res.Bag.Items(), report.FileSet, jsonOpts).Diagnostics
		}
		payload.Results = append(payload.Results, jr)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
