package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mmdfmt/internal/format"
	"mmdfmt/internal/project"
)

// loadConfig resolves the project manifest (explicit --config or the
// nearest .mmdfmt.toml) and applies --indent/--tabs overrides.
func loadConfig(cmd *cobra.Command, fo *formatFlags) (project.Manifest, format.Options, error) {
	log := loggerFromContext(cmd.Context())

	var (
		m   project.Manifest
		err error
	)
	if fo.config != "" {
		m, err = project.LoadFile(fo.config)
		if err != nil {
			return m, format.Options{}, err
		}
	} else {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return m, format.Options{}, wdErr
		}
		m, _, err = project.LoadManifest(wd)
		if err != nil {
			return m, format.Options{}, err
		}
	}
	if m.Path != "" {
		log.Debug("using config", "path", m.Path)
	}

	opt := format.Options{IndentWidth: format.DefaultIndentWidth}
	if m.Config.Format.Indent != nil {
		opt.IndentWidth = *m.Config.Format.Indent
	}
	if m.Config.Format.Tabs != nil {
		opt.UseTabs = *m.Config.Format.Tabs
	}
	if cmd.Flags().Changed("indent") {
		if fo.indent <= 0 {
			return m, opt, fmt.Errorf("--indent must be positive, got %d", fo.indent)
		}
		opt.IndentWidth = fo.indent
	}
	if cmd.Flags().Changed("tabs") {
		opt.UseTabs = fo.tabs
	}
	return m, opt, nil
}
