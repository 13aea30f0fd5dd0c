package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mmdfmt/internal/diagfmt"
	"mmdfmt/internal/driver"
)

func newParseCmd(g *globalOptions) *cobra.Command {
	var outputFormat string
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Dump the statement stream of a diagram",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat = strings.ToLower(outputFormat)
			if outputFormat != "pretty" && outputFormat != "json" {
				return fmt.Errorf("unsupported format %q (must be pretty or json)", outputFormat)
			}

			var (
				res *driver.ParseResult
				err error
			)
			if len(args) == 0 {
				res, err = driver.Parse(cmd.Context(), driver.StdinName, cmd.InOrStdin(), g.maxDiagnostics)
			} else {
				res, err = driver.Parse(cmd.Context(), args[0], nil, g.maxDiagnostics)
			}
			if err != nil {
				if res != nil && res.Bag.HasErrors() {
					res.Bag.Sort()
					diagfmt.Pretty(cmd.ErrOrStderr(), res.Bag, res.FileSet, g.prettyOpts())
					return fmt.Errorf("parse failed")
				}
				return err
			}

			if outputFormat == "json" {
				return diagfmt.FormatASTJSON(cmd.OutOrStdout(), res.Diagram, res.FileSet)
			}
			return diagfmt.FormatASTPretty(cmd.OutOrStdout(), res.Diagram, res.FileSet)
		},
	}
	cmd.Flags().StringVar(&outputFormat, "format", "pretty", "output format (pretty|json)")
	return cmd
}
