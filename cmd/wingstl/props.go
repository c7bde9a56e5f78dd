package main

import (
	"strings"

	"github.com/spf13/cobra"

	"wingstl/internal/buildpipeline"
	"wingstl/internal/diag"
	"wingstl/internal/source"
	"wingstl/internal/wing"
)

func newPropsCmd() *cobra.Command {
	var (
		flags  wingFlags
		format string
	)
	cmd := &cobra.Command{
		Use:     "props",
		Short:   "Validate the planform and print its properties without meshing",
		Example: "  wingstl props -a 2412 -b 6 -c 1 -l 80 -t 95\n  wingstl props --format json",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if format != "text" && format != "json" {
				return flagValueError("--format", format, "text|json")
			}
			p, _, err := flags.params(cmd)
			if err != nil {
				return renderDiagnostics(cmd.ErrOrStderr(), err, nil, nil, usesColor())
			}

			fs := source.NewFileSet()
			bag := diag.NewBag(64)
			res, err := buildpipeline.Prepare(cmd.Context(), &buildpipeline.Request{
				Params:   p,
				Files:    fs,
				Reporter: diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
			})
			if err != nil {
				return renderDiagnostics(cmd.ErrOrStderr(), err, bag, fs, usesColor())
			}

			report := wing.NewReport(res.Planform, res.Section.Label(), res.Section.ClosedTrailingEdge())
			if format == "json" {
				return report.WriteJSON(cmd.OutOrStdout())
			}
			return report.WriteText(cmd.OutOrStdout(), usesColor())
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "text", "output format (text|json)")
	return cmd
}
