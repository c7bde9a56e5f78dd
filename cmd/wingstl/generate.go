package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wingstl/internal/buildpipeline"
	"wingstl/internal/diag"
	"wingstl/internal/mesh"
	"wingstl/internal/meshcache"
	"wingstl/internal/observ"
	"wingstl/internal/project"
	"wingstl/internal/source"
	"wingstl/internal/stl"
	"wingstl/internal/wing"
)

type generateOptions struct {
	wing    wingFlags
	output  string
	format  string
	verbose bool
	ui      string
	jobs    int
	cache   bool
}

func newGenerateCmd(a *app) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build the wing mesh and write it as STL",
		Long: `Build the wing mesh and write it as STL.

Values not given on the command line are read from the nearest wingstl.toml
(or --manifest), then from the built-in defaults.`,
		Example: `  wingstl generate -a 2412 -b 6 -c 1
  wingstl generate -a 0012 -b 20 -c 4 -l 60 -t 80 -n 10 -u ft -o glider.stl
  wingstl generate -a clarky.dat -b 900 -c 200 -u mm --format binary`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}
	opts.wing.register(cmd)
	fl := cmd.Flags()
	fl.StringVarP(&opts.output, project.FlagOutput, "o", buildpipeline.DefaultOutput, "output STL file")
	fl.StringVar(&opts.format, project.FlagFormat, "ascii", "STL encoding (ascii|binary)")
	fl.BoolVarP(&opts.verbose, "verbose", "v", false, "print the wing property report")
	fl.StringVar(&opts.ui, "ui", "auto", "progress view (auto|on|off)")
	fl.IntVar(&opts.jobs, "jobs", 0, "max parallel station workers (0=auto)")
	fl.BoolVar(&opts.cache, "cache", false, "reuse meshes from the on-disk cache")
	return cmd
}

func runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	errOut := cmd.ErrOrStderr()
	out := cmd.OutOrStdout()
	quiet, _ := cmd.Flags().GetBool("quiet")
	showTimings, _ := cmd.Flags().GetBool("timings")
	changed := cmd.Flags().Changed

	timer := observ.NewTimer()
	done := timer.Track("manifest")
	p, m, err := opts.wing.params(cmd)
	done("")
	if err != nil {
		return renderDiagnostics(errOut, err, nil, nil, usesColor())
	}

	format, err := stl.ParseFormat(m.OutputFormat(opts.format, changed))
	if err != nil {
		return renderDiagnostics(errOut, err, nil, nil, usesColor())
	}
	mode, err := readUIMode(opts.ui)
	if err != nil {
		return err
	}
	if opts.jobs < 0 {
		return newFlagError(fmt.Sprintf("value for flag '--jobs' must not be negative, got %d", opts.jobs))
	}

	var cache *meshcache.Cache
	if opts.cache {
		if cache, err = meshcache.Open("wingstl"); err != nil {
			if !quiet {
				fmt.Fprintf(errOut, "wingstl: cache disabled: %v\n", err)
			}
			cache = nil
		}
	}

	fs := source.NewFileSet()
	bag := diag.NewBag(64)
	req := &buildpipeline.Request{
		Params:     p,
		Files:      fs,
		Reporter:   diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
		OutputPath: m.OutputPath(opts.output, changed),
		Format:     format,
		Mesh:       mesh.Options{Workers: opts.jobs},
		Cache:      cache,
		Timer:      timer,
	}

	var res buildpipeline.Result
	if shouldUseTUI(mode) && !quiet {
		res, err = runGenerateWithUI(cmd.Context(), out, "wingstl → "+req.OutputPath, req)
	} else {
		res, err = buildpipeline.Generate(cmd.Context(), req)
	}
	if err != nil {
		return renderDiagnostics(errOut, err, bag, fs, usesColor())
	}
	renderWarnings(errOut, bag, fs, usesColor())

	if opts.verbose {
		report := wing.NewReport(res.Planform, res.Section.Label(), res.Section.ClosedTrailingEdge())
		if err := report.WriteText(out, usesColor()); err != nil {
			return err
		}
	}
	if !quiet {
		cached := ""
		if res.CacheHit {
			cached = ", cached"
		}
		fmt.Fprintf(out, "wrote %s (%d vertices, %d triangles%s)\n",
			res.OutputPath, len(res.Mesh.Vertices), len(res.Mesh.Triangles), cached)
	}
	if showTimings {
		printTimings(errOut, timer)
	}
	return nil
}
