package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"wingstl/internal/version"
)

const rootLong = `wingstl sweeps a NACA 4-digit or digitized airfoil along a straight-tapered
semi-span planform and writes the closed surface as an STL mesh.

Examples:
  wingstl generate -a 2412 -b 6 -c 1 -l 80 -t 95 -o wing.stl
  wingstl generate -a naca23015.dat -b 1500 -c 300 -u mm --format binary
  wingstl props -a 0012 -b 6 -c 1 --format json
  wingstl inspect naca23015.dat --points`

// app holds per-invocation state shared between the persistent hooks and the
// exit path.
type app struct {
	cleanups []func()
	tracing  *tracingState
}

func (a *app) close() {
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		a.cleanups[i]()
	}
	a.cleanups = nil
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "wingstl",
		Short:         "Wing planform to STL mesh compiler",
		Long:          rootLong,
		Version:       version.Collect().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.String("trace", "", "trace output file (- for stderr, *.ndjson for JSON lines)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	pf.Duration("trace-heartbeat", 0, "heartbeat interval for hang detection (0 disables)")
	pf.String("cpuprofile", "", "write a CPU profile to file")
	pf.String("memprofile", "", "write a heap profile to file")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")

	root.AddCommand(
		newGenerateCmd(a),
		newPropsCmd(),
		newInspectCmd(),
		newInitCmd(),
		newVersionCmd(),
	)
	return root
}

// setup applies --color and starts tracing and profiling.
func (a *app) setup(cmd *cobra.Command) error {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return err
	}
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stderr)
	default:
		return flagValueError("--color", mode, "auto|on|off")
	}
	if shortDiagnostics, err = cmd.Flags().GetBool("quiet"); err != nil {
		return err
	}

	stopProf, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	a.cleanups = append(a.cleanups, stopProf)

	ts, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	a.tracing = ts
	a.cleanups = append(a.cleanups, ts.close)
	return nil
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	a := &app{}
	defer a.close()
	shortDiagnostics = false

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return 0
	}
	if a.tracing != nil {
		a.tracing.dumpOnFailure(stderr)
	}
	reportError(stderr, err)
	return exitCode(err)
}

func main() {
	code := run(os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func usesColor() bool {
	return !color.NoColor
}

func flagValueError(flag, got, want string) error {
	return newFlagError(fmt.Sprintf("valid options for flag '%s' are %s, got %q", flag, want, got))
}
