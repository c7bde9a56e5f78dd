package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wingstl/internal/prof"
)

// setupProfiling starts the profilers named by the persistent flags. The
// returned cleanup is safe to call multiple times.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	flags := cmd.Root().PersistentFlags()
	cpu, _ := flags.GetString("cpuprofile")
	mem, _ := flags.GetString("memprofile")
	rt, _ := flags.GetString("runtime-trace")

	session, err := prof.Start(prof.Config{CPU: cpu, Mem: mem, Trace: rt})
	if err != nil {
		return nil, err
	}
	errOut := cmd.ErrOrStderr()
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(errOut, "wingstl: %v\n", err)
		}
	}, nil
}
