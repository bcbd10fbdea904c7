package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "animkit %s\n", opts.cfg.BuildVersion)
			if opts.cfg.Verbose {
				fmt.Fprintf(out, "  go:        %s\n", runtime.Version())
				fmt.Fprintf(out, "  scenarios: %s\n", opts.cfg.ScenarioDir)
				fmt.Fprintf(out, "  workers:   %d\n", opts.cfg.Workers)
			}
		},
	}
}
