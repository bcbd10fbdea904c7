package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/animkit/internal/sampler"
)

func newSampleCmd(opts *options) *cobra.Command {
	var (
		file    string
		output  string
		fps     int
		workers int
		format  string
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Sample a scenario into frames",
		Long: `Evaluate a scenario at a fixed frame rate and write one record per frame.

Frames are written to stdout unless -o is given. Formats:
  json     one JSON object per line
  yaml     a YAML sequence
  msgpack  a msgpack array`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cmd.Flags().Changed("fps") {
				cfg.FPS = fps
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}
			if cmd.Flags().Changed("format") {
				cfg.Format = sampler.Format(format)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			tree, _, err := opts.loadTree(file)
			if err != nil {
				return err
			}

			s := sampler.Sampler{Workers: cfg.Workers}
			if cfg.Verbose {
				s.Logger = opts.logger
			}
			start := time.Now()
			frames, err := s.Sample(cmd.Context(), tree, sampler.FrameTimes(tree.Duration(), cfg.FPS))
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			bw := bufio.NewWriter(w)
			if err := sampler.Encode(bw, frames, cfg.Format); err != nil {
				return fmt.Errorf("encode frames: %w", err)
			}
			if err := bw.Flush(); err != nil {
				return err
			}

			if output != "" {
				opts.printf("[+] %d frames (%s) written to %s in %v", len(frames), cfg.Format, output, time.Since(start).Round(time.Millisecond))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "scenario file (default: newest in the scenario directory)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().IntVar(&fps, "fps", 30, "frames per second")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (default: config or CPU count)")
	cmd.Flags().StringVar(&format, "format", string(sampler.FormatJSON), "output format: json, yaml, msgpack")
	return cmd
}
