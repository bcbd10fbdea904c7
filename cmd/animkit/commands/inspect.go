package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ivlev/animkit/internal/animation"
	"github.com/ivlev/animkit/internal/system"
)

func newInspectCmd(opts *options) *cobra.Command {
	var (
		file  string
		stats bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the animation tree of a scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, doc, err := opts.loadTree(file)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if doc.Name != "" {
				fmt.Fprintf(out, "%s (version %s)\n", doc.Name, doc.Version)
			}
			animation.Walk(tree, func(depth int, node animation.Animation) {
				fmt.Fprintf(out, "%s%s\n", strings.Repeat("  ", depth), describe(node))
			})

			if stats {
				host, err := system.Probe()
				if err != nil {
					opts.printf("[!] Host probe failed: %v", err)
					return nil
				}
				fmt.Fprintf(out, "host: %s\n", host)
				fmt.Fprintf(out, "workers: %d\n", opts.cfg.Workers)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "scenario file (default: newest in the scenario directory)")
	cmd.Flags().BoolVar(&stats, "stats", false, "print host CPU and memory figures")
	return cmd
}

// describe renders one node as "kind 1.250s [tracks]".
func describe(node animation.Animation) string {
	line := fmt.Sprintf("%s %.3fs", node.Kind(), node.Duration())

	clip, err := animation.AsClip(node)
	if err != nil {
		return fmt.Sprintf("%s (%d children)", line, len(animation.Children(node)))
	}

	var tracks []string
	if _, ok := clip.Opacity(); ok {
		tracks = append(tracks, "opacity")
	}
	if _, ok := clip.Position(); ok {
		tracks = append(tracks, "position")
	}
	if _, ok := clip.Scale(); ok {
		tracks = append(tracks, "scale")
	}
	if _, ok := clip.Rotation(); ok {
		tracks = append(tracks, "rotation")
	}
	if _, ok := clip.Color(); ok {
		tracks = append(tracks, "color")
	}
	if m, ok := clip.Midi(); ok {
		tracks = append(tracks, fmt.Sprintf("midi(%d tracks @ %g bpm)", len(m.Tracks()), m.TimeModel.Tempo.BeatsPerMinute()))
	}
	if len(tracks) == 0 {
		return line
	}
	return fmt.Sprintf("%s [%s]", line, strings.Join(tracks, ", "))
}
