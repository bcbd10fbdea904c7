package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ivlev/animkit/internal/animation"
	"github.com/ivlev/animkit/internal/midifile"
	"github.com/ivlev/animkit/internal/scenario"
	"github.com/ivlev/animkit/internal/schema"
)

func newImportMidiCmd(opts *options) *cobra.Command {
	var (
		input  string
		output string
		name   string
	)

	cmd := &cobra.Command{
		Use:   "import-midi",
		Short: "Build a scenario from MIDI controller automation",
		Long: `Read control change events from a Standard MIDI File and write a scenario
with a single clip driven by the resulting automation tracks. Controllers
are mapped to targets by the midiMapping config section, or the default
layout: CC1 opacity, CC10/11 position, CC7 scale, CC74 rotation,
CC20-23 colour.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" {
				return fmt.Errorf("--input is required")
			}
			mapping, err := opts.cfg.Mapping()
			if err != nil {
				return err
			}

			f, err := os.Open(input)
			if err != nil {
				return err
			}
			defer f.Close()

			tl, err := midifile.Import(f, mapping)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			if len(tl.Tracks()) == 0 {
				opts.printf("[!] No mapped controller events in %s", input)
			}

			if name == "" {
				name = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
			}
			clip := animation.NewClip(0, animation.WithMidi(tl))
			doc := scenario.FromAnimation(name, clip)

			if output == "" {
				if err := os.MkdirAll(opts.cfg.ScenarioDir, 0755); err != nil {
					return err
				}
				output = scenario.GeneratePath(opts.cfg.ScenarioDir)
			}
			if err := scenario.Write(doc, output); err != nil {
				return err
			}

			opts.printf("[+] Scenario %q written to %s (%d tracks, %.3fs)", name, output, len(tl.Tracks()), clip.Duration())
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "MIDI file to import")
	cmd.Flags().StringVarP(&output, "output", "o", "", "scenario file (default: timestamped file in the scenario directory)")
	cmd.Flags().StringVar(&name, "name", "", "scenario name (default: input file name)")
	return cmd
}

func newExportMidiCmd(opts *options) *cobra.Command {
	var (
		file   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export-midi",
		Short: "Write a clip's automation as a MIDI file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return fmt.Errorf("--output is required")
			}
			mapping, err := opts.cfg.Mapping()
			if err != nil {
				return err
			}

			tree, _, err := opts.loadTree(file)
			if err != nil {
				return err
			}
			clip, err := animation.AsClip(tree)
			if err != nil {
				return err
			}
			tl, ok := clip.Midi()
			if !ok {
				return schema.ErrMissingAutomationTimeline
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := midifile.Export(f, tl, mapping); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			opts.printf("[+] %d automation tracks written to %s", len(tl.Tracks()), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "scenario file (default: newest in the scenario directory)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "MIDI file to write")
	return cmd
}
