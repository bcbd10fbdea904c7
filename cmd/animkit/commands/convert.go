package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivlev/animkit/internal/schema"
)

func newConvertCmd(opts *options) *cobra.Command {
	var (
		file     string
		midiOnly bool
		msgpack  bool
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Print the wire schema of a single-clip scenario",
		Long: `Convert a scenario whose root is a single clip into the flat wire schema
used by the animation service. Groups and sequences cannot be represented
and are rejected.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, _, err := opts.loadTree(file)
			if err != nil {
				return err
			}

			var payload any
			if midiOnly {
				payload, err = schema.MidiSchema(tree)
			} else {
				payload, err = schema.ToSchema(tree)
			}
			if err != nil {
				return err
			}

			var data []byte
			if msgpack {
				data, err = schema.MarshalMsgpack(payload)
			} else {
				data, err = schema.MarshalJSON(payload)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if _, err := out.Write(data); err != nil {
				return err
			}
			if !msgpack {
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "scenario file (default: newest in the scenario directory)")
	cmd.Flags().BoolVar(&midiOnly, "midi", false, "print only the MIDI automation payload")
	cmd.Flags().BoolVar(&msgpack, "msgpack", false, "encode as msgpack instead of JSON")
	return cmd
}
