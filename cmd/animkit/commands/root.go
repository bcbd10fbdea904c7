package commands

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/ivlev/animkit/internal/animation"
	"github.com/ivlev/animkit/internal/config"
	"github.com/ivlev/animkit/internal/scenario"
	"github.com/ivlev/animkit/internal/system"
)

// Version is overridden at build time with -ldflags "-X ...commands.Version=...".
var Version = "dev"

// options is shared by every subcommand of one root command.
type options struct {
	configPath string
	verbose    bool

	cfg    config.Config
	logger *log.Logger
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "animkit",
		Short: "Evaluate keyframe animation scenarios",
		Long: `animkit - evaluate keyframe animation trees described in YAML scenarios.

A scenario is a tree of clips, groups (members share a start time) and
sequences (children play back to back). Clips carry keyframed opacity,
position, scale, rotation and colour tracks plus optional beat-synced
MIDI automation.

Without -f, commands use the newest scenario in the configured
scenario directory.

Examples:
  # Sample at 60 fps as JSON lines
  animkit sample -f intro.yaml --fps 60

  # Turn CC automation into a scenario
  animkit import-midi -i automation.mid --name intro`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if opts.verbose {
				cfg.Verbose = true
			}
			cfg.BuildVersion = Version
			opts.cfg = cfg
			opts.logger = log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newSampleCmd(opts),
		newInspectCmd(opts),
		newConvertCmd(opts),
		newImportMidiCmd(opts),
		newExportMidiCmd(opts),
		newVersionCmd(opts),
	)
	return root
}

// ExecuteContext runs the command line with ctx.
func ExecuteContext(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func (o *options) printf(format string, args ...any) {
	o.logger.Printf(format, args...)
}

func (o *options) debugf(format string, args ...any) {
	if o.cfg.Verbose {
		o.logger.Printf(format, args...)
	}
}

// loadTree reads and builds the scenario at path, or the newest one in the
// scenario directory when path is empty.
func (o *options) loadTree(path string) (animation.Animation, *scenario.Document, error) {
	if path == "" {
		latest, err := system.FindLatestScenario(o.cfg.ScenarioDir)
		if err != nil {
			return nil, nil, fmt.Errorf("%w; pass -f or put a scenario in %s/", err, o.cfg.ScenarioDir)
		}
		path = latest
		o.printf("[*] Using scenario: %s", path)
	}

	doc, err := scenario.Read(path)
	if err != nil {
		return nil, nil, err
	}
	tree, err := scenario.Build(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	o.debugf("[*] Loaded %q: %s, %.3fs", doc.Name, tree.Kind(), tree.Duration())
	return tree, doc, nil
}
