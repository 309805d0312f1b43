// Package cli builds the qrx command tree
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/genomicx/qrx/internal/version"
	"github.com/genomicx/qrx/pkg/app"
	"github.com/genomicx/qrx/pkg/config"
	"github.com/genomicx/qrx/pkg/errors"
	"github.com/genomicx/qrx/pkg/formats"
	"github.com/genomicx/qrx/pkg/labels"
	"github.com/genomicx/qrx/pkg/logging"
	"github.com/genomicx/qrx/pkg/render"
	"github.com/genomicx/qrx/pkg/topics"
	"github.com/genomicx/qrx/pkg/ui"
)

// globals are the persistent flags shared by every command
type globals struct {
	verbosity    int
	configPath   string
	outputFormat string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	g := &globals{}
	rootCmd := &cobra.Command{
		Use:     "qrx",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(g.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}

	rootCmd.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&g.outputFormat, "output-format", "", MsgFlagOutputFormat)

	rootCmd.AddGroup(&cobra.Group{ID: "generate", Title: "GENERATE:"})
	rootCmd.AddGroup(&cobra.Group{ID: "info", Title: "INFORMATION:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newGenerateCmd(g))
	rootCmd.AddCommand(newBatchCmd(g))
	rootCmd.AddCommand(newExportCmd(g))
	rootCmd.AddCommand(newInteractiveCmd(g))
	rootCmd.AddCommand(newValidateCmd(g))
	rootCmd.AddCommand(newFormatsCmd(g))
	rootCmd.AddCommand(newPresetsCmd(g))
	rootCmd.AddCommand(newConfigCmd(g))
	rootCmd.AddCommand(newServeCmd(g))
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newManCmd())

	if m, err := topics.Load(topics.Builtin(), topics.Options{Renderer: topics.NewGlamourRenderer()}); err == nil {
		m.Install(rootCmd)
	} else {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}

	return rootCmd
}

// load reads the configuration. An explicit --output-format wins over the
// configured one.
func (g *globals) load() (*config.Config, error) {
	opts := config.LoadOptions{Path: g.configPath}
	if g.outputFormat != "" {
		opts.Overrides = map[string]interface{}{"output.format": g.outputFormat}
	}
	return config.Load(opts)
}

func (g *globals) renderer(cmd *cobra.Command, cfg *config.Config) (ui.Renderer, error) {
	f, err := ui.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	return ui.NewRenderer(f, cmd.OutOrStdout())
}

// selection holds the flags that pick a format and tune it
type selection struct {
	format  string
	opts    []string
	caption string
}

func (s *selection) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.format, "format", "f", "", MsgFlagFormat)
	cmd.Flags().StringArrayVar(&s.opts, "opt", nil, MsgFlagOpt)
	cmd.Flags().StringVar(&s.caption, "caption", "", MsgFlagCaption)
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return formats.IDs(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("caption", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "on", "off"}, cobra.ShellCompDirectiveNoFileComp
	})
}

func (s *selection) apply(sess *app.Session) error {
	if s.format != "" {
		if err := sess.SetFormat(s.format); err != nil {
			return err
		}
	}
	if len(s.opts) > 0 {
		pairs, err := formats.ParseOptionPairs(s.opts)
		if err != nil {
			return err
		}
		if err := sess.SetOptions(pairs); err != nil {
			return err
		}
	}
	if s.caption != "" {
		c, err := render.ParseCaption(s.caption)
		if err != nil {
			return err
		}
		sess.SetCaption(c)
	}
	return nil
}

// sheet holds the PDF label sheet flags. Only flags the user set override
// the configured sheet.
type sheet struct {
	pageSize    string
	orientation string
	preset      string
	width       float64
	height      float64
	gap         float64
	margin      float64
}

func (s *sheet) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.pageSize, "page-size", "", MsgFlagPageSize)
	cmd.Flags().StringVar(&s.orientation, "orientation", "", MsgFlagOrientation)
	cmd.Flags().StringVar(&s.preset, "preset", "", MsgFlagPreset)
	cmd.Flags().Float64Var(&s.width, "label-width", 0, MsgFlagLabelWidth)
	cmd.Flags().Float64Var(&s.height, "label-height", 0, MsgFlagLabelHeight)
	cmd.Flags().Float64Var(&s.gap, "gap", 0, MsgFlagGap)
	cmd.Flags().Float64Var(&s.margin, "margin", 0, MsgFlagMargin)
	_ = cmd.RegisterFlagCompletionFunc("preset", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		var ids []string
		for _, p := range labels.Presets() {
			ids = append(ids, p.ID)
		}
		return ids, cobra.ShellCompDirectiveNoFileComp
	})
}

func (s *sheet) apply(cmd *cobra.Command, sess *app.Session) error {
	opts := sess.Labels()
	changed := cmd.Flags().Changed
	if changed("page-size") {
		opts.PageSize = s.pageSize
	}
	if changed("orientation") {
		opts.Orientation = labels.Orientation(s.orientation)
	}
	if changed("preset") {
		opts.Preset = s.preset
	}
	if changed("label-width") {
		opts.LabelWidth = s.width
	}
	if changed("label-height") {
		opts.LabelHeight = s.height
	}
	if changed("gap") {
		opts.Gap = s.gap
	}
	if changed("margin") {
		opts.Margin = s.margin
	}
	return sess.SetLabels(opts)
}

// openSession loads the config and applies the selection flags
func (g *globals) openSession(sel *selection) (*app.Session, *config.Config, error) {
	cfg, err := g.load()
	if err != nil {
		return nil, nil, err
	}
	sess, err := app.New(cfg, nil)
	if err != nil {
		return nil, nil, err
	}
	if err := sel.apply(sess); err != nil {
		return nil, nil, err
	}
	return sess, cfg, nil
}

// writeOutput writes data to path, or to stdout when path is "-"
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path).WithDetail("path", path)
	}
	log.Info().Str("path", path).Int("bytes", len(data)).Msg("Wrote file")
	return nil
}
