package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/genomicx/qrx/internal/version"
	"github.com/genomicx/qrx/pkg/config"
	"github.com/genomicx/qrx/pkg/errors"
	"github.com/genomicx/qrx/pkg/formats"
	"github.com/genomicx/qrx/pkg/ui/display"
)

func newFormatsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:       "formats [ID]",
		Short:     MsgFormatsShort,
		GroupID:   "info",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: formats.IDs(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			out, err := g.renderer(cmd, cfg)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return out.RenderResult(display.NewFormatList(formats.Groups()))
			}
			f, ok := formats.Get(args[0])
			if !ok {
				return errors.Newf(errors.ErrNotFound, "unknown format %q", args[0]).WithDetail("format", args[0])
			}
			return out.RenderResult(display.NewFormatDetail(f))
		},
	}
}

func newPresetsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "presets",
		Short:   MsgPresetsShort,
		GroupID: "info",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			out, err := g.renderer(cmd, cfg)
			if err != nil {
				return err
			}
			return out.RenderResult(display.NewPresetList())
		},
	}
}

func newConfigCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: MsgConfigShowShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			text, err := cfg.Show()
			if err != nil {
				return err
			}
			if cfg.Source != "" {
				fmt.Fprintf(cmd.OutOrStdout(), MsgConfigSource, cfg.Source)
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: MsgConfigInitShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := g.configPath
			if path == "" {
				path = config.DefaultPath()
			}
			if err := config.Init(path, force); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), styledf("Success", MsgConfigWritten, path))
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, MsgFlagForce)
	cmd.AddCommand(initCmd)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "man",
		Short:   MsgManShort,
		GroupID: "misc",
		Hidden:  true,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "QRX",
				Section: "1",
				Source:  "qrx " + version.Version,
				Manual:  "qrx manual",
			}
			if err := doc.GenMan(cmd.Root(), header, cmd.OutOrStdout()); err != nil {
				return fmt.Errorf("failed to generate man page: %w", err)
			}
			return nil
		},
	}
}
