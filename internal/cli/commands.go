package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/genomicx/qrx/pkg/app"
	"github.com/genomicx/qrx/pkg/batch"
	"github.com/genomicx/qrx/pkg/errors"
	"github.com/genomicx/qrx/pkg/export"
	"github.com/genomicx/qrx/pkg/logging"
	"github.com/genomicx/qrx/pkg/ui/display"
)

// asPreview writes the on-screen PNG instead of an export
const asPreview = "preview"

func newGenerateCmd(g *globals) *cobra.Command {
	var (
		sel    selection
		sh     sheet
		as     string
		size   int
		output string
	)
	cmd := &cobra.Command{
		Use:     "generate TEXT",
		Short:   MsgGenerateShort,
		Long:    MsgGenerateLong,
		Example: MsgGenerateExample,
		GroupID: "generate",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cfg, err := g.openSession(&sel)
			if err != nil {
				return err
			}
			if err := sh.apply(cmd, sess); err != nil {
				return err
			}
			out, err := g.renderer(cmd, cfg)
			if err != nil {
				return err
			}
			if size != 0 {
				if err := export.CheckSize(size); err != nil {
					return err
				}
			}

			text := args[0]
			var buf bytes.Buffer
			var report display.ExportReport
			if as == asPreview {
				img, err := sess.Preview(text)
				if err != nil {
					return err
				}
				if err := export.EncodeImage(&buf, img, export.PNG); err != nil {
					return err
				}
				report = display.ExportReport{Path: outputPath(output, previewName(sess)), Written: 1}
			} else {
				format, err := sess.ResolveSingle(as, size)
				if err != nil {
					return err
				}
				art, err := sess.Export(&buf, text, format, size)
				if err != nil {
					return err
				}
				report = display.ExportReport{
					Path:    outputPath(output, art.FileName),
					Written: art.Stats.Written,
					Skipped: art.Stats.Skipped,
					Pages:   art.Stats.Pages,
				}
			}

			if err := writeOutput(cmd, report.Path, buf.Bytes()); err != nil {
				return err
			}
			if report.Path == "-" {
				return nil
			}
			return out.RenderResult(&report)
		},
	}
	sel.register(cmd)
	sh.register(cmd)
	cmd.Flags().StringVar(&as, "as", "", MsgFlagAsSingle)
	cmd.Flags().IntVar(&size, "size", 0, MsgFlagSize)
	cmd.Flags().StringVarP(&output, "output", "o", "", MsgFlagOutput)
	_ = cmd.RegisterFlagCompletionFunc("as", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"svg", "png", "jpg", "pdf", asPreview}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func newBatchCmd(g *globals) *cobra.Command {
	var (
		sel        selection
		watch      bool
		previewDir string
	)
	cmd := &cobra.Command{
		Use:     "batch [FILE]",
		Short:   MsgBatchShort,
		Long:    MsgBatchLong,
		Example: MsgBatchExample,
		GroupID: "generate",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch && len(args) == 0 {
				return errors.New(errors.ErrInvalidInput, MsgErrWatchNeedsIn)
			}
			sess, cfg, err := g.openSession(&sel)
			if err != nil {
				return err
			}
			out, err := g.renderer(cmd, cfg)
			if err != nil {
				return err
			}
			sess.SetMode(app.ModeBatch)

			run := func() error {
				raw, err := readInput(cmd, args)
				if err != nil {
					return err
				}
				res := sess.Batch(raw)
				previews, err := writePreviews(previewDir, res)
				if err != nil {
					return err
				}
				return out.RenderResult(display.NewBatchReport(res, previews))
			}

			if err := run(); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			return watchFile(cmd, args[0], cfg.Batch.Debounce, func() {
				if err := run(); err != nil {
					_ = out.RenderError(err)
				}
			})
		},
	}
	sel.register(cmd)
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, MsgFlagWatch)
	cmd.Flags().StringVar(&previewDir, "preview-dir", "", MsgFlagPreviewDir)
	return cmd
}

func newExportCmd(g *globals) *cobra.Command {
	var (
		sel    selection
		sh     sheet
		as     string
		size   int
		output string
	)
	cmd := &cobra.Command{
		Use:     "export [FILE]",
		Short:   MsgExportShort,
		Long:    MsgExportLong,
		Example: MsgExportExample,
		GroupID: "generate",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cfg, err := g.openSession(&sel)
			if err != nil {
				return err
			}
			if err := sh.apply(cmd, sess); err != nil {
				return err
			}
			out, err := g.renderer(cmd, cfg)
			if err != nil {
				return err
			}
			format, err := app.ParseBatchFormat(as)
			if err != nil {
				return err
			}
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			sess.SetMode(app.ModeBatch)

			done := logging.LogOperationStart(logging.GetLogger("cli"), "export")
			defer done()

			var buf bytes.Buffer
			art, err := sess.ExportBatch(&buf, raw, format, size)
			if err != nil {
				return err
			}
			path := outputPath(output, art.FileName)
			if err := writeOutput(cmd, path, buf.Bytes()); err != nil {
				return err
			}
			if path == "-" {
				return nil
			}
			return out.RenderResult(&display.ExportReport{
				Path:    path,
				Written: art.Stats.Written,
				Skipped: art.Stats.Skipped,
				Pages:   art.Stats.Pages,
			})
		},
	}
	sel.register(cmd)
	sh.register(cmd)
	cmd.Flags().StringVar(&as, "as", string(app.AsZipSVG), MsgFlagAsBatch)
	cmd.Flags().IntVar(&size, "size", 0, MsgFlagSize)
	cmd.Flags().StringVarP(&output, "output", "o", "", MsgFlagOutput)
	_ = cmd.RegisterFlagCompletionFunc("as", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{string(app.AsZipSVG), string(app.AsZipPNG), string(app.AsSheet)}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func newValidateCmd(g *globals) *cobra.Command {
	var sel selection
	cmd := &cobra.Command{
		Use:     "validate [FILE]",
		Short:   MsgValidateShort,
		Long:    MsgValidateLong,
		GroupID: "generate",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cfg, err := g.openSession(&sel)
			if err != nil {
				return err
			}
			out, err := g.renderer(cmd, cfg)
			if err != nil {
				return err
			}
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			values := batch.ParseInput(raw)
			if len(values) == 0 {
				return errors.New(errors.ErrInvalidInput, MsgErrNoInput)
			}
			report := display.NewValidationReport(sess.Format(), values)
			if err := out.RenderResult(report); err != nil {
				return err
			}
			if report.Invalid > 0 {
				return errors.Newf(errors.ErrInvalidInput, MsgErrInvalidCount, report.Invalid, len(values)).
					WithDetail("invalid", report.Invalid)
			}
			return nil
		},
	}
	sel.register(cmd)
	return cmd
}

// readInput reads FILE, or stdin when no file is given
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		return batch.ReadAll(cmd.InOrStdin())
	}
	return batch.ReadFile(args[0])
}

// writePreviews stores each rendered image under dir and returns the path
// per item index
func writePreviews(dir string, res batch.Result) (map[int]string, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite, "failed to create %s", dir)
	}
	previews := make(map[int]string)
	for _, it := range res.Items {
		if !it.OK() || it.Image == nil {
			continue
		}
		path := filepath.Join(dir, export.EntryName(it.Index+1, it.Value, "png"))
		f, err := os.Create(path)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileWrite, "failed to create %s", path)
		}
		err = export.EncodeImage(f, it.Image, export.PNG)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path)
		}
		previews[it.Index] = path
	}
	return previews, nil
}

func outputPath(flag, def string) string {
	if flag != "" {
		return flag
	}
	return def
}

func previewName(sess *app.Session) string {
	return fmt.Sprintf("preview-%s.png", sess.Format().ID)
}
