package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/genomicx/qrx/pkg/app"
	"github.com/genomicx/qrx/pkg/prompt"
	"github.com/genomicx/qrx/pkg/ui/display"
)

// newDriver is replaced in tests
var newDriver = func() prompt.Driver { return prompt.NewSurveyDriver() }

func newInteractiveCmd(g *globals) *cobra.Command {
	var sel selection
	cmd := &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   MsgInteractiveShort,
		GroupID: "generate",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cfg, err := g.openSession(&sel)
			if err != nil {
				return err
			}
			out, err := g.renderer(cmd, cfg)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			plan, err := prompt.Run(ctx, newDriver(), sess)
			if stderrors.Is(err, prompt.ErrAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), MsgInteractiveDone)
				return nil
			}
			if err != nil {
				return err
			}
			report, err := execute(cmd, sess, plan)
			if err != nil {
				return err
			}
			return out.RenderResult(report)
		},
	}
	sel.register(cmd)
	return cmd
}

// execute carries out a prompt plan on the session it configured
func execute(cmd *cobra.Command, sess *app.Session, plan prompt.Plan) (*display.ExportReport, error) {
	var (
		buf bytes.Buffer
		art app.Artifact
		err error
	)
	if plan.Mode == app.ModeBatch {
		art, err = sess.ExportBatch(&buf, plan.Batch, plan.BatchAs, plan.Size)
	} else {
		art, err = sess.Export(&buf, plan.Text, plan.Single, plan.Size)
	}
	if err != nil {
		return nil, err
	}
	if err := writeOutput(cmd, plan.Path, buf.Bytes()); err != nil {
		return nil, err
	}
	return &display.ExportReport{
		Path:    plan.Path,
		Written: art.Stats.Written,
		Skipped: art.Stats.Skipped,
		Pages:   art.Stats.Pages,
	}, nil
}
