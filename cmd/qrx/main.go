package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/genomicx/qrx/internal/cli"
	"github.com/genomicx/qrx/pkg/errors"
	"github.com/genomicx/qrx/pkg/ui/styles"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cli.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", styles.Render("Error", "Error:"), errors.UserMessage(err))
		stop()
		os.Exit(1)
	}
}
