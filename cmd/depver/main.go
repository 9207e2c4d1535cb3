package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/issue"
)

// Set via -ldflags at build time.
var version = "dev"

func main() {
	if err := execute(context.Background(), newRootCmd()); err != nil {
		os.Exit(issue.ExitCode(err))
	}
}

func execute(ctx context.Context, root *cobra.Command) error {
	return fang.Execute(
		ctx,
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler(root)),
	)
}

// errorHandler prints the error with its suggestions, so a failed write
// always lists the manifests left updated. --verbose adds the error chain.
func errorHandler(root *cobra.Command) fang.ErrorHandler {
	return func(w io.Writer, styles fang.Styles, err error) {
		verbose, _ := root.PersistentFlags().GetBool("verbose")
		_, _ = fmt.Fprintln(w, styles.ErrorHeader.String())
		_, _ = fmt.Fprintln(w, issue.Format(err, verbose))
		_, _ = fmt.Fprintln(w)
	}
}
