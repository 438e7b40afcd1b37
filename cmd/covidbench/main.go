// Command covidbench times one data-wrangling task, the high impact
// cities table for Brazil, on several dataframe engines.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wdm0006/covidbench/pkg/engine"
)

var version = "dev"

type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

type app struct {
	logFormat string
	verbose   bool
	log       *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}
	root := &cobra.Command{
		Use:           "covidbench",
		Short:         "Benchmark dataframe engines on the Brazil COVID-19 high impact cities task",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(a.logFormat, a.verbose)
			if err != nil {
				return err
			}
			a.log = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "console", "log encoding: console or json")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	run := newRunCmd(a)
	root.AddCommand(run, newGenerateCmd(a))
	// Without a subcommand covidbench runs every engine with the defaults.
	root.RunE = func(cmd *cobra.Command, args []string) error {
		run.SetContext(cmd.Context())
		return run.RunE(run, args)
	}
	return root
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ue usageError
	if errors.As(err, &ue) || errors.Is(err, engine.ErrUnsupportedFormat) {
		return 2
	}
	return 1
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
	}
	return exitCode(err)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
