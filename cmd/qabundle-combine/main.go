// Command qabundle-combine merges the question answering files of a directory into one dataset document
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"qabundle/internal/core/version"
	"qabundle/internal/modkit"
	"qabundle/internal/platform/config"
	perr "qabundle/internal/platform/errors"
	"qabundle/internal/platform/logger"
	combinemod "qabundle/internal/services/combine/module"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const service = "qabundle-combine"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newCmd(os.Stdout).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(perr.ExitCode(err))
	}
}

func newCmd(stdout io.Writer) *cobra.Command {
	opts := combinemod.FromConfig(config.New())

	cmd := &cobra.Command{
		Use:           service,
		Short:         "Merge question answering JSON files into one dataset",
		Version:       version.Info(service).String(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lo := logger.FromEnv()
			if lo.Service == "" {
				lo.Service = service
			}
			logger.Init(lo)

			ctx := logger.WithRun(cmd.Context(), uuid.NewString())
			l := logger.C(ctx)

			m := combinemod.New(modkit.Deps{Log: *l, Cfg: config.New()}, opts)
			sum, err := modkit.MustPortsOf[combinemod.Ports](m).Runner.Run(ctx)
			if err != nil {
				l.Error().Err(err).Str("code", perr.Label(perr.CodeOf(err))).Msg("combine failed")
				return err
			}

			fmt.Fprintf(stdout, "Combined dataset saved to %s\n", sum.Output)
			fmt.Fprintf(stdout, "Total samples: %d\n", sum.Records)
			return nil
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	f := cmd.Flags()
	f.StringVarP(&opts.InputDir, "input-dir", "i", opts.InputDir, "directory holding the source JSON files")
	f.StringVar(&opts.Pattern, "pattern", opts.Pattern, "glob selecting source files inside the input directory")
	f.StringVarP(&opts.Output, "output", "o", opts.Output, "merged dataset file to write")
	return cmd
}
