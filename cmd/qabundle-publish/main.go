// Command qabundle-publish pushes a merged dataset to a dataset hub or a database as a table
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
	"qabundle/internal/services/publish/domain"
	publishmod "qabundle/internal/services/publish/module"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const service = "qabundle-publish"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newCmd(os.Stdout).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(perr.ExitCode(err))
	}
}

func newCmd(stdout io.Writer, mopts ...modkit.Option) *cobra.Command {
	opts := publishmod.FromConfig(config.New())
	var token string

	cmd := &cobra.Command{
		Use:           service,
		Short:         "Publish a merged question answering dataset as a parquet table",
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
			l.Info().Str("input", opts.Input).Str("repo", opts.Repo).Str("sink", opts.Sink).Msg("publishing dataset")

			m := publishmod.New(modkit.Deps{Log: *l, Cfg: config.New()}, opts, mopts...)
			res, err := modkit.MustPortsOf[publishmod.Ports](m).Runner.Publish(ctx, opts.Request(token))
			if err != nil {
				l.Error().Err(err).Str("code", perr.Label(perr.CodeOf(err))).Msg("publish failed")
				return err
			}

			if res.Sink == domain.SinkHub {
				fmt.Fprintf(stdout, "Upload complete! The dataset is now available at %s\n", res.Location)
				return nil
			}
			fmt.Fprintf(stdout, "Publish complete! %d rows written to %s (%s)\n", res.Rows, res.Location, res.Sink)
			return nil
		},
	}
	// --version names the dataset config, so build info lives in a subcommand
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintln(stdout, version.Info(service).String())
		},
	})

	f := cmd.Flags()
	f.StringVar(&opts.Input, "input", opts.Input, "merged dataset file")
	f.StringVar(&opts.Repo, "repo", opts.Repo, "dataset repository id, namespace/name")
	f.StringVar(&opts.Config, "version", opts.Config, "dataset config name to publish under")
	f.StringVar(&opts.Config, "config", opts.Config, "alias of --version")
	f.StringVar(&token, "token", "", "credential for the sink; prompted for when absent")
	f.StringVar(&opts.Sink, "sink", opts.Sink, "where to publish: hub, clickhouse, postgres or file")
	f.StringVar(&opts.HubEndpoint, "endpoint", opts.HubEndpoint, "dataset hub base URL")
	f.StringVar(&opts.FileDir, "dir", opts.FileDir, "output directory of the file sink")
	f.DurationVar(&opts.Timeouts.Run, "timeout", opts.Timeouts.Run, "overall time budget, 0 for none")
	return cmd
}
