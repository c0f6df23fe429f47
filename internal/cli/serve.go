package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/effective-security/quickai/server"
	"github.com/effective-security/xlog"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *options) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the functions over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if listen != "" {
				opts.cfg.Server.ListenURL = listen
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(opts.cfg.Server, opts.registry(cmd.ErrOrStderr()))
			go func() {
				<-ctx.Done()
				logger.KV(xlog.INFO, "status", "stopping")
				_ = srv.Close()
			}()

			return srv.Start(context.WithoutCancel(ctx))
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "address to listen on, e.g. :8080")
	return cmd
}
