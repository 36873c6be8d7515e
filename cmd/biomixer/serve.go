package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pbaille/biomixer/internal/api"
	"github.com/pbaille/biomixer/internal/gateway"
)

func serveCmd() *cobra.Command {
	var addr, static string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the synthesis proxy and serve the front-end",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("static") {
				cfg.Server.StaticDir = static
			}
			if cfg.Upstream.APIKey == "" {
				logger.Warn("ANTHROPIC_API_KEY is not set; synthesis requests will fail")
			}

			gw := gateway.New(cfg.Gateway(), logger.Named("gateway"))
			server := api.New(gw, api.Options{
				Addr:      cfg.Server.Addr,
				StaticDir: cfg.Server.StaticDir,
				Logger:    logger.Named("api"),
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return server.Run(ctx)
			})
			g.Go(func() error {
				<-ctx.Done()
				logger.Info("stop requested", zap.Error(context.Cause(ctx)))
				return nil
			})
			return g.Wait()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":3001", "server address")
	cmd.Flags().StringVar(&static, "static", "dist", "directory holding the built front-end")
	return cmd
}
