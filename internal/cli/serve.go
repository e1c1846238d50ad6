package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/moonshill-backend/internal/app"
)

const shutdownGrace = 15 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the batch trigger and the ops HTTP server until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Start(ctx); err != nil {
				return err
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(a.Serve)
			g.Go(func() error {
				<-gctx.Done()
				a.Log.Info("Shutting down")
				sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
				defer cancel()
				return a.Server.Shutdown(sctx)
			})
			return g.Wait()
		},
	}
}
