package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/romdo/go-pace/internal/config"
	"github.com/romdo/go-pace/internal/demo"
	"github.com/romdo/go-pace/internal/server"
)

var (
	serverHost string
	serverPort int
	noReload   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the demo HTTP server with graceful shutdown support.

Ctrl+C (SIGINT) or SIGTERM shuts the server down. When a config file is in
use, edits to it are picked up and re-applied to the search debouncer and
click throttler.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("host") {
			cfg.Server.Host = serverHost
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}

		ctx, stop := signal.NotifyContext(
			cmd.Context(), os.Interrupt, syscall.SIGTERM,
		)
		defer stop()

		return serve(ctx, cfg, logger, !noReload)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serverHost, "host", "localhost",
		"host to bind (overrides server.host)")
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080,
		"port to listen on (overrides server.port)")
	serveCmd.Flags().BoolVar(&noReload, "no-reload", false,
		"do not watch the config file for changes")
}

// serve runs the HTTP server, the traversal logger and the config watcher
// until ctx is done or one of them fails.
func serve(
	ctx context.Context,
	c *config.Config,
	log *zap.Logger,
	reload bool,
) error {
	app := demo.New(c, log)
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn("Failed to close app", zap.Error(err))
		}
	}()

	p := pool.New().WithContext(ctx).WithCancelOnError()
	srv := server.New(ctx, app, log)

	p.Go(func(context.Context) error {
		return srv.ListenAndServe(c.Server.Addr())
	})

	p.Go(func(ctx context.Context) error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(), c.Server.ShutdownTimeout,
		)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		log.Info("HTTP server stopped gracefully")

		return nil
	})

	p.Go(func(ctx context.Context) error {
		return ignoreCanceled(app.WatchTraversal(ctx))
	})

	if file := c.File(); reload && file != "" {
		p.Go(func(ctx context.Context) error {
			return ignoreCanceled(config.Watch(
				ctx, file, config.DefaultReloadWait, log, app.Apply,
			))
		})
	}

	err := p.Wait()
	_ = log.Sync()

	return ignoreCanceled(err)
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}
