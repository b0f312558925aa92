package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/truemediaorg/mediagateway/api"
	"github.com/truemediaorg/mediagateway/metrics"
	"github.com/truemediaorg/mediagateway/service"
	"golang.org/x/sync/errgroup"
)

func init() {
	rootCmd.AddCommand(serverCmd)
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Runs the mediagateway HTTP API",
	Long:  `Runs the mediagateway HTTP API`,
	Run: func(cmd *cobra.Command, args []string) {
		/*
			Graceful shutdown is possible with errgroup + signal.NotifyContext
			NotifyContext returns a context that will close on OS signals to terminate the process
			errgroup uses that context, and also closes it in case a goroutine errors out
		*/
		ctx, done := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer done()

		cfg, err := loadConfig(ctx)
		if err != nil {
			log.Fatalf("error reading config: %v", err)
		}

		m := metrics.New()
		gateway, registry, err := service.Build(ctx, cfg, m)
		if err != nil {
			log.Fatalf("error building provider chains: %v", err)
		}
		log.WithField("media", cfg.Resolve.ProviderOrder).WithField("profile", cfg.Resolve.ProfileProviderOrder).Info("provider order")

		server := &http.Server{
			Addr:              fmt.Sprintf("0.0.0.0:%d", cfg.Server.Port),
			Handler:           api.NewRouter(gateway, registry.Enabled(), m, m.Handler()),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gCtx := errgroup.WithContext(ctx)
		g.Go(func() error {
			log.WithField("addr", server.Addr).Info("listening")
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})
		// ...and shut down the server when asked to terminate
		g.Go(func() error {
			<-gCtx.Done()
			defer log.Info("exiting server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})

		if err := g.Wait(); err != nil {
			log.Errorf("caught error: %v", err)
		}
	},
}
