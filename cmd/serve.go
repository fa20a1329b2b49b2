package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"order-entry/config"
	"order-entry/consumers"
	"order-entry/controllers"
	"order-entry/photo"
	"order-entry/rabbitmq"
	"order-entry/session"
	"order-entry/submission"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const sessionTTL = 24 * time.Hour

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(config.LoadConfig())
	},
}

func runServe(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if cfg.DemoMode() {
		a.log.Warnf(ctx, "APPS_SCRIPT_URL not configured, orders are saved locally (demo mode)")
	}

	deps := submission.Deps{
		Sender: a.client,
		Serial: a.allocator,
		Usage:  a.ranker,
		Local:  a.local,
		Log:    a.log,
	}

	// RabbitMQ 可选
	if cfg.RabbitMQURL != "" {
		rmq, err := rabbitmq.NewRabbitMQ(cfg)
		if err != nil {
			return err
		}
		defer rmq.Close()
		if err := rmq.SetupQueues(); err != nil {
			return err
		}
		if err := consumers.StartOrderConsumer(ctx, rmq.Channel, cfg, a.log); err != nil {
			return err
		}
		deps.Publisher = rmq
	}

	sessions := session.NewRegistry(deps, a.ranker, a.allocator, cfg.MultiItem)
	go pruneSessions(ctx, sessions)

	gin.SetMode(cfg.GinMode)
	oc := &controllers.OrderController{
		Sessions: sessions,
		Ranker:   a.ranker,
		Serial:   a.allocator,
		History:  a.history,
		Photos: photo.NewProcessor(photo.Options{
			MaxBytes: cfg.PhotoMaxBytes,
			MaxWidth: cfg.PhotoMaxWidth,
			Quality:  cfg.PhotoQuality,
		}),
		Log: a.log,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           controllers.NewRouter(oc, a.log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Infof(ctx, "order entry service starting on port %s (store=%s)", cfg.Port, cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Infof(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func pruneSessions(ctx context.Context, sessions *session.Registry) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sessions.Prune(time.Now().Add(-sessionTTL))
		}
	}
}
