// Package main boots the Product Catalog Service HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fairyhunter13/product-catalog-service/internal/catalog"
	"github.com/fairyhunter13/product-catalog-service/internal/config"
	httpapi "github.com/fairyhunter13/product-catalog-service/internal/http"
	"github.com/fairyhunter13/product-catalog-service/internal/mediator"
	"github.com/fairyhunter13/product-catalog-service/internal/obs"
	"github.com/fairyhunter13/product-catalog-service/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		obs.InitLogger("info")
		obs.Logger.Error("config_error", "error", err)
		os.Exit(1)
	}
	obs.InitLogger(cfg.LogLevel)
	obs.Logger.Info("service_starting")

	st, err := store.Open(cfg.DataDir)
	if err != nil {
		obs.Logger.Error("store_open_error", "error", err)
		os.Exit(1)
	}
	defer func() { _ = st.Close() }()

	bus := mediator.New(obs.Logger)
	mediator.Subscribe(bus, catalog.AuditLogSubscriber(obs.Logger))
	mediator.Subscribe(bus, catalog.CreatedCounterSubscriber())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Commands publish through the bus directly unless async delivery is on.
	var pub mediator.Publisher = bus
	var pq *mediator.PublishQueue
	if cfg.PublishAsync {
		pq = mediator.NewPublishQueue(bus, cfg.PublishQueueSize, obs.Logger)
		pq.Start(ctx)
		pub = pq
	}

	// A registration error here is a wiring defect; refuse to start.
	if err := catalog.Register(bus, st, pub); err != nil {
		obs.Logger.Error("handler_registration_error", "error", err)
		os.Exit(1)
	}

	app := httpapi.NewApp(cfg, bus)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(app),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}

	if pq != nil {
		pq.CloseIntake()
		ctxDrain, cancelDrain := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancelDrain()
		if drained := pq.DrainUntil(ctxDrain); !drained {
			obs.Logger.Warn("publish_queue_drain_timeout", "backlog_size", pq.BacklogSize())
		} else {
			obs.Logger.Info("publish_queue_drain_complete")
		}
	}

	obs.Logger.Info("service_stopped")
}
