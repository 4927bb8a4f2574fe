package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/shrustiadlak/digital-dear-diary/internal/config"
	"github.com/shrustiadlak/digital-dear-diary/internal/db"
	httpx "github.com/shrustiadlak/digital-dear-diary/internal/http"
	"github.com/shrustiadlak/digital-dear-diary/internal/observability"
	"github.com/shrustiadlak/digital-dear-diary/internal/session"
)

func main() {
	// local development convenience; missing .env is fine
	_ = godotenv.Load()

	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	// tracing is best effort; the app runs without a collector
	shutdownTracer, err := observability.InitTracer(context.Background(), "dear-diary", cfg.OTLPEndpoint)

	if err != nil {
		log.Warn("tracer init failed", "err", err)
		shutdownTracer = func(context.Context) error { return nil }
	}

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("could not connect to postgres", "err", err)
		os.Exit(1)
	}

	migrateCtx, cancelMigrate := config.WithTimeout(10 * time.Second)

	err = db.Migrate(migrateCtx, pool)
	cancelMigrate()

	if err != nil {
		log.Error("schema migration failed", "err", err)
		os.Exit(1)
	}

	sessions := session.NewStore(session.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.SessionTTL(),
	})

	router := httpx.NewRouter(log, pool, sessions, cfg)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
			return
		}

		pool.Close()

		if err := sessions.Close(); err != nil {
			log.Error("closing session store failed", "err", err)
		}

		if err := shutdownTracer(ctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
