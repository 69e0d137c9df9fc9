// Command server runs the mostokey rights ledger: an HTTP API over the token
// registry, purchase engine, and earnings withdrawal path.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"mostokey/internal/events"
	"mostokey/internal/jwtauth"
	"mostokey/internal/payout"
	"mostokey/internal/platform/config"
	"mostokey/internal/platform/httpserver"
	"mostokey/internal/platform/logger"
	"mostokey/internal/platform/middleware"
	platformpg "mostokey/internal/platform/postgres"
	"mostokey/internal/rights/attest"
	"mostokey/internal/rights/handler"
	"mostokey/internal/rights/metrics"
	"mostokey/internal/rights/service"
	"mostokey/internal/rights/store"
	memorystore "mostokey/internal/rights/store/memory"
	pgstore "mostokey/internal/rights/store/postgres"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ledger, closeLedger, err := buildLedger(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeLedger()

	publisher, closePublisher, err := buildPublisher(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closePublisher()

	mode, ok := attest.ParseMode(cfg.AttestationMode)
	if !ok {
		return errors.New("MOSTOKEY_ATTESTATION_VERIFY must be permissive or strict")
	}

	svc := service.New(ledger, payout.NewBank(),
		service.WithLogger(log),
		service.WithPublisher(publisher),
		service.WithMetrics(metrics.New()),
		service.WithAttestationMode(mode),
	)

	tokens := jwtauth.New(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.ContentTypeJSON)

	handler.New(svc, log).Register(router, middleware.RequireAuth(tokens, log))
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting mostokey server", "addr", cfg.Addr, "attestation_mode", mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func buildLedger(ctx context.Context, cfg config.Server, log *slog.Logger) (store.Ledger, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Info("using in-memory ledger")
		return memorystore.New(), func() {}, nil
	}

	db, err := platformpg.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	ledger := pgstore.New(db)
	if err := ledger.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	log.Info("using postgres ledger")
	return ledger, func() { _ = db.Close() }, nil
}

func buildPublisher(ctx context.Context, cfg config.Server, log *slog.Logger) (events.Publisher, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		log.Info("using in-memory event publisher")
		return events.NewMemory(), func() {}, nil
	}

	kafka, err := events.NewKafka(ctx, cfg.KafkaBrokers, cfg.KafkaTopic, log)
	if err != nil {
		return nil, nil, err
	}
	log.Info("using kafka event publisher", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	return kafka, kafka.Close, nil
}
