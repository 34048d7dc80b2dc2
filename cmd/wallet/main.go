package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boddenberg/upi-wallet-bfa-go/internal/config"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/handler"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/infra/genai"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/infra/observability"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/infra/qr"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/infra/resilience"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/payment"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/port"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/scanner"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/service"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// --- Config (.env is optional, real env wins) ---
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Bool("genai_configured", cfg.GenAIConfigured()),
		zap.String("genai_model", cfg.GenAIModel),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("session_ttl", cfg.SessionTTL),
		zap.Bool("barcode_detection", cfg.BarcodeDetection),
		zap.Bool("haptics", cfg.Haptics),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, observability.ServiceName)
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Generative AI ---
	// Without a key the collaborators answer with their fallbacks.
	var generator port.ContentGenerator
	var genaiBreaker *gobreaker.CircuitBreaker
	if cfg.GenAIConfigured() {
		genaiBreaker = resilience.NewCircuitBreaker("genai",
			resilience.OnStateChange(func(name string, from, to gobreaker.State) {
				logger.Warn("circuit breaker state change",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
				metrics.IncrBreakerTransition(name, to.String())
			}),
		)
		generator = genai.NewClient(
			&http.Client{Timeout: cfg.HTTPTimeout},
			cfg.GenAIAPIURL,
			cfg.GenAIAPIKey,
			cfg.GenAIModel,
			genaiBreaker,
			resilience.NewBulkhead(cfg.MaxConcurrency),
			metrics,
		)
	} else {
		logger.Warn("genai: no API key configured, payee resolution and insights use fallbacks")
	}

	// --- Barcode detection ---
	var detector port.BarcodeDetector
	if cfg.BarcodeDetection {
		detector = qr.NewDetector()
	} else {
		logger.Warn("barcode detection disabled, scanner offers demo scans only")
	}

	// --- Services ---
	scanCfg := scanner.DefaultConfig()
	scanCfg.PollInterval = cfg.ScanPollInterval
	scanCfg.SimulateDelay = cfg.ScanSimulateDelay

	payCfg := payment.DefaultConfig()
	payCfg.ProcessingDelay = cfg.PaymentDelay

	sessions := service.NewSessionManager(
		service.SessionConfig{
			Secret:     []byte(cfg.SessionSecret),
			IdleTTL:    cfg.SessionTTL,
			Haptics:    cfg.Haptics,
			Controller: service.ControllerConfig{Scanner: scanCfg, Payment: payCfg},
		},
		detector,
		service.NewPayeeResolver(generator, metrics, logger),
		service.NewInsightService(generator, metrics, logger),
		metrics,
		logger,
	)
	defer sessions.Close()

	// --- Router ---
	router := handler.NewRouter(sessions, genaiBreaker, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("server shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
