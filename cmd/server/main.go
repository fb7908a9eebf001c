package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"txguard/internal/escrow"
	escrowhandler "txguard/internal/escrow/handler"
	"txguard/internal/mockengine"
	"txguard/internal/platform/config"
	"txguard/internal/platform/httpserver"
	"txguard/internal/platform/logger"
	"txguard/internal/platform/metrics"
	httptransport "txguard/internal/transport/http"
	"txguard/internal/verification"
	"txguard/internal/verification/adapters/httpengine"
	"txguard/internal/verification/catalog"
	vmetrics "txguard/internal/verification/metrics"
	"txguard/internal/verification/ports"
	"txguard/internal/voting"
	votinghandler "txguard/internal/voting/handler"
	audit "txguard/pkg/platform/audit"
	"txguard/pkg/platform/audit/publisher"
	"txguard/pkg/platform/audit/sink/kafka"
	"txguard/pkg/platform/audit/sink/logsink"
	"txguard/pkg/platform/circuit"
)

const (
	shutdownTimeout    = 10 * time.Second
	topicSetupTimeout  = 15 * time.Second
	auditPartitions    = 3
	brokerDefaultRepls = -1
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "txguard: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.New()
	verificationMetrics := vmetrics.New(reg)

	sink, closeSink, err := buildAuditSink(ctx, cfg.Audit, log)
	if err != nil {
		return err
	}
	defer closeSink()

	auditPublisher := publisher.NewPublisher(sink,
		publisher.WithAsyncBuffer(cfg.Audit.Buffer),
		publisher.WithLogger(log),
		publisher.WithSampler(publisher.NewSampler(cfg.Audit.OpsSampleRate)),
		publisher.WithMetrics(publisher.NewMetrics(reg)),
		publisher.WithBreaker(circuit.New("audit-sink")),
	)
	// Runs before closeSink so buffered events are flushed to a live sink.
	defer auditPublisher.Close()

	engine, circuitReporter, err := buildEngine(cfg.Engine, log, verificationMetrics, auditPublisher)
	if err != nil {
		return err
	}

	pipelineOpts := []verification.Option{
		verification.WithLogger(log),
		verification.WithMetrics(verificationMetrics),
		verification.WithAuditPublisher(auditPublisher),
	}
	if cfg.Recommendations != "" {
		loader, err := catalog.NewLoader(cfg.Recommendations, catalog.WithLogger(log))
		if err != nil {
			return fmt.Errorf("load recommendations: %w", err)
		}
		loader.OnChange(func(verification.Catalog) { verificationMetrics.CatalogReloaded() })
		stopWatch, err := loader.Watch()
		if err != nil {
			return err
		}
		defer stopWatch()
		pipelineOpts = append(pipelineOpts, verification.WithCatalog(loader))
	}

	pipeline, err := verification.NewPipeline(engine, pipelineOpts...)
	if err != nil {
		return err
	}
	escrowService, err := escrow.NewService(pipeline)
	if err != nil {
		return err
	}
	votingService, err := voting.NewService(pipeline)
	if err != nil {
		return err
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Modules: []httptransport.Registrar{
			escrowhandler.New(escrowService, log),
			votinghandler.New(votingService, log),
		},
		Metrics:      reg.Handler(),
		Circuit:      circuitReporter,
		MaxBodyBytes: cfg.MaxBodyBytes,
	})
	srv := httpserver.New(cfg.Addr, router, cfg.Engine.Timeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting txguard", "addr", cfg.Addr, "engine_mode", cfg.Engine.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// buildEngine returns the detection engine and, for the HTTP adapter, its
// breaker reporter.
func buildEngine(cfg config.Engine, log *slog.Logger, m *vmetrics.Metrics, auditor ports.AuditPublisher) (ports.DetectionEngine, httptransport.CircuitReporter, error) {
	if cfg.Mode == config.EngineModeMock {
		log.Warn("using mock detection engine; verdicts are heuristics only")
		return mockengine.Engine{}, nil, nil
	}

	breaker := circuit.New("detection-engine",
		circuit.WithFailureThreshold(cfg.BreakerFailures),
		circuit.WithSuccessThreshold(cfg.BreakerSuccesses),
		circuit.WithCooldown(cfg.BreakerCooldown),
	)
	client, err := httpengine.New(cfg.URL,
		httpengine.WithTimeout(cfg.Timeout),
		httpengine.WithMaxResponseBytes(cfg.MaxResponseBytes),
		httpengine.WithBreaker(breaker),
		httpengine.WithMetrics(m),
		httpengine.WithAuditPublisher(auditor),
		httpengine.WithLogger(log),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("detection engine client: %w", err)
	}
	return client, client, nil
}

// buildAuditSink picks Kafka when brokers are configured and the log
// otherwise.
func buildAuditSink(ctx context.Context, cfg config.Audit, log *slog.Logger) (audit.Sink, func(), error) {
	if len(cfg.Brokers) == 0 {
		log.Info("no Kafka brokers configured, audit events go to the log")
		return logsink.New(log), func() {}, nil
	}

	sink, err := kafka.New(cfg.Brokers, cfg.Topic)
	if err != nil {
		return nil, nil, fmt.Errorf("audit sink: %w", err)
	}

	setupCtx, cancel := context.WithTimeout(ctx, topicSetupTimeout)
	defer cancel()
	if err := sink.EnsureTopic(setupCtx, auditPartitions, brokerDefaultRepls); err != nil {
		log.Warn("could not ensure audit topic, relying on broker auto-creation",
			"topic", cfg.Topic,
			"error", err,
		)
	}
	log.Info("audit events publish to Kafka", "brokers", cfg.Brokers, "topic", cfg.Topic)
	return sink, sink.Close, nil
}
