// Command distanced serves the distance API over HTTP and, when Kafka is
// configured, runs the batch pipeline from the request topic to the report
// topic.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/geo-distance-service/internal/adapter/agenttool"
	httpadapter "github.com/couchcryptid/geo-distance-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/geo-distance-service/internal/adapter/kafka"
	"github.com/couchcryptid/geo-distance-service/internal/adapter/opencage"
	"github.com/couchcryptid/geo-distance-service/internal/config"
	"github.com/couchcryptid/geo-distance-service/internal/distance"
	"github.com/couchcryptid/geo-distance-service/internal/observability"
	"github.com/couchcryptid/geo-distance-service/internal/pipeline"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	geocoder := opencage.NewClient(cfg.OpenCageAPIKey, cfg.OpenCageBaseURL, cfg.GeocodeTimeout, metrics, logger)
	svc := distance.NewService(geocoder, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	distanceTool, err := agenttool.NewDistanceTool(svc)
	if err != nil {
		logger.Error("failed to build distance tool", "error", err)
		os.Exit(1)
	}
	tools, err := agenttool.NewRegistry(ctx, distanceTool)
	if err != nil {
		logger.Error("failed to build tool registry", "error", err)
		os.Exit(1)
	}

	ready := httpadapter.ReadinessCheckers{svc}

	// Kafka batch pipeline (feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS).
	var (
		reader *kafkaadapter.Reader
		writer *kafkaadapter.Writer
		p      *pipeline.Pipeline
	)
	if cfg.KafkaEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		p = pipeline.New(reader, pipeline.NewTransformer(svc, logger), writer, logger, metrics, cfg.BatchSize)
		ready = append(ready, p)
		logger.Info("kafka pipeline enabled",
			"brokers", cfg.KafkaBrokers,
			"source_topic", cfg.KafkaSourceTopic,
			"sink_topic", cfg.KafkaSinkTopic,
		)
	} else {
		logger.Info("kafka pipeline disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, ready, svc, tools, metrics, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	pipelineDone := make(chan struct{})
	if p != nil {
		go func() {
			defer close(pipelineDone)
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	} else {
		close(pipelineDone)
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	select {
	case <-pipelineDone:
	case <-shutdownCtx.Done():
		logger.Warn("pipeline did not stop before shutdown timeout")
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
