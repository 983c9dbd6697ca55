package di

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	domrepo "github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/domain/repository"
	internalrepo "github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/repository"
	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/usecase"
	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/pkg/cache"
	pkgch "github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/pkg/clickhouse"
	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/pkg/config"
	pkgkafka "github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/pkg/kafka"
	applogger "github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/pkg/logger"
	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/pkg/metrics"
	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() *metrics.Recorder {
	return metrics.New()
}

// ProvideRawSource creates the raw collector snapshot reader.
func ProvideRawSource(cfg *config.Config, l *applogger.Logger) usecase.RawSource {
	return internalrepo.NewFileRawSource(
		cfg.Data.Dir,
		cfg.Data.WeatherFile,
		cfg.Data.TransitFile,
		cfg.Data.EventsFile,
		cfg.Data.VenuesFile,
		l,
	)
}

// Stores bundles the persistence backends chosen by config. The model
// store, anomaly log and artifacts are always file-backed; the history
// series optionally lives in ClickHouse so several locations can share
// one warehouse.
type Stores struct {
	History   domrepo.HistoryStore
	Anomalies domrepo.AnomalyLog
	Models    domrepo.ModelStore
	Artifacts domrepo.ArtifactWriter

	ch *pkgch.Client
}

// Close releases the warehouse connection, if any.
func (s *Stores) Close() error {
	if s.ch != nil {
		return s.ch.Close()
	}
	return nil
}

// ProvideStores creates the persistence backends.
func ProvideStores(cfg *config.Config, l *applogger.Logger) (*Stores, error) {
	dataPath := func(name string) string { return filepath.Join(cfg.Data.Dir, name) }

	stores := &Stores{
		Anomalies: internalrepo.NewFileAnomalyLog(dataPath(cfg.Data.AnomalyFile), cfg.Pipeline.AnomalyLogLimit, l),
		Models:    internalrepo.NewFileModelStore(dataPath(cfg.Data.ModelFile)),
		Artifacts: internalrepo.NewFileArtifactWriter(
			dataPath(cfg.Data.DashboardFile),
			dataPath(cfg.Data.ForecastFile),
			dataPath(cfg.Data.SummaryFile),
		),
	}

	switch cfg.Backend.Type {
	case "clickhouse":
		client, err := pkgch.NewClient(
			pkgch.WithHost(cfg.ClickHouse.Host),
			pkgch.WithPort(cfg.ClickHouse.Port),
			pkgch.WithDatabase(cfg.ClickHouse.Database),
			pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
			pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
			pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
		)
		if err != nil {
			return nil, fmt.Errorf("clickhouse client: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.InitSchema(ctx, internalrepo.HistorySchema(cfg.ClickHouse.Database)); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("clickhouse schema: %w", err)
		}

		history := internalrepo.NewCHHistoryStore(client, cfg.Location.Name, cfg.Pipeline.HistoryLimit)
		history.SetLogger(l)
		stores.History = history
		stores.ch = client
	default:
		stores.History = internalrepo.NewFileHistoryStore(dataPath(cfg.Data.HistoryFile), cfg.Pipeline.HistoryLimit, l)
	}
	return stores, nil
}

// ProvidePublisher creates the Kafka anomaly publisher, or nil when
// the broker is disabled.
func ProvidePublisher(cfg *config.Config, l *applogger.Logger) (domrepo.Publisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaAnomalyPublisher(producer, cfg.Kafka.Topic, cfg.Location.Name, l), nil
}

// ProvideCache creates the dashboard snapshot cache, or nil when
// disabled. The in-memory variant is only useful for single-process
// smoke runs; shared deployments want Redis.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	if cfg.Cache.Type == "memory" {
		return cache.NewMemoryCache(), nil
	}
	c, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Cache.Host),
		cache.WithRedisPort(cfg.Cache.Port),
		cache.WithRedisPassword(cfg.Cache.Password),
		cache.WithRedisDB(cfg.Cache.DB),
		cache.WithRedisPrefix(cfg.Cache.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return c, nil
}

// ProvidePipeline assembles the cycle orchestrator.
func ProvidePipeline(cfg *config.Config, raw usecase.RawSource, stores *Stores,
	publisher domrepo.Publisher, cacheSvc cache.Service, recorder *metrics.Recorder,
	l *applogger.Logger) *usecase.Pipeline {
	opts := []usecase.PipelineOption{usecase.WithMetrics(recorder)}
	if publisher != nil {
		opts = append(opts, usecase.WithPublisher(publisher))
	}
	if cacheSvc != nil {
		opts = append(opts, usecase.WithCache(cacheSvc, cfg.Cache.TTL))
	}
	return usecase.NewPipeline(raw, stores.History, stores.Anomalies, stores.Models, stores.Artifacts, l, opts...)
}

// ProvideApp creates the application with its owned resources.
func ProvideApp(cfg *config.Config, pipeline *usecase.Pipeline, stores *Stores,
	publisher domrepo.Publisher, cacheSvc cache.Service, recorder *metrics.Recorder,
	l *applogger.Logger) *server.App {
	var closers []io.Closer
	closers = append(closers, stores)
	if publisher != nil {
		closers = append(closers, publisher)
	}
	if cacheSvc != nil {
		closers = append(closers, cacheSvc)
	}
	return server.New(cfg, pipeline, recorder, l, closers...)
}
