// Package app wires the configuration, snapshot store, ingest feed,
// metric sinks and query API into one runnable service.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/campuscal/deptsched/api"
	"github.com/campuscal/deptsched/config"
	"github.com/campuscal/deptsched/core/analytics"
	coremetrics "github.com/campuscal/deptsched/core/metrics"
	"github.com/campuscal/deptsched/core/model"
	"github.com/campuscal/deptsched/infra/ingest"
	"github.com/campuscal/deptsched/infra/logger"
	"github.com/campuscal/deptsched/infra/metrics"
	"github.com/campuscal/deptsched/internal/eventbus"
	"github.com/campuscal/deptsched/internal/snapshot"
)

// Service owns the snapshot store and the serving surfaces around it.
type Service struct {
	Store *snapshot.Store

	cfg  *config.Config
	bus  *eventbus.Bus[eventbus.RosterUpdated]
	feed *ingest.Subscriber
	sink coremetrics.MetricsSink
	log  logger.Logger

	promEnabled bool
	promAddr    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.NewWithLevel("service", cfg.Logging.Level)

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(
			cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken,
			cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket)
		sinks = append(sinks, sink)
	}
	var sink coremetrics.MetricsSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	window, err := cfg.Engine.Window()
	if err != nil {
		return nil, fmt.Errorf("engine window: %w", err)
	}
	bus := eventbus.New[eventbus.RosterUpdated]()
	store := snapshot.New(analytics.Params{Window: window}, bus, sink)

	svc := &Service{
		Store:       store,
		cfg:         cfg,
		bus:         bus,
		sink:        sink,
		log:         logg,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promAddr:    cfg.Metrics.PrometheusAddr,
	}

	if cfg.Ingest.Enabled {
		feed, err := ingest.NewSubscriber(cfg.Ingest, func(records []model.RawCommitment) {
			if store.Update(records) {
				logg.Infof("roster updated: %d records, version %s", len(records), store.Version())
			}
		})
		if err != nil {
			return nil, fmt.Errorf("ingest feed: %w", err)
		}
		svc.feed = feed
	}

	return svc, nil
}

// Seed loads an initial roster, typically from a file given on the
// command line, before the feed takes over.
func (s *Service) Seed(records []model.RawCommitment) {
	if s.Store.Update(records) {
		idx := s.Store.Index()
		s.log.Infof("seeded roster: %d records, %d dropped", idx.Len(), idx.Dropped())
	}
}

// Run serves the query API until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	mux := api.NewMux(s.Store, s.cfg.Engine, s.sink)
	srv := &http.Server{Addr: s.cfg.API.Addr, Handler: mux}

	updates := s.bus.Subscribe()
	go func() {
		for ev := range updates {
			s.log.Debugw("roster snapshot changed", map[string]any{
				"version": ev.Version,
				"records": ev.Records,
				"dropped": ev.Dropped,
			})
		}
	}()

	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api shutdown: %v", err)
		}
	}()

	s.log.Infof("query api listening on %s", s.cfg.API.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close releases the ingest connection and the event bus.
func (s *Service) Close() error {
	if s.feed != nil {
		s.feed.Close()
	}
	s.bus.Close()
	return nil
}
