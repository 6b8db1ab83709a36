package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/campuscal/deptsched/core/metrics"
)

// PromSink records engine activity in Prometheus metrics.
type PromSink struct {
	recomputes *prometheus.CounterVec
	duration   prometheus.Histogram
	dropped    prometheus.Counter
	roster     prometheus.Gauge
	queries    *prometheus.CounterVec
}

// NewPromSink registers engine metrics on the default Prometheus
// registerer. The Prometheus server should be started separately using
// cfg.PrometheusAddr.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	recomputes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_recomputes_total",
		Help: "Total number of full engine recomputations",
	}, []string{"changed"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "roster_recompute_seconds",
		Help:    "Time spent rebuilding the commitment index and analytics",
		Buckets: prometheus.DefBuckets,
	})
	dropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "roster_rows_dropped_total",
		Help: "Records excluded from interval math by the last recomputes",
	})
	roster := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "roster_records",
		Help: "Number of raw records in the current roster",
	})
	queries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_queries_total",
		Help: "Availability, meeting, room and analytics queries served",
	}, []string{"kind"})

	if err := register(reg, &recomputes); err != nil {
		return nil, err
	}
	if err := registerHistogram(reg, &duration); err != nil {
		return nil, err
	}
	if err := registerCounter(reg, &dropped); err != nil {
		return nil, err
	}
	if err := registerGauge(reg, &roster); err != nil {
		return nil, err
	}
	if err := register(reg, &queries); err != nil {
		return nil, err
	}

	return &PromSink{
		recomputes: recomputes,
		duration:   duration,
		dropped:    dropped,
		roster:     roster,
		queries:    queries,
	}, nil
}

func register(reg prometheus.Registerer, vec **prometheus.CounterVec) error {
	if err := reg.Register(*vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			*vec = are.ExistingCollector.(*prometheus.CounterVec)
			return nil
		}
		return err
	}
	return nil
}

func registerCounter(reg prometheus.Registerer, c *prometheus.Counter) error {
	if err := reg.Register(*c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			*c = are.ExistingCollector.(prometheus.Counter)
			return nil
		}
		return err
	}
	return nil
}

func registerGauge(reg prometheus.Registerer, g *prometheus.Gauge) error {
	if err := reg.Register(*g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			*g = are.ExistingCollector.(prometheus.Gauge)
			return nil
		}
		return err
	}
	return nil
}

func registerHistogram(reg prometheus.Registerer, h *prometheus.Histogram) error {
	if err := reg.Register(*h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			*h = are.ExistingCollector.(prometheus.Histogram)
			return nil
		}
		return err
	}
	return nil
}

// RecordRecompute updates the recompute counters and roster gauge.
func (s *PromSink) RecordRecompute(ev coremetrics.RecomputeEvent) error {
	changed := "true"
	if ev.Version == "" {
		changed = "false"
	}
	s.recomputes.WithLabelValues(changed).Inc()
	s.duration.Observe(ev.Duration.Seconds())
	s.dropped.Add(float64(ev.Dropped))
	s.roster.Set(float64(ev.Records))
	return nil
}

// RecordQuery increments the query counter for the given kind.
func (s *PromSink) RecordQuery(ev coremetrics.QueryEvent) error {
	s.queries.WithLabelValues(ev.Kind).Inc()
	return nil
}
