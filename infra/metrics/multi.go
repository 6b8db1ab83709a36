package metrics

import coremetrics "github.com/campuscal/deptsched/core/metrics"

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRecompute forwards to all sinks, returning the first error.
func (m *MultiSink) RecordRecompute(ev coremetrics.RecomputeEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordRecompute(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordQuery forwards query events to sinks that record them.
func (m *MultiSink) RecordQuery(ev coremetrics.QueryEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.QueryRecorder); ok {
			if err := rec.RecordQuery(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordRoomUsage forwards utilization snapshots to sinks that record them.
func (m *MultiSink) RecordRoomUsage(evs []coremetrics.RoomUsageEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.RoomUsageRecorder); ok {
			if err := rec.RecordRoomUsage(evs); err != nil {
				return err
			}
		}
	}
	return nil
}
