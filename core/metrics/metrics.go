// Package metrics defines the observability sink interfaces recorded by
// the roster snapshot store and the query API.
package metrics

import "time"

// RecomputeEvent describes one full engine recomputation.
type RecomputeEvent struct {
	Version  string
	Records  int
	Dropped  int
	Duration time.Duration
	Time     time.Time
}

// QueryEvent describes one availability/rooms/analytics query.
type QueryEvent struct {
	Kind string
	Day  string
	Time time.Time
}

// RoomUsageEvent is a per-room utilization snapshot taken after a
// recompute, for export to time-series storage.
type RoomUsageEvent struct {
	Room        string
	Sessions    int
	Hours       float64
	Utilization float64
	Time        time.Time
}

// MetricsSink records recompute events for observability purposes.
type MetricsSink interface {
	RecordRecompute(ev RecomputeEvent) error
}

// QueryRecorder records query events. Sinks implement it optionally.
type QueryRecorder interface {
	RecordQuery(ev QueryEvent) error
}

// RoomUsageRecorder records per-room utilization snapshots.
type RoomUsageRecorder interface {
	RecordRoomUsage(evs []RoomUsageEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordRecompute(RecomputeEvent) error   { return nil }
func (NopSink) RecordQuery(QueryEvent) error           { return nil }
func (NopSink) RecordRoomUsage([]RoomUsageEvent) error { return nil }
