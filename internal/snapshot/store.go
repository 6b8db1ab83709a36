// Package snapshot holds the current roster and its derived views. The
// engine itself is pure; this store implements the recompute-on-change
// contract around it: every update rebuilds the index and report from
// scratch, memoized on a content hash of the input collection.
package snapshot

import (
	"crypto/sha256"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/campuscal/deptsched/core/analytics"
	coremetrics "github.com/campuscal/deptsched/core/metrics"
	"github.com/campuscal/deptsched/core/model"
	"github.com/campuscal/deptsched/core/schedule"
	"github.com/campuscal/deptsched/internal/eventbus"
)

// Store is the versioned holder of the roster snapshot.
type Store struct {
	mu      sync.RWMutex
	records []model.RawCommitment
	idx     *schedule.Index
	report  analytics.Report
	version string
	hash    [sha256.Size]byte

	params analytics.Params
	bus    *eventbus.Bus[eventbus.RosterUpdated]
	sink   coremetrics.MetricsSink
}

// New creates an empty store. The bus may be nil when nobody listens;
// a nil sink falls back to the no-op recorder.
func New(params analytics.Params, bus *eventbus.Bus[eventbus.RosterUpdated], sink coremetrics.MetricsSink) *Store {
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	s := &Store{params: params, bus: bus, sink: sink}
	s.idx = schedule.Build(nil)
	s.report = analytics.Aggregate(s.idx, params)
	return s
}

// Update replaces the roster and recomputes every derived view. It
// returns false when the incoming collection is content-identical to
// the current one and the recompute was skipped.
func (s *Store) Update(records []model.RawCommitment) bool {
	sum := contentHash(records)

	s.mu.Lock()
	if sum == s.hash && s.version != "" {
		s.mu.Unlock()
		// Unchanged input: record the no-op so the skip rate is visible.
		_ = s.sink.RecordRecompute(coremetrics.RecomputeEvent{
			Records: len(records),
			Time:    time.Now(),
		})
		return false
	}

	started := time.Now()
	idx := schedule.Build(records)
	report := analytics.Aggregate(idx, s.params)
	version := uuid.NewString()

	s.records = append([]model.RawCommitment(nil), records...)
	s.idx = idx
	s.report = report
	s.version = version
	s.hash = sum
	s.mu.Unlock()

	ev := coremetrics.RecomputeEvent{
		Version:  version,
		Records:  idx.Len(),
		Dropped:  idx.Dropped(),
		Duration: time.Since(started),
		Time:     time.Now(),
	}
	_ = s.sink.RecordRecompute(ev)
	if rec, ok := s.sink.(coremetrics.RoomUsageRecorder); ok {
		_ = rec.RecordRoomUsage(roomUsage(report, ev.Time))
	}
	if s.bus != nil {
		s.bus.Publish(eventbus.RosterUpdated{
			Version: version,
			Records: idx.Len(),
			Dropped: idx.Dropped(),
		})
	}
	return true
}

// Index returns the current commitment index. The index is immutable;
// its accessors copy out.
func (s *Store) Index() *schedule.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idx
}

// Report returns a deep copy of the current analytics report.
func (s *Store) Report() analytics.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyReport(s.report)
}

// Version returns the stamp of the last applied update, empty before
// the first one.
func (s *Store) Version() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Records returns a copy of the current raw roster.
func (s *Store) Records() []model.RawCommitment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.RawCommitment(nil), s.records...)
}

// contentHash derives the memoization key from the record collection.
// JSON encoding of the slice is deterministic for this struct shape.
func contentHash(records []model.RawCommitment) [sha256.Size]byte {
	b, err := json.Marshal(records)
	if err != nil {
		// Plain string fields cannot fail to marshal; keep the zero
		// hash so the update always proceeds.
		return [sha256.Size]byte{}
	}
	return sha256.Sum256(b)
}

func copyReport(r analytics.Report) analytics.Report {
	out := r
	out.Workloads = make(map[string]model.WorkloadSummary, len(r.Workloads))
	for k, v := range r.Workloads {
		out.Workloads[k] = v
	}
	out.Rooms = make(map[string]model.RoomUtilization, len(r.Rooms))
	for k, v := range r.Rooms {
		out.Rooms[k] = v
	}
	out.Hourly = make(map[int]int, len(r.Hourly))
	for k, v := range r.Hourly {
		out.Hourly[k] = v
	}
	out.StaffCourses = append([]string(nil), r.StaffCourses...)
	return out
}

func roomUsage(r analytics.Report, at time.Time) []coremetrics.RoomUsageEvent {
	evs := make([]coremetrics.RoomUsageEvent, 0, len(r.Rooms))
	for room, u := range r.Rooms {
		evs = append(evs, coremetrics.RoomUsageEvent{
			Room:        room,
			Sessions:    u.Sessions,
			Hours:       u.Hours,
			Utilization: u.Utilization,
			Time:        at,
		})
	}
	return evs
}
