// Package api exposes the engine over read-only JSON endpoints. The
// handlers read the snapshot store and never hand out anything the
// caller could use to mutate the index.
package api

import (
	"net/http"

	coremetrics "github.com/campuscal/deptsched/core/metrics"
	"github.com/campuscal/deptsched/core/model"
	"github.com/campuscal/deptsched/core/timecode"
	"github.com/campuscal/deptsched/internal/snapshot"

	"github.com/campuscal/deptsched/config"
)

// Slot is the wire form of an available slot, with clock text the
// presentation layer can show directly.
type Slot struct {
	Start     int    `json:"start"`
	End       int    `json:"end"`
	Duration  int    `json:"duration"`
	StartText string `json:"start_text"`
	EndText   string `json:"end_text"`
}

func toSlots(in []model.AvailableSlot) []Slot {
	out := make([]Slot, 0, len(in))
	for _, s := range in {
		out = append(out, Slot{
			Start:     s.Start,
			End:       s.End,
			Duration:  s.Duration,
			StartText: timecode.FormatClock(s.Start),
			EndText:   timecode.FormatClock(s.End),
		})
	}
	return out
}

// NewMux wires every query endpoint onto one ServeMux.
func NewMux(store *snapshot.Store, engine config.EngineConfig, sink coremetrics.MetricsSink) *http.ServeMux {
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	mux := http.NewServeMux()
	mux.Handle("/api/availability", NewAvailabilityHandler(store, engine, sink))
	mux.Handle("/api/meet", NewMeetHandler(store, engine, sink))
	mux.Handle("/api/rooms/free", NewFreeRoomsHandler(store, sink))
	mux.Handle("/api/analytics", NewAnalyticsHandler(store, sink))
	mux.Handle("/api/roster", NewRosterHandler(store))
	return mux
}
