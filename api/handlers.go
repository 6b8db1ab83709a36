package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/campuscal/deptsched/config"
	"github.com/campuscal/deptsched/core/availability"
	coremetrics "github.com/campuscal/deptsched/core/metrics"
	"github.com/campuscal/deptsched/core/model"
	"github.com/campuscal/deptsched/core/rooms"
	"github.com/campuscal/deptsched/core/timecode"
	"github.com/campuscal/deptsched/internal/snapshot"
)

// NewAvailabilityHandler serves GET /api/availability. Query params:
// instructor (required), day (optional, whole week when absent),
// buffer and min_slot override the configured defaults.
func NewAvailabilityHandler(store *snapshot.Store, engine config.EngineConfig, sink coremetrics.MetricsSink) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		instructor := r.URL.Query().Get("instructor")
		if instructor == "" {
			http.Error(w, "instructor is required", http.StatusBadRequest)
			return
		}
		params, err := engine.Params()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if !overrideInt(w, r, "buffer", &params.BufferMinutes, 0) {
			return
		}
		if !overrideInt(w, r, "min_slot", &params.MinSlotMinutes, 1) {
			return
		}

		recordQuery(sink, "availability", r.URL.Query().Get("day"))
		idx := store.Index()
		entity := model.EntityFor(instructor)

		if dayParam := r.URL.Query().Get("day"); dayParam != "" {
			day, ok := model.ParseDayCode(dayParam)
			if !ok {
				http.Error(w, "invalid day code", http.StatusBadRequest)
				return
			}
			writeJSON(w, map[string]any{
				"instructor": entity.ID(),
				"day":        day,
				"slots":      toSlots(availability.FreeSlots(idx.Busy(entity, day), params)),
			})
			return
		}

		week := availability.WeekFreeSlots(idx, entity, params)
		out := make(map[model.DayCode][]Slot, len(week))
		for day, slots := range week {
			out[day] = toSlots(slots)
		}
		writeJSON(w, map[string]any{"instructor": entity.ID(), "week": out})
	})
}

// NewMeetHandler serves GET /api/meet: common free windows for a
// comma-separated instructor list. duration overrides the configured
// meeting length; buffer the per-entity padding.
func NewMeetHandler(store *snapshot.Store, engine config.EngineConfig, sink coremetrics.MetricsSink) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var entities []model.Entity
		for _, name := range strings.Split(r.URL.Query().Get("instructors"), ",") {
			if name = strings.TrimSpace(name); name != "" {
				entities = append(entities, model.EntityFor(name))
			}
		}
		params, err := engine.MeetingParams()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if !overrideInt(w, r, "buffer", &params.BufferMinutes, 0) {
			return
		}
		if !overrideInt(w, r, "duration", &params.MeetingMinutes, 1) {
			return
		}

		recordQuery(sink, "meet", r.URL.Query().Get("day"))
		idx := store.Index()

		if dayParam := r.URL.Query().Get("day"); dayParam != "" {
			day, ok := model.ParseDayCode(dayParam)
			if !ok {
				http.Error(w, "invalid day code", http.StatusBadRequest)
				return
			}
			writeJSON(w, map[string]any{
				"day":   day,
				"slots": toSlots(availability.CommonFreeSlots(idx, entities, day, params)),
			})
			return
		}

		week := availability.WeekCommonFreeSlots(idx, entities, params)
		out := make(map[model.DayCode][]Slot, len(week))
		for day, slots := range week {
			out[day] = toSlots(slots)
		}
		writeJSON(w, map[string]any{"week": out})
	})
}

// NewFreeRoomsHandler serves GET /api/rooms/free?day=M&start=1:00 pm&end=2:00 pm.
func NewFreeRoomsHandler(store *snapshot.Store, sink coremetrics.MetricsSink) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		day, ok := model.ParseDayCode(r.URL.Query().Get("day"))
		if !ok {
			http.Error(w, "invalid day code", http.StatusBadRequest)
			return
		}
		start, err := timecode.ParseClock(r.URL.Query().Get("start"))
		if err != nil {
			http.Error(w, "unparseable start time", http.StatusBadRequest)
			return
		}
		end, err := timecode.ParseClock(r.URL.Query().Get("end"))
		if err != nil {
			http.Error(w, "unparseable end time", http.StatusBadRequest)
			return
		}
		meeting := model.Interval{Start: start, End: end}
		if !meeting.Valid() {
			http.Error(w, "meeting start must precede end", http.StatusBadRequest)
			return
		}

		recordQuery(sink, "rooms", string(day))
		free := rooms.Free(store.Index(), day, meeting)
		if free == nil {
			free = []string{}
		}
		writeJSON(w, map[string]any{"day": day, "rooms": free})
	})
}

// NewAnalyticsHandler serves GET /api/analytics with the full report.
func NewAnalyticsHandler(store *snapshot.Store, sink coremetrics.MetricsSink) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		recordQuery(sink, "analytics", "")
		writeJSON(w, store.Report())
	})
}

// NewRosterHandler serves GET /api/roster: the raw records with the
// snapshot version, including rows the interval math dropped.
func NewRosterHandler(store *snapshot.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		idx := store.Index()
		writeJSON(w, map[string]any{
			"version": store.Version(),
			"dropped": idx.Dropped(),
			"records": store.Records(),
		})
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// overrideInt replaces *dst with the query parameter when present.
// Values below min are rejected the same way EngineConfig.Validate
// rejects them, so a zero min_slot or duration is a 400 rather than an
// empty result. Reports false after writing the 400.
func overrideInt(w http.ResponseWriter, r *http.Request, key string, dst *int, min int) bool {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min {
		http.Error(w, key+" must be an integer of at least "+strconv.Itoa(min), http.StatusBadRequest)
		return false
	}
	*dst = v
	return true
}

func recordQuery(sink coremetrics.MetricsSink, kind, day string) {
	if rec, ok := sink.(coremetrics.QueryRecorder); ok {
		_ = rec.RecordQuery(coremetrics.QueryEvent{Kind: kind, Day: day, Time: time.Now()})
	}
}
