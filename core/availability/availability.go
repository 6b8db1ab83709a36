// Package availability computes free time windows from sorted busy
// intervals. All functions are pure: identical inputs always produce
// identical output and no state is shared between calls.
package availability

import (
	"sort"

	"github.com/campuscal/deptsched/core/model"
	"github.com/campuscal/deptsched/core/schedule"
)

// Params controls the single-entity sweep.
type Params struct {
	// Window bounds the working day, e.g. [480, 1020) for 8:00-17:00.
	Window model.Interval
	// BufferMinutes pads every busy interval on both sides, modelling
	// transition time between commitments.
	BufferMinutes int
	// MinSlotMinutes filters out emitted slots shorter than this.
	MinSlotMinutes int
}

// MeetingParams controls the multi-entity intersection. The buffer is
// applied per entity before the union; the meeting duration is the
// post-intersection minimum slot length.
type MeetingParams struct {
	Window         model.Interval
	BufferMinutes  int
	MeetingMinutes int
}

// Expand widens each busy interval by buffer minutes on both sides.
// Starts clamp at zero; ends are left unclamped because a late
// commitment legitimately keeps the entity busy past the nominal window
// close. The sweep handles the window bound itself.
func Expand(busy []model.BusyInterval, buffer int) []model.Interval {
	if buffer < 0 {
		buffer = 0
	}
	out := make([]model.Interval, 0, len(busy))
	for _, b := range busy {
		start := b.Start - buffer
		if start < 0 {
			start = 0
		}
		out = append(out, model.Interval{Start: start, End: b.End + buffer})
	}
	return out
}

// FreeSlots subtracts the buffered busy intervals from the working-day
// window and returns the remaining slots of at least MinSlotMinutes.
// The input must be sorted ascending by start (ties by end), which is
// how schedule.Index hands out its buckets.
func FreeSlots(busy []model.BusyInterval, p Params) []model.AvailableSlot {
	return sweep(Expand(busy, p.BufferMinutes), p.Window, p.MinSlotMinutes)
}

// WeekFreeSlots runs FreeSlots for every weekday.
func WeekFreeSlots(idx *schedule.Index, e model.Entity, p Params) map[model.DayCode][]model.AvailableSlot {
	out := make(map[model.DayCode][]model.AvailableSlot, len(model.WeekDays))
	for _, day := range model.WeekDays {
		out[day] = FreeSlots(idx.Busy(e, day), p)
	}
	return out
}

// CommonFreeSlots returns the windows on the given day where every
// selected entity is simultaneously free for at least MeetingMinutes.
// The anonymous staff entity has no individual calendar and never
// constrains the result. Zero selected entities yields an empty result,
// not an always-free day.
func CommonFreeSlots(idx *schedule.Index, entities []model.Entity, day model.DayCode, p MeetingParams) []model.AvailableSlot {
	var combined []model.Interval
	selected := 0
	for _, e := range entities {
		if e.Staff {
			continue
		}
		selected++
		combined = append(combined, Expand(idx.Busy(e, day), p.BufferMinutes)...)
	}
	if selected == 0 {
		return nil
	}
	sort.Slice(combined, func(i, j int) bool {
		if combined[i].Start != combined[j].Start {
			return combined[i].Start < combined[j].Start
		}
		return combined[i].End < combined[j].End
	})
	// The buffer is already baked into each entity's intervals, so the
	// sweep only enforces the meeting duration.
	return sweep(combined, p.Window, p.MeetingMinutes)
}

// WeekCommonFreeSlots runs CommonFreeSlots for every weekday.
func WeekCommonFreeSlots(idx *schedule.Index, entities []model.Entity, p MeetingParams) map[model.DayCode][]model.AvailableSlot {
	out := make(map[model.DayCode][]model.AvailableSlot, len(model.WeekDays))
	for _, day := range model.WeekDays {
		out[day] = CommonFreeSlots(idx, entities, day, p)
	}
	return out
}

// sweep walks sorted intervals with a cursor starting at the window
// open, emitting each gap of at least minSlot minutes. Overlapping and
// adjacent intervals are merged implicitly by the max-advance, so no
// separate merge pass is needed.
func sweep(intervals []model.Interval, window model.Interval, minSlot int) []model.AvailableSlot {
	if minSlot <= 0 || window.Start >= window.End {
		return nil
	}
	var slots []model.AvailableSlot
	cursor := window.Start
	for _, iv := range intervals {
		gapEnd := iv.Start
		if gapEnd > window.End {
			gapEnd = window.End
		}
		if cursor < gapEnd && gapEnd-cursor >= minSlot {
			slots = append(slots, model.NewSlot(cursor, gapEnd))
		}
		if iv.End > cursor {
			cursor = iv.End
		}
	}
	if cursor < window.End && window.End-cursor >= minSlot {
		slots = append(slots, model.NewSlot(cursor, window.End))
	}
	return slots
}
