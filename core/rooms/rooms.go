// Package rooms resolves room conflicts for a candidate meeting window.
package rooms

import (
	"github.com/campuscal/deptsched/core/model"
	"github.com/campuscal/deptsched/core/schedule"
)

// Free returns the rooms with no commitment overlapping the candidate
// window [meeting.Start, meeting.End) on the given day, preserving the
// catalog's canonical ordering. Room buckets are the raw per-room rows,
// so a session held in two rooms blocks both. A commitment ending
// exactly when the meeting starts does not conflict.
func Free(idx *schedule.Index, day model.DayCode, meeting model.Interval) []string {
	var free []string
	for _, room := range idx.Rooms() {
		if !occupied(idx.RoomBusy(room, day), meeting) {
			free = append(free, room)
		}
	}
	return free
}

// Occupied reports whether the room has any commitment overlapping the
// candidate window on the given day.
func Occupied(idx *schedule.Index, room string, day model.DayCode, meeting model.Interval) bool {
	return occupied(idx.RoomBusy(room, day), meeting)
}

func occupied(busy []model.BusyInterval, meeting model.Interval) bool {
	for _, b := range busy {
		if b.Overlaps(meeting) {
			return true
		}
	}
	return false
}
