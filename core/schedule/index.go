// Package schedule builds the commitment index: raw roster records
// grouped by entity and by room, per day, as sorted busy intervals.
// Every downstream consumer (availability, room resolver, analytics)
// reads the same index and never mutates it.
package schedule

import (
	"sort"

	"github.com/campuscal/deptsched/core/model"
	"github.com/campuscal/deptsched/core/timecode"
)

// Index is an immutable snapshot of the roster. All accessors copy out.
type Index struct {
	entities map[model.Entity]map[model.DayCode][]model.BusyInterval
	rooms    map[string]map[model.DayCode][]model.BusyInterval
	catalog  []string
	records  []model.RawCommitment
	dropped  int
}

// Build groups the raw records into per-entity and per-room day buckets.
// Records with an invalid day code, an unparseable start or end time, or
// start >= end are skipped: one bad row must never hide availability for
// everyone else. Buckets are sorted ascending by start, ties by end,
// which the availability sweep relies on.
func Build(records []model.RawCommitment) *Index {
	idx := &Index{
		entities: make(map[model.Entity]map[model.DayCode][]model.BusyInterval),
		rooms:    make(map[string]map[model.DayCode][]model.BusyInterval),
		records:  append([]model.RawCommitment(nil), records...),
	}

	for _, rec := range records {
		day, ok := model.ParseDayCode(rec.Day)
		if !ok {
			idx.dropped++
			continue
		}
		start, err := timecode.ParseClock(rec.StartText)
		if err != nil {
			idx.dropped++
			continue
		}
		end, err := timecode.ParseClock(rec.EndText)
		if err != nil {
			idx.dropped++
			continue
		}
		iv := model.Interval{Start: start, End: end}
		if !iv.Valid() {
			idx.dropped++
			continue
		}

		busy := model.BusyInterval{
			Interval: iv,
			Course:   rec.Course,
			Title:    rec.Title,
			Room:     rec.Room,
		}

		ent := rec.Entity()
		if idx.entities[ent] == nil {
			idx.entities[ent] = make(map[model.DayCode][]model.BusyInterval)
		}
		idx.entities[ent][day] = append(idx.entities[ent][day], busy)

		for _, room := range rec.Rooms() {
			if idx.rooms[room] == nil {
				idx.rooms[room] = make(map[model.DayCode][]model.BusyInterval)
			}
			// Per-room rows keep their own room tag and are not
			// deduplicated: room occupancy is per physical room.
			b := busy
			b.Room = room
			idx.rooms[room][day] = append(idx.rooms[room][day], b)
		}
	}

	for _, days := range idx.entities {
		for _, bucket := range days {
			sortBusy(bucket)
		}
	}
	for room, days := range idx.rooms {
		for _, bucket := range days {
			sortBusy(bucket)
		}
		idx.catalog = append(idx.catalog, room)
	}
	sort.Strings(idx.catalog)

	return idx
}

func sortBusy(bucket []model.BusyInterval) {
	sort.SliceStable(bucket, func(i, j int) bool {
		if bucket[i].Start != bucket[j].Start {
			return bucket[i].Start < bucket[j].Start
		}
		return bucket[i].End < bucket[j].End
	})
}

// Busy returns the sorted busy intervals for one entity and day.
func (x *Index) Busy(e model.Entity, day model.DayCode) []model.BusyInterval {
	return append([]model.BusyInterval(nil), x.entities[e][day]...)
}

// RoomBusy returns the sorted busy intervals for one room and day.
func (x *Index) RoomBusy(room string, day model.DayCode) []model.BusyInterval {
	return append([]model.BusyInterval(nil), x.rooms[room][day]...)
}

// Rooms returns the room catalog in its canonical (lexicographic) order.
// Placeholder tokens ("online" and friends) never enter the catalog.
func (x *Index) Rooms() []string {
	return append([]string(nil), x.catalog...)
}

// Instructors returns the named (non-staff) entities sorted by name.
func (x *Index) Instructors() []model.Entity {
	var out []model.Entity
	for e := range x.entities {
		if e.Staff {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Records returns a copy of every raw record, including ones dropped
// from interval math; raw listings still show them.
func (x *Index) Records() []model.RawCommitment {
	return append([]model.RawCommitment(nil), x.records...)
}

// Dropped reports how many records were excluded from interval math.
func (x *Index) Dropped() int { return x.dropped }

// Len reports the total number of ingested records.
func (x *Index) Len() int { return len(x.records) }
