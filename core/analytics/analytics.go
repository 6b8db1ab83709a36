// Package analytics aggregates workload, room utilization and occupancy
// statistics from the same roster the availability engine consumes.
package analytics

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/campuscal/deptsched/core/model"
	"github.com/campuscal/deptsched/core/schedule"
	"github.com/campuscal/deptsched/core/timecode"
)

// Params configures the aggregation.
type Params struct {
	// Window is the working-day window used for utilization ratios.
	Window model.Interval
}

const daysPerWeek = 5

// Report is the full analytics snapshot. It is rebuilt from scratch on
// every roster change; maps are owned by the report and never shared
// with the index.
type Report struct {
	// Workloads is keyed by instructor name; the anonymous staff entity
	// is excluded and tracked by the staff counters instead.
	Workloads map[string]model.WorkloadSummary `json:"workloads"`
	Rooms     map[string]model.RoomUtilization `json:"rooms"`
	// Hourly counts, per clock hour, how many room-level commitments
	// overlap that hour. Partial overlap still counts.
	Hourly map[int]int `json:"hourly"`
	// PeakHour is the busiest clock hour, earliest wins ties. -1 when
	// the roster holds no room-level commitments.
	PeakHour int `json:"peak_hour"`
	// BusiestDay holds the day code with the most raw commitments,
	// ties broken by canonical day order. Empty when there is no data.
	BusiestDay    model.DayCode `json:"busiest_day"`
	TotalSessions int           `json:"total_sessions"`
	StaffSessions int           `json:"staff_sessions"`
	StaffCourses  []string      `json:"staff_courses"`
	// MeanHourly and StdDevHourly summarize the 24-bucket histogram.
	MeanHourly   float64 `json:"mean_hourly"`
	StdDevHourly float64 `json:"stddev_hourly"`
}

// Aggregate computes the report from the index's raw records. Room
// utilization and the hourly histogram accrue per physical-room row
// before session deduplication; workload and session counts apply the
// session identity key so a class held in two rooms counts once.
func Aggregate(idx *schedule.Index, p Params) Report {
	rep := Report{
		Workloads: make(map[string]model.WorkloadSummary),
		Rooms:     make(map[string]model.RoomUtilization),
		Hourly:    make(map[int]int),
		PeakHour:  -1,
	}

	seen := make(map[model.SessionKey]struct{})
	courses := make(map[string]map[string]struct{})
	staffCourses := make(map[string]struct{})
	dayCounts := make(map[model.DayCode]int)

	for _, rec := range idx.Records() {
		day, ok := model.ParseDayCode(rec.Day)
		if !ok {
			continue
		}
		dayCounts[day]++

		start, err := timecode.ParseClock(rec.StartText)
		if err != nil {
			continue
		}
		end, err := timecode.ParseClock(rec.EndText)
		if err != nil {
			continue
		}
		iv := model.Interval{Start: start, End: end}
		if !iv.Valid() {
			continue
		}
		hours := float64(iv.Duration()) / 60
		ent := rec.Entity()

		for _, room := range rec.Rooms() {
			u := rep.Rooms[room]
			u.Sessions++
			u.Hours += hours
			if ent.Staff {
				u.StaffSessions++
			}
			rep.Rooms[room] = u
			for h := start / 60; h <= (end-1)/60; h++ {
				rep.Hourly[h]++
			}
		}

		key := rec.SessionKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		rep.TotalSessions++

		if ent.Staff {
			rep.StaffSessions++
			staffCourses[rec.Course] = struct{}{}
			continue
		}
		w := rep.Workloads[ent.Name]
		w.WeeklyHours += hours
		rep.Workloads[ent.Name] = w
		if courses[ent.Name] == nil {
			courses[ent.Name] = make(map[string]struct{})
		}
		courses[ent.Name][rec.Course] = struct{}{}
	}

	for name, set := range courses {
		w := rep.Workloads[name]
		w.UniqueCourses = len(set)
		rep.Workloads[name] = w
	}

	weeklyWindow := float64(p.Window.Duration()) / 60 * daysPerWeek
	if weeklyWindow > 0 {
		for room, u := range rep.Rooms {
			u.Utilization = u.Hours / weeklyWindow
			rep.Rooms[room] = u
		}
	}

	for _, course := range sortedKeys(staffCourses) {
		rep.StaffCourses = append(rep.StaffCourses, course)
	}

	best := -1
	for h := 0; h < 24; h++ {
		if c := rep.Hourly[h]; c > best {
			best = c
			rep.PeakHour = h
		}
	}
	if len(rep.Hourly) == 0 {
		rep.PeakHour = -1
	}

	bestDay := 0
	for _, day := range model.WeekDays {
		if c := dayCounts[day]; c > bestDay {
			bestDay = c
			rep.BusiestDay = day
		}
	}

	counts := make([]float64, 24)
	for h := 0; h < 24; h++ {
		counts[h] = float64(rep.Hourly[h])
	}
	rep.MeanHourly = stat.Mean(counts, nil)
	rep.StdDevHourly = stat.StdDev(counts, nil)

	return rep
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
