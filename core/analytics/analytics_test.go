package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuscal/deptsched/core/model"
	"github.com/campuscal/deptsched/core/schedule"
)

var params = Params{Window: model.Interval{Start: 480, End: 1020}}

func rec(instructor, course, day, start, end, room string) model.RawCommitment {
	return model.RawCommitment{
		Instructor: instructor,
		Course:     course,
		Title:      course,
		Day:        day,
		StartText:  start,
		EndText:    end,
		Room:       room,
	}
}

func TestAggregateDedupesMultiRoomSessions(t *testing.T) {
	// One logical session recorded against two rooms: workload counts
	// once, each room counts its own row.
	idx := schedule.Build([]model.RawCommitment{
		rec("Dr. A", "CS 101", "M", "9:00 am", "10:00 am", "Cashion 101; Cashion 102"),
	})
	rep := Aggregate(idx, params)

	require.Equal(t, 1, rep.TotalSessions)
	w := rep.Workloads["Dr. A"]
	assert.Equal(t, 1, w.UniqueCourses)
	assert.InDelta(t, 1.0, w.WeeklyHours, 1e-9)
	assert.Equal(t, 1, rep.Rooms["Cashion 101"].Sessions)
	assert.Equal(t, 1, rep.Rooms["Cashion 102"].Sessions)
	assert.InDelta(t, 1.0, rep.Rooms["Cashion 101"].Hours, 1e-9)
}

func TestAggregateDuplicateRowsSameRoom(t *testing.T) {
	rows := []model.RawCommitment{
		rec("Dr. A", "CS 101", "M", "9:00 am", "10:00 am", "Cashion 101"),
		rec("Dr. A", "CS 101", "M", "9:00 am", "10:00 am", "Cashion 102"),
	}
	rep := Aggregate(schedule.Build(rows), params)
	assert.Equal(t, 1, rep.TotalSessions)
	assert.InDelta(t, 1.0, rep.Workloads["Dr. A"].WeeklyHours, 1e-9)
	// Room rows are pre-dedupe.
	assert.Equal(t, 1, rep.Rooms["Cashion 101"].Sessions)
	assert.Equal(t, 1, rep.Rooms["Cashion 102"].Sessions)
}

func TestAggregateStaffCounters(t *testing.T) {
	idx := schedule.Build([]model.RawCommitment{
		rec("Staff", "CS 101", "M", "9:00 am", "10:00 am", "Cashion 101"),
		rec("Staff - TBD", "CS 102", "T", "9:00 am", "10:00 am", "Cashion 101"),
		rec("Dr. A", "CS 201", "M", "1:00 pm", "2:00 pm", "Cashion 101"),
	})
	rep := Aggregate(idx, params)

	assert.Equal(t, 2, rep.StaffSessions)
	assert.Equal(t, []string{"CS 101", "CS 102"}, rep.StaffCourses)
	// Staff never appears in per-instructor workload.
	_, ok := rep.Workloads["Staff"]
	assert.False(t, ok)
	assert.Len(t, rep.Workloads, 1)
	// But staff rows accrue against the rooms they occupy.
	assert.Equal(t, 2, rep.Rooms["Cashion 101"].StaffSessions)
	assert.Equal(t, 3, rep.Rooms["Cashion 101"].Sessions)
}

func TestAggregateUniqueCourseCount(t *testing.T) {
	idx := schedule.Build([]model.RawCommitment{
		rec("Dr. A", "CS 101", "M", "9:00 am", "10:00 am", "R1"),
		rec("Dr. A", "CS 101", "W", "9:00 am", "10:00 am", "R1"),
		rec("Dr. A", "CS 201", "T", "9:00 am", "10:30 am", "R1"),
	})
	rep := Aggregate(idx, params)
	w := rep.Workloads["Dr. A"]
	assert.Equal(t, 2, w.UniqueCourses)
	assert.InDelta(t, 3.5, w.WeeklyHours, 1e-9)
	assert.Equal(t, 3, rep.TotalSessions)
}

func TestAggregateHourlyHistogram(t *testing.T) {
	// 9:30-10:15 overlaps the 9 o'clock and 10 o'clock buckets.
	idx := schedule.Build([]model.RawCommitment{
		rec("Dr. A", "CS 101", "M", "9:30 am", "10:15 am", "R1"),
	})
	rep := Aggregate(idx, params)
	assert.Equal(t, 1, rep.Hourly[9])
	assert.Equal(t, 1, rep.Hourly[10])
	assert.Equal(t, 0, rep.Hourly[11])
	assert.Equal(t, 9, rep.PeakHour)
}

func TestAggregateHistogramCountsPerRoomRow(t *testing.T) {
	idx := schedule.Build([]model.RawCommitment{
		rec("Dr. A", "CS 101", "M", "9:00 am", "9:50 am", "R1; R2"),
	})
	rep := Aggregate(idx, params)
	// Room occupancy is what's measured, so two rooms mean two counts.
	assert.Equal(t, 2, rep.Hourly[9])
}

func TestAggregatePeakHourTieEarliestWins(t *testing.T) {
	idx := schedule.Build([]model.RawCommitment{
		rec("Dr. A", "CS 101", "M", "2:00 pm", "2:50 pm", "R1"),
		rec("Dr. B", "CS 201", "T", "9:00 am", "9:50 am", "R1"),
	})
	rep := Aggregate(idx, params)
	assert.Equal(t, 9, rep.PeakHour)
}

func TestAggregateBusiestDay(t *testing.T) {
	idx := schedule.Build([]model.RawCommitment{
		rec("Dr. A", "CS 101", "T", "9:00 am", "9:50 am", "R1"),
		rec("Dr. A", "CS 102", "T", "10:00 am", "10:50 am", "R1"),
		rec("Dr. B", "CS 201", "M", "9:00 am", "9:50 am", "R1"),
	})
	rep := Aggregate(idx, params)
	assert.Equal(t, model.Tuesday, rep.BusiestDay)
}

func TestAggregateBusiestDayTieCanonicalOrder(t *testing.T) {
	idx := schedule.Build([]model.RawCommitment{
		rec("Dr. A", "CS 101", "R", "9:00 am", "9:50 am", "R1"),
		rec("Dr. B", "CS 201", "T", "9:00 am", "9:50 am", "R1"),
	})
	rep := Aggregate(idx, params)
	// T precedes R in canonical day order.
	assert.Equal(t, model.Tuesday, rep.BusiestDay)
}

func TestAggregateUtilizationRatio(t *testing.T) {
	// 9 hours of window across 5 days = 45 weekly hours.
	idx := schedule.Build([]model.RawCommitment{
		rec("Dr. A", "CS 101", "M", "8:00 am", "5:00 pm", "R1"),
	})
	rep := Aggregate(idx, params)
	assert.InDelta(t, 9.0/45.0, rep.Rooms["R1"].Utilization, 1e-9)
}

func TestAggregateEmptyRoster(t *testing.T) {
	rep := Aggregate(schedule.Build(nil), params)
	assert.Equal(t, -1, rep.PeakHour)
	assert.Equal(t, model.DayCode(""), rep.BusiestDay)
	assert.Empty(t, rep.Workloads)
	assert.Empty(t, rep.Rooms)
	assert.Zero(t, rep.TotalSessions)
}

func TestAggregateSkipsMalformedRows(t *testing.T) {
	idx := schedule.Build([]model.RawCommitment{
		rec("Dr. A", "CS 101", "M", "not a time", "10:00 am", "R1"),
		rec("Dr. A", "CS 102", "M", "9:00 am", "10:00 am", "R1"),
	})
	rep := Aggregate(idx, params)
	// The malformed row still counts toward the busiest-day tally but
	// contributes no hours or sessions.
	assert.Equal(t, model.Monday, rep.BusiestDay)
	assert.Equal(t, 1, rep.TotalSessions)
	assert.InDelta(t, 1.0, rep.Workloads["Dr. A"].WeeklyHours, 1e-9)
}

func TestAggregateOccupancySummary(t *testing.T) {
	idx := schedule.Build([]model.RawCommitment{
		rec("Dr. A", "CS 101", "M", "9:00 am", "9:50 am", "R1"),
	})
	rep := Aggregate(idx, params)
	// One count in one of 24 buckets.
	assert.InDelta(t, 1.0/24.0, rep.MeanHourly, 1e-9)
	assert.Greater(t, rep.StdDevHourly, 0.0)
}
