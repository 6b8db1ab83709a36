package rooms

import (
	"testing"

	"github.com/campuscal/deptsched/core/model"
	"github.com/campuscal/deptsched/core/schedule"
)

func rec(room, day, start, end string) model.RawCommitment {
	return model.RawCommitment{
		Instructor: "Dr. A",
		Course:     "CS 101",
		Day:        day,
		StartText:  start,
		EndText:    end,
		Room:       room,
	}
}

func TestFreeExcludesOverlap(t *testing.T) {
	idx := schedule.Build([]model.RawCommitment{
		rec("Cashion 101", "M", "1:00 pm", "2:00 pm"),
		rec("Cashion 102", "M", "9:00 am", "10:00 am"),
	})

	// 13:30-14:30 overlaps Cashion 101's 13:00-14:00 class.
	free := Free(idx, model.Monday, model.Interval{Start: 810, End: 870})
	if len(free) != 1 || free[0] != "Cashion 102" {
		t.Fatalf("expected only Cashion 102 free, got %v", free)
	}

	// 14:00-15:00 is adjacent, not overlapping: half-open semantics.
	free = Free(idx, model.Monday, model.Interval{Start: 840, End: 900})
	if len(free) != 2 {
		t.Fatalf("adjacent meeting should not conflict, got %v", free)
	}
}

func TestFreePreservesCatalogOrder(t *testing.T) {
	idx := schedule.Build([]model.RawCommitment{
		rec("B 2", "M", "9:00 am", "10:00 am"),
		rec("A 1", "T", "9:00 am", "10:00 am"),
		rec("C 3", "W", "9:00 am", "10:00 am"),
	})
	free := Free(idx, model.Friday, model.Interval{Start: 540, End: 600})
	want := []string{"A 1", "B 2", "C 3"}
	if len(free) != len(want) {
		t.Fatalf("got %v, want %v", free, want)
	}
	for i := range want {
		if free[i] != want[i] {
			t.Fatalf("catalog order lost: got %v, want %v", free, want)
		}
	}
}

func TestFreeChecksEveryRoomOfSharedSession(t *testing.T) {
	// One session in two rooms blocks both rooms individually.
	idx := schedule.Build([]model.RawCommitment{
		rec("Cashion 101; Cashion 102", "M", "1:00 pm", "2:00 pm"),
	})
	free := Free(idx, model.Monday, model.Interval{Start: 800, End: 850})
	if len(free) != 0 {
		t.Fatalf("both co-located rooms should conflict, got %v", free)
	}
}

func TestFreeEmptyCatalog(t *testing.T) {
	idx := schedule.Build([]model.RawCommitment{
		rec("Online", "M", "9:00 am", "10:00 am"),
	})
	if free := Free(idx, model.Monday, model.Interval{Start: 540, End: 600}); len(free) != 0 {
		t.Fatalf("placeholder rooms must not enter the catalog: %v", free)
	}
}

func TestOccupied(t *testing.T) {
	idx := schedule.Build([]model.RawCommitment{
		rec("Cashion 101", "M", "1:00 pm", "2:00 pm"),
	})
	if !Occupied(idx, "Cashion 101", model.Monday, model.Interval{Start: 810, End: 870}) {
		t.Fatalf("expected conflict")
	}
	if Occupied(idx, "Cashion 101", model.Tuesday, model.Interval{Start: 810, End: 870}) {
		t.Fatalf("wrong day should not conflict")
	}
}
