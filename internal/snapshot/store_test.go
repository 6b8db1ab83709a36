package snapshot

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuscal/deptsched/core/analytics"
	coremetrics "github.com/campuscal/deptsched/core/metrics"
	"github.com/campuscal/deptsched/core/model"
	"github.com/campuscal/deptsched/internal/eventbus"
)

var params = analytics.Params{Window: model.Interval{Start: 480, End: 1020}}

type captureSink struct {
	mu     sync.Mutex
	events []coremetrics.RecomputeEvent
	usage  [][]coremetrics.RoomUsageEvent
}

func (c *captureSink) RecordRecompute(ev coremetrics.RecomputeEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return nil
}

func (c *captureSink) RecordRoomUsage(evs []coremetrics.RoomUsageEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.usage = append(c.usage, evs)
	return nil
}

func roster() []model.RawCommitment {
	return []model.RawCommitment{
		{Instructor: "Dr. A", Course: "CS 101", Day: "M", StartText: "9:00 am", EndText: "10:00 am", Room: "Cashion 101"},
		{Instructor: "Dr. A", Course: "CS 102", Day: "X", StartText: "9:00 am", EndText: "10:00 am", Room: "Cashion 101"},
	}
}

func TestUpdateRecomputesAndStamps(t *testing.T) {
	sink := &captureSink{}
	store := New(params, nil, sink)

	require.True(t, store.Update(roster()))
	assert.NotEmpty(t, store.Version())
	assert.Equal(t, 2, store.Index().Len())
	assert.Equal(t, 1, store.Index().Dropped())

	require.Len(t, sink.events, 1)
	assert.Equal(t, store.Version(), sink.events[0].Version)
	assert.Equal(t, 1, sink.events[0].Dropped)
	require.Len(t, sink.usage, 1)
	assert.Equal(t, "Cashion 101", sink.usage[0][0].Room)
}

func TestUpdateMemoizesOnContent(t *testing.T) {
	store := New(params, nil, nil)
	require.True(t, store.Update(roster()))
	v1 := store.Version()

	// Same content, fresh slice: no recompute, same version.
	assert.False(t, store.Update(roster()))
	assert.Equal(t, v1, store.Version())

	changed := roster()
	changed[0].StartText = "10:00 am"
	assert.True(t, store.Update(changed))
	assert.NotEqual(t, v1, store.Version())
}

// Re-running the pipeline on unchanged input yields identical output.
func TestReportIdempotent(t *testing.T) {
	a := New(params, nil, nil)
	b := New(params, nil, nil)
	a.Update(roster())
	b.Update(roster())
	assert.Equal(t, a.Report(), b.Report())
}

func TestReportIsACopy(t *testing.T) {
	store := New(params, nil, nil)
	store.Update(roster())
	rep := store.Report()
	rep.Rooms["Cashion 101"] = model.RoomUtilization{Sessions: 99}
	rep.Hourly[9] = 99
	fresh := store.Report()
	assert.NotEqual(t, 99, fresh.Rooms["Cashion 101"].Sessions)
	assert.NotEqual(t, 99, fresh.Hourly[9])
}

func TestUpdatePublishesEvent(t *testing.T) {
	bus := eventbus.New[eventbus.RosterUpdated]()
	defer bus.Close()
	sub := bus.Subscribe()

	store := New(params, bus, nil)
	store.Update(roster())

	select {
	case ev := <-sub:
		assert.Equal(t, store.Version(), ev.Version)
		assert.Equal(t, 2, ev.Records)
		assert.Equal(t, 1, ev.Dropped)
	case <-time.After(time.Second):
		t.Fatalf("no roster event published")
	}
}

func TestEmptyStore(t *testing.T) {
	store := New(params, nil, nil)
	assert.Empty(t, store.Version())
	assert.Empty(t, store.Records())
	assert.Zero(t, store.Index().Len())
	// An empty first update is still a change from "never updated".
	assert.True(t, store.Update(nil))
	assert.NotEmpty(t, store.Version())
}
