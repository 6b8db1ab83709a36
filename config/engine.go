package config

import (
	"fmt"

	"github.com/campuscal/deptsched/core/availability"
	"github.com/campuscal/deptsched/core/model"
	"github.com/campuscal/deptsched/core/timecode"
)

// EngineConfig exposes the scheduling constants that used to be
// hard-coded: the working-day window, the per-entity buffer and the
// minimum slot / meeting durations. Defaults match the historical
// values and should not change without product confirmation.
type EngineConfig struct {
	WorkdayStart   string `json:"workday_start"`
	WorkdayEnd     string `json:"workday_end"`
	BufferMinutes  int    `json:"buffer_minutes"`
	MinSlotMinutes int    `json:"min_slot_minutes"`
	MeetingMinutes int    `json:"meeting_minutes"`
}

// SetDefaults applies the historical defaults: 8:00-17:00 window,
// 15 minute buffer, 30 minute slots and meetings.
func (c *EngineConfig) SetDefaults() {
	if c.WorkdayStart == "" {
		c.WorkdayStart = "8:00 am"
	}
	if c.WorkdayEnd == "" {
		c.WorkdayEnd = "5:00 pm"
	}
	if c.BufferMinutes == 0 {
		c.BufferMinutes = 15
	}
	if c.MinSlotMinutes == 0 {
		c.MinSlotMinutes = 30
	}
	if c.MeetingMinutes == 0 {
		c.MeetingMinutes = 30
	}
}

// Validate checks the window parses and the durations are sound.
func (c EngineConfig) Validate() error {
	w, err := c.Window()
	if err != nil {
		return err
	}
	if !w.Valid() {
		return fmt.Errorf("workday window must satisfy start < end, got [%d,%d)", w.Start, w.End)
	}
	if c.BufferMinutes < 0 {
		return fmt.Errorf("buffer_minutes must not be negative")
	}
	if c.MinSlotMinutes <= 0 {
		return fmt.Errorf("min_slot_minutes must be positive")
	}
	if c.MeetingMinutes <= 0 {
		return fmt.Errorf("meeting_minutes must be positive")
	}
	return nil
}

// Window parses the configured working-day bounds.
func (c EngineConfig) Window() (model.Interval, error) {
	start, err := timecode.ParseClock(c.WorkdayStart)
	if err != nil {
		return model.Interval{}, fmt.Errorf("workday_start %q: %w", c.WorkdayStart, err)
	}
	end, err := timecode.ParseClock(c.WorkdayEnd)
	if err != nil {
		return model.Interval{}, fmt.Errorf("workday_end %q: %w", c.WorkdayEnd, err)
	}
	return model.Interval{Start: start, End: end}, nil
}

// Params builds the single-entity sweep parameters.
func (c EngineConfig) Params() (availability.Params, error) {
	w, err := c.Window()
	if err != nil {
		return availability.Params{}, err
	}
	return availability.Params{
		Window:         w,
		BufferMinutes:  c.BufferMinutes,
		MinSlotMinutes: c.MinSlotMinutes,
	}, nil
}

// MeetingParams builds the intersection parameters.
func (c EngineConfig) MeetingParams() (availability.MeetingParams, error) {
	w, err := c.Window()
	if err != nil {
		return availability.MeetingParams{}, err
	}
	return availability.MeetingParams{
		Window:         w,
		BufferMinutes:  c.BufferMinutes,
		MeetingMinutes: c.MeetingMinutes,
	}, nil
}
