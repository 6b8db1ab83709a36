// Package export writes engine results in formats the CLI and external
// tooling consume.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/campuscal/deptsched/core/analytics"
	"github.com/campuscal/deptsched/core/model"
	"github.com/campuscal/deptsched/core/timecode"
)

// WriteSlotsJSON writes the per-day slot map to w in JSON format.
func WriteSlotsJSON(w io.Writer, week map[model.DayCode][]model.AvailableSlot) error {
	enc := json.NewEncoder(w)
	return enc.Encode(week)
}

// WriteSlotsCSV writes the per-day slot map in canonical day order with
// clock-text columns.
func WriteSlotsCSV(w io.Writer, week map[model.DayCode][]model.AvailableSlot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"day", "start", "end", "minutes"}); err != nil {
		return err
	}
	for _, day := range model.WeekDays {
		for _, s := range week[day] {
			rec := []string{
				string(day),
				timecode.FormatClock(s.Start),
				timecode.FormatClock(s.End),
				strconv.Itoa(s.Duration),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteReportJSON writes the analytics report to w in JSON format.
func WriteReportJSON(w io.Writer, rep analytics.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// WriteRoomsCSV writes room utilization rows sorted by the caller.
func WriteRoomsCSV(w io.Writer, order []string, rooms map[string]model.RoomUtilization) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"room", "sessions", "hours", "staff_sessions", "utilization"}); err != nil {
		return err
	}
	for _, room := range order {
		u := rooms[room]
		rec := []string{
			room,
			strconv.Itoa(u.Sessions),
			strconv.FormatFloat(u.Hours, 'f', 2, 64),
			strconv.Itoa(u.StaffSessions),
			strconv.FormatFloat(u.Utilization, 'f', 3, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
