// Package timecode converts between human clock text ("9:00 am", "2PM")
// and minutes since midnight. It is pure and stateless; callers treat a
// parse failure as "unknown time" and drop the record from interval math.
package timecode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/campuscal/deptsched/core/model"
)

// ErrUnparseable is returned for any clock text the codec cannot read.
var ErrUnparseable = errors.New("unparseable clock time")

// ParseClock converts clock text to minutes since midnight. Accepted
// forms are "<h>:<mm><am|pm>" and "<h><am|pm>", case-insensitive and
// whitespace tolerant. Hours run 1-12; 12am is midnight and 12pm noon.
func ParseClock(text string) (int, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	var pm bool
	switch {
	case strings.HasSuffix(s, "am"):
		s = s[:len(s)-2]
	case strings.HasSuffix(s, "pm"):
		pm = true
		s = s[:len(s)-2]
	default:
		return 0, ErrUnparseable
	}
	s = strings.TrimSpace(s)

	hourText, minText := s, "0"
	if i := strings.IndexByte(s, ':'); i >= 0 {
		hourText, minText = strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
	}
	hour, err := strconv.Atoi(hourText)
	if err != nil {
		return 0, ErrUnparseable
	}
	min, err := strconv.Atoi(minText)
	if err != nil {
		return 0, ErrUnparseable
	}
	if hour < 1 || hour > 12 || min < 0 || min > 59 {
		return 0, ErrUnparseable
	}
	if hour == 12 {
		hour = 0
	}
	if pm {
		hour += 12
	}
	return hour*60 + min, nil
}

// FormatClock renders minutes since midnight as "H:MM AM/PM" with
// 12-hour wraparound (0 -> 12:00 AM, 720 -> 12:00 PM). The inverse of
// ParseClock for every minute of the day.
func FormatClock(minutes int) string {
	minutes = ((minutes % model.MinutesPerDay) + model.MinutesPerDay) % model.MinutesPerDay
	hour, min := minutes/60, minutes%60
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, min, suffix)
}
