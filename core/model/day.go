package model

// DayCode is the one-letter weekday token used throughout the roster
// ("R" is Thursday, following the registrar convention).
type DayCode string

const (
	Monday    DayCode = "M"
	Tuesday   DayCode = "T"
	Wednesday DayCode = "W"
	Thursday  DayCode = "R"
	Friday    DayCode = "F"
)

// WeekDays lists the valid day codes in canonical order. Tie-breaking
// rules (busiest day, report ordering) follow this order.
var WeekDays = []DayCode{Monday, Tuesday, Wednesday, Thursday, Friday}

var dayNames = map[DayCode]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
}

// ParseDayCode validates a raw day token. Records carrying anything
// outside the five weekday codes are dropped from interval math and the
// second return value reports that.
func ParseDayCode(s string) (DayCode, bool) {
	d := DayCode(s)
	_, ok := dayNames[d]
	return d, ok
}

// Name returns the full weekday name, or the raw code if it is not a
// valid day.
func (d DayCode) Name() string {
	if n, ok := dayNames[d]; ok {
		return n
	}
	return string(d)
}
