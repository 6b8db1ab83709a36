package model

// MinutesPerDay bounds every clock value handled by the engine.
const MinutesPerDay = 24 * 60

// Interval is a half-open [Start, End) range expressed in minutes since
// midnight. The end instant is not part of the interval, so two ranges
// touching at a boundary do not overlap.
type Interval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Duration returns the interval length in minutes.
func (i Interval) Duration() int { return i.End - i.Start }

// Valid reports whether the interval is a well-formed clock range.
// Parsed commitments with Start >= End are dropped, same as
// unparseable ones.
func (i Interval) Valid() bool {
	return i.Start >= 0 && i.Start < i.End && i.End <= MinutesPerDay
}

// Overlaps implements the half-open overlap test:
// [s1,e1) and [s2,e2) overlap iff s1 < e2 && s2 < e1.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && o.Start < i.End
}

// BusyInterval is an Interval tagged with the originating commitment's
// metadata for display. Values are owned by their bucket; consumers get
// copies.
type BusyInterval struct {
	Interval
	Course string `json:"course"`
	Title  string `json:"title"`
	Room   string `json:"room"`
}

// AvailableSlot is one free window produced by the sweep. Duration is
// always End-Start and never below the requested minimum.
type AvailableSlot struct {
	Start    int `json:"start"`
	End      int `json:"end"`
	Duration int `json:"duration"`
}

// NewSlot builds a slot for the half-open range [start, end).
func NewSlot(start, end int) AvailableSlot {
	return AvailableSlot{Start: start, End: end, Duration: end - start}
}
