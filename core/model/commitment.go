package model

import "strings"

// roomPlaceholders are tokens meaning "no physical room". They are
// excluded from the room catalog entirely rather than treated as
// always-free rooms.
var roomPlaceholders = map[string]struct{}{
	"online": {},
	"tba":    {},
	"tbd":    {},
}

// RawCommitment is one offered class or meeting occurrence as ingested
// from the import feed. Several records may describe the same logical
// session occupying different rooms; SessionKey collapses those where a
// consumer must not double count.
type RawCommitment struct {
	Instructor string `json:"instructor"`
	Course     string `json:"course"`
	Title      string `json:"course_title"`
	Day        string `json:"day"`
	StartText  string `json:"start_time"`
	EndText    string `json:"end_time"`
	Room       string `json:"room"` // ";"-joined for multi-room sessions
	Term       string `json:"term"`
}

// Entity returns the calendar owner for the commitment.
func (c RawCommitment) Entity() Entity { return EntityFor(c.Instructor) }

// Rooms splits the room field on ';' and returns the physical rooms.
// Empty tokens and no-room placeholders are filtered out.
func (c RawCommitment) Rooms() []string {
	var rooms []string
	for _, tok := range strings.Split(c.Room, ";") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if _, ok := roomPlaceholders[strings.ToLower(tok)]; ok {
			continue
		}
		rooms = append(rooms, tok)
	}
	return rooms
}

// SessionKey identifies one logical class meeting regardless of how many
// rooms or raw rows represent it. It is the single source of truth for
// session deduplication.
type SessionKey struct {
	Entity Entity
	Course string
	Day    DayCode
	Start  string
	End    string
}

// SessionKey builds the dedupe key for the commitment. Start and end are
// kept as the raw text so two rows are the same session only when they
// were recorded identically.
func (c RawCommitment) SessionKey() SessionKey {
	return SessionKey{
		Entity: c.Entity(),
		Course: c.Course,
		Day:    DayCode(c.Day),
		Start:  c.StartText,
		End:    c.EndText,
	}
}

// WorkloadSummary aggregates one instructor's weekly teaching load.
type WorkloadSummary struct {
	UniqueCourses int     `json:"unique_courses"`
	WeeklyHours   float64 `json:"weekly_hours"`
}

// RoomUtilization aggregates one room's weekly occupancy. Sessions and
// hours accrue per room row, before session deduplication: a session
// held in two rooms occupies both.
type RoomUtilization struct {
	Sessions      int     `json:"sessions"`
	Hours         float64 `json:"hours"`
	StaffSessions int     `json:"staff_sessions"`
	// Utilization is occupied hours over the weekly working-day window.
	Utilization float64 `json:"utilization"`
}
