package model

import "strings"

// staffMarker matches the registrar's convention for sections without an
// assigned instructor ("Staff", "Staff - TBD", ...). The substring match
// is intentional and preserved from the upstream feed semantics; see the
// misclassification test before changing it.
const staffMarker = "Staff"

// Entity identifies a calendar owner. Staff is the anonymous sentinel
// for unassigned sections: it has no personal calendar, never constrains
// scheduling, and is excluded from per-instructor workload.
type Entity struct {
	Name  string
	Staff bool
}

// AnonymousStaff is the single entity all staff-taught sections collapse to.
var AnonymousStaff = Entity{Name: staffMarker, Staff: true}

// EntityFor maps a raw instructor value to its entity. Any value
// containing the staff marker collapses to AnonymousStaff.
func EntityFor(instructor string) Entity {
	if strings.Contains(instructor, staffMarker) {
		return AnonymousStaff
	}
	return Entity{Name: strings.TrimSpace(instructor)}
}

// ID returns the map key / display identifier for the entity.
func (e Entity) ID() string {
	if e.Staff {
		return staffMarker
	}
	return e.Name
}
