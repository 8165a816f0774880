package domain

import (
	"slices"
	"time"
)

// NameChange is a single entry of a name history.
type NameChange struct {
	Name        string
	ChangedToAt time.Time
	ValidUntil  time.Time
}

// ValidAt reports whether the name was in use at t (bounds inclusive).
func (c NameChange) ValidAt(t time.Time) bool {
	return !t.Before(c.ChangedToAt) && !t.After(c.ValidUntil)
}

func (c NameChange) Equal(o NameChange) bool {
	return c.Name == o.Name && c.ChangedToAt.Equal(o.ChangedToAt) && c.ValidUntil.Equal(o.ValidUntil)
}

// NameChangeHistory is the ordered list of names a profile has used.
type NameChangeHistory struct {
	Changes    []NameChange
	ValidUntil time.Time
}

// NameAt returns the name in use at t.
func (h NameChangeHistory) NameAt(t time.Time) (NameChange, bool) {
	for _, c := range h.Changes {
		if c.ValidAt(t) {
			return c, true
		}
	}
	return NameChange{}, false
}

func (NameChangeHistory) Shape() Shape { return ShapeNameHistory }
func (NameChangeHistory) eventValue()  {}

func (h NameChangeHistory) Equal(other EventValue) bool {
	o, ok := other.(NameChangeHistory)
	return ok &&
		h.ValidUntil.Equal(o.ValidUntil) &&
		slices.EqualFunc(h.Changes, o.Changes, NameChange.Equal)
}
