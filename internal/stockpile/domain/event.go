package domain

import "fmt"

// EventKey is the closed set of key variants carried by cache events:
// IDKey and ProfileIDKey.
type EventKey interface {
	Shape() Shape
	Equal(other EventKey) bool
	eventKey()
}

// EventValue is the closed set of value variants carried by cache events:
// ProfileID, NameChangeHistory, Profile and Blacklist.
type EventValue interface {
	Shape() Shape
	Equal(other EventValue) bool
	eventValue()
}

// Event is a validated cache update notification. The zero value is not a
// valid event; construct events through NewEvent.
type Event struct {
	kind  Kind
	key   EventKey
	value EventValue
}

// NewEvent validates key and value against the shapes declared by kind.
// A nil key is accepted for every kind; a non-nil key must match the kind's
// key shape and is rejected outright for keyless kinds.
func NewEvent(kind Kind, key EventKey, value EventValue) (Event, error) {
	if !kind.IsValid() {
		return Event{}, &UnknownKindError{Tag: int32(kind)}
	}
	if key != nil && key.Shape() != kind.KeyShape() {
		return Event{}, &ShapeMismatchError{Kind: kind, Field: "key", Expected: kind.KeyShape(), Actual: key.Shape()}
	}
	actual := ShapeNone
	if value != nil {
		actual = value.Shape()
	}
	if actual != kind.ValueShape() {
		return Event{}, &ShapeMismatchError{Kind: kind, Field: "value", Expected: kind.ValueShape(), Actual: actual}
	}
	return Event{kind: kind, key: key, value: value}, nil
}

func (e Event) Kind() Kind        { return e.kind }
func (e Event) Key() EventKey     { return e.key }
func (e Event) Value() EventValue { return e.value }
func (e Event) HasKey() bool      { return e.key != nil }

// Equal reports whether both events carry the same kind, key and value.
func (e Event) Equal(other Event) bool {
	if e.kind != other.kind {
		return false
	}
	if (e.key == nil) != (other.key == nil) {
		return false
	}
	if e.key != nil && !e.key.Equal(other.key) {
		return false
	}
	if e.value == nil || other.value == nil {
		return e.value == nil && other.value == nil
	}
	return e.value.Equal(other.value)
}

func (e Event) String() string {
	if e.key == nil {
		return e.kind.String()
	}
	return fmt.Sprintf("%s(%v)", e.kind, e.key)
}

// ProfileIDAssignment returns the payload of a KindProfileID event.
func (e Event) ProfileIDAssignment() (*ProfileIDKey, ProfileID, bool) {
	v, ok := e.value.(ProfileID)
	if !ok {
		return nil, ProfileID{}, false
	}
	var key *ProfileIDKey
	if k, ok := e.key.(ProfileIDKey); ok {
		key = &k
	}
	return key, v, true
}

// NameHistory returns the payload of a KindNameHistory event.
func (e Event) NameHistory() (*IDKey, NameChangeHistory, bool) {
	v, ok := e.value.(NameChangeHistory)
	if !ok {
		return nil, NameChangeHistory{}, false
	}
	return e.idKey(), v, true
}

// Profile returns the payload of a KindProfile event.
func (e Event) Profile() (*IDKey, Profile, bool) {
	v, ok := e.value.(Profile)
	if !ok {
		return nil, Profile{}, false
	}
	return e.idKey(), v, true
}

// Blacklist returns the payload of a KindBlacklist event.
func (e Event) Blacklist() (Blacklist, bool) {
	v, ok := e.value.(Blacklist)
	return v, ok
}

func (e Event) idKey() *IDKey {
	if k, ok := e.key.(IDKey); ok {
		return &k
	}
	return nil
}
