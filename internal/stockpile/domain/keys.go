package domain

import (
	"time"

	"github.com/google/uuid"
)

// IDKey keys events by profile identifier.
type IDKey uuid.UUID

// ParseIDKey parses the textual form of a profile identifier.
func ParseIDKey(s string) (IDKey, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return IDKey{}, err
	}
	return IDKey(id), nil
}

func (k IDKey) UUID() uuid.UUID { return uuid.UUID(k) }
func (k IDKey) String() string  { return uuid.UUID(k).String() }
func (IDKey) Shape() Shape      { return ShapeUUID }
func (IDKey) eventKey()         {}

func (k IDKey) Equal(other EventKey) bool {
	o, ok := other.(IDKey)
	return ok && o == k
}

// ProfileIDKey keys a profile id assignment by the name it was looked up
// with and the instant the lookup referred to.
type ProfileIDKey struct {
	Name string
	At   time.Time
}

func (ProfileIDKey) Shape() Shape { return ShapeProfileIDKey }
func (ProfileIDKey) eventKey()    {}

func (k ProfileIDKey) Equal(other EventKey) bool {
	o, ok := other.(ProfileIDKey)
	return ok && o.Name == k.Name && o.At.Equal(k.At)
}

func (k ProfileIDKey) String() string {
	return k.Name + "@" + k.At.UTC().Format(time.RFC3339)
}
