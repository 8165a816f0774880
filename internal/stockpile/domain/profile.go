package domain

import (
	"bytes"
	"maps"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// ProfileID is the assignment of a display name to a profile identifier,
// valid between FirstSeenAt and ValidUntil.
type ProfileID struct {
	ID          uuid.UUID
	Name        string
	FirstSeenAt time.Time
	LastSeenAt  time.Time
	ValidUntil  time.Time
}

// ValidAt reports whether the assignment holds at t (bounds inclusive).
func (p ProfileID) ValidAt(t time.Time) bool {
	return !t.Before(p.FirstSeenAt) && !t.After(p.ValidUntil)
}

func (ProfileID) Shape() Shape { return ShapeProfileID }
func (ProfileID) eventValue()  {}

func (p ProfileID) Equal(other EventValue) bool {
	o, ok := other.(ProfileID)
	return ok &&
		o.ID == p.ID &&
		o.Name == p.Name &&
		o.FirstSeenAt.Equal(p.FirstSeenAt) &&
		o.LastSeenAt.Equal(p.LastSeenAt) &&
		o.ValidUntil.Equal(p.ValidUntil)
}

// ProfileProperty is a signed profile attribute. Value holds the decoded bytes.
type ProfileProperty struct {
	Name      string
	Value     []byte
	Signature string
}

func (p ProfileProperty) Equal(o ProfileProperty) bool {
	return p.Name == o.Name && bytes.Equal(p.Value, o.Value) && p.Signature == o.Signature
}

// ProfileTextures describes the skin and cape of a profile. Either URL may be nil.
type ProfileTextures struct {
	Timestamp   time.Time
	ProfileID   uuid.UUID
	ProfileName string
	SkinURL     *url.URL
	CapeURL     *url.URL
}

func (t ProfileTextures) Equal(o ProfileTextures) bool {
	return t.Timestamp.Equal(o.Timestamp) &&
		t.ProfileID == o.ProfileID &&
		t.ProfileName == o.ProfileName &&
		urlEqual(t.SkinURL, o.SkinURL) &&
		urlEqual(t.CapeURL, o.CapeURL)
}

func urlEqual(a, b *url.URL) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String()
}

// Profile is a complete player profile.
type Profile struct {
	ID         uuid.UUID
	Name       string
	Properties map[string]ProfileProperty
	Textures   ProfileTextures
}

// NewProfile builds a profile indexing properties by name. Later properties
// replace earlier ones of the same name.
func NewProfile(id uuid.UUID, name string, properties []ProfileProperty, textures ProfileTextures) Profile {
	m := make(map[string]ProfileProperty, len(properties))
	for _, p := range properties {
		m[p.Name] = p
	}
	return Profile{ID: id, Name: name, Properties: m, Textures: textures}
}

// Property looks up a property by name.
func (p Profile) Property(name string) (ProfileProperty, bool) {
	prop, ok := p.Properties[name]
	return prop, ok
}

// PropertyValue returns a copy of the decoded value of the named property.
func (p Profile) PropertyValue(name string) ([]byte, bool) {
	prop, ok := p.Properties[name]
	if !ok {
		return nil, false
	}
	return bytes.Clone(prop.Value), true
}

func (Profile) Shape() Shape { return ShapeProfile }
func (Profile) eventValue()  {}

func (p Profile) Equal(other EventValue) bool {
	o, ok := other.(Profile)
	return ok &&
		o.ID == p.ID &&
		o.Name == p.Name &&
		maps.EqualFunc(p.Properties, o.Properties, ProfileProperty.Equal) &&
		p.Textures.Equal(o.Textures)
}
