// Package events turns wire event envelopes into validated domain events.
package events

import (
	"fmt"

	"github.com/dotstart/stockpile-go/internal/stockpile/domain"
	"github.com/dotstart/stockpile-go/internal/stockpile/gateways/registry"
	"github.com/dotstart/stockpile-go/internal/stockpile/gateways/wire"
)

// Decoder resolves event keys and values through separate registries so that
// a key message can never be accepted as a value and vice versa.
type Decoder struct {
	Keys   *registry.Registry[domain.EventKey]
	Values *registry.Registry[domain.EventValue]
}

// NewDecoder returns a decoder for every message a Stockpile server emits.
func NewDecoder() *Decoder {
	return &Decoder{Keys: NewKeyRegistry(), Values: NewValueRegistry()}
}

// NewKeyRegistry registers rpc.IdKey and rpc.ProfileIdKey.
func NewKeyRegistry() *registry.Registry[domain.EventKey] {
	r := registry.New[domain.EventKey]()
	registry.Register(r, wire.TypeIDKey, registry.Unmarshaler[wire.IDKey](), func(m *wire.IDKey) (domain.EventKey, error) {
		return m.Domain()
	})
	registry.Register(r, wire.TypeProfileIDKey, registry.Unmarshaler[wire.ProfileIDKey](), func(m *wire.ProfileIDKey) (domain.EventKey, error) {
		return m.Domain()
	})
	return r
}

// NewValueRegistry registers rpc.ProfileId, rpc.NameHistory, rpc.Profile
// and rpc.Blacklist.
func NewValueRegistry() *registry.Registry[domain.EventValue] {
	r := registry.New[domain.EventValue]()
	registry.Register(r, wire.TypeProfileID, registry.Unmarshaler[wire.ProfileID](), func(m *wire.ProfileID) (domain.EventValue, error) {
		return m.Domain()
	})
	registry.Register(r, wire.TypeNameHistory, registry.Unmarshaler[wire.NameHistory](), func(m *wire.NameHistory) (domain.EventValue, error) {
		return m.Domain()
	})
	registry.Register(r, wire.TypeProfile, registry.Unmarshaler[wire.Profile](), func(m *wire.Profile) (domain.EventValue, error) {
		return m.Domain()
	})
	registry.Register(r, wire.TypeBlacklist, registry.Unmarshaler[wire.Blacklist](), func(m *wire.Blacklist) (domain.EventValue, error) {
		return m.Domain()
	})
	return r
}

// Decode validates a wire envelope. Errors match domain.ErrUnknownKind,
// domain.ErrShapeMismatch, registry.ErrUnknownType or
// registry.ErrMalformedPayload.
func (d *Decoder) Decode(ev *wire.Event) (domain.Event, error) {
	kind, err := domain.KindFromTag(ev.Type)
	if err != nil {
		return domain.Event{}, err
	}

	var key domain.EventKey
	if ev.Key != nil {
		if key, err = d.Keys.DecodeAny(ev.Key); err != nil {
			return domain.Event{}, fmt.Errorf("event %s key: %w", kind, err)
		}
	}

	if ev.Object == nil {
		return domain.Event{}, &registry.MalformedPayloadError{Err: fmt.Errorf("event %s has no value", kind)}
	}
	value, err := d.Values.DecodeAny(ev.Object)
	if err != nil {
		return domain.Event{}, fmt.Errorf("event %s value: %w", kind, err)
	}

	return domain.NewEvent(kind, key, value)
}

// DecodeBytes parses a serialized envelope and decodes it.
func (d *Decoder) DecodeBytes(b []byte) (domain.Event, error) {
	var ev wire.Event
	if err := ev.Unmarshal(b); err != nil {
		return domain.Event{}, &registry.MalformedPayloadError{Err: err}
	}
	return d.Decode(&ev)
}
