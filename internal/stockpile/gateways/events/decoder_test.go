package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/anypb"

	"github.com/dotstart/stockpile-go/internal/stockpile/domain"
	"github.com/dotstart/stockpile-go/internal/stockpile/gateways/registry"
	"github.com/dotstart/stockpile-go/internal/stockpile/gateways/wire"
)

const testUUID = "c3d4a4b2-8a4f-4c1e-9d52-0a7f3b6e1f00"

func profileEvent() *wire.Event {
	return &wire.Event{
		Type:   int32(domain.KindProfile),
		Key:    wire.NewAny(wire.TypeIDKey, &wire.IDKey{ID: testUUID}),
		Object: wire.NewAny(wire.TypeProfile, &wire.Profile{ID: testUUID, Name: "Steve"}),
	}
}

func TestNewDecoder_Discriminators(t *testing.T) {
	d := NewDecoder()
	assert.Equal(t, []string{"rpc.IdKey", "rpc.ProfileIdKey"}, d.Keys.Discriminators())
	assert.Equal(t, []string{"rpc.Blacklist", "rpc.NameHistory", "rpc.Profile", "rpc.ProfileId"}, d.Values.Discriminators())
}

func TestDecode_AllKinds(t *testing.T) {
	cases := []struct {
		name string
		ev   *wire.Event
		kind domain.Kind
	}{
		{"profile id", &wire.Event{
			Type:   int32(domain.KindProfileID),
			Key:    wire.NewAny(wire.TypeProfileIDKey, &wire.ProfileIDKey{Name: "Steve", At: 1700000000}),
			Object: wire.NewAny(wire.TypeProfileID, &wire.ProfileID{ID: testUUID, Name: "Steve"}),
		}, domain.KindProfileID},
		{"name history", &wire.Event{
			Type:   int32(domain.KindNameHistory),
			Key:    wire.NewAny(wire.TypeIDKey, &wire.IDKey{ID: testUUID}),
			Object: wire.NewAny(wire.TypeNameHistory, &wire.NameHistory{History: []*wire.NameHistoryEntry{{Name: "Steve"}}}),
		}, domain.KindNameHistory},
		{"profile", profileEvent(), domain.KindProfile},
		{"blacklist", &wire.Event{
			Type:   int32(domain.KindBlacklist),
			Object: wire.NewAny(wire.TypeBlacklist, &wire.Blacklist{Hashes: []string{domain.Digest("10.*")}}),
		}, domain.KindBlacklist},
	}

	d := NewDecoder()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev, err := d.Decode(tc.ev)
			require.NoError(t, err)
			assert.Equal(t, tc.kind, ev.Kind())
			assert.Equal(t, tc.kind.HasKey(), ev.HasKey())
			assert.Equal(t, tc.kind.ValueShape(), ev.Value().Shape())
		})
	}
}

func TestDecode_Blacklist(t *testing.T) {
	ev, err := NewDecoder().Decode(&wire.Event{
		Type:   int32(domain.KindBlacklist),
		Object: wire.NewAny(wire.TypeBlacklist, &wire.Blacklist{Hashes: []string{domain.Digest("10.100.*")}}),
	})
	require.NoError(t, err)

	bl, ok := ev.Blacklist()
	require.True(t, ok)
	hit, err := bl.IsBlacklisted("10.100.200.1")
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestDecode_KeyOptional(t *testing.T) {
	ev := profileEvent()
	ev.Key = nil
	got, err := NewDecoder().Decode(ev)
	require.NoError(t, err)
	assert.False(t, got.HasKey())
}

func TestDecode_Idempotent(t *testing.T) {
	d := NewDecoder()
	b := profileEvent().Marshal()

	a, err := d.DecodeBytes(b)
	require.NoError(t, err)
	c, err := d.DecodeBytes(b)
	require.NoError(t, err)
	assert.True(t, a.Equal(c))
}

func TestDecode_Errors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(ev *wire.Event)
		want   error
	}{
		{"unknown kind", func(ev *wire.Event) { ev.Type = 9 }, domain.ErrUnknownKind},
		{"negative kind", func(ev *wire.Event) { ev.Type = -1 }, domain.ErrUnknownKind},
		{"unknown value type", func(ev *wire.Event) {
			ev.Object = &anypb.Any{TypeUrl: wire.TypeURLPrefix + "rpc.Unknown"}
		}, registry.ErrUnknownType},
		{"key message as value", func(ev *wire.Event) {
			ev.Object = wire.NewAny(wire.TypeIDKey, &wire.IDKey{ID: testUUID})
		}, registry.ErrUnknownType},
		{"value message as key", func(ev *wire.Event) {
			ev.Key = wire.NewAny(wire.TypeProfile, &wire.Profile{ID: testUUID})
		}, registry.ErrUnknownType},
		{"malformed value", func(ev *wire.Event) {
			ev.Object = &anypb.Any{TypeUrl: wire.TypeURLPrefix + wire.TypeProfile, Value: []byte{0xff}}
		}, registry.ErrMalformedPayload},
		{"bad key uuid", func(ev *wire.Event) {
			ev.Key = wire.NewAny(wire.TypeIDKey, &wire.IDKey{ID: "nope"})
		}, registry.ErrMalformedPayload},
		{"missing value", func(ev *wire.Event) { ev.Object = nil }, registry.ErrMalformedPayload},
		{"wrong value shape", func(ev *wire.Event) {
			ev.Object = wire.NewAny(wire.TypeBlacklist, &wire.Blacklist{})
		}, domain.ErrShapeMismatch},
		{"wrong key shape", func(ev *wire.Event) {
			ev.Key = wire.NewAny(wire.TypeProfileIDKey, &wire.ProfileIDKey{Name: "Steve"})
		}, domain.ErrShapeMismatch},
		{"key on blacklist", func(ev *wire.Event) {
			ev.Type = int32(domain.KindBlacklist)
			ev.Object = wire.NewAny(wire.TypeBlacklist, &wire.Blacklist{})
		}, domain.ErrShapeMismatch},
	}

	d := NewDecoder()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := profileEvent()
			tc.mutate(ev)
			_, err := d.Decode(ev)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestDecodeBytes_MalformedEnvelope(t *testing.T) {
	_, err := NewDecoder().DecodeBytes([]byte{0x12, 0x05, 0x01})
	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrMalformedPayload))
}

func TestDecoder_CustomRegistries(t *testing.T) {
	values := registry.New[domain.EventValue]()
	registry.Register(values, "test.Fixed", func([]byte) (struct{}, error) { return struct{}{}, nil },
		func(struct{}) (domain.EventValue, error) { return domain.NewBlacklist([]string{"abc"}), nil })

	d := &Decoder{Keys: registry.New[domain.EventKey](), Values: values}
	ev, err := d.Decode(&wire.Event{
		Type:   int32(domain.KindBlacklist),
		Object: &anypb.Any{TypeUrl: wire.TypeURLPrefix + "test.Fixed"},
	})
	require.NoError(t, err)
	bl, ok := ev.Blacklist()
	require.True(t, ok)
	assert.True(t, bl.Contains("abc"))

	_, err = d.Decode(profileEvent())
	assert.ErrorIs(t, err, registry.ErrUnknownType)
}
