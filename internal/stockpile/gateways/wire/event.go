package wire

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/anypb"

	"github.com/dotstart/stockpile-go/internal/stockpile/domain"
)

// TypeURLPrefix precedes the fully qualified message name in Any type URLs.
const TypeURLPrefix = "type.googleapis.com/"

// Fully qualified names of the messages carried inside event envelopes.
const (
	TypeIDKey        = "rpc.IdKey"
	TypeProfileIDKey = "rpc.ProfileIdKey"
	TypeProfileID    = "rpc.ProfileId"
	TypeNameHistory  = "rpc.NameHistory"
	TypeProfile      = "rpc.Profile"
	TypeBlacklist    = "rpc.Blacklist"
)

// NewAny packs m into an Any carrying the type URL of name.
func NewAny(name string, m Message) *anypb.Any {
	return &anypb.Any{TypeUrl: TypeURLPrefix + name, Value: m.Marshal()}
}

// MessageName strips TypeURLPrefix from a type URL. It reports false when the
// prefix is missing.
func MessageName(typeURL string) (string, bool) {
	return strings.CutPrefix(typeURL, TypeURLPrefix)
}

// IDKey is rpc.IdKey.
type IDKey struct {
	ID string
}

func (m *IDKey) Marshal() []byte { return appendString(nil, 1, m.ID) }

func (m *IDKey) Unmarshal(b []byte) error {
	*m = IDKey{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeString(num, typ, b, &m.ID)
		}
		return 0, nil
	})
}

func (m *IDKey) Domain() (domain.IDKey, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return domain.IDKey{}, fmt.Errorf("id key %q: %w", m.ID, err)
	}
	return domain.IDKey(id), nil
}

// ProfileIDKey is rpc.ProfileIdKey.
type ProfileIDKey struct {
	Name string
	At   int64
}

func (m *ProfileIDKey) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.Name)
	b = appendInt64(b, 2, m.At)
	return b
}

func (m *ProfileIDKey) Unmarshal(b []byte) error {
	*m = ProfileIDKey{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(num, typ, b, &m.Name)
		case 2:
			return consumeInt64(num, typ, b, &m.At)
		}
		return 0, nil
	})
}

func (m *ProfileIDKey) Domain() (domain.ProfileIDKey, error) {
	return domain.ProfileIDKey{Name: m.Name, At: epoch(m.At)}, nil
}

// Event is rpc.Event, the envelope pushed by the event stream. Key is nil
// for keyless kinds.
type Event struct {
	Type   int32
	Key    *anypb.Any
	Object *anypb.Any
}

func (m *Event) Marshal() []byte {
	var b []byte
	if m.Type != 0 {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(int64(m.Type)))
	}
	b = appendAny(b, 2, m.Key)
	b = appendAny(b, 3, m.Object)
	return b
}

func (m *Event) Unmarshal(b []byte) error {
	*m = Event{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeInt32(num, typ, b, &m.Type)
		case 2:
			return consumeAny(num, typ, b, &m.Key)
		case 3:
			return consumeAny(num, typ, b, &m.Object)
		}
		return 0, nil
	})
}

func appendAny(b []byte, num protowire.Number, a *anypb.Any) []byte {
	if a == nil {
		return b
	}
	v, err := proto.Marshal(a)
	if err != nil {
		// Any holds a string and bytes only; marshalling cannot fail.
		panic(err)
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func consumeAny(num protowire.Number, typ protowire.Type, b []byte, dst **anypb.Any) (int, error) {
	if typ != protowire.BytesType {
		return 0, wrongType(num, typ, protowire.BytesType)
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return 0, malformed(protowire.ParseError(n))
	}
	a := &anypb.Any{}
	if err := proto.Unmarshal(v, a); err != nil {
		return 0, malformed(err)
	}
	*dst = a
	return n, nil
}
