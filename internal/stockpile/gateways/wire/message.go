// Package wire holds the protobuf messages exchanged with a Stockpile server.
//
// Messages are encoded by hand with protowire; field numbers follow the
// server's "rpc" proto package. Unknown fields are skipped so that newer
// servers remain readable.
package wire

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrMalformed is matched by every decoding failure of this package.
var ErrMalformed = errors.New("malformed message")

// Message is implemented by every type of this package.
type Message interface {
	Marshal() []byte
	Unmarshal(b []byte) error
}

// fieldFunc consumes the value of a known field and returns the number of
// bytes read. Returning 0 without an error marks the field as unknown.
type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (int, error)

func decodeFields(b []byte, fn fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return malformed(protowire.ParseError(n))
		}
		b = b[n:]

		n, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if n == 0 {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return malformed(protowire.ParseError(n))
			}
		}
		b = b[n:]
	}
	return nil
}

func malformed(err error) error {
	return fmt.Errorf("%w: %v", ErrMalformed, err)
}

func wrongType(num protowire.Number, got, want protowire.Type) error {
	return fmt.Errorf("%w: field %d has wire type %d, want %d", ErrMalformed, num, got, want)
}

func consumeString(num protowire.Number, typ protowire.Type, b []byte, dst *string) (int, error) {
	if typ != protowire.BytesType {
		return 0, wrongType(num, typ, protowire.BytesType)
	}
	v, n := protowire.ConsumeString(b)
	if n < 0 {
		return 0, malformed(protowire.ParseError(n))
	}
	*dst = v
	return n, nil
}

func consumeStrings(num protowire.Number, typ protowire.Type, b []byte, dst *[]string) (int, error) {
	var v string
	n, err := consumeString(num, typ, b, &v)
	if err != nil {
		return 0, err
	}
	*dst = append(*dst, v)
	return n, nil
}

func consumeInt64(num protowire.Number, typ protowire.Type, b []byte, dst *int64) (int, error) {
	if typ != protowire.VarintType {
		return 0, wrongType(num, typ, protowire.VarintType)
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, malformed(protowire.ParseError(n))
	}
	*dst = int64(v)
	return n, nil
}

func consumeInt32(num protowire.Number, typ protowire.Type, b []byte, dst *int32) (int, error) {
	var v int64
	n, err := consumeInt64(num, typ, b, &v)
	if err != nil {
		return 0, err
	}
	*dst = int32(v)
	return n, nil
}

// consumeMessage decodes an embedded message into m.
func consumeMessage(num protowire.Number, typ protowire.Type, b []byte, m Message) (int, error) {
	if typ != protowire.BytesType {
		return 0, wrongType(num, typ, protowire.BytesType)
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return 0, malformed(protowire.ParseError(n))
	}
	if err := m.Unmarshal(v); err != nil {
		return 0, err
	}
	return n, nil
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendStrings(b []byte, num protowire.Number, vs []string) []byte {
	for _, v := range vs {
		b = protowire.AppendTag(b, num, protowire.BytesType)
		b = protowire.AppendString(b, v)
	}
	return b
}

func appendInt64(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendMessage(b []byte, num protowire.Number, m Message) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m.Marshal())
}
