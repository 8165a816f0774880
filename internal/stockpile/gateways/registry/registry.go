// Package registry decodes protobuf Any payloads into domain values based on
// their type URL.
package registry

import (
	"errors"
	"fmt"
	"slices"

	"google.golang.org/protobuf/types/known/anypb"

	"github.com/dotstart/stockpile-go/internal/stockpile/gateways/wire"
)

var (
	// ErrUnknownType is matched when a type URL has no registered decoder.
	ErrUnknownType = errors.New("unknown payload type")
	// ErrMalformedPayload is matched when a registered decoder rejects a payload.
	ErrMalformedPayload = errors.New("malformed payload")
)

// UnknownTypeError carries the rejected type URL.
type UnknownTypeError struct {
	TypeURL string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown payload type %q", e.TypeURL)
}

func (e *UnknownTypeError) Is(target error) bool { return target == ErrUnknownType }

// MalformedPayloadError wraps the parse or conversion failure of a payload.
type MalformedPayloadError struct {
	TypeURL string
	Err     error
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed payload of type %q: %v", e.TypeURL, e.Err)
}

func (e *MalformedPayloadError) Is(target error) bool { return target == ErrMalformedPayload }
func (e *MalformedPayloadError) Unwrap() error        { return e.Err }

type decoder[T any] func(payload []byte) (T, error)

// Registry maps message names to decoders producing T. Entries are added
// during startup wiring; once shared, a Registry is only read and may be used
// from any number of goroutines.
type Registry[T any] struct {
	decoders map[string]decoder[T]
}

// New returns an empty registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{decoders: make(map[string]decoder[T])}
}

// Register binds discriminator, a fully qualified message name, to a decoder
// which unmarshals the payload with unmarshal and converts the message with
// convert. A previous entry for the same discriminator is replaced.
func Register[M any, T any](r *Registry[T], discriminator string, unmarshal func([]byte) (M, error), convert func(M) (T, error)) {
	r.decoders[discriminator] = func(payload []byte) (T, error) {
		msg, err := unmarshal(payload)
		if err != nil {
			var zero T
			return zero, err
		}
		return convert(msg)
	}
}

// Decode selects the decoder for typeURL and applies it to payload.
func (r *Registry[T]) Decode(typeURL string, payload []byte) (T, error) {
	var zero T
	name, ok := wire.MessageName(typeURL)
	if !ok {
		return zero, &UnknownTypeError{TypeURL: typeURL}
	}
	dec, ok := r.decoders[name]
	if !ok {
		return zero, &UnknownTypeError{TypeURL: typeURL}
	}
	v, err := dec(payload)
	if err != nil {
		return zero, &MalformedPayloadError{TypeURL: typeURL, Err: err}
	}
	return v, nil
}

// DecodeAny decodes a packed Any.
func (r *Registry[T]) DecodeAny(a *anypb.Any) (T, error) {
	return r.Decode(a.GetTypeUrl(), a.GetValue())
}

// Discriminators returns the registered message names in ascending order.
func (r *Registry[T]) Discriminators() []string {
	out := make([]string, 0, len(r.decoders))
	for name := range r.decoders {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Unmarshaler adapts a wire message type to the unmarshal argument of Register.
func Unmarshaler[M any, PM interface {
	*M
	wire.Message
}]() func([]byte) (PM, error) {
	return func(b []byte) (PM, error) {
		m := PM(new(M))
		if err := m.Unmarshal(b); err != nil {
			return nil, err
		}
		return m, nil
	}
}
