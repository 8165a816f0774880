package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownKind is matched by errors carrying an event kind tag outside the defined range.
	ErrUnknownKind = errors.New("unknown event kind")
	// ErrShapeMismatch is matched by errors raised when an event key or value has the wrong shape.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrInvalidAddress is matched by errors raised for addresses the blacklist cannot decompose.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrInvalidEvent is matched by errors for a single event which could not
	// be decoded or validated while the stream carrying it stays usable.
	ErrInvalidEvent = errors.New("invalid event")
)

// UnknownKindError reports a wire kind tag without a matching Kind.
type UnknownKindError struct {
	Tag int32
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown event kind: tag %d", e.Tag)
}

func (e *UnknownKindError) Is(target error) bool { return target == ErrUnknownKind }

// ShapeMismatchError reports which part of an event failed validation.
// Field is either "key" or "value".
type ShapeMismatchError struct {
	Kind     Kind
	Field    string
	Expected Shape
	Actual   Shape
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("illegal %s for event kind %s: expected %s but got %s", e.Field, e.Kind, e.Expected, e.Actual)
}

func (e *ShapeMismatchError) Is(target error) bool { return target == ErrShapeMismatch }

// InvalidAddressError reports an address which does not have the segment
// structure required by the matching path it was routed to.
type InvalidAddressError struct {
	Address string
	Reason  string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid address %q: %s", e.Address, e.Reason)
}

func (e *InvalidAddressError) Is(target error) bool { return target == ErrInvalidAddress }
