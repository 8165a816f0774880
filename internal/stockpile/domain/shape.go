package domain

import "fmt"

// Shape identifies the structural type of an event key or value.
type Shape uint8

const (
	// ShapeNone marks an absent key.
	ShapeNone Shape = iota
	ShapeUUID
	ShapeProfileIDKey
	ShapeProfileID
	ShapeNameHistory
	ShapeProfile
	ShapeBlacklist
)

// String returns a stable name for the shape.
func (s Shape) String() string {
	switch s {
	case ShapeNone:
		return "none"
	case ShapeUUID:
		return "UUID"
	case ShapeProfileIDKey:
		return "ProfileIdKey"
	case ShapeProfileID:
		return "ProfileId"
	case ShapeNameHistory:
		return "NameHistory"
	case ShapeProfile:
		return "Profile"
	case ShapeBlacklist:
		return "Blacklist"
	default:
		return fmt.Sprintf("Shape(%d)", uint8(s))
	}
}
