package domain

import "fmt"

// Kind enumerates the cache event categories pushed by a Stockpile server.
// The numeric values are the wire tags.
type Kind int32

const (
	// KindProfileID announces a name to profile id assignment.
	KindProfileID Kind = iota
	// KindNameHistory announces the name history of a profile.
	KindNameHistory
	// KindProfile announces a full profile.
	KindProfile
	// KindBlacklist announces a replacement server blacklist.
	KindBlacklist
)

// kindShapes holds the key and value shape declared by each kind.
// A key shape of ShapeNone means the kind carries no key.
var kindShapes = [...]struct{ key, value Shape }{
	KindProfileID:   {ShapeProfileIDKey, ShapeProfileID},
	KindNameHistory: {ShapeUUID, ShapeNameHistory},
	KindProfile:     {ShapeUUID, ShapeProfile},
	KindBlacklist:   {ShapeNone, ShapeBlacklist},
}

// KindFromTag resolves a wire tag.
func KindFromTag(tag int32) (Kind, error) {
	k := Kind(tag)
	if !k.IsValid() {
		return 0, &UnknownKindError{Tag: tag}
	}
	return k, nil
}

// IsValid reports whether k is one of the defined kinds.
func (k Kind) IsValid() bool {
	return k >= 0 && int(k) < len(kindShapes)
}

// KeyShape returns the shape of the key this kind carries, or ShapeNone.
func (k Kind) KeyShape() Shape {
	if !k.IsValid() {
		return ShapeNone
	}
	return kindShapes[k].key
}

// ValueShape returns the shape of the value this kind carries.
func (k Kind) ValueShape() Shape {
	if !k.IsValid() {
		return ShapeNone
	}
	return kindShapes[k].value
}

// HasKey reports whether events of this kind are keyed.
func (k Kind) HasKey() bool {
	return k.KeyShape() != ShapeNone
}

// String returns the wire enum name of the kind.
func (k Kind) String() string {
	switch k {
	case KindProfileID:
		return "PROFILE_ID"
	case KindNameHistory:
		return "NAME_HISTORY"
	case KindProfile:
		return "PROFILE"
	case KindBlacklist:
		return "BLACKLIST"
	default:
		return fmt.Sprintf("Kind(%d)", int32(k))
	}
}
