package wire

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/dotstart/stockpile-go/internal/stockpile/domain"
)

// ProfileID is rpc.ProfileId.
type ProfileID struct {
	ID          string
	Name        string
	FirstSeenAt int64
	LastSeenAt  int64
	ValidUntil  int64
}

func (m *ProfileID) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.ID)
	b = appendString(b, 2, m.Name)
	b = appendInt64(b, 3, m.FirstSeenAt)
	b = appendInt64(b, 4, m.LastSeenAt)
	b = appendInt64(b, 5, m.ValidUntil)
	return b
}

func (m *ProfileID) Unmarshal(b []byte) error {
	*m = ProfileID{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(num, typ, b, &m.ID)
		case 2:
			return consumeString(num, typ, b, &m.Name)
		case 3:
			return consumeInt64(num, typ, b, &m.FirstSeenAt)
		case 4:
			return consumeInt64(num, typ, b, &m.LastSeenAt)
		case 5:
			return consumeInt64(num, typ, b, &m.ValidUntil)
		}
		return 0, nil
	})
}

// Domain converts the message. The identifier must be a valid UUID.
func (m *ProfileID) Domain() (domain.ProfileID, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return domain.ProfileID{}, fmt.Errorf("profile id %q: %w", m.ID, err)
	}
	return domain.ProfileID{
		ID:          id,
		Name:        m.Name,
		FirstSeenAt: epoch(m.FirstSeenAt),
		LastSeenAt:  epoch(m.LastSeenAt),
		ValidUntil:  epoch(m.ValidUntil),
	}, nil
}

// NameHistoryEntry is rpc.NameHistoryEntry.
type NameHistoryEntry struct {
	Name        string
	ChangedToAt int64
	ValidUntil  int64
}

func (m *NameHistoryEntry) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.Name)
	b = appendInt64(b, 2, m.ChangedToAt)
	b = appendInt64(b, 3, m.ValidUntil)
	return b
}

func (m *NameHistoryEntry) Unmarshal(b []byte) error {
	*m = NameHistoryEntry{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(num, typ, b, &m.Name)
		case 2:
			return consumeInt64(num, typ, b, &m.ChangedToAt)
		case 3:
			return consumeInt64(num, typ, b, &m.ValidUntil)
		}
		return 0, nil
	})
}

// NameHistory is rpc.NameHistory.
type NameHistory struct {
	History    []*NameHistoryEntry
	ValidUntil int64
}

func (m *NameHistory) Marshal() []byte {
	var b []byte
	for _, e := range m.History {
		b = appendMessage(b, 1, e)
	}
	b = appendInt64(b, 2, m.ValidUntil)
	return b
}

func (m *NameHistory) Unmarshal(b []byte) error {
	*m = NameHistory{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			e := &NameHistoryEntry{}
			n, err := consumeMessage(num, typ, b, e)
			if err == nil {
				m.History = append(m.History, e)
			}
			return n, err
		case 2:
			return consumeInt64(num, typ, b, &m.ValidUntil)
		}
		return 0, nil
	})
}

func (m *NameHistory) Domain() (domain.NameChangeHistory, error) {
	return domain.NameChangeHistory{
		Changes: lo.Map(m.History, func(e *NameHistoryEntry, _ int) domain.NameChange {
			return domain.NameChange{
				Name:        e.Name,
				ChangedToAt: epoch(e.ChangedToAt),
				ValidUntil:  epoch(e.ValidUntil),
			}
		}),
		ValidUntil: epoch(m.ValidUntil),
	}, nil
}

// ProfileProperty is rpc.ProfileProperty. Value is base64 encoded.
type ProfileProperty struct {
	Name      string
	Value     string
	Signature string
}

func (m *ProfileProperty) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.Name)
	b = appendString(b, 2, m.Value)
	b = appendString(b, 3, m.Signature)
	return b
}

func (m *ProfileProperty) Unmarshal(b []byte) error {
	*m = ProfileProperty{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(num, typ, b, &m.Name)
		case 2:
			return consumeString(num, typ, b, &m.Value)
		case 3:
			return consumeString(num, typ, b, &m.Signature)
		}
		return 0, nil
	})
}

func (m *ProfileProperty) Domain() (domain.ProfileProperty, error) {
	v, err := base64.StdEncoding.DecodeString(m.Value)
	if err != nil {
		return domain.ProfileProperty{}, fmt.Errorf("property %q: %w", m.Name, err)
	}
	return domain.ProfileProperty{Name: m.Name, Value: v, Signature: m.Signature}, nil
}

// ProfileTextures is rpc.ProfileTextures. Empty URLs denote an absent texture.
type ProfileTextures struct {
	Timestamp   int64
	ProfileID   string
	ProfileName string
	SkinURL     string
	CapeURL     string
}

func (m *ProfileTextures) Marshal() []byte {
	var b []byte
	b = appendInt64(b, 1, m.Timestamp)
	b = appendString(b, 2, m.ProfileID)
	b = appendString(b, 3, m.ProfileName)
	b = appendString(b, 4, m.SkinURL)
	b = appendString(b, 5, m.CapeURL)
	return b
}

func (m *ProfileTextures) Unmarshal(b []byte) error {
	*m = ProfileTextures{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeInt64(num, typ, b, &m.Timestamp)
		case 2:
			return consumeString(num, typ, b, &m.ProfileID)
		case 3:
			return consumeString(num, typ, b, &m.ProfileName)
		case 4:
			return consumeString(num, typ, b, &m.SkinURL)
		case 5:
			return consumeString(num, typ, b, &m.CapeURL)
		}
		return 0, nil
	})
}

func (m *ProfileTextures) Domain() (domain.ProfileTextures, error) {
	id, err := uuid.Parse(m.ProfileID)
	if err != nil {
		return domain.ProfileTextures{}, fmt.Errorf("texture profile id %q: %w", m.ProfileID, err)
	}
	skin, err := optionalURL(m.SkinURL)
	if err != nil {
		return domain.ProfileTextures{}, fmt.Errorf("skin url: %w", err)
	}
	cape, err := optionalURL(m.CapeURL)
	if err != nil {
		return domain.ProfileTextures{}, fmt.Errorf("cape url: %w", err)
	}
	return domain.ProfileTextures{
		Timestamp:   epoch(m.Timestamp),
		ProfileID:   id,
		ProfileName: m.ProfileName,
		SkinURL:     skin,
		CapeURL:     cape,
	}, nil
}

// Profile is rpc.Profile.
type Profile struct {
	ID         string
	Name       string
	Properties []*ProfileProperty
	Textures   *ProfileTextures
}

func (m *Profile) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.ID)
	b = appendString(b, 2, m.Name)
	for _, p := range m.Properties {
		b = appendMessage(b, 3, p)
	}
	if m.Textures != nil {
		b = appendMessage(b, 4, m.Textures)
	}
	return b
}

func (m *Profile) Unmarshal(b []byte) error {
	*m = Profile{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(num, typ, b, &m.ID)
		case 2:
			return consumeString(num, typ, b, &m.Name)
		case 3:
			p := &ProfileProperty{}
			n, err := consumeMessage(num, typ, b, p)
			if err == nil {
				m.Properties = append(m.Properties, p)
			}
			return n, err
		case 4:
			m.Textures = &ProfileTextures{}
			return consumeMessage(num, typ, b, m.Textures)
		}
		return 0, nil
	})
}

// Domain converts the message. A profile without textures yields zero
// textures; present textures must carry a valid profile id.
func (m *Profile) Domain() (domain.Profile, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("profile id %q: %w", m.ID, err)
	}
	props := make([]domain.ProfileProperty, 0, len(m.Properties))
	for _, p := range m.Properties {
		prop, err := p.Domain()
		if err != nil {
			return domain.Profile{}, err
		}
		props = append(props, prop)
	}
	var textures domain.ProfileTextures
	if m.Textures != nil {
		if textures, err = m.Textures.Domain(); err != nil {
			return domain.Profile{}, err
		}
	}
	return domain.NewProfile(id, m.Name, props, textures), nil
}

// GetIDRequest is rpc.GetIdRequest.
type GetIDRequest struct {
	Name      string
	Timestamp int64
}

func (m *GetIDRequest) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.Name)
	b = appendInt64(b, 2, m.Timestamp)
	return b
}

func (m *GetIDRequest) Unmarshal(b []byte) error {
	*m = GetIDRequest{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(num, typ, b, &m.Name)
		case 2:
			return consumeInt64(num, typ, b, &m.Timestamp)
		}
		return 0, nil
	})
}

// BulkIDRequest is rpc.BulkIdRequest.
type BulkIDRequest struct {
	Names []string
}

func (m *BulkIDRequest) Marshal() []byte { return appendStrings(nil, 1, m.Names) }

func (m *BulkIDRequest) Unmarshal(b []byte) error {
	*m = BulkIDRequest{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeStrings(num, typ, b, &m.Names)
		}
		return 0, nil
	})
}

// BulkIDResponse is rpc.BulkIdResponse.
type BulkIDResponse struct {
	IDs []*ProfileID
}

func (m *BulkIDResponse) Marshal() []byte {
	var b []byte
	for _, id := range m.IDs {
		b = appendMessage(b, 1, id)
	}
	return b
}

func (m *BulkIDResponse) Unmarshal(b []byte) error {
	*m = BulkIDResponse{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != 1 {
			return 0, nil
		}
		id := &ProfileID{}
		n, err := consumeMessage(num, typ, b, id)
		if err == nil {
			m.IDs = append(m.IDs, id)
		}
		return n, err
	})
}

// IDRequest is rpc.IdRequest.
type IDRequest struct {
	ID string
}

func (m *IDRequest) Marshal() []byte { return appendString(nil, 1, m.ID) }

func (m *IDRequest) Unmarshal(b []byte) error {
	*m = IDRequest{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeString(num, typ, b, &m.ID)
		}
		return 0, nil
	})
}

func epoch(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func optionalURL(s string) (*url.URL, error) {
	if s == "" {
		return nil, nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("%q has no scheme", s)
	}
	return u, nil
}
