package wire

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/dotstart/stockpile-go/internal/stockpile/domain"
)

// Blacklist is rpc.Blacklist.
type Blacklist struct {
	Hashes []string
}

func (m *Blacklist) Marshal() []byte { return appendStrings(nil, 1, m.Hashes) }

func (m *Blacklist) Unmarshal(b []byte) error {
	*m = Blacklist{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeStrings(num, typ, b, &m.Hashes)
		}
		return 0, nil
	})
}

func (m *Blacklist) Domain() (domain.Blacklist, error) {
	return domain.NewBlacklist(m.Hashes), nil
}

// CheckBlacklistRequest is rpc.CheckBlacklistRequest.
type CheckBlacklistRequest struct {
	Addresses []string
}

func (m *CheckBlacklistRequest) Marshal() []byte { return appendStrings(nil, 1, m.Addresses) }

func (m *CheckBlacklistRequest) Unmarshal(b []byte) error {
	*m = CheckBlacklistRequest{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeStrings(num, typ, b, &m.Addresses)
		}
		return 0, nil
	})
}

// CheckBlacklistResponse is rpc.CheckBlacklistResponse.
type CheckBlacklistResponse struct {
	MatchedAddresses []string
}

func (m *CheckBlacklistResponse) Marshal() []byte { return appendStrings(nil, 1, m.MatchedAddresses) }

func (m *CheckBlacklistResponse) Unmarshal(b []byte) error {
	*m = CheckBlacklistResponse{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeStrings(num, typ, b, &m.MatchedAddresses)
		}
		return 0, nil
	})
}

// LoginRequest is rpc.LoginRequest. An empty IP skips the address check.
type LoginRequest struct {
	DisplayName string
	ServerID    string
	IP          string
}

func (m *LoginRequest) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.DisplayName)
	b = appendString(b, 2, m.ServerID)
	b = appendString(b, 3, m.IP)
	return b
}

func (m *LoginRequest) Unmarshal(b []byte) error {
	*m = LoginRequest{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(num, typ, b, &m.DisplayName)
		case 2:
			return consumeString(num, typ, b, &m.ServerID)
		case 3:
			return consumeString(num, typ, b, &m.IP)
		}
		return 0, nil
	})
}
