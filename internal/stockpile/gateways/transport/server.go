package transport

import (
	"context"
	"fmt"
	"slices"

	"github.com/samber/lo"
	"google.golang.org/grpc"

	"github.com/dotstart/stockpile-go/internal/stockpile/domain"
	"github.com/dotstart/stockpile-go/internal/stockpile/gateways/wire"
)

// ServerOperations covers the game server facing calls.
type ServerOperations struct {
	conn grpc.ClientConnInterface
}

// GetBlacklist fetches the current server blacklist.
func (o *ServerOperations) GetBlacklist(ctx context.Context) (domain.Blacklist, error) {
	var resp wire.Blacklist
	if err := invoke(ctx, o.conn, methodGetBlacklist, &wire.Empty{}, &resp); err != nil {
		return domain.Blacklist{}, err
	}
	return resp.Domain()
}

// CheckBlacklist asks the server which of addresses are blacklisted. The
// result is sorted and free of duplicates.
func (o *ServerOperations) CheckBlacklist(ctx context.Context, addresses []string) ([]string, error) {
	var resp wire.CheckBlacklistResponse
	if err := invoke(ctx, o.conn, methodCheckBlacklist, &wire.CheckBlacklistRequest{Addresses: addresses}, &resp); err != nil {
		return nil, err
	}
	matched := lo.Uniq(resp.MatchedAddresses)
	slices.Sort(matched)
	return matched, nil
}

// Login verifies that displayName joined serverID. An empty ip skips the
// server side address check.
func (o *ServerOperations) Login(ctx context.Context, displayName, serverID, ip string) (domain.Profile, error) {
	var resp wire.Profile
	req := &wire.LoginRequest{DisplayName: displayName, ServerID: serverID, IP: ip}
	if err := invoke(ctx, o.conn, methodLogin, req, &resp); err != nil {
		return domain.Profile{}, err
	}
	p, err := resp.Domain()
	if err != nil {
		return domain.Profile{}, fmt.Errorf("Login response: %w", err)
	}
	return p, nil
}
