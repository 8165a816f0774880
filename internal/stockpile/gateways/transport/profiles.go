package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"

	"github.com/dotstart/stockpile-go/internal/stockpile/domain"
	"github.com/dotstart/stockpile-go/internal/stockpile/gateways/wire"
)

// ProfileOperations resolves names, name histories and profiles.
type ProfileOperations struct {
	conn grpc.ClientConnInterface
}

// GetProfileID resolves the profile that used name at the given instant.
// It reports false when the server knows no such assignment.
func (o *ProfileOperations) GetProfileID(ctx context.Context, name string, at time.Time) (domain.ProfileID, bool, error) {
	var resp wire.ProfileID
	if err := invoke(ctx, o.conn, methodGetID, &wire.GetIDRequest{Name: name, Timestamp: at.Unix()}, &resp); err != nil {
		return domain.ProfileID{}, false, err
	}
	if resp.Name == "" {
		return domain.ProfileID{}, false, nil
	}
	id, err := resp.Domain()
	if err != nil {
		return domain.ProfileID{}, false, fmt.Errorf("GetId response: %w", err)
	}
	return id, true, nil
}

// BulkGetProfileID resolves the current owners of names. Unknown names are
// omitted from the result.
func (o *ProfileOperations) BulkGetProfileID(ctx context.Context, names []string) ([]domain.ProfileID, error) {
	var resp wire.BulkIDResponse
	if err := invoke(ctx, o.conn, methodBulkGetID, &wire.BulkIDRequest{Names: names}, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.ProfileID, 0, len(resp.IDs))
	for _, m := range resp.IDs {
		id, err := m.Domain()
		if err != nil {
			return nil, fmt.Errorf("BulkGetId response: %w", err)
		}
		out = append(out, id)
	}
	return out, nil
}

// GetNameHistory reports false when the profile has no known names.
func (o *ProfileOperations) GetNameHistory(ctx context.Context, id uuid.UUID) (domain.NameChangeHistory, bool, error) {
	var resp wire.NameHistory
	if err := invoke(ctx, o.conn, methodGetNameHistory, &wire.IDRequest{ID: id.String()}, &resp); err != nil {
		return domain.NameChangeHistory{}, false, err
	}
	if len(resp.History) == 0 {
		return domain.NameChangeHistory{}, false, nil
	}
	h, err := resp.Domain()
	if err != nil {
		return domain.NameChangeHistory{}, false, fmt.Errorf("GetNameHistory response: %w", err)
	}
	return h, true, nil
}

// GetProfile reports false when the profile does not exist.
func (o *ProfileOperations) GetProfile(ctx context.Context, id uuid.UUID) (domain.Profile, bool, error) {
	var resp wire.Profile
	if err := invoke(ctx, o.conn, methodGetProfile, &wire.IDRequest{ID: id.String()}, &resp); err != nil {
		return domain.Profile{}, false, err
	}
	if resp.ID == "" {
		return domain.Profile{}, false, nil
	}
	p, err := resp.Domain()
	if err != nil {
		return domain.Profile{}, false, fmt.Errorf("GetProfile response: %w", err)
	}
	return p, true, nil
}
