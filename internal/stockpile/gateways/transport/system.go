package transport

import (
	"context"

	"google.golang.org/grpc"

	"github.com/dotstart/stockpile-go/internal/stockpile/domain"
	"github.com/dotstart/stockpile-go/internal/stockpile/gateways/wire"
)

// SystemOperations reports on the server itself.
type SystemOperations struct {
	conn grpc.ClientConnInterface
}

func (o *SystemOperations) GetStatus(ctx context.Context) (domain.Status, error) {
	var resp wire.Status
	if err := invoke(ctx, o.conn, methodGetStatus, &wire.Empty{}, &resp); err != nil {
		return domain.Status{}, err
	}
	return resp.Domain(), nil
}

// GetPlugins lists the server plugins. Duplicate entries are collapsed.
func (o *SystemOperations) GetPlugins(ctx context.Context) ([]domain.PluginMetadata, error) {
	var resp wire.PluginList
	if err := invoke(ctx, o.conn, methodGetPlugins, &wire.Empty{}, &resp); err != nil {
		return nil, err
	}
	return resp.Domain(), nil
}
