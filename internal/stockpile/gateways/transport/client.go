// Package transport is the gRPC client of a Stockpile server.
package transport

import (
	"context"
	"io"

	"google.golang.org/grpc"

	"github.com/dotstart/stockpile-go/internal/stockpile/gateways/events"
	"github.com/dotstart/stockpile-go/internal/stockpile/gateways/wire"
)

// Fully qualified gRPC method names.
const (
	methodStreamEvents   = "/rpc.EventService/StreamEvents"
	methodGetID          = "/rpc.ProfileService/GetId"
	methodBulkGetID      = "/rpc.ProfileService/BulkGetId"
	methodGetNameHistory = "/rpc.ProfileService/GetNameHistory"
	methodGetProfile     = "/rpc.ProfileService/GetProfile"
	methodGetBlacklist   = "/rpc.ServerService/GetBlacklist"
	methodCheckBlacklist = "/rpc.ServerService/CheckBlacklist"
	methodLogin          = "/rpc.ServerService/Login"
	methodGetStatus      = "/rpc.SystemService/GetStatus"
	methodGetPlugins     = "/rpc.SystemService/GetPlugins"
)

// Client groups the operations of the four Stockpile services.
type Client struct {
	conn     grpc.ClientConnInterface
	events   *EventOperations
	profiles *ProfileOperations
	server   *ServerOperations
	system   *SystemOperations
}

// NewClient wraps an established connection. The connection is closed by
// Close when it implements io.Closer.
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{
		conn:     conn,
		events:   &EventOperations{conn: conn, decoder: events.NewDecoder()},
		profiles: &ProfileOperations{conn: conn},
		server:   &ServerOperations{conn: conn},
		system:   &SystemOperations{conn: conn},
	}
}

func (c *Client) Events() *EventOperations     { return c.events }
func (c *Client) Profiles() *ProfileOperations { return c.profiles }
func (c *Client) Server() *ServerOperations    { return c.server }
func (c *Client) System() *SystemOperations    { return c.system }

// Close releases the underlying connection.
func (c *Client) Close() error {
	if closer, ok := c.conn.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func invoke(ctx context.Context, conn grpc.ClientConnInterface, method string, req, resp wire.Message) error {
	return conn.Invoke(ctx, method, req, resp, grpc.ForceCodec(codec{}))
}
