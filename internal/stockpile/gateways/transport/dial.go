package transport

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// DefaultPort is the port a Stockpile server listens on.
const DefaultPort = 36623

// DialStage describes where a dial attempt failed.
type DialStage string

const (
	// DialStageConnect indicates the client connection could not be created.
	DialStageConnect DialStage = "connect"
	// DialStageStatus indicates the server did not answer the status probe.
	DialStageStatus DialStage = "status"
)

// DialError wraps dial and probe failures with a stage indicator.
type DialError struct {
	Stage DialStage
	Err   error
}

func (e *DialError) Error() string {
	if e == nil {
		return "stockpile dial error"
	}
	return fmt.Sprintf("stockpile %s error: %v", e.Stage, e.Err)
}

func (e *DialError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// DefaultDialOptions returns plaintext dial options with OTel client
// instrumentation. Stockpile servers do not offer TLS.
func DefaultDialOptions() []grpc.DialOption {
	return []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	}
}

// Dial connects to addr and probes the server status before returning.
// A missing port defaults to DefaultPort. opts are appended to
// DefaultDialOptions. The probe is bounded by timeout when positive.
func Dial(ctx context.Context, addr string, timeout time.Duration, opts ...grpc.DialOption) (*Client, error) {
	conn, err := grpc.NewClient(withDefaultPort(addr), append(DefaultDialOptions(), opts...)...)
	if err != nil {
		return nil, &DialError{Stage: DialStageConnect, Err: err}
	}

	probeCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	c := NewClient(conn)
	if _, err := c.System().GetStatus(probeCtx); err != nil {
		_ = conn.Close()
		return nil, &DialError{Stage: DialStageStatus, Err: err}
	}
	return c, nil
}

// withDefaultPort appends DefaultPort to addresses without a port. Target
// URIs (scheme:///...) are returned unchanged.
func withDefaultPort(addr string) string {
	if strings.Contains(addr, ":///") {
		return addr
	}
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}
	return net.JoinHostPort(addr, strconv.Itoa(DefaultPort))
}
