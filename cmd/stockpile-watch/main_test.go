package main

import (
	"context"
	"errors"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/dotstart/stockpile-go/internal/stockpile/common/clock"
	"github.com/dotstart/stockpile-go/internal/stockpile/config"
	"github.com/dotstart/stockpile-go/internal/stockpile/domain"
	"github.com/dotstart/stockpile-go/internal/stockpile/gateways/transport"
	"github.com/dotstart/stockpile-go/internal/stockpile/gateways/wire"
	"github.com/dotstart/stockpile-go/internal/stockpile/repos/blacklist/bolt"
)

// stockpileServer is a minimal in-memory Stockpile server.
type stockpileServer struct {
	statusErr    error
	blacklist    []string
	blacklistErr error
	events       []*wire.Event
	// holdStream keeps the event stream open until the client goes away.
	holdStream bool
}

func (s *stockpileServer) handle(_ any, stream grpc.ServerStream) error {
	method, _ := grpc.MethodFromServerStream(stream)
	if err := stream.RecvMsg(&wire.Empty{}); err != nil {
		return err
	}

	switch method {
	case "/rpc.SystemService/GetStatus":
		if s.statusErr != nil {
			return s.statusErr
		}
		return stream.SendMsg(&wire.Status{Brand: "Stockpile", Version: "test"})
	case "/rpc.ServerService/GetBlacklist":
		if s.blacklistErr != nil {
			return s.blacklistErr
		}
		return stream.SendMsg(&wire.Blacklist{Hashes: s.blacklist})
	case "/rpc.EventService/StreamEvents":
		for _, ev := range s.events {
			if err := stream.SendMsg(ev); err != nil {
				return err
			}
		}
		if s.holdStream {
			<-stream.Context().Done()
		}
		return nil
	}
	return status.Errorf(codes.Unimplemented, "unexpected method %s", method)
}

func startServer(t *testing.T, s *stockpileServer) grpc.DialOption {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.ForceServerCodec(transport.Codec()), grpc.UnknownServiceHandler(s.handle))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	return grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})
}

func testConfig(t *testing.T, check ...string) *config.AppConfig {
	t.Helper()
	cfg := config.DEFAULT_APP_CONFIG
	cfg.Env = "dev"
	cfg.LogLevel = "debug"
	cfg.Server = "passthrough:///bufnet"
	cfg.DialTimeout = 2
	cfg.BlacklistDB = filepath.Join(t.TempDir(), "blacklist.db")
	cfg.Check = check
	return &cfg
}

func seedSnapshot(t *testing.T, cfg *config.AppConfig, patterns ...string) {
	t.Helper()
	store, repo, err := buildRepositories(cfg, &clock.RealClock{})
	require.NoError(t, err)
	require.NoError(t, repo.Replace(domain.NewBlacklist(digests(patterns...))))
	require.NoError(t, store.Close())
}

func digests(patterns ...string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, domain.Digest(p))
	}
	return out
}

func blacklistEvent(patterns ...string) *wire.Event {
	return &wire.Event{
		Type:   int32(domain.KindBlacklist),
		Object: wire.NewAny(wire.TypeBlacklist, &wire.Blacklist{Hashes: digests(patterns...)}),
	}
}

func TestBuildRepositories_RestoresSnapshot(t *testing.T) {
	cfg := testConfig(t)
	seedSnapshot(t, cfg, "10.*")

	store, repo, err := buildRepositories(cfg, &clock.RealClock{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	assert.Equal(t, 1, repo.Current().Len())
	d, err := repo.Decide("10.1.2.3")
	require.NoError(t, err)
	assert.True(t, d.IsBlocked())
	assert.Equal(t, "10.*", d.Matched)
}

func TestBuildRepositories_BadPath(t *testing.T) {
	cfg := testConfig(t)
	cfg.BlacklistDB = filepath.Join(t.TempDir(), "missing", "blacklist.db")

	_, _, err := buildRepositories(cfg, &clock.RealClock{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open blacklist store")
}

func TestBuildApplication_DialFailureReleasesStore(t *testing.T) {
	cfg := testConfig(t)
	dialer := startServer(t, &stockpileServer{statusErr: status.Error(codes.Unavailable, "down")})

	_, err := buildApplication(context.Background(), cfg, dialer)
	require.Error(t, err)

	var dialErr *transport.DialError
	require.True(t, errors.As(err, &dialErr))
	assert.Equal(t, transport.DialStageStatus, dialErr.Stage)

	// the bolt file lock must have been released
	store, err := bolt.New(cfg.BlacklistDB)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestApplication_Run(t *testing.T) {
	cfg := testConfig(t, "10.100.1.1", "play.mc.example.com", "10.1.1")
	dialer := startServer(t, &stockpileServer{
		blacklist: digests("10.100.*"),
		events: []*wire.Event{
			{Type: 42, Object: wire.NewAny(wire.TypeBlacklist, &wire.Blacklist{})},
			blacklistEvent("*.example"),
		},
		holdStream: true,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	app, err := buildApplication(ctx, cfg, dialer)
	require.NoError(t, err)

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- app.Run(runCtx) }()

	require.Eventually(t, func() bool {
		stats := app.watcher.Stats()
		return stats.Blacklist == 1 && stats.Skipped == 1
	}, 5*time.Second, 10*time.Millisecond)

	blocked, err := app.blacklist.Decide("play.mc.example.com")
	require.NoError(t, err)
	assert.True(t, blocked.IsBlocked())

	allowed, err := app.blacklist.Decide("10.100.1.1")
	require.NoError(t, err)
	assert.False(t, allowed.IsBlocked(), "event replaced the fetched blacklist")

	stop()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	require.NoError(t, app.Close())

	// the replacement from the event stream was persisted
	store, repo, err := buildRepositories(cfg, &clock.RealClock{})
	require.NoError(t, err)
	defer store.Close()
	assert.Equal(t, domain.NewBlacklist(digests("*.example")).Hashes(), repo.Current().Hashes())
}

func TestApplication_Run_FetchFailureKeepsSnapshot(t *testing.T) {
	cfg := testConfig(t, "10.1.2.3")
	seedSnapshot(t, cfg, "10.*")
	dialer := startServer(t, &stockpileServer{
		blacklistErr: status.Error(codes.Internal, "boom"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	app, err := buildApplication(ctx, cfg, dialer)
	require.NoError(t, err)
	defer app.Close()

	// the server ends the stream right away
	require.NoError(t, app.Run(ctx))

	assert.Equal(t, 1, app.blacklist.Current().Len())
	ok, err := app.admission.Admit("10.1.2.3")
	require.NoError(t, err)
	assert.False(t, ok)
}
