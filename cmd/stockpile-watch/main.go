package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"google.golang.org/grpc"

	"github.com/dotstart/stockpile-go/internal/stockpile/common/clock"
	"github.com/dotstart/stockpile-go/internal/stockpile/common/log"
	"github.com/dotstart/stockpile-go/internal/stockpile/config"
	"github.com/dotstart/stockpile-go/internal/stockpile/domain"
	"github.com/dotstart/stockpile-go/internal/stockpile/gateways/transport"
	"github.com/dotstart/stockpile-go/internal/stockpile/repos/blacklist"
	"github.com/dotstart/stockpile-go/internal/stockpile/repos/blacklist/bloom"
	"github.com/dotstart/stockpile-go/internal/stockpile/repos/blacklist/bolt"
	"github.com/dotstart/stockpile-go/internal/stockpile/repos/blacklist/lru"
	"github.com/dotstart/stockpile-go/internal/stockpile/services/admission"
	"github.com/dotstart/stockpile-go/internal/stockpile/services/watcher"
)

const (
	// Version information
	version = "0.1.0-dev"
	appName = "stockpile-watch"

	defaultFetchTimeout = 10 * time.Second
)

// Application holds the wired client components.
type Application struct {
	config    *config.AppConfig
	client    *transport.Client
	store     blacklist.Store
	blacklist blacklist.Repository
	admission *admission.Service
	watcher   *watcher.Watcher
}

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	err = log.Configure(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Info(map[string]any{
		"version":              version,
		"env":                  cfg.Env,
		"log_level":            cfg.LogLevel,
		"server":               cfg.Server,
		"blacklist_db":         cfg.BlacklistDB,
		"blacklist_cache_size": cfg.BlacklistCacheSize,
		"check":                cfg.Check,
	}, "Starting "+appName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info(map[string]any{"signal": sig.String()}, "Shutdown signal received")
		cancel()
	}()

	app, err := buildApplication(ctx, cfg)
	if err != nil {
		log.Fatal(map[string]any{"error": err}, "Failed to build application")
	}

	runErr := app.Run(ctx)
	if err := app.Close(); err != nil {
		log.Warn(map[string]any{"error": err}, "Error during shutdown")
	}
	if runErr != nil {
		log.Fatal(map[string]any{"error": runErr}, "Watcher failed")
	}

	log.Info(nil, appName+" stopped gracefully")
}

// buildApplication constructs all components and wires them together.
// Extra dial options are passed to the transport (tests use them to supply
// an in-memory dialer).
func buildApplication(ctx context.Context, cfg *config.AppConfig, opts ...grpc.DialOption) (*Application, error) {
	logger := log.GetLogger()

	store, repo, err := buildRepositories(cfg, &clock.RealClock{})
	if err != nil {
		return nil, fmt.Errorf("failed to build repositories: %w", err)
	}

	client, err := transport.Dial(ctx, cfg.Server, time.Duration(cfg.DialTimeout)*time.Second, opts...)
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("failed to connect to %s: %w", cfg.Server, err), store.Close())
	}

	log.Info(map[string]any{
		"server":  cfg.Server,
		"timeout": cfg.DialTimeout,
	}, "Connected to Stockpile server")

	return &Application{
		config:    cfg,
		client:    client,
		store:     store,
		blacklist: repo,
		admission: admission.New(admission.Options{Decider: repo, Logger: logger}),
		watcher: watcher.New(watcher.Options{
			Blacklist: repo,
			Handler:   logEvent(logger),
			Logger:    logger,
		}),
	}, nil
}

// buildRepositories opens the snapshot store and restores the last known
// blacklist from it.
func buildRepositories(cfg *config.AppConfig, clk clock.Clock) (blacklist.Store, blacklist.Repository, error) {
	store, err := bolt.New(cfg.BlacklistDB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open blacklist store: %w", err)
	}

	cache, err := lru.New(cfg.BlacklistCacheSize)
	if err != nil {
		return nil, nil, multierr.Append(fmt.Errorf("failed to create decision cache: %w", err), store.Close())
	}

	repo := blacklist.NewRepository(store, cache, bloom.NewFactory(), cfg.BlacklistFPRate, clk)

	restored, err := repo.Load()
	if err != nil {
		return nil, nil, multierr.Append(fmt.Errorf("failed to restore blacklist: %w", err), store.Close())
	}

	hashes := repo.Current().Len()
	bits, funcs := bloom.NewSizer().Size(uint64(hashes), cfg.BlacklistFPRate)
	log.Info(map[string]any{
		"path":         cfg.BlacklistDB,
		"restored":     restored,
		"hashes":       hashes,
		"cache_size":   cfg.BlacklistCacheSize,
		"bloom_bits":   bits,
		"bloom_hashes": funcs,
	}, "Blacklist repository initialized")

	return store, repo, nil
}

func logEvent(logger log.Logger) watcher.Handler {
	return func(ev domain.Event) {
		logger.Info(map[string]any{
			"kind":  ev.Kind().String(),
			"event": ev.String(),
		}, "Cache event")
	}
}

// Run refreshes the blacklist, checks the configured addresses and watches
// the event stream until ctx is cancelled or the server closes the stream.
func (app *Application) Run(ctx context.Context) error {
	app.refreshBlacklist(ctx)

	if len(app.config.Check) > 0 {
		blocked, err := app.admission.Filter(app.config.Check)
		if err != nil {
			log.Warn(map[string]any{"error": err}, "Some configured addresses could not be checked")
		}
		log.Info(map[string]any{
			"checked": len(app.config.Check),
			"blocked": blocked,
		}, "Configured addresses checked")
	}

	stream, err := app.client.Events().Stream(ctx)
	if err != nil {
		return fmt.Errorf("failed to open event stream: %w", err)
	}

	log.Info(nil, "Watching cache events")

	if err := app.watcher.Run(ctx, stream); err != nil {
		return fmt.Errorf("event stream failed: %w", err)
	}

	stats := app.watcher.Stats()
	log.Info(map[string]any{
		"received": stats.Received,
		"skipped":  stats.Skipped,
		"replaced": stats.Blacklist,
	}, "Watcher stopped")
	return nil
}

// refreshBlacklist replaces the restored snapshot with the server's current
// blacklist. On failure the restored snapshot stays in effect.
func (app *Application) refreshBlacklist(ctx context.Context) {
	fetchCtx, cancel := context.WithTimeout(ctx, defaultFetchTimeout)
	defer cancel()

	bl, err := app.client.Server().GetBlacklist(fetchCtx)
	if err != nil {
		log.Warn(map[string]any{
			"error":  err,
			"hashes": app.blacklist.Current().Len(),
		}, "Failed to fetch blacklist, using restored snapshot")
		return
	}

	if err := app.blacklist.Replace(bl); err != nil {
		log.Warn(map[string]any{"error": err}, "Blacklist replaced but not persisted")
		return
	}
	log.Info(map[string]any{"hashes": bl.Len()}, "Blacklist fetched")
}

// Close releases the server connection and the snapshot store.
func (app *Application) Close() error {
	return multierr.Combine(app.client.Close(), app.store.Close())
}
