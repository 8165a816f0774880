// Package watcher consumes the server's cache event stream.
package watcher

import (
	"context"
	"errors"
	"io"
	"sync/atomic"

	"github.com/dotstart/stockpile-go/internal/stockpile/common/log"
	"github.com/dotstart/stockpile-go/internal/stockpile/domain"
)

type Watcher struct {
	blacklist BlacklistReplacer
	handler   Handler
	logger    log.Logger

	received atomic.Uint64
	skipped  atomic.Uint64
	replaced atomic.Uint64
}

type Options struct {
	Blacklist BlacklistReplacer
	Handler   Handler
	Logger    log.Logger
}

// Stats counts processed events.
type Stats struct {
	Received  uint64
	Skipped   uint64
	Blacklist uint64 // blacklist replacements applied
}

func New(opts Options) *Watcher {
	logger := opts.Logger
	if logger == nil {
		logger = log.GetLogger()
	}
	logger = logger.With(map[string]any{"component": "watcher"})
	return &Watcher{blacklist: opts.Blacklist, handler: opts.Handler, logger: logger}
}

// Run consumes stream until it ends. Invalid events are logged and skipped.
// The end of the stream and cancellation of ctx return nil; any other
// stream failure is returned.
func (w *Watcher) Run(ctx context.Context, stream Stream) error {
	for {
		ev, err := stream.Recv()
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidEvent):
				w.skipped.Add(1)
				w.logger.Warn(map[string]any{"error": err}, "skipping invalid event")
				continue
			case errors.Is(err, io.EOF):
				w.logger.Info(nil, "event stream closed by server")
				return nil
			case ctx.Err() != nil:
				return nil
			}
			return err
		}
		w.received.Add(1)
		w.dispatch(ev)
	}
}

func (w *Watcher) dispatch(ev domain.Event) {
	w.logger.Debug(map[string]any{"event": ev.String()}, "event received")

	if bl, ok := ev.Blacklist(); ok && w.blacklist != nil {
		if err := w.blacklist.Replace(bl); err != nil {
			w.logger.Error(map[string]any{"error": err, "hashes": bl.Len()}, "failed to replace blacklist")
		} else {
			w.replaced.Add(1)
			w.logger.Info(map[string]any{"hashes": bl.Len()}, "blacklist replaced")
		}
	}

	if w.handler != nil {
		w.handler(ev)
	}
}

func (w *Watcher) Stats() Stats {
	return Stats{
		Received:  w.received.Load(),
		Skipped:   w.skipped.Load(),
		Blacklist: w.replaced.Load(),
	}
}
