package watcher

import "github.com/dotstart/stockpile-go/internal/stockpile/domain"

// Stream yields decoded events until it returns an error. Errors matching
// domain.ErrInvalidEvent concern a single event; io.EOF ends the stream.
type Stream interface {
	Recv() (domain.Event, error)
}

// BlacklistReplacer installs a new active blacklist.
type BlacklistReplacer interface {
	Replace(bl domain.Blacklist) error
}

// Handler receives every valid event after built-in processing.
type Handler func(ev domain.Event)
