package domain

import "context"

// EventRepository is the abstraction for the append-only audit ledger.
// Implementations assign the per-trade monotonic sequence number inside the
// storage transaction; stored events are never modified or deleted.
type EventRepository interface {
	// AppendEvent assigns the event's sequence number and persists it.
	AppendEvent(ctx context.Context, event *TransitionEvent) error
	// GetEventsForTrade returns up to limit events of a trade ordered
	// most-recent-first. A non-positive limit returns all of them.
	GetEventsForTrade(
		ctx context.Context, tradeId string, limit int,
	) ([]*TransitionEvent, error)
}
