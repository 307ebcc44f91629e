package inmemory

import (
	"context"

	"github.com/tradelane-network/tradelane-daemon/internal/core/domain"
)

type eventRepositoryImpl struct {
	store *storage
}

func newEventRepositoryImpl(store *storage) domain.EventRepository {
	return &eventRepositoryImpl{store}
}

func (r *eventRepositoryImpl) AppendEvent(
	ctx context.Context, event *domain.TransitionEvent,
) error {
	if !inTx(ctx) {
		r.store.locker.Lock()
		defer r.store.locker.Unlock()
	}

	event.Sequence = uint64(len(r.store.events[event.TradeId])) + 1
	r.store.events[event.TradeId] = append(r.store.events[event.TradeId], *event)
	return nil
}

func (r *eventRepositoryImpl) GetEventsForTrade(
	ctx context.Context, tradeId string, limit int,
) ([]*domain.TransitionEvent, error) {
	if !inTx(ctx) {
		r.store.locker.Lock()
		defer r.store.locker.Unlock()
	}

	stored := r.store.events[tradeId]
	n := len(stored)
	if limit <= 0 || limit > n {
		limit = n
	}

	// stored is insertion-ordered, the tail is returned most-recent-first.
	events := make([]*domain.TransitionEvent, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		event := stored[i]
		events = append(events, &event)
	}
	return events, nil
}
