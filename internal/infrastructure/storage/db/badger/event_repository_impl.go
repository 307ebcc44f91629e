package dbbadger

import (
	"context"

	"github.com/timshannon/badgerhold/v4"
	"github.com/tradelane-network/tradelane-daemon/internal/core/domain"
)

type eventRepositoryImpl struct {
	db *repoManager
}

func newEventRepositoryImpl(db *repoManager) domain.EventRepository {
	return eventRepositoryImpl{db}
}

// AppendEvent assigns the next per-trade sequence number and inserts the
// event. The count and the insert run in the same transaction, so two
// concurrent appends for one trade cannot claim the same sequence.
func (e eventRepositoryImpl) AppendEvent(
	ctx context.Context, event *domain.TransitionEvent,
) error {
	query := badgerhold.Where("TradeId").Eq(event.TradeId)

	if tx, ok := txFromContext(ctx); ok {
		count, err := e.db.store.TxCount(tx, domain.TransitionEvent{}, query)
		if err != nil {
			return err
		}
		event.Sequence = uint64(count) + 1
		return e.db.store.TxInsert(tx, event.Id, event)
	}

	count, err := e.db.store.Count(domain.TransitionEvent{}, query)
	if err != nil {
		return err
	}
	event.Sequence = uint64(count) + 1
	return e.db.store.Insert(event.Id, event)
}

func (e eventRepositoryImpl) GetEventsForTrade(
	ctx context.Context, tradeId string, limit int,
) ([]*domain.TransitionEvent, error) {
	query := badgerhold.Where("TradeId").Eq(tradeId).
		SortBy("Sequence").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var events []domain.TransitionEvent
	var err error
	if tx, ok := txFromContext(ctx); ok {
		err = e.db.store.TxFind(tx, &events, query)
	} else {
		err = e.db.store.Find(&events, query)
	}
	if err != nil {
		return nil, err
	}

	list := make([]*domain.TransitionEvent, 0, len(events))
	for i := range events {
		list = append(list, &events[i])
	}
	return list, nil
}
