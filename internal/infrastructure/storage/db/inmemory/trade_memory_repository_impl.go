package inmemory

import (
	"context"

	"github.com/tradelane-network/tradelane-daemon/internal/core/domain"
)

type tradeRepositoryImpl struct {
	store *storage
}

func newTradeRepositoryImpl(store *storage) domain.TradeRepository {
	return &tradeRepositoryImpl{store}
}

func (r *tradeRepositoryImpl) AddTrade(
	ctx context.Context, trade *domain.Trade,
) error {
	if !inTx(ctx) {
		r.store.locker.Lock()
		defer r.store.locker.Unlock()
	}

	r.store.trades[trade.Id] = cloneTrade(*trade)
	return nil
}

func (r *tradeRepositoryImpl) GetTrade(
	ctx context.Context, tradeId string,
) (*domain.Trade, error) {
	if !inTx(ctx) {
		r.store.locker.Lock()
		defer r.store.locker.Unlock()
	}

	return r.getTrade(tradeId)
}

func (r *tradeRepositoryImpl) GetAllTrades(
	ctx context.Context,
) ([]*domain.Trade, error) {
	if !inTx(ctx) {
		r.store.locker.Lock()
		defer r.store.locker.Unlock()
	}

	trades := make([]*domain.Trade, 0, len(r.store.trades))
	for _, t := range r.store.trades {
		trade := cloneTrade(t)
		trades = append(trades, &trade)
	}
	return trades, nil
}

func (r *tradeRepositoryImpl) GetTradesForParty(
	ctx context.Context, partyId string,
) ([]*domain.Trade, error) {
	if !inTx(ctx) {
		r.store.locker.Lock()
		defer r.store.locker.Unlock()
	}

	trades := make([]*domain.Trade, 0)
	for _, t := range r.store.trades {
		if t.BuyerId == partyId || t.SellerId == partyId {
			trade := cloneTrade(t)
			trades = append(trades, &trade)
		}
	}
	return trades, nil
}

func (r *tradeRepositoryImpl) UpdateTrade(
	ctx context.Context,
	tradeId string,
	updateFn func(t *domain.Trade) (*domain.Trade, error),
) error {
	if !inTx(ctx) {
		r.store.locker.Lock()
		defer r.store.locker.Unlock()
	}

	currentTrade, err := r.getTrade(tradeId)
	if err != nil {
		return err
	}

	updatedTrade, err := updateFn(currentTrade)
	if err != nil {
		return err
	}

	r.store.trades[tradeId] = cloneTrade(*updatedTrade)
	return nil
}

func (r *tradeRepositoryImpl) getTrade(tradeId string) (*domain.Trade, error) {
	t, ok := r.store.trades[tradeId]
	if !ok {
		return nil, domain.ErrTradeNotFound
	}
	trade := cloneTrade(t)
	return &trade, nil
}
