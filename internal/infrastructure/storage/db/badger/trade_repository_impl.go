package dbbadger

import (
	"context"

	"github.com/timshannon/badgerhold/v4"
	"github.com/tradelane-network/tradelane-daemon/internal/core/domain"
)

type tradeRepositoryImpl struct {
	db *repoManager
}

func newTradeRepositoryImpl(db *repoManager) domain.TradeRepository {
	return tradeRepositoryImpl{db}
}

func (t tradeRepositoryImpl) AddTrade(
	ctx context.Context, trade *domain.Trade,
) error {
	return t.insertTrade(ctx, *trade)
}

func (t tradeRepositoryImpl) GetTrade(
	ctx context.Context, tradeId string,
) (*domain.Trade, error) {
	return t.getTrade(ctx, tradeId)
}

func (t tradeRepositoryImpl) GetAllTrades(
	ctx context.Context,
) ([]*domain.Trade, error) {
	return t.findTrades(ctx, nil)
}

func (t tradeRepositoryImpl) GetTradesForParty(
	ctx context.Context, partyId string,
) ([]*domain.Trade, error) {
	query := badgerhold.Where("BuyerId").Eq(partyId).
		Or(badgerhold.Where("SellerId").Eq(partyId))
	return t.findTrades(ctx, query)
}

func (t tradeRepositoryImpl) UpdateTrade(
	ctx context.Context,
	tradeId string,
	updateFn func(t *domain.Trade) (*domain.Trade, error),
) error {
	currentTrade, err := t.getTrade(ctx, tradeId)
	if err != nil {
		return err
	}

	updatedTrade, err := updateFn(currentTrade)
	if err != nil {
		return err
	}

	return t.updateTrade(ctx, updatedTrade.Id, *updatedTrade)
}

func (t tradeRepositoryImpl) findTrades(
	ctx context.Context, query *badgerhold.Query,
) ([]*domain.Trade, error) {
	var trades []domain.Trade
	var err error
	if tx, ok := txFromContext(ctx); ok {
		err = t.db.store.TxFind(tx, &trades, query)
	} else {
		err = t.db.store.Find(&trades, query)
	}
	if err != nil {
		return nil, err
	}

	list := make([]*domain.Trade, 0, len(trades))
	for i := range trades {
		list = append(list, &trades[i])
	}
	return list, nil
}

func (t tradeRepositoryImpl) getTrade(
	ctx context.Context, tradeId string,
) (*domain.Trade, error) {
	var trade domain.Trade
	var err error
	if tx, ok := txFromContext(ctx); ok {
		err = t.db.store.TxGet(tx, tradeId, &trade)
	} else {
		err = t.db.store.Get(tradeId, &trade)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrTradeNotFound
		}
		return nil, err
	}

	return &trade, nil
}

func (t tradeRepositoryImpl) updateTrade(
	ctx context.Context, tradeId string, trade domain.Trade,
) error {
	if tx, ok := txFromContext(ctx); ok {
		return t.db.store.TxUpdate(tx, tradeId, trade)
	}
	return t.db.store.Update(tradeId, trade)
}

func (t tradeRepositoryImpl) insertTrade(
	ctx context.Context, trade domain.Trade,
) error {
	if tx, ok := txFromContext(ctx); ok {
		return t.db.store.TxInsert(tx, trade.Id, &trade)
	}
	return t.db.store.Insert(trade.Id, &trade)
}
