package dbbadger

import (
	"context"

	"github.com/timshannon/badgerhold/v4"
	"github.com/tradelane-network/tradelane-daemon/internal/core/domain"
)

type quoteRepositoryImpl struct {
	db *repoManager
}

func newQuoteRepositoryImpl(db *repoManager) domain.QuoteRepository {
	return quoteRepositoryImpl{db}
}

func (q quoteRepositoryImpl) AddQuote(
	ctx context.Context, quote *domain.Quote,
) error {
	if tx, ok := txFromContext(ctx); ok {
		return q.db.store.TxInsert(tx, quote.Id, quote)
	}
	return q.db.store.Insert(quote.Id, quote)
}

func (q quoteRepositoryImpl) GetQuote(
	ctx context.Context, quoteId string,
) (*domain.Quote, error) {
	var quote domain.Quote
	var err error
	if tx, ok := txFromContext(ctx); ok {
		err = q.db.store.TxGet(tx, quoteId, &quote)
	} else {
		err = q.db.store.Get(quoteId, &quote)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrQuoteNotFound
		}
		return nil, err
	}

	return &quote, nil
}

func (q quoteRepositoryImpl) GetQuotesForTrade(
	ctx context.Context, tradeId string,
) ([]*domain.Quote, error) {
	query := badgerhold.Where("TradeId").Eq(tradeId)

	var quotes []domain.Quote
	var err error
	if tx, ok := txFromContext(ctx); ok {
		err = q.db.store.TxFind(tx, &quotes, query)
	} else {
		err = q.db.store.Find(&quotes, query)
	}
	if err != nil {
		return nil, err
	}

	list := make([]*domain.Quote, 0, len(quotes))
	for i := range quotes {
		list = append(list, &quotes[i])
	}
	return list, nil
}

func (q quoteRepositoryImpl) UpdateQuote(
	ctx context.Context,
	quoteId string,
	updateFn func(q *domain.Quote) (*domain.Quote, error),
) error {
	currentQuote, err := q.GetQuote(ctx, quoteId)
	if err != nil {
		return err
	}

	updatedQuote, err := updateFn(currentQuote)
	if err != nil {
		return err
	}

	if tx, ok := txFromContext(ctx); ok {
		return q.db.store.TxUpdate(tx, quoteId, *updatedQuote)
	}
	return q.db.store.Update(quoteId, *updatedQuote)
}
