package inmemory

import (
	"context"

	"github.com/tradelane-network/tradelane-daemon/internal/core/domain"
)

type quoteRepositoryImpl struct {
	store *storage
}

func newQuoteRepositoryImpl(store *storage) domain.QuoteRepository {
	return &quoteRepositoryImpl{store}
}

func (r *quoteRepositoryImpl) AddQuote(
	ctx context.Context, quote *domain.Quote,
) error {
	if !inTx(ctx) {
		r.store.locker.Lock()
		defer r.store.locker.Unlock()
	}

	r.store.quotes[quote.Id] = *quote
	return nil
}

func (r *quoteRepositoryImpl) GetQuote(
	ctx context.Context, quoteId string,
) (*domain.Quote, error) {
	if !inTx(ctx) {
		r.store.locker.Lock()
		defer r.store.locker.Unlock()
	}

	return r.getQuote(quoteId)
}

func (r *quoteRepositoryImpl) GetQuotesForTrade(
	ctx context.Context, tradeId string,
) ([]*domain.Quote, error) {
	if !inTx(ctx) {
		r.store.locker.Lock()
		defer r.store.locker.Unlock()
	}

	quotes := make([]*domain.Quote, 0)
	for _, q := range r.store.quotes {
		if q.TradeId == tradeId {
			quote := q
			quotes = append(quotes, &quote)
		}
	}
	return quotes, nil
}

func (r *quoteRepositoryImpl) UpdateQuote(
	ctx context.Context,
	quoteId string,
	updateFn func(q *domain.Quote) (*domain.Quote, error),
) error {
	if !inTx(ctx) {
		r.store.locker.Lock()
		defer r.store.locker.Unlock()
	}

	currentQuote, err := r.getQuote(quoteId)
	if err != nil {
		return err
	}

	updatedQuote, err := updateFn(currentQuote)
	if err != nil {
		return err
	}

	r.store.quotes[quoteId] = *updatedQuote
	return nil
}

func (r *quoteRepositoryImpl) getQuote(quoteId string) (*domain.Quote, error) {
	q, ok := r.store.quotes[quoteId]
	if !ok {
		return nil, domain.ErrQuoteNotFound
	}
	quote := q
	return &quote, nil
}
