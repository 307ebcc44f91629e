package domain

import "context"

// QuoteRepository is the abstraction for any kind of database intended to
// persist Quotes.
type QuoteRepository interface {
	// AddQuote persists a newly submitted quote.
	AddQuote(ctx context.Context, quote *Quote) error
	// GetQuote returns the quote with the given id, or ErrQuoteNotFound.
	GetQuote(ctx context.Context, quoteId string) (*Quote, error)
	// GetQuotesForTrade returns all quotes submitted against a trade.
	GetQuotesForTrade(ctx context.Context, tradeId string) ([]*Quote, error)
	// UpdateQuote commits changes to the same quote in a transactional way.
	UpdateQuote(
		ctx context.Context,
		quoteId string,
		updateFn func(q *Quote) (*Quote, error),
	) error
}
