package domain

import "context"

// TradeRepository is the abstraction for any kind of database intended to
// persist Trades.
type TradeRepository interface {
	// AddTrade persists a newly created trade.
	AddTrade(ctx context.Context, trade *Trade) error
	// GetTrade returns the trade with the given id, or ErrTradeNotFound.
	GetTrade(ctx context.Context, tradeId string) (*Trade, error)
	// GetAllTrades returns all the trades stored in the repository.
	GetAllTrades(ctx context.Context) ([]*Trade, error)
	// GetTradesForParty returns all trades where the given party is buyer
	// or seller.
	GetTradesForParty(ctx context.Context, partyId string) ([]*Trade, error)
	// UpdateTrade allows to commit multiple changes to the same trade in a
	// transactional way. The repository rejects the update with
	// ErrTradeVersionConflict if the stored version no longer matches the
	// one the update was computed from.
	UpdateTrade(
		ctx context.Context,
		tradeId string,
		updateFn func(t *Trade) (*Trade, error),
	) error
}
