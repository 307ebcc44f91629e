package domain

import "context"

// EscrowRepository is the abstraction for any kind of database intended to
// persist EscrowAccounts, keyed by trade id.
type EscrowRepository interface {
	// AddEscrowAccount persists the account created along with its trade.
	AddEscrowAccount(ctx context.Context, account *EscrowAccount) error
	// GetEscrowAccount returns the account of the given trade, or
	// ErrEscrowNotFound.
	GetEscrowAccount(ctx context.Context, tradeId string) (*EscrowAccount, error)
	// UpdateEscrowAccount commits changes to the same account in a
	// transactional way.
	UpdateEscrowAccount(
		ctx context.Context,
		tradeId string,
		updateFn func(a *EscrowAccount) (*EscrowAccount, error),
	) error
}
