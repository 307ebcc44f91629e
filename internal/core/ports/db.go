package ports

import (
	"context"

	"github.com/tradelane-network/tradelane-daemon/internal/core/domain"
)

// RepoManager gives access to the repositories of the kernel and to the
// transactional boundary that makes a transition's effects atomic.
type RepoManager interface {
	TradeRepository() domain.TradeRepository
	QuoteRepository() domain.QuoteRepository
	EscrowRepository() domain.EscrowRepository
	EventRepository() domain.EventRepository

	// RunTransaction runs handler within a single storage transaction: all
	// repository writes performed through the handler's context either
	// commit together or are discarded together.
	RunTransaction(
		ctx context.Context,
		readOnly bool,
		handler func(ctx context.Context) (interface{}, error),
	) (interface{}, error)

	Close()
}

// Transaction defines the methods to commit or discard a database
// transaction.
type Transaction interface {
	Commit() error
	Discard()
}
