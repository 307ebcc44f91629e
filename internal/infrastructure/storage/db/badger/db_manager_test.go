package dbbadger_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tradelane-network/tradelane-daemon/internal/core/domain"
	"github.com/tradelane-network/tradelane-daemon/internal/core/ports"
	dbbadger "github.com/tradelane-network/tradelane-daemon/internal/infrastructure/storage/db/badger"
)

var ctx = context.Background()

func newRepoManager(t *testing.T) ports.RepoManager {
	t.Helper()

	repoManager, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)
	t.Cleanup(repoManager.Close)
	return repoManager
}

func newTestTrade() *domain.Trade {
	return domain.NewRFQTrade(
		"buyer-1", "seller-1", decimal.NewFromInt(5000), "EUR",
		domain.RFQDetails{ProductRef: "shea-butter-25kg", Quantity: 100},
	)
}

func moveTo(target domain.Status) func(*domain.Trade) (*domain.Trade, error) {
	return func(tr *domain.Trade) (*domain.Trade, error) {
		if err := tr.MoveTo(target); err != nil {
			return nil, err
		}
		return tr, nil
	}
}

func TestTradeRepository(t *testing.T) {
	repoManager := newRepoManager(t)
	repo := repoManager.TradeRepository()

	trade := newTestTrade()
	require.NoError(t, repo.AddTrade(ctx, trade))

	_, err := repo.GetTrade(ctx, "unknown")
	require.ErrorIs(t, err, domain.ErrTradeNotFound)

	found, err := repo.GetTrade(ctx, trade.Id)
	require.NoError(t, err)
	require.Equal(t, trade.Id, found.Id)
	require.Equal(t, domain.StatusRFQOpen, found.Status)

	_, err = repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, repo.UpdateTrade(ctx, trade.Id, moveTo(domain.StatusQuoted))
		},
	)
	require.NoError(t, err)

	updated, err := repo.GetTrade(ctx, trade.Id)
	require.NoError(t, err)
	require.Equal(t, domain.StatusQuoted, updated.Status)
	require.Equal(t, uint64(1), updated.Version)
}

func TestRunTransactionRollsBackOnError(t *testing.T) {
	repoManager := newRepoManager(t)
	repo := repoManager.TradeRepository()

	trade := newTestTrade()
	require.NoError(t, repo.AddTrade(ctx, trade))

	_, err := repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			if err := repo.UpdateTrade(
				ctx, trade.Id, moveTo(domain.StatusQuoted),
			); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("something broke after the write")
		},
	)
	require.Error(t, err)

	// The discarded transaction left the stored trade untouched.
	stored, err := repo.GetTrade(ctx, trade.Id)
	require.NoError(t, err)
	require.Equal(t, domain.StatusRFQOpen, stored.Status)
	require.Equal(t, uint64(0), stored.Version)
}

func TestRunTransactionSurfacesCommitConflict(t *testing.T) {
	repoManager := newRepoManager(t)
	repo := repoManager.TradeRepository()

	trade := newTestTrade()
	require.NoError(t, repo.AddTrade(ctx, trade))

	// The outer transaction reads and writes the trade while a second
	// transaction commits a write to the same key in between. Badger
	// rejects the outer commit, which must surface as a version conflict
	// the transition engine knows how to retry.
	_, err := repoManager.RunTransaction(
		ctx, false, func(txCtx context.Context) (interface{}, error) {
			if _, err := repo.GetTrade(txCtx, trade.Id); err != nil {
				return nil, err
			}

			if _, err := repoManager.RunTransaction(
				ctx, false, func(innerCtx context.Context) (interface{}, error) {
					return nil, repo.UpdateTrade(
						innerCtx, trade.Id, moveTo(domain.StatusQuoted),
					)
				},
			); err != nil {
				return nil, err
			}

			return nil, repo.UpdateTrade(txCtx, trade.Id, moveTo(domain.StatusQuoted))
		},
	)
	require.ErrorIs(t, err, domain.ErrTradeVersionConflict)

	// Only the inner commit took effect.
	stored, err := repo.GetTrade(ctx, trade.Id)
	require.NoError(t, err)
	require.Equal(t, domain.StatusQuoted, stored.Status)
	require.Equal(t, uint64(1), stored.Version)
}

func TestEventSequenceAssignment(t *testing.T) {
	repoManager := newRepoManager(t)
	repo := repoManager.EventRepository()

	appendEvent := func(event *domain.TransitionEvent) {
		t.Helper()
		_, err := repoManager.RunTransaction(
			ctx, false, func(ctx context.Context) (interface{}, error) {
				return nil, repo.AppendEvent(ctx, event)
			},
		)
		require.NoError(t, err)
	}

	first := domain.NewSuccessEvent(
		"trade-1", "", domain.StatusRFQOpen, "buyer-1",
	)
	second := domain.NewSuccessEvent(
		"trade-1", domain.StatusRFQOpen, domain.StatusQuoted, "seller-1",
	)
	third := domain.NewBlockedEvent(
		"trade-1", domain.StatusQuoted, domain.StatusContracted,
		domain.ReasonQuoteRequired, "buyer-1",
	)
	other := domain.NewSuccessEvent(
		"trade-2", "", domain.StatusContracted, "buyer-2",
	)

	appendEvent(first)
	appendEvent(second)
	appendEvent(other)
	appendEvent(third)

	// Sequences are monotonic per trade and unaffected by other trades.
	require.Equal(t, uint64(1), first.Sequence)
	require.Equal(t, uint64(2), second.Sequence)
	require.Equal(t, uint64(3), third.Sequence)
	require.Equal(t, uint64(1), other.Sequence)

	tail, err := repo.GetEventsForTrade(ctx, "trade-1", 0)
	require.NoError(t, err)
	require.Len(t, tail, 3)
	require.Equal(t, third.Id, tail[0].Id)
	require.Equal(t, first.Id, tail[2].Id)

	limited, err := repo.GetEventsForTrade(ctx, "trade-1", 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	require.Equal(t, third.Id, limited[0].Id)
}
