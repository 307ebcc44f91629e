package dbbadger

import (
	"context"

	"github.com/timshannon/badgerhold/v4"
	"github.com/tradelane-network/tradelane-daemon/internal/core/domain"
)

type escrowRepositoryImpl struct {
	db *repoManager
}

func newEscrowRepositoryImpl(db *repoManager) domain.EscrowRepository {
	return escrowRepositoryImpl{db}
}

func (e escrowRepositoryImpl) AddEscrowAccount(
	ctx context.Context, account *domain.EscrowAccount,
) error {
	if tx, ok := txFromContext(ctx); ok {
		return e.db.store.TxInsert(tx, account.TradeId, account)
	}
	return e.db.store.Insert(account.TradeId, account)
}

func (e escrowRepositoryImpl) GetEscrowAccount(
	ctx context.Context, tradeId string,
) (*domain.EscrowAccount, error) {
	var account domain.EscrowAccount
	var err error
	if tx, ok := txFromContext(ctx); ok {
		err = e.db.store.TxGet(tx, tradeId, &account)
	} else {
		err = e.db.store.Get(tradeId, &account)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrEscrowNotFound
		}
		return nil, err
	}

	return &account, nil
}

func (e escrowRepositoryImpl) UpdateEscrowAccount(
	ctx context.Context,
	tradeId string,
	updateFn func(a *domain.EscrowAccount) (*domain.EscrowAccount, error),
) error {
	currentAccount, err := e.GetEscrowAccount(ctx, tradeId)
	if err != nil {
		return err
	}

	updatedAccount, err := updateFn(currentAccount)
	if err != nil {
		return err
	}

	if tx, ok := txFromContext(ctx); ok {
		return e.db.store.TxUpdate(tx, tradeId, *updatedAccount)
	}
	return e.db.store.Update(tradeId, *updatedAccount)
}
