package inmemory

import (
	"context"

	"github.com/tradelane-network/tradelane-daemon/internal/core/domain"
)

type escrowRepositoryImpl struct {
	store *storage
}

func newEscrowRepositoryImpl(store *storage) domain.EscrowRepository {
	return &escrowRepositoryImpl{store}
}

func (r *escrowRepositoryImpl) AddEscrowAccount(
	ctx context.Context, account *domain.EscrowAccount,
) error {
	if !inTx(ctx) {
		r.store.locker.Lock()
		defer r.store.locker.Unlock()
	}

	r.store.escrows[account.TradeId] = cloneEscrow(*account)
	return nil
}

func (r *escrowRepositoryImpl) GetEscrowAccount(
	ctx context.Context, tradeId string,
) (*domain.EscrowAccount, error) {
	if !inTx(ctx) {
		r.store.locker.Lock()
		defer r.store.locker.Unlock()
	}

	return r.getEscrowAccount(tradeId)
}

func (r *escrowRepositoryImpl) UpdateEscrowAccount(
	ctx context.Context,
	tradeId string,
	updateFn func(a *domain.EscrowAccount) (*domain.EscrowAccount, error),
) error {
	if !inTx(ctx) {
		r.store.locker.Lock()
		defer r.store.locker.Unlock()
	}

	currentAccount, err := r.getEscrowAccount(tradeId)
	if err != nil {
		return err
	}

	updatedAccount, err := updateFn(currentAccount)
	if err != nil {
		return err
	}

	r.store.escrows[tradeId] = cloneEscrow(*updatedAccount)
	return nil
}

func (r *escrowRepositoryImpl) getEscrowAccount(
	tradeId string,
) (*domain.EscrowAccount, error) {
	a, ok := r.store.escrows[tradeId]
	if !ok {
		return nil, domain.ErrEscrowNotFound
	}
	account := cloneEscrow(a)
	return &account, nil
}
