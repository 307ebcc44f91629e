package inmemory

import (
	"context"
	"sync"

	"github.com/tradelane-network/tradelane-daemon/internal/core/domain"
	"github.com/tradelane-network/tradelane-daemon/internal/core/ports"
)

type ctxKey int

const txKey ctxKey = iota

// storage is the shared in-memory state of all repositories. Entities are
// stored by value and cloned on the way in and out, so a reader can never
// observe a half-applied mutation.
type storage struct {
	locker  sync.Mutex
	trades  map[string]domain.Trade
	quotes  map[string]domain.Quote
	escrows map[string]domain.EscrowAccount
	events  map[string][]domain.TransitionEvent
}

func (s *storage) snapshot() *storage {
	snap := &storage{
		trades:  make(map[string]domain.Trade, len(s.trades)),
		quotes:  make(map[string]domain.Quote, len(s.quotes)),
		escrows: make(map[string]domain.EscrowAccount, len(s.escrows)),
		events:  make(map[string][]domain.TransitionEvent, len(s.events)),
	}
	for k, v := range s.trades {
		snap.trades[k] = cloneTrade(v)
	}
	for k, v := range s.quotes {
		snap.quotes[k] = v
	}
	for k, v := range s.escrows {
		snap.escrows[k] = cloneEscrow(v)
	}
	for k, v := range s.events {
		snap.events[k] = append([]domain.TransitionEvent(nil), v...)
	}
	return snap
}

func (s *storage) restore(snap *storage) {
	s.trades = snap.trades
	s.quotes = snap.quotes
	s.escrows = snap.escrows
	s.events = snap.events
}

// RepoManager is an in-memory ports.RepoManager implementation, used by
// tests and by the daemon's inmemory db type.
type RepoManager struct {
	store *storage

	tradeRepository  domain.TradeRepository
	quoteRepository  domain.QuoteRepository
	escrowRepository domain.EscrowRepository
	eventRepository  domain.EventRepository
}

func NewRepoManager() ports.RepoManager {
	store := &storage{
		trades:  make(map[string]domain.Trade),
		quotes:  make(map[string]domain.Quote),
		escrows: make(map[string]domain.EscrowAccount),
		events:  make(map[string][]domain.TransitionEvent),
	}

	return &RepoManager{
		store:            store,
		tradeRepository:  newTradeRepositoryImpl(store),
		quoteRepository:  newQuoteRepositoryImpl(store),
		escrowRepository: newEscrowRepositoryImpl(store),
		eventRepository:  newEventRepositoryImpl(store),
	}
}

func (d *RepoManager) TradeRepository() domain.TradeRepository {
	return d.tradeRepository
}

func (d *RepoManager) QuoteRepository() domain.QuoteRepository {
	return d.quoteRepository
}

func (d *RepoManager) EscrowRepository() domain.EscrowRepository {
	return d.escrowRepository
}

func (d *RepoManager) EventRepository() domain.EventRepository {
	return d.eventRepository
}

// RunTransaction serializes writers behind the store lock and restores a
// snapshot of the whole store if the handler fails, so all effects apply
// together or not at all.
func (d *RepoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	d.store.locker.Lock()
	defer d.store.locker.Unlock()

	var snap *storage
	if !readOnly {
		snap = d.store.snapshot()
	}

	res, err := handler(context.WithValue(ctx, txKey, struct{}{}))
	if err != nil {
		if snap != nil {
			d.store.restore(snap)
		}
		return nil, err
	}
	return res, nil
}

func (d *RepoManager) Close() {}

func inTx(ctx context.Context) bool {
	return ctx.Value(txKey) != nil
}

func cloneTrade(t domain.Trade) domain.Trade {
	if t.Details.RFQ != nil {
		rfq := *t.Details.RFQ
		t.Details.RFQ = &rfq
	}
	if t.Details.DirectOrder != nil {
		do := *t.Details.DirectOrder
		t.Details.DirectOrder = &do
	}
	return t
}

func cloneEscrow(a domain.EscrowAccount) domain.EscrowAccount {
	a.ReleasedMilestones = append([]string(nil), a.ReleasedMilestones...)
	a.Schedule = append([]domain.Milestone(nil), a.Schedule...)
	return a
}
