package custodian

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/tradelane-network/tradelane-daemon/internal/core/ports"
)

type holding struct {
	held       decimal.Decimal
	released   decimal.Decimal
	milestones map[string]struct{}
}

// InMemoryCustodian is an EscrowCustodian that only tracks balances in
// memory. It enforces the same monetary rules a real custodian would, so
// dev mode and tests exercise realistic failures.
type InMemoryCustodian struct {
	lock     sync.Mutex
	holdings map[string]*holding
}

func NewInMemoryCustodian() *InMemoryCustodian {
	return &InMemoryCustodian{holdings: make(map[string]*holding)}
}

func (c *InMemoryCustodian) Hold(
	_ context.Context, tradeId string, amount decimal.Decimal,
) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if _, ok := c.holdings[tradeId]; ok {
		return fmt.Errorf("funds already held for trade %s", tradeId)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("hold amount must be positive")
	}
	c.holdings[tradeId] = &holding{
		held:       amount,
		milestones: make(map[string]struct{}),
	}
	return nil
}

// Release moves funds out of the hold for one milestone. A milestone pays
// out at most once: releasing it again is a no-op, so a caller retrying
// after a storage conflict, or the loser of a racing transition, cannot
// drain the hold twice.
func (c *InMemoryCustodian) Release(
	_ context.Context, tradeId, milestoneId string, amount decimal.Decimal,
) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	h, ok := c.holdings[tradeId]
	if !ok {
		return fmt.Errorf("no funds held for trade %s", tradeId)
	}
	if _, done := h.milestones[milestoneId]; done {
		return nil
	}
	if h.released.Add(amount).GreaterThan(h.held) {
		return fmt.Errorf("release exceeds held funds for trade %s", tradeId)
	}
	h.milestones[milestoneId] = struct{}{}
	h.released = h.released.Add(amount)
	return nil
}

// ReleasedFunds returns the total amount released for a trade so far.
func (c *InMemoryCustodian) ReleasedFunds(tradeId string) decimal.Decimal {
	c.lock.Lock()
	defer c.lock.Unlock()

	if h, ok := c.holdings[tradeId]; ok {
		return h.released
	}
	return decimal.Zero
}

var _ ports.EscrowCustodian = (*InMemoryCustodian)(nil)
