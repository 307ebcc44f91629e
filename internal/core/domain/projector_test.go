package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tradelane-network/tradelane-daemon/internal/core/domain"
)

func TestProject(t *testing.T) {
	trade := domain.NewRFQTrade(
		"buyer-1", "seller-1", decimal.NewFromInt(5000), "EUR",
		domain.RFQDetails{ProductRef: "shea-butter-25kg", Quantity: 100},
	)
	escrow := domain.NewEscrowAccount(trade.Id, domain.DefaultMilestoneSchedule())

	t.Run("advance_on_passing_guards", func(t *testing.T) {
		p := domain.Project(trade, escrow, domain.GuardPass)
		require.Equal(t, 0, p.CurrentStageIndex)
		require.False(t, p.IsTerminal)
		require.Equal(t, domain.StatusQuoted, p.NextAction.TargetStatus)
	})

	t.Run("failing_guard_hint_wins", func(t *testing.T) {
		guard := domain.GuardResult{
			ReasonCode:      domain.ReasonFundingRequired,
			RequiredActions: []string{"fund the escrow account with the full trade amount"},
		}
		p := domain.Project(trade, escrow, guard)
		require.Equal(t, "fund the escrow account with the full trade amount", p.NextAction.Title)
		require.Empty(t, p.NextAction.TargetStatus)
	})

	t.Run("disputed_asks_for_resolution", func(t *testing.T) {
		disputed := *trade
		disputed.Status = domain.StatusDisputed
		p := domain.Project(&disputed, escrow, domain.GuardPass)
		require.Equal(t, domain.StatusDisputedResolved, p.NextAction.TargetStatus)
		require.Equal(t, -1, p.CurrentStageIndex)
	})

	t.Run("terminal_has_no_action", func(t *testing.T) {
		settled := *trade
		settled.Status = domain.StatusSettled
		p := domain.Project(&settled, escrow, domain.GuardPass)
		require.True(t, p.IsTerminal)
		require.Empty(t, p.NextAction.TargetStatus)
	})
}
