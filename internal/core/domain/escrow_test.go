package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tradelane-network/tradelane-daemon/internal/core/domain"
)

func newFundedEscrow(t *testing.T, amount int64) *domain.EscrowAccount {
	t.Helper()
	a := domain.NewEscrowAccount(
		uuid.New().String(), domain.DefaultMilestoneSchedule(),
	)
	require.NoError(t, a.Hold(decimal.NewFromInt(amount)))
	return a
}

func TestEscrowHold(t *testing.T) {
	a := domain.NewEscrowAccount(
		uuid.New().String(), domain.DefaultMilestoneSchedule(),
	)
	require.NoError(t, a.Hold(decimal.NewFromInt(5000)))
	require.True(t, a.IsFullyFunded(decimal.NewFromInt(5000)))

	err := a.Hold(decimal.NewFromInt(5000))
	require.ErrorIs(t, err, domain.ErrEscrowAlreadyHeld)
}

func TestEscrowMilestoneSchedule(t *testing.T) {
	a := newFundedEscrow(t, 5000)

	m := a.MilestoneForStage(domain.StatusInTransit)
	require.NotNil(t, m)
	require.Equal(t, "transit_release", m.Id)
	require.True(t, a.ReleaseAmountFor(*m).Equal(decimal.NewFromInt(1500)))

	require.Nil(t, a.MilestoneForStage(domain.StatusProduction))
	require.Nil(t, a.MilestoneForStage(domain.StatusDelivered))
}

func TestEscrowRelease(t *testing.T) {
	a := newFundedEscrow(t, 5000)

	transit := a.MilestoneById("transit_release")
	require.NotNil(t, transit)
	require.NoError(t, a.Release(transit.Id, a.ReleaseAmountFor(*transit)))
	require.True(t, a.ReleasedAmount.Equal(decimal.NewFromInt(1500)))

	// The same milestone can never fire twice.
	err := a.Release(transit.Id, decimal.NewFromInt(1))
	require.ErrorIs(t, err, domain.ErrEscrowMilestoneReleased)

	// The final milestone drains whatever is still held.
	final := a.MilestoneById("final_release")
	require.NotNil(t, final)
	amount := a.ReleaseAmountFor(*final)
	require.True(t, amount.Equal(decimal.NewFromInt(3500)))
	require.NoError(t, a.Release(final.Id, amount))
	require.True(t, a.ReleasedAmount.Equal(a.HeldAmount))
	require.Nil(t, a.CurrentMilestone())
}

func TestEscrowReleaseNeverStrandsFunds(t *testing.T) {
	// An amount whose 30% slice rounds must still fully drain.
	a := newFundedEscrow(t, 1001)

	transit := a.MilestoneById("transit_release")
	require.NoError(t, a.Release(transit.Id, a.ReleaseAmountFor(*transit)))

	final := a.MilestoneById("final_release")
	require.NoError(t, a.Release(final.Id, a.ReleaseAmountFor(*final)))

	require.True(t, a.ReleasedAmount.Equal(a.HeldAmount))
}

func TestEscrowOverRelease(t *testing.T) {
	a := newFundedEscrow(t, 5000)

	err := a.Release("transit_release", decimal.NewFromInt(6000))
	require.ErrorIs(t, err, domain.ErrEscrowOverRelease)

	err = a.Release("no_such_milestone", decimal.NewFromInt(1))
	require.ErrorIs(t, err, domain.ErrEscrowUnknownMilestone)
}

func TestEscrowView(t *testing.T) {
	a := newFundedEscrow(t, 5000)
	v := a.View()
	require.Equal(t, "transit_release", v.CurrentMilestone)

	require.NoError(t, a.Release("transit_release", decimal.NewFromInt(1500)))
	v = a.View()
	require.Equal(t, "final_release", v.CurrentMilestone)
	require.True(t, v.ReleasedAmount.Equal(decimal.NewFromInt(1500)))
}
