package custodian_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tradelane-network/tradelane-daemon/internal/infrastructure/custodian"
)

var ctx = context.Background()

func TestHold(t *testing.T) {
	t.Parallel()

	c := custodian.NewInMemoryCustodian()

	err := c.Hold(ctx, "trade-1", decimal.NewFromInt(5000))
	require.NoError(t, err)

	err = c.Hold(ctx, "trade-1", decimal.NewFromInt(5000))
	require.Error(t, err)

	err = c.Hold(ctx, "trade-2", decimal.Zero)
	require.Error(t, err)
}

func TestReleaseOncePerMilestone(t *testing.T) {
	t.Parallel()

	c := custodian.NewInMemoryCustodian()
	require.NoError(t, c.Hold(ctx, "trade-1", decimal.NewFromInt(5000)))

	err := c.Release(ctx, "trade-1", "transit_release", decimal.NewFromInt(1500))
	require.NoError(t, err)
	require.True(t, c.ReleasedFunds("trade-1").Equal(decimal.NewFromInt(1500)))

	// A repeated release of the same milestone must not move funds again.
	err = c.Release(ctx, "trade-1", "transit_release", decimal.NewFromInt(1500))
	require.NoError(t, err)
	require.True(t, c.ReleasedFunds("trade-1").Equal(decimal.NewFromInt(1500)))

	err = c.Release(ctx, "trade-1", "final_release", decimal.NewFromInt(3500))
	require.NoError(t, err)
	require.True(t, c.ReleasedFunds("trade-1").Equal(decimal.NewFromInt(5000)))
}

func TestReleaseRejections(t *testing.T) {
	t.Parallel()

	c := custodian.NewInMemoryCustodian()

	err := c.Release(ctx, "missing", "transit_release", decimal.NewFromInt(1))
	require.Error(t, err)

	require.NoError(t, c.Hold(ctx, "trade-1", decimal.NewFromInt(1000)))

	err = c.Release(ctx, "trade-1", "transit_release", decimal.NewFromInt(1001))
	require.Error(t, err)
	require.True(t, c.ReleasedFunds("trade-1").IsZero())
}
