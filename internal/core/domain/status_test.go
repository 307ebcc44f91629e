package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tradelane-network/tradelane-daemon/internal/core/domain"
)

func TestStatusSpineWalk(t *testing.T) {
	spine := []domain.Status{
		domain.StatusRFQOpen,
		domain.StatusQuoted,
		domain.StatusContracted,
		domain.StatusEscrowRequired,
		domain.StatusEscrowFunded,
		domain.StatusProduction,
		domain.StatusPickupScheduled,
		domain.StatusInTransit,
		domain.StatusDelivered,
		domain.StatusSettled,
	}

	for i, s := range spine {
		require.True(t, s.IsValid())
		require.Equal(t, i, s.SpineIndex())

		next, ok := s.NextOnSpine()
		if i == len(spine)-1 {
			require.False(t, ok)
			continue
		}
		require.True(t, ok)
		require.Equal(t, spine[i+1], next)
		require.True(t, s.CanTransitionTo(next))
	}
}

func TestStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name   string
		from   domain.Status
		to     domain.Status
		wantOk bool
	}{
		{
			name:   "single_step_forward",
			from:   domain.StatusContracted,
			to:     domain.StatusEscrowRequired,
			wantOk: true,
		},
		{
			name:   "skip_a_stage",
			from:   domain.StatusContracted,
			to:     domain.StatusEscrowFunded,
			wantOk: false,
		},
		{
			name:   "backwards",
			from:   domain.StatusInTransit,
			to:     domain.StatusProduction,
			wantOk: false,
		},
		{
			name:   "self_transition",
			from:   domain.StatusQuoted,
			to:     domain.StatusQuoted,
			wantOk: false,
		},
		{
			name:   "cancel_from_any_stage",
			from:   domain.StatusProduction,
			to:     domain.StatusCancelled,
			wantOk: true,
		},
		{
			name:   "dispute_from_any_stage",
			from:   domain.StatusDelivered,
			to:     domain.StatusDisputed,
			wantOk: true,
		},
		{
			name:   "disputed_resolves_only",
			from:   domain.StatusDisputed,
			to:     domain.StatusDisputedResolved,
			wantOk: true,
		},
		{
			name:   "disputed_cannot_rejoin_spine",
			from:   domain.StatusDisputed,
			to:     domain.StatusInTransit,
			wantOk: false,
		},
		{
			name:   "disputed_cannot_cancel",
			from:   domain.StatusDisputed,
			to:     domain.StatusCancelled,
			wantOk: false,
		},
		{
			name:   "settled_is_terminal",
			from:   domain.StatusSettled,
			to:     domain.StatusDisputed,
			wantOk: false,
		},
		{
			name:   "cancelled_is_terminal",
			from:   domain.StatusCancelled,
			to:     domain.StatusRFQOpen,
			wantOk: false,
		},
		{
			name:   "resolved_is_terminal",
			from:   domain.StatusDisputedResolved,
			to:     domain.StatusSettled,
			wantOk: false,
		},
		{
			name:   "unknown_target",
			from:   domain.StatusQuoted,
			to:     domain.Status("shipped"),
			wantOk: false,
		},
	}

	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.wantOk, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	for _, s := range []domain.Status{
		domain.StatusSettled, domain.StatusCancelled, domain.StatusDisputedResolved,
	} {
		require.True(t, s.IsTerminal())
	}
	for _, s := range []domain.Status{
		domain.StatusRFQOpen, domain.StatusDisputed, domain.StatusDelivered,
	} {
		require.False(t, s.IsTerminal())
	}
}

func TestStatusCertificateGated(t *testing.T) {
	require.True(t, domain.StatusDelivered.CertificateGated())
	require.True(t, domain.StatusSettled.CertificateGated())
	require.False(t, domain.StatusInTransit.CertificateGated())
	require.False(t, domain.StatusPickupScheduled.CertificateGated())
}
