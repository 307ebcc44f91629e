package ports

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tradelane-network/tradelane-daemon/internal/core/domain"
)

// ComplianceProvider is the external collaborator owning KYC statuses and
// certificates. Calls must honor the deadline of the given context; the
// kernel treats a timeout as a blocked transition, never as a pass.
type ComplianceProvider interface {
	GetComplianceProfile(
		ctx context.Context, partyId string,
	) (*domain.ComplianceProfile, error)
}

// EscrowCustodian is the external collaborator actually moving funds. The
// kernel's escrow ledger mirrors its balances; the custodian call happens
// first and the ledger row is updated only when it succeeds.
type EscrowCustodian interface {
	Hold(ctx context.Context, tradeId string, amount decimal.Decimal) error
	// Release pays out one milestone of a hold. Implementations must be
	// idempotent per (tradeId, milestoneId): the kernel may repeat the
	// call when its own commit is retried, and a repeat must not move
	// funds again.
	Release(
		ctx context.Context,
		tradeId, milestoneId string, amount decimal.Decimal,
	) error
}
