package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tradelane-network/tradelane-daemon/internal/core/domain"
)

func verifiedProfile(partyId string, withCert bool) *domain.ComplianceProfile {
	p := &domain.ComplianceProfile{
		PartyId:   partyId,
		KycStatus: domain.KycStatusVerified,
	}
	if withCert {
		p.Certificates = []domain.Certificate{{
			Type:      domain.CertificateTypeOrigin,
			Number:    "AFCFTA-001",
			ExpiresAt: time.Now().AddDate(0, 6, 0),
		}}
	}
	return p
}

func newGuardTrade(t *testing.T) *domain.Trade {
	t.Helper()
	return domain.NewRFQTrade(
		"buyer-1", "seller-1", decimal.NewFromInt(5000), "EUR",
		domain.RFQDetails{ProductRef: "shea-butter-25kg", Quantity: 100},
	)
}

func TestEvaluateGuardsCompliance(t *testing.T) {
	trade := newGuardTrade(t)

	tests := []struct {
		name   string
		buyer  *domain.ComplianceProfile
		seller *domain.ComplianceProfile
	}{
		{
			name:   "missing_profiles",
			buyer:  nil,
			seller: nil,
		},
		{
			name: "buyer_pending",
			buyer: &domain.ComplianceProfile{
				PartyId: "buyer-1", KycStatus: domain.KycStatusPending,
			},
			seller: verifiedProfile("seller-1", false),
		},
		{
			name:  "seller_rejected",
			buyer: verifiedProfile("buyer-1", false),
			seller: &domain.ComplianceProfile{
				PartyId: "seller-1", KycStatus: domain.KycStatusRejected,
			},
		},
	}

	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := domain.EvaluateGuards(trade, domain.StatusQuoted, domain.GuardInput{
				BuyerProfile:  tt.buyer,
				SellerProfile: tt.seller,
			})
			require.False(t, res.Passed)
			require.Equal(t, domain.ReasonCompliancePending, res.ReasonCode)
			require.NotEmpty(t, res.RequiredActions)
		})
	}
}

func TestEvaluateGuardsQuoteRequired(t *testing.T) {
	trade := newGuardTrade(t)
	trade.Status = domain.StatusQuoted
	in := domain.GuardInput{
		BuyerProfile:  verifiedProfile("buyer-1", false),
		SellerProfile: verifiedProfile("seller-1", false),
	}

	res := domain.EvaluateGuards(trade, domain.StatusContracted, in)
	require.False(t, res.Passed)
	require.Equal(t, domain.ReasonQuoteRequired, res.ReasonCode)

	// A quote that is merely submitted does not satisfy the gate.
	quote := domain.NewQuote(
		trade.Id, "seller-1",
		decimal.NewFromInt(50), decimal.NewFromInt(5000), 28, "FOB",
	)
	in.AcceptedQuote = quote
	res = domain.EvaluateGuards(trade, domain.StatusContracted, in)
	require.Equal(t, domain.ReasonQuoteRequired, res.ReasonCode)

	// A quote accepted against another trade does not either.
	require.NoError(t, quote.Accept())
	quote.TradeId = "other-trade"
	res = domain.EvaluateGuards(trade, domain.StatusContracted, in)
	require.Equal(t, domain.ReasonQuoteRequired, res.ReasonCode)

	quote.TradeId = trade.Id
	res = domain.EvaluateGuards(trade, domain.StatusContracted, in)
	require.True(t, res.Passed)
}

func TestEvaluateGuardsFundingRequired(t *testing.T) {
	trade := newGuardTrade(t)
	trade.Status = domain.StatusEscrowRequired

	escrow := domain.NewEscrowAccount(trade.Id, domain.DefaultMilestoneSchedule())
	in := domain.GuardInput{
		BuyerProfile:  verifiedProfile("buyer-1", false),
		SellerProfile: verifiedProfile("seller-1", false),
		Escrow:        escrow,
	}

	res := domain.EvaluateGuards(trade, domain.StatusEscrowFunded, in)
	require.False(t, res.Passed)
	require.Equal(t, domain.ReasonFundingRequired, res.ReasonCode)

	// A partial hold is not enough.
	require.NoError(t, escrow.Hold(decimal.NewFromInt(2500)))
	res = domain.EvaluateGuards(trade, domain.StatusEscrowFunded, in)
	require.Equal(t, domain.ReasonFundingRequired, res.ReasonCode)

	escrow.HeldAmount = trade.TotalAmount
	res = domain.EvaluateGuards(trade, domain.StatusEscrowFunded, in)
	require.True(t, res.Passed)
}

func TestEvaluateGuardsCertificate(t *testing.T) {
	trade := newGuardTrade(t)
	trade.Status = domain.StatusInTransit
	now := time.Now()

	in := domain.GuardInput{
		BuyerProfile:  verifiedProfile("buyer-1", false),
		SellerProfile: verifiedProfile("seller-1", false),
		Now:           now,
	}

	res := domain.EvaluateGuards(trade, domain.StatusDelivered, in)
	require.False(t, res.Passed)
	require.Equal(t, domain.ReasonCertificateMissing, res.ReasonCode)

	// Expired certificates do not pass.
	in.SellerProfile.Certificates = []domain.Certificate{{
		Type:      domain.CertificateTypeOrigin,
		ExpiresAt: now.AddDate(0, 0, -1),
	}}
	res = domain.EvaluateGuards(trade, domain.StatusDelivered, in)
	require.Equal(t, domain.ReasonCertificateMissing, res.ReasonCode)

	in.SellerProfile = verifiedProfile("seller-1", true)
	res = domain.EvaluateGuards(trade, domain.StatusDelivered, in)
	require.True(t, res.Passed)

	// Earlier logistics stages are reachable without the certificate.
	trade.Status = domain.StatusPickupScheduled
	in.SellerProfile = verifiedProfile("seller-1", false)
	res = domain.EvaluateGuards(trade, domain.StatusInTransit, in)
	require.True(t, res.Passed)
}

func TestEvaluateGuardsOrdering(t *testing.T) {
	// With everything missing at once, compliance is reported first.
	trade := newGuardTrade(t)
	trade.Status = domain.StatusQuoted

	res := domain.EvaluateGuards(trade, domain.StatusContracted, domain.GuardInput{})
	require.Equal(t, domain.ReasonCompliancePending, res.ReasonCode)

	// With compliance satisfied, the quote gate is next.
	in := domain.GuardInput{
		BuyerProfile:  verifiedProfile("buyer-1", false),
		SellerProfile: verifiedProfile("seller-1", false),
	}
	res = domain.EvaluateGuards(trade, domain.StatusContracted, in)
	require.Equal(t, domain.ReasonQuoteRequired, res.ReasonCode)
}
