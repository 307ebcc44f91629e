package domain

import "time"

// ReasonCode names the first unmet precondition that blocked a transition.
type ReasonCode string

const (
	// ReasonNone is carried by passing guard results.
	ReasonNone ReasonCode = ""
	// ReasonInvalidTransition means the target is not a legal next stage.
	ReasonInvalidTransition ReasonCode = "INVALID_TRANSITION"
	// ReasonCompliancePending means at least one party is not KYC verified.
	ReasonCompliancePending ReasonCode = "COMPLIANCE_PENDING"
	// ReasonQuoteRequired means contracting requires an accepted quote.
	ReasonQuoteRequired ReasonCode = "QUOTE_REQUIRED"
	// ReasonFundingRequired means the escrow account does not hold the full
	// trade amount.
	ReasonFundingRequired ReasonCode = "FUNDING_REQUIRED"
	// ReasonCertificateMissing means the preferential-origin certificate is
	// absent or expired.
	ReasonCertificateMissing ReasonCode = "CERTIFICATE_MISSING"
	// ReasonExternalTimeout means a collaborator did not respond in time.
	// A timeout blocks the transition, it is never an implicit success.
	ReasonExternalTimeout ReasonCode = "EXTERNAL_TIMEOUT"
	// ReasonConcurrencyConflict means another transition committed first.
	ReasonConcurrencyConflict ReasonCode = "CONCURRENCY_CONFLICT"
)

// GuardResult is the outcome of evaluating the preconditions of a
// transition. A failing result carries the reason code of the first unmet
// check plus actionable remediation hints.
type GuardResult struct {
	Passed          bool
	ReasonCode      ReasonCode
	RequiredActions []string
}

// GuardPass is the passing guard result.
var GuardPass = GuardResult{Passed: true}

func guardFail(reason ReasonCode, actions ...string) GuardResult {
	return GuardResult{ReasonCode: reason, RequiredActions: actions}
}

// GuardInput bundles the collaborator data a guard evaluation runs against.
// The caller gathers it with bounded timeouts before evaluating; the
// evaluator itself is a pure function.
type GuardInput struct {
	BuyerProfile  *ComplianceProfile
	SellerProfile *ComplianceProfile
	Escrow        *EscrowAccount
	// AcceptedQuote is the quote referenced by the transition metadata,
	// already resolved by the caller. Nil if none was referenced.
	AcceptedQuote *Quote
	Now           time.Time
}

// EvaluateGuards runs the ordered, short-circuiting precondition checks for
// bringing trade to target. The first failure wins so the caller gets one
// actionable cause rather than an exhaustive list.
func EvaluateGuards(trade *Trade, target Status, in GuardInput) GuardResult {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	// Compliance gate: every transition past rfq_open requires both parties
	// to be KYC verified.
	if target != StatusRFQOpen {
		if in.BuyerProfile == nil || !in.BuyerProfile.IsVerified() {
			return guardFail(
				ReasonCompliancePending,
				"complete buyer KYC verification",
			)
		}
		if in.SellerProfile == nil || !in.SellerProfile.IsVerified() {
			return guardFail(
				ReasonCompliancePending,
				"complete seller KYC verification",
			)
		}
	}

	// Quote-selection gate: contracting an RFQ trade requires an accepted
	// quote referenced in the transition metadata.
	if target == StatusContracted && trade.Type == TradeTypeRFQ {
		if in.AcceptedQuote == nil || !in.AcceptedQuote.IsAccepted() ||
			in.AcceptedQuote.TradeId != trade.Id {
			return guardFail(
				ReasonQuoteRequired,
				"accept a supplier quote and reference it in the transition metadata",
			)
		}
	}

	// Funding gate: entering escrow_funded requires the custodian to
	// already hold the full trade amount.
	if target == StatusEscrowFunded {
		if in.Escrow == nil || !in.Escrow.IsFullyFunded(trade.TotalAmount) {
			return guardFail(
				ReasonFundingRequired,
				"fund the escrow account with the full trade amount",
			)
		}
	}

	// Document gate: release-affecting stages require a valid
	// preferential-origin certificate on the seller's profile. Earlier
	// logistics stages stay reachable without one.
	if target.CertificateGated() {
		if in.SellerProfile == nil ||
			!in.SellerProfile.HasValidCertificate(CertificateTypeOrigin, now) {
			return guardFail(
				ReasonCertificateMissing,
				"upload a valid preferential-origin certificate",
			)
		}
	}

	return GuardPass
}
