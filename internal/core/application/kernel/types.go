package kernel

import (
	"github.com/shopspring/decimal"
	"github.com/tradelane-network/tradelane-daemon/internal/core/domain"
)

// CreateTradeRequest carries everything needed to open a trade in its
// initial stage.
type CreateTradeRequest struct {
	Type        domain.TradeType
	BuyerId     string
	SellerId    string
	TotalAmount decimal.Decimal
	Currency    string
	ProductRef  string
	Quantity    uint64
	// UnitPrice is the agreed price for direct orders, the buyer's target
	// price for RFQs.
	UnitPrice decimal.Decimal
	Actor     string
}

// TransitionMetadata is the typed payload of a transition request.
type TransitionMetadata struct {
	// QuoteId references the accepted quote consumed by the contracted
	// transition. When empty the engine falls back to the quote already
	// accepted on the trade.
	QuoteId string
	Actor   string
}

// TransitionResult is the structured outcome of a transition attempt. It
// is always a value, never an error: every caller gets a reason code to
// act on or display.
type TransitionResult struct {
	Success         bool
	Trade           *domain.Trade
	ReasonCode      domain.ReasonCode
	RequiredActions []string
}

// SubmitQuoteRequest carries a supplier's offer against an RFQ trade.
type SubmitQuoteRequest struct {
	TradeId      string
	SupplierId   string
	UnitPrice    decimal.Decimal
	TotalPrice   decimal.Decimal
	LeadTimeDays uint32
	Incoterms    string
}

// TradeState is the full read model returned by GetTradeState.
type TradeState struct {
	Trade      *domain.Trade
	Escrow     domain.EscrowView
	AuditTail  []*domain.TransitionEvent
	Projection domain.Projection
}
