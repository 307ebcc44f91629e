package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TradeType discriminates the two ways a trade can originate.
type TradeType string

const (
	// TradeTypeRFQ is a trade opened by a buyer's request for quotation.
	TradeTypeRFQ TradeType = "rfq"
	// TradeTypeDirectOrder is a trade opened directly against a listed
	// product at a fixed price.
	TradeTypeDirectOrder TradeType = "direct-order"
)

// RFQDetails is the payload of an RFQ-originated trade.
type RFQDetails struct {
	ProductRef      string          `json:"product_ref"`
	Quantity        uint64          `json:"quantity"`
	TargetUnitPrice decimal.Decimal `json:"target_unit_price"`
	// AcceptedQuoteId is set when the buyer accepts a supplier quote.
	AcceptedQuoteId string `json:"accepted_quote_id,omitempty"`
}

// DirectOrderDetails is the payload of a direct-order trade.
type DirectOrderDetails struct {
	ProductRef string          `json:"product_ref"`
	Quantity   uint64          `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// TradeDetails is the typed payload union of a trade. Exactly one of the
// two branches is non-nil, matching the trade's type.
type TradeDetails struct {
	RFQ         *RFQDetails         `json:"rfq,omitempty"`
	DirectOrder *DirectOrderDetails `json:"direct_order,omitempty"`
}

// Trade is the entity at the center of the lifecycle kernel. Its status
// changes only through the transition engine; every other component reads
// it.
type Trade struct {
	Id          string
	Type        TradeType
	Status      Status
	BuyerId     string
	SellerId    string
	TotalAmount decimal.Decimal
	Currency    string
	Details     TradeDetails
	// Version is bumped on every committed transition and checked with a
	// compare-and-swap by the storage layer to serialize writers.
	Version   uint64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewRFQTrade returns a trade in rfq_open status.
func NewRFQTrade(
	buyerId, sellerId string,
	totalAmount decimal.Decimal, currency string,
	details RFQDetails,
) *Trade {
	now := time.Now()
	return &Trade{
		Id:          uuid.New().String(),
		Type:        TradeTypeRFQ,
		Status:      StatusRFQOpen,
		BuyerId:     buyerId,
		SellerId:    sellerId,
		TotalAmount: totalAmount,
		Currency:    currency,
		Details:     TradeDetails{RFQ: &details},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewDirectOrderTrade returns a trade in contracted status.
func NewDirectOrderTrade(
	buyerId, sellerId string,
	totalAmount decimal.Decimal, currency string,
	details DirectOrderDetails,
) *Trade {
	now := time.Now()
	return &Trade{
		Id:          uuid.New().String(),
		Type:        TradeTypeDirectOrder,
		Status:      StatusContracted,
		BuyerId:     buyerId,
		SellerId:    sellerId,
		TotalAmount: totalAmount,
		Currency:    currency,
		Details:     TradeDetails{DirectOrder: &details},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// MoveTo commits a validated transition on the entity, bumping its version.
// Legality must have been checked by the caller; MoveTo re-checks the stage
// graph anyway so an entity can never be driven through an illegal jump.
func (t *Trade) MoveTo(target Status) error {
	if !t.Status.CanTransitionTo(target) {
		return ErrTradeInvalidTransition
	}
	t.Status = target
	t.Version++
	t.UpdatedAt = time.Now()
	return nil
}

// AcceptQuote records the accepted quote id on an RFQ trade's payload.
func (t *Trade) AcceptQuote(quoteId string) error {
	if t.Type != TradeTypeRFQ || t.Details.RFQ == nil {
		return ErrTradeNotRFQ
	}
	if t.Details.RFQ.AcceptedQuoteId != "" {
		return ErrTradeQuoteAlreadyAccepted
	}
	t.Details.RFQ.AcceptedQuoteId = quoteId
	t.UpdatedAt = time.Now()
	return nil
}

// AcceptedQuoteId returns the id of the accepted quote, if any.
func (t *Trade) AcceptedQuoteId() string {
	if t.Details.RFQ == nil {
		return ""
	}
	return t.Details.RFQ.AcceptedQuoteId
}

// IsTerminal returns whether the trade reached a terminal status.
func (t *Trade) IsTerminal() bool {
	return t.Status.IsTerminal()
}
