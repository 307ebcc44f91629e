package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteStatus represents the statuses a supplier quote can assume.
type QuoteStatus string

const (
	QuoteStatusSubmitted QuoteStatus = "submitted"
	QuoteStatusAccepted  QuoteStatus = "accepted"
	QuoteStatusRejected  QuoteStatus = "rejected"
)

// Quote is a supplier's offer against an RFQ trade. Once accepted it is
// referenced by the kernel and never mutated again.
type Quote struct {
	Id           string
	TradeId      string
	SupplierId   string
	UnitPrice    decimal.Decimal
	TotalPrice   decimal.Decimal
	LeadTimeDays uint32
	Incoterms    string
	Status       QuoteStatus
	SubmittedAt  time.Time
}

// NewQuote returns a quote in submitted status.
func NewQuote(
	tradeId, supplierId string,
	unitPrice, totalPrice decimal.Decimal,
	leadTimeDays uint32, incoterms string,
) *Quote {
	return &Quote{
		Id:           uuid.New().String(),
		TradeId:      tradeId,
		SupplierId:   supplierId,
		UnitPrice:    unitPrice,
		TotalPrice:   totalPrice,
		LeadTimeDays: leadTimeDays,
		Incoterms:    incoterms,
		Status:       QuoteStatusSubmitted,
		SubmittedAt:  time.Now(),
	}
}

// Accept brings the quote from submitted to accepted.
func (q *Quote) Accept() error {
	if q.Status == QuoteStatusAccepted {
		return nil
	}
	if q.Status != QuoteStatusSubmitted {
		return ErrQuoteNotSubmitted
	}
	q.Status = QuoteStatusAccepted
	return nil
}

// Reject brings the quote from submitted to rejected.
func (q *Quote) Reject() error {
	if q.Status == QuoteStatusRejected {
		return nil
	}
	if q.Status != QuoteStatusSubmitted {
		return ErrQuoteNotSubmitted
	}
	q.Status = QuoteStatusRejected
	return nil
}

// IsAccepted returns whether the quote is in accepted status.
func (q *Quote) IsAccepted() bool {
	return q.Status == QuoteStatusAccepted
}
