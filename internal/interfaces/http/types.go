package httpinterface

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tradelane-network/tradelane-daemon/internal/core/application/kernel"
	"github.com/tradelane-network/tradelane-daemon/internal/core/domain"
)

type createTradeRequest struct {
	Type        string          `json:"type"`
	BuyerId     string          `json:"buyer_id"`
	SellerId    string          `json:"seller_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Currency    string          `json:"currency"`
	ProductRef  string          `json:"product_ref"`
	Quantity    uint64          `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Actor       string          `json:"actor"`
}

type transitionRequest struct {
	TargetStatus string `json:"target_status"`
	QuoteId      string `json:"quote_id,omitempty"`
	Actor        string `json:"actor"`
}

type submitQuoteRequest struct {
	SupplierId   string          `json:"supplier_id"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	LeadTimeDays uint32          `json:"lead_time_days"`
	Incoterms    string          `json:"incoterms"`
}

type addWebhookRequest struct {
	Topic    string `json:"topic"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret,omitempty"`
}

type rejectionResponse struct {
	Success         bool     `json:"success"`
	ReasonCode      string   `json:"reason_code"`
	RequiredActions []string `json:"required_actions"`
}

type tradeDTO struct {
	Id          string              `json:"id"`
	Type        string              `json:"type"`
	Status      string              `json:"status"`
	BuyerId     string              `json:"buyer_id"`
	SellerId    string              `json:"seller_id"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	Currency    string              `json:"currency"`
	Details     domain.TradeDetails `json:"details"`
	Version     uint64              `json:"version"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type eventDTO struct {
	Id         string    `json:"id"`
	Sequence   uint64    `json:"sequence"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Outcome    string    `json:"outcome"`
	ReasonCode string    `json:"reason_code,omitempty"`
	Actor      string    `json:"actor,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type quoteDTO struct {
	Id           string          `json:"id"`
	TradeId      string          `json:"trade_id"`
	SupplierId   string          `json:"supplier_id"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	LeadTimeDays uint32          `json:"lead_time_days"`
	Incoterms    string          `json:"incoterms"`
	Status       string          `json:"status"`
	SubmittedAt  time.Time       `json:"submitted_at"`
}

type tradeStateDTO struct {
	Trade      tradeDTO          `json:"trade"`
	Escrow     domain.EscrowView `json:"escrow"`
	AuditTail  []eventDTO        `json:"audit_tail"`
	Projection domain.Projection `json:"projection"`
}

func toTradeDTO(t *domain.Trade) tradeDTO {
	return tradeDTO{
		Id:          t.Id,
		Type:        string(t.Type),
		Status:      string(t.Status),
		BuyerId:     t.BuyerId,
		SellerId:    t.SellerId,
		TotalAmount: t.TotalAmount,
		Currency:    t.Currency,
		Details:     t.Details,
		Version:     t.Version,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toEventDTOs(events []*domain.TransitionEvent) []eventDTO {
	list := make([]eventDTO, 0, len(events))
	for _, e := range events {
		list = append(list, eventDTO{
			Id:         e.Id,
			Sequence:   e.Sequence,
			FromStatus: string(e.FromStatus),
			ToStatus:   string(e.ToStatus),
			Outcome:    string(e.Outcome),
			ReasonCode: string(e.ReasonCode),
			Actor:      e.Actor,
			Timestamp:  e.Timestamp,
		})
	}
	return list
}

func toQuoteDTO(q *domain.Quote) quoteDTO {
	return quoteDTO{
		Id:           q.Id,
		TradeId:      q.TradeId,
		SupplierId:   q.SupplierId,
		UnitPrice:    q.UnitPrice,
		TotalPrice:   q.TotalPrice,
		LeadTimeDays: q.LeadTimeDays,
		Incoterms:    q.Incoterms,
		Status:       string(q.Status),
		SubmittedAt:  q.SubmittedAt,
	}
}

func toTradeStateDTO(state *kernel.TradeState) tradeStateDTO {
	return tradeStateDTO{
		Trade:      toTradeDTO(state.Trade),
		Escrow:     state.Escrow,
		AuditTail:  toEventDTOs(state.AuditTail),
		Projection: state.Projection,
	}
}
