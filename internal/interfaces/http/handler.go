// Package httpinterface exposes the trade lifecycle kernel over a JSON
// HTTP API, plus a websocket event feed and prometheus metrics.
package httpinterface

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/tradelane-network/tradelane-daemon/internal/core/application/kernel"
	"github.com/tradelane-network/tradelane-daemon/internal/core/application/pubsub"
	"github.com/tradelane-network/tradelane-daemon/internal/core/domain"
)

type Service struct {
	kernelSvc *kernel.Service
	pubsubSvc *pubsub.Service
	hub       *EventHub
}

func NewService(
	kernelSvc *kernel.Service, pubsubSvc *pubsub.Service, hub *EventHub,
) *Service {
	return &Service{kernelSvc, pubsubSvc, hub}
}

// Handler returns the root http handler of the daemon.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/v1/trades", logRequests(http.HandlerFunc(s.handleTrades)))
	mux.Handle("/v1/trades/", logRequests(http.HandlerFunc(s.handleTrade)))
	mux.Handle("/v1/webhooks", logRequests(http.HandlerFunc(s.handleWebhooks)))
	mux.Handle("/v1/webhooks/", logRequests(http.HandlerFunc(s.handleWebhook)))
	mux.HandleFunc("/v1/events/ws", s.hub.ServeWs)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Service) handleTrades(w http.ResponseWriter, req *http.Request) {
	if req.Method == http.MethodGet {
		trades, err := s.kernelSvc.ListTrades(
			req.Context(), req.URL.Query().Get("party"),
		)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		list := make([]tradeDTO, 0, len(trades))
		for _, t := range trades {
			list = append(list, toTradeDTO(t))
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"trades": list})
		return
	}
	if req.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body createTradeRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, err := s.kernelSvc.CreateTrade(req.Context(), kernel.CreateTradeRequest{
		Type:        domain.TradeType(body.Type),
		BuyerId:     body.BuyerId,
		SellerId:    body.SellerId,
		TotalAmount: body.TotalAmount,
		Currency:    body.Currency,
		ProductRef:  body.ProductRef,
		Quantity:    body.Quantity,
		UnitPrice:   body.UnitPrice,
		Actor:       body.Actor,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toTradeStateDTO(state))
}

// handleTrade routes /v1/trades/{id}[/transition|/events|/escrow/fund|/quotes...].
func (s *Service) handleTrade(w http.ResponseWriter, req *http.Request) {
	parts := strings.Split(
		strings.TrimPrefix(req.URL.Path, "/v1/trades/"), "/",
	)
	tradeId := parts[0]
	if tradeId == "" {
		writeError(w, http.StatusNotFound, "missing trade id")
		return
	}

	switch {
	case len(parts) == 1 && req.Method == http.MethodGet:
		s.getTradeState(w, req, tradeId)
	case len(parts) == 2 && parts[1] == "transition" && req.Method == http.MethodPost:
		s.transitionTrade(w, req, tradeId)
	case len(parts) == 2 && parts[1] == "events" && req.Method == http.MethodGet:
		s.auditTail(w, req, tradeId)
	case len(parts) == 3 && parts[1] == "escrow" && parts[2] == "fund" &&
		req.Method == http.MethodPost:
		s.fundEscrow(w, req, tradeId)
	case len(parts) == 2 && parts[1] == "quotes" && req.Method == http.MethodPost:
		s.submitQuote(w, req, tradeId)
	case len(parts) == 2 && parts[1] == "quotes" && req.Method == http.MethodGet:
		s.listQuotes(w, req, tradeId)
	case len(parts) == 4 && parts[1] == "quotes" && parts[3] == "accept" &&
		req.Method == http.MethodPost:
		s.acceptQuote(w, req, tradeId, parts[2])
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *Service) getTradeState(
	w http.ResponseWriter, req *http.Request, tradeId string,
) {
	state, err := s.kernelSvc.GetTradeState(req.Context(), tradeId)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTradeStateDTO(state))
}

func (s *Service) transitionTrade(
	w http.ResponseWriter, req *http.Request, tradeId string,
) {
	var body transitionRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := s.kernelSvc.TransitionTrade(
		req.Context(), tradeId, domain.Status(body.TargetStatus),
		kernel.TransitionMetadata{QuoteId: body.QuoteId, Actor: body.Actor},
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if !res.Success {
		writeJSON(w, http.StatusConflict, rejectionResponse{
			ReasonCode:      string(res.ReasonCode),
			RequiredActions: res.RequiredActions,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"trade":   toTradeDTO(res.Trade),
	})
}

func (s *Service) auditTail(
	w http.ResponseWriter, req *http.Request, tradeId string,
) {
	limit := 0
	if v := req.URL.Query().Get("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = l
	}

	events, err := s.kernelSvc.AuditTail(req.Context(), tradeId, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"events": toEventDTOs(events),
	})
}

func (s *Service) fundEscrow(
	w http.ResponseWriter, req *http.Request, tradeId string,
) {
	escrow, err := s.kernelSvc.FundEscrow(req.Context(), tradeId)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, escrow.View())
}

func (s *Service) submitQuote(
	w http.ResponseWriter, req *http.Request, tradeId string,
) {
	var body submitQuoteRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	quote, err := s.kernelSvc.SubmitQuote(req.Context(), kernel.SubmitQuoteRequest{
		TradeId:      tradeId,
		SupplierId:   body.SupplierId,
		UnitPrice:    body.UnitPrice,
		TotalPrice:   body.TotalPrice,
		LeadTimeDays: body.LeadTimeDays,
		Incoterms:    body.Incoterms,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toQuoteDTO(quote))
}

func (s *Service) listQuotes(
	w http.ResponseWriter, req *http.Request, tradeId string,
) {
	quotes, err := s.kernelSvc.ListQuotes(req.Context(), tradeId)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	list := make([]quoteDTO, 0, len(quotes))
	for _, q := range quotes {
		list = append(list, toQuoteDTO(q))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"quotes": list})
}

func (s *Service) acceptQuote(
	w http.ResponseWriter, req *http.Request, tradeId, quoteId string,
) {
	quote, err := s.kernelSvc.AcceptQuote(req.Context(), tradeId, quoteId)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toQuoteDTO(quote))
}

func (s *Service) handleWebhooks(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body addWebhookRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := s.pubsubSvc.AddSubscription(
		req.Context(), body.Topic, body.Endpoint, body.Secret,
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Service) handleWebhook(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(req.URL.Path, "/v1/webhooks/")
	topic := req.URL.Query().Get("topic")
	if err := s.pubsubSvc.RemoveSubscription(req.Context(), topic, id); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrTradeNotFound),
		errors.Is(err, domain.ErrQuoteNotFound),
		errors.Is(err, domain.ErrEscrowNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrTradeInvalidTransition),
		errors.Is(err, domain.ErrEscrowAlreadyHeld),
		errors.Is(err, domain.ErrQuoteNotSubmitted),
		errors.Is(err, domain.ErrTradeQuoteAlreadyAccepted),
		errors.Is(err, domain.ErrTradeNotRFQ):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.WithError(err).Error("internal error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Warn("failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		log.Debugf("%s %s", req.Method, req.URL.Path)
		next.ServeHTTP(w, req)
	})
}
