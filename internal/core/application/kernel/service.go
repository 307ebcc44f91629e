package kernel

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tradelane-network/tradelane-daemon/internal/core/application/pubsub"
	"github.com/tradelane-network/tradelane-daemon/internal/core/domain"
	"github.com/tradelane-network/tradelane-daemon/internal/core/ports"
)

const defaultCollaboratorTimeout = 5 * time.Second

// auditTailLimit caps the number of events returned by GetTradeState.
const auditTailLimit = 20

// Service is the trade lifecycle kernel: it owns the legal stage graph,
// consults the guards, and commits transitions atomically. It carries no
// state of its own, everything is injected.
type Service struct {
	repoManager ports.RepoManager
	compliance  ports.ComplianceProvider
	custodian   ports.EscrowCustodian
	pubsub      *pubsub.Service

	collaboratorTimeout time.Duration
}

func NewService(
	repoManager ports.RepoManager,
	compliance ports.ComplianceProvider,
	custodian ports.EscrowCustodian,
	pubsubSvc *pubsub.Service,
	collaboratorTimeout time.Duration,
) (*Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if compliance == nil {
		return nil, fmt.Errorf("missing compliance provider")
	}
	if custodian == nil {
		return nil, fmt.Errorf("missing escrow custodian")
	}
	if pubsubSvc == nil {
		return nil, fmt.Errorf("missing pubsub service")
	}
	if collaboratorTimeout <= 0 {
		collaboratorTimeout = defaultCollaboratorTimeout
	}

	return &Service{
		repoManager:         repoManager,
		compliance:          compliance,
		custodian:           custodian,
		pubsub:              pubsubSvc,
		collaboratorTimeout: collaboratorTimeout,
	}, nil
}

// CreateTrade opens a trade in its initial stage together with its escrow
// account and the creation audit entry, in one transaction.
func (s *Service) CreateTrade(
	ctx context.Context, req CreateTradeRequest,
) (*TradeState, error) {
	var trade *domain.Trade
	switch req.Type {
	case domain.TradeTypeRFQ:
		trade = domain.NewRFQTrade(
			req.BuyerId, req.SellerId, req.TotalAmount, req.Currency,
			domain.RFQDetails{
				ProductRef:      req.ProductRef,
				Quantity:        req.Quantity,
				TargetUnitPrice: req.UnitPrice,
			},
		)
	case domain.TradeTypeDirectOrder:
		trade = domain.NewDirectOrderTrade(
			req.BuyerId, req.SellerId, req.TotalAmount, req.Currency,
			domain.DirectOrderDetails{
				ProductRef: req.ProductRef,
				Quantity:   req.Quantity,
				UnitPrice:  req.UnitPrice,
			},
		)
	default:
		return nil, fmt.Errorf("unknown trade type %s", req.Type)
	}
	if !req.TotalAmount.IsPositive() {
		return nil, fmt.Errorf("trade amount must be positive")
	}

	escrow := domain.NewEscrowAccount(trade.Id, domain.DefaultMilestoneSchedule())
	event := domain.NewSuccessEvent(trade.Id, "", trade.Status, req.Actor)

	if _, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			if err := s.repoManager.TradeRepository().AddTrade(ctx, trade); err != nil {
				return nil, err
			}
			if err := s.repoManager.EscrowRepository().AddEscrowAccount(
				ctx, escrow,
			); err != nil {
				return nil, err
			}
			if err := s.repoManager.EventRepository().AppendEvent(
				ctx, event,
			); err != nil {
				return nil, err
			}
			return nil, nil
		},
	); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"trade": trade.Id, "type": trade.Type, "status": trade.Status,
	}).Debug("trade created")

	return s.GetTradeState(ctx, trade.Id)
}

// GetTradeState composes the full read model of a trade: the entity, the
// escrow view, the audit tail and the projection with the next recommended
// action. Lock-free, safe to call concurrently with writes.
func (s *Service) GetTradeState(
	ctx context.Context, tradeId string,
) (*TradeState, error) {
	trade, err := s.repoManager.TradeRepository().GetTrade(ctx, tradeId)
	if err != nil {
		return nil, err
	}
	escrow, err := s.repoManager.EscrowRepository().GetEscrowAccount(ctx, tradeId)
	if err != nil {
		return nil, err
	}
	tail, err := s.repoManager.EventRepository().GetEventsForTrade(
		ctx, tradeId, auditTailLimit,
	)
	if err != nil {
		return nil, err
	}

	guardResult := domain.GuardPass
	if next, ok := trade.Status.NextOnSpine(); ok && !trade.IsTerminal() {
		input, ferr := s.gatherGuardInput(ctx, trade, "")
		if ferr != nil {
			guardResult = *ferr
		} else {
			guardResult = domain.EvaluateGuards(trade, next, input)
		}
	}

	return &TradeState{
		Trade:      trade,
		Escrow:     escrow.View(),
		AuditTail:  tail,
		Projection: domain.Project(trade, escrow, guardResult),
	}, nil
}

// ListTrades returns every trade, or only the ones a party is involved in
// when partyId is given.
func (s *Service) ListTrades(
	ctx context.Context, partyId string,
) ([]*domain.Trade, error) {
	if partyId != "" {
		return s.repoManager.TradeRepository().GetTradesForParty(ctx, partyId)
	}
	return s.repoManager.TradeRepository().GetAllTrades(ctx)
}

// AuditTail returns the most recent transition events of a trade,
// most-recent-first.
func (s *Service) AuditTail(
	ctx context.Context, tradeId string, limit int,
) ([]*domain.TransitionEvent, error) {
	return s.repoManager.EventRepository().GetEventsForTrade(ctx, tradeId, limit)
}

// SubmitQuote records a supplier quote against an RFQ trade and, when this
// is the first one, drives the trade from rfq_open to quoted through the
// transition engine.
func (s *Service) SubmitQuote(
	ctx context.Context, req SubmitQuoteRequest,
) (*domain.Quote, error) {
	trade, err := s.repoManager.TradeRepository().GetTrade(ctx, req.TradeId)
	if err != nil {
		return nil, err
	}
	if trade.Type != domain.TradeTypeRFQ {
		return nil, domain.ErrTradeNotRFQ
	}
	if trade.Status != domain.StatusRFQOpen && trade.Status != domain.StatusQuoted {
		return nil, domain.ErrTradeInvalidTransition
	}

	quote := domain.NewQuote(
		req.TradeId, req.SupplierId, req.UnitPrice, req.TotalPrice,
		req.LeadTimeDays, req.Incoterms,
	)
	if err := s.repoManager.QuoteRepository().AddQuote(ctx, quote); err != nil {
		return nil, err
	}

	if trade.Status == domain.StatusRFQOpen {
		res, err := s.TransitionTrade(
			ctx, trade.Id, domain.StatusQuoted,
			TransitionMetadata{Actor: req.SupplierId},
		)
		if err != nil {
			return nil, err
		}
		if !res.Success {
			return nil, fmt.Errorf(
				"quote recorded but trade not advanced: %s", res.ReasonCode,
			)
		}
	}

	return quote, nil
}

// ListQuotes returns every quote submitted against a trade.
func (s *Service) ListQuotes(
	ctx context.Context, tradeId string,
) ([]*domain.Quote, error) {
	if _, err := s.repoManager.TradeRepository().GetTrade(ctx, tradeId); err != nil {
		return nil, err
	}
	return s.repoManager.QuoteRepository().GetQuotesForTrade(ctx, tradeId)
}

// AcceptQuote marks a submitted quote as accepted and records it on the
// trade's payload. The contracted transition consumes it afterwards.
func (s *Service) AcceptQuote(
	ctx context.Context, tradeId, quoteId string,
) (*domain.Quote, error) {
	trade, err := s.repoManager.TradeRepository().GetTrade(ctx, tradeId)
	if err != nil {
		return nil, err
	}
	if trade.Status != domain.StatusQuoted {
		return nil, domain.ErrTradeInvalidTransition
	}

	quote, err := s.repoManager.QuoteRepository().GetQuote(ctx, quoteId)
	if err != nil {
		return nil, err
	}
	if quote.TradeId != tradeId {
		return nil, domain.ErrQuoteNotFound
	}

	if _, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			if err := s.repoManager.QuoteRepository().UpdateQuote(
				ctx, quoteId, func(q *domain.Quote) (*domain.Quote, error) {
					if err := q.Accept(); err != nil {
						return nil, err
					}
					return q, nil
				},
			); err != nil {
				return nil, err
			}
			if err := s.repoManager.TradeRepository().UpdateTrade(
				ctx, tradeId, func(t *domain.Trade) (*domain.Trade, error) {
					if err := t.AcceptQuote(quoteId); err != nil {
						return nil, err
					}
					return t, nil
				},
			); err != nil {
				return nil, err
			}
			return nil, nil
		},
	); err != nil {
		return nil, err
	}

	quote.Status = domain.QuoteStatusAccepted
	return quote, nil
}

// FundEscrow asks the custodian to hold the full trade amount and mirrors
// the hold on the escrow ledger. Legal only while the trade waits at
// escrow_required and the account holds nothing yet.
func (s *Service) FundEscrow(
	ctx context.Context, tradeId string,
) (*domain.EscrowAccount, error) {
	trade, err := s.repoManager.TradeRepository().GetTrade(ctx, tradeId)
	if err != nil {
		return nil, err
	}
	if trade.Status != domain.StatusEscrowRequired {
		return nil, domain.ErrTradeInvalidTransition
	}

	escrow, err := s.repoManager.EscrowRepository().GetEscrowAccount(ctx, tradeId)
	if err != nil {
		return nil, err
	}
	if escrow.HeldAmount.IsPositive() {
		return nil, domain.ErrEscrowAlreadyHeld
	}

	callCtx, cancel := context.WithTimeout(ctx, s.collaboratorTimeout)
	defer cancel()
	if err := s.custodian.Hold(callCtx, tradeId, trade.TotalAmount); err != nil {
		collaboratorTimeouts.WithLabelValues("custodian").Inc()
		return nil, fmt.Errorf("custodian hold failed: %w", err)
	}

	var updated *domain.EscrowAccount
	if err := s.repoManager.EscrowRepository().UpdateEscrowAccount(
		ctx, tradeId, func(a *domain.EscrowAccount) (*domain.EscrowAccount, error) {
			if err := a.Hold(trade.TotalAmount); err != nil {
				return nil, err
			}
			updated = a
			return a, nil
		},
	); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"trade": tradeId, "amount": trade.TotalAmount,
	}).Debug("escrow funded")

	return updated, nil
}
