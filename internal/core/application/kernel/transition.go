package kernel

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/tradelane-network/tradelane-daemon/internal/core/domain"
)

// TransitionTrade validates and commits a stage transition. The outcome is
// always a structured result: blocked attempts carry the reason code and
// remediation hints of the first unmet precondition, and every attempt,
// successful or not, lands in the audit ledger.
//
// A concurrency conflict is retried once before being surfaced.
func (s *Service) TransitionTrade(
	ctx context.Context, tradeId string, target domain.Status,
	meta TransitionMetadata,
) (*TransitionResult, error) {
	res, err := s.transitionOnce(ctx, tradeId, target, meta)
	if err != nil && errors.Is(err, domain.ErrTradeVersionConflict) {
		res, err = s.transitionOnce(ctx, tradeId, target, meta)
	}
	if err != nil && errors.Is(err, domain.ErrTradeVersionConflict) {
		trade, gerr := s.repoManager.TradeRepository().GetTrade(ctx, tradeId)
		if gerr != nil {
			return nil, gerr
		}
		return s.blockTransition(
			ctx, trade, target, domain.ReasonConcurrencyConflict,
			[]string{"re-read the trade state and retry the transition"},
			meta.Actor,
		)
	}
	return res, err
}

func (s *Service) transitionOnce(
	ctx context.Context, tradeId string, target domain.Status,
	meta TransitionMetadata,
) (*TransitionResult, error) {
	trade, err := s.repoManager.TradeRepository().GetTrade(ctx, tradeId)
	if err != nil {
		return nil, err
	}

	// Illegal targets are rejected without consulting the guards.
	if !target.IsValid() || !trade.Status.CanTransitionTo(target) {
		return s.blockTransition(
			ctx, trade, target, domain.ReasonInvalidTransition,
			[]string{"request the next stage on the spine or an escape branch"},
			meta.Actor,
		)
	}

	input, blocked := s.gatherGuardInput(ctx, trade, meta.QuoteId)
	if blocked != nil {
		return s.blockTransition(
			ctx, trade, target, blocked.ReasonCode, blocked.RequiredActions,
			meta.Actor,
		)
	}

	if guard := domain.EvaluateGuards(trade, target, input); !guard.Passed {
		return s.blockTransition(
			ctx, trade, target, guard.ReasonCode, guard.RequiredActions,
			meta.Actor,
		)
	}

	// Entering a milestone stage releases funds through the custodian
	// before the ledger row is touched. The custodian call is the only
	// suspension point and runs under a bounded timeout. Custodian
	// releases are idempotent per milestone, so a writer whose commit
	// below conflicts has not moved funds the winner did not also move.
	var milestone *domain.Milestone
	var releaseAmount decimal.Decimal
	if m := input.Escrow.MilestoneForStage(target); m != nil &&
		input.Escrow.HeldAmount.IsPositive() {
		releaseAmount = input.Escrow.ReleaseAmountFor(*m)
		if releaseAmount.IsPositive() {
			callCtx, cancel := context.WithTimeout(ctx, s.collaboratorTimeout)
			err := s.custodian.Release(callCtx, trade.Id, m.Id, releaseAmount)
			cancel()
			if err != nil {
				collaboratorTimeouts.WithLabelValues("custodian").Inc()
				return s.blockTransition(
					ctx, trade, target, domain.ReasonExternalTimeout,
					[]string{"escrow custodian did not respond, retry later"},
					meta.Actor,
				)
			}
			milestone = m
		}
	}

	// Commit point: trade write, escrow write and audit write happen in
	// one storage transaction or not at all.
	seenVersion := trade.Version
	event := domain.NewSuccessEvent(trade.Id, trade.Status, target, meta.Actor)
	var updatedTrade *domain.Trade
	if _, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			if err := s.repoManager.TradeRepository().UpdateTrade(
				ctx, trade.Id, func(t *domain.Trade) (*domain.Trade, error) {
					if t.Version != seenVersion {
						return nil, domain.ErrTradeVersionConflict
					}
					if err := t.MoveTo(target); err != nil {
						return nil, err
					}
					updatedTrade = t
					return t, nil
				},
			); err != nil {
				return nil, err
			}

			if milestone != nil {
				if err := s.repoManager.EscrowRepository().UpdateEscrowAccount(
					ctx, trade.Id,
					func(a *domain.EscrowAccount) (*domain.EscrowAccount, error) {
						if err := a.Release(milestone.Id, releaseAmount); err != nil {
							return nil, err
						}
						return a, nil
					},
				); err != nil {
					return nil, err
				}
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

	countTransition(domain.EventOutcomeSuccess, domain.ReasonNone)
	if err := s.pubsub.PublishTradeTransitionEvent(*event); err != nil {
		log.WithError(err).Warnf(
			"failed to publish transition event for trade %s", trade.Id,
		)
	}
	log.WithFields(log.Fields{
		"trade": trade.Id, "from": event.FromStatus, "to": event.ToStatus,
	}).Debug("trade transitioned")

	return &TransitionResult{Success: true, Trade: updatedTrade}, nil
}

// blockTransition records a blocked attempt in the audit ledger, notifies
// subscribers, and shapes the structured rejection. The trade itself is
// left untouched.
func (s *Service) blockTransition(
	ctx context.Context, trade *domain.Trade, target domain.Status,
	reason domain.ReasonCode, actions []string, actor string,
) (*TransitionResult, error) {
	event := domain.NewBlockedEvent(
		trade.Id, trade.Status, target, reason, actor,
	)
	if _, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, s.repoManager.EventRepository().AppendEvent(ctx, event)
		},
	); err != nil {
		return nil, err
	}

	countTransition(domain.EventOutcomeBlocked, reason)
	if err := s.pubsub.PublishTradeBlockedEvent(*event); err != nil {
		log.WithError(err).Warnf(
			"failed to publish blocked event for trade %s", trade.Id,
		)
	}
	log.WithFields(log.Fields{
		"trade": trade.Id, "target": target, "reason": reason,
	}).Debug("trade transition blocked")

	return &TransitionResult{
		Trade:           trade,
		ReasonCode:      reason,
		RequiredActions: actions,
	}, nil
}

// gatherGuardInput collects the collaborator data the guards run against.
// Compliance lookups run under a bounded timeout; a collaborator that does
// not answer in time yields a blocked result, never an implicit pass.
func (s *Service) gatherGuardInput(
	ctx context.Context, trade *domain.Trade, quoteId string,
) (domain.GuardInput, *domain.GuardResult) {
	var input domain.GuardInput

	escrow, err := s.repoManager.EscrowRepository().GetEscrowAccount(ctx, trade.Id)
	if err != nil {
		return input, &domain.GuardResult{
			ReasonCode:      domain.ReasonExternalTimeout,
			RequiredActions: []string{"escrow ledger unavailable, retry later"},
		}
	}
	input.Escrow = escrow

	callCtx, cancel := context.WithTimeout(ctx, s.collaboratorTimeout)
	defer cancel()

	buyer, err := s.compliance.GetComplianceProfile(callCtx, trade.BuyerId)
	if err != nil {
		collaboratorTimeouts.WithLabelValues("compliance").Inc()
		return input, &domain.GuardResult{
			ReasonCode:      domain.ReasonExternalTimeout,
			RequiredActions: []string{"compliance service did not respond, retry later"},
		}
	}
	seller, err := s.compliance.GetComplianceProfile(callCtx, trade.SellerId)
	if err != nil {
		collaboratorTimeouts.WithLabelValues("compliance").Inc()
		return input, &domain.GuardResult{
			ReasonCode:      domain.ReasonExternalTimeout,
			RequiredActions: []string{"compliance service did not respond, retry later"},
		}
	}
	input.BuyerProfile = buyer
	input.SellerProfile = seller

	if quoteId == "" {
		quoteId = trade.AcceptedQuoteId()
	}
	if quoteId != "" {
		quote, err := s.repoManager.QuoteRepository().GetQuote(ctx, quoteId)
		if err != nil && !errors.Is(err, domain.ErrQuoteNotFound) {
			return input, &domain.GuardResult{
				ReasonCode:      domain.ReasonExternalTimeout,
				RequiredActions: []string{"quote store unavailable, retry later"},
			}
		}
		// An unknown quote is not an infrastructure failure: the guard
		// turns a nil quote into QUOTE_REQUIRED.
		input.AcceptedQuote = quote
	}

	return input, nil
}
