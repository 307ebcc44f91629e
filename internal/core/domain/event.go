package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventOutcome discriminates committed transitions from blocked attempts.
type EventOutcome string

const (
	EventOutcomeSuccess EventOutcome = "success"
	EventOutcomeBlocked EventOutcome = "blocked"
)

// TransitionEvent is one append-only audit ledger entry. Every transition
// attempt, successful or blocked, produces exactly one event; entries are
// never modified or deleted.
type TransitionEvent struct {
	Id      string
	TradeId string
	// Sequence is assigned by the event repository inside the storage
	// transaction, monotonically increasing per trade, so replay is
	// deterministic.
	Sequence   uint64
	FromStatus Status
	ToStatus   Status
	Outcome    EventOutcome
	ReasonCode ReasonCode
	Actor      string
	Timestamp  time.Time
}

// NewSuccessEvent returns the audit entry for a committed transition.
func NewSuccessEvent(tradeId string, from, to Status, actor string) *TransitionEvent {
	return &TransitionEvent{
		Id:         uuid.New().String(),
		TradeId:    tradeId,
		FromStatus: from,
		ToStatus:   to,
		Outcome:    EventOutcomeSuccess,
		Actor:      actor,
		Timestamp:  time.Now(),
	}
}

// NewBlockedEvent returns the audit entry for a rejected transition
// attempt.
func NewBlockedEvent(
	tradeId string, from, to Status, reason ReasonCode, actor string,
) *TransitionEvent {
	return &TransitionEvent{
		Id:         uuid.New().String(),
		TradeId:    tradeId,
		FromStatus: from,
		ToStatus:   to,
		Outcome:    EventOutcomeBlocked,
		ReasonCode: reason,
		Actor:      actor,
		Timestamp:  time.Now(),
	}
}
