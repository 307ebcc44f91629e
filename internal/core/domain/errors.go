package domain

import "errors"

var (
	// ErrTradeInvalidTransition is thrown when the requested target is not a
	// legal next stage for the trade's current status.
	ErrTradeInvalidTransition = errors.New(
		"target is not a legal next stage for the trade's current status",
	)
	// ErrTradeNotFound ...
	ErrTradeNotFound = errors.New("trade not found")
	// ErrTradeVersionConflict is thrown when another transition committed
	// first for the same trade.
	ErrTradeVersionConflict = errors.New(
		"trade was modified by a concurrent transition",
	)
	// ErrTradeNotRFQ is thrown when performing a quote operation on a trade
	// that did not originate from an RFQ.
	ErrTradeNotRFQ = errors.New("trade is not RFQ-originated")
	// ErrTradeQuoteAlreadyAccepted ...
	ErrTradeQuoteAlreadyAccepted = errors.New(
		"a quote has already been accepted for this trade",
	)

	// ErrQuoteNotFound ...
	ErrQuoteNotFound = errors.New("quote not found")
	// ErrQuoteNotSubmitted is thrown when accepting or rejecting a quote
	// that is not in submitted status.
	ErrQuoteNotSubmitted = errors.New("quote is not in submitted status")

	// ErrEscrowNotFound ...
	ErrEscrowNotFound = errors.New("escrow account not found")
	// ErrEscrowAlreadyHeld is thrown on a double hold attempt.
	ErrEscrowAlreadyHeld = errors.New("escrow account already holds funds")
	// ErrEscrowMilestoneReleased is thrown when releasing a milestone that
	// has already been released.
	ErrEscrowMilestoneReleased = errors.New("milestone has already been released")
	// ErrEscrowOverRelease is thrown when a release would push the released
	// amount over the held amount.
	ErrEscrowOverRelease = errors.New(
		"released amount cannot exceed held amount",
	)
	// ErrEscrowUnknownMilestone ...
	ErrEscrowUnknownMilestone = errors.New("milestone is not part of the schedule")
)
