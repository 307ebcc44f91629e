package domain

// Status is the lifecycle stage of a trade. The progression spine runs
// strictly forward one stage at a time; cancelled and disputed are escape
// hatches reachable from any non-terminal stage.
type Status string

const (
	StatusRFQOpen         Status = "rfq_open"
	StatusQuoted          Status = "quoted"
	StatusContracted      Status = "contracted"
	StatusEscrowRequired  Status = "escrow_required"
	StatusEscrowFunded    Status = "escrow_funded"
	StatusProduction      Status = "production"
	StatusPickupScheduled Status = "pickup_scheduled"
	StatusInTransit       Status = "in_transit"
	StatusDelivered       Status = "delivered"
	StatusSettled         Status = "settled"

	StatusCancelled        Status = "cancelled"
	StatusDisputed         Status = "disputed"
	StatusDisputedResolved Status = "disputed_resolved"
)

// spine is the ordered happy path of a trade.
var spine = []Status{
	StatusRFQOpen,
	StatusQuoted,
	StatusContracted,
	StatusEscrowRequired,
	StatusEscrowFunded,
	StatusProduction,
	StatusPickupScheduled,
	StatusInTransit,
	StatusDelivered,
	StatusSettled,
}

var spineIndex = func() map[Status]int {
	m := make(map[Status]int, len(spine))
	for i, s := range spine {
		m[s] = i
	}
	return m
}()

var terminalStatuses = map[Status]struct{}{
	StatusSettled:          {},
	StatusCancelled:        {},
	StatusDisputedResolved: {},
}

// IsValid returns whether s names a known lifecycle stage.
func (s Status) IsValid() bool {
	if _, ok := spineIndex[s]; ok {
		return true
	}
	switch s {
	case StatusCancelled, StatusDisputed, StatusDisputedResolved:
		return true
	}
	return false
}

// IsTerminal returns whether s accepts no further transitions.
func (s Status) IsTerminal() bool {
	_, ok := terminalStatuses[s]
	return ok
}

// SpineIndex returns the zero-based position of s on the progression
// spine, or -1 for the off-spine stages.
func (s Status) SpineIndex() int {
	if i, ok := spineIndex[s]; ok {
		return i
	}
	return -1
}

// NextOnSpine returns the stage following s on the progression spine.
func (s Status) NextOnSpine() (Status, bool) {
	i, ok := spineIndex[s]
	if !ok || i == len(spine)-1 {
		return "", false
	}
	return spine[i+1], true
}

// CanTransitionTo reports whether moving from s to target is legal on the
// stage graph, ignoring guards. Terminal stages accept nothing; disputed
// resolves only to disputed_resolved, since an open dispute supersedes
// cancellation and must be resolved explicitly; cancellation and dispute
// are legal from any other non-terminal stage; otherwise only the single
// next spine stage is reachable.
func (s Status) CanTransitionTo(target Status) bool {
	if !target.IsValid() || s.IsTerminal() {
		return false
	}
	if s == StatusDisputed {
		return target == StatusDisputedResolved
	}
	if target == StatusCancelled || target == StatusDisputed {
		return true
	}
	next, ok := s.NextOnSpine()
	return ok && target == next
}

// CertificateGated returns whether entering s requires a valid
// preferential-origin certificate. Only the stages that affect final fund
// release are gated; earlier logistics stages are not.
func (s Status) CertificateGated() bool {
	return s == StatusDelivered || s == StatusSettled
}
