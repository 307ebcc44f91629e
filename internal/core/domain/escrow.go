package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Milestone ties a stage-entry event to a partial escrow release. Schedules
// are fixed at trade creation and never renegotiated mid-flight.
type Milestone struct {
	Id      string          `json:"id"`
	Stage   Status          `json:"stage"`
	Percent decimal.Decimal `json:"percent"`
}

// DefaultMilestoneSchedule returns the standard release schedule: 30% of
// the held funds on entering in_transit, the remainder on settlement.
func DefaultMilestoneSchedule() []Milestone {
	return []Milestone{
		{Id: "transit_release", Stage: StatusInTransit, Percent: decimal.NewFromInt(30)},
		{Id: "final_release", Stage: StatusSettled, Percent: decimal.NewFromInt(70)},
	}
}

// EscrowAccount tracks held and released funds for one trade. It is
// one-to-one with a Trade and mutated only as a side effect of successful
// transitions.
type EscrowAccount struct {
	TradeId            string
	HeldAmount         decimal.Decimal
	ReleasedAmount     decimal.Decimal
	ReleasedMilestones []string
	Schedule           []Milestone
	UpdatedAt          time.Time
}

// NewEscrowAccount returns an empty escrow account for the given trade with
// its release schedule locked in.
func NewEscrowAccount(tradeId string, schedule []Milestone) *EscrowAccount {
	return &EscrowAccount{
		TradeId:   tradeId,
		Schedule:  schedule,
		UpdatedAt: time.Now(),
	}
}

// Hold records the custodian hold of amount for the trade. Holding is legal
// only once, on an account with no funds held yet.
func (a *EscrowAccount) Hold(amount decimal.Decimal) error {
	if a.HeldAmount.IsPositive() {
		return ErrEscrowAlreadyHeld
	}
	a.HeldAmount = amount
	a.UpdatedAt = time.Now()
	return nil
}

// Release records the custodian release of amount for the given milestone.
// A milestone can be released at most once and the released total can never
// exceed the held amount.
func (a *EscrowAccount) Release(milestoneId string, amount decimal.Decimal) error {
	if a.MilestoneById(milestoneId) == nil {
		return ErrEscrowUnknownMilestone
	}
	for _, id := range a.ReleasedMilestones {
		if id == milestoneId {
			return ErrEscrowMilestoneReleased
		}
	}
	if a.ReleasedAmount.Add(amount).GreaterThan(a.HeldAmount) {
		return ErrEscrowOverRelease
	}
	a.ReleasedMilestones = append(a.ReleasedMilestones, milestoneId)
	a.ReleasedAmount = a.ReleasedAmount.Add(amount)
	a.UpdatedAt = time.Now()
	return nil
}

// MilestoneForStage returns the milestone fired by entering the given
// stage, or nil if the stage releases nothing.
func (a *EscrowAccount) MilestoneForStage(stage Status) *Milestone {
	for i := range a.Schedule {
		if a.Schedule[i].Stage == stage {
			return &a.Schedule[i]
		}
	}
	return nil
}

// MilestoneById returns the milestone with the given id, or nil.
func (a *EscrowAccount) MilestoneById(id string) *Milestone {
	for i := range a.Schedule {
		if a.Schedule[i].Id == id {
			return &a.Schedule[i]
		}
	}
	return nil
}

// ReleaseAmountFor computes the amount a milestone releases. The last
// milestone of the schedule releases whatever is still held, so rounding on
// percentage milestones can never strand funds.
func (a *EscrowAccount) ReleaseAmountFor(m Milestone) decimal.Decimal {
	if len(a.Schedule) > 0 && a.Schedule[len(a.Schedule)-1].Id == m.Id {
		return a.HeldAmount.Sub(a.ReleasedAmount)
	}
	return a.HeldAmount.Mul(m.Percent).Div(decimal.NewFromInt(100)).Round(2)
}

// IsFullyFunded returns whether the account holds the given trade amount.
func (a *EscrowAccount) IsFullyFunded(tradeAmount decimal.Decimal) bool {
	return a.HeldAmount.Equal(tradeAmount)
}

// CurrentMilestone returns the next milestone of the schedule that has not
// been released yet, or nil once all have fired.
func (a *EscrowAccount) CurrentMilestone() *Milestone {
	for i := range a.Schedule {
		released := false
		for _, id := range a.ReleasedMilestones {
			if id == a.Schedule[i].Id {
				released = true
				break
			}
		}
		if !released {
			return &a.Schedule[i]
		}
	}
	return nil
}

// EscrowView is the read model consumed by progress displays.
type EscrowView struct {
	HeldAmount       decimal.Decimal `json:"held_amount"`
	ReleasedAmount   decimal.Decimal `json:"released_amount"`
	CurrentMilestone string          `json:"current_milestone,omitempty"`
}

// View composes the account's read model.
func (a *EscrowAccount) View() EscrowView {
	v := EscrowView{
		HeldAmount:     a.HeldAmount,
		ReleasedAmount: a.ReleasedAmount,
	}
	if m := a.CurrentMilestone(); m != nil {
		v.CurrentMilestone = m.Id
	}
	return v
}
