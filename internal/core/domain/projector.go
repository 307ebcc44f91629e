package domain

// NextAction is the single recommended step surfaced to a reader.
type NextAction struct {
	Title string `json:"title"`
	// TargetStatus is set when the action is advancing the trade to the
	// next stage on the spine.
	TargetStatus Status `json:"target_status,omitempty"`
}

// Projection is the UI-facing view of a trade's lifecycle position. It is
// recomputed on every read and never stored, so polling readers can never
// desynchronize from the kernel's ground truth.
type Projection struct {
	CurrentStageIndex int        `json:"current_stage_index"`
	NextAction        NextAction `json:"next_action"`
	IsTerminal        bool       `json:"is_terminal"`
}

// Project composes the read model from a trade, its escrow account and the
// latest guard result. Pure function of its inputs.
func Project(trade *Trade, escrow *EscrowAccount, latestGuard GuardResult) Projection {
	p := Projection{
		CurrentStageIndex: trade.Status.SpineIndex(),
		IsTerminal:        trade.IsTerminal(),
	}
	if p.IsTerminal {
		p.NextAction = NextAction{Title: "none, trade is closed"}
		return p
	}

	if trade.Status == StatusDisputed {
		p.NextAction = NextAction{
			Title:        "resolve the open dispute",
			TargetStatus: StatusDisputedResolved,
		}
		return p
	}

	if !latestGuard.Passed && len(latestGuard.RequiredActions) > 0 {
		p.NextAction = NextAction{Title: latestGuard.RequiredActions[0]}
		return p
	}

	if next, ok := trade.Status.NextOnSpine(); ok {
		p.NextAction = NextAction{
			Title:        "advance trade to " + string(next),
			TargetStatus: next,
		}
	}
	return p
}
