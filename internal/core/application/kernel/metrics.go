package kernel

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tradelane-network/tradelane-daemon/internal/core/domain"
)

var (
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tradelane",
		Name:      "transitions_total",
		Help:      "Transition attempts by outcome and reason code.",
	}, []string{"outcome", "reason"})

	collaboratorTimeouts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tradelane",
		Name:      "collaborator_timeouts_total",
		Help:      "Collaborator calls that did not respond in time.",
	}, []string{"collaborator"})
)

func countTransition(outcome domain.EventOutcome, reason domain.ReasonCode) {
	transitionsTotal.WithLabelValues(string(outcome), string(reason)).Inc()
}
