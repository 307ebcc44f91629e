package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tradelane-network/tradelane-daemon/internal/core/domain"
	"github.com/tradelane-network/tradelane-daemon/internal/core/ports"
)

const (
	// EventTradeTransition is published on every committed transition.
	EventTradeTransition = "TRADE_TRANSITION"
	// EventTradeBlocked is published on every blocked transition attempt.
	EventTradeBlocked = "TRADE_BLOCKED"
)

// Service wraps the pubsub collaborators and builds the kernel's event
// payloads. The kernel never formats or sends buyer/seller messages
// itself, it only emits {trade_id, from, to} for external dispatchers.
type Service struct {
	pubsubs []ports.PubSub
}

func NewService(pubsubs ...ports.PubSub) *Service {
	return &Service{pubsubs}
}

func (s *Service) AddSubscription(
	_ context.Context, topic, endpoint, secret string,
) (string, error) {
	if topic != EventTradeTransition && topic != EventTradeBlocked &&
		topic != ports.AnyTopic {
		return "", fmt.Errorf("invalid event topic %s", topic)
	}
	var id string
	for _, ps := range s.pubsubs {
		subId, err := ps.Subscribe(topic, endpoint, secret)
		if err != nil {
			return "", err
		}
		if id == "" {
			id = subId
		}
	}
	return id, nil
}

func (s *Service) RemoveSubscription(_ context.Context, topic, id string) error {
	for _, ps := range s.pubsubs {
		if err := ps.Unsubscribe(topic, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) ListSubscriptions(
	_ context.Context, topic string,
) []ports.Subscription {
	subs := make([]ports.Subscription, 0)
	for _, ps := range s.pubsubs {
		subs = append(subs, ps.ListSubscriptionsForTopic(topic)...)
	}
	return subs
}

// PublishTradeTransitionEvent notifies subscribers about a committed
// transition.
func (s *Service) PublishTradeTransitionEvent(event domain.TransitionEvent) error {
	payload := map[string]interface{}{
		"event":    EventTradeTransition,
		"trade_id": event.TradeId,
		"from":     event.FromStatus,
		"to":       event.ToStatus,
	}
	message, _ := json.Marshal(payload)
	return s.publish(EventTradeTransition, string(message))
}

// PublishTradeBlockedEvent notifies subscribers about a blocked attempt and
// its reason code.
func (s *Service) PublishTradeBlockedEvent(event domain.TransitionEvent) error {
	payload := map[string]interface{}{
		"event":       EventTradeBlocked,
		"trade_id":    event.TradeId,
		"from":        event.FromStatus,
		"to":          event.ToStatus,
		"reason_code": event.ReasonCode,
	}
	message, _ := json.Marshal(payload)
	return s.publish(EventTradeBlocked, string(message))
}

func (s *Service) publish(topic, message string) error {
	for _, ps := range s.pubsubs {
		if err := ps.Publish(topic, message); err != nil {
			return err
		}
	}
	return nil
}
