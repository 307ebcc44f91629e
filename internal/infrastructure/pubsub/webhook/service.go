package webhookpubsub

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/golang-jwt/jwt"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/tradelane-network/tradelane-daemon/internal/core/ports"
	"go.uber.org/ratelimit"
	"golang.org/x/sync/errgroup"
)

const (
	topicTradeTransition = "TRADE_TRANSITION"
	topicTradeBlocked    = "TRADE_BLOCKED"
	topicAll             = ports.AnyTopic

	requestTimeout = 10 * time.Second
)

func isKnownTopic(topic string) bool {
	switch topic {
	case topicTradeTransition, topicTradeBlocked, topicAll:
		return true
	}
	return false
}

type webhookService struct {
	store      *webhookStore
	httpClient *deliveryClient
	cb         *gobreaker.CircuitBreaker
	limiter    ratelimit.Limiter
}

// NewWebhookPubSubService returns a ports.PubSub that delivers kernel
// events to subscribed endpoints as signed JSON POSTs. Deliveries are rate
// limited and go through a circuit breaker to maximize the chances that
// every webhook gets invoked without errors.
func NewWebhookPubSubService(
	baseDbDir string, logger badger.Logger, requestsPerSecond int,
) (ports.PubSub, error) {
	store, err := newWebhookStore(baseDbDir, logger)
	if err != nil {
		return nil, err
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 10
	}

	return &webhookService{
		store:      store,
		httpClient: newDeliveryClient(),
		cb:         newCircuitBreaker(),
		limiter:    ratelimit.New(requestsPerSecond),
	}, nil
}

func (ws *webhookService) Subscribe(topic, endpoint, secret string) (string, error) {
	hook, err := NewWebhook(topic, endpoint, secret)
	if err != nil {
		return "", err
	}
	if err := ws.store.add(hook); err != nil {
		return "", err
	}
	return hook.ID, nil
}

func (ws *webhookService) Unsubscribe(_, id string) error {
	hook, err := ws.store.get(id)
	if err != nil {
		return err
	}
	if hook == nil {
		return ErrWebhookNotFound
	}
	return ws.store.remove(id)
}

func (ws *webhookService) ListSubscriptionsForTopic(topic string) []ports.Subscription {
	hooks, err := ws.store.listForTopic(topic)
	if err != nil {
		log.WithError(err).Warn("failed to list webhooks")
		return nil
	}
	subs := make([]ports.Subscription, len(hooks))
	for i, h := range hooks {
		subs[i] = h
	}
	return subs
}

// Publish makes a POST request to every webhook endpoint registered for
// the given topic.
func (ws *webhookService) Publish(topic string, message string) error {
	if !isKnownTopic(topic) {
		return ErrInvalidTopic
	}
	hooks, err := ws.store.listForTopic(topic)
	if err != nil {
		return err
	}

	eg := &errgroup.Group{}
	for i := range hooks {
		hook := hooks[i]
		eg.Go(func() error { return ws.doRequest(hook, message) })
	}
	return eg.Wait()
}

func (ws *webhookService) Close() {
	ws.store.close()
}

func (ws *webhookService) doRequest(hook *Webhook, payload string) error {
	ws.limiter.Take()

	_, err := ws.cb.Execute(func() (interface{}, error) {
		headers := map[string]string{
			"Content-Type": "application/json",
		}
		if hook.IsSecured() {
			token := jwt.New(jwt.SigningMethodHS256)
			tokenString, _ := token.SignedString([]byte(hook.Secret))
			headers["Authorization"] = fmt.Sprintf("Bearer %s", tokenString)
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		status, resp, err := ws.httpClient.post(ctx, hook.Endpoint, payload, headers)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf(
				"webhook %s replied with status %d: %s", hook.ID, status, resp,
			)
		}
		return nil, nil
	})

	return err
}

func newCircuitBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "webhook",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 10
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Debugf(
				"%s circuit breaker changed state from %s to %s",
				name, from, to,
			)
		},
	})
}
