package webhookpubsub_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	webhookpubsub "github.com/tradelane-network/tradelane-daemon/internal/infrastructure/pubsub/webhook"
)

func TestNewWebhook(t *testing.T) {
	hook, err := webhookpubsub.NewWebhook("TRADE_TRANSITION", "http://localhost:8888/hook", "")
	require.NoError(t, err)
	require.NotEmpty(t, hook.ID)
	require.NotEmpty(t, hook.Secret)
	require.True(t, hook.IsSecured())

	_, err = webhookpubsub.NewWebhook("BAD_TOPIC", "http://localhost:8888/hook", "")
	require.ErrorIs(t, err, webhookpubsub.ErrInvalidTopic)

	_, err = webhookpubsub.NewWebhook("TRADE_BLOCKED", "not a url", "")
	require.ErrorIs(t, err, webhookpubsub.ErrInvalidEndpoint)
}

func TestWebhookSubscriptions(t *testing.T) {
	svc, err := webhookpubsub.NewWebhookPubSubService("", nil, 10)
	require.NoError(t, err)

	transitionId, err := svc.Subscribe("TRADE_TRANSITION", "http://localhost:8888/transitions", "s3cr3t")
	require.NoError(t, err)
	require.NotEmpty(t, transitionId)

	allId, err := svc.Subscribe("*", "http://localhost:8888/all", "")
	require.NoError(t, err)

	// Wildcard subscriptions also show up for specific topics.
	subs := svc.ListSubscriptionsForTopic("TRADE_TRANSITION")
	require.Len(t, subs, 2)
	subs = svc.ListSubscriptionsForTopic("TRADE_BLOCKED")
	require.Len(t, subs, 1)
	require.Equal(t, allId, subs[0].Id())

	require.NoError(t, svc.Unsubscribe("TRADE_TRANSITION", transitionId))
	require.ErrorIs(
		t, svc.Unsubscribe("TRADE_TRANSITION", transitionId),
		webhookpubsub.ErrWebhookNotFound,
	)
	subs = svc.ListSubscriptionsForTopic("TRADE_TRANSITION")
	require.Len(t, subs, 1)
}

func TestWebhookDelivery(t *testing.T) {
	type delivery struct {
		body string
		auth string
	}
	received := make(chan delivery, 1)
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			received <- delivery{
				body: string(body),
				auth: r.Header.Get("Authorization"),
			}
		},
	))
	t.Cleanup(server.Close)

	svc, err := webhookpubsub.NewWebhookPubSubService("", nil, 10)
	require.NoError(t, err)

	_, err = svc.Subscribe("TRADE_TRANSITION", server.URL, "s3cr3t")
	require.NoError(t, err)

	payload := `{"trade_id":"trade-1","to_status":"quoted"}`
	require.NoError(t, svc.Publish("TRADE_TRANSITION", payload))

	got := <-received
	require.Equal(t, payload, got.body)
	require.True(t, strings.HasPrefix(got.auth, "Bearer "))
}
