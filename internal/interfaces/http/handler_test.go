package httpinterface_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tradelane-network/tradelane-daemon/internal/core/application/kernel"
	"github.com/tradelane-network/tradelane-daemon/internal/core/application/pubsub"
	"github.com/tradelane-network/tradelane-daemon/internal/infrastructure/compliance"
	"github.com/tradelane-network/tradelane-daemon/internal/infrastructure/custodian"
	dbinmemory "github.com/tradelane-network/tradelane-daemon/internal/infrastructure/storage/db/inmemory"
	httpinterface "github.com/tradelane-network/tradelane-daemon/internal/interfaces/http"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	hub := httpinterface.NewEventHub()
	pubsubSvc := pubsub.NewService(hub)
	kernelSvc, err := kernel.NewService(
		dbinmemory.NewRepoManager(),
		compliance.NewVerifiedProvider(),
		custodian.NewInMemoryCustodian(),
		pubsubSvc, 0,
	)
	require.NoError(t, err)

	server := httptest.NewServer(
		httpinterface.NewService(kernelSvc, pubsubSvc, hub).Handler(),
	)
	t.Cleanup(server.Close)
	return server
}

func doJSON(
	t *testing.T, server *httptest.Server, method, path string,
	payload interface{},
) (int, map[string]interface{}) {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(buf)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, server.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rs, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer rs.Body.Close()

	out := map[string]interface{}{}
	json.NewDecoder(rs.Body).Decode(&out)
	return rs.StatusCode, out
}

func TestTradeLifecycleOverHTTP(t *testing.T) {
	server := newTestServer(t)

	status, created := doJSON(t, server, http.MethodPost, "/v1/trades", map[string]interface{}{
		"type":         "rfq",
		"buyer_id":     "buyer-1",
		"seller_id":    "seller-1",
		"total_amount": "5000",
		"currency":     "EUR",
		"product_ref":  "shea-butter-25kg",
		"quantity":     100,
		"unit_price":   "50",
		"actor":        "buyer-1",
	})
	require.Equal(t, http.StatusCreated, status)

	trade := created["trade"].(map[string]interface{})
	tradeId := trade["id"].(string)
	require.Equal(t, "rfq_open", trade["status"])

	status, quote := doJSON(t, server, http.MethodPost,
		fmt.Sprintf("/v1/trades/%s/quotes", tradeId),
		map[string]interface{}{
			"supplier_id": "seller-1",
			"unit_price":  "50",
			"total_price": "5000",
			"incoterms":   "FOB",
		},
	)
	require.Equal(t, http.StatusCreated, status)
	quoteId := quote["id"].(string)

	status, _ = doJSON(t, server, http.MethodPost,
		fmt.Sprintf("/v1/trades/%s/quotes/%s/accept", tradeId, quoteId), nil,
	)
	require.Equal(t, http.StatusOK, status)

	status, res := doJSON(t, server, http.MethodPost,
		fmt.Sprintf("/v1/trades/%s/transition", tradeId),
		map[string]interface{}{"target_status": "contracted", "actor": "buyer-1"},
	)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, res["success"])

	status, _ = doJSON(t, server, http.MethodPost,
		fmt.Sprintf("/v1/trades/%s/transition", tradeId),
		map[string]interface{}{"target_status": "escrow_required"},
	)
	require.Equal(t, http.StatusOK, status)

	// Blocked transitions come back as structured 409 rejections.
	status, rejection := doJSON(t, server, http.MethodPost,
		fmt.Sprintf("/v1/trades/%s/transition", tradeId),
		map[string]interface{}{"target_status": "escrow_funded"},
	)
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, "FUNDING_REQUIRED", rejection["reason_code"])
	require.NotEmpty(t, rejection["required_actions"])

	status, escrow := doJSON(t, server, http.MethodPost,
		fmt.Sprintf("/v1/trades/%s/escrow/fund", tradeId), nil,
	)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "5000", escrow["held_amount"])

	status, _ = doJSON(t, server, http.MethodPost,
		fmt.Sprintf("/v1/trades/%s/transition", tradeId),
		map[string]interface{}{"target_status": "escrow_funded"},
	)
	require.Equal(t, http.StatusOK, status)

	status, state := doJSON(t, server, http.MethodGet, "/v1/trades/"+tradeId, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "escrow_funded", state["trade"].(map[string]interface{})["status"])
	require.NotEmpty(t, state["audit_tail"])
	require.NotNil(t, state["projection"])

	status, events := doJSON(t, server, http.MethodGet,
		fmt.Sprintf("/v1/trades/%s/events?limit=2", tradeId), nil,
	)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, events["events"], 2)
}

func TestHTTPErrors(t *testing.T) {
	server := newTestServer(t)

	status, _ := doJSON(t, server, http.MethodGet, "/v1/trades/unknown", nil)
	require.Equal(t, http.StatusNotFound, status)

	status, _ = doJSON(t, server, http.MethodPost, "/v1/trades", map[string]interface{}{
		"type": "barter",
	})
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, server, http.MethodPost, "/v1/trades/unknown/transition",
		map[string]interface{}{"target_status": "quoted"},
	)
	require.Equal(t, http.StatusNotFound, status)
}

func TestWebhookEndpoints(t *testing.T) {
	server := newTestServer(t)

	// The test stack has no webhook pubsub registered, only the websocket
	// hub, which accepts any topic and returns no id.
	status, _ := doJSON(t, server, http.MethodPost, "/v1/webhooks", map[string]interface{}{
		"topic":    "BAD_TOPIC",
		"endpoint": "http://localhost:8888/hook",
	})
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, server, http.MethodPost, "/v1/webhooks", map[string]interface{}{
		"topic":    "TRADE_TRANSITION",
		"endpoint": "http://localhost:8888/hook",
	})
	require.Equal(t, http.StatusCreated, status)
}
