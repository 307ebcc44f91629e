// Package custodian implements the EscrowCustodian port against the HTTP
// API of the external escrow custodian.
package custodian

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/tradelane-network/tradelane-daemon/internal/core/ports"
)

type httpClient struct {
	baseUrl string
	client  *http.Client
	cb      *gobreaker.CircuitBreaker
}

// NewHTTPClient returns an EscrowCustodian talking to the custodian at
// baseUrl, with bounded request timeouts and a circuit breaker.
func NewHTTPClient(
	baseUrl string, requestTimeout time.Duration,
) (ports.EscrowCustodian, error) {
	if _, err := url.ParseRequestURI(baseUrl); err != nil {
		return nil, fmt.Errorf("custodian url is invalid: %w", err)
	}

	return &httpClient{
		baseUrl: baseUrl,
		client:  &http.Client{Timeout: requestTimeout},
		cb:      newCircuitBreaker("custodian"),
	}, nil
}

func (c *httpClient) Hold(
	ctx context.Context, tradeId string, amount decimal.Decimal,
) error {
	endpoint := fmt.Sprintf("%s/v1/escrows/%s/hold", c.baseUrl, tradeId)
	return c.post(ctx, endpoint, map[string]interface{}{
		"amount": amount,
	})
}

func (c *httpClient) Release(
	ctx context.Context, tradeId, milestoneId string, amount decimal.Decimal,
) error {
	endpoint := fmt.Sprintf("%s/v1/escrows/%s/release", c.baseUrl, tradeId)
	return c.post(ctx, endpoint, map[string]interface{}{
		"milestone_id": milestoneId,
		"amount":       amount,
	})
}

func (c *httpClient) post(
	ctx context.Context, endpoint string, payload map[string]interface{},
) error {
	_, err := c.cb.Execute(func() (interface{}, error) {
		body, _ := json.Marshal(payload)
		req, err := http.NewRequestWithContext(
			ctx, http.MethodPost, endpoint, bytes.NewReader(body),
		)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		rs, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer rs.Body.Close()

		if rs.StatusCode != http.StatusOK {
			return nil, fmt.Errorf(
				"custodian replied with status %d", rs.StatusCode,
			)
		}
		return nil, nil
	})
	return err
}

func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: name,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Debugf(
				"%s circuit breaker changed state from %s to %s",
				name, from, to,
			)
		},
	})
}
