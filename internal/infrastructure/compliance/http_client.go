// Package compliance implements the ComplianceProvider port against the
// HTTP API of the external compliance service.
package compliance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/tradelane-network/tradelane-daemon/internal/core/domain"
	"github.com/tradelane-network/tradelane-daemon/internal/core/ports"
)

type httpClient struct {
	baseUrl string
	client  *http.Client
	cb      *gobreaker.CircuitBreaker
}

// NewHTTPClient returns a ComplianceProvider talking to the compliance
// service at baseUrl. Calls are bounded by the given request timeout and
// wrapped in a circuit breaker so a flapping collaborator does not pile up
// blocked transitions.
func NewHTTPClient(
	baseUrl string, requestTimeout time.Duration,
) (ports.ComplianceProvider, error) {
	if _, err := url.ParseRequestURI(baseUrl); err != nil {
		return nil, fmt.Errorf("compliance service url is invalid: %w", err)
	}

	return &httpClient{
		baseUrl: baseUrl,
		client:  &http.Client{Timeout: requestTimeout},
		cb:      newCircuitBreaker("compliance"),
	}, nil
}

func (c *httpClient) GetComplianceProfile(
	ctx context.Context, partyId string,
) (*domain.ComplianceProfile, error) {
	res, err := c.cb.Execute(func() (interface{}, error) {
		endpoint := fmt.Sprintf("%s/v1/profiles/%s", c.baseUrl, partyId)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}

		rs, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer rs.Body.Close()

		if rs.StatusCode != http.StatusOK {
			return nil, fmt.Errorf(
				"compliance service replied with status %d", rs.StatusCode,
			)
		}

		profile := &domain.ComplianceProfile{}
		if err := json.NewDecoder(rs.Body).Decode(profile); err != nil {
			return nil, err
		}
		return profile, nil
	})
	if err != nil {
		return nil, err
	}

	return res.(*domain.ComplianceProfile), nil
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
