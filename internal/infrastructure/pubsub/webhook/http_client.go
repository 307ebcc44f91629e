package webhookpubsub

import (
	"context"
	"io"
	"net/http"
	"strings"
)

// deliveryClient posts event payloads to webhook endpoints. Every request
// carries the caller's context, so a delivery is abandoned as soon as its
// deadline expires.
type deliveryClient struct {
	client *http.Client
}

func newDeliveryClient() *deliveryClient {
	return &deliveryClient{client: &http.Client{}}
}

func (c *deliveryClient) post(
	ctx context.Context, endpoint, payload string, headers map[string]string,
) (int, string, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, endpoint, strings.NewReader(payload),
	)
	if err != nil {
		return 0, "", err
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	rs, err := c.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer rs.Body.Close()

	body, err := io.ReadAll(rs.Body)
	if err != nil {
		return 0, "", err
	}
	return rs.StatusCode, string(body), nil
}
