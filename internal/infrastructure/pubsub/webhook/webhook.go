package webhookpubsub

import (
	"encoding/json"
	"net/url"

	"github.com/google/uuid"
	"github.com/thanhpk/randstr"
	"github.com/tradelane-network/tradelane-daemon/internal/core/ports"
)

// Webhook is one endpoint subscribed to kernel event topics. When the
// subscriber provides no secret a random one is generated, so every
// delivery can be signed.
type Webhook struct {
	ID       string `json:"id"`
	TopicKey string `json:"topic"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret"`
}

func NewWebhook(topic, endpoint, secret string) (*Webhook, error) {
	if !isKnownTopic(topic) {
		return nil, ErrInvalidTopic
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, ErrInvalidEndpoint
	}
	if secret == "" {
		secret = randstr.Hex(32)
	}
	return &Webhook{uuid.New().String(), topic, endpoint, secret}, nil
}

func NewWebhookFromBytes(buf []byte) (*Webhook, error) {
	h := &Webhook{}
	if err := json.Unmarshal(buf, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Webhook) Topic() string {
	return h.TopicKey
}

func (h *Webhook) Id() string {
	return h.ID
}

func (h *Webhook) NotifyAt() string {
	return h.Endpoint
}

func (h *Webhook) IsSecured() bool {
	return len(h.Secret) > 0
}

func (h *Webhook) Serialize() []byte {
	b, _ := json.Marshal(*h)
	return b
}

var _ ports.Subscription = (*Webhook)(nil)
