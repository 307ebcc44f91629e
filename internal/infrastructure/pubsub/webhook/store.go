package webhookpubsub

import (
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
)

// webhookStore persists subscriptions in a dedicated badgerhold store so
// they survive daemon restarts. An empty dir opens it in memory.
type webhookStore struct {
	store *badgerhold.Store
}

func newWebhookStore(baseDbDir string, logger badger.Logger) (*webhookStore, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, "webhooks")
	}

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger
	if len(dbDir) <= 0 {
		opts.InMemory = true
	}

	store, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, fmt.Errorf("opening webhook db: %w", err)
	}
	return &webhookStore{store}, nil
}

func (s *webhookStore) add(hook *Webhook) error {
	if err := s.store.Insert(hook.ID, hook); err != nil {
		if err == badgerhold.ErrKeyExists {
			return nil
		}
		return err
	}
	return nil
}

func (s *webhookStore) get(id string) (*Webhook, error) {
	var hook Webhook
	if err := s.store.Get(id, &hook); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &hook, nil
}

func (s *webhookStore) remove(id string) error {
	if err := s.store.Delete(id, Webhook{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil
		}
		return err
	}
	return nil
}

// listForTopic returns the hooks subscribed to the given topic, including
// those subscribed to every topic.
func (s *webhookStore) listForTopic(topic string) ([]*Webhook, error) {
	query := badgerhold.Where("TopicKey").Eq(topic)
	if topic != topicAll {
		query = query.Or(badgerhold.Where("TopicKey").Eq(topicAll))
	}

	var hooks []Webhook
	if err := s.store.Find(&hooks, query); err != nil {
		return nil, err
	}

	list := make([]*Webhook, 0, len(hooks))
	for i := range hooks {
		list = append(list, &hooks[i])
	}
	return list, nil
}

func (s *webhookStore) close() {
	s.store.Close()
}
