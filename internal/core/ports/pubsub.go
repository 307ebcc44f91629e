package ports

// AnyTopic subscribes to every topic.
const AnyTopic = "*"

// Subscription is the info of one client subscribed to a topic.
type Subscription interface {
	Topic() string
	Id() string
	IsSecured() bool
	NotifyAt() string
}

// PubSub defines the methods of the notification dispatcher consumed by
// the kernel. The kernel only publishes raw messages per topic; formatting
// and delivering buyer/seller notifications is the subscriber's business.
type PubSub interface {
	// Subscribe adds a new subscription for the requested topic and returns
	// its id.
	Subscribe(topic, endpoint, secret string) (string, error)
	// Unsubscribe removes the subscription with the given id for a topic.
	Unsubscribe(topic, id string) error
	// ListSubscriptionsForTopic returns the info of all clients subscribed
	// for a certain topic.
	ListSubscriptionsForTopic(topic string) []Subscription
	// Publish publishes a message for a certain topic. All clients
	// subscribed for such topic will receive the message.
	Publish(topic string, message string) error
}
