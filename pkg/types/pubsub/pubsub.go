// Package pubsub defines the in-process publish/subscribe contracts used
// to decouple mutation sources from the audit trail recorder.
package pubsub

type Publisher interface {
	Publish(data []byte) error
}

type Subscriber interface {
	Subscribe() error
}

type PubSub interface {
	Publisher
	Subscriber
}
