// Package bus carries change notifications between the telemetry pipeline
// and the live views. Streams are named after the inserted entity; payloads
// are the JSON-encoded entity itself.
package bus

import "context"

// Stream names.
const (
	StreamReadingInserted = "reading-inserted"
	StreamAlertInserted   = "alert-inserted"
)

// Handler receives the JSON payload of an inserted entity. Handlers for the
// same sensor key are invoked in arrival order; no ordering holds across
// sensors.
type Handler func(payload []byte)

// Publisher emits an inserted entity on a named stream. The key groups
// payloads that must stay ordered relative to each other (the sensor id).
type Publisher interface {
	Publish(ctx context.Context, stream, key string, payload []byte) error
}

// Subscriber registers a handler for a named stream. The returned function
// removes the subscription; after it returns the handler is never invoked
// again.
type Subscriber interface {
	Subscribe(stream string, h Handler) (unsubscribe func())
}

// Bus is both ends of the change-notification channel.
type Bus interface {
	Publisher
	Subscriber
}
