// Package bus implements the synchronous publish/subscribe dispatcher that
// every cross-system notification in the core flows through.
//
// Emit invokes all current subscribers for a topic, in subscription order,
// before returning. A handler panic is isolated: it is recovered, logged,
// and the remaining handlers still run. State committed before the emit is
// never rolled back by a faulty observer.
//
// The bus is single-threaded: the whole core runs behind a single-writer
// discipline, so there is no internal locking. Handlers may
// re-enter the bus (subscribe, unsubscribe, emit) within a delivery.
package bus

import "log/slog"

// Handler receives the payload published on a topic.
type Handler func(payload any)

type subscription struct {
	id      int
	handler Handler
}

// Bus is a synchronous topic-keyed dispatcher.
type Bus struct {
	logger *slog.Logger
	topics map[string][]subscription
	nextID int
}

// New creates an empty bus. The logger is required; handler failures are
// reported through it.
func New(logger *slog.Logger) *Bus {
	return &Bus{
		logger: logger,
		topics: make(map[string][]subscription),
	}
}

// Subscribe registers a handler for a topic and returns its unsubscribe
// function. Handlers run in subscription order on every Emit until
// unsubscribed. Unsubscribing twice is a no-op.
func (b *Bus) Subscribe(topic string, h Handler) func() {
	b.nextID++
	id := b.nextID
	b.topics[topic] = append(b.topics[topic], subscription{id: id, handler: h})

	return func() {
		subs := b.topics[topic]
		for i, sub := range subs {
			if sub.id == id {
				b.topics[topic] = append(append([]subscription(nil), subs[:i]...), subs[i+1:]...)
				return
			}
		}
	}
}

// Emit delivers payload to every handler currently subscribed to topic,
// in subscription order, before returning.
//
// The subscriber list is snapshotted first, so handlers that subscribe or
// unsubscribe during delivery take effect on the next Emit, not this one.
func (b *Bus) Emit(topic string, payload any) {
	subs := b.topics[topic]
	if len(subs) == 0 {
		return
	}
	snapshot := make([]subscription, len(subs))
	copy(snapshot, subs)

	for _, sub := range snapshot {
		b.deliver(topic, sub, payload)
	}
}

// deliver runs one handler with panic isolation.
func (b *Bus) deliver(topic string, sub subscription, payload any) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				"topic", topic,
				"subscription", sub.id,
				"panic", r,
			)
		}
	}()
	sub.handler(payload)
}

// SubscriberCount returns the number of handlers currently subscribed to
// topic. Used for testing and introspection.
func (b *Bus) SubscriberCount(topic string) int {
	return len(b.topics[topic])
}
