package bus

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus() *Bus {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestBus_EmitDeliversInSubscriptionOrder(t *testing.T) {
	b := newTestBus()

	var order []string
	b.Subscribe("topic", func(payload any) { order = append(order, "first") })
	b.Subscribe("topic", func(payload any) { order = append(order, "second") })
	b.Subscribe("topic", func(payload any) { order = append(order, "third") })

	b.Emit("topic", nil)

	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestBus_EmitPassesPayload(t *testing.T) {
	b := newTestBus()

	var got any
	b.Subscribe("topic", func(payload any) { got = payload })

	b.Emit("topic", 42)

	assert.Equal(t, 42, got)
}

func TestBus_EmitUnknownTopicIsNoop(t *testing.T) {
	b := newTestBus()

	// Must not panic or deliver anywhere.
	b.Emit("nobody-listens", "payload")
	assert.Equal(t, 0, b.SubscriberCount("nobody-listens"))
}

func TestBus_Unsubscribe(t *testing.T) {
	b := newTestBus()

	calls := 0
	unsub := b.Subscribe("topic", func(payload any) { calls++ })

	b.Emit("topic", nil)
	require.Equal(t, 1, calls)

	unsub()
	b.Emit("topic", nil)
	assert.Equal(t, 1, calls, "handler should not run after unsubscribe")
	assert.Equal(t, 0, b.SubscriberCount("topic"))
}

func TestBus_UnsubscribeTwiceIsNoop(t *testing.T) {
	b := newTestBus()

	b.Subscribe("topic", func(payload any) {})
	unsub := b.Subscribe("topic", func(payload any) {})

	unsub()
	unsub()

	assert.Equal(t, 1, b.SubscriberCount("topic"))
}

func TestBus_PanicIsolation(t *testing.T) {
	b := newTestBus()

	var after []string
	b.Subscribe("topic", func(payload any) { panic("handler blew up") })
	b.Subscribe("topic", func(payload any) { after = append(after, "survivor") })

	require.NotPanics(t, func() { b.Emit("topic", nil) })
	assert.Equal(t, []string{"survivor"}, after, "handlers after a panicking one should still run")
}

func TestBus_SubscribeDuringDeliveryTakesEffectNextEmit(t *testing.T) {
	b := newTestBus()

	calls := 0
	b.Subscribe("topic", func(payload any) {
		b.Subscribe("topic", func(payload any) { calls++ })
	})

	b.Emit("topic", nil)
	assert.Equal(t, 0, calls, "handler added during delivery must not see the current emit")

	b.Emit("topic", nil)
	assert.Equal(t, 1, calls)
}

func TestBus_UnsubscribeDuringDeliveryTakesEffectNextEmit(t *testing.T) {
	b := newTestBus()

	var unsubSecond func()
	calls := 0
	b.Subscribe("topic", func(payload any) { unsubSecond() })
	unsubSecond = b.Subscribe("topic", func(payload any) { calls++ })

	b.Emit("topic", nil)
	assert.Equal(t, 1, calls, "snapshot means the current emit still reaches the handler")

	b.Emit("topic", nil)
	assert.Equal(t, 1, calls)
}

func TestBus_ReentrantEmit(t *testing.T) {
	b := newTestBus()

	var order []string
	b.Subscribe("inner", func(payload any) { order = append(order, "inner") })
	b.Subscribe("outer", func(payload any) {
		order = append(order, "outer-before")
		b.Emit("inner", nil)
		order = append(order, "outer-after")
	})

	b.Emit("outer", nil)

	assert.Equal(t, []string{"outer-before", "inner", "outer-after"}, order)
}
