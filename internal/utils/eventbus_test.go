package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRunDeliversToSubscribers(t *testing.T) {
	bus := NewEventBus(zap.NewNop())
	got := make(chan Event, 1)
	bus.Subscribe("card_created", func(e Event) { got <- e })
	go bus.Run()

	bus.Publish("card_created", map[string]interface{}{"card_id": uint64(5)})

	select {
	case e := <-got:
		assert.Equal(t, uint64(5), e.Data["card_id"])
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestPublishLogsDropWhenBufferFull(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	bus := NewEventBus(zap.New(core))

	// No dispatcher running, so the buffer fills silently.
	for i := 0; i < eventBufferSize; i++ {
		bus.Publish("card_updated", nil)
	}
	assert.Zero(t, logs.Len())

	bus.Publish("card_updated", nil)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Contains(t, entry.Message, "dropped")
	assert.Equal(t, "card_updated", entry.ContextMap()["event"])
}
