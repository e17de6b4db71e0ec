package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBusFanOut(t *testing.T) {
	bus := NewEventBus()
	a, cancelA := bus.Subscribe()
	b, cancelB := bus.Subscribe()
	defer cancelA()
	defer cancelB()

	bus.Publish(Event{Type: eventCreated, Entity: "media", ID: 7})

	for _, ch := range []chan []byte{a, b} {
		select {
		case msg := <-ch:
			assert.JSONEq(t, `{"type":"created","entity":"media","id":7}`, string(msg))
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}
}

func TestEventBusDropsForSlowSubscriber(t *testing.T) {
	bus := NewEventBus()
	ch, cancel := bus.Subscribe()
	for i := 0; i < 40; i++ {
		bus.Publish(Event{Type: eventUpdated, Entity: "person", ID: int64(i)})
	}
	assert.Len(t, ch, cap(ch))

	cancel()
	cancel()
	assert.Zero(t, bus.Subscribers())
	bus.Publish(Event{Type: eventDeleted, Entity: "person", ID: 1})
}

func TestServeSSE(t *testing.T) {
	bus := NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil).WithContext(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		bus.ServeSSE(rec, req)
	}()
	require.Eventually(t, func() bool { return bus.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

	bus.Publish(Event{Type: eventDeleted, Entity: "line", ID: 3})
	// give the stream a moment to write before closing it
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, ": connected\n\n"))
	assert.Contains(t, body, `data: {"type":"deleted","entity":"line","id":3}`+"\n\n")
	assert.Zero(t, bus.Subscribers())
}
