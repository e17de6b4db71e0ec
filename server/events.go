package main

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Event tells dashboards that a collection changed and should be re-fetched.
type Event struct {
	Type   string `json:"type"`
	Entity string `json:"entity"`
	ID     int64  `json:"id"`
}

const (
	eventCreated = "created"
	eventUpdated = "updated"
	eventDeleted = "deleted"
)

type EventBus struct {
	mu        sync.RWMutex
	subs      map[chan []byte]struct{}
	heartbeat time.Duration
}

func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[chan []byte]struct{}), heartbeat: 25 * time.Second}
}

func (b *EventBus) Subscribe() (ch chan []byte, cancel func()) {
	ch = make(chan []byte, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
}

func (b *EventBus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *EventBus) Publish(ev Event) {
	data, _ := json.Marshal(ev)
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- data:
		default: // drop if slow
		}
	}
}

// ServeSSE streams every published event until the client goes away.
func (b *EventBus) ServeSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "stream unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := b.Subscribe()
	defer cancel()

	// Initial comment to open the stream
	_, _ = w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	ticker := time.NewTicker(b.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			// heartbeat comment to keep connection alive through proxies
			_, _ = w.Write([]byte(": ping\n\n"))
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write([]byte("data: "))
			_, _ = w.Write(msg)
			_, _ = w.Write([]byte("\n\n"))
			flusher.Flush()
		}
	}
}

func (a *api) publish(typ, entity string, id int64) {
	a.bus.Publish(Event{Type: typ, Entity: entity, ID: id})
}

func (a *api) handleEvents(w http.ResponseWriter, r *http.Request) {
	a.bus.ServeSSE(w, r)
}
