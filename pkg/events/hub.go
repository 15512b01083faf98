package events

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// subscriberBuffer is large enough for a burst of polls from a handful of
// batteries.
const subscriberBuffer = 64

// EventHub fans monitor events out to subscribers. Publishing never blocks a
// monitor: a subscriber whose buffer is full misses the event, so consumers
// must tolerate gaps. Status snapshots are overwritten by the next poll
// anyway.
type EventHub struct {
	mu      sync.RWMutex
	subs    map[chan Event]struct{}
	dropped atomic.Uint64
}

func NewEventHub() *EventHub { return &EventHub{subs: make(map[chan Event]struct{})} }

// Subscribe returns a buffered channel that receives every event published
// from now on until Unsubscribe or Close closes it.
func (h *EventHub) Subscribe() chan Event {
	ch := make(chan Event, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe closes ch. Unknown or already closed channels are ignored.
func (h *EventHub) Unsubscribe(ch chan Event) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Close unsubscribes everyone, closing their channels.
func (h *EventHub) Close() {
	h.mu.Lock()
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Publish encodes payload as JSON and offers it to every subscriber. It is a
// no-op on a nil hub, so monitors can run without one.
func (h *EventHub) Publish(name string, payload any) {
	if h == nil {
		return
	}
	b, err := json.Marshal(payload)
	if err != nil {
		logrus.WithError(err).WithField("event", name).Warn("failed to marshal event payload")
		return
	}
	msg := Event{Name: name, Data: b}
	h.mu.RLock()
	for ch := range h.subs {
		select {
		case ch <- msg:
		default:
			h.dropped.Add(1)
			entry := logrus.WithField("event", name)
			// a dropped alert never reaches the history
			if name == AlertFired {
				entry.Warn("subscriber is slow, alert event dropped")
			} else {
				entry.Debug("subscriber is slow, event dropped")
			}
		}
	}
	h.mu.RUnlock()
}

// Dropped returns how many deliveries were skipped because a subscriber's
// buffer was full.
func (h *EventHub) Dropped() uint64 {
	if h == nil {
		return 0
	}
	return h.dropped.Load()
}
