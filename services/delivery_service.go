package services

import (
	"context"
	"log"
	"sync"
	"time"
)

// Live delivery states for a message. Only the read flag is persisted;
// delivered exists solely as a realtime signal and is lost on restart.
// A reconnecting client re-fetches the log and marks it read directly.
const (
	DeliverySent      = "sent"
	DeliveryDelivered = "delivered"
	DeliveryRead      = "read"
)

const (
	// deliveryRetention is how long an entry outlives its last
	// transition. Live acks settle within seconds; once the window
	// passes, the message's durable read flag is the source of truth
	// and the entry can be forgotten.
	deliveryRetention = time.Minute

	// evictInterval is how often settled entries are collected.
	evictInterval = time.Minute
)

var deliveryRank = map[string]int{
	DeliverySent:      0,
	DeliveryDelivered: 1,
	DeliveryRead:      2,
}

type deliveryEntry struct {
	status    string
	updatedAt time.Time
}

// DeliveryTracker enforces the forward-only sent -> delivered -> read
// transition for live acknowledgements. Messages with no entry are at
// the initial sent state.
type DeliveryTracker struct {
	mu    sync.Mutex
	state map[string]deliveryEntry
}

func NewDeliveryTracker() *DeliveryTracker {
	return &DeliveryTracker{state: make(map[string]deliveryEntry)}
}

// Advance moves a message forward to status. It returns false when the
// status is unknown or the transition would repeat or regress, so a
// late delivered ack after read is dropped.
func (t *DeliveryTracker) Advance(messageID, status string) bool {
	rank, ok := deliveryRank[status]
	if !ok {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	current := DeliverySent
	if e, ok := t.state[messageID]; ok {
		current = e.status
	}
	if rank <= deliveryRank[current] {
		return false
	}
	t.state[messageID] = deliveryEntry{status: status, updatedAt: time.Now()}
	return true
}

// Status returns the current live state of a message.
func (t *DeliveryTracker) Status(messageID string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.state[messageID]; ok {
		return e.status
	}
	return DeliverySent
}

// Run evicts settled entries every evictInterval until ctx is
// cancelled, so the tracker does not grow for the life of the process.
func (t *DeliveryTracker) Run(ctx context.Context) {
	ticker := time.NewTicker(evictInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("delivery tracker stopped")
			return
		case now := <-ticker.C:
			t.evict(now)
		}
	}
}

// evict drops entries whose last transition is older than
// deliveryRetention. Entries inside the window stay so the monotonic
// check still rejects late or duplicate acks.
func (t *DeliveryTracker) evict(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, e := range t.state {
		if now.Sub(e.updatedAt) > deliveryRetention {
			delete(t.state, id)
		}
	}
}
