package services

import (
	"context"
	"log"
	"sync"
	"time"
)

const (
	// typingTTL is how long a typing entry stays alive without a fresh
	// typing_started signal.
	typingTTL = 5 * time.Second

	// sweepInterval is how often stale typing entries are collected.
	sweepInterval = 5 * time.Second
)

type typingKey struct {
	conversationID string
	userID         string
}

// PresenceTracker holds the process-local online and typing state.
// Constructed at server start, torn down by cancelling the context
// passed to Run. All maps are guarded by mu; events are emitted outside
// the lock.
type PresenceTracker struct {
	mu      sync.RWMutex
	online  map[string]string // userID -> connection id
	typing  map[typingKey]time.Time
	emitter Emitter
}

func NewPresenceTracker(emitter Emitter) *PresenceTracker {
	return &PresenceTracker{
		online:  make(map[string]string),
		typing:  make(map[typingKey]time.Time),
		emitter: emitter,
	}
}

// MarkOnline registers a live connection for userID and broadcasts the
// presence change.
func (t *PresenceTracker) MarkOnline(userID, connectionID string) {
	t.mu.Lock()
	t.online[userID] = connectionID
	t.mu.Unlock()

	t.emitter.Broadcast(EventPresenceChanged, PresencePayload{UserID: userID, Online: true})
}

// MarkOffline removes the user's connection and any typing entries left
// behind by it, emitting typing=false for each so the other side does
// not show a stuck indicator until the sweep.
func (t *PresenceTracker) MarkOffline(userID string) {
	t.mu.Lock()
	delete(t.online, userID)
	var stale []typingKey
	for key := range t.typing {
		if key.userID == userID {
			stale = append(stale, key)
			delete(t.typing, key)
		}
	}
	t.mu.Unlock()

	for _, key := range stale {
		t.emitter.ToConversationExcept(key.conversationID, key.userID, EventUserTyping,
			TypingPayload{ConversationID: key.conversationID, UserID: key.userID, Typing: false})
	}
	t.emitter.Broadcast(EventPresenceChanged, PresencePayload{UserID: userID, Online: false})
}

// IsOnline reports whether the user currently has a live connection.
func (t *PresenceTracker) IsOnline(userID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.online[userID]
	return ok
}

// StartTyping upserts a typing entry and notifies the other side of the
// conversation.
func (t *PresenceTracker) StartTyping(conversationID, userID string) {
	t.mu.Lock()
	t.typing[typingKey{conversationID, userID}] = time.Now()
	t.mu.Unlock()

	t.emitter.ToConversationExcept(conversationID, userID, EventUserTyping,
		TypingPayload{ConversationID: conversationID, UserID: userID, Typing: true})
}

// StopTyping removes the entry. The typing=false event only fires if an
// entry existed, so an explicit stop after a sweep stays silent.
func (t *PresenceTracker) StopTyping(conversationID, userID string) {
	key := typingKey{conversationID, userID}

	t.mu.Lock()
	_, existed := t.typing[key]
	delete(t.typing, key)
	t.mu.Unlock()

	if existed {
		t.emitter.ToConversationExcept(conversationID, userID, EventUserTyping,
			TypingPayload{ConversationID: conversationID, UserID: userID, Typing: false})
	}
}

// Run sweeps stale typing entries every sweepInterval until ctx is
// cancelled. A client that crashes mid-type never sends typing_stopped;
// the sweep is what clears its indicator.
func (t *PresenceTracker) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("presence tracker stopped")
			return
		case now := <-ticker.C:
			t.sweep(now)
		}
	}
}

// sweep removes every typing entry older than typingTTL and emits
// exactly one typing=false per removed entry.
func (t *PresenceTracker) sweep(now time.Time) {
	t.mu.Lock()
	var stale []typingKey
	for key, startedAt := range t.typing {
		if now.Sub(startedAt) > typingTTL {
			stale = append(stale, key)
			delete(t.typing, key)
		}
	}
	t.mu.Unlock()

	for _, key := range stale {
		t.emitter.ToConversationExcept(key.conversationID, key.userID, EventUserTyping,
			TypingPayload{ConversationID: key.conversationID, UserID: key.userID, Typing: false})
	}
}
