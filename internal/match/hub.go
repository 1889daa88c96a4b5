// internal/match/hub.go
package match

import (
	"sync"

	"github.com/google/uuid"
)

// Update announces a new stored version of a match.
type Update struct {
	MatchID uuid.UUID
	Version int64
}

// Hub fans match updates out to subscribers. Each subscriber holds at most one
// pending update; a newer one replaces it, since readers always refetch.
type Hub struct {
	mu   sync.Mutex
	subs map[uuid.UUID]map[chan Update]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uuid.UUID]map[chan Update]struct{})}
}

// Subscribe registers for updates to matchID. Call the returned func to stop.
func (h *Hub) Subscribe(matchID uuid.UUID) (<-chan Update, func()) {
	ch := make(chan Update, 1)

	h.mu.Lock()
	if h.subs[matchID] == nil {
		h.subs[matchID] = make(map[chan Update]struct{})
	}
	h.subs[matchID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[matchID], ch)
			if len(h.subs[matchID]) == 0 {
				delete(h.subs, matchID)
			}
			close(ch)
		})
	}
}

// Publish delivers u to every subscriber of u.MatchID without blocking.
func (h *Hub) Publish(u Update) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[u.MatchID] {
		select {
		case ch <- u:
		default:
			// Drop the stale pending update and keep the newest.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- u:
			default:
			}
		}
	}
}

// Subscribers counts the live subscriptions to matchID.
func (h *Hub) Subscribers(matchID uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[matchID])
}
