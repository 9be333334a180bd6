package service

import (
	"sync"

	"github.com/google/uuid"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Notifications fans events out to a user's live websocket sessions.
// Publishing never blocks: a session that stopped draining its channel
// misses events rather than stalling the publisher.
type Notifications struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]map[chan Event]struct{}
}

func NewNotifications() *Notifications {
	return &Notifications{
		subs: make(map[uuid.UUID]map[chan Event]struct{}),
	}
}

// Subscribe registers a live session for the user. The returned cancel
// func unregisters and closes the channel; it is safe to call once.
func (n *Notifications) Subscribe(userID uuid.UUID) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	n.mu.Lock()
	if n.subs[userID] == nil {
		n.subs[userID] = make(map[chan Event]struct{})
	}
	n.subs[userID][ch] = struct{}{}
	n.mu.Unlock()

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if sessions, ok := n.subs[userID]; ok {
			if _, ok := sessions[ch]; ok {
				delete(sessions, ch)
				close(ch)
			}
			if len(sessions) == 0 {
				delete(n.subs, userID)
			}
		}
	}

	return ch, cancel
}

func (n *Notifications) Publish(userID uuid.UUID, event Event) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.subs[userID] {
		select {
		case ch <- event:
		default:
		}
	}
}
