package http

import (
	"log/slog"
	"sync"
)

// StreamManager handles active SSE connections
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // BoardID -> Set of Channels
	logger      *slog.Logger
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a channel for the board. The returned func unsubscribes and closes it.
func (sm *StreamManager) Subscribe(boardID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[boardID]; !ok {
		sm.subscribers[boardID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[boardID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[boardID]; ok {
			if _, ok := subs[ch]; !ok {
				return
			}
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, boardID)
			}
		}
	}
}

// Subscribers returns the number of open streams for the board.
func (sm *StreamManager) Subscribers(boardID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[boardID])
}

// Broadcast queues msg for every subscriber of the board without blocking.
// A subscriber whose buffer is full is closed instead of skipped: a missing diff
// would leave it stale, while a closed stream makes it reconnect for a fresh snapshot.
func (sm *StreamManager) Broadcast(boardID string, msg string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	subs, ok := sm.subscribers[boardID]
	if !ok {
		return
	}
	sm.logger.Debug("StreamManager: Broadcasting", "board_id", boardID, "subscribers", len(subs), "payload_size", len(msg))
	for ch := range subs {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE: Client buffer full, closing stream", "board_id", boardID)
			delete(subs, ch)
			close(ch)
		}
	}
	if len(subs) == 0 {
		delete(sm.subscribers, boardID)
	}
}
