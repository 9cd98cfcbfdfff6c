package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/kiosk/pkg/domain"
)

// Store implements ports.BoardStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Board
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Board),
	}
}

// Save keeps a private copy of the board.
func (s *Store) Save(ctx context.Context, board *domain.Board) error {
	copied := board.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[board.ID] = copied
	return nil
}

// Load returns a copy so callers can't reach the stored snapshot through the pointer.
func (s *Store) Load(ctx context.Context, boardID string) (*domain.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	board, ok := s.data[boardID]
	if !ok {
		return nil, domain.ErrBoardNotFound
	}
	return board.Clone(), nil
}

// Delete removes the board.
func (s *Store) Delete(ctx context.Context, boardID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, boardID)
	return nil
}

// List returns stored board IDs in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	boards := make([]string, 0, len(s.data))
	for id := range s.data {
		boards = append(boards, id)
	}
	sort.Strings(boards)
	return boards, nil
}
