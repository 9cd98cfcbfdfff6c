package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/kiosk/internal/logging"
	"github.com/aretw0/kiosk/pkg/domain"
	"github.com/aretw0/kiosk/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock is held if its owner dies.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates board access, ensuring mutations are applied one at a time.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.BoardStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the lease of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new Manager with the given board store.
func NewManager(store ports.BoardStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(boardID) after unlocking.
func (m *Manager) acquire(boardID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[boardID]
	if !exists {
		entry = &lockEntry{}
		m.locks[boardID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(boardID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[boardID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, boardID)
	}
}

// Load retrieves an existing board from the store.
func (m *Manager) Load(ctx context.Context, boardID string) (*domain.Board, error) {
	var board *domain.Board
	err := m.WithLock(ctx, boardID, func(ctx context.Context) error {
		var err error
		board, err = m.store.Load(ctx, boardID)
		return err
	})
	return board, err
}

// LoadOrCreate loads a board, or builds it with create and persists it if missing.
func (m *Manager) LoadOrCreate(ctx context.Context, boardID string, create func(ctx context.Context) (*domain.Board, error)) (*domain.Board, error) {
	var board *domain.Board
	err := m.WithLock(ctx, boardID, func(ctx context.Context) error {
		var err error
		board, err = m.loadOrCreate(ctx, boardID, create)
		return err
	})
	return board, err
}

func (m *Manager) loadOrCreate(ctx context.Context, boardID string, create func(ctx context.Context) (*domain.Board, error)) (*domain.Board, error) {
	board, err := m.store.Load(ctx, boardID)
	if err == nil {
		return board, nil
	}
	if !errors.Is(err, domain.ErrBoardNotFound) {
		return nil, fmt.Errorf("failed to check board existence: %w", err)
	}

	board, err = create(ctx)
	if err != nil {
		return nil, err
	}
	// Persist immediately to reserve the ID
	if err := m.store.Save(ctx, board); err != nil {
		return nil, fmt.Errorf("failed to initialize board: %w", err)
	}
	m.logger.Debug("Board created", "board_id", boardID, "lists", board.Len())
	return board, nil
}

// Update runs fn against the current board while holding its lock and persists
// the board fn returns. The board is created with create first if it is missing.
// When fn returns the board it was given, nothing is written.
// commit, if not nil, runs after a successful save and before the lock is released,
// so commits of one board are observed in the order they were written.
func (m *Manager) Update(
	ctx context.Context,
	boardID string,
	create func(ctx context.Context) (*domain.Board, error),
	fn func(ctx context.Context, board *domain.Board) (*domain.Board, error),
	commit func(ctx context.Context, board *domain.Board),
) (*domain.Board, error) {
	var result *domain.Board
	err := m.WithLock(ctx, boardID, func(ctx context.Context) error {
		current, err := m.loadOrCreate(ctx, boardID, create)
		if err != nil {
			return err
		}

		next, err := fn(ctx, current)
		if err != nil {
			return err
		}
		if next != current {
			if err := m.store.Save(ctx, next); err != nil {
				return fmt.Errorf("failed to save board: %w", err)
			}
		}
		result = next
		if commit != nil {
			commit(ctx, next)
		}
		return nil
	})
	return result, err
}

// View runs fn with the current board while holding its lock, creating the board if missing.
// No commit of the same board can interleave with fn.
func (m *Manager) View(
	ctx context.Context,
	boardID string,
	create func(ctx context.Context) (*domain.Board, error),
	fn func(ctx context.Context, board *domain.Board) error,
) error {
	return m.WithLock(ctx, boardID, func(ctx context.Context) error {
		board, err := m.loadOrCreate(ctx, boardID, create)
		if err != nil {
			return err
		}
		return fn(ctx, board)
	})
}

// Delete removes the board from the store.
func (m *Manager) Delete(ctx context.Context, boardID string) error {
	return m.WithLock(ctx, boardID, func(ctx context.Context) error {
		return m.store.Delete(ctx, boardID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// WithLock executes a function while holding the lock for the board.
func (m *Manager) WithLock(ctx context.Context, boardID string, fn func(context.Context) error) error {
	entry := m.acquire(boardID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(boardID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, boardID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"board_id", boardID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
