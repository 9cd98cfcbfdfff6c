package kiosk

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/kiosk/internal/logging"
	"github.com/aretw0/kiosk/internal/runtime"
	loamAdapter "github.com/aretw0/kiosk/pkg/adapters/loam"
	"github.com/aretw0/kiosk/pkg/adapters/memory"
	"github.com/aretw0/kiosk/pkg/domain"
	"github.com/aretw0/kiosk/pkg/ids"
	"github.com/aretw0/kiosk/pkg/ports"
	"github.com/aretw0/kiosk/pkg/session"
)

// Engine is the high-level entry point for the Kiosk library.
// It owns the catalog and routes every board mutation through the session manager,
// so operations on one board are applied strictly one at a time.
type Engine struct {
	runtime      *runtime.Engine
	loader       ports.CatalogLoader
	catalog      *domain.Catalog
	store        ports.BoardStore
	locker       ports.DistributedLocker
	lockTTL      time.Duration
	sessions     *session.Manager
	ids          ports.IDGenerator
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	initialLists int
	Name         string

	mu        sync.RWMutex
	listeners []CommitFunc
}

// CommitFunc observes a saved outcome. It runs while the board is still locked,
// so it must not block and must not call back into the engine for the same board.
type CommitFunc func(ctx context.Context, out *domain.Outcome)

var _ ports.BoardEngine = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithCatalog injects a custom CatalogLoader, bypassing the default Loam initialization.
func WithCatalog(l ports.CatalogLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithStore sets where boards are kept. Defaults to an in-memory store.
func WithStore(s ports.BoardStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithLocker enables distributed locking for stores shared between replicas.
func WithLocker(l ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = l
	}
}

// WithLockTTL bounds how long a distributed lock survives a crashed holder.
func WithLockTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		e.lockTTL = ttl
	}
}

// WithIDGenerator sets the source of instance and list ids. Defaults to UUIDv4.
func WithIDGenerator(gen ports.IDGenerator) Option {
	return func(e *Engine) {
		e.ids = gen
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithInitialLists sets how many empty lists a new board starts with (default 1).
func WithInitialLists(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.initialLists = n
		}
	}
}

// New initializes a new Kiosk Engine.
// A non-empty catalogPath is read as a Loam repository of Markdown notes.
// With an empty path and no WithCatalog option, the built-in five-item catalog is used.
// The catalog is loaded once; it never changes while the engine runs.
func New(catalogPath string, opts ...Option) (*Engine, error) {
	eng := &Engine{initialLists: domain.DefaultInitialLists}

	for _, opt := range opts {
		opt(eng)
	}

	if eng.ids == nil {
		eng.ids = ids.UUID{}
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	switch {
	case eng.loader != nil:
		if catalogPath != "" {
			eng.Name = filepath.Base(catalogPath)
		}
	case catalogPath != "":
		absPath, err := filepath.Abs(catalogPath)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		eng.Name = filepath.Base(absPath)

		loader, err := loamAdapter.NewFromPath(absPath)
		if err != nil {
			return nil, err
		}
		eng.loader = loader
	default:
		eng.loader = memory.NewDefaultLoader(eng.ids)
	}

	if eng.Name != "" {
		eng.logger = eng.logger.With("catalog", eng.Name)
	}

	catalog, err := eng.loader.LoadCatalog(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	eng.catalog = catalog

	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	sessionOpts := []session.Option{session.WithLogger(eng.logger)}
	if eng.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(eng.locker), session.WithLockTTL(eng.lockTTL))
	}
	eng.sessions = session.NewManager(eng.store, sessionOpts...)

	eng.runtime = runtime.NewEngine(eng.ids,
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	)

	eng.logger.Debug("Engine ready", "catalog_items", catalog.Len(), "initial_lists", eng.initialLists)
	return eng, nil
}

// Catalog returns the immutable template catalog.
func (e *Engine) Catalog() *domain.Catalog {
	return e.catalog
}

// Board returns the board with the given id, creating it with the initial lists when missing.
func (e *Engine) Board(ctx context.Context, boardID string) (*domain.Board, error) {
	return e.sessions.LoadOrCreate(ctx, boardID, e.create(boardID))
}

// Boards lists the ids of known boards.
func (e *Engine) Boards(ctx context.Context) ([]string, error) {
	return e.sessions.List(ctx)
}

// OnCommit registers fn to observe every saved outcome, in commit order per board.
func (e *Engine) OnCommit(fn CommitFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

// Watch runs fn with the current board while no commit to it can happen.
// Listeners registered with OnCommit see only changes made after fn returns.
func (e *Engine) Watch(ctx context.Context, boardID string, fn func(board *domain.Board)) error {
	return e.sessions.View(ctx, boardID, e.create(boardID), func(ctx context.Context, board *domain.Board) error {
		fn(board)
		return nil
	})
}

func (e *Engine) commit(outcome **domain.Outcome) func(ctx context.Context, board *domain.Board) {
	return func(ctx context.Context, _ *domain.Board) {
		out := *outcome
		e.runtime.Commit(ctx, out)

		e.mu.RLock()
		listeners := e.listeners
		e.mu.RUnlock()
		for _, fn := range listeners {
			fn(ctx, out)
		}
	}
}

// AddList appends a new, empty list to the board.
func (e *Engine) AddList(ctx context.Context, boardID string) (*domain.Outcome, error) {
	var outcome *domain.Outcome
	_, err := e.sessions.Update(ctx, boardID, e.create(boardID), func(ctx context.Context, board *domain.Board) (*domain.Board, error) {
		out, err := e.runtime.AddList(ctx, board)
		if err != nil {
			return nil, err
		}
		outcome = out
		return out.After, nil
	}, e.commit(&outcome))
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// Drop applies a completed drag to the board.
// A cancelled drop returns the board unchanged with operation "cancel" and no error.
func (e *Engine) Drop(ctx context.Context, boardID string, event domain.DropEvent) (*domain.Outcome, error) {
	var outcome *domain.Outcome
	_, err := e.sessions.Update(ctx, boardID, e.create(boardID), func(ctx context.Context, board *domain.Board) (*domain.Board, error) {
		out, err := e.runtime.Apply(ctx, e.catalog, board, event)
		if err != nil {
			return nil, err
		}
		outcome = out
		return out.After, nil
	}, e.commit(&outcome))
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// Reset discards the board; the next access recreates it with the initial lists.
func (e *Engine) Reset(ctx context.Context, boardID string) error {
	if err := e.sessions.Delete(ctx, boardID); err != nil {
		return err
	}
	e.runtime.Reset(ctx, boardID)
	return nil
}

// Fault returns the integrity fault that halted mutations, or nil.
func (e *Engine) Fault() error {
	return e.runtime.Fault()
}

func (e *Engine) create(boardID string) func(ctx context.Context) (*domain.Board, error) {
	return func(ctx context.Context) (*domain.Board, error) {
		return e.runtime.NewBoard(ctx, boardID, e.initialLists)
	}
}
