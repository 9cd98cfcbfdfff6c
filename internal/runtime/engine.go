package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/kiosk/internal/logging"
	"github.com/aretw0/kiosk/pkg/domain"
	"github.com/aretw0/kiosk/pkg/ports"
)

// Engine applies drop events and list creation to board snapshots.
// It holds no board state; the only state it keeps is the integrity fault latch.
type Engine struct {
	ids    ports.IDGenerator
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	now    func() time.Time

	mu    sync.RWMutex
	fault error
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates a new engine that draws ids from gen.
func NewEngine(gen ports.IDGenerator, opts ...EngineOption) *Engine {
	e := &Engine{
		ids:    gen,
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Fault returns the integrity fault that halted the engine, or nil.
func (e *Engine) Fault() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.fault
}

func (e *Engine) checkFault() error {
	if err := e.Fault(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIntegrityFault, err)
	}
	return nil
}

func (e *Engine) latch(ctx context.Context, ev *domain.OperationEvent, err error) {
	e.mu.Lock()
	if e.fault == nil {
		e.fault = err
	}
	e.mu.Unlock()

	e.logger.Error("Board integrity fault, halting mutations",
		"board_id", ev.BoardID,
		"operation", ev.Operation,
		"err", err,
	)
	if e.hooks.OnFault != nil {
		e.hooks.OnFault(ctx, ev, err)
	}
}

// Apply runs the dispatch policy for event against board and returns the resulting outcome.
// On error the returned outcome is nil and board is untouched.
func (e *Engine) Apply(ctx context.Context, catalog *domain.Catalog, board *domain.Board, event domain.DropEvent) (*domain.Outcome, error) {
	op := Decide(event)
	ev := &domain.OperationEvent{
		Timestamp:         e.now(),
		BoardID:           board.ID,
		Operation:         op,
		SourceListID:      event.SourceListID,
		DestinationListID: event.Destination(),
	}

	if op == domain.OpCancel {
		e.logger.Debug("Drop cancelled", "board_id", board.ID, "source", event.SourceListID)
		stamp(ev, board)
		return &domain.Outcome{Operation: op, Before: board, After: board, Event: ev}, nil
	}

	if err := e.checkFault(); err != nil {
		return nil, err
	}

	outcome, err := e.apply(catalog, board, op, event)
	if err != nil {
		if domain.IsFault(err) {
			e.latch(ctx, ev, err)
			return nil, err
		}
		e.logger.Debug("Drop rejected", "board_id", board.ID, "operation", op, "err", err)
		if e.hooks.OnRejected != nil {
			e.hooks.OnRejected(ctx, ev, err)
		}
		return nil, err
	}

	ev.InstanceID = outcome.InstanceID
	stamp(ev, outcome.After)
	outcome.Event = ev
	return outcome, nil
}

func (e *Engine) apply(catalog *domain.Catalog, board *domain.Board, op domain.Operation, event domain.DropEvent) (*domain.Outcome, error) {
	dest := event.Destination()
	if dest == domain.CatalogID {
		return nil, domain.ErrCatalogDrop
	}

	lookup := func(id string) (domain.List, error) {
		l, ok := board.List(id)
		if !ok {
			return domain.List{}, fmt.Errorf("%s: %w: %q", op, domain.ErrListNotFound, id)
		}
		return l, nil
	}

	out := &domain.Outcome{Operation: op, Before: board}

	switch op {
	case domain.OpReorder:
		list, err := lookup(dest)
		if err != nil {
			return nil, err
		}
		reordered, err := Reorder(list, event.SourceIndex, event.DestinationIndex)
		if err != nil {
			return nil, err
		}
		out.InstanceID = reordered.Items[event.DestinationIndex].InstanceID
		if out.After, err = board.Replace(reordered); err != nil {
			return nil, err
		}

	case domain.OpCopy:
		list, err := lookup(dest)
		if err != nil {
			return nil, err
		}
		copied, err := Copy(catalog, list, event.SourceIndex, event.DestinationIndex, e.ids)
		if err != nil {
			return nil, err
		}
		created := copied.Items[event.DestinationIndex].InstanceID
		if board.Contains(created) {
			return nil, fmt.Errorf("copy: generated id %q already on board: %w", created, domain.ErrDuplicateID)
		}
		out.InstanceID = created
		if out.After, err = board.Replace(copied); err != nil {
			return nil, err
		}

	case domain.OpMove:
		source, err := lookup(event.SourceListID)
		if err != nil {
			return nil, err
		}
		target, err := lookup(dest)
		if err != nil {
			return nil, err
		}
		src, dst, err := Move(source, target, event.SourceIndex, event.DestinationIndex)
		if err != nil {
			return nil, err
		}
		out.InstanceID = dst.Items[event.DestinationIndex].InstanceID
		if out.After, err = board.Replace(src, dst); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unsupported operation %q", op)
	}

	return out, nil
}

// AddList appends a new empty list to board.
func (e *Engine) AddList(ctx context.Context, board *domain.Board) (*domain.Outcome, error) {
	ev := &domain.OperationEvent{
		Timestamp: e.now(),
		BoardID:   board.ID,
		Operation: domain.OpAddList,
	}
	if err := e.checkFault(); err != nil {
		return nil, err
	}

	next, id, err := AddList(board, e.ids)
	if err != nil {
		if domain.IsFault(err) {
			e.latch(ctx, ev, err)
		}
		return nil, err
	}

	ev.DestinationListID = id
	stamp(ev, next)
	return &domain.Outcome{Operation: domain.OpAddList, Before: board, After: next, ListID: id, Event: ev}, nil
}

// NewBoard creates a board with n empty lists.
func (e *Engine) NewBoard(ctx context.Context, boardID string, n int) (*domain.Board, error) {
	if err := e.checkFault(); err != nil {
		return nil, err
	}
	board := domain.NewBoard(boardID)
	for i := 0; i < n; i++ {
		next, _, err := AddList(board, e.ids)
		if err != nil {
			if domain.IsFault(err) {
				e.latch(ctx, &domain.OperationEvent{Timestamp: e.now(), BoardID: boardID, Operation: domain.OpAddList}, err)
			}
			return nil, err
		}
		board = next
	}
	return board, nil
}

// Commit reports an outcome whose board has been saved.
func (e *Engine) Commit(ctx context.Context, out *domain.Outcome) {
	if out == nil || out.Event == nil {
		return
	}
	if e.hooks.OnOperation != nil {
		e.hooks.OnOperation(ctx, out.Event)
	}
}

// Reset reports that a board was discarded.
func (e *Engine) Reset(ctx context.Context, boardID string) {
	if e.hooks.OnReset != nil {
		e.hooks.OnReset(ctx, boardID)
	}
}

func stamp(ev *domain.OperationEvent, board *domain.Board) {
	ev.ItemCount = board.ItemCount()
	ev.ListCount = board.Len()
}
