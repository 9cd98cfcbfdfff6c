package ports

import (
	"context"

	"github.com/aretw0/kiosk/pkg/domain"
)

// BoardEngine is the interface adapters (HTTP, MCP, Runner) drive.
// Every mutation is serialized per board and returns a complete Outcome.
type BoardEngine interface {
	// Catalog returns the fixed catalog.
	Catalog() *domain.Catalog

	// Board returns the board with the given ID, creating it if needed.
	Board(ctx context.Context, boardID string) (*domain.Board, error)

	// Boards lists known board IDs.
	Boards(ctx context.Context) ([]string, error)

	// AddList appends a new empty list to the board.
	AddList(ctx context.Context, boardID string) (*domain.Outcome, error)

	// Drop applies the dispatch policy to a drop event.
	Drop(ctx context.Context, boardID string, event domain.DropEvent) (*domain.Outcome, error)
}
