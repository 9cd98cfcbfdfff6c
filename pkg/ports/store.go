package ports

import (
	"context"

	"github.com/aretw0/kiosk/pkg/domain"
)

// BoardStore defines the interface for holding board snapshots between operations.
type BoardStore interface {
	// Save stores the board under its ID, replacing any previous snapshot.
	Save(ctx context.Context, board *domain.Board) error

	// Load retrieves the board with the given ID.
	// Returns domain.ErrBoardNotFound if the board does not exist.
	Load(ctx context.Context, boardID string) (*domain.Board, error)

	// Delete removes the board with the given ID.
	Delete(ctx context.Context, boardID string) error

	// List returns the IDs of stored boards.
	List(ctx context.Context) ([]string, error)
}
