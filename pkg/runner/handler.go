package runner

import (
	"context"

	"github.com/aretw0/kiosk/pkg/domain"
)

// Handler defines how replay results are presented.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type Handler interface {
	// Outcome reports an applied command, including cancelled drops.
	Outcome(ctx context.Context, cmd Command, out *domain.Outcome) error

	// Board presents the full board (the "show" command).
	Board(ctx context.Context, board *domain.Board) error

	// Catalog presents the template catalog.
	Catalog(ctx context.Context, catalog *domain.Catalog) error

	// Error reports a command that was not applied.
	Error(ctx context.Context, cmd Command, err error) error
}

// ContentRenderer is a function that transforms markdown before display (e.g. glamour).
type ContentRenderer func(markdown string) (string, error)
