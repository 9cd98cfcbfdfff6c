package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/kiosk/internal/logging"
	"github.com/aretw0/kiosk/pkg/domain"
	"github.com/aretw0/kiosk/pkg/ports"
)

// Summary counts what happened during a run.
type Summary struct {
	Applied   int `json:"applied"`
	Cancelled int `json:"cancelled"`
	Rejected  int `json:"rejected"`
}

// Runner feeds commands to the engine one at a time.
type Runner struct {
	Engine      ports.BoardEngine
	Handler     Handler
	Logger      *slog.Logger
	StopOnError bool
}

// NewRunner creates a Runner for engine. Output defaults to a TextHandler on stdout.
func NewRunner(engine ports.BoardEngine, opts ...Option) *Runner {
	r := &Runner{
		Engine: engine,
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil)
	}
	return r
}

// Run reads commands from in until EOF and applies them to boardID.
// It returns early on context cancellation, an integrity fault, a write failure,
// or any rejection when StopOnError is set.
func (r *Runner) Run(ctx context.Context, boardID string, in io.Reader) (Summary, error) {
	var summary Summary

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 4096), DefaultMaxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		line := strings.TrimSpace(scanner.Text())
		if skip(line) {
			continue
		}

		cmd, err := ParseCommand(line)
		cmd.Line = lineNo
		if err == nil {
			err = r.execute(ctx, boardID, cmd, &summary)
		}
		if err == nil {
			continue
		}

		var werr *writeError
		if errors.As(err, &werr) {
			return summary, werr.err
		}

		summary.Rejected++
		r.Logger.Debug("Command not applied", "line", lineNo, "err", err)
		if herr := r.Handler.Error(ctx, cmd, err); herr != nil {
			return summary, herr
		}
		if domain.IsFault(err) {
			return summary, err
		}
		if r.StopOnError {
			return summary, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("read commands: %w", err)
	}
	return summary, nil
}

// writeError marks handler failures, which end the run instead of counting as rejections.
type writeError struct{ err error }

func (e *writeError) Error() string { return e.err.Error() }

func (r *Runner) execute(ctx context.Context, boardID string, cmd Command, summary *Summary) error {
	report := func(err error) error {
		if err != nil {
			return &writeError{err: err}
		}
		return nil
	}

	switch cmd.Op {
	case OpShow:
		board, err := r.Engine.Board(ctx, boardID)
		if err != nil {
			return err
		}
		return report(r.Handler.Board(ctx, board))

	case OpCatalog:
		return report(r.Handler.Catalog(ctx, r.Engine.Catalog()))

	case OpAddList:
		out, err := r.Engine.AddList(ctx, boardID)
		if err != nil {
			return err
		}
		summary.Applied++
		return report(r.Handler.Outcome(ctx, cmd, out))

	case OpDrop:
		board, err := r.Engine.Board(ctx, boardID)
		if err != nil {
			return err
		}
		event, err := cmd.DropEvent(board)
		if err != nil {
			return err
		}
		out, err := r.Engine.Drop(ctx, boardID, event)
		if err != nil {
			return err
		}
		if out.Operation == domain.OpCancel {
			summary.Cancelled++
		} else {
			summary.Applied++
		}
		return report(r.Handler.Outcome(ctx, cmd, out))
	}
	return fmt.Errorf("%w: %q", ErrUnknownOp, cmd.Op)
}

func skip(line string) bool {
	return line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//")
}
