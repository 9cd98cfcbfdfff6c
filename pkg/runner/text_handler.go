package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/kiosk/internal/presentation/tui"
	"github.com/aretw0/kiosk/pkg/domain"
)

// TextHandler implements the standard text-based interface.
type TextHandler struct {
	Writer   io.Writer
	Renderer ContentRenderer
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// NewTextHandler creates a handler for standard text output.
func NewTextHandler(w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{Writer: w}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) Outcome(ctx context.Context, cmd Command, out *domain.Outcome) error {
	var msg string
	switch out.Operation {
	case domain.OpCancel:
		msg = "drop cancelled, board unchanged"
	case domain.OpAddList:
		msg = fmt.Sprintf("added list %s", out.ListID)
	default:
		msg = fmt.Sprintf("%s %s", out.Operation, out.InstanceID)
	}
	_, err := fmt.Fprintf(h.Writer, "%s%s\n", linePrefix(cmd), msg)
	return err
}

func (h *TextHandler) Board(ctx context.Context, board *domain.Board) error {
	return h.render(tui.RenderBoardMarkdown(board))
}

func (h *TextHandler) Catalog(ctx context.Context, catalog *domain.Catalog) error {
	return h.render(tui.RenderCatalogMarkdown(catalog))
}

func (h *TextHandler) Error(ctx context.Context, cmd Command, err error) error {
	label := "rejected"
	if domain.IsFault(err) {
		label = "FAULT"
	}
	_, werr := fmt.Fprintf(h.Writer, "%s%s: %v\n", linePrefix(cmd), label, err)
	return werr
}

func (h *TextHandler) render(markdown string) error {
	output := markdown
	if h.Renderer != nil {
		if rendered, err := h.Renderer(markdown); err == nil {
			output = rendered
		}
	}
	_, err := fmt.Fprintln(h.Writer, strings.TrimSpace(output))
	return err
}

func linePrefix(cmd Command) string {
	if cmd.Line == 0 {
		return ""
	}
	return fmt.Sprintf("[%d] ", cmd.Line)
}
