package runner

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/aretw0/kiosk/pkg/domain"
	"github.com/aretw0/kiosk/pkg/observability"
)

// Event is one line of JSONHandler output.
type Event struct {
	Line    int             `json:"line,omitempty"`
	Type    string          `json:"type"`
	Outcome *domain.Outcome `json:"outcome,omitempty"`
	Board   *domain.Board   `json:"board,omitempty"`
	Catalog *domain.Catalog `json:"catalog,omitempty"`
	Error   string          `json:"error,omitempty"`
	Reason  string          `json:"reason,omitempty"`
}

// JSONHandler implements Handler for structured JSON-Lines output.
type JSONHandler struct {
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler writing one JSON object per line to w.
func NewJSONHandler(w io.Writer) *JSONHandler {
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{Encoder: json.NewEncoder(w)}
}

func (h *JSONHandler) Outcome(ctx context.Context, cmd Command, out *domain.Outcome) error {
	return h.Encoder.Encode(Event{Line: cmd.Line, Type: "outcome", Outcome: out})
}

func (h *JSONHandler) Board(ctx context.Context, board *domain.Board) error {
	return h.Encoder.Encode(Event{Type: "board", Board: board})
}

func (h *JSONHandler) Catalog(ctx context.Context, catalog *domain.Catalog) error {
	return h.Encoder.Encode(Event{Type: "catalog", Catalog: catalog})
}

func (h *JSONHandler) Error(ctx context.Context, cmd Command, err error) error {
	reason := observability.Reason(err)
	if domain.IsFault(err) {
		reason = "integrity_fault"
	}
	return h.Encoder.Encode(Event{Line: cmd.Line, Type: "error", Error: err.Error(), Reason: reason})
}
