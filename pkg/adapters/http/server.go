package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/kiosk"
	"github.com/aretw0/kiosk/internal/logging"
	"github.com/aretw0/kiosk/pkg/domain"
	"github.com/aretw0/kiosk/pkg/observability"
	"github.com/aretw0/kiosk/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes caps request bodies; a drop event is a handful of fields.
const maxBodyBytes = 64 << 10

// Resetter is implemented by engines that can discard a board.
type Resetter interface {
	Reset(ctx context.Context, boardID string) error
}

// Notifier is implemented by engines that report saved outcomes while the board is
// still locked. With it, every change reaches subscribers in commit order, whichever
// adapter made it.
type Notifier interface {
	OnCommit(fn kiosk.CommitFunc)
	Watch(ctx context.Context, boardID string, fn func(board *domain.Board)) error
}

// Server serves a BoardEngine over HTTP.
type Server struct {
	Engine   ports.BoardEngine
	Streams  *StreamManager
	gatherer prometheus.Gatherer
	logger   *slog.Logger
	notifier Notifier
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger used for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics exposes the gatherer at GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewServer creates a Server for engine.
func NewServer(engine ports.BoardEngine, opts ...Option) *Server {
	s := &Server{
		Engine: engine,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	if n, ok := engine.(Notifier); ok {
		s.notifier = n
		n.OnCommit(func(ctx context.Context, out *domain.Outcome) {
			s.broadcast(out)
		})
	}
	return s
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine ports.BoardEngine, opts ...Option) http.Handler {
	return NewServer(engine, opts...).Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	r.Get("/catalog", s.GetCatalog)
	r.Route("/boards", func(r chi.Router) {
		r.Get("/", s.ListBoards)
		r.Route("/{boardID}", func(r chi.Router) {
			r.Get("/", s.GetBoard)
			r.Delete("/", s.ResetBoard)
			r.Post("/lists", s.AddList)
			r.Post("/drop", s.Drop)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Kiosk API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// errorBody is the JSON error envelope.
type errorBody struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// writeEngineError maps engine errors to status codes:
// rejections are 422, integrity faults and everything else 500.
func (s *Server) writeEngineError(w http.ResponseWriter, op string, boardID string, err error) {
	switch {
	case domain.IsRejection(err):
		s.logger.Warn(op+": rejected", "board_id", boardID, "err", err)
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error(), Reason: observability.Reason(err)})
	case domain.IsFault(err):
		s.logger.Error(op+": integrity fault", "board_id", boardID, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error(), Reason: "integrity_fault"})
	default:
		s.logger.Error(op+" failed", "board_id", boardID, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
	}
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "kiosk-http",
		"version":     strings.TrimSpace(kiosk.Version),
		"api_version": apiVersion,
	})
}

// GetCatalog handles the GET /catalog request.
func (s *Server) GetCatalog(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, s.Engine.Catalog()); err != nil {
		s.logger.Error("GetCatalog response encode failed", "err", err)
	}
}

// ListBoards handles the GET /boards request.
func (s *Server) ListBoards(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Engine.Boards(r.Context())
	if err != nil {
		s.writeEngineError(w, "ListBoards", "", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

// GetBoard handles the GET /boards/{boardID} request.
func (s *Server) GetBoard(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")
	board, err := s.Engine.Board(r.Context(), boardID)
	if err != nil {
		s.writeEngineError(w, "GetBoard", boardID, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, board); err != nil {
		s.logger.Error("GetBoard response encode failed", "err", err)
	}
}

// ResetBoard handles the DELETE /boards/{boardID} request.
func (s *Server) ResetBoard(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")
	resetter, ok := s.Engine.(Resetter)
	if !ok {
		http.Error(w, "Reset not supported", http.StatusMethodNotAllowed)
		return
	}
	if err := resetter.Reset(r.Context(), boardID); err != nil {
		s.writeEngineError(w, "ResetBoard", boardID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddList handles the POST /boards/{boardID}/lists request.
func (s *Server) AddList(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")
	out, err := s.Engine.AddList(r.Context(), boardID)
	if err != nil {
		s.writeEngineError(w, "AddList", boardID, err)
		return
	}
	s.publish(out)
	if err := writeJSON(w, http.StatusCreated, out); err != nil {
		s.logger.Error("AddList response encode failed", "err", err)
	}
}

// Drop handles the POST /boards/{boardID}/drop request.
func (s *Server) Drop(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")

	event, err := decodeDropEvent(r.Body)
	if err != nil {
		s.logger.Warn("Drop: Invalid request body", "board_id", boardID, "err", err)
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Reason: "invalid_body"})
		return
	}

	out, err := s.Engine.Drop(r.Context(), boardID, event)
	if err != nil {
		s.writeEngineError(w, "Drop", boardID, err)
		return
	}
	s.publish(out)
	if err := writeJSON(w, http.StatusOK, out); err != nil {
		s.logger.Error("Drop response encode failed", "err", err)
	}
}

// decodeDropEvent validates the body against the DropEvent schema before decoding it.
func decodeDropEvent(body io.Reader) (domain.DropEvent, error) {
	var event domain.DropEvent

	raw, err := io.ReadAll(io.LimitReader(body, maxBodyBytes))
	if err != nil {
		return event, fmt.Errorf("read body: %w", err)
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return event, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := validateBody("DropEvent", generic); err != nil {
		return event, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&event); err != nil {
		return event, fmt.Errorf("invalid drop event: %w", err)
	}
	return event, nil
}

// publish broadcasts from the handler for engines that cannot report commits themselves.
func (s *Server) publish(out *domain.Outcome) {
	if s.notifier == nil {
		s.broadcast(out)
	}
}

// broadcast pushes the diff of an outcome to the board's subscribers.
func (s *Server) broadcast(out *domain.Outcome) {
	if out == nil || out.After == nil {
		return
	}
	diff := domain.Diff(out.Before, out.After)
	if diff == nil {
		s.logger.Debug("No diff calculated", "board_id", out.After.ID, "operation", out.Operation)
		return
	}
	payload, err := json.Marshal(diff)
	if err != nil {
		s.logger.Error("Diff encode failed", "err", err)
		return
	}
	s.Streams.Broadcast(out.After.ID, string(payload))
}

// SubscribeEvents handles the GET /boards/{boardID}/events request (SSE).
// The first data frame is the full board; later frames are BoardDiffs.
// An optional "lists" query parameter keeps only diffs touching those lists.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	// Subscribing before the snapshot is read means no change can fall between them.
	var (
		board  *domain.Board
		ch     chan string
		cancel func()
		err    error
	)
	if s.notifier != nil {
		err = s.notifier.Watch(r.Context(), boardID, func(b *domain.Board) {
			board = b
			ch, cancel = s.Streams.Subscribe(boardID)
		})
	} else {
		ch, cancel = s.Streams.Subscribe(boardID)
		board, err = s.Engine.Board(r.Context(), boardID)
	}
	if cancel != nil {
		defer cancel()
	}
	if err != nil {
		s.writeEngineError(w, "SubscribeEvents", boardID, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.logger.Info("SSE: Subscribing to board updates", "board_id", boardID)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	if snapshot, err := json.Marshal(domain.Diff(nil, board)); err == nil {
		fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", snapshot)
	}
	flusher.Flush()

	var watchList []string
	if v := r.URL.Query().Get("lists"); v != "" {
		for _, id := range strings.Split(v, ",") {
			watchList = append(watchList, strings.TrimSpace(id))
		}
	}

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "board_id", boardID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watchList) > 0 && !touches(msg, watchList) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// touches reports whether an encoded diff changes any of the given lists.
// A diff that reorders or adds lists always passes.
func touches(msg string, lists []string) bool {
	var diff domain.BoardDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	if len(diff.Order) > 0 {
		return true
	}
	for _, id := range lists {
		if _, ok := diff.Lists[id]; ok {
			return true
		}
	}
	return false
}
