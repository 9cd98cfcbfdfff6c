package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/kiosk"
	"github.com/aretw0/kiosk/internal/logging"
	"github.com/aretw0/kiosk/pkg/domain"
	"github.com/aretw0/kiosk/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const catalogURI = "kiosk://catalog"

// ListView is a list as returned to MCP clients.
type ListView struct {
	ID    string             `json:"id" jsonschema_description:"List identifier"`
	Items []domain.BoardItem `json:"items" jsonschema_description:"Items in display order"`
}

// BoardResponse aligns with the OpenAPI schema and provides a unified structure across adapters.
type BoardResponse struct {
	Operation  string     `json:"operation,omitempty" jsonschema_description:"Operation applied: cancel, reorder, copy, move or add_list"`
	BoardID    string     `json:"board_id" jsonschema_description:"Board identifier"`
	Lists      []ListView `json:"lists" jsonschema_description:"Lists in display order"`
	ListID     string     `json:"list_id,omitempty" jsonschema_description:"Id of the list created by add_list"`
	InstanceID string     `json:"instance_id,omitempty" jsonschema_description:"Item created, reordered or moved"`
}

// BoardArgs selects a board.
type BoardArgs struct {
	BoardID string `json:"board_id"`
}

// DropArgs carries a drop event.
type DropArgs struct {
	BoardID           string  `json:"board_id"`
	SourceListID      string  `json:"source_list_id"`
	SourceIndex       int     `json:"source_index"`
	DestinationListID *string `json:"destination_list_id,omitempty"`
	DestinationIndex  int     `json:"destination_index"`
}

// Server wraps the Kiosk Engine and exposes it as an MCP Server.
type Server struct {
	engine    ports.BoardEngine
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.BoardEngine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("kiosk-mcp", strings.TrimSpace(kiosk.Version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: get_catalog
	s.mcpServer.AddTool(mcp.NewTool("get_catalog",
		mcp.WithDescription("List the catalog templates in display order. The catalog list id is \"ITEMS\"."),
	), s.handleGetCatalog)

	// TOOL: get_board
	s.mcpServer.AddTool(mcp.NewTool("get_board",
		mcp.WithDescription("Get a board, creating it with one empty list if it does not exist."),
		mcp.WithString("board_id", mcp.Required(), mcp.Description("Board identifier")),
		mcp.WithOutputSchema[BoardResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetBoard))

	// TOOL: add_list
	s.mcpServer.AddTool(mcp.NewTool("add_list",
		mcp.WithDescription("Append a new empty list to the board."),
		mcp.WithString("board_id", mcp.Required(), mcp.Description("Board identifier")),
		mcp.WithOutputSchema[BoardResponse](),
	), mcp.NewStructuredToolHandler(s.handleAddList))

	// TOOL: drop_item
	s.mcpServer.AddTool(mcp.NewTool("drop_item",
		mcp.WithDescription("Complete a drag. From \"ITEMS\" it copies a template into a list; "+
			"within one list it reorders; between lists it moves. Omit destination_list_id to cancel."),
		mcp.WithString("board_id", mcp.Required(), mcp.Description("Board identifier")),
		mcp.WithString("source_list_id", mcp.Required(), mcp.Description("List the item was dragged from, or ITEMS")),
		mcp.WithNumber("source_index", mcp.Required(), mcp.Description("Index of the dragged item in the source")),
		mcp.WithString("destination_list_id", mcp.Description("List the item was dropped on; omit for a cancelled drop")),
		mcp.WithNumber("destination_index", mcp.Description("Insertion index in the destination")),
		mcp.WithOutputSchema[BoardResponse](),
	), mcp.NewStructuredToolHandler(s.handleDrop))
}

func (s *Server) handleGetCatalog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(s.engine.Catalog())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode catalog: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleGetBoard(ctx context.Context, request mcp.CallToolRequest, args BoardArgs) (BoardResponse, error) {
	if args.BoardID == "" {
		return BoardResponse{}, fmt.Errorf("board_id is required")
	}
	board, err := s.engine.Board(ctx, args.BoardID)
	if err != nil {
		return BoardResponse{}, fmt.Errorf("get board failed: %w", err)
	}
	return newBoardResponse(board), nil
}

func (s *Server) handleAddList(ctx context.Context, request mcp.CallToolRequest, args BoardArgs) (BoardResponse, error) {
	if args.BoardID == "" {
		return BoardResponse{}, fmt.Errorf("board_id is required")
	}
	out, err := s.engine.AddList(ctx, args.BoardID)
	if err != nil {
		s.logger.Warn("MCP AddList failed", "board_id", args.BoardID, "err", err)
		return BoardResponse{}, fmt.Errorf("add list failed: %w", err)
	}
	return newOutcomeResponse(out), nil
}

func (s *Server) handleDrop(ctx context.Context, request mcp.CallToolRequest, args DropArgs) (BoardResponse, error) {
	if args.BoardID == "" || args.SourceListID == "" {
		return BoardResponse{}, fmt.Errorf("board_id and source_list_id are required")
	}

	event := domain.DropEvent{
		SourceListID:      args.SourceListID,
		SourceIndex:       args.SourceIndex,
		DestinationListID: args.DestinationListID,
		DestinationIndex:  args.DestinationIndex,
	}
	// Clients that cannot omit a field send an empty string for "no destination".
	if event.DestinationListID != nil && *event.DestinationListID == "" {
		event.DestinationListID = nil
	}

	out, err := s.engine.Drop(ctx, args.BoardID, event)
	if err != nil {
		if domain.IsFault(err) {
			s.logger.Error("MCP Drop: integrity fault", "board_id", args.BoardID, "err", err)
		} else {
			s.logger.Warn("MCP Drop rejected", "board_id", args.BoardID, "err", err)
		}
		return BoardResponse{}, fmt.Errorf("drop failed: %w", err)
	}
	return newOutcomeResponse(out), nil
}

func (s *Server) registerResources() {
	// EXPOSE: kiosk://catalog
	s.mcpServer.AddResource(mcp.NewResource(catalogURI, "Template Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.engine.Catalog())
		if err != nil {
			return nil, fmt.Errorf("failed to encode catalog: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      catalogURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func newBoardResponse(board *domain.Board) BoardResponse {
	resp := BoardResponse{BoardID: board.ID, Lists: make([]ListView, 0, board.Len())}
	for _, l := range board.Lists() {
		items := l.Items
		if items == nil {
			items = []domain.BoardItem{}
		}
		resp.Lists = append(resp.Lists, ListView{ID: l.ID, Items: items})
	}
	return resp
}

func newOutcomeResponse(out *domain.Outcome) BoardResponse {
	resp := newBoardResponse(out.After)
	resp.Operation = string(out.Operation)
	resp.ListID = out.ListID
	resp.InstanceID = out.InstanceID
	return resp
}
