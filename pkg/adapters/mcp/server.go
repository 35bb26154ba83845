package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/rewind"
	"github.com/aretw0/rewind/internal/logging"
	"github.com/aretw0/rewind/internal/sanitize"
	"github.com/aretw0/rewind/pkg/domain"
	"github.com/aretw0/rewind/pkg/enhancer"
	"github.com/aretw0/rewind/pkg/store"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const historyURI = "rewind://history"

// StateResponse is the structured result of every state-changing tool.
type StateResponse[S any] struct {
	Base    S      `json:"base" jsonschema_description:"The wrapped reducer state"`
	Head    int    `json:"head" jsonschema_description:"Position of the head in the history log, 0 is the newest entry"`
	Len     int    `json:"len" jsonschema_description:"Number of entries in the history log"`
	Message string `json:"message,omitempty" jsonschema_description:"Label of the entry under the head"`
}

// CommitArgs are the arguments of the commit tool.
type CommitArgs struct {
	Message string `json:"message"`
}

// GotoArgs are the arguments of the goto tool.
type GotoArgs struct {
	Index int `json:"index"`
}

// DispatchArgs are the arguments of the dispatch tool.
type DispatchArgs struct {
	Type    string `json:"type"`
	Payload string `json:"payload,omitempty"`
}

// Server exposes a store as an MCP server.
type Server[S any] struct {
	store     *store.Store[S]
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer[S any](s *store.Store[S], logger *slog.Logger) *Server[S] {
	if logger == nil {
		logger = logging.NewNop()
	}
	srv := &Server[S]{
		store:     s,
		logger:    logger,
		mcpServer: server.NewMCPServer("rewind-mcp", strings.TrimSpace(rewind.Version)),
	}
	srv.registerTools()
	srv.registerResources()
	return srv
}

// MCPServer returns the underlying server, for embedding into other transports.
func (s *Server[S]) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server[S]) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and blocks until ctx
// is done.
func (s *Server[S]) ServeSSE(ctx context.Context, port int) error {
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

func (s *Server[S]) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("commit",
		mcp.WithDescription("Snapshot the current state into the history log under a label."),
		mcp.WithString("message", mcp.Required(), mcp.Description("Label of the snapshot")),
		mcp.WithOutputSchema[StateResponse[S]](),
	), mcp.NewStructuredToolHandler(s.handleCommit))

	s.mcpServer.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Step one entry back into the history. Stays on the oldest entry."),
		mcp.WithOutputSchema[StateResponse[S]](),
	), mcp.NewStructuredToolHandler(s.handleUndo))

	s.mcpServer.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Step one entry forward, towards the newest snapshot."),
		mcp.WithOutputSchema[StateResponse[S]](),
	), mcp.NewStructuredToolHandler(s.handleRedo))

	s.mcpServer.AddTool(mcp.NewTool("goto",
		mcp.WithDescription("Jump to an entry of the history log. Index 0 is the newest entry."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Target index")),
		mcp.WithOutputSchema[StateResponse[S]](),
	), mcp.NewStructuredToolHandler(s.handleGoto))

	s.mcpServer.AddTool(mcp.NewTool("dispatch",
		mcp.WithDescription("Dispatch an arbitrary action to the store."),
		mcp.WithString("type", mcp.Required(), mcp.Description("Action type")),
		mcp.WithString("payload", mcp.Description("JSON encoded payload (optional)")),
		mcp.WithOutputSchema[StateResponse[S]](),
	), mcp.NewStructuredToolHandler(s.handleDispatch))

	s.mcpServer.AddTool(mcp.NewTool("get_history",
		mcp.WithDescription("Get the history log, newest entry first, with the head position."),
	), s.handleGetHistory)
}

func (s *Server[S]) handleCommit(ctx context.Context, _ mcp.CallToolRequest, args CommitArgs) (StateResponse[S], error) {
	msg, err := sanitize.Message(args.Message)
	if err != nil {
		return StateResponse[S]{}, err
	}
	return s.apply(ctx, domain.Commit(msg))
}

func (s *Server[S]) handleUndo(ctx context.Context, _ mcp.CallToolRequest, _ struct{}) (StateResponse[S], error) {
	return s.apply(ctx, domain.Undo())
}

func (s *Server[S]) handleRedo(ctx context.Context, _ mcp.CallToolRequest, _ struct{}) (StateResponse[S], error) {
	return s.apply(ctx, domain.Redo())
}

func (s *Server[S]) handleGoto(ctx context.Context, _ mcp.CallToolRequest, args GotoArgs) (StateResponse[S], error) {
	return s.apply(ctx, domain.Goto(args.Index))
}

func (s *Server[S]) handleDispatch(ctx context.Context, _ mcp.CallToolRequest, args DispatchArgs) (StateResponse[S], error) {
	if args.Type == "" {
		return StateResponse[S]{}, fmt.Errorf("action type is required")
	}
	action := domain.Action{Type: args.Type}
	if args.Payload != "" {
		dec := json.NewDecoder(strings.NewReader(args.Payload))
		dec.UseNumber()
		if err := dec.Decode(&action.Payload); err != nil {
			return StateResponse[S]{}, fmt.Errorf("payload is not valid JSON: %w", err)
		}
	}
	action, err := sanitize.Action(action)
	if err != nil {
		return StateResponse[S]{}, err
	}
	return s.apply(ctx, action)
}

func (s *Server[S]) handleGetHistory(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(s.store.State().History)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode history: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server[S]) apply(ctx context.Context, action domain.Action) (StateResponse[S], error) {
	st, err := s.store.Dispatch(ctx, action)
	if err != nil {
		s.logger.Warn("MCP dispatch rejected", "action", action.Type, "err", err)
		return StateResponse[S]{}, err
	}
	return toResponse(st), nil
}

func toResponse[S any](st enhancer.State[S]) StateResponse[S] {
	resp := StateResponse[S]{
		Base: st.Base,
		Head: st.History.Head(),
		Len:  st.History.Len(),
	}
	if e, ok := st.History.Current(); ok {
		resp.Message = e.Message
	}
	return resp
}

func (s *Server[S]) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(historyURI, "History Log",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(s.store.State().History)
		if err != nil {
			return nil, fmt.Errorf("failed to encode history: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      historyURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
