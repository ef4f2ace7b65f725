// Package mcpserver exposes the tool catalog over the Model Context
// Protocol, on stdio or streamable HTTP.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"browser-mcp/internal/application/port/output"
	"browser-mcp/internal/domain/entity"
)

const shutdownTimeout = 10 * time.Second

// Dispatcher executes tool calls and never fails at the Go level.
type Dispatcher interface {
	Definitions() []entity.ToolDefinition
	Call(ctx context.Context, call entity.ToolCall) *entity.ToolResult
}

// SessionStatus reports the browser session for health checks.
type SessionStatus interface {
	IsOpen() bool
	ID() string
}

type Config struct {
	Name    string
	Version string
}

type Server struct {
	mcp        *server.MCPServer
	dispatcher Dispatcher
	status     SessionStatus
	logger     output.LoggerPort
}

func New(cfg Config, dispatcher Dispatcher, status SessionStatus, logger output.LoggerPort) (*Server, error) {
	s := &Server{
		mcp: server.NewMCPServer(cfg.Name, cfg.Version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		dispatcher: dispatcher,
		status:     status,
		logger:     logger,
	}

	for _, def := range dispatcher.Definitions() {
		schema, err := json.Marshal(def.Parameters)
		if err != nil {
			return nil, fmt.Errorf("encode schema of %s: %w", def.Name, err)
		}
		s.mcp.AddTool(mcp.NewToolWithRawSchema(def.Name.String(), def.Description, schema), s.handle)
	}
	return s, nil
}

func (s *Server) handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res := s.dispatcher.Call(ctx, entity.ToolCall{
		Name:      entity.ToolName(req.Params.Name),
		Arguments: entity.Arguments(req.GetArguments()),
	})
	return ToCallResult(res), nil
}

// ToCallResult maps a ToolResult onto the protocol's single text content
// block with isError set for failures.
func ToCallResult(res *entity.ToolResult) *mcp.CallToolResult {
	if res.IsError {
		return mcp.NewToolResultError(res.Text)
	}
	return mcp.NewToolResultText(res.Text)
}

// ServeStdio speaks the protocol over in/out until ctx is done or in closes.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer, errLog *log.Logger) error {
	stdio := server.NewStdioServer(s.mcp)
	if errLog != nil {
		stdio.SetErrorLogger(errLog)
	}
	s.logger.Info("Serving MCP over stdio")
	err := stdio.Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("stdio transport: %w", err)
	}
	return nil
}

// Handler returns the HTTP routes: the streamable MCP endpoint at /mcp and
// a liveness probe at /healthz.
func (s *Server) Handler() http.Handler {
	accessLog := httplog.NewLogger("browser-mcp", httplog.Options{
		JSON:    true,
		Concise: true,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(accessLog))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/mcp", server.NewStreamableHTTPServer(s.mcp))
	return r
}

// ServeHTTP listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Serving MCP over HTTP", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("HTTP shutdown error", "error", err)
		}
		return nil
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		return fmt.Errorf("http transport: %w", err)
	}
}

type health struct {
	Status      string `json:"status"`
	SessionOpen bool   `json:"session_open"`
	SessionID   string `json:"session_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(health{
		Status:      "ok",
		SessionOpen: s.status.IsOpen(),
		SessionID:   s.status.ID(),
	})
}
