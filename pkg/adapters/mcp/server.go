package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hawkeye-rf/emflow"
	"github.com/hawkeye-rf/emflow/internal/logging"
	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	runsURI        = "emflow://runs"
	runTemplateURI = "emflow://runs/{id}"
)

// Engine defines what the MCP server needs from emflow.
type Engine interface {
	Inspect(ctx context.Context, ref domain.ProjectRef) (*domain.InspectionReport, error)
	Runs(ctx context.Context) ([]*domain.RunRecord, error)
	GetRun(ctx context.Context, id string) (*domain.RunRecord, error)
}

// InspectArgs are the arguments of the inspect_project tool.
type InspectArgs struct {
	Path   string `json:"path"`
	Design string `json:"design,omitempty"`
}

// GetRunArgs are the arguments of the get_run tool.
type GetRunArgs struct {
	ID string `json:"id"`
}

// RunList is the result of the list_runs tool.
type RunList struct {
	Runs []RunSummary `json:"runs" jsonschema_description:"Stored runs, newest first"`
}

// RunSummary is one entry of RunList.
type RunSummary struct {
	ID       string           `json:"id"`
	Project  string           `json:"project"`
	Design   string           `json:"design,omitempty"`
	Status   domain.RunStatus `json:"status"`
	Warnings []string         `json:"warnings,omitempty"`
}

// Server exposes inspection and run history as MCP tools and resources.
// Provisioning runs are not exposed: they mutate projects and are started from the CLI.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		engine:    engine,
		logger:    logger,
		mcpServer: server.NewMCPServer("emflow-mcp", strings.TrimSpace(emflow.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP server over SSE until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))
	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
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
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	inspectTool := mcp.NewTool("inspect_project",
		mcp.WithDescription("Open a project read-only and list its setups, sweeps, boundaries, variables and report traces."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path of the .aedt project file")),
		mcp.WithString("design", mcp.Description("Design name (optional, defaults to the active design)")),
		mcp.WithOutputSchema[domain.InspectionReport](),
	)
	s.mcpServer.AddTool(inspectTool, mcp.NewStructuredToolHandler(s.handleInspect))

	listTool := mcp.NewTool("list_runs",
		mcp.WithDescription("List provisioning runs recorded by emflow, newest first."),
		mcp.WithOutputSchema[RunList](),
	)
	s.mcpServer.AddTool(listTool, mcp.NewStructuredToolHandler(s.handleListRuns))

	getTool := mcp.NewTool("get_run",
		mcp.WithDescription("Get one run record with its stages, artifacts and warnings."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Run ID")),
		mcp.WithOutputSchema[domain.RunRecord](),
	)
	s.mcpServer.AddTool(getTool, mcp.NewStructuredToolHandler(s.handleGetRun))
}

func (s *Server) handleInspect(ctx context.Context, request mcp.CallToolRequest, args InspectArgs) (domain.InspectionReport, error) {
	if args.Path == "" {
		return domain.InspectionReport{}, errors.New("path is required")
	}
	rep, err := s.engine.Inspect(ctx, domain.ProjectRef{Path: args.Path, Design: args.Design})
	if err != nil {
		s.logger.Warn("MCP inspect failed", "path", args.Path, "err", err)
		return domain.InspectionReport{}, fmt.Errorf("inspect failed: %w", err)
	}
	return *rep, nil
}

func (s *Server) handleListRuns(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (RunList, error) {
	runs, err := s.engine.Runs(ctx)
	if err != nil {
		return RunList{}, fmt.Errorf("list runs: %w", err)
	}
	out := RunList{Runs: make([]RunSummary, 0, len(runs))}
	for _, rec := range runs {
		out.Runs = append(out.Runs, RunSummary{
			ID:       rec.ID,
			Project:  rec.Project,
			Design:   rec.Design,
			Status:   rec.Status,
			Warnings: rec.Warnings,
		})
	}
	return out, nil
}

func (s *Server) handleGetRun(ctx context.Context, request mcp.CallToolRequest, args GetRunArgs) (domain.RunRecord, error) {
	rec, err := s.engine.GetRun(ctx, args.ID)
	if err != nil {
		return domain.RunRecord{}, fmt.Errorf("get run %q: %w", args.ID, err)
	}
	return *rec, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(runsURI, "Run history",
		mcp.WithMIMEType("application/json"),
	), s.readRuns)

	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(runTemplateURI, "Run record",
		mcp.WithTemplateMIMEType("application/json"),
	), s.readRun)
}

func (s *Server) readRuns(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	list, err := s.handleListRuns(ctx, mcp.CallToolRequest{}, nil)
	if err != nil {
		return nil, err
	}
	return jsonContents(runsURI, list)
}

func (s *Server) readRun(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := request.Params.URI
	id := strings.TrimPrefix(uri, runsURI+"/")
	if id == "" || id == uri {
		return nil, fmt.Errorf("invalid run URI %q", uri)
	}
	rec, err := s.engine.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	return jsonContents(uri, rec)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: uri, MIMEType: "application/json", Text: string(data)},
	}, nil
}
