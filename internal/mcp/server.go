package mcp

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"pipeline-lab/internal/config"
	"pipeline-lab/internal/pipeline"
)

// Server exposes the statistical core to MCP clients over stdio. The
// presentation layer (chat host, notebook, web UI) is an external
// collaborator: it supplies tabular input files and renders the series
// these tools return.
type Server struct {
	cfg   *config.AppConfig
	store *pipeline.Store
	impl  *mcp.Server
}

// NewServer wires the tool handlers onto an MCP server instance.
func NewServer(cfg *config.AppConfig) *Server {
	s := &Server{
		cfg:   cfg,
		store: pipeline.NewStore(cfg.MaxRows),
	}

	s.impl = mcp.NewServer(&mcp.Implementation{
		Name:    "pipeline-lab",
		Version: "0.1.0",
	}, nil)

	s.registerTools()
	return s
}

// Serve runs the stdio loop until the client disconnects.
func (s *Server) Serve(ctx context.Context) error {
	log.Info().Msg("MCP server starting stdio loop")
	return s.impl.Run(ctx, &mcp.StdioTransport{})
}

// jsonText marshals a payload into a single text content block, the
// shape MCP hosts expect for structured analytical results.
func jsonText(payload any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
			IsError: true,
		}
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(out)}},
	}
}

// survivalPath and dealsPath fall back to the configured sample files
// so a host can explore without uploading anything.
func (s *Server) survivalPath(file string) string {
	if file == "" {
		return s.cfg.SurvivalFile
	}
	return file
}

func (s *Server) dealsPath(file string) string {
	if file == "" {
		return s.cfg.DealsFile
	}
	return file
}
