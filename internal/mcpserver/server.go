// Package mcpserver exposes the debate catalog as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/daikw/philofight/internal/catalog"
)

// New builds an MCP server over cat
func New(cat *catalog.Catalog, version string) *server.MCPServer {
	s := server.NewMCPServer("philofight", version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	h := &handlers{catalog: cat}

	s.AddTool(mcp.NewTool("list_debates",
		mcp.WithDescription("List debates, optionally filtered by a search query or category"),
		mcp.WithString("query", mcp.Description("Case-insensitive text matched against title, topic and philosophers")),
		mcp.WithString("category", mcp.Description("Exact category, e.g. ethics")),
	), h.listDebates)

	s.AddTool(mcp.NewTool("get_debate",
		mcp.WithDescription("Show one debate with its participants"),
		mcp.WithString("id", mcp.Required(), mcp.Description("Debate id")),
	), h.getDebate)

	s.AddTool(mcp.NewTool("get_philosopher",
		mcp.WithDescription("Show a philosopher by id or display name"),
		mcp.WithString("id", mcp.Required(), mcp.Description("Philosopher id or name")),
	), h.getPhilosopher)

	return s
}

// Serve runs the server over stdio until the client disconnects
func Serve(cat *catalog.Catalog, version string) error {
	log.Debug().Str("version", version).Msg("Starting MCP server on stdio")
	return server.ServeStdio(New(cat, version))
}

type handlers struct {
	catalog *catalog.Catalog
}

type debateSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Topic    string `json:"topic"`
	Category string `json:"category"`
	Format   string `json:"format"`
}

type debateDetail struct {
	catalog.Debate
	Participants []string `json:"participants"`
}

func (h *handlers) listDebates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	category := req.GetString("category", "")

	debates := h.catalog.Search(query)
	summaries := make([]debateSummary, 0, len(debates))
	for _, d := range debates {
		if category != "" && !strings.EqualFold(d.Category, category) {
			continue
		}
		format := "solo"
		if d.IsSquad() {
			format = "squad"
		}
		summaries = append(summaries, debateSummary{
			ID:       d.ID,
			Title:    d.Title,
			Topic:    d.Topic,
			Category: d.Category,
			Format:   format,
		})
	}
	return jsonResult(summaries)
}

func (h *handlers) getDebate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, ok := h.catalog.Debate(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("debate '%s' does not exist", id)), nil
	}

	detail := debateDetail{Debate: d, Participants: []string{}}
	for _, pid := range d.PersonaIDs() {
		if p, ok := h.catalog.Philosopher(pid); ok {
			detail.Participants = append(detail.Participants, p.Name)
		}
	}
	return jsonResult(detail)
}

func (h *handlers) getPhilosopher(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, ok := h.catalog.Resolve(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("philosopher '%s' does not exist", id)), nil
	}
	return jsonResult(p)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
