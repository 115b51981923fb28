// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the writing inbox as tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jonathanyeong/inkwell/internal/inbox"
	"github.com/jonathanyeong/inkwell/internal/index"
	"github.com/jonathanyeong/inkwell/internal/sm2"
)

// Server wraps the MCP server with inbox tools.
type Server struct {
	mcp   *server.MCPServer
	store *inbox.Store
	db    *index.DB
}

// New creates a new MCP server with all inbox tools registered.
func New(store *inbox.Store, db *index.DB) *Server {
	s := &Server{store: store, db: db}

	s.mcp = server.NewMCPServer(
		"Inkwell",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("add_entry",
		mcp.WithDescription("Add a new writing entry to the inbox. The first line of the "+
			"content becomes the file name; scheduling starts at the default interval."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Markdown body of the entry")),
	), s.addEntry)

	s.mcp.AddTool(mcp.NewTool("list_due_entries",
		mcp.WithDescription("List the entries due for review today, earliest-due first."),
	), s.listDueEntries)

	s.mcp.AddTool(mcp.NewTool("read_entry",
		mcp.WithDescription("Read the full content of an entry."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the entry (e.g. entries/2025-01-15-idea.md)")),
	), s.readEntry)

	s.mcp.AddTool(mcp.NewTool("review_entry",
		mcp.WithDescription("Apply a quality rating to an entry and reschedule it. "+
			"Ratings: fruitful (resurface sooner), skip, unfruitful (maximum spacing)."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the entry")),
		mcp.WithString("rating", mcp.Required(), mcp.Description("One of: fruitful, skip, unfruitful")),
	), s.reviewEntry)

	s.mcp.AddTool(mcp.NewTool("archive_entry",
		mcp.WithDescription("Archive an entry: it keeps its record but is excluded from "+
			"future reviews and moved to the archive folder."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the entry")),
	), s.archiveEntry)

	s.mcp.AddTool(mcp.NewTool("search_entries",
		mcp.WithDescription("Full-text search through entry bodies."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchEntries)

	s.mcp.AddTool(mcp.NewTool("get_entry_contract",
		mcp.WithDescription("Returns the canonical entry format contract. Call this before "+
			"creating or editing entry files directly."),
	), s.getEntryContract)

	// Resource: entry format contract.
	s.mcp.AddResource(
		mcp.NewResource("inkwell://entry-format", "Entry Format Contract",
			mcp.WithResourceDescription("Canonical Markdown entry format with the scheduling metadata block."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readEntryFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) addEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.store.Create(content)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s (id %s)", rec.Path, rec.ID)), nil
}

func (s *Server) listDueEntries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	due, err := s.store.ListDue(s.store.Now())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(due) == 0 {
		return mcp.NewToolResultText("no entries due for review"), nil
	}
	var lines []string
	for _, rec := range due {
		lines = append(lines, fmt.Sprintf("%s (next review %s)", rec.Path, rec.NextReviewAt.Format("2006-01-02")))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) readEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.store.Read(path)
	if err != nil || rec == nil {
		return mcp.NewToolResultError(fmt.Sprintf("not a managed entry: %s", path)), nil
	}
	out, _ := json.MarshalIndent(rec, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) reviewEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ratingStr, err := req.RequireString("rating")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rating, err := sm2.ParseRating(ratingStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rec, err := s.store.Read(path)
	if err != nil || rec == nil {
		return mcp.NewToolResultError(fmt.Sprintf("not a managed entry: %s", path)), nil
	}

	now := s.store.Now()
	res := sm2.Calculate(int(rating), rec.Repetitions, rec.EaseFactor, rec.Interval)
	rec.Interval = res.Interval
	rec.Repetitions = res.Repetitions
	rec.EaseFactor = res.EaseFactor
	rec.LastReviewedAt = now
	rec.NextReviewAt = sm2.NextReviewDate(now, res.Interval)

	if err := s.store.Write(rec, rec.Content); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("rated %s: next review %s (interval %d, ease %.2f)",
		rating, rec.NextReviewAt.Format("2006-01-02"), rec.Interval, rec.EaseFactor)), nil
}

func (s *Server) archiveEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.store.Archive(path); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("archived: %s", path)), nil
}

func (s *Server) searchEntries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.db.Search(query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getEntryContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(EntryFormatContract), nil
}

func (s *Server) readEntryFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "inkwell://entry-format",
			MIMEType: "text/markdown",
			Text:     EntryFormatContract,
		},
	}, nil
}
