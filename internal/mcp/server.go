package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/clil-studio/internal/api"
	"github.com/ziadkadry99/clil-studio/internal/audit"
	"github.com/ziadkadry99/clil-studio/internal/lesson"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Library is the lesson storage the tools read from.
type Library interface {
	List(ctx context.Context, owner string) ([]lesson.Summary, error)
	Get(ctx context.Context, owner, id string) (*lesson.Document, error)
	Search(ctx context.Context, owner, query string, limit int) ([]api.SearchResult, error)
	History(ctx context.Context, owner, id string, limit int) ([]audit.Entry, error)
}

// Generator produces lesson content.
type Generator interface {
	Generate(ctx context.Context, req api.GenerateRequest) (string, error)
}

// Server wraps an MCP server that exposes the lesson library to agents.
type Server struct {
	lessons   Library
	generator Generator
	owner     string
	mcp       *server.MCPServer
}

// NewServer creates an MCP server over owner's lessons. generator may be
// nil, which leaves generate_activity out.
func NewServer(lessons Library, generator Generator, owner string) *Server {
	s := &Server{
		lessons:   lessons,
		generator: generator,
		owner:     owner,
	}

	s.mcp = server.NewMCPServer(
		"clilstudio",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(listLessonsTool, s.handleListLessons)
	s.mcp.AddTool(getLessonTool, s.handleGetLesson)
	s.mcp.AddTool(searchLessonsTool, s.handleSearchLessons)
	s.mcp.AddTool(lessonHistoryTool, s.handleLessonHistory)
	if s.generator != nil {
		s.mcp.AddTool(generateActivityTool, s.handleGenerateActivity)
	}
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
