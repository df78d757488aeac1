// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes daycal tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/daycal/internal/caldate"
	"github.com/starford/daycal/internal/calservice"
	"github.com/starford/daycal/internal/dayinfo"
)

const formatURI = "daycal://day-file-format"

// Server wraps the MCP server with daycal tools.
type Server struct {
	mcp *server.MCPServer
	svc *calservice.Service
}

// New creates a new MCP server with all daycal tools registered.
func New(svc *calservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"daycal",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_cursor",
		mcp.WithDescription("Return the selected date with its month, year and weekday."),
	), s.getCursor)

	s.mcp.AddTool(mcp.NewTool("navigate",
		mcp.WithDescription("Move the selected date. Day, month and year moves clamp the day of month "+
			"(Jan 31 + 1 month = Feb 28/29)."),
		mcp.WithString("op", mcp.Required(), mcp.Enum(calservice.Ops()...), mcp.Description("Move to apply")),
		mcp.WithString("date", mcp.Description("Target date (YYYY-MM-DD), required for op=date")),
	), s.navigate)

	s.mcp.AddTool(mcp.NewTool("get_month",
		mcp.WithDescription("Return the 6x7 month grid around the selected date, with per-cell flags and tooltips."),
	), s.getMonth)

	s.mcp.AddTool(mcp.NewTool("get_year",
		mcp.WithDescription("Return every day of the selected year with flags and tooltips."),
	), s.getYear)

	s.mcp.AddTool(mcp.NewTool("get_day_info",
		mcp.WithDescription("Read the header, content and tooltip text of one day."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Date (YYYY-MM-DD)")),
	), s.getDayInfo)

	s.mcp.AddTool(mcp.NewTool("set_day_info",
		mcp.WithDescription("Store the header and content of one day. Empty header and content clear the day. "+
			"Read the format via the get_day_format tool or the "+formatURI+" resource."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Date (YYYY-MM-DD)")),
		mcp.WithString("header", mcp.Description("One-line header")),
		mcp.WithString("content", mcp.Description("Content lines separated by newlines")),
	), s.setDayInfo)

	s.mcp.AddTool(mcp.NewTool("search_days",
		mcp.WithDescription("Search day headers and content. Only available with the sqlite store."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 20)")),
	), s.searchDays)

	s.mcp.AddTool(mcp.NewTool("get_day_format",
		mcp.WithDescription("Returns the day file format and tooltip rendering rules."),
	), s.getDayFormat)

	s.mcp.AddResource(
		mcp.NewResource(formatURI, "Day File Format",
			mcp.WithResourceDescription("Month file layout of the days directory and tooltip rendering."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDayFormatResource,
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

func jsonResult(v any, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getCursor(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Cursor(ctx))
}

func (s *Server) navigate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	op, err := req.RequireString("op")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.svc.Navigate(ctx, calservice.Op(op), req.GetString("date", "")))
}

func (s *Server) getMonth(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Month(ctx))
}

func (s *Server) getYear(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Year(ctx))
}

func (s *Server) getDayInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, errResult := requireDate(req)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(s.svc.DayInfo(ctx, date))
}

func (s *Server) setDayInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, errResult := requireDate(req)
	if errResult != nil {
		return errResult, nil
	}
	var lines []string
	for _, l := range strings.Split(req.GetString("content", ""), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	header := strings.TrimSpace(req.GetString("header", ""))
	return jsonResult(s.svc.SetDayInfo(ctx, dayinfo.NewInfo(date, header, lines...)))
}

func (s *Server) searchDays(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.svc.Search(ctx, query, req.GetInt("limit", 0)))
}

func (s *Server) getDayFormat(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(DayFileFormat), nil
}

func (s *Server) readDayFormatResource(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      formatURI,
			MIMEType: "text/markdown",
			Text:     DayFileFormat,
		},
	}, nil
}

func requireDate(req mcp.CallToolRequest) (caldate.Date, *mcp.CallToolResult) {
	raw, err := req.RequireString("date")
	if err != nil {
		return caldate.Date{}, mcp.NewToolResultError(err.Error())
	}
	date, err := caldate.Parse(raw)
	if err != nil {
		return caldate.Date{}, mcp.NewToolResultError(err.Error())
	}
	return date, nil
}
