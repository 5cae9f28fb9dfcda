package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/joescharf/prr/internal/form"
	"github.com/joescharf/prr/internal/generate"
	"github.com/joescharf/prr/internal/models"
	"github.com/joescharf/prr/internal/store"
)

// Server exposes review validation, preview and report history as MCP tools.
type Server struct {
	svc     *generate.Service
	store   store.Store
	version string
}

// NewServer creates the MCP server wrapper. The store may be nil, in which
// case the history tool reports that no history is configured.
func NewServer(svc *generate.Service, s store.Store, version string) *Server {
	if version == "" {
		version = "dev"
	}
	return &Server{
		svc:     svc,
		store:   s,
		version: version,
	}
}

// MCPServer returns a configured mcp-go server with all tools registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("prr", s.version, server.WithToolCapabilities(true))

	srv.AddTool(s.validateReviewTool())
	srv.AddTool(s.previewReviewTool())
	srv.AddTool(s.listReportsTool())

	return srv
}

// ServeStdio starts the stdio transport, blocking until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	srv := s.MCPServer()
	stdioServer := server.NewStdioServer(srv)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// ---------------------------------------------------------------------------
// Tool definitions and handlers
// ---------------------------------------------------------------------------

const submissionDescription = "Review submission as a JSON or YAML document using the form field names " +
	"(project, sprint, startDate, endDate, codeReview, approverName, sonarQube, approvalType, " +
	"priorityIssues, priorityCounts, severityIssues, severityCounts, testCounts, prUrl, commitId, redmineUrl)"

// prr_validate_review
func (s *Server) validateReviewTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("prr_validate_review",
		mcp.WithDescription("Validate a project review submission. Returns a JSON object with ok and fieldErrors."),
		mcp.WithString("submission", mcp.Required(), mcp.Description(submissionDescription)),
	)
	return tool, s.handleValidateReview
}

func (s *Server) handleValidateReview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sub, errResult := parseSubmissionArg(request)
	if errResult != nil {
		return errResult, nil
	}

	data, err := json.Marshal(s.svc.Validate(sub))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// prr_preview_review
func (s *Server) previewReviewTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("prr_preview_review",
		mcp.WithDescription("Assemble the report for a valid submission and return its HTML. Fails with the invalid field names when validation does not pass."),
		mcp.WithString("submission", mcp.Required(), mcp.Description(submissionDescription)),
	)
	return tool, s.handlePreviewReview
}

func (s *Server) handlePreviewReview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sub, errResult := parseSubmissionArg(request)
	if errResult != nil {
		return errResult, nil
	}

	out, err := s.svc.Preview(sub)
	if err != nil {
		var invalid *generate.InvalidError
		if errors.As(err, &invalid) {
			return mcp.NewToolResultError(invalid.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to render report: %v", err)), nil
	}
	return mcp.NewToolResultText(out.HTML), nil
}

// prr_list_reports
func (s *Server) listReportsTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("prr_list_reports",
		mcp.WithDescription("List previously generated reports, newest first. Returns a JSON array with id, project, sprint, codeReview, approvalType, fileName and generatedAt."),
		mcp.WithString("project", mcp.Description("Filter by exact project name")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of reports to return")),
	)
	return tool, s.handleListReports
}

func (s *Server) handleListReports(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.store == nil {
		return mcp.NewToolResultError("report history is not configured"), nil
	}

	filter := store.ReportListFilter{
		Project: request.GetString("project", ""),
		Limit:   request.GetInt("limit", 0),
	}
	if filter.Limit < 0 {
		return mcp.NewToolResultError("limit must not be negative"), nil
	}

	reports, err := s.store.ListReports(ctx, filter)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list reports: %v", err)), nil
	}

	type reportOut struct {
		ID           string              `json:"id"`
		Project      string              `json:"project"`
		Sprint       string              `json:"sprint"`
		CodeReview   models.ReviewStatus `json:"codeReview"`
		ApprovalType models.ApprovalType `json:"approvalType"`
		FileName     string              `json:"fileName"`
		GeneratedAt  string              `json:"generatedAt"`
	}

	out := make([]reportOut, len(reports))
	for i, r := range reports {
		out[i] = reportOut{
			ID:           r.ID,
			Project:      r.Project,
			Sprint:       r.Sprint,
			CodeReview:   r.CodeReview,
			ApprovalType: r.ApprovalType,
			FileName:     r.FileName,
			GeneratedAt:  r.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
	}

	data, err := json.Marshal(out)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal reports: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// parseSubmissionArg decodes the "submission" argument. JSON is valid YAML,
// so one decoder serves both.
func parseSubmissionArg(request mcp.CallToolRequest) (*models.ReviewSubmission, *mcp.CallToolResult) {
	raw, err := request.RequireString("submission")
	if err != nil || strings.TrimSpace(raw) == "" {
		return nil, mcp.NewToolResultError("missing required parameter: submission")
	}
	sub, err := form.FromYAML(strings.NewReader(raw))
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("invalid submission document: %v", err))
	}
	return sub, nil
}
