package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/joescharf/prr/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP stdio server for Claude Code integration",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

This lets an assistant validate review submissions, preview report HTML and
browse report history. Configure in Claude Code with:

  {
    "mcpServers": {
      "prr": { "command": "prr", "args": ["mcp"] }
    }
  }

Available tools: prr_validate_review, prr_preview_review, prr_list_reports`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return mcpRun(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func mcpRun(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := historyStore()
	if err != nil {
		return err
	}
	svc, err := newService(s)
	if err != nil {
		return err
	}
	return mcp.NewServer(svc, s, buildVersion).ServeStdio(ctx)
}
