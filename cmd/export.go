package cmd

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joescharf/prr/internal/models"
	"github.com/joescharf/prr/internal/store"
)

var (
	exportFormat  string
	exportProject string
	exportLimit   int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export report history as JSON, CSV, or Markdown",
	Long: `Export the recorded report history in various formats.
Use --project and --limit to narrow the export.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportRun(cmd.Context())
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Output format: json, csv, markdown")
	exportCmd.Flags().StringVar(&exportProject, "project", "", "Filter by project name")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 0, "Maximum number of reports (0 for all)")
	historyCmd.AddCommand(exportCmd)
}

func exportRun(ctx context.Context) error {
	s, err := getStore()
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	reports, err := s.ListReports(ctx, store.ReportListFilter{Project: exportProject, Limit: exportLimit})
	if err != nil {
		return err
	}
	return exportReports(reports)
}

func exportReports(reports []*models.ReportRecord) error {
	switch exportFormat {
	case "json":
		if reports == nil {
			reports = []*models.ReportRecord{}
		}
		enc := json.NewEncoder(ui.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case "csv":
		w := csv.NewWriter(ui.Out)
		_ = w.Write([]string{"ID", "Project", "Sprint", "CodeReview", "ApprovalType", "FileName", "PDFSize", "Generated"})
		for _, r := range reports {
			_ = w.Write([]string{r.ID, r.Project, r.Sprint, string(r.CodeReview), string(r.ApprovalType),
				r.FileName, strconv.FormatInt(r.PDFSize, 10), r.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z")})
		}
		w.Flush()
		return w.Error()
	case "markdown":
		fmt.Fprintln(ui.Out, "# Project Review Reports")
		fmt.Fprintln(ui.Out)
		fmt.Fprintln(ui.Out, "| Project | Sprint | Code Review | Approval | File | Generated |")
		fmt.Fprintln(ui.Out, "|---------|--------|-------------|----------|------|-----------|")
		for _, r := range reports {
			fmt.Fprintf(ui.Out, "| %s | %s | %s | %s | %s | %s |\n", mdCell(r.Project), mdCell(r.Sprint),
				mdCell(string(r.CodeReview)), mdCell(string(r.ApprovalType)), mdCell(r.FileName),
				r.GeneratedAt.UTC().Format("2006-01-02"))
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", exportFormat)
	}
}

// mdCell escapes pipes and flattens newlines so a value stays in one table cell.
func mdCell(s string) string {
	return markdownCell.Replace(s)
}

var markdownCell = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ")
