package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joescharf/prr/internal/form"
	"github.com/joescharf/prr/internal/output"
	"github.com/joescharf/prr/internal/store"
)

var (
	historyProject string
	historyLimit   int
	historyHTML    bool
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"hist"},
	Short:   "List and inspect generated reports",
	Long: `List and inspect the reports recorded by 'prr render' and the server.

Running bare 'prr history' is the same as 'prr history list'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return historyListRun(cmd.Context())
	},
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List generated reports, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return historyListRun(cmd.Context())
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a report's metadata and submission",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return historyShowRun(cmd.Context(), args[0])
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a report from history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return historyDeleteRun(cmd.Context(), args[0])
	},
}

func init() {
	for _, c := range []*cobra.Command{historyCmd, historyListCmd} {
		c.Flags().StringVar(&historyProject, "project", "", "Filter by project name")
		c.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of reports (0 for all)")
	}
	historyShowCmd.Flags().BoolVar(&historyHTML, "html", false, "Print the stored report HTML instead")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

func historyListRun(ctx context.Context) error {
	s, err := getStore()
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	reports, err := s.ListReports(ctx, store.ReportListFilter{Project: historyProject, Limit: historyLimit})
	if err != nil {
		return fmt.Errorf("list reports: %w", err)
	}
	if len(reports) == 0 {
		ui.Info("No reports recorded")
		return nil
	}

	table := ui.Table([]string{"ID", "Project", "Sprint", "Code Review", "Approval", "File", "Size", "Generated"})
	for _, r := range reports {
		_ = table.Append([]string{
			r.ID,
			r.Project,
			r.Sprint,
			output.StatusColor(string(r.CodeReview)),
			string(r.ApprovalType),
			r.FileName,
			strconv.FormatInt(r.PDFSize, 10),
			r.GeneratedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	return table.Render()
}

func historyShowRun(ctx context.Context, id string) error {
	s, err := getStore()
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	r, err := s.GetReport(ctx, id)
	if err != nil {
		return err
	}

	if historyHTML {
		fmt.Fprint(ui.Out, r.HTML)
		return nil
	}

	fmt.Fprintf(ui.Out, "%s  %s\n", output.Cyan("ID:"), r.ID)
	fmt.Fprintf(ui.Out, "%s  %s\n", output.Cyan("Project:"), r.Project)
	fmt.Fprintf(ui.Out, "%s  %s\n", output.Cyan("Sprint:"), r.Sprint)
	fmt.Fprintf(ui.Out, "%s  %s\n", output.Cyan("Code Review:"), output.StatusColor(string(r.CodeReview)))
	fmt.Fprintf(ui.Out, "%s  %s\n", output.Cyan("Approval:"), r.ApprovalType)
	fmt.Fprintf(ui.Out, "%s  %s (%d bytes)\n", output.Cyan("File:"), r.FileName, r.PDFSize)
	fmt.Fprintf(ui.Out, "%s  %s\n", output.Cyan("Generated:"), r.GeneratedAt.Local().Format("2006-01-02 15:04:05"))

	if r.Submission != nil {
		data, err := form.ToYAML(r.Submission)
		if err != nil {
			return err
		}
		fmt.Fprintln(ui.Out)
		fmt.Fprint(ui.Out, string(data))
	}
	return nil
}

func historyDeleteRun(ctx context.Context, id string) error {
	s, err := getStore()
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if dryRun {
		r, err := s.GetReport(ctx, id)
		if err != nil {
			return err
		}
		ui.DryRunMsg("Would delete report %s (%s, %s)", r.ID, r.Project, r.FileName)
		return nil
	}

	if err := s.DeleteReport(ctx, id); err != nil {
		return err
	}
	ui.Success("Deleted report %s", id)
	return nil
}
