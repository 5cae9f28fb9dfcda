package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/prr/internal/output"
	"github.com/joescharf/prr/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server, renderer and history status",
	Long: `Show whether the background server is running, whether the PDF
rendering service answers at renderer.url, and how many reports are recorded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return statusRun(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func statusRun(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	table := ui.Table([]string{"Component", "Status", "Detail"})

	if pid, running := pidFile().IsRunning(); running {
		_ = table.Append([]string{"server", output.Green("running"), fmt.Sprintf("PID %d, port %d", pid, viper.GetInt("port"))})
	} else {
		_ = table.Append([]string{"server", output.Yellow("stopped"), "prr serve start"})
	}

	rendererURL := viper.GetString("renderer.url")
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := newPDFClient().Ping(pingCtx); err != nil {
		ui.VerboseLog("renderer ping: %v", err)
		_ = table.Append([]string{"renderer", output.Red("unreachable"), rendererURL})
	} else {
		_ = table.Append([]string{"renderer", output.Green("reachable"), rendererURL})
	}

	switch {
	case !viper.GetBool("history.enabled"):
		_ = table.Append([]string{"history", output.Yellow("disabled"), ""})
	default:
		s, err := getStore()
		if err != nil {
			_ = table.Append([]string{"history", output.Red("error"), err.Error()})
			break
		}
		reports, err := s.ListReports(ctx, store.ReportListFilter{})
		if err != nil {
			_ = table.Append([]string{"history", output.Red("error"), err.Error()})
			break
		}
		_ = table.Append([]string{"history", output.Green("enabled"), fmt.Sprintf("%d reports in %s", len(reports), viper.GetString("db_path"))})
	}

	return table.Render()
}
