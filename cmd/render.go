package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/joescharf/prr/internal/generate"
	"github.com/joescharf/prr/internal/pdf"
	"github.com/joescharf/prr/internal/store"
)

var (
	renderFormat    string
	renderOutput    string
	renderNoHistory bool
)

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Render a review submission to HTML or PDF",
	Long: `Render a review submission file to the report HTML, or to PDF through
the configured rendering service (renderer.url).

With --format html no rendering service is needed. PDF output defaults to
project_review_<date>.pdf in the current directory and is recorded in the
report history unless --no-history is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return renderRun(cmd, args[0])
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "pdf", "Output format: html or pdf")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", `Output path ("-" for stdout)`)
	renderCmd.Flags().BoolVar(&renderNoHistory, "no-history", false, "Do not record the report in history")
	rootCmd.AddCommand(renderCmd)
}

func renderRun(cmd *cobra.Command, path string) error {
	if renderFormat != "html" && renderFormat != "pdf" {
		return fmt.Errorf("invalid format %q: must be html or pdf", renderFormat)
	}

	sub, err := readSubmission(path)
	if err != nil {
		return err
	}

	var s store.Store
	if renderFormat == "pdf" && !renderNoHistory && !dryRun {
		if s, err = historyStore(); err != nil {
			return err
		}
	}
	svc, err := newService(s)
	if err != nil {
		return err
	}

	if renderFormat == "html" {
		out, err := svc.Preview(sub)
		if err != nil {
			return renderError(path, err)
		}
		return writeOutput(cmd, renderOutput, "report.html", []byte(out.HTML))
	}

	if dryRun {
		if _, err := svc.Preview(sub); err != nil {
			return renderError(path, err)
		}
		ui.DryRunMsg("Would render %s to %s", displayName(path), outputPath(renderOutput, pdf.FileName(time.Now())))
		return nil
	}

	out, err := svc.Generate(cmd.Context(), sub)
	if err != nil && (out == nil || errors.Is(err, pdf.ErrGenerationFailed)) {
		return renderError(path, err)
	}
	if err != nil {
		ui.Warning("Report rendered but not recorded: %v", err)
	}

	if err := writeOutput(cmd, renderOutput, out.FileName, out.PDF); err != nil {
		return err
	}
	if out.RecordID != "" {
		ui.VerboseLog("Recorded report %s", out.RecordID)
	}
	return nil
}

func renderError(path string, err error) error {
	var invalid *generate.InvalidError
	if errors.As(err, &invalid) {
		reportInvalid(path, invalid.Result)
		return errInvalidSubmission
	}
	if errors.Is(err, pdf.ErrGenerationFailed) {
		return fmt.Errorf("failed to generate PDF: %w", err)
	}
	return err
}

func outputPath(flag, defaultName string) string {
	if flag != "" {
		return flag
	}
	return defaultName
}

// writeOutput writes data to the -o path, stdout for "-", or defaultName.
func writeOutput(cmd *cobra.Command, flag, defaultName string, data []byte) error {
	dest := outputPath(flag, defaultName)
	if dest == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	ui.Success("Wrote %s (%d bytes)", dest, len(data))
	return nil
}
