package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joescharf/prr/internal/form"
	"github.com/joescharf/prr/internal/models"
	"github.com/joescharf/prr/internal/review"
)

// errInvalidSubmission signals a failed validation after the field errors
// have already been printed.
var errInvalidSubmission = errors.New("submission is invalid")

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a review submission file",
	Long: `Validate a review submission written as YAML (or JSON) with the form
field names as keys. Use "-" to read from stdin.

Every problem is reported, not just the first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateRun(args[0])
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateRun(path string) error {
	sub, err := readSubmission(path)
	if err != nil {
		return err
	}

	res := review.Validate(sub)
	if res.OK {
		ui.Success("%s is valid", displayName(path))
		return nil
	}

	reportInvalid(path, res)
	return errInvalidSubmission
}

// reportInvalid prints every field error of a failed validation.
func reportInvalid(path string, res review.Result) {
	ui.Error("%s is invalid (%d problems)", displayName(path), len(res.Errors))
	for _, fe := range res.Errors {
		ui.FieldError(string(fe.Field), review.Label(fe.Field), fe.Message)
	}
}

// readSubmission decodes a submission document from path, or stdin for "-".
func readSubmission(path string) (*models.ReviewSubmission, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open submission: %w", err)
		}
		defer f.Close()
		r = f
	}

	sub, err := form.FromYAML(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", displayName(path), err)
	}
	ui.VerboseLog("Loaded submission for project %q", sub.Project)
	return sub, nil
}

func displayName(path string) string {
	if path == "-" {
		return "stdin"
	}
	return path
}
