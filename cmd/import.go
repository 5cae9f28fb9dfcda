package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joescharf/prr/internal/form"
	"github.com/joescharf/prr/internal/git"
	"github.com/joescharf/prr/internal/models"
	"github.com/joescharf/prr/internal/review"
)

var (
	importOutput string
	importRepo   string
)

// submissionExtractor drafts a submission from free-form notes.
type submissionExtractor interface {
	ExtractSubmission(ctx context.Context, notes string) (*models.ReviewSubmission, error)
}

// Replaceable in tests.
var (
	newGitClient    = func() git.Client { return git.NewClient() }
	newGitHubClient = func() git.GitHubClient { return git.NewGitHubClient() }
)

// newExtractor is replaceable in tests.
var newExtractor = func() (submissionExtractor, error) {
	c, err := newLLMClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

var importCmd = &cobra.Command{
	Use:   "import <notes.md>",
	Short: "Draft a submission file from sprint notes using an LLM",
	Long: `Draft a review submission from free-form sprint or release notes.

The draft is written as YAML (default submission.yaml) for review and editing,
then checked with the same rules as 'prr validate'. Problems are reported as
warnings; the file is written either way.

With --repo, blank project, commitId and prUrl fields are filled from the
git checkout at that path (the PR is looked up with the gh CLI).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return importRun(cmd.Context(), args[0])
	},
}

func init() {
	importCmd.Flags().StringVar(&importRepo, "repo", "", "Fill references from the git checkout at this path")
	importCmd.Flags().StringVarP(&importOutput, "output", "o", "submission.yaml", "Where to write the draft submission")
	rootCmd.AddCommand(importCmd)
}

func importRun(ctx context.Context, path string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	notes, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read notes: %w", err)
	}

	ex, err := newExtractor()
	if err != nil {
		return err
	}

	ui.Info("Drafting submission from %s", path)
	sub, err := ex.ExtractSubmission(ctx, string(notes))
	if err != nil {
		return fmt.Errorf("extract submission: %w", err)
	}

	if importRepo != "" {
		refs, err := git.Lookup(importRepo, newGitClient(), newGitHubClient())
		if err != nil {
			ui.Warning("Could not read git references from %s: %v", importRepo, err)
		} else if filled := git.Prefill(sub, refs); len(filled) > 0 {
			ui.VerboseLog("Filled from git: %v", filled)
		}
	}

	data, err := form.ToYAML(sub)
	if err != nil {
		return err
	}

	if res := review.Validate(sub); !res.OK {
		ui.Warning("Draft needs attention before rendering (%d problems)", len(res.Errors))
		for _, fe := range res.Errors {
			ui.FieldError(string(fe.Field), review.Label(fe.Field), fe.Message)
		}
	}

	if dryRun {
		ui.DryRunMsg("Would write %s", importOutput)
		fmt.Fprint(ui.Out, string(data))
		return nil
	}

	if importOutput == "-" {
		fmt.Fprint(ui.Out, string(data))
		return nil
	}
	if _, err := os.Stat(importOutput); err == nil {
		return fmt.Errorf("%s already exists; choose another path with -o", importOutput)
	}
	if err := os.WriteFile(importOutput, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", importOutput, err)
	}
	ui.Success("Wrote draft to %s", importOutput)
	return nil
}
