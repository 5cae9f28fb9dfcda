package git

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// PullRequest represents a GitHub pull request.
type PullRequest struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	State  string `json:"state"`
	Branch string `json:"headRefName"`
	URL    string `json:"url"`
}

// GitHubClient wraps the gh CLI for GitHub metadata.
type GitHubClient interface {
	PRForBranch(owner, repo, branch string) (*PullRequest, error)
}

// RealGitHubClient implements GitHubClient using the gh CLI.
type RealGitHubClient struct{}

// NewGitHubClient returns a new RealGitHubClient.
func NewGitHubClient() *RealGitHubClient {
	return &RealGitHubClient{}
}

func ghCmd(args ...string) (string, error) {
	out, err := exec.Command("gh", args...).Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("gh %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("gh %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// PRForBranch returns the most recent pull request whose head is branch, or
// nil when there is none.
func (c *RealGitHubClient) PRForBranch(owner, repo, branch string) (*PullRequest, error) {
	out, err := ghCmd("pr", "list",
		"--repo", fmt.Sprintf("%s/%s", owner, repo),
		"--head", branch,
		"--state", "all",
		"--limit", "1",
		"--json", "number,title,state,headRefName,url",
	)
	if err != nil {
		return nil, err
	}
	return parsePRList(out)
}

func parsePRList(out string) (*PullRequest, error) {
	var prs []PullRequest
	if err := json.Unmarshal([]byte(out), &prs); err != nil {
		return nil, fmt.Errorf("parse PRs: %w", err)
	}
	if len(prs) == 0 {
		return nil, nil
	}
	return &prs[0], nil
}
