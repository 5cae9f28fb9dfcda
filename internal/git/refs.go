package git

import (
	"github.com/joescharf/prr/internal/models"
)

// Refs are the review references found in a local checkout.
type Refs struct {
	Project  string
	Branch   string
	CommitID string
	PRURL    string
}

// Lookup collects references from the checkout at path. The GitHub client is
// optional and PR lookup is best-effort.
func Lookup(path string, gc Client, ghc GitHubClient) (*Refs, error) {
	root, err := gc.RepoRoot(path)
	if err != nil {
		return nil, err
	}

	refs := &Refs{Project: repoName(root)}
	if refs.CommitID, err = gc.LastCommitHash(root); err != nil {
		return nil, err
	}
	refs.Branch, _ = gc.CurrentBranch(root)

	if ghc == nil || refs.Branch == "" || refs.Branch == "HEAD" {
		return refs, nil
	}
	remote, _ := gc.RemoteURL(root)
	owner, repo, err := ExtractOwnerRepo(remote)
	if err != nil {
		return refs, nil
	}
	if pr, err := ghc.PRForBranch(owner, repo, refs.Branch); err == nil && pr != nil {
		refs.PRURL = pr.URL
	}
	return refs, nil
}

// Prefill copies refs into the blank reference fields of sub. It returns the
// names of the fields it filled.
func Prefill(sub *models.ReviewSubmission, refs *Refs) []string {
	var filled []string
	set := func(dst *string, v, name string) {
		if *dst == "" && v != "" {
			*dst = v
			filled = append(filled, name)
		}
	}
	set(&sub.Project, refs.Project, "project")
	set(&sub.CommitID, refs.CommitID, "commitId")
	set(&sub.PRURL, refs.PRURL, "prUrl")
	return filled
}
