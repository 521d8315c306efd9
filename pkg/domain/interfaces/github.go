package interfaces

import (
	"context"

	"github.com/vangberg/issuerizer/pkg/domain/model"
)

// GitHubClient defines operations for interacting with GitHub API
type GitHubClient interface {
	// GetIssueThread retrieves an issue and its comments in chronological order
	GetIssueThread(ctx context.Context, ref *model.IssueRef) (*model.IssueThread, error)

	// GetReadme retrieves the repository README content. A missing README
	// is not an error: it returns an empty string.
	GetReadme(ctx context.Context, ref *model.IssueRef) (string, error)

	// UpdateIssueBody replaces the issue body with the given text
	UpdateIssueBody(ctx context.Context, ref *model.IssueRef, body string) error
}
