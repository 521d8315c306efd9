package github

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/vangberg/issuerizer/pkg/domain/interfaces"
	"github.com/vangberg/issuerizer/pkg/domain/model"
	"github.com/vangberg/issuerizer/pkg/domain/types"
)

type client struct {
	githubClient *github.Client
}

// Option is a functional option for client configuration
type Option func(*client) error

// WithBaseURL overrides the API base URL, mainly for tests against a
// local HTTP server.
func WithBaseURL(rawURL string) Option {
	return func(c *client) error {
		u, err := url.Parse(rawURL)
		if err != nil {
			return goerr.Wrap(err, "invalid base URL", goerr.V("url", rawURL))
		}
		// go-github requires a trailing slash on the base URL
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		c.githubClient.BaseURL = u
		return nil
	}
}

// NewClient creates a GitHub client authenticated with a personal access
// token or Actions-provided GITHUB_TOKEN.
func NewClient(token string, opts ...Option) (interfaces.GitHubClient, error) {
	c := &client{
		githubClient: github.NewClient(nil).WithAuthToken(token),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// GetIssueThread retrieves the issue and all of its comments. Comments
// are requested sorted by creation time ascending so the thread reads in
// conversation order.
func (c *client) GetIssueThread(ctx context.Context, ref *model.IssueRef) (*model.IssueThread, error) {
	issue, _, err := c.githubClient.Issues.Get(ctx, ref.Owner, ref.Repo, ref.Number)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get issue",
			goerr.T(types.TagFetch), goerr.V("ref", ref.String()))
	}

	comments, err := c.listAllComments(ctx, ref)
	if err != nil {
		return nil, err
	}

	return &model.IssueThread{
		Title:     issue.GetTitle(),
		Body:      issue.GetBody(),
		State:     issue.GetState(),
		Author:    issue.GetUser().GetLogin(),
		HTMLURL:   issue.GetHTMLURL(),
		CreatedAt: issue.GetCreatedAt().Time,
		Comments:  comments,
	}, nil
}

func (c *client) listAllComments(ctx context.Context, ref *model.IssueRef) ([]model.Comment, error) {
	opts := &github.IssueListCommentsOptions{
		Sort:        github.Ptr("created"),
		Direction:   github.Ptr("asc"),
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var comments []model.Comment
	for {
		page, resp, err := c.githubClient.Issues.ListComments(ctx, ref.Owner, ref.Repo, ref.Number, opts)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list issue comments",
				goerr.T(types.TagFetch), goerr.V("ref", ref.String()))
		}

		for _, ic := range page {
			comments = append(comments, model.Comment{
				Author:    ic.GetUser().GetLogin(),
				Body:      ic.GetBody(),
				HTMLURL:   ic.GetHTMLURL(),
				CreatedAt: ic.GetCreatedAt().Time,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return comments, nil
}

// GetReadme fetches the repository README. A repository without a README
// yields an empty string, not an error.
func (c *client) GetReadme(ctx context.Context, ref *model.IssueRef) (string, error) {
	readme, resp, err := c.githubClient.Repositories.GetReadme(ctx, ref.Owner, ref.Repo, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == 404 {
			return "", nil
		}
		return "", goerr.Wrap(err, "failed to get readme",
			goerr.T(types.TagFetch), goerr.V("ref", ref.String()))
	}

	content, err := readme.GetContent()
	if err != nil {
		return "", goerr.Wrap(err, "failed to decode readme content",
			goerr.T(types.TagFetch), goerr.V("ref", ref.String()))
	}

	return content, nil
}

// UpdateIssueBody replaces the issue body. The previous body is not
// preserved anywhere; the caller is expected to have warned the user.
func (c *client) UpdateIssueBody(ctx context.Context, ref *model.IssueRef, body string) error {
	_, _, err := c.githubClient.Issues.Edit(ctx, ref.Owner, ref.Repo, ref.Number, &github.IssueRequest{
		Body: github.Ptr(body),
	})
	if err != nil {
		return goerr.Wrap(err, "failed to update issue body",
			goerr.T(types.TagUpdate), goerr.V("ref", ref.String()))
	}

	return nil
}
