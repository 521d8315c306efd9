package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/vangberg/issuerizer/pkg/domain/interfaces"
	"github.com/vangberg/issuerizer/pkg/domain/model"
	"github.com/vangberg/issuerizer/pkg/domain/types"
)

//go:embed prompts/issue_summary_system.md
var systemPrompt string

//go:embed prompts/issue_summary_user.md
var userPromptTemplate string

const (
	// maxFieldChars limits individual bodies (issue, comment, README)
	// fed into the prompt. Oversized fields get a truncation marker.
	maxFieldChars = 10000

	repoLink = "https://github.com/vangberg/issuerizer"
)

type summarizeUseCase struct {
	llmClient    gollem.LLMClient
	githubClient interfaces.GitHubClient
	userTemplate *template.Template
	now          func() time.Time
}

// Option is a functional option for the summarize use case
type Option func(*summarizeUseCase)

// WithClock overrides the clock used for the generated-by footer
func WithClock(now func() time.Time) Option {
	return func(uc *summarizeUseCase) {
		uc.now = now
	}
}

// NewSummarize creates a new SummarizeUseCase instance
func NewSummarize(
	llmClient gollem.LLMClient,
	githubClient interfaces.GitHubClient,
	opts ...Option,
) (interfaces.SummarizeUseCase, error) {
	tmpl, err := template.New("user").Parse(userPromptTemplate)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse user prompt template")
	}

	uc := &summarizeUseCase{
		llmClient:    llmClient,
		githubClient: githubClient,
		userTemplate: tmpl,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc, nil
}

// Run executes the pipeline: fetch thread, fetch README, summarize,
// optionally update the issue body. Steps run strictly in sequence and
// the first hard failure aborts the run. When the final update step
// fails the already generated summary is returned alongside the error so
// the caller can still emit it.
func (uc *summarizeUseCase) Run(ctx context.Context, input *model.SummarizeInput) (*model.RunResult, error) {
	logger := ctxlog.From(ctx)

	thread, err := uc.githubClient.GetIssueThread(ctx, input.Ref)
	if err != nil {
		return nil, err
	}

	logger.Info("Fetched issue thread",
		"ref", input.Ref.String(),
		"title", thread.Title,
		"state", thread.State,
		"author", thread.Author,
		"comment_count", len(thread.Comments),
	)

	// README failure degrades the summary but never aborts the run
	readme, err := uc.githubClient.GetReadme(ctx, input.Ref)
	if err != nil {
		logger.Warn("Failed to fetch README, continuing without it", "error", err)
		readme = ""
	}

	summary, err := uc.generateSummary(ctx, input.Ref, thread, readme)
	if err != nil {
		return nil, err
	}

	result := &model.RunResult{Summary: summary}

	if input.Update {
		body := summary + uc.generatedByFooter()
		if err := uc.githubClient.UpdateIssueBody(ctx, input.Ref, body); err != nil {
			// The summary survives a failed write
			return result, err
		}
		result.Updated = true

		logger.Info("Updated issue body with generated summary", "ref", input.Ref.String())
	}

	return result, nil
}

// generateSummary builds the user prompt and asks the LLM for the
// summary text. The response is returned verbatim.
func (uc *summarizeUseCase) generateSummary(ctx context.Context, ref *model.IssueRef, thread *model.IssueThread, readme string) (string, error) {
	logger := ctxlog.From(ctx)

	prompt, err := uc.buildPrompt(ref, thread, readme)
	if err != nil {
		return "", err
	}

	logger.Debug("Calling LLM for issue summary", "prompt_length", len(prompt))

	session, err := uc.llmClient.NewSession(ctx,
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session", goerr.T(types.TagSummarize))
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate summary", goerr.T(types.TagSummarize))
	}

	if resp == nil || len(resp.Texts) == 0 {
		return "", goerr.New("empty response from LLM", goerr.T(types.TagSummarize))
	}

	summary := strings.TrimSpace(strings.Join(resp.Texts, ""))
	if summary == "" {
		return "", goerr.New("empty response from LLM", goerr.T(types.TagSummarize))
	}

	return summary, nil
}

type promptComment struct {
	Author    string
	CreatedAt string
	URL       string
	Body      string
}

// buildPrompt deterministically encodes the thread: title, body (with a
// marker when empty), then each comment with author, timestamp and URL
// in the order received.
func (uc *summarizeUseCase) buildPrompt(ref *model.IssueRef, thread *model.IssueThread, readme string) (string, error) {
	body := thread.Body
	if body == "" {
		body = "(No body)"
	}

	comments := make([]promptComment, 0, len(thread.Comments))
	for _, c := range thread.Comments {
		comments = append(comments, promptComment{
			Author:    c.Author,
			CreatedAt: c.CreatedAt.Format(time.RFC3339),
			URL:       c.HTMLURL,
			Body:      truncateText(c.Body, maxFieldChars),
		})
	}

	var buf bytes.Buffer
	err := uc.userTemplate.Execute(&buf, map[string]any{
		"Title":     thread.Title,
		"Author":    thread.Author,
		"State":     thread.State,
		"CreatedAt": thread.CreatedAt.Format(time.RFC3339),
		"URL":       ref.URL(),
		"Body":      truncateText(body, maxFieldChars),
		"Comments":  comments,
		"Readme":    truncateText(readme, maxFieldChars),
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to execute user prompt template", goerr.T(types.TagSummarize))
	}

	return buf.String(), nil
}

func (uc *summarizeUseCase) generatedByFooter() string {
	ts := uc.now().Format("2006-01-02 15:04:05 MST")
	return fmt.Sprintf("\n\n---\n_Generated on %s by [Issuerizer](%s)_", ts, repoLink)
}

// truncateText cuts text to maxChars and appends a marker
func truncateText(text string, maxChars int) string {
	if len(text) <= maxChars {
		return text
	}
	return text[:maxChars] + "...(truncated)"
}
