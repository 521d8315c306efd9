package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem/llm/claude"
	"github.com/vangberg/issuerizer/pkg/cli/config"
	"github.com/vangberg/issuerizer/pkg/domain/model"
	"github.com/vangberg/issuerizer/pkg/domain/types"
	githubinfra "github.com/vangberg/issuerizer/pkg/infra/github"
	"github.com/vangberg/issuerizer/pkg/usecase"
)

// runSummarize wires the collaborators from configuration and executes
// the summarize pipeline for a single issue reference.
func runSummarize(ctx context.Context, query string, update bool, githubCfg *config.GitHub, claudeCfg *config.Claude) error {
	logger := ctxlog.From(ctx)

	if query == "" {
		return goerr.New("issue reference is required (URL or owner/repo#number)",
			goerr.T(types.TagBadRef))
	}

	ref, err := model.ParseIssueRef(query)
	if err != nil {
		return err
	}

	logger.Info("Summarizing issue",
		"ref", ref.String(),
		"update", update,
		"model", claudeCfg.Model,
	)

	githubClient, err := githubinfra.NewClient(githubCfg.Token)
	if err != nil {
		return goerr.Wrap(err, "failed to create GitHub client")
	}

	llmClient, err := claude.New(ctx, claudeCfg.APIKey, claude.WithModel(claudeCfg.Model))
	if err != nil {
		return goerr.Wrap(err, "failed to create Claude client", goerr.T(types.TagSummarize))
	}

	uc, err := usecase.NewSummarize(llmClient, githubClient)
	if err != nil {
		return err
	}

	result, err := uc.Run(ctx, &model.SummarizeInput{Ref: ref, Update: update})

	// A failed update still leaves a generated summary; emit it before
	// propagating the error.
	if result != nil {
		printSummary(result.Summary)

		if outErr := writeActionOutputs(result); outErr != nil {
			logger.Warn("Failed to write GitHub Actions outputs", "error", outErr)
		}
	}

	if err != nil {
		return err
	}

	logger.Info("Run complete", "ref", ref.String(), "updated", result.Updated)
	return nil
}

func printSummary(summary string) {
	header := color.New(color.FgBlue, color.Bold)
	_, _ = header.Fprintln(os.Stdout, "--- AI Summary ---")
	fmt.Fprintln(os.Stdout, summary)
}
