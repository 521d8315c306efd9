package interfaces

import (
	"context"

	"github.com/vangberg/issuerizer/pkg/domain/model"
)

// SummarizeUseCase defines the issue summarization pipeline
type SummarizeUseCase interface {
	// Run fetches the issue thread, generates a summary and, when
	// requested, replaces the issue body. When the body update fails a
	// non-nil RunResult carrying the generated summary is returned
	// together with the error.
	Run(ctx context.Context, input *model.SummarizeInput) (*model.RunResult, error)
}
