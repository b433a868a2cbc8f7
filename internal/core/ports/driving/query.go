package driving

import (
	"context"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// QueryService answers questions against the ingested documents.
type QueryService interface {
	// Answer retrieves context for the question and generates an answer.
	// A blank question returns domain.ErrEmptyInput without issuing any
	// request. Model failures degrade to an empty answer, not an error.
	Answer(ctx context.Context, question string) (*domain.Answer, error)
}
