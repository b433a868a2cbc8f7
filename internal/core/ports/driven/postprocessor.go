package driven

import (
	"context"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// PostProcessor processes normalised document content to produce chunks.
type PostProcessor interface {
	// Name returns the processor name for logging.
	Name() string

	// Process takes a document and returns its chunks in index order.
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
