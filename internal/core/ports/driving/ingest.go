package driving

import (
	"context"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// IngestService ingests uploaded documents into the vector collection.
type IngestService interface {
	// EnsureCollection creates the configured collection if it does not
	// exist. It returns true when the collection was created by this call.
	EnsureCollection(ctx context.Context) (bool, error)

	// Ingest processes a single uploaded document: duplicate check,
	// normalise, chunk, embed, upsert. A document whose name is already
	// present is skipped, not re-ingested.
	Ingest(ctx context.Context, raw domain.RawDocument) domain.IngestOutcome

	// IngestAll processes documents sequentially in upload order and
	// returns one outcome per document. One document's failure never
	// aborts the others.
	IngestAll(ctx context.Context, raws []domain.RawDocument) []domain.IngestOutcome

	// ListDocuments returns the distinct document names currently present
	// in the collection, sorted.
	ListDocuments(ctx context.Context) ([]string, error)
}
