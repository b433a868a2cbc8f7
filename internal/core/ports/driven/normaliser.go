package driven

import (
	"context"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// Normaliser transforms raw uploads into normalised documents.
// Each normaliser handles specific MIME types (e.g., PDF).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Normalise extracts text from a raw document and collapses whitespace.
	// It is pure: identical input always yields identical output, which the
	// pipeline relies on for idempotent identifier derivation.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
// Chunking is handled separately by the PostProcessor.
type NormaliseResult struct {
	// Document is the normalised document with Content populated.
	Document domain.Document
}
