// Package chunker provides a fixed-size text chunking processor with
// deterministic chunk identifiers.
package chunker

import (
	"context"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 500

// Processor splits document content into consecutive non-overlapping
// chunks of at most chunkSize characters (Unicode code points). The
// final chunk may be shorter. Concatenating the chunks in index order
// reproduces the input exactly, and chunk IDs are derived from
// (document name, index), so identical input always produces identical
// chunks.
type Processor struct {
	chunkSize int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks. Boundaries count
// code points, not bytes, so a multibyte rune is never split across
// chunks. Empty content produces no chunks.
func (p *Processor) Process(_ context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}
	if doc.Content == "" {
		return nil, nil
	}

	runes := []rune(doc.Content)
	total := len(runes)

	chunks := make([]domain.Chunk, 0, total/p.chunkSize+1)

	for start, index := 0, 0; start < total; start, index = start+p.chunkSize, index+1 {
		end := min(start+p.chunkSize, total)

		chunks = append(chunks, domain.Chunk{
			ID:           domain.ChunkID(doc.Name, index),
			DocumentName: doc.Name,
			Index:        index,
			Content:      string(runes[start:end]),
		})
	}

	return chunks, nil
}
