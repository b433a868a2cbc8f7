package services

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestService = (*IngestionService)(nil)

// Default pipeline parameters.
const (
	// DefaultUpsertBatchSize bounds the number of records per upsert request.
	// Batch boundaries carry no correctness meaning.
	DefaultUpsertBatchSize = 200

	// DefaultScrollPageSize bounds document-listing enumeration.
	DefaultScrollPageSize = 100
)

// IngestionConfig holds the collection settings for the ingestion pipeline.
// It replaces the shared global collection name with explicit configuration
// passed at construction.
type IngestionConfig struct {
	// Collection is the vector collection name.
	Collection string

	// UpsertBatchSize is the number of records per upsert request.
	// Zero means DefaultUpsertBatchSize.
	UpsertBatchSize int

	// ScrollPageSize caps document-listing enumeration.
	// Zero means DefaultScrollPageSize.
	ScrollPageSize int
}

// IngestionService orchestrates dedup-check, normalise, chunk, embed and
// upsert for uploaded documents.
type IngestionService struct {
	cfg         IngestionConfig
	store       driven.VectorStore
	embedder    driven.EmbeddingService
	normalisers []driven.Normaliser
	chunker     driven.PostProcessor
	limiter     *rate.Limiter
}

// NewIngestionService creates a new ingestion service.
// The limiter is optional; when nil, embedding requests are not throttled.
func NewIngestionService(
	cfg IngestionConfig,
	store driven.VectorStore,
	embedder driven.EmbeddingService,
	normalisers []driven.Normaliser,
	chunker driven.PostProcessor,
	limiter *rate.Limiter,
) *IngestionService {
	if cfg.UpsertBatchSize <= 0 {
		cfg.UpsertBatchSize = DefaultUpsertBatchSize
	}
	if cfg.ScrollPageSize <= 0 {
		cfg.ScrollPageSize = DefaultScrollPageSize
	}
	return &IngestionService{
		cfg:         cfg,
		store:       store,
		embedder:    embedder,
		normalisers: normalisers,
		chunker:     chunker,
		limiter:     limiter,
	}
}

// EnsureCollection creates the configured collection if it does not exist.
func (s *IngestionService) EnsureCollection(ctx context.Context) (bool, error) {
	if s.store == nil {
		return false, domain.ErrVectorStoreUnavailable
	}
	if s.embedder == nil {
		return false, domain.ErrEmbeddingUnavailable
	}

	exists, err := s.store.CollectionExists(ctx, s.cfg.Collection)
	if err != nil {
		return false, fmt.Errorf("check collection: %w", err)
	}
	if exists {
		logger.Debug("Collection %q loaded", s.cfg.Collection)
		return false, nil
	}

	if err := s.store.CreateCollection(ctx, s.cfg.Collection, s.embedder.Dimensions(), driven.MetricCosine); err != nil {
		return false, fmt.Errorf("create collection: %w", err)
	}
	logger.Info("Collection %q created (dimension %d, cosine)", s.cfg.Collection, s.embedder.Dimensions())
	return true, nil
}

// Ingest processes a single uploaded document.
func (s *IngestionService) Ingest(ctx context.Context, raw domain.RawDocument) domain.IngestOutcome {
	outcome := domain.IngestOutcome{DocumentName: raw.Name}

	if s.store == nil {
		return failed(outcome, domain.ErrVectorStoreUnavailable)
	}
	if s.embedder == nil {
		return failed(outcome, domain.ErrEmbeddingUnavailable)
	}

	logger.Section("Ingest " + raw.Name)

	// 1. Duplicate check by document name. The check inspects the name
	// only, not content: a renamed file re-ingests, and same-name uploads
	// with different content overwrite matching indices. If the new
	// version is shorter, chunks beyond its count are left behind.
	present, err := s.documentPresent(ctx, raw.Name)
	if err != nil {
		return failed(outcome, fmt.Errorf("duplicate check: %w", err))
	}
	if present {
		logger.Info("Document %q already present, skipping", raw.Name)
		outcome.Status = domain.IngestStatusSkipped
		return outcome
	}

	// 2. Extract text and normalise whitespace.
	normaliser := s.normaliserFor(raw.MIMEType)
	if normaliser == nil {
		return failed(outcome, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, raw.MIMEType))
	}
	result, err := normaliser.Normalise(ctx, &raw)
	if err != nil {
		return failed(outcome, fmt.Errorf("normalise: %w", err))
	}

	// 3. Split into fixed-size chunks.
	chunks, err := s.chunker.Process(ctx, &result.Document)
	if err != nil {
		return failed(outcome, fmt.Errorf("chunk: %w", err))
	}
	logger.Debug("Document %q: %d chunks", raw.Name, len(chunks))

	// 4. Embed each chunk and assemble records. An embedding failure
	// aborts this document; batches already upserted stay in place and
	// a re-run overwrites them by ID.
	records, err := s.buildRecords(ctx, chunks)
	if err != nil {
		return failed(outcome, err)
	}

	// 5. Upsert in bounded-size batches, sequentially.
	for start := 0; start < len(records); start += s.cfg.UpsertBatchSize {
		end := min(start+s.cfg.UpsertBatchSize, len(records))
		if err := s.store.Upsert(ctx, s.cfg.Collection, records[start:end]); err != nil {
			return failed(outcome, fmt.Errorf("upsert batch %d-%d: %w", start, end, err))
		}
	}

	logger.Info("Ingested %d chunks from %q", len(records), raw.Name)
	outcome.Status = domain.IngestStatusIngested
	outcome.ChunkCount = len(records)
	return outcome
}

// IngestAll processes documents sequentially in upload order.
func (s *IngestionService) IngestAll(ctx context.Context, raws []domain.RawDocument) []domain.IngestOutcome {
	outcomes := make([]domain.IngestOutcome, 0, len(raws))
	for _, raw := range raws {
		outcomes = append(outcomes, s.Ingest(ctx, raw))
	}
	return outcomes
}

// ListDocuments enumerates distinct document names via scroll.
func (s *IngestionService) ListDocuments(ctx context.Context) ([]string, error) {
	if s.store == nil {
		return nil, domain.ErrVectorStoreUnavailable
	}

	records, err := s.store.Scroll(ctx, s.cfg.Collection, s.cfg.ScrollPageSize)
	if err != nil {
		return nil, fmt.Errorf("scroll: %w", err)
	}

	seen := make(map[string]struct{}, len(records))
	names := make([]string, 0, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.Payload.DocumentName]; ok {
			continue
		}
		seen[rec.Payload.DocumentName] = struct{}{}
		names = append(names, rec.Payload.DocumentName)
	}
	sort.Strings(names)
	return names, nil
}

// documentPresent probes for any record with the given document name.
// This is a metadata-existence check riding on the similarity-search
// endpoint: the query vector content is irrelevant under an exact-match
// filter, so a zero vector is used.
func (s *IngestionService) documentPresent(ctx context.Context, name string) (bool, error) {
	probe := make([]float32, s.embedder.Dimensions())
	filter := map[string]string{driven.PayloadKeyDocumentName: name}

	points, err := s.store.Search(ctx, s.cfg.Collection, probe, filter, 1)
	if err != nil {
		return false, err
	}
	return len(points) > 0, nil
}

// buildRecords embeds chunks and assembles vector records with
// deterministic identifiers.
func (s *IngestionService) buildRecords(ctx context.Context, chunks []domain.Chunk) ([]driven.Record, error) {
	records := make([]driven.Record, 0, len(chunks))
	for _, chunk := range chunks {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limit: %w", err)
			}
		}

		vector, err := s.embedder.Embed(ctx, chunk.Content)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %d: %w", chunk.Index, err)
		}

		records = append(records, driven.Record{
			ID:     chunk.ID,
			Vector: vector,
			Payload: driven.Payload{
				Content:      chunk.Content,
				DocumentName: chunk.DocumentName,
				ChunkIndex:   chunk.Index,
			},
		})
	}
	return records, nil
}

// normaliserFor selects the first normaliser supporting the MIME type.
func (s *IngestionService) normaliserFor(mimeType string) driven.Normaliser {
	for _, n := range s.normalisers {
		for _, mt := range n.SupportedMIMETypes() {
			if mt == mimeType {
				return n
			}
		}
	}
	return nil
}

func failed(outcome domain.IngestOutcome, err error) domain.IngestOutcome {
	logger.Warn("Ingest %q failed: %v", outcome.DocumentName, err)
	outcome.Status = domain.IngestStatusFailed
	outcome.Err = err
	return outcome
}
