package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/postprocessors/chunker"
)

// mockVectorStore keeps records in memory keyed by ID so upserts are
// idempotent the way the real store is.
type mockVectorStore struct {
	records     map[string]driven.Record
	collections map[string]int
	upsertCalls int

	existsErr error
	createErr error
	upsertErr error
	searchErr error
	scrollErr error
}

func newMockVectorStore() *mockVectorStore {
	return &mockVectorStore{
		records:     make(map[string]driven.Record),
		collections: make(map[string]int),
	}
}

func (m *mockVectorStore) CollectionExists(_ context.Context, name string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.collections[name]
	return ok, nil
}

func (m *mockVectorStore) CreateCollection(_ context.Context, name string, dimension int, _ driven.Metric) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.collections[name] = dimension
	return nil
}

func (m *mockVectorStore) Upsert(_ context.Context, _ string, records []driven.Record) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upsertCalls++
	for _, rec := range records {
		m.records[rec.ID] = rec
	}
	return nil
}

func (m *mockVectorStore) Search(_ context.Context, _ string, _ []float32, filter map[string]string, limit int) ([]driven.ScoredPoint, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	points := make([]driven.ScoredPoint, 0, limit)
	for _, rec := range m.records {
		if name, ok := filter[driven.PayloadKeyDocumentName]; ok && rec.Payload.DocumentName != name {
			continue
		}
		points = append(points, driven.ScoredPoint{ID: rec.ID, Score: 1, Payload: rec.Payload})
		if len(points) >= limit {
			break
		}
	}
	return points, nil
}

func (m *mockVectorStore) Scroll(_ context.Context, _ string, limit int) ([]driven.Record, error) {
	if m.scrollErr != nil {
		return nil, m.scrollErr
	}
	records := make([]driven.Record, 0, limit)
	for _, rec := range m.records {
		records = append(records, rec)
		if len(records) >= limit {
			break
		}
	}
	return records, nil
}

func (m *mockVectorStore) Close() error { return nil }

type mockEmbedder struct {
	dimensions int
	embedErr   error
	calls      int
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	m.calls++
	vector := make([]float32, m.dimensions)
	vector[0] = float32(len(text))
	return vector, nil
}

func (m *mockEmbedder) Dimensions() int              { return m.dimensions }
func (m *mockEmbedder) ModelName() string            { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// mockNormaliser passes the raw bytes through as the document text.
type mockNormaliser struct {
	err error
}

func (m *mockNormaliser) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

func (m *mockNormaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &driven.NormaliseResult{
		Document: domain.Document{Name: raw.Name, Content: string(raw.Content)},
	}, nil
}

func newIngestionService(store *mockVectorStore, embedder *mockEmbedder, batchSize int) *IngestionService {
	return NewIngestionService(
		IngestionConfig{Collection: "test", UpsertBatchSize: batchSize},
		store,
		embedder,
		[]driven.Normaliser{&mockNormaliser{}},
		chunker.New(),
		nil,
	)
}

func pdfUpload(name, content string) domain.RawDocument {
	return domain.RawDocument{Name: name, Content: []byte(content), MIMEType: "application/pdf"}
}

func TestEnsureCollection_CreatesWhenMissing(t *testing.T) {
	store := newMockVectorStore()
	embedder := &mockEmbedder{dimensions: 8}
	svc := newIngestionService(store, embedder, 0)

	created, err := svc.EnsureCollection(context.Background())

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 8, store.collections["test"])
}

func TestEnsureCollection_ReusesExisting(t *testing.T) {
	store := newMockVectorStore()
	store.collections["test"] = 8
	svc := newIngestionService(store, &mockEmbedder{dimensions: 8}, 0)

	created, err := svc.EnsureCollection(context.Background())

	require.NoError(t, err)
	assert.False(t, created)
}

func TestEnsureCollection_NoStore(t *testing.T) {
	svc := NewIngestionService(IngestionConfig{Collection: "test"}, nil, &mockEmbedder{dimensions: 8}, nil, chunker.New(), nil)

	_, err := svc.EnsureCollection(context.Background())

	assert.ErrorIs(t, err, domain.ErrVectorStoreUnavailable)
}

func TestIngest_ChunksAndStores(t *testing.T) {
	store := newMockVectorStore()
	svc := newIngestionService(store, &mockEmbedder{dimensions: 8}, 0)

	outcome := svc.Ingest(context.Background(), pdfUpload("spec.pdf", strings.Repeat("a", 1200)))

	require.NoError(t, outcome.Err)
	assert.Equal(t, domain.IngestStatusIngested, outcome.Status)
	assert.Equal(t, 3, outcome.ChunkCount)
	assert.Len(t, store.records, 3)

	rec, ok := store.records[domain.ChunkID("spec.pdf", 0)]
	require.True(t, ok)
	assert.Equal(t, "spec.pdf", rec.Payload.DocumentName)
	assert.Equal(t, 0, rec.Payload.ChunkIndex)
	assert.Len(t, rec.Payload.Content, 500)
}

func TestIngest_SkipsDuplicateByName(t *testing.T) {
	store := newMockVectorStore()
	embedder := &mockEmbedder{dimensions: 8}
	svc := newIngestionService(store, embedder, 0)

	first := svc.Ingest(context.Background(), pdfUpload("spec.pdf", "hello world"))
	require.Equal(t, domain.IngestStatusIngested, first.Status)
	embedCalls := embedder.calls

	second := svc.Ingest(context.Background(), pdfUpload("spec.pdf", "entirely different content"))

	assert.Equal(t, domain.IngestStatusSkipped, second.Status)
	assert.Zero(t, second.ChunkCount)
	assert.Equal(t, embedCalls, embedder.calls, "skipped document must not be embedded")
	assert.Len(t, store.records, 1)
}

func TestIngest_BatchSizeDoesNotChangeResult(t *testing.T) {
	content := strings.Repeat("x", 1750)

	small := newMockVectorStore()
	svcSmall := newIngestionService(small, &mockEmbedder{dimensions: 4}, 1)
	outSmall := svcSmall.Ingest(context.Background(), pdfUpload("big.pdf", content))
	require.Equal(t, domain.IngestStatusIngested, outSmall.Status)

	large := newMockVectorStore()
	svcLarge := newIngestionService(large, &mockEmbedder{dimensions: 4}, 200)
	outLarge := svcLarge.Ingest(context.Background(), pdfUpload("big.pdf", content))
	require.Equal(t, domain.IngestStatusIngested, outLarge.Status)

	assert.Equal(t, 4, small.upsertCalls)
	assert.Equal(t, 1, large.upsertCalls)
	assert.Equal(t, large.records, small.records)
}

func TestIngest_UnsupportedType(t *testing.T) {
	store := newMockVectorStore()
	svc := newIngestionService(store, &mockEmbedder{dimensions: 8}, 0)

	outcome := svc.Ingest(context.Background(), domain.RawDocument{
		Name:     "notes.txt",
		Content:  []byte("plain text"),
		MIMEType: "text/plain",
	})

	assert.Equal(t, domain.IngestStatusFailed, outcome.Status)
	assert.ErrorIs(t, outcome.Err, domain.ErrUnsupportedType)
	assert.Empty(t, store.records)
}

func TestIngest_EmbedFailureAbortsDocument(t *testing.T) {
	store := newMockVectorStore()
	embedder := &mockEmbedder{dimensions: 8, embedErr: errors.New("model offline")}
	svc := newIngestionService(store, embedder, 0)

	outcome := svc.Ingest(context.Background(), pdfUpload("spec.pdf", "hello"))

	assert.Equal(t, domain.IngestStatusFailed, outcome.Status)
	assert.ErrorContains(t, outcome.Err, "model offline")
	assert.Empty(t, store.records)
}

func TestIngest_UpsertFailure(t *testing.T) {
	store := newMockVectorStore()
	store.upsertErr = errors.New("store down")
	svc := newIngestionService(store, &mockEmbedder{dimensions: 8}, 0)

	outcome := svc.Ingest(context.Background(), pdfUpload("spec.pdf", "hello"))

	assert.Equal(t, domain.IngestStatusFailed, outcome.Status)
	assert.ErrorContains(t, outcome.Err, "store down")
}

func TestIngestAll_IndependentOutcomes(t *testing.T) {
	store := newMockVectorStore()
	svc := newIngestionService(store, &mockEmbedder{dimensions: 8}, 0)

	outcomes := svc.IngestAll(context.Background(), []domain.RawDocument{
		pdfUpload("a.pdf", "first document"),
		{Name: "b.txt", Content: []byte("nope"), MIMEType: "text/plain"},
		pdfUpload("c.pdf", "third document"),
	})

	require.Len(t, outcomes, 3)
	assert.Equal(t, domain.IngestStatusIngested, outcomes[0].Status)
	assert.Equal(t, domain.IngestStatusFailed, outcomes[1].Status)
	assert.Equal(t, domain.IngestStatusIngested, outcomes[2].Status)
}

func TestListDocuments_DistinctSorted(t *testing.T) {
	store := newMockVectorStore()
	svc := newIngestionService(store, &mockEmbedder{dimensions: 8}, 0)

	ctx := context.Background()
	require.Equal(t, domain.IngestStatusIngested, svc.Ingest(ctx, pdfUpload("zebra.pdf", strings.Repeat("z", 700))).Status)
	require.Equal(t, domain.IngestStatusIngested, svc.Ingest(ctx, pdfUpload("alpha.pdf", "short")).Status)

	names, err := svc.ListDocuments(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"alpha.pdf", "zebra.pdf"}, names)
}

func TestListDocuments_ScrollError(t *testing.T) {
	store := newMockVectorStore()
	store.scrollErr = errors.New("scroll failed")
	svc := newIngestionService(store, &mockEmbedder{dimensions: 8}, 0)

	_, err := svc.ListDocuments(context.Background())

	assert.ErrorContains(t, err, "scroll failed")
}
