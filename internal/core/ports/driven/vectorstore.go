package driven

import "context"

// Payload keys shared by the store adapter and the ingestion pipeline.
const (
	PayloadKeyContent      = "content"
	PayloadKeyDocumentName = "document_name"
	PayloadKeyChunkIndex   = "chunk_index"
)

// Metric is the similarity metric of a collection.
type Metric string

// MetricCosine is the only metric the pipeline uses.
const MetricCosine Metric = "Cosine"

// Record is the persisted unit: a deterministic identifier, an embedding
// vector, and the chunk payload. Upsert is keyed by ID, so identical IDs
// overwrite rather than duplicate.
type Record struct {
	// ID is the deterministic record identifier (a version-5 UUID).
	ID string

	// Vector is the embedding. All records in a collection share one dimension.
	Vector []float32

	// Payload holds {content, document_name, chunk_index}.
	Payload Payload
}

// Payload is the metadata stored alongside each vector.
type Payload struct {
	// Content is the chunk text.
	Content string

	// DocumentName is the source document name.
	DocumentName string

	// ChunkIndex is the chunk's position within its document.
	ChunkIndex int
}

// ScoredPoint is a similarity search result.
type ScoredPoint struct {
	// ID is the record identifier.
	ID string

	// Score is the similarity to the query vector.
	Score float64

	// Payload is the stored metadata.
	Payload Payload
}

// VectorStore persists embeddings with payload metadata and supports
// similarity search, metadata-filtered lookup, and collection lifecycle.
type VectorStore interface {
	// CollectionExists reports whether the named collection exists.
	CollectionExists(ctx context.Context, name string) (bool, error)

	// CreateCollection creates a collection with the given dimension and
	// metric. It fails with domain.ErrCollectionConflict if a collection
	// with the same name but a different schema already exists.
	CreateCollection(ctx context.Context, name string, dimension int, metric Metric) error

	// Upsert writes records with overwrite semantics keyed by record ID.
	// Callers slice large uploads into batches purely to bound request
	// size; each call is independent and a failed call never corrupts
	// previously applied ones.
	Upsert(ctx context.Context, collection string, records []Record) error

	// Search returns up to limit points ordered by similarity to the query
	// vector. A non-nil filter restricts candidates to points whose payload
	// matches every key exactly; combined with an arbitrary query vector
	// and limit 1 this doubles as a metadata existence probe.
	Search(ctx context.Context, collection string, vector []float32, filter map[string]string, limit int) ([]ScoredPoint, error)

	// Scroll enumerates up to limit points without similarity ordering.
	// Used to list the documents present in a collection.
	Scroll(ctx context.Context, collection string, limit int) ([]Record, error)

	// Close releases resources.
	Close() error
}
