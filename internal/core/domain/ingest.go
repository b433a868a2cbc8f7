package domain

// IngestStatus describes the outcome of ingesting a single document.
type IngestStatus string

const (
	// IngestStatusIngested means the document was chunked, embedded and stored.
	IngestStatusIngested IngestStatus = "ingested"

	// IngestStatusSkipped means a document with the same name is already
	// present in the collection, so ingestion was a no-op.
	IngestStatusSkipped IngestStatus = "skipped"

	// IngestStatusFailed means ingestion of this document was aborted.
	// Records from batches upserted before the failure remain in the store;
	// re-running ingestion is safe because record IDs are deterministic.
	IngestStatusFailed IngestStatus = "failed"
)

// IngestOutcome reports the result of ingesting one document.
// A batch upload of N documents yields N independent outcomes; one
// document's failure never aborts the others.
type IngestOutcome struct {
	// DocumentName identifies the document.
	DocumentName string

	// Status is the per-document result.
	Status IngestStatus

	// ChunkCount is the number of chunks stored (set when Status is Ingested).
	ChunkCount int

	// Err holds the failure cause (set when Status is Failed).
	Err error
}
