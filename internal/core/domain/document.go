package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// RawDocument is an uploaded file before normalisation.
// It exists only transiently during ingestion; only derived chunks are persisted.
type RawDocument struct {
	// Name is the human-readable document identifier (e.g. the file name).
	Name string

	// Content is the raw byte content as uploaded.
	Content []byte

	// MIMEType identifies the document format (e.g. "application/pdf").
	MIMEType string
}

// Document is a normalised document ready for chunking.
type Document struct {
	// Name is the human-readable document identifier.
	Name string

	// Content is the full text after extraction and whitespace normalisation.
	Content string
}

// Chunk is a bounded-length slice of a document's normalised text.
// It is the unit of embedding and storage. Concatenating a document's
// chunks in index order reproduces its normalised text exactly.
type Chunk struct {
	// ID is the deterministic record identifier derived from
	// (document name, index). See ChunkID.
	ID string

	// DocumentName is the name of the source document.
	DocumentName string

	// Index is the zero-based position within the document.
	Index int

	// Content is the chunk text.
	Content string
}

// ChunkID derives the record identifier for a chunk as a version-5 UUID
// over the DNS namespace. Identical (name, index) pairs always map to the
// same ID, which makes re-ingestion overwrite rather than duplicate.
func ChunkID(documentName string, index int) string {
	return uuid.NewSHA1(uuid.NameSpaceDNS, fmt.Appendf(nil, "%s_chunk_%d", documentName, index)).String()
}
