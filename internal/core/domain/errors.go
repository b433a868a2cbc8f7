package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyInput indicates a blank question was submitted.
	// This is user feedback, not a failure: no model request is issued.
	ErrEmptyInput = errors.New("empty input")

	// ErrUnsupportedType indicates a document format no normaliser handles.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrCollectionConflict indicates an existing collection has a different
	// dimension or metric. This requires operator intervention.
	ErrCollectionConflict = errors.New("collection schema conflict")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrVectorStoreUnavailable indicates the vector store is not configured.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")
)
