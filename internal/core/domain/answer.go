package domain

// Passage is a retrieved chunk used as context for answer generation.
type Passage struct {
	// DocumentName is the source document of the passage.
	DocumentName string

	// ChunkIndex is the chunk's position within its document.
	ChunkIndex int

	// Content is the passage text.
	Content string

	// Score is the cosine similarity to the question embedding.
	Score float64
}

// Answer is the result of a retrieval-augmented query.
// An empty Content means the model returned nothing; callers display
// "no response generated" rather than treating it as an error.
type Answer struct {
	// Question is the user's question as submitted.
	Question string

	// Content is the generated answer text.
	Content string

	// Sources are the passages retrieved as context, ordered by similarity.
	Sources []Passage
}
