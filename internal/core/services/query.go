package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// DefaultRetrievalLimit is the number of passages retrieved as context.
const DefaultRetrievalLimit = 5

// systemPrompt frames the retrieved passages for the model.
const systemPrompt = `You are a document assistant. Answer the user's question using the context passages below.
If the context does not contain the answer, say so and answer from general knowledge.

Context:
%s`

// QueryConfig holds retrieval settings for the query engine.
type QueryConfig struct {
	// Collection is the vector collection name.
	Collection string

	// RetrievalLimit is the number of passages retrieved as context.
	// Zero means DefaultRetrievalLimit.
	RetrievalLimit int
}

// QueryService answers questions by retrieving similar passages and
// forwarding them with the question to the language model.
type QueryService struct {
	cfg      QueryConfig
	store    driven.VectorStore
	embedder driven.EmbeddingService
	llm      driven.LLMService
}

// NewQueryService creates a new query service.
func NewQueryService(
	cfg QueryConfig,
	store driven.VectorStore,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
) *QueryService {
	if cfg.RetrievalLimit <= 0 {
		cfg.RetrievalLimit = DefaultRetrievalLimit
	}
	return &QueryService{
		cfg:      cfg,
		store:    store,
		embedder: embedder,
		llm:      llm,
	}
}

// Answer retrieves context for the question and generates an answer.
//
// Retrieval and generation failures degrade rather than propagate: a
// failed retrieval sends the bare question, and a failed model call
// yields an empty answer for the caller to display as "no response
// generated".
func (s *QueryService) Answer(ctx context.Context, question string) (*domain.Answer, error) {
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	trimmed := strings.TrimSpace(question)
	if trimmed == "" {
		return nil, domain.ErrEmptyInput
	}

	logger.Section("Query")
	logger.Debug("Question: %q", trimmed)

	answer := &domain.Answer{Question: trimmed}
	answer.Sources = s.retrieve(ctx, trimmed)
	logger.Debug("Retrieved %d context passages", len(answer.Sources))

	messages := buildMessages(trimmed, answer.Sources)
	content, err := s.llm.Chat(ctx, messages, driven.ChatOptions{})
	if err != nil {
		logger.Warn("Model call failed: %v", err)
		return answer, nil
	}

	answer.Content = strings.TrimSpace(content)
	logger.Info("Answer generated (%d characters)", len(answer.Content))
	return answer, nil
}

// retrieve finds the most similar stored passages. Failures are logged
// and yield no context; an empty collection is not an error.
func (s *QueryService) retrieve(ctx context.Context, question string) []domain.Passage {
	if s.store == nil || s.embedder == nil {
		logger.Debug("Retrieval unavailable, sending bare question")
		return nil
	}

	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		logger.Warn("Question embedding failed: %v", err)
		return nil
	}

	points, err := s.store.Search(ctx, s.cfg.Collection, vector, nil, s.cfg.RetrievalLimit)
	if err != nil {
		logger.Warn("Context search failed: %v", err)
		return nil
	}

	passages := make([]domain.Passage, 0, len(points))
	for _, p := range points {
		passages = append(passages, domain.Passage{
			DocumentName: p.Payload.DocumentName,
			ChunkIndex:   p.Payload.ChunkIndex,
			Content:      p.Payload.Content,
			Score:        p.Score,
		})
	}
	return passages
}

// buildMessages assembles the chat request from context passages and the
// question. With no passages the model receives the bare question.
func buildMessages(question string, passages []domain.Passage) []driven.ChatMessage {
	if len(passages) == 0 {
		return []driven.ChatMessage{{Role: "user", Content: question}}
	}

	var b strings.Builder
	for i, p := range passages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%s #%d] %s", p.DocumentName, p.ChunkIndex, p.Content)
	}

	return []driven.ChatMessage{
		{Role: "system", Content: fmt.Sprintf(systemPrompt, b.String())},
		{Role: "user", Content: question},
	}
}
