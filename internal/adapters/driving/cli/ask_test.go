package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

func TestAskCmd_Use(t *testing.T) {
	assert.Equal(t, "ask [question]", askCmd.Use)
}

func TestRunAsk_NoService(t *testing.T) {
	original := queryService
	queryService = nil
	defer func() { queryService = original }()

	cmd, _ := newTestCmd()
	err := runAsk(cmd, []string{"hello"})

	assert.ErrorContains(t, err, "query service not configured")
}

func TestRunAsk_EmptyQuestion(t *testing.T) {
	original := queryService
	queryService = &mockQueryService{err: domain.ErrEmptyInput}
	defer func() { queryService = original }()

	cmd, buf := newTestCmd()
	err := runAsk(cmd, []string{"   "})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Ask something!")
}

func TestRunAsk_PrintsAnswer(t *testing.T) {
	original := queryService
	queryService = &mockQueryService{answer: &domain.Answer{
		Question: "what?",
		Content:  "The answer.",
	}}
	defer func() { queryService = original }()

	cmd, buf := newTestCmd()
	err := runAsk(cmd, []string{"what?"})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "The answer.")
}

func TestRunAsk_NoResponseGenerated(t *testing.T) {
	original := queryService
	queryService = &mockQueryService{answer: &domain.Answer{Question: "what?"}}
	defer func() { queryService = original }()

	cmd, buf := newTestCmd()
	err := runAsk(cmd, []string{"what?"})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No response generated.")
}

func TestRunAsk_ShowSources(t *testing.T) {
	original := queryService
	queryService = &mockQueryService{answer: &domain.Answer{
		Question: "what?",
		Content:  "The answer.",
		Sources: []domain.Passage{
			{DocumentName: "spec.pdf", ChunkIndex: 2, Score: 0.9123},
		},
	}}
	defer func() { queryService = original }()

	originalShow := askShowSources
	askShowSources = true
	defer func() { askShowSources = originalShow }()

	cmd, buf := newTestCmd()
	err := runAsk(cmd, []string{"what?"})

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "[1] spec.pdf #2 (0.9123)")
}

func TestRunAsk_QueryError(t *testing.T) {
	original := queryService
	queryService = &mockQueryService{err: errors.New("store unreachable")}
	defer func() { queryService = original }()

	cmd, _ := newTestCmd()
	err := runAsk(cmd, []string{"what?"})

	assert.ErrorContains(t, err, "query failed")
}
