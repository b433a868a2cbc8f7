package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentsCmd_Use(t *testing.T) {
	assert.Equal(t, "documents", documentsCmd.Use)
	assert.Equal(t, "list", documentsListCmd.Use)
}

func TestRunDocumentsList_NoService(t *testing.T) {
	original := ingestService
	ingestService = nil
	defer func() { ingestService = original }()

	cmd, _ := newTestCmd()
	err := runDocumentsList(cmd, nil)

	assert.ErrorContains(t, err, "ingest service not configured")
}

func TestRunDocumentsList_Empty(t *testing.T) {
	original := ingestService
	ingestService = &mockIngestService{}
	defer func() { ingestService = original }()

	cmd, buf := newTestCmd()
	err := runDocumentsList(cmd, nil)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No documents ingested yet.")
}

func TestRunDocumentsList_PrintsNames(t *testing.T) {
	original := ingestService
	ingestService = &mockIngestService{names: []string{"alpha.pdf", "zebra.pdf"}}
	defer func() { ingestService = original }()

	cmd, buf := newTestCmd()
	err := runDocumentsList(cmd, nil)

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Uploaded documents:")
	assert.Contains(t, out, "- alpha.pdf")
	assert.Contains(t, out, "- zebra.pdf")
	assert.Contains(t, out, "Total: 2")
}

func TestRunDocumentsList_Error(t *testing.T) {
	original := ingestService
	ingestService = &mockIngestService{listErr: errors.New("scroll failed")}
	defer func() { ingestService = original }()

	cmd, _ := newTestCmd()
	err := runDocumentsList(cmd, nil)

	assert.ErrorContains(t, err, "list documents")
}
