package cli

import (
	"bytes"
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
)

// mockIngestService is a test double for driving.IngestService.
type mockIngestService struct {
	ensureCreated bool
	ensureErr     error
	outcomes      []domain.IngestOutcome
	names         []string
	listErr       error
}

var _ driving.IngestService = (*mockIngestService)(nil)

func (m *mockIngestService) EnsureCollection(_ context.Context) (bool, error) {
	return m.ensureCreated, m.ensureErr
}

func (m *mockIngestService) Ingest(_ context.Context, raw domain.RawDocument) domain.IngestOutcome {
	for _, o := range m.outcomes {
		if o.DocumentName == raw.Name {
			return o
		}
	}
	return domain.IngestOutcome{DocumentName: raw.Name, Status: domain.IngestStatusIngested}
}

func (m *mockIngestService) IngestAll(ctx context.Context, raws []domain.RawDocument) []domain.IngestOutcome {
	outcomes := make([]domain.IngestOutcome, 0, len(raws))
	for _, raw := range raws {
		outcomes = append(outcomes, m.Ingest(ctx, raw))
	}
	return outcomes
}

func (m *mockIngestService) ListDocuments(_ context.Context) ([]string, error) {
	return m.names, m.listErr
}

// mockQueryService is a test double for driving.QueryService.
type mockQueryService struct {
	answer *domain.Answer
	err    error
}

var _ driving.QueryService = (*mockQueryService)(nil)

func (m *mockQueryService) Answer(_ context.Context, _ string) (*domain.Answer, error) {
	return m.answer, m.err
}

// newTestCmd returns a bare command whose output is captured in the buffer.
func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	return cmd, buf
}
