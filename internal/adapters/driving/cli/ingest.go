package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file.pdf]...",
	Short: "Ingest PDF documents into the knowledge base",
	Long: `Reads one or more PDF files, splits their text into chunks, embeds
each chunk and stores the vectors. A document whose name is already
present in the collection is skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()
	pingOllama(ctx)

	created, err := ingestService.EnsureCollection(ctx)
	if err != nil {
		return fmt.Errorf("ensure collection: %w", err)
	}
	if created {
		cmd.Printf("Collection %q created.\n", cfg.Qdrant.Collection)
	}

	raws := make([]domain.RawDocument, 0, len(args))
	for _, path := range args {
		raw, err := readUpload(path)
		if err != nil {
			return err
		}
		raws = append(raws, raw)
	}

	outcomes := ingestService.IngestAll(ctx, raws)
	printOutcomes(cmd, outcomes)

	for _, o := range outcomes {
		if o.Status == domain.IngestStatusFailed {
			return errors.New("some documents failed to ingest")
		}
	}
	return nil
}

// readUpload loads a file from disk as a raw document.
func readUpload(path string) (domain.RawDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.RawDocument{}, fmt.Errorf("read %s: %w", path, err)
	}
	return domain.RawDocument{
		Name:     filepath.Base(path),
		Content:  content,
		MIMEType: mimeTypeFor(path),
	}, nil
}

// mimeTypeFor maps a file extension to a MIME type.
func mimeTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// printOutcomes reports one line per document.
func printOutcomes(cmd *cobra.Command, outcomes []domain.IngestOutcome) {
	for _, o := range outcomes {
		switch o.Status {
		case domain.IngestStatusIngested:
			cmd.Printf("  %s: ingested %d chunks\n", o.DocumentName, o.ChunkCount)
		case domain.IngestStatusSkipped:
			cmd.Printf("  %s: already uploaded, skipping\n", o.DocumentName)
		case domain.IngestStatusFailed:
			cmd.Printf("  %s: failed: %v\n", o.DocumentName, o.Err)
		}
	}
}
