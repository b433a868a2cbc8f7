package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Manage ingested documents",
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the documents present in the collection",
	RunE:  runDocumentsList,
}

func init() {
	documentsCmd.AddCommand(documentsListCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	names, err := ingestService.ListDocuments(context.Background())
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	if len(names) == 0 {
		cmd.Println("No documents ingested yet.")
		return nil
	}

	cmd.Println("Uploaded documents:")
	for _, name := range names {
		cmd.Printf("  - %s\n", name)
	}
	cmd.Printf("Total: %d\n", len(names))
	return nil
}
