package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
)

// settleDelay gives writers time to finish before the file is read.
var settleDelay = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Ingest PDF files as they appear in a directory",
	Long: `Watches a directory and ingests every PDF file created in it.
Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, dir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := ingestService.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("ensure collection: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	cmd.Printf("Watching %s for PDF files. Press Ctrl-C to stop.\n", dir)

	for {
		select {
		case <-ctx.Done():
			cmd.Println("Stopped.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			handleWatchEvent(ctx, cmd, event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// handleWatchEvent ingests a newly created PDF file; anything else is
// ignored.
func handleWatchEvent(ctx context.Context, cmd *cobra.Command, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) {
		return
	}
	if strings.ToLower(filepath.Ext(event.Name)) != ".pdf" {
		return
	}

	// Let the writer finish before reading the file.
	time.Sleep(settleDelay)

	raw, err := readUpload(event.Name)
	if err != nil {
		logger.Warn("Skipping %s: %v", event.Name, err)
		return
	}
	printOutcomes(cmd, []domain.IngestOutcome{ingestService.Ingest(ctx, raw)})
}
