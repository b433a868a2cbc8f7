// Package cli provides the cobra command tree and service wiring.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/config/file"
	embeddingollama "github.com/custodia-labs/askdoc-cli/internal/adapters/driven/embedding/ollama"
	llmollama "github.com/custodia-labs/askdoc-cli/internal/adapters/driven/llm/ollama"
	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/vectorstore/qdrant"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc-cli/internal/core/services"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
	"github.com/custodia-labs/askdoc-cli/internal/normalisers/pdf"
	"github.com/custodia-labs/askdoc-cli/internal/postprocessors/chunker"
)

// version is set at build time via -ldflags.
var version = "dev"

// Persistent flags.
var (
	flagVerbose bool
	flagConfig  string
	flagEnv     string
)

// Wired services, populated by initServices before commands run.
var (
	cfg           *file.Config
	vectorStore   driven.VectorStore
	embedService  driven.EmbeddingService
	llmService    driven.LLMService
	ingestService driving.IngestService
	queryService  driving.QueryService
)

var rootCmd = &cobra.Command{
	Use:   "askdoc",
	Short: "Ask questions about your PDF documents",
	Long: `askdoc ingests PDF documents into a Qdrant vector collection and
answers natural-language questions by retrieving relevant passages and
feeding them to a local language model via Ollama.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging to stderr")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path (default ~/.askdoc/config.toml)")
	rootCmd.PersistentFlags().StringVar(&flagEnv, "env", "", "dotenv file with secret overrides")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// initServices loads configuration and wires the adapters into services.
func initServices(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)

	// Secrets may come from a dotenv file; a missing file is fine.
	if flagEnv != "" {
		if err := godotenv.Load(flagEnv); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	var err error
	cfg, err = file.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	vectorStore = qdrant.New(qdrant.Config{
		BaseURL: cfg.Qdrant.URL,
		APIKey:  cfg.Qdrant.APIKey,
	})

	embedService = embeddingollama.NewEmbeddingService(embeddingollama.Config{
		BaseURL:    cfg.Ollama.URL,
		Model:      cfg.Ollama.EmbedModel,
		Dimensions: cfg.Ollama.EmbedDimensions,
	})

	llmService = llmollama.NewLLMService(llmollama.LLMConfig{
		BaseURL: cfg.Ollama.URL,
		Model:   cfg.Ollama.ChatModel,
	})

	var limiter *rate.Limiter
	if cfg.Ingest.EmbedRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Ingest.EmbedRate), 1)
	}

	ingestService = services.NewIngestionService(
		services.IngestionConfig{
			Collection:      cfg.Qdrant.Collection,
			UpsertBatchSize: cfg.Ingest.BatchSize,
			ScrollPageSize:  cfg.Ingest.ScrollLimit,
		},
		vectorStore,
		embedService,
		[]driven.Normaliser{pdf.New()},
		chunker.New(chunker.WithChunkSize(cfg.Ingest.ChunkSize)),
		limiter,
	)

	queryService = services.NewQueryService(
		services.QueryConfig{
			Collection:     cfg.Qdrant.Collection,
			RetrievalLimit: cfg.Query.RetrievalLimit,
		},
		vectorStore,
		embedService,
		llmService,
	)

	return nil
}

// pingOllama verifies the model endpoint is reachable before committing
// to a long operation.
func pingOllama(ctx context.Context) {
	if embedService == nil {
		return
	}
	if err := embedService.Ping(ctx); err != nil {
		logger.Warn("Ollama unreachable: %v", err)
	}
}
