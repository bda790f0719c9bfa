package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/rag-migrate/internal/adapters/driven/ai"
	"github.com/custodia-labs/rag-migrate/internal/adapters/driven/storage/chunkstore"
	"github.com/custodia-labs/rag-migrate/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/rag-migrate/internal/core/services"
)

var indexChunksCmd = &cobra.Command{
	Use:   "index-chunks",
	Short: "Embed the chunk store into the vector index",
	Long: `Embeds every chunk of the chunk store with the configured embedding provider
and replaces the content of the vector index. Vector i of the index is the
embedding of chunk i, which is what export-vectors relies on.

The provider is pinged before any chunk is read.`,
	Args: cobra.NoArgs,
	RunE: runIndexChunks,
}

func init() {
	indexChunksCmd.Flags().String("chunks", "", "chunk store path (default paths.chunk_store)")
	indexChunksCmd.Flags().String("index", "", "vector index path (default paths.vector_index)")
	indexChunksCmd.Flags().Int("batch-size", 0, "chunks per embedding request (default embedding.batch_size)")

	rootCmd.AddCommand(indexChunksCmd)
}

func runIndexChunks(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	embedder, err := ai.CreateAndValidateEmbeddingService(cmd.Context(), embeddingSettings(cfg))
	if err != nil {
		return fmt.Errorf("embedding client: %w", err)
	}
	defer embedder.Close()

	chunks, err := chunkstore.OpenSource(stringFlag(cmd, "chunks", cfg.Paths.ChunkStore))
	if err != nil {
		return err
	}
	defer chunks.Close()

	index, err := sqlite.Create(stringFlag(cmd, "index", cfg.Paths.VectorIndex))
	if err != nil {
		return fmt.Errorf("open vector index: %w", err)
	}
	defer index.Close()

	svc := services.NewChunkIndexService(chunks, embedder, index.VectorIndexWriter(),
		services.WithBatchSize(intFlag(cmd, "batch-size", cfg.Embedding.BatchSize)),
		services.WithProgress(progressPrinter(cmd, "index-chunks")))

	report, err := svc.Index(cmd.Context())
	if err != nil {
		return fmt.Errorf("index chunks: %w", err)
	}

	cmd.Print(summary("Chunks indexed",
		"Run", report.RunID,
		"Model", report.Model,
		"Chunks", strconv.Itoa(report.Chunks),
		"Dimension", strconv.Itoa(report.Dimension),
		"Index", successStyle.Render(index.Path()),
	))
	return nil
}
