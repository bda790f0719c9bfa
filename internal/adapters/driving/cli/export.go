package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/rag-migrate/internal/adapters/driven/ai"
	"github.com/custodia-labs/rag-migrate/internal/adapters/driven/storage/chunkstore"
	"github.com/custodia-labs/rag-migrate/internal/adapters/driven/storage/exportfile"
	"github.com/custodia-labs/rag-migrate/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driven"
	"github.com/custodia-labs/rag-migrate/internal/core/services"
)

var exportDocsCmd = &cobra.Command{
	Use:   "export-docs",
	Short: "Export the chunk store as a document collection",
	Long: `Reads every chunk of the chunk store and writes one document record per chunk
to the documents export. Record IDs are doc_<position>_<md5 prefix of content>.

The chunk store is a gob file, or a SQLite database when the path ends in
.db, .sqlite or .sqlite3.`,
	Args: cobra.NoArgs,
	RunE: runExportDocs,
}

var exportVectorsCmd = &cobra.Command{
	Use:   "export-vectors",
	Short: "Export the vector index paired with its chunks",
	Long: `Reads the vector index and the chunk store and writes one vector record per
position. Vector i is paired with chunk i; when the two differ in length the
surplus is dropped.

The embedding client is built from the [embedding] settings so the export can
report the model. Pass --check-embedder to also verify the provider is reachable.`,
	Args: cobra.NoArgs,
	RunE: runExportVectors,
}

func init() {
	exportDocsCmd.Flags().String("chunks", "", "chunk store path (default paths.chunk_store)")
	exportDocsCmd.Flags().StringP("output", "o", "", "documents export path (default paths.documents_export)")

	exportVectorsCmd.Flags().String("index", "", "vector index path (default paths.vector_index)")
	exportVectorsCmd.Flags().String("chunks", "", "chunk store path (default paths.chunk_store)")
	exportVectorsCmd.Flags().StringP("output", "o", "", "vectors export path (default paths.vectors_export)")
	exportVectorsCmd.Flags().Bool("check-embedder", false, "fail unless the embedding provider answers a ping")

	rootCmd.AddCommand(exportDocsCmd)
	rootCmd.AddCommand(exportVectorsCmd)
}

func runExportDocs(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	chunks, err := chunkstore.OpenSource(stringFlag(cmd, "chunks", cfg.Paths.ChunkStore))
	if err != nil {
		return err
	}
	defer chunks.Close()

	svc := services.NewChunkExportService(chunks, exportfile.NewStore(),
		services.WithProgress(progressPrinter(cmd, "export-docs")))

	report, err := svc.Export(cmd.Context(), stringFlag(cmd, "output", cfg.Paths.DocumentsExport))
	if err != nil {
		return fmt.Errorf("export documents: %w", err)
	}

	cmd.Print(summary("Documents exported",
		"Run", report.RunID,
		"Source", report.Source,
		"Documents", strconv.Itoa(report.TotalDocuments),
		"Output", successStyle.Render(report.Output),
	))
	return nil
}

func runExportVectors(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	checkEmbedder, _ := cmd.Flags().GetBool("check-embedder")

	var embedder driven.EmbeddingService
	if checkEmbedder {
		embedder, err = ai.CreateAndValidateEmbeddingService(cmd.Context(), embeddingSettings(cfg))
	} else {
		embedder, err = ai.CreateEmbeddingService(embeddingSettings(cfg))
	}
	if err != nil {
		return fmt.Errorf("embedding client: %w", err)
	}
	defer embedder.Close()

	indexStore, err := sqlite.Open(stringFlag(cmd, "index", cfg.Paths.VectorIndex))
	if err != nil {
		return fmt.Errorf("open vector index: %w", err)
	}
	index, err := indexStore.VectorIndex(cmd.Context())
	if err != nil {
		indexStore.Close()
		return fmt.Errorf("open vector index: %w", err)
	}
	defer index.Close()

	chunks, err := chunkstore.OpenSource(stringFlag(cmd, "chunks", cfg.Paths.ChunkStore))
	if err != nil {
		return err
	}
	defer chunks.Close()

	svc := services.NewVectorExportService(index, chunks, exportfile.NewStore(),
		services.WithEmbedder(embedder),
		services.WithProgress(progressPrinter(cmd, "export-vectors")))

	report, err := svc.Export(cmd.Context(), stringFlag(cmd, "output", cfg.Paths.VectorsExport))
	if err != nil {
		return fmt.Errorf("export vectors: %w", err)
	}

	rows := []string{
		"Run", report.RunID,
		"Index vectors", strconv.Itoa(report.IndexVectors),
		"Chunks", strconv.Itoa(report.Chunks),
		"Exported", strconv.Itoa(report.TotalVectors),
		"Dimension", strconv.Itoa(report.Dimension),
		"Model", report.EmbeddingModel,
		"Output", successStyle.Render(report.Output),
	}
	cmd.Print(summary("Vectors exported", rows...))
	if report.IndexVectors != report.Chunks {
		cmd.Println(warningStyle.Render(fmt.Sprintf(
			"Index and chunk store differ in length; only the first %d positions were exported.", report.TotalVectors)))
	}
	return nil
}
