package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/rag-migrate/internal/adapters/driven/markdown"
	"github.com/custodia-labs/rag-migrate/internal/adapters/driven/storage/chunkstore"
	"github.com/custodia-labs/rag-migrate/internal/adapters/driven/storage/exportfile"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driven"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driving"
	"github.com/custodia-labs/rag-migrate/internal/core/services"
	"github.com/custodia-labs/rag-migrate/internal/postprocessors"
)

var ingestMarkdownCmd = &cobra.Command{
	Use:   "ingest-markdown",
	Short: "Split markdown files into a document collection",
	Long: `Reads every markdown file of a directory in path order, splits each file with
the recursive character splitter and writes one document record per chunk.

The splitter prefers paragraph breaks, then line breaks, then spaces, and only
splits inside words as a last resort. Chunk size and overlap are counted in
characters and come from the [chunking] settings.

Use --save-chunks to also store the chunks so index-chunks and export-docs can
read them.`,
	Args: cobra.NoArgs,
	RunE: runIngestMarkdown,
}

func init() {
	ingestMarkdownCmd.Flags().String("dir", "", "markdown directory (default paths.markdown_dir)")
	ingestMarkdownCmd.Flags().String("pattern", "", "glob of files to read, ** allowed (default paths.markdown_pattern)")
	ingestMarkdownCmd.Flags().StringP("output", "o", "", "documents export path (default paths.markdown_export)")
	ingestMarkdownCmd.Flags().Int("chunk-size", 0, "characters per chunk (default chunking.chunk_size)")
	ingestMarkdownCmd.Flags().Int("chunk-overlap", 0, "characters shared by adjacent chunks (default chunking.chunk_overlap)")
	ingestMarkdownCmd.Flags().String("save-chunks", "",
		"also write the chunks to a chunk store; --save-chunks=<path> overrides paths.chunk_store")
	ingestMarkdownCmd.Flags().Lookup("save-chunks").NoOptDefVal = "-"

	rootCmd.AddCommand(ingestMarkdownCmd)
}

func runIngestMarkdown(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	splitter, err := postprocessors.NewDefaultRegistry().BuildPipeline(postprocessors.Stage{
		Name: "chunker",
		Config: map[string]any{
			"chunk_size": intFlag(cmd, "chunk-size", cfg.Chunking.ChunkSize),
			"overlap":    intFlag(cmd, "chunk-overlap", cfg.Chunking.ChunkOverlap),
		},
	})
	if err != nil {
		return fmt.Errorf("build splitter: %w", err)
	}

	source := markdown.NewDirectorySource(
		stringFlag(cmd, "dir", cfg.Paths.MarkdownDir),
		stringFlag(cmd, "pattern", cfg.Paths.MarkdownPattern),
	)

	req := driving.IngestRequest{OutputPath: stringFlag(cmd, "output", cfg.Paths.MarkdownExport)}

	var sink driven.ChunkSink
	var chunkPath string
	if cmd.Flags().Changed("save-chunks") {
		chunkPath, _ = cmd.Flags().GetString("save-chunks")
		if chunkPath == "-" || chunkPath == "" {
			chunkPath = cfg.Paths.ChunkStore
		}
		store, err := chunkstore.OpenSink(chunkPath)
		if err != nil {
			return fmt.Errorf("open chunk store: %w", err)
		}
		defer store.Close()
		sink = store
		req.SaveChunks = true
	}

	svc := services.NewMarkdownIngestService(source, splitter, exportfile.NewStore(), sink,
		services.WithProgress(progressPrinter(cmd, "ingest-markdown")))

	report, err := svc.Ingest(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("ingest markdown: %w", err)
	}

	rows := []string{
		"Run", report.RunID,
		"Files", strconv.Itoa(len(report.Files)),
		"Chunks", strconv.Itoa(report.TotalDocuments),
		"Output", successStyle.Render(report.Output),
	}
	if report.ChunksSaved {
		rows = append(rows, "Chunk store", successStyle.Render(chunkPath))
	}
	cmd.Print(summary("Markdown ingested", rows...))
	if verbose && len(report.Files) > 0 {
		cmd.Println(mutedStyle.Render("  " + strings.Join(report.Files, "\n  ")))
	}
	return nil
}
