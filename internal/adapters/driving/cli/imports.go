package cli

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/rag-migrate/internal/adapters/driven/storage/exportfile"
	"github.com/custodia-labs/rag-migrate/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/rag-migrate/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/rag-migrate/internal/core/domain"
	"github.com/custodia-labs/rag-migrate/internal/core/services"
)

var importD1Cmd = &cobra.Command{
	Use:   "import-d1",
	Short: "Generate the D1 import script from the documents export",
	Long: `Writes an SQL script that creates the documents table and inserts or replaces
every record of the documents export. Apply it with:

  wrangler d1 execute <database> --file=<script>

D1 is SQLite, so --sqlite applies the same rows to a local database directly.
--postgres-dsn upserts them into a Postgres table instead or as well.`,
	Args: cobra.NoArgs,
	RunE: runImportD1,
}

var importVectorizeCmd = &cobra.Command{
	Use:   "import-vectorize",
	Short: "Generate the Vectorize import file from the vectors export",
	Long: `Writes one {"id","values","metadata"} JSON object per line for every vector of
the vectors export. Apply it with:

  wrangler vectorize insert <index> --file=<jsonl>

--postgres-dsn also upserts the vectors into a pgvector table.`,
	Args: cobra.NoArgs,
	RunE: runImportVectorize,
}

func init() {
	importD1Cmd.Flags().StringP("input", "i", "", "documents export (default paths.documents_export)")
	importD1Cmd.Flags().StringP("output", "o", "", "SQL script path (default paths.d1_sql)")
	importD1Cmd.Flags().String("sqlite", "", "apply the rows to a SQLite database; --sqlite=<path> overrides paths.d1_database")
	importD1Cmd.Flags().Lookup("sqlite").NoOptDefVal = "-"
	importD1Cmd.Flags().String("postgres-dsn", "", "apply the rows to this Postgres database (default postgres.dsn)")

	importVectorizeCmd.Flags().StringP("input", "i", "", "vectors export (default paths.vectors_export)")
	importVectorizeCmd.Flags().StringP("output", "o", "", "JSONL path (default paths.vectorize_jsonl)")
	importVectorizeCmd.Flags().String("postgres-dsn", "", "upsert the vectors into this Postgres database (default postgres.dsn)")

	rootCmd.AddCommand(importD1Cmd)
	rootCmd.AddCommand(importVectorizeCmd)
}

func runImportD1(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var opts []services.Option
	var local *sqlite.Store

	sqlitePath := cfg.Paths.D1Database
	if cmd.Flags().Changed("sqlite") {
		if v, _ := cmd.Flags().GetString("sqlite"); v != "-" && v != "" {
			sqlitePath = v
		} else if sqlitePath == "" {
			return fmt.Errorf("%w: --sqlite needs a path or paths.d1_database", domain.ErrInvalidInput)
		}
	}
	if sqlitePath != "" {
		local, err = sqlite.Create(sqlitePath)
		if err != nil {
			return fmt.Errorf("open sqlite database: %w", err)
		}
		defer local.Close()
		opts = append(opts, services.WithDocumentSinks(local.DocumentSink()))
	}

	if dsn := stringFlag(cmd, "postgres-dsn", cfg.Postgres.DSN); dsn != "" {
		db, err := openPostgres(cmd, dsn)
		if err != nil {
			return err
		}
		defer db.Close()
		opts = append(opts, services.WithDocumentSinks(postgres.NewDocumentSink(db, cfg.Postgres.DocumentsTable)))
	}

	svc := services.NewD1ImportService(exportfile.NewStore(), opts...)

	report, err := svc.Import(cmd.Context(),
		stringFlag(cmd, "input", cfg.Paths.DocumentsExport),
		stringFlag(cmd, "output", cfg.Paths.D1SQL))
	if err != nil {
		return fmt.Errorf("import documents: %w", err)
	}

	rows := []string{
		"Run", report.RunID,
		"Documents", strconv.Itoa(report.Documents),
		"SQL script", successStyle.Render(report.SQLPath),
	}
	if len(report.Sinks) > 0 {
		rows = append(rows, "Applied to", strings.Join(report.Sinks, ", "))
	}
	if local != nil {
		count, err := local.CountDocuments(cmd.Context())
		if err != nil {
			return fmt.Errorf("count documents: %w", err)
		}
		rows = append(rows, "SQLite rows", strconv.Itoa(count))
	}
	cmd.Print(summary("D1 import prepared", rows...))
	cmd.Println(mutedStyle.Render("Apply with: wrangler d1 execute <database> --file=" + report.SQLPath))
	return nil
}

func runImportVectorize(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var opts []services.Option
	if dsn := stringFlag(cmd, "postgres-dsn", cfg.Postgres.DSN); dsn != "" {
		db, err := openPostgres(cmd, dsn)
		if err != nil {
			return err
		}
		defer db.Close()
		opts = append(opts, services.WithVectorSinks(postgres.NewVectorSink(db, cfg.Postgres.EmbeddingsTable)))
	}

	svc := services.NewVectorizeImportService(exportfile.NewStore(), opts...)

	report, err := svc.Import(cmd.Context(),
		stringFlag(cmd, "input", cfg.Paths.VectorsExport),
		stringFlag(cmd, "output", cfg.Paths.VectorizeJSONL))
	if err != nil {
		return fmt.Errorf("import vectors: %w", err)
	}

	rows := []string{
		"Run", report.RunID,
		"Vectors", strconv.Itoa(report.Vectors),
		"Dimension", strconv.Itoa(report.Dimension),
		"JSONL", successStyle.Render(report.JSONLPath),
	}
	if len(report.Sinks) > 0 {
		rows = append(rows, "Applied to", strings.Join(report.Sinks, ", "))
	}
	cmd.Print(summary("Vectorize import prepared", rows...))
	if report.Dimension > 1536 {
		cmd.Println(warningStyle.Render(fmt.Sprintf(
			"Vectorize accepts at most 1536 dimensions; run reduce before inserting these %d-wide vectors.",
			report.Dimension)))
	}
	cmd.Println(mutedStyle.Render("Apply with: wrangler vectorize insert <index> --file=" + report.JSONLPath))
	return nil
}

func openPostgres(cmd *cobra.Command, dsn string) (*sql.DB, error) {
	db, err := postgres.Open(cmd.Context(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}
