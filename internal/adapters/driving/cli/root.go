// Package cli provides the rag-migrate command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/rag-migrate/internal/adapters/driven/config/file"
	"github.com/custodia-labs/rag-migrate/internal/core/domain"
	"github.com/custodia-labs/rag-migrate/internal/logger"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "rag-migrate",
	Short: "Move RAG chunks and embeddings between storage formats",
	Long: `rag-migrate runs one-shot migration jobs over a retrieval corpus.

Each job reads one artifact and writes its outputs; jobs are chained by running
them in sequence. A typical migration is:

  rag-migrate ingest-markdown --save-chunks
  rag-migrate index-chunks
  rag-migrate export-docs
  rag-migrate export-vectors
  rag-migrate reduce
  rag-migrate import-d1
  rag-migrate import-vectorize

Paths and providers come from rag-migrate.toml, then RAGMIGRATE_* environment
variables, then flags.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		logger.SetOutput(cmd.ErrOrStderr())
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		fmt.Sprintf("config file (default ./%s when present)", file.DefaultFileName))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress and diagnostics to stderr")
}

// Execute runs the root command. Interrupts cancel the running job.
// The error, if any, has already been reported on stderr.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// printError writes err and, for known failure kinds, what to do about it.
func printError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("Error: "+err.Error()))
	if hint := errorHint(err); hint != "" {
		fmt.Fprintln(w, mutedStyle.Render("Hint: "+hint))
	}
}

func errorHint(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "the job was interrupted; outputs written so far may be incomplete"
	case errors.Is(err, domain.ErrMissingArtifact):
		return "run the job that produces this file first, or point the matching [paths] setting or flag at it"
	case errors.Is(err, domain.ErrMissingDependency):
		return "check the [embedding] settings (provider, model, base_url, api_key) or the RAGMIGRATE_EMBEDDING_* variables"
	case errors.Is(err, domain.ErrDimensionMismatch):
		return "every vector of a collection must have the same width; rebuild the index with a single model"
	case errors.Is(err, domain.ErrInvalidInput):
		return "check the input file and the configuration values named above"
	default:
		return ""
	}
}

// loadConfig resolves the configuration for a job.
func loadConfig() (*file.Config, error) {
	cfg, err := file.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// stringFlag returns the flag value when set on the command line, otherwise fallback.
func stringFlag(cmd *cobra.Command, name, fallback string) string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return fallback
}

// intFlag returns the flag value when set on the command line, otherwise fallback.
func intFlag(cmd *cobra.Command, name string, fallback int) int {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetInt(name)
		return v
	}
	return fallback
}
