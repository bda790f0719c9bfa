package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/rag-migrate/internal/adapters/driven/config/file"
)

const redacted = "********"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and create configuration",
	Long: `Shows the effective configuration or writes a starter config file.

Values are resolved as defaults, then rag-migrate.toml (or --config), then
.env and RAGMIGRATE_* environment variables, e.g. RAGMIGRATE_PATHS_CHUNK_STORE.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as TOML",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration to a new file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.Embedding.APIKey != "" {
		cfg.Embedding.APIKey = redacted
	}
	if cfg.Postgres.DSN != "" {
		cfg.Postgres.DSN = redacted
	}

	data, err := cfg.Encode()
	if err != nil {
		return err
	}
	cmd.Print(string(data))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := file.DefaultFileName
	if len(args) > 0 {
		path = args[0]
	}

	if err := file.Default().WriteFile(path); err != nil {
		return err
	}

	cmd.Printf("Configuration written to %s\n", successStyle.Render(path))
	return nil
}
