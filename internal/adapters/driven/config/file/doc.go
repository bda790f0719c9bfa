// Package file loads the rag-migrate configuration.
//
// Configuration is resolved in layers: built-in defaults, then an optional
// TOML file (rag-migrate.toml), then a .env file and RAGMIGRATE_* environment
// variables. Command-line flags are applied on top by the CLI.
package file
