// Command rag-migrate moves RAG chunks and embeddings between storage formats.
package main

import (
	"os"

	"github.com/custodia-labs/rag-migrate/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
