package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/rag-migrate/internal/adapters/driven/ai"
	"github.com/custodia-labs/rag-migrate/internal/adapters/driven/config/file"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driving"
)

// stdinIsTerminal reports whether prompts can be answered. Replaced in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var stderrIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

func embeddingSettings(cfg *file.Config) ai.EmbeddingSettings {
	return ai.EmbeddingSettings{
		Provider:          cfg.Embedding.Provider,
		Model:             cfg.Embedding.Model,
		BaseURL:           cfg.Embedding.BaseURL,
		APIKey:            cfg.Embedding.APIKey,
		RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
	}
}

// progressPrinter returns a progress callback that redraws a counter line on
// an interactive stderr. Verbose runs already log progress, so it is nil then.
func progressPrinter(cmd *cobra.Command, job string) driving.ProgressFunc {
	if verbose || !stderrIsTerminal() {
		return nil
	}
	w := cmd.ErrOrStderr()
	return func(done, total int) {
		fmt.Fprintf(w, "\r%s %d/%d", mutedStyle.Render(job), done, total)
		if done == total {
			fmt.Fprintln(w)
		}
	}
}

// confirm asks a yes/no question on out and reads the answer from in.
// Anything other than y or yes is a no.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", warningStyle.Render(question))

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
