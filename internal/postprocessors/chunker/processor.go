// Package chunker provides a recursive character text splitter.
//
// Text is split on the first separator of the hierarchy that occurs in it
// (paragraph, line, word, character). Pieces that still exceed the chunk size
// are split again with the remaining separators. Small pieces are merged back
// greedily up to the chunk size, carrying up to the overlap of trailing text
// into the next chunk. Lengths count Unicode code points.
package chunker

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/rag-migrate/internal/core/domain"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driven"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 500

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 50

// DefaultSeparators is the split hierarchy: paragraphs, lines, words, characters.
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// Processor splits chunk content into smaller overlapping chunks.
type Processor struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		p.chunkSize = size
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		p.overlap = overlap
	}
}

// WithSeparators replaces the separator hierarchy.
func WithSeparators(separators ...string) Option {
	return func(p *Processor) {
		p.separators = separators
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		separators: DefaultSeparators,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be > 0, got %d", domain.ErrInvalidInput, p.chunkSize)
	}
	if p.overlap < 0 || p.overlap >= p.chunkSize {
		return nil, fmt.Errorf("%w: overlap must be >= 0 and < chunk size, got %d",
			domain.ErrInvalidInput, p.overlap)
	}
	if len(p.separators) == 0 {
		return nil, fmt.Errorf("%w: at least one separator is required", domain.ErrInvalidInput)
	}

	return p, nil
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits every input chunk and returns the pieces in order.
// Each piece carries a copy of its parent's metadata.
func (p *Processor) Process(ctx context.Context, chunks []domain.Chunk) ([]domain.Chunk, error) {
	var out []domain.Chunk

	for _, parent := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for _, text := range p.SplitText(parent.Content) {
			out = append(out, domain.Chunk{
				Content:  text,
				Metadata: maps.Clone(parent.Metadata),
			})
		}
	}

	return out, nil
}

// SplitText splits text into chunks of at most the chunk size where possible.
func (p *Processor) SplitText(text string) []string {
	return p.split(text, p.separators)
}

func (p *Processor) split(text string, separators []string) []string {
	// Pick the first separator present in the text; "" always matches.
	separator := separators[len(separators)-1]
	var remaining []string
	for i, s := range separators {
		if s == "" {
			separator = s
			break
		}
		if strings.Contains(text, s) {
			separator = s
			remaining = separators[i+1:]
			break
		}
	}

	var final []string
	var good []string

	for _, piece := range splitKeepingSeparator(text, separator) {
		if length(piece) < p.chunkSize {
			good = append(good, piece)
			continue
		}

		if len(good) > 0 {
			final = append(final, p.merge(good)...)
			good = nil
		}

		if len(remaining) == 0 {
			final = append(final, piece)
		} else {
			final = append(final, p.split(piece, remaining)...)
		}
	}

	if len(good) > 0 {
		final = append(final, p.merge(good)...)
	}

	return final
}

// merge joins pieces greedily into chunks, keeping a tail of at most
// overlap characters from the previous chunk at the start of the next.
// Separators are already attached to the pieces, so they are joined directly.
func (p *Processor) merge(pieces []string) []string {
	var docs []string
	var current []string
	total := 0

	for _, piece := range pieces {
		n := length(piece)

		if total+n > p.chunkSize {
			if len(current) > 0 {
				if doc := join(current); doc != "" {
					docs = append(docs, doc)
				}

				for total > p.overlap || (total+n > p.chunkSize && total > 0) {
					total -= length(current[0])
					current = current[1:]
				}
			}
		}

		current = append(current, piece)
		total += n
	}

	if doc := join(current); doc != "" {
		docs = append(docs, doc)
	}

	return docs
}

// splitKeepingSeparator splits text on separator and re-attaches the
// separator to the start of every piece after the first. Empty pieces are dropped.
// An empty separator splits into single characters.
func splitKeepingSeparator(text, separator string) []string {
	var pieces []string

	if separator == "" {
		pieces = make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}

	parts := strings.Split(text, separator)
	pieces = make([]string, 0, len(parts))
	if parts[0] != "" {
		pieces = append(pieces, parts[0])
	}
	for _, part := range parts[1:] {
		pieces = append(pieces, separator+part)
	}

	return pieces
}

func join(pieces []string) string {
	return strings.TrimSpace(strings.Join(pieces, ""))
}

func length(s string) int {
	return utf8.RuneCountInString(s)
}
