package postprocessors

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/custodia-labs/rag-migrate/internal/core/domain"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driven"
)

// namedProcessor returns its input unchanged.
type namedProcessor struct {
	name string
}

func (m *namedProcessor) Name() string { return m.name }
func (m *namedProcessor) Process(_ context.Context, chunks []domain.Chunk) ([]domain.Chunk, error) {
	return chunks, nil
}

func register(r *Registry, names ...string) {
	for _, name := range names {
		r.Register(name, func(cfg map[string]any) (driven.PostProcessor, error) {
			if n, ok := cfg["rename"].(string); ok {
				return &namedProcessor{name: n}, nil
			}
			return &namedProcessor{name: name}, nil
		})
	}
}

func TestRegistry_BuildPassesConfig(t *testing.T) {
	r := NewRegistry()
	register(r, "identity")

	proc, err := r.Build("identity", map[string]any{"rename": "custom"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if proc.Name() != "custom" {
		t.Errorf("expected name 'custom', got %q", proc.Name())
	}
}

func TestRegistry_BuildUnknown(t *testing.T) {
	r := NewDefaultRegistry()

	_, err := r.Build("summariser", nil)

	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRegistry_NamesSorted(t *testing.T) {
	r := NewRegistry()
	if len(r.Names()) != 0 {
		t.Fatalf("expected empty registry, got %v", r.Names())
	}

	register(r, "zeta", "alpha", "mid")

	if got := r.Names(); !reflect.DeepEqual(got, []string{"alpha", "mid", "zeta"}) {
		t.Errorf("unexpected names %v", got)
	}
	if !r.Has("mid") || r.Has("missing") {
		t.Error("Has disagrees with Names")
	}
}

func TestRegistry_BuildPipeline(t *testing.T) {
	r := NewDefaultRegistry()
	register(r, "identity")

	p, err := r.BuildPipeline(
		Stage{Name: "chunker", Config: map[string]any{"chunk_size": int64(10), "overlap": float64(0)}},
		Stage{Name: "identity"},
	)
	if err != nil {
		t.Fatalf("BuildPipeline failed: %v", err)
	}
	if p.Name() != "chunker+identity" {
		t.Errorf("unexpected pipeline name %q", p.Name())
	}

	chunks, err := p.Process(context.Background(), []domain.Chunk{{Content: "aaaa\n\nbbbb\n\ncccc"}})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(chunks) != 2 {
		t.Errorf("expected 2 chunks, got %d", len(chunks))
	}
}

func TestRegistry_BuildPipelineErrors(t *testing.T) {
	r := NewDefaultRegistry()

	tests := []struct {
		name   string
		stages []Stage
	}{
		{"no stages", nil},
		{"unknown stage", []Stage{{Name: "chunker"}, {Name: "nope"}}},
		{"invalid chunker settings", []Stage{{Name: "chunker", Config: map[string]any{"chunk_size": 10, "overlap": 10}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.BuildPipeline(tt.stages...)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestBuildChunker_Defaults(t *testing.T) {
	proc, err := NewDefaultRegistry().Build("chunker", nil)
	if err != nil {
		t.Fatalf("Build chunker with nil config failed: %v", err)
	}

	chunks, err := proc.Process(context.Background(), []domain.Chunk{{Content: "short"}})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(chunks) != 1 || chunks[0].Content != "short" {
		t.Errorf("unexpected chunks %+v", chunks)
	}
}

func TestGetIntFromConfig(t *testing.T) {
	tests := []struct {
		name  string
		cfg   map[string]any
		want  int
		found bool
	}{
		{"int", map[string]any{"size": 100}, 100, true},
		{"int64 from toml", map[string]any{"size": int64(200)}, 200, true},
		{"float64 from json", map[string]any{"size": float64(300)}, 300, true},
		{"zero", map[string]any{"size": 0}, 0, true},
		{"string", map[string]any{"size": "400"}, 0, false},
		{"missing", map[string]any{"other": 100}, 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := getIntFromConfig(tt.cfg, "size")
			if got != tt.want || found != tt.found {
				t.Errorf("expected (%d, %v), got (%d, %v)", tt.want, tt.found, got, found)
			}
		})
	}
}
