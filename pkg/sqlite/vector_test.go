package sqlite

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/dot-matrix-labs/facet/pkg/graph"
)

func TestEmbeddingSearchScenario(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	node := graph.Node{
		ID:          "doc1",
		Label:       "Document",
		Properties:  map[string]any{"content": "Hello world"},
		PartitionID: "personal",
	}
	if err := store.AddNode(ctx, node); err != nil {
		t.Fatalf("Failed to add node: %v", err)
	}

	vec := []float32{1.0, 0.0, 0.5}
	if err := store.AddEmbedding(ctx, "doc1", vec); err != nil {
		t.Fatalf("Failed to add embedding: %v", err)
	}

	results, err := store.Search(ctx, vec, 1)
	if err != nil {
		t.Fatalf("Failed to search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].NodeID != "doc1" {
		t.Errorf("Expected doc1, got %s", results[0].NodeID)
	}
	// Identical non-zero vectors must score 1.0 within tolerance.
	if math.Abs(results[0].Score-1.0) > 1e-3 {
		t.Errorf("Expected score ~1.0, got %v", results[0].Score)
	}
}

func TestSearchOrderingAndLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	embeddings := map[string][]float32{
		"exact":      {1, 0, 0},
		"close":      {1, 0.2, 0},
		"orthogonal": {0, 1, 0},
		"opposite":   {-1, 0, 0},
	}
	for id, vec := range embeddings {
		if err := store.AddNode(ctx, graph.Node{ID: id, Label: "Doc", PartitionID: "personal"}); err != nil {
			t.Fatalf("Failed to add node: %v", err)
		}
		if err := store.AddEmbedding(ctx, id, vec); err != nil {
			t.Fatalf("Failed to add embedding: %v", err)
		}
	}
	// A node without an embedding is never a candidate.
	if err := store.AddNode(ctx, graph.Node{ID: "plain", Label: "Doc", PartitionID: "personal"}); err != nil {
		t.Fatalf("Failed to add node: %v", err)
	}

	results, err := store.Search(ctx, []float32{1, 0, 0}, 10)
	if err != nil {
		t.Fatalf("Failed to search: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("Expected 4 results, got %d", len(results))
	}

	want := []string{"exact", "close", "orthogonal", "opposite"}
	for i, id := range want {
		if results[i].NodeID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, results[i].NodeID)
		}
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("Results not in descending score order: %+v", results)
		}
	}

	limited, err := store.Search(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("Failed to search with limit: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("Expected 2 results with limit 2, got %d", len(limited))
	}
}

func TestSearchEmptyStore(t *testing.T) {
	store := newTestStore(t)

	results, err := store.Search(context.Background(), []float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("Failed to search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
}

func TestAddEmbeddingMissingNode(t *testing.T) {
	store := newTestStore(t)

	err := store.AddEmbedding(context.Background(), "ghost", []float32{1, 2, 3})
	if !errors.Is(err, graph.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing node, got %v", err)
	}
}

func TestAddEmbeddingOverwrite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.AddNode(ctx, graph.Node{ID: "doc", Label: "Doc", PartitionID: "personal"}); err != nil {
		t.Fatalf("Failed to add node: %v", err)
	}
	if err := store.AddEmbedding(ctx, "doc", []float32{1, 0}); err != nil {
		t.Fatalf("Failed to add embedding: %v", err)
	}
	if err := store.AddEmbedding(ctx, "doc", []float32{0, 1}); err != nil {
		t.Fatalf("Failed to overwrite embedding: %v", err)
	}

	results, err := store.Search(ctx, []float32{0, 1}, 1)
	if err != nil {
		t.Fatalf("Failed to search: %v", err)
	}
	if len(results) != 1 || math.Abs(results[0].Score-1.0) > 1e-3 {
		t.Errorf("Expected overwritten embedding to match, got %+v", results)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0.0},
		{"dimension mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("cosineSimilarity(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
