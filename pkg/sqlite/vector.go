package sqlite

import (
	"context"
	"math"
	"sort"

	"github.com/dot-matrix-labs/facet/internal/encoding"
	"github.com/dot-matrix-labs/facet/pkg/graph"
)

// AddEmbedding overwrites the embedding of the node at id. Dimensionality is
// not validated; callers keep it consistent across a deployment.
func (s *Store) AddEmbedding(ctx context.Context, id string, vector []float32) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkOpen("addEmbedding"); err != nil {
		return err
	}

	blob, err := encoding.EncodeVector(vector)
	if err != nil {
		return wrapError("addEmbedding", err)
	}

	s.track()
	res, err := s.db.ExecContext(ctx, `UPDATE nodes SET embedding = ? WHERE id = ?`, blob, id)
	if err != nil {
		return wrapError("addEmbedding", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return wrapError("addEmbedding", err)
	}
	if affected == 0 {
		return &graph.NotFoundError{ID: id}
	}
	return nil
}

// Search scores every embedded node against the query vector by cosine
// similarity and returns up to limit results, best first. Nodes without an
// embedding are not candidates.
func (s *Store) Search(ctx context.Context, vector []float32, limit int) ([]graph.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkOpen("search"); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []graph.SearchResult{}, nil
	}

	s.track()
	rows, err := s.db.QueryContext(ctx, `SELECT id, embedding FROM nodes WHERE embedding IS NOT NULL`)
	if err != nil {
		return nil, wrapError("search", err)
	}
	defer func() { _ = rows.Close() }()

	results := make([]graph.SearchResult, 0)
	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, wrapError("search", err)
		}

		stored, err := encoding.DecodeVector(blob)
		if err != nil {
			return nil, wrapError("search", err)
		}

		results = append(results, graph.SearchResult{
			NodeID: id,
			Score:  cosineSimilarity(vector, stored),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError("search", err)
	}

	// Descending by score; id ties broken lexically for stable output.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].NodeID < results[j].NodeID
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// cosineSimilarity calculates cosine similarity between two vectors.
// Returns a value between -1 and 1, where 1 means identical direction.
// Mismatched dimensions and zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dot, normA, normB float64
	for i := 0; i < len(a); i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0.0 || normB == 0.0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
