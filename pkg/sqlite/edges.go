package sqlite

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"github.com/dot-matrix-labs/facet/pkg/graph"
)

// relationPattern is the only syntax accepted for relation names. Checked
// before anything reaches the engine so a malformed name can never turn into
// a query error or an injection vector.
var relationPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// AddEdge creates a directed relation record from edge.Source to edge.Target.
// Every call stores a distinct record with its own generated identifier;
// weight and partition are attached to the relation itself.
func (s *Store) AddEdge(ctx context.Context, edge graph.Edge) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkOpen("addEdge"); err != nil {
		return err
	}

	if !relationPattern.MatchString(edge.Relation) {
		return wrapError("addEdge", fmt.Errorf("%w: %q", graph.ErrInvalidRelation, edge.Relation))
	}
	if edge.Source == "" || edge.Target == "" {
		return wrapError("addEdge", fmt.Errorf("invalid edge: missing node IDs"))
	}

	// A zero weight is "unset": stored as NULL and read back as the
	// default so round trips agree with the read-side defaulting.
	var weight any
	if edge.Weight != 0 {
		weight = edge.Weight
	}

	query := `
	INSERT INTO edges (id, source_id, target_id, relation, weight, partition_id)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	s.track()
	_, err := s.db.ExecContext(ctx, query,
		uuid.NewString(),
		edge.Source,
		edge.Target,
		edge.Relation,
		weight,
		edge.PartitionID,
	)
	if err != nil {
		return wrapError("addEdge", err)
	}
	return nil
}
