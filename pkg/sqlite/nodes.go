package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dot-matrix-labs/facet/internal/encoding"
	"github.com/dot-matrix-labs/facet/pkg/graph"
)

// upsertNodeSQL replaces the whole record at id. The embedding column stays
// untouched: embeddings have no lifecycle of their own and survive node
// overwrites.
const upsertNodeSQL = `
	INSERT INTO nodes (id, label, properties, partition_id)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		label = excluded.label,
		properties = excluded.properties,
		partition_id = excluded.partition_id
`

// AddNode creates or overwrites the node record at node.ID. Properties are
// replaced wholesale, never merged.
func (s *Store) AddNode(ctx context.Context, node graph.Node) error {
	return s.upsertNode(ctx, "addNode", node)
}

// UpdateNode replaces the full record at node.ID. Identical to AddNode; the
// separate name only preserves caller intent.
func (s *Store) UpdateNode(ctx context.Context, node graph.Node) error {
	return s.upsertNode(ctx, "updateNode", node)
}

func (s *Store) upsertNode(ctx context.Context, op string, node graph.Node) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkOpen(op); err != nil {
		return err
	}
	if node.ID == "" {
		return wrapError(op, fmt.Errorf("invalid node: missing ID"))
	}

	propsJSON, err := encoding.EncodeProperties(node.Properties)
	if err != nil {
		return wrapError(op, err)
	}

	s.track()
	if _, err := s.db.ExecContext(ctx, upsertNodeSQL, node.ID, node.Label, propsJSON, node.PartitionID); err != nil {
		return wrapError(op, err)
	}
	return nil
}

// GetNode retrieves the node at id. A missing record yields an error
// satisfying errors.Is(err, graph.ErrNotFound) that carries the id.
func (s *Store) GetNode(ctx context.Context, id string) (graph.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkOpen("getNode"); err != nil {
		return graph.Node{}, err
	}

	query := `SELECT id, label, properties, partition_id FROM nodes WHERE id = ?`

	s.track()
	row := s.db.QueryRowContext(ctx, query, id)
	node, err := scanNode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return graph.Node{}, &graph.NotFoundError{ID: id}
	}
	if err != nil {
		return graph.Node{}, wrapError("getNode", err)
	}
	return node, nil
}

// QueryByPartition returns every node whose partition exactly equals
// partitionID. No prefix or hierarchy semantics.
func (s *Store) QueryByPartition(ctx context.Context, partitionID string) ([]graph.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkOpen("queryByPartition"); err != nil {
		return nil, err
	}

	query := `SELECT id, label, properties, partition_id FROM nodes WHERE partition_id = ?`

	s.track()
	rows, err := s.db.QueryContext(ctx, query, partitionID)
	if err != nil {
		return nil, wrapError("queryByPartition", err)
	}
	defer func() { _ = rows.Close() }()

	nodes := make([]graph.Node, 0)
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, wrapError("queryByPartition", err)
		}
		nodes = append(nodes, node)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError("queryByPartition", err)
	}
	return nodes, nil
}

// AddNodes upserts all nodes in a single transaction. Useful for
// ingestion-style bulk loads; each record follows AddNode semantics.
func (s *Store) AddNodes(ctx context.Context, nodes []graph.Node) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkOpen("addNodes"); err != nil {
		return err
	}
	if len(nodes) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapError("addNodes", fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertNodeSQL)
	if err != nil {
		return wrapError("addNodes", fmt.Errorf("failed to prepare statement: %w", err))
	}
	defer func() { _ = stmt.Close() }()

	for _, node := range nodes {
		if node.ID == "" {
			return wrapError("addNodes", fmt.Errorf("invalid node: missing ID"))
		}
		propsJSON, err := encoding.EncodeProperties(node.Properties)
		if err != nil {
			return wrapError("addNodes", fmt.Errorf("node %s: %w", node.ID, err))
		}
		if _, err := stmt.ExecContext(ctx, node.ID, node.Label, propsJSON, node.PartitionID); err != nil {
			return wrapError("addNodes", fmt.Errorf("node %s: %w", node.ID, err))
		}
	}

	s.track()
	if err := tx.Commit(); err != nil {
		return wrapError("addNodes", fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanNode reconstructs a Node from a (id, label, properties, partition_id)
// row, applying the partition default for rows that predate partitioning.
func scanNode(row rowScanner) (graph.Node, error) {
	var node graph.Node
	var propsJSON sql.NullString
	var partition sql.NullString

	if err := row.Scan(&node.ID, &node.Label, &propsJSON, &partition); err != nil {
		return graph.Node{}, err
	}

	props, err := encoding.DecodeProperties(propsJSON.String)
	if err != nil {
		return graph.Node{}, err
	}
	node.Properties = props

	node.PartitionID = partition.String
	if node.PartitionID == "" {
		node.PartitionID = graph.DefaultPartition
	}
	return node, nil
}
