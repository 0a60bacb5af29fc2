package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/dot-matrix-labs/facet/pkg/graph"
)

// GetNeighbors resolves all outgoing (edge, target) pairs of id in at most
// three engine round trips, however many relations the node has:
//
//  1. one query listing the node's outgoing relation identifiers, grouped
//     by relation type;
//  2. one batched fetch of the relation records themselves;
//  3. one batched fetch of the distinct target nodes.
//
// Steps 2 and 3 are skipped outright when the previous step came back empty.
// Relations whose target no longer resolves are dropped from the result
// rather than failing the call: traversal is best-effort, and a concurrent
// writer removing a target between the batched steps must not break readers.
func (s *Store) GetNeighbors(ctx context.Context, id string) ([]graph.Neighbor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkOpen("getNeighbors"); err != nil {
		return nil, err
	}

	// Step 1: relation identifiers grouped by type. The grouping keys are
	// not ordered; nothing below may depend on iteration order.
	grouped, err := s.listOutgoing(ctx, id)
	if err != nil {
		return nil, wrapError("getNeighbors", err)
	}

	edgeIDs := make([]string, 0)
	for _, ids := range grouped {
		edgeIDs = append(edgeIDs, ids...)
	}
	if len(edgeIDs) == 0 {
		return []graph.Neighbor{}, nil
	}

	// Step 2: one batched fetch of all relation records.
	edges, err := s.fetchEdges(ctx, edgeIDs)
	if err != nil {
		return nil, wrapError("getNeighbors", err)
	}
	if len(edges) == 0 {
		return []graph.Neighbor{}, nil
	}

	// Step 3: one batched fetch of the distinct target nodes.
	targetIDs := make([]string, 0, len(edges))
	seen := make(map[string]bool, len(edges))
	for _, e := range edges {
		if !seen[e.targetID] {
			seen[e.targetID] = true
			targetIDs = append(targetIDs, e.targetID)
		}
	}

	targets, err := s.fetchNodes(ctx, targetIDs)
	if err != nil {
		return nil, wrapError("getNeighbors", err)
	}

	byID := make(map[string]graph.Node, len(targets))
	for _, n := range targets {
		byID[n.ID] = n
	}

	neighbors := make([]graph.Neighbor, 0, len(edges))
	for _, e := range edges {
		target, ok := byID[e.targetID]
		if !ok {
			// Dangling reference; drop it.
			s.logger.Debug("dropping edge with unresolved target", "edge", e.id, "target", e.targetID)
			continue
		}
		neighbors = append(neighbors, graph.Neighbor{
			Edge: graph.Edge{
				// The caller's id verbatim, not the stored form.
				Source:      id,
				Target:      target.ID,
				Relation:    e.relation,
				Weight:      e.weight,
				PartitionID: e.partitionID,
			},
			Node: target,
		})
	}
	return neighbors, nil
}

// GetNeighborsInPartition returns the subset of GetNeighbors(id) where both
// the edge and the target node belong to partitionID. The filter runs client
// side over the full neighbor set: O(out-degree) per call, but one code path
// and no partition predicate duplicated into the engine.
func (s *Store) GetNeighborsInPartition(ctx context.Context, id, partitionID string) ([]graph.Neighbor, error) {
	all, err := s.GetNeighbors(ctx, id)
	if err != nil {
		return nil, err
	}

	filtered := make([]graph.Neighbor, 0, len(all))
	for _, n := range all {
		if n.Edge.PartitionID == partitionID && n.Node.PartitionID == partitionID {
			filtered = append(filtered, n)
		}
	}
	return filtered, nil
}

// listOutgoing returns the identifiers of id's outgoing relation records,
// keyed by relation type.
func (s *Store) listOutgoing(ctx context.Context, id string) (map[string][]string, error) {
	query := `SELECT relation, id FROM edges WHERE source_id = ?`

	s.track()
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	grouped := make(map[string][]string)
	for rows.Next() {
		var relation, edgeID string
		if err := rows.Scan(&relation, &edgeID); err != nil {
			return nil, err
		}
		grouped[relation] = append(grouped[relation], edgeID)
	}
	return grouped, rows.Err()
}

// edgeRecord is one stored relation row.
type edgeRecord struct {
	id          string
	targetID    string
	relation    string
	weight      float64
	partitionID string
}

// fetchEdges retrieves the given relation records in one batched query.
func (s *Store) fetchEdges(ctx context.Context, edgeIDs []string) ([]edgeRecord, error) {
	query := fmt.Sprintf(
		`SELECT id, target_id, relation, weight, partition_id FROM edges WHERE id IN (%s)`,
		placeholders(len(edgeIDs)))

	s.track()
	rows, err := s.db.QueryContext(ctx, query, toArgs(edgeIDs)...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	edges := make([]edgeRecord, 0, len(edgeIDs))
	for rows.Next() {
		var e edgeRecord
		var weight *float64
		var partition *string

		if err := rows.Scan(&e.id, &e.targetID, &e.relation, &weight, &partition); err != nil {
			return nil, err
		}

		e.weight = graph.DefaultWeight
		if weight != nil {
			e.weight = *weight
		}
		e.partitionID = graph.DefaultPartition
		if partition != nil && *partition != "" {
			e.partitionID = *partition
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// fetchNodes retrieves the given nodes in one batched query. Missing ids are
// simply absent from the result.
func (s *Store) fetchNodes(ctx context.Context, nodeIDs []string) ([]graph.Node, error) {
	query := fmt.Sprintf(
		`SELECT id, label, properties, partition_id FROM nodes WHERE id IN (%s)`,
		placeholders(len(nodeIDs)))

	s.track()
	rows, err := s.db.QueryContext(ctx, query, toArgs(nodeIDs)...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	nodes := make([]graph.Node, 0, len(nodeIDs))
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, rows.Err()
}

// placeholders returns n comma-joined SQL placeholders.
func placeholders(n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = "?"
	}
	return strings.Join(ph, ",")
}

// toArgs widens a string slice for QueryContext.
func toArgs(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
