// Package graph defines the data model and the storage contracts for the
// facet property graph: nodes with schemaless properties, directed typed
// edges, partition-scoped listing, one-hop neighbor resolution, and
// nearest-neighbor search over node embeddings.
//
// The graph and vector capabilities are two separate interfaces implemented
// by the same backend, so an alternative backend may provide only the
// capability it supports.
package graph

import "context"

// DefaultPartition is assumed for any record whose partition is unset.
const DefaultPartition = "personal"

// DefaultWeight is assumed for any edge record without an explicit weight.
const DefaultWeight = 1.0

// Node is a record in the property graph. ID is caller-supplied and acts as
// the primary key; it never changes once the node is created.
type Node struct {
	ID          string         `json:"id"`
	Label       string         `json:"label"`
	Properties  map[string]any `json:"properties,omitempty"`
	PartitionID string         `json:"partition_id"`
}

// Edge is a directed, typed relation from Source to Target. Weight and
// PartitionID live on the relation record itself, not on either endpoint.
// Relation must consist of alphanumerics and underscores only.
type Edge struct {
	Source      string  `json:"source"`
	Target      string  `json:"target"`
	Relation    string  `json:"relation"`
	Weight      float64 `json:"weight"`
	PartitionID string  `json:"partition_id"`
}

// Neighbor pairs an outgoing edge with its resolved target node.
type Neighbor struct {
	Edge Edge
	Node Node
}

// SearchResult is one hit from a vector similarity search.
type SearchResult struct {
	NodeID string
	Score  float64
}

// Store is the graph capability: node and edge CRUD, partition-scoped
// listing, and one-hop traversal. Writes are whole-record overwrites;
// implementations must never merge properties.
type Store interface {
	// AddNode creates or overwrites the record at node.ID.
	AddNode(ctx context.Context, node Node) error

	// GetNode returns the node at id, or an error satisfying
	// errors.Is(err, ErrNotFound) when no such record exists.
	GetNode(ctx context.Context, id string) (Node, error)

	// UpdateNode replaces the full record at node.ID. Same semantics as
	// AddNode; the distinct name only signals caller intent.
	UpdateNode(ctx context.Context, node Node) error

	// AddEdge validates the relation name and creates a new directed
	// relation record. Every call creates a distinct record.
	AddEdge(ctx context.Context, edge Edge) error

	// GetNeighbors returns all outgoing (edge, target) pairs for id,
	// one entry per relation record regardless of relation type.
	GetNeighbors(ctx context.Context, id string) ([]Neighbor, error)

	// QueryByPartition returns all nodes whose partition exactly equals
	// partitionID.
	QueryByPartition(ctx context.Context, partitionID string) ([]Node, error)

	// GetNeighborsInPartition returns the subset of GetNeighbors(id)
	// where both the edge and the target node belong to partitionID.
	GetNeighborsInPartition(ctx context.Context, id, partitionID string) ([]Neighbor, error)
}

// VectorStore is the vector capability: embedding attachment and top-k
// cosine similarity search over all embedded nodes.
type VectorStore interface {
	// AddEmbedding overwrites the embedding of the node at id. Vector
	// dimensionality is not validated; callers keep it consistent.
	AddEmbedding(ctx context.Context, id string, vector []float32) error

	// Search returns up to limit results ordered by descending cosine
	// similarity to vector. Nodes without an embedding are not
	// candidates.
	Search(ctx context.Context, vector []float32, limit int) ([]SearchResult, error)
}
