package facet

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dot-matrix-labs/facet/pkg/graph"
)

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), Config{})
	require.Error(t, err)
}

func TestFacadeEndToEnd(t *testing.T) {
	ctx := context.Background()

	db, err := Open(ctx, DefaultConfig(filepath.Join(t.TempDir(), "facet.db")))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	g := db.Graph()
	v := db.Vector()

	require.NoError(t, g.AddNode(ctx, graph.Node{
		ID:          "p1",
		Label:       "Person",
		Properties:  map[string]any{"name": "Alice"},
		PartitionID: "personal",
	}))
	require.NoError(t, g.AddNode(ctx, graph.Node{
		ID:          "p2",
		Label:       "Person",
		Properties:  map[string]any{"name": "Bob"},
		PartitionID: "work",
	}))
	require.NoError(t, g.AddEdge(ctx, graph.Edge{
		Source:      "p1",
		Target:      "p2",
		Relation:    "knows",
		Weight:      0.8,
		PartitionID: "personal",
	}))

	node, err := g.GetNode(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Person", node.Label)
	assert.Equal(t, "Alice", node.Properties["name"])

	neighbors, err := g.GetNeighbors(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, neighbors, 1)
	assert.Equal(t, "knows", neighbors[0].Edge.Relation)
	assert.Equal(t, 0.8, neighbors[0].Edge.Weight)
	assert.Equal(t, "p2", neighbors[0].Node.ID)

	require.NoError(t, v.AddEmbedding(ctx, "p1", []float32{1, 0, 0.5}))
	results, err := v.Search(ctx, []float32{1, 0, 0.5}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "p1", results[0].NodeID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-3)
}

func TestFacadeReopenPersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "facet.db")

	db, err := Open(ctx, DefaultConfig(path))
	require.NoError(t, err)
	require.NoError(t, db.Graph().AddNode(ctx, graph.Node{
		ID:          "keep",
		Label:       "Doc",
		PartitionID: "personal",
	}))
	require.NoError(t, db.Close())

	db, err = Open(ctx, DefaultConfig(path))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	node, err := db.Graph().GetNode(ctx, "keep")
	require.NoError(t, err)
	assert.Equal(t, "Doc", node.Label)
}
