package store_test

import (
	"testing"

	"github.com/dominikbraun/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lidarch/lidarch/internal/store"
)

func TestMemoryStoreVertices(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore[string, string]()

	require.NoError(t, s.AddVertex("a", "a", graph.VertexProperties{}))
	require.ErrorIs(t, s.AddVertex("a", "a", graph.VertexProperties{}), graph.ErrVertexAlreadyExists)

	_, _, err := s.Vertex("missing")
	require.ErrorIs(t, err, graph.ErrVertexNotFound)

	count, err := s.VertexCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMemoryStoreUpdateVertex(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore[string, string]()
	require.NoError(t, s.AddVertex("a", "a", graph.VertexProperties{}))

	s.UpdateVertex("a", func(p *graph.VertexProperties) {
		if p.Attributes == nil {
			p.Attributes = make(map[string]string)
		}
		p.Attributes["xlabel"] = "1.5s"
	})
	// Updating a missing vertex is a no-op.
	s.UpdateVertex("missing", func(p *graph.VertexProperties) {
		p.Weight = 99
	})

	_, props, err := s.Vertex("a")
	require.NoError(t, err)
	assert.Equal(t, "1.5s", props.Attributes["xlabel"])
}

func TestMemoryStoreEdges(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore[string, string]()
	require.NoError(t, s.AddVertex("a", "a", graph.VertexProperties{}))
	require.NoError(t, s.AddVertex("b", "b", graph.VertexProperties{}))

	require.NoError(t, s.AddEdge("a", "b", graph.Edge[string]{Source: "a", Target: "b"}))

	edge, err := s.Edge("a", "b")
	require.NoError(t, err)
	assert.Equal(t, "b", edge.Target)

	_, err = s.Edge("b", "a")
	require.ErrorIs(t, err, graph.ErrEdgeNotFound)

	require.ErrorIs(t, s.RemoveVertex("a"), graph.ErrVertexHasEdges)
	require.NoError(t, s.RemoveEdge("a", "b"))
	require.NoError(t, s.RemoveVertex("a"))

	edges, err := s.ListEdges()
	require.NoError(t, err)
	assert.Empty(t, edges)
}
