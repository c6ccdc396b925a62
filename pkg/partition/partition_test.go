package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recom-ensemble/pkg/graph"
)

func testGraph() *graph.Graph {
	g := graph.New()
	g.AddUnit(&graph.Unit{ID: "a", Population: 100, DemVotes: 60, RepVotes: 40})
	g.AddUnit(&graph.Unit{ID: "b", Population: 120, DemVotes: 30, RepVotes: 70})
	g.AddUnit(&graph.Unit{ID: "c", Population: 80, DemVotes: 50, RepVotes: 20})
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	return g
}

func TestNewComputesAggregates(t *testing.T) {
	g := testGraph()

	p, err := New(g, map[string]string{"a": "1", "b": "2", "c": "1"})
	require.NoError(t, err)

	agg := p.Aggregates()
	require.Len(t, agg, 2)
	assert.Equal(t, &Aggregate{Population: 180, DemVotes: 110, RepVotes: 60}, agg["1"])
	assert.Equal(t, &Aggregate{Population: 120, DemVotes: 30, RepVotes: 70}, agg["2"])
}

func TestNewRejectsPartialAssignment(t *testing.T) {
	g := testGraph()

	_, err := New(g, map[string]string{"a": "1", "b": "2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not cover unit c")
}

func TestReplaceRebuildsAggregates(t *testing.T) {
	g := testGraph()

	p, err := New(g, map[string]string{"a": "1", "b": "2", "c": "1"})
	require.NoError(t, err)

	moved, err := p.Replace(map[string]string{"a": "1", "b": "1", "c": "2"})
	require.NoError(t, err)

	agg := moved.Aggregates()
	assert.Equal(t, &Aggregate{Population: 220, DemVotes: 90, RepVotes: 110}, agg["1"])
	assert.Equal(t, &Aggregate{Population: 80, DemVotes: 50, RepVotes: 20}, agg["2"])

	// The original partition is untouched.
	assert.Equal(t, &Aggregate{Population: 180, DemVotes: 110, RepVotes: 60}, p.Aggregates()["1"])
}

func TestIdealPopulation(t *testing.T) {
	g := testGraph()

	p, err := New(g, map[string]string{"a": "1", "b": "2", "c": "1"})
	require.NoError(t, err)
	assert.InDelta(t, 150.0, p.IdealPopulation(), 1e-12)

	assert.ElementsMatch(t, []string{"1", "2"}, p.Districts())
}
