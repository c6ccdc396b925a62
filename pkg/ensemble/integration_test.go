package ensemble_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recom-ensemble/pkg/election"
	"github.com/recom-ensemble/pkg/ensemble"
	"github.com/recom-ensemble/pkg/graph"
	"github.com/recom-ensemble/pkg/partition"
	"github.com/recom-ensemble/pkg/recom"
)

// latticeGraph builds a 4x4 lattice with synthetic vote counts so sampled
// plans score differently.
func latticeGraph() *graph.Graph {
	g := graph.New()
	id := func(r, c int) string { return fmt.Sprintf("r%dc%d", r, c) }

	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			g.AddUnit(&graph.Unit{
				ID:         id(r, c),
				Population: 10,
				DemVotes:   100 + 30*r,
				RepVotes:   100 + 30*c,
			})
		}
	}
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if c+1 < 4 {
				g.AddEdge(id(r, c), id(r, c+1))
			}
			if r+1 < 4 {
				g.AddEdge(id(r, c), id(r+1, c))
			}
		}
	}
	return g
}

func latticePartition(t *testing.T) *partition.Partition {
	t.Helper()

	assignment := make(map[string]string)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			label := "left"
			if c >= 2 {
				label = "right"
			}
			assignment[fmt.Sprintf("r%dc%d", r, c)] = label
		}
	}

	p, err := partition.New(latticeGraph(), assignment)
	require.NoError(t, err)
	return p
}

func TestSamplerWithRecomProposerIsDeterministic(t *testing.T) {
	cfg := ensemble.Config{
		PopulationTolerance: 0.3,
		TargetSamples:       10,
		ThinningInterval:    2,
		Seed:                42,
	}

	run := func() []election.Result {
		proposer := recom.NewProposer(rand.New(rand.NewSource(cfg.Seed)))
		sampler, err := ensemble.NewSampler(cfg, proposer, nil)
		require.NoError(t, err)

		outcome, err := sampler.Run(latticePartition(t))
		require.NoError(t, err)
		require.Equal(t, ensemble.Complete, outcome.State)
		require.Len(t, outcome.Samples, 10)
		return outcome.Samples
	}

	assert.Equal(t, run(), run())
}

func TestRunIndependentWithRecomProposer(t *testing.T) {
	cfg := ensemble.Config{
		PopulationTolerance: 0.3,
		TargetSamples:       5,
		ThinningInterval:    2,
		Seed:                7,
	}

	newProposer := func(seed int64) ensemble.Proposer {
		return recom.NewProposer(rand.New(rand.NewSource(seed)))
	}

	outcomes, err := ensemble.RunIndependent(cfg, 2, newProposer, latticePartition(t), nil, nil)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	for _, outcome := range outcomes {
		assert.Equal(t, ensemble.Complete, outcome.State)
		assert.Len(t, outcome.Samples, 5)
	}

	summary := ensemble.SummarizeOutcomes(outcomes)
	assert.Len(t, summary.EfficiencyGaps, 10)
}
