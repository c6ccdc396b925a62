package ensemble

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/recom-ensemble/pkg/election"
	"github.com/recom-ensemble/pkg/partition"
)

// RunIndependent runs n independent chains concurrently, chain i seeded with
// cfg.Seed + i. Chains share nothing mutable: the graph is read-only and
// every chain derives fresh partitions from the initial one. With n = 1 the
// outcome is identical to a single Sampler.Run under cfg.Seed.
func RunIndependent(cfg Config, n int, newProposer func(seed int64) Proposer, initial *partition.Partition, logger *zap.Logger, onSample func(chain, index int, r election.Result)) ([]*Outcome, error) {
	if n < 1 {
		return nil, fmt.Errorf("chain count must be at least 1, got %d", n)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	outcomes := make([]*Outcome, n)
	var group errgroup.Group

	for i := 0; i < n; i++ {
		chain := i
		chainCfg := cfg
		chainCfg.Seed = cfg.Seed + int64(chain)

		group.Go(func() error {
			sampler, err := NewSampler(chainCfg, newProposer(chainCfg.Seed), logger.With(zap.Int("chain", chain)))
			if err != nil {
				return err
			}
			if onSample != nil {
				sampler.OnSample = func(index int, r election.Result) {
					onSample(chain, index, r)
				}
			}

			outcome, err := sampler.Run(initial)
			if err != nil {
				return fmt.Errorf("chain %d: %w", chain, err)
			}
			outcomes[chain] = outcome
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// SummarizeOutcomes merges the per-chain summaries into one.
func SummarizeOutcomes(outcomes []*Outcome) *Summary {
	merged := Summarize(nil)
	for _, outcome := range outcomes {
		merged.Merge(Summarize(outcome.Samples))
	}
	return merged
}
