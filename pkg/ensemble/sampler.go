package ensemble

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/recom-ensemble/pkg/election"
	"github.com/recom-ensemble/pkg/partition"
)

// Proposer produces a new valid assignment from the current partition, or
// fails if its internal search finds no population-balanced recombination.
type Proposer interface {
	Propose(p *partition.Partition, popTarget, epsilon float64) (map[string]string, error)
}

type State int

const (
	Running State = iota
	SampleCollected
	Complete  // target sample count reached
	Exhausted // step budget ran out first; partial ensemble
)

func (s State) String() string {
	switch s {
	case Running:
		return "RUNNING"
	case SampleCollected:
		return "SAMPLE_COLLECTED"
	case Complete:
		return "COMPLETE"
	case Exhausted:
		return "EXHAUSTED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Config controls a single sampling run.
type Config struct {
	// PopulationTolerance is the maximum fractional deviation of any
	// district population from the ideal that a proposal may exhibit.
	PopulationTolerance float64
	// TargetSamples is the number of decorrelated plans to retain.
	TargetSamples int
	// ThinningInterval is the number of chain steps between retained
	// samples; only steps whose index is a multiple of it are scored.
	ThinningInterval int
	// MaxSteps is the hard ceiling on total proposal attempts. Zero
	// derives TargetSamples * ThinningInterval * defaultStepMultiplier.
	MaxSteps int
	// Seed fixes the pseudo-random stream consumed by the proposer.
	Seed int64
}

const defaultStepMultiplier = 5

func (c Config) maxSteps() int {
	if c.MaxSteps > 0 {
		return c.MaxSteps
	}
	return c.TargetSamples * c.ThinningInterval * defaultStepMultiplier
}

func (c Config) Validate() error {
	if c.PopulationTolerance <= 0 {
		return fmt.Errorf("population tolerance must be positive, got %g", c.PopulationTolerance)
	}
	if c.TargetSamples < 1 {
		return fmt.Errorf("target sample count must be at least 1, got %d", c.TargetSamples)
	}
	if c.ThinningInterval < 1 {
		return fmt.Errorf("thinning interval must be at least 1, got %d", c.ThinningInterval)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("max steps must not be negative, got %d", c.MaxSteps)
	}
	return nil
}

// Outcome is the retained trajectory of one completed run.
type Outcome struct {
	Samples []election.Result // chain order
	State   State             // Complete or Exhausted
	Steps   int               // total proposal applications
}

// Sampler drives an always-accept random walk over valid plans: every
// successful proposal replaces the partition, there is no acceptance ratio.
type Sampler struct {
	cfg      Config
	proposer Proposer
	logger   *zap.Logger

	// OnSample, when set, is invoked after each retained sample with its
	// one-based index.
	OnSample func(index int, r election.Result)
}

func NewSampler(cfg Config, proposer Proposer, logger *zap.Logger) (*Sampler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sampler{cfg: cfg, proposer: proposer, logger: logger}, nil
}

// Run walks the chain from the initial partition until the target sample
// count is reached or the step budget runs out. A proposal failure is fatal
// for the whole run and is propagated, not retried.
func (s *Sampler) Run(initial *partition.Partition) (*Outcome, error) {
	popTarget := initial.IdealPopulation()
	maxSteps := s.cfg.maxSteps()

	s.logger.Info("starting chain",
		zap.Int("districts", len(initial.Districts())),
		zap.Float64("ideal_population", popTarget),
		zap.Int("target_samples", s.cfg.TargetSamples),
		zap.Int("max_steps", maxSteps))

	current := initial
	outcome := &Outcome{State: Running}
	collected := 0

	for collected < s.cfg.TargetSamples && outcome.Steps < maxSteps {
		proposed, err := s.proposer.Propose(current, popTarget, s.cfg.PopulationTolerance)
		if err != nil {
			return nil, fmt.Errorf("proposal failed at step %d: %w", outcome.Steps+1, err)
		}

		current, err = current.Replace(proposed)
		if err != nil {
			return nil, fmt.Errorf("invalid assignment from proposer at step %d: %w", outcome.Steps+1, err)
		}
		outcome.Steps++
		outcome.State = Running

		if outcome.Steps%s.cfg.ThinningInterval != 0 {
			continue
		}

		result, err := election.Score(current.Graph(), current.Assignment())
		if err != nil {
			return nil, fmt.Errorf("scoring sample at step %d: %w", outcome.Steps, err)
		}

		outcome.Samples = append(outcome.Samples, result)
		collected++
		outcome.State = SampleCollected

		s.logger.Debug("collected sample",
			zap.Int("sample", collected),
			zap.Int("target", s.cfg.TargetSamples),
			zap.Int("rep_wins", result.RepWins),
			zap.Float64("efficiency_gap", result.EfficiencyGap))

		if s.OnSample != nil {
			s.OnSample(collected, result)
		}
	}

	if collected >= s.cfg.TargetSamples {
		outcome.State = Complete
	} else {
		outcome.State = Exhausted
		s.logger.Warn("step budget exhausted before reaching target sample count",
			zap.Int("collected", collected),
			zap.Int("target", s.cfg.TargetSamples),
			zap.Int("steps", outcome.Steps))
	}

	return outcome, nil
}
