package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/recom-ensemble/pkg/config"
	"github.com/recom-ensemble/pkg/election"
	"github.com/recom-ensemble/pkg/ensemble"
	"github.com/recom-ensemble/pkg/graph"
	"github.com/recom-ensemble/pkg/graphio"
	"github.com/recom-ensemble/pkg/partition"
	"github.com/recom-ensemble/pkg/plot"
	"github.com/recom-ensemble/pkg/recom"
)

var (
	configPath string
	graphPath  string
	outputDir  string
	chains     int
	verbose    bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score fixed district plans and sample a ReCom ensemble of alternatives",
	Long: `analyze evaluates the electoral fairness of legislative district plans.

It scores a set of fixed plans (Republican seat wins and efficiency gap),
then runs a recombination Markov chain from a starting plan to build an
ensemble of alternative population-balanced plans, so a given plan can be
judged against the distribution of what is achievable.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file (YAML)")
	rootCmd.PersistentFlags().StringVar(&graphPath, "graph", "", "path to the adjacency-JSON graph file (overrides config)")
	rootCmd.PersistentFlags().StringVar(&outputDir, "out", "", "directory for histograms and tables (overrides config)")
	rootCmd.PersistentFlags().IntVar(&chains, "chains", 0, "number of independent chains to run (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Println("Loading adjacency graph...")
	g, err := graphio.Load(cfg.GraphPath, graphio.Columns{
		Population: cfg.Columns.Population,
		DemVotes:   cfg.Columns.DemVotes,
		RepVotes:   cfg.Columns.RepVotes,
		Plans:      cfg.PlanColumns(),
	})
	if err != nil {
		return err
	}

	totalVotes, nonzero := 0, 0
	for _, u := range g.Units {
		totalVotes += u.DemVotes + u.RepVotes
		if u.DemVotes+u.RepVotes > 0 {
			nonzero++
		}
	}
	fmt.Printf("Total two-party votes across state: %d\n", totalVotes)
	fmt.Printf("Nonzero-vote unit count: %d\n", nonzero)

	if err := scoreFixedPlans(cfg, g); err != nil {
		return err
	}
	return runEnsemble(cfg, g)
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	if configPath != "" {
		cfg, err = config.Load(configPath)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded configuration", zap.String("path", configPath))
	} else {
		cfg = config.Default()
	}

	if graphPath != "" {
		cfg.GraphPath = graphPath
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if chains > 0 {
		cfg.Ensemble.Chains = chains
	}
	return cfg, cfg.Validate()
}

func scoreFixedPlans(cfg *config.Config, g *graph.Graph) error {
	fmt.Println("\nFixed plans:")
	for _, plan := range cfg.Plans {
		result, err := election.ScorePlan(g, plan.Column)
		if err != nil {
			return fmt.Errorf("scoring plan %q: %w", plan.Name, err)
		}

		fmt.Printf("Plan: %s (column = %s)\n", plan.Name, plan.Column)
		fmt.Printf("  -> Republican districts won: %d\n", result.RepWins)
		fmt.Printf("  -> Efficiency gap (Republican - Democratic) = %.4f\n\n", result.EfficiencyGap)
	}
	return nil
}

func runEnsemble(cfg *config.Config, g *graph.Graph) error {
	assignment, err := g.PlanAssignment(cfg.StartingPlan)
	if err != nil {
		return fmt.Errorf("starting plan: %w", err)
	}
	initial, err := partition.New(g, assignment)
	if err != nil {
		return fmt.Errorf("building initial partition: %w", err)
	}

	fmt.Printf("Running ReCom ensemble from plan column %s...\n", cfg.StartingPlan)
	fmt.Printf("Number of districts: %d\n", len(initial.Districts()))
	fmt.Printf("Total state population: %d\n", g.TotalPopulation())
	fmt.Printf("Ideal population per district: %.2f\n", initial.IdealPopulation())

	samplerCfg := ensemble.Config{
		PopulationTolerance: cfg.Ensemble.PopulationTolerance,
		TargetSamples:       cfg.Ensemble.TargetSamples,
		ThinningInterval:    cfg.Ensemble.ThinningInterval,
		MaxSteps:            cfg.Ensemble.TargetSamples * cfg.Ensemble.ThinningInterval * cfg.Ensemble.MaxStepsMultiplier,
		Seed:                cfg.Ensemble.Seed,
	}

	newProposer := func(seed int64) ensemble.Proposer {
		return recom.NewProposer(rand.New(rand.NewSource(seed)))
	}

	onSample := func(chain, index int, r election.Result) {
		if cfg.Ensemble.Chains > 1 {
			fmt.Printf("[chain %d] Collected sample %d/%d: wins=%d, eg=%.4f\n",
				chain, index, cfg.Ensemble.TargetSamples, r.RepWins, r.EfficiencyGap)
			return
		}
		fmt.Printf("Collected sample %d/%d: wins=%d, eg=%.4f\n",
			index, cfg.Ensemble.TargetSamples, r.RepWins, r.EfficiencyGap)
	}

	outcomes, err := ensemble.RunIndependent(samplerCfg, cfg.Ensemble.Chains, newProposer, initial, logger, onSample)
	if err != nil {
		return err
	}

	for chain, outcome := range outcomes {
		if outcome.State == ensemble.Exhausted {
			fmt.Printf("WARNING: chain %d collected only %d of %d samples before the step budget ran out\n",
				chain, len(outcome.Samples), cfg.Ensemble.TargetSamples)
		}
	}

	summary := ensemble.SummarizeOutcomes(outcomes)
	return report(cfg, summary)
}

func report(cfg *config.Config, summary *ensemble.Summary) error {
	if len(summary.EfficiencyGaps) == 0 {
		fmt.Println("No samples collected; skipping histograms")
		return nil
	}

	winsPath := filepath.Join(cfg.OutputDir, "rep_wins_hist.png")
	if err := plot.SeatHistogram(winsPath, summary.WinCounts); err != nil {
		return err
	}
	fmt.Printf("Saved histogram of Republican wins to %s\n", winsPath)

	gapsPath := filepath.Join(cfg.OutputDir, "efficiency_gap_hist.png")
	if err := plot.GapHistogram(gapsPath, summary.EfficiencyGaps, cfg.Ensemble.GapBins); err != nil {
		return err
	}
	fmt.Printf("Saved histogram of efficiency gaps to %s\n", gapsPath)

	tablePath := filepath.Join(cfg.OutputDir, "rep_wins_table.csv")
	if err := graphio.WriteTallyCSV(tablePath, summary.WinCounts); err != nil {
		return err
	}

	fmt.Println("\nSeat count frequency table (seats -> plans):")
	for seats := 0; seats <= summary.MaxWins; seats++ {
		fmt.Printf("  %d seats: %d plans\n", seats, summary.WinCounts[seats])
	}

	fmt.Println("\nDone. Files produced: rep_wins_hist.png, efficiency_gap_hist.png, rep_wins_table.csv")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
