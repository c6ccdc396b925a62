package partition

import (
	"fmt"

	"github.com/recom-ensemble/pkg/graph"
)

// Aggregate holds the derived per-district totals.
type Aggregate struct {
	Population int
	DemVotes   int
	RepVotes   int
}

// Partition is a district assignment over a unit graph together with
// aggregates derived from it. Aggregates are rebuilt whenever the assignment
// is replaced, so they can never go stale.
type Partition struct {
	graph      *graph.Graph
	assignment map[string]string
	aggregates map[string]*Aggregate
}

// New builds a partition from a total assignment, computing aggregates with
// a full pass over all units.
func New(g *graph.Graph, assignment map[string]string) (*Partition, error) {
	aggregates := make(map[string]*Aggregate)

	for id, u := range g.Units {
		if u.Population < 0 {
			return nil, fmt.Errorf("unit %s has negative population %d", id, u.Population)
		}

		label, ok := assignment[id]
		if !ok {
			return nil, fmt.Errorf("assignment does not cover unit %s", id)
		}

		agg, ok := aggregates[label]
		if !ok {
			agg = &Aggregate{}
			aggregates[label] = agg
		}
		agg.Population += u.Population
		agg.DemVotes += u.DemVotes
		agg.RepVotes += u.RepVotes
	}

	return &Partition{
		graph:      g,
		assignment: assignment,
		aggregates: aggregates,
	}, nil
}

// Replace returns a fresh partition over the same graph with the new
// assignment and recomputed aggregates.
func (p *Partition) Replace(assignment map[string]string) (*Partition, error) {
	return New(p.graph, assignment)
}

func (p *Partition) Graph() *graph.Graph {
	return p.graph
}

func (p *Partition) Assignment() map[string]string {
	return p.assignment
}

func (p *Partition) Aggregates() map[string]*Aggregate {
	return p.aggregates
}

func (p *Partition) Districts() []string {
	districts := make([]string, 0, len(p.aggregates))
	for label := range p.aggregates {
		districts = append(districts, label)
	}
	return districts
}

// IdealPopulation is the total population divided by the district count.
func (p *Partition) IdealPopulation() float64 {
	if len(p.aggregates) == 0 {
		return 0
	}
	return float64(p.graph.TotalPopulation()) / float64(len(p.aggregates))
}
