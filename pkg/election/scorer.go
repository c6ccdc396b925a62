package election

import (
	"fmt"

	"github.com/recom-ensemble/pkg/graph"
)

// Result holds the metrics computed for a single district plan.
type Result struct {
	RepWins       int
	EfficiencyGap float64
}

type districtTally struct {
	dem int
	rep int
}

// Score computes Republican seat wins and the efficiency gap for the plan
// described by assignment. Districts with zero two-party votes are excluded
// from both counts. The assignment must cover every unit in the graph and
// vote counts must be non-negative.
func Score(g *graph.Graph, assignment map[string]string) (Result, error) {
	tallies := make(map[string]*districtTally)

	for id, u := range g.Units {
		if u.DemVotes < 0 || u.RepVotes < 0 {
			return Result{}, fmt.Errorf("unit %s has negative vote counts (D=%d, R=%d)", id, u.DemVotes, u.RepVotes)
		}

		label, ok := assignment[id]
		if !ok {
			return Result{}, fmt.Errorf("assignment does not cover unit %s", id)
		}

		t, ok := tallies[label]
		if !ok {
			t = &districtTally{}
			tallies[label] = t
		}
		t.dem += u.DemVotes
		t.rep += u.RepVotes
	}

	var (
		wins       int
		wastedDem  float64
		wastedRep  float64
		totalVotes float64
	)

	for _, t := range tallies {
		total := t.dem + t.rep
		if total == 0 {
			continue // degenerate district, cannot be scored
		}

		half := float64(total) / 2.0
		if t.rep > t.dem {
			wins++
			wastedRep += float64(t.rep) - half
			wastedDem += float64(t.dem)
		} else {
			wastedRep += float64(t.rep)
			wastedDem += float64(t.dem) - half
		}
		totalVotes += float64(total)
	}

	result := Result{RepWins: wins}
	if totalVotes > 0 {
		result.EfficiencyGap = (wastedRep - wastedDem) / totalVotes
	}

	return result, nil
}

// ScorePlan scores a fixed plan stored as an assignment column on the graph.
func ScorePlan(g *graph.Graph, column string) (Result, error) {
	assignment, err := g.PlanAssignment(column)
	if err != nil {
		return Result{}, fmt.Errorf("plan column %s: %w", column, err)
	}
	return Score(g, assignment)
}
