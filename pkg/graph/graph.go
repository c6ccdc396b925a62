package graph

import "fmt"

// Unit is one atomic spatial unit (a precinct). Immutable after load.
type Unit struct {
	ID         string
	Population int
	DemVotes   int
	RepVotes   int
	Plans      map[string]string // fixed district-assignment columns
}

type Graph struct {
	Units map[string]*Unit
	Adj   map[string][]string
}

func New() *Graph {
	return &Graph{
		Units: make(map[string]*Unit),
		Adj:   make(map[string][]string),
	}
}

func (g *Graph) AddUnit(u *Unit) {
	g.Units[u.ID] = u
}

func (g *Graph) AddEdge(u, v string) {
	if u == v {
		return
	}

	g.Adj[u] = append(g.Adj[u], v)
	g.Adj[v] = append(g.Adj[v], u)
}

func (g *Graph) TotalPopulation() int {
	total := 0
	for _, u := range g.Units {
		total += u.Population
	}
	return total
}

func (g *Graph) UnitIDs() []string {
	ids := make([]string, 0, len(g.Units))
	for id := range g.Units {
		ids = append(ids, id)
	}
	return ids
}

// PlanAssignment extracts the district assignment stored under a fixed plan
// column. Every unit must carry the column.
func (g *Graph) PlanAssignment(column string) (map[string]string, error) {
	assignment := make(map[string]string, len(g.Units))
	for id, u := range g.Units {
		label, ok := u.Plans[column]
		if !ok {
			return nil, fmt.Errorf("unit %s has no assignment in column %s", id, column)
		}
		assignment[id] = label
	}
	return assignment, nil
}
