package graphio

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/recom-ensemble/pkg/graph"
)

// Columns names the per-unit attributes the analysis needs from the graph
// file.
type Columns struct {
	Population string
	DemVotes   string
	RepVotes   string
	Plans      []string // fixed district-assignment columns
}

func (c Columns) required() []string {
	req := []string{c.Population, c.DemVotes, c.RepVotes}
	return append(req, c.Plans...)
}

// node-link adjacency format: one attribute map per node, adjacency lists
// in node order.
type graphFile struct {
	Nodes     []map[string]any `json:"nodes"`
	Adjacency [][]adjEntry     `json:"adjacency"`
}

type adjEntry struct {
	ID any `json:"id"`
}

// Load reads an adjacency-JSON graph file and builds the unit graph,
// validating that every required attribute column is present.
func Load(path string, cols Columns) (*graph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file %s: %w", path, err)
	}

	var file graphFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse graph file %s: %w", path, err)
	}

	if len(file.Adjacency) != len(file.Nodes) {
		return nil, fmt.Errorf("graph file %s: %d nodes but %d adjacency lists", path, len(file.Nodes), len(file.Adjacency))
	}

	if err := validateColumns(file.Nodes, cols); err != nil {
		return nil, err
	}

	g := graph.New()
	ids := make([]string, len(file.Nodes))

	for i, attrs := range file.Nodes {
		id := attrKey(attrs["id"])
		ids[i] = id

		unit := &graph.Unit{ID: id, Plans: make(map[string]string, len(cols.Plans))}

		if unit.Population, err = intAttr(attrs, cols.Population, id); err != nil {
			return nil, err
		}
		if unit.DemVotes, err = intAttr(attrs, cols.DemVotes, id); err != nil {
			return nil, err
		}
		if unit.RepVotes, err = intAttr(attrs, cols.RepVotes, id); err != nil {
			return nil, err
		}
		for _, plan := range cols.Plans {
			unit.Plans[plan] = attrKey(attrs[plan])
		}

		g.AddUnit(unit)
	}

	// Adjacency lists carry each edge in both directions; add it once.
	seen := make(map[[2]string]bool)
	for i, neighbors := range file.Adjacency {
		for _, n := range neighbors {
			u, v := ids[i], attrKey(n.ID)
			if u > v {
				u, v = v, u
			}
			if u != v && !seen[[2]string{u, v}] {
				seen[[2]string{u, v}] = true
				g.AddEdge(u, v)
			}
		}
	}

	return g, nil
}

// validateColumns checks the first node's attribute map for every required
// column and reports both the missing and the available ones.
func validateColumns(nodes []map[string]any, cols Columns) error {
	if len(nodes) == 0 {
		return fmt.Errorf("graph file contains no nodes")
	}

	var missing []string
	for _, col := range cols.required() {
		if _, ok := nodes[0][col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	available := make([]string, 0, len(nodes[0]))
	for col := range nodes[0] {
		available = append(available, col)
	}
	sort.Strings(missing)
	sort.Strings(available)

	return fmt.Errorf("graph is missing required columns %v (available: %v)", missing, available)
}

func intAttr(attrs map[string]any, col, unitID string) (int, error) {
	raw, ok := attrs[col]
	if !ok {
		return 0, fmt.Errorf("unit %s: missing attribute %s", unitID, col)
	}

	num, ok := raw.(float64)
	if !ok {
		return 0, fmt.Errorf("unit %s: attribute %s is not numeric (%T)", unitID, col, raw)
	}
	if num < 0 {
		return 0, fmt.Errorf("unit %s: attribute %s is negative (%g)", unitID, col, num)
	}
	return int(num), nil
}

// attrKey renders a node id or plan label as an opaque string label.
func attrKey(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
