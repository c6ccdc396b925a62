// Package recom implements the recombination proposal operator: merge two
// adjacent districts, draw a random spanning tree over the merged units, and
// cut a tree edge that leaves both sides population-balanced. Contiguity of
// both sides holds by construction of the spanning-tree cut.
package recom

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/recom-ensemble/pkg/partition"
)

// ErrNoValidSplit is returned when no balanced recombination was found
// within the internal attempt budget.
var ErrNoValidSplit = errors.New("recom: no population-balanced split found")

const defaultMaxAttempts = 200

type Proposer struct {
	rng         *rand.Rand
	maxAttempts int
}

func NewProposer(rng *rand.Rand) *Proposer {
	return &Proposer{rng: rng, maxAttempts: defaultMaxAttempts}
}

type edge struct {
	u string
	v string
}

// Propose returns a new assignment in which one adjacent district pair has
// been merged and re-split within epsilon of the population target. All other
// districts are untouched.
func (p *Proposer) Propose(part *partition.Partition, popTarget, epsilon float64) (map[string]string, error) {
	pairs := adjacentDistrictPairs(part)
	if len(pairs) == 0 {
		return nil, fmt.Errorf("recom: no adjacent district pairs in partition")
	}

	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		pair := pairs[p.rng.Intn(len(pairs))]

		merged := p.trySplit(part, pair[0], pair[1], popTarget, epsilon)
		if merged == nil {
			continue
		}

		assignment := make(map[string]string, len(part.Assignment()))
		for id, label := range part.Assignment() {
			assignment[id] = label
		}
		for id, label := range merged {
			assignment[id] = label
		}
		return assignment, nil
	}

	return nil, ErrNoValidSplit
}

// trySplit merges districts a and b, draws a random spanning tree and looks
// for a balanced cut. Returns the new labels for the merged units, or nil if
// no tree edge yields a balanced split.
func (p *Proposer) trySplit(part *partition.Partition, a, b string, popTarget, epsilon float64) map[string]string {
	g := part.Graph()
	assignment := part.Assignment()

	var units []string
	for _, id := range sortedUnitIDs(g.Units) {
		if assignment[id] == a || assignment[id] == b {
			units = append(units, id)
		}
	}

	tree := p.spanningTree(units, func(u, v string) bool {
		return (assignment[u] == a || assignment[u] == b) &&
			(assignment[v] == a || assignment[v] == b)
	}, g.Adj)
	if tree == nil {
		return nil
	}

	// Root the tree and accumulate subtree populations so each tree edge
	// can be tested in constant time.
	root := units[0]
	parent, order := rootTree(tree, root)

	subtreePop := make(map[string]int, len(units))
	mergedPop := 0
	for _, id := range units {
		subtreePop[id] = g.Units[id].Population
		mergedPop += g.Units[id].Population
	}
	for i := len(order) - 1; i > 0; i-- {
		id := order[i]
		subtreePop[parent[id]] += subtreePop[id]
	}

	lo := popTarget * (1 - epsilon)
	hi := popTarget * (1 + epsilon)

	candidates := append([]string(nil), order[1:]...)
	p.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	for _, cut := range candidates {
		side := float64(subtreePop[cut])
		rest := float64(mergedPop) - side
		if side < lo || side > hi || rest < lo || rest > hi {
			continue
		}

		labels := make(map[string]string, len(units))
		for _, id := range units {
			labels[id] = b
		}
		markSubtree(tree, parent, cut, labels, a)
		return labels
	}

	return nil
}

// spanningTree builds a uniform-ish random spanning tree over the given
// units using shuffled edges and union-find. Returns nil if the merged
// region is not connected.
func (p *Proposer) spanningTree(units []string, inRegion func(u, v string) bool, adj map[string][]string) map[string][]string {
	var edges []edge
	for _, u := range units {
		neighbors := append([]string(nil), adj[u]...)
		sort.Strings(neighbors)
		for _, v := range neighbors {
			if u < v && inRegion(u, v) {
				edges = append(edges, edge{u, v})
			}
		}
	}

	p.rng.Shuffle(len(edges), func(i, j int) {
		edges[i], edges[j] = edges[j], edges[i]
	})

	uf := newUnionFind(units)
	tree := make(map[string][]string, len(units))
	joined := 0
	for _, e := range edges {
		if uf.union(e.u, e.v) {
			tree[e.u] = append(tree[e.u], e.v)
			tree[e.v] = append(tree[e.v], e.u)
			joined++
			if joined == len(units)-1 {
				return tree
			}
		}
	}

	if joined != len(units)-1 {
		return nil
	}
	return tree
}

// rootTree returns parent pointers and a preorder traversal starting at root.
func rootTree(tree map[string][]string, root string) (map[string]string, []string) {
	parent := make(map[string]string, len(tree))
	order := make([]string, 0, len(tree))

	stack := []string{root}
	seen := map[string]bool{root: true}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, id)

		for _, next := range tree[id] {
			if !seen[next] {
				seen[next] = true
				parent[next] = id
				stack = append(stack, next)
			}
		}
	}

	return parent, order
}

// markSubtree relabels the subtree hanging below the cut node.
func markSubtree(tree map[string][]string, parent map[string]string, cut string, labels map[string]string, label string) {
	stack := []string{cut}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		labels[id] = label

		for _, next := range tree[id] {
			if next != parent[id] && parent[next] == id {
				stack = append(stack, next)
			}
		}
	}
}

// adjacentDistrictPairs lists district pairs connected by at least one edge,
// in deterministic order.
func adjacentDistrictPairs(part *partition.Partition) [][2]string {
	g := part.Graph()
	assignment := part.Assignment()

	seen := make(map[[2]string]bool)
	var pairs [][2]string
	for _, u := range sortedUnitIDs(g.Units) {
		for _, v := range g.Adj[u] {
			du, dv := assignment[u], assignment[v]
			if du == dv {
				continue
			}
			if du > dv {
				du, dv = dv, du
			}
			key := [2]string{du, dv}
			if !seen[key] {
				seen[key] = true
				pairs = append(pairs, key)
			}
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	return pairs
}
