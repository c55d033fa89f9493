// Package orderer topologically sorts pending creates so they execute
// without dependency violations, using Kahn's algorithm with
// deterministic tie-breaking and a cycle-tolerant fallback.
package orderer

import (
	"sort"
	"strings"

	"github.com/peopleworks/SqlSchemaDiff/internal/differ"
)

const cycleWarning = "-- WARNING: a circular dependency was detected among the pending creates; falling back to priority order.\n"

// node is one deduplicated pending create plus its computed in-degree
// within the pending set.
type node struct {
	create   differ.PendingCreate
	inDegree int
	key      string
	priority int
}

// Order performs Kahn's topological sort over the dependency graph
// restricted to the pending-create set, and returns the rendered DDL
// strings in dependency order. Ties are broken by (create-priority,
// case-insensitive key). If a cycle prevents emitting every node, a
// warning comment is appended followed by the unemitted nodes in
// (create-priority, key) order — this can never deadlock the pipeline.
func Order(creates []differ.PendingCreate) []string {
	nodes, nodeByKey := dedupe(creates)
	adjacency := make(map[string][]string) // dependency key -> dependent keys

	for _, n := range nodes {
		seenDeps := make(map[string]bool)
		for _, dep := range n.create.Object.Dependencies {
			if dep == n.key || seenDeps[dep] {
				continue
			}
			if _, ok := nodeByKey[dep]; !ok {
				continue
			}
			seenDeps[dep] = true
			adjacency[dep] = append(adjacency[dep], n.key)
			nodeByKey[n.key].inDegree++
		}
	}

	ready := make([]*node, 0, len(nodes))
	for _, n := range nodes {
		if n.inDegree == 0 {
			ready = append(ready, n)
		}
	}
	sortReady(ready)

	var out []string
	emitted := make(map[string]bool, len(nodes))

	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		if emitted[n.key] {
			continue
		}
		emitted[n.key] = true
		out = append(out, n.create.Statement)

		for _, succKey := range adjacency[n.key] {
			succ := nodeByKey[succKey]
			succ.inDegree--
			if succ.inDegree == 0 {
				ready = insertSorted(ready, succ)
			}
		}
	}

	if len(out) == len(nodes) {
		return out
	}

	// Cycle fallback: append remaining nodes in (priority, key) order.
	var remaining []*node
	for _, n := range nodes {
		if !emitted[n.key] {
			remaining = append(remaining, n)
		}
	}
	sortReady(remaining)

	out = append(out, cycleWarning)
	for _, n := range remaining {
		out = append(out, n.create.Statement)
	}
	return out
}

func dedupe(creates []differ.PendingCreate) ([]*node, map[string]*node) {
	byKey := make(map[string]*node, len(creates))
	var order []*node
	for _, c := range creates {
		key := c.Object.Key()
		if _, ok := byKey[key]; ok {
			continue // first occurrence wins
		}
		n := &node{create: c, key: key, priority: c.Object.Kind.CreatePriority()}
		byKey[key] = n
		order = append(order, n)
	}
	return order, byKey
}

func sortReady(ns []*node) {
	sort.SliceStable(ns, func(i, j int) bool {
		if ns[i].priority != ns[j].priority {
			return ns[i].priority < ns[j].priority
		}
		return strings.Compare(strings.ToLower(ns[i].key), strings.ToLower(ns[j].key)) < 0
	})
}

// insertSorted inserts n into an already (priority, key)-sorted slice at
// the position that preserves the ordering.
func insertSorted(ns []*node, n *node) []*node {
	idx := sort.Search(len(ns), func(i int) bool {
		if ns[i].priority != n.priority {
			return ns[i].priority > n.priority
		}
		return strings.Compare(strings.ToLower(ns[i].key), strings.ToLower(n.key)) >= 0
	})
	ns = append(ns, nil)
	copy(ns[idx+1:], ns[idx:])
	ns[idx] = n
	return ns
}
