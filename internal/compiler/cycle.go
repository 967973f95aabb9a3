package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/updatesynth/internal/ir"
)

// LocalCycle describes locals that reference each other through the
// variable table. Resolve fails on any of them with E202; this analysis
// finds all of them up front.
type LocalCycle struct {
	Path    []string `json:"path"`    // Cycle path: ["a", "b", "a"]
	Message string   `json:"message"` // Human-readable description
}

// AnalyzeLocalCycles performs static cycle analysis on local references.
//
// The algorithm:
//  1. Build a local → local graph from every "local,<name>" entry
//  2. Use Tarjan's algorithm to find strongly connected components
//  3. Report each SCC with size > 1 or a self-loop
//
// Nodes are visited in variable-table order so the report is deterministic.
// An acyclic table returns an empty list.
func AnalyzeLocalCycles(vars *ir.VariableTable) []LocalCycle {
	graph, nodes := buildLocalGraph(vars)
	if len(nodes) == 0 {
		return []LocalCycle{}
	}

	cycles := []LocalCycle{}
	for _, scc := range tarjanSCC(graph, nodes) {
		if len(scc) > 1 || hasSelfLoop(scc[0], graph) {
			cycles = append(cycles, sccToCycle(scc, graph))
		}
	}
	return cycles
}

// localGraph maps a local name to the local names its deps reference.
type localGraph map[string][]string

func buildLocalGraph(vars *ir.VariableTable) (localGraph, []string) {
	graph := make(localGraph)
	var nodes []string

	for _, entry := range vars.Entries() {
		if entry.Key.Category != ir.CategoryLocal {
			continue
		}
		name := entry.Key.Name
		if graph[name] == nil {
			graph[name] = []string{}
			nodes = append(nodes, name)
		}
		for _, dep := range entry.Deps {
			if dep.Kind == ir.CategoryLocal {
				graph[name] = append(graph[name], dep.Key)
			}
		}
	}

	return graph, nodes
}

func hasSelfLoop(node string, graph localGraph) bool {
	for _, neighbor := range graph[node] {
		if neighbor == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Single-node SCCs without self-loops are NOT cycles.
func tarjanSCC(graph localGraph, nodes []string) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		// v is a root: pop its component
		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, node := range nodes {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}

func sccToCycle(scc []string, graph localGraph) LocalCycle {
	if len(scc) == 1 {
		name := scc[0]
		return LocalCycle{
			Path:    []string{name, name},
			Message: fmt.Sprintf("Self-referencing local: %s → %s", name, name),
		}
	}

	path := reconstructCyclePath(scc, graph)
	return LocalCycle{
		Path:    path,
		Message: fmt.Sprintf("Local reference cycle: %s", strings.Join(path, " → ")),
	}
}

// reconstructCyclePath follows edges inside the SCC from its last-popped
// member (the earliest visited) until it returns to the start.
func reconstructCyclePath(scc []string, graph localGraph) []string {
	members := make(map[string]bool, len(scc))
	for _, node := range scc {
		members[node] = true
	}

	start := scc[len(scc)-1]
	current := start
	path := []string{current}
	visited := make(map[string]bool)

	for {
		visited[current] = true

		var next string
		for _, neighbor := range graph[current] {
			if members[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}
		if next == "" {
			break
		}

		path = append(path, next)
		if next == start {
			break
		}
		current = next
	}

	return path
}
