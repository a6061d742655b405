// Package analysis answers "what breaks if these files change": the nodes
// extracted from the files plus everything that depends on them transitively.
package analysis

import (
	"sort"

	"codegraph/internal/graph"
)

// ImpactReport summarizes the nodes affected by a set of changed files.
type ImpactReport struct {
	DirectlyAffected   []string
	IndirectlyAffected []string
}

// Analyzer performs impact analysis on the dependency graph.
type Analyzer struct {
	g *graph.Graph
}

func NewAnalyzer(g *graph.Graph) *Analyzer {
	return &Analyzer{g: g}
}

// AnalyzeImpact identifies which nodes the given files produced (direct) and
// which other nodes reach them through any edge chain (indirect). Files that
// produced no nodes contribute nothing; ids come back sorted.
func (a *Analyzer) AnalyzeImpact(changedFiles []string) *ImpactReport {
	changed := make(map[string]bool, len(changedFiles))
	for _, f := range changedFiles {
		changed[f] = true
	}

	direct := make(map[string]bool)
	for _, id := range a.g.NodeIDs() {
		node := a.g.Node(id)
		if filePath, ok := node.Attrs["file_path"].(string); ok && changed[filePath] {
			direct[id] = true
		}
	}

	// Reverse BFS from every directly affected node: a dependent of a
	// dependent is still affected.
	indirect := make(map[string]bool)
	queue := make([]string, 0, len(direct))
	for id := range direct {
		queue = append(queue, id)
	}
	seen := make(map[string]bool, len(direct))
	for _, id := range queue {
		seen[id] = true
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, from := range a.g.Predecessors(cur) {
			if seen[from] {
				continue
			}
			seen[from] = true
			if !direct[from] {
				indirect[from] = true
			}
			queue = append(queue, from)
		}
	}

	return &ImpactReport{
		DirectlyAffected:   sortedIDs(direct),
		IndirectlyAffected: sortedIDs(indirect),
	}
}

func sortedIDs(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
