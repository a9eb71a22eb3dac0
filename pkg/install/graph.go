package install

import (
	"github.com/gnodet/mvx/pkg/backend"
	"github.com/gnodet/mvx/pkg/toolset"
)

// node is one backend's pending install within a single batch: its resolved
// versions, the backend that realises them, and the dependency edges
// required by §4.3's DAG ("A depends on B; B must finish first").
type node struct {
	short      string
	backend    backend.Backend
	versions   []toolset.ToolVersion
	dependsOn  map[string]bool // backends this node's edges point to
	dependents map[string]bool // nodes that point to this one (predecessors)
}

// graph is the install batch's dependency DAG, built once up front and then
// mutated in place as nodes complete (§4.3's Kahn's-algorithm variant).
type graph struct {
	nodes map[string]*node
}

// buildGraph constructs the DAG for one resolved Toolset: only tools that
// actually need installing are included as nodes (already-installed
// versions are skipped unless force is set); a dependency pointing outside
// the batch is simply dropped — that tool is assumed already satisfied.
func buildGraph(registry *backend.Registry, ts *toolset.Toolset, force bool) (*graph, []Failure) {
	g := &graph{nodes: make(map[string]*node)}
	var failures []Failure

	for _, list := range ts.Ordered() {
		short := list.BA.Short()
		b, ok := registry.Get(short)
		if !ok {
			for _, tv := range list.Versions {
				failures = append(failures, Failure{Request: tv.Request, Err: pluginMissing(short)})
			}
			continue
		}

		var pending []toolset.ToolVersion
		for _, tv := range list.Versions {
			if tv.System || tv.Request.Kind == toolset.RequestPath {
				continue
			}
			if !force && b.IsVersionInstalled(tv, true) {
				continue
			}
			pending = append(pending, tv)
		}
		if len(pending) == 0 {
			continue
		}
		g.nodes[short] = &node{
			short:      short,
			backend:    b,
			versions:   pending,
			dependsOn:  make(map[string]bool),
			dependents: make(map[string]bool),
		}
	}

	for short, n := range g.nodes {
		for _, dep := range n.backend.GetAllDependencies(true) {
			depShort := dep.Short()
			if depShort == short {
				continue
			}
			if depNode, ok := g.nodes[depShort]; ok {
				n.dependsOn[depShort] = true
				depNode.dependents[short] = true
			}
		}
	}

	return g, failures
}

// leaves returns every node with no remaining outgoing edges (no unresolved
// dependencies): the set Kahn's algorithm is allowed to run next.
func (g *graph) leaves() []*node {
	var out []*node
	for _, n := range g.nodes {
		if len(n.dependsOn) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// complete removes short from the graph and clears it from every
// dependent's outgoing edge set, returning the dependents that became
// leaves as a result.
func (g *graph) complete(short string) []*node {
	n, ok := g.nodes[short]
	if !ok {
		return nil
	}
	delete(g.nodes, short)

	var newlyReady []*node
	for depShort := range n.dependents {
		dep, ok := g.nodes[depShort]
		if !ok {
			continue
		}
		delete(dep.dependsOn, short)
		if len(dep.dependsOn) == 0 {
			newlyReady = append(newlyReady, dep)
		}
	}
	return newlyReady
}

// block marks short and every transitive dependent as blocked (§4.3: "on
// failure, mark the node failed and mark all transitive predecessors
// blocked; do not emit them"), removing them all from the graph and
// returning the transitively-blocked set (short itself excluded — the
// caller already has its own failure recorded separately).
func (g *graph) block(short string) []*node {
	root, ok := g.nodes[short]
	delete(g.nodes, short)
	if !ok {
		return nil
	}

	var blocked []*node
	seen := map[string]bool{short: true}
	queue := make([]string, 0, len(root.dependents))
	for dep := range root.dependents {
		queue = append(queue, dep)
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		n, ok := g.nodes[cur]
		if !ok {
			continue
		}
		blocked = append(blocked, n)
		for dep := range n.dependents {
			if !seen[dep] {
				queue = append(queue, dep)
			}
		}
	}
	for _, b := range blocked {
		delete(g.nodes, b.short)
	}
	return blocked
}
