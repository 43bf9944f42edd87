package layout

import (
	"sort"

	"github.com/investi-gate/portal-sub000/internal/core/model"
)

// Options controls spacing in layout units.
type Options struct {
	NodeSpacing      float64
	LevelHeight      float64
	ComponentSpacing float64
}

func DefaultOptions() Options {
	return Options{
		NodeSpacing:      250,
		LevelHeight:      250,
		ComponentSpacing: 400,
	}
}

type node struct {
	kind     model.NodeKind
	entity   *model.Entity
	relation *model.Relation
}

func (n node) id() string {
	if n.kind == model.NodeEntity {
		return n.entity.ID
	}
	return n.relation.ID
}

type nodeKey struct {
	kind model.NodeKind
	id   string
}

// graph holds entities and relations as one node set. Entities come first,
// relations after, both in input order; node indices follow that order.
type graph struct {
	nodes       []node
	index       map[nodeKey]int
	adj         [][]int // undirected
	hasIncoming []bool  // subject -> relation -> object direction
}

func buildGraph(entities []model.Entity, relations []model.Relation) *graph {
	total := len(entities) + len(relations)
	g := &graph{
		nodes:       make([]node, 0, total),
		index:       make(map[nodeKey]int, total),
		adj:         make([][]int, total),
		hasIncoming: make([]bool, total),
	}

	for i := range entities {
		g.add(node{kind: model.NodeEntity, entity: &entities[i]})
	}
	for i := range relations {
		g.add(node{kind: model.NodeRelation, relation: &relations[i]})
	}

	for i := len(entities); i < total; i++ {
		r := g.nodes[i].relation
		if !r.Valid() {
			continue
		}
		if s, ok := g.resolve(r.Subject); ok {
			g.link(s, i)
		}
		if o, ok := g.resolve(r.Object); ok {
			g.link(i, o)
		}
	}

	return g
}

func (g *graph) add(n node) {
	key := nodeKey{kind: n.kind, id: n.id()}
	if _, dup := g.index[key]; !dup {
		g.index[key] = len(g.nodes)
	}
	g.nodes = append(g.nodes, n)
}

func (g *graph) link(from, to int) {
	g.adj[from] = append(g.adj[from], to)
	g.adj[to] = append(g.adj[to], from)
	if from != to {
		g.hasIncoming[to] = true
	}
}

// resolve maps an endpoint to its node index. Dangling endpoints resolve to
// nothing.
func (g *graph) resolve(ref model.EndpointRef) (int, bool) {
	kind := model.NodeEntity
	if ref.IsRelation() {
		kind = model.NodeRelation
	}
	i, ok := g.index[nodeKey{kind: kind, id: ref.ID}]
	return i, ok
}

// components returns node indices per connected component, components in
// order of their first node, members in DFS discovery order.
func (g *graph) components() [][]int {
	visited := make([]bool, len(g.nodes))
	var out [][]int

	for start := range g.nodes {
		if visited[start] {
			continue
		}
		var component []int
		stack := []int{start}
		for len(stack) > 0 {
			u := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[u] {
				continue
			}
			visited[u] = true
			component = append(component, u)
			for i := len(g.adj[u]) - 1; i >= 0; i-- {
				if v := g.adj[u][i]; !visited[v] {
					stack = append(stack, v)
				}
			}
		}
		out = append(out, component)
	}

	return out
}

// roots picks the entry points of a component: entities nothing points at,
// else the best connected quarter of its entities, else its first node.
func (g *graph) roots(component []int) []int {
	var entityNodes []int
	for _, i := range component {
		if g.nodes[i].kind == model.NodeEntity {
			entityNodes = append(entityNodes, i)
		}
	}
	sort.Ints(entityNodes)

	var roots []int
	for _, i := range entityNodes {
		if !g.hasIncoming[i] {
			roots = append(roots, i)
		}
	}
	if len(roots) > 0 {
		return roots
	}

	if len(entityNodes) == 0 {
		return component[:1]
	}

	sort.SliceStable(entityNodes, func(a, b int) bool {
		return len(g.adj[entityNodes[a]]) > len(g.adj[entityNodes[b]])
	})
	n := len(entityNodes) / 4
	if n < 1 {
		n = 1
	}
	return entityNodes[:n]
}

// assignDepths pins every root at depth 0, then walks from each root in
// turn. Any other node keeps the depth of its first visit.
func (g *graph) assignDepths(roots []int, depth []int) {
	for _, root := range roots {
		depth[root] = 0
	}

	for _, root := range roots {
		var stack []frame
		g.pushNeighbors(&stack, root, 1, depth)
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if depth[f.node] >= 0 {
				continue
			}
			depth[f.node] = f.depth
			g.pushNeighbors(&stack, f.node, f.depth+1, depth)
		}
	}
}

type frame struct{ node, depth int }

// pushNeighbors stacks unassigned neighbors in reverse so they pop in
// adjacency order.
func (g *graph) pushNeighbors(stack *[]frame, u, d int, depth []int) {
	for i := len(g.adj[u]) - 1; i >= 0; i-- {
		if v := g.adj[u][i]; depth[v] < 0 {
			*stack = append(*stack, frame{v, d})
		}
	}
}

// CalculateGraphLayout positions every entity and every relation. Each
// connected component is laid out in levels below its roots; components sit
// side by side. Relation nodes go to the midpoint of their endpoints.
// Scores only feed the importance shown on entity nodes.
func CalculateGraphLayout(entities []model.Entity, relations []model.Relation, scores []model.EntityScore, opts Options) []model.LayoutNode {
	g := buildGraph(entities, relations)

	byEntity := make(map[string]model.EntityScore, len(scores))
	for _, s := range scores {
		byEntity[s.Entity.ID] = s
	}

	positions := make([]model.Position, len(g.nodes))
	placed := make([]bool, len(g.nodes))
	depth := make([]int, len(g.nodes))
	for i := range depth {
		depth[i] = -1
	}

	offset := 0.0
	for _, component := range g.components() {
		g.assignDepths(g.roots(component), depth)

		maxDepth := 0
		for _, i := range component {
			if depth[i] < 0 {
				depth[i] = 0
			}
			if depth[i] > maxDepth {
				maxDepth = depth[i]
			}
		}

		levels := make([][]int, maxDepth+1)
		for _, i := range component {
			levels[depth[i]] = append(levels[depth[i]], i)
		}
		for _, level := range levels {
			sort.Ints(level)
		}

		slots := make([]int, len(levels))

		for d, level := range levels {
			for _, i := range level {
				if g.nodes[i].kind != model.NodeEntity {
					continue
				}
				positions[i] = model.Position{
					X: offset + float64(slots[d])*opts.NodeSpacing,
					Y: float64(d) * opts.LevelHeight,
				}
				placed[i] = true
				slots[d]++
			}
		}

		// Only entity nodes count towards the component's width.
		widest := 0
		for _, n := range slots {
			if n > widest {
				widest = n
			}
		}

		for d, level := range levels {
			for _, i := range level {
				if g.nodes[i].kind != model.NodeRelation {
					continue
				}
				if mid, ok := g.midpoint(i, positions, placed); ok {
					positions[i] = mid
				} else {
					positions[i] = model.Position{
						X: offset + float64(slots[d])*opts.NodeSpacing,
						Y: float64(d) * opts.LevelHeight,
					}
					slots[d]++
				}
				placed[i] = true
			}
		}

		span := 0.0
		if widest > 1 {
			span = float64(widest-1) * opts.NodeSpacing
		}
		offset += span + opts.ComponentSpacing
	}

	out := make([]model.LayoutNode, len(g.nodes))
	for i, n := range g.nodes {
		ln := model.LayoutNode{
			ID:       n.id(),
			Kind:     n.kind,
			Position: positions[i],
			Data: model.NodeData{
				Depth: depth[i],
			},
		}
		if n.kind == model.NodeEntity {
			s := byEntity[n.entity.ID]
			ln.Data.Entity = n.entity
			ln.Data.Label = n.entity.ID
			ln.Data.Importance = s.Score
			ln.Data.Connections = s.Connections
		} else {
			ln.Data.Relation = n.relation
			ln.Data.Label = n.relation.Predicate
		}
		out[i] = ln
	}

	return out
}

func (g *graph) midpoint(i int, positions []model.Position, placed []bool) (model.Position, bool) {
	r := g.nodes[i].relation
	if !r.Valid() {
		return model.Position{}, false
	}
	s, ok := g.resolve(r.Subject)
	if !ok || !placed[s] {
		return model.Position{}, false
	}
	o, ok := g.resolve(r.Object)
	if !ok || !placed[o] {
		return model.Position{}, false
	}
	return model.Position{
		X: (positions[s].X + positions[o].X) / 2,
		Y: (positions[s].Y + positions[o].Y) / 2,
	}, true
}

// BuildEdges returns the renderer edges for every resolvable relation side.
func BuildEdges(entities []model.Entity, relations []model.Relation) []model.LayoutEdge {
	g := buildGraph(entities, relations)

	edges := make([]model.LayoutEdge, 0, 2*len(relations))
	for _, r := range relations {
		if !r.Valid() {
			continue
		}
		if s, ok := g.resolve(r.Subject); ok {
			edges = append(edges, model.LayoutEdge{
				ID:     r.ID + "-subject",
				Source: g.nodes[s].id(),
				Target: r.ID,
			})
		}
		if o, ok := g.resolve(r.Object); ok {
			edges = append(edges, model.LayoutEdge{
				ID:     r.ID + "-object",
				Source: r.ID,
				Target: g.nodes[o].id(),
				Label:  r.Predicate,
			})
		}
	}
	return edges
}
