package order

type vertex struct {
	pos  int
	in   []int // vertices that must come first
	out  bool  // something must come after this vertex
	flag bool
}

type graph struct {
	vertices []vertex
	byPos    []int
	edges    []Edge
}

func newGraph(n int) *graph {
	g := &graph{
		vertices: make([]vertex, 0, n),
		byPos:    make([]int, n),
	}
	for i := range g.byPos {
		g.byPos[i] = -1
	}
	return g
}

// vertex returns the vertex index for an item position, creating it on first reference.
func (g *graph) vertex(pos int) int {
	if idx := g.byPos[pos]; idx >= 0 {
		return idx
	}
	g.vertices = append(g.vertices, vertex{pos: pos})
	idx := len(g.vertices) - 1
	g.byPos[pos] = idx
	return idx
}

// addEdge records that position from must run before position to.
// If the edge would close a cycle, the positions on the cycle are returned and the graph is unchanged.
func (g *graph) addEdge(from, to int) []int {
	v, w := g.vertex(from), g.vertex(to)
	if v == w {
		return []int{from}
	}
	if path := g.ancestry(v, w); path != nil {
		return path
	}
	for _, in := range g.vertices[w].in {
		if in == v {
			return nil
		}
	}
	g.vertices[w].in = append(g.vertices[w].in, v)
	g.vertices[v].out = true
	g.edges = append(g.edges, Edge{Before: from, After: to})
	return nil
}

// ancestry searches the predecessors of start for target.
// The returned positions run from target to start, so they read in precedence order.
func (g *graph) ancestry(start, target int) []int {
	seen := make([]bool, len(g.vertices))
	var search func(idx int) []int
	search = func(idx int) []int {
		if idx == target {
			return []int{g.vertices[idx].pos}
		}
		seen[idx] = true
		for _, in := range g.vertices[idx].in {
			if seen[in] {
				continue
			}
			if path := search(in); path != nil {
				return append(path, g.vertices[idx].pos)
			}
		}
		return nil
	}
	for _, in := range g.vertices[start].in {
		if seen[in] {
			continue
		}
		if path := search(in); path != nil {
			return append(path, g.vertices[start].pos)
		}
	}
	return nil
}

// walk returns every item position in topological order.
// Sinks are visited in vertex creation order, each with a depth-first post-order traversal of its predecessors.
func (g *graph) walk() []int {
	for i := range g.vertices {
		g.vertices[i].flag = false
	}
	var (
		result = make([]int, 0, len(g.vertices))
		stack  []int
	)
	for i := range g.vertices {
		if g.vertices[i].out {
			continue
		}
		stack = append(stack, i)
		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if idx < 0 {
				result = append(result, g.vertices[^idx].pos)
				continue
			}
			v := &g.vertices[idx]
			if v.flag {
				continue
			}
			v.flag = true
			stack = append(stack, ^idx)
			for j := len(v.in) - 1; j >= 0; j-- {
				if !g.vertices[v.in[j]].flag {
					stack = append(stack, v.in[j])
				}
			}
		}
	}
	return result
}
