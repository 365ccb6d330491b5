package fragment

import "slices"

// node is one fragment in the relative ordering arena. Nodes refer to each
// other by index; all state lives for a single call of orderRelative.
type node struct {
	name   string
	cand   int // candidate index, -1 for the others node
	hinted bool

	before []int // nodes this one precedes
	after  []int // nodes this one follows
	class  Classification
	source int // node whose declaration set class
}

type arena struct {
	module string
	nodes  []node
	byName map[string]int
	others int
}

func (a *arena) add(name string, cand int, hinted bool) int {
	a.nodes = append(a.nodes, node{name: name, cand: cand, hinted: hinted, source: -1})
	return len(a.nodes) - 1
}

// link records that first is loaded before second, on both nodes.
func (a *arena) link(first, second int) {
	if !slices.Contains(a.nodes[first].before, second) {
		a.nodes[first].before = append(a.nodes[first].before, second)
	}
	if !slices.Contains(a.nodes[second].after, first) {
		a.nodes[second].after = append(a.nodes[second].after, first)
	}
}

// relativeOrder is the outcome of orderRelative: library candidate indices in
// load order and the resolved graph, which is nil on the fast path.
type relativeOrder struct {
	order []int
	graph *Graph
}

// orderRelative orders the library candidates libs (indices into cands, in
// discovery order) by their before/after constraints.
func orderRelative(module string, cands []Candidate, libs []int, names *Names) (*relativeOrder, error) {
	hinted := false
	for _, i := range libs {
		if cands[i].HasOrdering() {
			hinted = true
			break
		}
	}
	if !hinted {
		return &relativeOrder{order: slices.Clone(libs)}, nil
	}

	a := &arena{module: module, byName: make(map[string]int, len(libs))}
	var unnamed []int
	for _, i := range libs {
		c := cands[i]
		if !c.HasName() && !c.HasOrdering() {
			unnamed = append(unnamed, i)
			continue
		}
		name := names.Name(i)
		if prev, dup := a.byName[name]; dup {
			return nil, errAmbiguousDeclaration(module, name, cands[a.nodes[prev].cand].Locator, c.Locator)
		}
		a.byName[name] = a.add(name, i, c.HasOrdering())
	}
	a.others = a.add(OthersNodeName, -1, false)

	if err := a.buildEdges(cands); err != nil {
		return nil, err
	}
	if err := a.classify(cands); err != nil {
		return nil, err
	}
	order, err := a.linearize(unnamed)
	if err != nil {
		return nil, err
	}
	return &relativeOrder{order: order, graph: a.export(cands)}, nil
}

func (a *arena) buildEdges(cands []Candidate) error {
	for id := range a.nodes {
		n := &a.nodes[id]
		if n.cand < 0 {
			continue
		}
		c := cands[n.cand]
		if dup, ok := firstDuplicate(c.Before); ok {
			return errDuplicateReference(a.module, n.name, dup, "before")
		}
		if dup, ok := firstDuplicate(c.After); ok {
			return errDuplicateReference(a.module, n.name, dup, "after")
		}
		for _, ref := range c.Before {
			if other, ok := a.byName[ref]; ok {
				a.link(id, other)
			}
		}
		for _, ref := range c.After {
			if other, ok := a.byName[ref]; ok {
				a.link(other, id)
			}
		}
	}
	return nil
}

func firstDuplicate(names []string) (string, bool) {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return name, true
		}
		seen[name] = true
	}
	return "", false
}

// classify seeds the before-others and after-others classifications from
// direct declarations and spreads them: whatever must precede a
// before-others node is itself before others, and whatever must follow an
// after-others node is itself after others.
func (a *arena) classify(cands []Candidate) error {
	for id, n := range a.nodes {
		if n.cand < 0 {
			continue
		}
		c := cands[n.cand]
		if c.BeforeOthers && c.AfterOthers {
			a.nodes[id].class = ClassConflict
			return errConflict(a.module, &ConflictError{Node: n.name, BeforeVia: n.name, AfterVia: n.name})
		}
	}

	for id, n := range a.nodes {
		if n.cand < 0 {
			continue
		}
		c := cands[n.cand]
		var err error
		switch {
		case c.AfterOthers:
			err = a.spread(id, ClassAfterOthers)
		case c.BeforeOthers:
			err = a.spread(id, ClassBeforeOthers)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *arena) spread(seed int, class Classification) error {
	next := func(id int) []int {
		if class == ClassAfterOthers {
			return a.nodes[id].before
		}
		return a.nodes[id].after
	}

	seen := map[int]bool{seed: true}
	work := []int{seed}
	for len(work) > 0 {
		id := work[0]
		work = work[1:]

		n := &a.nodes[id]
		switch n.class {
		case ClassUnspecified:
			n.class, n.source = class, seed
		case class:
		default:
			prev := n.source
			n.class = ClassConflict
			ce := &ConflictError{Node: n.name}
			if class == ClassAfterOthers {
				ce.BeforeVia, ce.AfterVia = a.nodes[prev].name, a.nodes[seed].name
			} else {
				ce.BeforeVia, ce.AfterVia = a.nodes[seed].name, a.nodes[prev].name
			}
			return errConflict(a.module, ce)
		}

		for _, m := range next(id) {
			if !seen[m] {
				seen[m] = true
				work = append(work, m)
			}
		}
	}
	return nil
}

type frame struct {
	id   int
	next int
}

// linearize walks the before-others, unspecified and after-others buckets in
// that order. Each walk is a depth-first post-order over after edges, so every
// node is emitted once all nodes it follows have been emitted.
//
// Named fragments with no ordering metadata and no edges are held back and
// placed at the position of the others node, followed by the unnamed
// fragments.
func (a *arena) linearize(unnamed []int) ([]int, error) {
	var buckets [3][]int
	for id, n := range a.nodes {
		if id == a.others {
			continue
		}
		switch n.class {
		case ClassBeforeOthers:
			buckets[0] = append(buckets[0], id)
		case ClassAfterOthers:
			buckets[2] = append(buckets[2], id)
		default:
			buckets[1] = append(buckets[1], id)
		}
	}
	buckets[1] = append(buckets[1], a.others)

	visited := make([]bool, len(a.nodes))
	onPath := make([]bool, len(a.nodes))
	var (
		emitted  []int
		deferred []int
		othersAt = -1
		stack    []frame
	)

	emit := func(id int) {
		n := a.nodes[id]
		switch {
		case id == a.others:
			othersAt = len(emitted)
		case n.class == ClassUnspecified && !n.hinted && len(n.before) == 0 && len(n.after) == 0:
			deferred = append(deferred, n.cand)
		default:
			emitted = append(emitted, n.cand)
		}
	}

	for _, bucket := range buckets {
		for _, start := range bucket {
			if visited[start] {
				continue
			}
			stack = append(stack[:0], frame{id: start})
			onPath[start] = true
			for len(stack) > 0 {
				top := &stack[len(stack)-1]
				after := a.nodes[top.id].after
				if top.next < len(after) {
					child := after[top.next]
					top.next++
					if onPath[child] {
						return nil, errCycle(a.module, a.cyclePath(stack, child))
					}
					if !visited[child] {
						onPath[child] = true
						stack = append(stack, frame{id: child})
					}
					continue
				}
				stack = stack[:len(stack)-1]
				onPath[top.id] = false
				visited[top.id] = true
				emit(top.id)
			}
		}
	}

	out := make([]int, 0, len(emitted)+len(deferred)+len(unnamed))
	out = append(out, emitted[:othersAt]...)
	out = append(out, deferred...)
	out = append(out, unnamed...)
	out = append(out, emitted[othersAt:]...)
	return out, nil
}

// cyclePath reports the cycle closed by re-entering id. The walk follows
// after edges, so the path on the stack runs against load order and is
// reversed.
func (a *arena) cyclePath(stack []frame, id int) *CycleError {
	start := 0
	for i, f := range stack {
		if f.id == id {
			start = i
			break
		}
	}
	path := make([]string, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		path = append(path, a.nodes[f.id].name)
	}
	path = append(path, a.nodes[id].name)
	slices.Reverse(path)
	return &CycleError{Path: path}
}

func (a *arena) export(cands []Candidate) *Graph {
	g := &Graph{Nodes: make([]GraphNode, 0, len(a.nodes))}
	for id, n := range a.nodes {
		gn := GraphNode{Name: n.name, Class: n.class, Declared: n.hinted, Others: id == a.others}
		if n.cand >= 0 {
			gn.Locator = cands[n.cand].Locator
		}
		g.Nodes = append(g.Nodes, gn)
		for _, b := range n.before {
			g.Edges = append(g.Edges, GraphEdge{Before: n.name, After: a.nodes[b].name})
		}
	}
	return g
}
