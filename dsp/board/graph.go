package board

import (
	"fmt"
	"slices"
	"strconv"
)

// Node is one module of a graph template.
type Node struct {
	// Name identifies the node in patches and errors. Empty names are
	// replaced by kind plus original index.
	Name   string
	Module Module
	Bus    Bus
}

// Connection wires output slot SourceSlot of module Source into input slot
// DestSlot of module Dest. Indices refer to the node slice passed to
// NewGraph; Graph.Connections reports them in sorted order.
type Connection struct {
	Source     int
	SourceSlot int
	Dest       int
	DestSlot   int
}

type route struct {
	dest, slot int
}

// Graph is a validated, topologically sorted module template.
type Graph struct {
	nodes  []Node
	order  []int
	index  map[string]int
	conns  []Connection
	routes [][]route
}

// NewGraph validates the connections and sorts the nodes so that every
// module comes after all modules feeding it. The returned graph owns the
// modules; callers must not use them afterwards.
func NewGraph(nodes []Node, conns []Connection) (*Graph, error) {
	names, err := nodeNames(nodes)
	if err != nil {
		return nil, err
	}

	err = validateConnections(nodes, names, conns)
	if err != nil {
		return nil, err
	}

	order, err := sortNodes(len(nodes), names, conns)
	if err != nil {
		return nil, err
	}

	pos := make([]int, len(nodes))
	for p, orig := range order {
		pos[orig] = p
	}

	g := &Graph{
		nodes:  make([]Node, len(nodes)),
		order:  order,
		index:  make(map[string]int, len(nodes)),
		conns:  make([]Connection, len(conns)),
		routes: make([][]route, len(nodes)),
	}

	for p, orig := range order {
		n := nodes[orig]
		n.Name = names[orig]
		g.nodes[p] = n
		g.index[n.Name] = p

		rs := make([]route, n.Module.Outputs())
		for i := range rs {
			rs[i] = route{dest: -1}
		}
		g.routes[p] = rs
	}

	for i, c := range conns {
		sc := Connection{
			Source:     pos[c.Source],
			SourceSlot: c.SourceSlot,
			Dest:       pos[c.Dest],
			DestSlot:   c.DestSlot,
		}
		g.conns[i] = sc
		g.routes[sc.Source][sc.SourceSlot] = route{dest: sc.Dest, slot: sc.DestSlot}
	}

	return g, nil
}

// Len returns the number of modules.
func (g *Graph) Len() int { return len(g.nodes) }

// Node returns the i-th node in evaluation order.
func (g *Graph) Node(i int) Node { return g.nodes[i] }

// Order maps evaluation position to the node's index in the slice passed
// to NewGraph.
func (g *Graph) Order() []int {
	return append([]int(nil), g.order...)
}

// Connections returns the connections with indices in evaluation order.
func (g *Graph) Connections() []Connection {
	return append([]Connection(nil), g.conns...)
}

// Index returns the evaluation position of the named node.
func (g *Graph) Index(name string) (int, bool) {
	i, ok := g.index[name]
	return i, ok
}

func nodeNames(nodes []Node) ([]string, error) {
	names := make([]string, len(nodes))
	seen := make(map[string]struct{}, len(nodes))

	for i, n := range nodes {
		if n.Module == nil {
			return nil, fmt.Errorf("%w: node %d", ErrNilModule, i)
		}

		name := n.Name
		if name == "" {
			name = n.Module.Kind() + strconv.Itoa(i)
		}

		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}

		seen[name] = struct{}{}
		names[i] = name
	}

	return names, nil
}

//nolint:cyclop
func validateConnections(nodes []Node, names []string, conns []Connection) error {
	type slot struct{ module, index int }

	usedIn := make(map[slot]struct{}, len(conns))
	usedOut := make(map[slot]struct{}, len(conns))

	for _, c := range conns {
		if c.Source < 0 || c.Source >= len(nodes) || c.Dest < 0 || c.Dest >= len(nodes) {
			return fmt.Errorf("%w: module index out of range in %d[%d] -> %d[%d]",
				ErrInvalidConnection, c.Source, c.SourceSlot, c.Dest, c.DestSlot)
		}

		src, dst := nodes[c.Source], nodes[c.Dest]
		if c.SourceSlot < 0 || c.SourceSlot >= src.Module.Outputs() {
			return fmt.Errorf("%w: %s has no output %d", ErrInvalidConnection, names[c.Source], c.SourceSlot)
		}

		if c.DestSlot < 0 || c.DestSlot >= dst.Module.Inputs() {
			return fmt.Errorf("%w: %s has no input %d", ErrInvalidConnection, names[c.Dest], c.DestSlot)
		}

		if src.Bus != BusNone {
			return fmt.Errorf("%w: %s is tagged %s", ErrBusConnection, names[c.Source], src.Bus)
		}

		if c.Source == c.Dest {
			return &CycleError{Edge: c, From: names[c.Source], To: names[c.Dest]}
		}

		in := slot{c.Dest, c.DestSlot}
		if _, dup := usedIn[in]; dup {
			return fmt.Errorf("%w: input %s[%d]", ErrSlotInUse, names[c.Dest], c.DestSlot)
		}

		out := slot{c.Source, c.SourceSlot}
		if _, dup := usedOut[out]; dup {
			return fmt.Errorf("%w: output %s[%d]", ErrSlotInUse, names[c.Source], c.SourceSlot)
		}

		usedIn[in] = struct{}{}
		usedOut[out] = struct{}{}
	}

	return nil
}

// sortNodes orders node indices with Kahn's algorithm. Among the nodes
// whose inputs are all satisfied the lowest original index goes first, so
// the order is deterministic and follows declaration order where it can.
func sortNodes(n int, names []string, conns []Connection) ([]int, error) {
	outgoing := make([][]int, n)
	indegree := make([]int, n)

	for i, c := range conns {
		outgoing[c.Source] = append(outgoing[c.Source], i)
		indegree[c.Dest]++
	}

	ready := make([]int, 0, n)
	for i := range n {
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, n)
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]

		order = append(order, id)
		for _, ci := range outgoing[id] {
			to := conns[ci].Dest
			indegree[to]--
			if indegree[to] == 0 {
				pos, _ := slices.BinarySearch(ready, to)
				ready = slices.Insert(ready, pos, to)
			}
		}
	}

	if len(order) != n {
		return nil, findCycle(n, names, conns, outgoing, indegree)
	}

	return order, nil
}

// findCycle runs a depth-first search over the nodes Kahn's algorithm could
// not order and returns the first back edge it meets.
func findCycle(n int, names []string, conns []Connection, outgoing [][]int, indegree []int) error {
	const (
		white = iota
		grey
		black
	)

	color := make([]int, n)

	var visit func(v int) *CycleError
	visit = func(v int) *CycleError {
		color[v] = grey
		for _, ci := range outgoing[v] {
			c := conns[ci]
			switch color[c.Dest] {
			case grey:
				return &CycleError{Edge: c, From: names[c.Source], To: names[c.Dest]}
			case white:
				if err := visit(c.Dest); err != nil {
					return err
				}
			}
		}
		color[v] = black
		return nil
	}

	for v := range n {
		if indegree[v] > 0 && color[v] == white {
			if err := visit(v); err != nil {
				return err
			}
		}
	}

	return ErrCycle
}
