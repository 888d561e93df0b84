package board

import (
	"errors"
	"slices"
	"testing"
)

func TestNewGraphOrder(t *testing.T) {
	t.Parallel()

	// 0 <- 1 <- 2, plus independent 3.
	nodes := []Node{
		{Name: "out", Module: newStub(1, 1), Bus: BusLeft},
		{Name: "mid", Module: newStub(1, 1)},
		{Name: "src", Module: newStub(0, 1)},
		{Name: "free", Module: newStub(0, 1), Bus: BusRight},
	}
	conns := []Connection{
		{Source: 2, Dest: 1},
		{Source: 1, Dest: 0},
	}

	g := mustGraph(t, nodes, conns)

	if got, want := g.Order(), []int{2, 1, 0, 3}; !slices.Equal(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}

	for _, c := range g.Connections() {
		if c.Source >= c.Dest {
			t.Errorf("connection %+v does not point forward", c)
		}
	}

	for _, name := range []string{"out", "mid", "src", "free"} {
		i, ok := g.Index(name)
		if !ok {
			t.Fatalf("Index(%q) missing", name)
		}
		if g.Node(i).Name != name {
			t.Errorf("Node(%d).Name = %q, want %q", i, g.Node(i).Name, name)
		}
	}
}

func TestNewGraphDeterministic(t *testing.T) {
	t.Parallel()

	build := func() []int {
		nodes := make([]Node, 6)
		for i := range nodes {
			nodes[i] = Node{Module: newStub(1, 1)}
		}
		conns := []Connection{
			{Source: 5, Dest: 2},
			{Source: 4, Dest: 1},
			{Source: 3, Dest: 0},
		}
		g := mustGraph(t, nodes, conns)
		return g.Order()
	}

	first := build()
	for range 10 {
		if got := build(); !slices.Equal(got, first) {
			t.Fatalf("order changed between builds: %v vs %v", got, first)
		}
	}

	if want := []int{3, 0, 4, 1, 5, 2}; !slices.Equal(first, want) {
		t.Fatalf("order = %v, want %v", first, want)
	}
}

func TestNewGraphDefaultNames(t *testing.T) {
	t.Parallel()

	g := mustGraph(t, []Node{{Module: newStub(0, 1)}, {Module: NewUnityMixer(1, 1)}}, nil)

	if _, ok := g.Index("stub0"); !ok {
		t.Error("expected generated name stub0")
	}
	if _, ok := g.Index("mixer1"); !ok {
		t.Error("expected generated name mixer1")
	}
}

func TestNewGraphErrors(t *testing.T) {
	t.Parallel()

	two := func() []Node {
		return []Node{
			{Name: "a", Module: newStub(2, 2)},
			{Name: "b", Module: newStub(2, 2)},
		}
	}

	tests := []struct {
		name  string
		nodes []Node
		conns []Connection
		want  error
	}{
		{
			name:  "nil module",
			nodes: []Node{{Name: "a"}},
			want:  ErrNilModule,
		},
		{
			name:  "duplicate name",
			nodes: []Node{{Name: "a", Module: newStub(0, 0)}, {Name: "a", Module: newStub(0, 0)}},
			want:  ErrDuplicateName,
		},
		{
			name:  "source out of range",
			nodes: two(),
			conns: []Connection{{Source: 2, Dest: 0}},
			want:  ErrInvalidConnection,
		},
		{
			name:  "negative destination",
			nodes: two(),
			conns: []Connection{{Source: 0, Dest: -1}},
			want:  ErrInvalidConnection,
		},
		{
			name:  "source slot out of range",
			nodes: two(),
			conns: []Connection{{Source: 0, SourceSlot: 2, Dest: 1}},
			want:  ErrInvalidConnection,
		},
		{
			name:  "destination slot out of range",
			nodes: two(),
			conns: []Connection{{Source: 0, Dest: 1, DestSlot: 5}},
			want:  ErrInvalidConnection,
		},
		{
			name:  "input slot reused",
			nodes: two(),
			conns: []Connection{{Source: 0, Dest: 1}, {Source: 0, SourceSlot: 1, Dest: 1}},
			want:  ErrSlotInUse,
		},
		{
			name:  "output slot reused",
			nodes: two(),
			conns: []Connection{{Source: 0, Dest: 1}, {Source: 0, Dest: 1, DestSlot: 1}},
			want:  ErrSlotInUse,
		},
		{
			name: "bus-tagged source",
			nodes: []Node{
				{Name: "a", Module: newStub(0, 1), Bus: BusGain},
				{Name: "b", Module: newStub(1, 1)},
			},
			conns: []Connection{{Source: 0, Dest: 1}},
			want:  ErrBusConnection,
		},
		{
			name:  "self edge",
			nodes: two(),
			conns: []Connection{{Source: 0, Dest: 0}},
			want:  ErrCycle,
		},
		{
			name:  "two node cycle",
			nodes: two(),
			conns: []Connection{{Source: 0, Dest: 1}, {Source: 1, Dest: 0}},
			want:  ErrCycle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g, err := NewGraph(tt.nodes, tt.conns)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if g != nil {
				t.Fatal("expected nil graph on error")
			}
		})
	}
}

func TestNewGraphCycleEdge(t *testing.T) {
	t.Parallel()

	// src -> a -> b -> c -> a
	nodes := []Node{
		{Name: "src", Module: newStub(0, 1)},
		{Name: "a", Module: newStub(2, 1)},
		{Name: "b", Module: newStub(1, 1)},
		{Name: "c", Module: newStub(1, 1)},
	}
	conns := []Connection{
		{Source: 0, Dest: 1},
		{Source: 1, Dest: 2},
		{Source: 2, Dest: 3},
		{Source: 3, Dest: 1, DestSlot: 1},
	}

	_, err := NewGraph(nodes, conns)

	var cycle *CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("err = %v, want *CycleError", err)
	}

	if cycle.Edge != conns[3] {
		t.Errorf("edge = %+v, want %+v", cycle.Edge, conns[3])
	}
	if cycle.From != "c" || cycle.To != "a" {
		t.Errorf("edge names = %s -> %s, want c -> a", cycle.From, cycle.To)
	}
}
