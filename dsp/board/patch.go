package board

import (
	"encoding/json"
	"fmt"
)

type patchModule struct {
	Name   string         `json:"name"`
	Kind   string         `json:"kind"`
	Bus    string         `json:"bus,omitempty"`
	Params map[string]any `json:"params,omitempty"`
}

type patchConnection struct {
	From     string `json:"from"`
	FromSlot int    `json:"fromSlot,omitempty"` //nolint:tagliatelle
	To       string `json:"to"`
	ToSlot   int    `json:"toSlot,omitempty"` //nolint:tagliatelle
}

type patchState struct {
	Modules     []patchModule     `json:"modules"`
	Connections []patchConnection `json:"connections"`
}

// ParsePatch decodes a JSON patch and builds its graph template with the
// factories of reg. Connections name modules by node name.
func ParsePatch(data []byte, reg *Registry, ctx Context) (*Graph, error) {
	if reg == nil {
		reg = DefaultRegistry()
	}

	var state patchState
	err := json.Unmarshal(data, &state)
	if err != nil {
		return nil, fmt.Errorf("board: invalid patch json: %w", err)
	}

	nodes := make([]Node, len(state.Modules))
	byName := make(map[string]int, len(state.Modules))

	for i, pm := range state.Modules {
		if pm.Name == "" {
			return nil, fmt.Errorf("%w: module %d has no name", ErrInvalidParam, i)
		}

		bus, err := ParseBus(pm.Bus)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidParam, pm.Name, err)
		}

		params, err := parseParams(pm.Kind, pm.Params)
		if err != nil {
			return nil, err
		}

		m, err := reg.Build(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("board: module %q: %w", pm.Name, err)
		}

		nodes[i] = Node{Name: pm.Name, Module: m, Bus: bus}
		byName[pm.Name] = i
	}

	conns := make([]Connection, len(state.Connections))
	for i, pc := range state.Connections {
		from, ok := byName[pc.From]
		if !ok {
			return nil, fmt.Errorf("%w: unknown source %q", ErrInvalidConnection, pc.From)
		}

		to, ok := byName[pc.To]
		if !ok {
			return nil, fmt.Errorf("%w: unknown destination %q", ErrInvalidConnection, pc.To)
		}

		conns[i] = Connection{Source: from, SourceSlot: pc.FromSlot, Dest: to, DestSlot: pc.ToSlot}
	}

	return NewGraph(nodes, conns)
}

// MarshalPatch encodes g in the format read by ParsePatch. Modules are
// written in evaluation order.
func MarshalPatch(g *Graph) ([]byte, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil graph", ErrInvalidConfig)
	}

	state := patchState{
		Modules:     make([]patchModule, g.Len()),
		Connections: make([]patchConnection, 0, len(g.conns)),
	}

	for i, n := range g.nodes {
		p := n.Module.Params()
		pm := patchModule{Name: n.Name, Kind: n.Module.Kind(), Params: p.raw()}
		if n.Bus != BusNone {
			pm.Bus = n.Bus.String()
		}
		state.Modules[i] = pm
	}

	for _, c := range g.conns {
		state.Connections = append(state.Connections, patchConnection{
			From:     g.nodes[c.Source].Name,
			FromSlot: c.SourceSlot,
			To:       g.nodes[c.Dest].Name,
			ToSlot:   c.DestSlot,
		})
	}

	return json.MarshalIndent(state, "", "  ")
}
