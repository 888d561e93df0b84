package board

import (
	"errors"
	"fmt"
	"sort"
)

// Context provides environmental information that module factories need.
type Context struct {
	SampleRate float64
}

// Factory builds one module from its parameters.
type Factory func(ctx Context, p Params) (Module, error)

// Registry maps module kinds to their factories.
type Registry struct {
	factories map[string]Factory
}

var errDuplicateKind = errors.New("duplicate module kind")

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry holding every built-in module kind.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(KindOscillator, oscillatorFactory)
	r.MustRegister(KindEnvelope, envelopeFactory)
	r.MustRegister(KindFilter, filterFactory)
	r.MustRegister(KindMixer, mixerFactory)
	r.MustRegister(KindOutput, outputFactory)
	r.MustRegister(KindConstant, constantFactory)
	r.MustRegister(KindPitchWheel, pitchWheelFactory)
	r.MustRegister(KindController, controllerFactory)
	r.MustRegister(KindSend, sendFactory)
	r.MustRegister(KindReceive, receiveFactory)
	return r
}

// Register adds a factory for the given module kind.
func (r *Registry) Register(kind string, factory Factory) error {
	if kind == "" {
		return errors.New("empty module kind")
	}

	if factory == nil {
		return errors.New("nil factory")
	}

	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("%w: %s", errDuplicateKind, kind)
	}

	r.factories[kind] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(kind string, factory Factory) {
	err := r.Register(kind, factory)
	if err != nil {
		panic("board registry: " + err.Error())
	}
}

// Lookup returns the factory for the given module kind, or nil.
func (r *Registry) Lookup(kind string) Factory {
	return r.factories[kind]
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []string {
	out := make([]string, 0, len(r.factories))
	for k := range r.factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Build constructs a module from p using the factory registered for p.Kind.
func (r *Registry) Build(ctx Context, p Params) (Module, error) {
	factory := r.Lookup(p.Kind)
	if factory == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModule, p.Kind)
	}

	m, err := factory(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("board: build %s: %w", p.Kind, err)
	}

	return m, nil
}
