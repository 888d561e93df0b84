package board

import "github.com/cwbudde/algo-synth/dsp/core"

// Registry tags of the side-channel modules.
const (
	KindSend    = "send"
	KindReceive = "receive"
)

// Send transmits its input under a key. Modules evaluated later in the same
// pass read the new value; modules evaluated earlier read the previous
// sample's value.
type Send struct {
	key int
}

// NewSend returns a transmitter for key.
func NewSend(key int) *Send { return &Send{key: key} }

func (s *Send) Kind() string { return KindSend }
func (s *Send) Inputs() int  { return 1 }
func (s *Send) Outputs() int { return 0 }

func (s *Send) Process(in, _ []float64, _ Tick, mod *Modulation) {
	mod.Transmit(s.key, in[0])
}

func (s *Send) UpdateFrequency(float64) {}
func (s *Send) Reset()                  {}
func (s *Send) Clone() Module           { c := *s; return &c }

func (s *Send) Params() Params {
	p := NewParams(KindSend)
	p.Num["key"] = float64(s.key)
	return p
}

func sendFactory(_ Context, p Params) (Module, error) {
	key, err := p.Int("key")
	if err != nil {
		return nil, err
	}
	return NewSend(key), nil
}

// Receive emits the value last transmitted under its key, 0 if none.
type Receive struct {
	key     int
	outputs int
}

// NewReceive returns a receiver for key.
func NewReceive(key, outputs int) (*Receive, error) {
	if outputs < 0 {
		return nil, invalidParam(KindReceive, "outputs", "negative: %d", outputs)
	}
	return &Receive{key: key, outputs: outputs}, nil
}

func (r *Receive) Kind() string { return KindReceive }
func (r *Receive) Inputs() int  { return 0 }
func (r *Receive) Outputs() int { return r.outputs }

func (r *Receive) Process(_, out []float64, _ Tick, mod *Modulation) {
	core.Fill(out, mod.Receive(r.key))
}

func (r *Receive) UpdateFrequency(float64) {}
func (r *Receive) Reset()                  {}
func (r *Receive) Clone() Module           { c := *r; return &c }

func (r *Receive) Params() Params {
	p := NewParams(KindReceive)
	p.Num["key"] = float64(r.key)
	p.Num["outputs"] = float64(r.outputs)
	return p
}

func receiveFactory(_ Context, p Params) (Module, error) {
	key, err := p.Int("key")
	if err != nil {
		return nil, err
	}
	outputs, err := p.Slots("outputs", 1)
	if err != nil {
		return nil, err
	}
	return NewReceive(key, outputs)
}
