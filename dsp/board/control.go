package board

import "github.com/cwbudde/algo-synth/dsp/core"

// Registry tags of the routing and control modules.
const (
	KindOutput     = "output"
	KindConstant   = "constant"
	KindPitchWheel = "pitchwheel"
	KindController = "controller"
)

// Output passes its single input through a gain. Tagged with a bus it is
// the usual sink of a patch.
type Output struct {
	gain float64
}

// NewOutput returns a pass-through module with the given gain.
func NewOutput(gain float64) (*Output, error) {
	if !core.IsFinite(gain) {
		return nil, invalidParam(KindOutput, "gain", "not finite: %v", gain)
	}
	return &Output{gain: gain}, nil
}

func (o *Output) Kind() string { return KindOutput }
func (o *Output) Inputs() int  { return 1 }
func (o *Output) Outputs() int { return 1 }

func (o *Output) Process(in, out []float64, _ Tick, _ *Modulation) {
	out[0] = in[0] * o.gain
}

func (o *Output) UpdateFrequency(float64) {}
func (o *Output) Reset()                  {}
func (o *Output) Clone() Module           { c := *o; return &c }

func (o *Output) Params() Params {
	p := NewParams(KindOutput)
	p.Num["gain"] = o.gain
	return p
}

func outputFactory(_ Context, p Params) (Module, error) {
	return NewOutput(p.GetNum("gain", 1))
}

// Constant emits a fixed value on every output.
type Constant struct {
	value   float64
	outputs int
}

// NewConstant returns a module emitting value on each of its outputs.
func NewConstant(value float64, outputs int) (*Constant, error) {
	if !core.IsFinite(value) {
		return nil, invalidParam(KindConstant, "value", "not finite: %v", value)
	}
	if outputs < 0 {
		return nil, invalidParam(KindConstant, "outputs", "negative: %d", outputs)
	}
	return &Constant{value: value, outputs: outputs}, nil
}

func (c *Constant) Kind() string { return KindConstant }
func (c *Constant) Inputs() int  { return 0 }
func (c *Constant) Outputs() int { return c.outputs }

func (c *Constant) Process(_, out []float64, _ Tick, _ *Modulation) {
	core.Fill(out, c.value)
}

func (c *Constant) UpdateFrequency(float64) {}
func (c *Constant) Reset()                  {}
func (c *Constant) Clone() Module           { cc := *c; return &cc }

func (c *Constant) Params() Params {
	p := NewParams(KindConstant)
	p.Num["value"] = c.value
	p.Num["outputs"] = float64(c.outputs)
	return p
}

func constantFactory(_ Context, p Params) (Module, error) {
	value, err := p.Float("value")
	if err != nil {
		return nil, err
	}
	outputs, err := p.Slots("outputs", 1)
	if err != nil {
		return nil, err
	}
	return NewConstant(value, outputs)
}

// PitchWheel emits the frequency ratio of the current pitch-wheel bend,
// 2^(bend/12). Tagged BusPitch it bends the whole voice.
type PitchWheel struct {
	outputs int
}

// NewPitchWheel returns a pitch-wheel source with the given output count.
func NewPitchWheel(outputs int) (*PitchWheel, error) {
	if outputs < 0 {
		return nil, invalidParam(KindPitchWheel, "outputs", "negative: %d", outputs)
	}
	return &PitchWheel{outputs: outputs}, nil
}

func (w *PitchWheel) Kind() string { return KindPitchWheel }
func (w *PitchWheel) Inputs() int  { return 0 }
func (w *PitchWheel) Outputs() int { return w.outputs }

func (w *PitchWheel) Process(_, out []float64, _ Tick, mod *Modulation) {
	core.Fill(out, core.SemitoneRatio(mod.Bend()))
}

func (w *PitchWheel) UpdateFrequency(float64) {}
func (w *PitchWheel) Reset()                  {}
func (w *PitchWheel) Clone() Module           { c := *w; return &c }

func (w *PitchWheel) Params() Params {
	p := NewParams(KindPitchWheel)
	p.Num["outputs"] = float64(w.outputs)
	return p
}

func pitchWheelFactory(_ Context, p Params) (Module, error) {
	outputs, err := p.Slots("outputs", 1)
	if err != nil {
		return nil, err
	}
	return NewPitchWheel(outputs)
}

// Controller emits value/127·scale + offset for one MIDI controller.
type Controller struct {
	id            int
	scale, offset float64
	outputs       int
}

// NewController returns a source for controller id.
func NewController(id int, scale, offset float64, outputs int) (*Controller, error) {
	switch {
	case id < 0 || id >= ControllerCount:
		return nil, invalidParam(KindController, "controller", "outside [0,%d): %d", ControllerCount, id)
	case !core.IsFinite(scale):
		return nil, invalidParam(KindController, "scale", "not finite: %v", scale)
	case !core.IsFinite(offset):
		return nil, invalidParam(KindController, "offset", "not finite: %v", offset)
	case outputs < 0:
		return nil, invalidParam(KindController, "outputs", "negative: %d", outputs)
	}
	return &Controller{id: id, scale: scale, offset: offset, outputs: outputs}, nil
}

func (c *Controller) Kind() string { return KindController }
func (c *Controller) Inputs() int  { return 0 }
func (c *Controller) Outputs() int { return c.outputs }

func (c *Controller) Process(_, out []float64, _ Tick, mod *Modulation) {
	core.Fill(out, float64(mod.Controller(c.id))/127*c.scale+c.offset)
}

func (c *Controller) UpdateFrequency(float64) {}
func (c *Controller) Reset()                  {}
func (c *Controller) Clone() Module           { cc := *c; return &cc }

func (c *Controller) Params() Params {
	p := NewParams(KindController)
	p.Num["controller"] = float64(c.id)
	p.Num["scale"] = c.scale
	p.Num["offset"] = c.offset
	p.Num["outputs"] = float64(c.outputs)
	return p
}

func controllerFactory(_ Context, p Params) (Module, error) {
	id, err := p.Int("controller")
	if err != nil {
		return nil, err
	}
	outputs, err := p.Slots("outputs", 1)
	if err != nil {
		return nil, err
	}
	return NewController(id, p.GetNum("scale", 1), p.GetNum("offset", 0), outputs)
}
