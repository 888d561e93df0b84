package board

import (
	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/filter/fir"
	"github.com/cwbudde/algo-synth/dsp/window"
)

// KindFilter is the registry tag of Filter.
const KindFilter = "filter"

// Filter runs its single input through a fixed FIR kernel and fans the
// result out to every output.
type Filter struct {
	fir     *fir.Filter
	outputs int
}

// NewFilter returns a filter module for kernel. The kernel is copied.
func NewFilter(kernel []float64, outputs int) (*Filter, error) {
	if len(kernel) == 0 {
		return nil, invalidParam(KindFilter, "kernel", "empty")
	}
	for i, c := range kernel {
		if !core.IsFinite(c) {
			return nil, invalidParam(KindFilter, "kernel", "element %d not finite: %v", i, c)
		}
	}
	if outputs < 0 {
		return nil, invalidParam(KindFilter, "outputs", "negative: %d", outputs)
	}

	return &Filter{fir: fir.New(kernel), outputs: outputs}, nil
}

// NewLowPass designs a Blackman-windowed sinc low-pass kernel for cutoffHz
// and wraps it in a filter module.
func NewLowPass(cutoffHz float64, length, outputs int, sampleRate float64) (*Filter, error) {
	kernel, err := fir.LowPassSincHz(cutoffHz, length, sampleRate, window.TypeBlackman)
	if err != nil {
		return nil, invalidParam(KindFilter, "cutoff", "%v", err)
	}
	return NewFilter(kernel, outputs)
}

func (f *Filter) Kind() string { return KindFilter }
func (f *Filter) Inputs() int  { return 1 }
func (f *Filter) Outputs() int { return f.outputs }

func (f *Filter) Process(in, out []float64, _ Tick, _ *Modulation) {
	core.Fill(out, f.fir.ProcessSample(in[0]))
}

func (f *Filter) UpdateFrequency(float64) {}

// Kernel returns a copy of the filter coefficients.
func (f *Filter) Kernel() []float64 { return f.fir.Coefficients() }

func (f *Filter) Reset() { f.fir.Reset() }

func (f *Filter) Clone() Module {
	return &Filter{fir: f.fir.Clone(), outputs: f.outputs}
}

func (f *Filter) Params() Params {
	p := NewParams(KindFilter)
	p.Vec["kernel"] = f.fir.Coefficients()
	p.Num["outputs"] = float64(f.outputs)
	return p
}

// filterFactory accepts either an explicit kernel or a low-pass design
// given by cutoff (Hz), length and window (a window name, default
// blackman). windowed = 0 selects the rectangular window.
func filterFactory(ctx Context, p Params) (Module, error) {
	outputs, err := p.Slots("outputs", 1)
	if err != nil {
		return nil, err
	}

	if _, ok := p.Vec["kernel"]; ok {
		kernel, err := p.Floats("kernel")
		if err != nil {
			return nil, err
		}
		return NewFilter(kernel, outputs)
	}

	cutoff, err := p.Float("cutoff")
	if err != nil {
		return nil, err
	}
	length, err := p.IntOr("length", 63)
	if err != nil {
		return nil, err
	}
	if length > MaxKernelLength {
		return nil, invalidParam(KindFilter, "length", "above %d: %d", MaxKernelLength, length)
	}

	win, err := window.Parse(p.GetStr("window", window.TypeBlackman.String()))
	if err != nil {
		return nil, invalidParam(KindFilter, "window", "%v", err)
	}
	if p.GetNum("windowed", 1) == 0 {
		win = window.TypeRectangular
	}

	kernel, err := fir.LowPassSincHz(cutoff, length, ctx.SampleRate, win)
	if err != nil {
		return nil, invalidParam(KindFilter, "cutoff", "%v", err)
	}
	return NewFilter(kernel, outputs)
}
