package voice

import (
	"math"
	"sync"
	"sync/atomic"
)

// Output renders the current voice into a stereo stream. Replace may be
// called from any goroutine; Read belongs to the render goroutine.
type Output struct {
	mu      sync.Mutex
	pending atomic.Pointer[Mono]
	current *Mono
	gain    atomic.Uint64
	swaps   atomic.Int64
}

// NewOutput returns an output that plays v, which may be nil for silence.
func NewOutput(v *Mono) *Output {
	o := &Output{current: v}
	o.SetGain(1)
	return o
}

// Replace queues v to take over on the next Read. The incoming voice is
// reset before its first sample. Replace(nil) cancels a queued voice.
func (o *Output) Replace(v *Mono) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.pending.Store(v)
}

// SetGain sets the gain applied to every rendered sample.
func (o *Output) SetGain(gain float64) {
	o.gain.Store(math.Float64bits(gain))
}

// Gain returns the render gain.
func (o *Output) Gain() float64 {
	return math.Float64frombits(o.gain.Load())
}

// Swaps returns how many queued voices have been adopted.
func (o *Output) Swaps() int64 { return o.swaps.Load() }

// Read fills buf with interleaved stereo samples and returns len(buf).
// Without a voice the buffer is silent.
func (o *Output) Read(buf []float64) int {
	if o.pending.Load() != nil {
		o.adopt()
	}

	if o.current == nil {
		clear(buf)
		return len(buf)
	}

	o.current.FillBuffer(buf, 0, len(buf), o.Gain())
	if len(buf)%2 == 1 {
		buf[len(buf)-1] = 0
	}

	return len(buf)
}

func (o *Output) adopt() {
	o.mu.Lock()
	defer o.mu.Unlock()

	v := o.pending.Swap(nil)
	if v == nil {
		return
	}

	v.Reset()
	o.current = v
	o.swaps.Add(1)
}

// Voice returns the voice currently rendered. It must only be called from
// the render goroutine.
func (o *Output) Voice() *Mono { return o.current }
