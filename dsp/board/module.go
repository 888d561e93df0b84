package board

// Module is one node kind of the board. Implementations keep their state
// private; the board owns all buffers passed to Process.
type Module interface {
	// Kind returns the registry tag of the module.
	Kind() string
	// Inputs returns the number of input slots.
	Inputs() int
	// Outputs returns the number of output slots.
	Outputs() int
	// Process computes one sample. in has Inputs() entries (unconnected
	// slots are 0); Process must write all Outputs() entries of out.
	Process(in, out []float64, tick Tick, mod *Modulation)
	// UpdateFrequency receives the voice frequency broadcast.
	UpdateFrequency(freq float64)
	// Reset clears phase, history and envelope state.
	Reset()
	// Clone returns a deep copy with independent state.
	Clone() Module
	// Params returns the serialisable parameters of the module.
	Params() Params
}

// Tick is the board-level timing shared by every module in a pass.
type Tick struct {
	// Time is the number of milliseconds since the last note event.
	Time int64
	// NoteOn reports whether a note is held.
	NoteOn bool
}

// Controller and pitch-wheel defaults.
const (
	ControllerCount   = 128
	ControllerDefault = 64
	PitchWheelCentre  = 8192
)

// Limits on persisted module sizes.
const (
	// MaxSlots bounds a module's input or output count.
	MaxSlots = 1024
	// MaxStageMillis bounds each envelope stage.
	MaxStageMillis = 10 * 60 * 1000
	// MaxKernelLength bounds a designed filter kernel.
	MaxKernelLength = 1 << 16
)

// Modulation carries per-voice control state and the side-channel
// transmit/receive scratch.
type Modulation struct {
	// PitchWheel is the raw 14-bit wheel position, centre 8192.
	PitchWheel int
	// PitchWheelRange is the bend range in semitones at full deflection.
	PitchWheelRange float64
	// Controllers holds the last value of every MIDI controller.
	Controllers [ControllerCount]int

	sends map[int]float64
}

func newModulation(pitchWheelRange float64) Modulation {
	m := Modulation{
		PitchWheel:      PitchWheelCentre,
		PitchWheelRange: pitchWheelRange,
		sends:           make(map[int]float64),
	}
	for i := range m.Controllers {
		m.Controllers[i] = ControllerDefault
	}
	return m
}

// Bend returns the pitch-wheel deflection in semitones.
func (m *Modulation) Bend() float64 {
	return float64(m.PitchWheel-PitchWheelCentre) / PitchWheelCentre * m.PitchWheelRange
}

// Controller returns the value of controller id, or 0 for an invalid id.
func (m *Modulation) Controller(id int) int {
	if id < 0 || id >= ControllerCount {
		return 0
	}
	return m.Controllers[id]
}

// Transmit stores v under key for modules evaluated later.
func (m *Modulation) Transmit(key int, v float64) {
	if m.sends == nil {
		m.sends = make(map[int]float64)
	}
	m.sends[key] = v
}

// Receive returns the last value transmitted under key, or 0 if none was.
func (m *Modulation) Receive(key int) float64 {
	return m.sends[key]
}

func (m *Modulation) reset() {
	clear(m.sends)
	m.PitchWheel = PitchWheelCentre
	for i := range m.Controllers {
		m.Controllers[i] = ControllerDefault
	}
}
