package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-synth/dsp/board"
	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/dither"
	"github.com/cwbudde/algo-synth/dsp/filter/fir"
	"github.com/cwbudde/algo-synth/dsp/meter"
	"github.com/cwbudde/algo-synth/dsp/voice"
)

const blockFrames = 256

var errNoNotes = errors.New("no notes given")

type renderConfig struct {
	sampleRate int
	glide      float64
	legato     bool
	tail       float64
	gain       float64
	dither     string
	shape      bool
}

func (c renderConfig) quantizer() (*dither.Quantizer, error) {
	noise, err := dither.ParseNoise(c.dither)
	if err != nil {
		return nil, err
	}

	opts := []dither.Option{dither.WithNoise(noise)}
	if c.shape {
		opts = append(opts, dither.WithShaping(dither.EFB))
	}

	return dither.NewQuantizer(opts...)
}

type noteEvent struct {
	note int
	ms   float64
}

type renderStats struct {
	left, right meter.Levels
	failures    int64
}

// parseNotes reads "note:ms,note:ms,...".
func parseNotes(s string) ([]noteEvent, error) {
	var notes []noteEvent
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		noteStr, msStr, ok := strings.Cut(field, ":")
		if !ok {
			return nil, fmt.Errorf("note %q: want note:milliseconds", field)
		}

		note, err := strconv.Atoi(strings.TrimSpace(noteStr))
		if err != nil || note < 0 || note > 127 {
			return nil, fmt.Errorf("note %q: invalid MIDI note", field)
		}

		ms, err := strconv.ParseFloat(strings.TrimSpace(msStr), 64)
		if err != nil || !(ms > 0) || math.IsInf(ms, 0) {
			return nil, fmt.Errorf("note %q: invalid duration", field)
		}

		notes = append(notes, noteEvent{note: note, ms: ms})
	}

	if len(notes) == 0 {
		return nil, errNoNotes
	}

	return notes, nil
}

func loadPatch(data []byte, sampleRate float64) (*board.Graph, error) {
	g, err := board.ParsePatch(data, board.DefaultRegistry(), board.Context{SampleRate: sampleRate})
	if err != nil {
		return nil, fmt.Errorf("load patch: %w", err)
	}
	return g, nil
}

func render(logger *slog.Logger, g *board.Graph, notes []noteEvent, cfg renderConfig) ([]float64, renderStats, error) {
	if cfg.sampleRate <= 0 {
		return nil, renderStats{}, fmt.Errorf("invalid sample rate %d", cfg.sampleRate)
	}

	bcfg := core.ApplyOptions(
		core.WithSampleRate(float64(cfg.sampleRate)),
		core.WithGlideTime(cfg.glide),
	)

	b, err := board.NewBoard(g, bcfg, board.WithLogger(logger))
	if err != nil {
		return nil, renderStats{}, err
	}

	v := voice.NewMono(b, bcfg.GlideTime)
	out := voice.NewOutput(v)
	out.SetGain(cfg.gain)

	var (
		samples     []float64
		left, right meter.Meter
	)
	play := func(ms float64) {
		start := len(samples)
		samples = appendFrames(samples, out, int(bcfg.MillisToSamples(ms)))
		left.Update(channel(samples[start:], 0))
		right.Update(channel(samples[start:], 1))
	}

	held := -1
	for _, n := range notes {
		logger.Debug("note", "note", n.note, "ms", n.ms, "hz", core.NoteFrequency(n.note))

		v.NoteOn(n.note)
		if held >= 0 && held != n.note {
			v.NoteOff(held)
		}
		held = n.note

		play(n.ms)

		if !cfg.legato {
			v.NoteOff(held)
			held = -1
		}
	}
	if held >= 0 {
		v.NoteOff(held)
	}
	play(cfg.tail)

	stats := renderStats{
		left:     left.Levels(),
		right:    right.Levels(),
		failures: b.Failures(),
	}

	return samples, stats, nil
}

// appendFrames pulls frames stereo frames from out in fixed-size blocks.
func appendFrames(dst []float64, out *voice.Output, frames int) []float64 {
	block := make([]float64, 2*blockFrames)
	for frames > 0 {
		n := min(frames, blockFrames)
		out.Read(block[:2*n])
		dst = append(dst, block[:2*n]...)
		frames -= n
	}
	return dst
}

// channel extracts one channel of an interleaved stereo block.
func channel(interleaved []float64, ch int) []float64 {
	out := make([]float64, 0, len(interleaved)/2)
	for i := ch; i < len(interleaved); i += 2 {
		out = append(out, interleaved[i])
	}
	return out
}

// writeWAV quantizes samples with q and writes a 16-bit stereo WAV file.
func writeWAV(path string, samples []float64, sampleRate int, q *dither.Quantizer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 2, 1)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 2,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, len(samples)),
		SourceBitDepth: 16,
	}
	q.QuantizeBlock(buf.Data, samples)

	err = enc.Write(buf)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	err = enc.Close()
	if err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	return nil
}

// printKernels reports the magnitude response of every filter module.
func printKernels(w io.Writer, g *board.Graph, sampleRate float64) error {
	const fftSize = 1024

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	found := false

	for i := range g.Len() {
		node := g.Node(i)
		f, ok := node.Module.(*board.Filter)
		if !ok {
			continue
		}
		found = true

		mag, err := fir.MagnitudeResponse(f.Kernel(), fftSize)
		if err != nil {
			return fmt.Errorf("filter %s: %w", node.Name, err)
		}

		fmt.Fprintf(tw, "%s\t%d taps\n", node.Name, len(f.Kernel()))
		fmt.Fprintf(tw, "  Hz\tdB\n")
		for bin := 0; bin < len(mag); bin += len(mag) / 16 {
			hz := float64(bin) * sampleRate / fftSize
			fmt.Fprintf(tw, "  %.0f\t%.2f\n", hz, core.LinearToDB(mag[bin]))
		}
	}

	if !found {
		fmt.Fprintln(tw, "patch has no filter modules")
	}

	return tw.Flush()
}
