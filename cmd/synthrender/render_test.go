package main

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-synth/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseNotes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    []noteEvent
		wantErr bool
	}{
		{name: "single", in: "60:500", want: []noteEvent{{60, 500}}},
		{name: "spaces and empty fields", in: " 60:250 , ,64:125.5", want: []noteEvent{{60, 250}, {64, 125.5}}},
		{name: "empty", in: "", wantErr: true},
		{name: "missing duration", in: "60", wantErr: true},
		{name: "note out of range", in: "128:100", wantErr: true},
		{name: "zero duration", in: "60:0", wantErr: true},
		{name: "garbage", in: "c4:100", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseNotes(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("note %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}

	if _, err := parseNotes(""); !errors.Is(err, errNoNotes) {
		t.Errorf("empty input: err = %v", err)
	}
}

func TestRenderDefaultPatch(t *testing.T) {
	t.Parallel()

	const sr = 8000

	g, err := loadPatch(defaultPatch, sr)
	if err != nil {
		t.Fatalf("default patch: %v", err)
	}

	notes := []noteEvent{{60, 100}, {64, 100}}
	cfg := renderConfig{sampleRate: sr, glide: 20, legato: true, tail: 50, gain: 1}

	samples, stats, err := render(discardLogger(), g, notes, cfg)
	if err != nil {
		t.Fatal(err)
	}

	if want := 2 * (800 + 800 + 400); len(samples) != want {
		t.Fatalf("rendered %d floats, want %d", len(samples), want)
	}

	testutil.RequireFinite(t, samples)
	if stats.failures != 0 {
		t.Errorf("failures = %d", stats.failures)
	}
	if stats.left.Length != 2000 || stats.left.Peak == 0 {
		t.Errorf("left levels = %+v", stats.left)
	}
	if stats.left != stats.right {
		t.Errorf("channels differ: %+v vs %+v", stats.left, stats.right)
	}

	left := testutil.Left(samples)
	silent := true
	for _, v := range left[:1600] {
		if v != 0 {
			silent = false
			break
		}
	}
	if silent {
		t.Error("held notes rendered silence")
	}
}

func TestWriteWAV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.wav")
	samples := []float64{0, 0, 0.5, -0.5, 2, -2}

	q, err := renderConfig{dither: "none"}.quantizer()
	if err != nil {
		t.Fatal(err)
	}

	if err := writeWAV(path, samples, 8000, q); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatal("invalid wav file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatal(err)
	}

	if dec.NumChans != 2 || dec.SampleRate != 8000 || dec.BitDepth != 16 {
		t.Fatalf("format = %d ch, %d Hz, %d bit", dec.NumChans, dec.SampleRate, dec.BitDepth)
	}

	want := []int{0, 0, 16384, -16384, 32767, -32768}
	if len(buf.Data) != len(want) {
		t.Fatalf("decoded %d samples, want %d", len(buf.Data), len(want))
	}
	for i := range want {
		if buf.Data[i] != want[i] {
			t.Errorf("sample %d = %d, want %d", i, buf.Data[i], want[i])
		}
	}
}

func TestPrintKernels(t *testing.T) {
	t.Parallel()

	g, err := loadPatch(defaultPatch, 48000)
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := printKernels(&out, g, 48000); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out.String(), "lowpass") || !strings.Contains(out.String(), "63 taps") {
		t.Errorf("unexpected report:\n%s", out.String())
	}
}

func TestRenderConfigQuantizer(t *testing.T) {
	t.Parallel()

	if _, err := (renderConfig{dither: "pink"}).quantizer(); err == nil {
		t.Fatal("expected error for unknown dither")
	}

	q, err := renderConfig{dither: "rectangular", shape: true}.quantizer()
	if err != nil {
		t.Fatal(err)
	}
	if lo, hi := q.Range(); lo != -32768 || hi != 32767 {
		t.Errorf("Range() = (%d, %d)", lo, hi)
	}
}

func TestRunRejectsBadPatch(t *testing.T) {
	t.Parallel()

	patch := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(patch, []byte(`{"modules":[{"name":"x","kind":"nope"}]}`), 0o600); err != nil {
		t.Fatal(err)
	}

	err := run(discardLogger(), patch, "60:10", filepath.Join(t.TempDir(), "x.wav"), false,
		renderConfig{sampleRate: 8000, gain: 1, dither: "triangular"})
	if err == nil || !strings.Contains(err.Error(), "load patch") {
		t.Fatalf("err = %v, want load patch error", err)
	}
}
