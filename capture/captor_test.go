package capture

import (
	"testing"

	"github.com/ausocean/pmd/codec/pcm"
	"github.com/ausocean/pmd/smpte337"
	"github.com/ausocean/pmd/stream"
)

type nullLogger struct{}

func (nullLogger) Debug(msg string, args ...interface{}) {}

func pairBytes(frames int) []byte {
	return make([]byte, frames*2*3)
}

// TestCapturePMDCadence drives a full 25fps video frame of current-cadence
// PMD bursts through Augmentor, then confirms Capture recovers the
// channel arrangement, cadence, frame rate, and payload (§4.9, §8
// scenario 4's spirit generalized to the identification step).
func TestCapturePMDCadence(t *testing.T) {
	a, err := stream.NewAugmentor(smpte337.ModePair, []int{0, 1}, smpte337.Rate25, smpte337.DataPMD, nullLogger{})
	if err != nil {
		t.Fatalf("NewAugmentor: %v", err)
	}
	buf := pcm.Buffer{
		Format: pcm.BufferFormat{Channels: 2, Width: pcm.Width24},
		Data:   pairBytes(2200),
	}
	payload := []byte("pmd-cadence-payload")
	frame := 0
	// Write one full 25fps video frame (1920 samples) plus the start of
	// the next, so the Pa spacing sequence includes the frame-boundary
	// spacing (a guardband-widened gap) that lets identifyPMDRate recover
	// the full per-frame sample total, not just the steady 128/160 cadence.
	for frame < 1920+160 {
		used, status, err := a.WriteBlock(buf, frame, payload)
		if err != nil {
			t.Fatalf("WriteBlock: %v", err)
		}
		if status != smpte337.Green {
			t.Fatalf("status = %v, want Green", status)
		}
		frame += used
	}

	got, err := Capture(buf.Data, Descriptor{Channels: 2, Width: pcm.Width24})
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if got.Mode != smpte337.ModePair {
		t.Errorf("Mode = %v, want ModePair", got.Mode)
	}
	if got.Cadence != CadencePMD {
		t.Errorf("Cadence = %v, want CadencePMD", got.Cadence)
	}
	if got.Rate != smpte337.Rate25 {
		t.Errorf("Rate = %v, want Rate25", got.Rate)
	}
	if string(got.Burst.Payload) != string(payload) {
		t.Errorf("Payload = %q, want %q", got.Burst.Payload, payload)
	}
}

// TestCaptureLegacyCadence writes two bursts one full 25fps video frame
// (1920 samples) apart, simulating the legacy one-burst-per-frame
// cadence, and confirms Capture identifies it distinctly from CadencePMD.
func TestCaptureLegacyCadence(t *testing.T) {
	w, err := smpte337.NewWriter(smpte337.ModePair, []int{0, 1})
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	buf := pcm.Buffer{
		Format: pcm.BufferFormat{Channels: 2, Width: pcm.Width24},
		Data:   pairBytes(4000),
	}
	payload := []byte("legacy-payload")
	if _, status, err := w.WriteBurst(buf, 0, 1920, smpte337.DataPMD, payload); err != nil || status != smpte337.Green {
		t.Fatalf("WriteBurst 1: status=%v err=%v", status, err)
	}
	if _, status, err := w.WriteBurst(buf, 1920, 1920, smpte337.DataPMD, payload); err != nil || status != smpte337.Green {
		t.Fatalf("WriteBurst 2: status=%v err=%v", status, err)
	}

	got, err := Capture(buf.Data, Descriptor{Channels: 2, Width: pcm.Width24})
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if got.Cadence != CadenceLegacy {
		t.Errorf("Cadence = %v, want CadenceLegacy", got.Cadence)
	}
	if got.Rate != smpte337.Rate25 {
		t.Errorf("Rate = %v, want Rate25", got.Rate)
	}
	if string(got.Burst.Payload) != string(payload) {
		t.Errorf("Payload = %q, want %q", got.Burst.Payload, payload)
	}
}

func TestCaptureNotFoundOnSilence(t *testing.T) {
	buf := make([]byte, 4000*2*3)
	if _, err := Capture(buf, Descriptor{Channels: 2, Width: pcm.Width24}); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCaptureRejectsInvalidDescriptor(t *testing.T) {
	if _, err := Capture([]byte{1, 2, 3}, Descriptor{Channels: 0, Width: pcm.Width24}); err == nil {
		t.Fatal("expected error for zero channel count")
	}
}
