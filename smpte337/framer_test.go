package smpte337

import (
	"testing"

	"github.com/ausocean/pmd/codec/pcm"
)

func newPairBuffer(frames int) pcm.Buffer {
	return pcm.Buffer{
		Format: pcm.BufferFormat{Rate: SampleRate, Channels: 2, Width: pcm.Width24},
		Data:   make([]byte, frames*2*3),
	}
}

func newSingleBuffer(frames int) pcm.Buffer {
	return pcm.Buffer{
		Format: pcm.BufferFormat{Rate: SampleRate, Channels: 1, Width: pcm.Width24},
		Data:   make([]byte, frames*3),
	}
}

func TestWriteBurstPairPlacesPaPbAtSameSample(t *testing.T) {
	w, err := NewWriter(ModePair, []int{0, 1})
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	buf := newPairBuffer(200)
	payload := []byte("hello, pmd")
	if _, status, err := w.WriteBurst(buf, 32, 160, DataPMD, payload); err != nil || status != Green {
		t.Fatalf("WriteBurst: status=%v err=%v", status, err)
	}

	pa, err := buf.SampleAt(0, 32)
	if err != nil || pa != PaWord {
		t.Fatalf("Pa at sample 32 channel 0 = %#x, err=%v, want %#x", pa, err, PaWord)
	}
	pb, err := buf.SampleAt(1, 32)
	if err != nil || pb != PbWord {
		t.Fatalf("Pb at sample 32 channel 1 = %#x, err=%v, want %#x", pb, err, PbWord)
	}
}

func TestWriteThenScanRoundTripSingleChannel(t *testing.T) {
	w, err := NewWriter(ModeSingle, []int{0})
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	buf := newSingleBuffer(300)
	payload := []byte("a small PMD KLV payload")
	if _, status, err := w.WriteBurst(buf, 0, 160, DataPMD, payload); err != nil || status != Green {
		t.Fatalf("WriteBurst: status=%v err=%v", status, err)
	}

	r, err := NewReader(ModeSingle, []int{0})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	burst, _, found, err := r.ScanBurst(buf, 0, 160)
	if err != nil {
		t.Fatalf("ScanBurst: %v", err)
	}
	if !found {
		t.Fatal("expected a burst to be found")
	}
	if burst.DataType != DataPMD {
		t.Errorf("DataType = %v, want DataPMD", burst.DataType)
	}
	if string(burst.Payload) != string(payload) {
		t.Errorf("Payload = %q, want %q", burst.Payload, payload)
	}
}

func TestWriteThenScanRoundTripPair(t *testing.T) {
	w, err := NewWriter(ModePair, []int{0, 1})
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	buf := newPairBuffer(300)
	payload := []byte("<frame/>")
	if _, status, err := w.WriteBurst(buf, 0, 160, DataSADM, payload); err != nil || status != Green {
		t.Fatalf("WriteBurst: status=%v err=%v", status, err)
	}

	r, err := NewReader(ModePair, []int{0, 1})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	burst, _, found, err := r.ScanBurst(buf, 0, 160)
	if err != nil {
		t.Fatalf("ScanBurst: %v", err)
	}
	if !found || burst.DataType != DataSADM {
		t.Fatalf("burst = %+v, found=%v", burst, found)
	}
	if string(burst.Payload) != string(payload) {
		t.Errorf("Payload = %q, want %q", burst.Payload, payload)
	}
}

func TestWriteBurstReportsRedWhenTooLarge(t *testing.T) {
	w, err := NewWriter(ModeSingle, []int{0})
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	buf := newSingleBuffer(200)
	payload := make([]byte, 400) // needs 164 frames, more than one 160-sample block holds
	_, status, err := w.WriteBurst(buf, 0, 160, DataPMD, payload)
	if err != nil {
		t.Fatalf("WriteBurst: %v", err)
	}
	if status != Red {
		t.Errorf("status = %v, want Red", status)
	}
}

func TestClassifyPc(t *testing.T) {
	if got := ClassifyPc(PcPMD); got != DataPMD {
		t.Errorf("ClassifyPc(PcPMD) = %v, want DataPMD", got)
	}
	// Scenario: a captured Pc word observed as 0x5F1F0000 | 0x01000000,
	// whose DT byte (bits 16..23) is 0x1F (31), classifying as S-ADM.
	if got := ClassifyPc(0x5F1F0000 | 0x01000000); got != DataSADM {
		t.Errorf("ClassifyPc(scenario word) = %v, want DataSADM", got)
	}
	if got := ClassifyPc(0); got != DataNone {
		t.Errorf("ClassifyPc(0) = %v, want DataNone", got)
	}
}

func TestScanBurstRecoversFromStalePreamble(t *testing.T) {
	r, err := NewReader(ModeSingle, []int{0})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	buf := newSingleBuffer(400)
	// A stray Pa with no matching Pb at sample 10 should be skipped.
	if err := buf.SetSampleAt(0, 10, PaWord); err != nil {
		t.Fatal(err)
	}
	w, err := NewWriter(ModeSingle, []int{0})
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if _, status, err := w.WriteBurst(buf, 50, 160, DataPMD, []byte("ok")); err != nil || status != Green {
		t.Fatalf("WriteBurst: status=%v err=%v", status, err)
	}

	burst, _, found, err := r.ScanBurst(buf, 0, 300)
	if err != nil {
		t.Fatalf("ScanBurst: %v", err)
	}
	if !found || string(burst.Payload) != "ok" {
		t.Fatalf("burst = %+v, found=%v", burst, found)
	}
}
