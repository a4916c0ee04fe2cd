package smpte337

import "testing"

func TestVsyncTimerIntegerRate(t *testing.T) {
	v, err := NewVsyncTimer(Rate25)
	if err != nil {
		t.Fatalf("NewVsyncTimer: %v", err)
	}
	for i := 0; i < 3; i++ {
		if n := v.NextInterval(); n != 1920 {
			t.Errorf("interval %d = %d, want 1920", i, n)
		}
	}
}

func TestVsyncTimerDropFrameCycleSumsCorrectly(t *testing.T) {
	v, err := NewVsyncTimer(Rate2997)
	if err != nil {
		t.Fatalf("NewVsyncTimer: %v", err)
	}
	total := 0
	for i := 0; i < v.CycleLength(); i++ {
		total += v.NextInterval()
	}
	// Five 29.97 fps video frames should span five audio frames worth of
	// 48 kHz samples, totalling close to 5*1601.6 ≈ 8008 samples.
	if total != 8008 {
		t.Errorf("5-cycle total = %d, want 8008", total)
	}
}

func TestVsyncTimerResetReturnsToStartOfCycle(t *testing.T) {
	v, err := NewVsyncTimer(Rate5994)
	if err != nil {
		t.Fatalf("NewVsyncTimer: %v", err)
	}
	first := v.NextInterval()
	v.NextInterval()
	v.Reset()
	if got := v.NextInterval(); got != first {
		t.Errorf("after Reset, interval = %d, want %d (first entry)", got, first)
	}
}

func TestNewVsyncTimerRejectsUnsupportedRate(t *testing.T) {
	if _, err := NewVsyncTimer(FrameRate(999)); err == nil {
		t.Fatal("expected error for unsupported frame rate")
	}
}
