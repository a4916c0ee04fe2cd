package core

import "testing"

func TestGainLinearDecibelConversionRoundTrips(t *testing.T) {
	g := NewGain(2.0, Linear)
	db := g.In(Decibels)
	back := db.In(Linear)
	if diff := back.Value - g.Value; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("round trip: got %v, want %v", back.Value, g.Value)
	}
}

func TestUnityGainIsUnityInBothUnits(t *testing.T) {
	if !UnityGain(Linear).IsUnity() {
		t.Error("UnityGain(Linear) should report IsUnity")
	}
	if !UnityGain(Decibels).IsUnity() {
		t.Error("UnityGain(Decibels) should report IsUnity")
	}
}

func TestGainEqualComparesAcrossUnits(t *testing.T) {
	linear := NewGain(1.0, Linear)
	db := NewGain(0.0, Decibels)
	if !linear.Equal(db) {
		t.Error("unity linear and unity decibel gains should compare equal")
	}
}

func TestGainLessComparesAcrossUnits(t *testing.T) {
	quiet := NewGain(-6.0, Decibels)
	loud := NewGain(1.0, Linear)
	if !quiet.Less(loud) {
		t.Error("-6dB should be less than unity linear gain")
	}
	if loud.Less(quiet) {
		t.Error("unity linear gain should not be less than -6dB")
	}
}

func TestGainInIsNoOpForSameUnit(t *testing.T) {
	g := NewGain(3.0, Linear)
	if got := g.In(Linear); got != g {
		t.Errorf("In(Linear) on an already-linear gain = %+v, want %+v", got, g)
	}
}
