package core

import "testing"

func TestAddProfileRecognizesITUEmission(t *testing.T) {
	m := NewModel()
	m.AddProfile(Profile{Name: "ITU-R BS.2076-2 Emission", Version: "1.0", Level: "1", Value: "1"})
	got := m.Profiles()
	if len(got) != 1 {
		t.Fatalf("Profiles() = %v, want 1 entry", got)
	}
	if got[0].Recognized != ProfileITUEmission {
		t.Errorf("Recognized = %v, want ProfileITUEmission", got[0].Recognized)
	}
}

func TestAddProfileRecognitionIsCaseInsensitive(t *testing.T) {
	m := NewModel()
	m.AddProfile(Profile{Name: "itu-r bs.2076-2 distribution", Version: "1.2", Level: "1", Value: "1"})
	got := m.Profiles()
	if got[0].Recognized != ProfileITUDistribution {
		t.Errorf("Recognized = %v, want ProfileITUDistribution", got[0].Recognized)
	}
}

func TestAddProfileAcceptsUnrecognizedWithoutFailing(t *testing.T) {
	m := NewModel()
	m.AddProfile(Profile{Name: "Some Other Profile", Version: "1.0", Level: "1", Value: "1"})
	got := m.Profiles()
	if len(got) != 1 {
		t.Fatalf("Profiles() = %v, want 1 entry even when unrecognized", got)
	}
	if got[0].Recognized != ProfileNotInitialized {
		t.Errorf("Recognized = %v, want ProfileNotInitialized", got[0].Recognized)
	}
}

func TestAddProfileRejectsVersionBelowMinimum(t *testing.T) {
	m := NewModel()
	m.AddProfile(Profile{Name: "ITU-R BS.2076-2 Emission", Version: "0.9", Level: "1", Value: "1"})
	got := m.Profiles()
	if got[0].Recognized != ProfileNotInitialized {
		t.Errorf("Recognized = %v, want ProfileNotInitialized for a version below minVersion", got[0].Recognized)
	}
}

func TestAddProfileRejectsDifferentMajorVersion(t *testing.T) {
	m := NewModel()
	m.AddProfile(Profile{Name: "ITU-R BS.2076-2 Emission", Version: "2.0", Level: "1", Value: "1"})
	got := m.Profiles()
	if got[0].Recognized != ProfileNotInitialized {
		t.Errorf("Recognized = %v, want ProfileNotInitialized for a different major version", got[0].Recognized)
	}
}

func TestHasProfileMatchesRegardlessOfRecognition(t *testing.T) {
	m := NewModel()
	m.AddProfile(Profile{Name: "Unrecognized Profile", Version: "1.0", Level: "1", Value: "1"})
	if !m.HasProfile("Unrecognized Profile", "1", "1") {
		t.Error("HasProfile should match a case-correct, exact descriptor")
	}
	if !m.HasProfile("unrecognized profile", "1", "1") {
		t.Error("HasProfile should match case-insensitively")
	}
	if m.HasProfile("Some Other Name", "1", "1") {
		t.Error("HasProfile should not match an unadded descriptor")
	}
}

func TestProfilesReturnsACopy(t *testing.T) {
	m := NewModel()
	m.AddProfile(Profile{Name: "ITU-R BS.2076-2 Emission", Version: "1.0", Level: "1", Value: "1"})
	got := m.Profiles()
	got[0].Name = "mutated"
	again := m.Profiles()
	if again[0].Name == "mutated" {
		t.Error("Profiles() should return a defensive copy, not the internal slice")
	}
}
