package xml

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/ausocean/pmd/core"
	"github.com/ausocean/pmd/id"
)

// buildStereoPresentation assembles the scenario from the testable
// properties: a stereo bed, two block updates at (+/-1, 1, 0) and one
// English presentation naming the audio element.
func buildStereoPresentation(t *testing.T) *core.Model {
	t.Helper()
	m := core.NewModel()

	_, err := m.AddFrameFormat(core.FrameFormat{
		Start:    core.Timecode{Rate: 25},
		Duration: core.Timecode{Seconds: 1, Rate: 25},
		Flow:     uuid.New(),
	}, id.NullId)
	if err != nil {
		t.Fatalf("AddFrameFormat: %v", err)
	}

	names := core.NewNames(1)
	if err := names.AddPrimary("Stereo_Bed", ""); err != nil {
		t.Fatal(err)
	}
	pack, err := m.AddTargetGroup("2.0", "", false, names, id.NullId)
	if err != nil {
		t.Fatalf("AddTargetGroup: %v", err)
	}

	leftNames := core.NewNames(1)
	_ = leftNames.AddPrimary("L", "")
	left, err := m.AddTarget(id.AudioTypeDirectSpeakers, "L", "", leftNames, id.NullId)
	if err != nil {
		t.Fatalf("AddTarget L: %v", err)
	}
	rightNames := core.NewNames(1)
	_ = rightNames.AddPrimary("R", "")
	right, err := m.AddTarget(id.AudioTypeDirectSpeakers, "R", "", rightNames, id.NullId)
	if err != nil {
		t.Fatalf("AddTarget R: %v", err)
	}

	if _, err := m.AddBlockUpdate(left, core.BlockUpdate{
		Position: core.NewCartesianPosition(-1, 1, 0),
		Gain:     core.UnityGain(core.Linear),
	}); err != nil {
		t.Fatalf("AddBlockUpdate L: %v", err)
	}
	if _, err := m.AddBlockUpdate(right, core.BlockUpdate{
		Position: core.NewCartesianPosition(1, 1, 0),
		Gain:     core.UnityGain(core.Linear),
	}); err != nil {
		t.Fatalf("AddBlockUpdate R: %v", err)
	}

	elementNames := core.NewNames(1)
	_ = elementNames.AddPrimary("Stereo_Bed", "")
	element, err := m.AddAudioElement(core.UnityGain(core.Decibels), core.ObjectInteraction{}, elementNames, id.NullId)
	if err != nil {
		t.Fatalf("AddAudioElement: %v", err)
	}
	if err := m.AddElementRelation(core.ElementRelation{AudioElement: element, TargetGroup: pack}); err != nil {
		t.Fatalf("AddElementRelation: %v", err)
	}

	presNames := core.NewNames(1)
	_ = presNames.AddPrimary("English", "")
	content, err := m.AddContentGroup(core.ContentUndefined, core.Loudness{}, "eng", presNames, id.NullId)
	if err != nil {
		t.Fatalf("AddContentGroup: %v", err)
	}
	pres, err := m.AddPresentation(core.Loudness{}, presNames, id.NullId)
	if err != nil {
		t.Fatalf("AddPresentation: %v", err)
	}
	if err := m.AddPresentationRelation(core.PresentationRelation{Presentation: pres, ContentGroup: content, AudioElement: element}); err != nil {
		t.Fatalf("AddPresentationRelation: %v", err)
	}

	return m
}

func TestMarshalStereoPresentation(t *testing.T) {
	m := buildStereoPresentation(t)
	out, err := Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, want := range []string{
		`audioPackFormatName="Stereo_Bed"`,
		`audioProgrammeName="English"`,
		`audioProgrammeLanguage`,
		`audioObjectName="Stereo_Bed"`,
	} {
		if !strings.Contains(string(out), want) {
			t.Errorf("marshaled XML missing %q:\n%s", want, out)
		}
	}
}

func TestMarshalRequiresFrameFormat(t *testing.T) {
	m := core.NewModel()
	if _, err := Marshal(m); err == nil {
		t.Fatal("expected error marshaling a model with no frameFormat")
	}
}

func TestUnmarshalRoundTrip(t *testing.T) {
	m := buildStereoPresentation(t)
	out, err := Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	got := core.NewModel()
	if err := Unmarshal(out, got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.CountEntities(id.TypeProgramme) != 1 {
		t.Fatalf("CountEntities(Programme) = %d, want 1", got.CountEntities(id.TypeProgramme))
	}
	if got.CountEntities(id.TypeObject) != 1 {
		t.Fatalf("CountEntities(Object) = %d, want 1", got.CountEntities(id.TypeObject))
	}
	if got.CountEntities(id.TypePackFormat) != 1 {
		t.Fatalf("CountEntities(PackFormat) = %d, want 1", got.CountEntities(id.TypePackFormat))
	}
}

func TestUnmarshalRejectsNonEmptyModel(t *testing.T) {
	m := buildStereoPresentation(t)
	out, err := Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if err := Unmarshal(out, m); err == nil {
		t.Fatal("expected error unmarshaling into a non-empty model")
	}
}

func TestUnmarshalRejectsWrongVersion(t *testing.T) {
	bad := []byte(`<?xml version="1.0"?><frame><frameHeader><frameFormat frameFormatID="AFF_1" type="full" start="00:00:00.00000S25" duration="00:00:01.00000S25"/><audioFormatExtended version="ITU-R_BS.2076-1"/></frameHeader></frame>`)
	m := core.NewModel()
	if err := Unmarshal(bad, m); err == nil {
		t.Fatal("expected error for unsupported schema version")
	}
}
