package bridge

import (
	"testing"

	"github.com/ausocean/pmd/core"
	"github.com/ausocean/pmd/pmd"
)

// buildSmallPMD assembles the round-trip scenario: 16 signals, one 5.1.4
// bed named "Bed 1" spanning signals 1-10, five objects at the origin
// sourced from signals 11-15, and one presentation listing all six
// elements.
func buildSmallPMD(t *testing.T) *pmd.Model {
	t.Helper()
	m := pmd.NewModel(pmd.DefaultLimits)
	for n := uint8(1); n <= 16; n++ {
		if err := m.AddSignal(n); err != nil {
			t.Fatalf("AddSignal(%d): %v", n, err)
		}
	}
	bedID, err := m.AddBed("Bed 1", "5.1.4", 1)
	if err != nil {
		t.Fatalf("AddBed: %v", err)
	}
	origin := core.NewCartesianPosition(0, 0, 0)
	gain := core.UnityGain(core.Decibels)
	var refs []pmd.ElementRef
	refs = append(refs, pmd.ElementRef{Kind: pmd.ElementBed, ID: bedID})
	for i, sig := 0, uint8(11); sig <= 15; i, sig = i+1, sig+1 {
		objID, err := m.AddObject(sig, origin, gain, "Object")
		if err != nil {
			t.Fatalf("AddObject(%d): %v", sig, err)
		}
		refs = append(refs, pmd.ElementRef{Kind: pmd.ElementObject, ID: objID})
	}
	if _, err := m.AddPresentation("Main", "en", refs); err != nil {
		t.Fatalf("AddPresentation: %v", err)
	}
	return m
}

func TestConvertToCoreModelThenBack(t *testing.T) {
	src := buildSmallPMD(t)

	coreModel, err := ConvertToCoreModel(src)
	if err != nil {
		t.Fatalf("ConvertToCoreModel: %v", err)
	}

	got, err := ConvertToPMDModel(coreModel, src.Title)
	if err != nil {
		t.Fatalf("ConvertToPMDModel: %v", err)
	}

	if len(got.Signals()) != len(src.Signals()) {
		t.Fatalf("signal count = %d, want %d", len(got.Signals()), len(src.Signals()))
	}
	wantBeds, gotBeds := src.Beds(), got.Beds()
	if len(gotBeds) != len(wantBeds) {
		t.Fatalf("bed count = %d, want %d", len(gotBeds), len(wantBeds))
	}
	if gotBeds[0].Config != wantBeds[0].Config || gotBeds[0].FirstSignal != wantBeds[0].FirstSignal {
		t.Errorf("bed mismatch: got %+v, want %+v", gotBeds[0], wantBeds[0])
	}

	wantObjs, gotObjs := src.Objects(), got.Objects()
	if len(gotObjs) != len(wantObjs) {
		t.Fatalf("object count = %d, want %d", len(gotObjs), len(wantObjs))
	}
	seenSignals := make(map[uint8]bool)
	for _, o := range gotObjs {
		seenSignals[o.Signal] = true
		if !o.Position.IsCartesian() || o.Position.X != 0 || o.Position.Y != 0 || o.Position.Z != 0 {
			t.Errorf("object signal %d position = %+v, want origin", o.Signal, o.Position)
		}
	}
	for sig := uint8(11); sig <= 15; sig++ {
		if !seenSignals[sig] {
			t.Errorf("round trip lost object sourced from signal %d", sig)
		}
	}

	wantPres, gotPres := src.Presentations(), got.Presentations()
	if len(gotPres) != len(wantPres) {
		t.Fatalf("presentation count = %d, want %d", len(gotPres), len(wantPres))
	}
	if len(gotPres[0].Elements) != len(wantPres[0].Elements) {
		t.Errorf("presentation element count = %d, want %d", len(gotPres[0].Elements), len(wantPres[0].Elements))
	}
	if gotPres[0].Lang != wantPres[0].Lang {
		t.Errorf("presentation lang = %q, want %q", gotPres[0].Lang, wantPres[0].Lang)
	}
}

func TestConvertToCoreModelPreservesDynamicUpdates(t *testing.T) {
	m := pmd.NewModel(pmd.DefaultLimits)
	if err := m.AddSignal(1); err != nil {
		t.Fatal(err)
	}
	objID, err := m.AddObject(1, core.NewCartesianPosition(0, 0, 0), core.UnityGain(core.Decibels), "Obj")
	if err != nil {
		t.Fatal(err)
	}
	if err := m.AddUpdate(pmd.Update{
		ObjectID:     objID,
		SampleOffset: 480,
		Position:     core.NewCartesianPosition(1, 0, 0),
		Gain:         core.UnityGain(core.Decibels),
	}); err != nil {
		t.Fatal(err)
	}

	coreModel, err := ConvertToCoreModel(m)
	if err != nil {
		t.Fatalf("ConvertToCoreModel: %v", err)
	}
	got, err := ConvertToPMDModel(coreModel, "")
	if err != nil {
		t.Fatalf("ConvertToPMDModel: %v", err)
	}
	objs := got.Objects()
	if len(objs) != 1 {
		t.Fatalf("object count = %d, want 1", len(objs))
	}
	updates := got.UpdatesFor(objs[0].ID)
	if len(updates) != 1 {
		t.Fatalf("update count = %d, want 1", len(updates))
	}
	if updates[0].SampleOffset != 480 {
		t.Errorf("SampleOffset = %d, want 480", updates[0].SampleOffset)
	}
	if updates[0].Position.X != 1 {
		t.Errorf("update X = %v, want 1", updates[0].Position.X)
	}
}

func TestConvertToCoreModelStereoBed(t *testing.T) {
	m := pmd.NewModel(pmd.DefaultLimits)
	for n := uint8(1); n <= 2; n++ {
		if err := m.AddSignal(n); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := m.AddBed("Stereo", "2.0.0", 1); err != nil {
		t.Fatalf("AddBed: %v", err)
	}
	coreModel, err := ConvertToCoreModel(m)
	if err != nil {
		t.Fatalf("ConvertToCoreModel: %v", err)
	}
	got, err := ConvertToPMDModel(coreModel, "")
	if err != nil {
		t.Fatalf("ConvertToPMDModel: %v", err)
	}
	beds := got.Beds()
	if len(beds) != 1 || beds[0].Config != "2.0.0" || beds[0].FirstSignal != 1 {
		t.Errorf("round-tripped bed = %+v, want {Config:2.0.0 FirstSignal:1}", beds)
	}
}
