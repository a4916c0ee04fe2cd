package klv

import (
	"testing"

	"github.com/ausocean/pmd/core"
	"github.com/ausocean/pmd/pmd"
)

func buildModel(t *testing.T) *pmd.Model {
	t.Helper()
	m := pmd.NewModel(pmd.DefaultLimits)
	for n := uint8(1); n <= 8; n++ {
		if err := m.AddSignal(n); err != nil {
			t.Fatal(err)
		}
	}
	bedID, err := m.AddBed("Bed 1$[ME]", "2.0.0", 1)
	if err != nil {
		t.Fatalf("AddBed: %v", err)
	}
	objID, err := m.AddObject(3, core.NewCartesianPosition(0.5, -0.5, 0), core.UnityGain(core.Decibels), "Obj 1")
	if err != nil {
		t.Fatalf("AddObject: %v", err)
	}
	if err := m.AddUpdate(pmd.Update{ObjectID: objID, SampleOffset: 240, Position: core.NewCartesianPosition(1, 0, 0), Gain: core.NewGain(-3, core.Decibels)}); err != nil {
		t.Fatalf("AddUpdate: %v", err)
	}
	presID, err := m.AddPresentation("Main", "en", []pmd.ElementRef{
		{Kind: pmd.ElementBed, ID: bedID},
		{Kind: pmd.ElementObject, ID: objID},
	})
	if err != nil {
		t.Fatalf("AddPresentation: %v", err)
	}
	if err := m.SetLoudness(presID, -23.5, "ITU-R BS.1770-4"); err != nil {
		t.Fatalf("SetLoudness: %v", err)
	}
	m.SetInputTimecode(pmd.InputTimecode{Hours: 1, Minutes: 2, Seconds: 3, Frames: 4, Offset: 10})
	m.SetEncoderParameters(pmd.EncoderParameters{ProgramConfig: "5.1", FrameRate: "25", BitDepth: 24})
	m.SetTransportDescriptor(pmd.TransportDescriptor{ChannelPair: 14, DataRate: 48000})
	if err := m.AddHeadphoneElement(pmd.HeadphoneElement{ObjectID: objID, Preset: "binaural_a"}); err != nil {
		t.Fatalf("AddHeadphoneElement: %v", err)
	}
	return m
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := buildModel(t)
	frame, err := Encode(m, KeyDolbyPrivate)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(frame) < 16 {
		t.Fatalf("frame too short: %d bytes", len(frame))
	}

	got := pmd.NewModel(pmd.DefaultLimits)
	if err := Decode(frame, got); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(got.Signals()) != len(m.Signals()) {
		t.Errorf("signal count = %d, want %d", len(got.Signals()), len(m.Signals()))
	}
	beds := got.Beds()
	if len(beds) != 1 || beds[0].Name() != "Bed 1$[ME]" || beds[0].Config != "2.0.0" {
		t.Errorf("bed = %+v, want Bed 1$[ME]/2.0.0", beds)
	}
	objs := got.Objects()
	if len(objs) != 1 || objs[0].Signal != 3 || objs[0].Label != "Obj 1" {
		t.Errorf("object = %+v", objs)
	}
	if objs[0].Position.X != 0.5 || objs[0].Position.Y != -0.5 {
		t.Errorf("object position = %+v, want (0.5,-0.5,0)", objs[0].Position)
	}
	updates := got.UpdatesFor(objs[0].ID)
	if len(updates) != 1 || updates[0].SampleOffset != 240 {
		t.Errorf("updates = %+v", updates)
	}

	pres := got.Presentations()
	if len(pres) != 1 || pres[0].Name != "Main" || pres[0].Lang != "en" || len(pres[0].Elements) != 2 {
		t.Errorf("presentation = %+v", pres)
	}
	l, ok := got.LoudnessFor(pres[0].ID)
	if !ok || l.Method != "ITU-R BS.1770-4" {
		t.Errorf("loudness = %+v, ok=%v", l, ok)
	}
	if diff := l.LKFS - (-23.5); diff > 0.01 || diff < -0.01 {
		t.Errorf("LKFS = %v, want ~-23.5", l.LKFS)
	}

	tc, ok := got.InputTimecodeOf()
	if !ok || tc.Hours != 1 || tc.Offset != 10 {
		t.Errorf("IAT = %+v, ok=%v", tc, ok)
	}
	eep, ok := got.EncoderParametersOf()
	if !ok || eep.ProgramConfig != "5.1" || eep.BitDepth != 24 {
		t.Errorf("EEP = %+v, ok=%v", eep, ok)
	}
	etd, ok := got.TransportDescriptorOf()
	if !ok || etd.ChannelPair != 14 {
		t.Errorf("ETD = %+v, ok=%v", etd, ok)
	}
	hed := got.HeadphoneElements()
	if len(hed) != 1 || hed[0].Preset != "binaural_a" {
		t.Errorf("HED = %+v", hed)
	}
}

func TestDecodeRejectsBadCRC(t *testing.T) {
	m := buildModel(t)
	frame, err := Encode(m, KeyDolbyPrivate)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	frame[len(frame)-1] ^= 0xff

	got := pmd.NewModel(pmd.DefaultLimits)
	if err := Decode(frame, got); err == nil {
		t.Fatal("expected CRC mismatch error")
	}
}

func TestDecodeRequiresEmptyModel(t *testing.T) {
	m := buildModel(t)
	frame, err := Encode(m, KeyDolbyPrivate)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := Decode(frame, m); err == nil {
		t.Fatal("expected error decoding into a non-empty model")
	}
}
