package id

import "testing"

func TestWriteReadRoundTrip(t *testing.T) {
	cases := []EntityId{
		NullId,
		ConstructGenericId(TypeObject, AudioTypeNone, 0x1001),
		ConstructGenericId(TypeProgramme, AudioTypeNone, 0x1001),
		ConstructGenericId(TypeChannelFormat, AudioTypeNone, 1),
		ConstructChildId(ConstructGenericId(TypeChannelFormat, AudioTypeNone, 1), 1),
		ConstructGenericId(TypeTrackUID, AudioTypeNone, 1),
		// Every ChannelFormat created via core.Model.AddTarget carries a
		// non-null audio-type sub-tag; the textual form must preserve it.
		ConstructGenericId(TypeChannelFormat, AudioTypeDirectSpeakers, 3),
		ConstructGenericId(TypeChannelFormat, AudioTypeObjects, 0x1001),
		ConstructChildId(ConstructGenericId(TypeChannelFormat, AudioTypeDirectSpeakers, 3), 2),
	}
	for _, want := range cases {
		text := WriteId(want)
		got, err := ReadId(text)
		if err != nil {
			t.Fatalf("ReadId(%q): %v", text, err)
		}
		if got != want {
			t.Errorf("round trip mismatch for %q: got %#x, want %#x", text, uint64(got), uint64(want))
		}
	}
}

func TestReadIdAcceptsEmptyAndNULL(t *testing.T) {
	for _, s := range []string{"", "NULL"} {
		got, err := ReadId(s)
		if err != nil {
			t.Fatalf("ReadId(%q): %v", s, err)
		}
		if got != NullId {
			t.Errorf("ReadId(%q) = %#x, want NullId", s, uint64(got))
		}
	}
}

func TestWriteIdNull(t *testing.T) {
	if got := WriteId(NullId); got != "NULL" {
		t.Errorf("WriteId(NullId) = %q, want %q", got, "NULL")
	}
}

func TestReadIdUnknownPrefix(t *testing.T) {
	if _, err := ReadId("ZZ_0001"); err == nil {
		t.Error("expected error for unknown prefix, got nil")
	}
}

func TestReadIdRejectsMissingAudioTypeField(t *testing.T) {
	if _, err := ReadId("AC_1001"); err == nil {
		t.Error("expected error for a primary-only field with no audio-type prefix")
	}
}

// TestWriteReadRoundTripPreservesAudioType guards the concrete case
// core.Model.AddTarget relies on: every ChannelFormat id carries a non-null
// audio-type sub-tag, and it must survive a write/read round trip exactly.
func TestWriteReadRoundTripPreservesAudioType(t *testing.T) {
	want := ConstructGenericId(TypeChannelFormat, AudioTypeDirectSpeakers, 5)
	text := WriteId(want)
	got, err := ReadId(text)
	if err != nil {
		t.Fatalf("ReadId(%q): %v", text, err)
	}
	if got != want {
		t.Fatalf("round trip mismatch for %q: got %#x, want %#x", text, uint64(got), uint64(want))
	}
	if got.AudioType() != AudioTypeDirectSpeakers {
		t.Errorf("AudioType() = %v, want AudioTypeDirectSpeakers", got.AudioType())
	}
}

func TestGetParentId(t *testing.T) {
	parent := ConstructGenericId(TypeChannelFormat, AudioTypeNone, 7)
	child := ConstructChildId(parent, 3)
	got, ok := GetParentId(child)
	if !ok {
		t.Fatal("GetParentId reported no parent for block format child")
	}
	if got != parent {
		t.Errorf("GetParentId() = %#x, want %#x", uint64(got), uint64(parent))
	}

	avsParent := ConstructGenericId(TypeObject, AudioTypeNone, 5)
	avsChild := ConstructChildId(avsParent, 1)
	got, ok = GetParentId(avsChild)
	if !ok {
		t.Fatal("GetParentId reported no parent for alt-value-set child")
	}
	if got != avsParent {
		t.Errorf("GetParentId() = %#x, want %#x", uint64(got), uint64(avsParent))
	}

	if _, ok := GetParentId(ConstructGenericId(TypeSource, AudioTypeNone, 1)); ok {
		t.Error("expected no parent type for Source")
	}
}

func TestPrimarySecondaryRange(t *testing.T) {
	eid := Make(TypeObject, AudioTypeNone, MaxPrimary, MaxSecondary)
	if eid.Primary() != MaxPrimary {
		t.Errorf("Primary() = %#x, want %#x", eid.Primary(), MaxPrimary)
	}
	if eid.Secondary() != MaxSecondary {
		t.Errorf("Secondary() = %#x, want %#x", eid.Secondary(), MaxSecondary)
	}
}
