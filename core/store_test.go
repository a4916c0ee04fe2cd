package core

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/ausocean/pmd/id"
	"github.com/ausocean/pmd/status"
)

func TestAddSourceGroupAllocatesSequentialIds(t *testing.T) {
	m := NewModel()
	g1, err := m.AddSourceGroup(1, NewNames(2), id.NullId)
	if err != nil {
		t.Fatalf("AddSourceGroup: %v", err)
	}
	g2, err := m.AddSourceGroup(2, NewNames(2), id.NullId)
	if err != nil {
		t.Fatalf("AddSourceGroup: %v", err)
	}
	if g1 == g2 {
		t.Fatalf("expected distinct ids, got %s twice", g1)
	}
	if g1.Type() != id.TypeSourceGroup || g2.Type() != id.TypeSourceGroup {
		t.Errorf("wrong entity type: %s, %s", g1.Type(), g2.Type())
	}
}

func TestAddSourceRejectsNonPositiveGroupOrChannel(t *testing.T) {
	m := NewModel()
	if _, err := m.AddSource(0, 1, id.NullId); err == nil {
		t.Error("expected error for zero group")
	}
	if _, err := m.AddSource(1, 0, id.NullId); err == nil {
		t.Error("expected error for zero channel")
	}
}

func TestAllocIDRejectsDuplicateExplicitId(t *testing.T) {
	m := NewModel()
	explicit := id.ConstructGenericId(id.TypeSource, id.AudioTypeNone, 5)
	if _, err := m.AddSource(1, 1, explicit); err != nil {
		t.Fatalf("first AddSource: %v", err)
	}
	_, err := m.AddSource(1, 2, explicit)
	if err == nil {
		t.Fatal("expected error for duplicate explicit id")
	}
	if !errors.Is(err, status.ErrNotUnique) {
		t.Errorf("err = %v, want NotUnique", err)
	}
}

func TestAllocIDRejectsExplicitIdOfWrongType(t *testing.T) {
	m := NewModel()
	wrongType := id.ConstructGenericId(id.TypeObject, id.AudioTypeNone, 1)
	_, err := m.AddSource(1, 1, wrongType)
	if !errors.Is(err, status.ErrInvalidArgument) {
		t.Errorf("err = %v, want InvalidArgument", err)
	}
}

func TestAllocIDSkipsOverExplicitlyClaimedValues(t *testing.T) {
	m := NewModel()
	explicit := id.ConstructGenericId(id.TypeSourceGroup, id.AudioTypeNone, 1)
	if _, err := m.AddSourceGroup(1, NewNames(2), explicit); err != nil {
		t.Fatalf("AddSourceGroup(explicit): %v", err)
	}
	// The counter starts at 1 for SourceGroup; since 1 is already claimed,
	// the next auto-allocated id must skip past it.
	next, err := m.AddSourceGroup(2, NewNames(2), id.NullId)
	if err != nil {
		t.Fatalf("AddSourceGroup(auto): %v", err)
	}
	if next == explicit {
		t.Fatalf("auto-allocated id collided with explicit id %s", explicit)
	}
}

func TestAddTargetGroupRequiresExactlyOneOfSpeakerConfigOrObjectClass(t *testing.T) {
	m := NewModel()
	if _, err := m.AddTargetGroup("", "", false, NewNames(2), id.NullId); err == nil {
		t.Error("expected error when neither is set")
	}
	if _, err := m.AddTargetGroup("5.1", "objects", false, NewNames(2), id.NullId); err == nil {
		t.Error("expected error when both are set")
	}
	if _, err := m.AddTargetGroup("5.1", "", false, NewNames(2), id.NullId); err != nil {
		t.Errorf("unexpected error for speaker config only: %v", err)
	}
}

func TestAddBlockUpdateByParentAllocatesChildUnderChannelFormat(t *testing.T) {
	m := NewModel()
	target, err := m.AddTarget(id.AudioTypeDirectSpeakers, "L", "", NewNames(2), id.NullId)
	if err != nil {
		t.Fatalf("AddTarget: %v", err)
	}
	bu, err := m.AddBlockUpdate(target, BlockUpdate{Gain: UnityGain(Linear)})
	if err != nil {
		t.Fatalf("AddBlockUpdate: %v", err)
	}
	parent, ok := id.GetParentId(bu)
	if !ok || parent != target {
		t.Errorf("GetParentId(%s) = %s, %v, want %s, true", bu, parent, ok, target)
	}
	got := m.BlockUpdatesOf(target)
	if len(got) != 1 || got[0].ID != bu {
		t.Errorf("BlockUpdatesOf(%s) = %v, want one entry with id %s", target, got, bu)
	}
}

func TestAddBlockUpdateRejectsMissingParent(t *testing.T) {
	m := NewModel()
	bogus := id.ConstructGenericId(id.TypeChannelFormat, id.AudioTypeNone, 99)
	if _, err := m.AddBlockUpdate(bogus, BlockUpdate{}); !errors.Is(err, status.ErrNotFound) {
		t.Errorf("err = %v, want NotFound", err)
	}
}

func TestAddBlockUpdateRejectsBothOrNeitherOfParentAndId(t *testing.T) {
	m := NewModel()
	target, err := m.AddTarget(id.AudioTypeDirectSpeakers, "L", "", NewNames(2), id.NullId)
	if err != nil {
		t.Fatalf("AddTarget: %v", err)
	}
	if _, err := m.AddBlockUpdate(id.NullId, BlockUpdate{}); err == nil {
		t.Error("expected error when neither parent nor id set")
	}
	explicitChild := id.ConstructChildId(target, 1)
	if _, err := m.AddBlockUpdate(target, BlockUpdate{ID: explicitChild}); err == nil {
		t.Error("expected error when both parent and id set")
	}
}

func TestAddAltValueSetRejectsPrimaryName(t *testing.T) {
	m := NewModel()
	el, err := m.AddAudioElement(UnityGain(Linear), ObjectInteraction{}, NewNames(8), id.NullId)
	if err != nil {
		t.Fatalf("AddAudioElement: %v", err)
	}
	var labels Names = NewNames(8)
	if err := labels.AddPrimary("oops", ""); err != nil {
		t.Fatalf("AddPrimary: %v", err)
	}
	if _, err := m.AddAltValueSet(el, AlternativeValueSet{}, labels); err == nil {
		t.Error("expected error for alt value set carrying a primary name")
	}
}

func TestAddAltValueSetByParentAndLookup(t *testing.T) {
	m := NewModel()
	el, err := m.AddAudioElement(UnityGain(Linear), ObjectInteraction{}, NewNames(8), id.NullId)
	if err != nil {
		t.Fatalf("AddAudioElement: %v", err)
	}
	avsID, err := m.AddAltValueSet(el, AlternativeValueSet{HasGain: true, Gain: NewGain(0.5, Linear)}, NewNames(8))
	if err != nil {
		t.Fatalf("AddAltValueSet: %v", err)
	}
	got := m.AltValueSetsOf(el)
	if len(got) != 1 || got[0].ID != avsID {
		t.Fatalf("AltValueSetsOf(%s) = %v, want one entry with id %s", el, got, avsID)
	}
	if got[0].Parent != el {
		t.Errorf("Parent = %s, want %s", got[0].Parent, el)
	}
}

func TestAddComplementaryElementRequiresExistingElements(t *testing.T) {
	m := NewModel()
	bogus := id.ConstructGenericId(id.TypeObject, id.AudioTypeNone, 1)
	if _, err := m.AddComplementaryElement(bogus, bogus, 0, nil); !errors.Is(err, status.ErrNotFound) {
		t.Errorf("err = %v, want NotFound", err)
	}
}

func TestAddComplementaryElementRejectsLabelsOnNonLeader(t *testing.T) {
	m := NewModel()
	leader, err := m.AddAudioElement(UnityGain(Linear), ObjectInteraction{}, NewNames(8), id.NullId)
	if err != nil {
		t.Fatalf("AddAudioElement(leader): %v", err)
	}
	member, err := m.AddAudioElement(UnityGain(Linear), ObjectInteraction{}, NewNames(8), id.NullId)
	if err != nil {
		t.Fatalf("AddAudioElement(member): %v", err)
	}
	labels := NewNames(8)
	if _, err := m.AddComplementaryElement(member, leader, 1, &labels); err == nil {
		t.Error("expected error for labels on a non-leader complementary ref")
	}
	if _, err := m.AddComplementaryElement(leader, leader, 0, &labels); err != nil {
		t.Errorf("unexpected error for leader with labels: %v", err)
	}
}

func TestAddSourceRelationValidatesColumnsAndRejectsDuplicates(t *testing.T) {
	m := NewModel()
	group, err := m.AddSourceGroup(1, NewNames(2), id.NullId)
	if err != nil {
		t.Fatalf("AddSourceGroup: %v", err)
	}
	src, err := m.AddSource(1, 1, id.NullId)
	if err != nil {
		t.Fatalf("AddSource: %v", err)
	}
	track, err := m.AddAudioTrack(48000, 24, id.NullId)
	if err != nil {
		t.Fatalf("AddAudioTrack: %v", err)
	}

	bogus := id.ConstructGenericId(id.TypeTrackUID, id.AudioTypeNone, 999)
	if err := m.AddSourceRelation(SourceRelation{SourceGroup: group, Source: src, AudioTrack: bogus}); !errors.Is(err, status.ErrNotFound) {
		t.Errorf("err = %v, want NotFound for dangling reference", err)
	}

	rel := SourceRelation{SourceGroup: group, Source: src, AudioTrack: track}
	if err := m.AddSourceRelation(rel); err != nil {
		t.Fatalf("AddSourceRelation: %v", err)
	}
	if err := m.AddSourceRelation(rel); !errors.Is(err, status.ErrNotUnique) {
		t.Errorf("err = %v, want NotUnique for duplicate tuple", err)
	}

	got := m.SourceRelationsByTrack(track)
	if len(got) != 1 || got[0] != rel {
		t.Errorf("SourceRelationsByTrack(%s) = %v, want [%v]", track, got, rel)
	}
	got2 := m.SourceRelationsOf(group)
	if len(got2) != 1 || got2[0] != rel {
		t.Errorf("SourceRelationsOf(%s) = %v, want [%v]", group, got2, rel)
	}
}

func TestAddPresentationRelationChecksAltValueSetOwnership(t *testing.T) {
	m := NewModel()
	pres, err := m.AddPresentation(Loudness{}, NewNames(8), id.NullId)
	if err != nil {
		t.Fatalf("AddPresentation: %v", err)
	}
	elA, err := m.AddAudioElement(UnityGain(Linear), ObjectInteraction{}, NewNames(8), id.NullId)
	if err != nil {
		t.Fatalf("AddAudioElement(A): %v", err)
	}
	elB, err := m.AddAudioElement(UnityGain(Linear), ObjectInteraction{}, NewNames(8), id.NullId)
	if err != nil {
		t.Fatalf("AddAudioElement(B): %v", err)
	}
	avs, err := m.AddAltValueSet(elA, AlternativeValueSet{}, NewNames(8))
	if err != nil {
		t.Fatalf("AddAltValueSet: %v", err)
	}

	// avs belongs to elA; using it with elB must fail.
	bad := PresentationRelation{Presentation: pres, AudioElement: elB, AltValueSet: avs}
	if err := m.AddPresentationRelation(bad); err == nil {
		t.Error("expected error for alt value set not belonging to the named audio element")
	}

	good := PresentationRelation{Presentation: pres, AudioElement: elA, AltValueSet: avs}
	if err := m.AddPresentationRelation(good); err != nil {
		t.Fatalf("AddPresentationRelation: %v", err)
	}
	if err := m.AddPresentationRelation(good); !errors.Is(err, status.ErrNotUnique) {
		t.Errorf("err = %v, want NotUnique for duplicate tuple", err)
	}

	got := m.PresentationRelationsOf(pres)
	if len(got) != 1 || got[0] != good {
		t.Errorf("PresentationRelationsOf(%s) = %v, want [%v]", pres, got, good)
	}
}

func TestClearResetsCountersAndEmptiesStore(t *testing.T) {
	m := NewModel()
	first, err := m.AddSourceGroup(1, NewNames(2), id.NullId)
	if err != nil {
		t.Fatalf("AddSourceGroup: %v", err)
	}
	if m.IsEmpty() {
		t.Fatal("expected non-empty store after Add")
	}
	if m.CountEntities(id.TypeSourceGroup) != 1 {
		t.Fatalf("CountEntities = %d, want 1", m.CountEntities(id.TypeSourceGroup))
	}

	m.Clear()
	if !m.IsEmpty() {
		t.Fatal("expected empty store after Clear")
	}
	if m.CountEntities(id.TypeSourceGroup) != 0 {
		t.Fatalf("CountEntities after Clear = %d, want 0", m.CountEntities(id.TypeSourceGroup))
	}

	// The allocation counter must also reset, so the same explicit id is
	// free to reuse and a fresh auto-allocation reproduces the same value.
	again, err := m.AddSourceGroup(1, NewNames(2), id.NullId)
	if err != nil {
		t.Fatalf("AddSourceGroup after Clear: %v", err)
	}
	if again != first {
		t.Errorf("id after Clear = %s, want %s (counters should restart)", again, first)
	}
}

func TestCountEntitiesAndForEachEntityId(t *testing.T) {
	m := NewModel()
	for i := 0; i < 3; i++ {
		if _, err := m.AddSourceGroup(i+1, NewNames(2), id.NullId); err != nil {
			t.Fatalf("AddSourceGroup: %v", err)
		}
	}
	if n := m.CountEntities(id.TypeSourceGroup); n != 3 {
		t.Errorf("CountEntities = %d, want 3", n)
	}
	seen := make(map[id.EntityId]bool)
	err := m.ForEachEntityId(id.TypeSourceGroup, func(eid id.EntityId) error {
		seen[eid] = true
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachEntityId: %v", err)
	}
	if len(seen) != 3 {
		t.Errorf("visited %d ids, want 3", len(seen))
	}
}

func TestGetFlowIdRequiresFrameFormat(t *testing.T) {
	m := NewModel()
	if _, err := m.GetFlowId(); !errors.Is(err, status.ErrNotFound) {
		t.Errorf("err = %v, want NotFound before any frame format is added", err)
	}
	if _, err := m.AddFrameFormat(FrameFormat{Flow: uuid.New()}, id.NullId); err != nil {
		t.Fatalf("AddFrameFormat: %v", err)
	}
	flowID, err := m.GetFlowId()
	if err != nil {
		t.Fatalf("GetFlowId: %v", err)
	}
	if len(flowID) != 36 {
		t.Errorf("GetFlowId() = %q, want a 36-byte canonical UUID string", flowID)
	}
}
