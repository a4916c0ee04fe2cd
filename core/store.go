/*
NAME
  store.go

DESCRIPTION
  store.go implements Model, the in-memory entity-relation store: the
  add/get/count/iterate API of §4.2, ID allocation policy, and the global
  invariants of §3.3.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package core implements the professional-metadata core model: a set of
// typed, ID-keyed entities plus the relations that assemble them into a
// playable audio scene (sources -> tracks -> channel formats -> pack
// formats -> objects -> contents -> programmes).
package core

import (
	"sort"

	"github.com/google/uuid"

	"github.com/ausocean/pmd/id"
	"github.com/ausocean/pmd/status"
)

// counterBase is the starting primary-sequence value for each entity type's
// allocation counter, per spec.md §4.2 and the dlb_adm reference's id
// allocation (presentations/contents/objects/groups start at 0x1001, tracks
// and other infrastructure entities start at 1).
var counterBase = map[id.EntityType]uint32{
	id.TypeSource:           1,
	id.TypeSourceGroup:      1,
	id.TypeTrackUID:         1,
	id.TypeChannelFormat:    1,
	id.TypePackFormat:       1,
	id.TypeStreamFormat:     1,
	id.TypeTrackFormat:      1,
	id.TypeObject:           0x1001,
	id.TypeElementGroup:     0x1001,
	id.TypeContent:          0x1001,
	id.TypeProgramme:        0x1001,
	id.TypeComplementaryRef: 1,
	id.TypeFrameFormat:      1,
	id.TypeFlow:             1,
	id.TypeProfileList:      1,
}

// Model is the entity-relation store. The zero value is not usable; call
// NewModel. Model is not safe for concurrent use (§5).
type Model struct {
	sources       map[id.EntityId]Source
	sourceGroups  map[id.EntityId]SourceGroup
	tracks        map[id.EntityId]AudioTrack
	targets       map[id.EntityId]Target
	targetGroups  map[id.EntityId]TargetGroup
	blockUpdates  map[id.EntityId]BlockUpdate
	altValueSets  map[id.EntityId]AlternativeValueSet
	elements      map[id.EntityId]AudioElement
	elementGroups map[id.EntityId]ElementGroup
	compRefs      map[id.EntityId]ComplementaryRef
	contentGroups map[id.EntityId]ContentGroup
	presentations map[id.EntityId]Presentation
	frameFormats  map[id.EntityId]FrameFormat

	sourceRels []SourceRelation
	elementRels []ElementRelation
	presRels    []PresentationRelation

	// Indices keyed on each relation's first column.
	sourceRelByGroup map[id.EntityId][]int
	sourceRelByTrack map[id.EntityId][]int
	elementRelByElem map[id.EntityId][]int
	presRelByPres    map[id.EntityId][]int

	// Parent -> child indices for subordinate entities.
	blockUpdatesByParent map[id.EntityId][]id.EntityId
	altValueSetsByParent map[id.EntityId][]id.EntityId

	profiles []Profile

	exists   map[id.EntityId]bool
	counters map[id.EntityType]uint32
	children map[id.EntityId]uint16 // next secondary sequence, keyed by parent id.

	flow uuid.UUID
}

// NewModel constructs an empty Model.
func NewModel() *Model {
	m := &Model{}
	m.reset()
	return m
}

func (m *Model) reset() {
	m.sources = make(map[id.EntityId]Source)
	m.sourceGroups = make(map[id.EntityId]SourceGroup)
	m.tracks = make(map[id.EntityId]AudioTrack)
	m.targets = make(map[id.EntityId]Target)
	m.targetGroups = make(map[id.EntityId]TargetGroup)
	m.blockUpdates = make(map[id.EntityId]BlockUpdate)
	m.altValueSets = make(map[id.EntityId]AlternativeValueSet)
	m.elements = make(map[id.EntityId]AudioElement)
	m.elementGroups = make(map[id.EntityId]ElementGroup)
	m.compRefs = make(map[id.EntityId]ComplementaryRef)
	m.contentGroups = make(map[id.EntityId]ContentGroup)
	m.presentations = make(map[id.EntityId]Presentation)
	m.frameFormats = make(map[id.EntityId]FrameFormat)

	m.sourceRels = nil
	m.elementRels = nil
	m.presRels = nil

	m.sourceRelByGroup = make(map[id.EntityId][]int)
	m.sourceRelByTrack = make(map[id.EntityId][]int)
	m.elementRelByElem = make(map[id.EntityId][]int)
	m.presRelByPres = make(map[id.EntityId][]int)

	m.blockUpdatesByParent = make(map[id.EntityId][]id.EntityId)
	m.altValueSetsByParent = make(map[id.EntityId][]id.EntityId)

	m.profiles = nil
	m.exists = make(map[id.EntityId]bool)
	m.counters = make(map[id.EntityType]uint32)
	m.children = make(map[id.EntityId]uint16)
	m.flow = uuid.Nil
}

// Clear empties the store and resets all allocation counters.
func (m *Model) Clear() { m.reset() }

// IsEmpty reports whether the store holds no entities.
func (m *Model) IsEmpty() bool { return len(m.exists) == 0 }

// allocID returns explicit if non-null (after a collision check), or
// allocates a fresh id of type t/at from that type's counter.
func (m *Model) allocID(t id.EntityType, at id.AudioType, explicit id.EntityId) (id.EntityId, error) {
	if !explicit.IsNull() {
		if explicit.Type() != t {
			return id.NullId, status.New(status.InvalidArgument, "id %s is not of type matching this entity", explicit)
		}
		if m.exists[explicit] {
			return id.NullId, status.New(status.NotUnique, "id %s already exists", explicit)
		}
		return explicit, nil
	}
	base, ok := counterBase[t]
	if !ok {
		base = 1
	}
	n := m.counters[t]
	if n == 0 {
		n = base
	}
	eid := id.ConstructGenericId(t, at, n)
	for m.exists[eid] {
		n++
		eid = id.ConstructGenericId(t, at, n)
	}
	m.counters[t] = n + 1
	return eid, nil
}

// allocChildID mirrors allocID for subordinate entities (BlockFormat under
// ChannelFormat, AlternativeValueSet under Object), whose secondary
// sequence is scoped to the parent's own namespace.
func (m *Model) allocChildID(parent id.EntityId, explicit id.EntityId) (id.EntityId, error) {
	if !explicit.IsNull() {
		if m.exists[explicit] {
			return id.NullId, status.New(status.NotUnique, "id %s already exists", explicit)
		}
		return explicit, nil
	}
	next := m.children[parent]
	if next == 0 {
		next = 1
	}
	child := id.ConstructChildId(parent, next)
	for m.exists[child] {
		next++
		child = id.ConstructChildId(parent, next)
	}
	m.children[parent] = next + 1
	return child, nil
}

func (m *Model) claim(eid id.EntityId) { m.exists[eid] = true }

// AddSourceGroup adds a SourceGroup. A null id allocates a fresh one.
func (m *Model) AddSourceGroup(group int, name Names, explicit id.EntityId) (id.EntityId, error) {
	eid, err := m.allocID(id.TypeSourceGroup, id.AudioTypeNone, explicit)
	if err != nil {
		return id.NullId, err
	}
	m.claim(eid)
	m.sourceGroups[eid] = SourceGroup{ID: eid, Group: group, Name: name}
	return eid, nil
}

// AddSource adds a Source. group and channel must both be > 0.
func (m *Model) AddSource(group, channel int, explicit id.EntityId) (id.EntityId, error) {
	if group <= 0 || channel <= 0 {
		return id.NullId, status.New(status.InvalidArgument, "source group and channel must be > 0")
	}
	eid, err := m.allocID(id.TypeSource, id.AudioTypeNone, explicit)
	if err != nil {
		return id.NullId, err
	}
	m.claim(eid)
	m.sources[eid] = Source{ID: eid, Group: group, Channel: channel}
	return eid, nil
}

// AddSourcesGroup bulk-creates count Sources in group, starting at
// startChannel, each with an independently caller-supplied-or-null id in
// ids. The final, fully-resolved ids are returned; AddSourcesGroup fails
// (leaving the store unchanged) if the resolved ids would not be distinct.
func (m *Model) AddSourcesGroup(group, startChannel, count int, ids []id.EntityId) ([]id.EntityId, error) {
	if count <= 0 {
		return nil, status.New(status.InvalidArgument, "count must be > 0")
	}
	if ids != nil && len(ids) != count {
		return nil, status.New(status.InvalidArgument, "len(ids) must equal count")
	}
	resolved := make([]id.EntityId, count)
	seen := make(map[id.EntityId]bool, count)
	for i := 0; i < count; i++ {
		var explicit id.EntityId
		if ids != nil {
			explicit = ids[i]
		}
		eid, err := m.allocID(id.TypeSource, id.AudioTypeNone, explicit)
		if err != nil {
			return nil, err
		}
		if seen[eid] {
			return nil, status.New(status.NotUnique, "duplicate id %s within batch", eid)
		}
		seen[eid] = true
		resolved[i] = eid
	}
	for i, eid := range resolved {
		m.claim(eid)
		m.sources[eid] = Source{ID: eid, Group: group, Channel: startChannel + i}
	}
	return resolved, nil
}

// AddAudioTrack adds a TrackUID.
func (m *Model) AddAudioTrack(sampleRate, bitDepth uint, explicit id.EntityId) (id.EntityId, error) {
	eid, err := m.allocID(id.TypeTrackUID, id.AudioTypeNone, explicit)
	if err != nil {
		return id.NullId, err
	}
	m.claim(eid)
	m.tracks[eid] = AudioTrack{ID: eid, SampleRate: sampleRate, BitDepth: bitDepth}
	return eid, nil
}

// AddTarget adds a ChannelFormat.
func (m *Model) AddTarget(at id.AudioType, speakerLabel, objectKind string, name Names, explicit id.EntityId) (id.EntityId, error) {
	if at <= id.AudioTypeNone || at >= id.AudioTypeLastCustom {
		return id.NullId, status.New(status.InvalidArgument, "audio type %d out of range", at)
	}
	eid, err := m.allocID(id.TypeChannelFormat, at, explicit)
	if err != nil {
		return id.NullId, err
	}
	m.claim(eid)
	m.targets[eid] = Target{ID: eid, AudioType: at, SpeakerLabel: speakerLabel, ObjectKind: objectKind, Name: name}
	return eid, nil
}

// AddTargetGroup adds a PackFormat. Exactly one of speakerConfig and
// objectClass must be non-empty (invariant 7, §3.3).
func (m *Model) AddTargetGroup(speakerConfig, objectClass string, dynamicAllowed bool, name Names, explicit id.EntityId) (id.EntityId, error) {
	if (speakerConfig == "") == (objectClass == "") {
		return id.NullId, status.New(status.InvalidArgument, "exactly one of speaker config or object class must be set")
	}
	eid, err := m.allocID(id.TypePackFormat, id.AudioTypeNone, explicit)
	if err != nil {
		return id.NullId, err
	}
	m.claim(eid)
	m.targetGroups[eid] = TargetGroup{ID: eid, SpeakerConfig: speakerConfig, ObjectClass: objectClass, DynamicObjectsAllowed: dynamicAllowed, Name: name}
	return eid, nil
}

// AddBlockUpdate adds a BlockFormat. Exactly one of parent and
// update.ID may be non-null: if parent is given, it must name an existing
// ChannelFormat and a fresh child id is synthesized beneath it.
func (m *Model) AddBlockUpdate(parent id.EntityId, update BlockUpdate) (id.EntityId, error) {
	haveParent := !parent.IsNull()
	haveID := !update.ID.IsNull()
	if haveParent == haveID {
		return id.NullId, status.New(status.InvalidArgument, "exactly one of parent id and update id must be set")
	}
	if haveParent {
		if _, ok := m.targetGroupsOrTargets(parent); !ok {
			return id.NullId, status.New(status.NotFound, "parent channel format %s does not exist", parent)
		}
		eid, err := m.allocChildID(parent, id.NullId)
		if err != nil {
			return id.NullId, err
		}
		update.ID = eid
		update.Parent = parent
	} else {
		derivedParent, ok := id.GetParentId(update.ID)
		if !ok || derivedParent.Type() != id.TypeChannelFormat {
			return id.NullId, status.New(status.InvalidArgument, "update id %s does not derive a channel format parent", update.ID)
		}
		if _, ok := m.targets[derivedParent]; !ok {
			return id.NullId, status.New(status.Error, "block update's encoded parent %s is not an existing channel format", derivedParent)
		}
		if m.exists[update.ID] {
			return id.NullId, status.New(status.NotUnique, "id %s already exists", update.ID)
		}
		update.Parent = derivedParent
	}
	m.claim(update.ID)
	m.blockUpdates[update.ID] = update
	m.blockUpdatesByParent[update.Parent] = append(m.blockUpdatesByParent[update.Parent], update.ID)
	return update.ID, nil
}

func (m *Model) targetGroupsOrTargets(eid id.EntityId) (Target, bool) {
	t, ok := m.targets[eid]
	return t, ok
}

// AddAudioElement adds an Object.
func (m *Model) AddAudioElement(gain Gain, interaction ObjectInteraction, name Names, explicit id.EntityId) (id.EntityId, error) {
	eid, err := m.allocID(id.TypeObject, id.AudioTypeNone, explicit)
	if err != nil {
		return id.NullId, err
	}
	m.claim(eid)
	m.elements[eid] = AudioElement{ID: eid, Gain: gain, Interaction: interaction, Name: name}
	return eid, nil
}

// AddElementGroup adds an ElementGroup.
func (m *Model) AddElementGroup(gain Gain, name Names, explicit id.EntityId) (id.EntityId, error) {
	eid, err := m.allocID(id.TypeElementGroup, id.AudioTypeNone, explicit)
	if err != nil {
		return id.NullId, err
	}
	m.claim(eid)
	m.elementGroups[eid] = ElementGroup{ID: eid, Gain: gain, Name: name}
	return eid, nil
}

// AddAltValueSet adds an AlternativeValueSet. As with AddBlockUpdate,
// exactly one of parent and avs.ID may be non-null, and AVS entities may
// carry labels but never a primary name.
func (m *Model) AddAltValueSet(parent id.EntityId, avs AlternativeValueSet, labels Names) (id.EntityId, error) {
	if _, ok := labels.Primary(); ok {
		return id.NullId, status.New(status.InvalidArgument, "alt value sets may not carry a primary name")
	}
	haveParent := !parent.IsNull()
	haveID := !avs.ID.IsNull()
	if haveParent == haveID {
		return id.NullId, status.New(status.InvalidArgument, "exactly one of parent id and avs id must be set")
	}
	if haveParent {
		if _, ok := m.elements[parent]; !ok {
			return id.NullId, status.New(status.NotFound, "parent audio element %s does not exist", parent)
		}
		eid, err := m.allocChildID(parent, id.NullId)
		if err != nil {
			return id.NullId, err
		}
		avs.ID = eid
		avs.Parent = parent
	} else {
		derivedParent, ok := id.GetParentId(avs.ID)
		if !ok || derivedParent.Type() != id.TypeObject {
			return id.NullId, status.New(status.InvalidArgument, "avs id %s does not derive an object parent", avs.ID)
		}
		if _, ok := m.elements[derivedParent]; !ok {
			return id.NullId, status.New(status.Error, "alt value set's encoded parent %s is not an existing audio element", derivedParent)
		}
		if m.exists[avs.ID] {
			return id.NullId, status.New(status.NotUnique, "id %s already exists", avs.ID)
		}
		avs.Parent = derivedParent
	}
	avs.Labels = labels
	m.claim(avs.ID)
	m.altValueSets[avs.ID] = avs
	m.altValueSetsByParent[avs.Parent] = append(m.altValueSetsByParent[avs.Parent], avs.ID)
	return avs.ID, nil
}

// AddComplementaryElement adds a ComplementaryRef. Both the referenced and
// leader audio elements must already exist; labels are only accepted when
// comp designates the leader (referenced == leader).
func (m *Model) AddComplementaryElement(referenced, leader id.EntityId, sequence int, labels *Names) (id.EntityId, error) {
	if _, ok := m.elements[referenced]; !ok {
		return id.NullId, status.New(status.NotFound, "referenced audio element %s does not exist", referenced)
	}
	if _, ok := m.elements[leader]; !ok {
		return id.NullId, status.New(status.NotFound, "leader audio element %s does not exist", leader)
	}
	isLeader := referenced == leader
	if labels != nil && !isLeader {
		return id.NullId, status.New(status.InvalidArgument, "labels are only permitted on the leader complementary ref")
	}
	eid, err := m.allocID(id.TypeComplementaryRef, id.AudioTypeNone, id.NullId)
	if err != nil {
		return id.NullId, err
	}
	ref := ComplementaryRef{ID: eid, Referenced: referenced, Leader: leader, Sequence: sequence}
	if labels != nil {
		ref.Labels = *labels
	}
	m.claim(eid)
	m.compRefs[eid] = ref
	return eid, nil
}

// AddContentGroup adds a Content.
func (m *Model) AddContentGroup(kind ContentKind, loudness Loudness, language string, name Names, explicit id.EntityId) (id.EntityId, error) {
	eid, err := m.allocID(id.TypeContent, id.AudioTypeNone, explicit)
	if err != nil {
		return id.NullId, err
	}
	m.claim(eid)
	m.contentGroups[eid] = ContentGroup{ID: eid, Kind: kind, Loudness: loudness, Language: language, Name: name}
	return eid, nil
}

// AddPresentation adds a Programme.
func (m *Model) AddPresentation(loudness Loudness, name Names, explicit id.EntityId) (id.EntityId, error) {
	eid, err := m.allocID(id.TypeProgramme, id.AudioTypeNone, explicit)
	if err != nil {
		return id.NullId, err
	}
	m.claim(eid)
	m.presentations[eid] = Presentation{ID: eid, Loudness: loudness, Name: name}
	return eid, nil
}

// AddFrameFormat adds the single FrameFormat entity describing this frame's
// timing and flow identity.
func (m *Model) AddFrameFormat(ff FrameFormat, explicit id.EntityId) (id.EntityId, error) {
	eid, err := m.allocID(id.TypeFrameFormat, id.AudioTypeNone, explicit)
	if err != nil {
		return id.NullId, err
	}
	ff.ID = eid
	ff.Type = "full"
	m.claim(eid)
	m.frameFormats[eid] = ff
	m.flow = ff.Flow
	return eid, nil
}

// AddSourceRelation adds a (SourceGroup, Source, AudioTrack) tuple. Every
// non-null column must reference an existing entity of the matching type
// (invariant 2); the full tuple must not already exist (invariant, §8).
func (m *Model) AddSourceRelation(r SourceRelation) error {
	if err := m.checkCol(r.SourceGroup, id.TypeSourceGroup); err != nil {
		return err
	}
	if err := m.checkCol(r.Source, id.TypeSource); err != nil {
		return err
	}
	if err := m.checkCol(r.AudioTrack, id.TypeTrackUID); err != nil {
		return err
	}
	for _, existing := range m.sourceRels {
		if existing.equal(r) {
			return status.New(status.NotUnique, "source relation already exists")
		}
	}
	idx := len(m.sourceRels)
	m.sourceRels = append(m.sourceRels, r)
	m.sourceRelByGroup[r.SourceGroup] = append(m.sourceRelByGroup[r.SourceGroup], idx)
	m.sourceRelByTrack[r.AudioTrack] = append(m.sourceRelByTrack[r.AudioTrack], idx)
	return nil
}

// AddElementRelation adds an (AudioElement, TargetGroup, Target,
// AudioTrack) tuple.
func (m *Model) AddElementRelation(r ElementRelation) error {
	if err := m.checkCol(r.AudioElement, id.TypeObject); err != nil {
		return err
	}
	if err := m.checkCol(r.TargetGroup, id.TypePackFormat); err != nil {
		return err
	}
	if err := m.checkCol(r.Target, id.TypeChannelFormat); err != nil {
		return err
	}
	if err := m.checkCol(r.AudioTrack, id.TypeTrackUID); err != nil {
		return err
	}
	for _, existing := range m.elementRels {
		if existing.equal(r) {
			return status.New(status.NotUnique, "element relation already exists")
		}
	}
	idx := len(m.elementRels)
	m.elementRels = append(m.elementRels, r)
	m.elementRelByElem[r.AudioElement] = append(m.elementRelByElem[r.AudioElement], idx)
	return nil
}

// AddPresentationRelation adds a (Presentation, ContentGroup, ElementGroup,
// AudioElement, AltValueSet, ComplementaryRef) tuple. If AltValueSet is
// non-null it must reference the same AudioElement named in this tuple
// (invariant 5, §3.3).
func (m *Model) AddPresentationRelation(r PresentationRelation) error {
	if err := m.checkCol(r.Presentation, id.TypeProgramme); err != nil {
		return err
	}
	if err := m.checkCol(r.ContentGroup, id.TypeContent); err != nil {
		return err
	}
	if err := m.checkCol(r.ElementGroup, id.TypeElementGroup); err != nil {
		return err
	}
	if err := m.checkCol(r.AudioElement, id.TypeObject); err != nil {
		return err
	}
	if err := m.checkCol(r.AltValueSet, id.TypeAltValueSet); err != nil {
		return err
	}
	if err := m.checkCol(r.ComplementaryRef, id.TypeComplementaryRef); err != nil {
		return err
	}
	if !r.AltValueSet.IsNull() {
		avs := m.altValueSets[r.AltValueSet]
		if avs.Parent != r.AudioElement {
			return status.New(status.Error, "alt value set %s does not belong to audio element %s", r.AltValueSet, r.AudioElement)
		}
	}
	for _, existing := range m.presRels {
		if existing.equal(r) {
			return status.New(status.NotUnique, "presentation relation already exists")
		}
	}
	idx := len(m.presRels)
	m.presRels = append(m.presRels, r)
	m.presRelByPres[r.Presentation] = append(m.presRelByPres[r.Presentation], idx)
	return nil
}

// checkCol validates that a possibly-null relation column refers to an
// existing entity of the expected type.
func (m *Model) checkCol(eid id.EntityId, want id.EntityType) error {
	if eid.IsNull() {
		return nil
	}
	if eid.Type() != want {
		return status.New(status.InvalidArgument, "id %s is not of the expected type", eid)
	}
	if !m.exists[eid] {
		return status.New(status.NotFound, "id %s does not exist", eid)
	}
	return nil
}

// CountEntities returns the number of entities of type t currently in the
// store.
func (m *Model) CountEntities(t id.EntityType) int {
	switch t {
	case id.TypeSource:
		return len(m.sources)
	case id.TypeSourceGroup:
		return len(m.sourceGroups)
	case id.TypeTrackUID:
		return len(m.tracks)
	case id.TypeChannelFormat:
		return len(m.targets)
	case id.TypePackFormat:
		return len(m.targetGroups)
	case id.TypeBlockFormat:
		return len(m.blockUpdates)
	case id.TypeAltValueSet:
		return len(m.altValueSets)
	case id.TypeObject:
		return len(m.elements)
	case id.TypeElementGroup:
		return len(m.elementGroups)
	case id.TypeComplementaryRef:
		return len(m.compRefs)
	case id.TypeContent:
		return len(m.contentGroups)
	case id.TypeProgramme:
		return len(m.presentations)
	case id.TypeFrameFormat:
		return len(m.frameFormats)
	default:
		return 0
	}
}

// ForEachEntityId calls fn once for every entity id of type t, in a stable
// but unspecified order, stopping early if fn returns an error.
func (m *Model) ForEachEntityId(t id.EntityType, fn func(id.EntityId) error) error {
	var ids []id.EntityId
	switch t {
	case id.TypeSource:
		for k := range m.sources {
			ids = append(ids, k)
		}
	case id.TypeSourceGroup:
		for k := range m.sourceGroups {
			ids = append(ids, k)
		}
	case id.TypeTrackUID:
		for k := range m.tracks {
			ids = append(ids, k)
		}
	case id.TypeChannelFormat:
		for k := range m.targets {
			ids = append(ids, k)
		}
	case id.TypePackFormat:
		for k := range m.targetGroups {
			ids = append(ids, k)
		}
	case id.TypeBlockFormat:
		for k := range m.blockUpdates {
			ids = append(ids, k)
		}
	case id.TypeAltValueSet:
		for k := range m.altValueSets {
			ids = append(ids, k)
		}
	case id.TypeObject:
		for k := range m.elements {
			ids = append(ids, k)
		}
	case id.TypeElementGroup:
		for k := range m.elementGroups {
			ids = append(ids, k)
		}
	case id.TypeComplementaryRef:
		for k := range m.compRefs {
			ids = append(ids, k)
		}
	case id.TypeContent:
		for k := range m.contentGroups {
			ids = append(ids, k)
		}
	case id.TypeProgramme:
		for k := range m.presentations {
			ids = append(ids, k)
		}
	case id.TypeFrameFormat:
		for k := range m.frameFormats {
			ids = append(ids, k)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, eid := range ids {
		if err := fn(eid); err != nil {
			return err
		}
	}
	return nil
}

// ForEachAudioElementId is a convenience wrapper for iterating Object ids.
func (m *Model) ForEachAudioElementId(fn func(id.EntityId) error) error {
	return m.ForEachEntityId(id.TypeObject, fn)
}

// ForEachSource calls fn with each stored Source value.
func (m *Model) ForEachSource(fn func(Source) error) error {
	for _, s := range m.sources {
		if err := fn(s); err != nil {
			return err
		}
	}
	return nil
}

// GetSource, GetAudioElement, etc. are direct lookups used by the bundled
// view builders and by the PMD bridge.

func (m *Model) GetSource(eid id.EntityId) (Source, bool)             { v, ok := m.sources[eid]; return v, ok }
func (m *Model) GetSourceGroup(eid id.EntityId) (SourceGroup, bool)   { v, ok := m.sourceGroups[eid]; return v, ok }
func (m *Model) GetAudioTrack(eid id.EntityId) (AudioTrack, bool)     { v, ok := m.tracks[eid]; return v, ok }
func (m *Model) GetTarget(eid id.EntityId) (Target, bool)             { v, ok := m.targets[eid]; return v, ok }
func (m *Model) GetTargetGroup(eid id.EntityId) (TargetGroup, bool)   { v, ok := m.targetGroups[eid]; return v, ok }
func (m *Model) GetBlockUpdate(eid id.EntityId) (BlockUpdate, bool)   { v, ok := m.blockUpdates[eid]; return v, ok }
func (m *Model) GetAltValueSet(eid id.EntityId) (AlternativeValueSet, bool) {
	v, ok := m.altValueSets[eid]
	return v, ok
}
func (m *Model) GetAudioElement(eid id.EntityId) (AudioElement, bool) { v, ok := m.elements[eid]; return v, ok }
func (m *Model) GetElementGroup(eid id.EntityId) (ElementGroup, bool) { v, ok := m.elementGroups[eid]; return v, ok }
func (m *Model) GetComplementaryRef(eid id.EntityId) (ComplementaryRef, bool) {
	v, ok := m.compRefs[eid]
	return v, ok
}
func (m *Model) GetContentGroup(eid id.EntityId) (ContentGroup, bool) { v, ok := m.contentGroups[eid]; return v, ok }
func (m *Model) GetPresentation(eid id.EntityId) (Presentation, bool) {
	v, ok := m.presentations[eid]
	return v, ok
}
func (m *Model) GetFrameFormat(eid id.EntityId) (FrameFormat, bool) { v, ok := m.frameFormats[eid]; return v, ok }

// BlockUpdatesOf returns the BlockUpdates owned by channel format parent,
// via the parent-keyed index (O(1) average).
func (m *Model) BlockUpdatesOf(parent id.EntityId) []BlockUpdate {
	ids := m.blockUpdatesByParent[parent]
	out := make([]BlockUpdate, 0, len(ids))
	for _, eid := range ids {
		out = append(out, m.blockUpdates[eid])
	}
	return out
}

// AltValueSetsOf returns the AlternativeValueSets owned by object parent,
// via the parent-keyed index (O(1) average).
func (m *Model) AltValueSetsOf(parent id.EntityId) []AlternativeValueSet {
	ids := m.altValueSetsByParent[parent]
	out := make([]AlternativeValueSet, 0, len(ids))
	for _, eid := range ids {
		out = append(out, m.altValueSets[eid])
	}
	return out
}

// SourceRelationsByTrack returns the source relation rows for AudioTrack
// eid, via the track-keyed index (O(1) average).
func (m *Model) SourceRelationsByTrack(track id.EntityId) []SourceRelation {
	idxs := m.sourceRelByTrack[track]
	out := make([]SourceRelation, len(idxs))
	for i, idx := range idxs {
		out[i] = m.sourceRels[idx]
	}
	return out
}

// ElementRelationsOf returns the element relation rows for element eid, via
// the element-keyed index (O(1) average).
func (m *Model) ElementRelationsOf(eid id.EntityId) []ElementRelation {
	idxs := m.elementRelByElem[eid]
	out := make([]ElementRelation, len(idxs))
	for i, idx := range idxs {
		out[i] = m.elementRels[idx]
	}
	return out
}

// SourceRelationsOf returns the source relation rows for source group eid.
func (m *Model) SourceRelationsOf(group id.EntityId) []SourceRelation {
	idxs := m.sourceRelByGroup[group]
	out := make([]SourceRelation, len(idxs))
	for i, idx := range idxs {
		out[i] = m.sourceRels[idx]
	}
	return out
}

// PresentationRelationsOf returns the presentation relation rows for
// presentation eid, via the presentation-keyed index (O(1) average).
func (m *Model) PresentationRelationsOf(eid id.EntityId) []PresentationRelation {
	idxs := m.presRelByPres[eid]
	out := make([]PresentationRelation, len(idxs))
	for i, idx := range idxs {
		out[i] = m.presRels[idx]
	}
	return out
}

// GetFlowId returns the flow UUID carried by the store's FrameFormat, as a
// 36-byte canonical string.
func (m *Model) GetFlowId() (string, error) {
	if m.flow == uuid.Nil {
		return "", status.New(status.NotFound, "no frame format has been added")
	}
	return m.flow.String(), nil
}
