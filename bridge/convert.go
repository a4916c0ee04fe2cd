/*
NAME
  convert.go

DESCRIPTION
  convert.go implements the two one-shot conversions between a PMD model
  and a core model (§4.4): ConvertToCoreModel expands PMD's compact
  signal-indexed tables into the core model's typed entity/relation store;
  ConvertToPMDModel is its inverse, failing if the core model carries
  constructs beyond PMD's profile.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bridge implements the one-shot conversions between the PMD and
// core models, and the lazily-converting Combo container that holds both.
package bridge

import (
	"github.com/pkg/errors"

	"github.com/ausocean/pmd/core"
	"github.com/ausocean/pmd/id"
	"github.com/ausocean/pmd/pmd"
)

// defaultSampleRate and defaultBitDepth are used for AudioTracks
// synthesized from PMD signals, which carry no per-signal sample format
// of their own.
const (
	defaultSampleRate = 48000
	defaultBitDepth   = 24
)

func namesOf(text string) core.Names {
	n := core.NewNames(1)
	if text != "" {
		_ = n.AddPrimary(text, "")
	}
	return n
}

func primaryText(n core.Names) string {
	p, ok := n.Primary()
	if !ok {
		return ""
	}
	return p.Text
}

// contentKindFromTags derives a ContentGroup kind from a bed's
// conformance tags. Objects and untagged beds yield ContentUndefined.
func contentKindFromTags(tags []pmd.ConformanceTag) core.ContentKind {
	for _, t := range tags {
		switch t {
		case pmd.TagDialogue:
			return core.ContentDialogue
		case pmd.TagBackgroundMusic, pmd.TagMusicAndLyrics:
			return core.ContentMusic
		case pmd.TagMainMix, pmd.TagCompleteMain:
			return core.ContentMixed
		case pmd.TagCommentary:
			return core.ContentEffects
		}
	}
	return core.ContentUndefined
}

// ConvertToCoreModel expands p into a freshly-built core model.
func ConvertToCoreModel(p *pmd.Model) (*core.Model, error) {
	m := core.NewModel()

	group, err := m.AddSourceGroup(1, core.Names{}, id.NullId)
	if err != nil {
		return nil, errors.Wrap(err, "bridge: AddSourceGroup")
	}

	trackOf := make(map[uint8]id.EntityId)
	for _, sig := range p.Signals() {
		track, err := m.AddAudioTrack(defaultSampleRate, defaultBitDepth, id.NullId)
		if err != nil {
			return nil, errors.Wrapf(err, "bridge: AddAudioTrack for signal %d", sig)
		}
		src, err := m.AddSource(1, int(sig), id.NullId)
		if err != nil {
			return nil, errors.Wrapf(err, "bridge: AddSource for signal %d", sig)
		}
		if err := m.AddSourceRelation(core.SourceRelation{SourceGroup: group, Source: src, AudioTrack: track}); err != nil {
			return nil, errors.Wrap(err, "bridge: AddSourceRelation")
		}
		trackOf[sig] = track
	}

	elementOfBed := make(map[int]id.EntityId)
	for _, b := range p.Beds() {
		layout, err := layoutFor(b.Config)
		if err != nil {
			return nil, errors.Wrapf(err, "bridge: bed %d", b.ID)
		}
		pack, err := m.AddTargetGroup(b.Config, "", false, namesOf(b.Label), id.NullId)
		if err != nil {
			return nil, errors.Wrapf(err, "bridge: AddTargetGroup for bed %d", b.ID)
		}
		element, err := m.AddAudioElement(core.UnityGain(core.Decibels), core.ObjectInteraction{}, namesOf(b.Name()), id.NullId)
		if err != nil {
			return nil, errors.Wrapf(err, "bridge: AddAudioElement for bed %d", b.ID)
		}
		elementOfBed[b.ID] = element

		for i, ch := range layout {
			target, err := m.AddTarget(id.AudioTypeDirectSpeakers, ch.Label, "", namesOf(ch.Label), id.NullId)
			if err != nil {
				return nil, errors.Wrapf(err, "bridge: AddTarget %s for bed %d", ch.Label, b.ID)
			}
			if _, err := m.AddBlockUpdate(target, core.BlockUpdate{
				Position: core.NewCartesianPosition(ch.X, ch.Y, ch.Z),
				Gain:     core.UnityGain(core.Linear),
			}); err != nil {
				return nil, errors.Wrapf(err, "bridge: AddBlockUpdate %s for bed %d", ch.Label, b.ID)
			}
			sig := b.FirstSignal + uint8(i)
			track, ok := trackOf[sig]
			if !ok {
				return nil, errors.Errorf("bridge: bed %d references unregistered signal %d", b.ID, sig)
			}
			if err := m.AddElementRelation(core.ElementRelation{
				AudioElement: element, TargetGroup: pack, Target: target, AudioTrack: track,
			}); err != nil {
				return nil, errors.Wrapf(err, "bridge: AddElementRelation for bed %d", b.ID)
			}
		}
	}

	elementOfObject := make(map[int]id.EntityId)
	for _, o := range p.Objects() {
		pack, err := m.AddTargetGroup("", "objects", true, core.Names{}, id.NullId)
		if err != nil {
			return nil, errors.Wrapf(err, "bridge: AddTargetGroup for object %d", o.ID)
		}
		element, err := m.AddAudioElement(o.Gain, core.ObjectInteraction{}, namesOf(o.Label), id.NullId)
		if err != nil {
			return nil, errors.Wrapf(err, "bridge: AddAudioElement for object %d", o.ID)
		}
		elementOfObject[o.ID] = element
		target, err := m.AddTarget(id.AudioTypeObjects, "", "object", core.Names{}, id.NullId)
		if err != nil {
			return nil, errors.Wrapf(err, "bridge: AddTarget for object %d", o.ID)
		}
		if _, err := m.AddBlockUpdate(target, core.BlockUpdate{Position: o.Position, Gain: o.Gain}); err != nil {
			return nil, errors.Wrapf(err, "bridge: AddBlockUpdate for object %d", o.ID)
		}
		for _, u := range p.UpdatesFor(o.ID) {
			if _, err := m.AddBlockUpdate(target, core.BlockUpdate{
				Position: u.Position,
				Gain:     u.Gain,
				HasTime:  true,
				Start:    core.Timecode{Samples: uint64(u.SampleOffset), Rate: defaultSampleRate},
				Duration: core.Timecode{Rate: defaultSampleRate},
			}); err != nil {
				return nil, errors.Wrapf(err, "bridge: AddBlockUpdate (update) for object %d", o.ID)
			}
		}
		track, ok := trackOf[o.Signal]
		if !ok {
			return nil, errors.Errorf("bridge: object %d references unregistered signal %d", o.ID, o.Signal)
		}
		if err := m.AddElementRelation(core.ElementRelation{
			AudioElement: element, TargetGroup: pack, Target: target, AudioTrack: track,
		}); err != nil {
			return nil, errors.Wrapf(err, "bridge: AddElementRelation for object %d", o.ID)
		}
	}

	bedByID := make(map[int]pmd.Bed)
	for _, b := range p.Beds() {
		bedByID[b.ID] = b
	}

	for _, pres := range p.Presentations() {
		loudness := core.Loudness{}
		if l, ok := p.LoudnessFor(pres.ID); ok {
			loudness = core.Loudness{HasValue: true, LKFS: l.LKFS, Method: l.Method}
		}
		corePres, err := m.AddPresentation(loudness, namesOf(pres.Name), id.NullId)
		if err != nil {
			return nil, errors.Wrapf(err, "bridge: AddPresentation %d", pres.ID)
		}
		for _, ref := range pres.Elements {
			var elementID id.EntityId
			var kind core.ContentKind
			switch ref.Kind {
			case pmd.ElementBed:
				elementID = elementOfBed[ref.ID]
				kind = contentKindFromTags(bedByID[ref.ID].Tags)
			case pmd.ElementObject:
				elementID = elementOfObject[ref.ID]
			}
			content, err := m.AddContentGroup(kind, core.Loudness{}, pres.Lang, core.Names{}, id.NullId)
			if err != nil {
				return nil, errors.Wrapf(err, "bridge: AddContentGroup for presentation %d", pres.ID)
			}
			if err := m.AddPresentationRelation(core.PresentationRelation{
				Presentation: corePres, ContentGroup: content, AudioElement: elementID,
			}); err != nil {
				return nil, errors.Wrapf(err, "bridge: AddPresentationRelation for presentation %d", pres.ID)
			}
		}
	}

	return m, nil
}

// elementKind classifies a core AudioElement's bound TargetGroup as a bed
// (has a speaker config) or an object.
func elementKind(m *core.Model, element id.EntityId) (bed bool, pack core.TargetGroup, err error) {
	for _, rel := range m.ElementRelationsOf(element) {
		if rel.TargetGroup.IsNull() {
			continue
		}
		tg, ok := m.GetTargetGroup(rel.TargetGroup)
		if !ok {
			continue
		}
		return tg.HasSpeakerConfig(), tg, nil
	}
	return false, core.TargetGroup{}, errors.Errorf("bridge: element %s has no target group", element)
}

// ConvertToPMDModel collapses m into a PMD model. It fails if m holds a
// bed whose speaker configuration this implementation doesn't recognize,
// or more elements/presentations than Profile 0's wire-format ceiling.
func ConvertToPMDModel(m *core.Model, title string) (*pmd.Model, error) {
	out := pmd.NewModel(pmd.DefaultLimits)
	out.Title = title

	signalOfTrack := make(map[id.EntityId]uint8)
	if err := m.ForEachEntityId(id.TypeTrackUID, func(tid id.EntityId) error {
		for _, srel := range m.SourceRelationsByTrack(tid) {
			src, ok := m.GetSource(srel.Source)
			if ok {
				signalOfTrack[tid] = uint8(src.Channel)
				if err := out.AddSignal(uint8(src.Channel)); err != nil {
					return err
				}
			}
		}
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "bridge: reconstructing signals")
	}

	pmdIDOfElement := make(map[id.EntityId]pmd.ElementRef)

	if err := m.ForEachEntityId(id.TypeObject, func(eid id.EntityId) error {
		element, _ := m.GetAudioElement(eid)
		isBed, pack, err := elementKind(m, eid)
		if err != nil {
			return err
		}
		if isBed {
			bedID, err := reconstructBed(m, eid, element, pack, signalOfTrack, out)
			if err != nil {
				return err
			}
			pmdIDOfElement[eid] = pmd.ElementRef{Kind: pmd.ElementBed, ID: bedID}
			return nil
		}
		objID, err := reconstructObject(m, eid, element, signalOfTrack, out)
		if err != nil {
			return err
		}
		pmdIDOfElement[eid] = pmd.ElementRef{Kind: pmd.ElementObject, ID: objID}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := m.ForEachEntityId(id.TypeProgramme, func(peid id.EntityId) error {
		pres, _ := m.GetPresentation(peid)
		lang := ""
		var refs []pmd.ElementRef
		for _, rel := range m.PresentationRelationsOf(peid) {
			if !rel.ContentGroup.IsNull() {
				if cg, ok := m.GetContentGroup(rel.ContentGroup); ok && lang == "" {
					lang = cg.Language
				}
			}
			if !rel.AudioElement.IsNull() {
				ref, ok := pmdIDOfElement[rel.AudioElement]
				if !ok {
					return errors.Errorf("bridge: presentation %s references unconverted element %s", peid, rel.AudioElement)
				}
				refs = append(refs, ref)
			}
		}
		presID, err := out.AddPresentation(primaryText(pres.Name), lang, refs)
		if err != nil {
			return err
		}
		if pres.Loudness.HasValue {
			return out.SetLoudness(presID, pres.Loudness.LKFS, pres.Loudness.Method)
		}
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "bridge: reconstructing presentations")
	}

	return out, nil
}

func reconstructBed(
	m *core.Model, eid id.EntityId, element core.AudioElement, pack core.TargetGroup,
	signalOfTrack map[id.EntityId]uint8, out *pmd.Model,
) (int, error) {
	layout, err := layoutFor(pack.SpeakerConfig)
	if err != nil {
		return 0, errors.Wrapf(err, "bridge: bed element %s", eid)
	}
	signals := make([]uint8, len(layout))
	for _, rel := range m.ElementRelationsOf(eid) {
		if rel.Target.IsNull() {
			continue
		}
		tgt, ok := m.GetTarget(rel.Target)
		if !ok {
			continue
		}
		idx := -1
		for i, ch := range layout {
			if ch.Label == primaryText(tgt.Name) {
				idx = i
				break
			}
		}
		if idx < 0 {
			continue
		}
		signals[idx] = signalOfTrack[rel.AudioTrack]
	}
	firstSignal := signals[0]
	for i := 1; i < len(signals); i++ {
		if signals[i] != firstSignal+uint8(i) {
			return 0, errors.Errorf("bridge: bed element %s channels are not contiguous starting at signal %d", eid, firstSignal)
		}
	}
	return out.AddBed(primaryText(element.Name), pack.SpeakerConfig, firstSignal)
}

func reconstructObject(
	m *core.Model, eid id.EntityId, element core.AudioElement,
	signalOfTrack map[id.EntityId]uint8, out *pmd.Model,
) (int, error) {
	var signal uint8
	var target core.Target
	haveTarget := false
	for _, rel := range m.ElementRelationsOf(eid) {
		if !rel.AudioTrack.IsNull() {
			signal = signalOfTrack[rel.AudioTrack]
		}
		if !rel.Target.IsNull() && !haveTarget {
			target, haveTarget = m.GetTarget(rel.Target)
		}
	}
	if !haveTarget {
		return 0, errors.Errorf("bridge: object element %s has no target", eid)
	}

	var initial core.BlockUpdate
	haveInitial := false
	var updates []pmd.Update
	for _, bu := range m.BlockUpdatesOf(target.ID) {
		if bu.HasTime {
			updates = append(updates, pmd.Update{Position: bu.Position, Gain: bu.Gain, SampleOffset: int(bu.Start.Samples)})
			continue
		}
		initial = bu
		haveInitial = true
	}
	if !haveInitial {
		return 0, errors.Errorf("bridge: object element %s has no initial position/gain", eid)
	}

	objID, err := out.AddObject(signal, initial.Position, initial.Gain, primaryText(element.Name))
	if err != nil {
		return 0, errors.Wrapf(err, "bridge: AddObject for element %s", eid)
	}
	for _, u := range updates {
		u.ObjectID = objID
		if err := out.AddUpdate(u); err != nil {
			return 0, errors.Wrapf(err, "bridge: AddUpdate for element %s", eid)
		}
	}
	return objID, nil
}
