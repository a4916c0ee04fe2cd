/*
NAME
  bundle.go

DESCRIPTION
  bundle.go implements the bundled-view assembly operations
  get_element_data and get_presentation_data: caller-placed views that join
  an entity together with everything reachable from it via the relation
  tables (§4.2). The reference's array-storage-plus-capacity-count
  convention becomes a Go slice whose cap() the caller pre-sizes and this
  package checks at the boundary (DESIGN NOTES §9).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package core

import "github.com/ausocean/pmd/id"

// ElementData is the bundled view of an AudioElement assembled by
// GetElementData. Every slice field must be supplied by the caller with
// cap() sized to the largest expected result; GetElementData appends into
// them and fails with status.ErrOutOfMemory if a cap is too small.
type ElementData struct {
	Element      AudioElement
	TargetGroups []TargetGroup
	Targets      []Target
	AudioTracks  []AudioTrack
	SourceGroups []SourceGroup
	Sources      []Source
	BlockUpdates []BlockUpdate
	AltValueSets []AlternativeValueSet
}

// appendCapped appends v to dst, returning the grown slice and false if
// dst's capacity was already exhausted.
func appendCapped[T any](dst []T, v T) ([]T, bool) {
	if len(dst) >= cap(dst) {
		return dst, false
	}
	return append(dst, v), true
}

func containsId(ids []id.EntityId, v id.EntityId) bool {
	for _, x := range ids {
		if x == v {
			return true
		}
	}
	return false
}

// GetElementData assembles eid's AudioElement together with its
// TargetGroup(s), Targets, AudioTracks, SourceGroups/Sources, BlockUpdates
// and AlternativeValueSets into buf, which the caller must have
// pre-allocated with sufficient slice capacities.
func (m *Model) GetElementData(eid id.EntityId, buf *ElementData) error {
	el, ok := m.GetAudioElement(eid)
	if !ok {
		return notFoundErr("audio element", eid)
	}
	buf.Element = el

	var seenTG, seenTrack, seenGroup []id.EntityId
	for _, rel := range m.ElementRelationsOf(eid) {
		if !rel.TargetGroup.IsNull() && !containsId(seenTG, rel.TargetGroup) {
			tg, ok := m.GetTargetGroup(rel.TargetGroup)
			if ok {
				var appended bool
				if buf.TargetGroups, appended = appendCapped(buf.TargetGroups, tg); !appended {
					return oomErr("target groups")
				}
			}
			seenTG = append(seenTG, rel.TargetGroup)
		}
		if !rel.Target.IsNull() {
			tgt, ok := m.GetTarget(rel.Target)
			if ok {
				var appended bool
				if buf.Targets, appended = appendCapped(buf.Targets, tgt); !appended {
					return oomErr("targets")
				}
				for _, bu := range m.BlockUpdatesOf(rel.Target) {
					if buf.BlockUpdates, appended = appendCapped(buf.BlockUpdates, bu); !appended {
						return oomErr("block updates")
					}
				}
			}
		}
		if !rel.AudioTrack.IsNull() && !containsId(seenTrack, rel.AudioTrack) {
			track, ok := m.GetAudioTrack(rel.AudioTrack)
			if ok {
				var appended bool
				if buf.AudioTracks, appended = appendCapped(buf.AudioTracks, track); !appended {
					return oomErr("audio tracks")
				}
			}
			seenTrack = append(seenTrack, rel.AudioTrack)

			for _, srel := range m.SourceRelationsByTrack(rel.AudioTrack) {
				if !srel.SourceGroup.IsNull() && !containsId(seenGroup, srel.SourceGroup) {
					sg, ok := m.GetSourceGroup(srel.SourceGroup)
					if ok {
						if buf.SourceGroups, appended = appendCapped(buf.SourceGroups, sg); !appended {
							return oomErr("source groups")
						}
					}
					seenGroup = append(seenGroup, srel.SourceGroup)
				}
				if !srel.Source.IsNull() {
					src, ok := m.GetSource(srel.Source)
					if ok {
						if buf.Sources, appended = appendCapped(buf.Sources, src); !appended {
							return oomErr("sources")
						}
					}
				}
			}
		}
	}

	for _, avs := range m.AltValueSetsOf(eid) {
		var appended bool
		if buf.AltValueSets, appended = appendCapped(buf.AltValueSets, avs); !appended {
			return oomErr("alt value sets")
		}
	}

	return nil
}

// PresentationData is the bundled view of a Presentation assembled by
// GetPresentationData.
type PresentationData struct {
	Presentation      Presentation
	ContentGroups     []ContentGroup
	ElementGroups     []ElementGroup
	AudioElements     []AudioElement
	AltValueSets      []AlternativeValueSet
	ComplementaryRefs []ComplementaryRef
}

// GetPresentationData assembles eid's Presentation together with every
// content group, element group, audio element, alt-value-set and
// complementary-ref reachable through its presentation relations, into buf.
func (m *Model) GetPresentationData(eid id.EntityId, buf *PresentationData) error {
	pres, ok := m.GetPresentation(eid)
	if !ok {
		return notFoundErr("presentation", eid)
	}
	buf.Presentation = pres

	var seenCG, seenEG, seenAE, seenAVS, seenCR []id.EntityId
	for _, rel := range m.PresentationRelationsOf(eid) {
		if !rel.ContentGroup.IsNull() && !containsId(seenCG, rel.ContentGroup) {
			cg, ok := m.GetContentGroup(rel.ContentGroup)
			if ok {
				var appended bool
				if buf.ContentGroups, appended = appendCapped(buf.ContentGroups, cg); !appended {
					return oomErr("content groups")
				}
			}
			seenCG = append(seenCG, rel.ContentGroup)
		}
		if !rel.ElementGroup.IsNull() && !containsId(seenEG, rel.ElementGroup) {
			eg, ok := m.GetElementGroup(rel.ElementGroup)
			if ok {
				var appended bool
				if buf.ElementGroups, appended = appendCapped(buf.ElementGroups, eg); !appended {
					return oomErr("element groups")
				}
			}
			seenEG = append(seenEG, rel.ElementGroup)
		}
		if !rel.AudioElement.IsNull() && !containsId(seenAE, rel.AudioElement) {
			ae, ok := m.GetAudioElement(rel.AudioElement)
			if ok {
				var appended bool
				if buf.AudioElements, appended = appendCapped(buf.AudioElements, ae); !appended {
					return oomErr("audio elements")
				}
			}
			seenAE = append(seenAE, rel.AudioElement)
		}
		if !rel.AltValueSet.IsNull() && !containsId(seenAVS, rel.AltValueSet) {
			avs, ok := m.GetAltValueSet(rel.AltValueSet)
			if ok {
				var appended bool
				if buf.AltValueSets, appended = appendCapped(buf.AltValueSets, avs); !appended {
					return oomErr("alt value sets")
				}
			}
			seenAVS = append(seenAVS, rel.AltValueSet)
		}
		if !rel.ComplementaryRef.IsNull() && !containsId(seenCR, rel.ComplementaryRef) {
			cr, ok := m.GetComplementaryRef(rel.ComplementaryRef)
			if ok {
				var appended bool
				if buf.ComplementaryRefs, appended = appendCapped(buf.ComplementaryRefs, cr); !appended {
					return oomErr("complementary refs")
				}
			}
			seenCR = append(seenCR, rel.ComplementaryRef)
		}
	}

	return nil
}
