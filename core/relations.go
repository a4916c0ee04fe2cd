/*
NAME
  relations.go

DESCRIPTION
  relations.go defines the three relation tuple types that tie entities
  together into a playable audio scene (§3.3), plus the first-column
  indices that keep get_element_data/get_presentation_data joins at O(1)
  average, in place of the reference's linear scans.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package core

import "github.com/ausocean/pmd/id"

// SourceRelation ties a Source, via its SourceGroup, to the AudioTrack that
// carries its samples.
type SourceRelation struct {
	SourceGroup id.EntityId
	Source      id.EntityId
	AudioTrack  id.EntityId
}

// ElementRelation is the audio signal chain from a track, through a
// rendering channel and its pack, to the AudioElement that exposes it.
type ElementRelation struct {
	AudioElement id.EntityId
	TargetGroup  id.EntityId
	Target       id.EntityId
	AudioTrack   id.EntityId
}

// PresentationRelation links a Presentation to the content/element/AVS/
// complementary-ref tuple that makes it up. Every column but Presentation
// may be the null id.
type PresentationRelation struct {
	Presentation     id.EntityId
	ContentGroup     id.EntityId
	ElementGroup     id.EntityId
	AudioElement     id.EntityId
	AltValueSet      id.EntityId
	ComplementaryRef id.EntityId
}

func (r SourceRelation) equal(o SourceRelation) bool       { return r == o }
func (r ElementRelation) equal(o ElementRelation) bool     { return r == o }
func (r PresentationRelation) equal(o PresentationRelation) bool { return r == o }
