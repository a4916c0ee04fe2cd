/*
NAME
  entities.go

DESCRIPTION
  entities.go defines the concrete content of every core-model entity kind
  (§3.3), each carrying its id.EntityId and a small shared header of names,
  replacing the source's inheritance hierarchy with a tagged set of structs
  (see DESIGN NOTES §9).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package core

import (
	"github.com/google/uuid"

	"github.com/ausocean/pmd/id"
)

// nameCaps bounds the number of Names entries (primary + labels) each
// entity kind may carry. Values follow the PMD profile defaults (§6.3);
// entities with no name concept are omitted.
var nameCaps = map[id.EntityType]int{
	id.TypeSourceGroup:   2,
	id.TypeChannelFormat: 2,
	id.TypePackFormat:    2,
	id.TypeObject:        8,
	id.TypeElementGroup:  8,
	id.TypeContent:       8,
	id.TypeProgramme:     8,
	id.TypeAltValueSet:   8,
}

// Source is a single input channel within a SourceGroup.
type Source struct {
	ID      id.EntityId
	Group   int // SourceGroup number this source belongs to.
	Channel int // 1-based channel number within the group.
}

// SourceGroup names a collection of Sources.
type SourceGroup struct {
	ID    id.EntityId
	Group int
	Name  Names
}

// AudioTrack is a TrackUID: the sample format of one physical audio track.
type AudioTrack struct {
	ID         id.EntityId
	SampleRate uint
	BitDepth   uint
}

// Target is a ChannelFormat: a single rendering channel, either a named
// speaker feed or an object/HOA/binaural channel.
type Target struct {
	ID          id.EntityId
	AudioType   id.AudioType
	SpeakerLabel string // valid when AudioType == AudioTypeDirectSpeakers.
	ObjectKind   string // valid for object/HOA/binaural audio types.
	Name         Names
}

// SpeakerConfig and ObjectClass are mutually exclusive contents of a
// TargetGroup (invariant 7, §3.3).
type TargetGroup struct {
	ID                  id.EntityId
	SpeakerConfig       string // e.g. "2.0", "5.1.4"; empty if ObjectClass set.
	ObjectClass         string // e.g. "objects"; empty if SpeakerConfig set.
	DynamicObjectsAllowed bool
	Name                Names
}

// HasSpeakerConfig reports whether g is configured as a speaker bed rather
// than an object class.
func (g TargetGroup) HasSpeakerConfig() bool { return g.SpeakerConfig != "" }

// BlockUpdate is a BlockFormat: a time-tagged position/gain sample owned by
// a ChannelFormat.
type BlockUpdate struct {
	ID       id.EntityId
	Parent   id.EntityId // owning ChannelFormat.
	Position Position
	Gain     Gain
	HasTime  bool
	Start    Timecode
	Duration Timecode
}

// AlternativeValueSet is a per-presentation override of an object's gain or
// position, owned by an AudioElement. AVS entities may carry labels but
// never a primary name (§4.2).
type AlternativeValueSet struct {
	ID             id.EntityId
	Parent         id.EntityId // owning AudioElement.
	HasPosition    bool
	Position       Position
	HasGain        bool
	Gain           Gain
	Labels         Names
}

// ObjectInteraction describes the caller-permitted live-interaction ranges
// for an AudioElement.
type ObjectInteraction struct {
	OnOffInteract    bool
	GainInteract     bool
	PositionInteract bool
	GainMin, GainMax Gain
	AzimuthMin, AzimuthMax     float64
	ElevationMin, ElevationMax float64
	DistanceMin, DistanceMax   float64
	XMin, XMax float64
	YMin, YMax float64
	ZMin, ZMax float64
}

// AudioElement is an Object: a mono audio element with dynamic
// position/gain, described by a chain of BlockUpdates.
type AudioElement struct {
	ID          id.EntityId
	Gain        Gain
	Interaction ObjectInteraction
	Name        Names
}

// ElementGroup groups AudioElements under a shared gain.
type ElementGroup struct {
	ID   id.EntityId
	Gain Gain
	Name Names
}

// ComplementaryRef relates a referenced AudioElement to the leader of its
// mutually-exclusive group. A leader's Referenced and Leader ids are equal
// (invariant 6, §3.3).
type ComplementaryRef struct {
	ID         id.EntityId
	Referenced id.EntityId
	Leader     id.EntityId
	Sequence   int
	Labels     Names // only populated when Referenced == Leader.
}

// IsLeader reports whether r designates the leader of its group.
func (r ComplementaryRef) IsLeader() bool { return r.Referenced == r.Leader }

// ContentKind enumerates the kind of program content a ContentGroup
// represents.
type ContentKind int

const (
	ContentUndefined ContentKind = iota
	ContentDialogue
	ContentMusic
	ContentEffects
	ContentMixed
)

// Loudness carries a loudness measurement, copied verbatim between
// Presentation and ContentGroup on conversion (§4.4 step 5).
type Loudness struct {
	HasValue bool
	LKFS     float64
	Method   string // e.g. "ITU-R BS.1770-4".
}

// ContentGroup is a Content entity: dialogue/music/effects/mixed content
// with its own loudness and language.
type ContentGroup struct {
	ID       id.EntityId
	Kind     ContentKind
	Loudness Loudness
	Language string
	Name     Names
}

// Presentation is a Programme: a user-selectable mix with a language and
// loudness, realized by the presentation relation.
type Presentation struct {
	ID       id.EntityId
	Loudness Loudness
	Name     Names
}

// FrameFormat carries the video-frame timing and flow identity for a
// metadata frame.
type FrameFormat struct {
	ID       id.EntityId
	Type     string // always "full" in this profile.
	Start    Timecode
	Duration Timecode
	Flow     uuid.UUID
}

// RecognizedProfile is the result of matching a Profile descriptor against
// the built-in supported-profile table (§4.2).
type RecognizedProfile int

const (
	ProfileNotInitialized RecognizedProfile = iota
	ProfileITUEmission
	ProfileITUDistribution
)

// Profile is a conformance-profile descriptor.
type Profile struct {
	Name       string
	Version    string
	Level      string
	Value      string
	Recognized RecognizedProfile
}
