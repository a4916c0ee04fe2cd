/*
NAME
  id.go

DESCRIPTION
  id.go implements the typed 64-bit entity identifier used throughout the
  core model: encode/decode of the type tag, audio-type sub-tag, and the
  primary/secondary sequence numbers, plus the textual AO_/APR_/... form.

AUTHOR
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package id implements the typed entity identifiers shared by the core
// model: a 64-bit value laid out as type tag / audio-type sub-tag / primary
// sequence / secondary sequence, per the entity identity component of the
// professional-metadata core.
package id

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// EntityId is the canonical 64-bit entity identifier. Bit layout (MSB to
// LSB): 8-bit type tag, 16-bit audio-type sub-tag, 24-bit primary sequence,
// 16-bit secondary sequence.
type EntityId uint64

// NullId is the reserved all-zero identifier.
const NullId EntityId = 0

// Bit widths and shifts of the EntityId layout.
const (
	secondaryBits = 16
	primaryBits   = 24
	subTypeBits   = 16

	secondaryShift = 0
	primaryShift   = secondaryShift + secondaryBits
	subTypeShift   = primaryShift + primaryBits
	typeShift      = subTypeShift + subTypeBits

	secondaryMask = (uint64(1)<<secondaryBits - 1) << secondaryShift
	primaryMask   = (uint64(1)<<primaryBits - 1) << primaryShift
	subTypeMask   = (uint64(1)<<subTypeBits - 1) << subTypeShift
	typeMask      = uint64(0xff) << typeShift

	// MaxPrimary and MaxSecondary are the largest sequence values the
	// respective fields can hold.
	MaxPrimary   = uint32(1)<<primaryBits - 1
	MaxSecondary = uint16(1)<<secondaryBits - 1
)

// EntityType is the bits 56..63 type tag of an EntityId.
type EntityType uint8

// Entity types, per spec.md §3.1. Numeric values are this implementation's
// own allocation; the reference header does not expose stable integers for
// them in the portion retained for this port (see DESIGN.md).
const (
	TypeSource EntityType = iota + 1
	TypeSourceGroup
	TypeTrackUID
	TypeChannelFormat
	TypePackFormat
	TypeStreamFormat
	TypeTrackFormat
	TypeBlockFormat
	TypeObject
	TypeElementGroup
	TypeContent
	TypeProgramme
	TypeAltValueSet
	TypeComplementaryRef
	TypeFrameFormat
	TypeFlow
	TypeProfileList
)

var typePrefix = map[EntityType]string{
	TypeSource:           "AS",
	TypeSourceGroup:      "ASG",
	TypeTrackUID:         "ATU",
	TypeChannelFormat:    "AC",
	TypePackFormat:       "AP",
	TypeStreamFormat:     "ASF",
	TypeTrackFormat:      "ATF",
	TypeBlockFormat:      "AB",
	TypeObject:           "AO",
	TypeElementGroup:     "AEG",
	TypeContent:          "ACO",
	TypeProgramme:        "APR",
	TypeAltValueSet:      "AVS",
	TypeComplementaryRef: "ACR",
	TypeFrameFormat:      "AFF",
	TypeFlow:             "AFL",
	TypeProfileList:      "APL",
}

var prefixType map[string]EntityType

func init() {
	prefixType = make(map[string]EntityType, len(typePrefix))
	for t, p := range typePrefix {
		prefixType[p] = t
	}
}

// AudioType is the bits 40..55 sub-tag used by channel-format and
// block-format entities.
type AudioType uint16

// Audio types, per spec.md §3.1.
const (
	AudioTypeNone AudioType = iota
	AudioTypeDirectSpeakers
	AudioTypeMatrix
	AudioTypeObjects
	AudioTypeHOA
	AudioTypeBinaural
	AudioTypeLastCustom = AudioType(0xFFFF)
)

// Type returns the entity type tag of id.
func (eid EntityId) Type() EntityType {
	return EntityType((uint64(eid) & typeMask) >> typeShift)
}

// AudioType returns the audio-type sub-tag of id (meaningful only for
// ChannelFormat and BlockFormat entities).
func (eid EntityId) AudioType() AudioType {
	return AudioType((uint64(eid) & subTypeMask) >> subTypeShift)
}

// Primary returns the 24-bit primary sequence number of id.
func (eid EntityId) Primary() uint32 {
	return uint32((uint64(eid) & primaryMask) >> primaryShift)
}

// Secondary returns the 16-bit secondary sequence number of id.
func (eid EntityId) Secondary() uint16 {
	return uint16((uint64(eid) & secondaryMask) >> secondaryShift)
}

// IsNull reports whether id is the reserved null identifier.
func (eid EntityId) IsNull() bool {
	return eid == NullId
}

// Make assembles an EntityId from its constituent fields. primary must fit
// in 24 bits; callers passing a larger value get it truncated, matching the
// reference's raw bitfield assignment semantics.
func Make(t EntityType, at AudioType, primary uint32, secondary uint16) EntityId {
	v := uint64(t)<<typeShift |
		uint64(at)<<subTypeShift |
		(uint64(primary)<<primaryShift)&primaryMask |
		uint64(secondary)<<secondaryShift
	return EntityId(v)
}

// ConstructGenericId places n into the primary sequence field of a fresh id
// of type t, with sub-type at and a zero secondary sequence.
func ConstructGenericId(t EntityType, at AudioType, n uint32) EntityId {
	return Make(t, at, n, 0)
}

// parentType maps a subordinate entity type to its parent's type tag.
var parentType = map[EntityType]EntityType{
	TypeBlockFormat: TypeChannelFormat,
	TypeAltValueSet: TypeObject,
}

// GetParentId returns the id of the entity that owns a subordinate entity:
// the secondary sequence is zeroed and the type tag is replaced with the
// designated parent type. It returns (NullId, false) if t has no parent
// type (the id is not a subordinate entity kind).
func GetParentId(child EntityId) (EntityId, bool) {
	pt, ok := parentType[child.Type()]
	if !ok {
		return NullId, false
	}
	return Make(pt, child.AudioType(), child.Primary(), 0), true
}

// ConstructChildId builds an id for a new subordinate entity under parent,
// using the given secondary sequence number.
func ConstructChildId(parent EntityId, secondary uint16) EntityId {
	var childType EntityType
	switch parent.Type() {
	case TypeChannelFormat:
		childType = TypeBlockFormat
	case TypeObject:
		childType = TypeAltValueSet
	default:
		childType = parent.Type()
	}
	return Make(childType, parent.AudioType(), parent.Primary(), secondary)
}

// WriteId renders id in its textual form, e.g. "AO_00001001" or
// "AC_00031001_0002": prefix, then a 4-hex-digit audio-type sub-tag
// immediately followed by the primary sequence (matching the reference's
// "AC_00031001"-style literals, where "0003" is the audio type and "1001"
// the primary sequence), then an optional underscore-separated secondary
// sequence. The null id renders as "NULL" (see DESIGN.md Open Question
// decision); ReadId accepts both "NULL" and "" on the way back in.
func WriteId(eid EntityId) string {
	if eid.IsNull() {
		return "NULL"
	}
	prefix, ok := typePrefix[eid.Type()]
	if !ok {
		prefix = fmt.Sprintf("A%02X", uint8(eid.Type()))
	}
	if eid.Secondary() == 0 {
		return fmt.Sprintf("%s_%04X%04X", prefix, uint16(eid.AudioType()), eid.Primary())
	}
	return fmt.Sprintf("%s_%04X%04X_%04X", prefix, uint16(eid.AudioType()), eid.Primary(), eid.Secondary())
}

// ReadId parses the textual form produced by WriteId. An unrecognized
// prefix, or malformed hex fields, yields a non-nil error.
func ReadId(text string) (EntityId, error) {
	if text == "" || text == "NULL" {
		return NullId, nil
	}
	parts := strings.Split(text, "_")
	if len(parts) < 2 || len(parts) > 3 {
		return NullId, errors.Errorf("id: malformed entity id %q", text)
	}
	t, ok := prefixType[parts[0]]
	if !ok {
		return NullId, errors.Errorf("id: unknown entity id prefix %q", parts[0])
	}
	if len(parts[1]) <= 4 {
		return NullId, errors.Errorf("id: missing audio-type field in %q", text)
	}
	atField, primaryField := parts[1][:4], parts[1][4:]
	at, err := strconv.ParseUint(atField, 16, 16)
	if err != nil {
		return NullId, errors.Wrapf(err, "id: bad audio type in %q", text)
	}
	primary, err := strconv.ParseUint(primaryField, 16, 32)
	if err != nil {
		return NullId, errors.Wrapf(err, "id: bad primary sequence in %q", text)
	}
	var secondary uint64
	if len(parts) == 3 {
		secondary, err = strconv.ParseUint(parts[2], 16, 16)
		if err != nil {
			return NullId, errors.Wrapf(err, "id: bad secondary sequence in %q", text)
		}
	}
	return Make(t, AudioType(at), uint32(primary), uint16(secondary)), nil
}

// String implements fmt.Stringer.
func (eid EntityId) String() string {
	return WriteId(eid)
}
