/*
NAME
  xml.go

DESCRIPTION
  xml.go implements the S-ADM XML container: writing and reading the
  <frame> document that carries a core model's frameFormat and
  audioFormatExtended payload in ITU-R BS.2076-2 element order (§4.1 C4).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package xml renders a core.Model to, and parses it back from, the S-ADM
// <frame> XML document defined by ITU-R BS.2076-2. It is a thin
// collaborator over encoding/xml: the element shapes below fix the
// canonical emission order of the XML that codec/sadm wraps.
//
// Source and SourceGroup entities are internal PCM-track bookkeeping (used
// by bridge and core's bundled views to map model tracks onto PMD signal
// numbers) and
// have no ADM XML representation; they never appear in a marshaled
// document and Unmarshal never produces them.
package xml

import (
	"bytes"
	"encoding/xml"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ausocean/pmd/core"
	"github.com/ausocean/pmd/id"
)

// schemaVersion is the audioFormatExtended version attribute this
// implementation writes and requires on read.
const schemaVersion = "ITU-R_BS.2076-2"

// Frame is the root <frame> document.
type Frame struct {
	XMLName xml.Name `xml:"frame"`
	Header  header   `xml:"frameHeader"`
}

type header struct {
	FrameFormat    frameFormat `xml:"frameFormat"`
	AudioFormatExt audioFormat `xml:"audioFormatExtended"`
}

type frameFormat struct {
	ID       string `xml:"frameFormatID,attr"`
	Type     string `xml:"type,attr"`
	Start    string `xml:"start,attr"`
	Duration string `xml:"duration,attr"`
	FlowID   string `xml:"flowID,attr,omitempty"`
}

type audioFormat struct {
	Version        string          `xml:"version,attr"`
	Programmes     []programmeElem `xml:"audioProgramme"`
	Contents       []contentElem   `xml:"audioContent"`
	Objects        []objectElem    `xml:"audioObject"`
	PackFormats    []packFormatElem `xml:"audioPackFormat"`
	ChannelFormats []channelFormatElem `xml:"audioChannelFormat"`
	TrackUIDs      []trackUIDElem  `xml:"audioTrackUID"`
}

type programmeElem struct {
	ID       string  `xml:"audioProgrammeID,attr"`
	Name     string  `xml:"audioProgrammeName,attr"`
	Language string  `xml:"audioProgrammeLanguage,attr,omitempty"`
	Contents []idRef `xml:"audioContentIDRef"`
}

type contentElem struct {
	ID       string  `xml:"audioContentID,attr"`
	Name     string  `xml:"audioContentName,attr"`
	Language string  `xml:"audioContentLanguage,attr,omitempty"`
	Objects  []idRef `xml:"audioObjectIDRef"`
}

type objectElem struct {
	ID          string  `xml:"audioObjectID,attr"`
	Name        string  `xml:"audioObjectName,attr"`
	PackFormats []idRef `xml:"audioPackFormatIDRef"`
	TrackUIDs   []idRef `xml:"audioTrackUIDRef"`
	Objects     []idRef `xml:"audioObjectIDRef"`
}

type packFormatElem struct {
	ID             string  `xml:"audioPackFormatID,attr"`
	Name           string  `xml:"audioPackFormatName,attr"`
	TypeLabel      string  `xml:"typeLabel"`
	ChannelFormats []idRef `xml:"audioChannelFormatIDRef"`
}

type channelFormatElem struct {
	ID        string         `xml:"audioChannelFormatID,attr"`
	Name      string         `xml:"audioChannelFormatName,attr"`
	TypeLabel string         `xml:"typeLabel"`
	Blocks    []blockFormatElem `xml:"audioBlockFormat"`
}

type blockFormatElem struct {
	ID       string    `xml:"audioBlockFormatID,attr"`
	RTime    string    `xml:"rtime,attr,omitempty"`
	Duration string    `xml:"duration,attr,omitempty"`
	Position []posElem `xml:"position"`
	Gain     *float64  `xml:"gain,omitempty"`
}

type posElem struct {
	Coordinate string  `xml:"coordinate,attr"`
	Value      float64 `xml:",chardata"`
}

type trackUIDElem struct {
	ID         string `xml:"UID,attr"`
	SampleRate uint   `xml:"sampleRate,attr,omitempty"`
	BitDepth   uint   `xml:"bitDepth,attr,omitempty"`
}

type idRef struct {
	Value string `xml:",chardata"`
}

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, "core/xml: %s", op)
}

// Marshal renders m's FrameFormat plus every entity table into the S-ADM
// <frame> XML document, in canonical element order.
func Marshal(m *core.Model) ([]byte, error) {
	ff, ok := soleFrameFormat(m)
	if !ok {
		return nil, errors.New("core/xml: model has no frameFormat to marshal")
	}

	doc := Frame{
		Header: header{
			FrameFormat: frameFormat{
				ID:       id.WriteId(ff.ID),
				Type:     ff.Type,
				Start:    core.WriteTimecode(ff.Start),
				Duration: core.WriteTimecode(ff.Duration),
				FlowID:   ff.Flow.String(),
			},
			AudioFormatExt: audioFormat{Version: schemaVersion},
		},
	}
	buildAudioFormat(m, &doc.Header.AudioFormatExt)

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, wrapErr("encode", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// soleFrameFormat returns the model's one FrameFormat entity; a model
// ready for XML export holds exactly one (§3.3).
func soleFrameFormat(m *core.Model) (core.FrameFormat, bool) {
	var out core.FrameFormat
	found := false
	m.ForEachEntityId(id.TypeFrameFormat, func(eid id.EntityId) error {
		out, found = m.GetFrameFormat(eid)
		return nil
	})
	return out, found
}

// primaryText returns n's primary name text, or "" if none is set.
func primaryText(n core.Names) string {
	p, ok := n.Primary()
	if !ok {
		return ""
	}
	return p.Text
}

func buildAudioFormat(m *core.Model, af *audioFormat) {
	m.ForEachEntityId(id.TypePackFormat, func(eid id.EntityId) error {
		pf, _ := m.GetTargetGroup(eid)
		af.PackFormats = append(af.PackFormats, packFormatElem{
			ID:        id.WriteId(eid),
			Name:      primaryText(pf.Name),
			TypeLabel: packTypeLabel(pf),
		})
		return nil
	})
	m.ForEachEntityId(id.TypeChannelFormat, func(eid id.EntityId) error {
		tgt, _ := m.GetTarget(eid)
		cf := channelFormatElem{
			ID:        id.WriteId(eid),
			Name:      primaryText(tgt.Name),
			TypeLabel: targetTypeLabel(tgt),
		}
		for i, bu := range m.BlockUpdatesOf(eid) {
			cf.Blocks = append(cf.Blocks, toBlockFormat(eid, i, bu))
		}
		af.ChannelFormats = append(af.ChannelFormats, cf)
		return nil
	})
	// audioPackFormat elements carry no audioChannelFormatIDRef children:
	// TargetGroup holds no child list in this model, and the objects below
	// reference only their pack formats and track UIDs.
	m.ForEachEntityId(id.TypeObject, func(eid id.EntityId) error {
		el, _ := m.GetAudioElement(eid)
		oe := objectElem{ID: id.WriteId(eid), Name: primaryText(el.Name)}
		seenPack := map[id.EntityId]bool{}
		for _, rel := range m.ElementRelationsOf(eid) {
			if !rel.TargetGroup.IsNull() && !seenPack[rel.TargetGroup] {
				oe.PackFormats = append(oe.PackFormats, idRef{Value: id.WriteId(rel.TargetGroup)})
				seenPack[rel.TargetGroup] = true
			}
			if !rel.AudioTrack.IsNull() {
				oe.TrackUIDs = append(oe.TrackUIDs, idRef{Value: id.WriteId(rel.AudioTrack)})
			}
		}
		af.Objects = append(af.Objects, oe)
		return nil
	})
	m.ForEachEntityId(id.TypeTrackUID, func(eid id.EntityId) error {
		t, _ := m.GetAudioTrack(eid)
		af.TrackUIDs = append(af.TrackUIDs, trackUIDElem{ID: id.WriteId(eid), SampleRate: t.SampleRate, BitDepth: t.BitDepth})
		return nil
	})
	m.ForEachEntityId(id.TypeContent, func(eid id.EntityId) error {
		cg, _ := m.GetContentGroup(eid)
		af.Contents = append(af.Contents, contentElem{
			ID:       id.WriteId(eid),
			Name:     primaryText(cg.Name),
			Language: cg.Language,
		})
		return nil
	})
	m.ForEachEntityId(id.TypeProgramme, func(eid id.EntityId) error {
		pres, _ := m.GetPresentation(eid)
		pe := programmeElem{ID: id.WriteId(eid), Name: primaryText(pres.Name)}
		seen := map[id.EntityId]bool{}
		for _, rel := range m.PresentationRelationsOf(eid) {
			if !rel.ContentGroup.IsNull() && !seen[rel.ContentGroup] {
				pe.Contents = append(pe.Contents, idRef{Value: id.WriteId(rel.ContentGroup)})
				seen[rel.ContentGroup] = true
				// The programme's language is that of its first content
				// group that has one.
				if cg, ok := m.GetContentGroup(rel.ContentGroup); ok && pe.Language == "" {
					pe.Language = cg.Language
				}
			}
		}
		af.Programmes = append(af.Programmes, pe)
		return nil
	})
}

func packTypeLabel(pf core.TargetGroup) string {
	if pf.HasSpeakerConfig() {
		return "0001"
	}
	return "0003" // Objects.
}

func targetTypeLabel(t core.Target) string {
	switch t.AudioType {
	case id.AudioTypeObjects:
		return "0003"
	case id.AudioTypeHOA:
		return "0004"
	case id.AudioTypeBinaural:
		return "0005"
	case id.AudioTypeMatrix:
		return "0002"
	default:
		return "0001"
	}
}

func toBlockFormat(parent id.EntityId, idx int, bu core.BlockUpdate) blockFormatElem {
	bf := blockFormatElem{ID: id.WriteId(bu.ID)}
	if bu.HasTime {
		bf.RTime = core.WriteTimecode(bu.Start)
		bf.Duration = core.WriteTimecode(bu.Duration)
	}
	if bu.Position.IsCartesian() {
		bf.Position = []posElem{
			{Coordinate: "X", Value: bu.Position.X},
			{Coordinate: "Y", Value: bu.Position.Y},
			{Coordinate: "Z", Value: bu.Position.Z},
		}
	} else if bu.Position.IsSpherical() {
		bf.Position = []posElem{
			{Coordinate: "azimuth", Value: bu.Position.Azimuth},
			{Coordinate: "elevation", Value: bu.Position.Elevation},
			{Coordinate: "distance", Value: bu.Position.Distance},
		}
	}
	g := bu.Gain.AsLinear()
	bf.Gain = &g
	return bf
}

// Unmarshal parses an S-ADM <frame> document into m, which must be empty.
// Unmarshal is deliberately lossy in the opposite direction from Marshal:
// it reconstructs pack/channel/object/content/programme entities and their
// relations, but leaves Source/SourceGroup track-mapping bookkeeping to
// the caller (bridge and stream populate it from other context).
//
// Parsing builds into a scratch model first and only swaps it into m once
// every entity has been added successfully, so a parse error partway
// through (a malformed id, a bad rtime/duration, ...) leaves m exactly as
// it was handed in, never partially populated.
func Unmarshal(data []byte, m *core.Model) error {
	if !m.IsEmpty() {
		return errors.New("core/xml: Unmarshal requires an empty model")
	}
	var doc Frame
	if err := xml.Unmarshal(data, &doc); err != nil {
		return wrapErr("decode", err)
	}
	if doc.Header.AudioFormatExt.Version != schemaVersion {
		return errors.Errorf("core/xml: unsupported audioFormatExtended version %q", doc.Header.AudioFormatExt.Version)
	}
	scratch := core.NewModel()
	if err := populateModel(&doc, scratch); err != nil {
		return err
	}
	*m = *scratch
	return nil
}

func populateModel(doc *Frame, m *core.Model) error {
	ffID, err := id.ReadId(doc.Header.FrameFormat.ID)
	if err != nil {
		return wrapErr("frameFormat id", err)
	}
	start, err := core.ReadTimecode(doc.Header.FrameFormat.Start)
	if err != nil {
		return wrapErr("frameFormat start", err)
	}
	dur, err := core.ReadTimecode(doc.Header.FrameFormat.Duration)
	if err != nil {
		return wrapErr("frameFormat duration", err)
	}
	ff := core.FrameFormat{Type: doc.Header.FrameFormat.Type, Start: start, Duration: dur}
	if doc.Header.FrameFormat.FlowID != "" {
		flow, err := uuid.Parse(doc.Header.FrameFormat.FlowID)
		if err != nil {
			return wrapErr("frameFormat flowID", err)
		}
		ff.Flow = flow
	}
	if _, err := m.AddFrameFormat(ff, ffID); err != nil {
		return wrapErr("AddFrameFormat", err)
	}

	for _, pf := range doc.Header.AudioFormatExt.PackFormats {
		pfID, err := id.ReadId(pf.ID)
		if err != nil {
			return wrapErr("packFormat id", err)
		}
		name := namesOf(pf.Name)
		speakerConfig, objectClass := "", ""
		if pf.TypeLabel == "0003" {
			objectClass = "default"
		} else {
			speakerConfig = "default"
		}
		if _, err := m.AddTargetGroup(speakerConfig, objectClass, false, name, pfID); err != nil {
			return wrapErr("AddTargetGroup", err)
		}
	}

	for _, cf := range doc.Header.AudioFormatExt.ChannelFormats {
		cfID, err := id.ReadId(cf.ID)
		if err != nil {
			return wrapErr("channelFormat id", err)
		}
		at := id.AudioTypeDirectSpeakers
		switch cf.TypeLabel {
		case "0003":
			at = id.AudioTypeObjects
		case "0004":
			at = id.AudioTypeHOA
		case "0005":
			at = id.AudioTypeBinaural
		case "0002":
			at = id.AudioTypeMatrix
		}
		if _, err := m.AddTarget(at, "", "", namesOf(cf.Name), cfID); err != nil {
			return wrapErr("AddTarget", err)
		}
		for _, bf := range cf.Blocks {
			bu, err := fromBlockFormat(bf)
			if err != nil {
				return err
			}
			if bf.ID != "" {
				buID, err := id.ReadId(bf.ID)
				if err != nil {
					return wrapErr("blockFormat id", err)
				}
				bu.ID = buID
			}
			if bu.ID.IsNull() {
				// No usable id on the document: synthesize a fresh child
				// under this channel format, as before.
				if _, err := m.AddBlockUpdate(cfID, bu); err != nil {
					return wrapErr("AddBlockUpdate", err)
				}
			} else {
				// The document's own block-format id survives the round
				// trip; its parent is derived from the id itself.
				if _, err := m.AddBlockUpdate(id.NullId, bu); err != nil {
					return wrapErr("AddBlockUpdate", err)
				}
			}
		}
	}

	for _, tu := range doc.Header.AudioFormatExt.TrackUIDs {
		tuID, err := id.ReadId(tu.ID)
		if err != nil {
			return wrapErr("trackUID id", err)
		}
		if _, err := m.AddAudioTrack(tu.SampleRate, tu.BitDepth, tuID); err != nil {
			return wrapErr("AddAudioTrack", err)
		}
	}

	for _, oe := range doc.Header.AudioFormatExt.Objects {
		oID, err := id.ReadId(oe.ID)
		if err != nil {
			return wrapErr("object id", err)
		}
		if _, err := m.AddAudioElement(core.Gain{}, core.ObjectInteraction{}, namesOf(oe.Name), oID); err != nil {
			return wrapErr("AddAudioElement", err)
		}
		for _, pf := range oe.PackFormats {
			pfID, err := id.ReadId(pf.Value)
			if err != nil {
				return wrapErr("object packFormat ref", err)
			}
			rel := core.ElementRelation{AudioElement: oID, TargetGroup: pfID}
			if err := m.AddElementRelation(rel); err != nil {
				return wrapErr("AddElementRelation", err)
			}
		}
		for _, tu := range oe.TrackUIDs {
			tuID, err := id.ReadId(tu.Value)
			if err != nil {
				return wrapErr("object trackUID ref", err)
			}
			rel := core.ElementRelation{AudioElement: oID, AudioTrack: tuID}
			if err := m.AddElementRelation(rel); err != nil {
				return wrapErr("AddElementRelation", err)
			}
		}
	}

	for _, ce := range doc.Header.AudioFormatExt.Contents {
		cID, err := id.ReadId(ce.ID)
		if err != nil {
			return wrapErr("content id", err)
		}
		if _, err := m.AddContentGroup(core.ContentUndefined, core.Loudness{}, ce.Language, namesOf(ce.Name), cID); err != nil {
			return wrapErr("AddContentGroup", err)
		}
	}

	for _, pe := range doc.Header.AudioFormatExt.Programmes {
		pID, err := id.ReadId(pe.ID)
		if err != nil {
			return wrapErr("programme id", err)
		}
		if _, err := m.AddPresentation(core.Loudness{}, namesOf(pe.Name), pID); err != nil {
			return wrapErr("AddPresentation", err)
		}
		for _, cref := range pe.Contents {
			cID, err := id.ReadId(cref.Value)
			if err != nil {
				return wrapErr("programme content ref", err)
			}
			if err := m.AddPresentationRelation(core.PresentationRelation{Presentation: pID, ContentGroup: cID}); err != nil {
				return wrapErr("AddPresentationRelation", err)
			}
		}
	}

	return nil
}

func namesOf(primary string) core.Names {
	n := core.NewNames(1)
	if primary != "" {
		_ = n.AddPrimary(primary, "")
	}
	return n
}

func fromBlockFormat(bf blockFormatElem) (core.BlockUpdate, error) {
	bu := core.BlockUpdate{}
	if bf.RTime != "" {
		start, err := core.ReadTimecode(bf.RTime)
		if err != nil {
			return bu, wrapErr("blockFormat rtime", err)
		}
		dur, err := core.ReadTimecode(bf.Duration)
		if err != nil {
			return bu, wrapErr("blockFormat duration", err)
		}
		bu.HasTime = true
		bu.Start = start
		bu.Duration = dur
	}
	if len(bf.Position) == 3 {
		switch bf.Position[0].Coordinate {
		case "X":
			bu.Position = core.NewCartesianPosition(bf.Position[0].Value, bf.Position[1].Value, bf.Position[2].Value)
		case "azimuth":
			bu.Position = core.NewSphericalPosition(bf.Position[0].Value, bf.Position[1].Value, bf.Position[2].Value)
		}
	}
	if bf.Gain != nil {
		bu.Gain = core.NewGain(*bf.Gain, core.Linear)
	} else {
		bu.Gain = core.UnityGain(core.Linear)
	}
	return bu, nil
}
