/*
NAME
  aux.go

DESCRIPTION
  aux.go implements the auxiliary per-frame PMD records carried alongside
  the element/presentation tables: encoder parameters (EEP), the
  transport descriptor (ETD), the input audio timecode (IAT) and
  headphone element descriptors (HED) (§3.4, §4.3).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pmd

import "github.com/pkg/errors"

// EncoderParameters is the Dolby E encoder parameters record (EEP).
type EncoderParameters struct {
	ProgramConfig string
	FrameRate     string
	BitDepth      int
}

// TransportDescriptor (ETD) names the physical channel pair a PMD
// bitstream rides within, and its data rate.
type TransportDescriptor struct {
	ChannelPair int
	DataRate    int
}

// InputTimecode (IAT) is the input audio timecode reference for the
// current frame.
type InputTimecode struct {
	Hours, Minutes, Seconds, Frames int
	Offset                          int // sample offset from the timecode's frame boundary.
}

// HeadphoneElement (HED) attaches headphone-rendering parameters (a
// binauralization preset name) to an existing object.
type HeadphoneElement struct {
	ObjectID int
	Preset   string
}

// SetEncoderParameters replaces the model's single EEP record.
func (m *Model) SetEncoderParameters(p EncoderParameters) { m.eep = []EncoderParameters{p} }

// EncoderParametersOf returns the model's EEP record, if set.
func (m *Model) EncoderParametersOf() (EncoderParameters, bool) {
	if len(m.eep) == 0 {
		return EncoderParameters{}, false
	}
	return m.eep[0], true
}

// SetTransportDescriptor replaces the model's single ETD record.
func (m *Model) SetTransportDescriptor(d TransportDescriptor) { m.etd = []TransportDescriptor{d} }

// TransportDescriptorOf returns the model's ETD record, if set.
func (m *Model) TransportDescriptorOf() (TransportDescriptor, bool) {
	if len(m.etd) == 0 {
		return TransportDescriptor{}, false
	}
	return m.etd[0], true
}

// SetInputTimecode replaces the model's single IAT record.
func (m *Model) SetInputTimecode(t InputTimecode) { c := t; m.iat = &c }

// InputTimecodeOf returns the model's IAT record, if set.
func (m *Model) InputTimecodeOf() (InputTimecode, bool) {
	if m.iat == nil {
		return InputTimecode{}, false
	}
	return *m.iat, true
}

// AddHeadphoneElement attaches a headphone-rendering preset to an
// existing object, replacing any previous preset for that object.
func (m *Model) AddHeadphoneElement(h HeadphoneElement) error {
	if !m.objectExists(h.ObjectID) {
		return errors.Errorf("pmd: headphone element references unknown object %d", h.ObjectID)
	}
	for i, e := range m.hed {
		if e.ObjectID == h.ObjectID {
			m.hed[i] = h
			return nil
		}
	}
	m.hed = append(m.hed, h)
	return nil
}

// HeadphoneElements returns every headphone-rendering record in the
// model.
func (m *Model) HeadphoneElements() []HeadphoneElement {
	return append([]HeadphoneElement(nil), m.hed...)
}
