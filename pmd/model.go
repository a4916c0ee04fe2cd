/*
NAME
  model.go

DESCRIPTION
  model.go implements the PMD model: a fixed-capacity, profile-limited
  table store of signals, beds, objects, presentations and the auxiliary
  per-frame records (§3.4, §4.3).

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pmd implements the Professional Metadata Descriptor model: the
// compact, profile-limited representation of an audio scene designed to
// ride inside PCM audio via SMPTE 337m framing.
package pmd

import (
	"github.com/pkg/errors"
)

// MaxSignal is the largest valid signal number (§3.4: "audio signals are
// integers 1..255").
const MaxSignal = 255

// Model is the PMD table store. The zero value is not ready for use; call
// NewModel. Model is not safe for concurrent use (§5).
type Model struct {
	Title string

	limits  ProfileLimits
	profile ProfileLimits // the currently-set conformance profile (subset of limits).

	signals map[uint8]bool
	beds    []Bed
	objects []Object
	pres    []Presentation
	updates []Update

	eep  []EncoderParameters
	etd  []TransportDescriptor
	iat  *InputTimecode
	hed  []HeadphoneElement
	ld   []PresentationLoudness
}

// NewModel constructs an empty PMD model configured with limits as its own
// maximum capacities; SetProfile may subsequently narrow, but never widen,
// those maxima.
func NewModel(limits ProfileLimits) *Model {
	if limits == (ProfileLimits{}) {
		limits = DefaultLimits
	}
	return &Model{
		limits:  limits,
		profile: limits,
		signals: make(map[uint8]bool),
	}
}

// Clear empties the model, keeping its configured limits.
func (m *Model) Clear() {
	m.signals = make(map[uint8]bool)
	m.beds = nil
	m.objects = nil
	m.pres = nil
	m.updates = nil
	m.eep = nil
	m.etd = nil
	m.iat = nil
	m.hed = nil
	m.ld = nil
	m.Title = ""
}

// IsEmpty reports whether the model holds no signals, beds, objects or
// presentations.
func (m *Model) IsEmpty() bool {
	return len(m.signals) == 0 && len(m.beds) == 0 && len(m.objects) == 0 && len(m.pres) == 0
}

// AddSignal registers signal number n (1..255) as present in the model.
func (m *Model) AddSignal(n uint8) error {
	if n == 0 {
		return errors.New("pmd: signal number must be in [1,255]")
	}
	if len(m.signals) >= m.profile.MaxSignals && !m.signals[n] {
		return errors.Errorf("pmd: signal capacity %d exceeded", m.profile.MaxSignals)
	}
	m.signals[n] = true
	return nil
}

// Signals returns the set of registered signal numbers, ascending.
func (m *Model) Signals() []uint8 {
	out := make([]uint8, 0, len(m.signals))
	for n := range m.signals {
		out = append(out, n)
	}
	sortUint8(out)
	return out
}

func sortUint8(s []uint8) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// elementCount is the combined number of beds and objects, which together
// fill out the "elements" capacity a profile caps (§6.3; PMD beds and
// objects both become AudioElements on conversion to the core model,
// §4.4).
func (m *Model) elementCount() int { return len(m.beds) + len(m.objects) }

// checkElementCapacity returns an error if adding one more bed/object would
// exceed the current profile's max_elements.
func (m *Model) checkElementCapacity() error {
	if m.elementCount() >= m.profile.MaxElements {
		return errors.Errorf("pmd: element capacity %d exceeded", m.profile.MaxElements)
	}
	return nil
}

// CountElements returns the number of beds plus objects currently held.
func (m *Model) CountElements() int { return m.elementCount() }

// CountPresentations returns the number of presentations currently held.
func (m *Model) CountPresentations() int { return len(m.pres) }

// Beds, Objects, Presentations, Updates return read-only views of the
// corresponding tables.

func (m *Model) Beds() []Bed                   { return append([]Bed(nil), m.beds...) }
func (m *Model) Objects() []Object             { return append([]Object(nil), m.objects...) }
func (m *Model) Presentations() []Presentation { return append([]Presentation(nil), m.pres...) }
func (m *Model) Updates() []Update             { return append([]Update(nil), m.updates...) }
