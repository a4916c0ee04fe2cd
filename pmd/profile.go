/*
NAME
  profile.go

DESCRIPTION
  profile.go defines the PMD conformance-profile capacity tables (§6.3):
  Profile 0 is uncapped (bounded only by the wire format's own integer
  widths); Profile 1 levels 1-3 cap elements, presentations and signals.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pmd

import "github.com/pkg/errors"

// ProfileLimits gives the maximum element, presentation and signal counts
// a PMD model enforces while a given profile is in effect.
type ProfileLimits struct {
	Number           int
	Level            int
	MaxElements      int
	MaxPresentations int
	MaxSignals       int
}

// Profile 0 is unconstrained; these ceilings are the wire format's own
// integer-width limits rather than a conformance cap.
const (
	maxElementsUnconstrained      = 4095
	maxPresentationsUnconstrained = 255
)

// DefaultLimits is Profile 0: no conformance cap beyond the wire format.
var DefaultLimits = ProfileLimits{
	Number:           0,
	Level:            0,
	MaxElements:      maxElementsUnconstrained,
	MaxPresentations: maxPresentationsUnconstrained,
	MaxSignals:       MaxSignal,
}

// profile1Levels is the Profile 1 level table (§6.3).
var profile1Levels = map[int]ProfileLimits{
	1: {Number: 1, Level: 1, MaxElements: 10, MaxPresentations: 8, MaxSignals: 16},
	2: {Number: 1, Level: 2, MaxElements: 20, MaxPresentations: 16, MaxSignals: 16},
	3: {Number: 1, Level: 3, MaxElements: 50, MaxPresentations: 48, MaxSignals: 16},
}

// LimitsFor looks up the built-in capacity table for (number, level).
func LimitsFor(number, level int) (ProfileLimits, error) {
	if number == 0 {
		return DefaultLimits, nil
	}
	if number == 1 {
		if l, ok := profile1Levels[level]; ok {
			return l, nil
		}
	}
	return ProfileLimits{}, errors.Errorf("pmd: no such profile %d level %d", number, level)
}

// SetProfile narrows the model to conformance profile (number, level). The
// requested caps must not exceed the model's own configured maxima
// (limits), and the model's current content must already fit within the
// narrowed caps; otherwise SetProfile fails and the model is unchanged.
func (m *Model) SetProfile(number, level int) error {
	l, err := LimitsFor(number, level)
	if err != nil {
		return err
	}
	if l.MaxElements > m.limits.MaxElements || l.MaxPresentations > m.limits.MaxPresentations || l.MaxSignals > m.limits.MaxSignals {
		return errors.Errorf("pmd: profile %d level %d exceeds model's configured maxima", number, level)
	}
	if m.elementCount() > l.MaxElements {
		return errors.Errorf("pmd: %d elements already present exceeds profile cap %d", m.elementCount(), l.MaxElements)
	}
	if len(m.pres) > l.MaxPresentations {
		return errors.Errorf("pmd: %d presentations already present exceeds profile cap %d", len(m.pres), l.MaxPresentations)
	}
	if len(m.signals) > l.MaxSignals {
		return errors.Errorf("pmd: %d signals already present exceeds profile cap %d", len(m.signals), l.MaxSignals)
	}
	m.profile = l
	return nil
}

// Profile returns the model's currently active conformance profile.
func (m *Model) Profile() ProfileLimits { return m.profile }
