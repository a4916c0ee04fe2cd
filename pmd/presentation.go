/*
NAME
  presentation.go

DESCRIPTION
  presentation.go implements PMD presentations: a named, language-tagged
  mix of element references with a per-presentation loudness descriptor
  (§3.4, §4.3).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pmd

import "github.com/pkg/errors"

// ElementKind distinguishes a presentation's bed references from its
// object references; PMD beds and objects share no ID namespace overlap
// by construction (AddBed/AddObject number both out of the same counter),
// but a reference must still say which table to resolve it against.
type ElementKind int

const (
	ElementBed ElementKind = iota
	ElementObject
)

// ElementRef is one element referenced by a presentation.
type ElementRef struct {
	Kind ElementKind
	ID   int
}

// PresentationLoudness is the loudness descriptor (PLD, §4.3) attached to
// a presentation.
type PresentationLoudness struct {
	PresentationID int
	LKFS           float64
	Method         string // e.g. "ITU-R BS.1770-4".
}

// Presentation is a PMD presentation: a named mix, in a given language, of
// bed and/or object elements.
type Presentation struct {
	ID       int
	Name     string
	Lang     string // BCP-47 language tag, e.g. "en".
	Elements []ElementRef
}

func (m *Model) elementExists(ref ElementRef) bool {
	switch ref.Kind {
	case ElementBed:
		for _, b := range m.beds {
			if b.ID == ref.ID {
				return true
			}
		}
	case ElementObject:
		for _, o := range m.objects {
			if o.ID == ref.ID {
				return true
			}
		}
	}
	return false
}

// AddPresentation adds a presentation referencing the given elements, all
// of which must already exist in the model.
func (m *Model) AddPresentation(name, lang string, elements []ElementRef) (int, error) {
	if len(m.pres) >= m.profile.MaxPresentations {
		return 0, errors.Errorf("pmd: presentation capacity %d exceeded", m.profile.MaxPresentations)
	}
	for _, ref := range elements {
		if !m.elementExists(ref) {
			return 0, errors.Errorf("pmd: presentation references unknown element %+v", ref)
		}
	}
	id := len(m.pres) + 1
	cp := append([]ElementRef(nil), elements...)
	m.pres = append(m.pres, Presentation{ID: id, Name: name, Lang: lang, Elements: cp})
	return id, nil
}

// SetLoudness records the loudness descriptor for an existing
// presentation, replacing any previous one.
func (m *Model) SetLoudness(presID int, lkfs float64, method string) error {
	found := false
	for _, p := range m.pres {
		if p.ID == presID {
			found = true
			break
		}
	}
	if !found {
		return errors.Errorf("pmd: loudness references unknown presentation %d", presID)
	}
	for i, l := range m.ld {
		if l.PresentationID == presID {
			m.ld[i] = PresentationLoudness{PresentationID: presID, LKFS: lkfs, Method: method}
			return nil
		}
	}
	m.ld = append(m.ld, PresentationLoudness{PresentationID: presID, LKFS: lkfs, Method: method})
	return nil
}

// LoudnessFor returns the loudness descriptor recorded for presID, if any.
func (m *Model) LoudnessFor(presID int) (PresentationLoudness, bool) {
	for _, l := range m.ld {
		if l.PresentationID == presID {
			return l, true
		}
	}
	return PresentationLoudness{}, false
}
