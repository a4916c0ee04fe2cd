/*
NAME
  object.go

DESCRIPTION
  object.go implements PMD objects and their per-frame position/gain
  updates (§3.4, §4.4).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pmd

import (
	"github.com/pkg/errors"

	"github.com/ausocean/pmd/core"
)

// Object is a PMD object element: a single signal with a 3D position and
// gain, optionally updated on a per-frame basis via Update records.
type Object struct {
	ID       int
	Signal   uint8
	Position core.Position
	Gain     core.Gain
	Label    string
}

// AddObject adds an object sourced from signal, with an initial position
// and gain.
func (m *Model) AddObject(signal uint8, pos core.Position, gain core.Gain, label string) (int, error) {
	if err := m.checkElementCapacity(); err != nil {
		return 0, err
	}
	if !m.signals[signal] {
		return 0, errors.Errorf("pmd: object references unregistered signal %d", signal)
	}
	id := len(m.beds) + len(m.objects) + 1
	m.objects = append(m.objects, Object{ID: id, Signal: signal, Position: pos, Gain: gain, Label: label})
	return id, nil
}

// Update is a per-frame position/gain update (XYZ update, §4.3) targeting
// a previously added object. SampleOffset is the offset, in samples, of
// the update within the video frame it belongs to.
type Update struct {
	ObjectID     int
	SampleOffset int
	Position     core.Position
	Gain         core.Gain
}

func (m *Model) objectExists(id int) bool {
	for _, o := range m.objects {
		if o.ID == id {
			return true
		}
	}
	return false
}

// AddUpdate appends a per-frame update for an existing object.
func (m *Model) AddUpdate(u Update) error {
	if !m.objectExists(u.ObjectID) {
		return errors.Errorf("pmd: update references unknown object %d", u.ObjectID)
	}
	m.updates = append(m.updates, u)
	return nil
}

// UpdatesFor returns every update recorded against objectID, in the order
// they were added.
func (m *Model) UpdatesFor(objectID int) []Update {
	var out []Update
	for _, u := range m.updates {
		if u.ObjectID == objectID {
			out = append(out, u)
		}
	}
	return out
}
