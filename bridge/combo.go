/*
NAME
  combo.go

DESCRIPTION
  combo.go implements the Combo container (§3.5): one PMD model and one
  core model behind a two-state-per-side lazy-conversion machine. Writing
  to either side invalidates the other; reading the invalidated side
  triggers a conversion and marks it "converted" (read-only) until the
  primary side is written again or the combo is cleared.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bridge

import (
	"github.com/pkg/errors"

	"github.com/ausocean/pmd/core"
	"github.com/ausocean/pmd/pmd"
)

// sideState is one side's position in the per-side conversion state
// machine: empty (never written), primary (the side last written
// directly), or converted (derived from the opposite primary side, and
// read-only until that side changes again). "Has content" is not a
// separate state: hasContent reports primary or converted, and backs
// HasPMDContent/HasCoreContent.
type sideState int

const (
	sideEmpty sideState = iota
	sidePrimary
	sideConverted
)

func (s sideState) hasContent() bool { return s == sidePrimary || s == sideConverted }

// Combo holds a PMD model and a core model, converting between them on
// demand. The zero value is not ready for use; call NewCombo.
type Combo struct {
	pmdModel  *pmd.Model
	coreModel *core.Model
	pmdState  sideState
	coreState sideState
	title     string
}

// NewCombo constructs an empty Combo.
func NewCombo() *Combo {
	return &Combo{
		pmdModel:  pmd.NewModel(pmd.DefaultLimits),
		coreModel: core.NewModel(),
	}
}

// Clear empties both sides and resets both states to empty.
func (c *Combo) Clear() {
	c.pmdModel = pmd.NewModel(pmd.DefaultLimits)
	c.coreModel = core.NewModel()
	c.pmdState = sideEmpty
	c.coreState = sideEmpty
}

// SetPMDModel installs p as the primary PMD model, invalidating any
// previously converted core view.
func (c *Combo) SetPMDModel(p *pmd.Model) {
	c.pmdModel = p
	c.pmdState = sidePrimary
	c.coreState = sideEmpty
}

// SetCoreModel installs m as the primary core model, invalidating any
// previously converted PMD view.
func (c *Combo) SetCoreModel(m *core.Model) {
	c.coreModel = m
	c.coreState = sidePrimary
	c.pmdState = sideEmpty
}

// SetTitle records the title ConvertToPMDModel will use when the PMD side
// is next (re)converted from core.
func (c *Combo) SetTitle(title string) { c.title = title }

// EnsureReadablePMD returns the combo's PMD model, converting from the
// primary core model if the PMD side is currently empty.
func (c *Combo) EnsureReadablePMD() (*pmd.Model, error) {
	switch c.pmdState {
	case sidePrimary, sideConverted:
		return c.pmdModel, nil
	}
	if c.coreState != sidePrimary {
		return nil, errors.New("bridge: combo has no content on either side")
	}
	p, err := ConvertToPMDModel(c.coreModel, c.title)
	if err != nil {
		return nil, errors.Wrap(err, "bridge: EnsureReadablePMD")
	}
	c.pmdModel = p
	c.pmdState = sideConverted
	return c.pmdModel, nil
}

// EnsureReadableCore returns the combo's core model, converting from the
// primary PMD model if the core side is currently empty.
func (c *Combo) EnsureReadableCore() (*core.Model, error) {
	switch c.coreState {
	case sidePrimary, sideConverted:
		return c.coreModel, nil
	}
	if c.pmdState != sidePrimary {
		return nil, errors.New("bridge: combo has no content on either side")
	}
	m, err := ConvertToCoreModel(c.pmdModel)
	if err != nil {
		return nil, errors.Wrap(err, "bridge: EnsureReadableCore")
	}
	c.coreModel = m
	c.coreState = sideConverted
	return c.coreModel, nil
}

// MutatePMD exposes the PMD model for in-place mutation. It fails if the
// PMD side is currently a read-only converted view; call EnsureReadablePMD
// and then SetPMDModel(a fresh copy) instead of mutating a converted view.
func (c *Combo) MutatePMD() (*pmd.Model, error) {
	if c.pmdState == sideConverted {
		return nil, errors.New("bridge: PMD side is a converted read-only view")
	}
	if c.pmdState == sideEmpty {
		c.pmdState = sidePrimary
	}
	c.coreState = sideEmpty
	return c.pmdModel, nil
}

// MutateCore exposes the core model for in-place mutation, subject to the
// same read-only rule as MutatePMD.
func (c *Combo) MutateCore() (*core.Model, error) {
	if c.coreState == sideConverted {
		return nil, errors.New("bridge: core side is a converted read-only view")
	}
	if c.coreState == sideEmpty {
		c.coreState = sidePrimary
	}
	c.pmdState = sideEmpty
	return c.coreModel, nil
}

// HasPMDContent and HasCoreContent report whether a side currently holds
// primary or converted content.
func (c *Combo) HasPMDContent() bool  { return c.pmdState.hasContent() }
func (c *Combo) HasCoreContent() bool { return c.coreState.hasContent() }
