/*
NAME
  layout.go

DESCRIPTION
  layout.go gives the canonical channel labels and Cartesian positions for
  each speaker configuration a PMD bed may declare (§4.4 step 2). These
  layouts are this implementation's own simplified approximation of ITU
  speaker geometry — the original dlb_adm channel-position tables were not
  present in the retained reference excerpt (see DESIGN.md) — but they are
  deterministic and stable, which is all the bridge's forward/inverse
  conversion needs.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bridge

import "github.com/pkg/errors"

// channelSpec names one speaker feed of a bed configuration and its
// canonical Cartesian position.
type channelSpec struct {
	Label      string
	X, Y, Z    float64
}

var (
	cL   = channelSpec{"L", -1, 1, 0}
	cR   = channelSpec{"R", 1, 1, 0}
	cC   = channelSpec{"C", 0, 1, 0}
	cLFE = channelSpec{"LFE", 0, 0, -1}
	cLs  = channelSpec{"Ls", -1, 0, 0}
	cRs  = channelSpec{"Rs", 1, 0, 0}
	cLrs = channelSpec{"Lrs", -1, -1, 0}
	cRrs = channelSpec{"Rrs", 1, -1, 0}
	cLtf = channelSpec{"Ltf", -1, 1, 1}
	cRtf = channelSpec{"Rtf", 1, 1, 1}
	cLtb = channelSpec{"Ltb", -1, -1, 1}
	cRtb = channelSpec{"Rtb", 1, -1, 1}
	cLw  = channelSpec{"Lw", -1, 0.5, 0}
	cRw  = channelSpec{"Rw", 1, 0.5, 0}
	cLtm = channelSpec{"Ltm", -1, 0, 1}
	cRtm = channelSpec{"Rtm", 1, 0, 1}
	cM   = channelSpec{"M", 0, 1, 0}
)

var bedLayouts = map[string][]channelSpec{
	"1.0.0": {cM},
	"2.0.0": {cL, cR},
	"3.0.0": {cL, cC, cR},
	"5.1.0": {cL, cR, cC, cLFE, cLs, cRs},
	"5.1.2": {cL, cR, cC, cLFE, cLs, cRs, cLtf, cRtf},
	"5.1.4": {cL, cR, cC, cLFE, cLs, cRs, cLtf, cRtf, cLtb, cRtb},
	"7.1.0": {cL, cR, cC, cLFE, cLs, cRs, cLrs, cRrs},
	"7.1.2": {cL, cR, cC, cLFE, cLs, cRs, cLrs, cRrs, cLtf, cRtf},
	"7.1.4": {cL, cR, cC, cLFE, cLs, cRs, cLrs, cRrs, cLtf, cRtf, cLtb, cRtb},
	"9.1.6": {cL, cR, cC, cLFE, cLs, cRs, cLrs, cRrs, cLw, cRw, cLtf, cRtf, cLtm, cRtm, cLtb, cRtb},
}

// layoutFor returns the channel layout for a bed speaker configuration.
func layoutFor(config string) ([]channelSpec, error) {
	l, ok := bedLayouts[config]
	if !ok {
		return nil, errors.Errorf("bridge: unsupported speaker config %q", config)
	}
	return l, nil
}

// labelIndex returns the position of label within config's layout, or -1.
func labelIndex(config, label string) int {
	for i, c := range bedLayouts[config] {
		if c.Label == label {
			return i
		}
	}
	return -1
}
