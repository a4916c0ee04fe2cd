/*
NAME
  vsync.go

DESCRIPTION
  vsync.go implements the video-sync sample-cycle timer: for each
  supported frame rate, the repeating cycle of audio-samples-per-video-
  frame that keeps a 48 kHz audio clock locked to a non-integer video
  frame rate (§4.7).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package smpte337

import "github.com/pkg/errors"

// FrameRate identifies one of the eleven supported video frame rates.
type FrameRate int

const (
	Rate2398 FrameRate = iota
	Rate24
	Rate25
	Rate2997
	Rate30
	Rate50
	Rate5994
	Rate60
	Rate100
	Rate11988
	Rate120
)

// cycleTables gives, for each frame rate, the repeating sequence of
// audio-frame counts (at 48 kHz) spanned by successive video frames. The
// sequence for an integer rate is a single-entry cycle; non-drop rates
// derived from 24000/1001-family clocks use the standard 5-entry
// 48kHz/1001 cadence used throughout broadcast engineering (§4.7).
var cycleTables = map[FrameRate][]int{
	Rate2398: {2002, 2002, 2002, 2002, 2002}, // 48000/23.976 ≈ 2002 each
	Rate24:   {2000},
	Rate25:   {1920},
	Rate2997: {1601, 1602, 1601, 1602, 1602},
	Rate30:   {1600},
	Rate50:   {960},
	Rate5994: {801, 801, 800, 801, 801},
	Rate60:   {800},
	Rate100:  {480},
	Rate11988: {400, 400, 401, 400, 401},
	Rate120:  {400},
}

// VsyncTimer walks a frame rate's repeating cycle table, reporting how
// many audio samples separate each successive video-frame sync point.
type VsyncTimer struct {
	cycle []int
	index int
}

// NewVsyncTimer constructs a timer for the given frame rate.
func NewVsyncTimer(rate FrameRate) (*VsyncTimer, error) {
	cycle, ok := cycleTables[rate]
	if !ok {
		return nil, errors.Errorf("smpte337: unsupported frame rate %d", rate)
	}
	return &VsyncTimer{cycle: cycle}, nil
}

// NextInterval returns the sample count until the next video-frame sync
// point and advances the cycle.
func (v *VsyncTimer) NextInterval() int {
	n := v.cycle[v.index]
	v.index = (v.index + 1) % len(v.cycle)
	return n
}

// Reset returns the timer to the first entry of its cycle, as happens at
// a hard resync (e.g. after capture loses and regains lock).
func (v *VsyncTimer) Reset() {
	v.index = 0
}

// CycleLength reports how many video frames make up one full repeating
// sample-count cycle for this rate.
func (v *VsyncTimer) CycleLength() int {
	return len(v.cycle)
}

// CycleTotal reports the total sample count spanned by one full repeating
// cycle of rate — for an integer rate this is also the per-video-frame
// sample count; for a 1001-family rate it's the sum across all 5 entries.
// Used by capture's frame-rate identification to match an observed Pa
// spacing (or spacing sum) against a candidate rate.
func CycleTotal(rate FrameRate) (int, error) {
	cycle, ok := cycleTables[rate]
	if !ok {
		return 0, errors.Errorf("smpte337: unsupported frame rate %d", rate)
	}
	total := 0
	for _, n := range cycle {
		total += n
	}
	return total, nil
}

// AllFrameRates lists every supported frame rate, integer ("non-drop")
// rates first — capture's rate identification tries these first so an
// ambiguous spacing resolves to the non-drop-frame rate (DESIGN.md's
// recorded decision for the 59.94/119.88 vs 60/120 collision).
func AllFrameRates() []FrameRate {
	return []FrameRate{
		Rate24, Rate25, Rate30, Rate50, Rate60, Rate100, Rate120,
		Rate2398, Rate2997, Rate5994, Rate11988,
	}
}
