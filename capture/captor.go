/*
NAME
  captor.go

DESCRIPTION
  captor.go implements the frame captor: given an arbitrary PCM blob, it
  locates the metadata channel(s), the burst cadence mode, and the video
  frame rate, then extracts exactly one complete frame (§4.9).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package capture implements the frame captor: locating, identifying and
// extracting a single SMPTE 337m metadata frame from a raw, otherwise
// undescribed PCM capture.
package capture

import (
	"github.com/pkg/errors"

	"github.com/ausocean/pmd/codec/pcm"
	"github.com/ausocean/pmd/smpte337"
)

// CadenceMode is how often a burst appears relative to the video frame
// boundary.
type CadenceMode int

const (
	// CadencePMD is the current encoder's behavior: a burst in every
	// 160-sample block, Pa-to-Pa spacing of 128 samples after the first.
	CadencePMD CadenceMode = iota
	// CadenceLegacy is one burst per video frame only, at the vsync point
	// (used by legacy encoders and by S-ADM carriage).
	CadenceLegacy
)

// pmdBlockSpacing is the steady-state Pa-to-Pa distance in CadencePMD
// mode (§4.9 step 3: "second-block spacing = 128 samples").
const pmdBlockSpacing = smpte337.BlockSamples - smpte337.Guardband

// Frame is one captured metadata frame.
type Frame struct {
	Mode     smpte337.Mode
	Channels []int
	Cadence  CadenceMode
	Rate     smpte337.FrameRate
	Burst    smpte337.Burst
	// StartFrame is the PCM frame index the capture began at
	// (first_Pa - Guardband, per §4.9 step 5).
	StartFrame int
}

// Descriptor describes the physical layout of a PCM blob to be scanned.
type Descriptor struct {
	Channels  int
	Width     pcm.Width
	BigEndian bool
}

// ErrNotFound is returned when no viable Pa sync is found anywhere in the
// blob (§4.9's NOT_FOUND failure mode).
var ErrNotFound = errors.New("capture: no viable Pa sync found")

// Capture scans data (described by d) for a metadata frame and extracts
// it. It tries each channel pair 0-1, 2-3, ... (pair mode) and then every
// channel on its own (single-channel mode) until one yields at least two
// Pa sync points,
// then identifies the cadence and frame rate from their spacing and runs
// the extractor over exactly one frame.
func Capture(data []byte, d Descriptor) (Frame, error) {
	if d.Channels <= 0 {
		return Frame{}, errors.New("capture: invalid channel count")
	}
	buf := pcm.Buffer{
		Format: pcm.BufferFormat{Channels: uint(d.Channels), Width: d.Width, BigEndian: d.BigEndian},
		Data:   data,
	}
	frames := buf.Frames()
	if frames == 0 {
		return Frame{}, errors.New("capture: empty or malformed PCM blob")
	}

	for _, cand := range candidateArrangements(d.Channels) {
		positions := findPaPositions(buf, cand.mode, cand.channels, frames)
		if len(positions) < 2 {
			continue
		}
		return extractAt(buf, cand.mode, cand.channels, positions)
	}
	return Frame{}, ErrNotFound
}

type arrangement struct {
	mode     smpte337.Mode
	channels []int
}

// candidateArrangements enumerates the pair-mode arrangements of channels
// 0-1, 2-3, ... (pairs starting at an odd channel are not tried), followed
// by a single-channel arrangement for every channel.
func candidateArrangements(n int) []arrangement {
	var out []arrangement
	for c := 0; c+1 < n; c += 2 {
		out = append(out, arrangement{smpte337.ModePair, []int{c, c + 1}})
	}
	for c := 0; c < n; c++ {
		out = append(out, arrangement{smpte337.ModeSingle, []int{c}})
	}
	return out
}

// findPaPositions records the PCM frame index of every Pa(+Pb, in pair
// mode) sync word across the buffer, per §4.9 step 2.
func findPaPositions(buf pcm.Buffer, mode smpte337.Mode, channels []int, frames int) []int {
	var positions []int
	for f := 0; f < frames; f++ {
		pa, err := buf.SampleAt(channels[0], f)
		if err != nil || pa != smpte337.PaWord {
			continue
		}
		if mode == smpte337.ModePair {
			pb, err := buf.SampleAt(channels[1], f)
			if err != nil || pb != smpte337.PbWord {
				continue
			}
		}
		positions = append(positions, f)
	}
	return positions
}

// extractAt classifies the cadence and frame rate from the recorded Pa
// positions, then runs the extractor over exactly one frame starting at
// first_Pa - Guardband (§4.9 steps 3-5).
func extractAt(buf pcm.Buffer, mode smpte337.Mode, channels []int, positions []int) (Frame, error) {
	spacings := make([]int, len(positions)-1)
	for i := range spacings {
		spacings[i] = positions[i+1] - positions[i]
	}

	cadence, rate, err := identify(spacings)
	if err != nil {
		return Frame{}, err
	}

	r, err := smpte337.NewReader(mode, channels)
	if err != nil {
		return Frame{}, err
	}
	startFrame := positions[0] - smpte337.Guardband
	if startFrame < 0 {
		startFrame = 0
	}
	total, err := smpte337.CycleTotal(rate)
	if err != nil {
		return Frame{}, err
	}
	burst, _, ok, err := r.ScanBurst(buf, startFrame, total+smpte337.Guardband)
	if err != nil {
		return Frame{}, err
	}
	if !ok {
		return Frame{}, ErrNotFound
	}

	return Frame{
		Mode:       mode,
		Channels:   channels,
		Cadence:    cadence,
		Rate:       rate,
		Burst:      burst,
		StartFrame: startFrame,
	}, nil
}

// identify infers the cadence mode and frame rate from a sequence of
// consecutive Pa-to-Pa spacings (§4.9 steps 3-4).
func identify(spacings []int) (CadenceMode, smpte337.FrameRate, error) {
	if len(spacings) == 0 {
		return 0, 0, ErrNotFound
	}
	if spacings[0] == pmdBlockSpacing {
		rate, err := identifyPMDRate(spacings)
		return CadencePMD, rate, err
	}
	rate, err := identifyLegacyRate(spacings[0])
	return CadenceLegacy, rate, err
}

// identifyLegacyRate matches a constant one-burst-per-frame spacing
// against each candidate rate's total cycle length, non-drop-frame rates
// first.
func identifyLegacyRate(spacing int) (smpte337.FrameRate, error) {
	for _, rate := range smpte337.AllFrameRates() {
		total, err := smpte337.CycleTotal(rate)
		if err != nil {
			return 0, err
		}
		if total == spacing {
			return rate, nil
		}
	}
	return 0, errors.Errorf("capture: no frame rate matches legacy spacing %d", spacing)
}

// identifyPMDRate sums consecutive spacings (128 samples after the first
// burst, 160 thereafter, and a boundary spacing that spans the next
// frame's guardband) and
// matches the running total against a candidate rate's full cycle total,
// trying non-drop-frame rates first so an ambiguous match (e.g. a partial
// sum that equals both 60's and 59.94's cycle total at different points)
// resolves to the non-drop-frame rate.
func identifyPMDRate(spacings []int) (smpte337.FrameRate, error) {
	running := 0
	for _, s := range spacings {
		running += s
		for _, rate := range smpte337.AllFrameRates() {
			total, err := smpte337.CycleTotal(rate)
			if err != nil {
				return 0, err
			}
			if total == running {
				return rate, nil
			}
		}
	}
	return 0, errors.Errorf("capture: no frame rate matches PMD cadence spacings %v", spacings)
}
