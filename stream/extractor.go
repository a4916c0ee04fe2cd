/*
NAME
  extractor.go

DESCRIPTION
  extractor.go reads metadata bursts back out of a PCM stream at the same
  video-frame-synchronized cadence Augmentor writes them at.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package stream

import (
	"github.com/ausocean/pmd/codec/pcm"
	"github.com/ausocean/pmd/smpte337"
)

// Extractor reads metadata bursts out of a PCM stream whose cadence is
// already known (a locked frame rate), one video-frame-synchronized
// block at a time.
type Extractor struct {
	reader     *smpte337.Reader
	vsync      *smpte337.VsyncTimer
	remaining  int
	firstBlock bool
	log        Logger
}

// NewExtractor constructs an Extractor reading channels in the given
// mode, synchronized to rate's video-frame cadence.
func NewExtractor(mode smpte337.Mode, channels []int, rate smpte337.FrameRate, log Logger) (*Extractor, error) {
	r, err := smpte337.NewReader(mode, channels)
	if err != nil {
		return nil, err
	}
	vt, err := smpte337.NewVsyncTimer(rate)
	if err != nil {
		return nil, err
	}
	return &Extractor{
		reader:     r,
		vsync:      vt,
		remaining:  vt.NextInterval(),
		firstBlock: true,
		log:        log,
	}, nil
}

// NextBlock scans the next block starting at startFrame for a burst,
// returning found=false (no error) if the block carries no metadata.
// framesUsed is always the full block length (including any guardband)
// and is what the caller advances startFrame by on the next call.
func (e *Extractor) NextBlock(buf pcm.Buffer, startFrame int) (burst smpte337.Burst, framesUsed int, found bool, err error) {
	guard := 0
	if e.firstBlock {
		guard = smpte337.Guardband
	}
	blockLen := smpte337.BlockSamples - guard
	if blockLen > e.remaining {
		blockLen = e.remaining
	}

	b, _, ok, serr := e.reader.ScanBurst(buf, startFrame+guard, blockLen)
	if serr != nil {
		return smpte337.Burst{}, 0, false, serr
	}
	if !ok {
		e.log.Debug("no burst found in block", "startFrame", startFrame, "blockLen", blockLen)
	}

	total := guard + blockLen
	e.advance(total)
	return b, total, ok, nil
}

// advance mirrors Augmentor.advance: consumes n samples from the current
// cycle entry, re-arming the guardband flag at each video-frame boundary.
func (e *Extractor) advance(n int) {
	e.remaining -= n
	e.firstBlock = false
	if e.remaining <= 0 {
		e.remaining = e.vsync.NextInterval()
		e.firstBlock = true
	}
}
