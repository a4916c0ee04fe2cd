/*
NAME
  augmentor.go

DESCRIPTION
  augmentor.go drives the SMPTE 337m framer across successive PCM blocks
  of a video-synchronized audio stream, inserting the guardband at every
  video-frame boundary and a PMD or S-ADM burst in every block after it
  (§4.6–§4.8).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package stream drives the smpte337 framer block by block over a PCM
// stream: Augmentor writes metadata bursts in sync with the video-frame
// guardband cadence, and Extractor reads them back out the same way.
package stream

import (
	"github.com/pkg/errors"

	"github.com/ausocean/pmd/codec/pcm"
	"github.com/ausocean/pmd/smpte337"
)

// Logger is the narrow keyval-style logging interface stream consumes: a
// single Debug call, so callers need not supply a full logger.
type Logger interface {
	Debug(msg string, args ...interface{})
}

// Augmentor inserts metadata bursts into a PCM stream at the correct
// video-frame-synchronized cadence.
type Augmentor struct {
	writer     *smpte337.Writer
	vsync      *smpte337.VsyncTimer
	mode       smpte337.Mode
	dataType   smpte337.DataType
	remaining  int
	firstBlock bool
	log        Logger
}

// NewAugmentor constructs an Augmentor that writes dataType bursts across
// channels in the given mode, synchronized to rate's video-frame cadence.
func NewAugmentor(mode smpte337.Mode, channels []int, rate smpte337.FrameRate, dataType smpte337.DataType, log Logger) (*Augmentor, error) {
	w, err := smpte337.NewWriter(mode, channels)
	if err != nil {
		return nil, err
	}
	vt, err := smpte337.NewVsyncTimer(rate)
	if err != nil {
		return nil, err
	}
	a := &Augmentor{
		writer:     w,
		vsync:      vt,
		mode:       mode,
		dataType:   dataType,
		remaining:  vt.NextInterval(),
		firstBlock: true,
		log:        log,
	}
	return a, nil
}

// TryBlock reports, without writing anything, whether a burst carrying
// payloadBytes of data would fit in the next block (GREEN) or not (RED) —
// the "try_frame" dry run a caller uses to decide whether to shrink a
// payload (by eliding optional name fields, reporting YELLOW itself)
// before calling WriteBlock for real.
func (a *Augmentor) TryBlock(payloadBytes int) smpte337.Status {
	blockLen := a.nextBlockLen()
	needed := smpte337.BurstFrames(a.mode, a.dataType == smpte337.DataSADM, payloadBytes)
	if needed > blockLen {
		return smpte337.Red
	}
	return smpte337.Green
}

// nextBlockLen is the sample length available for the upcoming burst:
// BlockSamples normally, or BlockSamples-Guardband for the first block
// following a video-frame sync point, clipped to the cycle's remaining
// budget.
func (a *Augmentor) nextBlockLen() int {
	n := smpte337.BlockSamples
	if a.firstBlock {
		n -= smpte337.Guardband
	}
	if n > a.remaining {
		n = a.remaining
	}
	return n
}

// WriteBlock writes one block's worth of metadata (silence, if payload is
// nil) into buf starting at startFrame, laying down a guardband first if
// this block follows a video-frame sync point. It returns the number of
// PCM frames consumed, which the caller advances startFrame by before its
// next call.
func (a *Augmentor) WriteBlock(buf pcm.Buffer, startFrame int, payload []byte) (framesUsed int, status smpte337.Status, err error) {
	dataStart := startFrame
	guard := 0
	if a.firstBlock {
		guard = smpte337.Guardband
		if err := a.writer.Silence(buf, startFrame, guard); err != nil {
			return 0, smpte337.ErrorStatus, errors.Wrap(err, "stream: write guardband")
		}
		dataStart = startFrame + guard
	}

	blockLen := smpte337.BlockSamples - guard
	if blockLen > a.remaining {
		blockLen = a.remaining
	}

	if payload == nil {
		if err := a.writer.Silence(buf, dataStart, blockLen); err != nil {
			return 0, smpte337.ErrorStatus, errors.Wrap(err, "stream: write silent block")
		}
		status = smpte337.Green
	} else {
		_, status, err = a.writer.WriteBurst(buf, dataStart, blockLen, a.dataType, payload)
		if err != nil {
			return 0, smpte337.ErrorStatus, err
		}
		if status == smpte337.Red {
			a.log.Debug("burst did not fit in block", "payloadBytes", len(payload), "blockLen", blockLen)
		}
	}

	total := guard + blockLen
	a.advance(total)
	return total, status, nil
}

// advance consumes n samples from the current video-frame cycle,
// crossing into the next cycle entry (and re-arming the guardband) when
// the budget is exhausted.
func (a *Augmentor) advance(n int) {
	a.remaining -= n
	a.firstBlock = false
	if a.remaining <= 0 {
		a.remaining = a.vsync.NextInterval()
		a.firstBlock = true
	}
}
