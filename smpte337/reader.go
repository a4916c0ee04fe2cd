/*
NAME
  reader.go

DESCRIPTION
  reader.go implements burst scanning and extraction: recovering Pa/Pb
  sync, classifying Pc, reading Pd's length, and pulling the payload back
  out of a PCM buffer (§4.6, §4.8 recovery policy).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package smpte337

import (
	"github.com/ausocean/pmd/codec/pcm"
)

// Reader scans a PCM buffer for SMPTE 337m bursts across a single channel
// or a stereo pair.
type Reader struct {
	mode     Mode
	channels []int
}

// NewReader constructs a Reader for the given channel arrangement.
func NewReader(mode Mode, channels []int) (*Reader, error) {
	if err := channelsFor(mode, channels); err != nil {
		return nil, err
	}
	return &Reader{mode: mode, channels: channels}, nil
}

// Burst is one extracted metadata burst.
type Burst struct {
	DataType   DataType
	Payload    []byte
	FramesUsed int
}

// wordAt reads the word occupying the given logical word index (0-based,
// counting channel-slots within frames the way layWords lays them down).
func (r *Reader) wordAt(buf pcm.Buffer, startFrame, index int) (uint32, error) {
	perFrame := len(r.channels)
	frame := startFrame + index/perFrame
	ch := r.channels[index%perFrame]
	return buf.SampleAt(ch, frame)
}

// ScanBurst looks for a burst starting at or after startFrame, within the
// next maxFrames frames. It returns found=false (no error) if no valid Pa
// sync is found before maxFrames is exhausted — the caller resumes
// scanning from startFrame+consumed on the next call, implementing the
// "drop back to Pa-scanning" recovery policy for stale or truncated
// bursts (§4.8).
func (r *Reader) ScanBurst(buf pcm.Buffer, startFrame, maxFrames int) (burst Burst, consumed int, found bool, err error) {
	limit := startFrame + maxFrames
	for frame := startFrame; frame < limit; frame++ {
		pa, err := buf.SampleAt(r.channels[0], frame)
		if err != nil {
			return Burst{}, frame - startFrame, false, err
		}
		if pa != PaWord {
			continue
		}
		b, words, ok, rerr := r.tryReadAt(buf, frame, limit)
		if rerr != nil {
			return Burst{}, frame - startFrame + 1, false, rerr
		}
		if !ok {
			// Stale/corrupt burst: drop it and keep scanning past Pa.
			continue
		}
		return b, frame - startFrame + words, true, nil
	}
	return Burst{}, maxFrames, false, nil
}

// tryReadAt attempts to read one full burst assuming Pa is present at
// frame. It returns ok=false (no error) for any recoverable framing
// fault: missing Pb, unrecognized Pc, or a Pd claiming more data than
// fits before limit.
func (r *Reader) tryReadAt(buf pcm.Buffer, frame, limit int) (Burst, int, bool, error) {
	wordIdx := func(i int) (uint32, error) { return r.wordAt(buf, frame, i) }

	pb, err := wordIdx(1)
	if err != nil {
		return Burst{}, 0, false, err
	}
	if pb != PbWord {
		return Burst{}, 0, false, nil
	}
	pc, err := wordIdx(2)
	if err != nil {
		return Burst{}, 0, false, err
	}
	dt := ClassifyPc(pc)
	if dt == DataNone {
		return Burst{}, 0, false, nil
	}
	pd, err := wordIdx(3)
	if err != nil {
		return Burst{}, 0, false, err
	}
	databits := DatabitsOf(pd)

	preWords := preambleWordCount(dt == DataSADM)
	dataWords := roundUpWords(databits)
	totalWords := preWords + dataWords
	totalFrames := wordsToFrames(r.mode, totalWords)
	if frame+totalFrames > limit {
		return Burst{}, 0, false, nil
	}
	if databits <= 0 || databits > 0xfffff {
		return Burst{}, 0, false, nil
	}

	words := make([]uint32, dataWords)
	for i := 0; i < dataWords; i++ {
		v, err := wordIdx(preWords + i)
		if err != nil {
			return Burst{}, 0, false, err
		}
		words[i] = v
	}
	payload, err := bitsToWords(words, databits)
	if err != nil {
		return Burst{}, 0, false, nil
	}
	return Burst{DataType: dt, Payload: payload, FramesUsed: totalFrames}, totalFrames, true, nil
}
