/*
NAME
  writer.go

DESCRIPTION
  writer.go implements the burst writer: given a serialized KLV or S-ADM
  payload, it lays down Pa/Pb/Pc/Pd(/Pe/Pf/assemble_info/format_info) and
  the bit-packed data words into a PCM buffer (§4.6).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package smpte337

import (
	"bytes"

	"github.com/icza/bitio"
	"github.com/pkg/errors"

	"github.com/ausocean/pmd/codec/pcm"
)

// Status is the outcome of a single burst write attempt, mirroring the
// original encoder's traffic-light result (§4.8).
type Status int

const (
	Green Status = iota
	Yellow
	Red
	ErrorStatus
)

// Writer lays PMD or S-ADM bursts into a PCM buffer across a single
// channel or a stereo pair. Which preamble extension a given burst gets
// (PMD's Pc/Pd pair, or S-ADM's additional Pe/Pf/assemble_info/
// format_info) is chosen per call by WriteBurst's dataType argument.
type Writer struct {
	mode     Mode
	channels []int
}

// NewWriter constructs a Writer for the given channel arrangement.
func NewWriter(mode Mode, channels []int) (*Writer, error) {
	if err := channelsFor(mode, channels); err != nil {
		return nil, err
	}
	return &Writer{mode: mode, channels: channels}, nil
}

// Channels returns the channel indices this writer drives.
func (w *Writer) Channels() []int { return w.channels }

// wordsFromBytes splits payload into 20-bit words, zero-padding the final word so
// the bit count is always a whole number of words. The databit count
// returned is the true (unpadded) payload bit length, carried in Pd so a
// reader knows how many trailing pad bits to discard.
func wordsFromBytes(payload []byte) ([]uint32, int, error) {
	databits := len(payload) * 8
	n := roundUpWords(databits)
	padded := make([]byte, n*20/8+1) // a couple of spare zero bytes covers any tail
	copy(padded, payload)

	r := bitio.NewReader(bytes.NewReader(padded))
	words := make([]uint32, n)
	for i := 0; i < n; i++ {
		v, err := r.ReadBits(20)
		if err != nil {
			return nil, 0, errors.Wrap(err, "smpte337: pack data words")
		}
		words[i] = uint32(v) << 12
	}
	return words, databits, nil
}

// bitsToWords reassembles a byte slice from a sequence of canonical-form
// 20-bit data words, truncated to exactly databits bits.
func bitsToWords(words []uint32, databits int) ([]byte, error) {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	for _, word := range words {
		if err := w.WriteBits(uint64(word>>12), 20); err != nil {
			return nil, errors.Wrap(err, "smpte337: unpack data words")
		}
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "smpte337: unpack data words flush")
	}
	out := buf.Bytes()
	need := (databits + 7) / 8
	if need > len(out) {
		return nil, errors.Errorf("smpte337: declared databits %d exceeds packed data", databits)
	}
	return out[:need], nil
}

// WriteBurst lays out one complete burst — preamble plus payload plus
// zero padding — into buf starting at startFrame, never writing past
// startFrame+blockFrames. It reports Green when the burst fit and Red
// when it did not (in which case no frames were modified).
func (w *Writer) WriteBurst(buf pcm.Buffer, startFrame, blockFrames int, dataType DataType, payload []byte) (framesUsed int, status Status, err error) {
	if dataType != DataPMD && dataType != DataSADM {
		return 0, ErrorStatus, errors.Errorf("smpte337: unsupported data type %d", dataType)
	}
	sadm := dataType == DataSADM
	dataWords, databits, err := wordsFromBytes(payload)
	if err != nil {
		return 0, ErrorStatus, err
	}
	preWords := preambleWordCount(sadm)
	totalWords := preWords + len(dataWords)
	needed := wordsToFrames(w.mode, totalWords)
	if needed > blockFrames {
		return 0, Red, nil
	}

	words := make([]uint32, 0, totalWords)
	words = append(words, PaWord, PbWord)
	if sadm {
		words = append(words, AssemblePcSADM())
	} else {
		words = append(words, PcPMD)
	}
	words = append(words, PdWord(databits))
	if sadm {
		words = append(words, PeWord, PfWord, assembleInfoWord, formatInfoWord)
	}
	words = append(words, dataWords...)

	if err := w.layWords(buf, startFrame, words); err != nil {
		return 0, ErrorStatus, err
	}
	if err := w.padSilence(buf, startFrame+needed, blockFrames-needed); err != nil {
		return 0, ErrorStatus, err
	}
	return needed, Green, nil
}

// layWords writes words one per channel-slot, advancing one frame after
// every len(channels) words (single mode: one word per frame; pair mode:
// two words per frame, documented simplification — see preamble.go).
func (w *Writer) layWords(buf pcm.Buffer, startFrame int, words []uint32) error {
	frame := startFrame
	ch := 0
	for _, v := range words {
		if err := buf.SetSampleAt(w.channels[ch], frame, v); err != nil {
			return errors.Wrap(err, "smpte337: write word")
		}
		ch++
		if ch == len(w.channels) {
			ch = 0
			frame++
		}
	}
	return nil
}

// Silence zeroes frames consecutive PCM frames across this writer's
// channels, starting at startFrame. Used by stream.Augmentor to lay down
// the guardband that follows every video-frame sync point.
func (w *Writer) Silence(buf pcm.Buffer, startFrame, frames int) error {
	return w.padSilence(buf, startFrame, frames)
}

// padSilence zeroes the trailing frames of a block after the burst ends.
func (w *Writer) padSilence(buf pcm.Buffer, startFrame, frames int) error {
	for f := startFrame; f < startFrame+frames; f++ {
		for _, c := range w.channels {
			if err := buf.SetSampleAt(c, f, 0); err != nil {
				return errors.Wrap(err, "smpte337: pad silence")
			}
		}
	}
	return nil
}
