/*
NAME
  preamble.go

DESCRIPTION
  preamble.go defines the SMPTE 337m preamble constants and phase sequence
  a PMD or S-ADM burst is built from (§4.6, §6.4).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package smpte337 implements the SMPTE 337m non-PCM framing state machine
// that carries PMD or S-ADM metadata inside a pair (or single channel) of
// otherwise ordinary PCM audio, video-frame-synchronized guardband cadence
// included. Samples are always exchanged in the 20-bit-in-upper-20-of-32
// canonical form codec/pcm produces and consumes.
package smpte337

import "github.com/pkg/errors"

// SampleRate is the fixed audio sample rate this package operates at
// (§4.7: all frame-rate cycle tables are expressed at 48 kHz).
const SampleRate = 48000

// BlockSamples is the length of one PMD block in samples, mid-frame
// (§4.6); the first block of a video frame is shorter by Guardband.
const BlockSamples = 160

// Guardband is the number of zeroed samples immediately following every
// video-frame sync point, during which no metadata is emitted (§6.5).
const Guardband = 32

// Preamble word values, already left-shifted into the canonical 20-bit-in-
// upper-20-of-32 sample form codec/pcm reads and writes (§4.6).
const (
	PaWord   uint32 = 0x6f872000
	PbWord   uint32 = 0x54e1f000
	PcPMD    uint32 = 0x003b0000 | 0x01000000
	PcNull   uint32 = 0x00000000
	PeWord   uint32 = 0x00001000
	PfWord   uint32 = 0x00000000
	assembleInfoWord uint32 = 0x00000000 // in-timeline-flag=0, track_numbers=0, track_id=0
	formatInfoWord   uint32 = 0x00010000 // format_type=1 (gzip)
)

// pcDataTypeByte is the byte at bits 16..23 of a Pc word (§6.4's DT field
// for S-ADM; the equivalent discriminator byte for PMD), used to classify
// an observed burst without needing the writer's exact flag assembly.
const (
	pcDataTypePMD  byte = 0x3b
	pcDataTypeSADM byte = 0x1f // DT=31
)

// DataType is the payload kind a burst's Pc word declares.
type DataType int

const (
	DataNone DataType = iota
	DataPMD
	DataSADM
)

// ClassifyPc inspects a captured Pc word and reports its DataType. A Pc
// whose key-flag bit (24) is unset, or whose type byte matches neither
// discriminator, classifies as DataNone (§8 scenario 5, boundary
// behaviors: "a stale Pc is treated as no burst this block").
func ClassifyPc(pc uint32) DataType {
	if pc&0x01000000 == 0 {
		return DataNone
	}
	switch byte(pc >> 16) {
	case pcDataTypePMD:
		return DataPMD
	case pcDataTypeSADM:
		return DataSADM
	default:
		return DataNone
	}
}

// AssemblePcSADM builds the S-ADM Pc word from the §6.4 bitfield table:
// DSN=0 (bits 29..31), MCF=0 (27..28), FF=1 (26), AI=1 (25), CMF=1 (24),
// DT=31 (16..23).
func AssemblePcSADM() uint32 {
	var v uint32
	v |= 1 << 26 // FF
	v |= 1 << 25 // AI
	v |= 1 << 24 // CMF
	v |= 31 << 16 // DT
	return v
}

// PdWord builds the Pd preamble word from a databit count (§4.6: "(databits
// << 12)").
func PdWord(databits int) uint32 { return uint32(databits) << 12 }

// DatabitsOf extracts the databit count a Pd word declares.
func DatabitsOf(pd uint32) int { return int(pd>>12) & 0xfffff }

// Mode is the channel arrangement a framer drives bursts across.
type Mode int

const (
	ModeSingle Mode = iota
	ModePair
)

// channelsFor validates a channel list against mode.
func channelsFor(mode Mode, channels []int) error {
	switch mode {
	case ModeSingle:
		if len(channels) != 1 {
			return errors.Errorf("smpte337: single-channel mode requires exactly one channel, got %d", len(channels))
		}
	case ModePair:
		if len(channels) != 2 {
			return errors.Errorf("smpte337: pair mode requires exactly two channels, got %d", len(channels))
		}
	default:
		return errors.Errorf("smpte337: unknown mode %d", mode)
	}
	return nil
}

// preambleWordCount is the number of 20-bit preamble words a burst carries
// before its data words: Pa, Pb, Pc, Pd, and (S-ADM only) Pe, Pf,
// assemble_info, format_info.
func preambleWordCount(sadm bool) int {
	if sadm {
		return 8
	}
	return 4
}

// wordsToFrames converts a word count to the number of PCM frames it
// occupies: one word per frame in single-channel mode, two words (one per
// channel) per frame in pair mode (§4.6's pair packing, simplified here to
// one whole 20-bit word per channel per frame rather than the bit-level
// zig-zag straddle across the 40-bit pair — see DESIGN.md).
func wordsToFrames(mode Mode, words int) int {
	if mode == ModeSingle {
		return words
	}
	return (words + 1) / 2
}

// roundUpWords rounds a bit count up to a whole number of 20-bit words.
func roundUpWords(bits int) int {
	return (bits + 19) / 20
}

// BurstFrames reports how many PCM frames a burst carrying payloadBytes
// bytes of data would occupy in the given mode, including its preamble —
// the figure stream.Augmentor compares against a block's sample budget
// before committing a write (§4.8's GREEN/RED decision).
func BurstFrames(mode Mode, sadm bool, payloadBytes int) int {
	dataWords := roundUpWords(payloadBytes * 8)
	return wordsToFrames(mode, preambleWordCount(sadm)+dataWords)
}
