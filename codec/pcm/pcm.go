/*
NAME
  pcm.go

DESCRIPTION
  pcm.go contains functions for reading and writing individual PCM samples
  in the 24- or 32-bit containers used to carry SMPTE 337m metadata words,
  normalizing them to the 20-bit-in-upper-20-of-32 canonical form the framer
  and frame captor operate on (§4.6, §4.9).

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pcm provides functions for processing and converting PCM audio
// buffers that carry SMPTE 337m metadata channels.
package pcm

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Width is the physical container size, in bits, of one PCM sample.
type Width int

// Supported sample container widths (§4.9: bit_depth ∈ {24, 32}).
const (
	Width24 Width = 24
	Width32 Width = 32
)

// bytesPerSample returns the number of bytes a sample of width w occupies.
func bytesPerSample(w Width) (int, error) {
	switch w {
	case Width24:
		return 3, nil
	case Width32:
		return 4, nil
	default:
		return 0, errors.Errorf("pcm: unsupported sample width %d", w)
	}
}

// ReadSampleLE reads one little-endian sample of width w from the start of
// buf and left-justifies it into the upper bits of a uint32, so that for
// any supported width the 20 metadata-bearing bits always live in bits
// 12..31 of the result (matching package smpte337's canonical word form).
func ReadSampleLE(w Width, buf []byte) (uint32, error) {
	n, err := bytesPerSample(w)
	if err != nil {
		return 0, err
	}
	if len(buf) < n {
		return 0, errors.Errorf("pcm: buffer too short for %d-bit sample", w)
	}
	var v uint32
	switch w {
	case Width24:
		v = uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16
		v <<= 8
	case Width32:
		v = binary.LittleEndian.Uint32(buf[:4])
	}
	return v, nil
}

// ReadSampleBE is ReadSampleLE for big-endian-packed samples.
func ReadSampleBE(w Width, buf []byte) (uint32, error) {
	n, err := bytesPerSample(w)
	if err != nil {
		return 0, err
	}
	if len(buf) < n {
		return 0, errors.Errorf("pcm: buffer too short for %d-bit sample", w)
	}
	var v uint32
	switch w {
	case Width24:
		v = uint32(buf[0])<<16 | uint32(buf[1])<<8 | uint32(buf[2])
		v <<= 8
	case Width32:
		v = binary.BigEndian.Uint32(buf[:4])
	}
	return v, nil
}

// WriteSampleLE writes v (already left-justified into the upper bits, as
// returned by ReadSampleLE) into buf as a little-endian sample of width w.
func WriteSampleLE(w Width, buf []byte, v uint32) error {
	n, err := bytesPerSample(w)
	if err != nil {
		return err
	}
	if len(buf) < n {
		return errors.Errorf("pcm: buffer too short for %d-bit sample", w)
	}
	switch w {
	case Width24:
		v >>= 8
		buf[0] = byte(v)
		buf[1] = byte(v >> 8)
		buf[2] = byte(v >> 16)
	case Width32:
		binary.LittleEndian.PutUint32(buf[:4], v)
	}
	return nil
}

// WriteSampleBE is WriteSampleLE for big-endian-packed samples.
func WriteSampleBE(w Width, buf []byte, v uint32) error {
	n, err := bytesPerSample(w)
	if err != nil {
		return err
	}
	if len(buf) < n {
		return errors.Errorf("pcm: buffer too short for %d-bit sample", w)
	}
	switch w {
	case Width24:
		v >>= 8
		buf[0] = byte(v >> 16)
		buf[1] = byte(v >> 8)
		buf[2] = byte(v)
	case Width32:
		binary.BigEndian.PutUint32(buf[:4], v)
	}
	return nil
}

// BufferFormat describes the physical layout of a PCM block.
type BufferFormat struct {
	Rate      uint
	Channels  uint
	Width     Width
	BigEndian bool
}

// Buffer is one block of interleaved PCM audio in BufferFormat's layout.
type Buffer struct {
	Format BufferFormat
	Data   []byte
}

// frameBytes returns the byte length of one sample-set (all channels, one
// sample each).
func (b Buffer) frameBytes() (int, error) {
	n, err := bytesPerSample(b.Format.Width)
	if err != nil {
		return 0, err
	}
	return n * int(b.Format.Channels), nil
}

// Frames returns the number of complete sample-sets held in b.
func (b Buffer) Frames() int {
	fb, err := b.frameBytes()
	if err != nil || fb == 0 {
		return 0
	}
	return len(b.Data) / fb
}

// SampleAt returns the canonical-form sample for the given channel at the
// given frame index.
func (b Buffer) SampleAt(channel, frame int) (uint32, error) {
	off, err := b.offset(channel, frame)
	if err != nil {
		return 0, err
	}
	n, _ := bytesPerSample(b.Format.Width)
	if b.Format.BigEndian {
		return ReadSampleBE(b.Format.Width, b.Data[off:off+n])
	}
	return ReadSampleLE(b.Format.Width, b.Data[off:off+n])
}

// SetSampleAt writes v (canonical form) into the given channel and frame.
func (b Buffer) SetSampleAt(channel, frame int, v uint32) error {
	off, err := b.offset(channel, frame)
	if err != nil {
		return err
	}
	n, _ := bytesPerSample(b.Format.Width)
	if b.Format.BigEndian {
		return WriteSampleBE(b.Format.Width, b.Data[off:off+n], v)
	}
	return WriteSampleLE(b.Format.Width, b.Data[off:off+n], v)
}

func (b Buffer) offset(channel, frame int) (int, error) {
	if channel < 0 || uint(channel) >= b.Format.Channels {
		return 0, errors.Errorf("pcm: channel %d out of range [0,%d)", channel, b.Format.Channels)
	}
	n, err := bytesPerSample(b.Format.Width)
	if err != nil {
		return 0, err
	}
	fb := n * int(b.Format.Channels)
	off := frame*fb + channel*n
	if off+n > len(b.Data) {
		return 0, errors.Errorf("pcm: frame %d channel %d out of range", frame, channel)
	}
	return off, nil
}
