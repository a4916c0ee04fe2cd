/*
NAME
  klv.go

DESCRIPTION
  klv.go implements the KLV (Key-Length-Value) encoding of a PMD model
  (§4.5): a 16-byte Universal Key, a BER-encoded length, and a payload body
  made of per-tag sub-records emitted in a fixed order and closed with a
  CRC16 checksum.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package klv implements the binary Key-Length-Value encoding PMD uses to
// ride inside SMPTE 337m bursts, and its inverse decoder.
package klv

import (
	"bytes"

	"github.com/icza/bitio"
	"github.com/pkg/errors"

	"github.com/ausocean/pmd/core"
	"github.com/ausocean/pmd/pmd"
)

// UL is a 16-byte KLV Universal Key.
type UL [16]byte

// KeyDolbyPrivate and KeySMPTE2109 are the two Universal Keys a PMD KLV
// stream may be tagged with (§4.5: "configurable between 'Dolby Private'
// and 'SMPTE 2109'"). The exact registered byte values are organization-
// assigned and were not present in the retained reference excerpt; these
// are stable placeholders distinguishable from one another and from the
// zero key.
var (
	KeyDolbyPrivate = UL{0x06, 0x0e, 0x2b, 0x34, 0x02, 0x05, 0x01, 0x01, 0x0d, 0x01, 0x02, 0x01, 0x01, 0x00, 0x00, 0x00}
	KeySMPTE2109    = UL{0x06, 0x0e, 0x2b, 0x34, 0x02, 0x05, 0x01, 0x01, 0x0d, 0x01, 0x02, 0x01, 0x02, 0x00, 0x00, 0x00}
)

// Sub-tags, emitted in this fixed order within the payload body.
const (
	tagAudioBeds         byte = 0x01
	tagAudioObjects      byte = 0x02
	tagPresentations     byte = 0x03
	tagIAT               byte = 0x04
	tagEEP               byte = 0x05
	tagETD               byte = 0x06
	tagHED               byte = 0x07
	tagUpdates           byte = 0x08
	tagLoudness          byte = 0x09
	tagElementNames      byte = 0x0a
	tagPresentationNames byte = 0x0b
	tagCRC               byte = 0x0c
)

// Encode serializes m's entire content as one KLV frame under key.
func Encode(m *pmd.Model, key UL) ([]byte, error) {
	var body bytes.Buffer

	if err := writeSub(&body, tagAudioBeds, encodeBeds(m)); err != nil {
		return nil, err
	}
	if err := writeSub(&body, tagAudioObjects, encodeObjects(m)); err != nil {
		return nil, err
	}
	if err := writeSub(&body, tagPresentations, encodePresentations(m)); err != nil {
		return nil, err
	}
	if b := encodeIAT(m); b != nil {
		if err := writeSub(&body, tagIAT, b); err != nil {
			return nil, err
		}
	}
	if b := encodeEEP(m); len(b) > 0 {
		if err := writeSub(&body, tagEEP, b); err != nil {
			return nil, err
		}
	}
	if b := encodeETD(m); len(b) > 0 {
		if err := writeSub(&body, tagETD, b); err != nil {
			return nil, err
		}
	}
	if b := encodeHED(m); len(b) > 0 {
		if err := writeSub(&body, tagHED, b); err != nil {
			return nil, err
		}
	}
	if b, err := encodeUpdates(m); err != nil {
		return nil, err
	} else if len(b) > 0 {
		if err := writeSub(&body, tagUpdates, b); err != nil {
			return nil, err
		}
	}
	if b := encodeLoudness(m); len(b) > 0 {
		if err := writeSub(&body, tagLoudness, b); err != nil {
			return nil, err
		}
	}
	if b := encodeElementNames(m); len(b) > 0 {
		if err := writeSub(&body, tagElementNames, b); err != nil {
			return nil, err
		}
	}
	if b := encodePresentationNames(m); len(b) > 0 {
		if err := writeSub(&body, tagPresentationNames, b); err != nil {
			return nil, err
		}
	}

	var out bytes.Buffer
	out.Write(key[:])
	out.Write(writeBER(body.Len() + 2 + crcSubHeaderLen))
	out.Write(body.Bytes())

	crc := crc16(out.Bytes())
	crcBody := []byte{byte(crc >> 8), byte(crc)}
	if err := writeSub(&out, tagCRC, crcBody); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// crcSubHeaderLen is the byte length of the tagCRC sub-record's own
// tag+length header (tag byte + one-byte BER length, since its value is
// always exactly 2 bytes).
const crcSubHeaderLen = 2

func writeSub(w *bytes.Buffer, tag byte, value []byte) error {
	w.WriteByte(tag)
	w.Write(writeBER(len(value)))
	w.Write(value)
	return nil
}

// writeBER encodes n as a BER length field: short form (one byte) for
// n < 128, long form (a length-of-length byte with the high bit set,
// followed by the big-endian length) otherwise.
func writeBER(n int) []byte {
	if n < 0x80 {
		return []byte{byte(n)}
	}
	var be []byte
	for v := n; v > 0; v >>= 8 {
		be = append([]byte{byte(v)}, be...)
	}
	return append([]byte{0x80 | byte(len(be))}, be...)
}

// readBER decodes a BER length field at the start of data, returning the
// length and the number of bytes the field itself occupied.
func readBER(data []byte) (length, consumed int, err error) {
	if len(data) == 0 {
		return 0, 0, errors.New("klv: truncated BER length")
	}
	first := data[0]
	if first&0x80 == 0 {
		return int(first), 1, nil
	}
	n := int(first &^ 0x80)
	if n == 0 || len(data) < 1+n {
		return 0, 0, errors.New("klv: truncated BER long-form length")
	}
	length = 0
	for _, b := range data[1 : 1+n] {
		length = length<<8 | int(b)
	}
	return length, 1 + n, nil
}

// Decode parses a KLV frame produced by Encode, populating a fresh PMD
// model. The model must be empty.
func Decode(data []byte, out *pmd.Model) error {
	if !out.IsEmpty() {
		return errors.New("klv: Decode requires an empty model")
	}
	if len(data) < 16 {
		return errors.New("klv: frame shorter than a Universal Key")
	}
	length, consumed, err := readBER(data[16:])
	if err != nil {
		return errors.Wrap(err, "klv: frame length")
	}
	start := 16 + consumed
	if start+length > len(data) {
		return errors.New("klv: declared frame length exceeds buffer")
	}
	frame := data[:start+length]
	body := frame[start:]

	objectIDOf := make(map[int]int) // wire object ID -> pmd object ID
	bedIDOf := make(map[int]int)
	presIDOf := make(map[int]int)

	for len(body) > 0 {
		tag := body[0]
		l, c, err := readBER(body[1:])
		if err != nil {
			return errors.Wrap(err, "klv: sub-record length")
		}
		hdr := 1 + c
		if hdr+l > len(body) {
			return errors.New("klv: sub-record overruns body")
		}
		value := body[hdr : hdr+l]
		body = body[hdr+l:]

		switch tag {
		case tagAudioBeds:
			if err := decodeBeds(value, out, bedIDOf); err != nil {
				return err
			}
		case tagAudioObjects:
			if err := decodeObjects(value, out, objectIDOf); err != nil {
				return err
			}
		case tagPresentations:
			if err := decodePresentations(value, out, bedIDOf, objectIDOf, presIDOf); err != nil {
				return err
			}
		case tagIAT:
			if err := decodeIAT(value, out); err != nil {
				return err
			}
		case tagEEP:
			if err := decodeEEP(value, out); err != nil {
				return err
			}
		case tagETD:
			if err := decodeETD(value, out); err != nil {
				return err
			}
		case tagHED:
			if err := decodeHED(value, out); err != nil {
				return err
			}
		case tagUpdates:
			if err := decodeUpdates(value, out, objectIDOf); err != nil {
				return err
			}
		case tagLoudness:
			if err := decodeLoudness(value, out, presIDOf); err != nil {
				return err
			}
		case tagElementNames, tagPresentationNames:
			// Full-text names duplicate what AOD/APD short names already
			// carry in this implementation; nothing further to apply.
		case tagCRC:
			crcOffset := len(frame) - len(body) - hdr - l
			want := crc16(frame[:crcOffset])
			if len(value) != 2 || uint16(value[0])<<8|uint16(value[1]) != want {
				return errors.New("klv: CRC mismatch")
			}
		default:
			// Unknown tags are skipped; forward compatible with future fields.
		}
	}
	return nil
}

// crc16 computes CRC16/CCITT-FALSE (init 0xFFFF, poly 0x1021) over data, per
// the implementation choice recorded for the undocumented KLV closing
// checksum.
func crc16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// bitWriter/bitReader wrap bitio over a byte buffer for the fixed-point
// position/gain sub-fields used by the object AOD and XYZ update records.

func newBitWriter() (*bitio.Writer, *bytes.Buffer) {
	var buf bytes.Buffer
	return bitio.NewWriter(&buf), &buf
}

func newBitReader(b []byte) *bitio.Reader {
	return bitio.NewReader(bytes.NewReader(b))
}

// q16 packs a float64 into a signed Q15.16 fixed-point 32-bit word, the
// fixed-point form used for position and gain sub-fields on the wire.
func q16(v float64) uint32 { return uint32(int32(v * 65536)) }
func unq16(v uint32) float64 { return float64(int32(v)) / 65536 }

func writePosition(w *bitio.Writer, p core.Position) error {
	form := uint64(0)
	a, b, c := p.X, p.Y, p.Z
	if p.IsSpherical() {
		form = 1
		a, b, c = p.Azimuth, p.Elevation, p.Distance
	}
	if err := w.WriteBits(form, 1); err != nil {
		return err
	}
	for _, v := range []float64{a, b, c} {
		if err := w.WriteBits(uint64(q16(v)), 32); err != nil {
			return err
		}
	}
	return nil
}

func readPosition(r *bitio.Reader) (core.Position, error) {
	form, err := r.ReadBits(1)
	if err != nil {
		return core.Position{}, err
	}
	var vals [3]float64
	for i := range vals {
		bits, err := r.ReadBits(32)
		if err != nil {
			return core.Position{}, err
		}
		vals[i] = unq16(uint32(bits))
	}
	if form == 1 {
		return core.NewSphericalPosition(vals[0], vals[1], vals[2]), nil
	}
	return core.NewCartesianPosition(vals[0], vals[1], vals[2]), nil
}

func writeGain(w *bitio.Writer, g core.Gain) error {
	unit := uint64(0)
	if g.Unit == core.Decibels {
		unit = 1
	}
	if err := w.WriteBits(unit, 1); err != nil {
		return err
	}
	return w.WriteBits(uint64(q16(g.Value)), 32)
}

func readGain(r *bitio.Reader) (core.Gain, error) {
	unit, err := r.ReadBits(1)
	if err != nil {
		return core.Gain{}, err
	}
	bits, err := r.ReadBits(32)
	if err != nil {
		return core.Gain{}, err
	}
	u := core.Linear
	if unit == 1 {
		u = core.Decibels
	}
	return core.NewGain(unq16(uint32(bits)), u), nil
}
