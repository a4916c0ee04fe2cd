/*
NAME
  records.go

DESCRIPTION
  records.go implements the per-tag payload bodies KLV frames carry: beds,
  objects, presentations, and the auxiliary EEP/ETD/IAT/HED/PLD records
  (§4.5, §4.3).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package klv

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/ausocean/pmd/core"
	"github.com/ausocean/pmd/pmd"
)

func writeStr(buf *bytes.Buffer, s string) {
	if len(s) > 255 {
		s = s[:255]
	}
	buf.WriteByte(byte(len(s)))
	buf.WriteString(s)
}

func readStr(data []byte) (string, int, error) {
	if len(data) < 1 {
		return "", 0, errors.New("klv: truncated string length")
	}
	n := int(data[0])
	if len(data) < 1+n {
		return "", 0, errors.New("klv: truncated string body")
	}
	return string(data[1 : 1+n]), 1 + n, nil
}

// packPosGain bit-packs a position and gain into a compact blob.
func packPosGain(pos core.Position, gain core.Gain) ([]byte, error) {
	w, buf := newBitWriter()
	if err := writePosition(w, pos); err != nil {
		return nil, err
	}
	if err := writeGain(w, gain); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func unpackPosGain(blob []byte) (core.Position, core.Gain, error) {
	r := newBitReader(blob)
	pos, err := readPosition(r)
	if err != nil {
		return core.Position{}, core.Gain{}, err
	}
	gain, err := readGain(r)
	if err != nil {
		return core.Position{}, core.Gain{}, err
	}
	return pos, gain, nil
}

// --- audio-beds AOD ---

func encodeBeds(m *pmd.Model) []byte {
	var buf bytes.Buffer
	for _, b := range m.Beds() {
		var id16 [2]byte
		binary.BigEndian.PutUint16(id16[:], uint16(b.ID))
		buf.Write(id16[:])
		buf.WriteByte(b.FirstSignal)
		writeStr(&buf, b.Config)
		writeStr(&buf, b.Label)
		buf.WriteByte(byte(len(b.Tags)))
		for _, t := range b.Tags {
			writeStr(&buf, string(t))
		}
	}
	return buf.Bytes()
}

func decodeBeds(value []byte, out *pmd.Model, bedIDOf map[int]int) error {
	for len(value) > 0 {
		if len(value) < 3 {
			return errors.New("klv: truncated bed record")
		}
		wireID := int(binary.BigEndian.Uint16(value[:2]))
		firstSignal := value[2]
		value = value[3:]
		config, n, err := readStr(value)
		if err != nil {
			return errors.Wrap(err, "klv: bed config")
		}
		value = value[n:]
		label, n, err := readStr(value)
		if err != nil {
			return errors.Wrap(err, "klv: bed label")
		}
		value = value[n:]
		if len(value) < 1 {
			return errors.New("klv: truncated bed tag count")
		}
		tagCount := int(value[0])
		value = value[1:]
		var tags []pmd.ConformanceTag
		for i := 0; i < tagCount; i++ {
			t, n, err := readStr(value)
			if err != nil {
				return errors.Wrap(err, "klv: bed tag")
			}
			value = value[n:]
			tags = append(tags, pmd.ConformanceTag(t))
		}
		bedID, err := out.AddBed(pmd.FormatBedName(label, tags), config, firstSignal)
		if err != nil {
			return errors.Wrap(err, "klv: AddBed")
		}
		bedIDOf[wireID] = bedID
	}
	return nil
}

// --- audio-objects AOD ---

func encodeObjects(m *pmd.Model) []byte {
	var buf bytes.Buffer
	for _, o := range m.Objects() {
		var id16 [2]byte
		binary.BigEndian.PutUint16(id16[:], uint16(o.ID))
		buf.Write(id16[:])
		buf.WriteByte(o.Signal)
		writeStr(&buf, o.Label)
		blob, err := packPosGain(o.Position, o.Gain)
		if err != nil {
			continue // malformed position/gain never occurs in a valid model.
		}
		buf.WriteByte(byte(len(blob)))
		buf.Write(blob)
	}
	return buf.Bytes()
}

func decodeObjects(value []byte, out *pmd.Model, objectIDOf map[int]int) error {
	for len(value) > 0 {
		if len(value) < 3 {
			return errors.New("klv: truncated object record")
		}
		wireID := int(binary.BigEndian.Uint16(value[:2]))
		signal := value[2]
		value = value[3:]
		label, n, err := readStr(value)
		if err != nil {
			return errors.Wrap(err, "klv: object label")
		}
		value = value[n:]
		if len(value) < 1 {
			return errors.New("klv: truncated object blob length")
		}
		blobLen := int(value[0])
		value = value[1:]
		if len(value) < blobLen {
			return errors.New("klv: truncated object position/gain blob")
		}
		pos, gain, err := unpackPosGain(value[:blobLen])
		if err != nil {
			return errors.Wrap(err, "klv: object position/gain")
		}
		value = value[blobLen:]

		objID, err := out.AddObject(signal, pos, gain, label)
		if err != nil {
			return errors.Wrap(err, "klv: AddObject")
		}
		objectIDOf[wireID] = objID
	}
	return nil
}

// --- presentation APD ---

func encodePresentations(m *pmd.Model) []byte {
	var buf bytes.Buffer
	for _, p := range m.Presentations() {
		var id16 [2]byte
		binary.BigEndian.PutUint16(id16[:], uint16(p.ID))
		buf.Write(id16[:])
		writeStr(&buf, p.Name)
		writeStr(&buf, p.Lang)
		buf.WriteByte(byte(len(p.Elements)))
		for _, ref := range p.Elements {
			kind := byte(0)
			if ref.Kind == pmd.ElementObject {
				kind = 1
			}
			buf.WriteByte(kind)
			var ref16 [2]byte
			binary.BigEndian.PutUint16(ref16[:], uint16(ref.ID))
			buf.Write(ref16[:])
		}
	}
	return buf.Bytes()
}

func decodePresentations(value []byte, out *pmd.Model, bedIDOf, objectIDOf, presIDOf map[int]int) error {
	for len(value) > 0 {
		if len(value) < 2 {
			return errors.New("klv: truncated presentation record")
		}
		wireID := int(binary.BigEndian.Uint16(value[:2]))
		value = value[2:]
		name, n, err := readStr(value)
		if err != nil {
			return errors.Wrap(err, "klv: presentation name")
		}
		value = value[n:]
		lang, n, err := readStr(value)
		if err != nil {
			return errors.Wrap(err, "klv: presentation lang")
		}
		value = value[n:]
		if len(value) < 1 {
			return errors.New("klv: truncated presentation element count")
		}
		count := int(value[0])
		value = value[1:]
		var refs []pmd.ElementRef
		for i := 0; i < count; i++ {
			if len(value) < 3 {
				return errors.New("klv: truncated presentation element ref")
			}
			kind := value[0]
			refWireID := int(binary.BigEndian.Uint16(value[1:3]))
			value = value[3:]
			var ref pmd.ElementRef
			if kind == 1 {
				id, ok := objectIDOf[refWireID]
				if !ok {
					return errors.Errorf("klv: presentation references unknown object %d", refWireID)
				}
				ref = pmd.ElementRef{Kind: pmd.ElementObject, ID: id}
			} else {
				id, ok := bedIDOf[refWireID]
				if !ok {
					return errors.Errorf("klv: presentation references unknown bed %d", refWireID)
				}
				ref = pmd.ElementRef{Kind: pmd.ElementBed, ID: id}
			}
			refs = append(refs, ref)
		}
		presID, err := out.AddPresentation(name, lang, refs)
		if err != nil {
			return errors.Wrap(err, "klv: AddPresentation")
		}
		presIDOf[wireID] = presID
	}
	return nil
}

// --- update XYZ ---

func encodeUpdates(m *pmd.Model) ([]byte, error) {
	var buf bytes.Buffer
	for _, u := range m.Updates() {
		var id16 [2]byte
		binary.BigEndian.PutUint16(id16[:], uint16(u.ObjectID))
		buf.Write(id16[:])
		var off32 [4]byte
		binary.BigEndian.PutUint32(off32[:], uint32(u.SampleOffset))
		buf.Write(off32[:])
		blob, err := packPosGain(u.Position, u.Gain)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(byte(len(blob)))
		buf.Write(blob)
	}
	return buf.Bytes(), nil
}

func decodeUpdates(value []byte, out *pmd.Model, objectIDOf map[int]int) error {
	for len(value) > 0 {
		if len(value) < 6 {
			return errors.New("klv: truncated update record")
		}
		wireObjID := int(binary.BigEndian.Uint16(value[:2]))
		offset := int(binary.BigEndian.Uint32(value[2:6]))
		value = value[6:]
		if len(value) < 1 {
			return errors.New("klv: truncated update blob length")
		}
		blobLen := int(value[0])
		value = value[1:]
		if len(value) < blobLen {
			return errors.New("klv: truncated update blob")
		}
		pos, gain, err := unpackPosGain(value[:blobLen])
		if err != nil {
			return err
		}
		value = value[blobLen:]

		objID, ok := objectIDOf[wireObjID]
		if !ok {
			return errors.Errorf("klv: update references unknown object %d", wireObjID)
		}
		if err := out.AddUpdate(pmd.Update{ObjectID: objID, SampleOffset: offset, Position: pos, Gain: gain}); err != nil {
			return errors.Wrap(err, "klv: AddUpdate")
		}
	}
	return nil
}

// --- loudness PLD ---

func encodeLoudness(m *pmd.Model) []byte {
	var buf bytes.Buffer
	for _, p := range m.Presentations() {
		l, ok := m.LoudnessFor(p.ID)
		if !ok {
			continue
		}
		var id16 [2]byte
		binary.BigEndian.PutUint16(id16[:], uint16(p.ID))
		buf.Write(id16[:])
		var lkfs [8]byte
		binary.BigEndian.PutUint64(lkfs[:], uint64(int64(l.LKFS*256)))
		buf.Write(lkfs[:])
		writeStr(&buf, l.Method)
	}
	return buf.Bytes()
}

func decodeLoudness(value []byte, out *pmd.Model, presIDOf map[int]int) error {
	for len(value) > 0 {
		if len(value) < 10 {
			return errors.New("klv: truncated loudness record")
		}
		wireID := int(binary.BigEndian.Uint16(value[:2]))
		fixed := int64(binary.BigEndian.Uint64(value[2:10]))
		value = value[10:]
		method, n, err := readStr(value)
		if err != nil {
			return errors.Wrap(err, "klv: loudness method")
		}
		value = value[n:]

		presID, ok := presIDOf[wireID]
		if !ok {
			return errors.Errorf("klv: loudness references unknown presentation %d", wireID)
		}
		if err := out.SetLoudness(presID, float64(fixed)/256, method); err != nil {
			return errors.Wrap(err, "klv: SetLoudness")
		}
	}
	return nil
}

// --- IAT / EEP / ETD / HED ---

func encodeIAT(m *pmd.Model) []byte {
	t, ok := m.InputTimecodeOf()
	if !ok {
		return nil
	}
	var buf bytes.Buffer
	for _, v := range []int{t.Hours, t.Minutes, t.Seconds, t.Frames} {
		buf.WriteByte(byte(v))
	}
	var off32 [4]byte
	binary.BigEndian.PutUint32(off32[:], uint32(t.Offset))
	buf.Write(off32[:])
	return buf.Bytes()
}

func decodeIAT(value []byte, out *pmd.Model) error {
	if len(value) != 8 {
		return errors.New("klv: malformed IAT record")
	}
	out.SetInputTimecode(pmd.InputTimecode{
		Hours: int(value[0]), Minutes: int(value[1]), Seconds: int(value[2]), Frames: int(value[3]),
		Offset: int(binary.BigEndian.Uint32(value[4:8])),
	})
	return nil
}

func encodeEEP(m *pmd.Model) []byte {
	p, ok := m.EncoderParametersOf()
	if !ok {
		return nil
	}
	var buf bytes.Buffer
	writeStr(&buf, p.ProgramConfig)
	writeStr(&buf, p.FrameRate)
	buf.WriteByte(byte(p.BitDepth))
	return buf.Bytes()
}

func decodeEEP(value []byte, out *pmd.Model) error {
	cfg, n, err := readStr(value)
	if err != nil {
		return errors.Wrap(err, "klv: EEP program config")
	}
	value = value[n:]
	rate, n, err := readStr(value)
	if err != nil {
		return errors.Wrap(err, "klv: EEP frame rate")
	}
	value = value[n:]
	if len(value) < 1 {
		return errors.New("klv: truncated EEP bit depth")
	}
	out.SetEncoderParameters(pmd.EncoderParameters{ProgramConfig: cfg, FrameRate: rate, BitDepth: int(value[0])})
	return nil
}

func encodeETD(m *pmd.Model) []byte {
	d, ok := m.TransportDescriptorOf()
	if !ok {
		return nil
	}
	var buf [8]byte
	binary.BigEndian.PutUint32(buf[0:4], uint32(d.ChannelPair))
	binary.BigEndian.PutUint32(buf[4:8], uint32(d.DataRate))
	return buf[:]
}

func decodeETD(value []byte, out *pmd.Model) error {
	if len(value) != 8 {
		return errors.New("klv: malformed ETD record")
	}
	out.SetTransportDescriptor(pmd.TransportDescriptor{
		ChannelPair: int(binary.BigEndian.Uint32(value[0:4])),
		DataRate:    int(binary.BigEndian.Uint32(value[4:8])),
	})
	return nil
}

func encodeHED(m *pmd.Model) []byte {
	var buf bytes.Buffer
	for _, h := range m.HeadphoneElements() {
		var id16 [2]byte
		binary.BigEndian.PutUint16(id16[:], uint16(h.ObjectID))
		buf.Write(id16[:])
		writeStr(&buf, h.Preset)
	}
	return buf.Bytes()
}

func decodeHED(value []byte, out *pmd.Model) error {
	for len(value) > 0 {
		if len(value) < 2 {
			return errors.New("klv: truncated HED record")
		}
		objID := int(binary.BigEndian.Uint16(value[:2]))
		value = value[2:]
		preset, n, err := readStr(value)
		if err != nil {
			return errors.Wrap(err, "klv: HED preset")
		}
		value = value[n:]
		if err := out.AddHeadphoneElement(pmd.HeadphoneElement{ObjectID: objID, Preset: preset}); err != nil {
			return errors.Wrap(err, "klv: AddHeadphoneElement")
		}
	}
	return nil
}

// --- AEN / APN full-text names ---
//
// PMD's short AOD/APD records already carry the full label text in this
// implementation (there is no separate short/long name split), so these
// encode functions emit the same text again for wire compatibility with
// readers that expect the AEN/APN tags to be present; decode intentionally
// ignores them (see klv.go's tagElementNames/tagPresentationNames case).

func encodeElementNames(m *pmd.Model) []byte {
	var buf bytes.Buffer
	for _, b := range m.Beds() {
		var id16 [2]byte
		binary.BigEndian.PutUint16(id16[:], uint16(b.ID))
		buf.Write(id16[:])
		writeStr(&buf, b.Label)
	}
	for _, o := range m.Objects() {
		var id16 [2]byte
		binary.BigEndian.PutUint16(id16[:], uint16(o.ID))
		buf.Write(id16[:])
		writeStr(&buf, o.Label)
	}
	return buf.Bytes()
}

func encodePresentationNames(m *pmd.Model) []byte {
	var buf bytes.Buffer
	for _, p := range m.Presentations() {
		var id16 [2]byte
		binary.BigEndian.PutUint16(id16[:], uint16(p.ID))
		buf.Write(id16[:])
		writeStr(&buf, p.Name)
	}
	return buf.Bytes()
}
