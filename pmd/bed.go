/*
NAME
  bed.go

DESCRIPTION
  bed.go implements PMD beds: a named group of signals carrying a speaker
  configuration, optionally tagged with one or more conformance markers
  that must survive a round trip through the model unchanged (§3.4, §8).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pmd

import (
	"strings"

	"github.com/pkg/errors"
)

// ConformanceTag is one of the bracketed markers a bed's name may carry,
// e.g. "Bed 1$[ME]$[D]". Tags are opaque to this implementation: they are
// parsed out of, and re-rendered back into, the name unchanged.
type ConformanceTag string

// Tags defined by the reference encoder. Others are preserved verbatim but
// otherwise uninterpreted.
const (
	TagMainMix        ConformanceTag = "ME"
	TagCompleteMain    ConformanceTag = "CM"
	TagBackgroundMusic ConformanceTag = "BM"
	TagMusicAndLyrics  ConformanceTag = "ML"
	TagDialogue        ConformanceTag = "D"
	TagCommentary      ConformanceTag = "C"
)

// speakerConfigChannels gives the signal count of the standard speaker
// configurations a bed may declare.
var speakerConfigChannels = map[string]int{
	"1.0.0": 1, "2.0.0": 2, "3.0.0": 3, "5.1.0": 6, "5.1.2": 8, "5.1.4": 10,
	"7.1.0": 8, "7.1.2": 10, "7.1.4": 12, "9.1.6": 16,
}

// Bed is a PMD bed element: a speaker-config group of contiguous signals.
type Bed struct {
	ID           int
	Config       string // e.g. "5.1.4"; see speakerConfigChannels.
	FirstSignal  uint8  // first signal number; the bed spans speakerConfigChannels[Config] signals from here.
	Label        string // name text with conformance tags stripped out.
	Tags         []ConformanceTag
}

// ParseBedName splits a raw bed name into its label and trailing
// "$[TAG]..." conformance markers.
func ParseBedName(raw string) (label string, tags []ConformanceTag) {
	i := strings.IndexByte(raw, '$')
	if i < 0 {
		return raw, nil
	}
	label, rest := raw[:i], raw[i:]
	for len(rest) > 0 {
		if !strings.HasPrefix(rest, "$[") {
			break
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			break
		}
		tags = append(tags, ConformanceTag(rest[2:end]))
		rest = rest[end+1:]
	}
	return label, tags
}

// FormatBedName re-renders a label and its conformance tags back into a
// single PMD name string.
func FormatBedName(label string, tags []ConformanceTag) string {
	var b strings.Builder
	b.WriteString(label)
	for _, t := range tags {
		b.WriteString("$[")
		b.WriteString(string(t))
		b.WriteByte(']')
	}
	return b.String()
}

// NumChannels returns the signal count of the bed's speaker configuration.
func (b Bed) NumChannels() (int, error) {
	n, ok := speakerConfigChannels[b.Config]
	if !ok {
		return 0, errors.Errorf("pmd: unrecognized speaker config %q", b.Config)
	}
	return n, nil
}

// Name renders the bed's full wire-format name, label plus tags.
func (b Bed) Name() string { return FormatBedName(b.Label, b.Tags) }

// AddBed adds a bed built from a raw name (label plus any "$[TAG]"
// markers), a speaker configuration and a first signal number. The bed's
// signals (FirstSignal..FirstSignal+n-1) must already be registered via
// AddSignal.
func (m *Model) AddBed(rawName, config string, firstSignal uint8) (int, error) {
	if err := m.checkElementCapacity(); err != nil {
		return 0, err
	}
	n, ok := speakerConfigChannels[config]
	if !ok {
		return 0, errors.Errorf("pmd: unrecognized speaker config %q", config)
	}
	if int(firstSignal)+n-1 > MaxSignal {
		return 0, errors.Errorf("pmd: bed signals overflow past %d", MaxSignal)
	}
	for s := firstSignal; int(s) < int(firstSignal)+n; s++ {
		if !m.signals[s] {
			return 0, errors.Errorf("pmd: bed references unregistered signal %d", s)
		}
	}
	label, tags := ParseBedName(rawName)
	id := len(m.beds) + len(m.objects) + 1
	m.beds = append(m.beds, Bed{ID: id, Config: config, FirstSignal: firstSignal, Label: label, Tags: tags})
	return id, nil
}
