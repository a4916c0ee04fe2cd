/*
NAME
  timecode.go

DESCRIPTION
  timecode.go implements the Time value type: whole seconds plus a sample
  offset at a named sample rate, with the SMPTE-style textual form
  "hh:mm:ss.<samples>S<rate>".

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package core

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/pkg/errors"
)

// Timecode is a point in time expressed as hours/minutes/seconds plus a
// sample offset within the current second, at a named sample rate.
type Timecode struct {
	Hours, Minutes, Seconds int
	Samples                 uint64
	Rate                    uint64
}

var timecodePattern = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})\.(\d{5,9})S(\d{5,9})$`)

// WriteTimecode renders t in its canonical textual form.
func WriteTimecode(t Timecode) string {
	return fmt.Sprintf("%02d:%02d:%02d.%05dS%05d", t.Hours, t.Minutes, t.Seconds, t.Samples, t.Rate)
}

// ReadTimecode parses the textual form produced by WriteTimecode. The
// samples and rate fields must each be 5 to 9 digits, per spec.
func ReadTimecode(text string) (Timecode, error) {
	m := timecodePattern.FindStringSubmatch(text)
	if m == nil {
		return Timecode{}, errors.Errorf("timecode: malformed time %q", text)
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	s, _ := strconv.Atoi(m[3])
	samples, err := strconv.ParseUint(m[4], 10, 64)
	if err != nil {
		return Timecode{}, errors.Wrapf(err, "timecode: bad sample offset in %q", text)
	}
	rate, err := strconv.ParseUint(m[5], 10, 64)
	if err != nil {
		return Timecode{}, errors.Wrapf(err, "timecode: bad sample rate in %q", text)
	}
	return Timecode{Hours: h, Minutes: min, Seconds: s, Samples: samples, Rate: rate}, nil
}

// TotalSeconds returns t expressed as a fractional number of seconds.
func (t Timecode) TotalSeconds() float64 {
	whole := float64(t.Hours*3600 + t.Minutes*60 + t.Seconds)
	if t.Rate == 0 {
		return whole
	}
	return whole + float64(t.Samples)/float64(t.Rate)
}
