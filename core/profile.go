/*
NAME
  profile.go

DESCRIPTION
  profile.go implements conformance-profile ingestion and recognition
  against the built-in supported-profile table (§4.2).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package core

import "strings"

// supportedProfile is one entry of the built-in recognized-profile table.
type supportedProfile struct {
	name       string
	level      string
	value      string
	minVersion string
	minMajor   string
	tag        RecognizedProfile
}

// supportedProfiles is the built-in table of profiles this implementation
// recognizes. A profile descriptor matches an entry if name/level/value are
// case-insensitively equal and the descriptor's version is >= the table's
// minVersion with the same major component.
var supportedProfiles = []supportedProfile{
	{name: "ITU-R BS.2076-2 Emission", level: "1", value: "1", minVersion: "1.0", minMajor: "1", tag: ProfileITUEmission},
	{name: "ITU-R BS.2076-2 Distribution", level: "1", value: "1", minVersion: "1.0", minMajor: "1", tag: ProfileITUDistribution},
}

func majorComponent(version string) string {
	if i := strings.IndexByte(version, '.'); i >= 0 {
		return version[:i]
	}
	return version
}

// versionAtLeast reports whether v is >= min, comparing dot-separated
// numeric components left to right; a shorter version is padded with
// zeros.
func versionAtLeast(v, min string) bool {
	vs := strings.Split(v, ".")
	ms := strings.Split(min, ".")
	for i := 0; i < len(vs) || i < len(ms); i++ {
		var a, b int
		if i < len(vs) {
			a = atoiLoose(vs[i])
		}
		if i < len(ms) {
			b = atoiLoose(ms[i])
		}
		if a != b {
			return a > b
		}
	}
	return true
}

func atoiLoose(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// recognize compares a Profile descriptor against the built-in table. A
// non-match leaves Recognized as ProfileNotInitialized.
func recognize(p Profile) RecognizedProfile {
	for _, sp := range supportedProfiles {
		if !strings.EqualFold(sp.name, p.Name) {
			continue
		}
		if !strings.EqualFold(sp.level, p.Level) {
			continue
		}
		if !strings.EqualFold(sp.value, p.Value) {
			continue
		}
		if majorComponent(p.Version) != sp.minMajor {
			continue
		}
		if !versionAtLeast(p.Version, sp.minVersion) {
			continue
		}
		return sp.tag
	}
	return ProfileNotInitialized
}

// AddProfile ingests a profile descriptor. Recognition failure does not
// fail ingestion (§4.2): an unmatched profile is still recorded, with
// Recognized left at ProfileNotInitialized.
func (m *Model) AddProfile(p Profile) {
	p.Recognized = recognize(p)
	m.profiles = append(m.profiles, p)
}

// HasProfile reports whether a profile descriptor matching name, level and
// value has been added, regardless of whether it was recognized.
func (m *Model) HasProfile(name, level, value string) bool {
	for _, p := range m.profiles {
		if strings.EqualFold(p.Name, name) && strings.EqualFold(p.Level, level) && strings.EqualFold(p.Value, value) {
			return true
		}
	}
	return false
}

// Profiles returns every profile descriptor added to the store so far.
func (m *Model) Profiles() []Profile {
	out := make([]Profile, len(m.profiles))
	copy(out, m.profiles)
	return out
}
