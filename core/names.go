/*
NAME
  names.go

DESCRIPTION
  names.go implements the Names value type: a capped list of (text,
  BCP-47-language) pairs, with a single primary name followed by zero or
  more labels.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package core

import (
	"regexp"

	"github.com/pkg/errors"
	"golang.org/x/text/language"
)

// Name is a single (text, language) pair.
type Name struct {
	Text string
	Lang string
}

// Names is a bounded, ordered list of Name entries: entry 0 (if present) is
// the primary name, subsequent entries are labels. The cap varies by entity
// type (see entities.go's nameCaps table); Names enforces the cap it was
// built with and the "labels never precede a primary name" ordering rule.
type Names struct {
	entries []Name
	cap     int
}

// NewNames constructs an empty Names bounded to at most cap entries.
func NewNames(cap int) Names {
	return Names{cap: cap}
}

// broadcastLangPattern is a permissive fallback for broadcast language tags
// that golang.org/x/text/language's strict BCP-47 parser rejects (e.g. some
// three-letter ISO 639-2 bibliographic codes used by legacy PMD streams).
var broadcastLangPattern = regexp.MustCompile(`^[A-Za-z]{2,3}(-[A-Za-z0-9]{2,8})*$`)

// ValidateLang reports an error if lang is neither a tag golang.org/x/text/
// language accepts nor a plausible two/three-letter broadcast code.
func ValidateLang(lang string) error {
	if lang == "" {
		return nil
	}
	if _, err := language.Parse(lang); err == nil {
		return nil
	}
	if broadcastLangPattern.MatchString(lang) {
		return nil
	}
	return errors.Errorf("names: %q is not a valid BCP-47 or broadcast language tag", lang)
}

// AddPrimary sets the primary name, replacing any existing one. It is valid
// to call this even if labels already exist; the primary always occupies
// index 0.
func (n *Names) AddPrimary(text, lang string) error {
	if err := ValidateLang(lang); err != nil {
		return err
	}
	if len(n.entries) == 0 {
		if n.cap < 1 {
			return errors.New("names: name-limit cap is zero")
		}
		n.entries = append(n.entries, Name{Text: text, Lang: lang})
		return nil
	}
	n.entries[0] = Name{Text: text, Lang: lang}
	return nil
}

// AddLabel appends a secondary name. It fails if no primary name has been
// set yet (labels may not precede a primary name) or the cap is reached.
func (n *Names) AddLabel(text, lang string) error {
	if len(n.entries) == 0 {
		return errors.New("names: cannot add a label before a primary name")
	}
	if err := ValidateLang(lang); err != nil {
		return err
	}
	if len(n.entries) >= n.cap {
		return errors.Errorf("names: name-limit cap %d reached", n.cap)
	}
	n.entries = append(n.entries, Name{Text: text, Lang: lang})
	return nil
}

// Primary returns the primary name and whether one has been set.
func (n Names) Primary() (Name, bool) {
	if len(n.entries) == 0 {
		return Name{}, false
	}
	return n.entries[0], true
}

// Labels returns the secondary names, in insertion order.
func (n Names) Labels() []Name {
	if len(n.entries) <= 1 {
		return nil
	}
	out := make([]Name, len(n.entries)-1)
	copy(out, n.entries[1:])
	return out
}

// All returns every name entry, primary first.
func (n Names) All() []Name {
	out := make([]Name, len(n.entries))
	copy(out, n.entries)
	return out
}

// Len returns the number of name entries currently held.
func (n Names) Len() int { return len(n.entries) }

// Cap returns the configured maximum number of entries.
func (n Names) Cap() int { return n.cap }
