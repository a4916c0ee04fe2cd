/*
NAME
  status.go

DESCRIPTION
  status.go defines the uniform result codes returned across the PMD/ADM
  core packages, and the sentinel errors that stand in for them.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package status provides the shared result-code vocabulary used by every
// package in this module, replacing the C convention of integer status
// returns with idiomatic wrapped errors that still carry a Code.
package status

import "fmt"

// Code is a result code for a fallible operation.
type Code int

// Result codes. OK is not normally wrapped in an error; a nil error means OK.
const (
	OK Code = iota
	Error
	NullPointer
	InvalidArgument
	OutOfMemory
	OutOfRange
	NotFound
	NotUnique
)

func (c Code) String() string {
	switch c {
	case OK:
		return "OK"
	case Error:
		return "ERROR"
	case NullPointer:
		return "NULL_POINTER"
	case InvalidArgument:
		return "INVALID_ARGUMENT"
	case OutOfMemory:
		return "OUT_OF_MEMORY"
	case OutOfRange:
		return "OUT_OF_RANGE"
	case NotFound:
		return "NOT_FOUND"
	case NotUnique:
		return "NOT_UNIQUE"
	default:
		return "UNKNOWN"
	}
}

// Err is an error carrying a Code plus context, returned in place of the
// integer status codes used by the reference API.
type Err struct {
	Code Code
	Msg  string
}

func (e *Err) Error() string {
	if e.Msg == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Is allows errors.Is(err, status.ErrNotFound) etc. to match any *Err with
// the same Code, regardless of Msg.
func (e *Err) Is(target error) bool {
	t, ok := target.(*Err)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New builds an *Err with the given code and formatted message.
func New(code Code, format string, args ...interface{}) *Err {
	return &Err{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Sentinel errors for use with errors.Is. Each carries an empty Msg; New()
// with additional context still compares equal via Is.
var (
	ErrError           = &Err{Code: Error}
	ErrNullPointer     = &Err{Code: NullPointer}
	ErrInvalidArgument = &Err{Code: InvalidArgument}
	ErrOutOfMemory     = &Err{Code: OutOfMemory}
	ErrOutOfRange      = &Err{Code: OutOfRange}
	ErrNotFound        = &Err{Code: NotFound}
	ErrNotUnique       = &Err{Code: NotUnique}
)
