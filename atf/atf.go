// Package atf models the boundary to the external ATF (AEL Tool Format)
// converter: the tool that turns a compiled ATF binary back into the IR
// log this toolchain's reconstructor consumes. Its internal behavior is
// out of scope (spec.md §1 non-goal) — this package only captures the
// resource lifecycle a caller must respect around it, mirroring
// acomp_open_atf/acomp_close_atf's explicit open/close bracket rather
// than a single blocking call.
package atf

import (
	"os"

	"atf2ael/internal/position"
)

// ErrorKind categorizes a Converter error, following the position.Kind
// pattern every other subsystem in this repository uses.
type ErrorKind position.Kind

const (
	ErrOpenFailed ErrorKind = iota
	ErrAlreadyOpen
	ErrNotOpen
	ErrCloseFailed
)

// Mode selects how the external converter interprets the ATF file,
// mirroring acomp_open_atf's integer mode parameter.
type Mode int

const (
	ModeBatch Mode = iota
	ModeInteractive
)

// Converter brackets a single ATF conversion session: Open must precede
// any use, Close must follow, and a second Open before a Close is an
// error — matching the original's open/close discipline rather than a
// single-shot function, since the external tool holds a live handle to
// the ATF file for the session's duration.
type Converter struct {
	path       string
	sourceName string
	mode       Mode
	open       bool

	// file is the handle kept open for the session; the external
	// converter body itself is out of scope, so this package only
	// proves the file exists and is readable for the session's
	// duration.
	file *os.File
}

// NewConverter prepares a Converter for path without opening it yet.
func NewConverter(path, sourceName string, mode Mode) *Converter {
	return &Converter{path: path, sourceName: sourceName, mode: mode}
}

// Open begins a conversion session, failing if one is already open.
func (c *Converter) Open() error {
	if c.open {
		return newErr(ErrAlreadyOpen, c.path, "ATF converter already open for %q", c.path)
	}
	f, err := os.Open(c.path) // #nosec G304 -- caller-supplied ATF path
	if err != nil {
		return newErr(ErrOpenFailed, c.path, "opening ATF file %q: %v", c.path, err)
	}
	c.file = f
	c.open = true
	return nil
}

// Close ends the conversion session. Calling Close without a prior Open
// is an error, matching acomp_close_atf's expectation of a matching
// acomp_open_atf.
func (c *Converter) Close() error {
	if !c.open {
		return newErr(ErrNotOpen, c.path, "ATF converter not open")
	}
	err := c.file.Close()
	c.open = false
	c.file = nil
	if err != nil {
		return newErr(ErrCloseFailed, c.path, "closing ATF file %q: %v", c.path, err)
	}
	return nil
}

// IsOpen reports whether a session is currently active.
func (c *Converter) IsOpen() bool { return c.open }

func newErr(kind ErrorKind, path, format string, args ...interface{}) *position.Error {
	return position.NewError(position.Position{Filename: path}, position.Kind(kind), format, args...)
}

// Convert is the single entry point a driver calls: it brackets the
// external converter invocation with Open/Close regardless of how the
// body (out of scope here) succeeds or fails, so a caller never leaks
// an open ATF handle.
//
// body is supplied by the caller rather than implemented here — this
// package models only the lifecycle contract, not the conversion
// itself, which lives entirely outside this repository.
func Convert(path, sourceName string, mode Mode, body func(*Converter) error) error {
	c := NewConverter(path, sourceName, mode)
	if err := c.Open(); err != nil {
		return err
	}
	bodyErr := body(c)
	closeErr := c.Close()
	if bodyErr != nil {
		return bodyErr
	}
	if closeErr != nil {
		return closeErr
	}
	return nil
}
