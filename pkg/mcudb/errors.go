package mcudb

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when a descriptor file is missing from the
// database.
var ErrNotFound = errors.New("mcudb: descriptor not found")

// DecodeError reports a descriptor that could not be decompressed, parsed or
// whose values could not be decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("mcudb: decode: %v", e.Err)
	}
	return fmt.Sprintf("mcudb: decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// StructuralError reports a required element or attribute missing from a
// descriptor. Attr is empty when the element itself is missing.
type StructuralError struct {
	Tag  string
	Attr string
}

func (e *StructuralError) Error() string {
	if e.Attr == "" {
		return fmt.Sprintf("mcudb: missing %s", e.Tag)
	}
	return fmt.Sprintf("mcudb: %s missing a %s attribute", e.Tag, e.Attr)
}

// ModeError reports a signal whose mapping does not match the GPIO mode of
// its part, which means the database is inconsistent.
type ModeError struct {
	Pin    string
	Signal string
	Mode   GpioMode
	Map    SignalMap
}

func (e *ModeError) Error() string {
	return fmt.Sprintf("mcudb: pin %s signal %s: %s mapping in a %s part",
		e.Pin, e.Signal, e.Map, e.Mode)
}
