package mcudb

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// GpioMode is the part-wide way signals are routed to pins.
type GpioMode int

const (
	// ModeAlternateFunction is used by parts with a per-pin AF multiplexer.
	ModeAlternateFunction GpioMode = iota
	// ModeRemap is used by older parts where routing is selected by remap
	// configuration values.
	ModeRemap
)

func (m GpioMode) String() string {
	switch m {
	case ModeAlternateFunction:
		return "AF"
	case ModeRemap:
		return "Remap"
	default:
		return fmt.Sprintf("GpioMode(%d)", int(m))
	}
}

// AFSlots is the number of columns of an AF mapping table: AF0 to AF15 plus
// one slot for additional functions.
const AFSlots = 17

// SignalMap tells how a signal is routed to a pin. It is one of
// AlternateFunction, AdditionalFunction or Remap.
type SignalMap interface {
	isSignalMap()
	String() string
}

// AlternateFunction routes a signal through the AF multiplexer.
type AlternateFunction struct {
	Index uint8
}

// AdditionalFunction needs no AF setup; GPIO's own functions are in this
// category, as well as any signal not described by the GPIO descriptor.
type AdditionalFunction struct{}

// Remap lists the remap configurations through which the signal reaches the
// pin.
type Remap struct {
	Indices []uint8
}

func (AlternateFunction) isSignalMap()  {}
func (AdditionalFunction) isSignalMap() {}
func (Remap) isSignalMap()              {}

func (a AlternateFunction) String() string { return fmt.Sprintf("AF%d", a.Index) }
func (AdditionalFunction) String() string  { return "AddF" }
func (r Remap) String() string             { return "Remap(" + r.Sorted() + ")" }

// Sorted returns the remap indices in ascending order, without duplicates,
// joined by commas.
func (r Remap) Sorted() string {
	idx := make([]int, 0, len(r.Indices))
	for _, i := range r.Indices {
		idx = append(idx, int(i))
	}
	sort.Ints(idx)
	parts := make([]string, 0, len(idx))
	for n, i := range idx {
		if n > 0 && idx[n-1] == i {
			continue
		}
		parts = append(parts, strconv.Itoa(i))
	}
	return strings.Join(parts, ",")
}

// Part is one microcontroller as described by the database.
type Part struct {
	Name     string
	Line     string
	Package  string
	GpioMode GpioMode
	Pins     []Pin // document order
}

// Pin is one physical pin of a part package.
type Pin struct {
	Name string
	// Position in package. This can be a number or a letter with a number.
	Position string
	Signals  []Signal
}

// Signal is one signal that can be routed to a pin.
type Signal struct {
	Name string
	Map  SignalMap
}

// Summary returns a one-line description of the part.
func (p *Part) Summary() string {
	return fmt.Sprintf("%s: %s %s", p.Name, p.Line, p.Package)
}

// Pin returns the pin with the given name, or nil.
func (p *Part) Pin(name string) *Pin {
	for i := range p.Pins {
		if p.Pins[i].Name == name {
			return &p.Pins[i]
		}
	}
	return nil
}
