package pintable

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/schodet/pinmap/pkg/mcudb"
)

// Table is a pin-out table: one row per pin, starting with the pin name and
// position.
type Table struct {
	Mode   mcudb.GpioMode
	Header []string
	Rows   [][]string
}

// SlotError reports an AF number outside of the AF table.
type SlotError struct {
	Pin    string
	Signal string
	Index  uint8
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("pintable: pin %s signal %s: AF%d out of range", e.Pin, e.Signal, e.Index)
}

// Render builds the pin-out table of a part.
//
// AF parts get one column per AF number plus a last column for additional
// functions. Remap parts get one column per peripheral, named after the first
// underscore separated segment of the filtered signal names.
func Render(part *mcudb.Part, filter *Filter) (*Table, error) {
	switch part.GpioMode {
	case mcudb.ModeAlternateFunction:
		return renderAF(part, filter)
	case mcudb.ModeRemap:
		return renderRemap(part, filter)
	default:
		return nil, errors.Errorf("pintable: unknown GPIO mode %v", part.GpioMode)
	}
}

func renderAF(part *mcudb.Part, filter *Filter) (*Table, error) {
	t := &Table{Mode: mcudb.ModeAlternateFunction}
	t.Header = []string{"Pin", "Position"}
	for i := 0; i < mcudb.AFSlots-1; i++ {
		t.Header = append(t.Header, fmt.Sprintf("AF%d", i))
	}
	t.Header = append(t.Header, "AddF")

	for _, pin := range part.Pins {
		var slots [mcudb.AFSlots][]string
		for _, s := range pin.Signals {
			var index int
			switch m := s.Map.(type) {
			case mcudb.AlternateFunction:
				if int(m.Index) >= mcudb.AFSlots {
					return nil, &SlotError{Pin: pin.Name, Signal: s.Name, Index: m.Index}
				}
				index = int(m.Index)
			case mcudb.AdditionalFunction:
				index = mcudb.AFSlots - 1
			default:
				return nil, &mcudb.ModeError{Pin: pin.Name, Signal: s.Name, Mode: part.GpioMode, Map: s.Map}
			}
			slots[index] = append(slots[index], s.Name)
		}
		row := make([]string, 0, 2+mcudb.AFSlots)
		row = append(row, pin.Name, pin.Position)
		for _, slot := range slots {
			row = append(row, strings.Join(filter.Apply(slot), " "))
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func renderRemap(part *mcudb.Part, filter *Filter) (*Table, error) {
	type line struct {
		pin  *mcudb.Pin
		cats map[string][]string
	}
	var lines []line
	allCats := make(map[string]struct{})

	for i := range part.Pins {
		pin := &part.Pins[i]
		names := make([]string, 0, len(pin.Signals))
		for _, s := range pin.Signals {
			switch m := s.Map.(type) {
			case mcudb.Remap:
				names = append(names, s.Name+"("+m.Sorted()+")")
			case mcudb.AdditionalFunction:
				names = append(names, s.Name)
			default:
				return nil, &mcudb.ModeError{Pin: pin.Name, Signal: s.Name, Mode: part.GpioMode, Map: s.Map}
			}
		}
		cats := make(map[string][]string)
		for _, n := range filter.Apply(names) {
			cat := category(n)
			allCats[cat] = struct{}{}
			cats[cat] = append(cats[cat], n)
		}
		lines = append(lines, line{pin: pin, cats: cats})
	}

	header := make([]string, 0, len(allCats))
	for cat := range allCats {
		header = append(header, cat)
	}
	sort.Strings(header)

	t := &Table{Mode: mcudb.ModeRemap}
	t.Header = append([]string{"Pin", "Position"}, header...)
	for _, l := range lines {
		row := make([]string, 0, 2+len(header))
		row = append(row, l.pin.Name, l.pin.Position)
		for _, cat := range header {
			row = append(row, strings.Join(l.cats[cat], " "))
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// category returns the peripheral part of a signal name: everything before
// the first underscore.
func category(name string) string {
	if i := strings.IndexByte(name, '_'); i >= 0 {
		return name[:i]
	}
	return name
}

// WriteCSV writes the table rows, preceded by the header row if requested.
func (t *Table) WriteCSV(w io.Writer, header bool) error {
	cw := csv.NewWriter(w)
	if header {
		if err := cw.Write(t.Header); err != nil {
			return errors.Wrap(err, "pintable: write header")
		}
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return errors.Wrap(err, "pintable: write rows")
	}
	return nil
}
