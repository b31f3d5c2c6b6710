package mcudb

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	xmlx "github.com/jteeuwen/go-pkg-xmlx"
	"github.com/pkg/errors"
)

// gpioSignal is the name of the signal representing the pin's own GPIO
// function, which is not listed in pin-out tables.
const gpioSignal = "GPIO"

// LoadPart reads the descriptor of a part and the GPIO descriptor it refers
// to, and returns the complete part model.
func (db *Database) LoadPart(part string) (*Part, error) {
	root, err := loadDocument(db.PartPath(part))
	if err != nil {
		return nil, err
	}

	line, err := requireAttribute(root, "Line")
	if err != nil {
		return nil, err
	}
	pkg, err := requireAttribute(root, "Package")
	if err != nil {
		return nil, err
	}

	ip := findGPIOIP(root)
	if ip == nil {
		return nil, &StructuralError{Tag: "GPIO IP"}
	}
	version, err := requireAttribute(ip, "Version")
	if err != nil {
		return nil, err
	}
	mode, modes, err := db.LoadGPIOModes(version)
	if err != nil {
		return nil, err
	}

	p := &Part{
		Name:     part,
		Line:     line,
		Package:  pkg,
		GpioMode: mode,
	}
	for _, n := range childElements(root, "Pin") {
		pin, err := decodePin(n, modes)
		if err != nil {
			return nil, errors.Wrapf(err, "part %s", part)
		}
		p.Pins = append(p.Pins, pin)
	}
	return p, nil
}

func findGPIOIP(root *xmlx.Node) *xmlx.Node {
	for _, n := range childElements(root, "IP") {
		if name, ok := attribute(n, "Name"); ok && name == gpioSignal {
			return n
		}
	}
	return nil
}

func decodePin(n *xmlx.Node, modes GPIOModes) (Pin, error) {
	name, err := requireAttribute(n, "Name")
	if err != nil {
		return Pin{}, err
	}
	position, err := requireAttribute(n, "Position")
	if err != nil {
		return Pin{}, err
	}
	pin := Pin{Name: name, Position: position}
	for _, s := range childElements(n, "Signal") {
		if v, ok := attribute(s, "Name"); ok && v == gpioSignal {
			continue
		}
		signalName, err := requireAttribute(s, "Name")
		if err != nil {
			return Pin{}, err
		}
		pin.Signals = append(pin.Signals, Signal{
			Name: signalName,
			Map:  modes.Lookup(name, signalName),
		})
	}
	return pin, nil
}

// ListParts returns the sorted identifiers of all parts whose name matches
// the regular expression pattern.
func (db *Database) ListParts(pattern string) ([]string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrap(err, "mcudb: part pattern")
	}
	dir := filepath.Join(db.root, "mcu")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrNotFound, dir)
		}
		return nil, errors.Wrapf(err, "mcudb: list %s", dir)
	}
	var parts []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), DescriptorExt) {
			continue
		}
		part := strings.TrimSuffix(e.Name(), DescriptorExt)
		if re.MatchString(part) {
			parts = append(parts, part)
		}
	}
	sort.Strings(parts)
	return parts, nil
}
