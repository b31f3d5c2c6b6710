package mcudb

import (
	"strconv"
	"strings"

	xmlx "github.com/jteeuwen/go-pkg-xmlx"
	"github.com/pkg/errors"
)

const (
	afPrefix    = "GPIO_AF"
	remapMarker = "REMAP"
)

// GPIOModes maps a pin name then a signal name to the signal mapping read
// from a GPIO descriptor.
type GPIOModes map[string]map[string]SignalMap

// Lookup returns the mapping of a signal on a pin. Signals unknown to the GPIO
// descriptor are additional functions.
func (g GPIOModes) Lookup(pin, signal string) SignalMap {
	if m, ok := g[pin][signal]; ok {
		return m
	}
	return AdditionalFunction{}
}

// LoadGPIOModes reads the GPIO descriptor for the given IP version.
//
// The descriptor does not declare whether the part uses alternate functions
// or remaps. The first signal of the document decides: if it has a RemapBlock
// child the whole part is in Remap mode, else it is in AF mode. A document
// without any signal is in AF mode.
func (db *Database) LoadGPIOModes(version string) (GpioMode, GPIOModes, error) {
	path := db.GPIOPath(version)
	root, err := loadDocument(path)
	if err != nil {
		return ModeAlternateFunction, nil, err
	}
	mode, modes, err := decodeGPIOModes(root)
	if err != nil {
		return ModeAlternateFunction, nil, errors.Wrapf(err, "GPIO %s", version)
	}
	return mode, modes, nil
}

func decodeGPIOModes(root *xmlx.Node) (GpioMode, GPIOModes, error) {
	var mode *GpioMode
	modes := make(GPIOModes)
	for _, pin := range childElements(root, "GPIO_Pin") {
		pinName, err := requireAttribute(pin, "Name")
		if err != nil {
			return ModeAlternateFunction, nil, err
		}
		signals := make(map[string]SignalMap)
		for _, signal := range childElements(pin, "PinSignal") {
			if mode == nil {
				m := ModeAlternateFunction
				if len(childElements(signal, "RemapBlock")) > 0 {
					m = ModeRemap
				}
				mode = &m
			}
			var sm SignalMap
			switch *mode {
			case ModeRemap:
				sm, err = decodeRemaps(signal)
			default:
				sm, err = decodeAF(signal)
			}
			if err != nil {
				return ModeAlternateFunction, nil, err
			}
			signalName, err := requireAttribute(signal, "Name")
			if err != nil {
				return ModeAlternateFunction, nil, err
			}
			signals[signalName] = sm
		}
		modes[pinName] = signals
	}
	if mode == nil {
		return ModeAlternateFunction, modes, nil
	}
	return *mode, modes, nil
}

// decodeAF reads the AF number from a PossibleValue such as
// "GPIO_AF7_USART2".
func decodeAF(signal *xmlx.Node) (SignalMap, error) {
	pv := descendant(signal, "PossibleValue")
	if pv == nil {
		return nil, &DecodeError{Err: errors.Errorf("%s: no AF found", signalLabel(signal))}
	}
	value := textContent(pv)
	if !strings.HasPrefix(value, afPrefix) {
		return nil, &DecodeError{Err: errors.Errorf("%s: not an AF: %q", signalLabel(signal), value)}
	}
	rest := value[len(afPrefix):]
	end := strings.IndexByte(rest, '_')
	if end < 0 {
		return nil, &DecodeError{Err: errors.Errorf("%s: not an AF: %q", signalLabel(signal), value)}
	}
	af, err := strconv.ParseUint(rest[:end], 10, 8)
	if err != nil {
		return nil, &DecodeError{Err: errors.Wrapf(err, "%s: bad AF number", signalLabel(signal))}
	}
	return AlternateFunction{Index: uint8(af)}, nil
}

// decodeRemaps reads remap numbers from RemapBlock names such as
// "SPI1_REMAP1". A signal without RemapBlock gives an empty Remap.
func decodeRemaps(signal *xmlx.Node) (SignalMap, error) {
	r := Remap{}
	for _, block := range childElements(signal, "RemapBlock") {
		name, err := requireAttribute(block, "Name")
		if err != nil {
			return nil, err
		}
		i := strings.LastIndex(name, remapMarker)
		if i < 0 {
			return nil, &DecodeError{Err: errors.Errorf("%s: missing %s in %q", signalLabel(signal), remapMarker, name)}
		}
		n, err := strconv.ParseUint(name[i+len(remapMarker):], 10, 8)
		if err != nil {
			return nil, &DecodeError{Err: errors.Wrapf(err, "%s: bad remap number", signalLabel(signal))}
		}
		r.Indices = append(r.Indices, uint8(n))
	}
	return r, nil
}

func signalLabel(signal *xmlx.Node) string {
	if name, ok := attribute(signal, "Name"); ok {
		return name
	}
	return signal.Name.Local
}
