//go:build rp2040

package hub75

import "machine"

type rp2Pin machine.Pin

func (p rp2Pin) Set(b bool) { machine.Pin(p).Set(b) }

func out(p machine.Pin) Pin {
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return rp2Pin(p)
}

// DefaultPins is the panel wiring on GPIO2..GPIO14, clear of the radio pins.
func DefaultPins() Pins {
	return Pins{
		R1: out(machine.GPIO2), R2: out(machine.GPIO3),
		G1: out(machine.GPIO4), G2: out(machine.GPIO5),
		B1: out(machine.GPIO6), B2: out(machine.GPIO7),
		CLK: out(machine.GPIO8), LAT: out(machine.GPIO9),
		A: out(machine.GPIO10), B: out(machine.GPIO11),
		C: out(machine.GPIO12), D: out(machine.GPIO13),
		OE: out(machine.GPIO14),
	}
}
