//go:build rp2040

package gspi

import "machine"

// Raspberry Pi Pico W wiring of the CYW43439.
const (
	PinWLRegOn = machine.GPIO23
	PinDIO     = machine.GPIO24
	PinCS      = machine.GPIO25
	PinCLK     = machine.GPIO29
)

type rp2Pin struct{ p machine.Pin }

func (r rp2Pin) Set(b bool) { r.p.Set(b) }
func (r rp2Pin) Get() bool  { return r.p.Get() }

func (r rp2Pin) ConfigureOutput() {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
}

func (r rp2Pin) ConfigureInput() {
	r.p.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})
}

func output(p machine.Pin, initial bool) rp2Pin {
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	p.Set(initial)
	return rp2Pin{p: p}
}

// PicoW configures the on-board radio pins and returns a bit-banged
// transport and the WL_REG_ON power control, held low.
func PicoW() (*BitBang, func(level bool)) {
	pwr := output(PinWLRegOn, false)
	clk := output(PinCLK, false)
	cs := output(PinCS, true)
	return NewBitBang(clk, rp2Pin{p: PinDIO}, cs), pwr.Set
}
