//go:build !rp2040

package main

import (
	"io"
	"os"

	"radiocode-go/drivers/cyw43"
	"radiocode-go/drivers/cyw43/cyw43sim"
	"radiocode-go/drivers/hub75"
	"radiocode-go/services/display"
)

type board struct {
	device  string
	console io.Writer
	radio   cyw43.Transport
	power   cyw43.PinOutput
	panel   display.Panel
}

type nopPin struct{}

func (nopPin) Set(bool) {}

// setupBoard runs the firmware against a simulated radio and an unconnected
// panel.
func setupBoard() board {
	dev := cyw43sim.New()
	dev.ReadyAfter = 2
	p := nopPin{}
	return board{
		device:  "picow",
		console: os.Stdout,
		radio:   dev,
		power:   dev.Power,
		panel: hub75.New(hub75.Pins{
			R1: p, G1: p, B1: p, R2: p, G2: p, B2: p,
			A: p, B: p, C: p, D: p, CLK: p, LAT: p, OE: p,
		}),
	}
}
