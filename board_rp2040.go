//go:build rp2040

package main

import (
	"io"
	"machine"

	"radiocode-go/drivers/cyw43"
	"radiocode-go/drivers/gspi"
	"radiocode-go/drivers/hub75"
	"radiocode-go/services/display"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
)

type board struct {
	device  string
	console io.Writer
	radio   cyw43.Transport
	power   cyw43.PinOutput
	panel   display.Panel
}

func setupBoard() board {
	_ = uartx.UART0.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GPIO0,
		RX:       machine.GPIO1,
	})
	t, pwr := gspi.PicoW()
	return board{
		device:  "picow",
		console: uartx.UART0,
		radio:   t,
		power:   pwr,
		panel:   hub75.New(hub75.DefaultPins()),
	}
}
