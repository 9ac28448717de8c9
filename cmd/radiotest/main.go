//go:build rp2040

// Command radiotest brings up the Pico W radio bus and dumps what it reads,
// logging to UART0.
package main

import (
	"context"
	"log/slog"
	"machine"
	"time"

	"radiocode-go/drivers/cyw43"
	"radiocode-go/drivers/gspi"
	"radiocode-go/x/conv"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
)

// useHardwareSPI selects SPI1 for modules wired to its pins instead of the
// on-board bit-banged link.
const useHardwareSPI = false

func main() {
	time.Sleep(1500 * time.Millisecond)
	_ = uartx.UART0.Configure(uartx.UARTConfig{BaudRate: 115200, TX: machine.GPIO0, RX: machine.GPIO1})
	log := slog.New(slog.NewTextHandler(uartx.UART0, &slog.HandlerOptions{Level: slog.LevelDebug}))
	println("[radiotest] boot ...")

	var t cyw43.Transport
	var pwr cyw43.PinOutput
	if useHardwareSPI {
		t, pwr = hardwareSPI()
	} else {
		t, pwr = gspi.PicoW()
	}

	bus := cyw43.New(t, pwr, cyw43.Config{Logger: log})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := bus.Init(ctx); err != nil {
		println("[radiotest] FAIL: init:", err.Error())
		return
	}
	println("[radiotest] bus ready after", bus.Polls(), "polls")

	id, err := bus.BPRead32(cyw43.ChipCommonBase)
	if err != nil {
		println("[radiotest] FAIL: chip id:", err.Error())
		return
	}
	println("[radiotest] chip id", conv.Hex32(id&0xFFFF), "rev", (id>>16)&0xF)

	// 128 bytes of device RAM straddling the first window boundary.
	var buf [128]byte
	addr := uint32(cyw43.WindowSize - 64)
	if err := bus.ReadBlock(addr, buf[:]); err != nil {
		println("[radiotest] FAIL: read block:", err.Error())
		return
	}
	line := make([]byte, 0, 80)
	for i := 0; i < len(buf); i += 16 {
		line = conv.AppendHex32(line[:0], addr+uint32(i))
		line = append(line, ':')
		for _, c := range buf[i : i+16] {
			line = conv.AppendHex8(append(line, ' '), c)
		}
		println(string(line))
	}
	println("[radiotest] PASS")
}

func hardwareSPI() (cyw43.Transport, cyw43.PinOutput) {
	spi := machine.SPI1
	_ = spi.Configure(machine.SPIConfig{
		Frequency: 8_000_000,
		SCK:       machine.GPIO10,
		SDO:       machine.GPIO11,
		SDI:       machine.GPIO12,
	})
	cs := machine.GPIO13
	cs.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pwr := machine.GPIO14
	pwr.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pwr.Low()
	return gspi.NewSPI(spi, cs.Set, nil), pwr.Set
}
