// Package cyw43 implements the gSPI bus layer of the CYW43439 radio
// coprocessor found on the Raspberry Pi Pico W.
//
// It covers the part of the driver below the network stack:
//
//   - 32-bit command word encoding for the bus, backplane and WLAN functions;
//   - function-addressed 8/16/32-bit register access;
//   - windowed backplane access, with the current window cached so that
//     accesses inside one window cost no extra register writes;
//   - block transfers split so no transaction crosses a window or exceeds
//     MaxTransferSize;
//   - the byte-order bring-up handshake performed after power-on.
//
// A Bus owns its Transport and power pin outright and has no internal
// locking. It must be driven from a single goroutine; callers that need
// shared access put it behind a service or a mutex of their own.
// No operation is cancellable mid-transaction.
package cyw43

import (
	"context"
	"log/slog"
	"time"
)

// Transport moves 32-bit words MSB-first over the gSPI link.
type Transport interface {
	Write(words []uint32) error
	Read(words []uint32) error
	Flush() error
}

// Framer is implemented by transports that frame a transaction with a
// chip-select line. Begin and End bracket every command.
type Framer interface {
	Begin() error
	End() error
}

// PinOutput drives the WL_REG_ON power-control line.
type PinOutput func(level bool)

// Config controls bring-up timing and logging. All fields are optional.
type Config struct {
	// ResetHold is how long WL_REG_ON is held low. Minimum and default 20 ms.
	ResetHold time.Duration
	// BootWait is the delay after releasing reset. Minimum and default 250 ms.
	BootWait time.Duration
	// MaxPolls bounds the reads of RegBusTestRO while waiting for the
	// device to answer. Default 128.
	MaxPolls int
	// Sleep waits for d or until ctx is done. Defaults to a timer wait.
	Sleep func(ctx context.Context, d time.Duration) error
	// Logger receives bring-up and windowing events. nil discards.
	Logger *slog.Logger
}

const (
	minResetHold    = 20 * time.Millisecond
	minBootWait     = 250 * time.Millisecond
	defaultMaxPolls = 128
)

func (c Config) withDefaults() Config {
	if c.ResetHold < minResetHold {
		c.ResetHold = minResetHold
	}
	if c.BootWait < minBootWait {
		c.BootWait = minBootWait
	}
	if c.MaxPolls <= 0 {
		c.MaxPolls = defaultMaxPolls
	}
	if c.Sleep == nil {
		c.Sleep = sleepCtx
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// Bus is a gSPI session with one CYW43439.
type Bus struct {
	t   Transport
	pwr PinOutput
	cfg Config
	log *slog.Logger

	// window is the backplane window last written to the device.
	window uint32
	polls  int

	// Fixed buffers to avoid per-call heap allocations.
	wbuf [1 + MaxTransferSize/4]uint32
	rbuf [MaxTransferSize / 4]uint32
	junk [1]uint32
}

// New creates a Bus. It does not touch the device; call Init before use.
func New(t Transport, pwr PinOutput, cfg Config) *Bus {
	cfg = cfg.withDefaults()
	return &Bus{
		t:      t,
		pwr:    pwr,
		cfg:    cfg,
		log:    cfg.Logger,
		window: invalidWindow,
	}
}

// Polls returns how many test-register reads the last Init needed.
func (b *Bus) Polls() int { return b.polls }

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
