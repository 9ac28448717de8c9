package cyw43

import (
	"context"
	"errors"
	"time"

	"radiocode-go/drivers/cyw43/cyw43sim"
)

// txn is one framed transaction as seen by the simulated device.
type txn struct {
	cmd     CommandWord
	swapped bool
	payload []uint32
}

// simDevice is a cyw43sim.Device that records decoded transactions.
type simDevice struct {
	*cyw43sim.Device
	log []txn
}

var errInjected = errors.New("sim: injected transport failure")

// newSimDevice returns a device that answers the first handshake poll.
func newSimDevice() *simDevice {
	d := &simDevice{Device: cyw43sim.New()}
	d.OnTransaction = func(tr cyw43sim.Transaction) {
		d.log = append(d.log, txn{cmd: DecodeCommand(tr.Cmd), swapped: tr.Swapped, payload: tr.Payload})
	}
	return d
}

// windowWrites counts transactions that targeted the window registers.
func windowWrites(log []txn) int {
	n := 0
	for _, t := range log {
		if isWindowWrite(t) {
			n++
		}
	}
	return n
}

func isWindowWrite(t txn) bool {
	c := t.cmd
	return c.Write && c.Func == FuncBackplane &&
		(c.Addr == RegBackplaneAddrLow || c.Addr == RegBackplaneAddrMid || c.Addr == RegBackplaneAddrHigh)
}

// dataTxns returns backplane transactions that moved memory, not window bytes.
func dataTxns(log []txn) []txn {
	var out []txn
	for _, t := range log {
		if t.cmd.Func == FuncBackplane && !isWindowWrite(t) {
			out = append(out, t)
		}
	}
	return out
}

// pinLog records power pin levels and forwards them to the device.
type pinLog struct {
	dev    *simDevice
	levels []bool
}

func (p *pinLog) set(level bool) {
	p.levels = append(p.levels, level)
	p.dev.Power(level)
}

type sleepLog struct{ waits []time.Duration }

func (s *sleepLog) sleep(ctx context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	return ctx.Err()
}

// newTestBus returns a Bus wired to dev with instant boot waits.
func newTestBus(dev *simDevice, cfg Config) (*Bus, *pinLog, *sleepLog) {
	pins := &pinLog{dev: dev}
	sl := &sleepLog{}
	if cfg.Sleep == nil {
		cfg.Sleep = sl.sleep
	}
	return New(dev, pins.set, cfg), pins, sl
}

// readyBus returns a Bus that has completed Init against dev.
func readyBus(dev *simDevice) *Bus {
	b, _, _ := newTestBus(dev, Config{})
	if err := b.Init(context.Background()); err != nil {
		panic(err)
	}
	dev.log = nil
	return b
}
