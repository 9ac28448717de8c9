// Package cyw43sim simulates the device side of a CYW43439 gSPI link at
// word level. It decodes command words independently of package cyw43 and
// serves the bus test registers, the backplane window, a flat backplane
// memory and the WLAN packet queues, so firmware can run on a host without
// hardware.
package cyw43sim

import (
	"encoding/binary"
	"math/bits"
	"sync"

	"radiocode-go/x/mathx"
)

const (
	regBusCtrl   = 0x00
	regBusTestRO = 0x14
	regBusTestRW = 0x18

	regWindowLow  = 0x1000A
	regWindowMid  = 0x1000B
	regWindowHigh = 0x1000C

	feedBead     = 0xFEEDBEAD
	wordLength32 = 0x01

	windowMask = 0x7FFF

	fnBus       = 0
	fnBackplane = 1
	fnWLAN      = 2

	// responseDelay fills the word the device sends before backplane data.
	responseDelay = 0xDEADDEAD

	// ChipCommonBase holds the chip id word.
	ChipCommonBase = 0x18000000
	// DefaultChipID is chip 43439 (0xA9AF), revision 1.
	DefaultChipID = 0x0001A9AF
)

// Transaction is one completed framed command as the device saw it.
type Transaction struct {
	// Cmd is the command word in device order, already unswapped.
	Cmd uint32
	// Swapped is set when the command arrived with 16-bit halves exchanged.
	Swapped bool
	// Payload holds the words that followed a write command.
	Payload []uint32
}

// Device is a simulated CYW43439. It implements the Transport and Framer
// contracts of package cyw43, and Power matches cyw43.PinOutput.
type Device struct {
	mu sync.Mutex

	// ReadyAfter is the number of test-register polls before the device
	// answers. Zero answers on the first poll.
	ReadyAfter int
	// Dead devices never answer the handshake.
	Dead bool
	// Tamper, if set, rewrites every bus register value the device returns.
	// swapped reports whether the device is still in 16-bit word mode.
	Tamper func(reg uint32, swapped bool, v uint32) uint32
	// OnTransaction, if set, is called at the end of every framed command.
	// It runs with the device locked and must not call back into it.
	OnTransaction func(Transaction)

	powered bool
	swapped bool
	polls   int
	testRW  uint32
	ctrl    uint32
	window  [3]byte

	mem map[uint32]byte
	rx  []uint32
	tx  [][]uint32

	// failIn counts transport calls down to an injected failure.
	failIn int
	err    error
	calls  int

	in      []uint32
	out     []uint32
	decoded bool
	cmd     uint32
	cmdSwap bool
	write   bool
	fn      uint32
	addr    uint32
	length  uint32

	transactions int
}

// New returns a powered-off device whose chip id word is DefaultChipID.
func New() *Device {
	d := &Device{mem: map[uint32]byte{}}
	d.poke(ChipCommonBase, le32(DefaultChipID))
	return d
}

// Power drives WL_REG_ON. A rising edge resets the bus interface.
func (d *Device) Power(on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if on && !d.powered {
		d.swapped = true
		d.polls = 0
		d.ctrl = 0
		d.window = [3]byte{}
	}
	d.powered = on
}

// FailNext makes the next transport call return err.
func (d *Device) FailNext(err error) { d.FailAfter(1, err) }

// FailAfter makes the n-th transport call from now return err. Begin, End,
// Flush, Write and Read each count as one call.
func (d *Device) FailAfter(n int, err error) {
	d.mu.Lock()
	d.failIn, d.err = n, err
	d.mu.Unlock()
}

// Calls returns the number of transport calls made so far.
func (d *Device) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// Transactions returns the number of framed transactions completed.
func (d *Device) Transactions() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.transactions
}

// Swapped reports whether the device still expects 16-bit swapped words.
func (d *Device) Swapped() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.swapped
}

// BusCtrl returns the last value written to the bus control register.
func (d *Device) BusCtrl() uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ctrl
}

// Window returns the backplane window base the device currently decodes.
func (d *Device) Window() uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.windowBase()
}

// Peek returns n bytes of backplane memory at addr.
func (d *Device) Peek(addr uint32, n int) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]byte, n)
	for i := range out {
		out[i] = d.mem[addr+uint32(i)]
	}
	return out
}

// Poke stores data in backplane memory at addr.
func (d *Device) Poke(addr uint32, data []byte) {
	d.mu.Lock()
	d.poke(addr, data)
	d.mu.Unlock()
}

// QueueRX appends words to the packet data the WLAN function returns.
func (d *Device) QueueRX(words ...uint32) {
	d.mu.Lock()
	d.rx = append(d.rx, words...)
	d.mu.Unlock()
}

// PendingRX returns how many queued WLAN words have not been read.
func (d *Device) PendingRX() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.rx)
}

// TX returns the packets written to the WLAN function, oldest first.
func (d *Device) TX() [][]uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([][]uint32(nil), d.tx...)
}

func (d *Device) poke(addr uint32, data []byte) {
	for i, c := range data {
		d.mem[addr+uint32(i)] = c
	}
}

func le32(v uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, v)
}

// tick counts one transport call and returns an injected error when due.
func (d *Device) tick() error {
	d.calls++
	if d.failIn == 0 {
		return nil
	}
	d.failIn--
	if d.failIn > 0 {
		return nil
	}
	err := d.err
	d.err = nil
	return err
}

func (d *Device) Begin() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.tick(); err != nil {
		return err
	}
	d.in = d.in[:0]
	d.out = d.out[:0]
	d.decoded = false
	return nil
}

func (d *Device) End() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	err := d.tick()
	if len(d.in) > 0 {
		tr := Transaction{Cmd: d.cmd, Swapped: d.cmdSwap}
		if d.write {
			tr.Payload = append([]uint32(nil), d.in[1:]...)
			d.apply(tr.Payload)
		}
		d.transactions++
		if d.OnTransaction != nil {
			d.OnTransaction(tr)
		}
	}
	d.in = d.in[:0]
	return err
}

func (d *Device) Flush() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tick()
}

func (d *Device) Write(words []uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.tick(); err != nil {
		return err
	}
	d.in = append(d.in, words...)
	if !d.decoded && len(d.in) > 0 {
		d.decode(d.in[0])
	}
	return nil
}

func (d *Device) Read(words []uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.tick(); err != nil {
		return err
	}
	for i := range words {
		if len(d.out) == 0 {
			words[i] = 0xFFFFFFFF
			continue
		}
		words[i] = d.out[0]
		d.out = d.out[1:]
	}
	return nil
}

func (d *Device) decode(cmd uint32) {
	d.cmdSwap = d.swapped
	if d.swapped {
		cmd = bits.RotateLeft32(cmd, 16)
	}
	d.decoded = true
	d.cmd = cmd
	d.write = cmd&(1<<31) != 0
	d.fn = cmd >> 28 & 0x3
	d.addr = cmd >> 11 & 0x1FFFF
	d.length = cmd & 0x7FF
	if d.write || !d.powered {
		return
	}
	switch d.fn {
	case fnBus:
		v := d.busReg(d.addr)
		if d.swapped {
			v = bits.RotateLeft32(v, 16)
		}
		d.out = append(d.out, v)
	case fnBackplane:
		d.out = append(d.out, responseDelay)
		base := d.windowBase() | d.addr&windowMask
		buf := make([]byte, mathx.AlignUp(d.length, 4))
		for i := uint32(0); i < d.length; i++ {
			buf[i] = d.mem[base+i]
		}
		for i := 0; i < len(buf); i += 4 {
			d.out = append(d.out, binary.LittleEndian.Uint32(buf[i:]))
		}
	case fnWLAN:
		for n := mathx.AlignUp(d.length, 4) / 4; n > 0; n-- {
			var w uint32
			if len(d.rx) > 0 {
				w, d.rx = d.rx[0], d.rx[1:]
			}
			d.out = append(d.out, w)
		}
	}
}

func (d *Device) busReg(addr uint32) uint32 {
	var v uint32
	switch addr {
	case regBusTestRO:
		d.polls++
		if !d.Dead && d.polls > d.ReadyAfter {
			v = feedBead
		}
	case regBusTestRW:
		v = d.testRW
	case regBusCtrl:
		v = d.ctrl
	}
	if d.Tamper != nil {
		v = d.Tamper(addr, d.swapped, v)
	}
	return v
}

func (d *Device) apply(payload []uint32) {
	if len(payload) == 0 || !d.powered {
		return
	}
	switch d.fn {
	case fnBus:
		v := payload[0]
		if d.swapped {
			v = bits.RotateLeft32(v, 16)
		}
		switch d.addr {
		case regBusTestRW:
			d.testRW = v
		case regBusCtrl:
			d.ctrl = v
			if v&wordLength32 != 0 {
				d.swapped = false
			}
		}
	case fnBackplane:
		switch d.addr {
		case regWindowLow:
			d.window[0] = byte(payload[0])
			return
		case regWindowMid:
			d.window[1] = byte(payload[0])
			return
		case regWindowHigh:
			d.window[2] = byte(payload[0])
			return
		}
		base := d.windowBase() | d.addr&windowMask
		var tmp [4]byte
		for i := uint32(0); i < d.length && int(i/4) < len(payload); i++ {
			if i%4 == 0 {
				binary.LittleEndian.PutUint32(tmp[:], payload[i/4])
			}
			d.mem[base+i] = tmp[i%4]
		}
	case fnWLAN:
		d.tx = append(d.tx, payload)
	}
}

func (d *Device) windowBase() uint32 {
	return uint32(d.window[2])<<24 | uint32(d.window[1])<<16 | uint32(d.window[0])<<8
}
