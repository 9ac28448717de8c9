package cyw43

// cmdWrite sends cmd and payload as one framed transaction. Payloads that
// fit the scratch buffer go out in a single transport write.
func (b *Bus) cmdWrite(cmd uint32, payload []uint32) (err error) {
	if err = b.begin(); err != nil {
		return b.fail(err)
	}
	if len(payload) < len(b.wbuf) {
		b.wbuf[0] = cmd
		n := copy(b.wbuf[1:], payload)
		err = b.t.Write(b.wbuf[:1+n])
	} else {
		b.wbuf[0] = cmd
		if err = b.t.Write(b.wbuf[:1]); err == nil {
			err = b.t.Write(payload)
		}
	}
	return b.end(err)
}

// cmdRead sends cmd, discards the device's response-delay word when delay
// is set, then fills buf.
func (b *Bus) cmdRead(cmd uint32, delay bool, buf []uint32) (err error) {
	if err = b.begin(); err != nil {
		return b.fail(err)
	}
	b.wbuf[0] = cmd
	err = b.t.Write(b.wbuf[:1])
	if err == nil && delay {
		err = b.t.Read(b.junk[:])
	}
	if err == nil {
		err = b.t.Read(buf)
	}
	return b.end(err)
}

func (b *Bus) begin() error {
	if f, ok := b.t.(Framer); ok {
		return f.Begin()
	}
	return nil
}

func (b *Bus) end(err error) error {
	if err == nil {
		err = b.t.Flush()
	}
	if f, ok := b.t.(Framer); ok {
		if e := f.End(); err == nil {
			err = e
		}
	}
	if err != nil {
		return b.fail(err)
	}
	return nil
}

// fail drops the cached window: after a transport error the device's
// window registers are unknown.
func (b *Bus) fail(err error) error {
	b.window = invalidWindow
	return err
}

// readn reads size (1, 2 or 4) bytes from a function register.
func (b *Bus) readn(fn Function, addr, size uint32) (uint32, error) {
	if addr > cmdAddrMask {
		return 0, ErrAddressRange
	}
	buf := b.rbuf[:1]
	if err := b.cmdRead(cmdWord(false, fn, addr, size), fn == FuncBackplane, buf); err != nil {
		return 0, err
	}
	switch size {
	case 1:
		return buf[0] & 0xFF, nil
	case 2:
		return buf[0] & 0xFFFF, nil
	}
	return buf[0], nil
}

// writen writes size (1, 2 or 4) bytes to a function register.
func (b *Bus) writen(fn Function, addr, val, size uint32) error {
	if addr > cmdAddrMask {
		return ErrAddressRange
	}
	b.rbuf[0] = val
	return b.cmdWrite(cmdWord(true, fn, addr, size), b.rbuf[:1])
}

// Function register access. Each call is one transaction of the given
// width; reads return the value truncated to that width. Backplane
// addresses here are in-window offsets: use BPRead*/BPWrite* for full
// backplane addresses.

func (b *Bus) Read8(fn Function, addr uint32) (uint8, error) {
	v, err := b.readn(fn, addr, 1)
	return uint8(v), err
}

func (b *Bus) Read16(fn Function, addr uint32) (uint16, error) {
	v, err := b.readn(fn, addr, 2)
	return uint16(v), err
}

func (b *Bus) Read32(fn Function, addr uint32) (uint32, error) {
	return b.readn(fn, addr, 4)
}

func (b *Bus) Write8(fn Function, addr uint32, val uint8) error {
	return b.writen(fn, addr, uint32(val), 1)
}

func (b *Bus) Write16(fn Function, addr uint32, val uint16) error {
	return b.writen(fn, addr, uint32(val), 2)
}

func (b *Bus) Write32(fn Function, addr, val uint32) error {
	return b.writen(fn, addr, val, 4)
}

// read32Swapped reads a bus register before the device has been told our
// word order: command and response have their 16-bit halves exchanged.
func (b *Bus) read32Swapped(addr uint32) (uint32, error) {
	buf := b.rbuf[:1]
	if err := b.cmdRead(swap16(cmdWord(false, FuncBus, addr, 4)), false, buf); err != nil {
		return 0, err
	}
	return swap16(buf[0]), nil
}

func (b *Bus) write32Swapped(addr, val uint32) error {
	b.rbuf[0] = swap16(val)
	return b.cmdWrite(swap16(cmdWord(true, FuncBus, addr, 4)), b.rbuf[:1])
}
