package cyw43

import (
	"encoding/binary"
	"log/slog"

	"radiocode-go/x/mathx"
)

// setWindow points the device's backplane window at addr. Only the window
// bytes that differ from the cached window are written, so repeated
// accesses inside one window cost nothing.
func (b *Bus) setWindow(addr uint32) error {
	next := addr &^ WindowMask
	cur := b.window
	if next == cur {
		return nil
	}
	full := cur == invalidWindow

	var writes int
	if full || byte(next>>24) != byte(cur>>24) {
		if err := b.Write8(FuncBackplane, RegBackplaneAddrHigh, byte(next>>24)); err != nil {
			return b.fail(err)
		}
		writes++
	}
	if full || byte(next>>16) != byte(cur>>16) {
		if err := b.Write8(FuncBackplane, RegBackplaneAddrMid, byte(next>>16)); err != nil {
			return b.fail(err)
		}
		writes++
	}
	if full || byte(next>>8) != byte(cur>>8) {
		if err := b.Write8(FuncBackplane, RegBackplaneAddrLow, byte(next>>8)); err != nil {
			return b.fail(err)
		}
		writes++
	}
	b.window = next
	b.log.Debug("cyw43: window", slog.Uint64("window", uint64(next)), slog.Int("writes", writes))
	return nil
}

// ReadBlock fills data from backplane memory starting at addr.
// addr must be 4-byte aligned and the block must not run past 0xFFFFFFFF.
func (b *Bus) ReadBlock(addr uint32, data []byte) error {
	if err := checkBlock(addr, len(data)); err != nil {
		return err
	}
	for len(data) > 0 {
		offset := addr & WindowMask
		n := mathx.Min(uint32(len(data)), MaxTransferSize, WindowSize-offset)

		if err := b.setWindow(addr); err != nil {
			return err
		}
		words := b.rbuf[:mathx.CeilDiv(n, 4)]
		if err := b.cmdRead(cmdWord(false, FuncBackplane, offset, n), true, words); err != nil {
			return err
		}
		unpackLE(data[:n], words)

		addr += n
		data = data[n:]
	}
	return nil
}

// WriteBlock copies data into backplane memory starting at addr.
// addr must be 4-byte aligned and the block must not run past 0xFFFFFFFF.
func (b *Bus) WriteBlock(addr uint32, data []byte) error {
	if err := checkBlock(addr, len(data)); err != nil {
		return err
	}
	for len(data) > 0 {
		offset := addr & WindowMask
		n := mathx.Min(uint32(len(data)), MaxTransferSize, WindowSize-offset)

		if err := b.setWindow(addr); err != nil {
			return err
		}
		words := b.rbuf[:mathx.CeilDiv(n, 4)]
		packLE(words, data[:n])
		if err := b.cmdWrite(cmdWord(true, FuncBackplane, offset, n), words); err != nil {
			return err
		}

		addr += n
		data = data[n:]
	}
	return nil
}

// checkBlock rejects misaligned blocks and blocks that would run past the
// top of the 32-bit backplane address space.
func checkBlock(addr uint32, n int) error {
	if addr%4 != 0 {
		return ErrMisaligned
	}
	if uint64(addr)+uint64(n) > 1<<32 {
		return ErrTooLarge
	}
	return nil
}

// Backplane register access. Each call selects the window for addr, then
// issues one 1, 2 or 4 byte backplane transaction.

func (b *Bus) BPRead8(addr uint32) (uint8, error) {
	v, err := b.backplaneReadN(addr, 1)
	return uint8(v), err
}

func (b *Bus) BPRead16(addr uint32) (uint16, error) {
	v, err := b.backplaneReadN(addr, 2)
	return uint16(v), err
}

func (b *Bus) BPRead32(addr uint32) (uint32, error) {
	return b.backplaneReadN(addr, 4)
}

func (b *Bus) BPWrite8(addr uint32, val uint8) error {
	return b.backplaneWriteN(addr, uint32(val), 1)
}

func (b *Bus) BPWrite16(addr uint32, val uint16) error {
	return b.backplaneWriteN(addr, uint32(val), 2)
}

func (b *Bus) BPWrite32(addr, val uint32) error {
	return b.backplaneWriteN(addr, val, 4)
}

func (b *Bus) backplaneReadN(addr, size uint32) (uint32, error) {
	if err := b.setWindow(addr); err != nil {
		return 0, err
	}
	return b.readn(FuncBackplane, backplaneOffset(addr, size), size)
}

func (b *Bus) backplaneWriteN(addr, val, size uint32) error {
	if err := b.setWindow(addr); err != nil {
		return err
	}
	return b.writen(FuncBackplane, backplaneOffset(addr, size), val, size)
}

// backplaneOffset is the in-window address; word-wide accesses are flagged
// in the address field, not by length alone.
func backplaneOffset(addr, size uint32) uint32 {
	offset := addr & WindowMask
	if size == 4 {
		offset |= Addr32BitFlag
	}
	return offset
}

// packLE packs src into words little-endian, zero-padding the last word.
func packLE(words []uint32, src []byte) {
	var tail [4]byte
	for i := range words {
		chunk := src[i*4:]
		if len(chunk) < 4 {
			tail = [4]byte{}
			copy(tail[:], chunk)
			chunk = tail[:]
		}
		words[i] = binary.LittleEndian.Uint32(chunk)
	}
}

// unpackLE copies len(dst) bytes out of little-endian words.
func unpackLE(dst []byte, words []uint32) {
	var tmp [4]byte
	for i := 0; i < len(dst); i += 4 {
		binary.LittleEndian.PutUint32(tmp[:], words[i/4])
		copy(dst[i:], tmp[:])
	}
}
