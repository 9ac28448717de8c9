package cyw43

import "radiocode-go/x/mathx"

// WLANRead reads an n-byte packet from the WLAN function into buf, which
// must hold at least ceil(n/4) words. The data function is not windowed.
func (b *Bus) WLANRead(buf []uint32, n int) error {
	if n < 0 || n > MaxCmdLength {
		return ErrTooLarge
	}
	words := mathx.CeilDiv(uint32(n), 4)
	if uint32(len(buf)) < words {
		return ErrShortBuffer
	}
	return b.cmdRead(cmdWord(false, FuncWLAN, 0, uint32(n)), false, buf[:words])
}

// WLANWrite sends buf to the WLAN function as one 4*len(buf) byte packet.
func (b *Bus) WLANWrite(buf []uint32) error {
	if len(buf)*4 > MaxCmdLength {
		return ErrTooLarge
	}
	return b.cmdWrite(cmdWord(true, FuncWLAN, 0, uint32(len(buf)*4)), buf)
}
