package cyw43

import "math/bits"

// Function selects one of the gSPI logical sub-buses.
type Function uint8

const (
	FuncBus       Function = 0 // bus control registers
	FuncBackplane Function = 1 // windowed backplane memory
	FuncWLAN      Function = 2 // packet data
	FuncBT        Function = 3 // unused on this board
)

func (f Function) String() string {
	switch f {
	case FuncBus:
		return "bus"
	case FuncBackplane:
		return "backplane"
	case FuncWLAN:
		return "wlan"
	case FuncBT:
		return "bt"
	}
	return "invalid"
}

// Command word field layout.
const (
	cmdWriteBit   = 31
	cmdIncrBit    = 30
	cmdFuncShift  = 28
	cmdFuncMask   = 0x3
	cmdAddrShift  = 11
	cmdAddrMask   = 0x1FFFF
	cmdLengthMask = 0x7FF

	// MaxCmdLength is the largest payload one command can announce.
	MaxCmdLength = cmdLengthMask
)

// CommandWord is the 32-bit header that precedes every gSPI transaction.
type CommandWord struct {
	Write     bool
	Increment bool
	Func      Function
	Addr      uint32 // 17 bits
	Length    uint32 // bytes, 11 bits
}

// Encode packs c. Fields wider than their slot are masked.
func (c CommandWord) Encode() uint32 {
	return b2u32(c.Write)<<cmdWriteBit |
		b2u32(c.Increment)<<cmdIncrBit |
		(uint32(c.Func)&cmdFuncMask)<<cmdFuncShift |
		(c.Addr&cmdAddrMask)<<cmdAddrShift |
		c.Length&cmdLengthMask
}

// DecodeCommand unpacks a header produced by Encode.
func DecodeCommand(w uint32) CommandWord {
	return CommandWord{
		Write:     w&(1<<cmdWriteBit) != 0,
		Increment: w&(1<<cmdIncrBit) != 0,
		Func:      Function((w >> cmdFuncShift) & cmdFuncMask),
		Addr:      (w >> cmdAddrShift) & cmdAddrMask,
		Length:    w & cmdLengthMask,
	}
}

// cmdWord builds an auto-incrementing command; fixed-address mode is never used.
func cmdWord(write bool, fn Function, addr, length uint32) uint32 {
	return CommandWord{Write: write, Increment: true, Func: fn, Addr: addr, Length: length}.Encode()
}

// swap16 exchanges the 16-bit halves of x, the word order the device
// assumes before RegBusCtrl is configured. It is its own inverse.
func swap16(x uint32) uint32 { return bits.RotateLeft32(x, 16) }

func b2u32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
