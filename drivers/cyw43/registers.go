package cyw43

// Bus function (F0) registers.
const (
	RegBusCtrl            = 0x00
	RegBusResponseDelay   = 0x01
	RegBusStatusEnable    = 0x02
	RegBusInterrupt       = 0x04
	RegBusInterruptEnable = 0x06
	RegBusStatus          = 0x08
	RegBusTestRO          = 0x14
	RegBusTestRW          = 0x18
	RegBusRespDelayF1     = 0x1C
)

// RegBusCtrl bits.
const (
	WordLength32    = 0x01
	EndianBig       = 0x02
	ClockPolarity   = 0x04
	ClockPhase      = 0x08
	HighSpeed       = 0x10
	InterruptPolLow = 0x20
	WakeUp          = 0x80
)

// Values the device reports on its test registers.
const (
	FeedBead    = 0xFEEDBEAD // RegBusTestRO, read-only
	TestPattern = 0x12345678 // written to RegBusTestRW during bring-up
)

// Backplane (F1) registers selecting the current window.
const (
	RegBackplaneAddrLow  = 0x1000A
	RegBackplaneAddrMid  = 0x1000B
	RegBackplaneAddrHigh = 0x1000C
	RegChipClockCSR      = 0x1000E
	RegPullUp            = 0x1000F
)

// Backplane windowing.
const (
	WindowSize      = 0x8000
	WindowMask      = WindowSize - 1
	Addr32BitFlag   = 0x08000
	MaxTransferSize = 64
)

// Core base addresses on the backplane.
const (
	ChipCommonBase = 0x18000000
	SOCSRAMBase    = 0x18004000
	WLANARMBase    = 0x18003000
)

// invalidWindow is never a real window: real windows have bits 14..0 clear.
const invalidWindow = 0xAAAA_AAAA
