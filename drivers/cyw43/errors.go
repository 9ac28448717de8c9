package cyw43

import (
	"radiocode-go/errcode"
	"radiocode-go/x/conv"
)

// Errors returned by the bus. Precondition errors are reported before any
// transport activity.
var (
	ErrHandshakeTimeout = &errcode.E{C: errcode.HandshakeTimeout, Op: "cyw43.Init", Msg: "test register never read 0xFEEDBEAD"}
	ErrMisaligned       = &errcode.E{C: errcode.Misaligned, Op: "cyw43", Msg: "backplane address must be 4-byte aligned"}
	ErrTooLarge         = &errcode.E{C: errcode.TooLarge, Op: "cyw43", Msg: "length exceeds command or address limit"}
	ErrShortBuffer      = &errcode.E{C: errcode.ShortBuffer, Op: "cyw43", Msg: "buffer shorter than requested length"}
	ErrAddressRange     = &errcode.E{C: errcode.InvalidParams, Op: "cyw43", Msg: "address does not fit the 17-bit command field"}
)

// IntegrityError reports a register that read back the wrong value during
// bring-up. The device is miswired or not functional; it is not retried.
type IntegrityError struct {
	Stage string
	Got   uint32
	Want  uint32
}

func (e *IntegrityError) Error() string {
	buf := make([]byte, 0, 64)
	buf = append(buf, "cyw43: bus integrity: "...)
	buf = append(buf, e.Stage...)
	buf = append(buf, ": got "...)
	buf = conv.AppendHex32(buf, e.Got)
	buf = append(buf, " want "...)
	buf = conv.AppendHex32(buf, e.Want)
	return string(buf)
}

func (e *IntegrityError) Code() errcode.Code { return errcode.BusIntegrity }
