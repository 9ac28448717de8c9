package gspi

import (
	"testing"

	"radiocode-go/drivers/cyw43"
)

var (
	_ cyw43.Transport = (*BitBang)(nil)
	_ cyw43.Framer    = (*BitBang)(nil)
	_ cyw43.Transport = (*SPI)(nil)
	_ cyw43.Framer    = (*SPI)(nil)
)

// line simulates the clock, data and chip-select wires seen by the device.
type line struct {
	clk, dio, cs bool
	output       bool

	rising int
	sent   []bool // data level at each rising edge while the host drives
	feed   []bool // levels the device presents, one per sample

	misuse []string
}

type clkPin struct{ l *line }

func (p clkPin) Set(v bool) {
	if v && !p.l.clk {
		p.l.rising++
		if p.l.output {
			p.l.sent = append(p.l.sent, p.l.dio)
		}
	}
	p.l.clk = v
}

type dioPin struct{ l *line }

func (p dioPin) Set(v bool) {
	if !p.l.output {
		p.l.misuse = append(p.l.misuse, "drive while input")
	}
	p.l.dio = v
}

func (p dioPin) Get() bool {
	if p.l.output {
		p.l.misuse = append(p.l.misuse, "sample while output")
	}
	if len(p.l.feed) == 0 {
		return false
	}
	v := p.l.feed[0]
	p.l.feed = p.l.feed[1:]
	return v
}

func (p dioPin) ConfigureOutput() { p.l.output = true }
func (p dioPin) ConfigureInput()  { p.l.output = false }

type csPin struct{ l *line }

func (p csPin) Set(v bool) { p.l.cs = v }

func newLine() (*line, *BitBang) {
	l := &line{}
	return l, NewBitBang(clkPin{l}, dioPin{l}, csPin{l})
}

func bitsOf(words ...uint32) []bool {
	var out []bool
	for _, w := range words {
		for i := 31; i >= 0; i-- {
			out = append(out, w&(1<<uint(i)) != 0)
		}
	}
	return out
}

func equalBits(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBitBangWrite_MSBFirstOneEdgePerBit(t *testing.T) {
	l, bb := newLine()
	words := []uint32{0xA5F00F5A, 0x00000001}
	if err := bb.Write(words); err != nil {
		t.Fatal(err)
	}
	if l.rising != 64 {
		t.Fatalf("rising edges = %d, want 64", l.rising)
	}
	if !equalBits(l.sent, bitsOf(words...)) {
		t.Fatalf("bits on the wire differ from MSB-first encoding")
	}
	if l.clk {
		t.Fatal("clock left high after write")
	}
	if len(l.misuse) != 0 {
		t.Fatalf("line misuse: %v", l.misuse)
	}
}

func TestBitBangRead_AssemblesMSBFirst(t *testing.T) {
	l, bb := newLine()
	l.feed = bitsOf(0xFEEDBEAD, 0x12345678)

	got := make([]uint32, 2)
	if err := bb.Read(got); err != nil {
		t.Fatal(err)
	}
	if got[0] != 0xFEEDBEAD || got[1] != 0x12345678 {
		t.Fatalf("read %#08x", got)
	}
	if l.rising != 64 || l.clk {
		t.Fatalf("rising=%d clk=%v", l.rising, l.clk)
	}
	if len(l.misuse) != 0 {
		t.Fatalf("line misuse: %v", l.misuse)
	}
}

func TestBitBang_TurnsDataLineAround(t *testing.T) {
	l, bb := newLine()
	if l.output {
		t.Fatal("data line driven at reset")
	}
	_ = bb.Begin()
	if l.cs {
		t.Fatal("chip select not asserted")
	}
	_ = bb.Write([]uint32{0x4000A004})
	if !l.output {
		t.Fatal("data line not driven for write")
	}
	l.feed = bitsOf(0xFEEDBEAD)
	var w [1]uint32
	_ = bb.Read(w[:])
	if l.output {
		t.Fatal("data line still driven during read")
	}
	_ = bb.End()
	if !l.cs || l.output || l.clk {
		t.Fatalf("after End: cs=%v output=%v clk=%v", l.cs, l.output, l.clk)
	}
	if len(l.misuse) != 0 {
		t.Fatalf("line misuse: %v", l.misuse)
	}
}

func TestBitBang_NoChipSelect(t *testing.T) {
	l := &line{}
	bb := NewBitBang(clkPin{l}, dioPin{l}, nil)
	if err := bb.Begin(); err != nil {
		t.Fatal(err)
	}
	if err := bb.End(); err != nil {
		t.Fatal(err)
	}
	if err := bb.Flush(); err != nil {
		t.Fatal(err)
	}
}

func TestBitBang_EmptyTransfersClockNothing(t *testing.T) {
	l, bb := newLine()
	_ = bb.Write(nil)
	_ = bb.Read(nil)
	if l.rising != 0 {
		t.Fatalf("rising edges = %d", l.rising)
	}
}
