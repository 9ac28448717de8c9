// Package hub75 drives a chain of HUB75 LED panels by bit-banging GPIO.
//
// Two 64x32 panels are chained into a 128x32 physical strip and folded into
// a 64x64 virtual framebuffer. Colour depth comes from bit-angle modulation:
// every Draw shows one of ColorBitmask+1 sub-frames and a channel is lit in
// as many sub-frames as its top bits say.
package hub75

const (
	PhysicalWidth  = 128
	PhysicalHeight = 32
	VirtualWidth   = 64
	VirtualHeight  = 64

	// ColorBitmask selects how many bits per channel reach the panel. More
	// bits give more colours and more flicker.
	ColorBitmask = 0x0F

	rowPairs   = PhysicalHeight / 2
	colorShift = 8 - 4 // 8 - popcount(ColorBitmask)
)

// Color is 0xRRGGBB.
type Color uint32

const (
	Black Color = 0x000000
	White Color = 0xFFFFFF
)

func Hex(h uint32) Color      { return Color(h & 0xFFFFFF) }
func RGB(r, g, b uint8) Color { return Color(r)<<16 | Color(g)<<8 | Color(b) }
func (c Color) R() uint8      { return uint8(c >> 16) }
func (c Color) G() uint8      { return uint8(c >> 8) }
func (c Color) B() uint8      { return uint8(c) }

// Matrix is the virtual framebuffer, indexed [y][x].
type Matrix [VirtualHeight][VirtualWidth]Color

// PhysicalToVirtual maps a pixel of the physical strip to the framebuffer.
// The first panel is mounted upside down as the top half.
func PhysicalToVirtual(x, y int) (int, int) {
	if x < VirtualWidth {
		return VirtualWidth - x - 1, PhysicalHeight - y - 1
	}
	return x - VirtualWidth, y + PhysicalHeight
}

// Pin is a push-pull output.
type Pin interface {
	Set(high bool)
}

// Pins wires the panel connector. OE is active low.
type Pins struct {
	R1, G1, B1 Pin
	R2, G2, B2 Pin
	A, B, C, D Pin
	CLK, LAT   Pin
	OE         Pin
}

func (p *Pins) all() []Pin {
	return []Pin{p.R1, p.G1, p.B1, p.R2, p.G2, p.B2, p.A, p.B, p.C, p.D, p.CLK, p.LAT, p.OE}
}

type Driver struct {
	pins   Pins
	matrix Matrix
	tick   uint32
}

// New drives every line low and returns a driver with a black framebuffer.
func New(pins Pins) *Driver {
	d := &Driver{pins: pins}
	for _, p := range d.pins.all() {
		p.Set(false)
	}
	return d
}

// Matrix returns the framebuffer for in-place rendering.
func (d *Driver) Matrix() *Matrix { return &d.matrix }

// Fill sets every pixel to c.
func (d *Driver) Fill(c Color) {
	for y := range d.matrix {
		for x := range d.matrix[y] {
			d.matrix[y][x] = c
		}
	}
}

// Ticks returns how many sub-frames have been drawn.
func (d *Driver) Ticks() uint32 { return d.tick }

// Draw shifts out one bit-angle-modulation sub-frame for all row pairs and
// leaves the panel blanked.
func (d *Driver) Draw() {
	div := d.tick % (ColorBitmask + 1)
	d.tick++

	p := &d.pins
	for pair := 0; pair < rowPairs; pair++ {
		p.OE.Set(false)
		p.LAT.Set(false)

		for x := 0; x < PhysicalWidth; x++ {
			top := d.at(x, pair)
			bot := d.at(x, pair+rowPairs)

			p.R1.Set(lit(div, uint32(top)>>16))
			p.G1.Set(lit(div, uint32(top)>>8))
			p.B1.Set(lit(div, uint32(top)))
			p.R2.Set(lit(div, uint32(bot)>>16))
			p.G2.Set(lit(div, uint32(bot)>>8))
			p.B2.Set(lit(div, uint32(bot)))

			p.CLK.Set(true)
			p.CLK.Set(false)
		}

		p.OE.Set(true)
		p.LAT.Set(true)

		p.A.Set(pair&0b0001 != 0)
		p.B.Set(pair&0b0010 != 0)
		p.C.Set(pair&0b0100 != 0)
		p.D.Set(pair&0b1000 != 0)
	}
	p.OE.Set(true)
}

func (d *Driver) at(x, y int) Color {
	vx, vy := PhysicalToVirtual(x, y)
	return d.matrix[vy][vx]
}

// lit reports whether an 8-bit channel (low byte of ch) is on in sub-frame div.
func lit(div, ch uint32) bool {
	return div < (ch>>colorShift)&ColorBitmask
}
