package hub75

import "testing"

type level struct{ v bool }

func (l *level) Set(b bool) { l.v = b }

// clockPin snapshots the colour lines on each rising edge.
type clockPin struct {
	level
	rig *rig
}

func (c *clockPin) Set(b bool) {
	if b && !c.v {
		r := c.rig
		r.shifted = append(r.shifted, [6]bool{r.r1.v, r.g1.v, r.b1.v, r.r2.v, r.g2.v, r.b2.v})
	}
	c.v = b
}

type rig struct {
	r1, g1, b1, r2, g2, b2 level
	a, b, c, d             level
	lat, oe                level
	clk                    clockPin
	shifted                [][6]bool
}

func newRig() (*rig, *Driver) {
	r := &rig{}
	r.clk.rig = r
	d := New(Pins{
		R1: &r.r1, G1: &r.g1, B1: &r.b1,
		R2: &r.r2, G2: &r.g2, B2: &r.b2,
		A: &r.a, B: &r.b, C: &r.c, D: &r.d,
		CLK: &r.clk, LAT: &r.lat, OE: &r.oe,
	})
	return r, d
}

func TestPhysicalToVirtual(t *testing.T) {
	cases := []struct{ px, py, vx, vy int }{
		{0, 0, 63, 31},
		{63, 31, 0, 0},
		{64, 0, 0, 32},
		{127, 31, 63, 63},
		{10, 5, 53, 26},
	}
	for _, c := range cases {
		if x, y := PhysicalToVirtual(c.px, c.py); x != c.vx || y != c.vy {
			t.Fatalf("(%d,%d) -> (%d,%d), want (%d,%d)", c.px, c.py, x, y, c.vx, c.vy)
		}
	}
}

func TestPhysicalToVirtual_IsBijection(t *testing.T) {
	var seen [VirtualHeight][VirtualWidth]bool
	for y := 0; y < PhysicalHeight; y++ {
		for x := 0; x < PhysicalWidth; x++ {
			vx, vy := PhysicalToVirtual(x, y)
			if vx < 0 || vx >= VirtualWidth || vy < 0 || vy >= VirtualHeight {
				t.Fatalf("(%d,%d) out of range: (%d,%d)", x, y, vx, vy)
			}
			if seen[vy][vx] {
				t.Fatalf("(%d,%d) maps onto an already used pixel", x, y)
			}
			seen[vy][vx] = true
		}
	}
}

func TestDraw_ShiftsEveryColumnOfEveryPair(t *testing.T) {
	r, d := newRig()
	d.Draw()
	if len(r.shifted) != rowPairs*PhysicalWidth {
		t.Fatalf("clock pulses = %d, want %d", len(r.shifted), rowPairs*PhysicalWidth)
	}
	if !r.oe.v || r.clk.v {
		t.Fatalf("after Draw oe=%v clk=%v, want blanked with clock low", r.oe.v, r.clk.v)
	}
	// Last pair selected is 15.
	if !(r.a.v && r.b.v && r.c.v && r.d.v) {
		t.Fatal("row address after last pair is not 0b1111")
	}
	if d.Ticks() != 1 {
		t.Fatalf("Ticks = %d", d.Ticks())
	}
}

func TestDraw_BitAngleModulation(t *testing.T) {
	r, d := newRig()
	// 0x80 -> level 8 of 16: lit in sub-frames 0..7.
	d.Fill(RGB(0x80, 0x00, 0xFF))

	for sub := 0; sub < ColorBitmask+1; sub++ {
		r.shifted = r.shifted[:0]
		d.Draw()
		px := r.shifted[0]
		if px[0] != (sub < 8) || px[3] != (sub < 8) {
			t.Fatalf("sub-frame %d: red = %v/%v", sub, px[0], px[3])
		}
		if px[1] || px[4] {
			t.Fatalf("sub-frame %d: green lit for zero channel", sub)
		}
		if px[2] != (sub < 15) {
			t.Fatalf("sub-frame %d: blue = %v", sub, px[2])
		}
	}
}

func TestDraw_TopAndBottomHalves(t *testing.T) {
	r, d := newRig()
	m := d.Matrix()
	// Physical (5,3) is the top line of pair 3; physical (5,19) the bottom.
	x, y := PhysicalToVirtual(5, 3)
	m[y][x] = RGB(0xFF, 0, 0)
	x, y = PhysicalToVirtual(5, 19)
	m[y][x] = RGB(0, 0xFF, 0)

	d.Draw()
	for i, px := range r.shifted {
		pair, col := i/PhysicalWidth, i%PhysicalWidth
		hit := pair == 3 && col == 5
		if px[0] != hit || px[4] != hit {
			t.Fatalf("pair %d col %d: r1=%v g2=%v", pair, col, px[0], px[4])
		}
		if px[1] || px[2] || px[3] || px[5] {
			t.Fatalf("pair %d col %d: stray channel %v", pair, col, px)
		}
	}
}

func TestColorHelpers(t *testing.T) {
	c := Hex(0x12345678)
	if c != 0x345678 || c.R() != 0x34 || c.G() != 0x56 || c.B() != 0x78 {
		t.Fatalf("Hex = %#x", uint32(c))
	}
	if RGB(1, 2, 3) != 0x010203 {
		t.Fatal("RGB packing")
	}
}
