// Package gspi provides word-level transports for the CYW43439 gSPI link.
//
// Two transports are available: BitBang drives the clock and the shared
// data line from GPIO, and SPI adapts a hardware SPI peripheral. Both move
// 32-bit words most significant bit first and satisfy cyw43.Transport and
// cyw43.Framer.
package gspi

// Pin is a push-pull output line.
type Pin interface {
	Set(high bool)
}

// DataPin is the bidirectional data line. The host drives it while sending
// and releases it to the device while receiving.
type DataPin interface {
	Pin
	Get() bool
	ConfigureOutput()
	ConfigureInput()
}

// BitBang clocks words over GPIO in SPI mode 0: the clock idles low and the
// device samples on the rising edge.
type BitBang struct {
	CLK Pin
	DIO DataPin
	// CS frames transactions when non-nil. Active low.
	CS Pin

	driving bool
}

// NewBitBang returns a BitBang with the clock low, chip select released and
// the data line as input.
func NewBitBang(clk Pin, dio DataPin, cs Pin) *BitBang {
	b := &BitBang{CLK: clk, DIO: dio, CS: cs}
	clk.Set(false)
	if cs != nil {
		cs.Set(true)
	}
	dio.ConfigureInput()
	return b
}

// Write sends each word MSB first, one clock per bit. The clock is left
// low after the last bit.
func (b *BitBang) Write(words []uint32) error {
	b.drive()
	for _, w := range words {
		for i := 31; i >= 0; i-- {
			b.CLK.Set(false)
			b.DIO.Set(w&(1<<uint(i)) != 0)
			b.CLK.Set(true)
		}
	}
	b.CLK.Set(false)
	return nil
}

// Read fills words from the data line, sampling each bit before its
// rising edge. Bit 31 arrives first.
func (b *BitBang) Read(words []uint32) error {
	b.release()
	for k := range words {
		var w uint32
		for i := 0; i < 32; i++ {
			w <<= 1
			if b.DIO.Get() {
				w |= 1
			}
			b.CLK.Set(true)
			b.CLK.Set(false)
		}
		words[k] = w
	}
	return nil
}

func (b *BitBang) Flush() error { return nil }

// Begin asserts chip select.
func (b *BitBang) Begin() error {
	if b.CS != nil {
		b.CS.Set(false)
	}
	return nil
}

// End releases chip select and the data line.
func (b *BitBang) End() error {
	b.CLK.Set(false)
	if b.CS != nil {
		b.CS.Set(true)
	}
	b.release()
	return nil
}

func (b *BitBang) drive() {
	if !b.driving {
		b.DIO.ConfigureOutput()
		b.driving = true
	}
}

func (b *BitBang) release() {
	if b.driving {
		b.DIO.ConfigureInput()
		b.driving = false
	}
}
