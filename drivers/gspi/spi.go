package gspi

import (
	"encoding/binary"

	"tinygo.org/x/drivers"
)

// SPI carries gSPI words over a hardware SPI peripheral. Words go out
// big-endian, one Transfer per byte.
type SPI struct {
	bus drivers.SPI
	cs  func(level bool)
	// dir turns a shared data line around; nil when MOSI and MISO are separate.
	dir func(input bool)

	buf [4]byte
}

// NewSPI wraps bus. cs drives chip select (active low) and may be nil.
// dir, when non-nil, is called with true before reads and false before
// writes.
func NewSPI(bus drivers.SPI, cs func(level bool), dir func(input bool)) *SPI {
	if cs != nil {
		cs(true)
	}
	return &SPI{bus: bus, cs: cs, dir: dir}
}

func (s *SPI) Write(words []uint32) error {
	if s.dir != nil {
		s.dir(false)
	}
	for _, w := range words {
		binary.BigEndian.PutUint32(s.buf[:], w)
		for _, c := range s.buf {
			if _, err := s.bus.Transfer(c); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *SPI) Read(words []uint32) error {
	if s.dir != nil {
		s.dir(true)
	}
	for k := range words {
		for i := range s.buf {
			c, err := s.bus.Transfer(0)
			if err != nil {
				return err
			}
			s.buf[i] = c
		}
		words[k] = binary.BigEndian.Uint32(s.buf[:])
	}
	return nil
}

func (s *SPI) Flush() error { return nil }

func (s *SPI) Begin() error {
	if s.cs != nil {
		s.cs(false)
	}
	return nil
}

func (s *SPI) End() error {
	if s.cs != nil {
		s.cs(true)
	}
	return nil
}
