package cyw43

import (
	"context"
	"log/slog"
)

// Init power-cycles the device and performs the gSPI byte-order handshake.
//
// The device powers up expecting 16-bit words, so the first transactions
// have their halves swapped until RegBusCtrl selects 32-bit words. Waiting
// for the device is bounded by Config.MaxPolls; a device that never answers
// yields ErrHandshakeTimeout. A register that reads back wrong yields an
// *IntegrityError and is not retried. ctx aborts the boot waits and the
// poll loop between transactions.
func (b *Bus) Init(ctx context.Context) error {
	b.window = invalidWindow
	b.polls = 0

	b.pwr(false)
	if err := b.cfg.Sleep(ctx, b.cfg.ResetHold); err != nil {
		return err
	}
	b.pwr(true)
	if err := b.cfg.Sleep(ctx, b.cfg.BootWait); err != nil {
		return err
	}

	var got uint32
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if b.polls >= b.cfg.MaxPolls {
			b.log.Warn("cyw43: handshake timeout", slog.Int("polls", b.polls), slog.Uint64("last", uint64(got)))
			return ErrHandshakeTimeout
		}
		v, err := b.read32Swapped(RegBusTestRO)
		if err != nil {
			return err
		}
		b.polls++
		got = v
		if got == FeedBead {
			break
		}
	}
	b.log.Debug("cyw43: device answered", slog.Int("polls", b.polls))

	if err := b.write32Swapped(RegBusTestRW, TestPattern); err != nil {
		return err
	}
	v, err := b.read32Swapped(RegBusTestRW)
	if err != nil {
		return err
	}
	if v != TestPattern {
		return &IntegrityError{Stage: "swapped test pattern", Got: v, Want: TestPattern}
	}

	// Last swapped transaction: from here on words are 32-bit.
	if err := b.write32Swapped(RegBusCtrl, WordLength32|HighSpeed); err != nil {
		return err
	}

	if v, err = b.Read32(FuncBus, RegBusTestRO); err != nil {
		return err
	}
	if v != FeedBead {
		return &IntegrityError{Stage: "test register", Got: v, Want: FeedBead}
	}
	if v, err = b.Read32(FuncBus, RegBusTestRW); err != nil {
		return err
	}
	if v != TestPattern {
		return &IntegrityError{Stage: "test pattern", Got: v, Want: TestPattern}
	}

	b.log.Info("cyw43: bus ready", slog.Int("polls", b.polls))
	return nil
}
