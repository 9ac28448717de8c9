package cyw43sim

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"radiocode-go/drivers/cyw43"
)

func noSleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

func newBus(d *Device, polls int) *cyw43.Bus {
	return cyw43.New(d, d.Power, cyw43.Config{MaxPolls: polls, Sleep: noSleep})
}

func TestSim_BringUpAndChipID(t *testing.T) {
	d := New()
	d.ReadyAfter = 3
	b := newBus(d, 0)
	if err := b.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if b.Polls() != 4 {
		t.Fatalf("Polls = %d, want 4", b.Polls())
	}
	v, err := b.BPRead32(ChipCommonBase)
	if err != nil || v != DefaultChipID {
		t.Fatalf("chip id = %#x, %v", v, err)
	}
}

func TestSim_DeadDeviceTimesOut(t *testing.T) {
	d := New()
	d.Dead = true
	b := newBus(d, 5)
	if err := b.Init(context.Background()); !errors.Is(err, cyw43.ErrHandshakeTimeout) {
		t.Fatalf("Init = %v", err)
	}
}

func TestSim_BlockAcrossWindows(t *testing.T) {
	d := New()
	b := newBus(d, 0)
	if err := b.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	data := make([]byte, 200)
	for i := range data {
		data[i] = byte(255 - i)
	}
	const addr = 0x18007F80
	if err := b.WriteBlock(addr, data); err != nil {
		t.Fatal(err)
	}
	if got := d.Peek(addr, len(data)); !bytes.Equal(got, data) {
		t.Fatal("device memory differs from written block")
	}
	back := make([]byte, len(data))
	if err := b.ReadBlock(addr, back); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(back, data) {
		t.Fatal("read back differs")
	}
}

func TestSim_PowerCycleRestoresSwappedMode(t *testing.T) {
	d := New()
	b := newBus(d, 0)
	for i := 0; i < 2; i++ {
		if err := b.Init(context.Background()); err != nil {
			t.Fatalf("Init #%d: %v", i+1, err)
		}
	}
}

func TestSim_FailNext(t *testing.T) {
	d := New()
	b := newBus(d, 0)
	if err := b.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	boom := errors.New("boom")
	d.FailNext(boom)
	if _, err := b.Read32(cyw43.FuncBus, 0x14); !errors.Is(err, boom) {
		t.Fatalf("Read32 = %v", err)
	}
	if v, err := b.Read32(cyw43.FuncBus, 0x14); err != nil || v != 0xFEEDBEAD {
		t.Fatalf("after failure: %#x, %v", v, err)
	}
}

func TestSim_TransactionHookSeesSwappedBringUp(t *testing.T) {
	d := New()
	var swapped, normal int
	d.OnTransaction = func(tr Transaction) {
		if tr.Swapped {
			swapped++
		} else {
			normal++
		}
	}
	b := newBus(d, 0)
	if err := b.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	// poll, pattern write, pattern read and bus ctrl write go out swapped.
	if swapped != 4 || normal != 2 {
		t.Fatalf("swapped = %d normal = %d, want 4 and 2", swapped, normal)
	}
	if d.Swapped() || d.BusCtrl()&wordLength32 == 0 {
		t.Fatalf("device left in swapped mode, ctrl %#x", d.BusCtrl())
	}
}

func TestSim_FailAfterCountsCalls(t *testing.T) {
	d := New()
	b := newBus(d, 0)
	if err := b.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	boom := errors.New("boom")
	start := d.Calls()
	d.FailAfter(3, boom) // Begin, Write, Read
	if _, err := b.Read32(cyw43.FuncBus, 0x14); !errors.Is(err, boom) {
		t.Fatalf("Read32 = %v", err)
	}
	if got := d.Calls() - start; got != 4 {
		t.Fatalf("calls = %d, want 4 (End still runs)", got)
	}
}

func TestSim_WLANQueues(t *testing.T) {
	d := New()
	b := newBus(d, 0)
	if err := b.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	d.QueueRX(1, 2, 3)
	buf := make([]uint32, 2)
	if err := b.WLANRead(buf, 5); err != nil {
		t.Fatal(err)
	}
	if buf[0] != 1 || buf[1] != 2 || d.PendingRX() != 1 {
		t.Fatalf("buf = %v pending = %d", buf, d.PendingRX())
	}
	if err := b.WLANWrite([]uint32{9, 8}); err != nil {
		t.Fatal(err)
	}
	if tx := d.TX(); len(tx) != 1 || tx[0][1] != 8 {
		t.Fatalf("tx = %v", tx)
	}
}
