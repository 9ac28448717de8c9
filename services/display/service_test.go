package display

import (
	"context"
	"sync"
	"testing"
	"time"

	"radiocode-go/bus"
	"radiocode-go/drivers/hub75"
	"radiocode-go/types"
)

type fakePanel struct {
	mu    sync.Mutex
	draws int
	fills []hub75.Color
}

func (p *fakePanel) Fill(c hub75.Color) {
	p.mu.Lock()
	p.fills = append(p.fills, c)
	p.mu.Unlock()
}

func (p *fakePanel) Draw() {
	p.mu.Lock()
	p.draws++
	p.mu.Unlock()
}

func (p *fakePanel) snapshot() (int, []hub75.Color) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draws, append([]hub75.Color(nil), p.fills...)
}

// waitFill waits until the panel's latest fill is want.
func (p *fakePanel) waitFill(t *testing.T, want hub75.Color) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if _, fills := p.snapshot(); len(fills) > 0 && fills[len(fills)-1] == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	_, fills := p.snapshot()
	t.Fatalf("fills = %x, want last %#06x", fills, uint32(want))
}

func start(t *testing.T) (*fakePanel, *bus.Connection, context.CancelFunc) {
	t.Helper()
	b := bus.NewBus(16)
	p := &fakePanel{}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	_ = New(p, nil).Start(ctx, b.NewConnection("display"))
	return p, b.NewConnection("test"), cancel
}

func publishState(c *bus.Connection, level string) {
	c.Publish(c.NewMessage(bus.T("radio", "state"), types.RadioState{Level: level}, true))
}

func TestDisplay_ShowsRadioState(t *testing.T) {
	p, c, _ := start(t)
	publishState(c, types.LevelInitialising)
	p.waitFill(t, ColorInitialising)
	publishState(c, types.LevelReady)
	p.waitFill(t, ColorReady)
	publishState(c, types.LevelError)
	p.waitFill(t, ColorError)
}

func TestDisplay_ManualFillOverridesUntilAuto(t *testing.T) {
	p, c, _ := start(t)
	publishState(c, types.LevelReady)
	p.waitFill(t, ColorReady)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	reply, err := c.RequestWait(ctx, c.NewMessage(bus.T("display", "fill"), types.DisplayFill{Color: 0x123456}, false))
	if err != nil {
		t.Fatal(err)
	}
	if ok, _ := reply.Payload.(types.OKReply); !ok.OK {
		t.Fatalf("fill reply = %#v", reply.Payload)
	}
	p.waitFill(t, 0x123456)

	publishState(c, types.LevelError)
	time.Sleep(30 * time.Millisecond)
	if _, fills := p.snapshot(); fills[len(fills)-1] != 0x123456 {
		t.Fatalf("radio state overrode manual fill: %x", fills)
	}

	c.Publish(c.NewMessage(bus.T("display", "fill"), types.DisplayFill{Auto: true}, false))
	p.waitFill(t, ColorError)
}

func TestDisplay_BadFillPayload(t *testing.T) {
	_, c, _ := start(t)
	// The service subscribes asynchronously; retry until it answers.
	var reply *bus.Message
	for i := 0; i < 20 && reply == nil; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		reply, _ = c.RequestWait(ctx, c.NewMessage(bus.T("display", "fill"), "red", false))
		cancel()
	}
	if reply == nil {
		t.Fatal("no reply to bad fill")
	}
	if e, ok := reply.Payload.(types.ErrorReply); !ok || e.Error != "invalid_payload" {
		t.Fatalf("reply = %#v", reply.Payload)
	}
}

func TestDisplay_RefreshTicksAndConfig(t *testing.T) {
	p, c, _ := start(t)
	c.Publish(c.NewMessage(bus.T("config", "display"), types.DisplayConfig{RefreshHz: 1000}, true))
	time.Sleep(100 * time.Millisecond)
	if draws, _ := p.snapshot(); draws < 10 {
		t.Fatalf("draws = %d after 100ms at 1 kHz", draws)
	}
}

func TestDisplay_BlanksOnStop(t *testing.T) {
	p, c, cancel := start(t)
	publishState(c, types.LevelReady)
	p.waitFill(t, ColorReady)
	cancel()
	p.waitFill(t, hub75.Black)
}
