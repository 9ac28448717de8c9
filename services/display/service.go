// Package display refreshes the LED matrix and shows radio link state on it.
package display

import (
	"context"
	"log/slog"
	"time"

	"radiocode-go/bus"
	"radiocode-go/drivers/hub75"
	"radiocode-go/errcode"
	"radiocode-go/types"
	"radiocode-go/x/mathx"
)

var (
	topicConfigDisplay = bus.Topic{"config", "display"}
	topicFill          = bus.Topic{"display", "fill"}
	topicRadioState    = bus.Topic{"radio", "state"}
)

const (
	defaultRefreshHz = 200
	maxRefreshHz     = 2000
)

// Link state colours.
const (
	ColorReady        hub75.Color = 0x00FF00
	ColorInitialising hub75.Color = 0xFF8000
	ColorError        hub75.Color = 0xFF0000
)

// Panel is the part of the matrix driver the service uses.
type Panel interface {
	Fill(c hub75.Color)
	Draw()
}

type Service struct {
	panel Panel
	log   *slog.Logger

	level  string
	manual bool
}

func New(panel Panel, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{panel: panel, log: log}
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigDisplay)
	fillSub := conn.Subscribe(topicFill)
	radioSub := conn.Subscribe(topicRadioState)
	defer conn.Unsubscribe(cfgSub)
	defer conn.Unsubscribe(fillSub)
	defer conn.Unsubscribe(radioSub)

	tick := time.NewTicker(time.Second / defaultRefreshHz)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			s.panel.Fill(hub75.Black)
			s.panel.Draw()
			s.log.Info("display: stopping")
			return

		case <-tick.C:
			s.panel.Draw()

		case msg := <-cfgSub.Channel():
			cfg, ok := msg.Payload.(types.DisplayConfig)
			if !ok || cfg.RefreshHz <= 0 {
				continue
			}
			hz := mathx.Clamp(cfg.RefreshHz, 1, maxRefreshHz)
			tick.Reset(time.Second / time.Duration(hz))
			s.log.Info("display: refresh set", slog.Int("hz", hz))

		case msg := <-radioSub.Channel():
			st, ok := msg.Payload.(types.RadioState)
			if !ok {
				continue
			}
			s.level = st.Level
			if !s.manual {
				s.panel.Fill(stateColor(s.level))
			}

		case msg := <-fillSub.Channel():
			f, ok := msg.Payload.(types.DisplayFill)
			if !ok {
				conn.Reply(msg, types.ErrorReply{Error: string(errcode.InvalidPayload)}, false)
				continue
			}
			s.manual = !f.Auto
			if s.manual {
				s.panel.Fill(hub75.Hex(f.Color))
			} else {
				s.panel.Fill(stateColor(s.level))
			}
			conn.Reply(msg, types.OKReply{OK: true}, false)
		}
	}
}

func stateColor(level string) hub75.Color {
	switch level {
	case types.LevelReady:
		return ColorReady
	case types.LevelInitialising:
		return ColorInitialising
	case types.LevelError:
		return ColorError
	}
	return hub75.Black
}

// Start the display service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
