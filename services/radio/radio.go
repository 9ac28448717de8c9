// Package radio owns the CYW43439 gSPI session and exposes it on the bus.
//
// Topics:
//
//	config/radio                 types.RadioConfig; (re)runs bring-up
//	radio/state      (retained)  types.RadioState
//	radio/info       (retained)  types.RadioInfo
//	radio/control/<verb>         request/reply; verbs read32, write32,
//	                             bp_read, bp_write, reinit
package radio

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"radiocode-go/bus"
	"radiocode-go/drivers/cyw43"
	"radiocode-go/errcode"
	"radiocode-go/types"
)

// MaxBlock bounds a single bp_read or bp_write request.
const MaxBlock = 1024

var (
	topicConfig  = bus.Topic{"config", "radio"}
	topicControl = bus.Topic{"radio", "control", "+"}
	topicState   = bus.Topic{"radio", "state"}
	topicInfo    = bus.Topic{"radio", "info"}
)

// Options are optional collaborators; zero values are usable.
type Options struct {
	Logger *slog.Logger
	// Sleep replaces the bring-up waits, for tests.
	Sleep func(ctx context.Context, d time.Duration) error
	// Now stamps state messages. Defaults to time.Now.
	Now func() time.Time
}

// Service runs the radio bus session on one goroutine.
type Service struct {
	conn *bus.Connection
	t    cyw43.Transport
	pwr  cyw43.PinOutput
	opts Options
	log  *slog.Logger

	cfg   types.RadioConfig
	dev   *cyw43.Bus
	ready bool
}

func New(conn *bus.Connection, t cyw43.Transport, pwr cyw43.PinOutput, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{conn: conn, t: t, pwr: pwr, opts: opts, log: opts.Logger}
}

// Start runs the service loop in a goroutine.
func (s *Service) Start(ctx context.Context) {
	go s.Run(ctx)
}

// Run serves until ctx is cancelled. Bring-up starts when a radio config
// arrives.
func (s *Service) Run(ctx context.Context) {
	cfgSub := s.conn.Subscribe(topicConfig)
	ctrlSub := s.conn.Subscribe(topicControl)
	defer s.conn.Unsubscribe(cfgSub)
	defer s.conn.Unsubscribe(ctrlSub)

	s.publishState(types.LevelIdle, "awaiting_config", 0, nil)

	for {
		select {
		case <-ctx.Done():
			if s.dev != nil {
				s.pwr(false)
			}
			s.ready = false
			s.publishState(types.LevelStopped, "context_cancelled", 0, nil)
			return

		case msg := <-cfgSub.Channel():
			if msg.Payload == nil {
				continue
			}
			var cfg types.RadioConfig
			if err := decode(msg.Payload, &cfg); err != nil {
				s.publishState(types.LevelError, "config_decode_failed", 0, err)
				continue
			}
			s.cfg = cfg
			s.bringUp(ctx)

		case msg := <-ctrlSub.Channel():
			s.handleControl(ctx, msg)
		}
	}
}

// bringUp power-cycles the radio and runs the handshake with the current
// config. The loop is blocked for the duration.
func (s *Service) bringUp(ctx context.Context) error {
	s.ready = false
	s.publishState(types.LevelInitialising, "power_cycle", 0, nil)

	s.dev = cyw43.New(s.t, s.pwr, cyw43.Config{
		ResetHold: time.Duration(s.cfg.ResetHoldMs) * time.Millisecond,
		BootWait:  time.Duration(s.cfg.BootWaitMs) * time.Millisecond,
		MaxPolls:  s.cfg.MaxPolls,
		Sleep:     s.opts.Sleep,
		Logger:    s.log,
	})

	ictx := ctx
	if s.cfg.InitTimeoutMs > 0 {
		var cancel context.CancelFunc
		ictx, cancel = context.WithTimeout(ctx, time.Duration(s.cfg.InitTimeoutMs)*time.Millisecond)
		defer cancel()
	}
	if err := s.dev.Init(ictx); err != nil {
		s.log.Error("radio: bring-up failed", slog.Any("err", err), slog.Int("polls", s.dev.Polls()))
		s.publishState(types.LevelError, string(codeOf(err)), s.dev.Polls(), err)
		return err
	}

	id, err := s.dev.BPRead32(cyw43.ChipCommonBase)
	if err != nil {
		s.publishState(types.LevelError, string(codeOf(err)), s.dev.Polls(), err)
		return err
	}
	info := types.RadioInfo{ChipID: uint16(id), Revision: uint8(id >> 16 & 0xF), Polls: s.dev.Polls()}
	s.conn.Publish(s.conn.NewMessage(topicInfo, info, true))

	s.ready = true
	s.publishState(types.LevelReady, "bus_ready", s.dev.Polls(), nil)
	s.log.Info("radio: ready", slog.Int("chip", int(info.ChipID)), slog.Int("rev", int(info.Revision)))
	return nil
}

func (s *Service) handleControl(ctx context.Context, msg *bus.Message) {
	if msg.Topic.Len() < 3 {
		return
	}
	verb, _ := msg.Topic.At(2).(string)

	if verb == "reinit" {
		if err := s.bringUp(ctx); err != nil {
			s.replyErr(msg, codeOf(err))
			return
		}
		s.replyOK(msg)
		return
	}
	if !s.ready {
		s.replyErr(msg, errcode.NotReady)
		return
	}

	switch verb {
	case "read32":
		p, ok := payload[types.RegRead](s, msg)
		if !ok {
			return
		}
		if p.Func > uint8(cyw43.FuncBT) {
			s.replyErr(msg, errcode.InvalidParams)
			return
		}
		v, err := s.dev.Read32(cyw43.Function(p.Func), p.Addr)
		if err != nil {
			s.fail(msg, err)
			return
		}
		s.conn.Reply(msg, types.RegValue{Value: v}, false)

	case "write32":
		p, ok := payload[types.RegWrite](s, msg)
		if !ok {
			return
		}
		if p.Func > uint8(cyw43.FuncBT) {
			s.replyErr(msg, errcode.InvalidParams)
			return
		}
		if err := s.dev.Write32(cyw43.Function(p.Func), p.Addr, p.Value); err != nil {
			s.fail(msg, err)
			return
		}
		s.replyOK(msg)

	case "bp_read":
		p, ok := payload[types.BackplaneRead](s, msg)
		if !ok {
			return
		}
		if p.N <= 0 {
			s.replyErr(msg, errcode.InvalidParams)
			return
		}
		if p.N > MaxBlock {
			s.replyErr(msg, errcode.TooLarge)
			return
		}
		data := make([]byte, p.N)
		if err := s.dev.ReadBlock(p.Addr, data); err != nil {
			s.fail(msg, err)
			return
		}
		s.conn.Reply(msg, types.BackplaneData{Addr: p.Addr, Data: data}, false)

	case "bp_write":
		p, ok := payload[types.BackplaneWrite](s, msg)
		if !ok {
			return
		}
		if len(p.Data) > MaxBlock {
			s.replyErr(msg, errcode.TooLarge)
			return
		}
		if err := s.dev.WriteBlock(p.Addr, p.Data); err != nil {
			s.fail(msg, err)
			return
		}
		s.replyOK(msg)

	default:
		s.replyErr(msg, errcode.Unsupported)
	}
}

// payload decodes the request payload, replying invalid_payload on failure.
func payload[T any](s *Service, msg *bus.Message) (T, bool) {
	var p T
	if err := decode(msg.Payload, &p); err != nil {
		s.replyErr(msg, errcode.InvalidPayload)
		return p, false
	}
	return p, true
}

// fail replies with the error's code. Transport failures also drop the
// session to the error state; precondition errors leave it ready.
func (s *Service) fail(msg *bus.Message, err error) {
	code := codeOf(err)
	if code == errcode.Transport {
		s.ready = false
		s.publishState(types.LevelError, string(code), s.dev.Polls(), err)
	}
	s.replyErr(msg, code)
}

func (s *Service) publishState(level, status string, polls int, err error) {
	st := types.RadioState{Level: level, Status: status, Polls: polls, TS: s.opts.Now().UnixMilli()}
	if err != nil {
		st.Error = err.Error()
	}
	s.conn.Publish(s.conn.NewMessage(topicState, st, true))
}

func (s *Service) replyOK(req *bus.Message) {
	s.conn.Reply(req, types.OKReply{OK: true}, false)
}

func (s *Service) replyErr(req *bus.Message, c errcode.Code) {
	s.conn.Reply(req, types.ErrorReply{OK: false, Error: string(c)}, false)
}

func codeOf(err error) errcode.Code {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return errcode.Timeout
	case errors.Is(err, context.Canceled):
		return errcode.Error
	}
	return errcode.MapTransportErr(err)
}

// decode accepts a payload already of type T, or anything that
// round-trips through JSON (maps, raw bytes).
func decode[T any](src any, dst *T) error {
	if v, ok := src.(T); ok {
		*dst = v
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case nil:
		return errors.New("radio: empty payload")
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		var err error
		if b, err = json.Marshal(v); err != nil {
			return err
		}
	}
	return json.Unmarshal(b, dst)
}
