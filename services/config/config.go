package config

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"radiocode-go/bus"
	"radiocode-go/types"
)

// -----------------------------------------------------------------------------
// String constants (live in flash, not RAM)
// -----------------------------------------------------------------------------

const (
	serviceName  = "config"
	configPrefix = "config"
)

type ctxKey string

// CtxDeviceKey is the context key holding the device ID.
const CtxDeviceKey ctxKey = "device"

// WithDevice returns ctx carrying the device ID used to select a config.
func WithDevice(ctx context.Context, device string) context.Context {
	return context.WithValue(ctx, CtxDeviceKey, device)
}

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}

// decoders turn known sections into typed payloads. Other keys are
// published as generic JSON values.
var decoders = map[string]func(json.RawMessage) (any, error){
	"radio": func(raw json.RawMessage) (any, error) {
		var c types.RadioConfig
		err := json.Unmarshal(raw, &c)
		return c, err
	},
	"display": func(raw json.RawMessage) (any, error) {
		var c types.DisplayConfig
		err := json.Unmarshal(raw, &c)
		return c, err
	},
}

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

type ConfigService struct {
	Name string
	log  *slog.Logger
}

// NewConfigService returns the service. A nil logger discards.
func NewConfigService(log *slog.Logger) *ConfigService {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &ConfigService{Name: serviceName, log: log}
}

// publishConfig reads the device config from embedded data and publishes
// each top-level key as a retained message on config/<key>.
func (s *ConfigService) publishConfig(ctx context.Context, conn *bus.Connection) error {
	device, _ := ctx.Value(CtxDeviceKey).(string)
	if device == "" {
		return errors.New("missing device ID in context")
	}

	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return errors.New("no embedded config for device: " + device)
	}

	var sections map[string]json.RawMessage
	if err := json.Unmarshal(raw, &sections); err != nil {
		return errors.New("embedded config is not a JSON object: " + err.Error())
	}

	for k, v := range sections {
		payload, err := decode(k, v)
		if err != nil {
			s.log.Warn("config: bad section", slog.String("key", k), slog.Any("err", err))
			continue
		}
		conn.Publish(conn.NewMessage(bus.T(configPrefix, k), payload, true))
	}
	s.log.Info("config: published", slog.String("device", device), slog.Int("keys", len(sections)))
	return nil
}

func decode(key string, raw json.RawMessage) (any, error) {
	if d, ok := decoders[key]; ok {
		return d(raw)
	}
	var v any
	err := json.Unmarshal(raw, &v)
	return v, err
}

// Start launches the config publisher in a goroutine.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) {
	go func() {
		if err := s.publishConfig(ctx, conn); err != nil {
			s.log.Error("config: publish failed", slog.Any("err", err))
		}
	}()
}
