package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: device ID (same value placed in ctx under CtxDeviceKey)
// Val: raw JSON bytes for that device
// -----------------------------------------------------------------------------

const cfgPicoW = `{
  "radio": {
      "max_polls": 128,
      "boot_wait_ms": 250,
      "reset_hold_ms": 20,
      "init_timeout_ms": 2000
  },
  "display": {
      "refresh_hz": 200
  }
}`

var embeddedConfigs = map[string][]byte{
	"picow": []byte(cfgPicoW),
}
