package types

// Typed sections of the embedded device configuration. Each is published
// retained on "config/<key>".

// RadioConfig is supplied on "config/radio". Zero fields take driver defaults.
type RadioConfig struct {
	MaxPolls    int `json:"max_polls,omitempty"`
	BootWaitMs  int `json:"boot_wait_ms,omitempty"`
	ResetHoldMs int `json:"reset_hold_ms,omitempty"`
	// InitTimeoutMs bounds a whole bring-up attempt. 0 means no bound.
	InitTimeoutMs int `json:"init_timeout_ms,omitempty"`
}

// DisplayConfig is supplied on "config/display".
type DisplayConfig struct {
	RefreshHz int `json:"refresh_hz,omitempty"`
}
