package types

// ---- Radio state (retained on radio/state) ----

// Radio levels.
const (
	LevelIdle         = "idle"
	LevelInitialising = "initialising"
	LevelReady        = "ready"
	LevelError        = "error"
	LevelStopped      = "stopped"
)

type RadioState struct {
	Level  string `json:"level"`
	Status string `json:"status"` // short code, errcode string on failure
	Polls  int    `json:"polls,omitempty"`
	Error  string `json:"error,omitempty"`
	TS     int64  `json:"ts_ms"`
}

// RadioInfo is published retained on radio/info after bring-up.
type RadioInfo struct {
	ChipID   uint16 `json:"chip_id"`
	Revision uint8  `json:"rev"`
	Polls    int    `json:"polls"`
}

// ---- Radio controls (radio/control/<verb>) ----

type RegRead struct {
	Func uint8  `json:"func"`
	Addr uint32 `json:"addr"`
}

type RegWrite struct {
	Func  uint8  `json:"func"`
	Addr  uint32 `json:"addr"`
	Value uint32 `json:"value"`
}

type RegValue struct {
	Value uint32 `json:"value"`
}

type BackplaneRead struct {
	Addr uint32 `json:"addr"`
	N    int    `json:"n"`
}

type BackplaneWrite struct {
	Addr uint32 `json:"addr"`
	Data []byte `json:"data"`
}

type BackplaneData struct {
	Addr uint32 `json:"addr"`
	Data []byte `json:"data"`
}

// ---- Display controls ----

// DisplayFill sets the whole matrix to Color (0xRRGGBB). Auto returns the
// display to showing radio state.
type DisplayFill struct {
	Color uint32 `json:"color"`
	Auto  bool   `json:"auto,omitempty"`
}

// Generic replies
type OKReply struct {
	OK bool `json:"ok"`
}
type ErrorReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}
