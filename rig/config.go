package rig

import (
	"os"
	"sync"

	"github.com/spf13/viper"
)

// Config holds the engine-wide knobs that aren't per-command (§10.3).
// Zero value is never used directly; call DefaultConfig or Configure.
type Config struct {
	// TickIntervalMs is the interval State.Tick is expected to be
	// called at when driven by a tickdriver.TickDriver; it is the
	// interval the State passes to TickDriver.Schedule. Debounce and
	// throttle windows are in ms and do not depend on it.
	TickIntervalMs uint32 `mapstructure:"tickIntervalMs"`
	// ManualDetectionEnabled toggles the manual-movement detection
	// step of the tick sequence (§4.5 step 2): when the observed
	// cursor position diverges from the engine's expected position by
	// more than ManualDetectionTolerancePx, the engine treats this as
	// user-driven and backs off.
	ManualDetectionEnabled bool `mapstructure:"manualDetectionEnabled"`
	// ManualDetectionTolerancePx bounds how far observed and expected
	// position may drift before movement is attributed to the user
	// rather than rounding error.
	ManualDetectionTolerancePx float64 `mapstructure:"manualDetectionTolerancePx"`
	// ManualOverrideWindowMs is how long manual detection suppresses
	// position emission for once triggered.
	ManualOverrideWindowMs uint32 `mapstructure:"manualOverrideWindowMs"`
}

// DefaultConfig returns the engine's out-of-the-box configuration.
func DefaultConfig() Config {
	return Config{
		TickIntervalMs:             16,
		ManualDetectionEnabled:     true,
		ManualDetectionTolerancePx: 2,
		ManualOverrideWindowMs:     300,
	}
}

// LoadConfig reads a YAML file at path through viper, overlaying it on
// DefaultConfig for any field the file omits. A missing file is not an
// error; callers that want a required file should stat it themselves
// first.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	if err := vp.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := vp.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

var (
	stateOnce    sync.Once
	defaultState *State
)

// Default returns the package-wide singleton State, constructing it
// with DefaultConfig on first use. Most callers drive the engine
// through this instance rather than constructing their own; NewState
// remains available for tests and for embedders that want an isolated
// instance.
func Default() *State {
	stateOnce.Do(func() {
		defaultState = NewState(DefaultConfig())
	})
	return defaultState
}

// Configure replaces the package-wide singleton's configuration.
// Intended for startup, before any builder chains are committed
// against Default(); it is not safe to call concurrently with ticking.
func Configure(cfg Config) {
	Default().cfg = cfg
}

// ResetForTest discards the package-wide singleton so the next call to
// Default constructs a fresh State. Tests that exercise Default()
// rather than NewState directly must call this in a cleanup to avoid
// leaking layer state across test cases.
func ResetForTest() {
	stateOnce = sync.Once{}
	defaultState = nil
}
