// Package backend defines the platform cursor back-end that the rig
// consumes (§6.1) and a name-keyed registry modeled on the teacher's
// driver.Register/Drivers pair, confirmed against the Python original's
// mouse_api.get_mouse_move_functions(absolute_override, relative_override):
// api_override selects a back-end by name, falling back to whichever
// back-end was registered as the default.
package backend

import (
	"errors"
	"sync"

	"github.com/golang/glog"
)

// Backend is the platform cursor interface. Implementations live
// outside this module (per spec.md §1, back-ends are an external
// collaborator); this package only defines the contract and a
// registry so that rig.State can resolve a builder's api_override by
// name.
type Backend interface {
	// MoveAbsolute places the cursor at (x, y).
	MoveAbsolute(x, y int32) error
	// MoveRelative nudges the cursor by (dx, dy).
	MoveRelative(dx, dy int32) error
	// ReadPosition reports the current cursor position.
	ReadPosition() (x, y int32, err error)
	// Scroll mirrors MoveRelative for scroll input. byLines
	// indicates (dx, dy) are measured in lines rather than pixels.
	Scroll(dx, dy int32, byLines bool) error
}

// ErrNotRegistered is returned when a name does not match any
// registered back-end and there is no default to fall back to.
var ErrNotRegistered = errors.New("backend: not registered")

var (
	mu       sync.Mutex
	backends = make(map[string]Backend, 4)
	def      string
)

// Register adds a backend under name. The first backend registered
// becomes the default (used when a builder does not set
// api_override, or when api_override names an unavailable backend).
// Registering under an already-used name replaces the prior backend.
func Register(name string, b Backend) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := backends[name]; exists {
		glog.Warningf("backend: %q replaced", name)
	} else {
		glog.Infof("backend: %q registered", name)
	}
	backends[name] = b
	if def == "" {
		def = name
	}
}

// SetDefault changes which registered backend is used when a builder
// does not request one by name.
func SetDefault(name string) error {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := backends[name]; !ok {
		return ErrNotRegistered
	}
	def = name
	return nil
}

// Resolve returns the backend registered under name. If name is
// empty, or names a backend that is not registered, Resolve falls
// back to the default backend (§6.1: "the engine falls back to the
// default when unavailable"), logging the fallback so a typo'd
// api_override is visible without failing the command.
func Resolve(name string) (Backend, error) {
	mu.Lock()
	defer mu.Unlock()
	if name != "" {
		if b, ok := backends[name]; ok {
			return b, nil
		}
		glog.Warningf("backend: %q unavailable, falling back to default %q", name, def)
	}
	if def == "" {
		return nil, ErrNotRegistered
	}
	return backends[def], nil
}

// Names returns every registered backend name.
func Names() []string {
	mu.Lock()
	defer mu.Unlock()
	names := make([]string, 0, len(backends))
	for n := range backends {
		names = append(names, n)
	}
	return names
}

// reset clears the registry; used by tests only.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	backends = make(map[string]Backend, 4)
	def = ""
}
