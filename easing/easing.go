// Package easing holds the named easing and interpolation function
// tables consumed by the lifecycle phase machine. Functions are
// registered once, at package init, and looked up by name so that
// chain-time validation (the builder rejects an unknown name before
// any state is touched) and a small, closed set of names can be
// enumerated for the configuration surface.
package easing

import "math"

// Func maps a normalized progress value in [0, 1] to an eased
// progress value, also in [0, 1] for every registered (power) ease.
type Func func(t float64) float64

// Names of every registered easing function, fixed at init.
const (
	Linear     = "linear"
	EaseIn     = "ease_in"
	EaseOut    = "ease_out"
	EaseInOut  = "ease_in_out"
	EaseIn2    = "ease_in2"
	EaseIn3    = "ease_in3"
	EaseIn4    = "ease_in4"
	EaseOut2   = "ease_out2"
	EaseOut3   = "ease_out3"
	EaseOut4   = "ease_out4"
	EaseInOut2 = "ease_in_out2"
	EaseInOut3 = "ease_in_out3"
	EaseInOut4 = "ease_in_out4"
)

var table = map[string]Func{
	Linear:     func(t float64) float64 { return t },
	EaseIn:     powerIn(2),
	EaseOut:    powerOut(2),
	EaseInOut:  powerInOut(2),
	EaseIn2:    powerIn(2),
	EaseIn3:    powerIn(3),
	EaseIn4:    powerIn(4),
	EaseOut2:   powerOut(2),
	EaseOut3:   powerOut(3),
	EaseOut4:   powerOut(4),
	EaseInOut2: powerInOut(2),
	EaseInOut3: powerInOut(3),
	EaseInOut4: powerInOut(4),
}

func powerIn(p float64) Func {
	return func(t float64) float64 { return math.Pow(t, p) }
}

func powerOut(p float64) Func {
	return func(t float64) float64 { return 1 - math.Pow(1-t, p) }
}

func powerInOut(p float64) Func {
	return func(t float64) float64 {
		if t < 0.5 {
			return math.Pow(2*t, p) / 2
		}
		return 1 - math.Pow(2*(1-t), p)/2
	}
}

// Lookup returns the easing function registered under name, and
// whether it was found. Callers that validate chain input (e.g. the
// fluent builder) should reject an unknown name at chain time rather
// than silently falling back to linear.
func Lookup(name string) (Func, bool) {
	f, ok := table[name]
	return f, ok
}

// Names returns every registered easing name, for use by the
// configuration surface (§6.5) and chain validation error messages.
func Names() []string {
	names := make([]string, 0, len(table))
	for n := range table {
		names = append(names, n)
	}
	return names
}

// Interpolation selects how ActiveBuilder values of direction/vector
// type move between two endpoints.
type Interpolation string

const (
	// Lerp interpolates componentwise and re-normalizes the result
	// (direction only).
	Lerp Interpolation = "lerp"
	// Slerp interpolates along the shortest arc between two unit
	// vectors (direction only).
	Slerp Interpolation = "slerp"
	// LinearInterp interpolates componentwise without
	// re-normalizing, permitting a smooth zero-crossing on a
	// same-axis reversal (direction and vector).
	LinearInterp Interpolation = "linear"
)

// ValidInterpolation reports whether name is one of the fixed
// interpolation names.
func ValidInterpolation(name string) bool {
	switch Interpolation(name) {
	case Lerp, Slerp, LinearInterp:
		return true
	}
	return false
}
