// Package modeop implements the four pure mode-composition functions
// (§4.8): given a mode (offset/override/scale) and a contribution, fold
// it onto a base value. Every function here is total and deterministic;
// none of them touch lifecycle, timing, or group state.
package modeop

import "github.com/cursorig/rig/vec2"

// Mode is meaningful only for modifier layers; base layers always
// behave as Override on their own accumulator (§3).
type Mode int

const (
	Offset Mode = iota
	Override
	Scale
)

func (m Mode) String() string {
	switch m {
	case Offset:
		return "offset"
	case Scale:
		return "scale"
	default:
		return "override"
	}
}

// ParseMode validates a chain-time mode name.
func ParseMode(name string) (Mode, bool) {
	switch name {
	case "offset":
		return Offset, true
	case "override":
		return Override, true
	case "scale":
		return Scale, true
	}
	return 0, false
}

// ApplyScalar folds value onto base for speed (and any other plain
// scalar) under mode.
func ApplyScalar(mode Mode, value, base float64) float64 {
	switch mode {
	case Override:
		return value
	case Scale:
		return base * value
	default: // Offset
		return base + value
	}
}

// ApplyPosition folds value onto base for pos under mode. Scale is
// component-wise, per §4.8.
func ApplyPosition(mode Mode, value, base vec2.Vec2) vec2.Vec2 {
	switch mode {
	case Override:
		return value
	case Scale:
		return base.Mul(value)
	default: // Offset
		return base.Add(value)
	}
}

// ApplyDirection folds value onto base (a normalized direction) under
// mode. For Offset, base is rotated by angle (radians) if asAngle is
// true; otherwise value is a Vec2 added to base and re-normalized.
// For Scale, per the resolved Open Question (§9a,
// SPEC_FULL.md §12), the multiplier rotates base by
// base.Angle() * (multiplier - 1) -- a multiplier on the absolute
// rotation angle of the base direction, not a literal vector scale
// (scaling a unit vector would leave its direction unchanged).
func ApplyDirection(mode Mode, value vec2.Vec2, asAngle bool, angle, multiplier float64, base vec2.Vec2) vec2.Vec2 {
	switch mode {
	case Override:
		return value.Normalize()
	case Scale:
		return base.Rotate(base.Angle() * (multiplier - 1)).Normalize()
	default: // Offset
		if asAngle {
			return base.Rotate(angle).Normalize()
		}
		return base.Add(value).Normalize()
	}
}

// ApplyVector decomposes base (speed, direction) and value (also a
// speed/direction pair representing the contribution), folds speed
// and direction independently under mode, and recomposes.
func ApplyVector(mode Mode, valueSpeed float64, valueDir vec2.Vec2, baseSpeed float64, baseDir vec2.Vec2) (speed float64, dir vec2.Vec2) {
	speed = ApplyScalar(mode, valueSpeed, baseSpeed)
	switch mode {
	case Override:
		dir = valueDir.Normalize()
	case Scale:
		dir = baseDir // magnitude-only scale; heading is unaffected
	default: // Offset
		if valueDir.IsZero() {
			dir = baseDir
		} else if baseSpeed == 0 {
			dir = valueDir.Normalize()
		} else {
			// Combine as true velocity vectors, then split back
			// into speed/direction so both axes can be composed
			// independently by later layers.
			combined := baseDir.Scale(baseSpeed).Add(valueDir.Scale(valueSpeed))
			if combined.IsZero() {
				dir = baseDir
			} else {
				dir = combined.Normalize()
			}
		}
	}
	return
}
