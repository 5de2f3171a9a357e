package rig

import "github.com/cursorig/rig/vec2"

// resolveTarget computes a command's target_value from its operator,
// operand, and captured base_value (§4.1's commit-time lowering).
func resolveTarget(cfg *BuilderConfig, base contribution) (contribution, error) {
	switch cfg.property {
	case Speed:
		return resolveSpeedTarget(cfg, base)
	case Pos:
		return resolvePosTarget(cfg, base)
	case Direction:
		return resolveDirectionTarget(cfg, base)
	default: // Vector
		return resolveVectorTarget(cfg, base)
	}
}

func resolveSpeedTarget(cfg *BuilderConfig, base contribution) (contribution, error) {
	v := cfg.valueScalar
	switch cfg.operator {
	case To:
		return contribution{Scalar: v}, nil
	case Add:
		return contribution{Scalar: base.Scalar + v}, nil
	case Sub:
		return contribution{Scalar: base.Scalar - v}, nil
	case Mul:
		return contribution{Scalar: base.Scalar * v}, nil
	case Div:
		if v == 0 {
			return contribution{}, newAdmissionErr("division by zero")
		}
		return contribution{Scalar: base.Scalar / v}, nil
	default: // Bake
		return base, nil
	}
}

func resolvePosTarget(cfg *BuilderConfig, base contribution) (contribution, error) {
	v := cfg.valueVec
	switch cfg.operator {
	case To:
		return contribution{Vec: v}, nil
	case Add:
		return contribution{Vec: base.Vec.Add(v)}, nil
	default: // Bake
		return base, nil
	}
}

func resolveDirectionTarget(cfg *BuilderConfig, base contribution) (contribution, error) {
	switch cfg.operator {
	case To:
		if cfg.asAngle {
			return contribution{Vec: vec2.New(1, 0).Rotate(cfg.angleValue)}, nil
		}
		return contribution{Vec: cfg.valueVec.Normalize()}, nil
	case Add:
		if cfg.asAngle {
			return contribution{Vec: base.Vec.Rotate(cfg.angleValue).Normalize()}, nil
		}
		return contribution{Vec: base.Vec.Add(cfg.valueVec).Normalize()}, nil
	case Mul:
		return contribution{Vec: rotateByMultiplier(base.Vec, cfg.valueScalar)}, nil
	case Div:
		if cfg.valueScalar == 0 {
			return contribution{}, newAdmissionErr("division by zero")
		}
		return contribution{Vec: rotateByMultiplier(base.Vec, 1/cfg.valueScalar)}, nil
	default: // Bake
		return base, nil
	}
}

// rotateByMultiplier rotates base by multiplier applied to its own
// absolute rotation angle, per the resolved Open Question on
// direction.scale semantics (§9a, SPEC_FULL.md §12): a multiplier acts
// on the base direction's angle, not as a literal vector scale.
func rotateByMultiplier(base vec2.Vec2, multiplier float64) vec2.Vec2 {
	return base.Rotate(base.Angle() * (multiplier - 1)).Normalize()
}

func resolveVectorTarget(cfg *BuilderConfig, base contribution) (contribution, error) {
	speedV := cfg.valueScalar
	dirV := cfg.valueVec
	switch cfg.operator {
	case To:
		d := dirV
		if d.IsZero() {
			d = base.Vec
		} else {
			d = d.Normalize()
		}
		return contribution{Scalar: speedV, Vec: d}, nil
	case Add:
		combined := base.Vec.Scale(base.Scalar).Add(dirV.Scale(speedV))
		return combinedVelocity(combined, base.Vec), nil
	case Sub:
		combined := base.Vec.Scale(base.Scalar).Sub(dirV.Scale(speedV))
		return combinedVelocity(combined, base.Vec), nil
	case Mul:
		return contribution{Scalar: base.Scalar * speedV, Vec: base.Vec}, nil
	case Div:
		if speedV == 0 {
			return contribution{}, newAdmissionErr("division by zero")
		}
		return contribution{Scalar: base.Scalar / speedV, Vec: base.Vec}, nil
	default: // Bake
		return base, nil
	}
}

func combinedVelocity(combined, fallbackDir vec2.Vec2) contribution {
	if combined.IsZero() {
		return contribution{Scalar: 0, Vec: fallbackDir}
	}
	return contribution{Scalar: combined.Magnitude(), Vec: combined.Normalize()}
}
