package rig

import (
	"github.com/cursorig/rig/easing"
	"github.com/cursorig/rig/internal/rate"
	"github.com/cursorig/rig/lifecycle"
	"github.com/cursorig/rig/modeop"
	"github.com/cursorig/rig/policy"
	"github.com/cursorig/rig/vec2"
)

// Builder is the fluent, chainable surface (§4.1, §6.3). It records a
// single command into a BuilderConfig without causing any side effect
// until Commit. A Builder is single-use: an explicit Commit call makes
// it inert.
type Builder struct {
	state *State
	cfg   *BuilderConfig

	err       *Error
	committed bool

	result    *ActiveBuilder
	resultErr error
}

// NewBuilder returns a fresh Builder bound to s. Most callers reach
// this through State.NewBuilder rather than constructing one directly.
func (s *State) NewBuilder() *Builder {
	return &Builder{state: s, cfg: newBuilderConfig()}
}

func (b *Builder) fail(field, reason string) *Builder {
	if b.err == nil {
		b.err = newChainErr(field, reason)
	}
	return b
}

// Layer names this command's target layer explicitly (a user
// modifier, per §3). Without a Layer call, the layer is either the
// property's base layer (no Mode chained) or an auto-named modifier
// (Mode chained without Layer).
func (b *Builder) Layer(name string, order ...int) *Builder {
	if b.cfg.hasLayer {
		return b.fail("layer", "layer already set")
	}
	b.cfg.hasLayer = true
	b.cfg.layerName = name
	if len(order) > 0 {
		o := order[0]
		b.cfg.order = &o
	}
	return b
}

func (b *Builder) setProperty(p Property) *Builder {
	if b.cfg.hasProp {
		return b.fail("property", "exactly one property is allowed per command")
	}
	b.cfg.hasProp = true
	b.cfg.property = p
	return b
}

// Pos, Speed, Direction, and Vector select the command's property
// (§3). Exactly one must be chained.
func (b *Builder) Pos() *Builder       { return b.setProperty(Pos) }
func (b *Builder) Speed() *Builder     { return b.setProperty(Speed) }
func (b *Builder) Direction() *Builder { return b.setProperty(Direction) }
func (b *Builder) Vector() *Builder    { return b.setProperty(Vector) }

// Scroll marks this command as scroll input rather than cursor
// movement (§3 input_kind); it is only meaningful combined with Pos
// and Relative.
func (b *Builder) Scroll() *Builder {
	b.cfg.inputKind = ScrollInput
	return b
}

func (b *Builder) setMode(m modeop.Mode) *Builder {
	if b.cfg.hasMode {
		return b.fail("mode", "at most one mode is allowed per command")
	}
	b.cfg.hasMode = true
	b.cfg.mode = m
	return b
}

// Offset, Override, and Scale select the command's mode (§3). Mode is
// mandatory when Layer names a user modifier, and is what auto-names a
// modifier layer when Layer is absent.
func (b *Builder) Offset() *Builder   { return b.setMode(modeop.Offset) }
func (b *Builder) Override() *Builder { return b.setMode(modeop.Override) }
func (b *Builder) Scale() *Builder    { return b.setMode(modeop.Scale) }

// Absolute and Relative select movement_type for a Pos command
// (§6.1); Absolute is the default.
func (b *Builder) Absolute() *Builder { b.cfg.movementType = Absolute; return b }
func (b *Builder) Relative() *Builder { b.cfg.movementType = Relative; return b }

// ApiOverride names a specific registered backend for this command,
// bypassing the registry's default (§6.1).
func (b *Builder) ApiOverride(name string) *Builder {
	b.cfg.apiOverride = name
	return b
}

func (b *Builder) setOperator(op Operator) *Builder {
	if b.cfg.hasOp {
		return b.fail("operator", "exactly one operator is allowed per command")
	}
	b.cfg.hasOp = true
	b.cfg.operator = op
	return b
}

// To sets the operator to "to" (absolute target) with args interpreted
// per property: one float for Speed, two (x, y) for Pos/Direction,
// three (speed, dirX, dirY) for Vector.
func (b *Builder) To(args ...float64) *Builder { return b.setOperator(To).withArgs(args) }

// Add (and its synonym By) sets the operator to a relative delta.
func (b *Builder) Add(args ...float64) *Builder { return b.setOperator(Add).withArgs(args) }
func (b *Builder) By(args ...float64) *Builder  { return b.Add(args...) }

// Sub sets the operator to a relative negative delta.
func (b *Builder) Sub(args ...float64) *Builder { return b.setOperator(Sub).withArgs(args) }

// Mul and Div set a scalar-multiplier operator (speed, vector
// magnitude, or direction rotation multiplier per §3).
func (b *Builder) Mul(factor float64) *Builder { return b.setOperator(Mul).withArgs([]float64{factor}) }
func (b *Builder) Div(factor float64) *Builder { return b.setOperator(Div).withArgs([]float64{factor}) }

// Bake sets the operator to bake: fold the group's current effective
// value into base/accumulator immediately, with no transition.
func (b *Builder) Bake() *Builder { return b.setOperator(Bake) }

// ToAngle and AddAngle express a Direction command's operand as a
// rotation angle in degrees rather than a unit vector.
func (b *Builder) ToAngle(deg float64) *Builder {
	b.setOperator(To)
	b.cfg.asAngle = true
	b.cfg.angleValue = deg * (3.141592653589793 / 180)
	return b
}

func (b *Builder) AddAngle(deg float64) *Builder {
	b.setOperator(Add)
	b.cfg.asAngle = true
	b.cfg.angleValue = deg * (3.141592653589793 / 180)
	return b
}

func (b *Builder) withArgs(args []float64) *Builder {
	switch b.cfg.property {
	case Speed:
		if len(args) != 1 {
			return b.fail("value", "speed takes exactly one value")
		}
		b.cfg.valueScalar = args[0]
	case Pos, Direction:
		if len(args) != 2 {
			return b.fail("value", "pos/direction take exactly two values (x, y)")
		}
		b.cfg.valueVec = vec2.New(args[0], args[1])
	case Vector:
		if len(args) == 1 {
			b.cfg.valueScalar = args[0]
		} else if len(args) == 3 {
			b.cfg.valueScalar = args[0]
			b.cfg.valueVec = vec2.New(args[1], args[2])
		} else {
			return b.fail("value", "vector takes one value (speed) or three (speed, dirX, dirY)")
		}
	default:
		return b.fail("value", "property must be set before supplying a value")
	}
	return b
}

// Over configures the transition-in phase's duration in ms. OverRate
// configures it by rate instead; the two are mutually exclusive.
func (b *Builder) Over(ms float64) *Builder {
	b.cfg.over.set = true
	b.cfg.over.ms = &ms
	return b
}

func (b *Builder) OverRate(unitsPerSec float64) *Builder {
	b.cfg.over.set = true
	b.cfg.over.rate = &unitsPerSec
	return b
}

func (b *Builder) OverEasing(name string) *Builder { b.cfg.over.easing = name; return b }
func (b *Builder) OverInterpolation(name string) *Builder {
	b.cfg.over.interpolation = name
	return b
}

// Hold configures the hold phase's duration in ms.
func (b *Builder) Hold(ms float64) *Builder {
	b.cfg.hold.set = true
	b.cfg.hold.ms = &ms
	return b
}

// Revert configures the revert-out phase's duration in ms. RevertRate
// configures it by rate instead.
func (b *Builder) Revert(ms float64) *Builder {
	b.cfg.revert.set = true
	b.cfg.revert.ms = &ms
	return b
}

func (b *Builder) RevertRate(unitsPerSec float64) *Builder {
	b.cfg.revert.set = true
	b.cfg.revert.rate = &unitsPerSec
	return b
}

func (b *Builder) RevertEasing(name string) *Builder { b.cfg.revert.easing = name; return b }
func (b *Builder) RevertInterpolation(name string) *Builder {
	b.cfg.revert.interpolation = name
	return b
}

func (b *Builder) setBehavior(beh policy.Behavior, args policy.Args) *Builder {
	if b.cfg.hasBehavior {
		return b.fail("behavior", "at most one behavior is allowed per command")
	}
	b.cfg.hasBehavior = true
	b.cfg.behavior = beh
	b.cfg.behaviorArgs = args
	return b
}

// Stack admits unconditionally (the default), optionally capping
// concurrent builders on the layer at max.
func (b *Builder) Stack(max ...int) *Builder {
	var args policy.Args
	if len(max) > 0 {
		m := max[0]
		args.Max = &m
	}
	return b.setBehavior(policy.Stack, args)
}

// Replace clears every existing builder on the layer before admitting
// this one.
func (b *Builder) Replace() *Builder { return b.setBehavior(policy.Replace, policy.Args{}) }

// Queue defers admission behind any in-flight builder on the layer,
// optionally capping the pending queue length at max. Completion of
// the in-flight builder, named or anonymous, frees the layer and
// starts the next queued admission.
func (b *Builder) Queue(max ...int) *Builder {
	var args policy.Args
	if len(max) > 0 {
		m := max[0]
		args.Max = &m
	}
	return b.setBehavior(policy.Queue, args)
}

// Throttle rejects admission if one already happened on the same key
// within ms (or, with no argument, if any builder on the key is
// currently active).
func (b *Builder) Throttle(ms ...float64) *Builder {
	var args policy.Args
	if len(ms) > 0 {
		args.Ms = ms[0]
	}
	return b.setBehavior(policy.Throttle, args)
}

// Debounce defers admission until ms have passed with no further
// admission on the same key.
func (b *Builder) Debounce(ms float64) *Builder {
	return b.setBehavior(policy.Debounce, policy.Args{Ms: ms})
}

// Ignore silently drops this admission if the layer is already busy.
func (b *Builder) Ignore() *Builder { return b.setBehavior(policy.Ignore, policy.Args{}) }

// Extend records the extend behavior on the command. At admission the
// rig treats it like an uncapped Stack: it does not refresh or extend
// an existing builder's timing, and no read surface reports the
// recorded behavior value.
func (b *Builder) Extend() *Builder { return b.setBehavior(policy.Extend, policy.Args{}) }

// Then registers fn to run when the lifecycle leaves whichever phase
// was most recently configured (Over, Hold, or Revert, in that chain
// order) -- "attaches to current phase" per §6.3.
func (b *Builder) Then(fn func()) *Builder {
	phase := "over"
	switch {
	case b.cfg.revert.set:
		phase = "revert"
	case b.cfg.hold.set:
		phase = "hold"
	case b.cfg.over.set:
		phase = "over"
	}
	b.cfg.thens = append(b.cfg.thens, thenEntry{phase: phase, fn: fn})
	return b
}

// Commit validates the accumulated config, lowers it into an
// ActiveBuilder, and admits it into the target LayerGroup according to
// the chosen behavior. Commit is idempotent: calling it again on an
// already-committed (or failed) Builder returns the same result
// without re-admitting. A Builder that fails validation never mutates
// rig state.
func (b *Builder) Commit() (*ActiveBuilder, error) {
	if b.committed {
		return b.result, b.resultErr
	}
	b.committed = true
	if b.err != nil {
		b.resultErr = b.err
	} else if err := b.validate(); err != nil {
		b.resultErr = err
	} else {
		b.result, b.resultErr = b.state.admit(b.cfg)
	}
	return b.result, b.resultErr
}

func (b *Builder) validate() error {
	cfg := b.cfg
	if !cfg.hasProp {
		return newChainErr("property", "no property was selected")
	}
	if !cfg.hasOp {
		return newChainErr("operator", "no operator was selected")
	}
	if !operatorAllowed(cfg.property, cfg.operator) {
		return newChainErr("operator", "operator not valid for this property")
	}
	if cfg.hasLayer && !cfg.hasMode {
		return newChainErr("mode", "mode is required for a named modifier layer")
	}
	if cfg.operator == Div {
		if (cfg.property == Speed || cfg.property == Vector) && cfg.valueScalar == 0 {
			return newAdmissionErr("division by zero")
		}
	}
	for _, t := range []phaseTiming{cfg.over, cfg.hold, cfg.revert} {
		if !t.set {
			continue
		}
		if t.ms != nil && t.rate != nil {
			return newChainErr("timing", "ms and rate are mutually exclusive on the same phase")
		}
		if t.easing != "" {
			if _, ok := easing.Lookup(t.easing); !ok {
				return newChainErr("easing", "unknown easing name: "+t.easing)
			}
		}
		if t.interpolation != "" && !easing.ValidInterpolation(t.interpolation) {
			return newChainErr("interpolation", "unknown interpolation name: "+t.interpolation)
		}
	}
	if cfg.hasBehavior && cfg.behavior == policy.Debounce && cfg.behaviorArgs.Ms <= 0 {
		return newAdmissionErr("debounce requires a positive duration")
	}
	return nil
}

// resolvePhaseMs lowers a phase's ms-or-rate timing to a concrete
// duration, dispatching the rate calculation per property (§4.9).
// Returns nil if the phase was never configured (skipped entirely).
func resolvePhaseMs(prop Property, t phaseTiming, base, target contribution) *float64 {
	if !t.set {
		return nil
	}
	if t.ms != nil {
		return t.ms
	}
	if t.rate == nil {
		zero := 0.0
		return &zero
	}
	var ms float64
	switch prop {
	case Speed:
		ms = rate.ScalarDelta(target.Scalar-base.Scalar, *t.rate)
	case Pos:
		ms = rate.PositionDelta(target.Vec.Sub(base.Vec), *t.rate)
	case Direction:
		if base.Vec.IsZero() || target.Vec.IsZero() {
			ms = rate.MinDurationMs
		} else {
			ms = rate.Direction(base.Vec.Normalize(), target.Vec.Normalize(), *t.rate)
		}
	case Vector:
		ms = rate.Vector(base.Scalar, base.Vec, target.Scalar, target.Vec, *t.rate)
	}
	return &ms
}

// buildLifecycle lowers the three phase timings and constructs the
// Lifecycle that will drive this command.
func buildLifecycle(prop Property, cfgOver, cfgHold, cfgRevert phaseTiming, base, target contribution) *lifecycle.Lifecycle {
	overMs := resolvePhaseMs(prop, cfgOver, base, target)
	holdMs := resolvePhaseMs(prop, cfgHold, base, target)
	revertMs := resolvePhaseMs(prop, cfgRevert, base, target)

	over := lifecycle.PhaseConfig{Ms: overMs, Easing: orDefault(cfgOver.easing, easing.Linear)}
	hold := lifecycle.PhaseConfig{Ms: holdMs}
	revert := lifecycle.PhaseConfig{Ms: revertMs, Easing: orDefault(cfgRevert.easing, easing.Linear)}

	return lifecycle.New(over, hold, revert, cfgRevert.set)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
