package rig

import (
	"github.com/cursorig/rig/modeop"
	"github.com/cursorig/rig/vec2"
)

// baseDirectionNeutral is the per-property neutral direction, the
// positive-X unit vector (§4.4).
var baseDirectionNeutral = vec2.New(1, 0)

// pendingAdmission is a deferred builder-creation callback queued by
// the queue behavior (§4.6); invoking it performs the admission that
// was deferred.
type pendingAdmission func()

// LayerGroup owns every ActiveBuilder sharing one layer name (§4.4).
// The rig's State uniquely owns every LayerGroup; a group uniquely
// owns its builders.
type LayerGroup struct {
	name     string
	property Property
	mode     modeop.Mode
	kind     Kind
	order    int

	accumulated contribution
	// committed is a pos-only slot for a running absolute position.
	// No code path sets or reads it; base_value capture uses
	// EffectiveValue or the raw base state instead.
	committed contribution

	builders []*ActiveBuilder

	pendingQueue  []pendingAdmission
	isQueueActive bool

	minValue, maxValue *float64

	isEmit bool
}

func newLayerGroup(name string, prop Property, mode modeop.Mode, kind Kind, order int) *LayerGroup {
	return &LayerGroup{
		name:        name,
		property:    prop,
		mode:        mode,
		kind:        kind,
		order:       order,
		accumulated: neutralAccumulator(prop),
	}
}

// neutralAccumulator returns the per-property neutral an empty group
// starts from (§4.4): speed 0, direction (1,0), pos (0,0), vector
// (0,0).
func neutralAccumulator(prop Property) contribution {
	switch prop {
	case Direction:
		return contribution{Vec: baseDirectionNeutral}
	default:
		return contribution{}
	}
}

// foldOnto folds every active builder's current contribution onto
// running, in admission order, then clamps. Composition-order
// evaluation (§4.5) calls this with the tick's running composed value
// so far; resting-value callers (EffectiveValue) call it with the
// group's own accumulated baseline.
func (g *LayerGroup) foldOnto(running contribution) contribution {
	result := running
	for _, b := range g.builders {
		result = g.fold(b, b.InterpolatedValue(), result)
	}
	return g.clamp(result)
}

// EffectiveValue is the group's own current resting value: its
// accumulated baseline with every active builder folded on top. New
// builders admitted onto this layer capture this as their base_value;
// it is also what Replace and bake-on-completion consult.
func (g *LayerGroup) EffectiveValue() contribution {
	return g.foldOnto(g.accumulated)
}

// fold applies one builder's contribution onto running under this
// group's mode, dispatching per-property since each property folds
// through a distinct modeop function.
func (g *LayerGroup) fold(b *ActiveBuilder, value, running contribution) contribution {
	switch g.property {
	case Speed:
		return contribution{Scalar: modeop.ApplyScalar(g.mode, value.Scalar, running.Scalar)}
	case Pos:
		return contribution{Vec: modeop.ApplyPosition(g.mode, value.Vec, running.Vec)}
	case Direction:
		v := modeop.ApplyDirection(g.mode, value.Vec, b.config.asAngle, b.config.angleValue, value.Scalar, running.Vec)
		return contribution{Vec: v}
	case Vector:
		spd, dir := modeop.ApplyVector(g.mode, value.Scalar, value.Vec, running.Scalar, running.Vec)
		return contribution{Scalar: spd, Vec: dir}
	}
	return running
}

func (g *LayerGroup) clamp(v contribution) contribution {
	if g.minValue == nil && g.maxValue == nil {
		return v
	}
	switch g.property {
	case Speed:
		s := v.Scalar
		if g.maxValue != nil && s > *g.maxValue {
			s = *g.maxValue
		}
		if g.minValue != nil && s < *g.minValue {
			s = *g.minValue
		}
		return contribution{Scalar: s}
	case Pos, Direction, Vector:
		return contribution{Scalar: v.Scalar, Vec: vec2.ClampMagnitude(v.Vec, g.minValue, g.maxValue)}
	}
	return v
}

// BakeCompletion folds a just-completed, non-reverted builder's final
// interpolated value into accumulated, per §4.4's "bake on builder
// completion". Callers must not call this for a builder that
// HasReverted.
func (g *LayerGroup) BakeCompletion(b *ActiveBuilder) {
	g.accumulated = g.fold(b, b.InterpolatedValue(), g.accumulated)
}

// removeBuilder drops b from the group's active list.
func (g *LayerGroup) removeBuilder(b *ActiveBuilder) {
	for i, bb := range g.builders {
		if bb == b {
			g.builders = append(g.builders[:i], g.builders[i+1:]...)
			return
		}
	}
}

// FinalTarget is the value accumulated_value will reach once every
// current builder completes without reverting, exposed for
// introspection (§4.4).
func (g *LayerGroup) FinalTarget() contribution {
	result := g.accumulated
	for _, b := range g.builders {
		if b.lifecycle.HasReverted() {
			continue
		}
		result = g.fold(b, b.target, result)
	}
	return result
}

// isNonNeutral reports whether accumulated differs from this
// property's neutral, used by the persistence rule.
func (g *LayerGroup) isNonNeutral() bool {
	neutral := neutralAccumulator(g.property)
	switch g.property {
	case Speed:
		return g.accumulated.Scalar != neutral.Scalar
	default:
		return !g.accumulated.Vec.Equal(neutral.Vec) || g.accumulated.Scalar != neutral.Scalar
	}
}

// ShouldPersist implements §4.4's persistence rule: a group remains
// alive while it has at least one active builder, or it is a modifier
// whose accumulated value is not neutral. Base groups with no builders
// are always destroyed -- their effect has already been baked to
// global base state.
func (g *LayerGroup) ShouldPersist() bool {
	if len(g.builders) > 0 {
		return true
	}
	if g.kind == BaseKind {
		return false
	}
	return g.isNonNeutral()
}

// popQueue returns and removes the next pending admission, or nil if
// the queue is empty.
func (g *LayerGroup) popQueue() pendingAdmission {
	if len(g.pendingQueue) == 0 {
		g.isQueueActive = false
		return nil
	}
	next := g.pendingQueue[0]
	g.pendingQueue = g.pendingQueue[1:]
	return next
}

func (g *LayerGroup) pushQueue(fn pendingAdmission) {
	g.pendingQueue = append(g.pendingQueue, fn)
}

func (g *LayerGroup) busy() bool {
	return len(g.builders) > 0 || len(g.pendingQueue) > 0
}

