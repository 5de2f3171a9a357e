package rig

import (
	"fmt"
	"time"

	"github.com/cursorig/rig/easing"
	"github.com/cursorig/rig/lifecycle"
	"github.com/cursorig/rig/modeop"
	"github.com/cursorig/rig/vec2"
	"github.com/golang/glog"
	"github.com/google/uuid"
)

// Stop cancels in-flight cursor motion (§5's cancellation model): the
// currently computed state bakes to base, every builder and layer is
// removed, and with an optional ms argument a speed->0 transition is
// installed over ms for a graceful deceleration rather than an
// instant halt.
func (s *State) Stop(ms ...float64) {
	s.baseSpeed = s.composeProperty(Speed).Scalar
	if dir := s.composeProperty(Direction).Vec; !dir.IsZero() {
		s.baseDirection = dir.Normalize()
	}
	s.basePos = s.composeProperty(Pos).Vec

	for key, entry := range s.debouncePending {
		entry.handle.Stop()
		delete(s.debouncePending, key)
	}
	s.groups = make(map[string]*LayerGroup)
	s.layerOrder = make(map[string]int)
	s.rateCache = make(map[string]*ActiveBuilder)

	if len(ms) > 0 && ms[0] > 0 {
		if _, err := s.NewBuilder().Speed().To(0).Over(ms[0]).Commit(); err != nil {
			glog.Warningf("rig: stop deceleration transition failed: %v", err)
		}
		return
	}
	s.baseSpeed = 0
	s.stopTicking()
}

// Reset destroys all rig state, including base values, back to
// defaults, reusing cfg.
func (s *State) Reset() {
	*s = *NewState(s.cfg)
}

// RemoveLayer destroys a named layer outright, without baking its
// current value anywhere. It is the explicit-removal cancellation
// primitive (§5).
func (s *State) RemoveLayer(name string) {
	delete(s.groups, name)
	delete(s.layerOrder, name)
}

// LayerRef names an existing layer so its special operations (Emit,
// Copy, Reverse, Revert) can be invoked (§4.4, §6.3).
type LayerRef struct {
	state *State
	name  string
}

// Ref returns a LayerRef bound to name. The layer need not exist yet
// for Ref itself to succeed; the special operations fail individually
// if it doesn't.
func (s *State) Ref(name string) *LayerRef { return &LayerRef{state: s, name: name} }

// Emit converts a velocity-shaped modifier layer into a
// self-decaying transient vector.offset layer (§4.4): the layer's
// current effective value is captured as a velocity, the source layer
// is removed, and a new emit.<name>.<uuid> layer is created with
// that velocity as its target and a revert phase of ms/easingName.
// Only vector.offset, vector.override, and speed.offset sources are
// valid.
func (r *LayerRef) Emit(ms float64, easingName string) error {
	s := r.state
	g, ok := s.groups[r.name]
	if !ok {
		return newAdmissionErr("emit: source layer not found: " + r.name)
	}

	var velocity vec2.Vec2
	switch {
	case g.property == Vector && (g.mode == modeop.Offset || g.mode == modeop.Override):
		v := g.EffectiveValue()
		velocity = v.Vec.Scale(v.Scalar)
	case g.property == Speed && g.mode == modeop.Offset:
		// Per the resolved Open Question on emit timing (§9c), this
		// uses the rig's current base direction at the moment of
		// emission, not a direction captured earlier.
		v := g.EffectiveValue()
		velocity = s.baseDirection.Scale(v.Scalar)
	default:
		return newAdmissionErr("emit: invalid source layer kind for " + r.name)
	}

	delete(s.groups, r.name)
	delete(s.layerOrder, r.name)

	// a uuid suffix, rather than a millisecond timestamp, keeps two
	// emits in the same tick from colliding on one layer name.
	name := fmt.Sprintf("emit.%s.%s", r.name, uuid.NewString())
	order := s.nextAutoOrder()
	ng := newLayerGroup(name, Vector, modeop.Offset, EmitKind, order)
	s.groups[name] = ng
	s.layerOrder[name] = order

	target := contribution{}
	if !velocity.IsZero() {
		target = contribution{Scalar: velocity.Magnitude(), Vec: velocity.Normalize()}
	}
	revertMs := ms
	lc := lifecycle.New(
		lifecycle.PhaseConfig{},
		lifecycle.PhaseConfig{},
		lifecycle.PhaseConfig{Ms: &revertMs, Easing: orDefault(easingName, easing.Linear)},
		true,
	)
	ab := &ActiveBuilder{
		config: &BuilderConfig{
			property: Vector, hasProp: true,
			operator: To, hasOp: true,
			mode: modeop.Offset, hasMode: true,
		},
		group:        ng,
		target:       target,
		lifecycle:    lc,
		creationTime: time.Now(),
	}
	ng.builders = append(ng.builders, ab)
	s.ensureTicking()
	return nil
}

// Copy duplicates a layer's resting state (accumulated value and
// min/max constraints) under a new name, returning a LayerRef bound to
// the copy. In-flight builders are left on the source layer: cloning a
// live timed transition across two independent lifecycles would
// require lifecycle-cloning machinery the rest of the engine has no
// other use for, so Copy is scoped to resting state, which is what
// callers use it for in practice -- preserving a layer's settled value
// before an operation (like Emit) that consumes the source.
func (r *LayerRef) Copy(newName ...string) (*LayerRef, error) {
	s := r.state
	g, ok := s.groups[r.name]
	if !ok {
		return nil, newAdmissionErr("copy: source layer not found: " + r.name)
	}
	name := fmt.Sprintf("%s.copy.%s", r.name, uuid.NewString())
	if len(newName) > 0 {
		name = newName[0]
	}
	order := s.nextAutoOrder()
	ng := &LayerGroup{
		name: name, property: g.property, mode: g.mode, kind: UserModifierKind, order: order,
		accumulated: g.accumulated, minValue: g.minValue, maxValue: g.maxValue,
	}
	s.groups[name] = ng
	s.layerOrder[name] = order
	return &LayerRef{state: s, name: name}, nil
}

// Reverse negates a direction or vector layer's accumulated value and
// every builder's target in place (§4.4). A nonzero ms is honored as
// the duration of the revert-and-retarget, implemented by forcing
// every builder through an immediate revert of that length: the
// discontinuity this bridges is the same one a fresh reverse-direction
// command would animate through.
func (r *LayerRef) Reverse(ms ...float64) error {
	s := r.state
	g, ok := s.groups[r.name]
	if !ok {
		return newAdmissionErr("reverse: layer not found: " + r.name)
	}
	if g.property != Direction && g.property != Vector {
		return newAdmissionErr("reverse: only valid for direction or vector layers")
	}
	g.accumulated.Vec = g.accumulated.Vec.Scale(-1)
	m := 0.0
	if len(ms) > 0 {
		m = ms[0]
	}
	now := time.Now()
	for _, b := range g.builders {
		b.target.Vec = b.target.Vec.Scale(-1)
		if m > 0 {
			b.lifecycle.ForceRevert(now, m, easing.Linear)
		}
	}
	return nil
}

// Revert forces every builder on the layer directly into its revert
// phase, starting now, with duration ms (0 for an instant unwind).
func (r *LayerRef) Revert(ms ...float64) error {
	s := r.state
	g, ok := s.groups[r.name]
	if !ok {
		return newAdmissionErr("revert: layer not found: " + r.name)
	}
	m := 0.0
	if len(ms) > 0 {
		m = ms[0]
	}
	now := time.Now()
	for _, b := range g.builders {
		b.lifecycle.ForceRevert(now, m, easing.Linear)
	}
	return nil
}
