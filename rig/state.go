package rig

import (
	"fmt"
	"math"
	"time"

	"github.com/cursorig/rig/backend"
	"github.com/cursorig/rig/lifecycle"
	"github.com/cursorig/rig/modeop"
	"github.com/cursorig/rig/policy"
	"github.com/cursorig/rig/tickdriver"
	"github.com/cursorig/rig/vec2"
	"github.com/golang/glog"

	"github.com/cursorig/rig/internal/subpixel"
)

type debounceEntry struct {
	cfg    *BuilderConfig
	handle tickdriver.Handle
}

// State is the global rig: base values, every live LayerGroup, and the
// tick loop driving them (§3, §4.5). Most callers reach a State
// through Default() rather than constructing one, but NewState is
// available for isolated instances (tests, multiple independent
// cursors).
type State struct {
	cfg Config

	basePos       vec2.Vec2
	baseSpeed     float64
	baseDirection vec2.Vec2

	groups     map[string]*LayerGroup
	layerOrder map[string]int
	autoOrder  int

	hasLastFrame  bool
	lastFrameTime time.Time

	subpixel *subpixel.Accumulator

	throttleLastFire map[string]time.Time
	rateCache        map[string]*ActiveBuilder
	debouncePending  map[string]*debounceEntry

	hasExpectedPos   bool
	expectedPos      vec2.Vec2
	manualOverride   bool
	manualOverrideAt time.Time

	stopCallbacks []func()

	// pendingCallbacks holds .then callbacks that fired during this
	// frame's Advance pass but have not yet run; Tick drains them after
	// emission and the completion bake (§4.5 steps 4/9).
	pendingCallbacks []func()

	driver     tickdriver.TickDriver
	tickHandle tickdriver.Handle
	ticking    bool
}

// NewState constructs an isolated rig with its own base state and
// layer groups, configured by cfg.
func NewState(cfg Config) *State {
	return &State{
		cfg:              cfg,
		baseDirection:    vec2.New(1, 0),
		groups:           make(map[string]*LayerGroup),
		layerOrder:       make(map[string]int),
		subpixel:         &subpixel.Accumulator{},
		throttleLastFire: make(map[string]time.Time),
		rateCache:        make(map[string]*ActiveBuilder),
		debouncePending:  make(map[string]*debounceEntry),
		driver:           tickdriver.NewTicker(),
	}
}

// SetTickDriver overrides the TickDriver used to schedule future ticks;
// intended for tests that want deterministic, manually-driven ticking.
func (s *State) SetTickDriver(d tickdriver.TickDriver) { s.driver = d }

func (s *State) nextAutoOrder() int {
	s.autoOrder++
	return s.autoOrder
}

func modeNameFor(m modeop.Mode) ModeName {
	switch m {
	case modeop.Offset:
		return ModeOffset
	case modeop.Scale:
		return ModeScale
	default:
		return ModeOverride
	}
}

// resolveLayer derives the (name, kind, mode, order) a command targets
// (§3's layer-identity rules), assigning an auto order on first use of
// a layer name so later commands on the same name stay consistent.
func (s *State) resolveLayer(cfg *BuilderConfig) (name string, kind Kind, mode modeop.Mode, order int) {
	switch {
	case cfg.hasLayer:
		name, kind, mode = cfg.layerName, UserModifierKind, cfg.mode
	case cfg.hasMode:
		mode = cfg.mode
		name, kind = autoModifierName(cfg.property, modeNameFor(mode)), AutoModifierKind
	default:
		name, kind, mode = baseLayerName(cfg.property), BaseKind, modeop.Override
	}
	if cfg.order != nil {
		order = *cfg.order
	} else if o, ok := s.layerOrder[name]; ok {
		order = o
	} else {
		order = s.nextAutoOrder()
	}
	s.layerOrder[name] = order
	return
}

func admissionKey(layer string, prop Property, op Operator) string {
	return fmt.Sprintf("%s|%s|%s", layer, prop, op)
}

// admit is the single entry point every Builder.Commit funnels through.
// It resolves the target layer, then applies policy gates in the
// fixed order debounce -> rate-cache -> throttle -> replace -> stack
// cap -> queue (§4.6).
func (s *State) admit(cfg *BuilderConfig) (*ActiveBuilder, error) {
	if cfg.hasBehavior && cfg.behavior == policy.Debounce {
		return s.admitDebounce(cfg)
	}
	return s.admitResolved(cfg)
}

func (s *State) admitDebounce(cfg *BuilderConfig) (*ActiveBuilder, error) {
	name, _, _, _ := s.resolveLayer(cfg)
	key := admissionKey(name, cfg.property, cfg.operator)
	if existing, ok := s.debouncePending[key]; ok {
		existing.handle.Stop()
	}
	entry := &debounceEntry{cfg: cfg}
	ms := cfg.behaviorArgs.Ms
	entry.handle = s.driver.After(uint32(ms), func() {
		delete(s.debouncePending, key)
		rerun := *cfg
		rerun.hasBehavior = false
		if _, err := s.admitResolved(&rerun); err != nil {
			glog.Warningf("rig: debounced admission on %q failed: %v", key, err)
		}
	})
	s.debouncePending[key] = entry
	return nil, nil
}

func (s *State) getOrCreateGroup(name string, prop Property, mode modeop.Mode, kind Kind, order int) *LayerGroup {
	g, ok := s.groups[name]
	if !ok {
		g = newLayerGroup(name, prop, mode, kind, order)
		s.groups[name] = g
	}
	return g
}

func (s *State) baseValueFor(prop Property, group *LayerGroup, kind Kind) contribution {
	if kind == BaseKind {
		return s.rawBaseContribution(prop)
	}
	return group.EffectiveValue()
}

func (s *State) rawBaseContribution(prop Property) contribution {
	switch prop {
	case Speed:
		return contribution{Scalar: s.baseSpeed}
	case Pos:
		return contribution{Vec: s.basePos}
	case Direction:
		return contribution{Vec: s.baseDirection}
	default: // Vector
		return contribution{Scalar: s.baseSpeed, Vec: s.baseDirection}
	}
}

func (c contribution) approxEqual(o contribution) bool {
	const eps = 1e-6
	return math.Abs(c.Scalar-o.Scalar) < eps && c.Vec.Equal(o.Vec)
}

// admitResolved runs every policy gate after debounce and, absent a
// rejection, materializes and inserts an ActiveBuilder.
func (s *State) admitResolved(cfg *BuilderConfig) (*ActiveBuilder, error) {
	name, kind, mode, order := s.resolveLayer(cfg)
	group := s.getOrCreateGroup(name, cfg.property, mode, kind, order)
	key := admissionKey(name, cfg.property, cfg.operator)

	base := s.baseValueFor(cfg.property, group, kind)
	target, err := resolveTarget(cfg, base)
	if err != nil {
		return nil, err
	}

	usesRate := cfg.over.rate != nil
	if usesRate {
		cacheKey := fmt.Sprintf("%s|%.4f,%.4f,%.4f", key, target.Scalar, target.Vec.X, target.Vec.Y)
		for _, existing := range group.builders {
			if !existing.usesRate || existing.config.operator != cfg.operator {
				continue
			}
			if existing.target.approxEqual(target) {
				return nil, nil
			}
			existing.base = s.baseValueFor(cfg.property, group, kind)
			existing.target = target
			existing.lifecycle = buildLifecycle(cfg.property, cfg.over, cfg.hold, cfg.revert, existing.base, existing.target)
			s.rateCache[cacheKey] = existing
			return existing, nil
		}
		s.rateCache[cacheKey] = nil // reserved once the builder below is created
	}

	if cfg.hasBehavior && cfg.behavior == policy.Throttle {
		if cfg.behaviorArgs.Ms > 0 {
			if last, ok := s.throttleLastFire[key]; ok &&
				time.Since(last) < time.Duration(cfg.behaviorArgs.Ms)*time.Millisecond {
				return nil, nil
			}
		} else if len(group.builders) > 0 {
			return nil, nil
		}
	}

	if cfg.hasBehavior && cfg.behavior == policy.Replace {
		base = group.EffectiveValue()
		group.builders = nil
		target, err = resolveTarget(cfg, base)
		if err != nil {
			return nil, err
		}
	}

	if cfg.hasBehavior && cfg.behavior == policy.Stack && cfg.behaviorArgs.Max != nil &&
		len(group.builders) >= *cfg.behaviorArgs.Max {
		return nil, nil
	}

	if cfg.hasBehavior && cfg.behavior == policy.Queue && group.busy() {
		if cfg.behaviorArgs.Max != nil && len(group.pendingQueue) >= *cfg.behaviorArgs.Max {
			return nil, nil
		}
		group.pushQueue(func() {
			if _, err := s.admitResolved(cfg); err != nil {
				glog.Warningf("rig: queued admission on %q failed: %v", key, err)
			}
		})
		group.isQueueActive = true
		return nil, nil
	}

	if cfg.hasBehavior && cfg.behavior == policy.Ignore && group.busy() {
		return nil, nil
	}

	lc := buildLifecycle(cfg.property, cfg.over, cfg.hold, cfg.revert, base, target)
	ab := &ActiveBuilder{
		config:       cfg,
		group:        group,
		base:         base,
		target:       target,
		lifecycle:    lc,
		creationTime: time.Now(),
		usesRate:     usesRate,
	}
	for _, te := range cfg.thens {
		fn := te.fn
		// Wrapping defers the actual user callback behind the state's
		// pendingCallbacks queue: the lifecycle still fires its
		// registered callback the instant a phase is left (§4.3 step
		// 4), but all that fires here is the enqueue, so Tick can run
		// the real callback after emission and the completion bake
		// (§4.5 steps 4/9, §5 ordering guarantees).
		lc.AddCallback(phaseFromName(te.phase), func() {
			s.pendingCallbacks = append(s.pendingCallbacks, fn)
		})
	}
	group.builders = append(group.builders, ab)

	if usesRate {
		cacheKey := fmt.Sprintf("%s|%.4f,%.4f,%.4f", key, target.Scalar, target.Vec.X, target.Vec.Y)
		s.rateCache[cacheKey] = ab
	}
	if cfg.hasBehavior && cfg.behavior == policy.Throttle {
		s.throttleLastFire[key] = time.Now()
	}

	s.ensureTicking()
	return ab, nil
}

// ShouldTick reports whether the tick loop has work to do (§4.5): any
// group with an incomplete lifecycle, a non-zero base speed, or any
// velocity-contributing group.
func (s *State) ShouldTick() bool {
	if s.baseSpeed != 0 {
		return true
	}
	for _, g := range s.groups {
		if len(g.builders) > 0 {
			return true
		}
		if (g.property == Speed || g.property == Vector) && g.isNonNeutral() {
			return true
		}
	}
	return false
}

func (s *State) ensureTicking() {
	if s.ticking {
		return
	}
	if !s.ShouldTick() {
		return
	}
	s.ticking = true
	s.tickHandle = s.driver.Schedule(s.cfg.TickIntervalMs, func() {
		s.Tick(time.Now())
	})
}

func (s *State) stopTicking() {
	if !s.ticking {
		return
	}
	s.ticking = false
	if s.tickHandle != nil {
		s.tickHandle.Stop()
		s.tickHandle = nil
	}
	s.subpixel.Reset()
	for _, cb := range s.stopCallbacks {
		cb()
	}
	s.stopCallbacks = nil
}

// orderedModifiers returns every non-base group for prop, sorted by
// ascending order.
func (s *State) orderedModifiers(prop Property) []*LayerGroup {
	var out []*LayerGroup
	for _, g := range s.groups {
		if g.property == prop && g.kind != BaseKind {
			out = append(out, g)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].order > out[j].order; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// composeProperty folds the base layer (if active) and every modifier
// layer, in ascending order, onto the raw base value (§4.5's
// composition order rule).
func (s *State) composeProperty(prop Property) contribution {
	running := s.rawBaseContribution(prop)
	if bg, ok := s.groups[baseLayerName(prop)]; ok {
		running = bg.foldOnto(running)
	}
	for _, g := range s.orderedModifiers(prop) {
		running = g.foldOnto(running)
	}
	return running
}

// Tick runs one frame of the per-frame evaluator (§4.5). now must be
// monotonic and non-decreasing across calls.
func (s *State) Tick(now time.Time) {
	if !s.hasLastFrame {
		s.hasLastFrame = true
		s.lastFrameTime = now
		return
	}
	dt := now.Sub(s.lastFrameTime)
	s.lastFrameTime = now

	s.detectManualMovement()

	for _, g := range s.groups {
		for _, b := range g.builders {
			b.Advance(now)
		}
	}

	if !s.manualOverride {
		s.evaluateMotion(dt)
	}

	s.sweepCompletions()

	callbacks := s.pendingCallbacks
	s.pendingCallbacks = nil
	for _, cb := range callbacks {
		cb()
	}

	if !s.ShouldTick() {
		s.stopTicking()
	}
}

func (s *State) detectManualMovement() {
	if !s.cfg.ManualDetectionEnabled {
		return
	}
	if s.manualOverride {
		if time.Now().Before(s.manualOverrideAt.Add(time.Duration(s.cfg.ManualOverrideWindowMs) * time.Millisecond)) {
			return
		}
		s.manualOverride = false
	}
	be, err := backend.Resolve("")
	if err != nil || !s.hasExpectedPos {
		return
	}
	x, y, err := be.ReadPosition()
	if err != nil {
		return
	}
	observed := vec2.New(float64(x), float64(y))
	if observed.Sub(s.expectedPos).Magnitude() > s.cfg.ManualDetectionTolerancePx {
		s.manualOverride = true
		s.manualOverrideAt = time.Now()
		s.expectedPos = observed
		s.basePos = observed
		s.subpixel.Reset()
	}
}

func (s *State) evaluateMotion(dt time.Duration) {
	speed := s.composeProperty(Speed).Scalar
	dir := s.composeProperty(Direction).Vec
	if dir.IsZero() {
		dir = s.baseDirection
	}
	vc := s.composeProperty(Vector)

	velocity := dir.Scale(speed).Add(vc.Vec.Scale(vc.Scalar))
	dtSec := dt.Seconds()
	ix, iy := s.subpixel.Accumulate(velocity.X*dtSec, velocity.Y*dtSec)
	frameDelta := vec2.New(float64(ix), float64(iy))

	composedPos := s.composeProperty(Pos).Vec

	hasAbsolute, relativeBuilders, scrollBuilders := s.classifyPosBuilders()

	be, err := backend.Resolve(s.posApiOverride())
	if err != nil {
		return
	}

	switch {
	case hasAbsolute:
		final := composedPos.Add(frameDelta)
		rx, ry := int32(math.Round(final.X)), int32(math.Round(final.Y))
		if !s.hasExpectedPos || rx != int32(math.Round(s.expectedPos.X)) || ry != int32(math.Round(s.expectedPos.Y)) {
			if err := be.MoveAbsolute(rx, ry); err != nil {
				glog.Warningf("rig: backend MoveAbsolute failed: %v", err)
			}
		}
		s.expectedPos = vec2.New(float64(rx), float64(ry))
		s.hasExpectedPos = true

	case len(relativeBuilders) > 0, len(scrollBuilders) > 0:
		var mdx, mdy int32
		for _, b := range relativeBuilders {
			bdx, bdy := b.consumeRelativeDelta()
			mdx += bdx
			mdy += bdy
		}
		mdx += int32(frameDelta.X)
		mdy += int32(frameDelta.Y)
		if mdx != 0 || mdy != 0 {
			if err := be.MoveRelative(mdx, mdy); err != nil {
				glog.Warningf("rig: backend MoveRelative failed: %v", err)
			}
		}
		s.expectedPos = s.expectedPos.Add(vec2.New(float64(mdx), float64(mdy)))
		s.hasExpectedPos = true

		var sdx, sdy int32
		for _, b := range scrollBuilders {
			bdx, bdy := b.consumeRelativeDelta()
			sdx += bdx
			sdy += bdy
		}
		if sdx != 0 || sdy != 0 {
			if err := be.Scroll(sdx, sdy, false); err != nil {
				glog.Warningf("rig: backend Scroll failed: %v", err)
			}
		}

	default:
		if ix != 0 || iy != 0 {
			if err := be.MoveRelative(int32(ix), int32(iy)); err != nil {
				glog.Warningf("rig: backend MoveRelative failed: %v", err)
			}
			s.expectedPos = s.expectedPos.Add(frameDelta)
			s.hasExpectedPos = true
		}
	}
}

// classifyPosBuilders inspects every active Pos builder to decide how
// this frame's composed position should reach the back-end: an
// absolute move takes priority over relative/scroll builders, each of
// which emits its own per-builder accumulating integer delta (§4.5
// step 6).
func (s *State) classifyPosBuilders() (hasAbsolute bool, relativeBuilders, scrollBuilders []*ActiveBuilder) {
	for _, g := range s.groups {
		if g.property != Pos {
			continue
		}
		for _, b := range g.builders {
			switch {
			case b.config.inputKind == ScrollInput:
				scrollBuilders = append(scrollBuilders, b)
			case b.config.movementType == Absolute:
				hasAbsolute = true
			default:
				relativeBuilders = append(relativeBuilders, b)
			}
		}
	}
	return
}

// posApiOverride resolves which backend a Pos-moving frame should use
// when more than one active builder names one: the most recently
// created override wins, per the resolved Open Question on composing
// api_override mid-frame (§9b).
func (s *State) posApiOverride() string {
	var winner string
	var winnerAt time.Time
	conflict := false
	for _, g := range s.groups {
		if g.property != Pos {
			continue
		}
		for _, b := range g.builders {
			if b.config.apiOverride == "" {
				continue
			}
			if winner != "" && winner != b.config.apiOverride {
				conflict = true
			}
			if winner == "" || b.creationTime.After(winnerAt) {
				winner = b.config.apiOverride
				winnerAt = b.creationTime
			}
		}
	}
	if conflict {
		glog.Warningf("rig: multiple distinct api_override values active this frame, using most recent: %q", winner)
	}
	return winner
}

// sweepCompletions implements §4.5 step 8: any builder whose lifecycle
// is complete is removed, named or anonymous alike (§4.4's "the builder
// is removed, and any queued successor is started"). A non-reverted
// completion bakes its final value into the group first (and, for a
// base group, into global base state); a reverted completion
// contributes nothing permanent, and neither does a relative or scroll
// Pos builder on a modifier layer, whose movement has already reached
// the back-end through consumeRelativeDelta. Removal then pops the
// next queued admission.
func (s *State) sweepCompletions() {
	for name, g := range s.groups {
		remaining := g.builders[:0]
		freed := 0
		for _, b := range g.builders {
			if !b.lifecycle.IsComplete() {
				remaining = append(remaining, b)
				continue
			}
			delivered := g.kind != BaseKind && g.property == Pos &&
				(b.config.movementType == Relative || b.config.inputKind == ScrollInput)
			if !b.lifecycle.HasReverted() && !delivered {
				g.BakeCompletion(b)
				if g.kind == BaseKind {
					s.bakeToBase(g)
				}
			}
			freed++
		}
		// g.builders must be settled before any queued re-admission
		// below appends to it directly; popping the queue while
		// remaining was still pending would have the reassignment
		// below clobber whatever the re-admission just appended.
		g.builders = remaining
		for i := 0; i < freed; i++ {
			if next := g.popQueue(); next != nil {
				next()
			}
		}
		if !g.ShouldPersist() {
			delete(s.groups, name)
		}
	}
}

// bakeToBase merges a base group's current effective value into global
// base state (§4.5's bake-to-base rule).
func (s *State) bakeToBase(g *LayerGroup) {
	v := g.EffectiveValue()
	switch g.property {
	case Speed:
		s.baseSpeed = v.Scalar
	case Pos:
		s.basePos = v.Vec
	case Direction:
		s.baseDirection = v.Vec.Normalize()
	case Vector:
		s.baseSpeed = v.Scalar
		if !v.Vec.IsZero() {
			s.baseDirection = v.Vec.Normalize()
		}
	}
}

func phaseFromName(name string) lifecycle.Phase {
	switch name {
	case "hold":
		return lifecycle.Hold
	case "revert":
		return lifecycle.Revert
	default:
		return lifecycle.Over
	}
}
