package rig

import (
	"github.com/cursorig/rig/modeop"
	"github.com/cursorig/rig/policy"
	"github.com/cursorig/rig/vec2"
)

// phaseTiming is one phase's chain-time timing spec, before ms/rate is
// lowered to a concrete duration at commit.
type phaseTiming struct {
	ms            *float64
	rate          *float64
	easing        string
	interpolation string
	set           bool // true iff .over/.hold/.revert was chained at all
}

// thenEntry is a registered callback, attached to whichever phase was
// current when .Then was called (§6.3: "attaches to current phase").
type thenEntry struct {
	phase string // "over", "hold", or "revert"
	fn    func()
}

// BuilderConfig is the declarative record a fluent Builder fills in
// (§3). Nothing here causes a side effect; Commit is what lowers this
// into an ActiveBuilder and admits it into a LayerGroup.
type BuilderConfig struct {
	property Property
	hasProp  bool
	operator Operator
	hasOp    bool

	// value is the operator's argument: a scalar for Speed, a Vec2 for
	// Pos/Direction/Vector. Which field is meaningful is determined by
	// property.
	valueScalar float64
	valueVec    vec2.Vec2

	layerName string
	hasLayer  bool
	order     *int

	mode    modeop.Mode
	hasMode bool

	over, hold, revert phaseTiming

	thens []thenEntry

	behavior     policy.Behavior
	behaviorArgs policy.Args
	hasBehavior  bool

	bakeOverride bool

	movementType MovementType
	apiOverride  string
	inputKind    InputKind

	// asAngle/angleValue carry a direction contribution expressed as a
	// rotation angle (radians) rather than a unit vector, per the
	// chain grammar's direction-specific operator arguments.
	asAngle    bool
	angleValue float64
}

func newBuilderConfig() *BuilderConfig {
	return &BuilderConfig{
		over:   phaseTiming{easing: "linear", interpolation: "lerp"},
		hold:   phaseTiming{},
		revert: phaseTiming{easing: "linear", interpolation: "lerp"},
	}
}
