package rig

// Property enumerates the mutually distinct properties a command can
// target (§3). Each carries a distinct value type: Speed is a
// nonnegative scalar; Pos, Direction, and Vector are vec2.Vec2.
type Property int

const (
	Pos Property = iota
	Speed
	Direction
	Vector
)

func (p Property) String() string {
	switch p {
	case Pos:
		return "pos"
	case Speed:
		return "speed"
	case Direction:
		return "direction"
	case Vector:
		return "vector"
	default:
		return "unknown"
	}
}

// ParseProperty validates a chain-time property name.
func ParseProperty(name string) (Property, bool) {
	switch name {
	case "pos":
		return Pos, true
	case "speed":
		return Speed, true
	case "direction":
		return Direction, true
	case "vector":
		return Vector, true
	}
	return 0, false
}

// Operator enumerates the arithmetic/assignment forms a command can
// use. Add and By are synonyms in the fluent surface and collapse to
// the same Operator value.
type Operator int

const (
	To Operator = iota
	Add
	Sub
	Mul
	Div
	Bake
)

func (o Operator) String() string {
	switch o {
	case To:
		return "to"
	case Add:
		return "add"
	case Sub:
		return "sub"
	case Mul:
		return "mul"
	case Div:
		return "div"
	case Bake:
		return "bake"
	default:
		return "unknown"
	}
}

// ParseOperator validates a chain-time operator name. "by" is accepted
// as a synonym for "add".
func ParseOperator(name string) (Operator, bool) {
	switch name {
	case "to":
		return To, true
	case "add", "by":
		return Add, true
	case "sub":
		return Sub, true
	case "mul":
		return Mul, true
	case "div":
		return Div, true
	case "bake":
		return Bake, true
	}
	return 0, false
}

// operatorAllowed is the per-property operator validity matrix from
// §3: "position only supports to/add/bake; direction supports
// to/add/mul/div as rotation; speed and vector support all five
// arithmetic forms plus bake."
func operatorAllowed(p Property, op Operator) bool {
	switch p {
	case Pos:
		switch op {
		case To, Add, Bake:
			return true
		}
		return false
	case Direction:
		switch op {
		case To, Add, Mul, Div, Bake:
			return true
		}
		return false
	case Speed, Vector:
		return true // to/add/sub/mul/div/bake all valid
	}
	return false
}

// Kind identifies how a LayerGroup's name was derived (§3).
type Kind int

const (
	// BaseKind: exactly one per property, name "base.<prop>".
	BaseKind Kind = iota
	// AutoModifierKind: implicit layer from a mode without a name,
	// name "<prop>.<mode>".
	AutoModifierKind
	// UserModifierKind: caller-supplied name, optionally ordered.
	UserModifierKind
	// EmitKind: transient layer spawned by Emit.
	EmitKind
)

func (k Kind) String() string {
	switch k {
	case BaseKind:
		return "base"
	case AutoModifierKind:
		return "auto"
	case UserModifierKind:
		return "user"
	case EmitKind:
		return "emit"
	default:
		return "unknown"
	}
}

// MovementType selects move_absolute vs move_relative for a pos
// builder (§6.1).
type MovementType int

const (
	Absolute MovementType = iota
	Relative
)

// InputKind distinguishes ordinary cursor movement from scroll input
// (§3's BuilderConfig.input_kind); scroll reuses the pos property's
// relative movement_type but is emitted via backend.Scroll instead of
// MoveRelative.
type InputKind int

const (
	MoveInput InputKind = iota
	ScrollInput
)

func baseLayerName(p Property) string { return "base." + p.String() }

func autoModifierName(p Property, m ModeName) string { return p.String() + "." + string(m) }

// ModeName is the chain-time mode name, kept distinct from modeop.Mode
// so that rig can format auto layer names without importing modeop's
// numeric values into string formatting.
type ModeName string

const (
	ModeOffset   ModeName = "offset"
	ModeOverride ModeName = "override"
	ModeScale    ModeName = "scale"
)
