// Package policy holds the Behavior enumeration and its argument
// struct (§4.6). The enumeration is pure data; the admission logic
// that actually gates a new builder against a layer group's live
// state lives in package rig, since it needs direct access to a
// group's internal fields (builders, pending queue, last-fire times)
// that this package has no reason to expose publicly.
package policy

// Behavior selects how a newly committed builder interacts with
// in-flight work already on the same layer.
type Behavior int

const (
	// Stack is the default (src_v2/contracts.py's
	// BuilderConfig.get_effective_behavior): unlimited concurrent
	// builders on a layer unless Max bounds it.
	Stack Behavior = iota
	Replace
	Queue
	Throttle
	Debounce
	Ignore
	Extend
)

func (b Behavior) String() string {
	switch b {
	case Replace:
		return "replace"
	case Queue:
		return "queue"
	case Throttle:
		return "throttle"
	case Debounce:
		return "debounce"
	case Ignore:
		return "ignore"
	case Extend:
		return "extend"
	default:
		return "stack"
	}
}

// ParseBehavior validates a chain-time behavior name.
func ParseBehavior(name string) (Behavior, bool) {
	switch name {
	case "stack":
		return Stack, true
	case "replace":
		return Replace, true
	case "queue":
		return Queue, true
	case "throttle":
		return Throttle, true
	case "debounce":
		return Debounce, true
	case "ignore":
		return Ignore, true
	case "extend":
		return Extend, true
	}
	return 0, false
}

// Args bundles every behavior's optional numeric argument so that
// BuilderConfig can carry one value regardless of which behavior was
// chained. Exactly the fields relevant to Behavior are meaningful;
// others are left at their zero value.
type Args struct {
	// Max bounds Stack's concurrent builder count or Queue's
	// pending length. Nil means unbounded.
	Max *int
	// Ms is Throttle's window or Debounce's quiet period.
	Ms float64
}
