package rig

import (
	"math"
	"time"

	"github.com/cursorig/rig/vec2"
)

// Snapshot is the engine's computed current state (§6.4), consistent
// within a tick: it reflects state as of the last completed frame.
type Snapshot struct {
	Pos               vec2.Vec2
	Speed             float64
	Direction         vec2.Vec2
	VectorSpeed       float64
	VectorDirection   vec2.Vec2
	DirectionCardinal string
}

// Read returns the engine's current computed state, composing base
// values with every active layer the same way the tick's evaluator
// does.
func (s *State) Read() Snapshot {
	pos := s.composeProperty(Pos).Vec
	speed := s.composeProperty(Speed).Scalar
	dir := s.composeProperty(Direction).Vec
	if dir.IsZero() {
		dir = s.baseDirection
	}
	vc := s.composeProperty(Vector)
	return Snapshot{
		Pos:               pos,
		Speed:             speed,
		Direction:         dir,
		VectorSpeed:       vc.Scalar,
		VectorDirection:   vc.Vec,
		DirectionCardinal: cardinalOf(dir),
	}
}

// BaseSnapshot returns the persistent base values, with none of the
// active layers' contributions applied.
type BaseSnapshot struct {
	Pos       vec2.Vec2
	Speed     float64
	Direction vec2.Vec2
}

func (s *State) Base() BaseSnapshot {
	return BaseSnapshot{Pos: s.basePos, Speed: s.baseSpeed, Direction: s.baseDirection}
}

// cardinalOf maps a direction vector to one of eight compass labels,
// dividing the circle into 8 equal 45-degree sectors centered on each
// label.
func cardinalOf(dir vec2.Vec2) string {
	if dir.IsZero() {
		return "right"
	}
	angle := math.Atan2(dir.Y, dir.X) * 180 / math.Pi
	if angle < 0 {
		angle += 360
	}
	switch {
	case angle < 22.5, angle >= 337.5:
		return "right"
	case angle < 67.5:
		return "up_right"
	case angle < 112.5:
		return "up"
	case angle < 157.5:
		return "up_left"
	case angle < 202.5:
		return "left"
	case angle < 247.5:
		return "down_left"
	case angle < 292.5:
		return "down"
	default:
		return "down_right"
	}
}

// LayerInfo is the per-layer introspection record (§6.4).
type LayerInfo struct {
	Name         string
	Property     Property
	Mode         string
	Kind         string
	Order        int
	BuilderCount int
	Value        contribution
	Target       contribution
	TimeAlive    time.Duration
	TimeLeft     time.Duration
}

// LayerInfo reports introspection data for a named layer, and whether
// it currently exists.
func (s *State) LayerInfo(name string) (LayerInfo, bool) {
	g, ok := s.groups[name]
	if !ok {
		return LayerInfo{}, false
	}
	now := time.Now()
	info := LayerInfo{
		Name:         g.name,
		Property:     g.property,
		Mode:         g.mode.String(),
		Kind:         g.kind.String(),
		Order:        g.order,
		BuilderCount: len(g.builders),
		Value:        g.EffectiveValue(),
		Target:       g.FinalTarget(),
	}
	for _, b := range g.builders {
		alive := now.Sub(b.creationTime)
		if alive > info.TimeAlive {
			info.TimeAlive = alive
		}
	}
	return info, true
}

// LayerNames returns the name of every currently live layer.
func (s *State) LayerNames() []string {
	names := make([]string, 0, len(s.groups))
	for name := range s.groups {
		names = append(names, name)
	}
	return names
}
