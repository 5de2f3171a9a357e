package backend

import "sync"

// Memory is an in-process Backend that just remembers the last
// position it was told to move to, useful for tests, the reference
// tick driver's examples, and cmd/rigdemo. It never errors.
type Memory struct {
	mu   sync.Mutex
	x, y int32
	// Moves records every call, in order, for test assertions.
	Moves []Move
}

// Move is one recorded backend call.
type Move struct {
	Kind    string // "absolute", "relative", or "scroll"
	X, Y    int32
	ByLines bool
}

// NewMemory returns a Memory backend starting at (x, y).
func NewMemory(x, y int32) *Memory {
	return &Memory{x: x, y: y}
}

func (m *Memory) MoveAbsolute(x, y int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.x, m.y = x, y
	m.Moves = append(m.Moves, Move{Kind: "absolute", X: x, Y: y})
	return nil
}

func (m *Memory) MoveRelative(dx, dy int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.x += dx
	m.y += dy
	m.Moves = append(m.Moves, Move{Kind: "relative", X: dx, Y: dy})
	return nil
}

func (m *Memory) ReadPosition() (int32, int32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.x, m.y, nil
}

func (m *Memory) Scroll(dx, dy int32, byLines bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Moves = append(m.Moves, Move{Kind: "scroll", X: dx, Y: dy, ByLines: byLines})
	return nil
}

// SetPosition directly teleports the tracked position, simulating an
// external actor (e.g. the user's hand on the physical mouse) for
// manual-override-window tests.
func (m *Memory) SetPosition(x, y int32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.x, m.y = x, y
}
