package main

import "github.com/golang/glog"

// loggingBackend is a stand-in platform back-end for the demo: rather
// than moving a real cursor, it logs every call and tracks position
// itself, the way a driver's sandbox/dry-run mode would.
type loggingBackend struct {
	x, y int32
}

func (b *loggingBackend) MoveAbsolute(x, y int32) error {
	b.x, b.y = x, y
	glog.Infof("rigdemo: move_absolute -> (%d, %d)", x, y)
	return nil
}

func (b *loggingBackend) MoveRelative(dx, dy int32) error {
	b.x += dx
	b.y += dy
	glog.Infof("rigdemo: move_relative (%d, %d) -> (%d, %d)", dx, dy, b.x, b.y)
	return nil
}

func (b *loggingBackend) ReadPosition() (x, y int32, err error) {
	return b.x, b.y, nil
}

func (b *loggingBackend) Scroll(dx, dy int32, byLines bool) error {
	unit := "px"
	if byLines {
		unit = "lines"
	}
	glog.Infof("rigdemo: scroll (%d, %d) %s", dx, dy, unit)
	return nil
}
