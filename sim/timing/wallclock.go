package timing

import "time"

// WallClock tells the real time, in seconds since the Unix epoch.
type WallClock struct {
	// NowFunc returns the current time. Override in tests for determinism.
	NowFunc func() time.Time
}

// NewWallClock returns a WallClock backed by time.Now.
func NewWallClock() *WallClock {
	return &WallClock{NowFunc: time.Now}
}

// Now returns the current time in seconds.
func (c *WallClock) Now() VTimeInSec {
	return VTimeInSec(c.NowFunc().UnixNano()) / 1e9
}
