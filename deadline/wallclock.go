package deadline

import (
	"sync"
	"time"
)

// A WallClockNotifier runs callbacks on their own goroutine once the real
// time delay has passed.
type WallClockNotifier struct {
	lock    sync.Mutex
	unit    time.Duration
	timers  map[uint64]*time.Timer
	nextID  uint64
	stopped bool
}

// NewWallClockNotifier creates a notifier that counts in seconds.
func NewWallClockNotifier() *WallClockNotifier {
	return NewScaledWallClockNotifier(time.Second)
}

// NewScaledWallClockNotifier creates a notifier where one unit of delay lasts
// unit of real time. It makes long scenarios watchable at a faster pace.
func NewScaledWallClockNotifier(unit time.Duration) *WallClockNotifier {
	return &WallClockNotifier{
		unit:   unit,
		timers: make(map[uint64]*time.Timer),
	}
}

// NotifyAfter runs callback after seconds units of time. It does nothing once
// the notifier is stopped.
func (n *WallClockNotifier) NotifyAfter(seconds int, callback func()) {
	n.lock.Lock()
	defer n.lock.Unlock()

	if n.stopped {
		return
	}

	timerID := n.nextID
	n.nextID++

	n.timers[timerID] = time.AfterFunc(
		time.Duration(seconds)*n.unit,
		func() {
			if !n.fire(timerID) {
				return
			}

			callback()
		})
}

func (n *WallClockNotifier) fire(timerID uint64) bool {
	n.lock.Lock()
	defer n.lock.Unlock()

	if _, pending := n.timers[timerID]; !pending {
		return false
	}

	delete(n.timers, timerID)

	return !n.stopped
}

// Pending returns the number of callbacks that have not run yet.
func (n *WallClockNotifier) Pending() int {
	n.lock.Lock()
	defer n.lock.Unlock()

	return len(n.timers)
}

// Stop drops every pending callback. Later calls to NotifyAfter are ignored.
func (n *WallClockNotifier) Stop() {
	n.lock.Lock()
	defer n.lock.Unlock()

	n.stopped = true

	for timerID, t := range n.timers {
		t.Stop()
		delete(n.timers, timerID)
	}
}
