package tracing

import (
	"sync"

	"github.com/sarchlab/memsim/partition"
	"github.com/sarchlab/memsim/sim/hooking"
	"github.com/sarchlab/memsim/sim/timing"
)

// TurnaroundTracer collects how long finished processes waited for memory
// and how long they stayed in the system.
type TurnaroundTracer struct {
	lock            sync.Mutex
	finished        int
	totalWait       timing.VTimeInSec
	totalTurnaround timing.VTimeInSec
}

// NewTurnaroundTracer creates a new TurnaroundTracer.
func NewTurnaroundTracer() *TurnaroundTracer {
	return &TurnaroundTracer{}
}

// Func accounts for every finished process.
func (t *TurnaroundTracer) Func(ctx hooking.HookCtx) {
	if ctx.Pos != partition.HookPosProcessFinished {
		return
	}

	p := ctx.Item.(partition.Process)

	t.lock.Lock()
	defer t.lock.Unlock()

	t.finished++
	t.totalWait += p.StartTime - p.CreateTime
	t.totalTurnaround += p.EndTime - p.CreateTime
}

// Finished returns the number of processes that finished.
func (t *TurnaroundTracer) Finished() int {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.finished
}

// AverageWait returns the average time from creation to start.
func (t *TurnaroundTracer) AverageWait() timing.VTimeInSec {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.finished == 0 {
		return 0
	}

	return t.totalWait / timing.VTimeInSec(t.finished)
}

// AverageTurnaround returns the average time from creation to end.
func (t *TurnaroundTracer) AverageTurnaround() timing.VTimeInSec {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.finished == 0 {
		return 0
	}

	return t.totalTurnaround / timing.VTimeInSec(t.finished)
}
