package partition

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sarchlab/memsim/sim/hooking"
	"github.com/sarchlab/memsim/sim/id"
	"github.com/sarchlab/memsim/sim/timing"
)

// An Allocator places processes into contiguous partitions.
//
// All the exported methods are safe to call from deadline callbacks while
// other goroutines use the Allocator. Hooks are invoked with the Allocator
// locked and must not call back into it.
type Allocator struct {
	hooking.HookableBase

	name string
	lock sync.Mutex

	initial     Config
	totalMemory uint64
	osSize      uint64
	algorithm   Algorithm

	partitions   []Partition
	processes    []*Process
	processByID  map[string]*Process
	waitingQueue []string

	partitionIDGenerator id.IDGenerator
	processIDGenerator   id.IDGenerator
	durationProvider     DurationProvider
	minDuration          int
	maxDuration          int
	notifier             DeadlineNotifier
	timeTeller           timing.TimeTeller
}

// Name returns the name of the allocator.
func (a *Allocator) Name() string {
	return a.name
}

// Reconfigure changes the memory geometry. The partition table is reset to
// the OS partition followed by one free partition. Processes and the waiting
// queue are left untouched.
func (a *Allocator) Reconfigure(totalMemory, osSize uint64) error {
	if totalMemory < osSize {
		return fmt.Errorf("%w: total %d, os %d",
			ErrInvalidConfig, totalMemory, osSize)
	}

	a.lock.Lock()
	defer a.lock.Unlock()

	a.totalMemory = totalMemory
	a.osSize = osSize
	a.initializePartitions()

	a.InvokeHook(hooking.HookCtx{
		Domain: a,
		Pos:    HookPosReconfigured,
		Item:   a.config(),
	})

	return nil
}

// SetAlgorithm changes the placement algorithm used by later allocations.
func (a *Allocator) SetAlgorithm(algorithm Algorithm) error {
	if !algorithm.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidAlgorithm, algorithm)
	}

	a.lock.Lock()
	defer a.lock.Unlock()

	a.algorithm = algorithm

	return nil
}

// CreateProcess registers a new process and tries to place it right away. A
// process that cannot be placed waits in the queue. It returns the ID of the
// new process.
func (a *Allocator) CreateProcess(size uint64, duration Duration) string {
	a.lock.Lock()
	defer a.lock.Unlock()

	if duration == RandomDuration {
		duration = Duration(
			a.durationProvider.Duration(a.minDuration, a.maxDuration))
	}

	p := &Process{
		ID:         a.processIDGenerator.Generate(),
		Size:       size,
		Status:     Waiting,
		Duration:   duration,
		CreateTime: a.timeTeller.Now(),
	}
	p.Name = p.ID

	a.processes = append(a.processes, p)
	a.processByID[p.ID] = p

	a.InvokeHook(hooking.HookCtx{
		Domain: a,
		Pos:    HookPosProcessCreated,
		Item:   *p,
	})

	if a.allocate(p) {
		a.start(p)
		return p.ID
	}

	a.waitingQueue = append(a.waitingQueue, p.ID)
	a.InvokeHook(hooking.HookCtx{
		Domain: a,
		Pos:    HookPosProcessQueued,
		Item:   *p,
	})

	return p.ID
}

// EndProcess finishes a running process and releases its partition. Freed
// space is merged with free neighbors and offered to the waiting queue. It
// does nothing if the process is not running.
func (a *Allocator) EndProcess(processID string) {
	a.lock.Lock()
	defer a.lock.Unlock()

	p, found := a.processByID[processID]
	if !found || p.Status != Running || p.ID == OSProcessID {
		return
	}

	p.Status = Finished
	p.EndTime = a.timeTeller.Now()

	released, owned := a.release(p.ID)

	a.InvokeHook(hooking.HookCtx{
		Domain: a,
		Pos:    HookPosProcessFinished,
		Item:   *p,
		Detail: released,
	})

	if owned {
		a.mergeFreePartitions()
	}

	a.drainWaitingQueue()
}

// ResetSystem restores the configuration the allocator was built with. Only
// the OS process remains and the waiting queue is emptied.
func (a *Allocator) ResetSystem() {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.totalMemory = a.initial.TotalMemory
	a.osSize = a.initial.OSSize
	a.algorithm = a.initial.Algorithm

	a.initializePartitions()
	a.initializeProcesses()

	a.InvokeHook(hooking.HookCtx{
		Domain: a,
		Pos:    HookPosReconfigured,
		Item:   a.config(),
	})
}

func (a *Allocator) initializePartitions() {
	a.partitions = nil

	if a.osSize > 0 {
		a.partitions = append(a.partitions, Partition{
			ID:           OSProcessID,
			StartAddress: 0,
			Size:         a.osSize,
			Status:       Occupied,
			ProcessID:    OSProcessID,
		})
	}

	if a.totalMemory > a.osSize {
		a.partitions = append(a.partitions, Partition{
			ID:           "free-1",
			StartAddress: a.osSize,
			Size:         a.totalMemory - a.osSize,
			Status:       Free,
		})
	}
}

func (a *Allocator) initializeProcesses() {
	osProcess := &Process{
		ID:       OSProcessID,
		Name:     "Operating System",
		Size:     a.osSize,
		Status:   Running,
		Duration: Indefinite,
	}

	a.processes = []*Process{osProcess}
	a.processByID = map[string]*Process{OSProcessID: osProcess}
	a.waitingQueue = nil
}

// allocate places the process with the current algorithm. It returns false
// if no free partition is large enough.
func (a *Allocator) allocate(p *Process) bool {
	index := a.algorithm.selectPartition(a.partitions, p.Size)
	if index < 0 {
		return false
	}

	if p.Size == 0 {
		return true
	}

	chosen := a.partitions[index]
	occupied := Partition{
		ID:           chosen.ID,
		StartAddress: chosen.StartAddress,
		Size:         p.Size,
		Status:       Occupied,
		ProcessID:    p.ID,
	}

	remainder := chosen.Size - p.Size
	if remainder == 0 {
		a.partitions[index] = occupied
		return true
	}

	rest := Partition{
		ID:           a.partitionIDGenerator.Generate(),
		StartAddress: occupied.EndAddress(),
		Size:         remainder,
		Status:       Free,
	}

	a.partitions = append(a.partitions, Partition{})
	copy(a.partitions[index+2:], a.partitions[index+1:])
	a.partitions[index] = occupied
	a.partitions[index+1] = rest

	return true
}

func (a *Allocator) start(p *Process) {
	p.Status = Running
	p.StartTime = a.timeTeller.Now()

	owned, _ := a.ownedPartition(p.ID)
	a.InvokeHook(hooking.HookCtx{
		Domain: a,
		Pos:    HookPosProcessStarted,
		Item:   *p,
		Detail: owned,
	})

	if p.Duration.IsIndefinite() {
		return
	}

	processID := p.ID
	a.notifier.NotifyAfter(int(p.Duration), func() {
		a.EndProcess(processID)
	})
}

func (a *Allocator) ownedPartition(processID string) (Partition, int) {
	for i, p := range a.partitions {
		if p.Status == Occupied && p.ProcessID == processID {
			return p, i
		}
	}

	return Partition{}, -1
}

// release frees the partition owned by the process. The process may own
// nothing if it requested zero bytes or if the memory was reconfigured while
// it was running.
func (a *Allocator) release(processID string) (Partition, bool) {
	owned, index := a.ownedPartition(processID)
	if index < 0 {
		return Partition{}, false
	}

	a.partitions[index].Status = Free
	a.partitions[index].ProcessID = ""

	return owned, true
}

func (a *Allocator) mergeFreePartitions() {
	i := 0
	for i+1 < len(a.partitions) {
		curr := a.partitions[i]
		next := a.partitions[i+1]

		if !curr.IsFree() || !next.IsFree() {
			i++
			continue
		}

		a.partitions[i].Size += next.Size
		a.partitions = append(a.partitions[:i+1], a.partitions[i+2:]...)

		a.InvokeHook(hooking.HookCtx{
			Domain: a,
			Pos:    HookPosPartitionsMerged,
			Item:   a.partitions[i],
		})
	}
}

// drainWaitingQueue makes a single pass over the queue in createTime order.
// A process that does not fit stays queued until the next release, even if
// a later process in the same pass is placed.
func (a *Allocator) drainWaitingQueue() {
	sort.SliceStable(a.waitingQueue, func(i, j int) bool {
		pi := a.processByID[a.waitingQueue[i]]
		pj := a.processByID[a.waitingQueue[j]]

		return pi.CreateTime < pj.CreateTime
	})

	stillWaiting := make([]string, 0, len(a.waitingQueue))
	for _, processID := range a.waitingQueue {
		p := a.processByID[processID]

		if a.allocate(p) {
			a.start(p)
			continue
		}

		stillWaiting = append(stillWaiting, processID)
	}

	a.waitingQueue = stillWaiting
}

func (a *Allocator) config() Config {
	return Config{
		TotalMemory: a.totalMemory,
		OSSize:      a.osSize,
		Algorithm:   a.algorithm,
	}
}
