package partition

import "math"

// Config returns the current memory geometry and algorithm.
func (a *Allocator) Config() Config {
	a.lock.Lock()
	defer a.lock.Unlock()

	return a.config()
}

// TotalMemory returns the size of the address space.
func (a *Allocator) TotalMemory() uint64 {
	a.lock.Lock()
	defer a.lock.Unlock()

	return a.totalMemory
}

// OSSize returns the size of the region reserved for the OS.
func (a *Allocator) OSSize() uint64 {
	a.lock.Lock()
	defer a.lock.Unlock()

	return a.osSize
}

// Algorithm returns the active placement algorithm.
func (a *Allocator) Algorithm() Algorithm {
	a.lock.Lock()
	defer a.lock.Unlock()

	return a.algorithm
}

// AvailableMemory returns the memory that user processes can use.
func (a *Allocator) AvailableMemory() uint64 {
	a.lock.Lock()
	defer a.lock.Unlock()

	return a.totalMemory - a.osSize
}

// Partitions returns a copy of the partition table in address order.
func (a *Allocator) Partitions() []Partition {
	return a.filterPartitions(func(Partition) bool { return true })
}

// FreePartitions returns the free partitions in address order.
func (a *Allocator) FreePartitions() []Partition {
	return a.filterPartitions(func(p Partition) bool { return p.IsFree() })
}

// OccupiedPartitions returns the occupied partitions in address order.
func (a *Allocator) OccupiedPartitions() []Partition {
	return a.filterPartitions(func(p Partition) bool { return !p.IsFree() })
}

func (a *Allocator) filterPartitions(keep func(Partition) bool) []Partition {
	a.lock.Lock()
	defer a.lock.Unlock()

	partitions := make([]Partition, 0, len(a.partitions))
	for _, p := range a.partitions {
		if keep(p) {
			partitions = append(partitions, p)
		}
	}

	return partitions
}

// MemoryUsage returns the occupied share of the memory in percent, rounded to
// two decimals.
func (a *Allocator) MemoryUsage() float64 {
	a.lock.Lock()
	defer a.lock.Unlock()

	if a.totalMemory == 0 {
		return 0
	}

	var used uint64
	for _, p := range a.partitions {
		if !p.IsFree() {
			used += p.Size
		}
	}

	usage := float64(used) / float64(a.totalMemory) * 100

	return math.Round(usage*100) / 100
}

// Fragmentation reports how the free memory is spread over holes.
func (a *Allocator) Fragmentation() FragmentationReport {
	a.lock.Lock()
	defer a.lock.Unlock()

	report := FragmentationReport{}
	for _, p := range a.partitions {
		if !p.IsFree() {
			continue
		}

		report.FreeBytes += p.Size
		report.Holes++

		if p.Size > report.LargestHole {
			report.LargestHole = p.Size
		}
	}

	return report
}

// Processes returns all the processes ever created since the last reset, in
// creation order, starting with the OS process.
func (a *Allocator) Processes() []Process {
	a.lock.Lock()
	defer a.lock.Unlock()

	processes := make([]Process, 0, len(a.processes))
	for _, p := range a.processes {
		processes = append(processes, *p)
	}

	return processes
}

// ProcessesByStatus returns the processes with the given status.
func (a *Allocator) ProcessesByStatus(status ProcessStatus) []Process {
	a.lock.Lock()
	defer a.lock.Unlock()

	var processes []Process
	for _, p := range a.processes {
		if p.Status == status {
			processes = append(processes, *p)
		}
	}

	return processes
}

// Process looks up a process by ID.
func (a *Allocator) Process(processID string) (Process, bool) {
	a.lock.Lock()
	defer a.lock.Unlock()

	p, found := a.processByID[processID]
	if !found {
		return Process{}, false
	}

	return *p, true
}

// WaitingQueue returns the IDs of the queued processes in the order they
// will be considered.
func (a *Allocator) WaitingQueue() []string {
	a.lock.Lock()
	defer a.lock.Unlock()

	queue := make([]string, len(a.waitingQueue))
	copy(queue, a.waitingQueue)

	return queue
}
