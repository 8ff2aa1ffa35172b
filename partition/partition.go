// Package partition simulates contiguous dynamic partition allocation.
//
// An Allocator owns a partition table that covers the whole address space,
// a registry of processes and a waiting queue. Processes that cannot be placed
// wait in createTime order and are retried whenever a partition is released.
package partition

import (
	"fmt"

	"github.com/sarchlab/memsim/sim/timing"
)

// OSProcessID is the ID of the operating system process. The OS occupies
// [0, osSize) and never terminates.
const OSProcessID = "os"

// Status tells whether a partition is free or occupied.
type Status string

// Partition statuses.
const (
	Free     Status = "free"
	Occupied Status = "occupied"
)

// A Partition is a contiguous region of the address space.
type Partition struct {
	ID           string `json:"id"`
	StartAddress uint64 `json:"start_address"`
	Size         uint64 `json:"size"`
	Status       Status `json:"status"`
	ProcessID    string `json:"process_id,omitempty"`
}

// EndAddress returns the first address after the partition.
func (p Partition) EndAddress() uint64 {
	return p.StartAddress + p.Size
}

// IsFree returns true if no process owns the partition.
func (p Partition) IsFree() bool {
	return p.Status == Free
}

// ProcessStatus is the lifecycle state of a process.
type ProcessStatus string

// Process statuses.
const (
	Waiting  ProcessStatus = "waiting"
	Running  ProcessStatus = "running"
	Finished ProcessStatus = "finished"
)

// Duration is the number of seconds a process runs once it is placed.
type Duration int

const (
	// RandomDuration asks the allocator to draw the duration from its
	// DurationProvider.
	RandomDuration Duration = 0

	// Indefinite marks a process that only ends through EndProcess. Any
	// negative duration is treated the same way.
	Indefinite Duration = -1
)

// IsIndefinite returns true if the process never ends on its own.
func (d Duration) IsIndefinite() bool {
	return d < 0
}

// A Process is a request for a contiguous block of memory.
type Process struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Size       uint64            `json:"size"`
	Status     ProcessStatus     `json:"status"`
	Duration   Duration          `json:"duration"`
	CreateTime timing.VTimeInSec `json:"create_time"`
	StartTime  timing.VTimeInSec `json:"start_time"`
	EndTime    timing.VTimeInSec `json:"end_time"`
}

// Algorithm selects which free partition serves a request.
type Algorithm string

// Placement algorithms.
const (
	FirstFit Algorithm = "first-fit"
	BestFit  Algorithm = "best-fit"
	WorstFit Algorithm = "worst-fit"
)

// IsValid returns true for the known algorithms.
func (a Algorithm) IsValid() bool {
	switch a {
	case FirstFit, BestFit, WorstFit:
		return true
	default:
		return false
	}
}

// ParseAlgorithm converts a name such as "best-fit" into an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	a := Algorithm(name)
	if !a.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidAlgorithm, name)
	}

	return a, nil
}

// FragmentationReport summarizes how the free memory is split.
type FragmentationReport struct {
	FreeBytes   uint64 `json:"free_bytes"`
	Holes       int    `json:"holes"`
	LargestHole uint64 `json:"largest_hole"`
}

// Config is the memory geometry of an allocator.
type Config struct {
	TotalMemory uint64    `json:"total_memory"`
	OSSize      uint64    `json:"os_size"`
	Algorithm   Algorithm `json:"algorithm"`
}
