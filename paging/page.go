// Package paging simulates a single job running on a fixed number of frames
// with FIFO page replacement.
//
// The job has a fixed number of virtual pages. Exactly as many pages as there
// are allocated frames are resident at any time. Executing an instruction on
// an absent page evicts the page that has been resident the longest.
package paging

import (
	"github.com/sarchlab/memsim/sim/timing"
)

// NoFrame is the frame number of an absent page.
const NoFrame = -1

// A PageTableEntry describes one virtual page.
type PageTableEntry struct {
	PageNo       int    `json:"page_no"`
	Present      bool   `json:"present"`
	FrameNo      int    `json:"frame_no"`
	Modified     bool   `json:"modified"`
	DiskPosition string `json:"disk_position"`
}

// Operation is the kind of an instruction.
type Operation string

// Supported operations. Only OpSave modifies the page it touches.
const (
	OpAdd      Operation = "+"
	OpSubtract Operation = "-"
	OpMultiply Operation = "*"
	OpDivide   Operation = "/"
	OpSave     Operation = "save"
	OpLoad     Operation = "load"
)

// DefaultOperations lists the operations in the order they are offered.
var DefaultOperations = []Operation{
	OpAdd, OpSubtract, OpMultiply, OpDivide, OpSave, OpLoad,
}

// InstructionShape is an instruction that has not been numbered yet.
type InstructionShape struct {
	Operation Operation `json:"operation"`
	PageNo    int       `json:"page_no"`
	Offset    int       `json:"offset"`
}

// An Instruction accesses Offset bytes into page PageNo.
type Instruction struct {
	ID        int       `json:"id"`
	Operation Operation `json:"operation"`
	PageNo    int       `json:"page_no"`
	Offset    int       `json:"offset"`
}

// ExecutionResult is the outcome of executing an instruction. ReplacedPage is
// only set when the instruction caused a page fault.
type ExecutionResult struct {
	PhysicalAddress int  `json:"physical_address"`
	PageFault       bool `json:"page_fault"`
	ReplacedPage    *int `json:"replaced_page,omitempty"`
}

// ExecutionRecord is an entry of the execution history.
type ExecutionRecord struct {
	InstructionID int `json:"instruction_id"`
	ExecutionResult
}

// ReplacementRecord is an entry of the replacement history.
type ReplacementRecord struct {
	Kind   string            `json:"type"`
	PageNo int               `json:"page_no"`
	Time   timing.VTimeInSec `json:"timestamp"`
}

// A PageFault describes one replacement. It is the item of HookPosPageFault.
type PageFault struct {
	PageNo         int
	VictimPageNo   int
	FrameNo        int
	VictimModified bool
	Time           timing.VTimeInSec
}

// Stats summarizes the execution history.
type Stats struct {
	Executed  int     `json:"executed"`
	Faults    int     `json:"faults"`
	FaultRate float64 `json:"fault_rate"`
}
