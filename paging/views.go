package paging

import "math"

// PageTable returns a copy of the page table, indexed by page number.
func (p *Pager) PageTable() []PageTableEntry {
	p.lock.Lock()
	defer p.lock.Unlock()

	table := make([]PageTableEntry, len(p.pageTable))
	copy(table, p.pageTable)

	return table
}

// ResidencyList returns the resident pages, oldest first.
func (p *Pager) ResidencyList() []int {
	p.lock.Lock()
	defer p.lock.Unlock()

	return p.residency.snapshot()
}

// AllocatedFrames returns the number of frames the job runs on.
func (p *Pager) AllocatedFrames() int {
	return p.frameCount
}

// PageCount returns the number of virtual pages of the job.
func (p *Pager) PageCount() int {
	return p.pageCount
}

// FrameSize returns the size of a frame in bytes.
func (p *Pager) FrameSize() int {
	return p.frameSize
}

// Instructions returns the instructions added so far.
func (p *Pager) Instructions() []Instruction {
	p.lock.Lock()
	defer p.lock.Unlock()

	instructions := make([]Instruction, len(p.instructions))
	copy(instructions, p.instructions)

	return instructions
}

// ExecutionHistory returns one record per executed instruction.
func (p *Pager) ExecutionHistory() []ExecutionRecord {
	p.lock.Lock()
	defer p.lock.Unlock()

	history := make([]ExecutionRecord, len(p.executionHistory))
	copy(history, p.executionHistory)

	return history
}

// ReplacementHistory returns one record per page fault.
func (p *Pager) ReplacementHistory() []ReplacementRecord {
	p.lock.Lock()
	defer p.lock.Unlock()

	history := make([]ReplacementRecord, len(p.replacementHistory))
	copy(history, p.replacementHistory)

	return history
}

// OperationTypes returns the operations instructions may use.
func (p *Pager) OperationTypes() []Operation {
	ops := make([]Operation, len(p.operations))
	copy(ops, p.operations)

	return ops
}

// Stats summarizes the execution history. The fault rate is a percentage
// rounded to two decimals.
func (p *Pager) Stats() Stats {
	p.lock.Lock()
	defer p.lock.Unlock()

	stats := Stats{Executed: len(p.executionHistory)}
	for _, r := range p.executionHistory {
		if r.PageFault {
			stats.Faults++
		}
	}

	if stats.Executed > 0 {
		rate := float64(stats.Faults) / float64(stats.Executed) * 100
		stats.FaultRate = math.Round(rate*100) / 100
	}

	return stats
}
