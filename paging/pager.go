package paging

import (
	"fmt"
	"sync"

	"github.com/sarchlab/memsim/sim/hooking"
	"github.com/sarchlab/memsim/sim/timing"
)

// A Pager runs one job on a fixed set of frames.
//
// A Pager is safe for concurrent use. Hooks are invoked with the Pager locked
// and must not call back into it.
type Pager struct {
	hooking.HookableBase

	name string
	lock sync.Mutex

	pageCount  int
	frameCount int
	maxFrame   int
	frameSize  int
	operations []Operation

	pageTable          []PageTableEntry
	residency          residencyList
	replacementHistory []ReplacementRecord
	instructions       []Instruction
	executionHistory   []ExecutionRecord

	frameNumberProvider  FrameNumberProvider
	diskPositionProvider DiskPositionProvider
	instructionProvider  InstructionProvider
	timeTeller           timing.TimeTeller
}

// Name returns the name of the pager.
func (p *Pager) Name() string {
	return p.name
}

// HandlePageFault loads an absent page into the frame of the page that has
// been resident the longest. It returns the evicted page. Calling it on a
// present page panics.
func (p *Pager) HandlePageFault(pageNo int) int {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.mustBeAbsentPage(pageNo)

	return p.handlePageFault(pageNo)
}

// RequestPageFault is HandlePageFault for callers that cannot tell whether
// the page is absent. It returns ErrNoSuchPage or ErrPageResident instead of
// panicking, checking and faulting under the same lock.
func (p *Pager) RequestPageFault(pageNo int) (int, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if pageNo < 0 || pageNo >= p.pageCount {
		return NoFrame, fmt.Errorf("%w: page %d of %d",
			ErrNoSuchPage, pageNo, p.pageCount)
	}

	if p.pageTable[pageNo].Present {
		return NoFrame, fmt.Errorf("%w: page %d", ErrPageResident, pageNo)
	}

	return p.handlePageFault(pageNo), nil
}

// AddInstruction appends a numbered instruction to the job.
func (p *Pager) AddInstruction(
	op Operation,
	pageNo, offset int,
) (Instruction, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	shape := InstructionShape{Operation: op, PageNo: pageNo, Offset: offset}
	if err := p.validate(shape); err != nil {
		return Instruction{}, err
	}

	inst := Instruction{
		ID:        len(p.instructions) + 1,
		Operation: op,
		PageNo:    pageNo,
		Offset:    offset,
	}
	p.instructions = append(p.instructions, inst)

	return inst, nil
}

// ExecuteInstruction executes an instruction, faulting its page in first if
// it is absent.
func (p *Pager) ExecuteInstruction(inst Instruction) (ExecutionResult, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	shape := InstructionShape{
		Operation: inst.Operation,
		PageNo:    inst.PageNo,
		Offset:    inst.Offset,
	}
	if err := p.validate(shape); err != nil {
		return ExecutionResult{}, err
	}

	result := ExecutionResult{}

	entry := &p.pageTable[inst.PageNo]
	if !entry.Present {
		victim := p.handlePageFault(inst.PageNo)
		result.PageFault = true
		result.ReplacedPage = &victim
	}

	if inst.Operation == OpSave {
		entry.Modified = true
	}

	result.PhysicalAddress = entry.FrameNo*p.frameSize + inst.Offset

	record := ExecutionRecord{
		InstructionID:   inst.ID,
		ExecutionResult: result,
	}
	p.executionHistory = append(p.executionHistory, record)

	p.InvokeHook(hooking.HookCtx{
		Domain: p,
		Pos:    HookPosInstructionExecuted,
		Item:   record,
		Detail: inst,
	})

	return result, nil
}

// GenerateRandomInstruction draws an instruction that can be executed by
// this pager. The instruction is not added to the job.
func (p *Pager) GenerateRandomInstruction() InstructionShape {
	p.lock.Lock()
	defer p.lock.Unlock()

	return p.instructionProvider.RandomInstruction(
		p.OperationTypes(), p.pageCount, p.frameSize)
}

// ResetSystem draws new frames and disk positions and forgets the job and its
// history.
func (p *Pager) ResetSystem() {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.initialize()

	p.InvokeHook(hooking.HookCtx{
		Domain: p,
		Pos:    HookPosPagingReset,
	})
}

func (p *Pager) initialize() {
	frames := p.frameNumberProvider.UniqueFrameNumbers(
		p.frameCount, p.maxFrame)
	p.mustBeUsableFrames(frames)

	p.pageTable = make([]PageTableEntry, p.pageCount)
	resident := make([]int, 0, p.frameCount)

	for i := range p.pageTable {
		entry := PageTableEntry{
			PageNo:       i,
			FrameNo:      NoFrame,
			DiskPosition: p.diskPositionProvider.DiskPosition(),
		}

		if i < p.frameCount {
			entry.Present = true
			entry.FrameNo = frames[i]
			resident = append(resident, i)
		}

		p.pageTable[i] = entry
	}

	p.residency = newResidencyList(resident)
	p.replacementHistory = nil
	p.instructions = nil
	p.executionHistory = nil
}

func (p *Pager) handlePageFault(pageNo int) int {
	now := p.timeTeller.Now()
	victimNo := p.residency.popFront()
	victim := &p.pageTable[victimNo]

	p.replacementHistory = append(p.replacementHistory, ReplacementRecord{
		Kind:   "warning",
		PageNo: pageNo,
		Time:   now,
	})

	fault := PageFault{
		PageNo:         pageNo,
		VictimPageNo:   victimNo,
		FrameNo:        victim.FrameNo,
		VictimModified: victim.Modified,
		Time:           now,
	}

	target := &p.pageTable[pageNo]
	target.Present = true
	target.FrameNo = victim.FrameNo

	victim.Present = false
	victim.FrameNo = NoFrame
	victim.Modified = false

	p.residency.pushBack(pageNo)

	p.InvokeHook(hooking.HookCtx{
		Domain: p,
		Pos:    HookPosPageFault,
		Item:   fault,
	})

	return victimNo
}

func (p *Pager) validate(shape InstructionShape) error {
	if !p.isKnownOperation(shape.Operation) {
		return fmt.Errorf("%w: unknown operation %q",
			ErrInvalidInstruction, shape.Operation)
	}

	if shape.PageNo < 0 || shape.PageNo >= p.pageCount {
		return fmt.Errorf("%w: page %d outside [0, %d)",
			ErrInvalidInstruction, shape.PageNo, p.pageCount)
	}

	if shape.Offset < 0 || shape.Offset >= p.frameSize {
		return fmt.Errorf("%w: offset %d outside [0, %d)",
			ErrInvalidInstruction, shape.Offset, p.frameSize)
	}

	return nil
}

func (p *Pager) isKnownOperation(op Operation) bool {
	for _, known := range p.operations {
		if known == op {
			return true
		}
	}

	return false
}

func (p *Pager) mustBeAbsentPage(pageNo int) {
	if pageNo < 0 || pageNo >= p.pageCount {
		panic(fmt.Sprintf("page %d does not exist", pageNo))
	}

	if p.pageTable[pageNo].Present {
		panic(fmt.Sprintf("page %d is already resident", pageNo))
	}
}

func (p *Pager) mustBeUsableFrames(frames []int) {
	if len(frames) != p.frameCount {
		panic(fmt.Sprintf("expected %d frames, got %d",
			p.frameCount, len(frames)))
	}

	seen := make(map[int]bool, len(frames))
	for _, f := range frames {
		if f < 0 || f >= p.maxFrame || seen[f] {
			panic(fmt.Sprintf("frame %d is out of range or reused", f))
		}

		seen[f] = true
	}
}
