package tracing

import (
	"github.com/sarchlab/memsim/datarecording"
	"github.com/sarchlab/memsim/paging"
	"github.com/sarchlab/memsim/partition"
	"github.com/sarchlab/memsim/sim/hooking"
	"github.com/sarchlab/memsim/sim/timing"
)

// Tables written by the DBTracer.
const (
	ProcessEventTable = "process_events"
	PageFaultTable    = "page_faults"
	ExecutionTable    = "executions"
)

// ProcessEventEntry is a row of the process_events table.
type ProcessEventEntry struct {
	Time         float64
	Allocator    string
	Event        string
	ProcessID    string
	Size         uint64
	PartitionID  string
	StartAddress uint64
}

// PageFaultEntry is a row of the page_faults table.
type PageFaultEntry struct {
	Time           float64
	Pager          string
	PageNo         int
	VictimPageNo   int
	FrameNo        int
	VictimModified bool
}

// ExecutionEntry is a row of the executions table. ReplacedPage is -1 when
// the instruction did not fault.
type ExecutionEntry struct {
	Time            float64
	Pager           string
	InstructionID   int
	Operation       string
	PageNo          int
	Offset          int
	PhysicalAddress int
	PageFault       bool
	ReplacedPage    int
}

// DBTracer is a hook that stores the events of the allocator and the pager
// into a DataRecorder.
type DBTracer struct {
	timeTeller timing.TimeTeller
	backend    datarecording.DataRecorder
}

// NewDBTracer creates the tables and returns a tracer that fills them.
func NewDBTracer(
	timeTeller timing.TimeTeller,
	backend datarecording.DataRecorder,
) *DBTracer {
	backend.CreateTable(ProcessEventTable, ProcessEventEntry{})
	backend.CreateTable(PageFaultTable, PageFaultEntry{})
	backend.CreateTable(ExecutionTable, ExecutionEntry{})

	return &DBTracer{
		timeTeller: timeTeller,
		backend:    backend,
	}
}

// MapTables tells the reader how to decode the tables written by the
// DBTracer.
func MapTables(reader datarecording.DataReader) {
	reader.MapTable(ProcessEventTable, ProcessEventEntry{})
	reader.MapTable(PageFaultTable, PageFaultEntry{})
	reader.MapTable(ExecutionTable, ExecutionEntry{})
}

// Func records the hook invocation if it belongs to a traced position.
func (t *DBTracer) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case partition.HookPosProcessCreated,
		partition.HookPosProcessQueued,
		partition.HookPosProcessStarted,
		partition.HookPosProcessFinished:
		t.recordProcessEvent(ctx)
	case partition.HookPosPartitionsMerged:
		merged := ctx.Item.(partition.Partition)
		t.backend.InsertData(ProcessEventTable, ProcessEventEntry{
			Time:         float64(t.timeTeller.Now()),
			Allocator:    ctx.Domain.Name(),
			Event:        ctx.Pos.Name,
			Size:         merged.Size,
			PartitionID:  merged.ID,
			StartAddress: merged.StartAddress,
		})
	case paging.HookPosPageFault:
		f := ctx.Item.(paging.PageFault)
		t.backend.InsertData(PageFaultTable, PageFaultEntry{
			Time:           float64(f.Time),
			Pager:          ctx.Domain.Name(),
			PageNo:         f.PageNo,
			VictimPageNo:   f.VictimPageNo,
			FrameNo:        f.FrameNo,
			VictimModified: f.VictimModified,
		})
	case paging.HookPosInstructionExecuted:
		t.recordExecution(ctx)
	}
}

func (t *DBTracer) recordProcessEvent(ctx hooking.HookCtx) {
	p := ctx.Item.(partition.Process)

	entry := ProcessEventEntry{
		Time:      float64(t.timeTeller.Now()),
		Allocator: ctx.Domain.Name(),
		Event:     ctx.Pos.Name,
		ProcessID: p.ID,
		Size:      p.Size,
	}

	if owned, ok := ctx.Detail.(partition.Partition); ok {
		entry.PartitionID = owned.ID
		entry.StartAddress = owned.StartAddress
	}

	t.backend.InsertData(ProcessEventTable, entry)
}

func (t *DBTracer) recordExecution(ctx hooking.HookCtx) {
	r := ctx.Item.(paging.ExecutionRecord)
	inst := ctx.Detail.(paging.Instruction)

	entry := ExecutionEntry{
		Time:            float64(t.timeTeller.Now()),
		Pager:           ctx.Domain.Name(),
		InstructionID:   r.InstructionID,
		Operation:       string(inst.Operation),
		PageNo:          inst.PageNo,
		Offset:          inst.Offset,
		PhysicalAddress: r.PhysicalAddress,
		PageFault:       r.PageFault,
		ReplacedPage:    -1,
	}

	if r.ReplacedPage != nil {
		entry.ReplacedPage = *r.ReplacedPage
	}

	t.backend.InsertData(ExecutionTable, entry)
}
