// Package tracing turns the hook invocations of the allocator and the pager
// into logs, database rows and summary metrics.
package tracing

import (
	"log"

	"github.com/sarchlab/memsim/paging"
	"github.com/sarchlab/memsim/partition"
	"github.com/sarchlab/memsim/sim/hooking"
)

// LogTracer is a hook that prints what the allocator and the pager do.
type LogTracer struct {
	logger *log.Logger
}

// NewLogTracer returns a new LogTracer which will write in to the logger.
func NewLogTracer(logger *log.Logger) *LogTracer {
	return &LogTracer{logger: logger}
}

// Func writes one line per hook invocation.
func (t *LogTracer) Func(ctx hooking.HookCtx) {
	name := ctx.Domain.Name()

	switch ctx.Pos {
	case partition.HookPosProcessCreated:
		p := ctx.Item.(partition.Process)
		t.logger.Printf("%.6f, %s, created %s, size %d, duration %d",
			p.CreateTime, name, p.ID, p.Size, p.Duration)
	case partition.HookPosProcessQueued:
		p := ctx.Item.(partition.Process)
		t.logger.Printf("%.6f, %s, queued %s", p.CreateTime, name, p.ID)
	case partition.HookPosProcessStarted:
		p := ctx.Item.(partition.Process)
		owned := ctx.Detail.(partition.Partition)
		t.logger.Printf("%.6f, %s, started %s at %d",
			p.StartTime, name, p.ID, owned.StartAddress)
	case partition.HookPosProcessFinished:
		p := ctx.Item.(partition.Process)
		t.logger.Printf("%.6f, %s, finished %s", p.EndTime, name, p.ID)
	case partition.HookPosPartitionsMerged:
		merged := ctx.Item.(partition.Partition)
		t.logger.Printf("%s, merged free partition %s [%d, %d)",
			name, merged.ID, merged.StartAddress, merged.EndAddress())
	case partition.HookPosReconfigured:
		c := ctx.Item.(partition.Config)
		t.logger.Printf("%s, memory %d, os %d, %s",
			name, c.TotalMemory, c.OSSize, c.Algorithm)
	case paging.HookPosPageFault:
		f := ctx.Item.(paging.PageFault)
		t.logger.Printf("%.6f, %s, page fault on %d, evicted %d from frame %d",
			f.Time, name, f.PageNo, f.VictimPageNo, f.FrameNo)
	case paging.HookPosInstructionExecuted:
		r := ctx.Item.(paging.ExecutionRecord)
		inst := ctx.Detail.(paging.Instruction)
		t.logger.Printf("%s, instruction %d %s page %d offset %d -> %d",
			name, r.InstructionID, inst.Operation, inst.PageNo, inst.Offset,
			r.PhysicalAddress)
	case paging.HookPosPagingReset:
		t.logger.Printf("%s, reset", name)
	}
}
