package paging

import "github.com/sarchlab/memsim/sim/hooking"

// Hook positions of the Pager. The item of HookPosPageFault is a PageFault,
// the item of HookPosInstructionExecuted is an ExecutionRecord with the
// Instruction as the detail. HookPosPagingReset carries no item.
var (
	HookPosPageFault           = &hooking.HookPos{Name: "PageFault"}
	HookPosInstructionExecuted = &hooking.HookPos{Name: "InstructionExecuted"}
	HookPosPagingReset         = &hooking.HookPos{Name: "PagingReset"}
)
