package partition

import "github.com/sarchlab/memsim/sim/hooking"

// Hook positions of the Allocator. The Item of the HookCtx is a Process for
// process positions, a Partition for HookPosPartitionsMerged and a Config for
// HookPosReconfigured. For HookPosProcessStarted and HookPosProcessFinished the
// Detail is the Partition that the process owns or owned.
var (
	HookPosProcessCreated   = &hooking.HookPos{Name: "ProcessCreated"}
	HookPosProcessQueued    = &hooking.HookPos{Name: "ProcessQueued"}
	HookPosProcessStarted   = &hooking.HookPos{Name: "ProcessStarted"}
	HookPosProcessFinished  = &hooking.HookPos{Name: "ProcessFinished"}
	HookPosPartitionsMerged = &hooking.HookPos{Name: "PartitionsMerged"}
	HookPosReconfigured     = &hooking.HookPos{Name: "Reconfigured"}
)
