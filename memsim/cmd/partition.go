package cmd

import (
	"fmt"
	"io"

	"github.com/sarchlab/memsim/deadline"
	"github.com/sarchlab/memsim/partition"
	"github.com/sarchlab/memsim/random"
	"github.com/sarchlab/memsim/sim/id"
	"github.com/sarchlab/memsim/sim/timing"
	"github.com/sarchlab/memsim/tracing"
	"github.com/spf13/cobra"
)

func newPartitionCmd() *cobra.Command {
	partitionCmd := &cobra.Command{
		Use:   "partition",
		Short: "Run a contiguous allocation scenario in virtual time.",
		Long: `Creates one process per --sizes entry, --interval seconds apart, ` +
			`and runs until every finite process has finished. A duration of 0 ` +
			`draws a random duration and a negative duration never ends.`,
		Example: `  memsim partition --algorithm best-fit --sizes 20,20,10,10 ` +
			`--durations 5,-1,3,0 --interval 1`,
		RunE: runPartition,
	}

	partitionCmd.Flags().Uint64("total", 64, "Total memory size.")
	partitionCmd.Flags().Uint64("os", 10, "Memory reserved for the OS.")
	partitionCmd.Flags().String("algorithm", string(partition.FirstFit),
		"Placement algorithm: first-fit, best-fit or worst-fit.")
	partitionCmd.Flags().IntSlice("sizes", []int{20, 20, 10, 10},
		"Sizes of the processes to create.")
	partitionCmd.Flags().IntSlice("durations", nil,
		"Durations of the processes in seconds. Missing entries are random.")
	partitionCmd.Flags().Float64("interval", 0,
		"Seconds between two process arrivals.")
	partitionCmd.Flags().Float64("until", -1,
		"Stop at this time instead of running to completion.")
	partitionCmd.Flags().Int64("seed", 1, "Seed of the random durations.")

	return partitionCmd
}

type partitionScenario struct {
	totalMemory uint64
	osSize      uint64
	algorithm   partition.Algorithm
	sizes       []uint64
	durations   []partition.Duration
	interval    float64
	until       float64
	seed        int64
}

func parsePartitionScenario(cmd *cobra.Command) (partitionScenario, error) {
	flags := cmd.Flags()
	s := partitionScenario{}

	s.totalMemory, _ = flags.GetUint64("total")
	s.osSize, _ = flags.GetUint64("os")
	s.interval, _ = flags.GetFloat64("interval")
	s.until, _ = flags.GetFloat64("until")
	s.seed, _ = flags.GetInt64("seed")

	if s.osSize > s.totalMemory {
		return s, fmt.Errorf("%w: total %d, os %d",
			partition.ErrInvalidConfig, s.totalMemory, s.osSize)
	}

	name, _ := flags.GetString("algorithm")

	algorithm, err := partition.ParseAlgorithm(name)
	if err != nil {
		return s, err
	}

	s.algorithm = algorithm

	sizes, _ := flags.GetIntSlice("sizes")
	for _, size := range sizes {
		if size < 0 {
			return s, fmt.Errorf("negative process size %d", size)
		}

		s.sizes = append(s.sizes, uint64(size))
	}

	durations, _ := flags.GetIntSlice("durations")
	for _, d := range durations {
		s.durations = append(s.durations, partition.Duration(d))
	}

	if s.interval < 0 {
		return s, fmt.Errorf("negative interval %g", s.interval)
	}

	return s, nil
}

func (s partitionScenario) duration(i int) partition.Duration {
	if i < len(s.durations) {
		return s.durations[i]
	}

	return partition.RandomDuration
}

type arrivalEvent struct {
	*timing.EventBase
	size     uint64
	duration partition.Duration
}

// arrivalHandler creates a process for every arrival event.
type arrivalHandler struct {
	allocator *partition.Allocator
	out       io.Writer
}

func (h *arrivalHandler) Handle(e timing.Event) error {
	evt := e.(*arrivalEvent)

	processID := h.allocator.CreateProcess(evt.size, evt.duration)
	p, _ := h.allocator.Process(processID)

	fmt.Fprintf(h.out, "%8.2f  %s size %d duration %d: %s\n",
		evt.Time(), p.ID, p.Size, p.Duration, p.Status)

	return nil
}

func runPartition(cmd *cobra.Command, _ []string) error {
	s, err := parsePartitionScenario(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	engine := timing.NewSerialEngine()

	allocator := partition.MakeBuilder().
		WithTotalMemory(s.totalMemory).
		WithOSSize(s.osSize).
		WithAlgorithm(s.algorithm).
		WithProcessIDGenerator(id.WithPrefix("p-", id.NewIDGenerator())).
		WithDurationProvider(random.NewSeededSource(s.seed)).
		WithDeadlineNotifier(deadline.NewEngineNotifier(engine)).
		WithTimeTeller(engine).
		Build("Allocator")

	turnaround := tracing.NewTurnaroundTracer()
	allocator.AcceptHook(turnaround)

	recorder := attachTracers(cmd, engine, allocator)
	if recorder != nil {
		defer recorder.Close()
	}

	handler := &arrivalHandler{allocator: allocator, out: out}
	eventIDs := id.WithPrefix("arrival-", id.NewIDGenerator())

	for i, size := range s.sizes {
		at := timing.VTimeInSec(float64(i) * s.interval)
		engine.Schedule(&arrivalEvent{
			EventBase: timing.NewEventBase(eventIDs.Generate(), at, handler),
			size:      size,
			duration:  s.duration(i),
		})
	}

	if s.until >= 0 {
		err = engine.RunUntil(timing.VTimeInSec(s.until))
	} else {
		err = engine.Run()
	}

	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nState at %.2f\n", engine.Now())
	printPartitionState(out, allocator)
	printTurnaround(out, turnaround)

	return nil
}
