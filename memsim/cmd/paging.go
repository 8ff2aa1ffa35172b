package cmd

import (
	"fmt"
	"io"

	"github.com/sarchlab/memsim/paging"
	"github.com/sarchlab/memsim/random"
	"github.com/sarchlab/memsim/sim/id"
	"github.com/sarchlab/memsim/sim/timing"
	"github.com/spf13/cobra"
)

func newPagingCmd() *cobra.Command {
	pagingCmd := &cobra.Command{
		Use:   "paging",
		Short: "Execute random instructions on a job with FIFO replacement.",
		Long: `Generates --count random instructions and executes one per ` +
			`second of virtual time, printing the translation of each.`,
		RunE: runPaging,
	}

	pagingCmd.Flags().Int("count", 10, "Number of instructions to execute.")
	pagingCmd.Flags().Int("frames", 4, "Frames allocated to the job.")
	pagingCmd.Flags().Int("pages", 7, "Virtual pages of the job.")
	pagingCmd.Flags().Int("frame-size", 1024, "Frame size in bytes.")
	pagingCmd.Flags().StringSlice("operations", operationNames(),
		"Operations the random instructions may use.")
	pagingCmd.Flags().Int64("seed", 1, "Seed of the random generators.")

	return pagingCmd
}

type instructionEvent struct {
	*timing.EventBase
}

// instructionRunner adds and executes one random instruction per event.
type instructionRunner struct {
	pager *paging.Pager
	out   io.Writer
}

func (r *instructionRunner) Handle(e timing.Event) error {
	shape := r.pager.GenerateRandomInstruction()

	inst, err := r.pager.AddInstruction(shape.Operation, shape.PageNo, shape.Offset)
	if err != nil {
		return err
	}

	result, err := r.pager.ExecuteInstruction(inst)
	if err != nil {
		return err
	}

	fault := ""
	if result.PageFault {
		fault = fmt.Sprintf("  fault, replaced page %d", *result.ReplacedPage)
	}

	fmt.Fprintf(r.out, "%8.2f  #%d %-4s page %d offset %4d -> %6d%s\n",
		e.Time(), inst.ID, inst.Operation, inst.PageNo, inst.Offset,
		result.PhysicalAddress, fault)

	return nil
}

// operationNames lists the supported operations as flag values.
func operationNames() []string {
	names := make([]string, 0, len(paging.DefaultOperations))
	for _, op := range paging.DefaultOperations {
		names = append(names, string(op))
	}

	return names
}

// pagerBuilder reads the job geometry shared by the paging and serve
// commands and checks it before anything is built.
func pagerBuilder(cmd *cobra.Command) (paging.Builder, error) {
	flags := cmd.Flags()
	frames, _ := flags.GetInt("frames")
	pages, _ := flags.GetInt("pages")
	frameSize, _ := flags.GetInt("frame-size")

	b := paging.MakeBuilder().
		WithPageCount(pages).
		WithFrameCount(frames).
		WithFrameSize(frameSize)

	if names, err := flags.GetStringSlice("operations"); err == nil {
		ops := make([]paging.Operation, 0, len(names))
		for _, name := range names {
			ops = append(ops, paging.Operation(name))
		}

		b = b.WithOperations(ops)
	}

	return b, b.Validate()
}

func runPaging(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	count, _ := flags.GetInt("count")
	seed, _ := flags.GetInt64("seed")

	builder, err := pagerBuilder(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	engine := timing.NewSerialEngine()
	source := random.NewSeededSource(seed)

	pager := builder.
		WithFrameNumberProvider(source).
		WithDiskPositionProvider(source).
		WithInstructionProvider(paging.RandomInstructionGenerator{Source: source}).
		WithTimeTeller(engine).
		Build("Pager")

	recorder := attachTracers(cmd, engine, pager)
	if recorder != nil {
		defer recorder.Close()
	}

	fmt.Fprintln(out, "Initial page table")
	printPageTable(out, pager)
	fmt.Fprintln(out)

	runner := &instructionRunner{pager: pager, out: out}
	eventIDs := id.WithPrefix("instruction-", id.NewIDGenerator())

	for i := 0; i < count; i++ {
		engine.Schedule(instructionEvent{
			EventBase: timing.NewEventBase(
				eventIDs.Generate(), timing.VTimeInSec(i+1), runner),
		})
	}

	if err := engine.Run(); err != nil {
		return err
	}

	fmt.Fprintln(out, "\nFinal page table")
	printPageTable(out, pager)

	stats := pager.Stats()
	fmt.Fprintf(out, "\n%d executed, %d faults, fault rate %.2f%%\n",
		stats.Executed, stats.Faults, stats.FaultRate)

	return nil
}
