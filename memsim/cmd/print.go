package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/sarchlab/memsim/paging"
	"github.com/sarchlab/memsim/partition"
	"github.com/sarchlab/memsim/tracing"
)

func printPartitionState(out io.Writer, a *partition.Allocator) {
	c := a.Config()
	fmt.Fprintf(out, "Memory %d, OS %d, %s\n", c.TotalMemory, c.OSSize, c.Algorithm)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTART\tSIZE\tSTATUS\tPROCESS")

	for _, p := range a.Partitions() {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n",
			p.ID, p.StartAddress, p.Size, p.Status, p.ProcessID)
	}

	w.Flush()
	fmt.Fprintln(out)

	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROCESS\tSIZE\tSTATUS\tDURATION\tCREATE\tSTART\tEND")

	for _, p := range a.Processes() {
		fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%.2f\t%.2f\t%.2f\n",
			p.ID, p.Size, p.Status, p.Duration,
			p.CreateTime, p.StartTime, p.EndTime)
	}

	w.Flush()

	f := a.Fragmentation()
	fmt.Fprintf(out, "\nWaiting: [%s]\n", strings.Join(a.WaitingQueue(), " "))
	fmt.Fprintf(out, "Usage %.2f%%, %d free in %d holes, largest %d\n",
		a.MemoryUsage(), f.FreeBytes, f.Holes, f.LargestHole)
}

func printTurnaround(out io.Writer, t *tracing.TurnaroundTracer) {
	fmt.Fprintf(out, "%d finished, average wait %.2f, average turnaround %.2f\n",
		t.Finished(), t.AverageWait(), t.AverageTurnaround())
}

func printPageTable(out io.Writer, p *paging.Pager) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PAGE\tPRESENT\tFRAME\tMODIFIED\tDISK")

	for _, e := range p.PageTable() {
		frame := "-"
		if e.Present {
			frame = fmt.Sprint(e.FrameNo)
		}

		fmt.Fprintf(w, "%d\t%t\t%s\t%t\t%s\n",
			e.PageNo, e.Present, frame, e.Modified, e.DiskPosition)
	}

	w.Flush()

	fmt.Fprintf(out, "Resident (oldest first): %v\n", p.ResidencyList())
}
