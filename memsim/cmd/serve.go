package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sarchlab/memsim/deadline"
	"github.com/sarchlab/memsim/monitoring"
	"github.com/sarchlab/memsim/partition"
	"github.com/sarchlab/memsim/sim/timing"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve both simulators through a web dashboard.",
		Long: `Starts the monitoring server. Process deadlines elapse in wall-clock ` +
			`time, scaled by --unit. Stop with Ctrl-C.`,
		RunE: runServe,
	}

	serveCmd.Flags().Uint64("total", 64, "Total memory size.")
	serveCmd.Flags().Uint64("os", 10, "Memory reserved for the OS.")
	serveCmd.Flags().String("algorithm", string(partition.FirstFit),
		"Placement algorithm: first-fit, best-fit or worst-fit.")
	serveCmd.Flags().Int("frames", 4, "Frames allocated to the job.")
	serveCmd.Flags().Int("pages", 7, "Virtual pages of the job.")
	serveCmd.Flags().Int("frame-size", 1024, "Frame size in bytes.")
	serveCmd.Flags().Int("port", 0, "Port of the server. 0 picks a free port.")
	serveCmd.Flags().Bool("open", false, "Open the dashboard in a browser.")
	serveCmd.Flags().Duration("unit", time.Second,
		"Wall-clock length of one second of process duration.")

	return serveCmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	total, _ := flags.GetUint64("total")
	osSize, _ := flags.GetUint64("os")
	name, _ := flags.GetString("algorithm")
	port, _ := flags.GetInt("port")
	open, _ := flags.GetBool("open")
	unit, _ := flags.GetDuration("unit")

	if osSize > total {
		return fmt.Errorf("%w: total %d, os %d",
			partition.ErrInvalidConfig, total, osSize)
	}

	algorithm, err := partition.ParseAlgorithm(name)
	if err != nil {
		return err
	}

	builder, err := pagerBuilder(cmd)
	if err != nil {
		return err
	}

	clock := timing.NewWallClock()
	notifier := deadline.NewScaledWallClockNotifier(unit)

	allocator := partition.MakeBuilder().
		WithTotalMemory(total).
		WithOSSize(osSize).
		WithAlgorithm(algorithm).
		WithDeadlineNotifier(notifier).
		WithTimeTeller(clock).
		Build("Allocator")
	pager := builder.
		WithTimeTeller(clock).
		Build("Pager")

	recorder := attachTracers(cmd, clock, allocator, pager)
	if recorder != nil {
		defer recorder.Close()
	}

	monitor := monitoring.NewMonitor().
		WithPortNumber(port).
		WithBrowser(open)
	monitor.RegisterTimeTeller(clock)
	monitor.RegisterAllocator(allocator)
	monitor.RegisterPager(pager)
	monitor.StartServer()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	notifier.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return monitor.StopServer(shutdownCtx)
}
