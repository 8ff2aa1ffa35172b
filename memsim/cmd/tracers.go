package cmd

import (
	"log"
	"strings"

	"github.com/sarchlab/memsim/datarecording"
	"github.com/sarchlab/memsim/sim/hooking"
	"github.com/sarchlab/memsim/sim/timing"
	"github.com/sarchlab/memsim/tracing"
	"github.com/spf13/cobra"
)

// newRecorder picks the recording backend from the target. An empty target
// disables recording.
func newRecorder(target string) datarecording.DataRecorder {
	switch {
	case target == "":
		return nil
	case strings.HasPrefix(target, "clickhouse://"):
		return datarecording.NewClickHouseRecorder(target)
	default:
		return datarecording.New(target)
	}
}

// attachTracers hooks the tracers requested by the persistent flags to the
// simulators. The returned recorder is nil when recording is off.
func attachTracers(
	cmd *cobra.Command,
	timeTeller timing.TimeTeller,
	domains ...hooking.Hookable,
) datarecording.DataRecorder {
	if verbose, _ := cmd.Flags().GetBool("log"); verbose {
		logger := log.New(cmd.ErrOrStderr(), "", 0)

		if engine, ok := timeTeller.(hooking.Hookable); ok {
			engine.AcceptHook(timing.NewEventLogger(logger))
		}

		logTracer := tracing.NewLogTracer(logger)
		for _, d := range domains {
			d.AcceptHook(logTracer)
		}
	}

	target, _ := cmd.Flags().GetString("record")

	recorder := newRecorder(target)
	if recorder == nil {
		return nil
	}

	dbTracer := tracing.NewDBTracer(timeTeller, recorder)
	for _, d := range domains {
		d.AcceptHook(dbTracer)
	}

	return recorder
}
