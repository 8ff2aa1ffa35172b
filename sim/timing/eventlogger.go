package timing

import (
	"log"
	"reflect"

	"github.com/sarchlab/memsim/sim/hooking"
)

// EventLogger is a hook that prints every event right before the engine
// handles it.
type EventLogger struct {
	logger *log.Logger
}

// NewEventLogger returns a new EventLogger which will write into the logger.
func NewEventLogger(logger *log.Logger) *EventLogger {
	h := new(EventLogger)

	h.logger = logger

	return h
}

// Func writes the event time, ID and handler into the logger.
func (h *EventLogger) Func(ctx hooking.HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(Event)
	if !ok {
		return
	}

	id := reflect.TypeOf(evt).String()
	if named, ok := evt.(interface{ EventID() string }); ok {
		id = named.EventID()
	}

	h.logger.Printf("%.6f, event %s, handler %s",
		evt.Time(), id, reflect.TypeOf(evt.Handler()))
}
