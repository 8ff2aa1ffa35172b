package deadline

import (
	"github.com/sarchlab/memsim/sim/id"
	"github.com/sarchlab/memsim/sim/timing"
)

// An EngineNotifier schedules deadlines as events of a timing engine. The
// callbacks run when the engine reaches the deadline.
type EngineNotifier struct {
	engine      timing.EventScheduler
	idGenerator id.IDGenerator
}

// NewEngineNotifier creates an EngineNotifier that schedules on engine.
func NewEngineNotifier(engine timing.EventScheduler) *EngineNotifier {
	return &EngineNotifier{
		engine:      engine,
		idGenerator: id.WithPrefix("deadline-", id.NewIDGenerator()),
	}
}

type deadlineEvent struct {
	*timing.EventBase
	callback func()
}

// NotifyAfter schedules callback at the current engine time plus seconds.
func (n *EngineNotifier) NotifyAfter(seconds int, callback func()) {
	at := n.engine.Now() + timing.VTimeInSec(seconds)

	evt := &deadlineEvent{
		EventBase: timing.NewEventBase(n.idGenerator.Generate(), at, n),
		callback:  callback,
	}

	n.engine.Schedule(evt)
}

// Handle runs the callback of a deadline event.
func (n *EngineNotifier) Handle(e timing.Event) error {
	evt, ok := e.(*deadlineEvent)
	if !ok {
		panic("EngineNotifier can only handle deadline events")
	}

	evt.callback()

	return nil
}
