package partition

import (
	"fmt"

	"github.com/sarchlab/memsim/deadline"
	"github.com/sarchlab/memsim/random"
	"github.com/sarchlab/memsim/sim/id"
	"github.com/sarchlab/memsim/sim/timing"
)

// A Builder can build Allocators.
type Builder struct {
	totalMemory        uint64
	osSize             uint64
	algorithm          Algorithm
	processIDGenerator id.IDGenerator
	durationProvider   DurationProvider
	minDuration        int
	maxDuration        int
	notifier           DeadlineNotifier
	timeTeller         timing.TimeTeller
}

// MakeBuilder creates a builder with 64 units of memory, 10 of which belong to
// the OS, and first-fit placement. Random durations fall in [3, 15] seconds.
func MakeBuilder() Builder {
	return Builder{
		totalMemory: 64,
		osSize:      10,
		algorithm:   FirstFit,
		minDuration: 3,
		maxDuration: 15,
	}
}

// WithTotalMemory sets the size of the address space.
func (b Builder) WithTotalMemory(totalMemory uint64) Builder {
	b.totalMemory = totalMemory
	return b
}

// WithOSSize sets the size of the region reserved for the OS.
func (b Builder) WithOSSize(osSize uint64) Builder {
	b.osSize = osSize
	return b
}

// WithAlgorithm sets the initial placement algorithm.
func (b Builder) WithAlgorithm(algorithm Algorithm) Builder {
	b.algorithm = algorithm
	return b
}

// WithProcessIDGenerator sets the generator of process IDs.
func (b Builder) WithProcessIDGenerator(g id.IDGenerator) Builder {
	b.processIDGenerator = g
	return b
}

// WithDurationProvider sets the source of random process durations.
func (b Builder) WithDurationProvider(p DurationProvider) Builder {
	b.durationProvider = p
	return b
}

// WithDurationRange sets the range of random process durations, in seconds.
func (b Builder) WithDurationRange(min, max int) Builder {
	b.minDuration = min
	b.maxDuration = max

	return b
}

// WithDeadlineNotifier sets the notifier that ends processes once their
// duration elapses.
func (b Builder) WithDeadlineNotifier(n DeadlineNotifier) Builder {
	b.notifier = n
	return b
}

// WithTimeTeller sets the clock used to stamp process times.
func (b Builder) WithTimeTeller(t timing.TimeTeller) Builder {
	b.timeTeller = t
	return b
}

// Build creates an Allocator with the given name.
func (b Builder) Build(name string) *Allocator {
	b.mustBeValid()

	a := &Allocator{
		name: name,
		initial: Config{
			TotalMemory: b.totalMemory,
			OSSize:      b.osSize,
			Algorithm:   b.algorithm,
		},
		totalMemory:          b.totalMemory,
		osSize:               b.osSize,
		algorithm:            b.algorithm,
		partitionIDGenerator: id.WithPrefix("partition-", id.NewIDGenerator()),
		processIDGenerator:   b.processIDGenerator,
		durationProvider:     b.durationProvider,
		minDuration:          b.minDuration,
		maxDuration:          b.maxDuration,
		notifier:             b.notifier,
		timeTeller:           b.timeTeller,
	}

	if a.processIDGenerator == nil {
		a.processIDGenerator = id.WithPrefix("p-", id.NewXIDGenerator())
	}

	if a.durationProvider == nil {
		a.durationProvider = random.NewSource()
	}

	if a.timeTeller == nil {
		a.timeTeller = timing.NewWallClock()
	}

	if a.notifier == nil {
		a.notifier = deadline.NewWallClockNotifier()
	}

	a.initializePartitions()
	a.initializeProcesses()

	return a
}

func (b Builder) mustBeValid() {
	if b.totalMemory < b.osSize {
		panic(fmt.Sprintf("os size %d exceeds total memory %d",
			b.osSize, b.totalMemory))
	}

	if !b.algorithm.IsValid() {
		panic("invalid algorithm " + string(b.algorithm))
	}

	if b.minDuration < 1 || b.maxDuration < b.minDuration {
		panic(fmt.Sprintf("invalid duration range [%d, %d]",
			b.minDuration, b.maxDuration))
	}
}
