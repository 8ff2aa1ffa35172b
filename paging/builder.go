package paging

import (
	"fmt"
	"slices"

	"github.com/sarchlab/memsim/random"
	"github.com/sarchlab/memsim/sim/timing"
)

// A Builder can build Pagers.
type Builder struct {
	pageCount            int
	frameCount           int
	maxFrame             int
	frameSize            int
	operations           []Operation
	frameNumberProvider  FrameNumberProvider
	diskPositionProvider DiskPositionProvider
	instructionProvider  InstructionProvider
	timeTeller           timing.TimeTeller
}

// DefaultMaxFrame is the size of the frame pool unless WithMaxFrame says
// otherwise.
const DefaultMaxFrame = 64

// MakeBuilder creates a builder for a 7-page job on 4 frames of 1024 bytes,
// drawn from a pool of DefaultMaxFrame frames.
func MakeBuilder() Builder {
	return Builder{
		pageCount:  7,
		frameCount: 4,
		maxFrame:   DefaultMaxFrame,
		frameSize:  1024,
		operations: DefaultOperations,
	}
}

// WithPageCount sets the number of virtual pages.
func (b Builder) WithPageCount(n int) Builder {
	b.pageCount = n
	return b
}

// WithFrameCount sets the number of frames allocated to the job.
func (b Builder) WithFrameCount(n int) Builder {
	b.frameCount = n
	return b
}

// WithMaxFrame sets the size of the physical frame pool.
func (b Builder) WithMaxFrame(n int) Builder {
	b.maxFrame = n
	return b
}

// WithFrameSize sets the frame size in bytes.
func (b Builder) WithFrameSize(n int) Builder {
	b.frameSize = n
	return b
}

// WithOperations sets the operations instructions may use.
func (b Builder) WithOperations(ops []Operation) Builder {
	b.operations = ops
	return b
}

// WithFrameNumberProvider sets the source of initial frame numbers.
func (b Builder) WithFrameNumberProvider(p FrameNumberProvider) Builder {
	b.frameNumberProvider = p
	return b
}

// WithDiskPositionProvider sets the source of disk positions.
func (b Builder) WithDiskPositionProvider(p DiskPositionProvider) Builder {
	b.diskPositionProvider = p
	return b
}

// WithInstructionProvider sets the source of random instructions.
func (b Builder) WithInstructionProvider(p InstructionProvider) Builder {
	b.instructionProvider = p
	return b
}

// WithTimeTeller sets the clock used to stamp replacements.
func (b Builder) WithTimeTeller(t timing.TimeTeller) Builder {
	b.timeTeller = t
	return b
}

// Build creates a Pager with the given name.
func (b Builder) Build(name string) *Pager {
	b.mustBeValid()

	p := &Pager{
		name:                 name,
		pageCount:            b.pageCount,
		frameCount:           b.frameCount,
		maxFrame:             b.maxFrame,
		frameSize:            b.frameSize,
		operations:           append([]Operation(nil), b.operations...),
		frameNumberProvider:  b.frameNumberProvider,
		diskPositionProvider: b.diskPositionProvider,
		instructionProvider:  b.instructionProvider,
		timeTeller:           b.timeTeller,
	}

	var source *random.Source

	if p.frameNumberProvider == nil {
		source = random.NewSource()
		p.frameNumberProvider = source
	}

	if p.diskPositionProvider == nil {
		if source == nil {
			source = random.NewSource()
		}

		p.diskPositionProvider = source
	}

	if p.instructionProvider == nil {
		if source == nil {
			source = random.NewSource()
		}

		p.instructionProvider = RandomInstructionGenerator{Source: source}
	}

	if p.timeTeller == nil {
		p.timeTeller = timing.NewWallClock()
	}

	p.initialize()

	return p
}

// Validate reports whether Build would accept the configuration.
func (b Builder) Validate() error {
	switch {
	case b.frameCount < 1:
		return fmt.Errorf("%w: a job needs at least one frame",
			ErrInvalidGeometry)
	case b.frameCount > b.pageCount:
		return fmt.Errorf("%w: %d frames for only %d pages",
			ErrInvalidGeometry, b.frameCount, b.pageCount)
	case b.frameCount > b.maxFrame:
		return fmt.Errorf("%w: %d frames from a pool of %d",
			ErrInvalidGeometry, b.frameCount, b.maxFrame)
	case b.frameSize < 1:
		return fmt.Errorf("%w: frame size must be positive",
			ErrInvalidGeometry)
	case len(b.operations) == 0:
		return fmt.Errorf("%w: no operation types", ErrInvalidGeometry)
	}

	for _, op := range b.operations {
		if !slices.Contains(DefaultOperations, op) {
			return fmt.Errorf("%w: unknown operation %q",
				ErrInvalidGeometry, op)
		}
	}

	return nil
}

func (b Builder) mustBeValid() {
	if err := b.Validate(); err != nil {
		panic(err)
	}
}
