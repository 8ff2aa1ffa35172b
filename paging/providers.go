package paging

import "github.com/sarchlab/memsim/random"

// A FrameNumberProvider draws count distinct frame numbers from [0, max).
type FrameNumberProvider interface {
	UniqueFrameNumbers(count, max int) []int
}

// A DiskPositionProvider generates the backing-store position of a page.
type DiskPositionProvider interface {
	DiskPosition() string
}

// An InstructionProvider generates a random instruction with an operation
// from ops, a page in [0, maxPageNo) and an offset in [0, maxOffset).
type InstructionProvider interface {
	RandomInstruction(
		ops []Operation,
		maxPageNo, maxOffset int,
	) InstructionShape
}

// RandomInstructionGenerator is the default InstructionProvider.
type RandomInstructionGenerator struct {
	Source *random.Source
}

// RandomInstruction draws each field uniformly.
func (g RandomInstructionGenerator) RandomInstruction(
	ops []Operation,
	maxPageNo, maxOffset int,
) InstructionShape {
	return InstructionShape{
		Operation: ops[g.Source.Intn(len(ops))],
		PageNo:    g.Source.Intn(maxPageNo),
		Offset:    g.Source.Intn(maxOffset),
	}
}
