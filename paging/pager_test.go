package paging

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/memsim/random"
	"github.com/sarchlab/memsim/sim/hooking"
	"github.com/sarchlab/memsim/sim/timing"
	"go.uber.org/mock/gomock"
)

type fakeClock struct {
	now timing.VTimeInSec
}

func (c *fakeClock) Now() timing.VTimeInSec {
	return c.now
}

func expectResidencyInvariants(p *Pager) {
	resident := p.ResidencyList()
	Expect(resident).To(HaveLen(p.AllocatedFrames()))

	frames := make(map[int]bool)
	seen := make(map[int]bool)

	for _, pageNo := range resident {
		Expect(seen[pageNo]).To(BeFalse(), "page %d is resident twice", pageNo)
		seen[pageNo] = true
	}

	present := 0
	for _, entry := range p.PageTable() {
		if !entry.Present {
			Expect(entry.FrameNo).To(Equal(NoFrame))
			Expect(entry.Modified).To(BeFalse())
			Expect(seen[entry.PageNo]).To(BeFalse())

			continue
		}

		present++
		Expect(seen[entry.PageNo]).To(BeTrue())
		Expect(frames[entry.FrameNo]).To(BeFalse(), "frame %d is shared", entry.FrameNo)
		frames[entry.FrameNo] = true
	}

	Expect(present).To(Equal(p.AllocatedFrames()))
}

var _ = Describe("Pager", func() {
	var (
		mockCtrl            *gomock.Controller
		frameProvider       *MockFrameNumberProvider
		diskProvider        *MockDiskPositionProvider
		instructionProvider *MockInstructionProvider
		clock               *fakeClock
		pager               *Pager
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		frameProvider = NewMockFrameNumberProvider(mockCtrl)
		diskProvider = NewMockDiskPositionProvider(mockCtrl)
		instructionProvider = NewMockInstructionProvider(mockCtrl)
		clock = &fakeClock{now: 5}

		frameProvider.EXPECT().
			UniqueFrameNumbers(4, 64).
			Return([]int{7, 12, 3, 40})
		diskProvider.EXPECT().DiskPosition().Return("105").AnyTimes()

		pager = MakeBuilder().
			WithFrameNumberProvider(frameProvider).
			WithDiskPositionProvider(diskProvider).
			WithInstructionProvider(instructionProvider).
			WithTimeTeller(clock).
			Build("Pager")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should seed the first pages in ascending order", func() {
		table := pager.PageTable()

		Expect(table).To(HaveLen(7))
		Expect(table[0].FrameNo).To(Equal(7))
		Expect(table[1].FrameNo).To(Equal(12))
		Expect(table[2].FrameNo).To(Equal(3))
		Expect(table[3].FrameNo).To(Equal(40))

		for _, entry := range table {
			Expect(entry.Present).To(Equal(entry.PageNo < 4))
			Expect(entry.Modified).To(BeFalse())
			Expect(entry.DiskPosition).To(Equal("105"))
		}

		Expect(pager.ResidencyList()).To(Equal([]int{0, 1, 2, 3}))
		Expect(pager.AllocatedFrames()).To(Equal(4))
		expectResidencyInvariants(pager)
	})

	Context("when handling page faults", func() {
		It("should evict the oldest resident page", func() {
			Expect(pager.HandlePageFault(4)).To(Equal(0))

			table := pager.PageTable()
			Expect(table[4].Present).To(BeTrue())
			Expect(table[4].FrameNo).To(Equal(7))
			Expect(table[0].Present).To(BeFalse())
			Expect(table[0].FrameNo).To(Equal(NoFrame))
			Expect(pager.ResidencyList()).To(Equal([]int{1, 2, 3, 4}))

			clock.now = 6
			Expect(pager.HandlePageFault(5)).To(Equal(1))

			table = pager.PageTable()
			Expect(table[4].Present).To(BeTrue())
			Expect(table[5].FrameNo).To(Equal(12))
			Expect(pager.ResidencyList()).To(Equal([]int{2, 3, 4, 5}))

			Expect(pager.ReplacementHistory()).To(Equal([]ReplacementRecord{
				{Kind: "warning", PageNo: 4, Time: 5},
				{Kind: "warning", PageNo: 5, Time: 6},
			}))
			expectResidencyInvariants(pager)
		})

		It("should panic on a resident page without changing state", func() {
			Expect(func() { pager.HandlePageFault(2) }).To(Panic())

			Expect(pager.ResidencyList()).To(Equal([]int{0, 1, 2, 3}))
			Expect(pager.ReplacementHistory()).To(BeEmpty())
		})

		It("should panic on a page that does not exist", func() {
			Expect(func() { pager.HandlePageFault(7) }).To(Panic())
		})

		It("should report rather than panic when requested", func() {
			_, err := pager.RequestPageFault(2)
			Expect(errors.Is(err, ErrPageResident)).To(BeTrue())

			_, err = pager.RequestPageFault(7)
			Expect(errors.Is(err, ErrNoSuchPage)).To(BeTrue())

			_, err = pager.RequestPageFault(-1)
			Expect(errors.Is(err, ErrNoSuchPage)).To(BeTrue())
			Expect(pager.ReplacementHistory()).To(BeEmpty())

			victim, err := pager.RequestPageFault(4)
			Expect(err).NotTo(HaveOccurred())
			Expect(victim).To(Equal(0))
			Expect(pager.ResidencyList()).To(Equal([]int{1, 2, 3, 4}))
			expectResidencyInvariants(pager)
		})

		It("should clear the modified flag of the victim", func() {
			inst, err := pager.AddInstruction(OpSave, 0, 0)
			Expect(err).NotTo(HaveOccurred())
			_, err = pager.ExecuteInstruction(inst)
			Expect(err).NotTo(HaveOccurred())
			Expect(pager.PageTable()[0].Modified).To(BeTrue())

			pager.HandlePageFault(4)

			Expect(pager.PageTable()[0].Modified).To(BeFalse())
			Expect(pager.PageTable()[4].Modified).To(BeFalse())
		})

		It("should announce the fault", func() {
			var faults []PageFault
			pager.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
				if ctx.Pos == HookPosPageFault {
					faults = append(faults, ctx.Item.(PageFault))
				}
			}))

			pager.HandlePageFault(6)

			Expect(faults).To(Equal([]PageFault{{
				PageNo:       6,
				VictimPageNo: 0,
				FrameNo:      7,
				Time:         5,
			}}))
		})
	})

	Context("when adding instructions", func() {
		It("should number instructions from 1", func() {
			first, err := pager.AddInstruction(OpAdd, 0, 10)
			Expect(err).NotTo(HaveOccurred())
			second, err := pager.AddInstruction(OpLoad, 6, 1023)
			Expect(err).NotTo(HaveOccurred())

			Expect(first.ID).To(Equal(1))
			Expect(second.ID).To(Equal(2))
			Expect(pager.Instructions()).To(Equal([]Instruction{first, second}))
		})

		DescribeTable("should reject invalid instructions",
			func(op Operation, pageNo, offset int) {
				_, err := pager.AddInstruction(op, pageNo, offset)

				Expect(errors.Is(err, ErrInvalidInstruction)).To(BeTrue())
				Expect(pager.Instructions()).To(BeEmpty())
			},
			Entry("unknown operation", Operation("jmp"), 0, 0),
			Entry("negative page", OpAdd, -1, 0),
			Entry("page past the table", OpAdd, 7, 0),
			Entry("negative offset", OpAdd, 0, -1),
			Entry("offset past the frame", OpAdd, 0, 1024),
		)
	})

	Context("when executing instructions", func() {
		It("should translate a resident page without a fault", func() {
			inst, _ := pager.AddInstruction(OpAdd, 0, 100)

			result, err := pager.ExecuteInstruction(inst)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.PhysicalAddress).To(Equal(7268))
			Expect(result.PageFault).To(BeFalse())
			Expect(result.ReplacedPage).To(BeNil())
			Expect(pager.PageTable()[0].Modified).To(BeFalse())
		})

		It("should fault before translating an absent page", func() {
			inst, _ := pager.AddInstruction(OpSave, 5, 10)

			result, err := pager.ExecuteInstruction(inst)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.PageFault).To(BeTrue())
			Expect(result.ReplacedPage).NotTo(BeNil())
			Expect(*result.ReplacedPage).To(Equal(0))
			Expect(result.PhysicalAddress).To(Equal(7*1024 + 10))
			Expect(pager.PageTable()[5].Modified).To(BeTrue())
			Expect(pager.ResidencyList()).To(Equal([]int{1, 2, 3, 5}))
		})

		It("should record every execution", func() {
			var executed []ExecutionRecord
			pager.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
				if ctx.Pos == HookPosInstructionExecuted {
					executed = append(executed, ctx.Item.(ExecutionRecord))
				}
			}))

			a, _ := pager.AddInstruction(OpLoad, 1, 0)
			b, _ := pager.AddInstruction(OpLoad, 4, 0)
			c, _ := pager.AddInstruction(OpLoad, 4, 1)
			pager.ExecuteInstruction(a)
			pager.ExecuteInstruction(b)
			pager.ExecuteInstruction(c)

			history := pager.ExecutionHistory()
			Expect(history).To(HaveLen(3))
			Expect(history[0].InstructionID).To(Equal(1))
			Expect(history[1].PageFault).To(BeTrue())
			Expect(history[2].PageFault).To(BeFalse())
			Expect(history[2].PhysicalAddress).To(Equal(7*1024 + 1))
			Expect(executed).To(Equal(history))

			Expect(pager.Stats()).To(Equal(Stats{
				Executed:  3,
				Faults:    1,
				FaultRate: 33.33,
			}))
		})

		It("should reject an instruction outside the job", func() {
			_, err := pager.ExecuteInstruction(Instruction{
				ID:        1,
				Operation: OpAdd,
				PageNo:    9,
			})

			Expect(errors.Is(err, ErrInvalidInstruction)).To(BeTrue())
			Expect(pager.ExecutionHistory()).To(BeEmpty())
			Expect(pager.ResidencyList()).To(Equal([]int{0, 1, 2, 3}))
		})
	})

	It("should report zero stats before any execution", func() {
		Expect(pager.Stats()).To(Equal(Stats{}))
	})

	It("should delegate random instructions", func() {
		shape := InstructionShape{Operation: OpDivide, PageNo: 3, Offset: 512}
		instructionProvider.EXPECT().
			RandomInstruction(DefaultOperations, 7, 1024).
			Return(shape)

		Expect(pager.GenerateRandomInstruction()).To(Equal(shape))
		Expect(pager.Instructions()).To(BeEmpty())
	})

	It("should reset to a fresh job", func() {
		inst, _ := pager.AddInstruction(OpSave, 6, 0)
		pager.ExecuteInstruction(inst)

		frameProvider.EXPECT().
			UniqueFrameNumbers(4, 64).
			Return([]int{1, 2, 30, 31})

		resets := 0
		pager.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
			if ctx.Pos == HookPosPagingReset {
				resets++
			}
		}))

		pager.ResetSystem()

		Expect(resets).To(Equal(1))
		Expect(pager.Instructions()).To(BeEmpty())
		Expect(pager.ExecutionHistory()).To(BeEmpty())
		Expect(pager.ReplacementHistory()).To(BeEmpty())
		Expect(pager.ResidencyList()).To(Equal([]int{0, 1, 2, 3}))
		Expect(pager.PageTable()[2].FrameNo).To(Equal(30))
		Expect(pager.PageTable()[6].Modified).To(BeFalse())
		expectResidencyInvariants(pager)
	})

	It("should keep the residency invariants under random load", func() {
		source := random.NewSeededSource(42)
		p := MakeBuilder().
			WithFrameNumberProvider(source).
			WithDiskPositionProvider(source).
			WithInstructionProvider(RandomInstructionGenerator{Source: source}).
			WithTimeTeller(clock).
			Build("RandomPager")

		for i := 0; i < 300; i++ {
			shape := p.GenerateRandomInstruction()
			inst, err := p.AddInstruction(shape.Operation, shape.PageNo, shape.Offset)
			Expect(err).NotTo(HaveOccurred())

			result, err := p.ExecuteInstruction(inst)
			Expect(err).NotTo(HaveOccurred())

			entry := p.PageTable()[inst.PageNo]
			Expect(result.PhysicalAddress).To(Equal(entry.FrameNo*1024 + inst.Offset))

			expectResidencyInvariants(p)
		}

		Expect(p.Stats().Faults).To(Equal(len(p.ReplacementHistory())))
	})
})

type fixedFrames []int

func (f fixedFrames) UniqueFrameNumbers(count, _ int) []int {
	return f[:count]
}

var _ = Describe("Builder", func() {
	It("should reject more frames than pages", func() {
		Expect(func() {
			MakeBuilder().WithFrameCount(8).Build("Pager")
		}).To(Panic())
	})

	It("should reject more frames than the pool holds", func() {
		Expect(func() {
			MakeBuilder().WithMaxFrame(3).Build("Pager")
		}).To(Panic())
	})

	It("should reject a job without frames", func() {
		Expect(func() {
			MakeBuilder().WithFrameCount(0).Build("Pager")
		}).To(Panic())
	})

	It("should explain what is wrong without panicking", func() {
		err := MakeBuilder().WithPageCount(100).WithFrameCount(70).Validate()
		Expect(errors.Is(err, ErrInvalidGeometry)).To(BeTrue())
		Expect(err).To(MatchError(ContainSubstring("pool of 64")))

		err = MakeBuilder().WithOperations([]Operation{OpLoad, "jump"}).Validate()
		Expect(errors.Is(err, ErrInvalidGeometry)).To(BeTrue())

		Expect(MakeBuilder().WithFrameSize(0).Validate()).To(MatchError(ErrInvalidGeometry))
		Expect(MakeBuilder().WithOperations(nil).Validate()).To(MatchError(ErrInvalidGeometry))
		Expect(MakeBuilder().Validate()).To(Succeed())
	})

	It("should translate with the configured frame size and operations", func() {
		p := MakeBuilder().
			WithFrameSize(512).
			WithOperations([]Operation{OpLoad, OpSave}).
			WithFrameNumberProvider(fixedFrames{2, 9, 4, 6}).
			Build("Pager")

		Expect(p.PageCount()).To(Equal(7))
		Expect(p.FrameSize()).To(Equal(512))
		Expect(p.OperationTypes()).To(Equal([]Operation{OpLoad, OpSave}))

		_, err := p.AddInstruction(OpAdd, 0, 0)
		Expect(errors.Is(err, ErrInvalidInstruction)).To(BeTrue())

		_, err = p.AddInstruction(OpLoad, 0, 512)
		Expect(errors.Is(err, ErrInvalidInstruction)).To(BeTrue())

		inst, err := p.AddInstruction(OpLoad, 1, 511)
		Expect(err).NotTo(HaveOccurred())

		result, err := p.ExecuteInstruction(inst)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.PhysicalAddress).To(Equal(9*512 + 511))
	})

	It("should build with random providers by default", func() {
		p := MakeBuilder().WithPageCount(10).WithFrameCount(10).Build("Pager")

		Expect(p.ResidencyList()).To(Equal([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}))
		for _, entry := range p.PageTable() {
			Expect(entry.DiskPosition).To(MatchRegexp(`^[01][0-9][0-9]$`))
		}
		expectResidencyInvariants(p)
	})
})
