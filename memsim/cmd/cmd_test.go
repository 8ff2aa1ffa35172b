package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/memsim/datarecording"
	"github.com/sarchlab/memsim/paging"
	"github.com/sarchlab/memsim/partition"
	"github.com/sarchlab/memsim/tracing"
)

func run(args ...string) (string, error) {
	root := newRootCmd()
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)

	err := root.Execute()

	return out.String(), err
}

var _ = Describe("partition", func() {
	It("should run a scenario to completion", func() {
		out, err := run("partition",
			"--sizes", "20,20,10,10",
			"--durations", "5,-1,3,2")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("p-3 size 10 duration 3: running"))
		Expect(out).To(ContainSubstring("p-4 size 10 duration 2: waiting"))
		Expect(out).To(ContainSubstring("State at 5.00"))
		Expect(out).To(ContainSubstring("Waiting: []"))
		Expect(out).To(ContainSubstring("Usage 46.88%, 34 free in 2 holes, largest 20"))
		Expect(out).To(ContainSubstring(
			"3 finished, average wait 1.00, average turnaround 4.33"))
	})

	It("should stop early", func() {
		out, err := run("partition",
			"--sizes", "20,20,20,10",
			"--durations", "-1,-1,-1,-1",
			"--interval", "1",
			"--until", "2.5")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("State at 2.50"))
		Expect(out).NotTo(ContainSubstring("p-4"))
		Expect(out).To(ContainSubstring("p-3 size 20 duration -1: waiting"))
		Expect(out).To(ContainSubstring("Usage 78.13%"))
	})

	It("should log the events", func() {
		out, err := run("partition", "--sizes", "20", "--durations", "1", "--log")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("0.000000, event arrival-1"))
		Expect(out).To(ContainSubstring("created p-1"))
		Expect(out).To(ContainSubstring("finished p-1"))
	})

	It("should reject an invalid algorithm", func() {
		_, err := run("partition", "--algorithm", "next-fit")

		Expect(errors.Is(err, partition.ErrInvalidAlgorithm)).To(BeTrue())
	})

	It("should reject an OS larger than the memory", func() {
		_, err := run("partition", "--total", "8", "--os", "10")

		Expect(errors.Is(err, partition.ErrInvalidConfig)).To(BeTrue())
	})

	It("should record the run", func() {
		path := filepath.Join(GinkgoT().TempDir(), "run")

		_, err := run("partition",
			"--sizes", "20",
			"--durations", "1",
			"--record", path)
		Expect(err).NotTo(HaveOccurred())

		reader, err := datarecording.NewReader(path + ".sqlite3")
		Expect(err).NotTo(HaveOccurred())
		defer reader.Close()

		tracing.MapTables(reader)
		_, total, err := reader.Query(context.Background(),
			tracing.ProcessEventTable, datarecording.QueryParams{})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(4))
	})
})

var _ = Describe("report", func() {
	var path string

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "run")

		_, err := run("partition",
			"--sizes", "20",
			"--durations", "1",
			"--record", path)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should print every recorded table", func() {
		out, err := run("report", path)

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("exec_info: rows 1-4 of 4"))
		Expect(out).To(ContainSubstring("process_events: rows 1-4 of 4"))
		Expect(out).To(MatchRegexp(`Time\s+Allocator\s+Event\s+ProcessID`))
		Expect(out).To(ContainSubstring("ProcessCreated"))
		Expect(out).To(ContainSubstring("PartitionsMerged"))
		Expect(out).To(ContainSubstring("page_faults: no rows of 0"))
		Expect(out).To(ContainSubstring("executions: no rows of 0"))
	})

	It("should page and filter one table", func() {
		out, err := run("report", path+".sqlite3",
			"--table", "process_events",
			"--where", "ProcessID = 'p-1'",
			"--limit", "1",
			"--offset", "1")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("process_events: rows 2-2 of 3"))
		Expect(out).To(ContainSubstring("ProcessStarted"))
		Expect(out).NotTo(ContainSubstring("ProcessCreated"))
		Expect(out).NotTo(ContainSubstring("exec_info"))
	})

	It("should reject an unknown table", func() {
		_, err := run("report", path, "--table", "tlb_hits")

		Expect(err).To(MatchError(ContainSubstring("unknown table")))
	})

	It("should fail on a missing recording", func() {
		_, err := run("report", filepath.Join(GinkgoT().TempDir(), "none"))

		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("paging", func() {
	It("should execute random instructions", func() {
		out, err := run("paging", "--count", "5", "--seed", "3")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Initial page table"))
		Expect(out).To(ContainSubstring("#5 "))
		Expect(out).To(ContainSubstring("5 executed"))
		Expect(out).To(ContainSubstring("Resident (oldest first)"))
	})

	It("should reject more frames than pages", func() {
		_, err := run("paging", "--frames", "8")

		Expect(err).To(MatchError(paging.ErrInvalidGeometry))
	})

	It("should reject more frames than the pool holds", func() {
		_, err := run("paging", "--pages", "100", "--frames", "70")

		Expect(err).To(MatchError(paging.ErrInvalidGeometry))
		Expect(err).To(MatchError(ContainSubstring("pool of 64")))
	})

	It("should reject unknown operations", func() {
		_, err := run("paging", "--operations", "load,jump")

		Expect(err).To(MatchError(paging.ErrInvalidGeometry))
	})

	It("should only draw the chosen operations", func() {
		out, err := run("paging",
			"--count", "6",
			"--operations", "load",
			"--frame-size", "512")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("#6 load"))
		Expect(out).NotTo(MatchRegexp(`#\d+ (save|\+|-|\*|/) `))
		Expect(out).To(ContainSubstring("6 executed"))
	})
})

var _ = Describe("serve", func() {
	It("should check the paging geometry before serving", func() {
		_, err := run("serve", "--pages", "100", "--frames", "70")

		Expect(err).To(MatchError(paging.ErrInvalidGeometry))
	})
})

var _ = Describe("environment defaults", func() {
	AfterEach(func() {
		os.Unsetenv("MEMSIM_TOTAL_MEMORY")
		os.Unsetenv("MEMSIM_ALGORITHM")
		os.Unsetenv("MEMSIM_FRAMES")
	})

	It("should load a .env file", func() {
		env := filepath.Join(GinkgoT().TempDir(), ".env")
		Expect(os.WriteFile(env,
			[]byte("MEMSIM_TOTAL_MEMORY=128\nMEMSIM_ALGORITHM=worst-fit\n"),
			0o600)).To(Succeed())

		Expect(loadEnv(env)).To(Succeed())
		Expect(os.Getenv("MEMSIM_TOTAL_MEMORY")).To(Equal("128"))
	})

	It("should ignore a missing .env file", func() {
		Expect(loadEnv(filepath.Join(GinkgoT().TempDir(), ".env"))).To(Succeed())
	})

	It("should use the environment as flag defaults", func() {
		os.Setenv("MEMSIM_TOTAL_MEMORY", "128")
		os.Setenv("MEMSIM_ALGORITHM", "worst-fit")

		root := newRootCmd()
		Expect(applyEnvDefaultsToTree(root)).To(Succeed())

		partitionCmd, _, err := root.Find([]string{"partition"})
		Expect(err).NotTo(HaveOccurred())

		total, _ := partitionCmd.Flags().GetUint64("total")
		algorithm, _ := partitionCmd.Flags().GetString("algorithm")
		Expect(total).To(Equal(uint64(128)))
		Expect(algorithm).To(Equal("worst-fit"))
	})

	It("should reject malformed values", func() {
		os.Setenv("MEMSIM_FRAMES", "many")

		Expect(applyEnvDefaultsToTree(newRootCmd())).NotTo(Succeed())
	})
})
