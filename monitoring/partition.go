package monitoring

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sarchlab/memsim/partition"
)

func (m *Monitor) routePartition(r *mux.Router) {
	r.HandleFunc("/state", m.partitionState).Methods(http.MethodGet)
	r.HandleFunc("/config", m.reconfigure).Methods(http.MethodPost)
	r.HandleFunc("/algorithm", m.setAlgorithm).Methods(http.MethodPost)
	r.HandleFunc("/processes", m.listProcesses).Methods(http.MethodGet)
	r.HandleFunc("/processes", m.createProcess).Methods(http.MethodPost)
	r.HandleFunc("/processes/{id}", m.getProcess).Methods(http.MethodGet)
	r.HandleFunc("/processes/{id}", m.endProcess).Methods(http.MethodDelete)
	r.HandleFunc("/reset", m.resetPartition).Methods(http.MethodPost)
}

type partitionStateRsp struct {
	Config          partition.Config              `json:"config"`
	AvailableMemory uint64                        `json:"available_memory"`
	MemoryUsage     float64                       `json:"memory_usage"`
	Fragmentation   partition.FragmentationReport `json:"fragmentation"`
	Partitions      []partition.Partition         `json:"partitions"`
	Processes       []partition.Process           `json:"processes"`
	WaitingQueue    []string                      `json:"waiting_queue"`
}

func (m *Monitor) partitionState(w http.ResponseWriter, _ *http.Request) {
	a := m.allocator

	writeJSON(w, http.StatusOK, partitionStateRsp{
		Config:          a.Config(),
		AvailableMemory: a.AvailableMemory(),
		MemoryUsage:     a.MemoryUsage(),
		Fragmentation:   a.Fragmentation(),
		Partitions:      a.Partitions(),
		Processes:       a.Processes(),
		WaitingQueue:    a.WaitingQueue(),
	})
}

type reconfigureReq struct {
	TotalMemory uint64 `json:"total_memory"`
	OSSize      uint64 `json:"os_size"`
}

func (m *Monitor) reconfigure(w http.ResponseWriter, r *http.Request) {
	req := reconfigureReq{}
	if !decodeBody(w, r, &req) {
		return
	}

	err := m.allocator.Reconfigure(req.TotalMemory, req.OSSize)
	if errors.Is(err, partition.ErrInvalidConfig) {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	dieOnErr(err)

	writeJSON(w, http.StatusOK, m.allocator.Config())
}

type algorithmReq struct {
	Algorithm string `json:"algorithm"`
}

func (m *Monitor) setAlgorithm(w http.ResponseWriter, r *http.Request) {
	req := algorithmReq{}
	if !decodeBody(w, r, &req) {
		return
	}

	err := m.allocator.SetAlgorithm(partition.Algorithm(req.Algorithm))
	if errors.Is(err, partition.ErrInvalidAlgorithm) {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	dieOnErr(err)

	writeJSON(w, http.StatusOK, m.allocator.Config())
}

func (m *Monitor) listProcesses(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		writeJSON(w, http.StatusOK, m.allocator.Processes())
		return
	}

	writeJSON(w, http.StatusOK,
		m.allocator.ProcessesByStatus(partition.ProcessStatus(status)))
}

type createProcessReq struct {
	Size     uint64             `json:"size"`
	Duration partition.Duration `json:"duration"`
}

type createProcessRsp struct {
	ID string `json:"id"`
}

func (m *Monitor) createProcess(w http.ResponseWriter, r *http.Request) {
	req := createProcessReq{}
	if !decodeBody(w, r, &req) {
		return
	}

	id := m.allocator.CreateProcess(req.Size, req.Duration)

	writeJSON(w, http.StatusCreated, createProcessRsp{ID: id})
}

func (m *Monitor) getProcess(w http.ResponseWriter, r *http.Request) {
	p, ok := m.findProcessOr404(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (m *Monitor) endProcess(w http.ResponseWriter, r *http.Request) {
	p, ok := m.findProcessOr404(w, r)
	if !ok {
		return
	}

	m.allocator.EndProcess(p.ID)

	p, _ = m.allocator.Process(p.ID)
	writeJSON(w, http.StatusOK, p)
}

func (m *Monitor) findProcessOr404(
	w http.ResponseWriter,
	r *http.Request,
) (partition.Process, bool) {
	processID := mux.Vars(r)["id"]

	p, found := m.allocator.Process(processID)
	if !found {
		writeError(w, http.StatusNotFound,
			errors.New("process "+processID+" not found"))
	}

	return p, found
}

func (m *Monitor) resetPartition(w http.ResponseWriter, r *http.Request) {
	m.allocator.ResetSystem()
	m.partitionState(w, r)
}
