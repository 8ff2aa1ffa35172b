package monitoring

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sarchlab/memsim/paging"
)

func (m *Monitor) routePaging(r *mux.Router) {
	r.HandleFunc("/state", m.pagingState).Methods(http.MethodGet)
	r.HandleFunc("/instructions", m.listInstructions).Methods(http.MethodGet)
	r.HandleFunc("/instructions", m.addInstruction).Methods(http.MethodPost)
	r.HandleFunc("/instructions/random", m.addRandomInstruction).
		Methods(http.MethodPost)
	r.HandleFunc("/instructions/{id}/execute", m.executeInstruction).
		Methods(http.MethodPost)
	r.HandleFunc("/pages/{page}/fault", m.pageFault).Methods(http.MethodPost)
	r.HandleFunc("/reset", m.resetPaging).Methods(http.MethodPost)
}

type pagingStateRsp struct {
	PageTable          []paging.PageTableEntry    `json:"page_table"`
	ResidencyList      []int                      `json:"residency_list"`
	AllocatedFrames    int                        `json:"allocated_frames"`
	PageCount          int                        `json:"page_count"`
	FrameSize          int                        `json:"frame_size"`
	OperationTypes     []paging.Operation         `json:"operation_types"`
	Instructions       []paging.Instruction       `json:"instructions"`
	ExecutionHistory   []paging.ExecutionRecord   `json:"execution_history"`
	ReplacementHistory []paging.ReplacementRecord `json:"replacement_history"`
	Stats              paging.Stats               `json:"stats"`
}

func (m *Monitor) pagingState(w http.ResponseWriter, _ *http.Request) {
	p := m.pager

	writeJSON(w, http.StatusOK, pagingStateRsp{
		PageTable:          p.PageTable(),
		ResidencyList:      p.ResidencyList(),
		AllocatedFrames:    p.AllocatedFrames(),
		PageCount:          p.PageCount(),
		FrameSize:          p.FrameSize(),
		OperationTypes:     p.OperationTypes(),
		Instructions:       p.Instructions(),
		ExecutionHistory:   p.ExecutionHistory(),
		ReplacementHistory: p.ReplacementHistory(),
		Stats:              p.Stats(),
	})
}

func (m *Monitor) listInstructions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, m.pager.Instructions())
}

func (m *Monitor) addInstruction(w http.ResponseWriter, r *http.Request) {
	req := paging.InstructionShape{}
	if !decodeBody(w, r, &req) {
		return
	}

	m.addShape(w, req)
}

func (m *Monitor) addRandomInstruction(w http.ResponseWriter, _ *http.Request) {
	m.addShape(w, m.pager.GenerateRandomInstruction())
}

func (m *Monitor) addShape(w http.ResponseWriter, shape paging.InstructionShape) {
	inst, err := m.pager.AddInstruction(
		shape.Operation, shape.PageNo, shape.Offset)
	if errors.Is(err, paging.ErrInvalidInstruction) {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	dieOnErr(err)

	writeJSON(w, http.StatusCreated, inst)
}

func (m *Monitor) executeInstruction(w http.ResponseWriter, r *http.Request) {
	instID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	for _, inst := range m.pager.Instructions() {
		if inst.ID != instID {
			continue
		}

		result, err := m.pager.ExecuteInstruction(inst)
		dieOnErr(err)

		writeJSON(w, http.StatusOK, result)

		return
	}

	writeError(w, http.StatusNotFound,
		fmt.Errorf("instruction %d not found", instID))
}

type pageFaultRsp struct {
	ReplacedPage int `json:"replaced_page"`
}

func (m *Monitor) pageFault(w http.ResponseWriter, r *http.Request) {
	pageNo, err := strconv.Atoi(mux.Vars(r)["page"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	replaced, err := m.pager.RequestPageFault(pageNo)

	switch {
	case errors.Is(err, paging.ErrNoSuchPage):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, paging.ErrPageResident):
		writeError(w, http.StatusConflict, err)
	default:
		dieOnErr(err)
		writeJSON(w, http.StatusOK, pageFaultRsp{ReplacedPage: replaced})
	}
}

func (m *Monitor) resetPaging(w http.ResponseWriter, r *http.Request) {
	m.pager.ResetSystem()
	m.pagingState(w, r)
}
