package paging

import "errors"

// ErrInvalidInstruction is returned for instructions that refer to an
// unknown operation, a page outside the page table or an offset outside the
// frame.
var ErrInvalidInstruction = errors.New("invalid instruction")

// ErrInvalidGeometry is returned by Builder.Validate when the frames, pages
// and operations cannot make up a job.
var ErrInvalidGeometry = errors.New("invalid paging geometry")

// ErrNoSuchPage and ErrPageResident are returned by RequestPageFault.
var (
	ErrNoSuchPage   = errors.New("no such page")
	ErrPageResident = errors.New("page already resident")
)
