// Package id provides the identifier generators used by the simulators.
package id

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/xid"
)

// IDGenerator can generate IDs.
type IDGenerator interface {
	Generate() string
}

// NewIDGenerator returns a generator that emits "1", "2", "3", ...
func NewIDGenerator() IDGenerator {
	return &sequentialIDGenerator{}
}

// NewXIDGenerator returns a generator that emits globally unique xid strings.
func NewXIDGenerator() IDGenerator {
	return xidGenerator{}
}

// WithPrefix decorates a generator so that every ID starts with prefix.
func WithPrefix(prefix string, g IDGenerator) IDGenerator {
	return prefixedIDGenerator{prefix: prefix, inner: g}
}

type sequentialIDGenerator struct {
	nextID uint64
}

func (g *sequentialIDGenerator) Generate() string {
	idNumber := atomic.AddUint64(&g.nextID, 1)
	id := strconv.FormatUint(idNumber, 10)

	return id
}

type xidGenerator struct{}

func (g xidGenerator) Generate() string {
	return xid.New().String()
}

type prefixedIDGenerator struct {
	prefix string
	inner  IDGenerator
}

func (g prefixedIDGenerator) Generate() string {
	return g.prefix + g.inner.Generate()
}
