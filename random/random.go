// Package random provides the default random providers of the simulators:
// frame numbers, disk positions, process durations and plain integers.
package random

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// A Source produces random values. It is safe for concurrent use.
type Source struct {
	lock sync.Mutex
	rng  *rand.Rand
}

// NewSource returns a Source seeded with the current time.
func NewSource() *Source {
	return NewSeededSource(time.Now().UnixNano())
}

// NewSeededSource returns a Source that always produces the same sequence for
// the same seed.
func NewSeededSource(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// Intn returns a number in [0, n).
func (s *Source) Intn(n int) int {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.rng.Intn(n)
}

// UniqueFrameNumbers returns count distinct numbers in [0, max), in the order
// they were drawn.
func (s *Source) UniqueFrameNumbers(count, max int) []int {
	if count > max {
		panic(fmt.Sprintf("cannot draw %d unique numbers below %d", count, max))
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	drawn := make(map[int]bool, count)
	numbers := make([]int, 0, count)

	for len(numbers) < count {
		n := s.rng.Intn(max)
		if drawn[n] {
			continue
		}

		drawn[n] = true
		numbers = append(numbers, n)
	}

	return numbers
}

// DiskPosition returns a three digit position. The first digit is 0 or 1 and
// the other two are 0 to 9.
func (s *Source) DiskPosition() string {
	s.lock.Lock()
	defer s.lock.Unlock()

	return fmt.Sprintf("%d%d%d", s.rng.Intn(2), s.rng.Intn(10), s.rng.Intn(10))
}

// Duration returns a number of seconds in [min, max].
func (s *Source) Duration(min, max int) int {
	s.lock.Lock()
	defer s.lock.Unlock()

	return min + s.rng.Intn(max-min+1)
}
