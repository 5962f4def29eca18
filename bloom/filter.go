// Package bloom provides page title deduplication using Bloom filters.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/wikitree"
)

// Defaults sized for a large wiki dump.
const (
	DefaultCapacity          = 10_000_000
	DefaultFalsePositiveRate = 0.0001
)

// Ensure Filter implements wikitree.TitleSet at compile time.
var _ wikitree.TitleSet = (*Filter)(nil)

// Filter remembers page titles. A title that was never added may still be
// reported as seen, at roughly the configured false positive rate.
type Filter struct {
	mu sync.RWMutex
	f  *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected titles
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add adds a title to the filter.
func (f *Filter) Add(title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.f.AddString(title)
}

// Test returns true if the title might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(title string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.f.TestString(title)
}

// EstimatedCount returns the approximate number of titles in the filter.
func (f *Filter) EstimatedCount() uint {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return uint(f.f.ApproximatedSize())
}
